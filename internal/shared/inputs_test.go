package shared

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestRequireFiles(t *testing.T) {
	dir := t.TempDir()
	present := writeFile(t, dir, "config.txt", "a\nb\nc\n")
	missing := filepath.Join(dir, "songs.txt")

	t.Run("all present", func(t *testing.T) {
		if err := RequireFiles(present); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("one missing", func(t *testing.T) {
		err := RequireFiles(present, missing)
		if !errors.Is(err, ErrMissingFile) {
			t.Fatalf("expected ErrMissingFile, got %v", err)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			t.Error("expected error to match fs.ErrNotExist")
		}
	})
}

func TestLoadCredentials(t *testing.T) {
	tt := []struct {
		name     string
		content  string
		want     *Credentials
		wantLine int
	}{
		{
			name:    "three lines",
			content: "id123\nsecret456\nhttp://127.0.0.1:8888/callback\n",
			want:    &Credentials{ClientID: "id123", ClientSecret: "secret456", RedirectURI: "http://127.0.0.1:8888/callback"},
		},
		{
			name:    "windows line endings and padding",
			content: "  id123 \r\nsecret456\r\nhttp://localhost:9090/cb\r\n",
			want:    &Credentials{ClientID: "id123", ClientSecret: "secret456", RedirectURI: "http://localhost:9090/cb"},
		},
		{
			name:    "extra lines ignored",
			content: "id\nsecret\nhttp://localhost/cb\nnotes go here\n",
			want:    &Credentials{ClientID: "id", ClientSecret: "secret", RedirectURI: "http://localhost/cb"},
		},
		{
			name:     "too few lines",
			content:  "id\nsecret\n",
			wantLine: 3,
		},
		{
			name:     "empty file",
			content:  "",
			wantLine: 1,
		},
		{
			name:     "blank secret",
			content:  "id\n\nhttp://localhost/cb\n",
			wantLine: 2,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "config.txt", tc.content)

			got, err := LoadCredentials(path)
			if tc.want == nil {
				var parseErr *ParseError
				if !errors.As(err, &parseErr) {
					t.Fatalf("expected *ParseError, got %v", err)
				}
				if parseErr.Line != tc.wantLine {
					t.Errorf("expected line %d, got %d", tc.wantLine, parseErr.Line)
				}
				if !errors.Is(err, ErrInvalidCredentials) {
					t.Error("expected error to wrap ErrInvalidCredentials")
				}
				return
			}

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if *got != *tc.want {
				t.Errorf("LoadCredentials() = %+v, want %+v", got, tc.want)
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadCredentials(filepath.Join(t.TempDir(), "nope.txt"))
		if !errors.Is(err, ErrMissingFile) {
			t.Errorf("expected ErrMissingFile, got %v", err)
		}
	})
}

func TestLoadSongs(t *testing.T) {
	content := `# road trip
Daft Punk - One More Time

https://open.spotify.com/track/4cOdK2wGLETKBW3PvgPWqT
   # indented comment
  Queen - Bohemian Rhapsody  
Daft Punk - One More Time
`
	path := writeFile(t, t.TempDir(), "songs.txt", content)

	refs, err := LoadSongs(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := []struct {
		line int
		text string
		link bool
	}{
		{2, "Daft Punk - One More Time", false},
		{4, "https://open.spotify.com/track/4cOdK2wGLETKBW3PvgPWqT", true},
		{6, "Queen - Bohemian Rhapsody", false},
		{7, "Daft Punk - One More Time", false},
	}

	if len(refs) != len(want) {
		t.Fatalf("expected %d references, got %d: %+v", len(want), len(refs), refs)
	}

	for i, w := range want {
		if refs[i].Line != w.line || refs[i].Text != w.text {
			t.Errorf("ref[%d] = %+v, want line %d text %q", i, refs[i], w.line, w.text)
		}
		if refs[i].IsLink() != w.link {
			t.Errorf("ref[%d].IsLink() = %v, want %v", i, refs[i].IsLink(), w.link)
		}
	}
}

func TestCreateInputFiles(t *testing.T) {
	dir := t.TempDir()
	credentials := filepath.Join(dir, "Configs", "config.txt")
	songs := filepath.Join(dir, "Configs", "songs.txt")

	written, err := CreateInputFiles(credentials, songs)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(written) != 2 {
		t.Fatalf("expected 2 files written, got %v", written)
	}

	if _, err := LoadCredentials(credentials); err != nil {
		t.Errorf("template credentials should parse, got %v", err)
	}

	refs, err := LoadSongs(songs)
	if err != nil {
		t.Fatalf("template songs should parse, got %v", err)
	}
	if len(refs) != 2 {
		t.Errorf("expected 2 template references, got %d", len(refs))
	}

	written, err = CreateInputFiles(credentials, songs)
	if err != nil {
		t.Fatalf("expected no error on second run, got %v", err)
	}
	if len(written) != 0 {
		t.Errorf("existing files should not be overwritten, wrote %v", written)
	}
}

func TestLongLines(t *testing.T) {
	dir := t.TempDir()

	t.Run("lines above the scanner default are read", func(t *testing.T) {
		query := strings.Repeat("a", 100*1024)
		path := writeFile(t, dir, "wide.txt", "first\n"+query+"\n")

		refs, err := LoadSongs(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(refs) != 2 || refs[1].Text != query {
			t.Fatalf("expected the long line to be kept, got %d references", len(refs))
		}
	})

	t.Run("oversized line is a parse error naming the line", func(t *testing.T) {
		path := writeFile(t, dir, "huge.txt", "first\nsecond\n"+strings.Repeat("b", MaxLineLength+1)+"\n")

		_, err := LoadSongs(path)
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("expected *ParseError, got %v", err)
		}
		if parseErr.Line != 3 || parseErr.Path != path {
			t.Errorf("expected %s line 3, got %s line %d", path, parseErr.Path, parseErr.Line)
		}
		if !errors.Is(err, bufio.ErrTooLong) {
			t.Errorf("expected bufio.ErrTooLong, got %v", err)
		}
	})

	t.Run("credentials file", func(t *testing.T) {
		path := writeFile(t, dir, "config.txt", strings.Repeat("c", MaxLineLength+1)+"\nsecret\nhttp://127.0.0.1:8888/callback\n")

		_, err := LoadCredentials(path)
		var parseErr *ParseError
		if !errors.As(err, &parseErr) || parseErr.Line != 1 {
			t.Fatalf("expected parse error on line 1, got %v", err)
		}
	})
}
