// Plain-text inputs: the positional credentials file and the songs list.
package shared

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/spotlist/internal/models"
)

const credentialLines = 3

var credentialFields = [credentialLines]string{"client id", "client secret", "redirect uri"}

// Credentials holds the Spotify application credentials read from the credentials file.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// RequireFiles returns [ErrMissingFile] naming the first path that does not exist.
func RequireFiles(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("%w: %s", ErrMissingFile, path)
			}
			return fmt.Errorf("failed to stat %s: %w", path, err)
		}
	}
	return nil
}

// LoadCredentials parses the positional credentials file.
//
// Line 1 is the client id, line 2 the client secret, line 3 the redirect URI.
// Lines after the third are ignored.
func LoadCredentials(path string) (*Credentials, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}

	if len(lines) < credentialLines {
		return nil, &ParseError{
			Path:   path,
			Line:   len(lines) + 1,
			Reason: fmt.Sprintf("expected %d lines (client id, client secret, redirect uri), found %d", credentialLines, len(lines)),
			Err:    ErrInvalidCredentials,
		}
	}

	for i := range credentialLines {
		if lines[i] == "" {
			return nil, &ParseError{
				Path:   path,
				Line:   i + 1,
				Reason: credentialFields[i] + " is empty",
				Err:    ErrInvalidCredentials,
			}
		}
	}

	return &Credentials{
		ClientID:     lines[0],
		ClientSecret: lines[1],
		RedirectURI:  lines[2],
	}, nil
}

// LoadSongs reads song references, one per line.
//
// Blank lines and lines starting with '#' are skipped. Line numbers are kept for diagnostics.
func LoadSongs(path string) ([]models.SongReference, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}

	refs := make([]models.SongReference, 0, len(lines))
	for i, line := range lines {
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		refs = append(refs, models.SongReference{Line: i + 1, Text: line})
	}
	return refs, nil
}

// MaxLineLength is the longest line accepted in the credentials and songs files.
const MaxLineLength = 1024 * 1024

// readLines returns every line of path with surrounding whitespace removed.
func readLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingFile, path)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineLength)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, &ParseError{
				Path:   path,
				Line:   len(lines) + 1,
				Reason: fmt.Sprintf("line is longer than %d bytes", MaxLineLength),
				Err:    err,
			}
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	// Trailing blank lines carry no entries.
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	return lines, nil
}

const credentialsTemplate = `your_spotify_client_id
your_spotify_client_secret
http://127.0.0.1:8888/callback
`

const songsTemplate = `# One song per line.
# Lines starting with # are ignored.
# Links starting with http are added as-is; anything else is searched.
Daft Punk - One More Time
https://open.spotify.com/track/4cOdK2wGLETKBW3PvgPWqT
`

// CreateInputFiles writes template credentials and songs files, skipping any that already exist.
//
// Returns the paths that were written.
func CreateInputFiles(credentialsPath, songsPath string) ([]string, error) {
	var written []string
	for _, f := range []struct {
		path    string
		content string
	}{
		{credentialsPath, credentialsTemplate},
		{songsPath, songsTemplate},
	} {
		if _, err := os.Stat(f.path); err == nil {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
			return written, fmt.Errorf("failed to create directory for %s: %w", f.path, err)
		}
		if err := os.WriteFile(f.path, []byte(f.content), 0600); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", f.path, err)
		}
		written = append(written, f.path)
	}
	return written, nil
}
