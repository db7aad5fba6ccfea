// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/spotlist/internal/models"
	"github.com/desertthunder/spotlist/internal/services"
	"github.com/desertthunder/spotlist/internal/shared"
	"github.com/desertthunder/spotlist/internal/ui"
)

// TrackID returns a well-formed 22 character track id for n.
func TrackID(n int) string {
	return fmt.Sprintf("track%017d", n)
}

// TrackURI returns the track URI for [TrackID] n.
func TrackURI(n int) string {
	return "spotify:track:" + TrackID(n)
}

// CreateCall records one [FakeSession.CreatePlaylist] invocation.
type CreateCall struct {
	Owner  string
	Name   string
	Public bool
}

// FakeSession is a test double for [services.Session].
//
// Searches answer from Tracks; a query with no entry returns [shared.ErrTrackNotFound].
type FakeSession struct {
	mu sync.Mutex

	User      string
	Tracks    map[string]*models.Track
	UserErr   error
	SearchErr map[string]error
	CreateErr error
	AddErr    error

	UserCalls int
	Searches  []string
	Created   []CreateCall
	Added     [][]string
}

var _ services.Session = (*FakeSession)(nil)

func (f *FakeSession) Name() string { return "fake" }

func (f *FakeSession) CurrentUser(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UserCalls++
	if f.UserErr != nil {
		return "", f.UserErr
	}
	if f.User == "" {
		return "user-1", nil
	}
	return f.User, nil
}

func (f *FakeSession) SearchTrack(ctx context.Context, query string) (*models.Track, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Searches = append(f.Searches, query)
	if err, ok := f.SearchErr[query]; ok {
		return nil, err
	}
	if track, ok := f.Tracks[query]; ok {
		return track, nil
	}
	return nil, fmt.Errorf("%w: %q", shared.ErrTrackNotFound, query)
}

func (f *FakeSession) CreatePlaylist(ctx context.Context, owner, name string, public bool) (*models.Playlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Created = append(f.Created, CreateCall{Owner: owner, Name: name, Public: public})
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}
	id := fmt.Sprintf("playlist-%d", len(f.Created))
	return &models.Playlist{
		ID:     id,
		Name:   name,
		URL:    "https://open.spotify.com/playlist/" + id,
		Owner:  owner,
		Public: public,
	}, nil
}

func (f *FakeSession) AddItems(ctx context.Context, playlistID string, identifiers []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Added = append(f.Added, append([]string(nil), identifiers...))
	return f.AddErr
}

// AddedItems flattens every [FakeSession.AddItems] call in order.
func (f *FakeSession) AddedItems() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := []string{}
	for _, batch := range f.Added {
		items = append(items, batch...)
	}
	return items
}

// FakeConnector counts connections and hands out Session.
type FakeConnector struct {
	Session *FakeSession
	Err     error
	Calls   int
	Creds   shared.Credentials
}

func (c *FakeConnector) Connect(ctx context.Context, creds shared.Credentials) (services.Session, error) {
	c.Calls++
	c.Creds = creds
	if c.Err != nil {
		return nil, c.Err
	}
	return c.Session, nil
}

// FakePrompter answers prompts from a queue.
//
// Running out of answers returns [shared.ErrPromptAborted].
type FakePrompter struct {
	Answers   []string
	Questions []string
	Err       error
}

func (p *FakePrompter) Ask(ctx context.Context, prompt ui.Prompt) (string, error) {
	p.Questions = append(p.Questions, prompt.Question)
	if p.Err != nil {
		return "", p.Err
	}
	if len(p.Answers) == 0 {
		return "", shared.ErrPromptAborted
	}
	answer := p.Answers[0]
	p.Answers = p.Answers[1:]
	return answer, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
