package server

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"sync"

	"github.com/desertthunder/spotlist/internal/shared"
	"golang.org/x/oauth2"
)

// OAuthResult contains the result of an OAuth authorization flow.
type OAuthResult struct {
	Token *oauth2.Token
	err   error
}

func (o *OAuthResult) Error() error {
	return o.err
}

// OAuthHandler handles the single redirect of an authorization code flow.
// Implements the Handler interface for registration with a Router.
type OAuthHandler struct {
	ctx        context.Context
	config     *oauth2.Config
	state      string
	path       string
	resultChan chan OAuthResult
	once       sync.Once
	mu         sync.Mutex
	consumed   bool
}

// NewOAuthHandler creates a new OAuth handler with the given OAuth2 config and state token.
// The state token should be cryptographically random for CSRF protection.
//
// The handler serves the path of config.RedirectURL. ctx is used for the code exchange,
// so a client set with [oauth2.HTTPClient] is honoured.
func NewOAuthHandler(ctx context.Context, config *oauth2.Config, state string) (*OAuthHandler, error) {
	_, path, err := CallbackAddress(config.RedirectURL)
	if err != nil {
		return nil, err
	}

	return &OAuthHandler{
		ctx:        ctx,
		config:     config,
		state:      state,
		path:       path,
		resultChan: make(chan OAuthResult, 1),
	}, nil
}

// Routes returns the redirect path.
func (h *OAuthHandler) Routes() []string {
	return []string{h.path}
}

// ServeHTTP handles the OAuth callback request.
//
// Requests without state, code or error parameters are rejected without consuming the callback.
// The first real redirect is checked against the state token, exchanged, and its outcome sent on [OAuthHandler.Result].
func (h *OAuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if !query.Has("state") && !query.Has("code") && !query.Has("error") {
		renderPage(w, http.StatusBadRequest, page{Title: "Waiting for Spotify", Message: "This address only accepts the Spotify authorization redirect."})
		return
	}

	h.mu.Lock()
	if h.consumed {
		h.mu.Unlock()
		renderPage(w, http.StatusBadRequest, page{Title: "Already Processed", Message: "This authorization was already handled. Return to the terminal."})
		return
	}
	h.consumed = true
	h.mu.Unlock()

	if query.Get("state") != h.state {
		h.Send(OAuthResult{err: fmt.Errorf("%w: invalid state parameter", shared.ErrAuthFailed)})
		renderPage(w, http.StatusBadRequest, page{Title: "Authorization Failed", Message: "The state parameter did not match. Run spotlist again."})
		return
	}

	code := query.Get("code")
	if code == "" {
		reason := query.Get("error")
		if desc := query.Get("error_description"); desc != "" {
			reason += " - " + desc
		}
		h.Send(OAuthResult{err: fmt.Errorf("%w: %s", shared.ErrAuthFailed, reason)})
		renderPage(w, http.StatusBadRequest, page{Title: "Authorization Failed", Message: "Spotify returned: " + reason})
		return
	}

	token, err := h.config.Exchange(h.ctx, code)
	if err != nil {
		h.Send(OAuthResult{err: fmt.Errorf("%w: token exchange failed: %w", shared.ErrAuthFailed, err)})
		renderPage(w, http.StatusInternalServerError, page{Title: "Authorization Failed", Message: "The authorization code could not be exchanged for a token."})
		return
	}

	h.Send(OAuthResult{Token: token})
	renderPage(w, http.StatusOK, page{OK: true, Title: "✓ Authorization Successful", Message: "You can close this window and return to the terminal to name your playlist."})
}

// Send sends the OAuth result through the channel (only once).
func (h *OAuthHandler) Send(result OAuthResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the result channel for receiving OAuth flow completion.
//
// Channel will receive exactly one result and then be closed.
func (h *OAuthHandler) Result() <-chan OAuthResult {
	return h.resultChan
}

type page struct {
	OK      bool
	Title   string
	Message string
}

var pageTemplate = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>{{.Title}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { margin: 0 0 1rem 0; }
        h1.ok { color: #1DB954; }
        h1.failed { color: #E22134; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1 class="{{if .OK}}ok{{else}}failed{{end}}">{{.Title}}</h1>
        <p>{{.Message}}</p>
    </div>
</body>
</html>
`))

func renderPage(w http.ResponseWriter, status int, p page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	pageTemplate.Execute(w, p)
}
