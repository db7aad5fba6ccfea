// package services defines the [Session] interface for the streaming service's web API
//
// Spotify is the only implementation.
package services

import (
	"context"

	"github.com/desertthunder/spotlist/internal/models"
	"golang.org/x/oauth2"
)

// Session is an authenticated connection to the streaming service.
//
// A Session is constructed once per run and passed to every operation that needs network access.
type Session interface {
	// CurrentUser returns the id of the authenticated user.
	CurrentUser(ctx context.Context) (string, error)

	// SearchTrack returns the top track match for query.
	// Returns [shared.ErrTrackNotFound] when the search has no results.
	SearchTrack(ctx context.Context, query string) (*models.Track, error)

	// CreatePlaylist creates a playlist owned by owner.
	CreatePlaylist(ctx context.Context, owner, name string, public bool) (*models.Playlist, error)

	// AddItems appends identifiers to the playlist in order.
	AddItems(ctx context.Context, playlistID string, identifiers []string) error

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}

// OAuthService is implemented by services that obtain a [Session] through the authorization code flow.
type OAuthService interface {
	// GetAuthURL returns the URL the user visits to grant access.
	GetAuthURL(state string) string

	// GetOAuthConfig returns the config used to exchange the authorization code.
	GetOAuthConfig() *oauth2.Config

	// OAuthenticate binds the service to token, after which it can act as a [Session].
	OAuthenticate(ctx context.Context, token *oauth2.Token) error
}
