// Spotify implementation of [Session]
//
// Web API calls go through [spotify.Client]; authorization uses [oauth2] directly so the CLI can run its own callback listener.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/desertthunder/spotlist/internal/models"
	"github.com/desertthunder/spotlist/internal/shared"
	"github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1/"

	// ScopePlaylistModifyPublic allows creating and editing public playlists.
	ScopePlaylistModifyPublic = "playlist-modify-public"
)

var (
	_ Session      = (*SpotifyService)(nil)
	_ OAuthService = (*SpotifyService)(nil)
)

// SpotifyService implements [Session] and [OAuthService] for the Spotify Web API.
type SpotifyService struct {
	config     *oauth2.Config
	client     *spotify.Client
	httpClient *http.Client
	apiURL     string
	market     string
}

// SpotifyOption configures a [SpotifyService].
type SpotifyOption func(*SpotifyService)

// WithAPIURL points Web API requests at baseURL instead of api.spotify.com. The URL must end in a slash.
func WithAPIURL(baseURL string) SpotifyOption {
	return func(s *SpotifyService) { s.apiURL = baseURL }
}

// WithTokenURL points the authorization code exchange at tokenURL.
func WithTokenURL(tokenURL string) SpotifyOption {
	return func(s *SpotifyService) { s.config.Endpoint.TokenURL = tokenURL }
}

// WithMarket restricts search results to an ISO 3166-1 alpha-2 market.
func WithMarket(market string) SpotifyOption {
	return func(s *SpotifyService) { s.market = market }
}

// WithHTTPClient sets the base client used for the token exchange and API requests.
func WithHTTPClient(client *http.Client) SpotifyOption {
	return func(s *SpotifyService) { s.httpClient = client }
}

// NewSpotifyService creates a new Spotify service with the given application credentials and scopes.
func NewSpotifyService(creds shared.Credentials, scopes []string, opts ...SpotifyOption) (*SpotifyService, error) {
	if creds.ClientID == "" {
		return nil, fmt.Errorf("%w: missing client id", shared.ErrInvalidCredentials)
	}
	if creds.ClientSecret == "" {
		return nil, fmt.Errorf("%w: missing client secret", shared.ErrInvalidCredentials)
	}
	if u, err := url.Parse(creds.RedirectURI); err != nil || u.Host == "" {
		return nil, fmt.Errorf("%w: redirect uri %q is not an absolute URL", shared.ErrInvalidCredentials, creds.RedirectURI)
	}
	if len(scopes) == 0 {
		scopes = []string{ScopePlaylistModifyPublic}
	}

	s := &SpotifyService{
		config: &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			RedirectURL:  creds.RedirectURI,
			Scopes:       scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  spotifyAuthURL,
				TokenURL: spotifyTokenURL,
			},
		},
		apiURL: spotifyBaseURL,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state)
}

// GetOAuthConfig returns the underlying [oauth2.Config].
func (s *SpotifyService) GetOAuthConfig() *oauth2.Config {
	return s.config
}

// ExchangeContext returns ctx carrying the base HTTP client, so code exchanges use it as well.
func (s *SpotifyService) ExchangeContext(ctx context.Context) context.Context {
	if s.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
}

// OAuthenticate builds the Web API client from token.
//
// The [oauth2] transport refreshes the access token when it expires.
func (s *SpotifyService) OAuthenticate(ctx context.Context, token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("%w: empty token", shared.ErrAuthFailed)
	}

	httpClient := s.config.Client(s.ExchangeContext(ctx), token)
	s.client = spotify.New(httpClient, spotify.WithBaseURL(s.apiURL))
	return nil
}

func (s *SpotifyService) api() (*spotify.Client, error) {
	if s.client == nil {
		return nil, fmt.Errorf("%w: complete authorization first", shared.ErrNotAuthenticated)
	}
	return s.client, nil
}

// CurrentUser returns the authenticated user's id.
func (s *SpotifyService) CurrentUser(ctx context.Context) (string, error) {
	client, err := s.api()
	if err != nil {
		return "", err
	}

	user, err := client.CurrentUser(ctx)
	if err != nil {
		return "", wrapAPIError("current user", err)
	}
	return user.ID, nil
}

// SearchTrack runs a track search limited to one result.
func (s *SpotifyService) SearchTrack(ctx context.Context, query string) (*models.Track, error) {
	client, err := s.api()
	if err != nil {
		return nil, err
	}

	opts := []spotify.RequestOption{spotify.Limit(1)}
	if s.market != "" {
		opts = append(opts, spotify.Market(s.market))
	}

	result, err := client.Search(ctx, query, spotify.SearchTypeTrack, opts...)
	if err != nil {
		return nil, wrapAPIError("search", err)
	}

	if result.Tracks == nil || len(result.Tracks.Tracks) == 0 {
		return nil, fmt.Errorf("%w: %q", shared.ErrTrackNotFound, query)
	}

	top := result.Tracks.Tracks[0]
	track := &models.Track{
		ID:    string(top.ID),
		URI:   string(top.URI),
		Title: top.Name,
		Album: top.Album.Name,
	}
	if len(top.Artists) > 0 {
		track.Artist = top.Artists[0].Name
	}
	if track.URI == "" && track.ID != "" {
		track.URI = trackURIPrefix + track.ID
	}
	return track, nil
}

// CreatePlaylist creates a playlist for owner with an empty description.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, owner, name string, public bool) (*models.Playlist, error) {
	client, err := s.api()
	if err != nil {
		return nil, err
	}

	created, err := client.CreatePlaylistForUser(ctx, owner, name, "", public, false)
	if err != nil {
		return nil, wrapAPIError("create playlist", err)
	}

	playlist := &models.Playlist{
		ID:     string(created.ID),
		Name:   created.Name,
		URL:    created.ExternalURLs["spotify"],
		Owner:  created.Owner.ID,
		Public: created.IsPublic,
	}
	if playlist.Owner == "" {
		playlist.Owner = owner
	}
	if playlist.Name == "" {
		playlist.Name = name
	}
	return playlist, nil
}

// AddItems appends identifiers to a playlist in one request.
//
// Identifiers may be track URIs, open.spotify.com track links or bare ids; see [TrackID].
func (s *SpotifyService) AddItems(ctx context.Context, playlistID string, identifiers []string) error {
	client, err := s.api()
	if err != nil {
		return err
	}

	ids, err := TrackIDs(identifiers)
	if err != nil {
		return err
	}

	trackIDs := make([]spotify.ID, len(ids))
	for i, id := range ids {
		trackIDs[i] = spotify.ID(id)
	}

	if _, err := client.AddTracksToPlaylist(ctx, spotify.ID(playlistID), trackIDs...); err != nil {
		return wrapAPIError("add items", err)
	}
	return nil
}

// wrapAPIError tags err with [shared.ErrAPIRequest], and with [shared.ErrTokenExpired] for 401 responses.
func wrapAPIError(op string, err error) error {
	if apiStatus(err) == http.StatusUnauthorized {
		return fmt.Errorf("%w: %w: %s: %v", shared.ErrAPIRequest, shared.ErrTokenExpired, op, err)
	}
	return fmt.Errorf("%w: %s: %w", shared.ErrAPIRequest, op, err)
}

func apiStatus(err error) int {
	var value spotify.Error
	if errors.As(err, &value) {
		return value.Status
	}
	var ptr *spotify.Error
	if errors.As(err, &ptr) && ptr != nil {
		return ptr.Status
	}
	return 0
}
