package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/desertthunder/spotlist/internal/server"
	"github.com/desertthunder/spotlist/internal/services"
	"github.com/desertthunder/spotlist/internal/shared"
	"github.com/desertthunder/spotlist/internal/ui"
	"golang.org/x/oauth2"
)

// connectSpotify runs the authorization code flow and returns an authenticated Spotify session.
func (r *Runner) connectSpotify(ctx context.Context, creds shared.Credentials) (services.Session, error) {
	opts := []services.SpotifyOption{services.WithMarket(r.config.Spotify.Market)}
	if r.httpClient != nil {
		opts = append(opts, services.WithHTTPClient(r.httpClient))
	}
	opts = append(opts, r.spotifyOptions...)

	svc, err := services.NewSpotifyService(creds, r.config.Spotify.Scopes, opts...)
	if err != nil {
		return nil, err
	}

	token, err := r.doOAuth(svc.ExchangeContext(ctx), svc)
	if err != nil {
		return nil, err
	}

	if err := svc.OAuthenticate(ctx, token); err != nil {
		return nil, err
	}
	r.logger.Debug("spotify session ready", "expiry", token.Expiry)
	return svc, nil
}

// doOAuth serves the redirect URI locally, sends the user to the consent page and waits for a single callback.
func (r *Runner) doOAuth(ctx context.Context, oauthSrv services.OAuthService) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	config := oauthSrv.GetOAuthConfig()
	addr, _, err := server.CallbackAddress(config.RedirectURL)
	if err != nil {
		return nil, err
	}

	oauthHandler, err := server.NewOAuthHandler(ctx, config, state)
	if err != nil {
		return nil, err
	}
	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(shared.WithLogger(r.logger, "component", "oauth")))
	router.Handler(oauthHandler)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot listen on %s for the callback: %w", shared.ErrAuthFailed, addr, err)
	}

	httpServer := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Debug("starting OAuth callback server", "addr", listener.Addr().String())
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			r.logger.Warn("error shutting down server", "error", err)
		}
	}()

	authURL := oauthSrv.GetAuthURL(state)
	r.writePlain("→ Opening browser for Spotify authorization...\n")
	if err := r.openBrowser(authURL); err != nil {
		r.logger.Warn("failed to open browser automatically", "error", err)
		r.writePlainln("%s", ui.Warn("⚠ Could not open browser automatically."))
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	wait := r.config.Spotify.AuthTimeoutDuration()
	r.writePlain("→ Waiting for authorization (%s timeout)...\n", wait)

	timeout := time.NewTimer(wait)
	defer timeout.Stop()

	var result server.OAuthResult
	select {
	case result = <-oauthHandler.Result():
	case err := <-serverErrors:
		return nil, fmt.Errorf("%w: callback server: %w", shared.ErrAuthFailed, err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after %s", shared.ErrTimeout, wait)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if err := result.Error(); err != nil {
		return nil, err
	}
	if result.Token == nil {
		return nil, fmt.Errorf("%w: no token received", shared.ErrAuthFailed)
	}
	return result.Token, nil
}
