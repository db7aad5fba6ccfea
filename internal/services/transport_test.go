package services_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/desertthunder/spotlist/internal/services"
	"github.com/desertthunder/spotlist/internal/shared"
	tu "github.com/desertthunder/spotlist/internal/testing"
	"golang.org/x/oauth2"
)

func newTransportService(t *testing.T, rt http.RoundTripper) *services.SpotifyService {
	t.Helper()

	creds := shared.Credentials{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURI:  "http://127.0.0.1:8080/callback",
	}
	svc, err := services.NewSpotifyService(creds, nil,
		services.WithHTTPClient(&http.Client{Transport: rt}),
		services.WithAPIURL("http://api.test/v1/"),
	)
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	if err := svc.OAuthenticate(context.Background(), &oauth2.Token{AccessToken: "access", TokenType: "Bearer"}); err != nil {
		t.Fatalf("failed to authenticate: %v", err)
	}
	return svc
}

func TestSpotifyService_Transport(t *testing.T) {
	t.Run("connection failure is an API error", func(t *testing.T) {
		svc := newTransportService(t, tu.NewMockRoundTripper(nil, errors.New("connection refused")))

		_, err := svc.CurrentUser(context.Background())
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected ErrAPIRequest, got %v", err)
		}
		if errors.Is(err, shared.ErrTokenExpired) {
			t.Error("transport failures are not token expiry")
		}
		if !strings.Contains(err.Error(), "connection refused") {
			t.Errorf("expected cause in message, got %v", err)
		}
	})

	t.Run("unreadable body is an API error", func(t *testing.T) {
		resp := &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       &tu.FCloser{},
		}
		svc := newTransportService(t, tu.NewMockRoundTripper(resp, nil))

		_, err := svc.SearchTrack(context.Background(), "anything")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected ErrAPIRequest, got %v", err)
		}
		if errors.Is(err, shared.ErrTrackNotFound) {
			t.Error("read failures must not be reported as missing tracks")
		}
	})

	t.Run("session is usable as a Session", func(t *testing.T) {
		var session services.Session = newTransportService(t, tu.NewMockRoundTripper(nil, errors.New("offline")))
		if session.Name() != "Spotify" {
			t.Errorf("unexpected name %q", session.Name())
		}
	})
}
