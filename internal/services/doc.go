// Package services defines the [Session] interface used to talk to the music streaming provider and implements it for Spotify.
//
// # Session
//
// A [Session] is constructed once per run, after authorization, and passed explicitly to every network operation.
// Tests substitute a fake.
//
// # Spotify Implementation
//
// [SpotifyService] authorizes with the OAuth2 authorization code flow and wraps a [spotify.Client] built from the [oauth2.Config] client, so expired access tokens are refreshed by the transport.
//
// # Identifiers
//
// Playlist items are accepted as track URIs, open.spotify.com track links or bare ids.
// [TrackID] normalises them before they are sent to the API.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrNotAuthenticated] : OAuthenticate() not called
//   - [shared.ErrTokenExpired] : API answered 401
//   - [shared.ErrAPIRequest] : HTTP request failed
//   - [shared.ErrTrackNotFound] : search returned no tracks
//   - [shared.ErrInvalidInput] : identifier is not a track reference
package services
