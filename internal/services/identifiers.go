package services

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/desertthunder/spotlist/internal/shared"
)

const trackURIPrefix = "spotify:track:"

// TrackID extracts the bare track id from an identifier.
//
// Accepted forms:
//   - spotify:track:<id>
//   - https://open.spotify.com/track/<id> (optionally with a locale segment such as /intl-de/ and a query string)
//   - a bare 22 character base62 id
func TrackID(identifier string) (string, error) {
	identifier = strings.TrimSpace(identifier)

	if id, ok := strings.CutPrefix(identifier, trackURIPrefix); ok {
		if isBase62ID(id) {
			return id, nil
		}
		return "", fmt.Errorf("%w: malformed track uri %q", shared.ErrInvalidInput, identifier)
	}

	if strings.HasPrefix(identifier, "http") {
		u, err := url.Parse(identifier)
		if err != nil {
			return "", fmt.Errorf("%w: malformed link %q: %v", shared.ErrInvalidInput, identifier, err)
		}

		segments := strings.Split(strings.Trim(u.Path, "/"), "/")
		for i := 0; i+1 < len(segments); i++ {
			if segments[i] == "track" && isBase62ID(segments[i+1]) {
				return segments[i+1], nil
			}
		}
		return "", fmt.Errorf("%w: %q is not a track link", shared.ErrInvalidInput, identifier)
	}

	if isBase62ID(identifier) {
		return identifier, nil
	}

	return "", fmt.Errorf("%w: unrecognised track identifier %q", shared.ErrInvalidInput, identifier)
}

// TrackIDs converts every identifier with [TrackID], preserving order.
func TrackIDs(identifiers []string) ([]string, error) {
	ids := make([]string, len(identifiers))
	for i, identifier := range identifiers {
		id, err := TrackID(identifier)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

func isBase62ID(s string) bool {
	if len(s) != 22 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		default:
			return false
		}
	}
	return true
}
