// package tasks resolves song references into playlist items and builds the playlist from them.
//
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotlist/internal/models"
	"github.com/desertthunder/spotlist/internal/services"
	"github.com/desertthunder/spotlist/internal/shared"
	"golang.org/x/time/rate"
)

// MaxItemsPerRequest is the largest number of items the add-items endpoint accepts in one call.
const MaxItemsPerRequest = 100

// BuildResult contains all data from a playlist build.
type BuildResult struct {
	Playlist *models.Playlist       // Created playlist
	Tracks   []models.ResolvedTrack // Items added, in input order
	Batches  int                    // Number of add-items calls made
}

// Engine defines the playlist operations used by the create command.
type Engine interface {
	// Resolve lazily maps references to playlist identifiers, searching free-text references.
	Resolve(ctx context.Context, session services.Session, refs []models.SongReference) iter.Seq2[models.ResolvedTrack, error]

	// Build drains tracks, creates the playlist for owner and adds the resolved identifiers in order.
	Build(ctx context.Context, session services.Session, owner, name string, tracks iter.Seq2[models.ResolvedTrack, error]) (*BuildResult, error)
}

// EngineOpts configures a [PlaylistEngine].
type EngineOpts struct {
	SearchRate float64               // Searches per second; zero or less disables pacing
	Public     bool                  // Visibility of created playlists
	Logger     *log.Logger           // Defaults to a discarding logger
	Progress   chan<- ProgressUpdate // Optional progress sink
}

// PlaylistEngine implements [Engine].
type PlaylistEngine struct {
	limiter  *rate.Limiter
	public   bool
	logger   *log.Logger
	progress chan<- ProgressUpdate
}

var _ Engine = (*PlaylistEngine)(nil)

// NewPlaylistEngine creates a new PlaylistEngine with the provided options.
func NewPlaylistEngine(opts EngineOpts) *PlaylistEngine {
	limit := rate.Inf
	if opts.SearchRate > 0 {
		limit = rate.Limit(opts.SearchRate)
	}

	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}

	return &PlaylistEngine{
		limiter:  rate.NewLimiter(limit, 1),
		public:   opts.Public,
		logger:   logger,
		progress: opts.Progress,
	}
}

// sendProgress delivers update to the progress channel, giving up only when ctx is done.
func (e *PlaylistEngine) sendProgress(ctx context.Context, update ProgressUpdate) {
	if e.progress == nil {
		return
	}
	select {
	case e.progress <- update:
	case <-ctx.Done():
	}
}

// Resolve returns a single-use sequence of resolved tracks in input order.
//
// Links pass through verbatim without a search. A search with no result is logged and skipped.
// Any other error is yielded once and ends the sequence. Iterating a second time yields [shared.ErrSequenceConsumed].
func (e *PlaylistEngine) Resolve(ctx context.Context, session services.Session, refs []models.SongReference) iter.Seq2[models.ResolvedTrack, error] {
	var consumed atomic.Bool

	return func(yield func(models.ResolvedTrack, error) bool) {
		if consumed.Swap(true) {
			yield(models.ResolvedTrack{}, shared.ErrSequenceConsumed)
			return
		}

		total := len(refs)
		for i, ref := range refs {
			if ref.IsLink() {
				e.sendProgress(ctx, linkTrackUpdate(i+1, total, ref))
				if !yield(models.ResolvedTrack{Reference: ref, Identifier: ref.Text}, nil) {
					return
				}
				continue
			}

			if session == nil {
				yield(models.ResolvedTrack{Reference: ref}, fmt.Errorf("%w: no session", shared.ErrServiceUnavailable))
				return
			}

			if err := e.limiter.Wait(ctx); err != nil {
				yield(models.ResolvedTrack{Reference: ref}, fmt.Errorf("line %d: %w", ref.Line, err))
				return
			}

			e.sendProgress(ctx, searchTracksUpdate(i+1, total, ref))
			track, err := session.SearchTrack(ctx, ref.Text)
			switch {
			case errors.Is(err, shared.ErrTrackNotFound):
				e.logger.Warn("track not found", "line", ref.Line, "query", ref.Text)
				e.sendProgress(ctx, trackNotFoundUpdate(i+1, total, ref))
				continue
			case err != nil:
				yield(models.ResolvedTrack{Reference: ref}, fmt.Errorf("search line %d (%q): %w", ref.Line, ref.Text, err))
				return
			}

			e.logger.Debug("resolved", "line", ref.Line, "uri", track.URI, "title", track.Title, "artist", track.Artist)
			if !yield(models.ResolvedTrack{Reference: ref, Identifier: track.URI, Track: track}, nil) {
				return
			}
		}
	}
}

// Build drains tracks, then creates the playlist and adds the identifiers in batches of [MaxItemsPerRequest].
//
// A resolution error aborts before anything is created. Identifiers are checked with [services.TrackID] up front
// so a malformed link cannot leave a half-filled playlist behind.
func (e *PlaylistEngine) Build(ctx context.Context, session services.Session, owner, name string, tracks iter.Seq2[models.ResolvedTrack, error]) (*BuildResult, error) {
	if session == nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrServiceUnavailable, "no session")
	}

	resolved := []models.ResolvedTrack{}
	for track, err := range tracks {
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, track)
	}

	identifiers := make([]string, len(resolved))
	for i, track := range resolved {
		if _, err := services.TrackID(track.Identifier); err != nil {
			return nil, fmt.Errorf("line %d: %w", track.Reference.Line, err)
		}
		identifiers[i] = track.Identifier
	}

	e.sendProgress(ctx, creatingPlaylistUpdate(name, e.public))
	playlist, err := session.CreatePlaylist(ctx, owner, name, e.public)
	if err != nil {
		return nil, fmt.Errorf("%w: create playlist %q: %w", shared.ErrAPIRequest, name, err)
	}
	e.sendProgress(ctx, createPlaylistUpdate(playlist))
	e.logger.Debug("playlist created", "id", playlist.ID, "url", playlist.URL)

	result := &BuildResult{Playlist: playlist, Tracks: resolved}

	if len(identifiers) == 0 {
		e.logger.Warn("no tracks resolved", "playlist", playlist.ID)
		return result, nil
	}

	total := len(identifiers)
	for start := 0; start < total; start += MaxItemsPerRequest {
		end := min(start+MaxItemsPerRequest, total)

		e.sendProgress(ctx, addTracksUpdate(end, total))
		if err := session.AddItems(ctx, playlist.ID, identifiers[start:end]); err != nil {
			return nil, fmt.Errorf("%w: add items %d-%d to playlist %s (playlist was created but is incomplete): %w",
				shared.ErrAPIRequest, start+1, end, playlist.ID, err)
		}
		result.Batches++
		playlist.TrackCount = end
	}

	return result, nil
}

// Unresolved returns the references that produced no track, in input order.
func Unresolved(refs []models.SongReference, tracks []models.ResolvedTrack) []models.SongReference {
	seen := make(map[int]bool, len(tracks))
	for _, track := range tracks {
		seen[track.Reference.Line] = true
	}

	missing := []models.SongReference{}
	for _, ref := range refs {
		if !seen[ref.Line] {
			missing = append(missing, ref)
		}
	}
	return missing
}
