package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/spotlist/internal/models"
	"github.com/desertthunder/spotlist/internal/shared"
)

const playlistColumns = `id, sequence, spotify_id, owner_id, name, url, public, songs_path, unresolved_count, created_at, updated_at, deleted_at`

// PlaylistRepository implements models.Repository[*models.PersistedPlaylist] for run history.
//
// Playlist rows and their ordered tracks are written in one transaction. Deletes are soft.
type PlaylistRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.PersistedPlaylist] = (*PlaylistRepository)(nil)

// NewPlaylistRepository creates a new PlaylistRepository with the given database connection
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Create inserts a new playlist and its tracks with generated ID and sequence
func (r *PlaylistRepository) Create(playlist *models.PersistedPlaylist) error {
	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	id := shared.GenerateID()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sequence, err := NextSequence(tx, "playlists")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	query := `
		INSERT INTO playlists (id, sequence, spotify_id, owner_id, name, url, public, songs_path, unresolved_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = tx.Exec(query,
		id,
		sequence,
		playlist.SpotifyID(),
		playlist.OwnerID(),
		playlist.Name(),
		playlist.URL(),
		playlist.Public(),
		playlist.SongsPath(),
		playlist.UnresolvedCount(),
		playlist.CreatedAt(),
		playlist.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert playlist: %w", err)
	}

	if err := insertTracks(tx, id, playlist.Tracks()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit playlist: %w", err)
	}

	playlist.SetID(id)
	playlist.SetSequence(sequence)
	return nil
}

// Get retrieves a playlist and its tracks by ID, excluding soft-deleted playlists
func (r *PlaylistRepository) Get(id string) (*models.PersistedPlaylist, error) {
	query := `SELECT ` + playlistColumns + ` FROM playlists WHERE id = ? AND deleted_at IS NULL`

	playlist, err := scanPlaylist(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadTracks(playlist); err != nil {
		return nil, err
	}
	return playlist, nil
}

// Latest retrieves the most recently created playlist.
func (r *PlaylistRepository) Latest() (*models.PersistedPlaylist, error) {
	playlists, err := r.List(map[string]any{"limit": 1})
	if err != nil {
		return nil, err
	}
	if len(playlists) == 0 {
		return nil, fmt.Errorf("%w: history is empty", shared.ErrPlaylistNotFound)
	}
	return playlists[0], nil
}

// Update modifies an existing playlist and replaces its tracks
func (r *PlaylistRepository) Update(playlist *models.PersistedPlaylist) error {
	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now().UTC()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE playlists
		SET name = ?, url = ?, public = ?, unresolved_count = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := tx.Exec(query,
		playlist.Name(),
		playlist.URL(),
		playlist.Public(),
		playlist.UnresolvedCount(),
		now,
		playlist.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update playlist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlist.ID())
	}

	if _, err := tx.Exec(`DELETE FROM playlist_tracks WHERE playlist_id = ?`, playlist.ID()); err != nil {
		return fmt.Errorf("failed to clear playlist tracks: %w", err)
	}
	if err := insertTracks(tx, playlist.ID(), playlist.Tracks()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit playlist: %w", err)
	}

	playlist.SetUpdatedAt(now)
	return nil
}

// Delete soft-deletes a playlist by ID
func (r *PlaylistRepository) Delete(id string) error {
	now := time.Now().UTC()

	query := `
		UPDATE playlists
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}

	return nil
}

// List retrieves playlists newest first, excluding soft-deleted playlists unless asked.
//
// Supported criteria: "owner_id" (string), "limit" (int) and "include_deleted" (bool).
func (r *PlaylistRepository) List(criteria map[string]any) ([]*models.PersistedPlaylist, error) {
	query := `SELECT ` + playlistColumns + ` FROM playlists WHERE 1 = 1`
	args := []any{}

	if all, ok := criteria["include_deleted"].(bool); !ok || !all {
		query += " AND deleted_at IS NULL"
	}

	if ownerID, ok := criteria["owner_id"].(string); ok && ownerID != "" {
		query += " AND owner_id = ?"
		args = append(args, ownerID)
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}

	playlists := []*models.PersistedPlaylist{}
	for rows.Next() {
		playlist, err := scanPlaylist(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		playlists = append(playlists, playlist)
	}

	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	rows.Close()

	for _, playlist := range playlists {
		if err := r.loadTracks(playlist); err != nil {
			return nil, err
		}
	}

	return playlists, nil
}

func (r *PlaylistRepository) loadTracks(playlist *models.PersistedPlaylist) error {
	rows, err := r.db.Query(`
		SELECT position, reference, identifier, title, artist
		FROM playlist_tracks
		WHERE playlist_id = ?
		ORDER BY position ASC
	`, playlist.ID())
	if err != nil {
		return fmt.Errorf("failed to query playlist tracks: %w", err)
	}
	defer rows.Close()

	tracks := []models.PlaylistTrack{}
	for rows.Next() {
		var t models.PlaylistTrack
		if err := rows.Scan(&t.Position, &t.Reference, &t.Identifier, &t.Title, &t.Artist); err != nil {
			return fmt.Errorf("failed to scan playlist track: %w", err)
		}
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}

	playlist.SetTracks(tracks)
	return nil
}

func insertTracks(tx *sql.Tx, playlistID string, tracks []models.PlaylistTrack) error {
	if len(tracks) == 0 {
		return nil
	}

	stmt, err := tx.Prepare(`
		INSERT INTO playlist_tracks (playlist_id, position, reference, identifier, title, artist)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare track insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range tracks {
		if _, err := stmt.Exec(playlistID, t.Position, t.Reference, t.Identifier, t.Title, t.Artist); err != nil {
			return fmt.Errorf("failed to insert track %d: %w", t.Position, err)
		}
	}
	return nil
}

// rowScanner is satisfied by [sql.Row] and [sql.Rows]
type rowScanner interface {
	Scan(dest ...any) error
}

// scanPlaylist scans a single row into a [models.PersistedPlaylist]
func scanPlaylist(row rowScanner) (*models.PersistedPlaylist, error) {
	var (
		id              string
		sequence        int
		spotifyID       string
		ownerID         string
		name            string
		url             string
		public          bool
		songsPath       string
		unresolvedCount int
		createdAt       time.Time
		updatedAt       time.Time
		deletedAt       sql.NullTime
	)

	err := row.Scan(&id, &sequence, &spotifyID, &ownerID, &name, &url, &public, &songsPath, &unresolvedCount, &createdAt, &updatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}

	var deleted *time.Time
	if deletedAt.Valid {
		deleted = &deletedAt.Time
	}

	return models.RestorePersistedPlaylist(
		id, sequence, spotifyID, ownerID, name, url, public,
		songsPath, unresolvedCount, createdAt, updatedAt, deleted,
	), nil
}
