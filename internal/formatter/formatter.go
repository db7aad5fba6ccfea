// package formatter writes the playlist record file and exports run history to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/spotlist/internal/models"
	"github.com/desertthunder/spotlist/internal/shared"
)

// Supported export formats
const (
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatText     = "txt"
	FormatJSON     = "json"
)

// RecordLine formats the single line written to the record file.
func RecordLine(name, url string) string {
	return fmt.Sprintf("%s: %s\n", name, url)
}

// WriteRecord overwrites path with the [RecordLine] for the playlist.
func WriteRecord(path, name, url string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create record directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(RecordLine(name, url)), 0644); err != nil {
		return fmt.Errorf("failed to write record file: %w", err)
	}
	return nil
}

// ExportToCSV converts a history entry to CSV format with columns: Position, Reference, Identifier, Title, Artist
func ExportToCSV(playlist *models.PersistedPlaylist) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "Reference", "Identifier", "Title", "Artist"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range playlist.Tracks() {
		record := []string{
			strconv.Itoa(track.Position + 1),
			track.Reference,
			track.Identifier,
			track.Title,
			track.Artist,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a history entry to Markdown format
func ExportToMarkdown(playlist *models.PersistedPlaylist) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", playlist.Name()))

	if playlist.URL() != "" {
		buf.WriteString(fmt.Sprintf("**Link**: <%s>\n\n", playlist.URL()))
	}

	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n", playlist.TrackCount()))
	if playlist.UnresolvedCount() > 0 {
		buf.WriteString(fmt.Sprintf("**Not found**: %d\n", playlist.UnresolvedCount()))
	}
	buf.WriteString(fmt.Sprintf("**Visibility**: %s\n", shared.VisibilityString(playlist.Public())))
	buf.WriteString(fmt.Sprintf("**Created**: %s\n\n", playlist.CreatedAt().Format("2006-01-02 15:04")))

	buf.WriteString("## Tracks\n\n")
	for i, track := range playlist.Tracks() {
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, trackLabel(track)))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a history entry to plain text format
func ExportToText(playlist *models.PersistedPlaylist) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", playlist.Name()))
	if playlist.URL() != "" {
		buf.WriteString(fmt.Sprintf("URL: %s\n", playlist.URL()))
	}
	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", playlist.TrackCount()))

	for i, track := range playlist.Tracks() {
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, trackLabel(track)))
	}

	return buf.Bytes(), nil
}

// ToJSON generates the pretty-printed JSON view of a history entry
func ToJSON(playlist *models.PersistedPlaylist) ([]byte, error) {
	return shared.MarshalJSON(playlist.JSON(), true)
}

// Export renders a history entry in the given format.
func Export(playlist *models.PersistedPlaylist, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatCSV:
		return ExportToCSV(playlist)
	case FormatMarkdown, "md":
		return ExportToMarkdown(playlist)
	case FormatText, "text":
		return ExportToText(playlist)
	case FormatJSON:
		return ToJSON(playlist)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q (use csv, markdown, txt or json)", shared.ErrInvalidArgument, format)
	}
}

// WriteExport exports a history entry to path.
//
// Defaults to {spotify id}_tracks.{ext} as the filename.
func WriteExport(playlist *models.PersistedPlaylist, format, path string) (string, error) {
	data, err := Export(playlist, format)
	if err != nil {
		return "", err
	}

	if path == "" {
		path = fmt.Sprintf("%s_tracks.%s", playlist.SpotifyID(), extension(format))
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}

func extension(format string) string {
	switch strings.ToLower(format) {
	case FormatMarkdown, "md":
		return "md"
	case FormatText, "text":
		return "txt"
	default:
		return strings.ToLower(format)
	}
}

// trackLabel prefers "Artist - Title" and falls back to the original reference for direct links.
func trackLabel(track models.PlaylistTrack) string {
	if track.Title == "" {
		return track.Reference
	}
	if track.Artist == "" {
		return track.Title
	}
	return fmt.Sprintf("%s - %s", track.Artist, track.Title)
}
