// package formatter provides functions to export a user's songs to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/desertthunder/favs/internal/models"
	"github.com/desertthunder/favs/internal/shared"
)

// Format names an export encoding.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatText     Format = "txt"
	FormatJSON     Format = "json"
)

// ParseFormat accepts the names used by the --format flag.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, s)
	}
}

// Extension returns the file extension used by [WriteExport], without the dot.
func (f Format) Extension() string {
	return string(f)
}

// SongExport is one user's song list at a point in time.
type SongExport struct {
	Owner      string
	ExportedAt time.Time
	Songs      []*models.Song
}

// songRecord is the JSON shape of a song.
type songRecord struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Artist string `json:"artist"`
	Link   string `json:"link,omitempty"`
}

// ExportToCSV converts a SongExport to CSV format with columns: ID, Name, Artist, Link
func ExportToCSV(export *SongExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Artist", "Link"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, song := range export.Songs {
		record := []string{song.ID(), song.Name(), song.Artist(), song.Link()}
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

// ExportToMarkdown converts a SongExport to a Markdown list, linking songs that have a link
func ExportToMarkdown(export *SongExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s's songs\n\n", export.Owner))
	if !export.ExportedAt.IsZero() {
		buf.WriteString(fmt.Sprintf("**Exported**: %s\n", export.ExportedAt.Format(time.RFC3339)))
	}
	buf.WriteString(fmt.Sprintf("**Songs**: %d\n\n", len(export.Songs)))

	buf.WriteString("## Songs\n\n")
	for i, song := range export.Songs {
		title := song.Name()
		if song.Link() != "" {
			title = fmt.Sprintf("[%s](%s)", title, song.Link())
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, song.Artist(), title))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a SongExport to plain text format
func ExportToText(export *SongExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("User: %s\n", export.Owner))
	buf.WriteString(fmt.Sprintf("Songs: %d\n\n", len(export.Songs)))

	for i, song := range export.Songs {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, song.Artist(), song.Name()))
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts a SongExport to an indented JSON array of songs
func ExportToJSON(export *SongExport) ([]byte, error) {
	records := make([]songRecord, 0, len(export.Songs))
	for _, song := range export.Songs {
		records = append(records, songRecord{ID: song.ID(), Name: song.Name(), Artist: song.Artist(), Link: song.Link()})
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal songs: %w", err)
	}
	return append(data, '\n'), nil
}

// Export encodes export in the given format.
func Export(export *SongExport, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(export)
	case FormatMarkdown:
		return ExportToMarkdown(export)
	case FormatText:
		return ExportToText(export)
	case FormatJSON:
		return ExportToJSON(export)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
}

// Write encodes export and writes it to w.
func Write(w io.Writer, export *SongExport, format Format) error {
	data, err := Export(export, format)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// WriteExport writes export to a file.
//
// Defaults to {owner}_songs.{ext} as the filename.
func WriteExport(export *SongExport, format Format, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_songs.%s", export.Owner, format.Extension())
	}

	data, err := Export(export, format)
	if err != nil {
		return "", fmt.Errorf("failed to generate export: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return filepath, nil
}
