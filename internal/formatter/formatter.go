// package formatter renders mixes and their statistics to CSV, Markdown, plain text and JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/JavierDomi/spotify-explorer/internal/models"
	"github.com/JavierDomi/spotify-explorer/internal/shared"
)

// Output formats accepted by [Render].
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatCSV      = "csv"
	FormatJSON     = "json"
)

// Formats lists every supported output format.
var Formats = []string{FormatText, FormatMarkdown, FormatCSV, FormatJSON}

// Report is a track collection with optional playlist metadata and statistics.
type Report struct {
	Title    string              `json:"title"`
	Playlist *models.Playlist    `json:"playlist,omitempty"`
	Tracks   []models.Track      `json:"tracks"`
	Stats    *models.StatsBundle `json:"stats,omitempty"`
}

// ParseFormat normalizes a format name, accepting common aliases.
func ParseFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", FormatText, "txt", "plain":
		return FormatText, nil
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (want one of %s)", shared.ErrInvalidFlag, s, strings.Join(Formats, ", "))
	}
}

// Render converts report to the given format.
func Render(report *Report, format string) ([]byte, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}

	switch f {
	case FormatMarkdown:
		return ExportToMarkdown(report, "")
	case FormatCSV:
		return ExportToCSV(report)
	case FormatJSON:
		return shared.MarshalJSON(report, true)
	default:
		return ExportToText(report)
	}
}

// ExportToCSV converts the report's tracks to CSV with columns:
// ID, Title, Artists, Album, Released, Popularity, Duration, Source, URI
func ExportToCSV(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artists", "Album", "Released", "Popularity", "Duration", "Source", "URI"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range report.Tracks {
		record := []string{
			track.ID,
			track.Name,
			track.ArtistNames(),
			track.Album.Name,
			track.Album.ReleaseDate,
			popularityString(track.Popularity),
			shared.FormatDuration(track.DurationMS),
			track.Source,
			track.TrackURI(),
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

// ExportToMarkdown converts a report to Markdown with an optional cover image
func ExportToMarkdown(report *Report, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", report.title())

	if imageFilename != "" {
		fmt.Fprintf(&buf, "![Cover](%s)\n\n", imageFilename)
	}

	if pl := report.Playlist; pl != nil {
		if pl.Description != "" {
			fmt.Fprintf(&buf, "**Description**: %s\n\n", pl.Description)
		}
		fmt.Fprintf(&buf, "**Visibility**: %s\n", shared.VisibilityString(pl.Public))
	}
	fmt.Fprintf(&buf, "**Tracks**: %d\n\n", len(report.Tracks))

	buf.WriteString("## Tracks\n\n")
	for i, track := range report.Tracks {
		albumPart := ""
		if track.Album.Name != "" {
			albumPart = fmt.Sprintf(" (%s)", track.Album.Name)
		}
		fmt.Fprintf(&buf, "%d. %s - %s%s [%s]\n", i+1, track.ArtistNames(), track.Name, albumPart, shared.FormatDuration(track.DurationMS))
	}

	if s := report.Stats; s != nil {
		buf.WriteString("\n")
		writeMarkdownStats(&buf, s)
	}

	return buf.Bytes(), nil
}

func writeMarkdownStats(buf *bytes.Buffer, s *models.StatsBundle) {
	if len(s.Artists) > 0 {
		buf.WriteString("## Top Artists\n\n| # | Artist | Tracks | Popularity |\n|---|--------|--------|------------|\n")
		for i, a := range s.Artists {
			fmt.Fprintf(buf, "| %d | %s | %d | %s |\n", i+1, a.Name, a.Count, popularityString(a.Popularity))
		}
		buf.WriteString("\n")
	}

	if len(s.Genres) > 0 {
		buf.WriteString("## Genres\n\n| Genre | Count | Share |\n|-------|-------|-------|\n")
		for _, g := range s.Genres {
			fmt.Fprintf(buf, "| %s | %d | %s |\n", g.Name, g.Count, percent(g.Percentage))
		}
		buf.WriteString("\n")
	}

	if len(s.Decades) > 0 {
		buf.WriteString("## Decades\n\n")
		for _, d := range s.Decades {
			fmt.Fprintf(buf, "- %s: %d\n", d.Label, d.Count)
		}
		buf.WriteString("\n")
	}

	if p := s.Popularity; p != nil {
		fmt.Fprintf(buf, "## Popularity\n\n**Average**: %d (min %d, max %d)\n\n", p.Average, p.Min, p.Max)
		for _, b := range p.Histogram {
			fmt.Fprintf(buf, "- %s: %d\n", b.Label, b.Count)
		}
		buf.WriteString("\n")
	}

	if m := s.Mood; m != nil {
		fmt.Fprintf(buf, "## Mood\n\n**%s** (energy %.2f, danceability %.2f, valence %.2f)\n", m.Label, m.Energy, m.Danceability, m.Valence)
	}
}

// ExportToText converts a report to plain text
func ExportToText(report *Report) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist: %s\n", report.title())
	if report.Playlist != nil && report.Playlist.Description != "" {
		fmt.Fprintf(&buf, "Description: %s\n", report.Playlist.Description)
	}
	fmt.Fprintf(&buf, "Tracks: %d\n\n", len(report.Tracks))

	for i, track := range report.Tracks {
		fmt.Fprintf(&buf, "%d. %s - %s\n", i+1, track.ArtistNames(), track.Name)
	}

	if report.Stats != nil {
		buf.WriteString("\n")
		buf.Write(StatsToText(report.Stats))
	}

	return buf.Bytes(), nil
}

// StatsToText renders a statistics bundle as plain text sections.
func StatsToText(s *models.StatsBundle) []byte {
	var buf bytes.Buffer

	if len(s.Artists) > 0 {
		buf.WriteString("Top artists:\n")
		for i, a := range s.Artists {
			fmt.Fprintf(&buf, "  %2d. %s (%d)\n", i+1, a.Name, a.Count)
		}
	}

	if len(s.Genres) > 0 {
		buf.WriteString("Genres:\n")
		for _, g := range s.Genres {
			fmt.Fprintf(&buf, "  %-24s %3d  %s\n", g.Name, g.Count, percent(g.Percentage))
		}
	}

	if len(s.Decades) > 0 {
		buf.WriteString("Decades:\n")
		for _, d := range s.Decades {
			fmt.Fprintf(&buf, "  %-6s %s %d\n", d.Label, strings.Repeat("█", d.Count), d.Count)
		}
	}

	if p := s.Popularity; p != nil {
		fmt.Fprintf(&buf, "Popularity: avg %d, min %d, max %d\n", p.Average, p.Min, p.Max)
		for _, b := range p.Histogram {
			fmt.Fprintf(&buf, "  %-7s %s %d\n", b.Label, strings.Repeat("█", b.Count), b.Count)
		}
	}

	if m := s.Mood; m != nil {
		fmt.Fprintf(&buf, "Mood: %s (energy %.2f, danceability %.2f, valence %.2f)\n", m.Label, m.Energy, m.Danceability, m.Valence)
	}

	return buf.Bytes()
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	TracksFile string
	StatsFile  string
}

// WriteCSVExport writes {base}_tracks.csv and, when the report has statistics, {base}_stats.json.
func WriteCSVExport(report *Report, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = report.slug()
	}

	csvData, err := ExportToCSV(report)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	result := &CSVExportResult{TracksFile: baseFilepath + "_tracks.csv"}
	if err := os.WriteFile(result.TracksFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	if report.Stats != nil {
		statsJSON, err := shared.MarshalJSON(report.Stats, true)
		if err != nil {
			return nil, fmt.Errorf("failed to generate stats JSON: %w", err)
		}

		result.StatsFile = baseFilepath + "_stats.json"
		if err := os.WriteFile(result.StatsFile, statsJSON, 0644); err != nil {
			return nil, fmt.Errorf("failed to write stats file: %w", err)
		}
	}

	return result, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory  string
	Files      []string
	CoverImage string
}

// WriteMarkdownExport writes {dir}/README.md and, when imageURL downloads, {dir}/cover.jpg.
// A failed image download is logged as a warning and does not fail the export.
func WriteMarkdownExport(report *Report, outputDir string, imageURL string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = report.slug()
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	var coverImageFilename string
	if imageURL != "" {
		imageData, err := DownloadImage(imageURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to download cover image: %v\n", err)
		} else {
			coverImageFilename = "cover.jpg"
			coverImagePath := filepath.Join(outputDir, coverImageFilename)
			if err := os.WriteFile(coverImagePath, imageData, 0644); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save cover image: %v\n", err)
				coverImageFilename = ""
			} else {
				result.CoverImage = coverImagePath
				result.Files = append(result.Files, coverImagePath)
			}
		}
	}

	mdData, err := ExportToMarkdown(report, coverImageFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)
	return result, nil
}

// WriteTextExport writes the plain text report, defaulting to {slug}_tracks.txt.
func WriteTextExport(report *Report, path string) (string, error) {
	if path == "" {
		path = report.slug() + "_tracks.txt"
	}

	textData, err := ExportToText(report)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(path, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return path, nil
}

// WriteJSONExport writes the whole report as indented JSON.
func WriteJSONExport(report *Report, path string) (string, error) {
	if path == "" {
		path = report.slug() + ".json"
	}

	data, err := shared.MarshalJSON(report, true)
	if err != nil {
		return "", fmt.Errorf("JSON marshal failed: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("JSON write failed: %w", err)
	}
	return path, nil
}

// WriteManifest writes v as indented JSON to path.
func WriteManifest(v any, path string) error {
	data, err := shared.MarshalJSON(v, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

func (r *Report) title() string {
	switch {
	case r.Title != "":
		return r.Title
	case r.Playlist != nil && r.Playlist.Name != "":
		return r.Playlist.Name
	default:
		return "Mix"
	}
}

// slug is a filesystem-friendly name: the playlist ID when known, else the lowercased title.
func (r *Report) slug() string {
	if r.Playlist != nil && r.Playlist.ID != "" {
		return r.Playlist.ID
	}

	var b strings.Builder
	for _, c := range strings.ToLower(r.title()) {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteRune(c)
		case c == ' ' || c == '-' || c == '_':
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "mix"
	}
	return b.String()
}

func popularityString(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func percent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}
