package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"studycoach-backend/internal/models"
)

const (
	ExportFormatText = "txt"
	ExportFormatPDF  = "pdf"
)

type ExportService struct{}

func NewExportService() *ExportService {
	return &ExportService{}
}

// Text returns the raw artifact text of an entry.
func (s *ExportService) Text(kind models.ArtifactKind, entry models.HistoryEntry) string {
	if entry.Bundle == nil {
		return ""
	}
	return entry.Bundle.Text(kind)
}

// PDF renders text on A4 pages under a centered title, one multi-cell per
// line. Characters outside Latin-1 are written as '?'.
func (s *ExportService) PDF(title, text string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, false)
	pdf.SetAuthor("StudyCoach", false)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 10, tr(safeLatin1(title)), "", 1, "C", false, 0, "")
	pdf.Ln(10)

	for _, line := range strings.Split(text, "\n") {
		pdf.MultiCell(0, 10, tr(safeLatin1(line)), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// Export renders one artifact of entry in format. ok is false for an
// unsupported format.
func (s *ExportService) Export(kind models.ArtifactKind, entry models.HistoryEntry, format string) (data []byte, contentType string, ok bool, err error) {
	text := s.Text(kind, entry)
	switch format {
	case "", ExportFormatText:
		return []byte(text), "text/plain; charset=utf-8", true, nil
	case ExportFormatPDF:
		data, err = s.PDF(kind.Title(), text)
		return data, "application/pdf", true, err
	default:
		return nil, "", false, nil
	}
}

// ExportFilename is "<kind>_<videoID>.<ext>".
func ExportFilename(kind models.ArtifactKind, videoID, format string) string {
	if format == "" {
		format = ExportFormatText
	}
	return fmt.Sprintf("%s_%s.%s", kind, videoID, format)
}

func safeLatin1(s string) string {
	return strings.Map(func(r rune) rune {
		if r > 0xFF {
			return '?'
		}
		return r
	}, s)
}
