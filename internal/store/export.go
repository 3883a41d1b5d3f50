package store

import (
	"regexp"
	"strings"

	"github.com/xelth-com/eckdocsgo/internal/models"
)

// slideMarkerRe matches the in-band slide boundary markers embedded by the
// slide pipeline.
var slideMarkerRe = regexp.MustCompile(`--- Slide: .* ---`)

// StructuredExport is the derived JSON view of a record's content. Exactly
// one shape is populated, selected by Type: "table", "slides", "text" or
// "unknown".
type StructuredExport struct {
	Type       string     `json:"type"`
	Headers    []string   `json:"headers,omitempty"`
	Rows       [][]string `json:"rows,omitempty"`
	SlideCount int        `json:"slideCount,omitempty"`
	Slides     []Slide    `json:"slides,omitempty"`
	Content    string     `json:"content,omitempty"`
	Message    string     `json:"message,omitempty"`
}

// Slide is one slide segment of a slide-marked record.
type Slide struct {
	Slide   int    `json:"slide"`
	Content string `json:"content"`
}

// ExportStructured derives the structured view of a record. Precedence:
// table rows, then slide-marked text, then plain text, then unknown.
func ExportStructured(rec *models.DocumentRecord) StructuredExport {
	if rec.IsTable && len(rec.TableRows) > 0 {
		return StructuredExport{
			Type:    "table",
			Headers: rec.TableRows[0],
			Rows:    rec.TableRows[1:],
		}
	}

	if slideMarkerRe.MatchString(rec.ExtractedText) {
		var slides []Slide
		for _, seg := range slideMarkerRe.Split(rec.ExtractedText, -1) {
			content := strings.TrimSpace(seg)
			if content == "" {
				continue
			}
			slides = append(slides, Slide{Slide: len(slides) + 1, Content: content})
		}
		return StructuredExport{
			Type:       "slides",
			SlideCount: len(slides),
			Slides:     slides,
		}
	}

	if rec.ExtractedText != "" {
		return StructuredExport{Type: "text", Content: rec.ExtractedText}
	}

	return StructuredExport{
		Type:    "unknown",
		Message: "No structured content could be extracted from this file.",
	}
}
