package models

import (
	"time"
)

// PreviewLimit is the number of characters of extracted text exposed in
// document previews.
const PreviewLimit = 500

// DocumentRecord is one ingested file in the catalog: provenance of the
// uploaded bytes, the extracted content, and the canonical PDF derived
// from it. Records are immutable once created.
type DocumentRecord struct {
	ID               int        `json:"id"`
	OriginalFileName string     `json:"originalFileName"`
	StoredFileName   string     `json:"storedFileName"`
	MimeType         string     `json:"mimeType"`
	Size             int64      `json:"size"`
	SourcePath       string     `json:"-"`
	CanonicalPath    string     `json:"-"`
	ExtractedText    string     `json:"extractedText"`
	TableRows        [][]string `json:"tableRows,omitempty"`
	IsTable          bool       `json:"isTable"`
	Preview          string     `json:"preview"`
	PdfURL           string     `json:"pdfUrl"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// DocumentSummary is the listing view of a record (no content payload).
type DocumentSummary struct {
	ID               int    `json:"id"`
	OriginalFileName string `json:"originalFileName"`
	StoredFileName   string `json:"storedFileName"`
	MimeType         string `json:"mimeType"`
	Size             int64  `json:"size"`
	PdfURL           string `json:"pdfUrl"`
}

// Summary returns the listing view of the record.
func (d *DocumentRecord) Summary() DocumentSummary {
	return DocumentSummary{
		ID:               d.ID,
		OriginalFileName: d.OriginalFileName,
		StoredFileName:   d.StoredFileName,
		MimeType:         d.MimeType,
		Size:             d.Size,
		PdfURL:           d.PdfURL,
	}
}

// MakePreview derives the preview shown in upload responses and exports:
// the first PreviewLimit characters of the text with a truncation marker.
// The limit counts characters, not bytes, so multi-byte text is never cut
// mid-rune.
func MakePreview(text string) string {
	runes := []rune(text)
	if len(runes) > PreviewLimit {
		return string(runes[:PreviewLimit]) + "..."
	}
	return text
}
