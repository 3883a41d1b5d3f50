// Package pdfgen renders the canonical PDF artifact for ingested content:
// flowing paragraphs for text, a ruled table with a styled header row for
// tabular rows. Writes are atomic from the caller's point of view.
package pdfgen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageMargin = 40.0 // pt
	lineHeight = 16.0
	paraGap    = 10.0
	rowHeight  = 20.0
	cellPad    = 4.0
)

var paragraphSplitRe = regexp.MustCompile(`\n{2,}`)

// FromText renders text as left-aligned flowing paragraphs. Input is split
// on blank-line runs; internal newlines collapse to spaces.
func FromText(text, outputPath string) error {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AddPage()
	pdf.SetFont("Times", "", 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, para := range paragraphSplitRe.Split(text, -1) {
		cleaned := strings.Join(strings.Fields(para), " ")
		if cleaned == "" {
			continue
		}
		pdf.MultiCell(0, lineHeight, tr(cleaned), "", "L", false)
		pdf.Ln(paraGap)
	}

	return writePDF(pdf, outputPath)
}

// FromTable renders rows as a ruled table. Row 0 is the header (shaded,
// bold); the column count comes from the header and every column gets an
// equal share of the content width. A row that would overflow the page
// starts a new one. Empty input produces a single placeholder page.
func FromTable(rows [][]string, outputPath string) error {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if len(rows) == 0 || len(rows[0]) == 0 {
		pdf.SetFont("Times", "I", 12)
		pdf.SetXY(pageMargin, pageMargin)
		pdf.CellFormat(0, lineHeight, "No data", "", 0, "L", false, 0, "")
		return writePDF(pdf, outputPath)
	}

	pageW, pageH := pdf.GetPageSize()
	contentW := pageW - 2*pageMargin
	colCount := len(rows[0])
	colW := contentW / float64(colCount)
	y := pageMargin

	for rowIndex, row := range rows {
		if y+rowHeight > pageH-pageMargin {
			pdf.AddPage()
			y = pageMargin
		}

		header := rowIndex == 0
		if header {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.SetFillColor(243, 244, 246)
		} else {
			pdf.SetFont("Helvetica", "", 10)
		}

		for col := 0; col < colCount; col++ {
			cell := ""
			if col < len(row) {
				cell = row[col]
			}
			txt := fitCell(pdf, tr(cell), colW-2*cellPad)
			pdf.SetXY(pageMargin+float64(col)*colW, y)
			pdf.CellFormat(colW, rowHeight, txt, "1", 0, "L", header, 0, "")
		}
		y += rowHeight
	}

	return writePDF(pdf, outputPath)
}

// fitCell truncates a translated string with an ellipsis so it fits the
// column width.
func fitCell(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}

// writePDF renders into a buffer and replaces outputPath in one rename, so
// a pre-existing artifact is never partially visible.
func writePDF(pdf *gofpdf.Fpdf, outputPath string) error {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}

	dir := filepath.Dir(outputPath)
	tmp, err := os.CreateTemp(dir, ".canonical-*.pdf")
	if err != nil {
		return fmt.Errorf("create temp pdf: %w", err)
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write pdf: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close pdf: %w", err)
	}
	if err := os.Rename(tmp.Name(), outputPath); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace pdf: %w", err)
	}
	return nil
}
