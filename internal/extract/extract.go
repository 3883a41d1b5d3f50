// Package extract pulls structured text or tabular rows out of native
// document formats. Raster images and slide decks are handled elsewhere
// (internal/ocr, internal/slides); everything routed to the generic
// ingestion path lands here.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Result is the outcome of extracting one file. Exactly one representation
// is meaningful: table-shaped results carry Rows (row 0 = header) with
// IsTable set, everything else is described by Text.
type Result struct {
	Text    string
	Rows    [][]string
	IsTable bool
}

// Extract reads the file at path and produces its text or tabular content.
// The declared original name decides the parser; the staged path only
// supplies bytes. Empty output is a valid result, not an error; only a
// hard parse failure on a recognized tabular format propagates.
func Extract(path, mimeType, originalName string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", path, err)
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(path))
	}

	switch ext {
	case ".xlsx", ".xlsm":
		rows, err := extractXLSX(data)
		if err != nil {
			return Result{}, fmt.Errorf("parse %s: %w", originalName, err)
		}
		return tableResult(rows), nil
	case ".xls":
		rows, err := extractXLS(data)
		if err != nil {
			return Result{}, fmt.Errorf("parse %s: %w", originalName, err)
		}
		return tableResult(rows), nil
	case ".csv":
		rows, err := extractCSV(data)
		if err != nil {
			return Result{}, fmt.Errorf("parse %s: %w", originalName, err)
		}
		return tableResult(rows), nil
	case ".pdf":
		return Result{Text: string(extractPDFText(data))}, nil
	case ".docx":
		text := extractDOCXText(data)
		if len(text) == 0 {
			text = extractPrintableText(data)
		}
		return Result{Text: string(text)}, nil
	case ".odt":
		text := extractODTText(data)
		if len(text) == 0 {
			text = extractPrintableText(data)
		}
		return Result{Text: string(text)}, nil
	case ".txt", ".md", ".text", ".markdown":
		return Result{Text: normalizeText(string(data))}, nil
	default:
		return Result{Text: string(extractPrintableText(data))}, nil
	}
}

// tableResult shapes parsed rows into a Result. A sheet with no rows at all
// is a valid empty text result, never an empty table (isTable implies at
// least a header row).
func tableResult(rows [][]string) Result {
	if len(rows) == 0 {
		return Result{}
	}
	return Result{Rows: rows, IsTable: true}
}

func normalizeText(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\r\n", "\n"))
}
