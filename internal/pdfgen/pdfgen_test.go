package pdfgen

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

// matches page objects but not the /Type /Pages tree node
var pageMarkerRe = regexp.MustCompile(`/Type /Page[^s]`)

func readPDF(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Read output failed: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("Expected a PDF header, got %q", data[:8])
	}
	return data
}

func TestFromText(t *testing.T) {
	out := filepath.Join(t.TempDir(), "memo-canonical.pdf")
	if err := FromText("First paragraph.\n\nSecond paragraph.", out); err != nil {
		t.Fatalf("FromText failed: %v", err)
	}
	readPDF(t, out)
}

func TestFromTextEmpty(t *testing.T) {
	out := filepath.Join(t.TempDir(), "empty-canonical.pdf")
	if err := FromText("", out); err != nil {
		t.Fatalf("FromText failed on empty input: %v", err)
	}
	readPDF(t, out)
}

func TestFromTable(t *testing.T) {
	out := filepath.Join(t.TempDir(), "inventory-canonical.pdf")
	rows := [][]string{
		{"SKU", "Name", "Qty"},
		{"A-100", "Widget", "5"},
		{"B-200", "Gadget", "12"},
	}
	if err := FromTable(rows, out); err != nil {
		t.Fatalf("FromTable failed: %v", err)
	}
	readPDF(t, out)
}

func TestFromTableEmpty(t *testing.T) {
	out := filepath.Join(t.TempDir(), "blank-canonical.pdf")
	if err := FromTable(nil, out); err != nil {
		t.Fatalf("FromTable failed on empty input: %v", err)
	}
	readPDF(t, out)
}

func TestFromTableManyRowsPaginates(t *testing.T) {
	out := filepath.Join(t.TempDir(), "long-canonical.pdf")
	rows := [][]string{{"Col"}}
	for i := 0; i < 120; i++ {
		rows = append(rows, []string{"row value"})
	}
	if err := FromTable(rows, out); err != nil {
		t.Fatalf("FromTable failed: %v", err)
	}
	data := readPDF(t, out)
	if n := len(pageMarkerRe.FindAll(data, -1)); n < 2 {
		t.Errorf("Expected multiple pages for 120 rows, found %d page objects", n)
	}
}

func TestWriteOverwritesAtomically(t *testing.T) {
	out := filepath.Join(t.TempDir(), "doc-canonical.pdf")
	if err := FromText("original content", out); err != nil {
		t.Fatalf("First write failed: %v", err)
	}
	if err := FromText("replacement content", out); err != nil {
		t.Fatalf("Second write failed: %v", err)
	}
	readPDF(t, out)

	// No temp files may be left behind next to the artifact.
	entries, err := os.ReadDir(filepath.Dir(out))
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".canonical-") {
			t.Errorf("Leftover temp file: %s", e.Name())
		}
	}
	if len(entries) != 1 {
		t.Errorf("Expected exactly one file, got %d", len(entries))
	}
}
