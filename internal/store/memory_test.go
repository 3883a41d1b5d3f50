package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xelth-com/eckdocsgo/internal/models"
)

func TestMemoryCreateAssignsSequentialIDs(t *testing.T) {
	m := NewMemory()

	for want := 1; want <= 3; want++ {
		id, err := m.Create(&models.DocumentRecord{OriginalFileName: "a.txt"})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if id != want {
			t.Errorf("Expected id %d, got %d", want, id)
		}
	}
}

func TestMemoryIDsNeverReused(t *testing.T) {
	m := NewMemory()

	id1, _ := m.Create(&models.DocumentRecord{OriginalFileName: "a.txt"})
	id2, _ := m.Create(&models.DocumentRecord{OriginalFileName: "b.txt"})

	if err := m.Delete(id1); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := m.Delete(id2); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	id3, _ := m.Create(&models.DocumentRecord{OriginalFileName: "c.txt"})
	if id3 != 3 {
		t.Errorf("Expected id 3 after deletions, got %d", id3)
	}
}

func TestMemoryCreateStampsRecord(t *testing.T) {
	m := NewMemory()

	rec := &models.DocumentRecord{OriginalFileName: "report.pdf"}
	id, err := m.Create(rec)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if rec.PdfURL != "/documents/1/pdf" {
		t.Errorf("Expected pdf url /documents/1/pdf, got %s", rec.PdfURL)
	}
	if rec.CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to be set")
	}

	got, err := m.Get(id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.OriginalFileName != "report.pdf" {
		t.Errorf("Expected original name report.pdf, got %s", got.OriginalFileName)
	}
}

func TestMemoryGetUnknownID(t *testing.T) {
	m := NewMemory()
	if _, err := m.Get(42); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMemoryListInsertionOrder(t *testing.T) {
	m := NewMemory()
	m.Create(&models.DocumentRecord{OriginalFileName: "first.txt"})
	m.Create(&models.DocumentRecord{OriginalFileName: "second.txt"})

	items, err := m.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}
	if items[0].OriginalFileName != "first.txt" || items[1].OriginalFileName != "second.txt" {
		t.Errorf("Unexpected order: %s, %s", items[0].OriginalFileName, items[1].OriginalFileName)
	}
}

func TestMemoryDoubleDelete(t *testing.T) {
	m := NewMemory()
	id, _ := m.Create(&models.DocumentRecord{OriginalFileName: "a.txt"})

	if err := m.Delete(id); err != nil {
		t.Fatalf("First delete failed: %v", err)
	}
	if err := m.Delete(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}

func TestMemoryDeleteReleasesFiles(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "staged.txt")
	pdf := filepath.Join(dir, "staged-canonical.pdf")
	for _, p := range []string{src, pdf} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}
	}

	m := NewMemory()
	id, _ := m.Create(&models.DocumentRecord{
		OriginalFileName: "staged.txt",
		SourcePath:       src,
		CanonicalPath:    pdf,
	})

	if err := m.Delete(id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("Expected staged upload to be removed")
	}
	if _, err := os.Stat(pdf); !os.IsNotExist(err) {
		t.Error("Expected canonical pdf to be removed")
	}
}

func TestMemoryDeleteSurvivesMissingFiles(t *testing.T) {
	m := NewMemory()
	id, _ := m.Create(&models.DocumentRecord{
		OriginalFileName: "gone.txt",
		SourcePath:       "/nonexistent/gone.txt",
		CanonicalPath:    "/nonexistent/gone-canonical.pdf",
	})

	if err := m.Delete(id); err != nil {
		t.Errorf("Delete should not fail on missing files, got %v", err)
	}
}
