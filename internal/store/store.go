package store

import (
	"errors"
	"fmt"

	"github.com/xelth-com/eckdocsgo/internal/models"
)

var (
	// ErrNotFound is returned when no record exists for the requested id.
	ErrNotFound = errors.New("document not found")
	// ErrArtifactMissing is returned when a record exists but its canonical
	// PDF is gone from disk.
	ErrArtifactMissing = errors.New("canonical pdf missing")
	// ErrPathEscape is returned when a record's artifact path resolves
	// outside the configured artifact root. Access denied, not not-found.
	ErrPathEscape = errors.New("artifact path outside artifact root")
)

// Store is the document catalog. Create assigns the next id (monotonic,
// starting at 1, never reused) and stamps the record; records are immutable
// afterwards. Delete removes the record and releases its backing files
// best-effort.
type Store interface {
	Create(rec *models.DocumentRecord) (int, error)
	List() ([]models.DocumentSummary, error)
	Get(id int) (*models.DocumentRecord, error)
	Delete(id int) error
}

// PdfURL is the stable public download path for a record's canonical PDF.
func PdfURL(id int) string {
	return fmt.Sprintf("/documents/%d/pdf", id)
}
