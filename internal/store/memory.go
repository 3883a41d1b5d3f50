package store

import (
	"log"
	"os"
	"sync"
	"time"

	"github.com/xelth-com/eckdocsgo/internal/models"
)

// Memory is the in-process catalog. It accepts data loss on restart; a
// durable deployment swaps in the gorm-backed store behind the same
// interface. The id counter and the slice are the only mutable state and
// are serialized by the mutex.
type Memory struct {
	mu     sync.Mutex
	nextID int
	docs   []*models.DocumentRecord
}

// NewMemory creates an empty in-memory store. Ids start at 1.
func NewMemory() *Memory {
	return &Memory{nextID: 1}
}

// Create assigns the next id, stamps the record and appends it.
func (m *Memory) Create(rec *models.DocumentRecord) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec.ID = m.nextID
	m.nextID++
	rec.PdfURL = PdfURL(rec.ID)
	rec.CreatedAt = time.Now()
	m.docs = append(m.docs, rec)
	return rec.ID, nil
}

// List returns summaries for every record in insertion order.
func (m *Memory) List() ([]models.DocumentSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := make([]models.DocumentSummary, 0, len(m.docs))
	for _, doc := range m.docs {
		items = append(items, doc.Summary())
	}
	return items, nil
}

// Get returns the record with the given id, or ErrNotFound.
func (m *Memory) Get(id int) (*models.DocumentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, doc := range m.docs {
		if doc.ID == id {
			return doc, nil
		}
	}
	return nil, ErrNotFound
}

// Delete removes the record and releases its staged upload and canonical
// PDF. A failed unlink is logged and swallowed; it never blocks removal.
func (m *Memory) Delete(id int) error {
	m.mu.Lock()
	idx := -1
	for i, doc := range m.docs {
		if doc.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		m.mu.Unlock()
		return ErrNotFound
	}
	removed := m.docs[idx]
	m.docs = append(m.docs[:idx], m.docs[idx+1:]...)
	m.mu.Unlock()

	releaseFiles(removed)
	return nil
}

func releaseFiles(rec *models.DocumentRecord) {
	if rec.SourcePath != "" {
		if err := os.Remove(rec.SourcePath); err != nil && !os.IsNotExist(err) {
			log.Printf("⚠️ Failed to unlink uploaded file %s: %v", rec.SourcePath, err)
		}
	}
	if rec.CanonicalPath != "" {
		if err := os.Remove(rec.CanonicalPath); err != nil && !os.IsNotExist(err) {
			log.Printf("⚠️ Failed to unlink canonical pdf %s: %v", rec.CanonicalPath, err)
		}
	}
}
