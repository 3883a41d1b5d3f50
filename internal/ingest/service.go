// Package ingest runs the per-file ingestion lifecycle: classify, extract
// (with OCR fallback), render the canonical PDF, create the catalog
// record. Batches are processed sequentially to bound OCR and rendering
// pressure; one file's failure never aborts its siblings.
package ingest

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/xelth-com/eckdocsgo/internal/convert"
	"github.com/xelth-com/eckdocsgo/internal/extract"
	"github.com/xelth-com/eckdocsgo/internal/models"
	"github.com/xelth-com/eckdocsgo/internal/ocr"
	"github.com/xelth-com/eckdocsgo/internal/pdfgen"
	"github.com/xelth-com/eckdocsgo/internal/slides"
	"github.com/xelth-com/eckdocsgo/internal/store"
)

// UploadedFile is what the upload intake hands us per file: staged bytes
// plus the declared metadata. The stored name is collision-safe and
// distinct from the user-supplied one.
type UploadedFile struct {
	OriginalName string
	StoredName   string
	MimeType     string
	Size         int64
	Path         string
}

// FileResult is one entry of a batch response.
type FileResult struct {
	Success          bool              `json:"success"`
	Message          string            `json:"message"`
	Document         *DocumentResponse `json:"document,omitempty"`
	OriginalFileName string            `json:"originalFileName,omitempty"`
}

// DocumentResponse is the per-file success payload (no full content).
type DocumentResponse struct {
	ID               int    `json:"id"`
	OriginalFileName string `json:"originalFileName"`
	StoredFileName   string `json:"storedFileName"`
	MimeType         string `json:"mimeType"`
	Size             int64  `json:"size"`
	Preview          string `json:"preview"`
	PdfURL           string `json:"pdfUrl"`
	IsTable          bool   `json:"isTable"`
}

// Service owns the ingestion pipeline.
type Service struct {
	store     store.Store
	engine    ocr.Engine
	slides    *slides.Pipeline
	converter *convert.Client // nil when remote conversion is not configured
	pdfDir    string
}

// NewService wires the pipeline. converter may be nil.
func NewService(st store.Store, engine ocr.Engine, slidePipe *slides.Pipeline, converter *convert.Client, pdfDir string) *Service {
	return &Service{
		store:     st,
		engine:    engine,
		slides:    slidePipe,
		converter: converter,
		pdfDir:    pdfDir,
	}
}

// ProcessBatch ingests files one at a time, deliberately sequential. The
// result always holds one entry per input file, success or failure.
func (s *Service) ProcessBatch(ctx context.Context, files []UploadedFile) []FileResult {
	results := make([]FileResult, 0, len(files))
	for _, f := range files {
		rec, err := s.ProcessFile(ctx, f)
		if err != nil {
			log.Printf("❌ Error processing file %s: %v", f.OriginalName, err)
			results = append(results, FileResult{
				Success:          false,
				Message:          fmt.Sprintf("Error processing file %s: %v", f.OriginalName, err),
				OriginalFileName: f.OriginalName,
			})
			continue
		}
		results = append(results, FileResult{
			Success:  true,
			Message:  "File processed successfully",
			Document: responseFor(rec),
		})
	}
	return results
}

// ProcessFile ingests one file end to end. On any failure nothing is
// recorded: a partially rendered artifact is removed and the error goes
// into the batch result only.
func (s *Service) ProcessFile(ctx context.Context, f UploadedFile) (*models.DocumentRecord, error) {
	base := strings.TrimSuffix(f.StoredName, filepath.Ext(f.StoredName))
	pdfPath := filepath.Join(s.pdfDir, base+"-canonical.pdf")

	var content extract.Result
	switch Classify(f.OriginalName) {
	case VariantSlideDeck:
		text, err := s.slides.ExtractText(ctx, f.Path, f.OriginalName, base, pdfPath)
		if err != nil {
			return nil, err
		}
		content = extract.Result{Text: text}
	case VariantImage:
		// An image with no recognizable text is a valid empty record.
		res := ocr.Run(ctx, s.engine, f.Path)
		content = extract.Result{Text: res.Text}
	default:
		res, err := extract.Extract(f.Path, f.MimeType, f.OriginalName)
		if err != nil {
			return nil, err
		}
		content = res
	}

	if err := s.renderCanonical(content, pdfPath); err != nil {
		return nil, err
	}

	return s.createRecord(f, content, pdfPath)
}

// ConvertAndIngest is the remote-conversion path: the service produces the
// canonical PDF, and extraction runs against that PDF. Files outside the
// slide-deck variant take the normal local pipeline.
func (s *Service) ConvertAndIngest(ctx context.Context, f UploadedFile) (*models.DocumentRecord, error) {
	if Classify(f.OriginalName) != VariantSlideDeck {
		return s.ProcessFile(ctx, f)
	}
	if s.converter == nil {
		return nil, fmt.Errorf("remote conversion is not configured")
	}

	pdfBytes, err := s.converter.ConvertToPDF(ctx, f.Path, f.OriginalName, f.MimeType)
	if err != nil {
		return nil, err
	}

	base := strings.TrimSuffix(f.StoredName, filepath.Ext(f.StoredName))
	pdfPath := filepath.Join(s.pdfDir, base+".pdf")
	if err := os.WriteFile(pdfPath, pdfBytes, 0o644); err != nil {
		return nil, fmt.Errorf("save converted pdf: %w", err)
	}

	content, err := extract.Extract(pdfPath, "application/pdf", filepath.Base(pdfPath))
	if err != nil {
		os.Remove(pdfPath)
		return nil, err
	}

	return s.createRecord(f, content, pdfPath)
}

func (s *Service) renderCanonical(content extract.Result, pdfPath string) error {
	var err error
	if content.IsTable {
		err = pdfgen.FromTable(content.Rows, pdfPath)
	} else {
		err = pdfgen.FromText(content.Text, pdfPath)
	}
	if err != nil {
		return fmt.Errorf("render canonical pdf: %w", err)
	}
	return nil
}

func (s *Service) createRecord(f UploadedFile, content extract.Result, pdfPath string) (*models.DocumentRecord, error) {
	rec := &models.DocumentRecord{
		OriginalFileName: f.OriginalName,
		StoredFileName:   f.StoredName,
		MimeType:         f.MimeType,
		Size:             f.Size,
		SourcePath:       f.Path,
		CanonicalPath:    pdfPath,
		ExtractedText:    content.Text,
		TableRows:        content.Rows,
		IsTable:          content.IsTable,
		Preview:          models.MakePreview(content.Text),
	}
	if _, err := s.store.Create(rec); err != nil {
		os.Remove(pdfPath)
		return nil, fmt.Errorf("store record: %w", err)
	}
	return rec, nil
}

func responseFor(rec *models.DocumentRecord) *DocumentResponse {
	return &DocumentResponse{
		ID:               rec.ID,
		OriginalFileName: rec.OriginalFileName,
		StoredFileName:   rec.StoredFileName,
		MimeType:         rec.MimeType,
		Size:             rec.Size,
		Preview:          rec.Preview,
		PdfURL:           rec.PdfURL,
		IsTable:          rec.IsTable,
	}
}
