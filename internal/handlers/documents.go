package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/xelth-com/eckdocsgo/internal/convert"
	"github.com/xelth-com/eckdocsgo/internal/ingest"
	"github.com/xelth-com/eckdocsgo/internal/store"
)

const maxUploadMemory = 64 << 20

// uploadDocuments accepts a multipart batch, stages every file and runs
// the ingestion pipeline. The response carries one entry per file.
func (r *Router) uploadDocuments(w http.ResponseWriter, req *http.Request) {
	if err := req.ParseMultipartForm(maxUploadMemory); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid multipart payload")
		return
	}
	headers := req.MultipartForm.File["files"]
	if len(headers) == 0 {
		respondError(w, http.StatusBadRequest, "No files uploaded")
		return
	}

	// One result per file, in upload order; a staging failure occupies the
	// same slot a pipeline failure would.
	results := make([]ingest.FileResult, 0, len(headers))
	for _, h := range headers {
		f, err := r.stageFile(h)
		if err != nil {
			log.Printf("❌ Failed to stage %s: %v", h.Filename, err)
			results = append(results, ingest.FileResult{
				Success:          false,
				Message:          fmt.Sprintf("Error processing file %s: %v", h.Filename, err),
				OriginalFileName: h.Filename,
			})
			continue
		}
		results = append(results, r.ingest.ProcessBatch(req.Context(), []ingest.UploadedFile{f})...)
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Files processed",
		"results": results,
	})
}

// uploadAndConvert accepts a single file and canonicalizes it through the
// remote conversion service. Quota and rate-limit signals pass through as
// their own status codes.
func (r *Router) uploadAndConvert(w http.ResponseWriter, req *http.Request) {
	if err := req.ParseMultipartForm(maxUploadMemory); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid multipart payload")
		return
	}
	headers := req.MultipartForm.File["file"]
	if len(headers) == 0 {
		respondError(w, http.StatusBadRequest, "No file uploaded")
		return
	}

	f, err := r.stageFile(headers[0])
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to store upload: %v", err))
		return
	}

	rec, err := r.ingest.ConvertAndIngest(req.Context(), f)
	if err != nil {
		switch {
		case errors.Is(err, convert.ErrQuotaExceeded):
			respondError(w, http.StatusPaymentRequired, "Conversion service billing/quota required.")
		case errors.Is(err, convert.ErrRateLimited):
			respondError(w, http.StatusTooManyRequests, "Conversion service rate limit exceeded.")
		default:
			log.Printf("❌ uploadAndConvert error: %v", err)
			respondError(w, http.StatusInternalServerError, fmt.Sprintf("Error processing conversion: %v", err))
		}
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "File converted and processed successfully",
		"document": map[string]interface{}{
			"id":               rec.ID,
			"originalFileName": rec.OriginalFileName,
			"storedFileName":   rec.StoredFileName,
			"mimeType":         rec.MimeType,
			"size":             rec.Size,
			"preview":          rec.Preview,
			"pdfUrl":           rec.PdfURL,
			"isTable":          rec.IsTable,
		},
	})
}

// stageFile copies one uploaded part into the upload directory under a
// collision-safe stored name.
func (r *Router) stageFile(h *multipart.FileHeader) (ingest.UploadedFile, error) {
	src, err := h.Open()
	if err != nil {
		return ingest.UploadedFile{}, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	storedName := uuid.New().String() + filepath.Ext(h.Filename)
	path := filepath.Join(r.cfg.UploadDir, storedName)

	dst, err := os.Create(path)
	if err != nil {
		return ingest.UploadedFile{}, fmt.Errorf("create staged file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return ingest.UploadedFile{}, fmt.Errorf("write staged file: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return ingest.UploadedFile{}, fmt.Errorf("close staged file: %w", err)
	}

	mimeType := h.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	return ingest.UploadedFile{
		OriginalName: h.Filename,
		StoredName:   storedName,
		MimeType:     mimeType,
		Size:         h.Size,
		Path:         path,
	}, nil
}

// listDocuments returns summaries for the whole catalog
func (r *Router) listDocuments(w http.ResponseWriter, req *http.Request) {
	items, err := r.store.List()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch documents")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(items),
		"items": items,
	})
}

// getDocument returns one full record
func (r *Router) getDocument(w http.ResponseWriter, req *http.Request) {
	id, ok := documentID(w, req)
	if !ok {
		return
	}
	rec, err := r.store.Get(id)
	if err != nil {
		respondError(w, http.StatusNotFound, "Document not found")
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// deleteDocument removes a record; backing files are released best-effort
func (r *Router) deleteDocument(w http.ResponseWriter, req *http.Request) {
	id, ok := documentID(w, req)
	if !ok {
		return
	}
	if err := r.store.Delete(id); err != nil {
		respondError(w, http.StatusNotFound, "Document not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"id":      id,
	})
}

// downloadDocumentPdf streams the canonical PDF. The artifact path must
// resolve inside the configured PDF root.
func (r *Router) downloadDocumentPdf(w http.ResponseWriter, req *http.Request) {
	id, ok := documentID(w, req)
	if !ok {
		return
	}
	rec, err := r.store.Get(id)
	if err != nil {
		respondError(w, http.StatusNotFound, "Document not found")
		return
	}

	f, err := store.OpenArtifact(rec, r.cfg.PdfDir)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrPathEscape):
			log.Printf("⚠️ Attempt to access file outside pdf dir: %s", rec.CanonicalPath)
			respondError(w, http.StatusForbidden, "Access denied")
		case errors.Is(err, store.ErrArtifactMissing):
			respondError(w, http.StatusNotFound, "PDF not found")
		default:
			respondError(w, http.StatusInternalServerError, "Failed to open PDF")
		}
		return
	}
	defer f.Close()

	disposition := req.URL.Query().Get("disposition")
	if disposition != "attachment" {
		disposition = "inline"
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("%s; filename=%q", disposition, filepath.Base(rec.CanonicalPath)))

	if _, err := io.Copy(w, f); err != nil {
		log.Printf("⚠️ PDF stream error: %v", err)
	}
}

// downloadDocumentJSON sends the structured export as an attachment
func (r *Router) downloadDocumentJSON(w http.ResponseWriter, req *http.Request) {
	id, ok := documentID(w, req)
	if !ok {
		return
	}
	rec, err := r.store.Get(id)
	if err != nil {
		respondError(w, http.StatusNotFound, "Document not found")
		return
	}

	export := store.ExportStructured(rec)

	base := rec.OriginalFileName
	base = base[:len(base)-len(filepath.Ext(base))]
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", base+".json"))
	respondJSON(w, http.StatusOK, export)
}

func documentID(w http.ResponseWriter, req *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(req)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}
