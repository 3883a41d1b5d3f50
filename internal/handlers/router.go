package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/xelth-com/eckdocsgo/internal/buildinfo"
	"github.com/xelth-com/eckdocsgo/internal/config"
	"github.com/xelth-com/eckdocsgo/internal/ingest"
	"github.com/xelth-com/eckdocsgo/internal/store"
)

// Router wraps the mux router with the catalog and the ingestion service
type Router struct {
	*mux.Router
	store  store.Store
	ingest *ingest.Service
	cfg    *config.Config
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(st store.Store, svc *ingest.Service, cfg *config.Config) *Router {
	r := &Router{
		Router: mux.NewRouter(),
		store:  st,
		ingest: svc,
		cfg:    cfg,
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Document routes
	docs := r.PathPrefix("/documents").Subrouter()
	docs.HandleFunc("/upload", r.uploadDocuments).Methods("POST")
	docs.HandleFunc("/upload-and-convert", r.uploadAndConvert).Methods("POST")
	docs.HandleFunc("", r.listDocuments).Methods("GET")
	docs.HandleFunc("/{id}", r.getDocument).Methods("GET")
	docs.HandleFunc("/{id}", r.deleteDocument).Methods("DELETE")
	docs.HandleFunc("/{id}/pdf", r.downloadDocumentPdf).Methods("GET")
	docs.HandleFunc("/{id}/json", r.downloadDocumentJSON).Methods("GET")

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":     "ok",
		"buildTime":  buildinfo.BuildTime,
		"commitHash": buildinfo.CommitHash,
		"startTime":  buildinfo.StartTime,
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"message": message,
	})
}
