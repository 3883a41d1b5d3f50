package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xelth-com/eckdocsgo/internal/config"
	"github.com/xelth-com/eckdocsgo/internal/convert"
	"github.com/xelth-com/eckdocsgo/internal/database"
	"github.com/xelth-com/eckdocsgo/internal/handlers"
	"github.com/xelth-com/eckdocsgo/internal/ingest"
	"github.com/xelth-com/eckdocsgo/internal/ocr"
	"github.com/xelth-com/eckdocsgo/internal/slides"
	"github.com/xelth-com/eckdocsgo/internal/store"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Prepare working directories
	for _, dir := range []string{cfg.UploadDir, cfg.PdfDir, cfg.TempDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}

	// 3. Select the document catalog backend
	var catalog store.Store
	var db *database.DB
	switch cfg.StoreDriver {
	case "postgres":
		db, err = database.Connect(cfg.Database)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		catalog, err = store.NewGorm(db.DB)
		if err != nil {
			log.Fatalf("Failed to initialize document store: %v", err)
		}
		log.Println("✅ Document store: postgres")
	default:
		catalog = store.NewMemory()
		log.Println("✅ Document store: in-memory")
	}

	// 4. OCR engine
	var engine ocr.Engine
	switch cfg.OCR.Provider {
	case "gemini":
		gem, err := ocr.NewGemini(context.Background(), cfg.OCR.GeminiAPIKey, cfg.OCR.GeminiModel)
		if err != nil {
			log.Fatalf("Failed to init Gemini OCR: %v", err)
		}
		defer gem.Close()
		engine = gem
		log.Println("✅ OCR engine: gemini")
	default:
		engine = ocr.NewTesseract(ocr.TesseractConfig{
			BinPath:  cfg.OCR.TesseractBin,
			Language: cfg.OCR.Language,
		})
		log.Println("✅ OCR engine: tesseract")
	}

	// 5. Slide renderer (optional)
	var renderer slides.Renderer
	if cfg.Slides.ScriptPath != "" {
		sr, err := slides.NewScriptRenderer(slides.ScriptRendererConfig{
			ScriptPath: cfg.Slides.ScriptPath,
			PythonPath: cfg.Slides.PythonBin,
		})
		if err != nil {
			log.Printf("⚠️ Slide renderer unavailable: %v", err)
		} else {
			renderer = sr
			log.Println("✅ Slide renderer registered")
		}
	} else {
		log.Println("⚠️ SLIDES_SCRIPT not set, slide decks fall back to embedded text")
	}
	slidePipe := slides.NewPipeline(renderer, engine, cfg.TempDir)

	// 6. Remote conversion client (optional)
	var converter *convert.Client
	if cfg.CloudConvertAPIKey != "" {
		converter = convert.NewClient(cfg.CloudConvertAPIKey)
		log.Println("✅ Conversion service client ready")
	} else {
		log.Println("⚠️ CLOUDCONVERT_API_KEY not set, /documents/upload-and-convert is disabled")
	}

	// 7. Ingestion service and HTTP router
	svc := ingest.NewService(catalog, engine, slidePipe, converter, cfg.PdfDir)
	router := handlers.NewRouter(catalog, svc, cfg)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Channel to listen for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		log.Printf("🚀 Document service starting on port %s\n", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	sig := <-shutdown
	log.Printf("\n⚠️  Received signal: %v. Shutting down gracefully...\n", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	if db != nil {
		log.Println("🛑 Closing database connection...")
		if err := db.Close(); err != nil {
			log.Printf("Database close error: %v", err)
		}
	}

	log.Println("✅ Shutdown complete")
}
