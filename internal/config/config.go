package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	NodeEnv   string
	Port      string
	UploadDir string // staged original uploads
	PdfDir    string // canonical PDF artifacts
	TempDir   string // slide-render scratch directories

	StoreDriver string // "memory" (default) or "postgres"
	Database    DatabaseConfig

	OCR    OCRConfig
	Slides SlidesConfig

	CloudConvertAPIKey string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
}

// OCRConfig selects and configures the OCR engine.
type OCRConfig struct {
	Provider     string // "tesseract" (default) or "gemini"
	TesseractBin string
	Language     string
	GeminiAPIKey string
	GeminiModel  string
}

// SlidesConfig configures the external slide renderer.
type SlidesConfig struct {
	PythonBin  string
	ScriptPath string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		NodeEnv:   getEnv("NODE_ENV", "development"),
		Port:      getEnv("PORT", "3200"),
		UploadDir: getEnv("UPLOAD_DIR", "./uploads"),
		PdfDir:    getEnv("PDF_DIR", "./uploads/pdfs"),
		TempDir:   getEnv("TEMP_DIR", "./temp"),

		StoreDriver: getEnv("STORE_DRIVER", "memory"),
		Database: DatabaseConfig{
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnv("PG_PORT", "5432"),
			Username: getEnv("PG_USERNAME", "postgres"),
			Password: os.Getenv("PG_PASSWORD"),
			Database: getEnv("PG_DATABASE", "eckdocs"),
		},

		OCR: OCRConfig{
			Provider:     getEnv("OCR_PROVIDER", "tesseract"),
			TesseractBin: getEnv("TESSERACT_BIN", "tesseract"),
			Language:     getEnv("OCR_LANGUAGE", "eng"),
			GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
			GeminiModel:  os.Getenv("GEMINI_MODEL"),
		},
		Slides: SlidesConfig{
			PythonBin:  getEnv("PYTHON_BIN", "python3"),
			ScriptPath: os.Getenv("SLIDES_SCRIPT"),
		},

		CloudConvertAPIKey: os.Getenv("CLOUDCONVERT_API_KEY"),
	}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
