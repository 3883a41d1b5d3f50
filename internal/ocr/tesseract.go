package ocr

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// TesseractConfig holds configuration for the local tesseract engine.
type TesseractConfig struct {
	BinPath     string // Path to tesseract executable (defaults to "tesseract")
	Language    string // Recognition language (defaults to "eng")
	PageSegMode string // Page segmentation hint (defaults to "3")
	Timeout     int    // Timeout in seconds per image (default: 60)
}

// Tesseract recognizes text by invoking the tesseract CLI.
type Tesseract struct {
	config TesseractConfig
}

// NewTesseract creates a tesseract-backed OCR engine.
func NewTesseract(config TesseractConfig) *Tesseract {
	if config.BinPath == "" {
		config.BinPath = "tesseract"
	}
	if config.Language == "" {
		config.Language = "eng"
	}
	if config.PageSegMode == "" {
		config.PageSegMode = "3"
	}
	if config.Timeout == 0 {
		config.Timeout = 60
	}
	return &Tesseract{config: config}
}

// Recognize runs tesseract against the image and returns its stdout.
func (t *Tesseract) Recognize(ctx context.Context, imagePath string) (string, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, time.Duration(t.config.Timeout)*time.Second)
	defer cancel()

	args := []string{
		imagePath,
		"stdout",
		"-l", t.config.Language,
		"--psm", t.config.PageSegMode,
	}
	cmd := exec.CommandContext(timeoutCtx, t.config.BinPath, args...)

	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("tesseract failed: %w\nStderr: %s", err, string(exitErr.Stderr))
		}
		return "", fmt.Errorf("tesseract failed: %w", err)
	}

	return strings.TrimSpace(string(output)), nil
}
