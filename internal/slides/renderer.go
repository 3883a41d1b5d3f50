// Package slides decomposes slide decks into text: render each slide to an
// image and OCR it, with a parser/direct-OCR fallback chain.
package slides

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Renderer rasterizes a slide deck into per-slide image files inside an
// empty destination directory. There is no partial-success signal beyond
// the files present afterwards.
type Renderer interface {
	Render(ctx context.Context, deckPath, destDir string) ([]string, error)
}

// ScriptRendererConfig holds configuration for the script-based renderer.
type ScriptRendererConfig struct {
	ScriptPath string // Path to the slide extraction script
	PythonPath string // Path to python executable (defaults to "python3")
	Timeout    int    // Timeout in seconds (default: 120)
}

// ScriptRenderer invokes an external script that converts a deck into one
// PNG per slide.
type ScriptRenderer struct {
	config ScriptRendererConfig
}

// NewScriptRenderer creates a script-backed slide renderer.
func NewScriptRenderer(config ScriptRendererConfig) (*ScriptRenderer, error) {
	if config.PythonPath == "" {
		config.PythonPath = "python3"
	}
	if config.Timeout == 0 {
		config.Timeout = 120
	}
	if config.ScriptPath == "" {
		return nil, fmt.Errorf("script path is required")
	}
	if _, err := os.Stat(config.ScriptPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("script not found at %s", config.ScriptPath)
	}
	return &ScriptRenderer{config: config}, nil
}

// Render executes the script and returns the produced PNG paths in
// lexicographic order.
func (r *ScriptRenderer) Render(ctx context.Context, deckPath, destDir string) ([]string, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, time.Duration(r.config.Timeout)*time.Second)
	defer cancel()

	cmd := exec.CommandContext(timeoutCtx, r.config.PythonPath, r.config.ScriptPath, deckPath, destDir)
	if _, err := cmd.Output(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("slide extraction failed: %w\nStderr: %s", err, string(exitErr.Stderr))
		}
		return nil, fmt.Errorf("slide extraction failed: %w", err)
	}

	entries, err := os.ReadDir(destDir)
	if err != nil {
		return nil, fmt.Errorf("read render output dir: %w", err)
	}
	var images []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".png") {
			continue
		}
		images = append(images, filepath.Join(destDir, e.Name()))
	}
	sort.Strings(images)
	return images, nil
}
