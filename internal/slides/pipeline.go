package slides

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xelth-com/eckdocsgo/internal/extract"
	"github.com/xelth-com/eckdocsgo/internal/ocr"
)

// ErrNoContent is returned when both strategies come up empty. A slide
// deck with no recoverable content at all is a caller-visible failure.
var ErrNoContent = errors.New("no text could be extracted")

// Pipeline extracts text from a slide deck. Strategies, in order, each
// replacing the prior on total failure:
//
//  1. render the deck to per-slide images and OCR each one
//  2. parse the deck's own text, falling back to OCR of the whole file
type Pipeline struct {
	renderer Renderer // nil when no renderer is configured
	engine   ocr.Engine
	tempDir  string
}

// NewPipeline creates a slide pipeline. renderer may be nil; the pipeline
// then starts at the parser strategy.
func NewPipeline(renderer Renderer, engine ocr.Engine, tempDir string) *Pipeline {
	return &Pipeline{renderer: renderer, engine: engine, tempDir: tempDir}
}

// ExtractText runs the strategy chain for one deck. baseName is the
// collision-safe stored name without extension; it keys the scratch
// directory so a retry of the same staging name replaces the previous
// run's output. staleArtifact, when non-empty, is a canonical PDF from a
// prior run that must not survive a re-render.
func (p *Pipeline) ExtractText(ctx context.Context, deckPath, originalName, baseName, staleArtifact string) (string, error) {
	if p.renderer != nil {
		text, err := p.renderAndOCR(ctx, deckPath, baseName, staleArtifact)
		if err != nil {
			log.Printf("⚠️ Slide rendering failed for %s, falling back to parser: %v", originalName, err)
		} else if strings.TrimSpace(text) != "" {
			return text, nil
		}
	}

	data, err := os.ReadFile(deckPath)
	if err != nil {
		return "", fmt.Errorf("read deck: %w", err)
	}
	text := extract.DeckText(data, filepath.Ext(originalName))

	if strings.TrimSpace(text) == "" {
		res := ocr.Run(ctx, p.engine, deckPath)
		text = res.Text
	}

	if strings.TrimSpace(text) == "" {
		return "", ErrNoContent
	}
	return text, nil
}

// renderAndOCR is strategy 1. Any pre-existing scratch directory or stale
// artifact for the same base name is removed first, so retries are
// idempotent.
func (p *Pipeline) renderAndOCR(ctx context.Context, deckPath, baseName, staleArtifact string) (string, error) {
	scratch := filepath.Join(p.tempDir, baseName)

	if staleArtifact != "" {
		if err := os.Remove(staleArtifact); err != nil && !os.IsNotExist(err) {
			log.Printf("⚠️ Cleanup warning: %v", err)
		}
	}
	if err := os.RemoveAll(scratch); err != nil {
		log.Printf("⚠️ Cleanup warning: %v", err)
	}
	if err := os.MkdirAll(scratch, 0o755); err != nil {
		return "", fmt.Errorf("create scratch dir: %w", err)
	}

	images, err := p.renderer.Render(ctx, deckPath, scratch)
	if err != nil {
		return "", err
	}
	sort.Strings(images)

	var b strings.Builder
	for _, img := range images {
		res := ocr.Run(ctx, p.engine, img)
		if res.Err != "" {
			log.Printf("⚠️ OCR failed on %s: %s", filepath.Base(img), res.Err)
			continue
		}
		fmt.Fprintf(&b, "\n--- Slide: %s ---\n%s\n", filepath.Base(img), res.Text)
	}
	return b.String(), nil
}
