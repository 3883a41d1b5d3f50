package slides

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// stubRenderer writes fake slide images into the destination directory.
type stubRenderer struct {
	slides int
	err    error
	calls  int
}

func (r *stubRenderer) Render(ctx context.Context, deckPath, destDir string) ([]string, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	var out []string
	for i := 1; i <= r.slides; i++ {
		p := filepath.Join(destDir, fmt.Sprintf("slide-%d.png", i))
		if err := os.WriteFile(p, []byte("png"), 0o644); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// stubEngine returns canned text per recognized image.
type stubEngine struct {
	texts map[string]string // keyed by image base name
	text  string            // fallback for any image
	err   error
}

func (e *stubEngine) Recognize(ctx context.Context, imagePath string) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	if t, ok := e.texts[filepath.Base(imagePath)]; ok {
		return t, nil
	}
	return e.text, nil
}

func stageDeck(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	return path
}

func pptxFixture(t *testing.T, slideText string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("ppt/slides/slide1.xml")
	if err != nil {
		t.Fatalf("Fixture failed: %v", err)
	}
	f.Write([]byte(`<p:sld xmlns:a="urn:a" xmlns:p="urn:p"><a:p><a:t>` + slideText + `</a:t></a:p></p:sld>`))
	if err := w.Close(); err != nil {
		t.Fatalf("Fixture failed: %v", err)
	}
	return buf.Bytes()
}

func TestPipelineRenderAndOCR(t *testing.T) {
	renderer := &stubRenderer{slides: 2}
	engine := &stubEngine{texts: map[string]string{
		"slide-1.png": "Contents of the opening slide.",
		"slide-2.png": "Contents of the closing slide.",
	}}
	p := NewPipeline(renderer, engine, t.TempDir())

	deck := stageDeck(t, "deck.pptx", pptxFixture(t, "embedded"))
	text, err := p.ExtractText(context.Background(), deck, "deck.pptx", "deck", "")
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}

	if !strings.Contains(text, "--- Slide: slide-1.png ---") {
		t.Errorf("Missing first slide marker in %q", text)
	}
	if !strings.Contains(text, "Contents of the closing slide.") {
		t.Errorf("Missing second slide text in %q", text)
	}
	i1 := strings.Index(text, "slide-1.png")
	i2 := strings.Index(text, "slide-2.png")
	if i1 == -1 || i2 == -1 || i1 > i2 {
		t.Errorf("Slide markers out of order in %q", text)
	}
}

func TestPipelineRenderFailureFallsBackToParser(t *testing.T) {
	renderer := &stubRenderer{err: errors.New("renderer crashed")}
	engine := &stubEngine{}
	p := NewPipeline(renderer, engine, t.TempDir())

	deck := stageDeck(t, "deck.pptx", pptxFixture(t, "Parsed deck text survives."))
	text, err := p.ExtractText(context.Background(), deck, "deck.pptx", "deck", "")
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if !strings.Contains(text, "Parsed deck text survives.") {
		t.Errorf("Expected parser fallback text, got %q", text)
	}
}

func TestPipelineNoRendererUsesParser(t *testing.T) {
	engine := &stubEngine{}
	p := NewPipeline(nil, engine, t.TempDir())

	deck := stageDeck(t, "deck.pptx", pptxFixture(t, "Direct parse."))
	text, err := p.ExtractText(context.Background(), deck, "deck.pptx", "deck", "")
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if !strings.Contains(text, "Direct parse.") {
		t.Errorf("Expected parsed text, got %q", text)
	}
}

func TestPipelineParserEmptyFallsBackToWholeFileOCR(t *testing.T) {
	engine := &stubEngine{text: "Whole file recognition output here."}
	p := NewPipeline(nil, engine, t.TempDir())

	deck := stageDeck(t, "legacy.ppt", []byte("binary legacy deck"))
	text, err := p.ExtractText(context.Background(), deck, "legacy.ppt", "legacy", "")
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if !strings.Contains(text, "Whole file recognition output here.") {
		t.Errorf("Expected OCR fallback text, got %q", text)
	}
}

func TestPipelineAllStrategiesEmpty(t *testing.T) {
	renderer := &stubRenderer{slides: 0}
	engine := &stubEngine{}
	p := NewPipeline(renderer, engine, t.TempDir())

	deck := stageDeck(t, "blank.ppt", []byte{0x00, 0x01})
	if _, err := p.ExtractText(context.Background(), deck, "blank.ppt", "blank", ""); !errors.Is(err, ErrNoContent) {
		t.Errorf("Expected ErrNoContent, got %v", err)
	}
}

func TestPipelineOCRFailureSkipsSlide(t *testing.T) {
	renderer := &stubRenderer{slides: 1}
	engine := &stubEngine{err: errors.New("engine down")}
	p := NewPipeline(renderer, engine, t.TempDir())

	deck := stageDeck(t, "deck.pptx", pptxFixture(t, "Parser text still works fine."))
	text, err := p.ExtractText(context.Background(), deck, "deck.pptx", "deck", "")
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	// All slides failed OCR, so the empty render output falls through.
	if !strings.Contains(text, "Parser text still works fine.") {
		t.Errorf("Expected fallback after per-slide OCR failures, got %q", text)
	}
}

func TestPipelineScratchReplacedOnRetry(t *testing.T) {
	tempDir := t.TempDir()
	renderer := &stubRenderer{slides: 1}
	engine := &stubEngine{text: "Some recognized slide content."}
	p := NewPipeline(renderer, engine, tempDir)

	// Leftover from a previous run of the same staging name.
	scratch := filepath.Join(tempDir, "deck")
	os.MkdirAll(scratch, 0o755)
	stale := filepath.Join(scratch, "old-slide.png")
	os.WriteFile(stale, []byte("old"), 0o644)

	deck := stageDeck(t, "deck.pptx", pptxFixture(t, "x"))
	if _, err := p.ExtractText(context.Background(), deck, "deck.pptx", "deck", ""); err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("Expected previous scratch contents to be removed")
	}
}

func TestPipelineRemovesStaleArtifact(t *testing.T) {
	tempDir := t.TempDir()
	renderer := &stubRenderer{slides: 1}
	engine := &stubEngine{text: "Some recognized slide content."}
	p := NewPipeline(renderer, engine, tempDir)

	staleArtifact := filepath.Join(t.TempDir(), "deck-canonical.pdf")
	os.WriteFile(staleArtifact, []byte("%PDF"), 0o644)

	deck := stageDeck(t, "deck.pptx", pptxFixture(t, "x"))
	if _, err := p.ExtractText(context.Background(), deck, "deck.pptx", "deck", staleArtifact); err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if _, err := os.Stat(staleArtifact); !os.IsNotExist(err) {
		t.Error("Expected stale canonical pdf to be removed before re-render")
	}
}
