package extract

import (
	"strings"
	"testing"
)

func slideXML(text string) string {
	return `<?xml version="1.0"?>
<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"
 xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">
  <p:cSld><p:spTree><p:sp><p:txBody>
    <a:p><a:r><a:t>` + text + `</a:t></a:r></a:p>
  </p:txBody></p:sp></p:spTree></p:cSld>
</p:sld>`
}

func TestDeckTextPPTXSlideOrder(t *testing.T) {
	// Entries added out of order; numeric slide order must win.
	data := buildZip(t, map[string]string{
		"ppt/slides/slide10.xml": slideXML("Tenth slide"),
		"ppt/slides/slide2.xml":  slideXML("Second slide"),
		"ppt/slides/slide1.xml":  slideXML("First slide"),
		"ppt/media/image1.png":   "binary",
	})

	text := DeckText(data, ".pptx")
	first := strings.Index(text, "First slide")
	second := strings.Index(text, "Second slide")
	tenth := strings.Index(text, "Tenth slide")
	if first == -1 || second == -1 || tenth == -1 {
		t.Fatalf("Missing slide text in %q", text)
	}
	if !(first < second && second < tenth) {
		t.Errorf("Slides out of order in %q", text)
	}
}

func TestDeckTextODP(t *testing.T) {
	content := `<?xml version="1.0"?>
<office:document-content xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"
 xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0">
  <office:body><office:presentation>
    <text:p>Presentation notes</text:p>
  </office:presentation></office:body>
</office:document-content>`
	data := buildZip(t, map[string]string{"content.xml": content})

	if text := DeckText(data, ".odp"); !strings.Contains(text, "Presentation notes") {
		t.Errorf("Unexpected odp text: %q", text)
	}
}

func TestDeckTextUnsupported(t *testing.T) {
	if text := DeckText([]byte("anything"), ".key"); text != "" {
		t.Errorf("Expected empty text for unsupported ext, got %q", text)
	}
}

func TestDeckTextCorruptArchive(t *testing.T) {
	if text := DeckText([]byte("not a zip"), ".pptx"); text != "" {
		t.Errorf("Expected empty text for corrupt archive, got %q", text)
	}
}
