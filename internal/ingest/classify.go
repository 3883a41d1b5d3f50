package ingest

import (
	"path/filepath"
	"strings"
)

// Variant selects the extraction pipeline for a file.
type Variant string

const (
	VariantSlideDeck Variant = "slide-deck"
	VariantImage     Variant = "image"
	VariantGeneric   Variant = "generic"
)

// classifications maps extensions to pipeline variants, in precedence
// order. New formats are added here, not as new branching logic.
var classifications = []struct {
	variant Variant
	exts    []string
}{
	{VariantSlideDeck, []string{".ppt", ".pptx", ".odp"}},
	{VariantImage, []string{".jpg", ".jpeg", ".png", ".bmp", ".gif"}},
}

// Classify selects the pipeline variant for a declared file name. Files
// matching no entry take the generic path; classification never fails.
func Classify(name string) Variant {
	ext := strings.ToLower(filepath.Ext(name))
	for _, c := range classifications {
		for _, e := range c.exts {
			if ext == e {
				return c.variant
			}
		}
	}
	return VariantGeneric
}
