// Package ocr turns raster images into cleaned text. An Engine does the
// raw recognition; Run wraps it with image normalization and the
// deterministic cleaning pass.
package ocr

import (
	"context"
)

// Engine performs raw optical character recognition on one image file,
// assuming a single-column text layout.
type Engine interface {
	Recognize(ctx context.Context, imagePath string) (string, error)
}

// Result carries the cleaned text and, when the engine could not run at
// all, the captured failure reason. An empty Text with an empty Err is a
// valid outcome (image with no recognizable text).
type Result struct {
	Text string
	Err  string
}

// Run normalizes the image (grayscale + binarization), recognizes it with
// the engine and cleans the output. Engine failure is captured, not
// propagated; callers decide whether empty text fails their operation.
func Run(ctx context.Context, engine Engine, imagePath string) Result {
	path, cleanup, err := PrepareImage(imagePath)
	if err != nil {
		// Formats the normalizer cannot decode go to the engine as-is.
		path = imagePath
	} else {
		defer cleanup()
	}

	text, err := engine.Recognize(ctx, path)
	if err != nil {
		return Result{Err: err.Error()}
	}
	return Result{Text: Clean(text)}
}
