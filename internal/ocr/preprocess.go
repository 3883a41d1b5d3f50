package ocr

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	_ "image/gif"
	_ "image/jpeg"
)

// binarizeThreshold is the luminance cutoff for the black/white pass.
const binarizeThreshold = 180

// PrepareImage converts the image to grayscale, binarizes it at the
// threshold and writes the result as a temporary PNG. The caller removes
// the file via the returned cleanup func. Undecodable input is an error;
// callers fall back to the original image.
func PrepareImage(imagePath string) (string, func(), error) {
	f, err := os.Open(imagePath)
	if err != nil {
		return "", nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return "", nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := src.Bounds()
	dst := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			g := color.GrayModel.Convert(src.At(x, y)).(color.Gray)
			if g.Y >= binarizeThreshold {
				g.Y = 255
			} else {
				g.Y = 0
			}
			dst.SetGray(x, y, g)
		}
	}

	tmp, err := os.CreateTemp("", "ocr-prep-*.png")
	if err != nil {
		return "", nil, fmt.Errorf("create temp image: %w", err)
	}
	if err := png.Encode(tmp, dst); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("encode prepared image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("close prepared image: %w", err)
	}

	name := tmp.Name()
	return name, func() { os.Remove(name) }, nil
}
