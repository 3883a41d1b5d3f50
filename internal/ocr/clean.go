package ocr

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// minLineLength is the shortest recognized line kept by the cleaning pass,
// in characters; anything at or below it is treated as OCR noise.
const minLineLength = 10

// Clean applies the deterministic post-recognition pass: drop short lines,
// lines without a single letter, and lines containing characters outside
// the allow-list. Surviving lines are joined with newlines.
func Clean(text string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) <= minLineLength {
			continue
		}
		if !hasLetter(line) {
			continue
		}
		if !allowedChars(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func allowedChars(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			continue
		}
		if strings.ContainsRune(`,.?!'"/()-`, r) {
			continue
		}
		return false
	}
	return true
}
