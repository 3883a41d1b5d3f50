package models

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestMakePreviewShortTextUnmodified(t *testing.T) {
	text := "A short memo."
	if got := MakePreview(text); got != text {
		t.Errorf("Expected unmodified text, got %q", got)
	}
}

func TestMakePreviewTruncatesLongText(t *testing.T) {
	text := strings.Repeat("x", 800)
	got := MakePreview(text)
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("Expected truncation marker, got %q", got[len(got)-10:])
	}
	if n := utf8.RuneCountInString(strings.TrimSuffix(got, "...")); n != PreviewLimit {
		t.Errorf("Expected %d characters before the marker, got %d", PreviewLimit, n)
	}
}

func TestMakePreviewCountsCharactersNotBytes(t *testing.T) {
	// 300 characters but 600 bytes; must pass through unmodified.
	text := strings.Repeat("é", 300)
	if got := MakePreview(text); got != text {
		t.Errorf("Expected 300-character text unmodified, got %d bytes", len(got))
	}
}

func TestMakePreviewMultiByteTruncationIsValidUTF8(t *testing.T) {
	text := strings.Repeat("é", 600)
	got := MakePreview(text)
	if !utf8.ValidString(got) {
		t.Fatal("Truncated preview is not valid UTF-8")
	}
	if n := utf8.RuneCountInString(strings.TrimSuffix(got, "...")); n != PreviewLimit {
		t.Errorf("Expected %d characters before the marker, got %d", PreviewLimit, n)
	}
}

func TestMakePreviewExactLimit(t *testing.T) {
	text := strings.Repeat("y", PreviewLimit)
	if got := MakePreview(text); got != text {
		t.Errorf("Expected text at the limit unmodified, got %d chars", utf8.RuneCountInString(got))
	}
}
