package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xelth-com/eckdocsgo/internal/models"
)

// OpenArtifact opens a record's canonical PDF for streaming. The artifact
// path must resolve inside rootDir; anything that escapes the root is
// ErrPathEscape, a missing or empty path is ErrArtifactMissing.
func OpenArtifact(rec *models.DocumentRecord, rootDir string) (*os.File, error) {
	if rec.CanonicalPath == "" {
		return nil, ErrArtifactMissing
	}

	real, err := filepath.Abs(rec.CanonicalPath)
	if err != nil {
		return nil, fmt.Errorf("resolve artifact path: %w", err)
	}
	root, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("resolve artifact root: %w", err)
	}

	rel, err := filepath.Rel(root, real)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, ErrPathEscape
	}

	f, err := os.Open(real)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrArtifactMissing
		}
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	return f, nil
}
