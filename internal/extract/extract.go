// Package extract pulls plain text out of the document formats accepted by
// the authoring flow (.docx, .rtf, best-effort .pdf). The text is only a
// convenience input for writing questions; nothing in the quiz core depends
// on it.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var ErrUnsupportedFormat = errors.New("unsupported document format")

// FromFile extracts text based on the file extension. Plain .txt and .json
// files pass through unchanged.
func FromFile(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".docx":
		return DocxText(path)
	case ".rtf":
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return RTFText(string(raw)), nil
	case ".pdf":
		return PDFText(path)
	case ".txt", ".json":
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}
