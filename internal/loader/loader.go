// Package loader resolves the text of the document a query runs against.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"docqa/internal/domain"
	"docqa/internal/pdfextract"
)

// Loader reads plain-text files directly and PDFs through an extractor.
type Loader struct {
	pdf pdfextract.Extractor
	log *zap.Logger
}

// New creates a Loader. A nil extractor means pdfextract.DefaultChain.
func New(pdf pdfextract.Extractor, log *zap.Logger) *Loader {
	if pdf == nil {
		pdf = pdfextract.DefaultChain()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{pdf: pdf, log: log}
}

// Load returns the text at textPath when that file exists, otherwise the
// text extracted from pdfPath. When neither exists it returns an error
// wrapping domain.ErrDocumentNotFound; extraction failures wrap
// domain.ErrExtraction.
func (l *Loader) Load(textPath, pdfPath string) (string, error) {
	if exists(textPath) {
		data, err := os.ReadFile(textPath)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", textPath, err)
		}
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: %s is not valid UTF-8", domain.ErrExtraction, textPath)
		}
		l.log.Debug("loaded text document", zap.String("path", textPath), zap.Int("bytes", len(data)))
		return string(data), nil
	}
	if exists(pdfPath) {
		data, err := os.ReadFile(pdfPath)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", pdfPath, err)
		}
		text, err := l.pdf.Extract(data)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", domain.ErrExtraction, pdfPath, err)
		}
		l.log.Debug("loaded PDF document", zap.String("path", pdfPath), zap.Int("chars", utf8.RuneCountInString(text)))
		return text, nil
	}
	return "", fmt.Errorf("%w: no procedures file found (PDF or text)", domain.ErrDocumentNotFound)
}

// PathsFor maps a single document path to the (textPath, pdfPath) pair,
// choosing by extension. Anything that is not .pdf is read as text.
func PathsFor(path string) (textPath, pdfPath string) {
	if path == "" {
		return "", ""
	}
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return "", path
	}
	return path, ""
}

func exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, os.ErrNotExist)
}
