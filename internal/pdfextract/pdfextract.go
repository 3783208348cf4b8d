// Package pdfextract turns PDF bytes into plain text using two interchangeable
// backends, ledongthuc/pdf and dslipak/pdf.
package pdfextract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	dslipak "github.com/dslipak/pdf"
	"github.com/ledongthuc/pdf"
)

// ErrNoText means no backend could extract any text.
var ErrNoText = errors.New("no text could be extracted from the PDF")

// Extractor extracts plain text from a PDF held in memory.
type Extractor interface {
	Name() string
	Extract(data []byte) (string, error)
}

// Ledongthuc extracts the whole document's plain text in one pass.
type Ledongthuc struct{}

func (Ledongthuc) Name() string { return "ledongthuc" }

func (Ledongthuc) Extract(data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	out, err := io.ReadAll(plain)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Dslipak extracts text page by page, separating pages with a blank line.
// Pages that fail to decode are skipped.
type Dslipak struct{}

func (Dslipak) Name() string { return "dslipak" }

func (Dslipak) Extract(data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	r, err := dslipak.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages = append(pages, text)
	}
	return strings.TrimSpace(strings.Join(pages, "\n\n")), nil
}

// Chain tries each extractor in order and returns the first non-blank text.
type Chain []Extractor

// DefaultChain is ledongthuc with dslipak as fallback.
func DefaultChain() Chain { return Chain{Ledongthuc{}, Dslipak{}} }

func (c Chain) Name() string {
	names := make([]string, len(c))
	for i, e := range c {
		names[i] = e.Name()
	}
	return strings.Join(names, "+")
}

// Extract returns ErrNoText, joined with each backend's failure, when every
// backend fails or yields blank text.
func (c Chain) Extract(data []byte) (string, error) {
	errs := []error{ErrNoText}
	for _, e := range c {
		text, err := safeExtract(e, data)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", e.Name(), err))
			continue
		}
		if strings.TrimSpace(text) != "" {
			return text, nil
		}
	}
	return "", errors.Join(errs...)
}

// ExtractReader reads r fully and extracts its text with c.
func (c Chain) ExtractReader(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read PDF: %w", err)
	}
	return c.Extract(data)
}

// safeExtract converts backend panics on malformed input into errors.
func safeExtract(e Extractor, data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()
	return e.Extract(data)
}
