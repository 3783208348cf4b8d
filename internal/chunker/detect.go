package chunker

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	fallbackChunkSize    = 800
	fallbackChunkOverlap = 100
)

// ParamDetector infers chunk size and overlap for a text when the caller
// leaves them unset.
type ParamDetector interface {
	Detect(text string) (size, overlap int)
}

// RegexDetector looks for cues such as "chunk size 300" or "solapamiento 40"
// inside the document itself.
type RegexDetector struct {
	sizePattern    *regexp.Regexp
	overlapPattern *regexp.Regexp
	defaultSize    int
	defaultOverlap int
}

// NewRegexDetector creates the cue-scanning detector with 800/100 defaults.
func NewRegexDetector() *RegexDetector {
	return &RegexDetector{
		sizePattern:    regexp.MustCompile(`(chunk[_\s-]?size|tamañ[o]?\s+de\s+chunk|tamaño\s+del\s+bloque)\D?(\d{2,5})`),
		overlapPattern: regexp.MustCompile(`(overlap|solapamiento)\D?(\d{1,4})`),
		defaultSize:    fallbackChunkSize,
		defaultOverlap: fallbackChunkOverlap,
	}
}

// Detect scans the lower-cased text; a missing or zero cue yields the default.
func (d *RegexDetector) Detect(text string) (int, int) {
	lower := strings.ToLower(text)
	return firstNumber(d.sizePattern, lower, d.defaultSize), firstNumber(d.overlapPattern, lower, d.defaultOverlap)
}

func firstNumber(re *regexp.Regexp, text string, fallback int) int {
	m := re.FindStringSubmatch(text)
	if len(m) < 3 {
		return fallback
	}
	n, err := strconv.Atoi(m[2])
	if err != nil || n == 0 {
		return fallback
	}
	return n
}

// FixedDetector ignores the text and always reports the same parameters.
type FixedDetector struct {
	Size    int
	Overlap int
}

// Detect returns the fixed parameters.
func (d FixedDetector) Detect(string) (int, int) { return d.Size, d.Overlap }
