package chunker

import (
	"strings"
	"unicode/utf8"
)

// DefaultSeparators lists split points from coarsest to finest; "" splits
// into single characters.
var DefaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// recursiveSplitter cuts text at the coarsest separator that keeps pieces
// under size runes and merges neighbouring pieces back up to size, carrying
// roughly overlap runes into the next chunk.
type recursiveSplitter struct {
	size       int
	overlap    int
	separators []string
}

func (r recursiveSplitter) split(text string) []string {
	return r.splitText(text, r.separators)
}

func (r recursiveSplitter) splitText(text string, separators []string) []string {
	separator := ""
	var next []string
	for i, s := range separators {
		if s == "" {
			separator = s
			break
		}
		if strings.Contains(text, s) {
			separator = s
			next = separators[i+1:]
			break
		}
	}

	var chunks, pending []string
	for _, piece := range splitKeepingSeparator(text, separator) {
		if runeLen(piece) < r.size {
			pending = append(pending, piece)
			continue
		}
		if len(pending) > 0 {
			chunks = append(chunks, r.merge(pending)...)
			pending = nil
		}
		if len(next) == 0 {
			chunks = append(chunks, piece)
		} else {
			chunks = append(chunks, r.splitText(piece, next)...)
		}
	}
	if len(pending) > 0 {
		chunks = append(chunks, r.merge(pending)...)
	}
	return chunks
}

// merge packs pieces into chunks of at most size runes. When a chunk is
// emitted, leading pieces are dropped until at most overlap runes remain.
func (r recursiveSplitter) merge(pieces []string) []string {
	var docs, current []string
	total := 0
	for _, piece := range pieces {
		n := runeLen(piece)
		if total+n > r.size && len(current) > 0 {
			if doc := strings.TrimSpace(strings.Join(current, "")); doc != "" {
				docs = append(docs, doc)
			}
			for total > r.overlap || (total+n > r.size && total > 0) {
				total -= runeLen(current[0])
				current = current[1:]
			}
		}
		current = append(current, piece)
		total += n
	}
	if doc := strings.TrimSpace(strings.Join(current, "")); doc != "" {
		docs = append(docs, doc)
	}
	return docs
}

// splitKeepingSeparator splits text on sep and glues each separator to the
// start of the piece that follows it. Empty pieces are dropped.
func splitKeepingSeparator(text, sep string) []string {
	var pieces []string
	if sep == "" {
		for _, r := range text {
			pieces = append(pieces, string(r))
		}
		return pieces
	}
	for i, part := range strings.Split(text, sep) {
		if i > 0 {
			part = sep + part
		}
		if part != "" {
			pieces = append(pieces, part)
		}
	}
	return pieces
}

func runeLen(s string) int { return utf8.RuneCountInString(s) }
