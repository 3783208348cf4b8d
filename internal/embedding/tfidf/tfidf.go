// Package tfidf embeds text as sparse term-weight vectors learned from the
// chunk set itself. It needs no model files or network access.
package tfidf

import (
	"context"
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"

	"docqa/internal/embedding"
)

var termPattern = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\p{N}+`)

// Embedder weights each vocabulary term by its frequency in the text times
// its inverse document frequency over the prepared corpus.
type Embedder struct {
	vocabulary map[string]int
	idf        []float64
	stopwords  map[string]struct{}
}

func NewEmbedder() *Embedder {
	return &Embedder{stopwords: stopwordSet()}
}

func (e *Embedder) Name() string { return "tfidf" }

// Prepare indexes the terms of corpus in sorted order. It fails when the
// corpus has no content words.
func (e *Embedder) Prepare(_ context.Context, corpus []string) error {
	if len(corpus) == 0 {
		return errors.New("tfidf: empty corpus")
	}
	docFreq := map[string]int{}
	for _, doc := range corpus {
		for term := range e.termSet(doc) {
			docFreq[term]++
		}
	}
	if len(docFreq) == 0 {
		return errors.New("tfidf: corpus has no content words")
	}

	terms := make([]string, 0, len(docFreq))
	for term := range docFreq {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	docs := float64(len(corpus))
	e.vocabulary = make(map[string]int, len(terms))
	e.idf = make([]float64, len(terms))
	for i, term := range terms {
		e.vocabulary[term] = i
		// +1 on both counts keeps terms present in every chunk above zero.
		e.idf[i] = 1 + math.Log((1+docs)/(1+float64(docFreq[term])))
	}
	return nil
}

// Dimension is the vocabulary size, 0 before Prepare.
func (e *Embedder) Dimension() int { return len(e.idf) }

// Embed returns the unit-length weight vector of text. Text sharing no term
// with the corpus maps to the zero vector.
func (e *Embedder) Embed(_ context.Context, text string) ([]float32, error) {
	if e.vocabulary == nil {
		return nil, embedding.ErrNotPrepared
	}
	counts := map[int]int{}
	known := 0
	for _, term := range e.terms(text) {
		if i, ok := e.vocabulary[term]; ok {
			counts[i]++
			known++
		}
	}

	vec := make([]float32, len(e.idf))
	if known == 0 {
		return vec, nil
	}
	var sumSq float64
	weights := make(map[int]float64, len(counts))
	for i, c := range counts {
		w := e.idf[i] * float64(c) / float64(known)
		weights[i] = w
		sumSq += w * w
	}
	length := math.Sqrt(sumSq)
	for i, w := range weights {
		vec[i] = float32(w / length)
	}
	return vec, nil
}

func (e *Embedder) Close() error { return nil }

// terms lower-cases text and drops stopwords.
func (e *Embedder) terms(text string) []string {
	var out []string
	for _, t := range termPattern.FindAllString(strings.ToLower(text), -1) {
		if _, stop := e.stopwords[t]; !stop {
			out = append(out, t)
		}
	}
	return out
}

func (e *Embedder) termSet(text string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, t := range e.terms(text) {
		set[t] = struct{}{}
	}
	return set
}

func stopwordSet() map[string]struct{} {
	words := []string{
		// English
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by",
		"with", "as", "is", "are", "was", "were", "be", "been", "it", "this", "that", "these", "those", "from",
		"into", "about", "so", "can", "will", "should",
		// Spanish
		"el", "la", "los", "las", "un", "una", "unos", "unas", "de", "del", "al", "y", "o", "que", "en", "por",
		"para", "con", "sin", "se", "su", "sus", "es", "son", "lo", "como", "más", "pero",
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
