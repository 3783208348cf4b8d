package retriever

import (
	"context"
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

const (
	bm25K1 = 1.5
	bm25B  = 0.75
)

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

func words(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}

// bm25 is the lexical retriever: Okapi BM25 over lower-cased word tokens.
type bm25 struct {
	chunks []string
	tf     []map[string]int
	docLen []int
	avgLen float64
	idf    map[string]float64
	topK   int
}

func newBM25(chunks []string, topK int) (*bm25, error) {
	if topK < 0 {
		return nil, errors.New("negative top k")
	}
	r := &bm25{
		chunks: chunks,
		tf:     make([]map[string]int, len(chunks)),
		docLen: make([]int, len(chunks)),
		idf:    make(map[string]float64),
		topK:   topK,
	}
	df := make(map[string]int)
	total := 0
	for i, c := range chunks {
		tf := make(map[string]int)
		for _, w := range words(c) {
			tf[w]++
		}
		for w := range tf {
			df[w]++
		}
		r.tf[i] = tf
		r.docLen[i] = len(words(c))
		total += r.docLen[i]
	}
	if total == 0 {
		return nil, errors.New("chunks contain no words")
	}
	r.avgLen = float64(total) / float64(len(chunks))
	n := float64(len(chunks))
	for w, d := range df {
		r.idf[w] = math.Log(1 + (n-float64(d)+0.5)/(float64(d)+0.5))
	}
	return r, nil
}

func (r *bm25) Kind() Kind { return KindLexical }

// Retrieve scores every chunk and returns the best topK, ties in chunk order.
func (r *bm25) Retrieve(ctx context.Context, query string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	scores := r.scores(query)
	idx := make([]int, len(r.chunks))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return scores[idx[a]] > scores[idx[b]] })
	k := min(r.topK, len(idx))
	out := make([]string, k)
	for i := 0; i < k; i++ {
		out[i] = r.chunks[idx[i]]
	}
	return out, nil
}

func (r *bm25) scores(query string) []float64 {
	scores := make([]float64, len(r.chunks))
	for _, q := range words(query) {
		idf, ok := r.idf[q]
		if !ok {
			continue
		}
		for i, tf := range r.tf {
			f := float64(tf[q])
			if f == 0 {
				continue
			}
			norm := 1 - bm25B + bm25B*float64(r.docLen[i])/r.avgLen
			scores[i] += idf * f * (bm25K1 + 1) / (f + bm25K1*norm)
		}
	}
	return scores
}

func (r *bm25) Close() error { return nil }
