package embedding

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotPrepared is returned by embedders that need Prepare before Embed.
var ErrNotPrepared = errors.New("embedder not prepared")

// Embedder converts free text into a numeric vector representation.
// Implementations may require a preparation phase over the corpus.
type Embedder interface {
	Name() string
	Prepare(ctx context.Context, corpus []string) error
	Dimension() int
	Embed(ctx context.Context, text string) ([]float32, error)
	Close() error
}

// BatchEmbedder is implemented by embedders that embed many texts per call.
type BatchEmbedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Provider builds an Embedder for the named model.
type Provider func(ctx context.Context, model string) (Embedder, error)

// EmbedAll embeds texts in order, in one call when e supports batching.
func EmbedAll(ctx context.Context, e Embedder, texts []string) ([][]float32, error) {
	if b, ok := e.(BatchEmbedder); ok {
		vecs, err := b.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, err
		}
		if len(vecs) != len(texts) {
			return nil, fmt.Errorf("%s returned %d vectors for %d texts", e.Name(), len(vecs), len(texts))
		}
		return vecs, nil
	}
	vecs := make([][]float32, len(texts))
	for i, t := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, err := e.Embed(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("embed text %d: %w", i, err)
		}
		vecs[i] = v
	}
	return vecs, nil
}
