package retriever

import (
	"context"
	"errors"
	"fmt"

	"docqa/internal/domain"
	"docqa/internal/embedding"
	"docqa/internal/vectorstore"
	"docqa/internal/vectorstore/memory"
)

// embeddingRetriever ranks chunks by cosine similarity in an in-memory index
// built from one embedder. It owns the embedder.
type embeddingRetriever struct {
	embedder embedding.Embedder
	store    vectorstore.Storage
	topK     int
}

func newEmbeddingRetriever(ctx context.Context, provider embedding.Provider, chunks []string, cfg domain.RetrievalConfig) (*embeddingRetriever, error) {
	e, err := provider(ctx, cfg.EmbeddingsModel)
	if err != nil {
		return nil, fmt.Errorf("load embedder: %w", err)
	}
	r, err := indexChunks(ctx, e, chunks, cfg.TopK)
	if err != nil {
		_ = e.Close()
		return nil, err
	}
	return r, nil
}

func indexChunks(ctx context.Context, e embedding.Embedder, chunks []string, topK int) (*embeddingRetriever, error) {
	if err := e.Prepare(ctx, chunks); err != nil {
		return nil, fmt.Errorf("prepare %s embedder: %w", e.Name(), err)
	}
	vecs, err := embedding.EmbedAll(ctx, e, chunks)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vecs) == 0 || len(vecs[0]) == 0 {
		return nil, errors.New("embedder produced empty vectors")
	}
	store := memory.NewStorage()
	if err := store.Init(len(vecs[0])); err != nil {
		return nil, err
	}
	if err := store.Upsert(chunks, vecs); err != nil {
		return nil, fmt.Errorf("index chunks: %w", err)
	}
	return &embeddingRetriever{embedder: e, store: store, topK: topK}, nil
}

func (r *embeddingRetriever) Kind() Kind { return KindEmbedding }

func (r *embeddingRetriever) Retrieve(ctx context.Context, query string) ([]string, error) {
	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	hits, err := r.store.Search(vec, r.topK)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.Text
	}
	return out, nil
}

func (r *embeddingRetriever) Close() error {
	return errors.Join(r.store.Clear(), r.embedder.Close())
}
