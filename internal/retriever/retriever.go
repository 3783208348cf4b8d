// Package retriever ranks document chunks against a query.
//
// A Factory builds one of three variants for a chunk set: an embedding index,
// a BM25 lexical index, or none. Embedding failures fall through to lexical,
// and lexical failures fall through to none.
package retriever

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"docqa/internal/domain"
	"docqa/internal/embedding"
	"docqa/internal/logger"
	"docqa/internal/prompt"
)

// Kind tags the retriever variant.
type Kind int

const (
	KindNone Kind = iota
	KindLexical
	KindEmbedding
)

func (k Kind) String() string {
	switch k {
	case KindLexical:
		return "lexical"
	case KindEmbedding:
		return "embedding"
	default:
		return "none"
	}
}

// Retriever returns the chunks most relevant to a query, best first.
type Retriever interface {
	Kind() Kind
	Retrieve(ctx context.Context, query string) ([]string, error)
	Close() error
}

// KindOf reports the variant of r; a nil Retriever is KindNone.
func KindOf(r Retriever) Kind {
	if r == nil {
		return KindNone
	}
	return r.Kind()
}

// Factory builds retrievers for a chunk set.
type Factory struct {
	provider embedding.Provider
	log      *zap.Logger
	onBuild  func(Kind)
}

// Option configures a Factory.
type Option func(*Factory)

// WithEmbedderProvider sets the source of embedders for the embedding variant.
// Without it, embedding retrieval always falls through to lexical.
func WithEmbedderProvider(p embedding.Provider) Option {
	return func(f *Factory) { f.provider = p }
}

// WithBuildHook registers a callback run with the kind of every Build result.
func WithBuildHook(hook func(Kind)) Option {
	return func(f *Factory) { f.onBuild = hook }
}

// NewFactory creates a Factory.
func NewFactory(log *zap.Logger, opts ...Option) *Factory {
	if log == nil {
		log = zap.NewNop()
	}
	f := &Factory{log: log}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Build returns a retriever over chunks, or nil when none can be built.
// It never fails; each failure is logged and the next variant is tried.
func (f *Factory) Build(ctx context.Context, chunks []string, cfg domain.RetrievalConfig) Retriever {
	r := f.build(ctx, chunks, cfg)
	if f.onBuild != nil {
		f.onBuild(KindOf(r))
	}
	return r
}

func (f *Factory) build(ctx context.Context, chunks []string, cfg domain.RetrievalConfig) Retriever {
	if len(chunks) == 0 {
		return nil
	}
	log := logger.FromContext(ctx, f.log)

	if cfg.UseEmbeddings {
		if f.provider == nil {
			log.Debug("no embedder provider, using lexical retrieval")
		} else {
			r, err := newEmbeddingRetriever(ctx, f.provider, chunks, cfg)
			if err == nil {
				return r
			}
			log.Warn("embedding retriever unavailable, using lexical retrieval",
				zap.String("model", cfg.EmbeddingsModel), zap.Error(err))
		}
	}

	r, err := newBM25(chunks, cfg.TopK)
	if err != nil {
		log.Warn("lexical retriever unavailable", zap.Error(err))
		return nil
	}
	return r
}

// Retrieve runs query against r. A nil retriever yields no results.
func Retrieve(ctx context.Context, r Retriever, query string) ([]string, error) {
	if r == nil {
		return nil, nil
	}
	return r.Retrieve(ctx, query)
}

// AnswerQuery builds a retriever over chunks and joins the top results with
// the prompt context separator. When nothing is retrieved it returns the first
// chunk. It is meant for debugging retrieval without a model.
func (f *Factory) AnswerQuery(ctx context.Context, chunks []string, query string, cfg domain.RetrievalConfig) (string, error) {
	if len(chunks) == 0 {
		return "", nil
	}
	r := f.Build(ctx, chunks, cfg)
	if r != nil {
		defer r.Close()
	}
	results, err := Retrieve(ctx, r, query)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return chunks[0], nil
	}
	return strings.Join(results, prompt.ContextSeparator), nil
}
