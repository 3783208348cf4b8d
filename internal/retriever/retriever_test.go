package retriever

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"docqa/internal/chunker"
	"docqa/internal/domain"
	"docqa/internal/embedding"
	"docqa/internal/embedding/tfidf"
)

type brokenEmbedder struct {
	closed bool
}

func (b *brokenEmbedder) Name() string {
	return "broken"
}

func (b *brokenEmbedder) Prepare(context.Context, []string) error {
	return errors.New("model missing")
}

func (b *brokenEmbedder) Dimension() int {
	return 0
}

func (b *brokenEmbedder) Embed(context.Context, string) ([]float32, error) {
	return nil, errors.New("unreachable")
}

func (b *brokenEmbedder) Close() error {
	b.closed = true
	return nil
}

func tfidfProvider(context.Context, string) (embedding.Embedder, error) {
	return tfidf.NewEmbedder(), nil
}

func lexical(topK int) domain.RetrievalConfig {
	return domain.RetrievalConfig{UseEmbeddings: false, TopK: topK}
}

func TestFactoryBuild(t *testing.T) {
	ctx := context.Background()

	t.Run("No chunks builds nothing", func(t *testing.T) {
		var built []Kind
		f := NewFactory(zap.NewNop(), WithBuildHook(func(k Kind) { built = append(built, k) }))
		assert.Nil(t, f.Build(ctx, nil, lexical(2)))
		assert.Equal(t, []Kind{KindNone}, built)
	})

	t.Run("Lexical when embeddings are off", func(t *testing.T) {
		f := NewFactory(zap.NewNop(), WithEmbedderProvider(tfidfProvider))
		r := f.Build(ctx, []string{"uno", "dos"}, lexical(1))
		require.NotNil(t, r)
		assert.Equal(t, KindLexical, r.Kind())
	})

	t.Run("Embedding when the provider works", func(t *testing.T) {
		f := NewFactory(zap.NewNop(), WithEmbedderProvider(tfidfProvider))
		r := f.Build(ctx, []string{"El sol es una estrella"}, domain.RetrievalConfig{UseEmbeddings: true, TopK: 1})
		require.NotNil(t, r)
		assert.Equal(t, KindEmbedding, r.Kind())
		assert.NoError(t, r.Close())
	})

	t.Run("Falls back to lexical when the provider fails", func(t *testing.T) {
		f := NewFactory(zap.NewNop(), WithEmbedderProvider(func(context.Context, string) (embedding.Embedder, error) {
			return nil, errors.New("offline")
		}))
		r := f.Build(ctx, []string{"uno", "dos"}, domain.RetrievalConfig{UseEmbeddings: true, TopK: 1})
		assert.Equal(t, KindLexical, KindOf(r))
	})

	t.Run("Falls back to lexical and closes the embedder when indexing fails", func(t *testing.T) {
		broken := &brokenEmbedder{}
		f := NewFactory(zap.NewNop(), WithEmbedderProvider(func(context.Context, string) (embedding.Embedder, error) {
			return broken, nil
		}))
		r := f.Build(ctx, []string{"uno", "dos"}, domain.RetrievalConfig{UseEmbeddings: true, TopK: 1})
		assert.Equal(t, KindLexical, KindOf(r))
		assert.True(t, broken.closed)
	})

	t.Run("Falls back to lexical without a provider", func(t *testing.T) {
		r := NewFactory(nil).Build(ctx, []string{"uno"}, domain.RetrievalConfig{UseEmbeddings: true, TopK: 1})
		assert.Equal(t, KindLexical, KindOf(r))
	})

	t.Run("Nothing when lexical cannot index", func(t *testing.T) {
		r := NewFactory(zap.NewNop()).Build(ctx, []string{"...", "---"}, lexical(2))
		assert.Nil(t, r)
		assert.Equal(t, KindNone, KindOf(r))
	})
}

func TestRetrieve(t *testing.T) {
	ctx := context.Background()
	f := NewFactory(zap.NewNop(), WithEmbedderProvider(tfidfProvider))

	t.Run("Finds the moon", func(t *testing.T) {
		text := "El sol es una estrella. La luna es un satélite. Marte es rojo."
		chunks, err := chunker.NewSplitter(zap.NewNop()).Split(text, chunker.Size(50), chunker.Overlap(10))
		require.NoError(t, err)

		r := f.Build(ctx, chunks, lexical(2))
		results, err := Retrieve(ctx, r, "luna")
		require.NoError(t, err)
		require.NotEmpty(t, results)
		assert.LessOrEqual(t, len(results), 2)

		found := false
		for _, c := range results {
			if strings.Contains(strings.ToLower(c), "luna") {
				found = true
			}
		}
		assert.True(t, found)
	})

	t.Run("Returns at most top k", func(t *testing.T) {
		chunks := []string{"a b", "b c", "c d", "d e", "e f"}
		for k := 0; k <= 6; k++ {
			for _, cfg := range []domain.RetrievalConfig{lexical(k), {UseEmbeddings: true, TopK: k}} {
				r := f.Build(ctx, []string{}, cfg)
				assert.Nil(t, r)
				r = f.Build(ctx, chunks, cfg)
				results, err := Retrieve(ctx, r, "c")
				require.NoError(t, err)
				assert.LessOrEqual(t, len(results), k)
				_ = r.Close()
			}
		}
	})

	t.Run("Ranks by relevance", func(t *testing.T) {
		chunks := []string{"el sol brilla", "la luna brilla de noche", "luna luna luna"}
		results, err := Retrieve(ctx, f.Build(ctx, chunks, lexical(3)), "luna")
		require.NoError(t, err)
		assert.Equal(t, []string{"luna luna luna", "la luna brilla de noche", "el sol brilla"}, results)
	})

	t.Run("Ties keep chunk order", func(t *testing.T) {
		chunks := []string{"alpha", "beta", "gamma"}
		results, err := Retrieve(ctx, f.Build(ctx, chunks, lexical(2)), "delta")
		require.NoError(t, err)
		assert.Equal(t, []string{"alpha", "beta"}, results)
	})

	t.Run("Embedding retrieval ranks semantically close chunks first", func(t *testing.T) {
		chunks := []string{"El sol es una estrella", "La luna es un satélite", "Marte es rojo"}
		r := f.Build(ctx, chunks, domain.RetrievalConfig{UseEmbeddings: true, TopK: 1})
		require.Equal(t, KindEmbedding, KindOf(r))
		defer r.Close()

		results, err := Retrieve(ctx, r, "¿Qué satélite es la luna?")
		require.NoError(t, err)
		assert.Equal(t, []string{"La luna es un satélite"}, results)
	})

	t.Run("Nil retriever yields nothing", func(t *testing.T) {
		results, err := Retrieve(ctx, nil, "luna")
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestAnswerQuery(t *testing.T) {
	ctx := context.Background()
	f := NewFactory(zap.NewNop())

	t.Run("Joins top chunks", func(t *testing.T) {
		got, err := f.AnswerQuery(ctx, []string{"sol", "luna", "luna llena"}, "luna", lexical(2))
		require.NoError(t, err)
		assert.Equal(t, "luna\n\n---\n\nluna llena", got)
	})

	t.Run("Falls back to the first chunk", func(t *testing.T) {
		got, err := f.AnswerQuery(ctx, []string{"sol", "luna"}, "luna", lexical(0))
		require.NoError(t, err)
		assert.Equal(t, "sol", got)
	})

	t.Run("No chunks", func(t *testing.T) {
		got, err := f.AnswerQuery(ctx, nil, "luna", lexical(2))
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "none", KindNone.String())
	assert.Equal(t, "lexical", KindLexical.String())
	assert.Equal(t, "embedding", KindEmbedding.String())
}
