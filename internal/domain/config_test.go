package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRagConfig(t *testing.T) {
	cfg := DefaultRagConfig()

	assert.Equal(t, 400, cfg.ChunkSize)
	assert.Equal(t, 80, cfg.ChunkOverlap)
	assert.True(t, cfg.UseEmbeddings)
	assert.Equal(t, 4, cfg.TopK)
	assert.Equal(t, 1, cfg.MinSignalTokens)
	assert.False(t, cfg.HasDocument())
	require.NoError(t, cfg.Validate())
}

func TestRagConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*RagConfig)
	}{
		{name: "overlap equals size", modify: func(c *RagConfig) { c.ChunkOverlap = c.ChunkSize }},
		{name: "overlap exceeds size", modify: func(c *RagConfig) { c.ChunkOverlap = c.ChunkSize + 1 }},
		{name: "zero size", modify: func(c *RagConfig) { c.ChunkSize = 0 }},
		{name: "negative overlap", modify: func(c *RagConfig) { c.ChunkOverlap = -1 }},
		{name: "negative top k", modify: func(c *RagConfig) { c.TopK = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultRagConfig()
			tt.modify(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}

	t.Run("Zero top k is allowed", func(t *testing.T) {
		cfg := DefaultRagConfig()
		cfg.TopK = 0
		assert.NoError(t, cfg.Validate())
	})
}

func TestSignalThreshold(t *testing.T) {
	cfg := DefaultRagConfig()
	cfg.MinSignalTokens = 3
	assert.Equal(t, 0, cfg.SignalThreshold())

	cfg.UseEmbeddings = false
	assert.Equal(t, 3, cfg.SignalThreshold())
}

func TestNewAnswer(t *testing.T) {
	t.Run("Nil context becomes empty", func(t *testing.T) {
		res := NewAnswer("hi", nil)
		require.NotNil(t, res.ContextUsed)
		assert.Empty(t, res.ContextUsed)
	})

	t.Run("Context is kept", func(t *testing.T) {
		res := NewAnswer("hi", []string{"a", "b"})
		assert.Equal(t, []string{"a", "b"}, res.ContextUsed)
	})
}

func TestStaticCompleter(t *testing.T) {
	out, err := StaticCompleter("fixed").Complete(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, "fixed", out)
}
