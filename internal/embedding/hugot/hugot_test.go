package hugot

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareModelUsesExistingModel(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "sentence-transformers_all-MiniLM-L6-v2")
	require.NoError(t, os.MkdirAll(filepath.Join(existing, "onnx"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(existing, "onnx", "model.onnx"), []byte("onnx"), 0o644))

	path, err := PrepareModel(DefaultModel, dir)
	require.NoError(t, err)
	assert.Equal(t, existing, path)
}

func TestModelComplete(t *testing.T) {
	dir := t.TempDir()

	t.Run("Missing directory", func(t *testing.T) {
		assert.False(t, modelComplete(filepath.Join(dir, "absent")))
	})

	t.Run("Interrupted download", func(t *testing.T) {
		partial := filepath.Join(dir, "partial")
		require.NoError(t, os.MkdirAll(partial, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(partial, "tokenizer.json"), []byte("{}"), 0o644))
		assert.False(t, modelComplete(partial))
	})

	t.Run("Onnx file at the root", func(t *testing.T) {
		flat := filepath.Join(dir, "flat")
		require.NoError(t, os.MkdirAll(flat, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(flat, "model.onnx"), []byte("onnx"), 0o644))
		assert.True(t, modelComplete(flat))
	})
}

func TestEmbedder(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping model download in short mode")
	}
	ctx := context.Background()

	e, err := New(ctx, Config{ModelDir: filepath.Join(os.TempDir(), "docqa-models")})
	require.NoError(t, err)
	defer func() { assert.NoError(t, e.Close()) }()

	vecs, err := e.EmbedBatch(ctx, []string{"La luna es un satélite", "Marte es rojo"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.Len(t, vecs[0], 384)
	assert.Equal(t, 384, e.Dimension())
}
