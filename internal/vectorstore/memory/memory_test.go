package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage(t *testing.T) {
	s := NewStorage()

	t.Run("Rejects invalid dimension", func(t *testing.T) {
		assert.Error(t, s.Init(0))
	})

	t.Run("Upsert before Init fails", func(t *testing.T) {
		assert.Error(t, NewStorage().Upsert([]string{"a"}, [][]float32{{1}}))
	})

	require.NoError(t, s.Init(2))

	t.Run("Rejects mismatched input", func(t *testing.T) {
		assert.Error(t, s.Upsert([]string{"a", "b"}, [][]float32{{1, 0}}))
		assert.Error(t, s.Upsert([]string{"a"}, [][]float32{{1, 0, 0}}))
		assert.Zero(t, s.Len())
	})

	require.NoError(t, s.Upsert(
		[]string{"east", "north", "north-east", "also north", "zero"},
		[][]float32{{1, 0}, {0, 1}, {1, 1}, {0, 2}, {0, 0}},
	))

	t.Run("Ranks by cosine similarity", func(t *testing.T) {
		hits, err := s.Search([]float32{0, 3}, 3)
		require.NoError(t, err)
		require.Len(t, hits, 3)
		assert.Equal(t, "north", hits[0].Text)
		assert.Equal(t, "also north", hits[1].Text, "ties keep insertion order")
		assert.Equal(t, "north-east", hits[2].Text)
		assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
		assert.Equal(t, 1, hits[0].Index)
	})

	t.Run("Limits to stored entries", func(t *testing.T) {
		hits, err := s.Search([]float32{1, 0}, 10)
		require.NoError(t, err)
		assert.Len(t, hits, 5)
		assert.Equal(t, "zero", hits[4].Text)
	})

	t.Run("Zero topK returns nothing", func(t *testing.T) {
		hits, err := s.Search([]float32{1, 0}, 0)
		require.NoError(t, err)
		assert.Empty(t, hits)
	})

	t.Run("Rejects wrong query dimension", func(t *testing.T) {
		_, err := s.Search([]float32{1}, 1)
		assert.Error(t, err)
	})

	t.Run("Clear empties the store", func(t *testing.T) {
		require.NoError(t, s.Clear())
		assert.Zero(t, s.Len())
	})
}
