package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuild(t *testing.T) {
	t.Run("Joins contexts with the separator", func(t *testing.T) {
		got := Build([]string{"El sol es una estrella.", "La luna es un satélite."}, "¿Qué es la luna?")
		want := "Answer using only the context and avoid making things up.\n\n" +
			"Context:\nEl sol es una estrella.\n\n---\n\nLa luna es un satélite.\n\n" +
			"Question:\n¿Qué es la luna?\n\nAnswer:"
		assert.Equal(t, want, got)
	})

	t.Run("Empty contexts", func(t *testing.T) {
		got := Build(nil, "q")
		assert.Equal(t, "Answer using only the context and avoid making things up.\n\nContext:\n\n\nQuestion:\nq\n\nAnswer:", got)
	})

	t.Run("Contexts are not escaped", func(t *testing.T) {
		got := Build([]string{"a\n\n---\n\nb"}, "q")
		assert.Equal(t, 1, strings.Count(got, ContextSeparator))
		assert.Contains(t, got, "Context:\na\n\n---\n\nb\n\nQuestion:")
	})

	t.Run("Deterministic", func(t *testing.T) {
		ctx := []string{"uno", "dos"}
		assert.Equal(t, Build(ctx, "tres"), Build(ctx, "tres"))
	})
}

func TestGeneralConversation(t *testing.T) {
	got := GeneralConversation("hola, ¿cómo estás?")
	assert.True(t, strings.HasSuffix(got, "User question: hola, ¿cómo estás?"))
	assert.Contains(t, got, "NOT loaded any document")
}
