package summarizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	s := NewFrequency()

	t.Run("Keeps document order", func(t *testing.T) {
		text := "Los extintores se revisan cada seis meses. Hoy llueve. " +
			"Los extintores rojos están en el pasillo. Los extintores vencidos se reemplazan."
		out := s.Summarize(text, 2)
		assert.NotContains(t, out, "Hoy llueve.")
		assert.Equal(t, 2, countSentences(out))
	})

	t.Run("Returns every sentence when asked for more", func(t *testing.T) {
		text := "Uno dos. Tres cuatro."
		assert.Equal(t, "Uno dos. Tres cuatro.", s.Summarize(text, 10))
	})

	t.Run("Text without punctuation", func(t *testing.T) {
		assert.Equal(t, "sin puntos", s.Summarize("  sin puntos  ", 2))
		assert.Equal(t, "", s.Summarize("", 2))
	})

	t.Run("Keeps a trailing sentence without punctuation", func(t *testing.T) {
		text := "El sol es una estrella. La luna es un satélite"
		assert.Equal(t, text, s.Summarize(text, 2))
		assert.Equal(t, "La luna es un satélite, la luna gira", s.Summarize("Hoy. La luna es un satélite, la luna gira", 1))
	})

	t.Run("Non positive length uses the default", func(t *testing.T) {
		text := "Primera frase larga. Segunda frase larga. Tercera frase larga."
		assert.Equal(t, DefaultSentences, countSentences(s.Summarize(text, 0)))
	})
}

func TestSentences(t *testing.T) {
	assert.Equal(t, []string{"Uno.", " Dos?", " tres sin cierre"}, Sentences("Uno. Dos? tres sin cierre"))
	assert.Equal(t, []string{"Uno.", " Dos."}, Sentences("Uno. Dos.  "))
	assert.Equal(t, []string{"solo texto"}, Sentences("solo texto"))
	assert.Empty(t, Sentences("   "))
}

func countSentences(s string) int {
	return len(Sentences(s))
}
