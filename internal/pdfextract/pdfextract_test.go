package pdfextract

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExtractor struct {
	name string
	text string
	err  error
	hit  *int
}

func (f fakeExtractor) Name() string { return f.name }

func (f fakeExtractor) Extract([]byte) (string, error) {
	if f.hit != nil {
		*f.hit++
	}
	return f.text, f.err
}

type panicExtractor struct{}

func (panicExtractor) Name() string {
	return "panic"
}

func (panicExtractor) Extract([]byte) (string, error) {
	panic("bad xref")
}

func TestChain(t *testing.T) {
	t.Run("Primary wins", func(t *testing.T) {
		calls := 0
		c := Chain{fakeExtractor{name: "a", text: "primary"}, fakeExtractor{name: "b", text: "fallback", hit: &calls}}
		text, err := c.Extract([]byte("%PDF"))
		require.NoError(t, err)
		assert.Equal(t, "primary", text)
		assert.Zero(t, calls)
	})

	t.Run("Falls back on error", func(t *testing.T) {
		c := Chain{fakeExtractor{name: "a", err: errors.New("broken")}, fakeExtractor{name: "b", text: "fallback"}}
		text, err := c.Extract([]byte("%PDF"))
		require.NoError(t, err)
		assert.Equal(t, "fallback", text)
	})

	t.Run("Falls back on blank text", func(t *testing.T) {
		c := Chain{fakeExtractor{name: "a", text: " \n "}, fakeExtractor{name: "b", text: "fallback"}}
		text, err := c.Extract([]byte("%PDF"))
		require.NoError(t, err)
		assert.Equal(t, "fallback", text)
	})

	t.Run("Recovers backend panics", func(t *testing.T) {
		c := Chain{panicExtractor{}, fakeExtractor{name: "b", text: "ok"}}
		text, err := c.Extract([]byte("%PDF"))
		require.NoError(t, err)
		assert.Equal(t, "ok", text)
	})

	t.Run("No text from any backend", func(t *testing.T) {
		c := Chain{fakeExtractor{name: "a", err: errors.New("broken")}, fakeExtractor{name: "b"}}
		_, err := c.Extract([]byte("%PDF"))
		assert.ErrorIs(t, err, ErrNoText)
		assert.Contains(t, err.Error(), "a: broken")
	})

	t.Run("Reader input", func(t *testing.T) {
		c := Chain{fakeExtractor{name: "a", text: "from reader"}}
		text, err := c.ExtractReader(strings.NewReader("%PDF"))
		require.NoError(t, err)
		assert.Equal(t, "from reader", text)
	})

	assert.Equal(t, "ledongthuc+dslipak", DefaultChain().Name())
}

func TestBackendsRejectGarbage(t *testing.T) {
	for _, e := range DefaultChain() {
		t.Run(e.Name(), func(t *testing.T) {
			text, err := safeExtract(e, []byte("this is not a pdf"))
			assert.Error(t, err)
			assert.Empty(t, text)

			text, err = e.Extract(nil)
			assert.NoError(t, err)
			assert.Empty(t, text)
		})
	}

	_, err := DefaultChain().Extract([]byte("this is not a pdf"))
	assert.ErrorIs(t, err, ErrNoText)
}
