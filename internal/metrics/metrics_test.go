package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.ObserveAnswer("answered", 120*time.Millisecond)
	r.ObserveAnswer("answered", 80*time.Millisecond)
	r.ObserveAnswer("no_context", time.Millisecond)
	r.RetrieverBuilt("lexical")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.answersTotal.WithLabelValues("answered")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.answersTotal.WithLabelValues("no_context")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.retrieversBuilt.WithLabelValues("lexical")))

	expected := `
# HELP docqa_retrievers_built_total Retrievers built per query, by kind
# TYPE docqa_retrievers_built_total counter
docqa_retrievers_built_total{kind="lexical"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "docqa_retrievers_built_total"))

	count, err := testutil.GatherAndCount(reg, "docqa_answer_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRecorderRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewRecorder(reg)
	assert.Panics(t, func() { NewRecorder(reg) })
}
