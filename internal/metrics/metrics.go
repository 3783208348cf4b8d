package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder holds the pipeline metrics registered on one registry.
type Recorder struct {
	answersTotal    *prometheus.CounterVec
	answerDuration  *prometheus.HistogramVec
	retrieversBuilt *prometheus.CounterVec
}

// NewRecorder registers the pipeline metrics on reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		answersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docqa_answers_total",
				Help: "Answers returned by the pipeline, by outcome",
			},
			[]string{"outcome"},
		),
		answerDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "docqa_answer_duration_seconds",
				Help:    "Time to produce an answer, by outcome",
				Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"outcome"},
		),
		retrieversBuilt: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docqa_retrievers_built_total",
				Help: "Retrievers built per query, by kind",
			},
			[]string{"kind"},
		),
	}
}

// ObserveAnswer records one answer.
func (r *Recorder) ObserveAnswer(outcome string, d time.Duration) {
	r.answersTotal.WithLabelValues(outcome).Inc()
	r.answerDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

// RetrieverBuilt records the kind of retriever a query used.
func (r *Recorder) RetrieverBuilt(kind string) {
	r.retrieversBuilt.WithLabelValues(kind).Inc()
}
