package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Selection outcomes
const (
	OutcomeRendered = "rendered"
	OutcomePartial  = "partial"
	OutcomeUnknown  = "unknown_subject"
	OutcomeError    = "error"
)

// Recorder collects dashboard metrics. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	selections    *prometheus.CounterVec
	fetches       *prometheus.CounterVec
	fetchDuration prometheus.Histogram
	subjects      prometheus.Gauge
}

// New registers the dashboard collectors on reg
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		selections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bellybutton",
			Name:      "selections_total",
			Help:      "Subject selections by outcome.",
		}, []string{"outcome"}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bellybutton",
			Name:      "dataset_fetches_total",
			Help:      "Dataset fetch attempts by result.",
		}, []string{"result"}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bellybutton",
			Name:      "dataset_fetch_seconds",
			Help:      "Time spent loading the dataset.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		subjects: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "bellybutton",
			Name:      "dataset_subjects",
			Help:      "Number of subjects in the loaded dataset.",
		}),
	}
	reg.MustRegister(r.selections, r.fetches, r.fetchDuration, r.subjects)
	return r
}

// ObserveSelection counts one selection
func (r *Recorder) ObserveSelection(outcome string) {
	if r == nil {
		return
	}
	r.selections.WithLabelValues(outcome).Inc()
}

// ObserveFetch records a dataset load attempt
func (r *Recorder) ObserveFetch(elapsed time.Duration, err error) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.fetches.WithLabelValues(result).Inc()
	r.fetchDuration.Observe(elapsed.Seconds())
}

// SetSubjects records the size of the loaded dataset
func (r *Recorder) SetSubjects(n int) {
	if r == nil {
		return
	}
	r.subjects.Set(float64(n))
}
