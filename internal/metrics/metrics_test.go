package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.ObserveSelection(OutcomeRendered)
	r.ObserveSelection(OutcomeRendered)
	r.ObserveSelection(OutcomeUnknown)
	r.ObserveFetch(120*time.Millisecond, nil)
	r.ObserveFetch(time.Second, errors.New("timeout"))
	r.SetSubjects(153)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.selections.WithLabelValues(OutcomeRendered)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.selections.WithLabelValues(OutcomeUnknown)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.fetches.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.fetches.WithLabelValues("error")))
	assert.Equal(t, 153.0, testutil.ToFloat64(r.subjects))
	assert.Equal(t, 1, testutil.CollectAndCount(r.fetchDuration))
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	r.ObserveSelection(OutcomeError)
	r.ObserveFetch(time.Second, nil)
	r.SetSubjects(1)
}
