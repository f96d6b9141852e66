package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder_ObserveRun(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	recorder := NewRecorder(registry)

	recorder.ObserveRun("success", 10, 2, 150*time.Millisecond)
	recorder.ObserveRun("failure", 0, 0, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.runs.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.runs.WithLabelValues("failure")))
	assert.Equal(t, 10.0, testutil.ToFloat64(recorder.rowsAccepted))
	assert.Equal(t, 2.0, testutil.ToFloat64(recorder.rowsRejected))
}

func TestRecorder_NilIsNoop(t *testing.T) {
	t.Parallel()

	var recorder *Recorder
	recorder.ObserveRun("success", 1, 1, time.Second)
}
