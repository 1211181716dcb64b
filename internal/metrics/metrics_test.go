package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveLLM("parse_resume", time.Now(), nil)
	m.ObserveLLM("parse_resume", time.Now(), errors.New("boom"))
	m.InterviewEvent("started")
	score := 7
	m.Turn(&score)
	m.Turn(nil)
	m.SetActiveSessions(2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.llmRequests.WithLabelValues("parse_resume", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.llmRequests.WithLabelValues("parse_resume", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.interviews.WithLabelValues("started")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.turns))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.activeSessions))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveLLM("x", time.Now(), nil)
		m.InterviewEvent("started")
		m.Turn(nil)
		m.SetActiveSessions(1)
		m.TranscriptJob("ok")
		m.RateLimited()
		m.SetBreakerState("x", 2)
		m.ResumeParsed("pdf", "success")
	})
}
