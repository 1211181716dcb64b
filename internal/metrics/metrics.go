package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	llmRequests     *prometheus.CounterVec
	llmLatency      *prometheus.HistogramVec
	breakerState    *prometheus.GaugeVec
	resumesParsed   *prometheus.CounterVec
	interviews      *prometheus.CounterVec
	turns           prometheus.Counter
	answerScores    prometheus.Histogram
	activeSessions  prometheus.Gauge
	transcriptJobs  *prometheus.CounterVec
	rateLimitedReqs prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		llmRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "interviewer",
			Name:      "llm_requests_total",
			Help:      "LLM chat requests by operation and outcome.",
		}, []string{"operation", "outcome"}),
		llmLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "interviewer",
			Name:      "llm_request_duration_seconds",
			Help:      "LLM chat request latency.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
		}, []string{"operation"}),
		breakerState: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "interviewer",
			Name:      "llm_circuit_breaker_state",
			Help:      "Circuit breaker state: 0 closed, 1 half-open, 2 open.",
		}, []string{"name"}),
		resumesParsed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "interviewer",
			Name:      "resumes_parsed_total",
			Help:      "Resume parse attempts by file type and outcome.",
		}, []string{"file_type", "outcome"}),
		interviews: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "interviewer",
			Name:      "interviews_total",
			Help:      "Interview lifecycle events.",
		}, []string{"event"}),
		turns: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "interviewer",
			Name:      "interview_turns_total",
			Help:      "Candidate answers processed.",
		}),
		answerScores: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "interviewer",
			Name:      "answer_score",
			Help:      "Scores given to candidate answers.",
			Buckets:   prometheus.LinearBuckets(1, 1, 10),
		}),
		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "interviewer",
			Name:      "active_sessions",
			Help:      "Interviews currently held in memory.",
		}),
		transcriptJobs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "interviewer",
			Name:      "transcript_jobs_total",
			Help:      "Transcript persistence jobs by outcome.",
		}, []string{"outcome"}),
		rateLimitedReqs: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "interviewer",
			Name:      "rate_limited_requests_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
	}
}

func (m *Metrics) ObserveLLM(operation string, started time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.llmRequests.WithLabelValues(operation, outcome).Inc()
	m.llmLatency.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

func (m *Metrics) SetBreakerState(name string, state int) {
	if m == nil {
		return
	}
	m.breakerState.WithLabelValues(name).Set(float64(state))
}

func (m *Metrics) ResumeParsed(fileType, outcome string) {
	if m == nil {
		return
	}
	m.resumesParsed.WithLabelValues(fileType, outcome).Inc()
}

func (m *Metrics) InterviewEvent(event string) {
	if m == nil {
		return
	}
	m.interviews.WithLabelValues(event).Inc()
}

func (m *Metrics) Turn(score *int) {
	if m == nil {
		return
	}
	m.turns.Inc()
	if score != nil {
		m.answerScores.Observe(float64(*score))
	}
}

func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}

func (m *Metrics) TranscriptJob(outcome string) {
	if m == nil {
		return
	}
	m.transcriptJobs.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RateLimited() {
	if m == nil {
		return
	}
	m.rateLimitedReqs.Inc()
}
