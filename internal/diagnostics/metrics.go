// Package diagnostics records frame timing for a session.
//
// The scheduler reports every presented frame through trial.FrameObserver.
// A frame whose refresh interval exceeds 1.5 nominal intervals is counted as
// dropped: the display missed at least one refresh and the phase ran long.
package diagnostics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/roach88/maskprime/internal/trial"
)

// DroppedFactor is the interval multiple above which a frame counts as dropped.
const DroppedFactor = 1.5

// Metrics holds the session's timing metrics on a private registry.
type Metrics struct {
	registry *prometheus.Registry
	nominal  time.Duration

	// Labels: phase
	frames *prometheus.CounterVec

	// Labels: phase
	intervals *prometheus.HistogramVec

	// Labels: phase
	dropped *prometheus.CounterVec

	// Labels: block (practice, main), outcome (responded, missed)
	trials *prometheus.CounterVec
}

// New creates metrics for a display refreshing every nominal interval.
func New(nominal time.Duration) *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	buckets := prometheus.DefBuckets
	if nominal > 0 {
		n := nominal.Seconds()
		buckets = []float64{n * 0.5, n * 0.9, n * 1.1, n * DroppedFactor, n * 2.5, n * 4}
	}

	return &Metrics{
		registry: reg,
		nominal:  nominal,
		frames: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "maskprime",
			Subsystem: "display",
			Name:      "frames_total",
			Help:      "Frames presented by trial phase",
		}, []string{"phase"}),
		intervals: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "maskprime",
			Subsystem: "display",
			Name:      "refresh_interval_seconds",
			Help:      "Measured refresh interval by trial phase",
			Buckets:   buckets,
		}, []string{"phase"}),
		dropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "maskprime",
			Subsystem: "display",
			Name:      "dropped_frames_total",
			Help:      "Frames whose refresh interval exceeded 1.5 nominal intervals",
		}, []string{"phase"}),
		trials: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "maskprime",
			Subsystem: "session",
			Name:      "trials_total",
			Help:      "Completed trials by block and outcome",
		}, []string{"block", "outcome"}),
	}
}

// ObserveFrame implements trial.FrameObserver.
func (m *Metrics) ObserveFrame(phase trial.Phase, _ int64, interval time.Duration) {
	label := phase.String()
	m.frames.WithLabelValues(label).Inc()
	m.intervals.WithLabelValues(label).Observe(interval.Seconds())
	if m.nominal > 0 && float64(interval) > DroppedFactor*float64(m.nominal) {
		m.dropped.WithLabelValues(label).Inc()
	}
}

// ObserveTrial counts a completed trial.
func (m *Metrics) ObserveTrial(r trial.Result) {
	block := "main"
	if r.IsPractice() {
		block = "practice"
	}
	outcome := "responded"
	if !r.Responded {
		outcome = "missed"
	}
	m.trials.WithLabelValues(block, outcome).Inc()
}

// Registry exposes the private registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the metrics in text exposition format to path.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
