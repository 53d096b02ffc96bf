// Package metrics exposes Prometheus metrics for universe cycles:
//   - universe_cycles_total{outcome}   cycles by outcome
//   - universe_coarse_size             symbols kept by the last coarse stage
//   - universe_size                    symbols in the last recomputed universe
//   - universe_cycle_duration_seconds  wall time of one cycle
//   - universe_last_recompute_timestamp_seconds
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wonny/aegis-universe/internal/contracts"
	"github.com/wonny/aegis-universe/internal/s1_universe"
)

// Recorder implements s1_universe.Recorder on top of Prometheus collectors
type Recorder struct {
	cycles        *prometheus.CounterVec
	coarseSize    prometheus.Gauge
	universeSize  prometheus.Gauge
	duration      prometheus.Histogram
	lastRecompute prometheus.Gauge
}

var _ s1_universe.Recorder = (*Recorder)(nil)

// NewRecorder creates the collectors and registers them with reg.
// Pass prometheus.NewRegistry() in tests to avoid global state.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		cycles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "universe_cycles_total",
				Help: "Universe cycles by outcome",
			},
			[]string{"outcome"},
		),
		coarseSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "universe_coarse_size",
			Help: "Symbols kept by the last coarse stage",
		}),
		universeSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "universe_size",
			Help: "Symbols in the last recomputed universe",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "universe_cycle_duration_seconds",
			Help:    "Wall time of one universe cycle",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8), // 1ms ~ 16s
		}),
		lastRecompute: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "universe_last_recompute_timestamp_seconds",
			Help: "Unix time of the last cycle that recomputed the universe",
		}),
	}

	reg.MustRegister(r.cycles, r.coarseSize, r.universeSize, r.duration, r.lastRecompute)

	// 모든 outcome 라벨을 0으로 미리 노출
	for _, o := range contracts.AllOutcomes() {
		r.cycles.WithLabelValues(string(o))
	}

	return r
}

// ObserveCycle records one finished cycle
func (r *Recorder) ObserveCycle(outcome contracts.Outcome, duration time.Duration, coarseCount, fineCount int) {
	r.cycles.WithLabelValues(string(outcome)).Inc()
	r.duration.Observe(duration.Seconds())

	// 게이트/실패 사이클은 크기 게이지를 건드리지 않음
	switch outcome {
	case contracts.OutcomeRecomputed:
		r.coarseSize.Set(float64(coarseCount))
		r.universeSize.Set(float64(fineCount))
		r.lastRecompute.SetToCurrentTime()
	case contracts.OutcomeFineEmpty:
		r.coarseSize.Set(float64(coarseCount))
	}
}
