// Package metrics counts verification rounds with Prometheus collectors
// and writes them in the node-exporter textfile format.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pqinterop/crossverify/internal/exchange"
)

// Recorder observes finished rounds. It implements exchange.Observer.
type Recorder struct {
	registry *prometheus.Registry

	rounds       *prometheus.CounterVec
	roundSeconds *prometheus.HistogramVec
	artifactSize *prometheus.GaugeVec
	lastRound    *prometheus.GaugeVec
}

var _ exchange.Observer = (*Recorder)(nil)

// New returns a Recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		rounds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "crossverify",
				Name:      "rounds_total",
				Help:      "Count of verification rounds classified by outcome",
			},
			[]string{"family", "role", "side", "outcome"},
		),
		roundSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "crossverify",
				Name:      "round_seconds",
				Help:      "Time spent in one verification round",
				Buckets:   []float64{0.001, 0.005, 0.02, 0.1, 0.5, 2, 10, 60},
			},
			[]string{"family", "role"},
		),
		artifactSize: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "crossverify",
				Name:      "artifact_bytes",
				Help:      "Size of the last artifact seen under each blob name",
			},
			[]string{"family", "name"},
		),
		lastRound: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "crossverify",
				Name:      "last_round_timestamp_seconds",
				Help:      "Unix time the last round of a family finished",
			},
			[]string{"family", "role"},
		),
	}
	r.registry.MustRegister(r.rounds, r.roundSeconds, r.artifactSize, r.lastRound)
	return r
}

// Registry returns the registry the collectors are registered with.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// ObserveRound implements exchange.Observer.
func (r *Recorder) ObserveRound(rep *exchange.Report) {
	family, role := string(rep.Family), string(rep.Role)
	r.rounds.WithLabelValues(family, role, string(rep.Side), string(rep.Outcome)).Inc()
	r.roundSeconds.WithLabelValues(family, role).Observe(rep.Duration.Seconds())
	for _, a := range rep.Artifacts {
		r.artifactSize.WithLabelValues(family, a.Name).Set(float64(a.Size))
	}
	r.lastRound.WithLabelValues(family, role).Set(float64(rep.Started.Add(rep.Duration).Unix()))
}

// WriteTextfile writes every collected metric to path. The file is
// replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
