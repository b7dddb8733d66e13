// Package metrics collects pipeline counters with Prometheus. There is no
// listener: collected values are written to a node-exporter style textfile.
package metrics

import (
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Skip reasons.
const (
	ReasonShootout = "shootout"
)

// Recorder is the subset the extractor needs; Manager implements it and Nop
// discards everything.
type Recorder interface {
	ShotEmitted(season int, goal bool)
	EventSkipped(season int, reason string)
	GameProcessed(season int)
	SeasonDuration(season int, seconds float64)
}

// Manager owns a private registry with the pipeline collectors.
type Manager struct {
	registry *prometheus.Registry

	shots    *prometheus.CounterVec
	goals    *prometheus.CounterVec
	skipped  *prometheus.CounterVec
	games    *prometheus.CounterVec
	duration *prometheus.GaugeVec
}

// Option configures a Manager.
type Option func(*Manager)

// WithRegistry uses reg instead of a fresh registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(m *Manager) { m.registry = reg }
}

// NewManager creates and registers the collectors.
func NewManager(opts ...Option) (*Manager, error) {
	m := &Manager{registry: prometheus.NewRegistry()}
	for _, opt := range opts {
		opt(m)
	}

	const ns, sub = "hockeyxg", "extractor"
	m.shots = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns, Subsystem: sub, Name: "shots_emitted_total",
		Help: "Shot feature rows emitted.",
	}, []string{"season"})
	m.goals = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns, Subsystem: sub, Name: "goals_emitted_total",
		Help: "Shot feature rows with a GOAL outcome.",
	}, []string{"season"})
	m.skipped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns, Subsystem: sub, Name: "events_skipped_total",
		Help: "Shot attempts excluded from the feature table.",
	}, []string{"season", "reason"})
	m.games = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns, Subsystem: sub, Name: "games_processed_total",
		Help: "Games walked by the extractor.",
	}, []string{"season"})
	m.duration = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: ns, Subsystem: sub, Name: "season_duration_seconds",
		Help: "Wall time of the last extraction per season.",
	}, []string{"season"})

	for _, c := range []prometheus.Collector{m.shots, m.goals, m.skipped, m.games, m.duration} {
		if err := m.registry.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}
	return m, nil
}

func label(season int) string { return strconv.Itoa(season) }

func (m *Manager) ShotEmitted(season int, goal bool) {
	m.shots.WithLabelValues(label(season)).Inc()
	if goal {
		m.goals.WithLabelValues(label(season)).Inc()
	}
}

func (m *Manager) EventSkipped(season int, reason string) {
	m.skipped.WithLabelValues(label(season), reason).Inc()
}

func (m *Manager) GameProcessed(season int) {
	m.games.WithLabelValues(label(season)).Inc()
}

func (m *Manager) SeasonDuration(season int, seconds float64) {
	m.duration.WithLabelValues(label(season)).Set(seconds)
}

// Gatherer exposes the registry for tests and reporting.
func (m *Manager) Gatherer() prometheus.Gatherer { return m.registry }

// WriteTextfile writes the current values in the text exposition format.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

// Nop is a Recorder that drops everything.
type Nop struct{}

func (Nop) ShotEmitted(int, bool)       {}
func (Nop) EventSkipped(int, string)    {}
func (Nop) GameProcessed(int)           {}
func (Nop) SeasonDuration(int, float64) {}
