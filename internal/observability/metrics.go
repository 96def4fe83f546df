package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SeedMetrics counts what a seeding run did. A nil *SeedMetrics is valid and
// records nothing.
type SeedMetrics struct {
	Registry *prometheus.Registry

	UsersCreated prometheus.Counter
	UsersSkipped prometheus.Counter
	RowsCreated  *prometheus.CounterVec
	Failures     *prometheus.CounterVec
	RunDuration  prometheus.Gauge
}

// NewSeedMetrics registers the seeder metrics on a fresh registry.
func NewSeedMetrics() *SeedMetrics {
	m := &SeedMetrics{
		Registry: prometheus.NewRegistry(),
		UsersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "panchayat_seed_users_created_total",
			Help: "Total number of users created by the seeder",
		}),
		UsersSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "panchayat_seed_users_skipped_total",
			Help: "Total number of seed users skipped because the email already existed",
		}),
		RowsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "panchayat_seed_rows_created_total",
			Help: "Total number of catalog rows created by the seeder",
		}, []string{"table"}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "panchayat_seed_failures_total",
			Help: "Total number of fatal seeding failures by error code",
		}, []string{"code"}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "panchayat_seed_run_duration_seconds",
			Help: "Wall-clock duration of the last seeding run",
		}),
	}
	m.Registry.MustRegister(m.UsersCreated, m.UsersSkipped, m.RowsCreated, m.Failures, m.RunDuration)
	return m
}

// UserCreated records one created user.
func (m *SeedMetrics) UserCreated() {
	if m != nil {
		m.UsersCreated.Inc()
	}
}

// UserSkipped records one skipped user.
func (m *SeedMetrics) UserSkipped() {
	if m != nil {
		m.UsersSkipped.Inc()
	}
}

// RowsAdded records n catalog rows written to table.
func (m *SeedMetrics) RowsAdded(table string, n int) {
	if m != nil && n > 0 {
		m.RowsCreated.WithLabelValues(table).Add(float64(n))
	}
}

// Failure records a fatal failure with the given error code.
func (m *SeedMetrics) Failure(code string) {
	if m != nil {
		m.Failures.WithLabelValues(code).Inc()
	}
}

// TrackRun returns a function that records the run duration when called (e.g. defer).
func (m *SeedMetrics) TrackRun() func() {
	start := time.Now()
	return func() {
		if m != nil {
			m.RunDuration.Set(time.Since(start).Seconds())
		}
	}
}

// WriteTextfile writes the metrics in text exposition format to path, for the
// node exporter textfile collector.
func (m *SeedMetrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
