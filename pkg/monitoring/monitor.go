package monitoring

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	Registry = prometheus.NewRegistry()

	RunCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_runs_total",
			Help: "Total number of recommendation runs",
		},
		[]string{"outcome"},
	)

	StageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_stage_duration_seconds",
			Help:    "Duration of recommendation pipeline stages",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"stage"},
	)

	EligibleSubjects = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_eligible_subjects",
			Help:    "Number of eligible subjects per run",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
		},
	)

	SkippedVectors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_skipped_vectors_total",
			Help: "Eligible subjects left out because the vector table has no entry",
		},
	)

	CacheCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_cache_total",
			Help: "Result cache operations by result",
		},
		[]string{"op", "result"},
	)
)

var initOnce sync.Once

func Init() {
	initOnce.Do(func() {
		Registry.MustRegister(RunCounter)
		Registry.MustRegister(StageDuration)
		Registry.MustRegister(EligibleSubjects)
		Registry.MustRegister(SkippedVectors)
		Registry.MustRegister(CacheCounter)
	})
}

// WriteTextfile dumps the registry in the node-exporter textfile format.
func WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return prometheus.WriteToTextfile(path, Registry)
}
