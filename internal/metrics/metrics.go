package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics 收集排期优化相关的指标
type Metrics struct {
	RunsTotal        *prometheus.CounterVec
	GenerationsTotal prometheus.Counter
	BestFitness      *prometheus.GaugeVec
	RunDuration      prometheus.Histogram
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tv_scheduler_runs_total",
				Help: "Total number of optimizer runs",
			},
			[]string{"status"},
		),
		GenerationsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "tv_scheduler_generations_total",
				Help: "Total number of generations evolved",
			},
		),
		BestFitness: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tv_scheduler_best_fitness",
				Help: "Best total rating of the latest run per dataset",
			},
			[]string{"dataset"},
		),
		RunDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tv_scheduler_run_duration_seconds",
				Help:    "Optimizer run duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		CacheHitsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "tv_scheduler_cache_hits_total",
				Help: "Total number of schedule results served from cache",
			},
		),
		CacheMissesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "tv_scheduler_cache_misses_total",
				Help: "Total number of schedule results not found in cache",
			},
		),
	}
}

// ObserveRun 记录一次优化的结果，err 非空时记为失败
func (m *Metrics) ObserveRun(dataset string, bestFitness float64, generations int32, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	m.RunsTotal.WithLabelValues(status).Inc()
	m.GenerationsTotal.Add(float64(generations))
	m.RunDuration.Observe(duration.Seconds())
	if err == nil {
		m.BestFitness.WithLabelValues(dataset).Set(bestFitness)
	}
}
