// internal/common/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	ProductsScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ranking_products_scored_total",
			Help: "Products scored, by score context",
		},
		[]string{"context"},
	)

	ProductScore = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ranking_product_score",
			Help:    "Distribution of final product scores",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		},
		[]string{"context"},
	)

	ProfileUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ranking_profile_updates_total",
			Help: "User profile updates by behavior and outcome",
		},
		[]string{"behavior", "status"},
	)

	ABAssignments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ranking_ab_assignments_total",
			Help: "A/B variant assignments",
		},
		[]string{"test", "variant"},
	)

	TrendingSnapshotsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ranking_trending_snapshots_published_total",
			Help: "Trending snapshots published to the notification topic",
		},
		[]string{"status"},
	)
)

// ObserveJob records the outcome of one job. An empty errorCode counts as success.
func ObserveJob(taskType string, start time.Time, errorCode string) {
	WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())
	if errorCode == "" {
		WorkerJobsCompleted.WithLabelValues(taskType).Inc()
		return
	}
	WorkerJobsFailed.WithLabelValues(taskType, errorCode).Inc()
}

// ObserveScores records a batch of scores computed under one context.
func ObserveScores(context string, scores ...float64) {
	ProductsScored.WithLabelValues(context).Add(float64(len(scores)))
	h := ProductScore.WithLabelValues(context)
	for _, s := range scores {
		h.Observe(s)
	}
}
