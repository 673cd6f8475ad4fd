package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	jobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hoopcast_job_duration_seconds",
		Help:    "Duration of a commentary job from start to terminal state",
		Buckets: prometheus.DefBuckets,
	}, []string{"status"})

	jobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hoopcast_jobs_total",
		Help: "Total number of commentary jobs by terminal status",
	}, []string{"status"})

	stageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hoopcast_stage_duration_seconds",
		Help:    "Duration of each pipeline stage",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})

	commentaryEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hoopcast_commentary_events_total",
		Help: "Commentary events by source",
	}, []string{"source"})

	framesRendered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hoopcast_frames_rendered_total",
		Help: "Total number of output frames written",
	})
)
