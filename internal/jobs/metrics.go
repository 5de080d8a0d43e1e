package jobs

import "github.com/prometheus/client_golang/prometheus"

var (
	jobRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "enrollment", Name: "job_runs_total", Help: "Background job runs",
	}, []string{"job"})

	jobErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "enrollment", Name: "job_errors_total", Help: "Background job errors",
	}, []string{"job"})

	jobDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "enrollment", Name: "job_duration_seconds", Help: "Background job duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})

	overdueTemporary = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "enrollment", Name: "temporary_enrollment_overdue",
		Help: "Students whose Temporary Enrolled window ran out, as of the last watch run",
	})
)

func init() {
	prometheus.MustRegister(jobRuns, jobErrors, jobDuration, overdueTemporary)
}
