package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Intakes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "enrollment", Name: "intakes_total", Help: "Applicant intake attempts by result",
	}, []string{"result"})
	Transitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "enrollment", Name: "transitions_total", Help: "Applied status transitions by target status",
	}, []string{"status"})
	Verifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "enrollment", Name: "verifications_total", Help: "Document verify/unverify actions",
	}, []string{"action"})
	Progressions = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "enrollment", Name: "semester_progressions_total", Help: "Students advanced to the 2nd semester",
	})
	NotificationFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "enrollment", Name: "notification_failures_total", Help: "Notification dispatch failures by kind",
	}, []string{"kind"})
	AuditLogFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "enrollment", Name: "audit_log_failures_total", Help: "Verification log writes that failed",
	})
	HTTPErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "enrollment", Name: "http_errors_total", Help: "API responses with status >= 500",
	}, []string{"route"})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "enrollment", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(Intakes, Transitions, Verifications, Progressions,
		NotificationFailures, AuditLogFailures, HTTPErrors, DBPing)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }
