package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Expired rows removed by the reaper, per code purpose.
	ReapedRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reaper_deleted_records_total",
			Help: "Expired one-time code records deleted by the reaper",
		},
		[]string{"purpose"},
	)

	// Rows the reaper failed to delete, per code purpose.
	ReapFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reaper_failures_total",
			Help: "Expired one-time code records the reaper failed to delete",
		},
		[]string{"purpose"},
	)

	// status: sent, skipped, reschedule_failed
	Reminders = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reminders_processed_total",
			Help: "Scheduled reminders handled by the reminder scheduler",
		},
		[]string{"status"},
	)

	// status: enqueued, enqueue_failed, sent, send_failed, skipped
	Notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Outbound notifications by kind and status",
		},
		[]string{"kind", "status"},
	)

	CodeCollisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "code_collisions_total",
			Help: "Random code draws that hit an existing code and were resampled",
		},
		[]string{"purpose"},
	)

	CodesIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codes_issued_total",
			Help: "One-time codes issued per purpose",
		},
		[]string{"purpose"},
	)
)

func RecordReaped(purpose string, deleted, failed int) {
	ReapedRecords.WithLabelValues(purpose).Add(float64(deleted))
	ReapFailures.WithLabelValues(purpose).Add(float64(failed))
}

func RecordReminder(status string) {
	Reminders.WithLabelValues(status).Inc()
}

func RecordNotification(kind, status string) {
	Notifications.WithLabelValues(kind, status).Inc()
}

func RecordCodeCollision(purpose string) {
	CodeCollisions.WithLabelValues(purpose).Inc()
}

func RecordCodeIssued(purpose string) {
	CodesIssued.WithLabelValues(purpose).Inc()
}
