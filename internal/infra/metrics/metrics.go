// File: internal/infra/metrics/metrics.go
package metrics

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once       sync.Once
	collectors []prometheus.Collector
)

func init() { register(pollsTotal, notificationsTotal, cursorTimestamp) }

// register enqueues collectors for MustRegister.
func register(cs ...prometheus.Collector) {
	collectors = append(collectors, cs...)
}

// MustRegister registers ALL enqueued collectors with Prometheus exactly once.
func MustRegister() {
	once.Do(func() {
		if len(collectors) > 0 {
			prometheus.MustRegister(collectors...)
		}
	})
}

var (
	pollsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homework_bot_polls_total",
			Help: "Poll iterations by outcome (notified/no_changes/notify_failed/failed).",
		},
		[]string{"outcome"},
	)

	notificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homework_bot_notifications_total",
			Help: "Telegram messages by kind (status/error) and result (sent/failed).",
		},
		[]string{"kind", "result"},
	)

	cursorTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "homework_bot_cursor_timestamp",
			Help: "Current from_date cursor as a Unix timestamp.",
		},
	)
)

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func IncPoll(outcome string) {
	pollsTotal.WithLabelValues(norm(outcome)).Inc()
}

func IncNotification(kind string, sent bool) {
	result := "sent"
	if !sent {
		result = "failed"
	}
	notificationsTotal.WithLabelValues(norm(kind), result).Inc()
}

func SetCursor(ts int64) {
	cursorTimestamp.Set(float64(ts))
}
