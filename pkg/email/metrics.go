package email

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	KindNotification = "notification"
	KindAutoReply    = "auto_reply"
)

// Metrics records email delivery. A nil *Metrics is valid and records nothing.
type Metrics struct {
	sendLatency *prometheus.HistogramVec
	errorCount  *prometheus.CounterVec
	sentCount   *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		sendLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portfolio_email_send_duration_seconds",
			Help:    "Time taken to send emails",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 15},
		}, []string{"kind"}),
		errorCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_email_errors_total",
			Help: "Total number of email sending errors",
		}, []string{"kind"}),
		sentCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_emails_sent_total",
			Help: "Total number of emails sent",
		}, []string{"kind"}),
	}

	reg.MustRegister(m.sendLatency, m.errorCount, m.sentCount)
	return m
}

func (m *Metrics) observe(kind string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.sendLatency.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if err != nil {
		m.errorCount.WithLabelValues(kind).Inc()
		return
	}
	m.sentCount.WithLabelValues(kind).Inc()
}
