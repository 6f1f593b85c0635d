package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the checkout Prometheus collectors. All methods are safe on a nil receiver.
type Metrics struct {
	GatewayRequests        *prometheus.CounterVec
	GatewayDuration        *prometheus.HistogramVec
	CheckoutOutcomes       *prometheus.CounterVec
	VerificationOutcomes   *prometheus.CounterVec
	PersistenceWarnings    *prometheus.CounterVec
	SubscriptionsActivated prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		GatewayRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "acadeemia_gateway_requests_total",
			Help: "Payment gateway API calls by operation and outcome",
		}, []string{"operation", "outcome"}),
		GatewayDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "acadeemia_gateway_request_duration_seconds",
			Help:    "Payment gateway API call latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		CheckoutOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "acadeemia_checkout_total",
			Help: "Payment initiations by outcome",
		}, []string{"outcome"}),
		VerificationOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "acadeemia_verification_total",
			Help: "Payment verifications by gateway status",
		}, []string{"status"}),
		PersistenceWarnings: f.NewCounterVec(prometheus.CounterOpts{
			Name: "acadeemia_persistence_warnings_total",
			Help: "Non-fatal storage failures during checkout by step",
		}, []string{"step"}),
		SubscriptionsActivated: f.NewCounter(prometheus.CounterOpts{
			Name: "acadeemia_subscriptions_activated_total",
			Help: "Subscriptions moved to active after a completed payment",
		}),
	}
}

func (m *Metrics) ObserveGatewayCall(operation string, started time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.GatewayRequests.WithLabelValues(operation, outcome).Inc()
	m.GatewayDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

func (m *Metrics) CheckoutOutcome(outcome string) {
	if m == nil {
		return
	}
	m.CheckoutOutcomes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) VerificationOutcome(status string) {
	if m == nil {
		return
	}
	if status == "" {
		status = "unknown"
	}
	m.VerificationOutcomes.WithLabelValues(status).Inc()
}

func (m *Metrics) PersistenceWarning(step string) {
	if m == nil {
		return
	}
	m.PersistenceWarnings.WithLabelValues(step).Inc()
}

func (m *Metrics) SubscriptionActivated() {
	if m == nil {
		return
	}
	m.SubscriptionsActivated.Inc()
}
