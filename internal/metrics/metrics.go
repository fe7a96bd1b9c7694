package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks the payment funnel: orders minted, payments verified,
// coupons redeemed, checkouts abandoned.
type Metrics struct {
	OrdersCreated      prometheus.Counter
	PaymentsCompleted  prometheus.Counter
	SignatureFailures  prometheus.Counter
	CouponsRedeemed    prometheus.Counter
	CheckoutsAbandoned prometheus.Counter
	VerifyDuration     prometheus.Histogram
}

// New registers all payment metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		OrdersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "summit_payment_orders_created_total",
			Help: "Total provider orders created",
		}),
		PaymentsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "summit_payments_completed_total",
			Help: "Total attendee payments verified and completed",
		}),
		SignatureFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "summit_payment_signature_failures_total",
			Help: "Total payment callbacks rejected for a bad signature",
		}),
		CouponsRedeemed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "summit_coupons_redeemed_total",
			Help: "Total coupon uses consumed at order creation",
		}),
		CheckoutsAbandoned: promauto.NewCounter(prometheus.CounterOpts{
			Name: "summit_checkouts_abandoned_total",
			Help: "Total checkout sessions marked abandoned",
		}),
		VerifyDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "summit_payment_verify_duration_seconds",
			Help:    "Duration of signature verification plus state transition",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// ObserveVerify records the duration of one verify request.
// Call with time.Now() captured at the start.
func (m *Metrics) ObserveVerify(start time.Time) {
	if m == nil {
		return
	}
	m.VerifyDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncOrdersCreated() {
	if m != nil {
		m.OrdersCreated.Inc()
	}
}

func (m *Metrics) IncPaymentsCompleted() {
	if m != nil {
		m.PaymentsCompleted.Inc()
	}
}

func (m *Metrics) IncSignatureFailures() {
	if m != nil {
		m.SignatureFailures.Inc()
	}
}

func (m *Metrics) IncCouponsRedeemed() {
	if m != nil {
		m.CouponsRedeemed.Inc()
	}
}

func (m *Metrics) IncCheckoutsAbandoned() {
	if m != nil {
		m.CheckoutsAbandoned.Inc()
	}
}
