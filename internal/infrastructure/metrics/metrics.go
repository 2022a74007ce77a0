package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DealMetrics holds the Prometheus collectors for the deal lifecycle.
type DealMetrics struct {
	// Deals created and the money they lock
	DealsCreatedTotal      prometheus.Counter
	DealAmountCreatedTotal prometheus.Counter
	ServiceFeeTotal        prometheus.Counter

	// Lifecycle transitions by operation and target status
	DealTransitionsTotal *prometheus.CounterVec

	// Verify-payment outcomes
	PaymentVerificationsTotal *prometheus.CounterVec
	TimeToPayment             prometheus.Histogram

	GatewayInitializeFailuresTotal prometheus.Counter

	// Errors by operation and error kind
	DealOperationErrorsTotal *prometheus.CounterVec

	// Reconciler runs
	ReconcilerRunsTotal *prometheus.CounterVec
}

// NewDealMetrics registers the deal collectors on reg. Passing a fresh
// registry keeps independent instances from colliding.
func NewDealMetrics(reg prometheus.Registerer) *DealMetrics {
	factory := promauto.With(reg)

	return &DealMetrics{
		DealsCreatedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "deals_created_total",
				Help: "Total number of deals created",
			},
		),
		DealAmountCreatedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "deal_amount_created_total",
				Help: "Sum of totalToPay over created deals",
			},
		),
		ServiceFeeTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "deal_service_fee_total",
				Help: "Sum of service fees charged on created deals",
			},
		),
		DealTransitionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deal_transitions_total",
				Help: "Deal lifecycle transitions by operation and resulting status",
			},
			[]string{"operation", "to"},
		),
		PaymentVerificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_verifications_total",
				Help: "Verify-payment calls by result",
			},
			[]string{"result"},
		),
		TimeToPayment: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "deal_time_to_payment_seconds",
				Help:    "Time between deal creation and verified payment",
				Buckets: prometheus.ExponentialBuckets(5, 2, 12), // 5s .. ~2.8h
			},
		),
		GatewayInitializeFailuresTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "gateway_initialize_failures_total",
				Help: "Deals returned without an authorization url",
			},
		),
		DealOperationErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deal_operation_errors_total",
				Help: "Failed deal operations by operation and error kind",
			},
			[]string{"operation", "kind"},
		),
		ReconcilerRunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deal_reconciler_checks_total",
				Help: "Pending deals checked by the reconciler, by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// RecordDealCreated records a newly persisted deal.
func (m *DealMetrics) RecordDealCreated(totalToPay, serviceFee float64) {
	m.DealsCreatedTotal.Inc()
	m.DealAmountCreatedTotal.Add(totalToPay)
	m.ServiceFeeTotal.Add(serviceFee)
}

// RecordTransition records a successful lifecycle transition.
func (m *DealMetrics) RecordTransition(operation, to string) {
	m.DealTransitionsTotal.WithLabelValues(operation, to).Inc()
}

// RecordVerification records the outcome of a verify-payment call.
func (m *DealMetrics) RecordVerification(result string) {
	m.PaymentVerificationsTotal.WithLabelValues(result).Inc()
}

// RecordTimeToPayment observes seconds from creation to payment.
func (m *DealMetrics) RecordTimeToPayment(seconds float64) {
	m.TimeToPayment.Observe(seconds)
}

func (m *DealMetrics) RecordGatewayInitFailure() {
	m.GatewayInitializeFailuresTotal.Inc()
}

// RecordError records a failed operation.
func (m *DealMetrics) RecordError(operation, kind string) {
	m.DealOperationErrorsTotal.WithLabelValues(operation, kind).Inc()
}

func (m *DealMetrics) RecordReconcileOutcome(outcome string) {
	m.ReconcilerRunsTotal.WithLabelValues(outcome).Inc()
}
