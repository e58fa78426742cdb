package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// outcome label values
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Prometheus metrics of the storefront
var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"handler", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler", "method"},
	)

	FlowTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_flow_total",
			Help: "Order lifecycle flows by outcome",
		},
		[]string{"flow", "outcome"},
	)

	ChainTxTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_chain_tx_total",
			Help: "DeliveryStore transactions by method and outcome",
		},
		[]string{"method", "outcome"},
	)

	ReconcileDivergence = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "storefront_reconcile_divergence",
			Help: "Order ids found on one side only at the last reconciliation",
		},
		[]string{"side"},
	)
)

// Register registers all Prometheus metrics
func Register(reg prometheus.Registerer) {
	reg.MustRegister(HTTPRequestsTotal)
	reg.MustRegister(HTTPRequestDuration)
	reg.MustRegister(FlowTotal)
	reg.MustRegister(ChainTxTotal)
	reg.MustRegister(ReconcileDivergence)
}

// ObserveHTTP records a served request
func ObserveHTTP(handler, method string, status int, d time.Duration) {
	HTTPRequestsTotal.WithLabelValues(handler, method, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(handler, method).Observe(d.Seconds())
}

// ObserveFlow counts a finished flow
func ObserveFlow(flow string, err error) {
	FlowTotal.WithLabelValues(flow, outcome(err)).Inc()
}

// ObserveChainTx counts a finished contract transaction
func ObserveChainTx(method string, err error) {
	ChainTxTotal.WithLabelValues(method, outcome(err)).Inc()
}

// SetDivergence records reconciliation counts
func SetDivergence(missingInStore, missingOnChain int) {
	ReconcileDivergence.WithLabelValues("store").Set(float64(missingInStore))
	ReconcileDivergence.WithLabelValues("chain").Set(float64(missingOnChain))
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}
