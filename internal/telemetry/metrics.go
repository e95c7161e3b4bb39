// Package telemetry holds the Prometheus collectors and OpenTelemetry setup.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "splitchain"

// Metrics are the ledger and RPC collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	GroupsCreated  prometheus.Counter
	ExpensesAdded  *prometheus.CounterVec // label: kind (even, uneven)
	Settlements    prometheus.Counter
	SettledValue   prometheus.Counter
	Deposits       prometheus.Counter
	RPCDuration    *prometheus.HistogramVec // labels: procedure, code
	RelayDelivered prometheus.Counter
	RelayFailures  prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		GroupsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "groups_created_total",
			Help:      "Groups created.",
		}),
		ExpensesAdded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expenses_added_total",
			Help:      "Expenses recorded, by split kind.",
		}, []string{"kind"}),
		Settlements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlements_total",
			Help:      "Settlements made.",
		}),
		SettledValue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settled_value_total",
			Help:      "Value transferred by settlements, in the smallest unit.",
		}),
		Deposits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deposits_total",
			Help:      "Wallet deposits.",
		}),
		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "Unary RPC latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure", "code"}),
		RelayDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relay_delivered_total",
			Help:      "Outbox events published to the broker.",
		}),
		RelayFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relay_failures_total",
			Help:      "Outbox publish attempts that failed.",
		}),
	}

	reg.MustRegister(
		m.GroupsCreated,
		m.ExpensesAdded,
		m.Settlements,
		m.SettledValue,
		m.Deposits,
		m.RPCDuration,
		m.RelayDelivered,
		m.RelayFailures,
	)
	return m
}

func (m *Metrics) GroupCreated() {
	if m == nil {
		return
	}
	m.GroupsCreated.Inc()
}

func (m *Metrics) ExpenseAdded(kind string) {
	if m == nil {
		return
	}
	m.ExpensesAdded.WithLabelValues(kind).Inc()
}

func (m *Metrics) SettlementMade(amount int64) {
	if m == nil {
		return
	}
	m.Settlements.Inc()
	m.SettledValue.Add(float64(amount))
}

func (m *Metrics) DepositMade() {
	if m == nil {
		return
	}
	m.Deposits.Inc()
}

func (m *Metrics) ObserveRPC(procedure, code string, seconds float64) {
	if m == nil {
		return
	}
	m.RPCDuration.WithLabelValues(procedure, code).Observe(seconds)
}

func (m *Metrics) Delivered(n int) {
	if m == nil {
		return
	}
	m.RelayDelivered.Add(float64(n))
}

func (m *Metrics) DeliveryFailed() {
	if m == nil {
		return
	}
	m.RelayFailures.Inc()
}
