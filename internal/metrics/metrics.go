// Package metrics регистрирует prometheus-метрики сервиса донорства.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics объединяет счетчики и гистограммы основных операций сервиса.
type Metrics struct {
	// Исходы попыток отклика донора: accepted либо причина отказа
	AcceptOutcome *prometheus.CounterVec

	// Исходы отзыва отклика: withdrawn либо причина отказа
	WithdrawOutcome *prometheus.CounterVec

	// Исходы платежей: success, failed, canceled
	PaymentOutcome *prometheus.CounterVec

	// Длительность сборки дашборда
	DashboardLatency prometheus.Histogram
}

// New создает и регистрирует метрики в реестре по умолчанию.
func New() *Metrics {
	return &Metrics{
		AcceptOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "blood_donation_accept_outcomes_total",
			Help: "Total donation accept attempts by outcome",
		}, []string{"outcome"}),

		WithdrawOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "blood_donation_withdraw_outcomes_total",
			Help: "Total donation withdraw attempts by outcome",
		}, []string{"outcome"}),

		PaymentOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "blood_donation_payment_outcomes_total",
			Help: "Total payment transactions by final status",
		}, []string{"status"}),

		DashboardLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "blood_donation_dashboard_duration_seconds",
			Help:    "Duration of dashboard aggregation",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

// IncAccept фиксирует исход попытки отклика донора.
func (m *Metrics) IncAccept(outcome string) {
	if m != nil {
		m.AcceptOutcome.WithLabelValues(outcome).Inc()
	}
}

// IncWithdraw фиксирует исход отзыва отклика.
func (m *Metrics) IncWithdraw(outcome string) {
	if m != nil {
		m.WithdrawOutcome.WithLabelValues(outcome).Inc()
	}
}

// IncPayment фиксирует итоговый статус платежа.
func (m *Metrics) IncPayment(status string) {
	if m != nil {
		m.PaymentOutcome.WithLabelValues(status).Inc()
	}
}

// ObserveDashboard фиксирует длительность сборки дашборда.
func (m *Metrics) ObserveDashboard(d time.Duration) {
	if m != nil {
		m.DashboardLatency.Observe(d.Seconds())
	}
}
