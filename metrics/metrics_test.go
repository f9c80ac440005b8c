package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestBookingMetricsCounts(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveCheckout("down_payment")
	m.ObserveCheckout("down_payment")
	m.ObservePaymentReturn("confirmed")

	if got := testutil.ToFloat64(m.checkouts.WithLabelValues("down_payment")); got != 2 {
		t.Fatalf("expected 2 down payment checkouts, got %v", got)
	}
	if got := testutil.ToFloat64(m.paymentReturns.WithLabelValues("confirmed")); got != 1 {
		t.Fatalf("expected 1 confirmed return, got %v", got)
	}
}

func TestBookingMetricsNilSafe(t *testing.T) {
	var m *BookingMetrics
	m.ObserveHTTP("GET", "/health", "200", 0.01)
	m.ObserveSlotQuery("ok")
	m.ObserveAppointment("pending")
	m.ObserveCheckout("full")
	m.ObservePaymentReturn("cancelled")
	m.ObserveNotification("reminder", "sent")
}
