package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the booking site.
type BookingMetrics struct {
	httpLatency    *prometheus.HistogramVec
	slotQueries    *prometheus.CounterVec
	appointments   *prometheus.CounterVec
	checkouts      *prometheus.CounterVec
	paymentReturns *prometheus.CounterVec
	notifications  *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "studiojb",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency of HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		slotQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studiojb",
			Subsystem: "booking",
			Name:      "slot_queries_total",
			Help:      "Availability queries by outcome",
		}, []string{"outcome"}),
		appointments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studiojb",
			Subsystem: "booking",
			Name:      "appointments_created_total",
			Help:      "Appointments created by the booking flow",
		}, []string{"status"}),
		checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studiojb",
			Subsystem: "payments",
			Name:      "checkouts_total",
			Help:      "Checkout descriptors built",
		}, []string{"mode"}),
		paymentReturns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studiojb",
			Subsystem: "payments",
			Name:      "returns_total",
			Help:      "Payment redirects received from the checkout",
		}, []string{"result"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studiojb",
			Subsystem: "notify",
			Name:      "messages_total",
			Help:      "Notification messages by type and status",
		}, []string{"type", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.httpLatency, m.slotQueries, m.appointments, m.checkouts, m.paymentReturns, m.notifications)
	return m
}

func (m *BookingMetrics) ObserveHTTP(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.httpLatency.WithLabelValues(method, route, status).Observe(seconds)
}

func (m *BookingMetrics) ObserveSlotQuery(outcome string) {
	if m == nil {
		return
	}
	m.slotQueries.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveAppointment(status string) {
	if m == nil {
		return
	}
	m.appointments.WithLabelValues(status).Inc()
}

func (m *BookingMetrics) ObserveCheckout(mode string) {
	if m == nil {
		return
	}
	m.checkouts.WithLabelValues(mode).Inc()
}

func (m *BookingMetrics) ObservePaymentReturn(result string) {
	if m == nil {
		return
	}
	m.paymentReturns.WithLabelValues(result).Inc()
}

func (m *BookingMetrics) ObserveNotification(kind, status string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(kind, status).Inc()
}
