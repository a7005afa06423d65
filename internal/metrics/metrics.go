// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fieldbook_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fieldbook_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	BookingJoinsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fieldbook_booking_joins_total",
		Help: "Join attempts by result (joined, already_joined, full, error).",
	}, []string{"result"})

	BookingsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fieldbook_bookings_created_total",
		Help: "Bookings created.",
	})

	OTPSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fieldbook_otp_sent_total",
		Help: "Verification codes issued by result of the mail delivery.",
	}, []string{"result"})

	OTPVerificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fieldbook_otp_verifications_total",
		Help: "Verification attempts by result.",
	}, []string{"result"})
)
