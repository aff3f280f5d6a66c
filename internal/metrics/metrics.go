package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rs1500_http_requests_total",
		Help: "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rs1500_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	OTPIssued = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rs1500_otp_issued_total",
		Help: "One-time codes issued, by outcome.",
	}, []string{"outcome"})

	// OTPVerifications is labelled with the internal failure reason; clients
	// only ever see a single generic error.
	OTPVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rs1500_otp_verifications_total",
		Help: "One-time code verifications, by result.",
	}, []string{"result"})

	ApprovalTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rs1500_hotel_approval_transitions_total",
		Help: "Hotel approval workflow transitions.",
	}, []string{"transition"})

	MailDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rs1500_mail_deliveries_total",
		Help: "Outgoing emails, by kind and outcome.",
	}, []string{"kind", "outcome"})
)
