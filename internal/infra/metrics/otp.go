package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(otpEvents)
}

var otpEvents = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "otp_events_total",
		Help: "OTP flow events (sent/sms_failed/rate_limited/verified/invalid/expired).",
	},
	[]string{"event"},
)

func IncOTP(event string) {
	otpEvents.WithLabelValues(norm(event)).Inc()
}
