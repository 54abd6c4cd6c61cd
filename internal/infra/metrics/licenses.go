package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		licensesIssued,
		activationResults,
	)
}

var (
	licensesIssued = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "licenses_issued_total",
			Help: "Licenses created by the order pipeline and admin issuance.",
		},
	)

	activationResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "license_activations_total",
			Help: "License validate calls by outcome (valid/bound/not_found/revoked/expired/device_mismatch).",
		},
		[]string{"result"},
	)
)

func IncLicenseIssued() { licensesIssued.Inc() }

func IncActivation(result string) {
	activationResults.WithLabelValues(norm(result)).Inc()
}
