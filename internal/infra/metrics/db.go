package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(dbQueryErrors)
}

var dbQueryErrors = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "db_query_errors_total",
		Help: "Failed database statements by repository operation.",
	},
	[]string{"op"},
)

func IncDBError(op string) {
	dbQueryErrors.WithLabelValues(norm(op)).Inc()
}
