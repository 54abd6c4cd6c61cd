package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		ordersTotal,
		orderRevenueTotal,
	)
}

var (
	ordersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_total",
			Help: "Orders by status (pending/completed/failed/manual).",
		},
		[]string{"status"},
	)

	orderRevenueTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_revenue_total",
			Help: "The total monetary value of completed orders, labeled by currency.",
		},
		[]string{"currency"},
	)
)

func IncOrder(status string) {
	ordersTotal.WithLabelValues(norm(status)).Inc()
}

func AddOrderRevenue(currency string, amount int64) {
	orderRevenueTotal.WithLabelValues(norm(currency)).Add(float64(amount))
}
