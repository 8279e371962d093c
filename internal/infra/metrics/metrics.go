package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	CheckIns = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gymdesk_checkins_total",
		Help: "Successful member check-ins.",
	})

	Payments = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gymdesk_payments_total",
		Help: "Payments recorded, by status.",
	}, []string{"status"})
)

func MustRegister() {
	prometheus.MustRegister(CheckIns, Payments)
}
