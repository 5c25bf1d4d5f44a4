package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// HTTP метрики
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"method", "path"},
	)
	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests in flight",
		},
	)

	// Binance API метрики
	BinanceAPIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "binance_api_requests_total",
			Help: "Total number of Binance API requests",
		},
		[]string{"endpoint", "status"},
	)
	BinanceAPIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "binance_api_request_duration_seconds",
			Help: "Duration of Binance API requests in seconds",
		},
		[]string{"endpoint"},
	)

	// Equity order метрики
	TicksReceivedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "equity_ticks_received_total",
			Help: "Total number of ticks delivered to the equity order",
		},
	)
	OrdersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "equity_orders_total",
			Help: "Equity order outcomes by kind (placed or errored)",
		},
		[]string{"symbol", "outcome"},
	)
)

func InitMetrics() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestsInFlight)

	prometheus.MustRegister(BinanceAPIRequestsTotal)
	prometheus.MustRegister(BinanceAPIRequestDuration)

	prometheus.MustRegister(TicksReceivedTotal)
	prometheus.MustRegister(OrdersTotal)
}
