package metrics

import (
	"equityorder/internal/equity/entity"
	"equityorder/internal/equity/service"
)

// WatchOrder counts the outcome of o in OrdersTotal.
func WatchOrder(o *service.EquityOrder) {
	o.OnPlaced(func(e entity.OrderPlaced) {
		OrdersTotal.WithLabelValues(e.Symbol, "placed").Inc()
	})
	o.OnErrored(func(e entity.OrderErrored) {
		OrdersTotal.WithLabelValues(e.Symbol, "errored").Inc()
	})
}
