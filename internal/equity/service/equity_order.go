// internal/equity/service/equity_order.go
package service

import (
	"slices"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"equityorder/internal/equity/entity"
)

// EquityOrder buys a fixed quantity of one symbol the first time a tick
// arrives strictly below the threshold, then never acts again. It is safe
// for concurrent use.
//
// Observers run on the goroutine that delivered the winning tick, after the
// order has been deactivated. A slow observer delays that caller.
type EquityOrder struct {
	orderService OrderService
	symbol       string
	threshold    decimal.Decimal
	quantity     int64
	logger       *zap.Logger

	mu     sync.Mutex // held for the whole check-buy-deactivate sequence
	active bool

	handlersMu      sync.RWMutex
	placedHandlers  []func(entity.OrderPlaced)
	erroredHandlers []func(entity.OrderErrored)
}

func NewEquityOrder(orderService OrderService, symbol string, threshold decimal.Decimal, quantity int64, logger *zap.Logger) *EquityOrder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EquityOrder{
		orderService: orderService,
		symbol:       symbol,
		threshold:    threshold,
		quantity:     quantity,
		logger:       logger.With(zap.String("symbol", symbol), zap.String("threshold", threshold.String())),
		active:       true,
	}
}

func (o *EquityOrder) Symbol() string             { return o.symbol }
func (o *EquityOrder) Threshold() decimal.Decimal { return o.threshold }
func (o *EquityOrder) Quantity() int64            { return o.quantity }

// OnPlaced registers h to be called once the buy succeeds. A panic in h is
// recovered and logged.
func (o *EquityOrder) OnPlaced(h func(entity.OrderPlaced)) {
	o.handlersMu.Lock()
	defer o.handlersMu.Unlock()
	o.placedHandlers = append(o.placedHandlers, h)
}

// OnErrored registers h to be called once the buy fails. A panic in h is
// recovered and logged.
func (o *EquityOrder) OnErrored(h func(entity.OrderErrored)) {
	o.handlersMu.Lock()
	defer o.handlersMu.Unlock()
	o.erroredHandlers = append(o.erroredHandlers, h)
}

func (o *EquityOrder) Receive(t entity.Tick) {
	o.ReceiveTick(t.Symbol, t.Price)
}

// ReceiveTick evaluates one price update. Ticks for other symbols, ticks at
// or above the threshold and ticks arriving after the order fired are
// ignored without any signal.
func (o *EquityOrder) ReceiveTick(symbol string, price decimal.Decimal) {
	if !o.isRelevantSymbol(symbol) || !o.isBelowThreshold(price) {
		return
	}

	fired, err := o.fire(symbol, price)
	if !fired {
		return
	}

	if err != nil {
		o.logger.Error("EquityOrder: buy failed", zap.String("price", price.String()), zap.Int64("quantity", o.quantity), zap.Error(err))
		o.emitErrored(entity.OrderErrored{Symbol: symbol, Price: price, Err: err})
		return
	}
	o.logger.Info("EquityOrder: order placed", zap.String("price", price.String()), zap.Int64("quantity", o.quantity))
	o.emitPlaced(entity.OrderPlaced{Symbol: symbol, Price: price})
}

// fire runs the buy if the order is still active. fired reports whether this
// call was the one that consumed the order.
func (o *EquityOrder) fire(symbol string, price decimal.Decimal) (fired bool, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.active {
		return false, nil
	}
	defer func() { o.active = false }()

	return true, o.buy(symbol, price)
}

func (o *EquityOrder) buy(symbol string, price decimal.Decimal) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	return o.orderService.Buy(symbol, o.quantity, price)
}

func (o *EquityOrder) isRelevantSymbol(symbol string) bool {
	return o.symbol == symbol
}

func (o *EquityOrder) isBelowThreshold(price decimal.Decimal) bool {
	return price.LessThan(o.threshold)
}

func (o *EquityOrder) emitPlaced(e entity.OrderPlaced) {
	o.handlersMu.RLock()
	handlers := slices.Clone(o.placedHandlers)
	o.handlersMu.RUnlock()

	for _, h := range handlers {
		o.notify("placed", func() { h(e) })
	}
}

func (o *EquityOrder) emitErrored(e entity.OrderErrored) {
	o.handlersMu.RLock()
	handlers := slices.Clone(o.erroredHandlers)
	o.handlersMu.RUnlock()

	for _, h := range handlers {
		o.notify("errored", func() { h(e) })
	}
}

// notify runs one observer; a panicking observer is logged and skipped so
// the remaining observers still run and the tick caller never sees it.
func (o *EquityOrder) notify(kind string, call func()) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("EquityOrder: observer panicked", zap.String("outcome", kind), zap.Any("panic", r))
		}
	}()
	call()
}
