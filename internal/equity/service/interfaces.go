package service

import "github.com/shopspring/decimal"

// OrderService places the buy once an EquityOrder fires. Buy must return
// only after the attempt has finished.
type OrderService interface {
	Buy(symbol string, quantity int64, price decimal.Decimal) error
}

// OrderServiceFunc lets a plain function act as an OrderService.
type OrderServiceFunc func(symbol string, quantity int64, price decimal.Decimal) error

func (f OrderServiceFunc) Buy(symbol string, quantity int64, price decimal.Decimal) error {
	return f(symbol, quantity, price)
}
