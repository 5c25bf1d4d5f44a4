package entity

import "github.com/shopspring/decimal"

// Tick is a single price update for one instrument.
type Tick struct {
	Symbol string
	Price  decimal.Decimal
}

// OrderPlaced describes the tick that triggered a successful buy.
type OrderPlaced struct {
	Symbol string
	Price  decimal.Decimal
}

// OrderErrored describes the tick that triggered a buy and the failure
// returned by the order service. Err is the original failure, not a copy.
type OrderErrored struct {
	Symbol string
	Price  decimal.Decimal
	Err    error
}
