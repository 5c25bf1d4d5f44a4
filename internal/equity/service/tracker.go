package service

import (
	"sync"

	"github.com/shopspring/decimal"

	"equityorder/internal/equity/entity"
)

type OutcomeStatus string

const (
	OutcomePending OutcomeStatus = "pending"
	OutcomePlaced  OutcomeStatus = "placed"
	OutcomeErrored OutcomeStatus = "errored"
)

// Outcome is what a Tracker has observed so far.
type Outcome struct {
	Status OutcomeStatus
	Symbol string
	Price  decimal.Decimal
	Err    error
}

// Tracker remembers the outcome of the EquityOrder it watches.
type Tracker struct {
	mu      sync.RWMutex
	outcome Outcome
}

func NewTracker() *Tracker {
	return &Tracker{outcome: Outcome{Status: OutcomePending}}
}

// Watch subscribes the tracker to both outcome notifications of o.
func (t *Tracker) Watch(o *EquityOrder) {
	o.OnPlaced(func(e entity.OrderPlaced) {
		t.set(Outcome{Status: OutcomePlaced, Symbol: e.Symbol, Price: e.Price})
	})
	o.OnErrored(func(e entity.OrderErrored) {
		t.set(Outcome{Status: OutcomeErrored, Symbol: e.Symbol, Price: e.Price, Err: e.Err})
	})
}

func (t *Tracker) Snapshot() Outcome {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.outcome
}

func (t *Tracker) set(o Outcome) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.outcome = o
}
