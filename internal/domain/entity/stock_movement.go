package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockMovement is one immutable entry of the append-only stock ledger.
// Positive Quantity is inbound, negative is outbound. An entry is never
// updated or deleted; corrections are new offsetting entries.
//
// IDs are an int64 sequence so that (PostedAt, ID) is a total order over
// insertion — FIFO allocation relies on it to break same-timestamp ties.
//
// BatchID semantics:
//   - nil on an original inbound entry: the entry itself is a batch;
//   - on an outbound entry: the inbound entry the quantity was drawn from;
//   - on a compensating entry: the batch being restored (issue cancellation)
//     or retired (receipt cancellation).
type StockMovement struct {
	ID         int64
	ProductID  string
	DocumentID string
	Quantity   decimal.Decimal // signed
	UnitCost   decimal.Decimal // inbound: posted price; outbound: allocated batch cost
	BatchID    *int64
	PostedAt   time.Time // derived from the document date; as-of filtering key
}

// Inbound reports whether the entry adds stock.
func (m *StockMovement) Inbound() bool { return m.Quantity.IsPositive() }

// IsBatch reports whether the entry opens a new batch.
func (m *StockMovement) IsBatch() bool { return m.BatchID == nil && m.Quantity.IsPositive() }
