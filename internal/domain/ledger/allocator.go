// Package ledger holds the pure allocation logic of the stock ledger: given a
// snapshot of open batches, partition an outbound quantity across them in
// FIFO order. The package has no storage dependency, so allocation against an
// unchanged snapshot is deterministic and idempotent.
package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/skladpro/sklad-api/internal/domain"
)

// Batch is the remaining-quantity view of one original inbound movement.
type Batch struct {
	MovementID int64
	ProductID  string
	PostedAt   time.Time
	Quantity   decimal.Decimal // originally received
	Remaining  decimal.Decimal // not yet consumed
	UnitCost   decimal.Decimal
}

// Allocation is one draw against a batch. Outbound movements are written one
// per allocation, so every issued unit stays traceable to its batch.
type Allocation struct {
	BatchMovementID int64
	Quantity        decimal.Decimal
	UnitCost        decimal.Decimal
}

// Available sums the remaining quantity over the given batches.
func Available(batches []Batch) decimal.Decimal {
	total := decimal.Zero
	for _, b := range batches {
		total = total.Add(b.Remaining)
	}
	return total
}

// Allocate partitions quantityNeeded across the batches strictly in FIFO
// order: ascending (PostedAt, MovementID). Movement ids are sequence values,
// so the sort key is a total order and same-day receipts consume oldest-id
// first. Batches may be partially consumed; the drawn quantities always sum
// exactly to quantityNeeded.
//
// Returns *domain.InsufficientStockError carrying required/available/shortage
// for the product when the open batches cannot cover the need.
func Allocate(productID string, quantityNeeded decimal.Decimal, batches []Batch) ([]Allocation, error) {
	available := Available(batches)
	if available.LessThan(quantityNeeded) {
		return nil, &domain.InsufficientStockError{Details: []domain.ShortageDetail{{
			ProductID: productID,
			Required:  quantityNeeded,
			Available: available,
			Shortage:  quantityNeeded.Sub(available),
		}}}
	}

	ordered := make([]Batch, len(batches))
	copy(ordered, batches)
	sort.Slice(ordered, func(i, j int) bool {
		if !ordered[i].PostedAt.Equal(ordered[j].PostedAt) {
			return ordered[i].PostedAt.Before(ordered[j].PostedAt)
		}
		return ordered[i].MovementID < ordered[j].MovementID
	})

	var allocations []Allocation
	remaining := quantityNeeded
	for _, b := range ordered {
		if !remaining.IsPositive() {
			break
		}
		if !b.Remaining.IsPositive() {
			continue
		}
		draw := decimal.Min(b.Remaining, remaining)
		allocations = append(allocations, Allocation{
			BatchMovementID: b.MovementID,
			Quantity:        draw,
			UnitCost:        b.UnitCost,
		})
		remaining = remaining.Sub(draw)
	}
	return allocations, nil
}
