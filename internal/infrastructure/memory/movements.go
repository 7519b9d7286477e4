package memory

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/skladpro/sklad-api/internal/domain"
	"github.com/skladpro/sklad-api/internal/domain/entity"
	"github.com/skladpro/sklad-api/internal/domain/ledger"
)

// movementRepo is the ledger over the store's ordered log. Balances and
// batch remainders are always derived from the entries, never cached.
type movementRepo struct {
	s    *Store
	inTx bool
}

func (r *movementRepo) Append(m *entity.StockMovement) error {
	defer r.s.lock(r.inTx)()

	balance := decimal.Zero
	for _, i := range r.s.byProduct[m.ProductID] {
		balance = balance.Add(r.s.movements[i].Quantity)
	}
	if balance.Add(m.Quantity).IsNegative() {
		return fmt.Errorf("%w: stock of product %s would go negative", domain.ErrConflict, m.ProductID)
	}

	r.s.nextMovementID++
	m.ID = r.s.nextMovementID
	cp := *m
	r.s.byProduct[m.ProductID] = append(r.s.byProduct[m.ProductID], len(r.s.movements))
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *movementRepo) ListByDocument(documentID string) ([]*entity.StockMovement, error) {
	defer r.s.lock(r.inTx)()
	var list []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.DocumentID == documentID {
			cp := *m
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (r *movementRepo) BalanceAsOf(productID string, asOf time.Time) (decimal.Decimal, error) {
	defer r.s.lock(r.inTx)()
	balance := decimal.Zero
	for _, i := range r.s.byProduct[productID] {
		if m := r.s.movements[i]; !m.PostedAt.After(asOf) {
			balance = balance.Add(m.Quantity)
		}
	}
	return balance, nil
}

func (r *movementRepo) BalancesAsOf(asOf time.Time) (map[string]decimal.Decimal, error) {
	defer r.s.lock(r.inTx)()
	balances := make(map[string]decimal.Decimal)
	for _, m := range r.s.movements {
		if m.PostedAt.After(asOf) {
			continue
		}
		balances[m.ProductID] = balances[m.ProductID].Add(m.Quantity)
	}
	return balances, nil
}

func (r *movementRepo) OpenBatches(productID string) ([]ledger.Batch, error) {
	defer r.s.lock(r.inTx)()
	var open []ledger.Batch
	for _, b := range r.s.deriveBatches(productID) {
		if b.Remaining.IsPositive() {
			open = append(open, b)
		}
	}
	return open, nil
}

func (r *movementRepo) Batches() ([]ledger.Batch, error) {
	defer r.s.lock(r.inTx)()
	return r.s.deriveBatches(""), nil
}

func (r *movementRepo) BatchesByDocument(documentID string) ([]ledger.Batch, error) {
	defer r.s.lock(r.inTx)()
	drawn := make(map[int64]decimal.Decimal)
	for _, m := range r.s.movements {
		if m.BatchID != nil {
			drawn[*m.BatchID] = drawn[*m.BatchID].Add(m.Quantity)
		}
	}
	var out []ledger.Batch
	for _, m := range r.s.movements {
		if m.DocumentID != documentID || !m.IsBatch() {
			continue
		}
		out = append(out, ledger.Batch{
			MovementID: m.ID,
			ProductID:  m.ProductID,
			PostedAt:   m.PostedAt,
			Quantity:   m.Quantity,
			Remaining:  m.Quantity.Add(drawn[m.ID]),
			UnitCost:   m.UnitCost,
		})
	}
	return out, nil
}

// deriveBatches folds the log into batch remainders: an original inbound
// entry opens a batch; every entry referencing it (draws and compensations)
// adjusts the remainder by its signed quantity. Result is in allocation
// order (posted_at, id). Empty productID means all products.
func (s *Store) deriveBatches(productID string) []ledger.Batch {
	drawn := make(map[int64]decimal.Decimal)
	var batches []ledger.Batch
	for _, m := range s.movements {
		if productID != "" && m.ProductID != productID {
			continue
		}
		if m.BatchID != nil {
			drawn[*m.BatchID] = drawn[*m.BatchID].Add(m.Quantity)
			continue
		}
		if m.IsBatch() {
			batches = append(batches, ledger.Batch{
				MovementID: m.ID,
				ProductID:  m.ProductID,
				PostedAt:   m.PostedAt,
				Quantity:   m.Quantity,
				UnitCost:   m.UnitCost,
			})
		}
	}
	for i := range batches {
		batches[i].Remaining = batches[i].Quantity.Add(drawn[batches[i].MovementID])
	}
	sort.Slice(batches, func(i, j int) bool {
		if !batches[i].PostedAt.Equal(batches[j].PostedAt) {
			return batches[i].PostedAt.Before(batches[j].PostedAt)
		}
		return batches[i].MovementID < batches[j].MovementID
	})
	return batches
}
