// Package stock is the read side of the ledger: current balances, as-of-date
// reports and the lot-level batches view. Queries only see committed ledger
// entries, so they can run concurrently with postings.
package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/skladpro/sklad-api/internal/domain"
	"github.com/skladpro/sklad-api/internal/domain/repository"
)

// Snapshot aggregates the stock ledger at a point in time.
type Snapshot struct {
	movements repository.StockMovementRepository
	products  repository.ProductRepository
	now       func() time.Time
}

// NewSnapshot builds the use case.
func NewSnapshot(movements repository.StockMovementRepository, products repository.ProductRepository) *Snapshot {
	return &Snapshot{movements: movements, products: products, now: time.Now}
}

// ProductStock is one row of the stock views.
type ProductStock struct {
	ProductID   string
	ProductName string
	Unit        string
	Available   decimal.Decimal
}

// BatchView is one open or drained batch with its remaining quantity.
type BatchView struct {
	BatchID      int64
	ProductID    string
	ProductName  string
	ReceivedDate time.Time
	Remaining    decimal.Decimal
	UnitCost     decimal.Decimal
}

// ProductDetail is the per-product stock view with its batch breakdown.
type ProductDetail struct {
	ProductStock
	Batches []BatchView
}

// CurrentStock returns quantity on hand for every stocked product, zero rows
// included — operators expect the full catalog in the stock table.
func (s *Snapshot) CurrentStock(ctx context.Context) ([]ProductStock, error) {
	return s.stockAsOf(s.now().UTC())
}

// Report returns the stock levels as of the end of the given calendar date:
// every movement whose document is dated on or before it counts, later ones
// do not.
func (s *Snapshot) Report(ctx context.Context, date time.Time) ([]ProductStock, error) {
	return s.stockAsOf(endOfDay(date))
}

// ProductDetail returns one product's balance with its open batches.
func (s *Snapshot) ProductDetail(ctx context.Context, productID string) (*ProductDetail, error) {
	product, err := s.products.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: product %s", domain.ErrNotFound, productID)
	}

	balance, err := s.movements.BalanceAsOf(productID, s.now().UTC())
	if err != nil {
		return nil, err
	}
	open, err := s.movements.OpenBatches(productID)
	if err != nil {
		return nil, err
	}

	detail := &ProductDetail{ProductStock: ProductStock{
		ProductID:   product.ID,
		ProductName: product.Name,
		Unit:        product.Unit,
		Available:   balance,
	}}
	for _, b := range open {
		detail.Batches = append(detail.Batches, BatchView{
			BatchID:      b.MovementID,
			ProductID:    b.ProductID,
			ProductName:  product.Name,
			ReceivedDate: b.PostedAt,
			Remaining:    b.Remaining,
			UnitCost:     b.UnitCost,
		})
	}
	return detail, nil
}

// Batches returns the remaining unconsumed quantity of every batch, for
// operator visibility into lot-level stock.
func (s *Snapshot) Batches(ctx context.Context) ([]BatchView, error) {
	batches, err := s.movements.Batches()
	if err != nil {
		return nil, err
	}
	names, err := s.productNames()
	if err != nil {
		return nil, err
	}

	views := make([]BatchView, 0, len(batches))
	for _, b := range batches {
		views = append(views, BatchView{
			BatchID:      b.MovementID,
			ProductID:    b.ProductID,
			ProductName:  names[b.ProductID],
			ReceivedDate: b.PostedAt,
			Remaining:    b.Remaining,
			UnitCost:     b.UnitCost,
		})
	}
	return views, nil
}

func (s *Snapshot) stockAsOf(asOf time.Time) ([]ProductStock, error) {
	balances, err := s.movements.BalancesAsOf(asOf)
	if err != nil {
		return nil, err
	}
	products, err := s.products.List()
	if err != nil {
		return nil, err
	}

	var rows []ProductStock
	for _, p := range products {
		if !p.Stocked() {
			continue
		}
		available := decimal.Zero
		if b, ok := balances[p.ID]; ok {
			available = b
		}
		rows = append(rows, ProductStock{
			ProductID:   p.ID,
			ProductName: p.Name,
			Unit:        p.Unit,
			Available:   available,
		})
	}
	return rows, nil
}

func (s *Snapshot) productNames() (map[string]string, error) {
	products, err := s.products.List()
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}
	return names, nil
}

// endOfDay is the inclusive as-of-date cutoff: the last representable
// instant of the date in UTC at microsecond precision (the storage
// timestamp resolution).
func endOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1).Add(-time.Microsecond)
}
