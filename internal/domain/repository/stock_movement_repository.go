package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/skladpro/sklad-api/internal/domain/entity"
	"github.com/skladpro/sklad-api/internal/domain/ledger"
)

// StockMovementRepository is the append-only stock ledger. Entries are never
// mutated; every balance and batch view is derived from the log.
type StockMovementRepository interface {
	// Append writes one entry and assigns its sequence id. It is the final,
	// authoritative guard against negative stock: if the product's running
	// balance would go below zero the append fails with domain.ErrConflict
	// and nothing is written.
	Append(m *entity.StockMovement) error

	// ListByDocument returns the entries owned by a document, in id order.
	ListByDocument(documentID string) ([]*entity.StockMovement, error)

	// BalanceAsOf returns the signed sum of the product's entries with
	// posted_at ≤ asOf.
	BalanceAsOf(productID string, asOf time.Time) (decimal.Decimal, error)

	// BalancesAsOf is BalanceAsOf for every product with at least one entry.
	BalancesAsOf(asOf time.Time) (map[string]decimal.Decimal, error)

	// OpenBatches returns the product's batches with remaining quantity > 0,
	// ordered ascending (posted_at, id) — allocation order.
	OpenBatches(productID string) ([]ledger.Batch, error)

	// Batches returns every batch (any remaining quantity), allocation order.
	Batches() ([]ledger.Batch, error)

	// BatchesByDocument returns the batches opened by one document's inbound
	// entries. Used by cancellation to detect downstream consumption.
	BatchesByDocument(documentID string) ([]ledger.Batch, error)
}
