package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/skladpro/sklad-api/internal/domain"
	"github.com/skladpro/sklad-api/internal/domain/entity"
	"github.com/skladpro/sklad-api/internal/domain/ledger"
	"github.com/skladpro/sklad-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*MovementRepo)(nil)

// MovementRepo PostgreSQL implementation of the stock ledger. The table is
// append-only; ids come from a BIGSERIAL so (posted_at, id) totally orders
// insertion for the FIFO tie-break.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository builds the adapter. Pass a pool or a tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Append inserts one ledger entry, guarded by the running-balance check in
// the same statement: the row is only written when the product's balance
// stays non-negative, otherwise domain.ErrConflict. This is the last-resort
// guard under concurrent postings — the poster's availability check cannot
// see uncommitted writes from other transactions.
func (r *MovementRepo) Append(m *entity.StockMovement) error {
	query := `
		WITH balance AS (
			SELECT COALESCE(SUM(quantity), 0) AS qty
			FROM stock_movements WHERE product_id = $1
		)
		INSERT INTO stock_movements (product_id, document_id, quantity, unit_cost, batch_id, posted_at)
		SELECT $1, $2, $3, $4, $5, $6 FROM balance WHERE balance.qty + $3 >= 0
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		m.ProductID, m.DocumentID, m.Quantity, m.UnitCost, m.BatchID, m.PostedAt,
	).Scan(&m.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: stock of product %s would go negative", domain.ErrConflict, m.ProductID)
		}
		return fmt.Errorf("append movement: %w", err)
	}
	return nil
}

// ListByDocument returns a document's entries in id order.
func (r *MovementRepo) ListByDocument(documentID string) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, product_id, document_id, quantity, unit_cost, batch_id, posted_at
		FROM stock_movements WHERE document_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.DocumentID, &m.Quantity, &m.UnitCost, &m.BatchID, &m.PostedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// BalanceAsOf sums one product's entries up to asOf inclusive.
func (r *MovementRepo) BalanceAsOf(productID string, asOf time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM stock_movements WHERE product_id = $1 AND posted_at <= $2`
	var balance decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, productID, asOf).Scan(&balance); err != nil {
		return decimal.Zero, fmt.Errorf("balance as of: %w", err)
	}
	return balance, nil
}

// BalancesAsOf sums entries up to asOf inclusive, per product.
func (r *MovementRepo) BalancesAsOf(asOf time.Time) (map[string]decimal.Decimal, error) {
	query := `
		SELECT product_id, SUM(quantity)
		FROM stock_movements WHERE posted_at <= $1 GROUP BY product_id`
	rows, err := r.q.Query(context.Background(), query, asOf)
	if err != nil {
		return nil, fmt.Errorf("balances as of: %w", err)
	}
	defer rows.Close()
	balances := make(map[string]decimal.Decimal)
	for rows.Next() {
		var id string
		var qty decimal.Decimal
		if err := rows.Scan(&id, &qty); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		balances[id] = qty
	}
	return balances, rows.Err()
}

// batchQuery derives batch remainders from the log: original inbound entries
// joined with the signed sum of every entry referencing them.
const batchQuery = `
	SELECT m.id, m.product_id, m.posted_at, m.quantity,
	       m.quantity + COALESCE(d.drawn, 0) AS remaining, m.unit_cost
	FROM stock_movements m
	LEFT JOIN (
		SELECT batch_id, SUM(quantity) AS drawn
		FROM stock_movements WHERE batch_id IS NOT NULL GROUP BY batch_id
	) d ON d.batch_id = m.id
	WHERE m.batch_id IS NULL AND m.quantity > 0`

// OpenBatches returns one product's batches with remaining quantity, in
// allocation order.
func (r *MovementRepo) OpenBatches(productID string) ([]ledger.Batch, error) {
	query := batchQuery + `
		AND m.product_id = $1
		AND m.quantity + COALESCE(d.drawn, 0) > 0
	ORDER BY m.posted_at, m.id`
	return r.queryBatches(query, productID)
}

// Batches returns every batch, allocation order.
func (r *MovementRepo) Batches() ([]ledger.Batch, error) {
	query := batchQuery + `
	ORDER BY m.posted_at, m.id`
	return r.queryBatches(query)
}

// BatchesByDocument returns the batches opened by one document.
func (r *MovementRepo) BatchesByDocument(documentID string) ([]ledger.Batch, error) {
	query := batchQuery + `
		AND m.document_id = $1
	ORDER BY m.posted_at, m.id`
	return r.queryBatches(query, documentID)
}

func (r *MovementRepo) queryBatches(query string, args ...any) ([]ledger.Batch, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query batches: %w", err)
	}
	defer rows.Close()
	var batches []ledger.Batch
	for rows.Next() {
		var b ledger.Batch
		if err := rows.Scan(&b.MovementID, &b.ProductID, &b.PostedAt, &b.Quantity, &b.Remaining, &b.UnitCost); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}
