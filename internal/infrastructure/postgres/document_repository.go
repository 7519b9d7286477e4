package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/skladpro/sklad-api/internal/domain"
	"github.com/skladpro/sklad-api/internal/domain/entity"
	"github.com/skladpro/sklad-api/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo PostgreSQL implementation of DocumentRepository (usable with
// pool or tx). Lines are written once with the document; UpdateStatus is the
// only mutation.
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository builds the adapter. Pass a pool or a tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

// Create persists the document and all its lines.
func (r *DocumentRepo) Create(d *entity.Document) error {
	ctx := context.Background()
	query := `
		INSERT INTO documents (id, type, number, date, counterparty_id, status,
			total_net, total_vat, total_gross, created_at, posted_at, cancelled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		d.ID, string(d.Type), d.Number, d.Date, nullIfEmpty(d.CounterpartyID), string(d.Status),
		d.TotalNet, d.TotalVAT, d.TotalGross, d.CreatedAt, d.PostedAt, d.CancelledAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert document: %w", err)
	}

	lineQuery := `
		INSERT INTO document_lines (document_id, line_no, product_id, quantity,
			unit_price_gross, vat_rate, net, vat, gross)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for i, l := range d.Lines {
		_, err := r.q.Exec(ctx, lineQuery,
			d.ID, i+1, l.ProductID, l.Quantity, l.UnitPriceGross, l.VATRate, l.Net, l.VAT, l.Gross,
		)
		if err != nil {
			return fmt.Errorf("insert document line %d: %w", i+1, err)
		}
	}
	return nil
}

// GetByID fetches one document with its lines; nil when absent.
func (r *DocumentRepo) GetByID(id string) (*entity.Document, error) {
	ctx := context.Background()
	query := `
		SELECT id, type, number, date, COALESCE(counterparty_id, ''), status,
		       total_net, total_vat, total_gross, created_at, posted_at, cancelled_at
		FROM documents WHERE id = $1`
	d, err := scanDocument(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	if err := r.loadLines(ctx, []*entity.Document{d}); err != nil {
		return nil, err
	}
	return d, nil
}

// ListByType returns documents of one kind, newest date first.
func (r *DocumentRepo) ListByType(docType entity.DocumentType) ([]*entity.Document, error) {
	ctx := context.Background()
	query := `
		SELECT id, type, number, date, COALESCE(counterparty_id, ''), status,
		       total_net, total_vat, total_gross, created_at, posted_at, cancelled_at
		FROM documents WHERE type = $1 ORDER BY date DESC, created_at DESC`
	rows, err := r.q.Query(ctx, query, string(docType))
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()
	var list []*entity.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		list = append(list, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// UpdateStatus advances the lifecycle state.
func (r *DocumentRepo) UpdateStatus(id string, status entity.DocumentStatus, at time.Time) error {
	query := `
		UPDATE documents
		SET status = $2,
		    posted_at = CASE WHEN $2 = 'posted' THEN $3 ELSE posted_at END,
		    cancelled_at = CASE WHEN $2 = 'cancelled' THEN $3 ELSE cancelled_at END
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, string(status), at)
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *DocumentRepo) loadLines(ctx context.Context, docs []*entity.Document) error {
	if len(docs) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Document, len(docs))
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
		ids = append(ids, d.ID)
	}
	query := `
		SELECT document_id, product_id, quantity, unit_price_gross, vat_rate, net, vat, gross
		FROM document_lines WHERE document_id = ANY($1) ORDER BY document_id, line_no`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("list document lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var docID string
		var l entity.DocumentLine
		if err := rows.Scan(&docID, &l.ProductID, &l.Quantity, &l.UnitPriceGross, &l.VATRate, &l.Net, &l.VAT, &l.Gross); err != nil {
			return fmt.Errorf("scan document line: %w", err)
		}
		if d, ok := byID[docID]; ok {
			d.Lines = append(d.Lines, l)
		}
	}
	return rows.Err()
}

func scanDocument(row pgx.Row) (*entity.Document, error) {
	var d entity.Document
	var docType, status string
	err := row.Scan(&d.ID, &docType, &d.Number, &d.Date, &d.CounterpartyID, &status,
		&d.TotalNet, &d.TotalVAT, &d.TotalGross, &d.CreatedAt, &d.PostedAt, &d.CancelledAt)
	if err != nil {
		return nil, err
	}
	d.Type = entity.DocumentType(docType)
	d.Status = entity.DocumentStatus(status)
	return &d, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
