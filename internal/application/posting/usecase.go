package posting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/skladpro/sklad-api/internal/domain"
	"github.com/skladpro/sklad-api/internal/domain/entity"
	"github.com/skladpro/sklad-api/internal/domain/ledger"
	"github.com/skladpro/sklad-api/internal/domain/repository"
	"github.com/skladpro/sklad-api/internal/domain/vat"
)

// Poster validates a document, computes its VAT split, allocates outbound
// quantities against FIFO batches and commits the resulting ledger entries
// atomically. One document is one transaction: it either posts completely or
// leaves no ledger trace.
type Poster struct {
	txRunner      TxRunner
	docs          repository.DocumentRepository
	products      repository.ProductRepository
	customers     repository.CustomerRepository
	locks         *productLocks
	defaultRate   decimal.Decimal
	allowOverride bool
	now           func() time.Time
}

// Options tune open-question behaviour; zero value means 20% default rate and
// line-level rate overrides honoured.
type Options struct {
	DefaultVATRate           decimal.Decimal
	DisallowLineRateOverride bool
}

// NewPoster builds the use case. docs, products and customers are
// pool-bound repositories used for reads outside the posting transaction.
func NewPoster(txRunner TxRunner, docs repository.DocumentRepository, products repository.ProductRepository, customers repository.CustomerRepository, opts Options) *Poster {
	rate := opts.DefaultVATRate
	if rate.IsZero() {
		rate = decimal.NewFromInt(20)
	}
	return &Poster{
		txRunner:      txRunner,
		docs:          docs,
		products:      products,
		customers:     customers,
		locks:         newProductLocks(),
		defaultRate:   rate,
		allowOverride: !opts.DisallowLineRateOverride,
		now:           time.Now,
	}
}

// LineInput is one requested document position. VATRate nil means "use the
// product's rate" (falling back to the configured default).
type LineInput struct {
	ProductID string
	Quantity  decimal.Decimal
	Price     decimal.Decimal // unit price including VAT
	VATRate   *decimal.Decimal
}

// DocumentInput is a posting request for one document.
type DocumentInput struct {
	Type           entity.DocumentType
	Number         string
	Date           time.Time
	CounterpartyID string
	Lines          []LineInput
}

// Post runs the Draft → Posted transition: structural validation, VAT split,
// FIFO allocation for outbound types, then one atomic write of document plus
// ledger entries. Outbound shortages are aggregated across all lines into a
// single *domain.InsufficientStockError before anything is written.
func (p *Poster) Post(ctx context.Context, in DocumentInput) (*entity.Document, error) {
	doc, services, err := p.buildDocument(in)
	if err != nil {
		return nil, err
	}

	// Per-product critical section: concurrent outbound postings against the
	// same product must not both pass the availability check.
	unlock := p.locks.lockAll(doc.ProductIDs())
	defer unlock()

	err = p.txRunner.Run(ctx, func(docs repository.DocumentRepository, movements repository.StockMovementRepository) error {
		if doc.Type.Inbound() {
			if err := p.appendInbound(doc, services, movements); err != nil {
				return err
			}
		} else {
			if err := p.appendOutbound(doc, services, movements); err != nil {
				return err
			}
		}
		if err := doc.Post(p.now().UTC()); err != nil {
			return err
		}
		return docs.Create(doc)
	})
	if err != nil {
		var insufficient *domain.InsufficientStockError
		if errors.As(err, &insufficient) {
			// Availability failures keep an audit trail: the document is
			// stored terminally rejected, with no ledger effect.
			if rejErr := doc.Reject(); rejErr == nil {
				_ = p.docs.Create(doc)
			}
		}
		return nil, err
	}
	return doc, nil
}

// buildDocument validates the request and derives the immutable line amounts.
// Any violation is a validation error and nothing reaches the ledger. The
// returned set holds the products that are services: their lines carry
// amounts but never touch the ledger.
func (p *Poster) buildDocument(in DocumentInput) (*entity.Document, map[string]struct{}, error) {
	if !in.Type.Valid() {
		return nil, nil, fmt.Errorf("%w: unknown document type %q", domain.ErrInvalidInput, in.Type)
	}
	if len(in.Lines) == 0 {
		return nil, nil, fmt.Errorf("%w: document has no lines", domain.ErrInvalidInput)
	}
	if in.Date.IsZero() {
		return nil, nil, fmt.Errorf("%w: document date is required", domain.ErrInvalidInput)
	}
	if in.CounterpartyID != "" {
		counterparty, err := p.customers.GetByID(in.CounterpartyID)
		if err != nil {
			return nil, nil, err
		}
		if counterparty == nil {
			return nil, nil, fmt.Errorf("%w: counterparty %s", domain.ErrNotFound, in.CounterpartyID)
		}
	}

	doc := &entity.Document{
		ID:             uuid.New().String(),
		Type:           in.Type,
		Number:         in.Number,
		Date:           postingDate(in.Date),
		CounterpartyID: in.CounterpartyID,
		Status:         entity.StatusDraft,
		CreatedAt:      p.now().UTC(),
	}

	services := make(map[string]struct{})
	amounts := make([]vat.Amounts, 0, len(in.Lines))
	for i, l := range in.Lines {
		if l.ProductID == "" {
			return nil, nil, fmt.Errorf("%w: line %d has no product", domain.ErrInvalidInput, i+1)
		}
		product, err := p.products.GetByID(l.ProductID)
		if err != nil {
			return nil, nil, err
		}
		if product == nil {
			return nil, nil, fmt.Errorf("%w: product %s", domain.ErrNotFound, l.ProductID)
		}
		if !product.Stocked() {
			services[product.ID] = struct{}{}
		}

		rate := product.VATRate
		if rate.IsZero() && product.Type != entity.ProductTypeService {
			rate = p.defaultRate
		}
		if l.VATRate != nil && p.allowOverride {
			rate = *l.VATRate
		}

		split, err := vat.Split(l.Quantity, l.Price, rate)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		amounts = append(amounts, split)
		doc.Lines = append(doc.Lines, entity.DocumentLine{
			ProductID:      l.ProductID,
			Quantity:       l.Quantity,
			UnitPriceGross: l.Price,
			VATRate:        rate,
			Net:            split.Net,
			VAT:            split.VAT,
			Gross:          split.Gross,
		})
	}

	totals := vat.Sum(amounts)
	doc.TotalNet = totals.Net
	doc.TotalVAT = totals.VAT
	doc.TotalGross = totals.Gross
	return doc, services, nil
}

// appendInbound writes one positive ledger entry per stocked line; each entry
// opens a batch at the posted price.
func (p *Poster) appendInbound(doc *entity.Document, services map[string]struct{}, movements repository.StockMovementRepository) error {
	for _, l := range doc.Lines {
		if _, ok := services[l.ProductID]; ok {
			continue
		}
		m := &entity.StockMovement{
			ProductID:  l.ProductID,
			DocumentID: doc.ID,
			Quantity:   l.Quantity,
			UnitCost:   l.UnitPriceGross,
			PostedAt:   doc.Date,
		}
		if err := movements.Append(m); err != nil {
			return err
		}
	}
	return nil
}

// appendOutbound allocates every stocked line against the FIFO batches first,
// aggregating shortages, and writes ledger entries only if all lines fit.
// Quantities of lines sharing a product accumulate against the same snapshot.
func (p *Poster) appendOutbound(doc *entity.Document, services map[string]struct{}, movements repository.StockMovementRepository) error {
	type lineAllocation struct {
		line   entity.DocumentLine
		allocs []ledger.Allocation
	}

	batchesByProduct := make(map[string][]ledger.Batch)
	var planned []lineAllocation
	var shortages []domain.ShortageDetail

	for _, l := range doc.Lines {
		if _, ok := services[l.ProductID]; ok {
			continue
		}
		batches, ok := batchesByProduct[l.ProductID]
		if !ok {
			var err error
			batches, err = movements.OpenBatches(l.ProductID)
			if err != nil {
				return err
			}
		}

		allocs, err := ledger.Allocate(l.ProductID, l.Quantity, batches)
		if err != nil {
			var insufficient *domain.InsufficientStockError
			if !errors.As(err, &insufficient) {
				return err
			}
			shortages = append(shortages, insufficient.Details...)
			batchesByProduct[l.ProductID] = batches
			continue
		}

		// Consume the in-memory snapshot so a second line on the same
		// product sees what this line already drew.
		batchesByProduct[l.ProductID] = applyDraws(batches, allocs)
		planned = append(planned, lineAllocation{line: l, allocs: allocs})
	}

	if len(shortages) > 0 {
		return &domain.InsufficientStockError{Details: shortages}
	}

	for _, la := range planned {
		for _, a := range la.allocs {
			batchID := a.BatchMovementID
			m := &entity.StockMovement{
				ProductID:  la.line.ProductID,
				DocumentID: doc.ID,
				Quantity:   a.Quantity.Neg(),
				UnitCost:   a.UnitCost, // cost basis comes from the batch, not the sale price
				BatchID:    &batchID,
				PostedAt:   doc.Date,
			}
			if err := movements.Append(m); err != nil {
				return err
			}
		}
	}
	return nil
}

// applyDraws returns the batch snapshot with the allocations subtracted.
func applyDraws(batches []ledger.Batch, allocs []ledger.Allocation) []ledger.Batch {
	drawn := make(map[int64]decimal.Decimal, len(allocs))
	for _, a := range allocs {
		drawn[a.BatchMovementID] = drawn[a.BatchMovementID].Add(a.Quantity)
	}
	out := make([]ledger.Batch, 0, len(batches))
	for _, b := range batches {
		if q, ok := drawn[b.MovementID]; ok {
			b.Remaining = b.Remaining.Sub(q)
		}
		out = append(out, b)
	}
	return out
}

// postingDate normalizes a document date to UTC midnight: documents carry a
// calendar date with no ledger-relevant time component.
func postingDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
