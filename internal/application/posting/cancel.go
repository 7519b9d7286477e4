package posting

import (
	"context"
	"fmt"

	"github.com/skladpro/sklad-api/internal/domain"
	"github.com/skladpro/sklad-api/internal/domain/entity"
	"github.com/skladpro/sklad-api/internal/domain/repository"
)

// Cancel runs the Posted → Cancelled transition. History is never deleted:
// every ledger entry the document owns gets an equal-and-opposite
// compensating entry (same batch reference, inverted sign), timestamped at
// the cancellation instant so as-of reports before it are unaffected.
//
// Cancelling a goods receipt whose batches have already been drawn by later
// outbound documents fails with domain.ErrConflict: the allocations made
// against those batches cannot be retroactively invalidated. A batch is
// considered untouched when its remaining quantity equals the received one,
// so draws that were themselves cancelled do not block.
func (p *Poster) Cancel(ctx context.Context, documentID string) (*entity.Document, error) {
	// Pre-read outside the transaction to learn the lock set. Locks are
	// always taken before the transaction starts (same order as Post).
	preread, err := p.docs.GetByID(documentID)
	if err != nil {
		return nil, err
	}
	if preread == nil {
		return nil, fmt.Errorf("%w: document %s", domain.ErrNotFound, documentID)
	}

	unlock := p.locks.lockAll(preread.ProductIDs())
	defer unlock()

	var cancelled *entity.Document
	err = p.txRunner.Run(ctx, func(docs repository.DocumentRepository, movements repository.StockMovementRepository) error {
		doc, err := docs.GetByID(documentID)
		if err != nil {
			return err
		}
		if doc == nil {
			return fmt.Errorf("%w: document %s", domain.ErrNotFound, documentID)
		}

		at := p.now().UTC()
		if err := doc.Cancel(at); err != nil {
			return err
		}

		if doc.Type.Inbound() {
			batches, err := movements.BatchesByDocument(doc.ID)
			if err != nil {
				return err
			}
			for _, b := range batches {
				if !b.Remaining.Equal(b.Quantity) {
					return fmt.Errorf("%w: batch %d already consumed by later documents",
						domain.ErrConflict, b.MovementID)
				}
			}
		}

		owned, err := movements.ListByDocument(doc.ID)
		if err != nil {
			return err
		}
		for _, m := range owned {
			comp := &entity.StockMovement{
				ProductID:  m.ProductID,
				DocumentID: doc.ID,
				Quantity:   m.Quantity.Neg(),
				UnitCost:   m.UnitCost,
				BatchID:    m.BatchID,
				PostedAt:   at,
			}
			if comp.BatchID == nil {
				// Retiring an untouched batch: the compensation consumes it
				// in full so it never allocates again.
				batchID := m.ID
				comp.BatchID = &batchID
			}
			if err := movements.Append(comp); err != nil {
				return err
			}
		}

		if err := docs.UpdateStatus(doc.ID, entity.StatusCancelled, at); err != nil {
			return err
		}
		cancelled = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}
