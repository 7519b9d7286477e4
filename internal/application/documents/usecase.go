// Package documents is the query side for posted documents, including the
// data hand-off for printing. Rendering (HTML/PDF/XML) is an external
// collaborator; the engine only supplies a Posted document's data.
package documents

import (
	"context"
	"fmt"

	"github.com/skladpro/sklad-api/internal/domain"
	"github.com/skladpro/sklad-api/internal/domain/entity"
	"github.com/skladpro/sklad-api/internal/domain/numwords"
	"github.com/skladpro/sklad-api/internal/domain/repository"
)

// QueryUseCase reads documents and assembles print data.
type QueryUseCase struct {
	docs      repository.DocumentRepository
	products  repository.ProductRepository
	customers repository.CustomerRepository
}

// NewQueryUseCase builds the use case.
func NewQueryUseCase(docs repository.DocumentRepository, products repository.ProductRepository, customers repository.CustomerRepository) *QueryUseCase {
	return &QueryUseCase{docs: docs, products: products, customers: customers}
}

// ListByType returns all documents of one kind, newest first is left to the
// repository's ordering.
func (uc *QueryUseCase) ListByType(ctx context.Context, docType entity.DocumentType) ([]*entity.Document, error) {
	if !docType.Valid() {
		return nil, fmt.Errorf("%w: unknown document type %q", domain.ErrInvalidInput, docType)
	}
	return uc.docs.ListByType(docType)
}

// GetByID resolves one document with its lines.
func (uc *QueryUseCase) GetByID(ctx context.Context, id string) (*entity.Document, error) {
	doc, err := uc.docs.GetByID(id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: document %s", domain.ErrNotFound, id)
	}
	return doc, nil
}

// PrintLine is one printable document position with resolved product names.
type PrintLine struct {
	ProductName string
	Unit        string
	Line        entity.DocumentLine
}

// PrintData is everything the external renderer needs for one document.
type PrintData struct {
	Document     *entity.Document
	Counterparty *entity.Customer
	Lines        []PrintLine
	TotalInWords string // "сума прописом"
}

// PrintData assembles the hand-off payload for a Posted document. Draft or
// rejected documents have no printable form; cancelled ones keep theirs
// (operators reprint storno paperwork).
func (uc *QueryUseCase) PrintData(ctx context.Context, id string) (*PrintData, error) {
	doc, err := uc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.Status != entity.StatusPosted && doc.Status != entity.StatusCancelled {
		return nil, fmt.Errorf("%w: document %s is not posted", domain.ErrConflict, id)
	}

	data := &PrintData{
		Document:     doc,
		TotalInWords: numwords.AmountInWords(doc.TotalGross),
	}
	if doc.CounterpartyID != "" {
		counterparty, err := uc.customers.GetByID(doc.CounterpartyID)
		if err != nil {
			return nil, err
		}
		data.Counterparty = counterparty
	}
	for _, l := range doc.Lines {
		product, err := uc.products.GetByID(l.ProductID)
		if err != nil {
			return nil, err
		}
		pl := PrintLine{Line: l}
		if product != nil {
			pl.ProductName = product.Name
			pl.Unit = product.Unit
		}
		data.Lines = append(data.Lines, pl)
	}
	return data, nil
}
