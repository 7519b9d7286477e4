package repository

import (
	"time"

	"github.com/skladpro/sklad-api/internal/domain/entity"
)

// DocumentRepository persistence contract for posting documents and their
// lines. Lines are written once with the document and never updated: a
// posted document is immutable, corrections go through cancellation.
type DocumentRepository interface {
	Create(doc *entity.Document) error
	GetByID(id string) (*entity.Document, error)
	ListByType(docType entity.DocumentType) ([]*entity.Document, error)
	// UpdateStatus advances the lifecycle state; it is the only mutation a
	// stored document ever sees.
	UpdateStatus(id string, status entity.DocumentStatus, at time.Time) error
}
