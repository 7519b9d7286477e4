package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Domain errors (no external dependencies).
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrDuplicate    = errors.New("duplicate resource")
	ErrConflict     = errors.New("conflict with current state")
)

// ShortageDetail describes one outbound line that exceeds available stock.
// The shape is consumed as-is by the client's error display.
type ShortageDetail struct {
	ProductID string          `json:"product_id"`
	Required  decimal.Decimal `json:"required"`
	Available decimal.Decimal `json:"available"`
	Shortage  decimal.Decimal `json:"shortage"`
}

// InsufficientStockError aggregates one ShortageDetail per failing line of a
// document. Posting is all-or-nothing: a single failing line rejects the
// whole document and no ledger entry is written.
type InsufficientStockError struct {
	Details []ShortageDetail
}

func (e *InsufficientStockError) Error() string {
	if len(e.Details) == 1 {
		d := e.Details[0]
		return fmt.Sprintf("insufficient stock for product %s: required %s, available %s",
			d.ProductID, d.Required, d.Available)
	}
	return fmt.Sprintf("insufficient stock for %d products", len(e.Details))
}
