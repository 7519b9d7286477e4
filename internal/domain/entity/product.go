package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product types. Services are sold on documents but never tracked in stock.
const (
	ProductTypeProduct = "product"
	ProductTypeService = "service"
)

// Product is a catalog item. Identity is immutable; price and metadata are
// editable through catalog management. The posting engine reads it only.
// Price is the current sale price including VAT (gross pricing).
type Product struct {
	ID        string
	Name      string
	Type      string          // product, service
	Unit      string          // шт, кг, л, ...
	Price     decimal.Decimal // VAT-inclusive sale price
	VATRate   decimal.Decimal // percent: 0, 7, 20
	Barcode   string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Stocked reports whether the product participates in stock tracking.
func (p *Product) Stocked() bool {
	return p.Type == ProductTypeProduct
}
