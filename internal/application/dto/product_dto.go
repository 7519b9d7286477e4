package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/skladpro/sklad-api/internal/domain/entity"
)

// ProductRequest input for creating or updating a product.
type ProductRequest struct {
	Name    string          `json:"name" validate:"required,min=1,max=200"`
	Type    string          `json:"type" validate:"omitempty,oneof=product service"`
	Unit    string          `json:"unit" validate:"max=20"`
	Price   decimal.Decimal `json:"price"`
	VATRate decimal.Decimal `json:"vat_rate"`
	Barcode string          `json:"barcode" validate:"max=64"`
	Notes   string          `json:"notes"`
}

// ProductResponse output for one product.
type ProductResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Unit      string          `json:"unit"`
	Price     decimal.Decimal `json:"price"`
	VATRate   decimal.Decimal `json:"vat_rate"`
	Barcode   string          `json:"barcode"`
	Notes     string          `json:"notes"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewProductResponse maps the entity.
func NewProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Type:      p.Type,
		Unit:      p.Unit,
		Price:     p.Price,
		VATRate:   p.VATRate,
		Barcode:   p.Barcode,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// NewProductListResponse maps a catalog listing.
func NewProductListResponse(products []*entity.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, NewProductResponse(p))
	}
	return out
}
