package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/skladpro/sklad-api/internal/domain"
	"github.com/skladpro/sklad-api/internal/domain/entity"
	"github.com/skladpro/sklad-api/internal/domain/repository"
)

// ProductUseCase manages the product catalog. The posting engine never
// mutates products; it only resolves them by id.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase builds the use case.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// ProductInput fields accepted on create/update.
type ProductInput struct {
	Name    string
	Type    string
	Unit    string
	Price   decimal.Decimal
	VATRate decimal.Decimal
	Barcode string
	Notes   string
}

func (in ProductInput) validate() error {
	if in.Name == "" {
		return fmt.Errorf("%w: product name is required", domain.ErrInvalidInput)
	}
	if in.Type != entity.ProductTypeProduct && in.Type != entity.ProductTypeService {
		return fmt.Errorf("%w: product type must be %q or %q",
			domain.ErrInvalidInput, entity.ProductTypeProduct, entity.ProductTypeService)
	}
	if in.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", domain.ErrInvalidInput)
	}
	if in.VATRate.IsNegative() {
		return fmt.Errorf("%w: VAT rate must not be negative", domain.ErrInvalidInput)
	}
	return nil
}

// Create registers a new product.
func (uc *ProductUseCase) Create(ctx context.Context, in ProductInput) (*entity.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	p := &entity.Product{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Type:      in.Type,
		Unit:      in.Unit,
		Price:     in.Price,
		VATRate:   in.VATRate,
		Barcode:   in.Barcode,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces the mutable fields of an existing product.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in ProductInput) (*entity.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: product %s", domain.ErrNotFound, id)
	}
	p.Name = in.Name
	p.Type = in.Type
	p.Unit = in.Unit
	p.Price = in.Price
	p.VATRate = in.VATRate
	p.Barcode = in.Barcode
	p.Notes = in.Notes
	p.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetByID resolves one product.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: product %s", domain.ErrNotFound, id)
	}
	return p, nil
}

// List returns the full catalog.
func (uc *ProductUseCase) List(ctx context.Context) ([]*entity.Product, error) {
	return uc.repo.List()
}
