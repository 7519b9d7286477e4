package repository

import "github.com/skladpro/sklad-api/internal/domain/entity"

// ProductRepository persistence contract for catalog products.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	List() ([]*entity.Product, error)
	Update(product *entity.Product) error
}
