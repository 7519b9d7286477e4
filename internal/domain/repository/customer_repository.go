package repository

import "github.com/skladpro/sklad-api/internal/domain/entity"

// CustomerRepository persistence contract for counterparties.
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	List() ([]*entity.Customer, error)
	Update(customer *entity.Customer) error
}
