package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/skladpro/sklad-api/internal/domain"
	"github.com/skladpro/sklad-api/internal/domain/entity"
	"github.com/skladpro/sklad-api/internal/domain/repository"
)

// CustomerUseCase manages the counterparty directory.
type CustomerUseCase struct {
	repo repository.CustomerRepository
}

// NewCustomerUseCase builds the use case.
func NewCustomerUseCase(repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo}
}

// CustomerInput fields accepted on create/update.
type CustomerInput struct {
	Name          string
	EDRPOU        string
	IPN           string
	Address       string
	Phone         string
	Email         string
	BankName      string
	BankAccount   string
	VATPayer      bool
	ContactPerson string
	Notes         string
}

// Create registers a new counterparty.
func (uc *CustomerUseCase) Create(ctx context.Context, in CustomerInput) (*entity.Customer, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: customer name is required", domain.ErrInvalidInput)
	}
	now := time.Now().UTC()
	c := &entity.Customer{
		ID:            uuid.New().String(),
		Name:          in.Name,
		EDRPOU:        in.EDRPOU,
		IPN:           in.IPN,
		Address:       in.Address,
		Phone:         in.Phone,
		Email:         in.Email,
		BankName:      in.BankName,
		BankAccount:   in.BankAccount,
		VATPayer:      in.VATPayer,
		ContactPerson: in.ContactPerson,
		Notes:         in.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the mutable fields of an existing counterparty.
func (uc *CustomerUseCase) Update(ctx context.Context, id string, in CustomerInput) (*entity.Customer, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: customer name is required", domain.ErrInvalidInput)
	}
	c, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: customer %s", domain.ErrNotFound, id)
	}
	c.Name = in.Name
	c.EDRPOU = in.EDRPOU
	c.IPN = in.IPN
	c.Address = in.Address
	c.Phone = in.Phone
	c.Email = in.Email
	c.BankName = in.BankName
	c.BankAccount = in.BankAccount
	c.VATPayer = in.VATPayer
	c.ContactPerson = in.ContactPerson
	c.Notes = in.Notes
	c.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(c); err != nil {
		return nil, err
	}
	return c, nil
}

// GetByID resolves one counterparty.
func (uc *CustomerUseCase) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	c, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: customer %s", domain.ErrNotFound, id)
	}
	return c, nil
}

// List returns the whole directory.
func (uc *CustomerUseCase) List(ctx context.Context) ([]*entity.Customer, error) {
	return uc.repo.List()
}
