package dto

import (
	"time"

	"github.com/skladpro/sklad-api/internal/domain/entity"
)

// CustomerRequest input for creating or updating a counterparty. EDRPOU and
// IPN are the Ukrainian company and VAT registration codes.
type CustomerRequest struct {
	Name          string `json:"name" validate:"required,min=1,max=200"`
	EDRPOU        string `json:"edrpou" validate:"omitempty,numeric,min=8,max=10"`
	IPN           string `json:"ipn" validate:"omitempty,numeric,min=10,max=12"`
	Address       string `json:"address"`
	Phone         string `json:"phone" validate:"max=32"`
	Email         string `json:"email" validate:"omitempty,email"`
	BankName      string `json:"bank_name"`
	BankAccount   string `json:"bank_account" validate:"max=34"`
	VATPayer      bool   `json:"vat_payer"`
	ContactPerson string `json:"contact_person"`
	Notes         string `json:"notes"`
}

// CustomerResponse output for one counterparty.
type CustomerResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	EDRPOU        string    `json:"edrpou"`
	IPN           string    `json:"ipn"`
	Address       string    `json:"address"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	BankName      string    `json:"bank_name"`
	BankAccount   string    `json:"bank_account"`
	VATPayer      bool      `json:"vat_payer"`
	ContactPerson string    `json:"contact_person"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewCustomerResponse maps the entity.
func NewCustomerResponse(c *entity.Customer) CustomerResponse {
	return CustomerResponse{
		ID:            c.ID,
		Name:          c.Name,
		EDRPOU:        c.EDRPOU,
		IPN:           c.IPN,
		Address:       c.Address,
		Phone:         c.Phone,
		Email:         c.Email,
		BankName:      c.BankName,
		BankAccount:   c.BankAccount,
		VATPayer:      c.VATPayer,
		ContactPerson: c.ContactPerson,
		Notes:         c.Notes,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// NewCustomerListResponse maps a directory listing.
func NewCustomerListResponse(customers []*entity.Customer) []CustomerResponse {
	out := make([]CustomerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, NewCustomerResponse(c))
	}
	return out
}
