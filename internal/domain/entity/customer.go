package entity

import "time"

// Customer is a counterparty: a buyer on goods issues and invoices, or a
// supplier on goods receipts (both live in the same directory, as in the
// original paper workflow). Carries the Ukrainian requisites needed on
// printed documents.
type Customer struct {
	ID            string
	Name          string
	EDRPOU        string // ЄДРПОУ state registry code
	IPN           string // tax number (ІПН)
	Address       string
	Phone         string
	Email         string
	BankName      string
	BankAccount   string // IBAN
	VATPayer      bool
	ContactPerson string
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
