package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/skladpro/sklad-api/internal/domain"
)

// DocumentType discriminates the three posting document kinds.
type DocumentType string

const (
	DocTypeGoodsReceipt DocumentType = "goods_receipt" // прибуткова накладна
	DocTypeGoodsIssue   DocumentType = "goods_issue"   // видаткова накладна
	DocTypeInvoice      DocumentType = "invoice"       // рахунок-фактура
)

// Inbound reports whether documents of this type add stock.
func (t DocumentType) Inbound() bool { return t == DocTypeGoodsReceipt }

// Outbound reports whether documents of this type consume stock.
func (t DocumentType) Outbound() bool {
	return t == DocTypeGoodsIssue || t == DocTypeInvoice
}

// Valid reports whether t is one of the known document types.
func (t DocumentType) Valid() bool {
	return t == DocTypeGoodsReceipt || t == DocTypeGoodsIssue || t == DocTypeInvoice
}

// DocumentStatus is the lifecycle state. Transitions only move forward:
// draft → posted → cancelled, or draft → rejected (terminal).
type DocumentStatus string

const (
	StatusDraft     DocumentStatus = "draft"
	StatusPosted    DocumentStatus = "posted"
	StatusCancelled DocumentStatus = "cancelled"
	StatusRejected  DocumentStatus = "rejected"
)

// DocumentLine is one position of a document. Net/VAT/Gross are derived once
// at posting time from (Quantity, UnitPriceGross, VATRate) and never
// recomputed afterwards; lines are immutable once the document is posted.
type DocumentLine struct {
	ProductID      string
	Quantity       decimal.Decimal
	UnitPriceGross decimal.Decimal // price including VAT
	VATRate        decimal.Decimal // percent
	Net            decimal.Decimal
	VAT            decimal.Decimal
	Gross          decimal.Decimal
}

// Document is the unit of posting atomicity: either every line's stock
// movements commit, or none do.
type Document struct {
	ID             string
	Type           DocumentType
	Number         string
	Date           time.Time // calendar date; ledger entries post at its UTC midnight
	CounterpartyID string    // supplier for receipts, customer for issues/invoices
	Lines          []DocumentLine
	Status         DocumentStatus
	TotalNet       decimal.Decimal
	TotalVAT       decimal.Decimal
	TotalGross     decimal.Decimal
	CreatedAt      time.Time
	PostedAt       *time.Time
	CancelledAt    *time.Time
}

// Post transitions draft → posted.
func (d *Document) Post(at time.Time) error {
	if d.Status != StatusDraft {
		return fmt.Errorf("%w: cannot post %s document", domain.ErrConflict, d.Status)
	}
	d.Status = StatusPosted
	d.PostedAt = &at
	return nil
}

// Reject transitions draft → rejected (terminal, no ledger effect).
func (d *Document) Reject() error {
	if d.Status != StatusDraft {
		return fmt.Errorf("%w: cannot reject %s document", domain.ErrConflict, d.Status)
	}
	d.Status = StatusRejected
	return nil
}

// Cancel transitions posted → cancelled. The caller is responsible for
// emitting the compensating stock movements in the same transaction.
func (d *Document) Cancel(at time.Time) error {
	if d.Status != StatusPosted {
		return fmt.Errorf("%w: cannot cancel %s document", domain.ErrConflict, d.Status)
	}
	d.Status = StatusCancelled
	d.CancelledAt = &at
	return nil
}

// ProductIDs returns the distinct product ids referenced by the lines.
func (d *Document) ProductIDs() []string {
	seen := make(map[string]struct{}, len(d.Lines))
	var ids []string
	for _, l := range d.Lines {
		if _, ok := seen[l.ProductID]; ok {
			continue
		}
		seen[l.ProductID] = struct{}{}
		ids = append(ids, l.ProductID)
	}
	return ids
}
