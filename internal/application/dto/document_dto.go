package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/skladpro/sklad-api/internal/application/documents"
	"github.com/skladpro/sklad-api/internal/application/posting"
	"github.com/skladpro/sklad-api/internal/domain/entity"
)

// DocumentLineRequest one requested position. vat_rate omitted means "use the
// product's rate".
type DocumentLineRequest struct {
	ProductID string           `json:"product_id" validate:"required,uuid4"`
	Quantity  decimal.Decimal  `json:"quantity" validate:"required"`
	Price     decimal.Decimal  `json:"price"` // unit price including VAT
	VATRate   *decimal.Decimal `json:"vat_rate"`
}

// PostDocumentRequest input for posting a document. Date is the calendar
// posting date, "2006-01-02".
type PostDocumentRequest struct {
	Number         string                `json:"number" validate:"max=50"`
	Date           string                `json:"date" validate:"required,datetime=2006-01-02"`
	CounterpartyID string                `json:"counterparty_id" validate:"omitempty,uuid4"`
	Lines          []DocumentLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// ToInput converts the parsed request for the posting engine.
func (r PostDocumentRequest) ToInput(docType entity.DocumentType, date time.Time) posting.DocumentInput {
	in := posting.DocumentInput{
		Type:           docType,
		Number:         r.Number,
		Date:           date,
		CounterpartyID: r.CounterpartyID,
	}
	for _, l := range r.Lines {
		in.Lines = append(in.Lines, posting.LineInput{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Price:     l.Price,
			VATRate:   l.VATRate,
		})
	}
	return in
}

// DocumentLineResponse one posted position with its VAT split.
type DocumentLineResponse struct {
	ProductID      string          `json:"product_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPriceGross decimal.Decimal `json:"price"`
	VATRate        decimal.Decimal `json:"vat_rate"`
	Net            decimal.Decimal `json:"net"`
	VAT            decimal.Decimal `json:"vat"`
	Gross          decimal.Decimal `json:"gross"`
}

// DocumentResponse output for one document.
type DocumentResponse struct {
	ID             string                 `json:"id"`
	Type           string                 `json:"type"`
	Number         string                 `json:"number"`
	Date           string                 `json:"date"`
	CounterpartyID string                 `json:"counterparty_id,omitempty"`
	Status         string                 `json:"status"`
	Lines          []DocumentLineResponse `json:"lines"`
	TotalNet       decimal.Decimal        `json:"total_net"`
	TotalVAT       decimal.Decimal        `json:"total_vat"`
	TotalGross     decimal.Decimal        `json:"total_gross"`
	CreatedAt      time.Time              `json:"created_at"`
	PostedAt       *time.Time             `json:"posted_at,omitempty"`
	CancelledAt    *time.Time             `json:"cancelled_at,omitempty"`
}

// NewDocumentResponse maps the entity.
func NewDocumentResponse(d *entity.Document) DocumentResponse {
	out := DocumentResponse{
		ID:             d.ID,
		Type:           string(d.Type),
		Number:         d.Number,
		Date:           d.Date.Format("2006-01-02"),
		CounterpartyID: d.CounterpartyID,
		Status:         string(d.Status),
		TotalNet:       d.TotalNet,
		TotalVAT:       d.TotalVAT,
		TotalGross:     d.TotalGross,
		CreatedAt:      d.CreatedAt,
		PostedAt:       d.PostedAt,
		CancelledAt:    d.CancelledAt,
	}
	for _, l := range d.Lines {
		out.Lines = append(out.Lines, DocumentLineResponse{
			ProductID:      l.ProductID,
			Quantity:       l.Quantity,
			UnitPriceGross: l.UnitPriceGross,
			VATRate:        l.VATRate,
			Net:            l.Net,
			VAT:            l.VAT,
			Gross:          l.Gross,
		})
	}
	return out
}

// NewDocumentListResponse maps a document listing.
func NewDocumentListResponse(docs []*entity.Document) []DocumentResponse {
	out := make([]DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, NewDocumentResponse(d))
	}
	return out
}

// PrintLineResponse one printable position with the resolved product name.
type PrintLineResponse struct {
	ProductName string `json:"product_name"`
	Unit        string `json:"unit"`
	DocumentLineResponse
}

// PrintDataResponse the hand-off payload for an external renderer.
type PrintDataResponse struct {
	Document     DocumentResponse    `json:"document"`
	Counterparty *CustomerResponse   `json:"counterparty,omitempty"`
	Lines        []PrintLineResponse `json:"lines"`
	TotalInWords string              `json:"total_in_words"`
}

// NewPrintDataResponse maps the print payload.
func NewPrintDataResponse(data *documents.PrintData) PrintDataResponse {
	out := PrintDataResponse{
		Document:     NewDocumentResponse(data.Document),
		TotalInWords: data.TotalInWords,
	}
	if data.Counterparty != nil {
		c := NewCustomerResponse(data.Counterparty)
		out.Counterparty = &c
	}
	for _, l := range data.Lines {
		out.Lines = append(out.Lines, PrintLineResponse{
			ProductName: l.ProductName,
			Unit:        l.Unit,
			DocumentLineResponse: DocumentLineResponse{
				ProductID:      l.Line.ProductID,
				Quantity:       l.Line.Quantity,
				UnitPriceGross: l.Line.UnitPriceGross,
				VATRate:        l.Line.VATRate,
				Net:            l.Line.Net,
				VAT:            l.Line.VAT,
				Gross:          l.Line.Gross,
			},
		})
	}
	return out
}
