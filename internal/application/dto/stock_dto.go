package dto

import (
	"github.com/shopspring/decimal"

	"github.com/skladpro/sklad-api/internal/application/stock"
)

// StockRowResponse one row of the stock views.
type StockRowResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Unit        string          `json:"unit"`
	Available   decimal.Decimal `json:"available"`
}

// BatchResponse one batch with its remaining quantity.
type BatchResponse struct {
	BatchID      int64           `json:"batch_id"`
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ReceivedDate string          `json:"received_date"`
	Remaining    decimal.Decimal `json:"remaining"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
}

// StockDetailResponse per-product stock with its batch breakdown.
type StockDetailResponse struct {
	StockRowResponse
	Batches []BatchResponse `json:"batches"`
}

// NewStockListResponse maps stock rows.
func NewStockListResponse(rows []stock.ProductStock) []StockRowResponse {
	out := make([]StockRowResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, StockRowResponse{
			ProductID:   r.ProductID,
			ProductName: r.ProductName,
			Unit:        r.Unit,
			Available:   r.Available,
		})
	}
	return out
}

// NewBatchListResponse maps batch views.
func NewBatchListResponse(batches []stock.BatchView) []BatchResponse {
	out := make([]BatchResponse, 0, len(batches))
	for _, b := range batches {
		out = append(out, BatchResponse{
			BatchID:      b.BatchID,
			ProductID:    b.ProductID,
			ProductName:  b.ProductName,
			ReceivedDate: b.ReceivedDate.Format("2006-01-02"),
			Remaining:    b.Remaining,
			UnitCost:     b.UnitCost,
		})
	}
	return out
}

// NewStockDetailResponse maps the per-product detail.
func NewStockDetailResponse(d *stock.ProductDetail) StockDetailResponse {
	return StockDetailResponse{
		StockRowResponse: StockRowResponse{
			ProductID:   d.ProductID,
			ProductName: d.ProductName,
			Unit:        d.Unit,
			Available:   d.Available,
		},
		Batches: NewBatchListResponse(d.Batches),
	}
}
