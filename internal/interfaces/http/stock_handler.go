package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/skladpro/sklad-api/internal/application/dto"
	"github.com/skladpro/sklad-api/internal/application/stock"
)

// StockHandler handles the read-side stock views.
type StockHandler struct {
	uc *stock.Snapshot
}

// NewStockHandler builds the handler.
func NewStockHandler(uc *stock.Snapshot) *StockHandler {
	return &StockHandler{uc: uc}
}

// Current godoc
// @Summary      Current stock levels
// @Tags         stock
// @Produce      json
// @Success      200  {array}  dto.StockRowResponse
// @Router       /api/stock [get]
func (h *StockHandler) Current(c *fiber.Ctx) error {
	out, err := h.uc.CurrentStock(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.NewStockListResponse(out))
}

// Report godoc
// @Summary      Stock levels as of a date
// @Tags         stock
// @Produce      json
// @Param        date  query  string  true  "Report date, YYYY-MM-DD (inclusive)"
// @Success      200   {array}  dto.StockRowResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock/report [get]
func (h *StockHandler) Report(c *fiber.Ctx) error {
	raw := c.Query("date")
	if raw == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date query parameter is required"})
	}
	date, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date must be YYYY-MM-DD"})
	}
	out, err := h.uc.Report(c.Context(), date)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.NewStockListResponse(out))
}

// ProductDetail godoc
// @Summary      Per-product stock with batches
// @Tags         stock
// @Produce      json
// @Param        id   path  string  true  "Product ID"
// @Success      200  {object}  dto.StockDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [get]
func (h *StockHandler) ProductDetail(c *fiber.Ctx) error {
	out, err := h.uc.ProductDetail(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.NewStockDetailResponse(out))
}

// Batches godoc
// @Summary      All batches with remaining quantities
// @Tags         stock
// @Produce      json
// @Success      200  {array}  dto.BatchResponse
// @Router       /api/stock/batches [get]
func (h *StockHandler) Batches(c *fiber.Ctx) error {
	out, err := h.uc.Batches(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.NewBatchListResponse(out))
}
