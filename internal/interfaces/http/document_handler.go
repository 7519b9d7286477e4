package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/skladpro/sklad-api/internal/application/documents"
	"github.com/skladpro/sklad-api/internal/application/dto"
	"github.com/skladpro/sklad-api/internal/application/posting"
	"github.com/skladpro/sklad-api/internal/domain/entity"
)

// DocumentHandler handles posting, cancellation and queries for stock
// documents. One handler serves the three document kinds; the route binds the
// kind.
type DocumentHandler struct {
	poster *posting.Poster
	query  *documents.QueryUseCase
}

// NewDocumentHandler builds the handler.
func NewDocumentHandler(poster *posting.Poster, query *documents.QueryUseCase) *DocumentHandler {
	return &DocumentHandler{poster: poster, query: query}
}

// PostGoodsReceipt godoc
// @Summary      Post goods receipt
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PostDocumentRequest  true  "Receipt lines"
// @Success      201   {object}  dto.DocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/goods-receipts [post]
func (h *DocumentHandler) PostGoodsReceipt(c *fiber.Ctx) error {
	return h.post(c, entity.DocTypeGoodsReceipt)
}

// PostGoodsIssue godoc
// @Summary      Post goods issue
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PostDocumentRequest  true  "Issue lines"
// @Success      201   {object}  dto.DocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "Insufficient stock, details per line"
// @Router       /api/goods-issues [post]
func (h *DocumentHandler) PostGoodsIssue(c *fiber.Ctx) error {
	return h.post(c, entity.DocTypeGoodsIssue)
}

// PostInvoice godoc
// @Summary      Post invoice
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PostDocumentRequest  true  "Invoice lines"
// @Success      201   {object}  dto.DocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "Insufficient stock, details per line"
// @Router       /api/invoices [post]
func (h *DocumentHandler) PostInvoice(c *fiber.Ctx) error {
	return h.post(c, entity.DocTypeInvoice)
}

func (h *DocumentHandler) post(c *fiber.Ctx, docType entity.DocumentType) error {
	var in dto.PostDocumentRequest
	if !parseBody(c, &in) {
		return nil
	}
	date, err := time.ParseInLocation("2006-01-02", in.Date, time.UTC)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date must be YYYY-MM-DD"})
	}
	out, err := h.poster.Post(c.Context(), in.ToInput(docType, date))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewDocumentResponse(out))
}

// ListGoodsReceipts godoc
// @Summary      List goods receipts
// @Tags         documents
// @Produce      json
// @Success      200  {array}  dto.DocumentResponse
// @Router       /api/goods-receipts [get]
func (h *DocumentHandler) ListGoodsReceipts(c *fiber.Ctx) error {
	return h.list(c, entity.DocTypeGoodsReceipt)
}

// ListGoodsIssues godoc
// @Summary      List goods issues
// @Tags         documents
// @Produce      json
// @Success      200  {array}  dto.DocumentResponse
// @Router       /api/goods-issues [get]
func (h *DocumentHandler) ListGoodsIssues(c *fiber.Ctx) error {
	return h.list(c, entity.DocTypeGoodsIssue)
}

// ListInvoices godoc
// @Summary      List invoices
// @Tags         documents
// @Produce      json
// @Success      200  {array}  dto.DocumentResponse
// @Router       /api/invoices [get]
func (h *DocumentHandler) ListInvoices(c *fiber.Ctx) error {
	return h.list(c, entity.DocTypeInvoice)
}

func (h *DocumentHandler) list(c *fiber.Ctx, docType entity.DocumentType) error {
	out, err := h.query.ListByType(c.Context(), docType)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.NewDocumentListResponse(out))
}

// GetByID godoc
// @Summary      Get document by ID
// @Tags         documents
// @Produce      json
// @Param        id   path  string  true  "Document ID"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{id} [get]
func (h *DocumentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.query.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.NewDocumentResponse(out))
}

// Cancel godoc
// @Summary      Cancel posted document
// @Tags         documents
// @Produce      json
// @Param        id   path  string  true  "Document ID"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse  "Not posted, or receipt batches already consumed"
// @Router       /api/documents/{id}/cancel [post]
func (h *DocumentHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.poster.Cancel(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.NewDocumentResponse(out))
}

// Print godoc
// @Summary      Get document print data
// @Tags         documents
// @Produce      json
// @Param        id   path  string  true  "Document ID"
// @Success      200  {object}  dto.PrintDataResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse  "Document not posted"
// @Router       /api/documents/{id}/print [get]
func (h *DocumentHandler) Print(c *fiber.Ctx) error {
	out, err := h.query.PrintData(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.NewPrintDataResponse(out))
}
