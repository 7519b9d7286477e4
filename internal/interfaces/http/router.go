package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/skladpro/sklad-api/internal/application/catalog"
	"github.com/skladpro/sklad-api/internal/application/documents"
	"github.com/skladpro/sklad-api/internal/application/posting"
	"github.com/skladpro/sklad-api/internal/application/stock"
)

// RouterDeps dependencies for the router.
type RouterDeps struct {
	ProductUC  *catalog.ProductUseCase
	CustomerUC *catalog.CustomerUseCase
	Poster     *posting.Poster
	DocumentUC *documents.QueryUseCase
	StockUC    *stock.Snapshot
}

// Router registers the API routes.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Catalog
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)

	customers := api.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)

	// Documents: one posting engine, three document kinds
	documentHandler := NewDocumentHandler(deps.Poster, deps.DocumentUC)
	api.Post("/goods-receipts", documentHandler.PostGoodsReceipt)
	api.Get("/goods-receipts", documentHandler.ListGoodsReceipts)
	api.Post("/goods-issues", documentHandler.PostGoodsIssue)
	api.Get("/goods-issues", documentHandler.ListGoodsIssues)
	api.Post("/invoices", documentHandler.PostInvoice)
	api.Get("/invoices", documentHandler.ListInvoices)
	api.Get("/goods-receipts/:id", documentHandler.GetByID)
	api.Get("/goods-issues/:id", documentHandler.GetByID)
	api.Get("/invoices/:id", documentHandler.GetByID)
	api.Get("/documents/:id", documentHandler.GetByID)
	api.Post("/documents/:id/cancel", documentHandler.Cancel)
	api.Get("/documents/:id/print", documentHandler.Print)

	// Stock views
	stockHandler := NewStockHandler(deps.StockUC)
	api.Get("/stock", stockHandler.Current)
	api.Get("/stock/report", stockHandler.Report)
	api.Get("/stock/batches", stockHandler.Batches)
	api.Get("/stock/:id", stockHandler.ProductDetail)
}
