package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skladpro/sklad-api/internal/application/catalog"
	"github.com/skladpro/sklad-api/internal/application/documents"
	"github.com/skladpro/sklad-api/internal/application/posting"
	"github.com/skladpro/sklad-api/internal/application/stock"
	"github.com/skladpro/sklad-api/internal/infrastructure/memory"
	apphttp "github.com/skladpro/sklad-api/internal/interfaces/http"
)

func newTestApp() *fiber.App {
	store := memory.NewStore()
	poster := posting.NewPoster(store.TxRunner(), store.Documents(), store.Products(), store.Customers(), posting.Options{})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC:  catalog.NewProductUseCase(store.Products()),
		CustomerUC: catalog.NewCustomerUseCase(store.Customers()),
		Poster:     poster,
		DocumentUC: documents.NewQueryUseCase(store.Documents(), store.Products(), store.Customers()),
		StockUC:    stock.NewSnapshot(store.Movements(), store.Products()),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func doJSONList(t *testing.T, app *fiber.App, path string) (*http.Response, []map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return resp, decoded
}

func createProduct(t *testing.T, app *fiber.App, name string) string {
	t.Helper()
	resp, body := doJSON(t, app, http.MethodPost, "/api/products", map[string]any{
		"name":     name,
		"unit":     "шт",
		"price":    "120",
		"vat_rate": "20",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return body["id"].(string)
}

func receive(t *testing.T, app *fiber.App, productID, qty, price, date string) map[string]any {
	t.Helper()
	resp, body := doJSON(t, app, http.MethodPost, "/api/goods-receipts", map[string]any{
		"date": date,
		"lines": []map[string]any{
			{"product_id": productID, "quantity": qty, "price": price},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return body
}

func TestProductEndpoints(t *testing.T) {
	app := newTestApp()

	id := createProduct(t, app, "Цукор")

	resp, body := doJSON(t, app, http.MethodGet, "/api/products/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Цукор", body["name"])
	assert.Equal(t, "product", body["type"])

	resp, body = doJSON(t, app, http.MethodPut, "/api/products/"+id, map[string]any{
		"name": "Цукор-пісок", "unit": "кг", "price": "130", "vat_rate": "20",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Цукор-пісок", body["name"])

	resp, list := doJSONList(t, app, "/api/products")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, list, 1)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/products", map[string]any{"unit": "шт"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/products/00000000-0000-0000-0000-000000000000", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCustomerValidation(t *testing.T) {
	app := newTestApp()

	resp, body := doJSON(t, app, http.MethodPost, "/api/customers", map[string]any{
		"name":      "ТОВ Ромашка",
		"edrpou":    "12345678",
		"vat_payer": true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "12345678", body["edrpou"])

	resp, _ = doJSON(t, app, http.MethodPost, "/api/customers", map[string]any{
		"name":  "ТОВ Помилка",
		"email": "not-an-email",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReceiptIssueStockFlow(t *testing.T) {
	app := newTestApp()
	id := createProduct(t, app, "Борошно")

	doc := receive(t, app, id, "10", "120", "2024-03-01")
	assert.Equal(t, "posted", doc["status"])
	assert.Equal(t, "1200", doc["total_gross"])
	assert.Equal(t, "200", doc["total_vat"])

	resp, issue := doJSON(t, app, http.MethodPost, "/api/goods-issues", map[string]any{
		"date": "2024-03-05",
		"lines": []map[string]any{
			{"product_id": id, "quantity": "3", "price": "150"},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "goods_issue", issue["type"])

	resp, rows := doJSONList(t, app, "/api/stock")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, rows, 1)
	assert.Equal(t, "7", rows[0]["available"])

	// before the issue the full receipt is on hand
	resp, rows = doJSONList(t, app, "/api/stock/report?date=2024-03-04")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "10", rows[0]["available"])

	resp, _ = doJSON(t, app, http.MethodGet, "/api/stock/report", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, detail := doJSON(t, app, http.MethodGet, "/api/stock/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "7", detail["available"])
}

func TestIssueInsufficientStockDetails(t *testing.T) {
	app := newTestApp()
	id := createProduct(t, app, "Олія")
	receive(t, app, id, "7", "100", "2024-03-01")

	resp, body := doJSON(t, app, http.MethodPost, "/api/goods-issues", map[string]any{
		"date": "2024-03-05",
		"lines": []map[string]any{
			{"product_id": id, "quantity": "15", "price": "150"},
		},
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])

	details, ok := body["details"].([]any)
	require.True(t, ok, "details must be present: %v", body)
	require.Len(t, details, 1)
	d := details[0].(map[string]any)
	assert.Equal(t, id, d["product_id"])
	assert.Equal(t, "15", d["required"])
	assert.Equal(t, "7", d["available"])
	assert.Equal(t, "8", d["shortage"])
}

func TestCancelAndPrintEndpoints(t *testing.T) {
	app := newTestApp()
	id := createProduct(t, app, "Мед")

	_, customer := doJSON(t, app, http.MethodPost, "/api/customers", map[string]any{
		"name": "ФОП Іваненко", "edrpou": "12345678",
	})

	resp, invoice := doJSON(t, app, http.MethodPost, "/api/invoices", map[string]any{
		"date":            "2024-03-05",
		"counterparty_id": customer["id"],
		"lines": []map[string]any{
			{"product_id": id, "quantity": "2", "price": "120"},
		},
	})
	// the invoice draws stock, so receive first
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	receive(t, app, id, "10", "100", "2024-03-01")
	resp, invoice = doJSON(t, app, http.MethodPost, "/api/invoices", map[string]any{
		"date":            "2024-03-05",
		"counterparty_id": customer["id"],
		"lines": []map[string]any{
			{"product_id": id, "quantity": "2", "price": "120"},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	invoiceID := invoice["id"].(string)

	resp, printData := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/documents/%s/print", invoiceID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "двісті сорок грн", printData["total_in_words"])
	counterparty := printData["counterparty"].(map[string]any)
	assert.Equal(t, "ФОП Іваненко", counterparty["name"])

	resp, cancelled := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/documents/%s/cancel", invoiceID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "cancelled", cancelled["status"])

	// cancelled documents keep their printable form
	resp, _ = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/documents/%s/print", invoiceID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/documents/%s/cancel", invoiceID), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/documents/00000000-0000-0000-0000-000000000000/print", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDocumentLists(t *testing.T) {
	app := newTestApp()
	id := createProduct(t, app, "Сіль")
	receive(t, app, id, "5", "100", "2024-03-01")
	receive(t, app, id, "5", "110", "2024-03-03")

	resp, receipts := doJSONList(t, app, "/api/goods-receipts")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, receipts, 2)
	// newest date first
	assert.Equal(t, "2024-03-03", receipts[0]["date"])

	resp, batches := doJSONList(t, app, "/api/stock/batches")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, batches, 2)
}
