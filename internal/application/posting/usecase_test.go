package posting_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skladpro/sklad-api/internal/application/posting"
	"github.com/skladpro/sklad-api/internal/domain"
	"github.com/skladpro/sklad-api/internal/domain/entity"
	"github.com/skladpro/sklad-api/internal/infrastructure/memory"
)

type env struct {
	store  *memory.Store
	poster *posting.Poster
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	poster := posting.NewPoster(store.TxRunner(), store.Documents(), store.Products(), store.Customers(), posting.Options{})
	return &env{store: store, poster: poster}
}

func (e *env) addProduct(t *testing.T, name string) string {
	t.Helper()
	p := &entity.Product{
		ID:      uuid.New().String(),
		Name:    name,
		Type:    entity.ProductTypeProduct,
		Unit:    "шт",
		VATRate: dec("20"),
	}
	require.NoError(t, e.store.Products().Create(p))
	return p.ID
}

func (e *env) addService(t *testing.T, name string) string {
	t.Helper()
	p := &entity.Product{
		ID:      uuid.New().String(),
		Name:    name,
		Type:    entity.ProductTypeService,
		VATRate: dec("20"),
	}
	require.NoError(t, e.store.Products().Create(p))
	return p.ID
}

func (e *env) post(docType entity.DocumentType, date string, lines ...posting.LineInput) (*entity.Document, error) {
	return e.poster.Post(context.Background(), posting.DocumentInput{
		Type:  docType,
		Date:  day(date),
		Lines: lines,
	})
}

func (e *env) receive(t *testing.T, productID, qty, price, date string) *entity.Document {
	t.Helper()
	doc, err := e.post(entity.DocTypeGoodsReceipt, date, line(productID, qty, price))
	require.NoError(t, err)
	return doc
}

func (e *env) balance(t *testing.T, productID string) decimal.Decimal {
	t.Helper()
	b, err := e.store.Movements().BalanceAsOf(productID, time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	return b
}

func line(productID, qty, price string) posting.LineInput {
	return posting.LineInput{ProductID: productID, Quantity: dec(qty), Price: dec(price)}
}

func day(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestPostGoodsReceipt(t *testing.T) {
	e := newEnv(t)
	id := e.addProduct(t, "Цукор")

	doc := e.receive(t, id, "10", "120", "2024-03-01")

	assert.Equal(t, entity.StatusPosted, doc.Status)
	require.NotNil(t, doc.PostedAt)
	assert.True(t, doc.TotalGross.Equal(dec("1200")), "gross %s", doc.TotalGross)
	assert.True(t, doc.TotalVAT.Equal(dec("200")), "vat %s", doc.TotalVAT)
	assert.True(t, doc.TotalNet.Equal(dec("1000")), "net %s", doc.TotalNet)

	assert.True(t, e.balance(t, id).Equal(dec("10")))

	movements, err := e.store.Movements().ListByDocument(doc.ID)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Nil(t, movements[0].BatchID)
	assert.True(t, movements[0].Quantity.Equal(dec("10")))
}

func TestGoodsIssueDrawsOldestBatchFirst(t *testing.T) {
	e := newEnv(t)
	id := e.addProduct(t, "Борошно")
	e.receive(t, id, "10", "100", "2024-03-01")
	e.receive(t, id, "10", "150", "2024-03-05")

	doc, err := e.post(entity.DocTypeGoodsIssue, "2024-03-10", line(id, "3", "200"))
	require.NoError(t, err)

	movements, err := e.store.Movements().ListByDocument(doc.ID)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.True(t, movements[0].Quantity.Equal(dec("-3")))
	// cost basis comes from the older batch
	assert.True(t, movements[0].UnitCost.Equal(dec("100")), "unit cost %s", movements[0].UnitCost)

	assert.True(t, e.balance(t, id).Equal(dec("17")))
}

func TestGoodsIssueSpansBatches(t *testing.T) {
	e := newEnv(t)
	id := e.addProduct(t, "Сіль")
	e.receive(t, id, "4", "100", "2024-03-01")
	e.receive(t, id, "10", "150", "2024-03-05")

	doc, err := e.post(entity.DocTypeGoodsIssue, "2024-03-10", line(id, "6", "200"))
	require.NoError(t, err)

	movements, err := e.store.Movements().ListByDocument(doc.ID)
	require.NoError(t, err)
	require.Len(t, movements, 2)
	assert.True(t, movements[0].Quantity.Equal(dec("-4")))
	assert.True(t, movements[0].UnitCost.Equal(dec("100")))
	assert.True(t, movements[1].Quantity.Equal(dec("-2")))
	assert.True(t, movements[1].UnitCost.Equal(dec("150")))
}

func TestInsufficientStockAggregatesDetails(t *testing.T) {
	e := newEnv(t)
	id := e.addProduct(t, "Олія")
	e.receive(t, id, "7", "100", "2024-03-01")

	_, err := e.post(entity.DocTypeGoodsIssue, "2024-03-10", line(id, "15", "200"))

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	require.Len(t, insufficient.Details, 1)
	d := insufficient.Details[0]
	assert.Equal(t, id, d.ProductID)
	assert.True(t, d.Required.Equal(dec("15")))
	assert.True(t, d.Available.Equal(dec("7")))
	assert.True(t, d.Shortage.Equal(dec("8")))

	// the ledger is untouched; the document survives as rejected
	assert.True(t, e.balance(t, id).Equal(dec("7")))
	issues, err := e.store.Documents().ListByType(entity.DocTypeGoodsIssue)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, entity.StatusRejected, issues[0].Status)
	movements, err := e.store.Movements().ListByDocument(issues[0].ID)
	require.NoError(t, err)
	assert.Empty(t, movements)
}

func TestInsufficientStockCollectsEveryShortLine(t *testing.T) {
	e := newEnv(t)
	a := e.addProduct(t, "Чай")
	b := e.addProduct(t, "Кава")
	e.receive(t, a, "5", "100", "2024-03-01")

	_, err := e.post(entity.DocTypeGoodsIssue, "2024-03-10",
		line(a, "8", "150"), line(b, "2", "400"))

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Len(t, insufficient.Details, 2)
}

func TestRepeatedProductLinesShareTheSnapshot(t *testing.T) {
	e := newEnv(t)
	id := e.addProduct(t, "Мед")
	e.receive(t, id, "10", "100", "2024-03-01")

	// 6 + 6 exceeds the 10 on hand even though each line alone fits
	_, err := e.post(entity.DocTypeGoodsIssue, "2024-03-10",
		line(id, "6", "200"), line(id, "6", "200"))

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, e.balance(t, id).Equal(dec("10")))
}

func TestServiceLinesSkipTheLedger(t *testing.T) {
	e := newEnv(t)
	goods := e.addProduct(t, "Цемент")
	svc := e.addService(t, "Доставка")
	e.receive(t, goods, "10", "100", "2024-03-01")

	doc, err := e.post(entity.DocTypeInvoice, "2024-03-10",
		line(goods, "2", "120"), line(svc, "1", "300"))
	require.NoError(t, err)

	// service line priced into the totals but absent from the ledger
	assert.True(t, doc.TotalGross.Equal(dec("540")), "gross %s", doc.TotalGross)
	movements, err := e.store.Movements().ListByDocument(doc.ID)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, goods, movements[0].ProductID)
}

func TestPostValidation(t *testing.T) {
	e := newEnv(t)
	id := e.addProduct(t, "Сік")

	_, err := e.post(entity.DocTypeGoodsReceipt, "2024-03-01")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.post(entity.DocTypeGoodsReceipt, "2024-03-01", line(id, "0", "100"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.post(entity.DocTypeGoodsReceipt, "2024-03-01", line(id, "-1", "100"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.post(entity.DocTypeGoodsReceipt, "2024-03-01", line(uuid.New().String(), "1", "100"))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = e.post("transfer", "2024-03-01", line(id, "1", "100"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCancelIssueRestoresStock(t *testing.T) {
	e := newEnv(t)
	id := e.addProduct(t, "Рис")
	e.receive(t, id, "10", "100", "2024-03-01")
	issue, err := e.post(entity.DocTypeGoodsIssue, "2024-03-05", line(id, "4", "200"))
	require.NoError(t, err)
	require.True(t, e.balance(t, id).Equal(dec("6")))

	cancelled, err := e.poster.Cancel(context.Background(), issue.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)

	assert.True(t, e.balance(t, id).Equal(dec("10")))

	// the restored quantity allocates again from the original batch
	next, err := e.post(entity.DocTypeGoodsIssue, "2024-03-06", line(id, "10", "200"))
	require.NoError(t, err)
	movements, err := e.store.Movements().ListByDocument(next.ID)
	require.NoError(t, err)
	total := decimal.Zero
	for _, m := range movements {
		total = total.Add(m.Quantity)
	}
	assert.True(t, total.Equal(dec("-10")))
}

func TestCancelReceiptBlockedWhenBatchConsumed(t *testing.T) {
	e := newEnv(t)
	id := e.addProduct(t, "Гречка")
	receipt := e.receive(t, id, "10", "100", "2024-03-01")
	_, err := e.post(entity.DocTypeGoodsIssue, "2024-03-05", line(id, "1", "200"))
	require.NoError(t, err)

	_, err = e.poster.Cancel(context.Background(), receipt.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// state untouched
	assert.True(t, e.balance(t, id).Equal(dec("9")))
	got, err := e.store.Documents().GetByID(receipt.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPosted, got.Status)
}

func TestCancelReceiptRetiresUntouchedBatch(t *testing.T) {
	e := newEnv(t)
	id := e.addProduct(t, "Вівсянка")
	receipt := e.receive(t, id, "10", "100", "2024-03-01")

	_, err := e.poster.Cancel(context.Background(), receipt.ID)
	require.NoError(t, err)
	assert.True(t, e.balance(t, id).Equal(dec("0")))

	// the retired batch never allocates again
	_, err = e.post(entity.DocTypeGoodsIssue, "2024-03-05", line(id, "1", "200"))
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
}

func TestCancelReceiptAllowedAfterIssueCancelled(t *testing.T) {
	e := newEnv(t)
	id := e.addProduct(t, "Пшоно")
	receipt := e.receive(t, id, "10", "100", "2024-03-01")
	issue, err := e.post(entity.DocTypeGoodsIssue, "2024-03-05", line(id, "4", "200"))
	require.NoError(t, err)

	_, err = e.poster.Cancel(context.Background(), issue.ID)
	require.NoError(t, err)

	// with the draw compensated the batch is whole again
	_, err = e.poster.Cancel(context.Background(), receipt.ID)
	require.NoError(t, err)
	assert.True(t, e.balance(t, id).Equal(dec("0")))
}

func TestCancelLifecycle(t *testing.T) {
	e := newEnv(t)
	id := e.addProduct(t, "Кефір")
	receipt := e.receive(t, id, "5", "100", "2024-03-01")

	_, err := e.poster.Cancel(context.Background(), receipt.ID)
	require.NoError(t, err)

	// a cancelled document cannot cancel again
	_, err = e.poster.Cancel(context.Background(), receipt.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = e.poster.Cancel(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConcurrentIssuesNeverOversell(t *testing.T) {
	e := newEnv(t)
	id := e.addProduct(t, "Молоко")
	e.receive(t, id, "10", "100", "2024-03-01")

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = e.post(entity.DocTypeGoodsIssue, "2024-03-05", line(id, "7", "200"))
		}(i)
	}
	wg.Wait()

	var failures int
	for _, err := range results {
		if err != nil {
			failures++
			assert.True(t, errors.As(err, new(*domain.InsufficientStockError)), "unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, failures, "exactly one of the two issues must fail")
	assert.True(t, e.balance(t, id).Equal(dec("3")))
}
