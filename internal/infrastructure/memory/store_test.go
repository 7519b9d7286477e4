package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skladpro/sklad-api/internal/domain"
	"github.com/skladpro/sklad-api/internal/domain/entity"
	"github.com/skladpro/sklad-api/internal/domain/repository"
	"github.com/skladpro/sklad-api/internal/infrastructure/memory"
)

func movement(productID, documentID, qty string, at time.Time) *entity.StockMovement {
	return &entity.StockMovement{
		ProductID:  productID,
		DocumentID: documentID,
		Quantity:   decimal.RequireFromString(qty),
		UnitCost:   decimal.RequireFromString("100"),
		PostedAt:   at,
	}
}

func TestTxRunnerRollsBackOnError(t *testing.T) {
	store := memory.NewStore()
	productID := uuid.New().String()
	docID := uuid.New().String()
	now := time.Now().UTC()

	failed := errors.New("boom")
	err := store.TxRunner().Run(context.Background(), func(
		docs repository.DocumentRepository,
		movements repository.StockMovementRepository,
	) error {
		require.NoError(t, docs.Create(&entity.Document{ID: docID, Type: entity.DocTypeGoodsReceipt}))
		require.NoError(t, movements.Append(movement(productID, docID, "5", now)))
		return failed
	})
	require.ErrorIs(t, err, failed)

	doc, err := store.Documents().GetByID(docID)
	require.NoError(t, err)
	assert.Nil(t, doc)

	balance, err := store.Movements().BalanceAsOf(productID, now.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestAppendGuardsNegativeBalance(t *testing.T) {
	store := memory.NewStore()
	productID := uuid.New().String()
	now := time.Now().UTC()

	movements := store.Movements()
	require.NoError(t, movements.Append(movement(productID, uuid.New().String(), "5", now)))

	err := movements.Append(movement(productID, uuid.New().String(), "-6", now))
	assert.ErrorIs(t, err, domain.ErrConflict)

	require.NoError(t, movements.Append(movement(productID, uuid.New().String(), "-5", now)))
}

func TestMovementIDsAreMonotonic(t *testing.T) {
	store := memory.NewStore()
	productID := uuid.New().String()
	now := time.Now().UTC()

	movements := store.Movements()
	first := movement(productID, uuid.New().String(), "1", now)
	second := movement(productID, uuid.New().String(), "1", now)
	require.NoError(t, movements.Append(first))
	require.NoError(t, movements.Append(second))
	assert.Less(t, first.ID, second.ID)
}

func TestOpenBatchesDeriveRemainders(t *testing.T) {
	store := memory.NewStore()
	productID := uuid.New().String()
	day1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	movements := store.Movements()
	batch := movement(productID, uuid.New().String(), "10", day1)
	require.NoError(t, movements.Append(batch))
	require.NoError(t, movements.Append(movement(productID, uuid.New().String(), "4", day2)))

	draw := movement(productID, uuid.New().String(), "-10", day2)
	draw.BatchID = &batch.ID
	require.NoError(t, movements.Append(draw))

	open, err := movements.OpenBatches(productID)
	require.NoError(t, err)
	require.Len(t, open, 1, "the drained batch must drop out")
	assert.True(t, open[0].Remaining.Equal(decimal.RequireFromString("4")))

	all, err := movements.Batches()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
