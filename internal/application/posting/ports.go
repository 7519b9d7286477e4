package posting

import (
	"context"

	"github.com/skladpro/sklad-api/internal/domain/repository"
)

// TxRunner executes fn inside one storage transaction, passing repositories
// bound to that transaction. Commit happens only if fn returns nil; any error
// rolls the whole posting back, so a partially posted document is never
// observable.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		docs repository.DocumentRepository,
		movements repository.StockMovementRepository,
	) error) error
}
