package purchase

import (
	"context"

	"github.com/hearthstock/shopping-service/internal/model"
	"github.com/hearthstock/shopping-service/internal/purchase/dto"
)

type UseCase interface {
	GetTransaction(ctx context.Context, id string) (*model.PurchaseTransaction, error)
	ListTransactions(ctx context.Context, filters *dto.PurchaseFilters) ([]model.PurchaseTransaction, int, error)
	SearchTransactions(ctx context.Context, householdID, query string, page, pageSize int) ([]model.PurchaseTransaction, int, error)

	// IndexTransaction mirrors a committed purchase into the search
	// index. Best effort; the ledger row is the source of truth.
	IndexTransaction(ctx context.Context, tx *model.PurchaseTransaction) error
}
