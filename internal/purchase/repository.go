package purchase

import (
	"context"

	"github.com/hearthstock/shopping-service/internal/model"
	"github.com/hearthstock/shopping-service/internal/purchase/dto"
)

// Repository reads the purchase ledger. Inserts happen inside the
// session completion transaction, never through this interface.
type Repository interface {
	FindByID(ctx context.Context, id string) (*model.PurchaseTransaction, error)
	FindBySession(ctx context.Context, sessionID string) (*model.PurchaseTransaction, error)
	FindAll(ctx context.Context, filters *dto.PurchaseFilters) ([]model.PurchaseTransaction, int, error)
}
