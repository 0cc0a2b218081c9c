package inventory

import (
	"context"

	"github.com/hearthstock/shopping-service/internal/inventory/dto"
	"github.com/hearthstock/shopping-service/internal/model"
)

type Repository interface {
	GetByProductLocation(ctx context.Context, householdID, productID, location string) (*model.InventoryItem, error)
	FindByProduct(ctx context.Context, householdID, productID string) ([]model.InventoryItem, error)
	FindAll(ctx context.Context, filters *dto.InventoryFilters) ([]model.InventoryItem, int, error)
	Upsert(ctx context.Context, item *model.InventoryItem) error
	Delete(ctx context.Context, id string) error
}
