package inventory

import (
	"context"

	"github.com/hearthstock/shopping-service/internal/inventory/dto"
	"github.com/hearthstock/shopping-service/internal/model"
)

type UseCase interface {
	GetItem(ctx context.Context, householdID, productID, location string) (*model.InventoryItem, error)
	ListItems(ctx context.Context, filters *dto.InventoryFilters) ([]model.InventoryItem, int, error)
	ListLowStock(ctx context.Context, householdID string, page, pageSize int) ([]model.InventoryItem, int, error)
	UpsertItem(ctx context.Context, input *dto.UpsertItemInput) (*model.InventoryItem, error)

	// StockSummary aggregates on-hand quantity and reorder thresholds for
	// a product across all locations. With no rows the mean threshold
	// defaults to 1.0 so downstream ratios stay defined.
	StockSummary(ctx context.Context, householdID, productID string) (*model.StockSummary, error)
}
