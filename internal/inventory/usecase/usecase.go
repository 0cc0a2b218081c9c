package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hearthstock/shopping-service/internal/apperror"
	"github.com/hearthstock/shopping-service/internal/inventory"
	"github.com/hearthstock/shopping-service/internal/inventory/dto"
	"github.com/hearthstock/shopping-service/internal/model"
)

// defaultReorderThreshold stands in for the mean threshold when a product
// has no inventory rows, keeping stock ratios away from division by zero.
const defaultReorderThreshold = 1.0

type inventoryUseCase struct {
	repo   inventory.Repository
	logger *zap.Logger
}

func NewInventoryUseCase(repo inventory.Repository, log *zap.Logger) inventory.UseCase {
	return &inventoryUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *inventoryUseCase) GetItem(ctx context.Context, householdID, productID, location string) (*model.InventoryItem, error) {
	item, err := uc.repo.GetByProductLocation(ctx, householdID, productID, location)
	if err != nil {
		return nil, err
	}
	if item == nil {
		// Zero row rather than nil so read callers need no special case.
		return &model.InventoryItem{
			HouseholdID:    householdID,
			ProductID:      productID,
			Location:       location,
			QuantityOnHand: 0,
		}, nil
	}
	return item, nil
}

func (uc *inventoryUseCase) ListItems(ctx context.Context, filters *dto.InventoryFilters) ([]model.InventoryItem, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *inventoryUseCase) ListLowStock(ctx context.Context, householdID string, page, pageSize int) ([]model.InventoryItem, int, error) {
	return uc.repo.FindAll(ctx, &dto.InventoryFilters{
		HouseholdID: householdID,
		LowStock:    true,
		Page:        page,
		PageSize:    pageSize,
	})
}

func (uc *inventoryUseCase) UpsertItem(ctx context.Context, input *dto.UpsertItemInput) (*model.InventoryItem, error) {
	if input.QuantityOnHand < 0 {
		return nil, apperror.Validationf("quantity on hand must not be negative, got %v", input.QuantityOnHand)
	}
	unit := model.Unit(input.Unit)
	if !unit.Valid() {
		return nil, apperror.Validationf("unrecognized unit %q", input.Unit)
	}
	if input.Location == "" {
		return nil, apperror.Validationf("location is required")
	}

	existing, err := uc.repo.GetByProductLocation(ctx, input.HouseholdID, input.ProductID, input.Location)
	if err != nil {
		return nil, err
	}

	item := &model.InventoryItem{
		ID:               uuid.New().String(),
		HouseholdID:      input.HouseholdID,
		ProductID:        input.ProductID,
		Location:         input.Location,
		QuantityOnHand:   input.QuantityOnHand,
		Unit:             unit,
		ReorderThreshold: input.ReorderThreshold,
		UpdatedAt:        time.Now(),
	}
	if existing != nil {
		item.ID = existing.ID
	}

	if err := uc.repo.Upsert(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (uc *inventoryUseCase) StockSummary(ctx context.Context, householdID, productID string) (*model.StockSummary, error) {
	rows, err := uc.repo.FindByProduct(ctx, householdID, productID)
	if err != nil {
		return nil, err
	}

	summary := &model.StockSummary{
		ProductID:            productID,
		MeanReorderThreshold: defaultReorderThreshold,
		Locations:            len(rows),
	}
	if len(rows) == 0 {
		return summary, nil
	}

	var thresholdSum float64
	for _, row := range rows {
		summary.TotalOnHand += row.QuantityOnHand
		thresholdSum += row.ReorderThreshold
	}
	summary.MeanReorderThreshold = thresholdSum / float64(len(rows))
	return summary, nil
}
