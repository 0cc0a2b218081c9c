package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hearthstock/shopping-service/internal/apperror"
	"github.com/hearthstock/shopping-service/internal/model"
	"github.com/hearthstock/shopping-service/internal/shoppinglist"
	"github.com/hearthstock/shopping-service/internal/shoppinglist/dto"
	"github.com/hearthstock/shopping-service/pkg/cache"
)

const itemCacheTTL = 5 * time.Minute

type listUseCase struct {
	repo   shoppinglist.Repository
	cache  *cache.RedisClient
	logger *zap.Logger
}

func NewListUseCase(repo shoppinglist.Repository, cache *cache.RedisClient, log *zap.Logger) shoppinglist.UseCase {
	return &listUseCase{
		repo:   repo,
		cache:  cache,
		logger: log,
	}
}

func (uc *listUseCase) CreateList(ctx context.Context, input *dto.CreateListInput) (*model.ShoppingList, error) {
	if input.Name == "" {
		return nil, apperror.Validationf("list name is required")
	}

	now := time.Now()
	list := &model.ShoppingList{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		HouseholdID: input.HouseholdID,
		Name:        input.Name,
		IsActive:    true,
	}

	if err := uc.repo.CreateList(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (uc *listUseCase) GetList(ctx context.Context, id string) (*model.ShoppingList, error) {
	return uc.repo.FindListByID(ctx, id)
}

func (uc *listUseCase) ListLists(ctx context.Context, filters *dto.ListFilters) ([]model.ShoppingList, int, error) {
	return uc.repo.FindAllLists(ctx, filters)
}

func (uc *listUseCase) UpdateList(ctx context.Context, input *dto.UpdateListInput) (*model.ShoppingList, error) {
	list, err := uc.repo.FindListByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, apperror.NotFoundf("list %s", input.ID)
	}

	if input.Name != "" {
		list.Name = input.Name
	}
	list.IsActive = input.IsActive
	list.UpdatedAt = time.Now()

	if err := uc.repo.UpdateList(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// AddItem creates a need on a list. Adding a product that already has an
// unchecked line merges into it instead of duplicating.
func (uc *listUseCase) AddItem(ctx context.Context, input *dto.AddItemInput) (*model.ShoppingListItem, error) {
	if input.Quantity <= 0 {
		return nil, apperror.Validationf("quantity must be positive, got %v", input.Quantity)
	}
	unit := model.Unit(input.Unit)
	if !unit.Valid() {
		return nil, apperror.Validationf("unrecognized unit %q", input.Unit)
	}

	list, err := uc.repo.FindListByID(ctx, input.ListID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, apperror.NotFoundf("list %s", input.ListID)
	}

	existing, err := uc.repo.FindItemByProduct(ctx, input.ListID, input.ProductID)
	if err != nil {
		return nil, err
	}
	if existing != nil && !existing.Checked {
		existing.QuantityNeeded += input.Quantity
		existing.UpdatedAt = time.Now()
		if err := uc.repo.UpdateItem(ctx, existing); err != nil {
			return nil, err
		}
		go uc.invalidateItemCache(context.Background(), input.ListID)
		return existing, nil
	}

	origin := input.Origin
	if origin == "" {
		origin = model.OriginManual
	}
	var reason *string
	if input.Reason != "" {
		reason = &input.Reason
	}

	now := time.Now()
	item := &model.ShoppingListItem{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		ListID:         input.ListID,
		ProductID:      input.ProductID,
		ProductName:    input.ProductName,
		QuantityNeeded: input.Quantity,
		Unit:           unit,
		Checked:        false,
		Priority:       input.Priority,
		Reason:         reason,
		Origin:         origin,
	}

	if err := uc.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	go uc.invalidateItemCache(context.Background(), input.ListID)
	return item, nil
}

func (uc *listUseCase) ListItems(ctx context.Context, listID string, checked *bool) ([]model.ShoppingListItem, error) {
	cacheKey := ""
	if uc.cache != nil && checked == nil {
		cacheKey = uc.itemCacheKey(listID)
		var cached []model.ShoppingListItem
		if hit, err := uc.cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
			return cached, nil
		}
	}

	items, err := uc.repo.FindItems(ctx, &dto.ItemFilters{ListID: listID, Checked: checked})
	if err != nil {
		return nil, err
	}

	if cacheKey != "" {
		if err := uc.cache.SetJSON(ctx, cacheKey, items, itemCacheTTL); err != nil {
			uc.logger.Warn("failed to cache list items", zap.String("list_id", listID), zap.Error(err))
		}
	}
	return items, nil
}

func (uc *listUseCase) UpdateItem(ctx context.Context, input *dto.UpdateItemInput) (*model.ShoppingListItem, error) {
	item, err := uc.repo.FindItemByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NotFoundf("list item %s", input.ID)
	}

	if input.Quantity > 0 {
		item.QuantityNeeded = input.Quantity
	}
	if input.Unit != "" {
		unit := model.Unit(input.Unit)
		if !unit.Valid() {
			return nil, apperror.Validationf("unrecognized unit %q", input.Unit)
		}
		item.Unit = unit
	}
	item.Priority = input.Priority
	if input.Reason != "" {
		item.Reason = &input.Reason
	}
	item.UpdatedAt = time.Now()

	if err := uc.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	go uc.invalidateItemCache(context.Background(), item.ListID)
	return item, nil
}

func (uc *listUseCase) CheckItem(ctx context.Context, id string, checked bool) (*model.ShoppingListItem, error) {
	item, err := uc.repo.FindItemByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NotFoundf("list item %s", id)
	}

	item.Checked = checked
	item.UpdatedAt = time.Now()
	if err := uc.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	go uc.invalidateItemCache(context.Background(), item.ListID)
	return item, nil
}

func (uc *listUseCase) RemoveItem(ctx context.Context, id string) error {
	item, err := uc.repo.FindItemByID(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return nil // Already gone
	}

	if err := uc.repo.DeleteItem(ctx, id); err != nil {
		return err
	}

	go uc.invalidateItemCache(context.Background(), item.ListID)
	return nil
}

func (uc *listUseCase) itemCacheKey(listID string) string {
	return shoppinglist.ItemCacheKey(listID)
}

func (uc *listUseCase) invalidateItemCache(ctx context.Context, listID string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeletePattern(ctx, uc.itemCacheKey(listID)); err != nil {
		uc.logger.Warn("failed to invalidate list item cache", zap.String("list_id", listID), zap.Error(err))
	}
}
