package shoppinglist

import (
	"context"

	"github.com/hearthstock/shopping-service/internal/model"
	"github.com/hearthstock/shopping-service/internal/shoppinglist/dto"
)

type Repository interface {
	// Lists
	CreateList(ctx context.Context, l *model.ShoppingList) error
	FindListByID(ctx context.Context, id string) (*model.ShoppingList, error)
	FindAllLists(ctx context.Context, filters *dto.ListFilters) ([]model.ShoppingList, int, error)
	UpdateList(ctx context.Context, l *model.ShoppingList) error

	// Items
	CreateItem(ctx context.Context, item *model.ShoppingListItem) error
	FindItemByID(ctx context.Context, id string) (*model.ShoppingListItem, error)
	FindItemByProduct(ctx context.Context, listID, productID string) (*model.ShoppingListItem, error)
	FindItems(ctx context.Context, filters *dto.ItemFilters) ([]model.ShoppingListItem, error)
	FindUnchecked(ctx context.Context, listID string) ([]model.ShoppingListItem, error)
	UpdateItem(ctx context.Context, item *model.ShoppingListItem) error
	DeleteItem(ctx context.Context, id string) error
}
