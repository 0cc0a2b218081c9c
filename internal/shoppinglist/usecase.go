package shoppinglist

import (
	"context"

	"github.com/hearthstock/shopping-service/internal/model"
	"github.com/hearthstock/shopping-service/internal/shoppinglist/dto"
)

type UseCase interface {
	CreateList(ctx context.Context, input *dto.CreateListInput) (*model.ShoppingList, error)
	GetList(ctx context.Context, id string) (*model.ShoppingList, error)
	ListLists(ctx context.Context, filters *dto.ListFilters) ([]model.ShoppingList, int, error)
	UpdateList(ctx context.Context, input *dto.UpdateListInput) (*model.ShoppingList, error)

	AddItem(ctx context.Context, input *dto.AddItemInput) (*model.ShoppingListItem, error)
	ListItems(ctx context.Context, listID string, checked *bool) ([]model.ShoppingListItem, error)
	UpdateItem(ctx context.Context, input *dto.UpdateItemInput) (*model.ShoppingListItem, error)
	CheckItem(ctx context.Context, id string, checked bool) (*model.ShoppingListItem, error)
	RemoveItem(ctx context.Context, id string) error
}
