package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hearthstock/shopping-service/internal/apperror"
	"github.com/hearthstock/shopping-service/internal/model"
	"github.com/hearthstock/shopping-service/internal/shoppinglist/dto"
)

type fakeRepo struct {
	lists map[string]*model.ShoppingList
	items map[string]*model.ShoppingListItem
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		lists: map[string]*model.ShoppingList{},
		items: map[string]*model.ShoppingListItem{},
	}
}

func (r *fakeRepo) CreateList(ctx context.Context, l *model.ShoppingList) error {
	cp := *l
	r.lists[l.ID] = &cp
	return nil
}

func (r *fakeRepo) FindListByID(ctx context.Context, id string) (*model.ShoppingList, error) {
	if l, ok := r.lists[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeRepo) FindAllLists(ctx context.Context, f *dto.ListFilters) ([]model.ShoppingList, int, error) {
	var out []model.ShoppingList
	for _, l := range r.lists {
		if f.HouseholdID != "" && l.HouseholdID != f.HouseholdID {
			continue
		}
		out = append(out, *l)
	}
	return out, len(out), nil
}

func (r *fakeRepo) UpdateList(ctx context.Context, l *model.ShoppingList) error {
	cp := *l
	r.lists[l.ID] = &cp
	return nil
}

func (r *fakeRepo) CreateItem(ctx context.Context, item *model.ShoppingListItem) error {
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *fakeRepo) FindItemByID(ctx context.Context, id string) (*model.ShoppingListItem, error) {
	if item, ok := r.items[id]; ok {
		cp := *item
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeRepo) FindItemByProduct(ctx context.Context, listID, productID string) (*model.ShoppingListItem, error) {
	for _, item := range r.items {
		if item.ListID == listID && item.ProductID == productID {
			cp := *item
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) FindItems(ctx context.Context, f *dto.ItemFilters) ([]model.ShoppingListItem, error) {
	var out []model.ShoppingListItem
	for _, item := range r.items {
		if item.ListID != f.ListID {
			continue
		}
		if f.Checked != nil && item.Checked != *f.Checked {
			continue
		}
		out = append(out, *item)
	}
	return out, nil
}

func (r *fakeRepo) FindUnchecked(ctx context.Context, listID string) ([]model.ShoppingListItem, error) {
	checked := false
	return r.FindItems(ctx, &dto.ItemFilters{ListID: listID, Checked: &checked})
}

func (r *fakeRepo) UpdateItem(ctx context.Context, item *model.ShoppingListItem) error {
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *fakeRepo) DeleteItem(ctx context.Context, id string) error {
	delete(r.items, id)
	return nil
}

func newTestUseCase() (*listUseCase, *fakeRepo) {
	repo := newFakeRepo()
	return &listUseCase{repo: repo, logger: zap.NewNop()}, repo
}

func seedList(t *testing.T, uc *listUseCase, householdID, name string) *model.ShoppingList {
	t.Helper()
	list, err := uc.CreateList(context.Background(), &dto.CreateListInput{HouseholdID: householdID, Name: name})
	require.NoError(t, err)
	return list
}

func TestCreateList_RequiresName(t *testing.T) {
	uc, _ := newTestUseCase()
	_, err := uc.CreateList(context.Background(), &dto.CreateListInput{HouseholdID: "hh-1"})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestAddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("creates with manual origin by default", func(t *testing.T) {
		uc, _ := newTestUseCase()
		list := seedList(t, uc, "hh-1", "groceries")

		item, err := uc.AddItem(ctx, &dto.AddItemInput{
			ListID: list.ID, ProductID: "milk", Quantity: 2, Unit: "LITER",
		})
		require.NoError(t, err)
		assert.Equal(t, model.OriginManual, item.Origin)
		assert.False(t, item.Checked)
	})

	t.Run("merges into an existing unchecked line", func(t *testing.T) {
		uc, repo := newTestUseCase()
		list := seedList(t, uc, "hh-1", "groceries")

		first, err := uc.AddItem(ctx, &dto.AddItemInput{
			ListID: list.ID, ProductID: "milk", Quantity: 2, Unit: "LITER",
		})
		require.NoError(t, err)

		second, err := uc.AddItem(ctx, &dto.AddItemInput{
			ListID: list.ID, ProductID: "milk", Quantity: 3, Unit: "LITER",
		})
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 5.0, second.QuantityNeeded)
		assert.Len(t, repo.items, 1)
	})

	t.Run("checked line gets a fresh entry", func(t *testing.T) {
		uc, repo := newTestUseCase()
		list := seedList(t, uc, "hh-1", "groceries")

		item, err := uc.AddItem(ctx, &dto.AddItemInput{
			ListID: list.ID, ProductID: "milk", Quantity: 1, Unit: "LITER",
		})
		require.NoError(t, err)
		_, err = uc.CheckItem(ctx, item.ID, true)
		require.NoError(t, err)

		fresh, err := uc.AddItem(ctx, &dto.AddItemInput{
			ListID: list.ID, ProductID: "milk", Quantity: 1, Unit: "LITER",
		})
		require.NoError(t, err)
		assert.NotEqual(t, item.ID, fresh.ID)
		assert.Len(t, repo.items, 2)
	})

	t.Run("validation", func(t *testing.T) {
		uc, _ := newTestUseCase()
		list := seedList(t, uc, "hh-1", "groceries")

		_, err := uc.AddItem(ctx, &dto.AddItemInput{ListID: list.ID, ProductID: "p", Quantity: 0, Unit: "EACH"})
		assert.ErrorIs(t, err, apperror.ErrValidation)

		_, err = uc.AddItem(ctx, &dto.AddItemInput{ListID: list.ID, ProductID: "p", Quantity: 1, Unit: "DOZEN"})
		assert.ErrorIs(t, err, apperror.ErrValidation)

		_, err = uc.AddItem(ctx, &dto.AddItemInput{ListID: "nope", ProductID: "p", Quantity: 1, Unit: "EACH"})
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}

func TestCheckItem_Toggles(t *testing.T) {
	uc, _ := newTestUseCase()
	ctx := context.Background()
	list := seedList(t, uc, "hh-1", "groceries")

	item, err := uc.AddItem(ctx, &dto.AddItemInput{
		ListID: list.ID, ProductID: "milk", Quantity: 1, Unit: "LITER",
	})
	require.NoError(t, err)

	checked, err := uc.CheckItem(ctx, item.ID, true)
	require.NoError(t, err)
	assert.True(t, checked.Checked)

	unchecked, err := uc.CheckItem(ctx, item.ID, false)
	require.NoError(t, err)
	assert.False(t, unchecked.Checked)

	_, err = uc.CheckItem(ctx, "missing", true)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestRemoveItem_IsIdempotent(t *testing.T) {
	uc, repo := newTestUseCase()
	ctx := context.Background()
	list := seedList(t, uc, "hh-1", "groceries")

	item, err := uc.AddItem(ctx, &dto.AddItemInput{
		ListID: list.ID, ProductID: "milk", Quantity: 1, Unit: "LITER",
	})
	require.NoError(t, err)

	require.NoError(t, uc.RemoveItem(ctx, item.ID))
	assert.Empty(t, repo.items)
	assert.NoError(t, uc.RemoveItem(ctx, item.ID))
}
