package listener

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hearthstock/shopping-service/internal/model"
	"github.com/hearthstock/shopping-service/internal/shoppinglist/dto"
)

type fakeListUC struct {
	added []*dto.AddItemInput
}

func (f *fakeListUC) CreateList(ctx context.Context, input *dto.CreateListInput) (*model.ShoppingList, error) {
	return nil, nil
}
func (f *fakeListUC) GetList(ctx context.Context, id string) (*model.ShoppingList, error) {
	return nil, nil
}
func (f *fakeListUC) ListLists(ctx context.Context, filters *dto.ListFilters) ([]model.ShoppingList, int, error) {
	return nil, 0, nil
}
func (f *fakeListUC) UpdateList(ctx context.Context, input *dto.UpdateListInput) (*model.ShoppingList, error) {
	return nil, nil
}

func (f *fakeListUC) AddItem(ctx context.Context, input *dto.AddItemInput) (*model.ShoppingListItem, error) {
	f.added = append(f.added, input)
	return &model.ShoppingListItem{}, nil
}

func (f *fakeListUC) ListItems(ctx context.Context, listID string, checked *bool) ([]model.ShoppingListItem, error) {
	return nil, nil
}
func (f *fakeListUC) UpdateItem(ctx context.Context, input *dto.UpdateItemInput) (*model.ShoppingListItem, error) {
	return nil, nil
}
func (f *fakeListUC) CheckItem(ctx context.Context, id string, checked bool) (*model.ShoppingListItem, error) {
	return nil, nil
}
func (f *fakeListUC) RemoveItem(ctx context.Context, id string) error { return nil }

func TestProcessMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("suggestion event becomes a list item", func(t *testing.T) {
		uc := &fakeListUC{}
		l := &SuggestionListener{uc: uc, logger: zap.NewNop()}

		payload := []byte(`{
			"event_id": "evt-1",
			"event_type": "SuggestionCreated",
			"payload": {
				"household_id": "hh-1",
				"list_id": "list-1",
				"product_id": "milk",
				"product_name": "Milk",
				"quantity": 2,
				"unit": "LITER",
				"reason": "running low"
			}
		}`)
		l.processMessage(ctx, payload)

		require.Len(t, uc.added, 1)
		added := uc.added[0]
		assert.Equal(t, "list-1", added.ListID)
		assert.Equal(t, "milk", added.ProductID)
		assert.Equal(t, 2.0, added.Quantity)
		assert.Equal(t, model.OriginSuggestion, added.Origin)
		assert.Equal(t, "running low", added.Reason)
	})

	t.Run("other event types are skipped", func(t *testing.T) {
		uc := &fakeListUC{}
		l := &SuggestionListener{uc: uc, logger: zap.NewNop()}

		l.processMessage(ctx, []byte(`{"event_type": "SuggestionDismissed", "payload": {"list_id": "list-1"}}`))
		assert.Empty(t, uc.added)
	})

	t.Run("malformed payloads are dropped", func(t *testing.T) {
		uc := &fakeListUC{}
		l := &SuggestionListener{uc: uc, logger: zap.NewNop()}

		l.processMessage(ctx, []byte(`{not json`))
		assert.Empty(t, uc.added)
	})
}
