package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hearthstock/shopping-service/internal/apperror"
	invdto "github.com/hearthstock/shopping-service/internal/inventory/dto"
	"github.com/hearthstock/shopping-service/internal/model"
	purdto "github.com/hearthstock/shopping-service/internal/purchase/dto"
	"github.com/hearthstock/shopping-service/internal/session"
	"github.com/hearthstock/shopping-service/internal/session/dto"
	listdto "github.com/hearthstock/shopping-service/internal/shoppinglist/dto"
)

// fakeSessionRepo keeps sessions in memory and mimics the storage-layer
// guards: one ACTIVE session per household, revision-checked cart writes
// and status-guarded transitions.
type fakeSessionRepo struct {
	sessions        map[string]*model.ShoppingSession
	completions     []*session.CompletionWrite
	replaceCartErr  error
	forcedRevisions map[string]int64
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*model.ShoppingSession{}}
}

func (r *fakeSessionRepo) Create(ctx context.Context, s *model.ShoppingSession) error {
	for _, existing := range r.sessions {
		if existing.HouseholdID == s.HouseholdID && existing.Status == model.SessionActive {
			return apperror.Conflictf("household %s already has an active session", s.HouseholdID)
		}
	}
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *fakeSessionRepo) FindByID(ctx context.Context, id string) (*model.ShoppingSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	cp.CartItems = append([]model.CartItem{}, s.CartItems...)
	if rev, ok := r.forcedRevisions[id]; ok {
		cp.CartRevision = rev
	}
	return &cp, nil
}

func (r *fakeSessionRepo) FindActive(ctx context.Context, householdID string) (*model.ShoppingSession, error) {
	for _, s := range r.sessions {
		if s.HouseholdID == householdID && s.Status == model.SessionActive {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) ReplaceCart(ctx context.Context, sessionID string, items []model.CartItem, expectedRevision int64) error {
	if r.replaceCartErr != nil {
		return r.replaceCartErr
	}
	s, ok := r.sessions[sessionID]
	if !ok {
		return apperror.NotFoundf("session %s", sessionID)
	}
	if s.Status != model.SessionActive {
		return apperror.InvalidStatef("session %s is %s", sessionID, s.Status)
	}
	if s.CartRevision != expectedRevision {
		return apperror.ErrStaleCart
	}
	s.CartItems = append([]model.CartItem{}, items...)
	s.CartRevision++
	return nil
}

func (r *fakeSessionRepo) UpdateStatus(ctx context.Context, sessionID string, from, to model.SessionStatus, completedAt *time.Time) error {
	s, ok := r.sessions[sessionID]
	if !ok {
		return apperror.NotFoundf("session %s", sessionID)
	}
	if s.Status != from {
		return apperror.InvalidStatef("session %s is %s", sessionID, s.Status)
	}
	s.Status = to
	s.CompletedAt = completedAt
	return nil
}

func (r *fakeSessionRepo) Complete(ctx context.Context, w *session.CompletionWrite) error {
	s, ok := r.sessions[w.SessionID]
	if !ok {
		return apperror.NotFoundf("session %s", w.SessionID)
	}
	if s.Status != model.SessionActive {
		return apperror.InvalidStatef("session %s is %s", w.SessionID, s.Status)
	}
	s.Status = model.SessionCompleted
	completedAt := w.CompletedAt
	s.CompletedAt = &completedAt
	r.completions = append(r.completions, w)
	return nil
}

// fakeListRepo holds list items keyed by list.
type fakeListRepo struct {
	items map[string][]model.ShoppingListItem
}

func newFakeListRepo() *fakeListRepo {
	return &fakeListRepo{items: map[string][]model.ShoppingListItem{}}
}

func (r *fakeListRepo) addItem(listID, productID string, checked bool) {
	r.items[listID] = append(r.items[listID], model.ShoppingListItem{
		BaseModel: model.BaseModel{ID: listID + "/" + productID},
		ListID:    listID,
		ProductID: productID,
		Checked:   checked,
	})
}

func (r *fakeListRepo) CreateList(ctx context.Context, l *model.ShoppingList) error { return nil }
func (r *fakeListRepo) FindListByID(ctx context.Context, id string) (*model.ShoppingList, error) {
	return nil, nil
}
func (r *fakeListRepo) FindAllLists(ctx context.Context, f *listdto.ListFilters) ([]model.ShoppingList, int, error) {
	return nil, 0, nil
}
func (r *fakeListRepo) UpdateList(ctx context.Context, l *model.ShoppingList) error { return nil }
func (r *fakeListRepo) CreateItem(ctx context.Context, item *model.ShoppingListItem) error {
	return nil
}
func (r *fakeListRepo) FindItemByID(ctx context.Context, id string) (*model.ShoppingListItem, error) {
	return nil, nil
}

func (r *fakeListRepo) FindItemByProduct(ctx context.Context, listID, productID string) (*model.ShoppingListItem, error) {
	for _, item := range r.items[listID] {
		if item.ProductID == productID {
			cp := item
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeListRepo) FindItems(ctx context.Context, f *listdto.ItemFilters) ([]model.ShoppingListItem, error) {
	return r.items[f.ListID], nil
}

func (r *fakeListRepo) FindUnchecked(ctx context.Context, listID string) ([]model.ShoppingListItem, error) {
	var out []model.ShoppingListItem
	for _, item := range r.items[listID] {
		if !item.Checked {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeListRepo) UpdateItem(ctx context.Context, item *model.ShoppingListItem) error {
	return nil
}
func (r *fakeListRepo) DeleteItem(ctx context.Context, id string) error { return nil }

// fakeInventoryUC serves canned stock summaries per product.
type fakeInventoryUC struct {
	summaries map[string]*model.StockSummary
}

func (f *fakeInventoryUC) GetItem(ctx context.Context, householdID, productID, location string) (*model.InventoryItem, error) {
	return nil, nil
}
func (f *fakeInventoryUC) ListItems(ctx context.Context, filters *invdto.InventoryFilters) ([]model.InventoryItem, int, error) {
	return nil, 0, nil
}
func (f *fakeInventoryUC) ListLowStock(ctx context.Context, householdID string, page, pageSize int) ([]model.InventoryItem, int, error) {
	return nil, 0, nil
}
func (f *fakeInventoryUC) UpsertItem(ctx context.Context, input *invdto.UpsertItemInput) (*model.InventoryItem, error) {
	return nil, nil
}

func (f *fakeInventoryUC) StockSummary(ctx context.Context, householdID, productID string) (*model.StockSummary, error) {
	if s, ok := f.summaries[productID]; ok {
		return s, nil
	}
	return &model.StockSummary{ProductID: productID, MeanReorderThreshold: 1.0}, nil
}

type fakePurchaseUC struct {
	indexed []*model.PurchaseTransaction
}

func (f *fakePurchaseUC) GetTransaction(ctx context.Context, id string) (*model.PurchaseTransaction, error) {
	return nil, nil
}
func (f *fakePurchaseUC) ListTransactions(ctx context.Context, filters *purdto.PurchaseFilters) ([]model.PurchaseTransaction, int, error) {
	return nil, 0, nil
}
func (f *fakePurchaseUC) SearchTransactions(ctx context.Context, householdID, query string, page, pageSize int) ([]model.PurchaseTransaction, int, error) {
	return nil, 0, nil
}
func (f *fakePurchaseUC) IndexTransaction(ctx context.Context, tx *model.PurchaseTransaction) error {
	f.indexed = append(f.indexed, tx)
	return nil
}

type fixture struct {
	uc       *sessionUseCase
	sessRepo *fakeSessionRepo
	listRepo *fakeListRepo
	invUC    *fakeInventoryUC
	purUC    *fakePurchaseUC
}

func newFixture() *fixture {
	sessRepo := newFakeSessionRepo()
	listRepo := newFakeListRepo()
	invUC := &fakeInventoryUC{summaries: map[string]*model.StockSummary{}}
	purUC := &fakePurchaseUC{}
	return &fixture{
		uc: &sessionUseCase{
			repo:      sessRepo,
			listRepo:  listRepo,
			inventory: invUC,
			purchases: purUC,
			logger:    zap.NewNop(),
		},
		sessRepo: sessRepo,
		listRepo: listRepo,
		invUC:    invUC,
		purUC:    purUC,
	}
}

func (f *fixture) startSession(t *testing.T, householdID string) *model.ShoppingSession {
	t.Helper()
	s, err := f.uc.StartSession(context.Background(), &dto.StartSessionInput{HouseholdID: householdID})
	require.NoError(t, err)
	return s
}

func ptrFloat(v float64) *float64 { return &v }
func ptrString(v string) *string  { return &v }

func TestStartSession_SecondStartConflicts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first := f.startSession(t, "hh-1")
	assert.Equal(t, model.SessionActive, first.Status)

	_, err := f.uc.StartSession(ctx, &dto.StartSessionInput{HouseholdID: "hh-1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	// A different household is unaffected.
	_, err = f.uc.StartSession(ctx, &dto.StartSessionInput{HouseholdID: "hh-2"})
	assert.NoError(t, err)
}

func TestAddToCart_MergesSameProduct(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	s := f.startSession(t, "hh-1")

	add := func(qty float64) model.MatchType {
		mt, err := f.uc.AddToCart(ctx, &dto.AddToCartInput{
			SessionID: s.ID,
			ProductID: "milk",
			Quantity:  qty,
			Unit:      "LITER",
			UnitPrice: ptrFloat(1.50),
		})
		require.NoError(t, err)
		return mt
	}

	add(2)
	add(3)

	stored, err := f.sessRepo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, stored.CartItems, 1)
	assert.Equal(t, 5.0, stored.CartItems[0].Quantity)
	require.NotNil(t, stored.CartItems[0].TotalPrice)
	assert.InDelta(t, 7.50, *stored.CartItems[0].TotalPrice, 1e-9)
	assert.Equal(t, int64(2), stored.CartRevision)
}

func TestAddToCart_MatchTypeFrozenOnMerge(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	s := f.startSession(t, "hh-1")
	f.listRepo.addItem("list-1", "milk", false)

	mt, err := f.uc.AddToCart(ctx, &dto.AddToCartInput{
		SessionID: s.ID,
		ListID:    ptrString("list-1"),
		ProductID: "milk",
		Quantity:  1,
		Unit:      "LITER",
	})
	require.NoError(t, err)
	assert.Equal(t, model.MatchPlanned, mt)

	// The second add omits the list; the stored classification holds.
	mt, err = f.uc.AddToCart(ctx, &dto.AddToCartInput{
		SessionID: s.ID,
		ProductID: "milk",
		Quantity:  1,
		Unit:      "LITER",
	})
	require.NoError(t, err)
	assert.Equal(t, model.MatchPlanned, mt)
}

func TestAddToCart_Validation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	s := f.startSession(t, "hh-1")

	cases := []struct {
		name  string
		input *dto.AddToCartInput
	}{
		{"zero quantity", &dto.AddToCartInput{SessionID: s.ID, ProductID: "p", Quantity: 0, Unit: "EACH"}},
		{"negative quantity", &dto.AddToCartInput{SessionID: s.ID, ProductID: "p", Quantity: -2, Unit: "EACH"}},
		{"bad unit", &dto.AddToCartInput{SessionID: s.ID, ProductID: "p", Quantity: 1, Unit: "BUSHEL"}},
		{"missing product", &dto.AddToCartInput{SessionID: s.ID, Quantity: 1, Unit: "EACH"}},
		{"negative price", &dto.AddToCartInput{SessionID: s.ID, ProductID: "p", Quantity: 1, Unit: "EACH", UnitPrice: ptrFloat(-1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.AddToCart(ctx, tc.input)
			assert.ErrorIs(t, err, apperror.ErrValidation)
		})
	}
}

func TestAddToCart_UnknownSession(t *testing.T) {
	f := newFixture()
	_, err := f.uc.AddToCart(context.Background(), &dto.AddToCartInput{
		SessionID: "nope",
		ProductID: "milk",
		Quantity:  1,
		Unit:      "EACH",
	})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestAddToCart_StaleRevisionSurfacesConflict(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	s := f.startSession(t, "hh-1")

	// The reader sees a revision the store has already moved past.
	f.sessRepo.forcedRevisions = map[string]int64{s.ID: 7}

	_, err := f.uc.AddToCart(ctx, &dto.AddToCartInput{
		SessionID: s.ID,
		ProductID: "milk",
		Quantity:  1,
		Unit:      "EACH",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestAdjustQuantity_ClampsAtOne(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	s := f.startSession(t, "hh-1")

	_, err := f.uc.AddToCart(ctx, &dto.AddToCartInput{
		SessionID: s.ID, ProductID: "eggs", Quantity: 2, Unit: "PACK", UnitPrice: ptrFloat(3.0),
	})
	require.NoError(t, err)

	require.NoError(t, f.uc.AdjustQuantity(ctx, s.ID, "eggs", -10))

	stored, _ := f.sessRepo.FindByID(ctx, s.ID)
	require.Len(t, stored.CartItems, 1)
	assert.Equal(t, 1.0, stored.CartItems[0].Quantity)
	require.NotNil(t, stored.CartItems[0].TotalPrice)
	assert.InDelta(t, 3.0, *stored.CartItems[0].TotalPrice, 1e-9)
}

func TestAdjustQuantity_MissingLine(t *testing.T) {
	f := newFixture()
	s := f.startSession(t, "hh-1")
	err := f.uc.AdjustQuantity(context.Background(), s.ID, "ghost", 1)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestRemoveFromCart(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	s := f.startSession(t, "hh-1")

	_, err := f.uc.AddToCart(ctx, &dto.AddToCartInput{
		SessionID: s.ID, ProductID: "milk", Quantity: 1, Unit: "LITER",
	})
	require.NoError(t, err)

	require.NoError(t, f.uc.RemoveFromCart(ctx, s.ID, "milk"))
	stored, _ := f.sessRepo.FindByID(ctx, s.ID)
	assert.Empty(t, stored.CartItems)

	err = f.uc.RemoveFromCart(ctx, s.ID, "milk")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestReconcile_PartitionsAndMissing(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	s := f.startSession(t, "hh-1")

	f.listRepo.addItem("list-1", "milk", false)
	f.listRepo.addItem("list-1", "bread", false)
	f.listRepo.addItem("list-1", "butter", true) // checked: not missing
	f.invUC.summaries["rice"] = &model.StockSummary{ProductID: "rice", TotalOnHand: 10, MeanReorderThreshold: 2}

	listID := ptrString("list-1")
	for _, in := range []*dto.AddToCartInput{
		{SessionID: s.ID, ListID: listID, ProductID: "milk", Quantity: 1, Unit: "LITER", UnitPrice: ptrFloat(1.5)},
		{SessionID: s.ID, ListID: listID, ProductID: "chips", Quantity: 1, Unit: "PACK", UnitPrice: ptrFloat(2.0)},
		{SessionID: s.ID, ListID: listID, ProductID: "rice", Quantity: 1, Unit: "KILOGRAM"},
	} {
		_, err := f.uc.AddToCart(ctx, in)
		require.NoError(t, err)
	}

	rec, err := f.uc.Reconcile(ctx, s.ID, listID)
	require.NoError(t, err)

	require.Len(t, rec.Planned, 1)
	assert.Equal(t, "milk", rec.Planned[0].ProductID)
	require.Len(t, rec.Extra, 1)
	assert.Equal(t, "chips", rec.Extra[0].ProductID)
	require.Len(t, rec.AlreadyStocked, 1)
	assert.Equal(t, "rice", rec.AlreadyStocked[0].ProductID)
	require.Len(t, rec.Missing, 1)
	assert.Equal(t, "bread", rec.Missing[0].ProductID)

	assert.Equal(t, 1, rec.Summary.PlannedCount)
	assert.Equal(t, 1, rec.Summary.ExtraCount)
	assert.Equal(t, 1, rec.Summary.AlreadyStockedCount)
	assert.Equal(t, 1, rec.Summary.MissingCount)
	assert.InDelta(t, 3.5, rec.Summary.EstimatedTotal, 1e-9)

	// Read-only: a second call returns the same picture and no writes happen.
	again, err := f.uc.Reconcile(ctx, s.ID, listID)
	require.NoError(t, err)
	assert.Equal(t, rec.Summary, again.Summary)
	assert.Empty(t, f.sessRepo.completions)
}

func TestComplete_EmptyCartRejected(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	s := f.startSession(t, "hh-1")

	_, err := f.uc.Complete(ctx, &dto.CompleteInput{SessionID: s.ID, Location: "PANTRY"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrInvalidState)

	stored, _ := f.sessRepo.FindByID(ctx, s.ID)
	assert.Equal(t, model.SessionActive, stored.Status)
	assert.Empty(t, f.sessRepo.completions)
}

func TestComplete_CommitsCart(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	store := ptrString("corner market")
	s, err := f.uc.StartSession(ctx, &dto.StartSessionInput{HouseholdID: "hh-1", StoreLabel: store})
	require.NoError(t, err)

	f.listRepo.addItem("list-1", "milk", false)
	listID := ptrString("list-1")

	_, err = f.uc.AddToCart(ctx, &dto.AddToCartInput{
		SessionID: s.ID, ListID: listID, ProductID: "milk", ProductName: "Milk",
		Quantity: 2, Unit: "LITER", UnitPrice: ptrFloat(1.50),
	})
	require.NoError(t, err)
	_, err = f.uc.AddToCart(ctx, &dto.AddToCartInput{
		SessionID: s.ID, ListID: listID, ProductID: "chips", ProductName: "Chips",
		Quantity: 1, Unit: "PACK", UnitPrice: ptrFloat(2.00),
	})
	require.NoError(t, err)

	tx, err := f.uc.Complete(ctx, &dto.CompleteInput{SessionID: s.ID, ListID: listID, Location: "PANTRY"})
	require.NoError(t, err)

	require.Len(t, f.sessRepo.completions, 1)
	w := f.sessRepo.completions[0]

	require.Len(t, w.InventoryDeltas, 2)
	for _, d := range w.InventoryDeltas {
		assert.Equal(t, "hh-1", d.HouseholdID)
		assert.Equal(t, "PANTRY", d.Location)
	}
	assert.Equal(t, []string{"milk"}, w.FulfilledProductIDs)

	require.NotNil(t, tx)
	assert.Equal(t, s.ID, tx.SessionID)
	assert.Equal(t, store, tx.StoreLabel)
	require.Len(t, tx.Lines, 2)
	assert.InDelta(t, 5.00, tx.Total, 1e-9)

	stored, _ := f.sessRepo.FindByID(ctx, s.ID)
	assert.Equal(t, model.SessionCompleted, stored.Status)
	require.NotNil(t, stored.CompletedAt)

	// The household can start again once the session is closed.
	_, err = f.uc.StartSession(ctx, &dto.StartSessionInput{HouseholdID: "hh-1"})
	assert.NoError(t, err)

	// The closed session takes no further cart writes.
	_, err = f.uc.AddToCart(ctx, &dto.AddToCartInput{
		SessionID: s.ID, ProductID: "gum", Quantity: 1, Unit: "EACH",
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidState)
}

func TestComplete_UnpricedLinesCountAsZero(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	s := f.startSession(t, "hh-1")

	_, err := f.uc.AddToCart(ctx, &dto.AddToCartInput{
		SessionID: s.ID, ProductID: "flour", Quantity: 1, Unit: "KILOGRAM",
	})
	require.NoError(t, err)

	tx, err := f.uc.Complete(ctx, &dto.CompleteInput{SessionID: s.ID, Location: "PANTRY"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, tx.Total)
	require.Len(t, tx.Lines, 1)
	assert.Equal(t, 0.0, tx.Lines[0].UnitPrice)
}

func TestAbandonSession(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	s := f.startSession(t, "hh-1")

	_, err := f.uc.AddToCart(ctx, &dto.AddToCartInput{
		SessionID: s.ID, ProductID: "milk", Quantity: 1, Unit: "LITER",
	})
	require.NoError(t, err)

	require.NoError(t, f.uc.AbandonSession(ctx, s.ID))

	stored, _ := f.sessRepo.FindByID(ctx, s.ID)
	assert.Equal(t, model.SessionAbandoned, stored.Status)
	assert.Empty(t, f.sessRepo.completions, "abandon must not touch inventory, list or ledger")
	assert.Empty(t, f.purUC.indexed)

	err = f.uc.AbandonSession(ctx, s.ID)
	assert.ErrorIs(t, err, apperror.ErrInvalidState)

	_, err = f.uc.Complete(ctx, &dto.CompleteInput{SessionID: s.ID, Location: "PANTRY"})
	assert.ErrorIs(t, err, apperror.ErrInvalidState)
}
