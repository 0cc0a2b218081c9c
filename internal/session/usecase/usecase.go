package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hearthstock/shopping-service/internal/apperror"
	"github.com/hearthstock/shopping-service/internal/inventory"
	"github.com/hearthstock/shopping-service/internal/model"
	"github.com/hearthstock/shopping-service/internal/purchase"
	"github.com/hearthstock/shopping-service/internal/session"
	"github.com/hearthstock/shopping-service/internal/session/dto"
	"github.com/hearthstock/shopping-service/internal/shoppinglist"
	"github.com/hearthstock/shopping-service/pkg/cache"
)

const (
	lockTTL        = 5 * time.Second
	lockRetries    = 3
	lockRetryDelay = 100 * time.Millisecond
)

// sessionUseCase serializes cart writers per session with a redis lock;
// the cart revision stamp on every replacement catches anything that
// slips past the lock (expiry, redis outage).
type sessionUseCase struct {
	repo      session.Repository
	listRepo  shoppinglist.Repository
	inventory inventory.UseCase
	purchases purchase.UseCase
	cache     *cache.RedisClient
	logger    *zap.Logger
}

func NewSessionUseCase(
	repo session.Repository,
	listRepo shoppinglist.Repository,
	inventoryUC inventory.UseCase,
	purchaseUC purchase.UseCase,
	cache *cache.RedisClient,
	log *zap.Logger,
) session.UseCase {
	return &sessionUseCase{
		repo:      repo,
		listRepo:  listRepo,
		inventory: inventoryUC,
		purchases: purchaseUC,
		cache:     cache,
		logger:    log,
	}
}

func (uc *sessionUseCase) StartSession(ctx context.Context, input *dto.StartSessionInput) (*model.ShoppingSession, error) {
	if input.HouseholdID == "" {
		return nil, apperror.Validationf("household is required")
	}

	s := &model.ShoppingSession{
		ID:          uuid.New().String(),
		HouseholdID: input.HouseholdID,
		StoreLabel:  input.StoreLabel,
		Status:      model.SessionActive,
		CartItems:   []model.CartItem{},
		StartedAt:   time.Now(),
	}

	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}

	uc.logger.Info("shopping session started",
		zap.String("session_id", s.ID),
		zap.String("household_id", s.HouseholdID),
	)
	return s, nil
}

func (uc *sessionUseCase) GetSession(ctx context.Context, sessionID string) (*model.ShoppingSession, error) {
	return uc.repo.FindByID(ctx, sessionID)
}

func (uc *sessionUseCase) GetActiveSession(ctx context.Context, householdID string) (*model.ShoppingSession, error) {
	return uc.repo.FindActive(ctx, householdID)
}

// AbandonSession discards the session. The cart is dropped with it; no
// inventory, list or ledger state is touched.
func (uc *sessionUseCase) AbandonSession(ctx context.Context, sessionID string) error {
	if err := uc.repo.UpdateStatus(ctx, sessionID, model.SessionActive, model.SessionAbandoned, nil); err != nil {
		return err
	}
	uc.logger.Info("shopping session abandoned", zap.String("session_id", sessionID))
	return nil
}

func (uc *sessionUseCase) AddToCart(ctx context.Context, input *dto.AddToCartInput) (model.MatchType, error) {
	if input.ProductID == "" {
		return "", apperror.Validationf("product is required")
	}
	if input.Quantity <= 0 {
		return "", apperror.Validationf("quantity must be positive, got %v", input.Quantity)
	}
	unit := model.Unit(input.Unit)
	if !unit.Valid() {
		return "", apperror.Validationf("unrecognized unit %q", input.Unit)
	}
	if input.UnitPrice != nil && *input.UnitPrice < 0 {
		return "", apperror.Validationf("unit price must not be negative, got %v", *input.UnitPrice)
	}

	lock, err := uc.lockSession(ctx, input.SessionID)
	if err != nil {
		return "", err
	}
	defer lock.Release(ctx)

	s, err := uc.activeSession(ctx, input.SessionID)
	if err != nil {
		return "", err
	}

	if line := s.FindCartItem(input.ProductID); line != nil {
		// Merge: quantities add up, the price is only overwritten by a
		// fresh one, and the match type stays frozen at its add-time value.
		line.Quantity += input.Quantity
		if input.UnitPrice != nil {
			line.UnitPrice = input.UnitPrice
		}
		line.RecalcTotal()

		if err := uc.repo.ReplaceCart(ctx, s.ID, s.CartItems, s.CartRevision); err != nil {
			return "", err
		}
		return line.MatchType, nil
	}

	matchType, err := uc.determineMatchType(ctx, s.HouseholdID, input.ProductID, input.ListID)
	if err != nil {
		return "", err
	}

	line := model.CartItem{
		ProductID:   input.ProductID,
		ProductName: input.ProductName,
		Quantity:    input.Quantity,
		Unit:        unit,
		UnitPrice:   input.UnitPrice,
		Category:    input.Category,
		MatchType:   matchType,
		AddedAt:     time.Now(),
	}
	line.RecalcTotal()
	s.CartItems = append(s.CartItems, line)

	if err := uc.repo.ReplaceCart(ctx, s.ID, s.CartItems, s.CartRevision); err != nil {
		return "", err
	}
	return matchType, nil
}

func (uc *sessionUseCase) RemoveFromCart(ctx context.Context, sessionID, productID string) error {
	lock, err := uc.lockSession(ctx, sessionID)
	if err != nil {
		return err
	}
	defer lock.Release(ctx)

	s, err := uc.activeSession(ctx, sessionID)
	if err != nil {
		return err
	}

	filtered := make([]model.CartItem, 0, len(s.CartItems))
	for _, line := range s.CartItems {
		if line.ProductID != productID {
			filtered = append(filtered, line)
		}
	}
	if len(filtered) == len(s.CartItems) {
		return apperror.NotFoundf("product %s is not in the cart", productID)
	}

	return uc.repo.ReplaceCart(ctx, s.ID, filtered, s.CartRevision)
}

// AdjustQuantity shifts a line by delta, clamped at a minimum of 1.
// Removing a line goes through RemoveFromCart, never through here.
func (uc *sessionUseCase) AdjustQuantity(ctx context.Context, sessionID, productID string, delta float64) error {
	lock, err := uc.lockSession(ctx, sessionID)
	if err != nil {
		return err
	}
	defer lock.Release(ctx)

	s, err := uc.activeSession(ctx, sessionID)
	if err != nil {
		return err
	}

	line := s.FindCartItem(productID)
	if line == nil {
		return apperror.NotFoundf("product %s is not in the cart", productID)
	}

	line.Quantity += delta
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	line.RecalcTotal()

	return uc.repo.ReplaceCart(ctx, s.ID, s.CartItems, s.CartRevision)
}

func (uc *sessionUseCase) Complete(ctx context.Context, input *dto.CompleteInput) (*model.PurchaseTransaction, error) {
	if input.Location == "" {
		return nil, apperror.Validationf("location is required")
	}

	lock, err := uc.lockSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	defer lock.Release(ctx)

	s, err := uc.activeSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	if len(s.CartItems) == 0 {
		return nil, apperror.InvalidStatef("session %s has an empty cart", s.ID)
	}

	completedAt := time.Now()
	write := &session.CompletionWrite{
		SessionID:   s.ID,
		HouseholdID: s.HouseholdID,
		CompletedAt: completedAt,
		ListID:      input.ListID,
	}

	purchaseTx := &model.PurchaseTransaction{
		ID:          uuid.New().String(),
		HouseholdID: s.HouseholdID,
		SessionID:   s.ID,
		StoreLabel:  s.StoreLabel,
		PurchasedAt: completedAt,
		Lines:       make([]model.PurchaseLine, 0, len(s.CartItems)),
	}

	for _, line := range s.CartItems {
		write.InventoryDeltas = append(write.InventoryDeltas, session.InventoryDelta{
			HouseholdID: s.HouseholdID,
			ProductID:   line.ProductID,
			Location:    input.Location,
			Quantity:    line.Quantity,
			Unit:        line.Unit,
		})

		if line.MatchType == model.MatchPlanned && input.ListID != nil {
			write.FulfilledProductIDs = append(write.FulfilledProductIDs, line.ProductID)
		}

		unitPrice := 0.0
		if line.UnitPrice != nil {
			unitPrice = *line.UnitPrice
		}
		totalPrice := 0.0
		if line.TotalPrice != nil {
			totalPrice = *line.TotalPrice
		}
		purchaseTx.Lines = append(purchaseTx.Lines, model.PurchaseLine{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			Unit:        line.Unit,
			UnitPrice:   unitPrice,
			TotalPrice:  totalPrice,
			Category:    line.Category,
		})
		purchaseTx.Total += totalPrice
	}
	write.Purchase = purchaseTx

	if err := uc.repo.Complete(ctx, write); err != nil {
		return nil, err
	}

	uc.logger.Info("shopping session completed",
		zap.String("session_id", s.ID),
		zap.String("transaction_id", purchaseTx.ID),
		zap.Float64("total", purchaseTx.Total),
	)

	go uc.afterComplete(context.Background(), purchaseTx, input.ListID)

	return purchaseTx, nil
}

// afterComplete mirrors the committed purchase into the search index and
// drops the list item cache. Both are best effort; the transaction has
// already committed.
func (uc *sessionUseCase) afterComplete(ctx context.Context, tx *model.PurchaseTransaction, listID *string) {
	if uc.purchases != nil {
		_ = uc.purchases.IndexTransaction(ctx, tx)
	}
	if uc.cache != nil && listID != nil {
		if err := uc.cache.DeletePattern(ctx, shoppinglist.ItemCacheKey(*listID)); err != nil {
			uc.logger.Warn("failed to invalidate list item cache", zap.String("list_id", *listID), zap.Error(err))
		}
	}
}

// activeSession loads a session and requires it to be ACTIVE.
func (uc *sessionUseCase) activeSession(ctx context.Context, sessionID string) (*model.ShoppingSession, error) {
	s, err := uc.repo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, apperror.NotFoundf("session %s", sessionID)
	}
	if s.Status != model.SessionActive {
		return nil, apperror.InvalidStatef("session %s is %s", sessionID, s.Status)
	}
	return s, nil
}

func (uc *sessionUseCase) lockSession(ctx context.Context, sessionID string) (*cache.Lock, error) {
	if uc.cache == nil {
		// No redis: the revision check on cart writes is the only guard.
		return nil, nil
	}

	key := "lock:session:" + sessionID
	for i := 0; i < lockRetries; i++ {
		lock, err := uc.cache.AcquireLock(ctx, key, lockTTL)
		if err == nil {
			return lock, nil
		}
		if !errors.Is(err, cache.ErrLockNotObtained) {
			uc.logger.Error("failed to acquire session lock", zap.String("session_id", sessionID), zap.Error(err))
		}
		time.Sleep(lockRetryDelay)
	}
	return nil, apperror.Conflictf("session %s is busy", sessionID)
}
