package session

import (
	"context"

	"github.com/hearthstock/shopping-service/internal/model"
	"github.com/hearthstock/shopping-service/internal/session/dto"
)

type UseCase interface {
	// Lifecycle
	StartSession(ctx context.Context, input *dto.StartSessionInput) (*model.ShoppingSession, error)
	GetSession(ctx context.Context, sessionID string) (*model.ShoppingSession, error)
	GetActiveSession(ctx context.Context, householdID string) (*model.ShoppingSession, error)
	AbandonSession(ctx context.Context, sessionID string) error

	// Cart
	AddToCart(ctx context.Context, input *dto.AddToCartInput) (model.MatchType, error)
	RemoveFromCart(ctx context.Context, sessionID, productID string) error
	AdjustQuantity(ctx context.Context, sessionID, productID string, delta float64) error

	// Reconciliation: read-only, callable repeatedly before completion.
	Reconcile(ctx context.Context, sessionID string, listID *string) (*dto.Reconciliation, error)

	// Complete commits the cart to inventory, the list and the purchase
	// ledger, and closes the session. All or nothing.
	Complete(ctx context.Context, input *dto.CompleteInput) (*model.PurchaseTransaction, error)
}
