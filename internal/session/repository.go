package session

import (
	"context"
	"time"

	"github.com/hearthstock/shopping-service/internal/model"
)

// InventoryDelta is a relative stock increment applied during completion.
type InventoryDelta struct {
	HouseholdID string
	ProductID   string
	Location    string
	Quantity    float64
	Unit        model.Unit
}

// CompletionWrite carries every mutation of a session commit. The
// repository applies all of it inside one database transaction.
type CompletionWrite struct {
	SessionID           string
	HouseholdID         string
	CompletedAt         time.Time
	InventoryDeltas     []InventoryDelta
	ListID              *string
	FulfilledProductIDs []string
	Purchase            *model.PurchaseTransaction
}

type Repository interface {
	// Create inserts a new ACTIVE session. Returns a conflict error when
	// the household already has one.
	Create(ctx context.Context, s *model.ShoppingSession) error
	FindByID(ctx context.Context, id string) (*model.ShoppingSession, error)
	FindActive(ctx context.Context, householdID string) (*model.ShoppingSession, error)

	// ReplaceCart writes the whole cart document, guarded by the revision
	// stamp the caller read. A stale revision is rejected.
	ReplaceCart(ctx context.Context, sessionID string, items []model.CartItem, expectedRevision int64) error

	// UpdateStatus transitions between session states, guarded by the
	// current status.
	UpdateStatus(ctx context.Context, sessionID string, from, to model.SessionStatus, completedAt *time.Time) error

	// Complete applies the whole commit atomically: inventory increments,
	// fulfilled list-item deletes, the purchase insert and the session
	// close either all land or none do.
	Complete(ctx context.Context, w *CompletionWrite) error
}
