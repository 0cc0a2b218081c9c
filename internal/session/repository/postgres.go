package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/hearthstock/shopping-service/internal/apperror"
	"github.com/hearthstock/shopping-service/internal/model"
	"github.com/hearthstock/shopping-service/internal/session"
)

// pgUniqueViolation is the code raised when the partial unique index on
// (household_id) WHERE status = 'ACTIVE' rejects a second active session.
const pgUniqueViolation = "23505"

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

// sessionRow mirrors the shopping_sessions table; the cart is one JSONB
// document holding the ordered cart lines.
type sessionRow struct {
	ID           string              `db:"id"`
	HouseholdID  string              `db:"household_id"`
	StoreLabel   *string             `db:"store_label"`
	Status       model.SessionStatus `db:"status"`
	CartItems    []byte              `db:"cart_items"`
	CartRevision int64               `db:"cart_revision"`
	StartedAt    time.Time           `db:"started_at"`
	CompletedAt  *time.Time          `db:"completed_at"`
}

func (row *sessionRow) toModel() (*model.ShoppingSession, error) {
	items := []model.CartItem{}
	if len(row.CartItems) > 0 {
		// A cart that fails to decode is a corruption signal, never
		// silently replaced with an empty cart.
		if err := json.Unmarshal(row.CartItems, &items); err != nil {
			return nil, fmt.Errorf("session %s: decode cart document: %w", row.ID, err)
		}
	}
	return &model.ShoppingSession{
		ID:           row.ID,
		HouseholdID:  row.HouseholdID,
		StoreLabel:   row.StoreLabel,
		Status:       row.Status,
		CartItems:    items,
		CartRevision: row.CartRevision,
		StartedAt:    row.StartedAt,
		CompletedAt:  row.CompletedAt,
	}, nil
}

func (r *PGRepository) Create(ctx context.Context, s *model.ShoppingSession) error {
	cart, err := json.Marshal(s.CartItems)
	if err != nil {
		return fmt.Errorf("encode cart document: %w", err)
	}

	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var active int
	err = tx.GetContext(ctx, &active,
		`SELECT count(*) FROM shopping_sessions WHERE household_id = $1 AND status = 'ACTIVE'`,
		s.HouseholdID,
	)
	if err != nil {
		return err
	}
	if active > 0 {
		return apperror.Conflictf("household %s already has an active session", s.HouseholdID)
	}

	row := &sessionRow{
		ID:           s.ID,
		HouseholdID:  s.HouseholdID,
		StoreLabel:   s.StoreLabel,
		Status:       s.Status,
		CartItems:    cart,
		CartRevision: s.CartRevision,
		StartedAt:    s.StartedAt,
		CompletedAt:  s.CompletedAt,
	}
	query := `
        INSERT INTO shopping_sessions (
            id, household_id, store_label, status, cart_items,
            cart_revision, started_at, completed_at
        )
        VALUES (
            :id, :household_id, :store_label, :status, :cart_items,
            :cart_revision, :started_at, :completed_at
        )
    `
	if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperror.Conflictf("household %s already has an active session", s.HouseholdID)
		}
		return err
	}

	return tx.Commit()
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.ShoppingSession, error) {
	var row sessionRow
	query := `SELECT * FROM shopping_sessions WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return row.toModel()
}

func (r *PGRepository) FindActive(ctx context.Context, householdID string) (*model.ShoppingSession, error) {
	var row sessionRow
	query := `SELECT * FROM shopping_sessions WHERE household_id = $1 AND status = 'ACTIVE' LIMIT 1`
	err := r.DB.GetContext(ctx, &row, query, householdID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return row.toModel()
}

func (r *PGRepository) ReplaceCart(ctx context.Context, sessionID string, items []model.CartItem, expectedRevision int64) error {
	cart, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart document: %w", err)
	}

	res, err := r.DB.ExecContext(ctx, `
        UPDATE shopping_sessions
        SET cart_items = $2, cart_revision = cart_revision + 1
        WHERE id = $1 AND status = 'ACTIVE' AND cart_revision = $3
    `, sessionID, cart, expectedRevision)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 1 {
		return nil
	}
	return r.diagnoseCartWriteFailure(ctx, sessionID)
}

// diagnoseCartWriteFailure distinguishes why a guarded cart update
// touched no row.
func (r *PGRepository) diagnoseCartWriteFailure(ctx context.Context, sessionID string) error {
	current, err := r.FindByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if current == nil {
		return apperror.NotFoundf("session %s", sessionID)
	}
	if current.Status != model.SessionActive {
		return apperror.InvalidStatef("session %s is %s", sessionID, current.Status)
	}
	return apperror.ErrStaleCart
}

func (r *PGRepository) UpdateStatus(ctx context.Context, sessionID string, from, to model.SessionStatus, completedAt *time.Time) error {
	res, err := r.DB.ExecContext(ctx, `
        UPDATE shopping_sessions
        SET status = $2, completed_at = $3
        WHERE id = $1 AND status = $4
    `, sessionID, to, completedAt, from)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 1 {
		return nil
	}

	current, err := r.FindByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if current == nil {
		return apperror.NotFoundf("session %s", sessionID)
	}
	return apperror.InvalidStatef("session %s is %s, expected %s", sessionID, current.Status, from)
}

// Complete runs the whole commit in one transaction so a crash or
// cancellation between steps never leaves inventory updated without the
// matching ledger record, or vice versa.
func (r *PGRepository) Complete(ctx context.Context, w *session.CompletionWrite) error {
	lines, err := json.Marshal(w.Purchase.Lines)
	if err != nil {
		return fmt.Errorf("encode purchase lines: %w", err)
	}

	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// 1. Close the session, guarded on ACTIVE so a concurrent commit or
	// abandon loses cleanly.
	res, err := tx.ExecContext(ctx, `
        UPDATE shopping_sessions
        SET status = $2, completed_at = $3
        WHERE id = $1 AND status = 'ACTIVE'
    `, w.SessionID, model.SessionCompleted, w.CompletedAt)
	if err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperror.InvalidStatef("session %s is not active", w.SessionID)
	}

	// 2. Apply stock increments. Relative updates keep the write correct
	// even when background tasks touched inventory since the cart was read.
	for _, d := range w.InventoryDeltas {
		_, err := tx.ExecContext(ctx, `
            INSERT INTO inventory_items (
                id, household_id, product_id, location,
                quantity_on_hand, unit, reorder_threshold, updated_at
            )
            VALUES ($1, $2, $3, $4, $5, $6, 0, $7)
            ON CONFLICT (household_id, product_id, location)
            DO UPDATE SET
                quantity_on_hand = inventory_items.quantity_on_hand + EXCLUDED.quantity_on_hand,
                updated_at = EXCLUDED.updated_at
        `, uuid.New().String(), d.HouseholdID, d.ProductID, d.Location, d.Quantity, d.Unit, w.CompletedAt)
		if err != nil {
			return fmt.Errorf("apply inventory delta for %s: %w", d.ProductID, err)
		}
	}

	// 3. Remove fulfilled planned items from the list.
	if w.ListID != nil && len(w.FulfilledProductIDs) > 0 {
		query, args, err := sqlx.In(
			`DELETE FROM shopping_list_items WHERE list_id = ? AND product_id IN (?)`,
			*w.ListID, w.FulfilledProductIDs,
		)
		if err != nil {
			return err
		}
		query = tx.Rebind(query)
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("delete fulfilled list items: %w", err)
		}
	}

	// 4. Write the immutable purchase record.
	_, err = tx.ExecContext(ctx, `
        INSERT INTO purchase_transactions (
            id, household_id, session_id, store_label, purchased_at, lines, total
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `, w.Purchase.ID, w.Purchase.HouseholdID, w.Purchase.SessionID,
		w.Purchase.StoreLabel, w.Purchase.PurchasedAt, lines, w.Purchase.Total)
	if err != nil {
		return fmt.Errorf("insert purchase transaction: %w", err)
	}

	return tx.Commit()
}
