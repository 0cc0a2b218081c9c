package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hearthstock/shopping-service/internal/model"
	"github.com/hearthstock/shopping-service/internal/purchase/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

type purchaseRow struct {
	ID          string     `db:"id"`
	HouseholdID string     `db:"household_id"`
	SessionID   string     `db:"session_id"`
	StoreLabel  *string    `db:"store_label"`
	PurchasedAt time.Time  `db:"purchased_at"`
	Lines       []byte     `db:"lines"`
	Total       float64    `db:"total"`
}

func (row *purchaseRow) toModel() (*model.PurchaseTransaction, error) {
	lines := []model.PurchaseLine{}
	if len(row.Lines) > 0 {
		if err := json.Unmarshal(row.Lines, &lines); err != nil {
			return nil, fmt.Errorf("transaction %s: decode purchase lines: %w", row.ID, err)
		}
	}
	return &model.PurchaseTransaction{
		ID:          row.ID,
		HouseholdID: row.HouseholdID,
		SessionID:   row.SessionID,
		StoreLabel:  row.StoreLabel,
		PurchasedAt: row.PurchasedAt,
		Lines:       lines,
		Total:       row.Total,
	}, nil
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.PurchaseTransaction, error) {
	var row purchaseRow
	query := `SELECT * FROM purchase_transactions WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return row.toModel()
}

func (r *PGRepository) FindBySession(ctx context.Context, sessionID string) (*model.PurchaseTransaction, error) {
	var row purchaseRow
	query := `SELECT * FROM purchase_transactions WHERE session_id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &row, query, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return row.toModel()
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.PurchaseFilters) ([]model.PurchaseTransaction, int, error) {
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.HouseholdID != "" {
		conditions = append(conditions, "household_id = :household_id")
		args["household_id"] = f.HouseholdID
	}
	if f.StoreLabel != "" {
		conditions = append(conditions, "store_label = :store_label")
		args["store_label"] = f.StoreLabel
	}
	if f.SearchQuery != "" {
		// Lines live in a JSONB document; a text scan is the fallback
		// when Elasticsearch is unavailable.
		conditions = append(conditions, "(lines::text ILIKE :search OR store_label ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}
	if f.From != nil {
		conditions = append(conditions, "purchased_at >= :from")
		args["from"] = *f.From
	}
	if f.To != nil {
		conditions = append(conditions, "purchased_at <= :to")
		args["to"] = *f.To
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM purchase_transactions" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM purchase_transactions" + whereClause + " ORDER BY purchased_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	var rowsOut []purchaseRow
	if err := nstmt.SelectContext(ctx, &rowsOut, args); err != nil {
		return nil, 0, err
	}

	transactions := make([]model.PurchaseTransaction, 0, len(rowsOut))
	for i := range rowsOut {
		tx, err := rowsOut[i].toModel()
		if err != nil {
			return nil, 0, err
		}
		transactions = append(transactions, *tx)
	}
	return transactions, count, nil
}
