package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/hearthstock/shopping-service/internal/inventory/dto"
	"github.com/hearthstock/shopping-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) GetByProductLocation(ctx context.Context, householdID, productID, location string) (*model.InventoryItem, error) {
	var item model.InventoryItem
	query := `
        SELECT * FROM inventory_items
        WHERE household_id = $1 AND product_id = $2 AND location = $3
        LIMIT 1
    `
	err := r.DB.GetContext(ctx, &item, query, householdID, productID, location)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Caller handles creating defaults
		}
		return nil, err
	}
	return &item, nil
}

func (r *PGRepository) FindByProduct(ctx context.Context, householdID, productID string) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	query := `
        SELECT * FROM inventory_items
        WHERE household_id = $1 AND product_id = $2
        ORDER BY location ASC
    `
	err := r.DB.SelectContext(ctx, &items, query, householdID, productID)
	return items, err
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.InventoryFilters) ([]model.InventoryItem, int, error) {
	var items []model.InventoryItem
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.HouseholdID != "" {
		conditions = append(conditions, "household_id = :household_id")
		args["household_id"] = f.HouseholdID
	}
	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.Location != "" {
		conditions = append(conditions, "location = :location")
		args["location"] = f.Location
	}
	if f.LowStock {
		conditions = append(conditions, "quantity_on_hand <= reorder_threshold AND reorder_threshold > 0")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM inventory_items" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM inventory_items" + whereClause + " ORDER BY updated_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}

func (r *PGRepository) Upsert(ctx context.Context, item *model.InventoryItem) error {
	query := `
        INSERT INTO inventory_items (
            id, household_id, product_id, location,
            quantity_on_hand, unit, reorder_threshold, updated_at
        )
        VALUES (
            :id, :household_id, :product_id, :location,
            :quantity_on_hand, :unit, :reorder_threshold, :updated_at
        )
        ON CONFLICT (household_id, product_id, location)
        DO UPDATE SET
            quantity_on_hand = EXCLUDED.quantity_on_hand,
            unit = EXCLUDED.unit,
            reorder_threshold = EXCLUDED.reorder_threshold,
            updated_at = EXCLUDED.updated_at
    `
	_, err := r.DB.NamedExecContext(ctx, query, item)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM inventory_items WHERE id = $1", id)
	return err
}
