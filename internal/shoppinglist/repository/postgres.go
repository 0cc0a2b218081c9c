package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/hearthstock/shopping-service/internal/model"
	"github.com/hearthstock/shopping-service/internal/shoppinglist/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) CreateList(ctx context.Context, l *model.ShoppingList) error {
	query := `
        INSERT INTO shopping_lists (id, household_id, name, is_active, created_at, updated_at)
        VALUES (:id, :household_id, :name, :is_active, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, l)
	return err
}

func (r *PGRepository) FindListByID(ctx context.Context, id string) (*model.ShoppingList, error) {
	var list model.ShoppingList
	query := `SELECT * FROM shopping_lists WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &list, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &list, nil
}

func (r *PGRepository) FindAllLists(ctx context.Context, f *dto.ListFilters) ([]model.ShoppingList, int, error) {
	var lists []model.ShoppingList
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.HouseholdID != "" {
		conditions = append(conditions, "household_id = :household_id")
		args["household_id"] = f.HouseholdID
	}
	if f.IsActive != nil {
		conditions = append(conditions, "is_active = :is_active")
		args["is_active"] = *f.IsActive
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM shopping_lists" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM shopping_lists" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &lists, args)
	if err != nil {
		return nil, 0, err
	}

	return lists, count, nil
}

func (r *PGRepository) UpdateList(ctx context.Context, l *model.ShoppingList) error {
	query := `
        UPDATE shopping_lists
        SET name = :name,
            is_active = :is_active,
            updated_at = :updated_at
        WHERE id = :id AND household_id = :household_id
    `
	_, err := r.DB.NamedExecContext(ctx, query, l)
	return err
}

func (r *PGRepository) CreateItem(ctx context.Context, item *model.ShoppingListItem) error {
	query := `
        INSERT INTO shopping_list_items (
            id, list_id, product_id, product_name, quantity_needed, unit,
            checked, priority, reason, origin, created_at, updated_at
        )
        VALUES (
            :id, :list_id, :product_id, :product_name, :quantity_needed, :unit,
            :checked, :priority, :reason, :origin, :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, item)
	return err
}

func (r *PGRepository) FindItemByID(ctx context.Context, id string) (*model.ShoppingListItem, error) {
	var item model.ShoppingListItem
	query := `SELECT * FROM shopping_list_items WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &item, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *PGRepository) FindItemByProduct(ctx context.Context, listID, productID string) (*model.ShoppingListItem, error) {
	var item model.ShoppingListItem
	query := `SELECT * FROM shopping_list_items WHERE list_id = $1 AND product_id = $2 LIMIT 1`
	err := r.DB.GetContext(ctx, &item, query, listID, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *PGRepository) FindItems(ctx context.Context, f *dto.ItemFilters) ([]model.ShoppingListItem, error) {
	conditions := []string{"list_id = :list_id"}
	args := map[string]interface{}{"list_id": f.ListID}

	if f.Checked != nil {
		conditions = append(conditions, "checked = :checked")
		args["checked"] = *f.Checked
	}
	if f.Origin != "" {
		conditions = append(conditions, "origin = :origin")
		args["origin"] = f.Origin
	}

	query := "SELECT * FROM shopping_list_items WHERE " + strings.Join(conditions, " AND ") +
		" ORDER BY priority DESC, created_at ASC"

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer nstmt.Close()

	var items []model.ShoppingListItem
	err = nstmt.SelectContext(ctx, &items, args)
	return items, err
}

func (r *PGRepository) FindUnchecked(ctx context.Context, listID string) ([]model.ShoppingListItem, error) {
	var items []model.ShoppingListItem
	query := `
        SELECT * FROM shopping_list_items
        WHERE list_id = $1 AND checked = false
        ORDER BY priority DESC, created_at ASC
    `
	err := r.DB.SelectContext(ctx, &items, query, listID)
	return items, err
}

func (r *PGRepository) UpdateItem(ctx context.Context, item *model.ShoppingListItem) error {
	query := `
        UPDATE shopping_list_items
        SET quantity_needed = :quantity_needed,
            unit = :unit,
            checked = :checked,
            priority = :priority,
            reason = :reason,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, item)
	return err
}

func (r *PGRepository) DeleteItem(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM shopping_list_items WHERE id = $1", id)
	return err
}
