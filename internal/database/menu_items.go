package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const menuItemColumns = `id, category_id, name, price, inventory, is_item_of_the_day, is_active, created_at, updated_at`

func scanMenuItem(row interface{ Scan(dest ...interface{}) error }) (MenuItem, error) {
	var m MenuItem
	err := row.Scan(&m.ID, &m.CategoryID, &m.Name, &m.Price, &m.Inventory,
		&m.IsItemOfTheDay, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// MenuItemWithCategory carries the category title alongside the item so read
// endpoints can render the nested category without a second query.
type MenuItemWithCategory struct {
	MenuItem
	CategoryTitle string
}

func (q *Queries) ListMenuItems(ctx context.Context) ([]MenuItemWithCategory, error) {
	rows, err := q.db.Query(ctx, `
		SELECT m.id, m.category_id, m.name, m.price, m.inventory,
		       m.is_item_of_the_day, m.is_active, m.created_at, m.updated_at,
		       c.title
		FROM menu_items m
		JOIN categories c ON c.id = m.category_id
		WHERE m.is_active
		ORDER BY m.name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []MenuItemWithCategory
	for rows.Next() {
		var m MenuItemWithCategory
		if err := rows.Scan(&m.ID, &m.CategoryID, &m.Name, &m.Price, &m.Inventory,
			&m.IsItemOfTheDay, &m.IsActive, &m.CreatedAt, &m.UpdatedAt,
			&m.CategoryTitle); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func (q *Queries) GetMenuItem(ctx context.Context, id uuid.UUID) (MenuItemWithCategory, error) {
	row := q.db.QueryRow(ctx, `
		SELECT m.id, m.category_id, m.name, m.price, m.inventory,
		       m.is_item_of_the_day, m.is_active, m.created_at, m.updated_at,
		       c.title
		FROM menu_items m
		JOIN categories c ON c.id = m.category_id
		WHERE m.id = $1 AND m.is_active`, id)
	var m MenuItemWithCategory
	err := row.Scan(&m.ID, &m.CategoryID, &m.Name, &m.Price, &m.Inventory,
		&m.IsItemOfTheDay, &m.IsActive, &m.CreatedAt, &m.UpdatedAt,
		&m.CategoryTitle)
	return m, err
}

// DishName is the (id, name) projection used for the case-insensitive
// uniqueness check on dish names.
type DishName struct {
	ID   uuid.UUID
	Name string
}

func (q *Queries) ListDishNames(ctx context.Context) ([]DishName, error) {
	rows, err := q.db.Query(ctx, `
		SELECT id, name FROM menu_items WHERE is_active`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []DishName
	for rows.Next() {
		var n DishName
		if err := rows.Scan(&n.ID, &n.Name); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

type CreateMenuItemParams struct {
	CategoryID uuid.UUID
	Name       string
	Price      pgtype.Numeric
	Inventory  int32
}

func (q *Queries) CreateMenuItem(ctx context.Context, arg CreateMenuItemParams) (MenuItem, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO menu_items (category_id, name, price, inventory)
		VALUES ($1, $2, $3, $4)
		RETURNING `+menuItemColumns,
		arg.CategoryID, arg.Name, arg.Price, arg.Inventory)
	return scanMenuItem(row)
}

type UpdateMenuItemParams struct {
	ID         uuid.UUID
	CategoryID uuid.UUID
	Name       string
	Price      pgtype.Numeric
	Inventory  int32
}

func (q *Queries) UpdateMenuItem(ctx context.Context, arg UpdateMenuItemParams) (MenuItem, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE menu_items
		SET category_id = $2, name = $3, price = $4, inventory = $5, updated_at = NOW()
		WHERE id = $1 AND is_active
		RETURNING `+menuItemColumns,
		arg.ID, arg.CategoryID, arg.Name, arg.Price, arg.Inventory)
	return scanMenuItem(row)
}

func (q *Queries) SoftDeleteMenuItem(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE menu_items SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1 AND is_active
		RETURNING id`, id)
	var deleted uuid.UUID
	err := row.Scan(&deleted)
	return deleted, err
}

// SetItemOfTheDay promotes one item and clears the flag everywhere else in a
// single statement so there is never more than one item of the day.
func (q *Queries) SetItemOfTheDay(ctx context.Context, id uuid.UUID) (MenuItem, error) {
	row := q.db.QueryRow(ctx, `
		WITH cleared AS (
			UPDATE menu_items SET is_item_of_the_day = FALSE
			WHERE is_item_of_the_day AND id <> $1
		)
		UPDATE menu_items SET is_item_of_the_day = TRUE, updated_at = NOW()
		WHERE id = $1 AND is_active
		RETURNING `+menuItemColumns, id)
	return scanMenuItem(row)
}
