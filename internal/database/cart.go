package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const cartItemColumns = `id, user_id, menu_item_id, quantity, unit_price, created_at, updated_at`

func scanCartItem(row interface{ Scan(dest ...interface{}) error }) (CartItem, error) {
	var c CartItem
	err := row.Scan(&c.ID, &c.UserID, &c.MenuItemID, &c.Quantity, &c.UnitPrice,
		&c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// CartItemWithDish carries the dish name for cart read endpoints.
type CartItemWithDish struct {
	CartItem
	Dish string
}

func (q *Queries) ListCartItems(ctx context.Context, userID uuid.UUID) ([]CartItemWithDish, error) {
	rows, err := q.db.Query(ctx, `
		SELECT ci.id, ci.user_id, ci.menu_item_id, ci.quantity, ci.unit_price,
		       ci.created_at, ci.updated_at, m.name
		FROM cart_items ci
		JOIN menu_items m ON m.id = ci.menu_item_id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []CartItemWithDish
	for rows.Next() {
		var c CartItemWithDish
		if err := rows.Scan(&c.ID, &c.UserID, &c.MenuItemID, &c.Quantity, &c.UnitPrice,
			&c.CreatedAt, &c.UpdatedAt, &c.Dish); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

type UpsertCartItemParams struct {
	UserID     uuid.UUID
	MenuItemID uuid.UUID
	Quantity   int32
	UnitPrice  pgtype.Numeric
}

// UpsertCartItem is the atomic find-or-create for cart additions. A conflict
// on (user_id, menu_item_id) adds the requested quantity to the existing row;
// unit_price is written only on insert so the first-add snapshot survives
// later merges.
func (q *Queries) UpsertCartItem(ctx context.Context, arg UpsertCartItemParams) (CartItem, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO cart_items (user_id, menu_item_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, menu_item_id) DO UPDATE
		SET quantity = cart_items.quantity + EXCLUDED.quantity,
		    updated_at = NOW()
		RETURNING `+cartItemColumns,
		arg.UserID, arg.MenuItemID, arg.Quantity, arg.UnitPrice)
	return scanCartItem(row)
}

type DeleteCartItemParams struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

func (q *Queries) DeleteCartItem(ctx context.Context, arg DeleteCartItemParams) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, `
		DELETE FROM cart_items WHERE id = $1 AND user_id = $2
		RETURNING id`, arg.ID, arg.UserID)
	var deleted uuid.UUID
	err := row.Scan(&deleted)
	return deleted, err
}

func (q *Queries) ClearCart(ctx context.Context, userID uuid.UUID) error {
	_, err := q.db.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	return err
}
