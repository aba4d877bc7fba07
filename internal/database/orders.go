package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const orderColumns = `id, user_id, delivery_crew_id, status, total, date, updated_at`

func scanOrder(row interface{ Scan(dest ...interface{}) error }) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.UserID, &o.DeliveryCrewID, &o.Status, &o.Total,
		&o.Date, &o.UpdatedAt)
	return o, err
}

func (q *Queries) GetOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	row := q.db.QueryRow(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE id = $1`, id)
	return scanOrder(row)
}

func (q *Queries) listOrders(ctx context.Context, sql string, args ...interface{}) ([]Order, error) {
	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (q *Queries) ListOrders(ctx context.Context) ([]Order, error) {
	return q.listOrders(ctx, `
		SELECT `+orderColumns+` FROM orders
		ORDER BY date DESC`)
}

func (q *Queries) ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]Order, error) {
	return q.listOrders(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE user_id = $1
		ORDER BY date DESC`, userID)
}

func (q *Queries) ListOrdersByCrew(ctx context.Context, crewID uuid.UUID) ([]Order, error) {
	return q.listOrders(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE delivery_crew_id = $1
		ORDER BY date DESC`, crewID)
}

type CreateOrderParams struct {
	UserID uuid.UUID
	Status string
	Total  pgtype.Numeric
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO orders (user_id, status, total)
		VALUES ($1, $2, $3)
		RETURNING `+orderColumns,
		arg.UserID, arg.Status, arg.Total)
	return scanOrder(row)
}

type CreateOrderItemParams struct {
	OrderID    uuid.UUID
	MenuItemID uuid.UUID
	Quantity   int32
	UnitPrice  pgtype.Numeric
}

func (q *Queries) CreateOrderItem(ctx context.Context, arg CreateOrderItemParams) (OrderItem, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO order_items (order_id, menu_item_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4)
		RETURNING id, order_id, menu_item_id, quantity, unit_price`,
		arg.OrderID, arg.MenuItemID, arg.Quantity, arg.UnitPrice)
	var oi OrderItem
	err := row.Scan(&oi.ID, &oi.OrderID, &oi.MenuItemID, &oi.Quantity, &oi.UnitPrice)
	return oi, err
}

// OrderItemWithDish carries the current dish name, denormalized at read time.
type OrderItemWithDish struct {
	OrderItem
	Dish string
}

func (q *Queries) ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]OrderItemWithDish, error) {
	rows, err := q.db.Query(ctx, `
		SELECT oi.id, oi.order_id, oi.menu_item_id, oi.quantity, oi.unit_price,
		       m.name
		FROM order_items oi
		JOIN menu_items m ON m.id = oi.menu_item_id
		WHERE oi.order_id = $1
		ORDER BY oi.id ASC`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []OrderItemWithDish
	for rows.Next() {
		var oi OrderItemWithDish
		if err := rows.Scan(&oi.ID, &oi.OrderID, &oi.MenuItemID, &oi.Quantity,
			&oi.UnitPrice, &oi.Dish); err != nil {
			return nil, err
		}
		items = append(items, oi)
	}
	return items, rows.Err()
}

type UpdateOrderCrewAndStatusParams struct {
	ID             uuid.UUID
	DeliveryCrewID pgtype.UUID
	SetCrew        bool
	Status         pgtype.Text
}

// UpdateOrderCrewAndStatus applies the manager's partial update: each field
// is written only when its flag/valid bit is set, otherwise the stored value
// is kept.
func (q *Queries) UpdateOrderCrewAndStatus(ctx context.Context, arg UpdateOrderCrewAndStatusParams) (Order, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE orders
		SET delivery_crew_id = CASE WHEN $2::boolean THEN $3 ELSE delivery_crew_id END,
		    status = COALESCE($4::text, status),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING `+orderColumns,
		arg.ID, arg.SetCrew, arg.DeliveryCrewID, arg.Status)
	return scanOrder(row)
}

type UpdateOrderStatusParams struct {
	ID     uuid.UUID
	Status string
}

func (q *Queries) UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE orders SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+orderColumns,
		arg.ID, arg.Status)
	return scanOrder(row)
}

func (q *Queries) DeleteOrder(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, `
		DELETE FROM orders WHERE id = $1
		RETURNING id`, id)
	var deleted uuid.UUID
	err := row.Scan(&deleted)
	return deleted, err
}
