package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/littlelemon/api/internal/database"
	"github.com/littlelemon/api/internal/enum"
	"github.com/shopspring/decimal"
)

// Errors returned by the order service.
var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrUnknownStatus = errors.New("unknown order status")
	ErrCrewNotFound  = errors.New("delivery crew user not found")
	ErrOrderNotFound = errors.New("order not found")
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderStore defines the DB methods needed to place an order from a cart.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	ListCartItems(ctx context.Context, userID uuid.UUID) ([]database.CartItemWithDish, error)
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error)
	ClearCart(ctx context.Context, userID uuid.UUID) error
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
// This allows the service to create store instances from transactions.
type NewOrderStore func(db database.DBTX) OrderStore

// PlacedOrder is the result of converting a cart into an order.
type PlacedOrder struct {
	Order database.Order
	Items []database.OrderItemWithDish
}

// OrderService places orders from carts.
type OrderService struct {
	pool     TxBeginner
	newStore NewOrderStore
}

// NewOrderService creates a new OrderService.
func NewOrderService(pool TxBeginner, newStore NewOrderStore) *OrderService {
	return &OrderService{pool: pool, newStore: newStore}
}

// PlaceOrder converts the user's cart into an order atomically: the order
// total is the sum of the cart's line totals, each order item carries the
// cart's unit-price snapshot, and the cart is cleared. All-or-nothing.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uuid.UUID) (*PlacedOrder, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	cartItems, err := store.ListCartItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	if len(cartItems) == 0 {
		return nil, ErrEmptyCart
	}

	total := decimal.Zero
	for _, ci := range cartItems {
		total = total.Add(LineTotal(NumericToDecimal(ci.UnitPrice), ci.Quantity))
	}

	order, err := store.CreateOrder(ctx, database.CreateOrderParams{
		UserID: userID,
		Status: enum.OrderStatusPending,
		Total:  DecimalToNumeric(total),
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	items := make([]database.OrderItemWithDish, 0, len(cartItems))
	for _, ci := range cartItems {
		oi, err := store.CreateOrderItem(ctx, database.CreateOrderItemParams{
			OrderID:    order.ID,
			MenuItemID: ci.MenuItemID,
			Quantity:   ci.Quantity,
			UnitPrice:  ci.UnitPrice,
		})
		if err != nil {
			return nil, fmt.Errorf("create order item: %w", err)
		}
		items = append(items, database.OrderItemWithDish{OrderItem: oi, Dish: ci.Dish})
	}

	if err := store.ClearCart(ctx, userID); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &PlacedOrder{Order: order, Items: items}, nil
}

// --- Order views ---

// OrderView is the read representation of an order.
type OrderView struct {
	ID           uuid.UUID       `json:"id"`
	User         string          `json:"user"`
	DeliveryCrew *string         `json:"delivery_crew"`
	Status       string          `json:"status"`
	Total        string          `json:"total"`
	Date         time.Time       `json:"date"`
	Items        []OrderItemView `json:"items"`
}

// OrderItemView is a single line of an order view.
type OrderItemView struct {
	ID         uuid.UUID `json:"id"`
	MenuItemID uuid.UUID `json:"menu_item"`
	Dish       string    `json:"dish"`
	Quantity   int32     `json:"quantity"`
	UnitPrice  string    `json:"unit_price"`
	TotalPrice string    `json:"total_price"`
}

// BuildOrderView assembles the read-only view of an order. Per-item totals
// are recomputed from the unit-price snapshot on every build, never cached;
// the order total is the stored one. crewUsername is nil for unassigned
// orders.
func BuildOrderView(order database.Order, ownerUsername string, crewUsername *string, items []database.OrderItemWithDish) OrderView {
	view := OrderView{
		ID:           order.ID,
		User:         ownerUsername,
		DeliveryCrew: crewUsername,
		Status:       order.Status,
		Total:        NumericToDecimal(order.Total).StringFixed(2),
		Date:         order.Date,
		Items:        make([]OrderItemView, len(items)),
	}
	for i, it := range items {
		unit := NumericToDecimal(it.UnitPrice)
		view.Items[i] = OrderItemView{
			ID:         it.ID,
			MenuItemID: it.MenuItemID,
			Dish:       it.Dish,
			Quantity:   it.Quantity,
			UnitPrice:  unit.StringFixed(2),
			TotalPrice: LineTotal(unit, it.Quantity).StringFixed(2),
		}
	}
	return view
}

// --- Role-scoped order updates ---

// ManagerOrderUpdate is the manager's partial-update contract: reassign the
// delivery crew (nil username unassigns) and/or change the status.
type ManagerOrderUpdate struct {
	SetDeliveryCrew      bool
	DeliveryCrewUsername *string
	Status               *string
}

// CrewOrderUpdate is the delivery crew's contract: status only.
type CrewOrderUpdate struct {
	Status string
}

// MutatorStore defines the DB methods needed for role-scoped order updates.
// Satisfied by *database.Queries; narrow interface for testability.
type MutatorStore interface {
	GetUserByUsername(ctx context.Context, username string) (database.User, error)
	UpdateOrderCrewAndStatus(ctx context.Context, arg database.UpdateOrderCrewAndStatusParams) (database.Order, error)
	UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error)
}

// OrderMutator applies the two role-scoped update contracts. Callers are
// responsible for dispatching by role and for any per-order access checks;
// the mutator only validates field values and applies the permitted subset.
type OrderMutator struct {
	store MutatorStore
}

// NewOrderMutator creates a new OrderMutator.
func NewOrderMutator(store MutatorStore) *OrderMutator {
	return &OrderMutator{store: store}
}

// ApplyManagerUpdate applies the manager contract. Both fields are optional;
// untouched fields keep their stored values. The target status is only
// checked for enum membership, not transition order.
func (m *OrderMutator) ApplyManagerUpdate(ctx context.Context, orderID uuid.UUID, upd ManagerOrderUpdate) (database.Order, error) {
	status := pgtype.Text{}
	if upd.Status != nil {
		if !enum.IsValidOrderStatus(*upd.Status) {
			return database.Order{}, ErrUnknownStatus
		}
		status = pgtype.Text{String: *upd.Status, Valid: true}
	}

	crewID := pgtype.UUID{}
	if upd.SetDeliveryCrew && upd.DeliveryCrewUsername != nil {
		crew, err := m.store.GetUserByUsername(ctx, *upd.DeliveryCrewUsername)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return database.Order{}, ErrCrewNotFound
			}
			return database.Order{}, fmt.Errorf("resolve delivery crew: %w", err)
		}
		crewID = pgtype.UUID{Bytes: crew.ID, Valid: true}
	}

	order, err := m.store.UpdateOrderCrewAndStatus(ctx, database.UpdateOrderCrewAndStatusParams{
		ID:             orderID,
		DeliveryCrewID: crewID,
		SetCrew:        upd.SetDeliveryCrew,
		Status:         status,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Order{}, ErrOrderNotFound
		}
		return database.Order{}, fmt.Errorf("update order: %w", err)
	}
	return order, nil
}

// ApplyCrewUpdate applies the delivery crew contract: status only.
func (m *OrderMutator) ApplyCrewUpdate(ctx context.Context, orderID uuid.UUID, upd CrewOrderUpdate) (database.Order, error) {
	if !enum.IsValidOrderStatus(upd.Status) {
		return database.Order{}, ErrUnknownStatus
	}

	order, err := m.store.UpdateOrderStatus(ctx, database.UpdateOrderStatusParams{
		ID:     orderID,
		Status: upd.Status,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Order{}, ErrOrderNotFound
		}
		return database.Order{}, fmt.Errorf("update order status: %w", err)
	}
	return order, nil
}
