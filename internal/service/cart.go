package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/littlelemon/api/internal/database"
)

// Errors returned by the cart service.
var (
	ErrInvalidQuantity  = errors.New("quantity must be >= 1")
	ErrMenuItemNotFound = errors.New("menu item not found")
)

// CartStore defines the DB methods needed for cart consolidation.
// Satisfied by *database.Queries; narrow interface for testability.
type CartStore interface {
	GetMenuItem(ctx context.Context, id uuid.UUID) (database.MenuItemWithCategory, error)
	UpsertCartItem(ctx context.Context, arg database.UpsertCartItemParams) (database.CartItem, error)
}

// CartService consolidates cart additions: at most one row per
// (user, menu item), repeated adds merge additively.
type CartService struct {
	store CartStore
}

// NewCartService creates a new CartService.
func NewCartService(store CartStore) *CartService {
	return &CartService{store: store}
}

// Add merges a (menu item, quantity) addition into the user's cart. A first
// add creates the row with a unit-price snapshot of the item's current
// price; later adds only increase the quantity. The merge itself is a single
// atomic upsert in the store, so concurrent adds cannot produce duplicate
// rows or lost increments.
func (s *CartService) Add(ctx context.Context, userID, menuItemID uuid.UUID, quantity int32) (database.CartItem, error) {
	if quantity < 1 {
		return database.CartItem{}, ErrInvalidQuantity
	}

	item, err := s.store.GetMenuItem(ctx, menuItemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.CartItem{}, ErrMenuItemNotFound
		}
		return database.CartItem{}, fmt.Errorf("get menu item: %w", err)
	}

	row, err := s.store.UpsertCartItem(ctx, database.UpsertCartItemParams{
		UserID:     userID,
		MenuItemID: menuItemID,
		Quantity:   quantity,
		UnitPrice:  item.Price,
	})
	if err != nil {
		return database.CartItem{}, fmt.Errorf("upsert cart item: %w", err)
	}
	return row, nil
}
