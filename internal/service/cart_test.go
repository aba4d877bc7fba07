package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/littlelemon/api/internal/database"
)

// mockCartStore implements CartStore with configurable behavior.
type mockCartStore struct {
	getMenuItemFn    func(ctx context.Context, id uuid.UUID) (database.MenuItemWithCategory, error)
	upsertCartItemFn func(ctx context.Context, arg database.UpsertCartItemParams) (database.CartItem, error)
}

func (m *mockCartStore) GetMenuItem(ctx context.Context, id uuid.UUID) (database.MenuItemWithCategory, error) {
	return m.getMenuItemFn(ctx, id)
}

func (m *mockCartStore) UpsertCartItem(ctx context.Context, arg database.UpsertCartItemParams) (database.CartItem, error) {
	return m.upsertCartItemFn(ctx, arg)
}

func TestCartAdd_InvalidQuantity(t *testing.T) {
	svc := NewCartService(&mockCartStore{})

	_, err := svc.Add(context.Background(), uuid.New(), uuid.New(), 0)
	if !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got: %v", err)
	}

	_, err = svc.Add(context.Background(), uuid.New(), uuid.New(), -3)
	if !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity for negative quantity, got: %v", err)
	}
}

func TestCartAdd_MenuItemNotFound(t *testing.T) {
	store := &mockCartStore{
		getMenuItemFn: func(ctx context.Context, id uuid.UUID) (database.MenuItemWithCategory, error) {
			return database.MenuItemWithCategory{}, pgx.ErrNoRows
		},
	}
	svc := NewCartService(store)

	_, err := svc.Add(context.Background(), uuid.New(), uuid.New(), 1)
	if !errors.Is(err, ErrMenuItemNotFound) {
		t.Fatalf("expected ErrMenuItemNotFound, got: %v", err)
	}
}

func TestCartAdd_SnapshotsCurrentPrice(t *testing.T) {
	userID := uuid.New()
	menuItemID := uuid.New()

	var captured database.UpsertCartItemParams
	store := &mockCartStore{
		getMenuItemFn: func(ctx context.Context, id uuid.UUID) (database.MenuItemWithCategory, error) {
			item := database.MenuItemWithCategory{}
			item.ID = menuItemID
			item.Price = makeNumeric("14.50")
			return item, nil
		},
		upsertCartItemFn: func(ctx context.Context, arg database.UpsertCartItemParams) (database.CartItem, error) {
			captured = arg
			return database.CartItem{
				ID:         uuid.New(),
				UserID:     arg.UserID,
				MenuItemID: arg.MenuItemID,
				Quantity:   arg.Quantity,
				UnitPrice:  arg.UnitPrice,
			}, nil
		},
	}
	svc := NewCartService(store)

	row, err := svc.Add(context.Background(), userID, menuItemID, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if captured.UserID != userID {
		t.Errorf("user_id: got %v, want %v", captured.UserID, userID)
	}
	if captured.MenuItemID != menuItemID {
		t.Errorf("menu_item_id: got %v, want %v", captured.MenuItemID, menuItemID)
	}
	if captured.Quantity != 2 {
		t.Errorf("quantity: got %d, want 2", captured.Quantity)
	}
	if !NumericToDecimal(captured.UnitPrice).Equal(NumericToDecimal(makeNumeric("14.50"))) {
		t.Errorf("unit_price: got %v, want 14.50", NumericToDecimal(captured.UnitPrice))
	}
	if row.Quantity != 2 {
		t.Errorf("returned quantity: got %d, want 2", row.Quantity)
	}
}

func TestCartAdd_StoreErrorPropagates(t *testing.T) {
	store := &mockCartStore{
		getMenuItemFn: func(ctx context.Context, id uuid.UUID) (database.MenuItemWithCategory, error) {
			return database.MenuItemWithCategory{}, nil
		},
		upsertCartItemFn: func(ctx context.Context, arg database.UpsertCartItemParams) (database.CartItem, error) {
			return database.CartItem{}, errors.New("connection reset")
		},
	}
	svc := NewCartService(store)

	_, err := svc.Add(context.Background(), uuid.New(), uuid.New(), 1)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}
