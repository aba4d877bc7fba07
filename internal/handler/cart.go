package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/littlelemon/api/internal/database"
	"github.com/littlelemon/api/internal/middleware"
	"github.com/littlelemon/api/internal/service"
)

// CartReadStore defines the database methods needed by cart read/delete
// endpoints. The add path goes through *service.CartService instead.
type CartReadStore interface {
	ListCartItems(ctx context.Context, userID uuid.UUID) ([]database.CartItemWithDish, error)
	DeleteCartItem(ctx context.Context, arg database.DeleteCartItemParams) (uuid.UUID, error)
	ClearCart(ctx context.Context, userID uuid.UUID) error
}

// CartHandler handles the caller's cart endpoints. All operations are scoped
// to the authenticated user.
type CartHandler struct {
	store CartReadStore
	cart  *service.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(store CartReadStore, cart *service.CartService) *CartHandler {
	return &CartHandler{store: store, cart: cart}
}

// --- Request / Response types ---

type cartAddRequest struct {
	MenuItemID string `json:"menu_item"`
	Quantity   *int32 `json:"quantity"`
}

type cartItemResponse struct {
	ID         uuid.UUID `json:"id"`
	MenuItemID uuid.UUID `json:"menu_item"`
	Dish       string    `json:"dish"`
	Quantity   int32     `json:"quantity"`
	UnitPrice  string    `json:"unit_price"`
	TotalPrice string    `json:"total_price"`
}

func toCartItemResponse(c database.CartItem, dish string) cartItemResponse {
	unit := service.NumericToDecimal(c.UnitPrice)
	return cartItemResponse{
		ID:         c.ID,
		MenuItemID: c.MenuItemID,
		Dish:       dish,
		Quantity:   c.Quantity,
		UnitPrice:  unit.StringFixed(2),
		TotalPrice: service.LineTotal(unit, c.Quantity).StringFixed(2),
	}
}

// --- Handlers ---

// List returns the caller's cart with per-line totals recomputed from the
// unit-price snapshots.
func (h *CartHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	items, err := h.store.ListCartItems(r.Context(), claims.UserID)
	if err != nil {
		log.Printf("ERROR: list cart items: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]cartItemResponse, len(items))
	for i, c := range items {
		resp[i] = toCartItemResponse(c.CartItem, c.Dish)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Add merges a menu item into the caller's cart. Quantity defaults to 1.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	var req cartAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.MenuItemID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "menu_item is required"})
		return
	}
	menuItemID, err := uuid.Parse(req.MenuItemID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid menu_item"})
		return
	}

	quantity := int32(1)
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	row, err := h.cart.Add(r.Context(), claims.UserID, menuItemID, quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidQuantity):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, service.ErrMenuItemNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		default:
			log.Printf("ERROR: add to cart: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		}
		return
	}

	// Fetch the merged row with its dish name so the response matches List.
	items, err := h.store.ListCartItems(r.Context(), claims.UserID)
	if err != nil {
		log.Printf("ERROR: list cart items after add: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	for _, c := range items {
		if c.ID == row.ID {
			writeJSON(w, http.StatusCreated, toCartItemResponse(c.CartItem, c.Dish))
			return
		}
	}
	writeJSON(w, http.StatusCreated, toCartItemResponse(row, ""))
}

// Clear empties the caller's cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	if err := h.store.ClearCart(r.Context(), claims.UserID); err != nil {
		log.Printf("ERROR: clear cart: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteItem removes one row from the caller's cart.
func (h *CartHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid cart item ID"})
		return
	}

	_, err = h.store.DeleteCartItem(r.Context(), database.DeleteCartItemParams{
		ID:     itemID,
		UserID: claims.UserID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "cart item not found"})
			return
		}
		log.Printf("ERROR: delete cart item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
