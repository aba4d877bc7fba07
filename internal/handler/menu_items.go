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
	"github.com/littlelemon/api/internal/service"
)

// MenuItemStore defines the database methods needed by menu item handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type MenuItemStore interface {
	ListMenuItems(ctx context.Context) ([]database.MenuItemWithCategory, error)
	GetMenuItem(ctx context.Context, id uuid.UUID) (database.MenuItemWithCategory, error)
	ListDishNames(ctx context.Context) ([]database.DishName, error)
	GetCategory(ctx context.Context, id uuid.UUID) (database.Category, error)
	CreateMenuItem(ctx context.Context, arg database.CreateMenuItemParams) (database.MenuItem, error)
	UpdateMenuItem(ctx context.Context, arg database.UpdateMenuItemParams) (database.MenuItem, error)
	SoftDeleteMenuItem(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	SetItemOfTheDay(ctx context.Context, id uuid.UUID) (database.MenuItem, error)
}

// MenuItemHandler handles menu item CRUD endpoints.
type MenuItemHandler struct {
	store MenuItemStore
}

// NewMenuItemHandler creates a new MenuItemHandler.
func NewMenuItemHandler(store MenuItemStore) *MenuItemHandler {
	return &MenuItemHandler{store: store}
}

// --- Request / Response types ---

type menuItemRequest struct {
	Dish       string `json:"dish"`
	Price      string `json:"price"`
	Stock      *int32 `json:"stock"`
	CategoryID string `json:"category_id"`
}

type categoryMiniResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type menuItemResponse struct {
	ID             uuid.UUID            `json:"id"`
	Dish           string               `json:"dish"`
	Price          string               `json:"price"`
	PriceAfterTax  string               `json:"price_after_tax"`
	Stock          int32                `json:"stock"`
	Category       categoryMiniResponse `json:"category"`
	IsItemOfTheDay bool                 `json:"is_item_of_the_day"`
}

func toMenuItemResponse(m database.MenuItemWithCategory) menuItemResponse {
	price := service.NumericToDecimal(m.Price)
	return menuItemResponse{
		ID:            m.ID,
		Dish:          m.Name,
		Price:         price.StringFixed(2),
		PriceAfterTax: service.PriceAfterTax(price).StringFixed(2),
		Stock:         m.Inventory,
		Category: categoryMiniResponse{
			ID:   m.CategoryID,
			Name: m.CategoryTitle,
		},
		IsItemOfTheDay: m.IsItemOfTheDay,
	}
}

// --- Handlers ---

// List returns all active menu items.
func (h *MenuItemHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListMenuItems(r.Context())
	if err != nil {
		log.Printf("ERROR: list menu items: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]menuItemResponse, len(items))
	for i, m := range items {
		resp[i] = toMenuItemResponse(m)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get returns a single menu item by ID.
func (h *MenuItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid menu item ID"})
		return
	}

	item, err := h.store.GetMenuItem(r.Context(), itemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "menu item not found"})
			return
		}
		log.Printf("ERROR: get menu item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toMenuItemResponse(item))
}

// Create adds a new menu item.
func (h *MenuItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.upsert(w, r, uuid.Nil)
}

// Update modifies an existing menu item.
func (h *MenuItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid menu item ID"})
		return
	}
	h.upsert(w, r, itemID)
}

// upsert shares the validation path between Create and Update. A zero
// itemID means create; otherwise the item with that ID is updated and
// excluded from the duplicate-name check.
func (h *MenuItemHandler) upsert(w http.ResponseWriter, r *http.Request, itemID uuid.UUID) {
	var req menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Dish == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "dish is required"})
		return
	}
	if req.Price == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "price is required"})
		return
	}
	if req.CategoryID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "category_id is required"})
		return
	}

	price, err := service.ParsePrice(req.Price)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	stock := int32(0)
	if req.Stock != nil {
		if *req.Stock < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": service.ErrNegativeStock.Error()})
			return
		}
		stock = *req.Stock
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid category_id"})
		return
	}

	names, err := h.store.ListDishNames(r.Context())
	if err != nil {
		log.Printf("ERROR: list dish names: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if err := service.ValidateDishName(req.Dish, names, itemID); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var item database.MenuItem
	if itemID == uuid.Nil {
		item, err = h.store.CreateMenuItem(r.Context(), database.CreateMenuItemParams{
			CategoryID: categoryID,
			Name:       req.Dish,
			Price:      service.DecimalToNumeric(price),
			Inventory:  stock,
		})
	} else {
		item, err = h.store.UpdateMenuItem(r.Context(), database.UpdateMenuItemParams{
			ID:         itemID,
			CategoryID: categoryID,
			Name:       req.Dish,
			Price:      service.DecimalToNumeric(price),
			Inventory:  stock,
		})
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "menu item not found"})
			return
		}
		if isForeignKeyViolation(err) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid category_id"})
			return
		}
		if isUniqueViolation(err) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": service.ErrDuplicateDishName.Error()})
			return
		}
		log.Printf("ERROR: save menu item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	category, err := h.store.GetCategory(r.Context(), item.CategoryID)
	if err != nil {
		log.Printf("ERROR: get category for menu item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	status := http.StatusOK
	if itemID == uuid.Nil {
		status = http.StatusCreated
	}
	writeJSON(w, status, toMenuItemResponse(database.MenuItemWithCategory{
		MenuItem:      item,
		CategoryTitle: category.Title,
	}))
}

// Delete soft-deletes a menu item by setting is_active=false.
func (h *MenuItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid menu item ID"})
		return
	}

	_, err = h.store.SoftDeleteMenuItem(r.Context(), itemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "menu item not found"})
			return
		}
		log.Printf("ERROR: delete menu item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PromoteItemOfTheDay marks an item as the item of the day and clears the
// previous one.
func (h *MenuItemHandler) PromoteItemOfTheDay(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid menu item ID"})
		return
	}

	item, err := h.store.SetItemOfTheDay(r.Context(), itemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "menu item not found"})
			return
		}
		log.Printf("ERROR: set item of the day: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	category, err := h.store.GetCategory(r.Context(), item.CategoryID)
	if err != nil {
		log.Printf("ERROR: get category for menu item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toMenuItemResponse(database.MenuItemWithCategory{
		MenuItem:      item,
		CategoryTitle: category.Title,
	}))
}
