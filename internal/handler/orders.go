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
	"github.com/littlelemon/api/internal/auth"
	"github.com/littlelemon/api/internal/database"
	"github.com/littlelemon/api/internal/enum"
	"github.com/littlelemon/api/internal/middleware"
	"github.com/littlelemon/api/internal/service"
)

// OrderReadStore defines the database methods needed by order read/delete
// endpoints. Placement goes through *service.OrderService and updates through
// *service.OrderMutator.
type OrderReadStore interface {
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	ListOrders(ctx context.Context) ([]database.Order, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]database.Order, error)
	ListOrdersByCrew(ctx context.Context, crewID uuid.UUID) ([]database.Order, error)
	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItemWithDish, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (database.User, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// OrderHandler handles order endpoints. Listing and reading are scoped by the
// caller's role: customers see their own orders, delivery crew see orders
// assigned to them, managers see everything.
type OrderHandler struct {
	store   OrderReadStore
	orders  *service.OrderService
	mutator *service.OrderMutator
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(store OrderReadStore, orders *service.OrderService, mutator *service.OrderMutator) *OrderHandler {
	return &OrderHandler{store: store, orders: orders, mutator: mutator}
}

// --- Helpers ---

func (h *OrderHandler) buildView(ctx context.Context, order database.Order) (service.OrderView, error) {
	owner, err := h.store.GetUserByID(ctx, order.UserID)
	if err != nil {
		return service.OrderView{}, err
	}

	var crewUsername *string
	if order.DeliveryCrewID.Valid {
		crew, err := h.store.GetUserByID(ctx, order.DeliveryCrewID.Bytes)
		if err != nil {
			return service.OrderView{}, err
		}
		crewUsername = &crew.Username
	}

	items, err := h.store.ListOrderItemsByOrder(ctx, order.ID)
	if err != nil {
		return service.OrderView{}, err
	}

	return service.BuildOrderView(order, owner.Username, crewUsername, items), nil
}

// canRead reports whether the caller may read the given order.
func canRead(claims *auth.Claims, order database.Order) bool {
	switch claims.Role {
	case enum.RoleManager:
		return true
	case enum.RoleDeliveryCrew:
		return order.DeliveryCrewID.Valid && uuid.UUID(order.DeliveryCrewID.Bytes) == claims.UserID
	default:
		return order.UserID == claims.UserID
	}
}

// --- Handlers ---

// List returns the orders visible to the caller.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	var (
		orders []database.Order
		err    error
	)
	switch claims.Role {
	case enum.RoleManager:
		orders, err = h.store.ListOrders(r.Context())
	case enum.RoleDeliveryCrew:
		orders, err = h.store.ListOrdersByCrew(r.Context(), claims.UserID)
	default:
		orders, err = h.store.ListOrdersByUser(r.Context(), claims.UserID)
	}
	if err != nil {
		log.Printf("ERROR: list orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	views := make([]service.OrderView, len(orders))
	for i, o := range orders {
		views[i], err = h.buildView(r.Context(), o)
		if err != nil {
			log.Printf("ERROR: build order view: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
	}

	writeJSON(w, http.StatusOK, views)
}

// Place converts the caller's cart into a new order.
func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	placed, err := h.orders.PlaceOrder(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrEmptyCart) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		log.Printf("ERROR: place order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	view := service.BuildOrderView(placed.Order, claims.Username, nil, placed.Items)
	writeJSON(w, http.StatusCreated, view)
}

// Get returns a single order, subject to the caller's role scope.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	order, err := h.store.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	if !canRead(claims, order) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "insufficient permissions"})
		return
	}

	view, err := h.buildView(r.Context(), order)
	if err != nil {
		log.Printf("ERROR: build order view: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// Update dispatches a partial order update by the caller's role. Managers may
// reassign the delivery crew and change the status; delivery crew may only
// change the status of orders assigned to them.
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	switch claims.Role {
	case enum.RoleManager:
		h.managerUpdate(w, r, orderID)
	case enum.RoleDeliveryCrew:
		h.crewUpdate(w, r, orderID, claims.UserID)
	default:
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "insufficient permissions"})
	}
}

// managerUpdate decodes the manager contract. The raw body is inspected so
// that an explicit "delivery_crew": null (unassign) is distinguishable from
// the key being absent (keep).
func (h *OrderHandler) managerUpdate(w http.ResponseWriter, r *http.Request, orderID uuid.UUID) {
	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	var upd service.ManagerOrderUpdate

	if raw, ok := body["delivery_crew"]; ok {
		upd.SetDeliveryCrew = true
		if string(raw) != "null" {
			var username string
			if err := json.Unmarshal(raw, &username); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "delivery_crew must be a username or null"})
				return
			}
			upd.DeliveryCrewUsername = &username
		}
	}

	if raw, ok := body["status"]; ok {
		var status string
		if err := json.Unmarshal(raw, &status); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "status must be a string"})
			return
		}
		upd.Status = &status
	}

	order, err := h.mutator.ApplyManagerUpdate(r.Context(), orderID, upd)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownStatus), errors.Is(err, service.ErrCrewNotFound):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, service.ErrOrderNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		default:
			log.Printf("ERROR: manager order update: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		}
		return
	}

	view, err := h.buildView(r.Context(), order)
	if err != nil {
		log.Printf("ERROR: build order view: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// crewUpdate decodes the delivery crew contract: status only. Any other key
// in the body is rejected rather than silently ignored.
func (h *OrderHandler) crewUpdate(w http.ResponseWriter, r *http.Request, orderID, crewID uuid.UUID) {
	order, err := h.store.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if !order.DeliveryCrewID.Valid || uuid.UUID(order.DeliveryCrewID.Bytes) != crewID {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "order is not assigned to you"})
		return
	}

	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	for key := range body {
		if key != "status" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "delivery crew may only update status"})
			return
		}
	}

	raw, ok := body["status"]
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "status is required"})
		return
	}
	var status string
	if err := json.Unmarshal(raw, &status); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "status must be a string"})
		return
	}

	updated, err := h.mutator.ApplyCrewUpdate(r.Context(), orderID, service.CrewOrderUpdate{Status: status})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownStatus):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, service.ErrOrderNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		default:
			log.Printf("ERROR: crew order update: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		}
		return
	}

	view, err := h.buildView(r.Context(), updated)
	if err != nil {
		log.Printf("ERROR: build order view: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// Delete removes an order and its items.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	_, err = h.store.DeleteOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: delete order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
