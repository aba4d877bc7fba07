package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/littlelemon/api/internal/database"
	"github.com/littlelemon/api/internal/middleware"
)

// RatingStore defines the database methods needed by rating handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type RatingStore interface {
	CreateRating(ctx context.Context, arg database.CreateRatingParams) (database.Rating, error)
	ListRatingsByMenuItem(ctx context.Context, menuItemID uuid.UUID) ([]database.Rating, error)
}

// RatingHandler handles menu item rating endpoints.
type RatingHandler struct {
	store RatingStore
}

// NewRatingHandler creates a new RatingHandler.
func NewRatingHandler(store RatingStore) *RatingHandler {
	return &RatingHandler{store: store}
}

// --- Request / Response types ---

type ratingRequest struct {
	MenuItemID string  `json:"menu_item"`
	Score      *int32  `json:"score"`
	Comment    *string `json:"comment"`
}

type ratingResponse struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user"`
	MenuItemID uuid.UUID `json:"menu_item"`
	Score      int32     `json:"score"`
	Comment    *string   `json:"comment"`
}

func toRatingResponse(rt database.Rating) ratingResponse {
	resp := ratingResponse{
		ID:         rt.ID,
		UserID:     rt.UserID,
		MenuItemID: rt.MenuItemID,
		Score:      rt.Score,
	}
	if rt.Comment.Valid {
		resp.Comment = &rt.Comment.String
	}
	return resp
}

// --- Handlers ---

// List returns ratings for the menu item given in the menu_item query param.
func (h *RatingHandler) List(w http.ResponseWriter, r *http.Request) {
	menuItemID, err := uuid.Parse(r.URL.Query().Get("menu_item"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "menu_item query parameter is required"})
		return
	}

	ratings, err := h.store.ListRatingsByMenuItem(r.Context(), menuItemID)
	if err != nil {
		log.Printf("ERROR: list ratings: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]ratingResponse, len(ratings))
	for i, rt := range ratings {
		resp[i] = toRatingResponse(rt)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Create records the caller's rating of a menu item. The rating user is
// always the authenticated caller; at most one rating per user per item.
func (h *RatingHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	var req ratingRequest
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

	if req.Score == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "score is required"})
		return
	}
	if *req.Score < 0 || *req.Score > 5 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "score must be between 0 and 5"})
		return
	}

	comment := pgtype.Text{}
	if req.Comment != nil {
		comment = pgtype.Text{String: *req.Comment, Valid: true}
	}

	rating, err := h.store.CreateRating(r.Context(), database.CreateRatingParams{
		UserID:     claims.UserID,
		MenuItemID: menuItemID,
		Score:      *req.Score,
		Comment:    comment,
	})
	if err != nil {
		if isUniqueViolation(err) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "You have already rated this menu item."})
			return
		}
		if isForeignKeyViolation(err) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "menu item not found"})
			return
		}
		log.Printf("ERROR: create rating: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toRatingResponse(rating))
}
