package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const ratingColumns = `id, user_id, menu_item_id, score, comment, created_at`

func scanRating(row interface{ Scan(dest ...interface{}) error }) (Rating, error) {
	var r Rating
	err := row.Scan(&r.ID, &r.UserID, &r.MenuItemID, &r.Score, &r.Comment, &r.CreatedAt)
	return r, err
}

type CreateRatingParams struct {
	UserID     uuid.UUID
	MenuItemID uuid.UUID
	Score      int32
	Comment    pgtype.Text
}

// CreateRating relies on the UNIQUE(user_id, menu_item_id) constraint to
// enforce at most one rating per user per item; violations surface as
// pgconn errors with code 23505.
func (q *Queries) CreateRating(ctx context.Context, arg CreateRatingParams) (Rating, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO ratings (user_id, menu_item_id, score, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING `+ratingColumns,
		arg.UserID, arg.MenuItemID, arg.Score, arg.Comment)
	return scanRating(row)
}

func (q *Queries) ListRatingsByMenuItem(ctx context.Context, menuItemID uuid.UUID) ([]Rating, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+ratingColumns+` FROM ratings
		WHERE menu_item_id = $1
		ORDER BY created_at DESC`, menuItemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []Rating
	for rows.Next() {
		r, err := scanRating(rows)
		if err != nil {
			return nil, err
		}
		ratings = append(ratings, r)
	}
	return ratings, rows.Err()
}
