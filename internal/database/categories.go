package database

import (
	"context"

	"github.com/google/uuid"
)

const categoryColumns = `id, slug, title, created_at`

func scanCategory(row interface{ Scan(dest ...interface{}) error }) (Category, error) {
	var c Category
	err := row.Scan(&c.ID, &c.Slug, &c.Title, &c.CreatedAt)
	return c, err
}

func (q *Queries) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+categoryColumns+` FROM categories
		ORDER BY title ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (q *Queries) GetCategory(ctx context.Context, id uuid.UUID) (Category, error) {
	row := q.db.QueryRow(ctx, `
		SELECT `+categoryColumns+` FROM categories
		WHERE id = $1`, id)
	return scanCategory(row)
}

type CreateCategoryParams struct {
	Slug  string
	Title string
}

func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (Category, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO categories (slug, title)
		VALUES ($1, $2)
		RETURNING `+categoryColumns,
		arg.Slug, arg.Title)
	return scanCategory(row)
}

type UpdateCategoryParams struct {
	ID    uuid.UUID
	Slug  string
	Title string
}

func (q *Queries) UpdateCategory(ctx context.Context, arg UpdateCategoryParams) (Category, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE categories SET slug = $2, title = $3
		WHERE id = $1
		RETURNING `+categoryColumns,
		arg.ID, arg.Slug, arg.Title)
	return scanCategory(row)
}

func (q *Queries) DeleteCategory(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, `
		DELETE FROM categories WHERE id = $1
		RETURNING id`, id)
	var deleted uuid.UUID
	err := row.Scan(&deleted)
	return deleted, err
}
