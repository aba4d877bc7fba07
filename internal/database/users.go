package database

import (
	"context"

	"github.com/google/uuid"
)

const userColumns = `id, username, email, hashed_password, role, is_active, created_at`

func scanUser(row interface{ Scan(dest ...interface{}) error }) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.HashedPassword, &u.Role, &u.IsActive, &u.CreatedAt)
	return u, err
}

type CreateUserParams struct {
	Username       string
	Email          string
	HashedPassword string
	Role           string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO users (username, email, hashed_password, role)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		arg.Username, arg.Email, arg.HashedPassword, arg.Role)
	return scanUser(row)
}

func (q *Queries) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	row := q.db.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE id = $1 AND is_active`, id)
	return scanUser(row)
}

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (User, error) {
	row := q.db.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE username = $1 AND is_active`, username)
	return scanUser(row)
}
