package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type User struct {
	ID             uuid.UUID
	Username       string
	Email          string
	HashedPassword string
	Role           string
	IsActive       bool
	CreatedAt      time.Time
}

type Category struct {
	ID        uuid.UUID
	Slug      string
	Title     string
	CreatedAt time.Time
}

type MenuItem struct {
	ID             uuid.UUID
	CategoryID     uuid.UUID
	Name           string
	Price          pgtype.Numeric
	Inventory      int32
	IsItemOfTheDay bool
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Rating struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	MenuItemID uuid.UUID
	Score      int32
	Comment    pgtype.Text
	CreatedAt  time.Time
}

type CartItem struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	MenuItemID uuid.UUID
	Quantity   int32
	UnitPrice  pgtype.Numeric
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Order struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	DeliveryCrewID pgtype.UUID
	Status         string
	Total          pgtype.Numeric
	Date           time.Time
	UpdatedAt      time.Time
}

type OrderItem struct {
	ID         uuid.UUID
	OrderID    uuid.UUID
	MenuItemID uuid.UUID
	Quantity   int32
	UnitPrice  pgtype.Numeric
}
