package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/littlelemon/api/internal/database"
	"github.com/shopspring/decimal"
)

// Errors returned by menu validation.
var (
	ErrDuplicateDishName = errors.New("a dish with that name already exists")
	ErrPriceTooLow       = errors.New("price must be at least 2.00")
	ErrPricePrecision    = errors.New("price must have at most 2 decimal places")
	ErrInvalidPrice      = errors.New("invalid price")
	ErrNegativeStock     = errors.New("stock must be >= 0")
)

var minPrice = decimal.NewFromInt(2)

// ValidateDishName checks the candidate against all existing dish names,
// case-insensitively. The record identified by exclude is skipped so an
// update may keep (or re-case) its own name. Pure: callers supply the name
// set, typically from Queries.ListDishNames.
func ValidateDishName(candidate string, existing []database.DishName, exclude uuid.UUID) error {
	for _, n := range existing {
		if n.ID == exclude {
			continue
		}
		if strings.EqualFold(n.Name, candidate) {
			return ErrDuplicateDishName
		}
	}
	return nil
}

// ParsePrice parses a menu price and enforces the field constraints:
// at least 2.00, at most 2 fractional digits.
func ParsePrice(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidPrice
	}
	if d.Exponent() < -2 {
		return decimal.Zero, ErrPricePrecision
	}
	if d.LessThan(minPrice) {
		return decimal.Zero, ErrPriceTooLow
	}
	return d, nil
}
