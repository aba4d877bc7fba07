package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/littlelemon/api/internal/database"
)

func TestValidateDishName_NoConflict(t *testing.T) {
	existing := []database.DishName{
		{ID: uuid.New(), Name: "Greek Salad"},
		{ID: uuid.New(), Name: "Bruschetta"},
	}
	if err := ValidateDishName("Lemon Cake", existing, uuid.Nil); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateDishName_ExactDuplicate(t *testing.T) {
	existing := []database.DishName{{ID: uuid.New(), Name: "Greek Salad"}}
	err := ValidateDishName("Greek Salad", existing, uuid.Nil)
	if !errors.Is(err, ErrDuplicateDishName) {
		t.Errorf("expected ErrDuplicateDishName, got: %v", err)
	}
}

func TestValidateDishName_CaseInsensitive(t *testing.T) {
	existing := []database.DishName{{ID: uuid.New(), Name: "Greek Salad"}}
	err := ValidateDishName("GREEK SALAD", existing, uuid.Nil)
	if !errors.Is(err, ErrDuplicateDishName) {
		t.Errorf("expected ErrDuplicateDishName for case-only difference, got: %v", err)
	}
}

func TestValidateDishName_ExcludesSelf(t *testing.T) {
	selfID := uuid.New()
	existing := []database.DishName{{ID: selfID, Name: "Greek Salad"}}

	// An update may keep or re-case its own name.
	if err := ValidateDishName("greek salad", existing, selfID); err != nil {
		t.Errorf("unexpected error when excluding self: %v", err)
	}
}

func TestValidateDishName_ExcludeDoesNotSkipOthers(t *testing.T) {
	selfID := uuid.New()
	existing := []database.DishName{
		{ID: selfID, Name: "Greek Salad"},
		{ID: uuid.New(), Name: "Lemon Cake"},
	}
	err := ValidateDishName("Lemon Cake", existing, selfID)
	if !errors.Is(err, ErrDuplicateDishName) {
		t.Errorf("expected ErrDuplicateDishName, got: %v", err)
	}
}

func TestParsePrice(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"valid", "14.50", nil},
		{"minimum", "2.00", nil},
		{"integer", "5", nil},
		{"one decimal", "2.5", nil},
		{"below minimum", "1.99", ErrPriceTooLow},
		{"zero", "0", ErrPriceTooLow},
		{"negative", "-3.00", ErrPriceTooLow},
		{"three decimals", "2.999", ErrPricePrecision},
		{"not a number", "abc", ErrInvalidPrice},
		{"empty", "", ErrInvalidPrice},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParsePrice(tc.input)
			if tc.wantErr == nil {
				if err != nil {
					t.Errorf("ParsePrice(%q): unexpected error: %v", tc.input, err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("ParsePrice(%q): got %v, want %v", tc.input, err, tc.wantErr)
			}
		})
	}
}
