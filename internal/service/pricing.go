package service

import (
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// TaxRate is the flat tax applied to menu prices for display.
var TaxRate = decimal.NewFromFloat(0.10)

// PriceAfterTax returns base + base*TaxRate rounded to cents.
// decimal.Round rounds half away from zero, which is round-half-up for
// non-negative money amounts.
func PriceAfterTax(base decimal.Decimal) decimal.Decimal {
	return base.Add(base.Mul(TaxRate)).Round(2)
}

// LineTotal returns unit * qty with exact decimal arithmetic.
func LineTotal(unit decimal.Decimal, qty int32) decimal.Decimal {
	return unit.Mul(decimal.NewFromInt32(qty))
}

// NumericToDecimal converts a pgtype.Numeric to a decimal, treating any
// invalid or unreadable value as zero.
func NumericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// DecimalToNumeric converts a decimal to pgtype.Numeric at cent precision.
func DecimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}
