// Package pricing computes tax-inclusive line amounts for a quantity of a
// priced good. All arithmetic is fixed-point decimal; callers round results
// to 2 decimals when persisting, not here.
package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Amounts is the result of pricing one line.
type Amounts struct {
	Base  decimal.Decimal // price * quantity, before tax
	Tax   decimal.Decimal // base * rate / 100
	Total decimal.Decimal // base + tax
}

// Validate checks the pricing preconditions: pricePerUnit > 0,
// taxPercentage >= 0, quantity > 0.
func Validate(pricePerUnit, taxPercentage, quantity decimal.Decimal) error {
	if !pricePerUnit.IsPositive() {
		return &ValidationError{Field: "price_per_unit", Reason: "must be greater than zero"}
	}
	if taxPercentage.IsNegative() {
		return &ValidationError{Field: "tax_percentage", Reason: "must not be negative"}
	}
	if !quantity.IsPositive() {
		return &ValidationError{Field: "quantity", Reason: "must be greater than zero"}
	}
	return nil
}

// BaseAmount is the untaxed amount for a quantity at a unit price.
func BaseAmount(pricePerUnit, quantity decimal.Decimal) decimal.Decimal {
	return pricePerUnit.Mul(quantity)
}

// TaxAmount is the tax owed on BaseAmount at the given percentage rate.
func TaxAmount(pricePerUnit, taxPercentage, quantity decimal.Decimal) decimal.Decimal {
	return BaseAmount(pricePerUnit, quantity).Mul(taxPercentage).Div(hundred)
}

// LineTotal is the tax-inclusive amount for the line.
func LineTotal(pricePerUnit, taxPercentage, quantity decimal.Decimal) decimal.Decimal {
	return BaseAmount(pricePerUnit, quantity).Add(TaxAmount(pricePerUnit, taxPercentage, quantity))
}

// Compute validates the inputs and returns all three amounts, unrounded.
// On a validation failure no amounts are computed.
func Compute(pricePerUnit, taxPercentage, quantity decimal.Decimal) (Amounts, error) {
	if err := Validate(pricePerUnit, taxPercentage, quantity); err != nil {
		return Amounts{}, err
	}
	base := BaseAmount(pricePerUnit, quantity)
	tax := base.Mul(taxPercentage).Div(hundred)
	return Amounts{Base: base, Tax: tax, Total: base.Add(tax)}, nil
}
