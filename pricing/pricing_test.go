package pricing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeKnownAmounts(t *testing.T) {
	amounts, err := Compute(dec("100.00"), dec("5.00"), dec("5.00"))
	require.NoError(t, err)
	assert.True(t, amounts.Base.Equal(dec("500.00")), "base = %s", amounts.Base)
	assert.True(t, amounts.Tax.Equal(dec("25.00")), "tax = %s", amounts.Tax)
	assert.True(t, amounts.Total.Equal(dec("525.00")), "total = %s", amounts.Total)
}

func TestLineTotalIsBasePlusTax(t *testing.T) {
	cases := []struct{ price, rate, qty string }{
		{"100.00", "5.00", "5.00"},
		{"40.00", "5.00", "10.00"},
		{"33.33", "18.00", "3.00"},
		{"0.01", "0.00", "0.01"},
		{"999.99", "28.00", "7.25"},
	}
	for _, tc := range cases {
		base := BaseAmount(dec(tc.price), dec(tc.qty))
		tax := TaxAmount(dec(tc.price), dec(tc.rate), dec(tc.qty))
		total := LineTotal(dec(tc.price), dec(tc.rate), dec(tc.qty))
		assert.True(t, total.Equal(base.Add(tax)),
			"price=%s rate=%s qty=%s: total %s != base %s + tax %s",
			tc.price, tc.rate, tc.qty, total, base, tax)
		assert.True(t, tax.Equal(base.Mul(dec(tc.rate)).Div(dec("100"))),
			"tax formula violated for price=%s rate=%s qty=%s", tc.price, tc.rate, tc.qty)
	}
}

func TestValidateRejectsBadInputs(t *testing.T) {
	cases := []struct {
		name             string
		price, rate, qty string
		wantField        string
	}{
		{"zero price", "0.00", "5.00", "1.00", "price_per_unit"},
		{"negative price", "-1.00", "5.00", "1.00", "price_per_unit"},
		{"negative tax", "10.00", "-0.01", "1.00", "tax_percentage"},
		{"zero quantity", "10.00", "5.00", "0.00", "quantity"},
		{"negative quantity", "10.00", "5.00", "-2.00", "quantity"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compute(dec(tc.price), dec(tc.rate), dec(tc.qty))
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
			assert.Equal(t, tc.wantField, ve.Field)
		})
	}
}

func TestZeroTaxRateIsAllowed(t *testing.T) {
	amounts, err := Compute(dec("50.00"), dec("0.00"), dec("2.00"))
	require.NoError(t, err)
	assert.True(t, amounts.Tax.IsZero())
	assert.True(t, amounts.Total.Equal(dec("100.00")))
}

func TestComputeLeavesResultsUnrounded(t *testing.T) {
	// 33.33 * 3 = 99.99; 18% of that is 17.9982. Rounding is the caller's
	// job, at persistence time.
	amounts, err := Compute(dec("33.33"), dec("18.00"), dec("3.00"))
	require.NoError(t, err)
	assert.True(t, amounts.Tax.Equal(dec("17.9982")), "tax = %s", amounts.Tax)
}
