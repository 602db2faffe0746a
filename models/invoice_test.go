package models

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"bizbilling-backend/pricing"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testProduct(price, tax string) Product {
	return Product{
		Id:            "prod-1",
		Name:          "Apple normal",
		Category:      "Fruits",
		Unit:          UnitKG,
		PricePerUnit:  dec(price),
		TaxPercentage: dec(tax),
		IsActive:      true,
	}
}

func TestNewInvoiceItemSnapshotsPricing(t *testing.T) {
	product := testProduct("100.00", "5.00")
	item, err := NewInvoiceItem(&product, dec("5.00"))
	require.NoError(t, err)

	assert.True(t, item.PricePerUnit.Equal(dec("100.00")))
	assert.True(t, item.TaxPercentage.Equal(dec("5.00")))
	assert.True(t, item.BaseAmount().Equal(dec("500.00")))
	assert.True(t, item.TaxAmount.Equal(dec("25.00")))
	assert.True(t, item.Amount.Equal(dec("525.00")))
}

func TestSnapshotSurvivesCatalogEdits(t *testing.T) {
	product := testProduct("100.00", "5.00")
	item, err := NewInvoiceItem(&product, dec("5.00"))
	require.NoError(t, err)

	// A later catalog edit must not reach already-created lines.
	product.PricePerUnit = dec("250.00")
	product.TaxPercentage = dec("18.00")

	assert.True(t, item.PricePerUnit.Equal(dec("100.00")))
	assert.True(t, item.TaxAmount.Equal(dec("25.00")))
	assert.True(t, item.Amount.Equal(dec("525.00")))
}

func TestNewInvoiceItemRejectsBadQuantity(t *testing.T) {
	product := testProduct("100.00", "5.00")
	_, err := NewInvoiceItem(&product, dec("0.00"))
	var ve *pricing.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "quantity", ve.Field)
}

func TestCalculateTotals(t *testing.T) {
	apple := testProduct("100.00", "5.00")
	orange := testProduct("40.00", "5.00")
	orange.Id = "prod-2"
	orange.Name = "Orange"

	var items []InvoiceItem
	for _, line := range []struct {
		product *Product
		qty     string
	}{
		{&apple, "5.00"},
		{&apple, "5.00"},
		{&orange, "10.00"},
	} {
		item, err := NewInvoiceItem(line.product, dec(line.qty))
		require.NoError(t, err)
		items = append(items, item)
	}

	invoice := Invoice{
		Items:          items,
		Discount:       dec("100.00"),
		ReceivedAmount: dec("500.00"),
	}
	invoice.CalculateTotals()

	assert.True(t, invoice.Subtotal.Equal(dec("1400.00")), "subtotal = %s", invoice.Subtotal)
	assert.True(t, invoice.TotalTax.Equal(dec("70.00")), "total_tax = %s", invoice.TotalTax)
	assert.True(t, invoice.GrandTotal.Equal(invoice.Subtotal.Add(invoice.TotalTax).Sub(invoice.Discount)))
	assert.True(t, invoice.GrandTotal.Equal(dec("1370.00")), "grand_total = %s", invoice.GrandTotal)
	assert.True(t, invoice.DueBalance.Equal(dec("870.00")), "due_balance = %s", invoice.DueBalance)
	assert.True(t, invoice.TotalQuantity().Equal(dec("20.00")))
}

func TestCalculateTotalsIsIdempotent(t *testing.T) {
	product := testProduct("42.00", "5.00")
	item, err := NewInvoiceItem(&product, dec("10.00"))
	require.NoError(t, err)

	invoice := Invoice{
		Items:          []InvoiceItem{item},
		Discount:       dec("10.00"),
		ReceivedAmount: dec("100.00"),
	}
	invoice.CalculateTotals()
	first := invoice

	invoice.CalculateTotals()
	assert.True(t, invoice.Subtotal.Equal(first.Subtotal))
	assert.True(t, invoice.TotalTax.Equal(first.TotalTax))
	assert.True(t, invoice.GrandTotal.Equal(first.GrandTotal))
	assert.True(t, invoice.DueBalance.Equal(first.DueBalance))
}

func TestCalculateTotalsWithNoItems(t *testing.T) {
	invoice := Invoice{Discount: dec("100.00")}
	invoice.CalculateTotals()

	assert.True(t, invoice.Subtotal.IsZero())
	assert.True(t, invoice.TotalTax.IsZero())
	assert.True(t, invoice.GrandTotal.Equal(dec("-100.00")), "grand_total = %s", invoice.GrandTotal)
	assert.True(t, invoice.DueBalance.Equal(dec("-100.00")))
}

func TestTaxPerUnit(t *testing.T) {
	product := testProduct("100.00", "5.00")
	item, err := NewInvoiceItem(&product, dec("5.00"))
	require.NoError(t, err)
	assert.True(t, item.TaxPerUnit().Equal(dec("5.00")))

	// Guard: a zero-quantity line (impossible via creation) must not divide.
	item.Quantity = decimal.Zero
	assert.True(t, item.TaxPerUnit().Equal(item.TaxAmount))
}

func TestNextInvoiceNumber(t *testing.T) {
	cases := []struct {
		last string
		want string
	}{
		{"", "S01"},
		{"S01", "S02"},
		{"S09", "S10"},
		{"S10", "S11"},
		{"S99", "S100"},
		{"S100", "S101"},
		{"S999", "S1000"},
		{"INV-7", "S01"},
		{"S", "S01"},
		{"Sabc", "S01"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NextInvoiceNumber(tc.last), "last=%q", tc.last)
	}
}

func TestFormattedDateAndFilename(t *testing.T) {
	invoice := Invoice{
		InvoiceNumber: "S07",
		InvoiceDate:   datatypes.Date(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)),
	}
	assert.Equal(t, "15 January 2024", invoice.FormattedDate())
	assert.Equal(t, "Invoice_S07.pdf", invoice.DocumentFilename())
}
