package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"bizbilling-backend/config"
	"bizbilling-backend/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testIssuer() config.Issuer {
	return config.Issuer{
		Name:    "Vishubh BizBilling",
		Address: "40 Feet road, Pune, Maharashtra 411001",
		Phone:   "+91 9890691272",
		GSTIN:   "08AALCR2857A1ZD",
		PAN:     "AVHPC9999A",
	}
}

func testInvoice() *models.Invoice {
	apple := models.Product{
		Id: "prod-1", Name: "Apple normal", Category: "Fruits", Unit: models.UnitKG,
		PricePerUnit: dec("100.00"), TaxPercentage: dec("5.00"), IsActive: true,
	}
	orange := models.Product{
		Id: "prod-2", Name: "Orange", Category: "Fruits", Unit: models.UnitKG,
		PricePerUnit: dec("40.00"), TaxPercentage: dec("5.00"), IsActive: true,
	}

	appleItem, _ := models.NewInvoiceItem(&apple, dec("5.00"))
	appleItem.Product = apple
	orangeItem, _ := models.NewInvoiceItem(&orange, dec("10.00"))
	orangeItem.Product = orange

	invoice := &models.Invoice{
		InvoiceNumber: "S01",
		InvoiceDate:   datatypes.Date(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)),
		Customer: models.Customer{
			Name: "Sampath Singh", Phone: "+91 9981028177",
			Address: "04, KK Buildings, Ajmeri Gate", City: "Jodhpur",
			State: "Rajasthan", Pincode: "304582",
			PanNumber: "BBHPC9999A", Gstin: "08HULMP2839A1AB", PlaceOfSupply: "Rajasthan",
		},
		Items:          []models.InvoiceItem{appleItem, orangeItem},
		Discount:       dec("100.00"),
		ReceivedAmount: dec("500.00"),
	}
	invoice.CalculateTotals()
	return invoice
}

func TestRenderProducesPDF(t *testing.T) {
	r := NewRenderer(testIssuer())
	out, err := r.Render(testInvoice())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")), "output is not a PDF")
	assert.Greater(t, len(out), 1000)
}

func TestRenderIsDeterministic(t *testing.T) {
	r := NewRenderer(testIssuer())
	invoice := testInvoice()

	first, err := r.Render(invoice)
	require.NoError(t, err)
	second, err := r.Render(invoice)
	require.NoError(t, err)

	assert.True(t, bytes.Equal(first, second), "two renders of the same invoice differ")
}

func TestRenderVariesWithData(t *testing.T) {
	r := NewRenderer(testIssuer())
	a := testInvoice()
	b := testInvoice()
	b.InvoiceNumber = "S02"

	outA, err := r.Render(a)
	require.NoError(t, err)
	outB, err := r.Render(b)
	require.NoError(t, err)

	assert.False(t, bytes.Equal(outA, outB), "different invoices rendered identically")
}

func TestRenderHandlesEmptyNotes(t *testing.T) {
	r := NewRenderer(testIssuer())
	invoice := testInvoice()
	invoice.Notes = ""

	out, err := r.Render(invoice)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
