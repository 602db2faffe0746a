package models

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"bizbilling-backend/pricing"
	"bizbilling-backend/utils"
)

// Invoice is a commercial document with stored (not live-derived) totals.
// CalculateTotals must be re-run after any change to items, discount, or
// received amount; the four derived fields are never hand-edited.
type Invoice struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	InvoiceNumber string         `json:"invoice_number" gorm:"unique;not null"`
	CustomerID    uint           `json:"-"`
	Customer      Customer       `json:"customer" gorm:"foreignKey:CustomerID;references:Id"`
	InvoiceDate   datatypes.Date `json:"invoice_date"`

	Items []InvoiceItem `json:"items" gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`

	// Derived totals, recomputed by CalculateTotals.
	Subtotal       decimal.Decimal `json:"subtotal" gorm:"type:numeric(10,2)"`
	TotalTax       decimal.Decimal `json:"total_tax" gorm:"type:numeric(10,2)"`
	Discount       decimal.Decimal `json:"discount" gorm:"type:numeric(10,2)"`
	GrandTotal     decimal.Decimal `json:"grand_total" gorm:"type:numeric(10,2)"`
	ReceivedAmount decimal.Decimal `json:"received_amount" gorm:"type:numeric(10,2)"`
	DueBalance     decimal.Decimal `json:"due_balance" gorm:"type:numeric(10,2)"`

	Notes           string `json:"notes"`
	TermsConditions string `json:"terms_conditions"`

	// Dispatch status, set only on confirmed transport success.
	EmailSent      bool       `json:"email_sent"`
	EmailSentAt    *time.Time `json:"email_sent_at"`
	WhatsappSent   bool       `json:"whatsapp_sent"`
	WhatsappSentAt *time.Time `json:"whatsapp_sent_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InvoiceItem is one purchased quantity of a product. PricePerUnit and
// TaxPercentage are snapshotted from the product at creation time and never
// re-read; corrections require deleting and re-adding the item.
type InvoiceItem struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	InvoiceID uint    `json:"-" gorm:"index"`
	ProductID string  `json:"product_id" gorm:"not null;index"`
	Product   Product `json:"product" gorm:"foreignKey:ProductID;references:Id;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`

	Quantity      decimal.Decimal `json:"quantity" gorm:"type:numeric(10,2)"`
	PricePerUnit  decimal.Decimal `json:"price_per_unit" gorm:"type:numeric(10,2)"`
	TaxPercentage decimal.Decimal `json:"tax_percentage" gorm:"type:numeric(5,2)"`
	TaxAmount     decimal.Decimal `json:"tax_amount" gorm:"type:numeric(10,2)"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:numeric(10,2)"`
}

// NewInvoiceItem snapshots the product's current price and tax rate onto a
// new item and computes its amounts. The snapshot is fixed here; the catalog
// is not consulted again for this item.
func NewInvoiceItem(product *Product, quantity decimal.Decimal) (InvoiceItem, error) {
	amounts, err := pricing.Compute(product.PricePerUnit, product.TaxPercentage, quantity)
	if err != nil {
		return InvoiceItem{}, err
	}
	return InvoiceItem{
		ProductID:     product.Id,
		Quantity:      quantity,
		PricePerUnit:  product.PricePerUnit,
		TaxPercentage: product.TaxPercentage,
		TaxAmount:     utils.Round2(amounts.Tax),
		Amount:        utils.Round2(amounts.Total),
	}, nil
}

// BaseAmount is the item's untaxed amount, derived from the snapshot.
func (item *InvoiceItem) BaseAmount() decimal.Decimal {
	return pricing.BaseAmount(item.PricePerUnit, item.Quantity)
}

// TaxPerUnit is the tax share of a single unit, shown on documents.
// Quantity is validated > 0 at creation; the zero guard keeps a future bulk
// edit from panicking the renderer.
func (item *InvoiceItem) TaxPerUnit() decimal.Decimal {
	if item.Quantity.IsZero() {
		return item.TaxAmount
	}
	return item.TaxAmount.Div(item.Quantity)
}

// CalculateTotals recomputes the stored aggregates from the loaded items:
//
//	subtotal    = sum(base amounts)
//	total_tax   = sum(tax amounts)
//	grand_total = subtotal + total_tax - discount
//	due_balance = grand_total - received_amount
//
// With zero items the grand total collapses to -discount. Idempotent for
// unchanged items.
func (invoice *Invoice) CalculateTotals() {
	subtotal := decimal.Zero
	totalTax := decimal.Zero
	for i := range invoice.Items {
		subtotal = subtotal.Add(invoice.Items[i].BaseAmount())
		totalTax = totalTax.Add(invoice.Items[i].TaxAmount)
	}
	invoice.Subtotal = utils.Round2(subtotal)
	invoice.TotalTax = utils.Round2(totalTax)
	invoice.GrandTotal = invoice.Subtotal.Add(invoice.TotalTax).Sub(invoice.Discount)
	invoice.DueBalance = invoice.GrandTotal.Sub(invoice.ReceivedAmount)
}

// TotalQuantity sums item quantities for the totals row.
func (invoice *Invoice) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for i := range invoice.Items {
		total = total.Add(invoice.Items[i].Quantity)
	}
	return total
}

// FormattedDate renders the issue date the way documents and mail show it.
func (invoice *Invoice) FormattedDate() string {
	return time.Time(invoice.InvoiceDate).Format("02 January 2006")
}

// DocumentFilename is the name under which the rendered PDF is served and
// attached to mail.
func (invoice *Invoice) DocumentFilename() string {
	return "Invoice_" + invoice.InvoiceNumber + ".pdf"
}

var invoiceNumberPattern = regexp.MustCompile(`^S(\d+)$`)

// NextInvoiceNumber derives the human-facing number following last.
// Numbers are "S" + zero-padded integer (min width 2), widening naturally
// past S99. A missing or non-matching last number restarts the sequence at
// S01. Uniqueness under concurrent creation is enforced by the database
// constraint; callers retry on a duplicate-key error.
func NextInvoiceNumber(last string) string {
	m := invoiceNumberPattern.FindStringSubmatch(last)
	if m == nil {
		return "S01"
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return "S01"
	}
	return fmt.Sprintf("S%02d", n+1)
}
