// Package pdf lays invoices out as fixed-layout A4 documents. Rendering is a
// single deterministic pass over already-committed invoice data: the same
// invoice always yields byte-identical output, so archived copies are
// reproducible and tests can compare raw bytes.
package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"bizbilling-backend/config"
	"bizbilling-backend/models"
	"bizbilling-backend/utils"
)

const (
	defaultNotes = "1. No return deal"
	termsText    = "1. Customer will pay the GST\n2. Customer will pay the Delivery charges\n3. Pay due amount within 15 days"

	pageWidth  = 190.0 // A4 portrait minus 10mm margins
	rowHeight  = 7.0
	cellHeight = 5.0
)

// Item table column widths, left to right:
// Sr. No., Items, Quantity, Price/Unit, Tax/Unit, Amount.
var colWidths = [6]float64{12, 62, 26, 28, 36, 26}

type Renderer struct {
	issuer config.Issuer
}

func NewRenderer(issuer config.Issuer) *Renderer {
	return &Renderer{issuer: issuer}
}

// Render produces the printable invoice document. The invoice must have
// Customer and Items (with Product) loaded.
func (r *Renderer) Render(invoice *models.Invoice) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	// Fixed metadata timestamp; the real one would make output bytes vary
	// between runs.
	doc.SetCreationDate(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC))
	doc.SetTitle("Invoice "+invoice.InvoiceNumber, false)
	doc.SetAutoPageBreak(true, 12)
	doc.AddPage()

	r.header(doc)
	r.partiesBlock(doc, invoice)
	r.itemsTable(doc, invoice)
	r.footerBlock(doc, invoice)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", invoice.InvoiceNumber, err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) header(doc *gofpdf.Fpdf) {
	doc.SetFont("Helvetica", "B", 14)
	doc.SetTextColor(0, 0, 0)
	doc.CellFormat(pageWidth, 8, "TAX INVOICE", "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "B", 16)
	doc.SetTextColor(0, 217, 165)
	doc.CellFormat(pageWidth, 8, r.issuer.Name, "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "", 10)
	doc.SetTextColor(0, 0, 0)
	doc.CellFormat(pageWidth, cellHeight, r.issuer.Address, "", 1, "C", false, 0, "")
	contact := fmt.Sprintf("Phone: %s   GSTIN: %s   PAN Number: %s",
		r.issuer.Phone, r.issuer.GSTIN, r.issuer.PAN)
	doc.CellFormat(pageWidth, cellHeight, contact, "", 1, "C", false, 0, "")
	doc.Ln(6)
}

func (r *Renderer) partiesBlock(doc *gofpdf.Fpdf, invoice *models.Invoice) {
	customer := &invoice.Customer
	billTo := fmt.Sprintf("BILL TO\n%s\n%s\nPhone: %s\nPAN Number: %s\nGSTIN: %s\nPlace of Supply: %s",
		customer.Name, customer.FullAddress(), customer.Phone,
		customer.PanNumber, customer.Gstin, customer.PlaceOfSupply)
	meta := fmt.Sprintf("Invoice No\n%s\n\nInvoice Date\n%s",
		invoice.InvoiceNumber, invoice.FormattedDate())

	left := doc.GetX()
	top := doc.GetY()
	doc.SetFont("Helvetica", "", 10)
	doc.MultiCell(120, cellHeight, billTo, "1", "L", false)
	bottom := doc.GetY()

	doc.SetXY(left+120, top)
	doc.MultiCell(70, cellHeight, meta, "1", "L", false)
	if doc.GetY() > bottom {
		bottom = doc.GetY()
	}
	doc.SetXY(left, bottom)
	doc.Ln(5)
}

func (r *Renderer) itemsTable(doc *gofpdf.Fpdf, invoice *models.Invoice) {
	doc.SetFont("Helvetica", "B", 10)
	doc.SetFillColor(0, 217, 165)
	doc.SetTextColor(255, 255, 255)
	headers := [6]string{"Sr. No.", "Items", "Quantity", "Price/Unit", "Tax/Unit", "Amount"}
	for i, h := range headers {
		last := i == len(headers)-1
		ln := 0
		if last {
			ln = 1
		}
		doc.CellFormat(colWidths[i], rowHeight, h, "1", ln, "C", true, 0, "")
	}

	doc.SetFont("Helvetica", "", 9)
	doc.SetTextColor(0, 0, 0)
	for i := range invoice.Items {
		item := &invoice.Items[i]
		taxPerUnit := fmt.Sprintf("%s (%s%%)",
			utils.Money(utils.Round2(item.TaxPerUnit())), item.TaxPercentage.StringFixed(2))
		row := [6]string{
			fmt.Sprintf("%d", i+1),
			item.Product.Name,
			item.Quantity.StringFixed(2) + " " + item.Product.Unit,
			utils.Money(item.PricePerUnit),
			taxPerUnit,
			utils.Money(item.Amount),
		}
		r.tableRow(doc, row, false)
	}

	// Discount row, highlighted totals row, then payment rollup rows.
	r.tableRow(doc, [6]string{"", "", "", "", "Discount", utils.Money(invoice.Discount)}, false)

	doc.SetFont("Helvetica", "B", 9)
	doc.SetTextColor(255, 255, 255)
	r.tableRow(doc, [6]string{
		"", "Total", invoice.TotalQuantity().StringFixed(0), "",
		utils.Money(invoice.TotalTax), utils.Money(invoice.GrandTotal),
	}, true)

	doc.SetFont("Helvetica", "", 9)
	doc.SetTextColor(0, 0, 0)
	r.tableRow(doc, [6]string{"", "", "Received Amount", "", "", utils.Money(invoice.ReceivedAmount)}, false)
	r.tableRow(doc, [6]string{"", "", "Due Balance", "", "", utils.Money(invoice.DueBalance)}, false)
	doc.Ln(6)
}

func (r *Renderer) tableRow(doc *gofpdf.Fpdf, cells [6]string, fill bool) {
	for i, cell := range cells {
		ln := 0
		if i == len(cells)-1 {
			ln = 1
		}
		doc.CellFormat(colWidths[i], rowHeight, cell, "1", ln, "C", fill, 0, "")
	}
}

func (r *Renderer) footerBlock(doc *gofpdf.Fpdf, invoice *models.Invoice) {
	notes := invoice.Notes
	if notes == "" {
		notes = defaultNotes
	}

	left := doc.GetX()
	top := doc.GetY()
	doc.SetFont("Helvetica", "", 9)
	doc.MultiCell(60, cellHeight, "Notes\n"+notes, "1", "L", false)
	bottom := doc.GetY()

	doc.SetXY(left+60, top)
	doc.MultiCell(70, cellHeight, "Terms & Conditions\n"+termsText, "1", "L", false)
	if doc.GetY() > bottom {
		bottom = doc.GetY()
	}

	doc.SetXY(left+130, top)
	doc.MultiCell(60, cellHeight, "Authorised Signatory For\n"+r.issuer.Name, "1", "L", false)
	if doc.GetY() > bottom {
		bottom = doc.GetY()
	}
	doc.SetXY(left, bottom)
}
