package controllers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"bizbilling-backend/database"
	"bizbilling-backend/dispatch"
	"bizbilling-backend/middlewares"
	"bizbilling-backend/models"
	"bizbilling-backend/utils"
)

// numberRetries bounds the read-max-then-insert loop when concurrent
// creations collide on the same invoice number.
const numberRetries = 3

type InvoiceItemInput struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
}

type CreateInvoiceInput struct {
	Customer struct {
		Name  string `json:"name" validate:"required"`
		Email string `json:"email" validate:"omitempty,email"`
		Phone string `json:"phone"`
	} `json:"customer"`
	Items           []InvoiceItemInput `json:"items" validate:"required,min=1"`
	Discount        decimal.Decimal    `json:"discount"`
	ReceivedAmount  decimal.Decimal    `json:"received_amount"`
	Notes           string             `json:"notes"`
	TermsConditions string             `json:"terms_conditions"`
}

// CreateInvoice runs the whole pipeline: resolve the customer, snapshot each
// product into an item, allocate the next invoice number, recompute the
// stored totals, and attempt a best-effort email. Everything but the email
// happens in the per-request transaction; a failed dispatch never rolls back
// the invoice.
func CreateInvoice(c *fiber.Ctx) error {
	var input CreateInvoiceInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	db := database.CtxDB(c)

	customer, err := getOrCreateCustomer(db, input.Customer.Name, input.Customer.Email, input.Customer.Phone)
	if err != nil {
		return err
	}

	var items []models.InvoiceItem
	for _, itemInput := range input.Items {
		var product models.Product
		if err := db.First(&product, "id = ?", itemInput.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "product not found: "+itemInput.ProductID)
			}
			return err
		}
		item, err := models.NewInvoiceItem(&product, itemInput.Quantity)
		if err != nil {
			return err
		}
		item.Product = product
		items = append(items, item)
	}

	invoice := models.Invoice{
		CustomerID:      customer.Id,
		InvoiceDate:     datatypes.Date(time.Now()),
		Items:           items,
		Discount:        utils.Round2(input.Discount),
		ReceivedAmount:  utils.Round2(input.ReceivedAmount),
		Notes:           input.Notes,
		TermsConditions: input.TermsConditions,
	}
	invoice.CalculateTotals()

	if err := insertWithNextNumber(gormInvoiceStore{db: db}, &invoice); err != nil {
		return err
	}
	invoice.Customer = *customer

	// Best-effort auto email; the invoice is committed regardless.
	emailSent := false
	if customer.Email != "" {
		emailSent = sendInvoiceEmail(c.Context(), db, &invoice, customer.Email)
	}

	return c.JSON(fiber.Map{
		"success":        true,
		"invoice_id":     invoice.ID,
		"invoice_number": invoice.InvoiceNumber,
		"email_sent":     emailSent,
		"customer_email": customer.Email,
	})
}

// getOrCreateCustomer looks the customer up by email, creating a minimal
// record with placeholder address fields when unknown.
func getOrCreateCustomer(db *gorm.DB, name, email, phone string) (*models.Customer, error) {
	var customer models.Customer
	if email != "" {
		err := db.Where("email = ?", email).First(&customer).Error
		if err == nil {
			return &customer, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	customer = models.Customer{
		Name:          name,
		Email:         email,
		Phone:         phone,
		Address:       "-",
		City:          "-",
		State:         "India",
		Pincode:       "000000",
		PlaceOfSupply: "India",
	}
	if err := db.Create(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// invoiceNumberStore is the slice of transaction behavior the numbering loop
// needs. The gorm implementation is the real one; tests drive the loop with a
// fake.
type invoiceNumberStore interface {
	SavePoint(name string) error
	RollbackTo(name string) error
	LastInvoiceNumber() (string, error)
	Create(invoice *models.Invoice) error
}

type gormInvoiceStore struct {
	db *gorm.DB
}

func (s gormInvoiceStore) SavePoint(name string) error  { return s.db.SavePoint(name).Error }
func (s gormInvoiceStore) RollbackTo(name string) error { return s.db.RollbackTo(name).Error }

// LastInvoiceNumber returns the highest allocated number. Ordering by length
// first keeps S100 above S99 despite lexicographic comparison.
func (s gormInvoiceStore) LastInvoiceNumber() (string, error) {
	var number string
	err := s.db.Model(&models.Invoice{}).
		Where("invoice_number LIKE ?", "S%").
		Order("length(invoice_number) DESC, invoice_number DESC").
		Limit(1).
		Pluck("invoice_number", &number).Error
	return number, err
}

func (s gormInvoiceStore) Create(invoice *models.Invoice) error {
	return s.db.Create(invoice).Error
}

// insertWithNextNumber allocates the next sequential number and inserts the
// invoice, retrying on a duplicate-key collision. Each attempt runs under a
// savepoint: a unique violation aborts the surrounding Postgres transaction,
// so the loop must roll back to a clean state before it can query and insert
// again. The unique constraint on invoice_number is the backstop for
// concurrent writers.
func insertWithNextNumber(store invoiceNumberStore, invoice *models.Invoice) error {
	for attempt := 0; attempt < numberRetries; attempt++ {
		name := fmt.Sprintf("sp_invoice_number_%d", attempt)
		if err := store.SavePoint(name); err != nil {
			return err
		}
		last, err := store.LastInvoiceNumber()
		if err != nil {
			return err
		}
		invoice.InvoiceNumber = models.NextInvoiceNumber(last)
		err = store.Create(invoice)
		if err == nil {
			return nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if rbErr := store.RollbackTo(name); rbErr != nil {
				return rbErr
			}
			log.Warn().Str("invoice_number", invoice.InvoiceNumber).Msg("invoice number collision, retrying")
			continue
		}
		return err
	}
	return fiber.NewError(fiber.StatusConflict, "could not allocate a unique invoice number")
}

// GetInvoices lists invoices, optionally filtered by number, customer name,
// or phone.
func GetInvoices(c *fiber.Ctx) error {
	db := database.CtxDB(c)
	query := db.Model(&models.Invoice{}).
		Preload("Customer").
		Order("created_at DESC")

	if q := c.Query("q"); q != "" {
		pattern := "%" + q + "%"
		query = query.
			Joins("JOIN customers ON customers.id = invoices.customer_id").
			Where("invoices.invoice_number ILIKE ? OR customers.name ILIKE ? OR customers.phone ILIKE ?",
				pattern, pattern, pattern)
	}

	var invoices []models.Invoice
	if err := query.Find(&invoices).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"invoices": invoices,
		"message":  "success",
	})
}

func GetInvoice(c *fiber.Ctx) error {
	invoice, err := loadInvoice(database.CtxDB(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(invoice)
}

// InvoicePDF renders and serves the printable document.
func InvoicePDF(c *fiber.Ctx) error {
	invoice, err := loadInvoice(database.CtxDB(c), c.Params("id"))
	if err != nil {
		return err
	}
	document, err := renderer.Render(invoice)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+invoice.DocumentFilename()+`"`)
	return c.Send(document)
}

// SendInvoiceEmail dispatches the invoice to an explicit address, or the
// customer's stored one. Transport failure is reported, never raised.
func SendInvoiceEmail(c *fiber.Ctx) error {
	var data map[string]string
	_ = c.BodyParser(&data)

	db := database.CtxDB(c)
	invoice, err := loadInvoice(db, c.Params("id"))
	if err != nil {
		return err
	}

	to := data["email"]
	if to == "" {
		to = invoice.Customer.Email
	}
	if to == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email address is required")
	}

	if !sendInvoiceEmail(c.Context(), db, invoice, to) {
		return c.JSON(fiber.Map{
			"success": false,
			"error":   "Failed to send email. Please check email configuration.",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Invoice sent successfully to " + to + "!",
	})
}

// SendInvoiceWhatsApp dispatches the text-only summary. The document is
// regenerated to confirm the invoice renders, but the channel carries no
// attachment.
func SendInvoiceWhatsApp(c *fiber.Ctx) error {
	db := database.CtxDB(c)
	invoice, err := loadInvoice(db, c.Params("id"))
	if err != nil {
		return err
	}

	if _, err := renderer.Render(invoice); err != nil {
		return err
	}

	message := dispatch.BuildWhatsAppMessage(invoice)
	if err := messenger.Send(c.Context(), message); err != nil {
		log.Error().Err(err).Str("invoice", invoice.InvoiceNumber).Msg("whatsapp dispatch failed")
		return c.JSON(fiber.Map{
			"success": false,
			"error":   "Failed to send WhatsApp message",
		})
	}

	now := time.Now().UTC()
	if err := db.Model(invoice).Updates(map[string]any{
		"whatsapp_sent":    true,
		"whatsapp_sent_at": &now,
	}).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Invoice sent successfully!",
	})
}

func loadInvoice(db *gorm.DB, id string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := db.Preload("Customer").Preload("Items.Product").First(&invoice, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// sendInvoiceEmail renders the document, builds the payload, and sends it.
// The sent flag and timestamp are persisted only on confirmed success.
func sendInvoiceEmail(ctx context.Context, db *gorm.DB, invoice *models.Invoice, to string) bool {
	document, err := renderer.Render(invoice)
	if err != nil {
		log.Error().Err(err).Str("invoice", invoice.InvoiceNumber).Msg("render failed")
		return false
	}
	payload := dispatch.BuildEmailPayload(invoice, to, document, issuer)
	if err := mailer.Send(ctx, payload); err != nil {
		log.Error().Err(err).Str("invoice", invoice.InvoiceNumber).Msg("email dispatch failed")
		return false
	}

	now := time.Now().UTC()
	if err := db.Model(invoice).Updates(map[string]any{
		"email_sent":    true,
		"email_sent_at": &now,
	}).Error; err != nil {
		log.Error().Err(err).Str("invoice", invoice.InvoiceNumber).Msg("could not persist email sent flag")
	}
	return true
}
