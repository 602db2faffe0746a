package controllers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"bizbilling-backend/config"
	"bizbilling-backend/dispatch"
	"bizbilling-backend/models"
	"bizbilling-backend/pdf"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// fakeNumberStore scripts the numbering loop: the first `duplicates` creates
// collide as if a concurrent writer took the number first.
type fakeNumberStore struct {
	last       string
	duplicates int
	createErr  error
	created    []string
	savepoints []string
	rollbacks  []string
}

func (s *fakeNumberStore) SavePoint(name string) error {
	s.savepoints = append(s.savepoints, name)
	return nil
}

func (s *fakeNumberStore) RollbackTo(name string) error {
	s.rollbacks = append(s.rollbacks, name)
	return nil
}

func (s *fakeNumberStore) LastInvoiceNumber() (string, error) {
	return s.last, nil
}

func (s *fakeNumberStore) Create(invoice *models.Invoice) error {
	if s.createErr != nil {
		return s.createErr
	}
	if s.duplicates > 0 {
		s.duplicates--
		s.last = invoice.InvoiceNumber // the competing writer holds it now
		return gorm.ErrDuplicatedKey
	}
	s.created = append(s.created, invoice.InvoiceNumber)
	return nil
}

func TestInsertWithNextNumberRetriesAfterCollision(t *testing.T) {
	store := &fakeNumberStore{last: "S04", duplicates: 1}
	invoice := &models.Invoice{}

	err := insertWithNextNumber(store, invoice)
	require.NoError(t, err)

	assert.Equal(t, "S06", invoice.InvoiceNumber)
	assert.Equal(t, []string{"S06"}, store.created)
	assert.Len(t, store.savepoints, 2)
	assert.Equal(t, []string{"sp_invoice_number_0"}, store.rollbacks,
		"failed attempt must roll back to its savepoint before retrying")
}

func TestInsertWithNextNumberExhaustsRetries(t *testing.T) {
	store := &fakeNumberStore{last: "S01", duplicates: numberRetries}

	err := insertWithNextNumber(store, &models.Invoice{})

	var fe *fiber.Error
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, fiber.StatusConflict, fe.Code)
	assert.Empty(t, store.created)
	assert.Len(t, store.rollbacks, numberRetries)
}

func TestInsertWithNextNumberPropagatesOtherErrors(t *testing.T) {
	cause := errors.New("connection reset")
	store := &fakeNumberStore{last: "S01", createErr: cause}

	err := insertWithNextNumber(store, &models.Invoice{})

	assert.ErrorIs(t, err, cause)
	assert.Empty(t, store.rollbacks, "only duplicate-key failures are retried")
}

type failingMailer struct {
	calls int
}

func (m *failingMailer) Send(ctx context.Context, payload dispatch.EmailPayload) error {
	m.calls++
	return &dispatch.TransportError{Channel: "email", Err: errors.New("smtp unreachable")}
}

func dispatchTestInvoice(t *testing.T) *models.Invoice {
	t.Helper()
	product := models.Product{
		Id: "prod-1", Name: "Apple normal", Category: "Fruits", Unit: models.UnitKG,
		PricePerUnit: dec("100.00"), TaxPercentage: dec("5.00"), IsActive: true,
	}
	item, err := models.NewInvoiceItem(&product, dec("5.00"))
	require.NoError(t, err)
	item.Product = product

	invoice := &models.Invoice{
		InvoiceNumber: "S07",
		InvoiceDate:   datatypes.Date(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)),
		Customer:      models.Customer{Name: "Sampath Singh", Email: "sampath@example.com"},
		Items:         []models.InvoiceItem{item},
	}
	invoice.CalculateTotals()
	return invoice
}

func TestFailedEmailDispatchLeavesSentFlagUnset(t *testing.T) {
	iss := config.Issuer{Name: "Vishubh BizBilling"}
	mailer := &failingMailer{}
	Setup(iss, pdf.NewRenderer(iss), mailer, nil)

	invoice := dispatchTestInvoice(t)

	// db is nil on purpose: the sent-flag update is the only write, so
	// reaching it would panic and fail this test.
	ok := sendInvoiceEmail(context.Background(), nil, invoice, invoice.Customer.Email)

	assert.False(t, ok)
	assert.Equal(t, 1, mailer.calls)
	assert.False(t, invoice.EmailSent)
	assert.Nil(t, invoice.EmailSentAt)
}
