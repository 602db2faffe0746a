// Package dispatch builds notification payloads from aggregated invoice data
// and hands them to outbound transports. Payload construction is pure; the
// transports (SMTP, WhatsApp Cloud API) are the only effectful parts, and
// their failures are reported to the caller rather than aborting the
// surrounding flow.
package dispatch

import (
	"fmt"
	"strings"

	"bizbilling-backend/config"
	"bizbilling-backend/models"
	"bizbilling-backend/utils"
)

// EmailPayload is a ready-to-send mail: plain-text body plus the rendered
// invoice document as a named attachment.
type EmailPayload struct {
	To             string
	Subject        string
	Body           string
	AttachmentName string
	Attachment     []byte
}

// BuildEmailPayload formats the notification mail for an invoice. The invoice
// must have its Customer loaded and totals calculated.
func BuildEmailPayload(invoice *models.Invoice, to string, document []byte, issuer config.Issuer) EmailPayload {
	body := fmt.Sprintf(`Dear %s,

Thank you for your business! Please find attached your invoice.

Invoice Details:
- Invoice Number: %s
- Date: %s
- Total Amount: %s
- Received Amount: %s
- Due Balance: %s

Best regards,
%s Team
`,
		invoice.Customer.Name,
		invoice.InvoiceNumber,
		invoice.FormattedDate(),
		utils.Money(invoice.GrandTotal),
		utils.Money(invoice.ReceivedAmount),
		utils.Money(invoice.DueBalance),
		issuer.Name,
	)
	return EmailPayload{
		To:             to,
		Subject:        fmt.Sprintf("Invoice #%s from %s", invoice.InvoiceNumber, issuer.Name),
		Body:           body,
		AttachmentName: invoice.DocumentFilename(),
		Attachment:     document,
	}
}

// TextMessage is a plain text notification for channels without attachment
// support.
type TextMessage struct {
	To   string // dialable number, digits only
	Body string
}

var phoneStripper = strings.NewReplacer("+", "", " ", "", "-", "")

// BuildWhatsAppMessage formats the text-only invoice summary. The customer's
// phone number is normalized to the digits-only form the Cloud API expects.
func BuildWhatsAppMessage(invoice *models.Invoice) TextMessage {
	body := fmt.Sprintf("Hello %s,\n\nYour invoice #%s has been generated.\n\nTotal Amount: %s\nDue Balance: %s\n\nThank you for your business!",
		invoice.Customer.Name,
		invoice.InvoiceNumber,
		utils.Money(invoice.GrandTotal),
		utils.Money(invoice.DueBalance),
	)
	return TextMessage{
		To:   phoneStripper.Replace(invoice.Customer.Phone),
		Body: body,
	}
}
