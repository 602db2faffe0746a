package dispatch

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"time"

	"github.com/rs/zerolog/log"

	"bizbilling-backend/config"
)

// Mailer sends a built email payload. Kept as an interface so controllers can
// be exercised with a fake transport.
type Mailer interface {
	Send(ctx context.Context, payload EmailPayload) error
}

const smtpTimeout = 30 * time.Second

// SMTPMailer delivers mail over SMTP, upgrading to TLS when the server
// offers STARTTLS.
type SMTPMailer struct {
	cfg config.SMTP
}

func NewSMTPMailer(cfg config.SMTP) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(ctx context.Context, payload EmailPayload) error {
	if m.cfg.User == "" || m.cfg.Password == "" {
		return &TransportError{Channel: "email", Err: ErrNotConfigured}
	}

	raw, err := payload.rawMessage(m.cfg.User)
	if err != nil {
		return &TransportError{Channel: "email", Err: err}
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	dialer := net.Dialer{Timeout: smtpTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return &TransportError{Channel: "email", Err: err}
	}
	_ = conn.SetDeadline(time.Now().Add(smtpTimeout))

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return &TransportError{Channel: "email", Err: err}
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
			return &TransportError{Channel: "email", Err: err}
		}
	}
	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	if err := client.Auth(auth); err != nil {
		return &TransportError{Channel: "email", Err: err}
	}
	if err := client.Mail(m.cfg.User); err != nil {
		return &TransportError{Channel: "email", Err: err}
	}
	if err := client.Rcpt(payload.To); err != nil {
		return &TransportError{Channel: "email", Err: err}
	}
	w, err := client.Data()
	if err != nil {
		return &TransportError{Channel: "email", Err: err}
	}
	if _, err := w.Write(raw); err != nil {
		return &TransportError{Channel: "email", Err: err}
	}
	if err := w.Close(); err != nil {
		return &TransportError{Channel: "email", Err: err}
	}
	_ = client.Quit()

	log.Info().Str("to", payload.To).Str("subject", payload.Subject).Msg("invoice email sent")
	return nil
}

// rawMessage assembles the full multipart message: plain-text body plus the
// document as a base64 application/pdf attachment.
func (p EmailPayload) rawMessage(from string) ([]byte, error) {
	var msg bytes.Buffer
	mw := multipart.NewWriter(&msg)

	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", p.To)
	fmt.Fprintf(&msg, "Subject: %s\r\n", p.Subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", mw.Boundary())

	text, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=utf-8"},
	})
	if err != nil {
		return nil, err
	}
	if _, err := text.Write([]byte(p.Body)); err != nil {
		return nil, err
	}

	att, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"application/pdf"},
		"Content-Transfer-Encoding": {"base64"},
		"Content-Disposition":       {fmt.Sprintf("attachment; filename=%q", p.AttachmentName)},
	})
	if err != nil {
		return nil, err
	}
	encoded := base64.StdEncoding.EncodeToString(p.Attachment)
	for len(encoded) > 76 {
		if _, err := att.Write([]byte(encoded[:76] + "\r\n")); err != nil {
			return nil, err
		}
		encoded = encoded[76:]
	}
	if _, err := att.Write([]byte(encoded + "\r\n")); err != nil {
		return nil, err
	}

	if err := mw.Close(); err != nil {
		return nil, err
	}
	return msg.Bytes(), nil
}
