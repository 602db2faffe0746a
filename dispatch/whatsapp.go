package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"bizbilling-backend/config"
)

// Messenger sends a text-only notification.
type Messenger interface {
	Send(ctx context.Context, msg TextMessage) error
}

const graphAPIBase = "https://graph.facebook.com/v17.0"

// WhatsAppClient posts text messages through the WhatsApp Cloud API.
type WhatsAppClient struct {
	cfg config.WhatsApp
	// BaseURL is overridable in tests.
	BaseURL string
	client  *http.Client
}

func NewWhatsAppClient(cfg config.WhatsApp) *WhatsAppClient {
	return &WhatsAppClient{
		cfg:     cfg,
		BaseURL: graphAPIBase,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (w *WhatsAppClient) Send(ctx context.Context, msg TextMessage) error {
	if w.cfg.PhoneNumberID == "" || w.cfg.AccessToken == "" {
		return &TransportError{Channel: "whatsapp", Err: ErrNotConfigured}
	}

	body, err := json.Marshal(map[string]any{
		"messaging_product": "whatsapp",
		"to":                msg.To,
		"type":              "text",
		"text":              map[string]string{"body": msg.Body},
	})
	if err != nil {
		return &TransportError{Channel: "whatsapp", Err: err}
	}

	url := fmt.Sprintf("%s/%s/messages", w.BaseURL, w.cfg.PhoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return &TransportError{Channel: "whatsapp", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+w.cfg.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return &TransportError{Channel: "whatsapp", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return &TransportError{
			Channel: "whatsapp",
			Err:     fmt.Errorf("api returned %d: %s", resp.StatusCode, detail),
		}
	}

	log.Info().Str("to", msg.To).Msg("invoice whatsapp message sent")
	return nil
}
