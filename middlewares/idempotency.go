package middlewares

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"bizbilling-backend/database"
	"bizbilling-backend/models"
)

// idempotencyStore persists first-response records. The middleware talks to
// it through this seam so tests can swap in an in-memory fake.
type idempotencyStore interface {
	// begin returns the record for key, creating a pending one when absent.
	begin(key, reqHash, method, path, userID string) (models.IdempotencyKey, error)
	// complete stores the response produced by the handler run. Best effort.
	complete(key string, status int, body []byte)
}

var idempotencyRecords idempotencyStore = dbIdempotencyStore{}

// Idempotency processes Idempotency-Key for mutating HTTP methods. A retried
// request with the same key replays the stored response and never reaches the
// handler, so a resubmitted invoice cannot create a second record. Record
// reads/writes use their own short transactions, independent of the
// per-request handler TX.
func Idempotency() fiber.Handler {
	return func(c *fiber.Ctx) error {
		method := strings.ToUpper(c.Method())
		if method != fiber.MethodPost && method != fiber.MethodPut && method != fiber.MethodPatch && method != fiber.MethodDelete {
			return c.Next()
		}

		key := strings.TrimSpace(c.Get("Idempotency-Key"))
		if key == "" {
			return c.Next()
		}
		if len(key) > 128 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Idempotency-Key too long"})
		}

		userID, _ := c.Locals("userID").(string)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "auth context missing"})
		}

		path := c.OriginalURL() // includes query string
		body := c.Body()

		// Build deterministic request hash: method|path|body|user
		h := sha256.New()
		h.Write([]byte(method))
		h.Write([]byte{'\n'})
		h.Write([]byte(path))
		h.Write([]byte{'\n'})
		h.Write(body)
		h.Write([]byte{'\n'})
		h.Write([]byte(userID))
		reqHash := hex.EncodeToString(h.Sum(nil))

		existing, err := idempotencyRecords.begin(key, reqHash, method, path, userID)
		if err != nil {
			return err
		}
		if existing.RequestHash != reqHash {
			return fiber.NewError(fiber.StatusConflict, "Idempotency-Key reuse with different request")
		}
		if existing.ResponseStatus != 0 && existing.ResponseBody != nil {
			// Completed earlier: replay the stored response. Returning here is
			// what keeps the handler from running a second time.
			c.Status(existing.ResponseStatus)
			return c.Send(existing.ResponseBody)
		}

		// Pending/in-progress: run the handler once, then record its response.
		if err := c.Next(); err != nil {
			return err
		}
		idempotencyRecords.complete(key, c.Response().StatusCode(), c.Response().Body())
		return nil
	}
}

// dbIdempotencyStore backs the middleware with short standalone transactions.
type dbIdempotencyStore struct{}

func (dbIdempotencyStore) begin(key, reqHash, method, path, userID string) (models.IdempotencyKey, error) {
	var existing models.IdempotencyKey
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("key = ?", key).First(&existing).Error; err != nil {
			if err != gorm.ErrRecordNotFound {
				return fiber.NewError(fiber.StatusInternalServerError, "idempotency lookup failed")
			}
			// Not found -> create "pending"
			rec := models.IdempotencyKey{
				Key:            key,
				RequestHash:    reqHash,
				Method:         method,
				Path:           path,
				UserID:         userID,
				ResponseStatus: 0,
			}
			if e2 := tx.Create(&rec).Error; e2 != nil {
				// Could be unique race: read again
				if e3 := tx.Where("key = ?", key).First(&existing).Error; e3 != nil {
					return fiber.NewError(fiber.StatusInternalServerError, "idempotency create failed")
				}
			} else {
				existing = rec
			}
		}
		return nil
	})
	return existing, err
}

func (dbIdempotencyStore) complete(key string, status int, body []byte) {
	_ = database.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		blob := make([]byte, len(body))
		copy(blob, body)

		return tx.Model(&models.IdempotencyKey{}).
			Where("key = ?", key).
			Updates(map[string]any{
				"response_status": status,
				"response_body":   blob,
				"completed_at":    &now,
			}).Error
	})
}
