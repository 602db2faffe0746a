package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"bizbilling-backend/database"
)

// Tx opens a per-request DB transaction so a handler's reads and writes
// (line inserts, totals recompute, invoice-number allocation) commit or roll
// back as one unit. Run AFTER IsAuthenticatedHeader() and AFTER Idempotency()
// so idempotency records aren't tied to the handler TX.
func Tx() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to begin transaction")
		}

		// Ensure we always cleanup.
		defer func() {
			if r := recover(); r != nil {
				_ = tx.Rollback()
				panic(r) // re-panic after rollback so Fiber's handler can catch
			}
			if err != nil {
				_ = tx.Rollback()
				return
			}
			if e := tx.Commit().Error; e != nil {
				log.Error().Err(e).Msg("tx commit failed")
				err = fiber.NewError(fiber.StatusInternalServerError, "transaction commit failed")
			}
		}()

		// Make the TX available to handlers via database.CtxDB(c).
		c.Locals("tx", tx)

		err = c.Next()
		return err
	}
}
