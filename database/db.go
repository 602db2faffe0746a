package database

import (
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"bizbilling-backend/models"
)

var DB *gorm.DB

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func Connect() {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		env("DB_HOST", "db"), os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"), env("DB_PORT", "5432"))

	var err error
	// TranslateError surfaces unique violations as gorm.ErrDuplicatedKey,
	// the backstop for the invoice-number race.
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to database")
	}
}

func AutoMigrate() {
	err := DB.AutoMigrate(
		&models.User{}, &models.IdempotencyKey{},
		&models.Product{}, &models.Customer{},
		&models.Invoice{}, &models.InvoiceItem{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("auto-migration failed")
	}
}

// CtxDB returns the per-request transaction opened by the Tx middleware,
// falling back to the shared handle for routes outside it.
func CtxDB(c *fiber.Ctx) *gorm.DB {
	if tx, ok := c.Locals("tx").(*gorm.DB); ok && tx != nil {
		return tx
	}
	return DB
}
