package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Units a product can be sold in.
const (
	UnitKG    = "KG"
	UnitPiece = "PIECE"
	UnitLiter = "LITER"
	UnitMeter = "METER"
	UnitBox   = "BOX"
	UnitDozen = "DOZEN"
)

// Product is a catalog item. Products referenced by invoice items are never
// hard-deleted, only deactivated; invoice lines keep their own price/tax
// snapshot so later catalog edits don't rewrite history.
type Product struct {
	Id            string          `json:"id" gorm:"primaryKey"`
	Name          string          `json:"name" gorm:"not null"`
	Category      string          `json:"category"`
	Unit          string          `json:"unit" gorm:"type:varchar(10);default:PIECE"`
	PricePerUnit  decimal.Decimal `json:"price_per_unit" gorm:"type:numeric(10,2)"`
	TaxPercentage decimal.Decimal `json:"tax_percentage" gorm:"type:numeric(5,2)"`
	IsActive      bool            `json:"is_active" gorm:"default:true"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (product *Product) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	product.Id = uuid.NewString()
	return
}
