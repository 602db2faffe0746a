package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"bizbilling-backend/database"
	"bizbilling-backend/middlewares"
	"bizbilling-backend/models"
	"bizbilling-backend/pricing"
	"bizbilling-backend/utils"
)

type ProductInput struct {
	Name          string          `json:"name" validate:"required"`
	Category      string          `json:"category"`
	Unit          string          `json:"unit" validate:"required,oneof=KG PIECE LITER METER BOX DOZEN"`
	PricePerUnit  decimal.Decimal `json:"price_per_unit"`
	TaxPercentage decimal.Decimal `json:"tax_percentage"`
}

func CreateProduct(c *fiber.Ctx) error {
	var input ProductInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	utils.NormalizeDTO(&input)
	if !input.PricePerUnit.IsPositive() {
		return &pricing.ValidationError{Field: "price_per_unit", Reason: "must be greater than zero"}
	}
	if input.TaxPercentage.IsNegative() {
		return &pricing.ValidationError{Field: "tax_percentage", Reason: "must not be negative"}
	}

	product := models.Product{
		Name:          input.Name,
		Category:      input.Category,
		Unit:          input.Unit,
		PricePerUnit:  input.PricePerUnit,
		TaxPercentage: input.TaxPercentage,
		IsActive:      true,
	}
	if err := database.CtxDB(c).Create(&product).Error; err != nil {
		return err
	}
	return c.Status(201).JSON(product)
}

func GetProducts(c *fiber.Ctx) error {
	var products []models.Product
	if err := database.CtxDB(c).Order("name").Find(&products).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"products": products,
		"message":  "success",
	})
}

// SearchProducts backs the cart's typeahead: active products whose name or
// category contains the query, at most 10.
func SearchProducts(c *fiber.Ctx) error {
	query := c.Query("q")
	if len(query) < 2 {
		return c.JSON(fiber.Map{"products": []models.Product{}})
	}

	var products []models.Product
	err := database.CtxDB(c).
		Where("is_active = ?", true).
		Where("name ILIKE ? OR category ILIKE ?", "%"+query+"%", "%"+query+"%").
		Order("name").
		Limit(10).
		Find(&products).Error
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"products": products})
}

type ProductPatch struct {
	Name          *string          `json:"name"`
	Category      *string          `json:"category"`
	Unit          *string          `json:"unit" validate:"omitempty,oneof=KG PIECE LITER METER BOX DOZEN"`
	PricePerUnit  *decimal.Decimal `json:"price_per_unit"`
	TaxPercentage *decimal.Decimal `json:"tax_percentage"`
}

// UpdateProduct edits the catalog entry. Existing invoice lines keep their
// snapshot; only future lines see the new price.
func UpdateProduct(c *fiber.Ctx) error {
	var patch ProductPatch
	if err := middlewares.BindAndValidate(c, &patch); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&patch)
	if patch.PricePerUnit != nil && !patch.PricePerUnit.IsPositive() {
		return &pricing.ValidationError{Field: "price_per_unit", Reason: "must be greater than zero"}
	}
	if patch.TaxPercentage != nil && patch.TaxPercentage.IsNegative() {
		return &pricing.ValidationError{Field: "tax_percentage", Reason: "must not be negative"}
	}

	db := database.CtxDB(c)
	var product models.Product
	if err := db.First(&product, "id = ?", c.Params("id")).Error; err != nil {
		return err
	}

	updates := utils.UpdatesFromPtrDTO(&patch)
	if len(updates) > 0 {
		if err := db.Model(&product).Updates(updates).Error; err != nil {
			return err
		}
	}
	return c.JSON(product)
}

// DeleteProduct deactivates a product. Hard deletion is never offered:
// historical invoice lines reference the row.
func DeleteProduct(c *fiber.Ctx) error {
	db := database.CtxDB(c)
	var product models.Product
	if err := db.First(&product, "id = ?", c.Params("id")).Error; err != nil {
		return err
	}
	if err := db.Model(&product).Update("is_active", false).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "product deactivated"})
}
