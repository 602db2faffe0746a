package controllers

import (
	"github.com/gofiber/fiber/v2"

	"bizbilling-backend/database"
	"bizbilling-backend/middlewares"
	"bizbilling-backend/models"
	"bizbilling-backend/utils"
)

type CustomerInput struct {
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	City          string `json:"city"`
	State         string `json:"state"`
	Pincode       string `json:"pincode"`
	PanNumber     string `json:"pan_number"`
	Gstin         string `json:"gstin"`
	PlaceOfSupply string `json:"place_of_supply"`
}

func CreateCustomer(c *fiber.Ctx) error {
	var input CustomerInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	utils.NormalizeDTO(&input)

	customer := models.Customer{
		Name:          input.Name,
		Email:         input.Email,
		Phone:         input.Phone,
		Address:       input.Address,
		City:          input.City,
		State:         input.State,
		Pincode:       input.Pincode,
		PanNumber:     input.PanNumber,
		Gstin:         input.Gstin,
		PlaceOfSupply: input.PlaceOfSupply,
	}
	if err := database.CtxDB(c).Create(&customer).Error; err != nil {
		return err
	}
	return c.Status(201).JSON(customer)
}

func GetCustomers(c *fiber.Ctx) error {
	var customers []models.Customer
	if err := database.CtxDB(c).Order("name").Find(&customers).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"customers": customers,
		"message":   "success",
	})
}

func GetCustomer(c *fiber.Ctx) error {
	var customer models.Customer
	if err := database.CtxDB(c).First(&customer, "id = ?", c.Params("id")).Error; err != nil {
		return err
	}
	return c.JSON(customer)
}

type CustomerPatch struct {
	Name          *string `json:"name"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
	City          *string `json:"city"`
	State         *string `json:"state"`
	Pincode       *string `json:"pincode"`
	PanNumber     *string `json:"pan_number"`
	Gstin         *string `json:"gstin"`
	PlaceOfSupply *string `json:"place_of_supply"`
}

// UpdateCustomer edits the customer record. Past invoices are not touched:
// lines snapshot pricing and documents are re-rendered from current data only
// on demand.
func UpdateCustomer(c *fiber.Ctx) error {
	var patch CustomerPatch
	if err := middlewares.BindAndValidate(c, &patch); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&patch)

	db := database.CtxDB(c)
	var customer models.Customer
	if err := db.First(&customer, "id = ?", c.Params("id")).Error; err != nil {
		return err
	}

	updates := utils.UpdatesFromPtrDTO(&patch)
	if len(updates) > 0 {
		if err := db.Model(&customer).Updates(updates).Error; err != nil {
			return err
		}
	}
	return c.JSON(customer)
}
