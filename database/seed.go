package database

import (
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"bizbilling-backend/models"
)

type seedProduct struct {
	name     string
	category string
	unit     string
	price    string
	tax      string
}

var sampleProducts = []seedProduct{
	{"Apple normal", "Fruits", models.UnitKG, "100.00", "5.00"},
	{"Orange", "Fruits", models.UnitKG, "40.00", "5.00"},
	{"Banana", "Fruits", models.UnitDozen, "50.00", "5.00"},
	{"Tomato", "Vegetables", models.UnitKG, "30.00", "5.00"},
	{"Potato", "Vegetables", models.UnitKG, "25.00", "5.00"},
	{"Onion", "Vegetables", models.UnitKG, "35.00", "5.00"},
	{"Rice (Basmati)", "Grains", models.UnitKG, "80.00", "5.00"},
	{"Wheat Flour", "Grains", models.UnitKG, "45.00", "5.00"},
	{"Milk", "Dairy", models.UnitLiter, "60.00", "5.00"},
	{"Cooking Oil", "Grocery", models.UnitLiter, "150.00", "5.00"},
}

// SeedSampleData loads a demo catalog and customer for local development.
// It is a no-op when the catalog already has products.
func SeedSampleData() error {
	var count int64
	if err := DB.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, sp := range sampleProducts {
		product := models.Product{
			Name:          sp.name,
			Category:      sp.category,
			Unit:          sp.unit,
			PricePerUnit:  decimal.RequireFromString(sp.price),
			TaxPercentage: decimal.RequireFromString(sp.tax),
			IsActive:      true,
		}
		if err := DB.Create(&product).Error; err != nil {
			return err
		}
	}

	customer := models.Customer{
		Name:          "Sampath Singh",
		Phone:         "+91 9981028177",
		Address:       "04, KK Buildings, Ajmeri Gate",
		City:          "Jodhpur",
		State:         "Rajasthan",
		Pincode:       "304582",
		PanNumber:     "BBHPC9999A",
		Gstin:         "08HULMP2839A1AB",
		PlaceOfSupply: "Rajasthan",
	}
	if err := DB.Create(&customer).Error; err != nil {
		return err
	}

	log.Info().Int("products", len(sampleProducts)).Msg("sample data loaded")
	return nil
}
