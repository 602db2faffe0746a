package models

import "time"

// Customer is the billing counterpart on an invoice. Contact channels are
// optional; dispatch falls back gracefully when one is missing.
type Customer struct {
	Id            uint      `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"not null"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	Pincode       string    `json:"pincode"`
	PanNumber     string    `json:"pan_number"`
	Gstin         string    `json:"gstin"`
	PlaceOfSupply string    `json:"place_of_supply"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FullAddress is the single-line postal address used on documents.
func (customer *Customer) FullAddress() string {
	return customer.Address + ", " + customer.City + ", " + customer.State + ", " + customer.Pincode
}
