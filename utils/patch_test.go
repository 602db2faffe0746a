package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestUpdatesFromPtrDTO(t *testing.T) {
	type patch struct {
		Name     *string          `json:"name"`
		Category *string          `json:"category"`
		Price    *decimal.Decimal `json:"price_per_unit"`
		Hidden   *string          `json:"-"`
		Untagged *string
	}

	name := "Apple normal"
	price := decimal.RequireFromString("120.00")
	hidden := "nope"

	updates := UpdatesFromPtrDTO(&patch{
		Name:   &name,
		Price:  &price,
		Hidden: &hidden,
	})

	assert.Equal(t, map[string]any{
		"name":           "Apple normal",
		"price_per_unit": price,
	}, updates)
}

func TestUpdatesFromPtrDTOEmptyPatch(t *testing.T) {
	type patch struct {
		Name *string `json:"name"`
	}
	assert.Empty(t, UpdatesFromPtrDTO(&patch{}))
	assert.Empty(t, UpdatesFromPtrDTO("not a struct"))
}
