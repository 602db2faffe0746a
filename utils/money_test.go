package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	cases := []struct{ in, want string }{
		{"17.9982", "18.00"},
		{"17.994", "17.99"},
		{"17.995", "18.00"},
		{"-17.995", "-18.00"},
		{"100", "100.00"},
		{"0.005", "0.01"},
	}
	for _, tc := range cases {
		got := Round2(decimal.RequireFromString(tc.in))
		assert.Equal(t, tc.want, got.StringFixed(2), "in=%s", tc.in)
	}
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "Rs. 1370.00", Money(decimal.RequireFromString("1370")))
	assert.Equal(t, "Rs. 0.50", Money(decimal.RequireFromString("0.5")))
	assert.Equal(t, "Rs. -870.25", Money(decimal.RequireFromString("-870.25")))
}
