package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency string
		want     string
	}{
		{"grouped", "15000", "KES", "KES 15,000.00"},
		{"rounded", "1234.567", "usd", "USD 1,234.57"},
		{"small", "0.5", "KES", "KES 0.50"},
		{"no currency", "99", "", "99.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(decimal.RequireFromString(tt.amount), tt.currency))
		})
	}
}
