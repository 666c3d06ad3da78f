package utils_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/vaadbayit/vaad_backend/internal/utils"
)

func TestAbbreviateShekel(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"0", "0 ₪"},
		{"999", "999 ₪"},
		{"1000", "1.0K ₪"},
		{"12345", "12.3K ₪"},
		{"999999", "1000.0K ₪"},
		{"1000000", "1.0M ₪"},
		{"1250000", "1.2M ₪"},
		{"2350000", "2.4M ₪"},
		{"-5000", "-5000 ₪"},
		{"12.5", "12 ₪"},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, utils.AbbreviateShekel(decimal.RequireFromString(tt.amount)))
		})
	}
}

