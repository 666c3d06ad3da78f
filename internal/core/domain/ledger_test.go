package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/vaadbayit/vaad_backend/internal/core/domain"
)

func stringPtr(s string) *string { return &s }

func TestApartmentRef_IsSentinel(t *testing.T) {
	tests := []struct {
		name string
		ref  domain.ApartmentRef
		want bool
	}{
		{
			name: "legacy id zero without apartment row",
			ref:  domain.ApartmentRef{ApartmentID: 0},
			want: true,
		},
		{
			name: "apartment row numbered zero",
			ref:  domain.ApartmentRef{ApartmentID: 42, ApartmentNumber: stringPtr("0")},
			want: true,
		},
		{
			name: "regular apartment",
			ref:  domain.ApartmentRef{ApartmentID: 42, ApartmentNumber: stringPtr("12")},
			want: false,
		},
		{
			name: "deleted apartment does not panic and is not a sentinel",
			ref:  domain.ApartmentRef{ApartmentID: 42, ApartmentNumber: nil},
			want: false,
		},
		{
			name: "number that merely contains zero",
			ref:  domain.ApartmentRef{ApartmentID: 7, ApartmentNumber: stringPtr("10")},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ref.IsSentinel())
		})
	}
}

func TestApartmentRef_CountsAsResident(t *testing.T) {
	assert.True(t, domain.ApartmentRef{ApartmentID: 42, ApartmentNumber: stringPtr("12")}.CountsAsResident())
	assert.False(t, domain.ApartmentRef{ApartmentID: 42, ApartmentNumber: stringPtr("0")}.CountsAsResident())
	assert.False(t, domain.ApartmentRef{ApartmentID: 0}.CountsAsResident())
	// A deleted apartment is neither a resident nor the association.
	orphan := domain.ApartmentRef{ApartmentID: 555}
	assert.False(t, orphan.Resolved())
	assert.False(t, orphan.CountsAsResident())
	assert.False(t, orphan.IsSentinel())
}

func TestApartment_IsSentinel(t *testing.T) {
	assert.True(t, domain.Apartment{ApartmentID: 3, ApartmentNumber: "0"}.IsSentinel())
	assert.False(t, domain.Apartment{ApartmentID: 3, ApartmentNumber: "3"}.IsSentinel())
}

func TestTransactionRow_IsSpecial(t *testing.T) {
	row := domain.TransactionRow{
		Transaction: domain.Transaction{ApartmentID: 0, AmountPaid: decimal.NewFromInt(100)},
	}
	assert.True(t, row.IsSpecial())

	row.Transaction.ApartmentID = 5
	row.Apartment = domain.ApartmentRef{ApartmentID: 5, ApartmentNumber: stringPtr("5")}
	assert.False(t, row.IsSpecial())
}

func TestTransaction_IsReconciliation(t *testing.T) {
	assert.True(t, domain.Transaction{Method: domain.MethodManualReconciliation}.IsReconciliation())
	assert.False(t, domain.Transaction{Method: domain.MethodCash}.IsReconciliation())
}
