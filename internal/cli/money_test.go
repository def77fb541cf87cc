package cli

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMoney_Format(t *testing.T) {
	m := Money{Symbol: "₹"}

	tests := []struct {
		name string
		in   float64
		want string
	}{
		{name: "thousands", in: 1250.5, want: "₹1,250.50"},
		{name: "millions", in: 1234567.891, want: "₹1,234,567.89"},
		{name: "expense", in: -40, want: "-₹40.00"},
		{name: "small", in: 7.25, want: "₹7.25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Format(tt.in))
		})
	}
}

func TestMoney_Signed(t *testing.T) {
	m := Money{Symbol: "$"}
	assert.Equal(t, "+$1,000.00", m.Signed(1000))
	assert.Equal(t, "-$12.50", m.Signed(-12.5))
}

func TestMoney_Decimal(t *testing.T) {
	m := Money{Symbol: "€"}
	assert.Equal(t, "€0.30", m.Decimal(decimal.NewFromFloat(0.1).Add(decimal.NewFromFloat(0.2))))
}

func TestMoney_Compact(t *testing.T) {
	m := Money{Symbol: "₹"}
	assert.Equal(t, "₹9,999.00", m.Compact(9999))
	assert.Equal(t, "₹25K", m.Compact(25000))
	assert.Equal(t, "₹1.5M", m.Compact(1500000))
	assert.Equal(t, "-₹25K", m.Compact(-25000))
}
