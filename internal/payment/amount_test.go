package payment_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rohit-3/Ratan-agri-tech/internal/payment"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}

	return d
}

func TestComputeTax(t *testing.T) {
	type testCase struct {
		name      string
		base      string
		rate      string
		wantTax   string
		wantTotal string
		wantErr   error
	}

	tests := []testCase{
		{
			name:      "StandardRate",
			base:      "1000",
			rate:      "0.18",
			wantTax:   "180.00",
			wantTotal: "1180.00",
		},
		{
			name:      "RoundsTaxToTwoPlaces",
			base:      "999.99",
			rate:      "0.18",
			wantTax:   "180.00", // 179.9982
			wantTotal: "1179.99",
		},
		{
			name:      "HalfRoundsUp",
			base:      "0.25",
			rate:      "0.5",
			wantTax:   "0.13", // 0.125
			wantTotal: "0.38",
		},
		{
			name:      "ZeroRate",
			base:      "750.50",
			rate:      "0",
			wantTax:   "0.00",
			wantTotal: "750.50",
		},
		{
			name:      "FullRate",
			base:      "10",
			rate:      "1",
			wantTax:   "10.00",
			wantTotal: "20.00",
		},
		{
			name:    "ZeroAmount",
			base:    "0",
			rate:    "0.18",
			wantErr: payment.ErrInvalidAmount,
		},
		{
			name:    "NegativeAmount",
			base:    "-5",
			rate:    "0.18",
			wantErr: payment.ErrInvalidAmount,
		},
		{
			name:    "RateAboveOne",
			base:    "100",
			rate:    "1.5",
			wantErr: payment.ErrValidation,
		},
		{
			name:    "NegativeRate",
			base:    "100",
			rate:    "-0.1",
			wantErr: payment.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tax, total, err := payment.ComputeTax(dec(tt.base), dec(tt.rate))

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantTax, tax.StringFixed(2))
			assert.Equal(t, tt.wantTotal, total.StringFixed(2))
		})
	}
}

func TestComputeTax_TotalIsBasePlusTax(t *testing.T) {
	bases := []string{"0.01", "1", "33.33", "1000", "99999.99"}
	rates := []string{"0", "0.05", "0.12", "0.18", "0.28", "1"}

	for _, b := range bases {
		for _, r := range rates {
			tax, total, err := payment.ComputeTax(dec(b), dec(r))
			require.NoError(t, err)

			assert.True(t, dec(b).Add(tax).Round(2).Equal(total),
				"base=%s rate=%s tax=%s total=%s", b, r, tax, total)
			assert.True(t, dec(b).Mul(dec(r)).Round(2).Equal(tax),
				"base=%s rate=%s tax=%s", b, r, tax)
		}
	}
}
