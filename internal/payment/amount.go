package payment

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ComputeTax calculates the tax and total for a base amount at the given
// fractional rate. Both results are rounded to two decimal places, half up.
func ComputeTax(base, rate decimal.Decimal) (tax, total decimal.Decimal, err error) {
	if base.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, decimal.Zero, ErrInvalidAmount
	}

	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: tax rate %s outside [0,1]", ErrValidation, rate)
	}

	tax = base.Mul(rate).Round(2)
	total = base.Add(tax).Round(2)

	return tax, total, nil
}
