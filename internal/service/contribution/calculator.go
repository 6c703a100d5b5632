// Package contribution holds the government contribution calculators. They
// are pure functions over a monetary base and a bracket table, safe for
// concurrent use, with no dependency on any other service.
package contribution

import (
	"github.com/shopspring/decimal"

	"github.com/sagana-hq/workforce-backend-go/internal/domain/contribution"
)

// ComputeSSS maps the monthly salary credit to the flat contribution amount
// of its bracket.
func ComputeSSS(base decimal.Decimal, table contribution.Table) (decimal.Decimal, error) {
	bracket, err := table.Lookup(base)
	if err != nil {
		return decimal.Zero, err
	}
	return bracket.Amount.Round(2), nil
}

// ComputePhilHealth applies the bracket rate to the base clamped into the
// table's floor/ceiling band, then caps at the per-period maximum.
func ComputePhilHealth(base decimal.Decimal, table contribution.Table) (decimal.Decimal, error) {
	return computeRateBased(base, table)
}

// ComputePagIBIG follows the same clamp-rate-cap shape as PhilHealth with
// its own table.
func ComputePagIBIG(base decimal.Decimal, table contribution.Table) (decimal.Decimal, error) {
	return computeRateBased(base, table)
}

// ComputeWithholdingTax computes progressive withholding on taxable income,
// which the caller has already reduced by the mandatory contributions. The
// selected bracket contributes an additive base amount plus a marginal rate
// on the excess over its lower bound.
func ComputeWithholdingTax(taxable decimal.Decimal, table contribution.Table) (decimal.Decimal, error) {
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}
	bracket, err := table.Lookup(taxable)
	if err != nil {
		return decimal.Zero, err
	}
	tax := bracket.BaseAmount.Add(taxable.Sub(bracket.Lower).Mul(bracket.Rate))
	return tax.Round(2), nil
}

// computeRateBased clamps the base into [floor, ceiling], applies the
// selected bracket's rate, and caps the result at MaxPerPeriod. Rounding
// happens exactly once, on the final amount.
func computeRateBased(base decimal.Decimal, table contribution.Table) (decimal.Decimal, error) {
	clamped := base
	if table.FloorAmount.IsPositive() && clamped.LessThan(table.FloorAmount) {
		clamped = table.FloorAmount
	}
	if table.CeilingAmount.IsPositive() && clamped.GreaterThan(table.CeilingAmount) {
		clamped = table.CeilingAmount
	}

	bracket, err := table.Lookup(clamped)
	if err != nil {
		return decimal.Zero, err
	}

	amount := clamped.Mul(bracket.Rate)
	if table.MaxPerPeriod.IsPositive() && amount.GreaterThan(table.MaxPerPeriod) {
		amount = table.MaxPerPeriod
	}
	return amount.Round(2), nil
}
