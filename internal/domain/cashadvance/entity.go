package cashadvance

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusDisbursed Status = "disbursed"
	StatusFullyPaid Status = "fully_paid"
	StatusRejected  Status = "rejected"
)

// CashAdvance is a loan to an employee amortized through payroll.
// Invariants: PerPeriodDeduction ≤ Principal at approval time, and
// RemainingBalance never increases once the advance is disbursed. The
// balance is mutated only by the payroll approval transaction.
type CashAdvance struct {
	ID                 string
	EmployeeID         string
	Principal          decimal.Decimal
	PerPeriodDeduction decimal.Decimal
	RemainingBalance   decimal.Decimal
	Status             Status
	RequestedAt        time.Time
	ApprovedAt         *time.Time
	DisbursedAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// Joined fields
	EmployeeName *string
}

// InstallmentDue returns the amount payroll withholds this period:
// min(agreed per-period deduction, remaining balance) while disbursed with
// balance outstanding, zero otherwise.
func (c CashAdvance) InstallmentDue() decimal.Decimal {
	if c.Status != StatusDisbursed || !c.RemainingBalance.IsPositive() {
		return decimal.Zero
	}
	if c.RemainingBalance.LessThan(c.PerPeriodDeduction) {
		return c.RemainingBalance
	}
	return c.PerPeriodDeduction
}
