package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodStatus enum
type PeriodStatus string

const (
	PeriodOpen   PeriodStatus = "open"
	PeriodClosed PeriodStatus = "closed"
)

// Period is one payroll cutoff with defined start, end, and pay dates.
type Period struct {
	ID        string
	StartDate time.Time
	EndDate   time.Time
	PayDate   time.Time
	Status    PeriodStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RecordStatus enum. The lifecycle is Draft → Approved → Released with no
// skips; Released is terminal.
type RecordStatus string

const (
	RecordDraft    RecordStatus = "draft"
	RecordApproved RecordStatus = "approved"
	RecordReleased RecordStatus = "released"
)

// Record is the computed payroll result, one per (employee, period).
// Created as Draft by the aggregator, mutated only through lifecycle
// transitions, immutable once Released.
type Record struct {
	ID         string
	EmployeeID string
	PeriodID   string

	// Earnings
	DaysWorked     int
	BasicPay       decimal.Decimal
	OvertimePay    decimal.Decimal
	OvertimeDetail map[string]decimal.Decimal // keyed by overtime category
	PaidLeaveDays  int
	PaidLeavePay   decimal.Decimal
	GrossPay       decimal.Decimal

	// Deductions
	SSS                    decimal.Decimal
	PhilHealth             decimal.Decimal
	PagIBIG                decimal.Decimal
	WithholdingTax         decimal.Decimal
	CashAdvanceInstallment decimal.Decimal
	// InstallmentsDetail maps cash-advance ID to the amount withheld, so
	// the approval transaction knows which ledgers to decrement.
	InstallmentsDetail   map[string]decimal.Decimal
	LateDeduction        decimal.Decimal
	UnpaidLeaveDays      int
	UnpaidLeaveDeduction decimal.Decimal

	NetPay decimal.Decimal

	Status     RecordStatus
	ApprovedBy *string
	ApprovedAt *time.Time
	ReleasedBy *string
	ReleasedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
}

// TotalDeductions sums every deduction component.
func (r Record) TotalDeductions() decimal.Decimal {
	return r.SSS.
		Add(r.PhilHealth).
		Add(r.PagIBIG).
		Add(r.WithholdingTax).
		Add(r.CashAdvanceInstallment).
		Add(r.LateDeduction).
		Add(r.UnpaidLeaveDeduction)
}
