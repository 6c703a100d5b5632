package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/sagana-hq/workforce-backend-go/internal/pkg/validator"
)

type GeneratePayrollRequest struct {
	PeriodID string `json:"-"`
}

func (r GeneratePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.PeriodID) {
		errs = append(errs, validator.ValidationError{Field: "period_id", Message: "period_id is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RecordResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName *string `json:"employee_name,omitempty"`
	PeriodID     string  `json:"period_id"`

	DaysWorked     int                        `json:"days_worked"`
	BasicPay       decimal.Decimal            `json:"basic_pay"`
	OvertimePay    decimal.Decimal            `json:"overtime_pay"`
	OvertimeDetail map[string]decimal.Decimal `json:"overtime_detail,omitempty"`
	PaidLeaveDays  int                        `json:"paid_leave_days"`
	PaidLeavePay   decimal.Decimal            `json:"paid_leave_pay"`
	GrossPay       decimal.Decimal            `json:"gross_pay"`

	SSS                    decimal.Decimal `json:"sss"`
	PhilHealth             decimal.Decimal `json:"philhealth"`
	PagIBIG                decimal.Decimal `json:"pagibig"`
	WithholdingTax         decimal.Decimal `json:"withholding_tax"`
	CashAdvanceInstallment decimal.Decimal `json:"cash_advance_installment"`
	LateDeduction          decimal.Decimal `json:"late_deduction"`
	UnpaidLeaveDays        int             `json:"unpaid_leave_days"`
	UnpaidLeaveDeduction   decimal.Decimal `json:"unpaid_leave_deduction"`

	NetPay decimal.Decimal `json:"net_pay"`
	Status string          `json:"status"`
}

// GenerateResponse reports what the run produced and which records it left
// alone because they were already past Draft. RunID identifies the run in
// logs; re-runs of the same period get distinct run IDs.
type GenerateResponse struct {
	RunID      string           `json:"run_id"`
	PeriodID   string           `json:"period_id"`
	Records    []RecordResponse `json:"records"`
	SkippedIDs []string         `json:"skipped_record_ids,omitempty"`
}

type RecordFilter struct {
	PeriodID   string
	EmployeeID string
	Status     string
	Page       int
	Limit      int
}

type ListRecordsResponse struct {
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
	Records    []RecordResponse `json:"records"`
}
