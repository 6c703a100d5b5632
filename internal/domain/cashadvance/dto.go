package cashadvance

import (
	"github.com/shopspring/decimal"

	"github.com/sagana-hq/workforce-backend-go/internal/pkg/validator"
)

type CreateAdvanceRequest struct {
	EmployeeID         string          `json:"-"`
	Principal          decimal.Decimal `json:"principal"`
	PerPeriodDeduction decimal.Decimal `json:"per_period_deduction"`
}

func (r CreateAdvanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if !r.Principal.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "principal", Message: "principal must be positive"})
	}
	if !r.PerPeriodDeduction.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "per_period_deduction", Message: "per_period_deduction must be positive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AdvanceResponse struct {
	ID                 string          `json:"id"`
	EmployeeID         string          `json:"employee_id"`
	EmployeeName       *string         `json:"employee_name,omitempty"`
	Principal          decimal.Decimal `json:"principal"`
	PerPeriodDeduction decimal.Decimal `json:"per_period_deduction"`
	RemainingBalance   decimal.Decimal `json:"remaining_balance"`
	Status             string          `json:"status"`
}
