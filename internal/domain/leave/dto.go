package leave

import (
	"github.com/sagana-hq/workforce-backend-go/internal/pkg/validator"
)

type CreateRequestRequest struct {
	EmployeeID  string  `json:"-"`
	LeaveTypeID string  `json:"leave_type_id"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Reason      *string `json:"reason,omitempty"`
}

func (r CreateRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if validator.IsEmpty(r.LeaveTypeID) {
		errs = append(errs, validator.ValidationError{Field: "leave_type_id", Message: "leave_type_id is required"})
	}
	start, okStart := validator.IsValidDate(r.StartDate)
	if !okStart {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be YYYY-MM-DD"})
	}
	end, okEnd := validator.IsValidDate(r.EndDate)
	if !okEnd {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be YYYY-MM-DD"})
	}
	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date cannot be before start_date"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DecideRequestRequest struct {
	RequestID string `json:"-"`
	Approve   bool   `json:"-"`
	DecidedBy string `json:"-"`
}

// CorrectAllocationRequest is the administrative override path; it may push
// used days past the allocation when Override is set.
type CorrectAllocationRequest struct {
	AllocationID  string   `json:"-"`
	UsedDays      *float64 `json:"used_days,omitempty"`
	AllocatedDays *float64 `json:"allocated_days,omitempty"`
	Override      bool     `json:"override"`
}

func (r CorrectAllocationRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.AllocationID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "allocation id is required"})
	}
	if r.UsedDays != nil && *r.UsedDays < 0 {
		errs = append(errs, validator.ValidationError{Field: "used_days", Message: "used_days cannot be negative"})
	}
	if r.AllocatedDays != nil && *r.AllocatedDays < 0 {
		errs = append(errs, validator.ValidationError{Field: "allocated_days", Message: "allocated_days cannot be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RequestResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	LeaveTypeID   string  `json:"leave_type_id"`
	LeaveTypeName *string `json:"leave_type_name,omitempty"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	Days          float64 `json:"days"`
	Status        string  `json:"status"`
	Reason        *string `json:"reason,omitempty"`
}

type AllocationResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	LeaveTypeID   string  `json:"leave_type_id"`
	Year          int     `json:"year"`
	AllocatedDays float64 `json:"allocated_days"`
	UsedDays      float64 `json:"used_days"`
	RemainingDays float64 `json:"remaining_days"`
}
