package attendance

import (
	"time"

	"github.com/sagana-hq/workforce-backend-go/internal/pkg/validator"
)

type ClockInRequest struct {
	EmployeeID string  `json:"-"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	// At is the clock event instant. Zero means "now"; the service pins it
	// to the business timezone either way.
	At time.Time `json:"-"`
}

func (r ClockInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if r.Latitude == 0 && r.Longitude == 0 {
		errs = append(errs, validator.ValidationError{Field: "location", Message: "geolocation is required"})
	}
	if !validator.IsValidLatitude(r.Latitude) {
		errs = append(errs, validator.ValidationError{Field: "latitude", Message: "latitude must be between -90 and 90"})
	}
	if !validator.IsValidLongitude(r.Longitude) {
		errs = append(errs, validator.ValidationError{Field: "longitude", Message: "longitude must be between -180 and 180"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ClockOutRequest struct {
	EmployeeID string    `json:"-"`
	At         time.Time `json:"-"`
}

func (r ClockOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ReviewOvertimeRequest struct {
	FactID   string `json:"-"`
	Approve  bool   `json:"-"`
	Category string `json:"category,omitempty"`
}

func (r ReviewOvertimeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.FactID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "attendance id is required"})
	}
	if r.Category != "" && !validator.IsInSlice(r.Category, []string{
		string(OvertimeRegular), string(OvertimeRestDay), string(OvertimeHoliday),
	}) {
		errs = append(errs, validator.ValidationError{Field: "category", Message: "category must be regular, rest_day, or holiday"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// CorrectFactRequest is the explicit administrative correction path, the
// only way a finalized fact may change.
type CorrectFactRequest struct {
	FactID             string  `json:"-"`
	TimeIn             *string `json:"time_in,omitempty"`
	TimeOut            *string `json:"time_out,omitempty"`
	LateMinutes        *int    `json:"late_minutes,omitempty"`
	OvertimeMinutes    *int    `json:"overtime_minutes,omitempty"`
	VerificationStatus *string `json:"verification_status,omitempty"`
}

func (r CorrectFactRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.FactID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "attendance id is required"})
	}
	if r.TimeIn != nil {
		if _, ok := validator.IsValidDateTime(*r.TimeIn); !ok {
			errs = append(errs, validator.ValidationError{Field: "time_in", Message: "time_in must be an RFC3339 timestamp"})
		}
	}
	if r.TimeOut != nil {
		if _, ok := validator.IsValidDateTime(*r.TimeOut); !ok {
			errs = append(errs, validator.ValidationError{Field: "time_out", Message: "time_out must be an RFC3339 timestamp"})
		}
	}
	if r.VerificationStatus != nil && !validator.IsInSlice(*r.VerificationStatus, []string{
		string(VerificationVerified), string(VerificationOffSite),
		string(VerificationPending), string(VerificationFlagged),
	}) {
		errs = append(errs, validator.ValidationError{Field: "verification_status", Message: "invalid verification status"})
	}
	if r.LateMinutes != nil && *r.LateMinutes < 0 {
		errs = append(errs, validator.ValidationError{Field: "late_minutes", Message: "late_minutes cannot be negative"})
	}
	if r.OvertimeMinutes != nil && *r.OvertimeMinutes < 0 {
		errs = append(errs, validator.ValidationError{Field: "overtime_minutes", Message: "overtime_minutes cannot be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type FactFilter struct {
	EmployeeID string
	DateFrom   *time.Time
	DateTo     *time.Time
	Page       int
	Limit      int
}

type FactResponse struct {
	ID                    string  `json:"id"`
	EmployeeID            string  `json:"employee_id"`
	EmployeeName          *string `json:"employee_name,omitempty"`
	ShiftDate             string  `json:"shift_date"`
	TimeIn                string  `json:"time_in"`
	TimeOut               *string `json:"time_out,omitempty"`
	ShiftType             string  `json:"shift_type"`
	VerificationStatus    string  `json:"verification_status"`
	LateMinutes           int     `json:"late_minutes"`
	LateDeductible        bool    `json:"late_deductible"`
	OvertimeMinutes       int     `json:"overtime_minutes"`
	OvertimeStatus        *string `json:"overtime_status,omitempty"`
	OvertimeCategory      string  `json:"overtime_category"`
	LunchDeductionMinutes int     `json:"lunch_deduction_minutes"`
	TotalWorkedMinutes    *int    `json:"total_worked_minutes,omitempty"`
	IsOvertimeSession     bool    `json:"is_overtime_session"`
}

type ListFactsResponse struct {
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
	Facts      []FactResponse `json:"attendances"`
}
