package employee

import "errors"

var (
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrEmployeeNotEligible = errors.New("employee is not payroll eligible")
	ErrInvalidShiftWindow  = errors.New("invalid shift window configuration")
)
