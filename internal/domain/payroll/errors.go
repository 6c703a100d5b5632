package payroll

import "errors"

var (
	ErrPeriodNotFound = errors.New("payroll period not found")
	ErrRecordNotFound = errors.New("payroll record not found")

	// Lifecycle errors. Transitions may not skip a state, and nothing
	// mutates a record past Draft except the state machine itself.
	ErrNotDraft        = errors.New("payroll record is not in draft status")
	ErrNotApproved     = errors.New("payroll record is not in approved status")
	ErrRecordImmutable = errors.New("payroll record is released and immutable")
)
