package cashadvance

import "errors"

var (
	ErrAdvanceNotFound           = errors.New("cash advance not found")
	ErrAdvanceAlreadyDecided     = errors.New("cash advance has already been decided")
	ErrNotApproved               = errors.New("cash advance is not approved for disbursement")
	ErrDeductionExceedsPrincipal = errors.New("per-period deduction exceeds the principal amount")
	ErrInsufficientBalance       = errors.New("deduction exceeds the remaining balance")
)
