package leave

import "errors"

var (
	ErrLeaveTypeNotFound     = errors.New("leave type not found")
	ErrAllocationNotFound    = errors.New("leave allocation not found")
	ErrRequestNotFound       = errors.New("leave request not found")
	ErrInsufficientBalance   = errors.New("insufficient leave balance")
	ErrRequestAlreadyDecided = errors.New("leave request has already been decided")
	ErrInvalidDateRange      = errors.New("leave end date is before start date")
)
