package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sagana-hq/workforce-backend-go/internal/domain/attendance"
	"github.com/sagana-hq/workforce-backend-go/internal/domain/cashadvance"
	"github.com/sagana-hq/workforce-backend-go/internal/domain/contribution"
	"github.com/sagana-hq/workforce-backend-go/internal/domain/employee"
	"github.com/sagana-hq/workforce-backend-go/internal/domain/leave"
	"github.com/sagana-hq/workforce-backend-go/internal/domain/payroll"
	"github.com/sagana-hq/workforce-backend-go/internal/domain/site"
	"github.com/sagana-hq/workforce-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// A geofence rejection carries the closest distance found so the
	// client can show how far off the employee was.
	var geofenceErr *attendance.GeofenceError
	if errors.As(err, &geofenceErr) {
		BadRequest(w, "Outside all assigned site geofences", map[string]string{
			"min_distance_meters": fmt.Sprintf("%.1f", geofenceErr.MinDistanceMeters),
		})
		return
	}

	// A malformed contribution table is an operator problem, not a caller
	// problem.
	var cfgErr *contribution.ConfigError
	if errors.As(err, &cfgErr) {
		InternalServerError(w, cfgErr.Error())
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrDuplicateOpenFact):
		Conflict(w, "Already clocked in")
	case errors.Is(err, attendance.ErrNoActiveAssignment):
		BadRequest(w, "No active site assignment", nil)
	case errors.Is(err, attendance.ErrNotClockedIn):
		BadRequest(w, "No open attendance to clock out", nil)
	case errors.Is(err, attendance.ErrFactNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrFactAlreadyClosed):
		Conflict(w, "Attendance record already closed")
	case errors.Is(err, attendance.ErrNoOvertimeToReview):
		Conflict(w, "No pending overtime on this attendance record")

	// Employee / site domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeNotEligible):
		BadRequest(w, "Employee is not payroll eligible", nil)
	case errors.Is(err, employee.ErrInvalidShiftWindow):
		InternalServerError(w, "Employee shift window is misconfigured")
	case errors.Is(err, site.ErrSiteNotFound):
		NotFound(w, "Site not found")

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveTypeNotFound):
		NotFound(w, "Leave type not found")
	case errors.Is(err, leave.ErrAllocationNotFound):
		NotFound(w, "Leave allocation not found")
	case errors.Is(err, leave.ErrRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrInsufficientBalance):
		BadRequest(w, "Insufficient leave balance", nil)
	case errors.Is(err, leave.ErrRequestAlreadyDecided):
		Conflict(w, "Leave request already decided")

	// Cash advance domain errors
	case errors.Is(err, cashadvance.ErrAdvanceNotFound):
		NotFound(w, "Cash advance not found")
	case errors.Is(err, cashadvance.ErrAdvanceAlreadyDecided):
		Conflict(w, "Cash advance already decided")
	case errors.Is(err, cashadvance.ErrNotApproved):
		Conflict(w, "Cash advance is not approved for disbursement")
	case errors.Is(err, cashadvance.ErrDeductionExceedsPrincipal):
		BadRequest(w, "Per-period deduction exceeds principal", nil)
	case errors.Is(err, cashadvance.ErrInsufficientBalance):
		Conflict(w, "Deduction exceeds remaining balance")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPeriodNotFound):
		NotFound(w, "Payroll period not found")
	case errors.Is(err, payroll.ErrRecordNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrNotDraft):
		Conflict(w, "Payroll record is not in draft status")
	case errors.Is(err, payroll.ErrNotApproved):
		Conflict(w, "Payroll record is not in approved status")
	case errors.Is(err, payroll.ErrRecordImmutable):
		Conflict(w, "Payroll record is released and immutable")

	// Contribution domain errors
	case errors.Is(err, contribution.ErrTableNotFound):
		NotFound(w, "Contribution table not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
