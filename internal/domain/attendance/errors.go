package attendance

import (
	"errors"
	"fmt"
)

// Attendance domain errors
var (
	// Clock-in errors
	ErrDuplicateOpenFact  = errors.New("an open attendance record already exists for this employee")
	ErrNoActiveAssignment = errors.New("employee has no active site assignment")
	ErrNotClockedIn       = errors.New("no open attendance record to clock out")

	// General errors
	ErrFactNotFound       = errors.New("attendance record not found")
	ErrFactAlreadyClosed  = errors.New("attendance record is already closed")
	ErrNoOvertimeToReview = errors.New("attendance record has no pending overtime")
)

// GeofenceError is a clock-in rejection for a location outside every
// assigned site's radius. It is distinct from plain validation because it
// carries the closest distance found, which the response surfaces to the
// caller.
type GeofenceError struct {
	MinDistanceMeters float64
}

func (e *GeofenceError) Error() string {
	return fmt.Sprintf("location is outside all assigned site geofences (closest site is %.0f m away)", e.MinDistanceMeters)
}
