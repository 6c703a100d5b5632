package attendance

import (
	"context"
	"time"
)

// FactRepository defines data access methods for attendance facts.
type FactRepository interface {
	// Create inserts a new fact. The partial unique index on open facts
	// makes a concurrent double clock-in fail with ErrDuplicateOpenFact.
	Create(ctx context.Context, fact Fact) (Fact, error)

	GetByID(ctx context.Context, id string) (Fact, error)

	// GetOpenFact returns the employee's single open fact, or
	// ErrNotClockedIn when none exists.
	GetOpenFact(ctx context.Context, employeeID string) (Fact, error)

	// GetByEmployeeAndShiftDate returns the closed primary-session fact for
	// the shift date, if any. Used to flag follow-up sessions as overtime.
	GetByEmployeeAndShiftDate(ctx context.Context, employeeID string, shiftDate time.Time) (*Fact, error)

	Update(ctx context.Context, fact Fact) error

	// ListByDateRange batch-fetches all facts whose shift date falls in
	// [from, to], for payroll aggregation.
	ListByDateRange(ctx context.Context, from, to time.Time) ([]Fact, error)

	List(ctx context.Context, filter FactFilter) ([]Fact, int64, error)
}
