package attendance

import "context"

// Service defines business logic for attendance verification.
type Service interface {
	// ClockIn validates geofence containment and opens a fact, or rejects
	// with a typed error. No partial fact is ever persisted on rejection.
	ClockIn(ctx context.Context, req ClockInRequest) (FactResponse, error)

	// ClockOut closes the employee's open fact and derives worked minutes,
	// lunch deduction, and overtime.
	ClockOut(ctx context.Context, req ClockOutRequest) (FactResponse, error)

	// ReviewOvertime approves or rejects a fact's pending overtime.
	ReviewOvertime(ctx context.Context, req ReviewOvertimeRequest) (FactResponse, error)

	// CorrectFact applies an administrative correction to a finalized fact.
	CorrectFact(ctx context.Context, req CorrectFactRequest) (FactResponse, error)

	GetFact(ctx context.Context, id string) (FactResponse, error)

	ListFacts(ctx context.Context, filter FactFilter) (ListFactsResponse, error)
}
