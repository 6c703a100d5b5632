package cashadvance

import "context"

// Service defines the cash-advance lifecycle. Balance amortization itself
// happens inside the payroll approval transaction, not here.
type Service interface {
	RequestAdvance(ctx context.Context, req CreateAdvanceRequest) (AdvanceResponse, error)

	// ApproveAdvance validates the per-period deduction against the
	// principal before approving.
	ApproveAdvance(ctx context.Context, id string) (AdvanceResponse, error)

	RejectAdvance(ctx context.Context, id string) (AdvanceResponse, error)

	// DisburseAdvance hands the money out and opens the balance for
	// payroll amortization.
	DisburseAdvance(ctx context.Context, id string) (AdvanceResponse, error)

	GetAdvance(ctx context.Context, id string) (AdvanceResponse, error)

	ListByEmployee(ctx context.Context, employeeID string) ([]AdvanceResponse, error)
}
