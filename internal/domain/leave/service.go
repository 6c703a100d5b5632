package leave

import "context"

// Service defines leave allocation and request lifecycle logic.
type Service interface {
	// AccrueAllocation creates or refreshes the employee's allocation for
	// the year under the leave type's accrual method.
	AccrueAllocation(ctx context.Context, employeeID, leaveTypeID string, year int) (AllocationResponse, error)

	CreateRequest(ctx context.Context, req CreateRequestRequest) (RequestResponse, error)

	// DecideRequest approves or rejects a pending request; approval
	// consumes allocation balance.
	DecideRequest(ctx context.Context, req DecideRequestRequest) (RequestResponse, error)

	CancelRequest(ctx context.Context, requestID, employeeID string) (RequestResponse, error)

	// CorrectAllocation is the administrative override path for balances.
	CorrectAllocation(ctx context.Context, req CorrectAllocationRequest) (AllocationResponse, error)

	ListMyRequests(ctx context.Context, employeeID string) ([]RequestResponse, error)
}
