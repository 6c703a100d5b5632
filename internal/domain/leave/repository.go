package leave

import "context"

type LeaveTypeRepository interface {
	GetByID(ctx context.Context, id string) (LeaveType, error)
	ListActive(ctx context.Context) ([]LeaveType, error)
}

type AllocationRepository interface {
	GetByID(ctx context.Context, id string) (Allocation, error)
	GetByEmployeeTypeYear(ctx context.Context, employeeID, leaveTypeID string, year int) (Allocation, error)
	Upsert(ctx context.Context, allocation Allocation) (Allocation, error)
	Update(ctx context.Context, allocation Allocation) error
}

type RequestRepository interface {
	Create(ctx context.Context, request Request) (Request, error)
	GetByID(ctx context.Context, id string) (Request, error)
	Update(ctx context.Context, request Request) error

	// ListAll batch-fetches every request with leave-type fields joined,
	// for payroll aggregation. Filtering to the period happens in memory.
	ListAll(ctx context.Context) ([]Request, error)

	ListByEmployee(ctx context.Context, employeeID string) ([]Request, error)
}
