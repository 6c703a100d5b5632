package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)

	// ListPayrollEligible returns every employee whose status admits payroll
	// computation (active or probationary), in one batch call.
	ListPayrollEligible(ctx context.Context) ([]Employee, error)
}
