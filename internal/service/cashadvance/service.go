package cashadvance

import (
	"context"
	"errors"
	"fmt"

	"github.com/sagana-hq/workforce-backend-go/internal/domain/cashadvance"
	"github.com/sagana-hq/workforce-backend-go/internal/domain/employee"
	"github.com/sagana-hq/workforce-backend-go/internal/pkg/civiltime"
)

type CashAdvanceServiceImpl struct {
	cashadvance.Repository
	employee.EmployeeRepository
}

func NewCashAdvanceService(
	advanceRepo cashadvance.Repository,
	employeeRepo employee.EmployeeRepository,
) cashadvance.Service {
	return &CashAdvanceServiceImpl{
		Repository:         advanceRepo,
		EmployeeRepository: employeeRepo,
	}
}

// RequestAdvance implements cashadvance.Service.
func (c *CashAdvanceServiceImpl) RequestAdvance(ctx context.Context, req cashadvance.CreateAdvanceRequest) (cashadvance.AdvanceResponse, error) {
	if err := req.Validate(); err != nil {
		return cashadvance.AdvanceResponse{}, err
	}

	if _, err := c.EmployeeRepository.GetByID(ctx, req.EmployeeID); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return cashadvance.AdvanceResponse{}, employee.ErrEmployeeNotFound
		}
		return cashadvance.AdvanceResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	created, err := c.Repository.Create(ctx, cashadvance.CashAdvance{
		EmployeeID:         req.EmployeeID,
		Principal:          req.Principal,
		PerPeriodDeduction: req.PerPeriodDeduction,
		RemainingBalance:   req.Principal,
		Status:             cashadvance.StatusPending,
		RequestedAt:        civiltime.Now(),
	})
	if err != nil {
		return cashadvance.AdvanceResponse{}, fmt.Errorf("failed to create cash advance: %w", err)
	}

	return mapAdvanceToResponse(created), nil
}

// ApproveAdvance implements cashadvance.Service. The deduction-vs-principal
// invariant is checked here, at approval time, not at request time.
func (c *CashAdvanceServiceImpl) ApproveAdvance(ctx context.Context, id string) (cashadvance.AdvanceResponse, error) {
	advance, err := c.getAdvance(ctx, id)
	if err != nil {
		return cashadvance.AdvanceResponse{}, err
	}
	if advance.Status != cashadvance.StatusPending {
		return cashadvance.AdvanceResponse{}, cashadvance.ErrAdvanceAlreadyDecided
	}
	if advance.PerPeriodDeduction.GreaterThan(advance.Principal) {
		return cashadvance.AdvanceResponse{}, cashadvance.ErrDeductionExceedsPrincipal
	}

	now := civiltime.Now()
	advance.Status = cashadvance.StatusApproved
	advance.ApprovedAt = &now

	if err := c.Repository.Update(ctx, advance); err != nil {
		return cashadvance.AdvanceResponse{}, fmt.Errorf("failed to update cash advance: %w", err)
	}
	return mapAdvanceToResponse(advance), nil
}

// RejectAdvance implements cashadvance.Service.
func (c *CashAdvanceServiceImpl) RejectAdvance(ctx context.Context, id string) (cashadvance.AdvanceResponse, error) {
	advance, err := c.getAdvance(ctx, id)
	if err != nil {
		return cashadvance.AdvanceResponse{}, err
	}
	if advance.Status != cashadvance.StatusPending {
		return cashadvance.AdvanceResponse{}, cashadvance.ErrAdvanceAlreadyDecided
	}

	advance.Status = cashadvance.StatusRejected
	if err := c.Repository.Update(ctx, advance); err != nil {
		return cashadvance.AdvanceResponse{}, fmt.Errorf("failed to update cash advance: %w", err)
	}
	return mapAdvanceToResponse(advance), nil
}

// DisburseAdvance implements cashadvance.Service. From here on the balance
// only moves through the payroll approval transaction.
func (c *CashAdvanceServiceImpl) DisburseAdvance(ctx context.Context, id string) (cashadvance.AdvanceResponse, error) {
	advance, err := c.getAdvance(ctx, id)
	if err != nil {
		return cashadvance.AdvanceResponse{}, err
	}
	if advance.Status != cashadvance.StatusApproved {
		return cashadvance.AdvanceResponse{}, cashadvance.ErrNotApproved
	}

	now := civiltime.Now()
	advance.Status = cashadvance.StatusDisbursed
	advance.DisbursedAt = &now

	if err := c.Repository.Update(ctx, advance); err != nil {
		return cashadvance.AdvanceResponse{}, fmt.Errorf("failed to update cash advance: %w", err)
	}
	return mapAdvanceToResponse(advance), nil
}

// GetAdvance implements cashadvance.Service.
func (c *CashAdvanceServiceImpl) GetAdvance(ctx context.Context, id string) (cashadvance.AdvanceResponse, error) {
	advance, err := c.getAdvance(ctx, id)
	if err != nil {
		return cashadvance.AdvanceResponse{}, err
	}
	return mapAdvanceToResponse(advance), nil
}

// ListByEmployee implements cashadvance.Service.
func (c *CashAdvanceServiceImpl) ListByEmployee(ctx context.Context, employeeID string) ([]cashadvance.AdvanceResponse, error) {
	advances, err := c.Repository.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cash advances: %w", err)
	}

	responses := make([]cashadvance.AdvanceResponse, 0, len(advances))
	for _, a := range advances {
		responses = append(responses, mapAdvanceToResponse(a))
	}
	return responses, nil
}

func (c *CashAdvanceServiceImpl) getAdvance(ctx context.Context, id string) (cashadvance.CashAdvance, error) {
	advance, err := c.Repository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, cashadvance.ErrAdvanceNotFound) {
			return cashadvance.CashAdvance{}, cashadvance.ErrAdvanceNotFound
		}
		return cashadvance.CashAdvance{}, fmt.Errorf("failed to get cash advance: %w", err)
	}
	return advance, nil
}

func mapAdvanceToResponse(a cashadvance.CashAdvance) cashadvance.AdvanceResponse {
	return cashadvance.AdvanceResponse{
		ID:                 a.ID,
		EmployeeID:         a.EmployeeID,
		EmployeeName:       a.EmployeeName,
		Principal:          a.Principal,
		PerPeriodDeduction: a.PerPeriodDeduction,
		RemainingBalance:   a.RemainingBalance,
		Status:             string(a.Status),
	}
}
