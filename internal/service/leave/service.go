package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sagana-hq/workforce-backend-go/internal/domain/employee"
	"github.com/sagana-hq/workforce-backend-go/internal/domain/leave"
	"github.com/sagana-hq/workforce-backend-go/internal/pkg/civiltime"
	"github.com/sagana-hq/workforce-backend-go/internal/pkg/validator"
)

type LeaveServiceImpl struct {
	leave.LeaveTypeRepository
	leave.AllocationRepository
	leave.RequestRepository
	employee.EmployeeRepository
}

func NewLeaveService(
	typeRepo leave.LeaveTypeRepository,
	allocationRepo leave.AllocationRepository,
	requestRepo leave.RequestRepository,
	employeeRepo employee.EmployeeRepository,
) leave.Service {
	return &LeaveServiceImpl{
		LeaveTypeRepository:  typeRepo,
		AllocationRepository: allocationRepo,
		RequestRepository:    requestRepo,
		EmployeeRepository:   employeeRepo,
	}
}

// AccrueAllocation implements leave.Service.
func (l *LeaveServiceImpl) AccrueAllocation(ctx context.Context, employeeID, leaveTypeID string, year int) (leave.AllocationResponse, error) {
	leaveType, err := l.LeaveTypeRepository.GetByID(ctx, leaveTypeID)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveTypeNotFound) {
			return leave.AllocationResponse{}, leave.ErrLeaveTypeNotFound
		}
		return leave.AllocationResponse{}, fmt.Errorf("failed to get leave type: %w", err)
	}

	emp, err := l.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return leave.AllocationResponse{}, employee.ErrEmployeeNotFound
		}
		return leave.AllocationResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	allocated := accruedDays(leaveType, emp.HireDate, year, civiltime.Now())

	allocation, err := l.AllocationRepository.Upsert(ctx, leave.Allocation{
		EmployeeID:    employeeID,
		LeaveTypeID:   leaveTypeID,
		Year:          year,
		AllocatedDays: allocated,
	})
	if err != nil {
		return leave.AllocationResponse{}, fmt.Errorf("failed to upsert allocation: %w", err)
	}

	return mapAllocationToResponse(allocation), nil
}

// accruedDays computes the allocation under the leave type's accrual method.
// Annual accrual grants the full year up front; monthly accrual grants
// annualDays/12 per completed month of service inside the year.
func accruedDays(lt leave.LeaveType, hireDate time.Time, year int, now time.Time) float64 {
	if lt.AccrualMethod == leave.AccrualAnnual {
		return lt.AnnualDays
	}

	from := civiltime.Date(year, time.January, 1)
	if hired := civiltime.DayOf(hireDate); hired.After(from) {
		from = hired
	}
	cutoff := civiltime.DayOf(now)

	// A month counts once the employee was on board for all of it: hired on
	// or before its first day, and its last day already reached.
	months := 0
	for m := time.January; m <= time.December; m++ {
		monthStart := civiltime.Date(year, m, 1)
		monthEnd := monthStart.AddDate(0, 1, -1)
		if !monthStart.Before(from) && !monthEnd.After(cutoff) {
			months++
		}
	}

	return lt.AnnualDays / 12 * float64(months)
}

// CreateRequest implements leave.Service.
func (l *LeaveServiceImpl) CreateRequest(ctx context.Context, req leave.CreateRequestRequest) (leave.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.RequestResponse{}, err
	}

	leaveType, err := l.LeaveTypeRepository.GetByID(ctx, req.LeaveTypeID)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveTypeNotFound) {
			return leave.RequestResponse{}, leave.ErrLeaveTypeNotFound
		}
		return leave.RequestResponse{}, fmt.Errorf("failed to get leave type: %w", err)
	}
	if !leaveType.IsActive {
		return leave.RequestResponse{}, leave.ErrLeaveTypeNotFound
	}

	startDate, _ := civiltime.ParseDate(req.StartDate)
	endDate, _ := civiltime.ParseDate(req.EndDate)
	days := float64(int(endDate.Sub(startDate)/(24*time.Hour)) + 1)

	allocation, err := l.AllocationRepository.GetByEmployeeTypeYear(ctx, req.EmployeeID, req.LeaveTypeID, startDate.Year())
	if err != nil {
		if errors.Is(err, leave.ErrAllocationNotFound) {
			return leave.RequestResponse{}, leave.ErrAllocationNotFound
		}
		return leave.RequestResponse{}, fmt.Errorf("failed to get allocation: %w", err)
	}
	if days > allocation.Remaining() {
		return leave.RequestResponse{}, leave.ErrInsufficientBalance
	}

	created, err := l.RequestRepository.Create(ctx, leave.Request{
		EmployeeID:   req.EmployeeID,
		AllocationID: allocation.ID,
		LeaveTypeID:  req.LeaveTypeID,
		StartDate:    startDate,
		EndDate:      endDate,
		Days:         days,
		Status:       leave.RequestPending,
		Reason:       req.Reason,
	})
	if err != nil {
		return leave.RequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return mapRequestToResponse(created), nil
}

// DecideRequest implements leave.Service. Approval consumes allocation
// balance; a second decision on the same request is rejected.
func (l *LeaveServiceImpl) DecideRequest(ctx context.Context, req leave.DecideRequestRequest) (leave.RequestResponse, error) {
	request, err := l.RequestRepository.GetByID(ctx, req.RequestID)
	if err != nil {
		if errors.Is(err, leave.ErrRequestNotFound) {
			return leave.RequestResponse{}, leave.ErrRequestNotFound
		}
		return leave.RequestResponse{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	if request.Status != leave.RequestPending {
		return leave.RequestResponse{}, leave.ErrRequestAlreadyDecided
	}

	if req.Approve {
		allocation, err := l.AllocationRepository.GetByID(ctx, request.AllocationID)
		if err != nil {
			return leave.RequestResponse{}, fmt.Errorf("failed to get allocation: %w", err)
		}
		if request.Days > allocation.Remaining() {
			return leave.RequestResponse{}, leave.ErrInsufficientBalance
		}
		allocation.UsedDays += request.Days
		if err := l.AllocationRepository.Update(ctx, allocation); err != nil {
			return leave.RequestResponse{}, fmt.Errorf("failed to update allocation: %w", err)
		}
		request.Status = leave.RequestApproved
	} else {
		request.Status = leave.RequestRejected
	}

	now := civiltime.Now()
	request.DecidedBy = &req.DecidedBy
	request.DecidedAt = &now

	if err := l.RequestRepository.Update(ctx, request); err != nil {
		return leave.RequestResponse{}, fmt.Errorf("failed to update leave request: %w", err)
	}

	return mapRequestToResponse(request), nil
}

// CancelRequest implements leave.Service. Only the owner may cancel, and
// only while the request is still pending.
func (l *LeaveServiceImpl) CancelRequest(ctx context.Context, requestID, employeeID string) (leave.RequestResponse, error) {
	request, err := l.RequestRepository.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, leave.ErrRequestNotFound) {
			return leave.RequestResponse{}, leave.ErrRequestNotFound
		}
		return leave.RequestResponse{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	if request.EmployeeID != employeeID {
		return leave.RequestResponse{}, leave.ErrRequestNotFound
	}
	if request.Status != leave.RequestPending {
		return leave.RequestResponse{}, leave.ErrRequestAlreadyDecided
	}

	request.Status = leave.RequestCancelled
	if err := l.RequestRepository.Update(ctx, request); err != nil {
		return leave.RequestResponse{}, fmt.Errorf("failed to update leave request: %w", err)
	}

	return mapRequestToResponse(request), nil
}

// CorrectAllocation implements leave.Service. With Override set, used days
// may exceed the allocation; the flag is recorded on the row.
func (l *LeaveServiceImpl) CorrectAllocation(ctx context.Context, req leave.CorrectAllocationRequest) (leave.AllocationResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.AllocationResponse{}, err
	}

	allocation, err := l.AllocationRepository.GetByID(ctx, req.AllocationID)
	if err != nil {
		if errors.Is(err, leave.ErrAllocationNotFound) {
			return leave.AllocationResponse{}, leave.ErrAllocationNotFound
		}
		return leave.AllocationResponse{}, fmt.Errorf("failed to get allocation: %w", err)
	}

	if req.AllocatedDays != nil {
		allocation.AllocatedDays = *req.AllocatedDays
	}
	if req.UsedDays != nil {
		allocation.UsedDays = *req.UsedDays
	}

	if allocation.UsedDays > allocation.AllocatedDays {
		if !req.Override {
			return leave.AllocationResponse{}, validator.ValidationErrors{
				{Field: "used_days", Message: "used_days exceeds allocated_days; set override to confirm"},
			}
		}
		allocation.OverrideFlag = true
	}

	if err := l.AllocationRepository.Update(ctx, allocation); err != nil {
		return leave.AllocationResponse{}, fmt.Errorf("failed to update allocation: %w", err)
	}

	return mapAllocationToResponse(allocation), nil
}

// ListMyRequests implements leave.Service.
func (l *LeaveServiceImpl) ListMyRequests(ctx context.Context, employeeID string) ([]leave.RequestResponse, error) {
	requests, err := l.RequestRepository.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}

	responses := make([]leave.RequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, mapRequestToResponse(r))
	}
	return responses, nil
}

func mapRequestToResponse(r leave.Request) leave.RequestResponse {
	return leave.RequestResponse{
		ID:            r.ID,
		EmployeeID:    r.EmployeeID,
		LeaveTypeID:   r.LeaveTypeID,
		LeaveTypeName: r.LeaveTypeName,
		StartDate:     r.StartDate.Format("2006-01-02"),
		EndDate:       r.EndDate.Format("2006-01-02"),
		Days:          r.Days,
		Status:        string(r.Status),
		Reason:        r.Reason,
	}
}

func mapAllocationToResponse(a leave.Allocation) leave.AllocationResponse {
	return leave.AllocationResponse{
		ID:            a.ID,
		EmployeeID:    a.EmployeeID,
		LeaveTypeID:   a.LeaveTypeID,
		Year:          a.Year,
		AllocatedDays: a.AllocatedDays,
		UsedDays:      a.UsedDays,
		RemainingDays: a.Remaining(),
	}
}
