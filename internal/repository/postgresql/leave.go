package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sagana-hq/workforce-backend-go/internal/domain/leave"
	"github.com/sagana-hq/workforce-backend-go/internal/pkg/database"
)

// ---------- leave types ----------

type leaveTypeRepository struct {
	db *database.DB
}

func NewLeaveTypeRepository(db *database.DB) leave.LeaveTypeRepository {
	return &leaveTypeRepository{db: db}
}

// GetByID implements leave.LeaveTypeRepository.
func (r *leaveTypeRepository) GetByID(ctx context.Context, id string) (leave.LeaveType, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, code, is_paid, accrual_method, annual_days, is_active,
			   created_at, updated_at
		FROM leave_types
		WHERE id = $1
	`

	var lt leave.LeaveType
	err := q.QueryRow(ctx, query, id).Scan(
		&lt.ID, &lt.Name, &lt.Code, &lt.IsPaid, &lt.AccrualMethod,
		&lt.AnnualDays, &lt.IsActive, &lt.CreatedAt, &lt.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
		}
		return leave.LeaveType{}, fmt.Errorf("failed to get leave type: %w", err)
	}
	return lt, nil
}

// ListActive implements leave.LeaveTypeRepository.
func (r *leaveTypeRepository) ListActive(ctx context.Context) ([]leave.LeaveType, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, code, is_paid, accrual_method, annual_days, is_active,
			   created_at, updated_at
		FROM leave_types
		WHERE is_active = TRUE
		ORDER BY name
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave types: %w", err)
	}
	defer rows.Close()

	var types []leave.LeaveType
	for rows.Next() {
		var lt leave.LeaveType
		if err := rows.Scan(
			&lt.ID, &lt.Name, &lt.Code, &lt.IsPaid, &lt.AccrualMethod,
			&lt.AnnualDays, &lt.IsActive, &lt.CreatedAt, &lt.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan leave type: %w", err)
		}
		types = append(types, lt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leave types: %w", err)
	}
	return types, nil
}

// ---------- allocations ----------

type leaveAllocationRepository struct {
	db *database.DB
}

func NewLeaveAllocationRepository(db *database.DB) leave.AllocationRepository {
	return &leaveAllocationRepository{db: db}
}

const allocationColumns = `
	id, employee_id, leave_type_id, year, allocated_days, used_days,
	override_flag, created_at, updated_at
`

// GetByID implements leave.AllocationRepository.
func (r *leaveAllocationRepository) GetByID(ctx context.Context, id string) (leave.Allocation, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + allocationColumns + ` FROM leave_allocations WHERE id = $1`

	a, err := scanAllocation(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.Allocation{}, leave.ErrAllocationNotFound
		}
		return leave.Allocation{}, fmt.Errorf("failed to get allocation: %w", err)
	}
	return a, nil
}

// GetByEmployeeTypeYear implements leave.AllocationRepository.
func (r *leaveAllocationRepository) GetByEmployeeTypeYear(ctx context.Context, employeeID, leaveTypeID string, year int) (leave.Allocation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + allocationColumns + `
		FROM leave_allocations
		WHERE employee_id = $1
		  AND leave_type_id = $2
		  AND year = $3
	`

	a, err := scanAllocation(q.QueryRow(ctx, query, employeeID, leaveTypeID, year))
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.Allocation{}, leave.ErrAllocationNotFound
		}
		return leave.Allocation{}, fmt.Errorf("failed to get allocation: %w", err)
	}
	return a, nil
}

// Upsert implements leave.AllocationRepository. Re-accrual refreshes the
// grant without disturbing what has already been used.
func (r *leaveAllocationRepository) Upsert(ctx context.Context, allocation leave.Allocation) (leave.Allocation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_allocations (employee_id, leave_type_id, year, allocated_days, used_days)
		VALUES ($1, $2, $3, $4, 0)
		ON CONFLICT (employee_id, leave_type_id, year)
		DO UPDATE SET allocated_days = EXCLUDED.allocated_days, updated_at = NOW()
		RETURNING ` + allocationColumns

	a, err := scanAllocation(q.QueryRow(ctx, query,
		allocation.EmployeeID, allocation.LeaveTypeID, allocation.Year, allocation.AllocatedDays,
	))
	if err != nil {
		return leave.Allocation{}, fmt.Errorf("failed to upsert allocation: %w", err)
	}
	return a, nil
}

// Update implements leave.AllocationRepository.
func (r *leaveAllocationRepository) Update(ctx context.Context, allocation leave.Allocation) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_allocations SET
			allocated_days = $2,
			used_days = $3,
			override_flag = $4,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, allocation.ID, allocation.AllocatedDays, allocation.UsedDays, allocation.OverrideFlag)
	if err != nil {
		return fmt.Errorf("failed to update allocation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrAllocationNotFound
	}
	return nil
}

func scanAllocation(row pgx.Row) (leave.Allocation, error) {
	var a leave.Allocation
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.LeaveTypeID, &a.Year,
		&a.AllocatedDays, &a.UsedDays, &a.OverrideFlag,
		&a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

// ---------- requests ----------

type leaveRequestRepository struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.RequestRepository {
	return &leaveRequestRepository{db: db}
}

const requestSelect = `
	SELECT r.id, r.employee_id, r.allocation_id, r.leave_type_id,
		   r.start_date, r.end_date, r.days, r.status, r.reason,
		   r.decided_by, r.decided_at, r.created_at, r.updated_at,
		   lt.name AS leave_type_name, lt.is_paid
	FROM leave_requests r
	JOIN leave_types lt ON lt.id = r.leave_type_id
`

// Create implements leave.RequestRepository.
func (r *leaveRequestRepository) Create(ctx context.Context, request leave.Request) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			employee_id, allocation_id, leave_type_id, start_date, end_date,
			days, status, reason
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.EmployeeID, request.AllocationID, request.LeaveTypeID,
		request.StartDate, request.EndDate, request.Days,
		request.Status, request.Reason,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return leave.Request{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return request, nil
}

// GetByID implements leave.RequestRepository.
func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := requestSelect + ` WHERE r.id = $1`

	req, err := scanRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.Request{}, leave.ErrRequestNotFound
		}
		return leave.Request{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return req, nil
}

// Update implements leave.RequestRepository.
func (r *leaveRequestRepository) Update(ctx context.Context, request leave.Request) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests SET
			status = $2,
			decided_by = $3,
			decided_at = $4,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, request.ID, request.Status, request.DecidedBy, request.DecidedAt)
	if err != nil {
		return fmt.Errorf("failed to update leave request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrRequestNotFound
	}
	return nil
}

// ListAll implements leave.RequestRepository.
func (r *leaveRequestRepository) ListAll(ctx context.Context) ([]leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, requestSelect+` ORDER BY r.start_date`)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave requests: %w", err)
	}
	defer rows.Close()

	return collectRequests(rows)
}

// ListByEmployee implements leave.RequestRepository.
func (r *leaveRequestRepository) ListByEmployee(ctx context.Context, employeeID string) ([]leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, requestSelect+` WHERE r.employee_id = $1 ORDER BY r.start_date DESC`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave requests: %w", err)
	}
	defer rows.Close()

	return collectRequests(rows)
}

func scanRequest(row pgx.Row) (leave.Request, error) {
	var req leave.Request
	err := row.Scan(
		&req.ID, &req.EmployeeID, &req.AllocationID, &req.LeaveTypeID,
		&req.StartDate, &req.EndDate, &req.Days, &req.Status, &req.Reason,
		&req.DecidedBy, &req.DecidedAt, &req.CreatedAt, &req.UpdatedAt,
		&req.LeaveTypeName, &req.IsPaid,
	)
	return req, err
}

func collectRequests(rows pgx.Rows) ([]leave.Request, error) {
	var requests []leave.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leave requests: %w", err)
	}
	return requests, nil
}
