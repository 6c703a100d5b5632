package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sagana-hq/workforce-backend-go/internal/domain/attendance"
	"github.com/sagana-hq/workforce-backend-go/internal/pkg/database"
)

// openFactIndex is the partial unique index that allows at most one row
// with time_out IS NULL per employee.
const openFactIndex = "attendance_facts_one_open_per_employee"

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.FactRepository {
	return &attendanceRepository{db: db}
}

const factColumns = `
	id, employee_id, shift_date, time_in, time_out, shift_type,
	verification_status, late_minutes, late_deductible,
	overtime_minutes, overtime_status, overtime_category,
	lunch_deduction_minutes, total_worked_minutes, is_overtime_session,
	clock_in_latitude, clock_in_longitude, created_at, updated_at
`

// Create implements attendance.FactRepository.
func (r *attendanceRepository) Create(ctx context.Context, fact attendance.Fact) (attendance.Fact, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_facts (
			employee_id, shift_date, time_in, shift_type, verification_status,
			late_minutes, late_deductible, overtime_category, is_overtime_session,
			clock_in_latitude, clock_in_longitude
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		fact.EmployeeID,
		fact.ShiftDate,
		fact.TimeIn,
		fact.ShiftType,
		fact.VerificationStatus,
		fact.LateMinutes,
		fact.LateDeductible,
		fact.OvertimeCategory,
		fact.IsOvertimeSession,
		fact.ClockInLatitude,
		fact.ClockInLongitude,
	).Scan(&fact.ID, &fact.CreatedAt, &fact.UpdatedAt)

	if err != nil {
		if database.IsUniqueViolation(err, openFactIndex) {
			return attendance.Fact{}, attendance.ErrDuplicateOpenFact
		}
		return attendance.Fact{}, fmt.Errorf("failed to create attendance fact: %w", err)
	}
	return fact, nil
}

// GetByID implements attendance.FactRepository.
func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Fact, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + factColumns + ` FROM attendance_facts WHERE id = $1`

	fact, err := scanFact(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Fact{}, attendance.ErrFactNotFound
		}
		return attendance.Fact{}, fmt.Errorf("failed to get attendance fact: %w", err)
	}
	return fact, nil
}

// GetOpenFact implements attendance.FactRepository.
func (r *attendanceRepository) GetOpenFact(ctx context.Context, employeeID string) (attendance.Fact, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + factColumns + `
		FROM attendance_facts
		WHERE employee_id = $1
		  AND time_out IS NULL
		LIMIT 1
	`

	fact, err := scanFact(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Fact{}, attendance.ErrNotClockedIn
		}
		return attendance.Fact{}, fmt.Errorf("failed to get open attendance fact: %w", err)
	}
	return fact, nil
}

// GetByEmployeeAndShiftDate implements attendance.FactRepository.
func (r *attendanceRepository) GetByEmployeeAndShiftDate(ctx context.Context, employeeID string, shiftDate time.Time) (*attendance.Fact, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + factColumns + `
		FROM attendance_facts
		WHERE employee_id = $1
		  AND shift_date = $2
		  AND is_overtime_session = FALSE
		LIMIT 1
	`

	fact, err := scanFact(q.QueryRow(ctx, query, employeeID, shiftDate))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance fact by shift date: %w", err)
	}
	return &fact, nil
}

// Update implements attendance.FactRepository.
func (r *attendanceRepository) Update(ctx context.Context, fact attendance.Fact) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_facts SET
			time_in = $2,
			time_out = $3,
			verification_status = $4,
			late_minutes = $5,
			late_deductible = $6,
			overtime_minutes = $7,
			overtime_status = $8,
			overtime_category = $9,
			lunch_deduction_minutes = $10,
			total_worked_minutes = $11,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		fact.ID,
		fact.TimeIn,
		fact.TimeOut,
		fact.VerificationStatus,
		fact.LateMinutes,
		fact.LateDeductible,
		fact.OvertimeMinutes,
		fact.OvertimeStatus,
		fact.OvertimeCategory,
		fact.LunchDeductionMinutes,
		fact.TotalWorkedMinutes,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance fact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrFactNotFound
	}
	return nil
}

// ListByDateRange implements attendance.FactRepository.
func (r *attendanceRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]attendance.Fact, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + factColumns + `
		FROM attendance_facts
		WHERE shift_date >= $1
		  AND shift_date <= $2
		ORDER BY employee_id, shift_date
	`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance facts: %w", err)
	}
	defer rows.Close()

	return collectFacts(rows)
}

// List implements attendance.FactRepository.
func (r *attendanceRepository) List(ctx context.Context, filter attendance.FactFilter) ([]attendance.Fact, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "TRUE"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND f.employee_id = $%d", argIdx)
		args = append(args, filter.EmployeeID)
		argIdx++
	}
	if filter.DateFrom != nil {
		baseWhere += fmt.Sprintf(" AND f.shift_date >= $%d", argIdx)
		args = append(args, *filter.DateFrom)
		argIdx++
	}
	if filter.DateTo != nil {
		baseWhere += fmt.Sprintf(" AND f.shift_date <= $%d", argIdx)
		args = append(args, *filter.DateTo)
		argIdx++
	}

	countQuery := `SELECT COUNT(*) FROM attendance_facts f WHERE ` + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance facts: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT
			f.id, f.employee_id, f.shift_date, f.time_in, f.time_out, f.shift_type,
			f.verification_status, f.late_minutes, f.late_deductible,
			f.overtime_minutes, f.overtime_status, f.overtime_category,
			f.lunch_deduction_minutes, f.total_worked_minutes, f.is_overtime_session,
			f.clock_in_latitude, f.clock_in_longitude, f.created_at, f.updated_at,
			e.full_name AS employee_name
		FROM attendance_facts f
		LEFT JOIN employees e ON e.id = f.employee_id
		WHERE %s
		ORDER BY f.shift_date DESC, f.time_in DESC
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	page := filter.Page
	if page == 0 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendance facts: %w", err)
	}
	defer rows.Close()

	var facts []attendance.Fact
	for rows.Next() {
		var f attendance.Fact
		if err := rows.Scan(
			&f.ID, &f.EmployeeID, &f.ShiftDate, &f.TimeIn, &f.TimeOut, &f.ShiftType,
			&f.VerificationStatus, &f.LateMinutes, &f.LateDeductible,
			&f.OvertimeMinutes, &f.OvertimeStatus, &f.OvertimeCategory,
			&f.LunchDeductionMinutes, &f.TotalWorkedMinutes, &f.IsOvertimeSession,
			&f.ClockInLatitude, &f.ClockInLongitude, &f.CreatedAt, &f.UpdatedAt,
			&f.EmployeeName,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance fact: %w", err)
		}
		facts = append(facts, f)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate attendance facts: %w", err)
	}
	return facts, total, nil
}

func scanFact(row pgx.Row) (attendance.Fact, error) {
	var f attendance.Fact
	err := row.Scan(
		&f.ID, &f.EmployeeID, &f.ShiftDate, &f.TimeIn, &f.TimeOut, &f.ShiftType,
		&f.VerificationStatus, &f.LateMinutes, &f.LateDeductible,
		&f.OvertimeMinutes, &f.OvertimeStatus, &f.OvertimeCategory,
		&f.LunchDeductionMinutes, &f.TotalWorkedMinutes, &f.IsOvertimeSession,
		&f.ClockInLatitude, &f.ClockInLongitude, &f.CreatedAt, &f.UpdatedAt,
	)
	return f, err
}

func collectFacts(rows pgx.Rows) ([]attendance.Fact, error) {
	var facts []attendance.Fact
	for rows.Next() {
		f, err := scanFact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance fact: %w", err)
		}
		facts = append(facts, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance facts: %w", err)
	}
	return facts, nil
}
