package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/sagana-hq/workforce-backend-go/internal/domain/payroll"
	"github.com/sagana-hq/workforce-backend-go/internal/pkg/database"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.RecordRepository {
	return &payrollRepository{db: db}
}

// GetPeriodByID implements payroll.RecordRepository.
func (r *payrollRepository) GetPeriodByID(ctx context.Context, id string) (payroll.Period, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, start_date, end_date, pay_date, status, created_at, updated_at
		FROM payroll_periods
		WHERE id = $1
	`

	var p payroll.Period
	err := q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.StartDate, &p.EndDate, &p.PayDate, &p.Status,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Period{}, payroll.ErrPeriodNotFound
		}
		return payroll.Period{}, fmt.Errorf("failed to get payroll period: %w", err)
	}
	return p, nil
}

const recordColumns = `
	id, employee_id, period_id,
	days_worked, basic_pay, overtime_pay, overtime_detail,
	paid_leave_days, paid_leave_pay, gross_pay,
	sss, philhealth, pagibig, withholding_tax,
	cash_advance_installment, installments_detail,
	late_deduction, unpaid_leave_days, unpaid_leave_deduction,
	net_pay, status, approved_by, approved_at, released_by, released_at,
	created_at, updated_at
`

// CreateRecord implements payroll.RecordRepository.
func (r *payrollRepository) CreateRecord(ctx context.Context, record payroll.Record) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	overtimeDetail, installmentsDetail, err := marshalDetails(record)
	if err != nil {
		return payroll.Record{}, err
	}

	query := `
		INSERT INTO payroll_records (
			employee_id, period_id,
			days_worked, basic_pay, overtime_pay, overtime_detail,
			paid_leave_days, paid_leave_pay, gross_pay,
			sss, philhealth, pagibig, withholding_tax,
			cash_advance_installment, installments_detail,
			late_deduction, unpaid_leave_days, unpaid_leave_deduction,
			net_pay, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20
		) RETURNING id, created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		record.EmployeeID, record.PeriodID,
		record.DaysWorked, record.BasicPay, record.OvertimePay, overtimeDetail,
		record.PaidLeaveDays, record.PaidLeavePay, record.GrossPay,
		record.SSS, record.PhilHealth, record.PagIBIG, record.WithholdingTax,
		record.CashAdvanceInstallment, installmentsDetail,
		record.LateDeduction, record.UnpaidLeaveDays, record.UnpaidLeaveDeduction,
		record.NetPay, record.Status,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return payroll.Record{}, fmt.Errorf("failed to create payroll record: %w", err)
	}
	return record, nil
}

// GetRecordByID implements payroll.RecordRepository.
func (r *payrollRepository) GetRecordByID(ctx context.Context, id string) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + recordColumns + ` FROM payroll_records WHERE id = $1`

	record, err := scanRecord(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Record{}, payroll.ErrRecordNotFound
		}
		return payroll.Record{}, fmt.Errorf("failed to get payroll record: %w", err)
	}
	return record, nil
}

// GetRecordsByPeriod implements payroll.RecordRepository.
func (r *payrollRepository) GetRecordsByPeriod(ctx context.Context, periodID string) ([]payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + recordColumns + ` FROM payroll_records WHERE period_id = $1`

	rows, err := q.Query(ctx, query, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payroll records: %w", err)
	}
	return records, nil
}

// ReplaceDraftRecord implements payroll.RecordRepository. The status guard
// in the WHERE clause makes overwriting a non-Draft record impossible even
// under a racing approval.
func (r *payrollRepository) ReplaceDraftRecord(ctx context.Context, record payroll.Record) error {
	q := GetQuerier(ctx, r.db)

	overtimeDetail, installmentsDetail, err := marshalDetails(record)
	if err != nil {
		return err
	}

	query := `
		UPDATE payroll_records SET
			days_worked = $2, basic_pay = $3, overtime_pay = $4, overtime_detail = $5,
			paid_leave_days = $6, paid_leave_pay = $7, gross_pay = $8,
			sss = $9, philhealth = $10, pagibig = $11, withholding_tax = $12,
			cash_advance_installment = $13, installments_detail = $14,
			late_deduction = $15, unpaid_leave_days = $16, unpaid_leave_deduction = $17,
			net_pay = $18, updated_at = NOW()
		WHERE id = $1
		  AND status = 'draft'
	`

	tag, err := q.Exec(ctx, query,
		record.ID,
		record.DaysWorked, record.BasicPay, record.OvertimePay, overtimeDetail,
		record.PaidLeaveDays, record.PaidLeavePay, record.GrossPay,
		record.SSS, record.PhilHealth, record.PagIBIG, record.WithholdingTax,
		record.CashAdvanceInstallment, installmentsDetail,
		record.LateDeduction, record.UnpaidLeaveDays, record.UnpaidLeaveDeduction,
		record.NetPay,
	)
	if err != nil {
		return fmt.Errorf("failed to replace draft record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrNotDraft
	}
	return nil
}

// UpdateStatus implements payroll.RecordRepository. The WHERE clause pins
// the prior status so exactly one of two concurrent transitions wins; the
// loser sees zero rows and the state-conflict error for the status it
// expected.
func (r *payrollRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, record payroll.Record, from payroll.RecordStatus) error {
	var q database.Querier
	if tx != nil {
		q = tx
	} else {
		q = GetQuerier(ctx, r.db)
	}

	query := `
		UPDATE payroll_records SET
			status = $2,
			approved_by = $3,
			approved_at = $4,
			released_by = $5,
			released_at = $6,
			updated_at = NOW()
		WHERE id = $1
		  AND status = $7
	`

	tag, err := q.Exec(ctx, query,
		record.ID, record.Status,
		record.ApprovedBy, record.ApprovedAt,
		record.ReleasedBy, record.ReleasedAt,
		from,
	)
	if err != nil {
		return fmt.Errorf("failed to update payroll record status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		switch from {
		case payroll.RecordDraft:
			return payroll.ErrNotDraft
		case payroll.RecordApproved:
			return payroll.ErrNotApproved
		}
		return payroll.ErrRecordNotFound
	}
	return nil
}

// ListRecords implements payroll.RecordRepository.
func (r *payrollRepository) ListRecords(ctx context.Context, filter payroll.RecordFilter) ([]payroll.Record, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "TRUE"
	args := []interface{}{}
	argIdx := 1

	if filter.PeriodID != "" {
		baseWhere += fmt.Sprintf(" AND p.period_id = $%d", argIdx)
		args = append(args, filter.PeriodID)
		argIdx++
	}
	if filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND p.employee_id = $%d", argIdx)
		args = append(args, filter.EmployeeID)
		argIdx++
	}
	if filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND p.status = $%d", argIdx)
		args = append(args, filter.Status)
		argIdx++
	}

	countQuery := `SELECT COUNT(*) FROM payroll_records p WHERE ` + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll records: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT
			p.id, p.employee_id, p.period_id,
			p.days_worked, p.basic_pay, p.overtime_pay, p.overtime_detail,
			p.paid_leave_days, p.paid_leave_pay, p.gross_pay,
			p.sss, p.philhealth, p.pagibig, p.withholding_tax,
			p.cash_advance_installment, p.installments_detail,
			p.late_deduction, p.unpaid_leave_days, p.unpaid_leave_deduction,
			p.net_pay, p.status, p.approved_by, p.approved_at, p.released_by, p.released_at,
			p.created_at, p.updated_at,
			e.full_name AS employee_name,
			e.employee_code
		FROM payroll_records p
		LEFT JOIN employees e ON e.id = p.employee_id
		WHERE %s
		ORDER BY e.employee_code
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
		return nil, 0, fmt.Errorf("failed to query payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.Record
	for rows.Next() {
		var record payroll.Record
		var overtimeDetail, installmentsDetail []byte
		if err := rows.Scan(
			&record.ID, &record.EmployeeID, &record.PeriodID,
			&record.DaysWorked, &record.BasicPay, &record.OvertimePay, &overtimeDetail,
			&record.PaidLeaveDays, &record.PaidLeavePay, &record.GrossPay,
			&record.SSS, &record.PhilHealth, &record.PagIBIG, &record.WithholdingTax,
			&record.CashAdvanceInstallment, &installmentsDetail,
			&record.LateDeduction, &record.UnpaidLeaveDays, &record.UnpaidLeaveDeduction,
			&record.NetPay, &record.Status,
			&record.ApprovedBy, &record.ApprovedAt, &record.ReleasedBy, &record.ReleasedAt,
			&record.CreatedAt, &record.UpdatedAt,
			&record.EmployeeName, &record.EmployeeCode,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		if err := unmarshalDetails(&record, overtimeDetail, installmentsDetail); err != nil {
			return nil, 0, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate payroll records: %w", err)
	}
	return records, total, nil
}

// DeleteDraftRecord implements payroll.RecordRepository.
func (r *payrollRepository) DeleteDraftRecord(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM payroll_records WHERE id = $1 AND status = 'draft'`, id)
	if err != nil {
		return fmt.Errorf("failed to delete payroll record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrNotDraft
	}
	return nil
}

func scanRecord(row pgx.Row) (payroll.Record, error) {
	var record payroll.Record
	var overtimeDetail, installmentsDetail []byte
	err := row.Scan(
		&record.ID, &record.EmployeeID, &record.PeriodID,
		&record.DaysWorked, &record.BasicPay, &record.OvertimePay, &overtimeDetail,
		&record.PaidLeaveDays, &record.PaidLeavePay, &record.GrossPay,
		&record.SSS, &record.PhilHealth, &record.PagIBIG, &record.WithholdingTax,
		&record.CashAdvanceInstallment, &installmentsDetail,
		&record.LateDeduction, &record.UnpaidLeaveDays, &record.UnpaidLeaveDeduction,
		&record.NetPay, &record.Status,
		&record.ApprovedBy, &record.ApprovedAt, &record.ReleasedBy, &record.ReleasedAt,
		&record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return payroll.Record{}, err
	}
	if err := unmarshalDetails(&record, overtimeDetail, installmentsDetail); err != nil {
		return payroll.Record{}, err
	}
	return record, nil
}

func marshalDetails(record payroll.Record) ([]byte, []byte, error) {
	overtimeDetail, err := json.Marshal(record.OvertimeDetail)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal overtime detail: %w", err)
	}
	installmentsDetail, err := json.Marshal(record.InstallmentsDetail)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal installments detail: %w", err)
	}
	return overtimeDetail, installmentsDetail, nil
}

func unmarshalDetails(record *payroll.Record, overtimeDetail, installmentsDetail []byte) error {
	if len(overtimeDetail) > 0 {
		var detail map[string]decimal.Decimal
		if err := json.Unmarshal(overtimeDetail, &detail); err != nil {
			return fmt.Errorf("failed to unmarshal overtime detail: %w", err)
		}
		record.OvertimeDetail = detail
	}
	if len(installmentsDetail) > 0 {
		var detail map[string]decimal.Decimal
		if err := json.Unmarshal(installmentsDetail, &detail); err != nil {
			return fmt.Errorf("failed to unmarshal installments detail: %w", err)
		}
		record.InstallmentsDetail = detail
	}
	return nil
}
