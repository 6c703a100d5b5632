package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/sagana-hq/workforce-backend-go/internal/domain/cashadvance"
	"github.com/sagana-hq/workforce-backend-go/internal/pkg/database"
)

type cashAdvanceRepository struct {
	db *database.DB
}

func NewCashAdvanceRepository(db *database.DB) cashadvance.Repository {
	return &cashAdvanceRepository{db: db}
}

const advanceColumns = `
	id, employee_id, principal, per_period_deduction, remaining_balance,
	status, requested_at, approved_at, disbursed_at, created_at, updated_at
`

// Create implements cashadvance.Repository.
func (r *cashAdvanceRepository) Create(ctx context.Context, advance cashadvance.CashAdvance) (cashadvance.CashAdvance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO cash_advances (
			employee_id, principal, per_period_deduction, remaining_balance,
			status, requested_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		advance.EmployeeID, advance.Principal, advance.PerPeriodDeduction,
		advance.RemainingBalance, advance.Status, advance.RequestedAt,
	).Scan(&advance.ID, &advance.CreatedAt, &advance.UpdatedAt)
	if err != nil {
		return cashadvance.CashAdvance{}, fmt.Errorf("failed to create cash advance: %w", err)
	}
	return advance, nil
}

// GetByID implements cashadvance.Repository.
func (r *cashAdvanceRepository) GetByID(ctx context.Context, id string) (cashadvance.CashAdvance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + advanceColumns + ` FROM cash_advances WHERE id = $1`

	a, err := scanAdvance(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return cashadvance.CashAdvance{}, cashadvance.ErrAdvanceNotFound
		}
		return cashadvance.CashAdvance{}, fmt.Errorf("failed to get cash advance: %w", err)
	}
	return a, nil
}

// Update implements cashadvance.Repository.
func (r *cashAdvanceRepository) Update(ctx context.Context, advance cashadvance.CashAdvance) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE cash_advances SET
			status = $2,
			approved_at = $3,
			disbursed_at = $4,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, advance.ID, advance.Status, advance.ApprovedAt, advance.DisbursedAt)
	if err != nil {
		return fmt.Errorf("failed to update cash advance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return cashadvance.ErrAdvanceNotFound
	}
	return nil
}

// ListAll implements cashadvance.Repository.
func (r *cashAdvanceRepository) ListAll(ctx context.Context) ([]cashadvance.CashAdvance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + advanceColumns + ` FROM cash_advances ORDER BY requested_at`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query cash advances: %w", err)
	}
	defer rows.Close()

	return collectAdvances(rows)
}

// ListByEmployee implements cashadvance.Repository.
func (r *cashAdvanceRepository) ListByEmployee(ctx context.Context, employeeID string) ([]cashadvance.CashAdvance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + advanceColumns + `
		FROM cash_advances
		WHERE employee_id = $1
		ORDER BY requested_at DESC
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cash advances: %w", err)
	}
	defer rows.Close()

	return collectAdvances(rows)
}

// DecrementBalance implements cashadvance.Repository. The guard in the
// WHERE clause keeps the balance from ever going negative; the CASE flips
// the advance to fully paid in the same statement when it lands on zero.
func (r *cashAdvanceRepository) DecrementBalance(ctx context.Context, tx pgx.Tx, id string, amount decimal.Decimal) error {
	query := `
		UPDATE cash_advances SET
			remaining_balance = remaining_balance - $2,
			status = CASE WHEN remaining_balance - $2 = 0 THEN 'fully_paid' ELSE status END,
			updated_at = NOW()
		WHERE id = $1
		  AND status = 'disbursed'
		  AND remaining_balance >= $2
	`

	tag, err := tx.Exec(ctx, query, id, amount)
	if err != nil {
		return fmt.Errorf("failed to decrement cash advance balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return cashadvance.ErrInsufficientBalance
	}
	return nil
}

func scanAdvance(row pgx.Row) (cashadvance.CashAdvance, error) {
	var a cashadvance.CashAdvance
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.Principal, &a.PerPeriodDeduction,
		&a.RemainingBalance, &a.Status, &a.RequestedAt,
		&a.ApprovedAt, &a.DisbursedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

func collectAdvances(rows pgx.Rows) ([]cashadvance.CashAdvance, error) {
	var advances []cashadvance.CashAdvance
	for rows.Next() {
		a, err := scanAdvance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cash advance: %w", err)
		}
		advances = append(advances, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cash advances: %w", err)
	}
	return advances, nil
}
