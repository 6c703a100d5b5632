package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sagana-hq/workforce-backend-go/internal/domain/contribution"
	"github.com/sagana-hq/workforce-backend-go/internal/pkg/database"
)

type contributionRepository struct {
	db *database.DB
}

func NewContributionRepository(db *database.DB) contribution.TableRepository {
	return &contributionRepository{db: db}
}

// GetActiveTable implements contribution.TableRepository. The latest table
// whose effective date is not after asOf wins; brackets come back ordered
// by lower bound so Lookup sees them contiguous.
func (r *contributionRepository) GetActiveTable(ctx context.Context, scheme contribution.Scheme, asOf time.Time) (contribution.Table, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, scheme, effective_date, floor_amount, ceiling_amount, max_per_period
		FROM contribution_tables
		WHERE scheme = $1
		  AND effective_date <= $2
		ORDER BY effective_date DESC
		LIMIT 1
	`

	var t contribution.Table
	err := q.QueryRow(ctx, query, scheme, asOf).Scan(
		&t.ID, &t.Scheme, &t.EffectiveDate,
		&t.FloorAmount, &t.CeilingAmount, &t.MaxPerPeriod,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return contribution.Table{}, contribution.ErrTableNotFound
		}
		return contribution.Table{}, fmt.Errorf("failed to get contribution table: %w", err)
	}

	if t.Brackets, err = r.bracketsForTable(ctx, q, t.ID); err != nil {
		return contribution.Table{}, err
	}
	return t, nil
}

// ListTables implements contribution.TableRepository.
func (r *contributionRepository) ListTables(ctx context.Context, scheme contribution.Scheme) ([]contribution.Table, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, scheme, effective_date, floor_amount, ceiling_amount, max_per_period
		FROM contribution_tables
		WHERE scheme = $1
		ORDER BY effective_date DESC
	`

	rows, err := q.Query(ctx, query, scheme)
	if err != nil {
		return nil, fmt.Errorf("failed to query contribution tables: %w", err)
	}
	defer rows.Close()

	var tables []contribution.Table
	for rows.Next() {
		var t contribution.Table
		if err := rows.Scan(
			&t.ID, &t.Scheme, &t.EffectiveDate,
			&t.FloorAmount, &t.CeilingAmount, &t.MaxPerPeriod,
		); err != nil {
			return nil, fmt.Errorf("failed to scan contribution table: %w", err)
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contribution tables: %w", err)
	}

	for i := range tables {
		if tables[i].Brackets, err = r.bracketsForTable(ctx, q, tables[i].ID); err != nil {
			return nil, err
		}
	}
	return tables, nil
}

func (r *contributionRepository) bracketsForTable(ctx context.Context, q database.Querier, tableID string) ([]contribution.Bracket, error) {
	query := `
		SELECT lower_bound, upper_bound, amount, rate, base_amount
		FROM contribution_brackets
		WHERE table_id = $1
		ORDER BY lower_bound
	`

	rows, err := q.Query(ctx, query, tableID)
	if err != nil {
		return nil, fmt.Errorf("failed to query contribution brackets: %w", err)
	}
	defer rows.Close()

	var brackets []contribution.Bracket
	for rows.Next() {
		var b contribution.Bracket
		if err := rows.Scan(&b.Lower, &b.Upper, &b.Amount, &b.Rate, &b.BaseAmount); err != nil {
			return nil, fmt.Errorf("failed to scan contribution bracket: %w", err)
		}
		brackets = append(brackets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contribution brackets: %w", err)
	}
	return brackets, nil
}
