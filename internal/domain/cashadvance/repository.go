package cashadvance

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, advance CashAdvance) (CashAdvance, error)
	GetByID(ctx context.Context, id string) (CashAdvance, error)
	Update(ctx context.Context, advance CashAdvance) error

	// ListAll batch-fetches every advance for payroll aggregation.
	ListAll(ctx context.Context) ([]CashAdvance, error)

	ListByEmployee(ctx context.Context, employeeID string) ([]CashAdvance, error)

	// DecrementBalance subtracts amount from the advance's remaining
	// balance inside the caller's transaction, flipping the advance to
	// fully paid when the balance reaches exactly zero. It fails rather
	// than letting the balance go negative.
	DecrementBalance(ctx context.Context, tx pgx.Tx, id string, amount decimal.Decimal) error
}
