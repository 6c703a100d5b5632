package contribution

import (
	"context"
	"time"
)

type TableRepository interface {
	// GetActiveTable returns the scheme's table with the latest effective
	// date not after asOf, brackets ordered by lower bound.
	GetActiveTable(ctx context.Context, scheme Scheme, asOf time.Time) (Table, error)

	ListTables(ctx context.Context, scheme Scheme) ([]Table, error)
}
