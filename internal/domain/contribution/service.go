package contribution

import (
	"context"
	"time"
)

// Service is the read-only configuration surface for contribution tables.
// Tables are loaded by operators out of band; the API only exposes them.
type Service interface {
	ListTables(ctx context.Context, scheme Scheme) ([]TableResponse, error)

	// GetActiveTable returns the table in effect on asOf for the scheme.
	GetActiveTable(ctx context.Context, scheme Scheme, asOf time.Time) (TableResponse, error)
}
