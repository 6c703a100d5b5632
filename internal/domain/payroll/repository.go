package payroll

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// RecordRepository defines data access methods for payroll periods and
// records.
type RecordRepository interface {
	GetPeriodByID(ctx context.Context, id string) (Period, error)

	CreateRecord(ctx context.Context, record Record) (Record, error)

	GetRecordByID(ctx context.Context, id string) (Record, error)

	// GetRecordsByPeriod returns every record already generated for the
	// period, so regeneration can tell Draft from Approved/Released.
	GetRecordsByPeriod(ctx context.Context, periodID string) ([]Record, error)

	// ReplaceDraftRecord overwrites a Draft record's computed values in
	// place. It must refuse any record past Draft.
	ReplaceDraftRecord(ctx context.Context, record Record) error

	// UpdateStatus flips a record's lifecycle status inside the caller's
	// transaction when tx is non-nil. The flip is a compare-and-set
	// against from: a record no longer in that status is left untouched
	// and the matching state-conflict error is returned, so concurrent
	// transitions cannot both win.
	UpdateStatus(ctx context.Context, tx pgx.Tx, record Record, from RecordStatus) error

	ListRecords(ctx context.Context, filter RecordFilter) ([]Record, int64, error)

	DeleteDraftRecord(ctx context.Context, id string) error
}
