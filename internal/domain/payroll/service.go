package payroll

import "context"

// Service defines payroll aggregation and the record lifecycle.
type Service interface {
	// GeneratePayroll computes Draft records for every payroll-eligible
	// employee in the period. Re-running replaces prior Draft values and
	// reports — never overwrites — records already Approved or Released.
	GeneratePayroll(ctx context.Context, req GeneratePayrollRequest) (GenerateResponse, error)

	// ApprovePayroll transitions Draft → Approved and, in the same
	// transaction, posts each cash-advance installment to the ledger.
	ApprovePayroll(ctx context.Context, recordID, approvedBy string) (RecordResponse, error)

	// ReleasePayroll transitions Approved → Released, after which the
	// record is immutable.
	ReleasePayroll(ctx context.Context, recordID, releasedBy string) (RecordResponse, error)

	GetRecord(ctx context.Context, id string) (RecordResponse, error)

	ListRecords(ctx context.Context, filter RecordFilter) (ListRecordsResponse, error)
}
