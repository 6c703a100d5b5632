package payroll

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sagana-hq/workforce-backend-go/internal/domain/payroll"
	"github.com/sagana-hq/workforce-backend-go/internal/pkg/civiltime"
)

// ApprovePayroll implements payroll.Service. The ledger postings and the
// status flip commit or roll back as one unit: a failed decrement leaves
// both the advances and the record untouched.
func (p *PayrollServiceImpl) ApprovePayroll(ctx context.Context, recordID, approvedBy string) (payroll.RecordResponse, error) {
	record, err := p.getRecord(ctx, recordID)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	switch record.Status {
	case payroll.RecordDraft:
		// proceed
	case payroll.RecordApproved:
		return payroll.RecordResponse{}, payroll.ErrNotDraft
	case payroll.RecordReleased:
		return payroll.RecordResponse{}, payroll.ErrRecordImmutable
	default:
		return payroll.RecordResponse{}, fmt.Errorf("unknown payroll record status %q", record.Status)
	}

	now := civiltime.Now()
	record.Status = payroll.RecordApproved
	record.ApprovedBy = &approvedBy
	record.ApprovedAt = &now

	err = p.withTx(ctx, func(tx pgx.Tx) error {
		// The compare-and-set flip goes first: of two concurrent
		// approvals only one moves the record off Draft, so the ledger
		// is posted at most once per record.
		if err := p.RecordRepository.UpdateStatus(ctx, tx, record, payroll.RecordDraft); err != nil {
			return err
		}
		for advanceID, amount := range record.InstallmentsDetail {
			if err := p.Repository.DecrementBalance(ctx, tx, advanceID, amount); err != nil {
				return fmt.Errorf("failed to post installment for advance %s: %w", advanceID, err)
			}
		}
		return nil
	})
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	return mapRecordToResponse(record), nil
}

// ReleasePayroll implements payroll.Service. Released is terminal; skipping
// straight from Draft is rejected.
func (p *PayrollServiceImpl) ReleasePayroll(ctx context.Context, recordID, releasedBy string) (payroll.RecordResponse, error) {
	record, err := p.getRecord(ctx, recordID)
	if err != nil {
		return payroll.RecordResponse{}, err
	}

	switch record.Status {
	case payroll.RecordApproved:
		// proceed
	case payroll.RecordDraft:
		return payroll.RecordResponse{}, payroll.ErrNotApproved
	case payroll.RecordReleased:
		return payroll.RecordResponse{}, payroll.ErrRecordImmutable
	default:
		return payroll.RecordResponse{}, fmt.Errorf("unknown payroll record status %q", record.Status)
	}

	now := civiltime.Now()
	record.Status = payroll.RecordReleased
	record.ReleasedBy = &releasedBy
	record.ReleasedAt = &now

	if err := p.RecordRepository.UpdateStatus(ctx, nil, record, payroll.RecordApproved); err != nil {
		return payroll.RecordResponse{}, err
	}

	return mapRecordToResponse(record), nil
}

func (p *PayrollServiceImpl) getRecord(ctx context.Context, id string) (payroll.Record, error) {
	record, err := p.RecordRepository.GetRecordByID(ctx, id)
	if err != nil {
		if errors.Is(err, payroll.ErrRecordNotFound) {
			return payroll.Record{}, payroll.ErrRecordNotFound
		}
		return payroll.Record{}, fmt.Errorf("failed to get payroll record: %w", err)
	}
	return record, nil
}
