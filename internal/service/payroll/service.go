package payroll

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/sagana-hq/workforce-backend-go/internal/config"
	"github.com/sagana-hq/workforce-backend-go/internal/domain/attendance"
	"github.com/sagana-hq/workforce-backend-go/internal/domain/cashadvance"
	"github.com/sagana-hq/workforce-backend-go/internal/domain/contribution"
	"github.com/sagana-hq/workforce-backend-go/internal/domain/employee"
	"github.com/sagana-hq/workforce-backend-go/internal/domain/leave"
	"github.com/sagana-hq/workforce-backend-go/internal/domain/payroll"
	"github.com/sagana-hq/workforce-backend-go/internal/pkg/database"
	"github.com/sagana-hq/workforce-backend-go/internal/repository/postgresql"
	contributioncalc "github.com/sagana-hq/workforce-backend-go/internal/service/contribution"
)

// Overtime pay multipliers by category.
var overtimeMultipliers = map[attendance.OvertimeCategory]decimal.Decimal{
	attendance.OvertimeRegular: decimal.RequireFromString("1.25"),
	attendance.OvertimeRestDay: decimal.RequireFromString("1.30"),
	attendance.OvertimeHoliday: decimal.RequireFromString("2.00"),
}

var minutesPerHour = decimal.NewFromInt(60)

type PayrollServiceImpl struct {
	db *database.DB
	payroll.RecordRepository
	employee.EmployeeRepository
	attendance.FactRepository
	leave.RequestRepository
	cashadvance.Repository
	contribution.TableRepository
	cfg config.PayrollConfig

	withTx func(ctx context.Context, fn func(tx pgx.Tx) error) error
}

func NewPayrollService(
	db *database.DB,
	recordRepo payroll.RecordRepository,
	employeeRepo employee.EmployeeRepository,
	factRepo attendance.FactRepository,
	leaveRepo leave.RequestRepository,
	advanceRepo cashadvance.Repository,
	tableRepo contribution.TableRepository,
	cfg config.PayrollConfig,
) payroll.Service {
	return &PayrollServiceImpl{
		db:                 db,
		RecordRepository:   recordRepo,
		EmployeeRepository: employeeRepo,
		FactRepository:     factRepo,
		RequestRepository:  leaveRepo,
		Repository:         advanceRepo,
		TableRepository:    tableRepo,
		cfg:                cfg,
		withTx: func(ctx context.Context, fn func(tx pgx.Tx) error) error {
			return postgresql.WithTransaction(ctx, db, fn)
		},
	}
}

// contributionTables bundles the four active tables for one generation run.
type contributionTables struct {
	sss        contribution.Table
	philHealth contribution.Table
	pagIBIG    contribution.Table
	tax        contribution.Table
}

// GeneratePayroll implements payroll.Service. Everything the fold needs is
// fetched once up front; the whole run executes in a single transaction so
// records are computed against one consistent snapshot.
func (p *PayrollServiceImpl) GeneratePayroll(ctx context.Context, req payroll.GeneratePayrollRequest) (payroll.GenerateResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.GenerateResponse{}, err
	}

	var resp payroll.GenerateResponse
	err := p.withTx(ctx, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		period, err := p.RecordRepository.GetPeriodByID(txCtx, req.PeriodID)
		if err != nil {
			if errors.Is(err, payroll.ErrPeriodNotFound) {
				return payroll.ErrPeriodNotFound
			}
			return fmt.Errorf("failed to get payroll period: %w", err)
		}

		employees, err := p.EmployeeRepository.ListPayrollEligible(txCtx)
		if err != nil {
			return fmt.Errorf("failed to list employees: %w", err)
		}
		facts, err := p.FactRepository.ListByDateRange(txCtx, period.StartDate, period.EndDate)
		if err != nil {
			return fmt.Errorf("failed to list attendance facts: %w", err)
		}
		leaves, err := p.RequestRepository.ListAll(txCtx)
		if err != nil {
			return fmt.Errorf("failed to list leave requests: %w", err)
		}
		advances, err := p.Repository.ListAll(txCtx)
		if err != nil {
			return fmt.Errorf("failed to list cash advances: %w", err)
		}

		tables, err := p.activeTables(txCtx, period)
		if err != nil {
			return err
		}

		existing, err := p.RecordRepository.GetRecordsByPeriod(txCtx, period.ID)
		if err != nil {
			return fmt.Errorf("failed to list existing records: %w", err)
		}
		existingByEmployee := make(map[string]payroll.Record, len(existing))
		for _, r := range existing {
			existingByEmployee[r.EmployeeID] = r
		}

		factsByEmployee := groupFacts(facts)
		leavesByEmployee := groupLeaves(leaves)
		advancesByEmployee := groupAdvances(advances)

		resp = payroll.GenerateResponse{RunID: uuid.NewString(), PeriodID: period.ID}
		for _, emp := range employees {
			prior, hasPrior := existingByEmployee[emp.ID]
			if hasPrior && prior.Status != payroll.RecordDraft {
				resp.SkippedIDs = append(resp.SkippedIDs, prior.ID)
				continue
			}

			record, err := p.computeRecord(
				emp, period,
				factsByEmployee[emp.ID],
				leavesByEmployee[emp.ID],
				advancesByEmployee[emp.ID],
				tables,
			)
			if err != nil {
				return err
			}

			if hasPrior {
				record.ID = prior.ID
				record.CreatedAt = prior.CreatedAt
				if err := p.RecordRepository.ReplaceDraftRecord(txCtx, record); err != nil {
					return fmt.Errorf("failed to replace draft record: %w", err)
				}
			} else {
				record, err = p.RecordRepository.CreateRecord(txCtx, record)
				if err != nil {
					return fmt.Errorf("failed to create payroll record: %w", err)
				}
			}
			resp.Records = append(resp.Records, mapRecordToResponse(record))
		}
		return nil
	})
	if err != nil {
		return payroll.GenerateResponse{}, err
	}
	return resp, nil
}

func (p *PayrollServiceImpl) activeTables(ctx context.Context, period payroll.Period) (contributionTables, error) {
	var tables contributionTables
	for _, target := range []struct {
		scheme contribution.Scheme
		dst    *contribution.Table
	}{
		{contribution.SchemeSSS, &tables.sss},
		{contribution.SchemePhilHealth, &tables.philHealth},
		{contribution.SchemePagIBIG, &tables.pagIBIG},
		{contribution.SchemeWithholdingTax, &tables.tax},
	} {
		table, err := p.TableRepository.GetActiveTable(ctx, target.scheme, period.EndDate)
		if err != nil {
			if errors.Is(err, contribution.ErrTableNotFound) {
				return contributionTables{}, &contribution.ConfigError{
					Scheme: target.scheme,
					Reason: "no table effective on " + period.EndDate.Format("2006-01-02"),
				}
			}
			return contributionTables{}, fmt.Errorf("failed to get %s table: %w", target.scheme, err)
		}
		*target.dst = table
	}
	return tables, nil
}

// computeRecord folds one employee's period data into a Draft record.
func (p *PayrollServiceImpl) computeRecord(
	emp employee.Employee,
	period payroll.Period,
	facts []attendance.Fact,
	leaves []leave.Request,
	advances []cashadvance.CashAdvance,
	tables contributionTables,
) (payroll.Record, error) {
	dailyRate := emp.EffectiveDailyRate(p.cfg.WorkingDaysPerMonth)
	hourlyRate := dailyRate.Div(decimal.NewFromInt(int64(p.cfg.StandardShiftHours)))

	record := payroll.Record{
		EmployeeID: emp.ID,
		PeriodID:   period.ID,
		Status:     payroll.RecordDraft,
	}

	// Days worked, overtime, and lateness from attendance facts.
	lateMinutes := 0
	overtimeDetail := make(map[string]decimal.Decimal)
	overtimePay := decimal.Zero
	for _, f := range facts {
		if f.Qualifying() {
			record.DaysWorked++
			if f.LateDeductible {
				lateMinutes += f.LateMinutes
			}
		}
		if f.OvertimeStatus == nil || *f.OvertimeStatus != attendance.OvertimeApproved {
			continue
		}
		multiplier, ok := overtimeMultipliers[f.OvertimeCategory]
		if !ok {
			multiplier = overtimeMultipliers[attendance.OvertimeRegular]
		}
		pay := decimal.NewFromInt(int64(f.OvertimeMinutes)).
			Div(minutesPerHour).
			Mul(hourlyRate).
			Mul(multiplier)
		overtimePay = overtimePay.Add(pay)
		key := string(f.OvertimeCategory)
		overtimeDetail[key] = overtimeDetail[key].Add(pay)
	}
	record.BasicPay = dailyRate.Mul(decimal.NewFromInt(int64(record.DaysWorked))).Round(2)
	record.OvertimePay = overtimePay.Round(2)
	if len(overtimeDetail) > 0 {
		for k, v := range overtimeDetail {
			overtimeDetail[k] = v.Round(2)
		}
		record.OvertimeDetail = overtimeDetail
	}
	record.LateDeduction = decimal.NewFromInt(int64(lateMinutes)).
		Div(minutesPerHour).
		Mul(hourlyRate).
		Round(2)

	// Approved leave overlapping the period: paid types earn, unpaid types
	// deduct.
	for _, lr := range leaves {
		if lr.EmployeeID != emp.ID || lr.Status != leave.RequestApproved || lr.IsPaid == nil {
			continue
		}
		overlap := lr.OverlapDays(period.StartDate, period.EndDate)
		if overlap == 0 {
			continue
		}
		amount := dailyRate.Mul(decimal.NewFromInt(int64(overlap)))
		if *lr.IsPaid {
			record.PaidLeaveDays += overlap
			record.PaidLeavePay = record.PaidLeavePay.Add(amount)
		} else {
			record.UnpaidLeaveDays += overlap
			record.UnpaidLeaveDeduction = record.UnpaidLeaveDeduction.Add(amount)
		}
	}
	record.PaidLeavePay = record.PaidLeavePay.Round(2)
	record.UnpaidLeaveDeduction = record.UnpaidLeaveDeduction.Round(2)

	// Cash-advance installments for the approval transaction to post.
	installments := make(map[string]decimal.Decimal)
	total := decimal.Zero
	for _, adv := range advances {
		due := adv.InstallmentDue()
		if due.IsPositive() {
			installments[adv.ID] = due
			total = total.Add(due)
		}
	}
	if len(installments) > 0 {
		record.InstallmentsDetail = installments
	}
	record.CashAdvanceInstallment = total.Round(2)

	record.GrossPay = record.BasicPay.Add(record.OvertimePay).Add(record.PaidLeavePay)

	// Government deductions on gross, then withholding on what is left.
	var err error
	if record.SSS, err = contributioncalc.ComputeSSS(record.GrossPay, tables.sss); err != nil {
		return payroll.Record{}, err
	}
	if record.PhilHealth, err = contributioncalc.ComputePhilHealth(record.GrossPay, tables.philHealth); err != nil {
		return payroll.Record{}, err
	}
	if record.PagIBIG, err = contributioncalc.ComputePagIBIG(record.GrossPay, tables.pagIBIG); err != nil {
		return payroll.Record{}, err
	}
	taxable := record.GrossPay.Sub(record.SSS).Sub(record.PhilHealth).Sub(record.PagIBIG)
	if record.WithholdingTax, err = contributioncalc.ComputeWithholdingTax(taxable, tables.tax); err != nil {
		return payroll.Record{}, err
	}

	record.NetPay = record.GrossPay.Sub(record.TotalDeductions())
	return record, nil
}

func groupFacts(facts []attendance.Fact) map[string][]attendance.Fact {
	out := make(map[string][]attendance.Fact)
	for _, f := range facts {
		out[f.EmployeeID] = append(out[f.EmployeeID], f)
	}
	return out
}

func groupLeaves(leaves []leave.Request) map[string][]leave.Request {
	out := make(map[string][]leave.Request)
	for _, l := range leaves {
		out[l.EmployeeID] = append(out[l.EmployeeID], l)
	}
	return out
}

func groupAdvances(advances []cashadvance.CashAdvance) map[string][]cashadvance.CashAdvance {
	out := make(map[string][]cashadvance.CashAdvance)
	for _, a := range advances {
		out[a.EmployeeID] = append(out[a.EmployeeID], a)
	}
	return out
}

// GetRecord implements payroll.Service.
func (p *PayrollServiceImpl) GetRecord(ctx context.Context, id string) (payroll.RecordResponse, error) {
	record, err := p.RecordRepository.GetRecordByID(ctx, id)
	if err != nil {
		if errors.Is(err, payroll.ErrRecordNotFound) {
			return payroll.RecordResponse{}, payroll.ErrRecordNotFound
		}
		return payroll.RecordResponse{}, fmt.Errorf("failed to get payroll record: %w", err)
	}
	return mapRecordToResponse(record), nil
}

// ListRecords implements payroll.Service.
func (p *PayrollServiceImpl) ListRecords(ctx context.Context, filter payroll.RecordFilter) (payroll.ListRecordsResponse, error) {
	records, total, err := p.RecordRepository.ListRecords(ctx, filter)
	if err != nil {
		return payroll.ListRecordsResponse{}, fmt.Errorf("failed to list payroll records: %w", err)
	}

	responses := make([]payroll.RecordResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, mapRecordToResponse(r))
	}

	totalPages := 0
	if filter.Limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(filter.Limit)))
	}

	return payroll.ListRecordsResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Records:    responses,
	}, nil
}

func mapRecordToResponse(r payroll.Record) payroll.RecordResponse {
	return payroll.RecordResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		EmployeeName: r.EmployeeName,
		PeriodID:     r.PeriodID,

		DaysWorked:     r.DaysWorked,
		BasicPay:       r.BasicPay,
		OvertimePay:    r.OvertimePay,
		OvertimeDetail: r.OvertimeDetail,
		PaidLeaveDays:  r.PaidLeaveDays,
		PaidLeavePay:   r.PaidLeavePay,
		GrossPay:       r.GrossPay,

		SSS:                    r.SSS,
		PhilHealth:             r.PhilHealth,
		PagIBIG:                r.PagIBIG,
		WithholdingTax:         r.WithholdingTax,
		CashAdvanceInstallment: r.CashAdvanceInstallment,
		LateDeduction:          r.LateDeduction,
		UnpaidLeaveDays:        r.UnpaidLeaveDays,
		UnpaidLeaveDeduction:   r.UnpaidLeaveDeduction,

		NetPay: r.NetPay,
		Status: string(r.Status),
	}
}
