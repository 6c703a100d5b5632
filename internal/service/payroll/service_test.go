package payroll

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagana-hq/workforce-backend-go/internal/config"
	"github.com/sagana-hq/workforce-backend-go/internal/domain/attendance"
	"github.com/sagana-hq/workforce-backend-go/internal/domain/cashadvance"
	"github.com/sagana-hq/workforce-backend-go/internal/domain/contribution"
	"github.com/sagana-hq/workforce-backend-go/internal/domain/employee"
	"github.com/sagana-hq/workforce-backend-go/internal/domain/leave"
	"github.com/sagana-hq/workforce-backend-go/internal/domain/payroll"
	"github.com/sagana-hq/workforce-backend-go/internal/pkg/civiltime"
)

// ---- in-memory fakes ----

type fakeRecordRepo struct {
	mu      sync.Mutex
	periods map[string]payroll.Period
	records map[string]payroll.Record
	nextID  int
}

func newFakeRecordRepo() *fakeRecordRepo {
	return &fakeRecordRepo{
		periods: make(map[string]payroll.Period),
		records: make(map[string]payroll.Record),
	}
}

func (r *fakeRecordRepo) GetPeriodByID(_ context.Context, id string) (payroll.Period, error) {
	p, ok := r.periods[id]
	if !ok {
		return payroll.Period{}, payroll.ErrPeriodNotFound
	}
	return p, nil
}

func (r *fakeRecordRepo) CreateRecord(_ context.Context, record payroll.Record) (payroll.Record, error) {
	r.nextID++
	record.ID = "rec-" + strconv.Itoa(r.nextID)
	r.records[record.ID] = record
	return record, nil
}

func (r *fakeRecordRepo) GetRecordByID(_ context.Context, id string) (payroll.Record, error) {
	rec, ok := r.records[id]
	if !ok {
		return payroll.Record{}, payroll.ErrRecordNotFound
	}
	return rec, nil
}

func (r *fakeRecordRepo) GetRecordsByPeriod(_ context.Context, periodID string) ([]payroll.Record, error) {
	var out []payroll.Record
	for _, rec := range r.records {
		if rec.PeriodID == periodID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeRecordRepo) ReplaceDraftRecord(_ context.Context, record payroll.Record) error {
	prior, ok := r.records[record.ID]
	if !ok {
		return payroll.ErrRecordNotFound
	}
	if prior.Status != payroll.RecordDraft {
		return payroll.ErrNotDraft
	}
	r.records[record.ID] = record
	return nil
}

func (r *fakeRecordRepo) UpdateStatus(_ context.Context, _ pgx.Tx, record payroll.Record, from payroll.RecordStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prior, ok := r.records[record.ID]
	if !ok {
		return payroll.ErrRecordNotFound
	}
	if prior.Status != from {
		switch from {
		case payroll.RecordDraft:
			return payroll.ErrNotDraft
		case payroll.RecordApproved:
			return payroll.ErrNotApproved
		}
		return payroll.ErrRecordNotFound
	}
	r.records[record.ID] = record
	return nil
}

func (r *fakeRecordRepo) snapshot() map[string]payroll.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]payroll.Record, len(r.records))
	for k, v := range r.records {
		out[k] = v
	}
	return out
}

func (r *fakeRecordRepo) restore(snap map[string]payroll.Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = snap
}

func (r *fakeRecordRepo) ListRecords(_ context.Context, filter payroll.RecordFilter) ([]payroll.Record, int64, error) {
	var out []payroll.Record
	for _, rec := range r.records {
		if filter.PeriodID != "" && rec.PeriodID != filter.PeriodID {
			continue
		}
		out = append(out, rec)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRecordRepo) DeleteDraftRecord(_ context.Context, id string) error {
	rec, ok := r.records[id]
	if !ok {
		return payroll.ErrRecordNotFound
	}
	if rec.Status != payroll.RecordDraft {
		return payroll.ErrNotDraft
	}
	delete(r.records, id)
	return nil
}

type fakeEmployeeRepo struct {
	employees []employee.Employee
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	for _, e := range r.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) ListPayrollEligible(_ context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range r.employees {
		if e.PayrollEligible() {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeFactRepo struct {
	facts []attendance.Fact
}

func (r *fakeFactRepo) Create(_ context.Context, fact attendance.Fact) (attendance.Fact, error) {
	r.facts = append(r.facts, fact)
	return fact, nil
}

func (r *fakeFactRepo) GetByID(_ context.Context, _ string) (attendance.Fact, error) {
	return attendance.Fact{}, attendance.ErrFactNotFound
}

func (r *fakeFactRepo) GetOpenFact(_ context.Context, _ string) (attendance.Fact, error) {
	return attendance.Fact{}, attendance.ErrNotClockedIn
}

func (r *fakeFactRepo) GetByEmployeeAndShiftDate(_ context.Context, _ string, _ time.Time) (*attendance.Fact, error) {
	return nil, nil
}

func (r *fakeFactRepo) Update(_ context.Context, _ attendance.Fact) error { return nil }

func (r *fakeFactRepo) ListByDateRange(_ context.Context, from, to time.Time) ([]attendance.Fact, error) {
	var out []attendance.Fact
	for _, f := range r.facts {
		if !f.ShiftDate.Before(from) && !f.ShiftDate.After(to) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeFactRepo) List(_ context.Context, _ attendance.FactFilter) ([]attendance.Fact, int64, error) {
	return r.facts, int64(len(r.facts)), nil
}

type fakeLeaveRepo struct {
	requests []leave.Request
}

func (r *fakeLeaveRepo) Create(_ context.Context, request leave.Request) (leave.Request, error) {
	r.requests = append(r.requests, request)
	return request, nil
}

func (r *fakeLeaveRepo) GetByID(_ context.Context, _ string) (leave.Request, error) {
	return leave.Request{}, leave.ErrRequestNotFound
}

func (r *fakeLeaveRepo) Update(_ context.Context, _ leave.Request) error { return nil }

func (r *fakeLeaveRepo) ListAll(_ context.Context) ([]leave.Request, error) {
	return r.requests, nil
}

func (r *fakeLeaveRepo) ListByEmployee(_ context.Context, _ string) ([]leave.Request, error) {
	return r.requests, nil
}

type fakeAdvanceRepo struct {
	mu       sync.Mutex
	advances map[string]cashadvance.CashAdvance
	failNext bool
}

func newFakeAdvanceRepo() *fakeAdvanceRepo {
	return &fakeAdvanceRepo{advances: make(map[string]cashadvance.CashAdvance)}
}

func (r *fakeAdvanceRepo) Create(_ context.Context, advance cashadvance.CashAdvance) (cashadvance.CashAdvance, error) {
	r.advances[advance.ID] = advance
	return advance, nil
}

func (r *fakeAdvanceRepo) GetByID(_ context.Context, id string) (cashadvance.CashAdvance, error) {
	a, ok := r.advances[id]
	if !ok {
		return cashadvance.CashAdvance{}, cashadvance.ErrAdvanceNotFound
	}
	return a, nil
}

func (r *fakeAdvanceRepo) Update(_ context.Context, advance cashadvance.CashAdvance) error {
	r.advances[advance.ID] = advance
	return nil
}

func (r *fakeAdvanceRepo) ListAll(_ context.Context) ([]cashadvance.CashAdvance, error) {
	var out []cashadvance.CashAdvance
	for _, a := range r.advances {
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeAdvanceRepo) ListByEmployee(_ context.Context, employeeID string) ([]cashadvance.CashAdvance, error) {
	var out []cashadvance.CashAdvance
	for _, a := range r.advances {
		if a.EmployeeID == employeeID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAdvanceRepo) DecrementBalance(_ context.Context, _ pgx.Tx, id string, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failNext {
		return cashadvance.ErrInsufficientBalance
	}
	a, ok := r.advances[id]
	if !ok {
		return cashadvance.ErrAdvanceNotFound
	}
	if amount.GreaterThan(a.RemainingBalance) {
		return cashadvance.ErrInsufficientBalance
	}
	a.RemainingBalance = a.RemainingBalance.Sub(amount)
	if a.RemainingBalance.IsZero() {
		a.Status = cashadvance.StatusFullyPaid
	}
	r.advances[id] = a
	return nil
}

func (r *fakeAdvanceRepo) snapshot() map[string]cashadvance.CashAdvance {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]cashadvance.CashAdvance, len(r.advances))
	for k, v := range r.advances {
		out[k] = v
	}
	return out
}

func (r *fakeAdvanceRepo) restore(snap map[string]cashadvance.CashAdvance) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.advances = snap
}

type fakeTableRepo struct {
	tables map[contribution.Scheme]contribution.Table
}

func (r *fakeTableRepo) GetActiveTable(_ context.Context, scheme contribution.Scheme, _ time.Time) (contribution.Table, error) {
	t, ok := r.tables[scheme]
	if !ok {
		return contribution.Table{}, contribution.ErrTableNotFound
	}
	return t, nil
}

func (r *fakeTableRepo) ListTables(_ context.Context, scheme contribution.Scheme) ([]contribution.Table, error) {
	t, ok := r.tables[scheme]
	if !ok {
		return nil, nil
	}
	return []contribution.Table{t}, nil
}

// ---- fixtures ----

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func testTables() *fakeTableRepo {
	return &fakeTableRepo{tables: map[contribution.Scheme]contribution.Table{
		contribution.SchemeSSS: {
			Scheme: contribution.SchemeSSS,
			Brackets: []contribution.Bracket{
				{Lower: dec("0"), Upper: decPtr("10000"), Amount: dec("400")},
				{Lower: dec("10000"), Upper: decPtr("12000"), Amount: dec("500")},
				{Lower: dec("12000"), Amount: dec("600")},
			},
		},
		contribution.SchemePhilHealth: {
			Scheme:        contribution.SchemePhilHealth,
			CeilingAmount: dec("100000"),
			Brackets:      []contribution.Bracket{{Lower: dec("0"), Rate: dec("0.05")}},
		},
		contribution.SchemePagIBIG: {
			Scheme:       contribution.SchemePagIBIG,
			MaxPerPeriod: dec("100"),
			Brackets:     []contribution.Bracket{{Lower: dec("0"), Rate: dec("0.02")}},
		},
		contribution.SchemeWithholdingTax: {
			Scheme: contribution.SchemeWithholdingTax,
			Brackets: []contribution.Bracket{
				{Lower: dec("0"), Upper: decPtr("20833"), Rate: dec("0")},
				{Lower: dec("20833"), Rate: dec("0.15")},
			},
		},
	}}
}

type testEnv struct {
	svc      *PayrollServiceImpl
	records  *fakeRecordRepo
	facts    *fakeFactRepo
	leaves   *fakeLeaveRepo
	advances *fakeAdvanceRepo
	emps     *fakeEmployeeRepo
}

func newTestEnv() *testEnv {
	env := &testEnv{
		records:  newFakeRecordRepo(),
		facts:    &fakeFactRepo{},
		leaves:   &fakeLeaveRepo{},
		advances: newFakeAdvanceRepo(),
		emps:     &fakeEmployeeRepo{},
	}
	env.records.periods["period-1"] = payroll.Period{
		ID:        "period-1",
		StartDate: civiltime.Date(2025, time.March, 1),
		EndDate:   civiltime.Date(2025, time.March, 15),
		PayDate:   civiltime.Date(2025, time.March, 20),
		Status:    payroll.PeriodOpen,
	}

	cfg := config.PayrollConfig{
		WorkingDaysPerMonth:            22,
		StandardShiftHours:             8,
		LateDeductibleThresholdMinutes: 15,
	}
	svc := &PayrollServiceImpl{
		RecordRepository:   env.records,
		EmployeeRepository: env.emps,
		FactRepository:     env.facts,
		RequestRepository:  env.leaves,
		Repository:         env.advances,
		TableRepository:    testTables(),
		cfg:                cfg,
		withTx: func(ctx context.Context, fn func(tx pgx.Tx) error) error {
			// Mimic transactional rollback: an error restores both
			// stores to their pre-transaction state.
			recSnap := env.records.snapshot()
			advSnap := env.advances.snapshot()
			if err := fn(nil); err != nil {
				env.records.restore(recSnap)
				env.advances.restore(advSnap)
				return err
			}
			return nil
		},
	}
	env.svc = svc
	return env
}

func (e *testEnv) addEmployee(id string, dailyRate string) {
	rate := dec(dailyRate)
	e.emps.employees = append(e.emps.employees, employee.Employee{
		ID:               id,
		CompensationType: employee.CompensationDaily,
		DailyRate:        &rate,
		ShiftStart:       "08:00",
		ShiftEnd:         "17:00",
		EmploymentStatus: employee.StatusActive,
	})
}

func (e *testEnv) addWorkedDays(employeeID string, days int) {
	for i := 0; i < days; i++ {
		shiftDate := civiltime.Date(2025, time.March, 1+i)
		out := civiltime.At(shiftDate, 17, 0)
		e.facts.facts = append(e.facts.facts, attendance.Fact{
			ID:                 employeeID + "-f" + strconv.Itoa(i),
			EmployeeID:         employeeID,
			ShiftDate:          shiftDate,
			TimeIn:             civiltime.At(shiftDate, 8, 0),
			TimeOut:            &out,
			VerificationStatus: attendance.VerificationVerified,
		})
	}
}

func generate(t *testing.T, env *testEnv) payroll.GenerateResponse {
	t.Helper()
	resp, err := env.svc.GeneratePayroll(context.Background(), payroll.GeneratePayrollRequest{PeriodID: "period-1"})
	require.NoError(t, err)
	return resp
}

// ---- tests ----

func TestGeneratePayroll_BasicPayAndContributions(t *testing.T) {
	env := newTestEnv()
	env.addEmployee("emp-1", "1000")
	env.addWorkedDays("emp-1", 11)

	resp := generate(t, env)
	require.Len(t, resp.Records, 1)
	rec := resp.Records[0]

	assert.Equal(t, 11, rec.DaysWorked)
	assert.True(t, dec("11000").Equal(rec.BasicPay), "basic pay %s", rec.BasicPay)
	assert.True(t, dec("11000").Equal(rec.GrossPay))
	assert.True(t, dec("500").Equal(rec.SSS), "sss %s", rec.SSS)
	assert.True(t, dec("550").Equal(rec.PhilHealth), "philhealth %s", rec.PhilHealth)
	assert.True(t, dec("100").Equal(rec.PagIBIG), "pagibig capped %s", rec.PagIBIG)
	assert.True(t, rec.WithholdingTax.IsZero(), "taxable below the exempt band")
	assert.True(t, dec("9850").Equal(rec.NetPay), "net %s", rec.NetPay)
	assert.Equal(t, string(payroll.RecordDraft), rec.Status)
}

func TestGeneratePayroll_MonthlyRateNormalization(t *testing.T) {
	env := newTestEnv()
	monthly := dec("22000")
	env.emps.employees = append(env.emps.employees, employee.Employee{
		ID:               "emp-m",
		CompensationType: employee.CompensationMonthly,
		MonthlyRate:      &monthly,
		EmploymentStatus: employee.StatusActive,
	})
	env.addWorkedDays("emp-m", 10)

	resp := generate(t, env)
	require.Len(t, resp.Records, 1)

	// 22000 / 22 working days = 1000 daily.
	assert.True(t, dec("10000").Equal(resp.Records[0].BasicPay), "basic %s", resp.Records[0].BasicPay)
}

func TestGeneratePayroll_OvertimeRequiresApproval(t *testing.T) {
	env := newTestEnv()
	env.addEmployee("emp-1", "1000")
	env.addWorkedDays("emp-1", 10)

	approved := attendance.OvertimeApproved
	pending := attendance.OvertimePending
	env.facts.facts[0].OvertimeMinutes = 120
	env.facts.facts[0].OvertimeStatus = &approved
	env.facts.facts[0].OvertimeCategory = attendance.OvertimeRegular
	env.facts.facts[1].OvertimeMinutes = 90
	env.facts.facts[1].OvertimeStatus = &pending
	env.facts.facts[1].OvertimeCategory = attendance.OvertimeRegular

	resp := generate(t, env)
	require.Len(t, resp.Records, 1)
	rec := resp.Records[0]

	// 2h at hourly 125 with the 1.25 regular multiplier; the pending fact
	// contributes nothing.
	assert.True(t, dec("312.50").Equal(rec.OvertimePay), "ot %s", rec.OvertimePay)
	assert.True(t, dec("312.50").Equal(rec.OvertimeDetail[string(attendance.OvertimeRegular)]))
}

func TestGeneratePayroll_OvertimeSessionPaysOvertimeOnly(t *testing.T) {
	env := newTestEnv()
	env.addEmployee("emp-1", "1000")
	env.addWorkedDays("emp-1", 10)

	// A closed, approved follow-up session after one of the regular
	// shifts: its whole span is overtime, and it never adds a day worked.
	shiftDate := civiltime.Date(2025, time.March, 3)
	out := civiltime.At(shiftDate, 20, 0)
	approved := attendance.OvertimeApproved
	env.facts.facts = append(env.facts.facts, attendance.Fact{
		ID:                 "emp-1-ot",
		EmployeeID:         "emp-1",
		ShiftDate:          shiftDate,
		TimeIn:             civiltime.At(shiftDate, 18, 0),
		TimeOut:            &out,
		VerificationStatus: attendance.VerificationVerified,
		IsOvertimeSession:  true,
		OvertimeMinutes:    120,
		OvertimeStatus:     &approved,
		OvertimeCategory:   attendance.OvertimeRegular,
	})

	resp := generate(t, env)
	require.Len(t, resp.Records, 1)
	rec := resp.Records[0]

	assert.Equal(t, 10, rec.DaysWorked)
	// 2h at hourly 125 with the 1.25 regular multiplier.
	assert.True(t, dec("312.50").Equal(rec.OvertimePay), "ot %s", rec.OvertimePay)
	assert.True(t, dec("10000").Equal(rec.BasicPay), "basic %s", rec.BasicPay)
}

func TestGeneratePayroll_RestDayMultiplier(t *testing.T) {
	env := newTestEnv()
	env.addEmployee("emp-1", "1000")
	env.addWorkedDays("emp-1", 10)

	approved := attendance.OvertimeApproved
	env.facts.facts[0].OvertimeMinutes = 60
	env.facts.facts[0].OvertimeStatus = &approved
	env.facts.facts[0].OvertimeCategory = attendance.OvertimeRestDay

	resp := generate(t, env)
	rec := resp.Records[0]

	// 1h × 125 × 1.30
	assert.True(t, dec("162.50").Equal(rec.OvertimePay), "ot %s", rec.OvertimePay)
}

func TestGeneratePayroll_LateDeduction(t *testing.T) {
	env := newTestEnv()
	env.addEmployee("emp-1", "1000")
	env.addWorkedDays("emp-1", 10)

	env.facts.facts[0].LateMinutes = 30
	env.facts.facts[0].LateDeductible = true
	env.facts.facts[1].LateMinutes = 10 // recorded but under the threshold
	env.facts.facts[1].LateDeductible = false

	resp := generate(t, env)
	rec := resp.Records[0]

	// 30 deductible minutes at hourly 125.
	assert.True(t, dec("62.50").Equal(rec.LateDeduction), "late %s", rec.LateDeduction)
}

func TestGeneratePayroll_LeaveTreatment(t *testing.T) {
	env := newTestEnv()
	env.addEmployee("emp-1", "1000")
	env.addWorkedDays("emp-1", 8)

	paid := true
	unpaid := false
	env.leaves.requests = []leave.Request{
		{
			EmployeeID: "emp-1",
			StartDate:  civiltime.Date(2025, time.March, 10),
			EndDate:    civiltime.Date(2025, time.March, 11),
			Status:     leave.RequestApproved,
			IsPaid:     &paid,
		},
		{
			EmployeeID: "emp-1",
			StartDate:  civiltime.Date(2025, time.March, 12),
			EndDate:    civiltime.Date(2025, time.March, 14),
			Status:     leave.RequestApproved,
			IsPaid:     &unpaid,
		},
		{
			// Pending requests never touch payroll.
			EmployeeID: "emp-1",
			StartDate:  civiltime.Date(2025, time.March, 3),
			EndDate:    civiltime.Date(2025, time.March, 4),
			Status:     leave.RequestPending,
			IsPaid:     &unpaid,
		},
	}

	resp := generate(t, env)
	rec := resp.Records[0]

	assert.Equal(t, 2, rec.PaidLeaveDays)
	assert.True(t, dec("2000").Equal(rec.PaidLeavePay))
	assert.Equal(t, 3, rec.UnpaidLeaveDays)
	assert.True(t, dec("3000").Equal(rec.UnpaidLeaveDeduction))
	// Paid leave lands in gross; unpaid leave lands in deductions.
	assert.True(t, dec("10000").Equal(rec.GrossPay), "gross %s", rec.GrossPay)
}

func TestGeneratePayroll_SkipsNonDraftRecords(t *testing.T) {
	env := newTestEnv()
	env.addEmployee("emp-1", "1000")
	env.addEmployee("emp-2", "1000")
	env.addWorkedDays("emp-1", 5)
	env.addWorkedDays("emp-2", 5)

	first := generate(t, env)
	require.Len(t, first.Records, 2)

	var approvedID string
	for _, r := range first.Records {
		if r.EmployeeID == "emp-2" {
			approvedID = r.ID
		}
	}
	_, err := env.svc.ApprovePayroll(context.Background(), approvedID, "admin-1")
	require.NoError(t, err)
	approvedBefore, err := env.records.GetRecordByID(context.Background(), approvedID)
	require.NoError(t, err)

	env.addWorkedDays("emp-1", 3)
	second := generate(t, env)

	require.Len(t, second.Records, 1)
	assert.Equal(t, "emp-1", second.Records[0].EmployeeID)
	assert.Equal(t, 8, second.Records[0].DaysWorked)
	assert.Equal(t, []string{approvedID}, second.SkippedIDs)

	approvedAfter, err := env.records.GetRecordByID(context.Background(), approvedID)
	require.NoError(t, err)
	assert.Equal(t, approvedBefore, approvedAfter, "approved record must be untouched by regeneration")
}

func TestGeneratePayroll_ExcludesIneligibleEmployees(t *testing.T) {
	env := newTestEnv()
	env.addEmployee("emp-1", "1000")
	rate := dec("1000")
	env.emps.employees = append(env.emps.employees, employee.Employee{
		ID:               "emp-t",
		CompensationType: employee.CompensationDaily,
		DailyRate:        &rate,
		EmploymentStatus: employee.StatusTerminated,
	})
	env.addWorkedDays("emp-1", 5)
	env.addWorkedDays("emp-t", 5)

	resp := generate(t, env)

	require.Len(t, resp.Records, 1, "terminated employees are absent, not zeroed")
	assert.Equal(t, "emp-1", resp.Records[0].EmployeeID)
}

func TestGeneratePayroll_MissingTableFails(t *testing.T) {
	env := newTestEnv()
	env.addEmployee("emp-1", "1000")
	env.addWorkedDays("emp-1", 5)
	svc := env.svc
	delete(svc.TableRepository.(*fakeTableRepo).tables, contribution.SchemeSSS)

	_, err := env.svc.GeneratePayroll(context.Background(), payroll.GeneratePayrollRequest{PeriodID: "period-1"})
	var cfgErr *contribution.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestApprovePayroll_PostsInstallments(t *testing.T) {
	env := newTestEnv()
	env.addEmployee("emp-1", "1000")
	env.addWorkedDays("emp-1", 10)
	env.advances.advances["adv-1"] = cashadvance.CashAdvance{
		ID:                 "adv-1",
		EmployeeID:         "emp-1",
		Principal:          dec("5000"),
		PerPeriodDeduction: dec("500"),
		RemainingBalance:   dec("200"),
		Status:             cashadvance.StatusDisbursed,
	}

	resp := generate(t, env)
	rec := resp.Records[0]
	// The final installment is clamped to the remaining 200.
	assert.True(t, dec("200").Equal(rec.CashAdvanceInstallment), "installment %s", rec.CashAdvanceInstallment)

	approved, err := env.svc.ApprovePayroll(context.Background(), rec.ID, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, string(payroll.RecordApproved), approved.Status)

	advance, err := env.advances.GetByID(context.Background(), "adv-1")
	require.NoError(t, err)
	assert.True(t, advance.RemainingBalance.IsZero())
	assert.Equal(t, cashadvance.StatusFullyPaid, advance.Status)
}

func TestApprovePayroll_FailedPostingLeavesRecordDraft(t *testing.T) {
	env := newTestEnv()
	env.addEmployee("emp-1", "1000")
	env.addWorkedDays("emp-1", 10)
	env.advances.advances["adv-1"] = cashadvance.CashAdvance{
		ID:                 "adv-1",
		EmployeeID:         "emp-1",
		Principal:          dec("5000"),
		PerPeriodDeduction: dec("500"),
		RemainingBalance:   dec("500"),
		Status:             cashadvance.StatusDisbursed,
	}

	resp := generate(t, env)
	rec := resp.Records[0]

	env.advances.failNext = true
	_, err := env.svc.ApprovePayroll(context.Background(), rec.ID, "admin-1")
	require.Error(t, err)

	stored, err := env.records.GetRecordByID(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, payroll.RecordDraft, stored.Status)
}

func TestApprovePayroll_ConcurrentApprovalsPostOnce(t *testing.T) {
	env := newTestEnv()
	env.addEmployee("emp-1", "1000")
	env.addWorkedDays("emp-1", 10)
	env.advances.advances["adv-1"] = cashadvance.CashAdvance{
		ID:                 "adv-1",
		EmployeeID:         "emp-1",
		Principal:          dec("5000"),
		PerPeriodDeduction: dec("500"),
		RemainingBalance:   dec("1000"),
		Status:             cashadvance.StatusDisbursed,
	}

	rec := generate(t, env).Records[0]
	require.True(t, dec("500").Equal(rec.CashAdvanceInstallment))

	// Hold both transaction bodies until both callers have read the
	// Draft record, so each passes the pre-check before either flips.
	var gate sync.WaitGroup
	gate.Add(2)
	env.svc.withTx = func(ctx context.Context, fn func(tx pgx.Tx) error) error {
		gate.Done()
		gate.Wait()
		return fn(nil)
	}

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := env.svc.ApprovePayroll(context.Background(), rec.ID, "admin-1")
			errs <- err
		}()
	}

	var failed []error
	for i := 0; i < 2; i++ {
		if err := <-errs; err != nil {
			failed = append(failed, err)
		}
	}
	require.Len(t, failed, 1, "exactly one approval must win")
	assert.ErrorIs(t, failed[0], payroll.ErrNotDraft)

	// The installment posted once, not twice.
	advance, err := env.advances.GetByID(context.Background(), "adv-1")
	require.NoError(t, err)
	assert.True(t, dec("500").Equal(advance.RemainingBalance), "balance %s", advance.RemainingBalance)

	stored, err := env.records.GetRecordByID(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, payroll.RecordApproved, stored.Status)
}

func TestPayrollLifecycle_Transitions(t *testing.T) {
	env := newTestEnv()
	env.addEmployee("emp-1", "1000")
	env.addWorkedDays("emp-1", 10)

	rec := generate(t, env).Records[0]

	// Releasing a Draft skips a state.
	_, err := env.svc.ReleasePayroll(context.Background(), rec.ID, "admin-1")
	assert.ErrorIs(t, err, payroll.ErrNotApproved)

	_, err = env.svc.ApprovePayroll(context.Background(), rec.ID, "admin-1")
	require.NoError(t, err)

	// Approving twice is rejected.
	_, err = env.svc.ApprovePayroll(context.Background(), rec.ID, "admin-1")
	assert.ErrorIs(t, err, payroll.ErrNotDraft)

	released, err := env.svc.ReleasePayroll(context.Background(), rec.ID, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, string(payroll.RecordReleased), released.Status)

	// Released is terminal in both directions.
	_, err = env.svc.ApprovePayroll(context.Background(), rec.ID, "admin-1")
	assert.ErrorIs(t, err, payroll.ErrRecordImmutable)
	_, err = env.svc.ReleasePayroll(context.Background(), rec.ID, "admin-1")
	assert.ErrorIs(t, err, payroll.ErrRecordImmutable)
}

func TestNetPayIdentity(t *testing.T) {
	env := newTestEnv()
	env.addEmployee("emp-1", "1000")
	env.addWorkedDays("emp-1", 12)

	approved := attendance.OvertimeApproved
	env.facts.facts[0].OvertimeMinutes = 120
	env.facts.facts[0].OvertimeStatus = &approved
	env.facts.facts[0].OvertimeCategory = attendance.OvertimeRegular
	env.facts.facts[1].LateMinutes = 45
	env.facts.facts[1].LateDeductible = true

	rec := generate(t, env).Records[0]

	stored, err := env.records.GetRecordByID(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.True(t, stored.GrossPay.Sub(stored.TotalDeductions()).Equal(stored.NetPay),
		"net pay must equal gross minus the sum of all deduction components")
}
