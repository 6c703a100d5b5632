package attendance

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagana-hq/workforce-backend-go/internal/config"
	"github.com/sagana-hq/workforce-backend-go/internal/domain/attendance"
	"github.com/sagana-hq/workforce-backend-go/internal/domain/employee"
	"github.com/sagana-hq/workforce-backend-go/internal/domain/site"
	"github.com/sagana-hq/workforce-backend-go/internal/pkg/civiltime"
)

// ---- in-memory fakes ----

type fakeFactRepo struct {
	facts  map[string]attendance.Fact
	nextID int
}

func newFakeFactRepo() *fakeFactRepo {
	return &fakeFactRepo{facts: make(map[string]attendance.Fact)}
}

func (r *fakeFactRepo) Create(_ context.Context, fact attendance.Fact) (attendance.Fact, error) {
	for _, f := range r.facts {
		if f.EmployeeID == fact.EmployeeID && f.Open() {
			return attendance.Fact{}, attendance.ErrDuplicateOpenFact
		}
	}
	r.nextID++
	fact.ID = "fact-" + strconv.Itoa(r.nextID)
	r.facts[fact.ID] = fact
	return fact, nil
}

func (r *fakeFactRepo) GetByID(_ context.Context, id string) (attendance.Fact, error) {
	f, ok := r.facts[id]
	if !ok {
		return attendance.Fact{}, attendance.ErrFactNotFound
	}
	return f, nil
}

func (r *fakeFactRepo) GetOpenFact(_ context.Context, employeeID string) (attendance.Fact, error) {
	for _, f := range r.facts {
		if f.EmployeeID == employeeID && f.Open() {
			return f, nil
		}
	}
	return attendance.Fact{}, attendance.ErrNotClockedIn
}

func (r *fakeFactRepo) GetByEmployeeAndShiftDate(_ context.Context, employeeID string, shiftDate time.Time) (*attendance.Fact, error) {
	for _, f := range r.facts {
		if f.EmployeeID == employeeID && f.ShiftDate.Equal(shiftDate) && !f.IsOvertimeSession {
			fact := f
			return &fact, nil
		}
	}
	return nil, nil
}

func (r *fakeFactRepo) Update(_ context.Context, fact attendance.Fact) error {
	if _, ok := r.facts[fact.ID]; !ok {
		return attendance.ErrFactNotFound
	}
	r.facts[fact.ID] = fact
	return nil
}

func (r *fakeFactRepo) ListByDateRange(_ context.Context, from, to time.Time) ([]attendance.Fact, error) {
	var out []attendance.Fact
	for _, f := range r.facts {
		if !f.ShiftDate.Before(from) && !f.ShiftDate.After(to) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeFactRepo) List(_ context.Context, filter attendance.FactFilter) ([]attendance.Fact, int64, error) {
	var out []attendance.Fact
	for _, f := range r.facts {
		if filter.EmployeeID == "" || f.EmployeeID == filter.EmployeeID {
			out = append(out, f)
		}
	}
	return out, int64(len(out)), nil
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	e, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
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

type fakeSiteRepo struct {
	assignments map[string][]site.Site
}

func (r *fakeSiteRepo) GetByID(_ context.Context, id string) (site.Site, error) {
	return site.Site{}, site.ErrSiteNotFound
}

func (r *fakeSiteRepo) GetActiveSitesByEmployee(_ context.Context, employeeID string) ([]site.Site, error) {
	return r.assignments[employeeID], nil
}

// ---- fixtures ----

var testCfg = config.PayrollConfig{
	WorkingDaysPerMonth:            22,
	StandardShiftHours:             8,
	LateDeductibleThresholdMinutes: 15,
}

const (
	siteLat = 14.5995
	siteLng = 120.9842
)

func dayShiftEmployee(id string) employee.Employee {
	rate := decimal.NewFromInt(1000)
	return employee.Employee{
		ID:               id,
		EmployeeCode:     "2024-0001",
		FullName:         "Test Worker",
		CompensationType: employee.CompensationDaily,
		DailyRate:        &rate,
		ShiftStart:       "08:00",
		ShiftEnd:         "17:00",
		WorkDays: []time.Weekday{
			time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
		},
		EmploymentStatus: employee.StatusActive,
	}
}

func newTestService(emp employee.Employee, sites []site.Site) (attendance.Service, *fakeFactRepo) {
	factRepo := newFakeFactRepo()
	empRepo := &fakeEmployeeRepo{employees: map[string]employee.Employee{emp.ID: emp}}
	siteRepo := &fakeSiteRepo{assignments: map[string][]site.Site{emp.ID: sites}}
	return NewAttendanceService(nil, factRepo, empRepo, siteRepo, testCfg), factRepo
}

func onSite() []site.Site {
	return []site.Site{{ID: "site-1", Name: "Main Yard", Latitude: siteLat, Longitude: siteLng, RadiusMeters: 100, IsActive: true}}
}

// March 10, 2025 is a Monday.
func clockInAt(h, m int) attendance.ClockInRequest {
	return attendance.ClockInRequest{
		EmployeeID: "emp-1",
		Latitude:   siteLat,
		Longitude:  siteLng,
		At:         civiltime.At(civiltime.Date(2025, 3, 10), h, m),
	}
}

// ---- tests ----

func TestClockIn_Success(t *testing.T) {
	svc, _ := newTestService(dayShiftEmployee("emp-1"), onSite())

	resp, err := svc.ClockIn(context.Background(), clockInAt(8, 0))
	require.NoError(t, err)

	assert.Equal(t, "2025-03-10", resp.ShiftDate)
	assert.Equal(t, string(attendance.ShiftDay), resp.ShiftType)
	assert.Equal(t, string(attendance.VerificationVerified), resp.VerificationStatus)
	assert.Equal(t, 0, resp.LateMinutes)
	assert.False(t, resp.LateDeductible)
	assert.Nil(t, resp.TimeOut)
}

func TestClockIn_LatenessThreshold(t *testing.T) {
	cases := []struct {
		name           string
		minute         int
		wantLate       int
		wantDeductible bool
	}{
		{"on time", 0, 0, false},
		{"ten minutes late is recorded but free", 10, 10, false},
		{"fifteen minutes late is deductible", 15, 15, true},
		{"forty minutes late is deductible", 40, 40, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			svc, _ := newTestService(dayShiftEmployee("emp-1"), onSite())

			resp, err := svc.ClockIn(context.Background(), clockInAt(8, c.minute))
			require.NoError(t, err)
			assert.Equal(t, c.wantLate, resp.LateMinutes)
			assert.Equal(t, c.wantDeductible, resp.LateDeductible)
		})
	}
}

func TestClockIn_DuplicateOpenFact(t *testing.T) {
	svc, _ := newTestService(dayShiftEmployee("emp-1"), onSite())

	_, err := svc.ClockIn(context.Background(), clockInAt(8, 0))
	require.NoError(t, err)

	_, err = svc.ClockIn(context.Background(), clockInAt(8, 5))
	assert.ErrorIs(t, err, attendance.ErrDuplicateOpenFact)
}

func TestClockIn_NoActiveAssignment(t *testing.T) {
	svc, _ := newTestService(dayShiftEmployee("emp-1"), nil)

	_, err := svc.ClockIn(context.Background(), clockInAt(8, 0))
	assert.ErrorIs(t, err, attendance.ErrNoActiveAssignment)
}

func TestClockIn_OutsideGeofence(t *testing.T) {
	svc, _ := newTestService(dayShiftEmployee("emp-1"), onSite())

	req := clockInAt(8, 0)
	req.Latitude = siteLat + 0.05 // ~5.5 km north

	_, err := svc.ClockIn(context.Background(), req)
	var geofenceErr *attendance.GeofenceError
	require.ErrorAs(t, err, &geofenceErr)
	assert.InDelta(t, 5560, geofenceErr.MinDistanceMeters, 60)
}

func TestClockIn_MissingLocation(t *testing.T) {
	svc, _ := newTestService(dayShiftEmployee("emp-1"), onSite())

	req := clockInAt(8, 0)
	req.Latitude = 0
	req.Longitude = 0

	_, err := svc.ClockIn(context.Background(), req)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, attendance.ErrNoActiveAssignment)
}

func TestClockIn_NightShiftAttribution(t *testing.T) {
	emp := dayShiftEmployee("emp-1")
	emp.ShiftStart = "22:00"
	emp.ShiftEnd = "06:00"
	svc, _ := newTestService(emp, onSite())

	// 02:00 on March 11 continues the March 10 shift, 240 minutes late.
	req := attendance.ClockInRequest{
		EmployeeID: "emp-1",
		Latitude:   siteLat,
		Longitude:  siteLng,
		At:         civiltime.At(civiltime.Date(2025, 3, 11), 2, 0),
	}
	resp, err := svc.ClockIn(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, string(attendance.ShiftNight), resp.ShiftType)
	assert.Equal(t, "2025-03-10", resp.ShiftDate)
	assert.Equal(t, 240, resp.LateMinutes)
	assert.True(t, resp.LateDeductible)
}

func TestClockOut_LunchDeduction(t *testing.T) {
	cases := []struct {
		name       string
		outHour    int
		outMinute  int
		wantLunch  int
		wantWorked int
	}{
		{"short span skips lunch", 12, 30, 0, 270},
		{"five hours triggers lunch", 13, 0, 60, 240},
		{"full day includes lunch", 17, 0, 60, 480},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			svc, _ := newTestService(dayShiftEmployee("emp-1"), onSite())

			_, err := svc.ClockIn(context.Background(), clockInAt(8, 0))
			require.NoError(t, err)

			resp, err := svc.ClockOut(context.Background(), attendance.ClockOutRequest{
				EmployeeID: "emp-1",
				At:         civiltime.At(civiltime.Date(2025, 3, 10), c.outHour, c.outMinute),
			})
			require.NoError(t, err)

			assert.Equal(t, c.wantLunch, resp.LunchDeductionMinutes)
			require.NotNil(t, resp.TotalWorkedMinutes)
			assert.Equal(t, c.wantWorked, *resp.TotalWorkedMinutes)
		})
	}
}

func TestClockOut_OvertimeFromGrossMinutes(t *testing.T) {
	svc, _ := newTestService(dayShiftEmployee("emp-1"), onSite())

	_, err := svc.ClockIn(context.Background(), clockInAt(8, 0))
	require.NoError(t, err)

	// 08:00 to 19:00 is 660 gross minutes against a 540-minute shift:
	// overtime is 120 measured on the raw span, not the lunch-adjusted one.
	resp, err := svc.ClockOut(context.Background(), attendance.ClockOutRequest{
		EmployeeID: "emp-1",
		At:         civiltime.At(civiltime.Date(2025, 3, 10), 19, 0),
	})
	require.NoError(t, err)

	assert.Equal(t, 120, resp.OvertimeMinutes)
	require.NotNil(t, resp.OvertimeStatus)
	assert.Equal(t, string(attendance.OvertimePending), *resp.OvertimeStatus)
	assert.Equal(t, 60, resp.LunchDeductionMinutes)
	assert.Equal(t, 600, *resp.TotalWorkedMinutes)
}

func TestClockOut_NoOpenFact(t *testing.T) {
	svc, _ := newTestService(dayShiftEmployee("emp-1"), onSite())

	_, err := svc.ClockOut(context.Background(), attendance.ClockOutRequest{
		EmployeeID: "emp-1",
		At:         civiltime.At(civiltime.Date(2025, 3, 10), 17, 0),
	})
	assert.ErrorIs(t, err, attendance.ErrNotClockedIn)
}

func TestClockIn_SecondSessionFlagsOvertime(t *testing.T) {
	svc, _ := newTestService(dayShiftEmployee("emp-1"), onSite())

	_, err := svc.ClockIn(context.Background(), clockInAt(8, 0))
	require.NoError(t, err)
	_, err = svc.ClockOut(context.Background(), attendance.ClockOutRequest{
		EmployeeID: "emp-1",
		At:         civiltime.At(civiltime.Date(2025, 3, 10), 17, 0),
	})
	require.NoError(t, err)

	resp, err := svc.ClockIn(context.Background(), clockInAt(18, 0))
	require.NoError(t, err)
	assert.True(t, resp.IsOvertimeSession)
	assert.Equal(t, 0, resp.LateMinutes)
}

func TestClockOut_OvertimeSessionWholeSpanPending(t *testing.T) {
	svc, _ := newTestService(dayShiftEmployee("emp-1"), onSite())

	_, err := svc.ClockIn(context.Background(), clockInAt(8, 0))
	require.NoError(t, err)
	_, err = svc.ClockOut(context.Background(), attendance.ClockOutRequest{
		EmployeeID: "emp-1",
		At:         civiltime.At(civiltime.Date(2025, 3, 10), 17, 0),
	})
	require.NoError(t, err)

	second, err := svc.ClockIn(context.Background(), clockInAt(18, 0))
	require.NoError(t, err)
	require.True(t, second.IsOvertimeSession)

	// The 18:00-21:00 follow-up session counts in full as overtime
	// awaiting review, not as a span measured against a whole shift.
	resp, err := svc.ClockOut(context.Background(), attendance.ClockOutRequest{
		EmployeeID: "emp-1",
		At:         civiltime.At(civiltime.Date(2025, 3, 10), 21, 0),
	})
	require.NoError(t, err)

	assert.Equal(t, 180, resp.OvertimeMinutes)
	require.NotNil(t, resp.OvertimeStatus)
	assert.Equal(t, string(attendance.OvertimePending), *resp.OvertimeStatus)

	approved, err := svc.ReviewOvertime(context.Background(), attendance.ReviewOvertimeRequest{
		FactID:  resp.ID,
		Approve: true,
	})
	require.NoError(t, err)
	assert.Equal(t, string(attendance.OvertimeApproved), *approved.OvertimeStatus)
}

func TestReviewOvertime(t *testing.T) {
	svc, repo := newTestService(dayShiftEmployee("emp-1"), onSite())

	_, err := svc.ClockIn(context.Background(), clockInAt(8, 0))
	require.NoError(t, err)
	out, err := svc.ClockOut(context.Background(), attendance.ClockOutRequest{
		EmployeeID: "emp-1",
		At:         civiltime.At(civiltime.Date(2025, 3, 10), 19, 0),
	})
	require.NoError(t, err)

	resp, err := svc.ReviewOvertime(context.Background(), attendance.ReviewOvertimeRequest{
		FactID:  out.ID,
		Approve: true,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.OvertimeStatus)
	assert.Equal(t, string(attendance.OvertimeApproved), *resp.OvertimeStatus)

	// Reviewing again is a state conflict, not a silent overwrite.
	_, err = svc.ReviewOvertime(context.Background(), attendance.ReviewOvertimeRequest{
		FactID:  out.ID,
		Approve: false,
	})
	assert.ErrorIs(t, err, attendance.ErrNoOvertimeToReview)

	stored, err := repo.GetByID(context.Background(), out.ID)
	require.NoError(t, err)
	assert.Equal(t, attendance.OvertimeApproved, *stored.OvertimeStatus)
}
