package attendance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sagana-hq/workforce-backend-go/internal/config"
	"github.com/sagana-hq/workforce-backend-go/internal/domain/attendance"
	"github.com/sagana-hq/workforce-backend-go/internal/domain/employee"
	"github.com/sagana-hq/workforce-backend-go/internal/domain/site"
	"github.com/sagana-hq/workforce-backend-go/internal/pkg/civiltime"
	"github.com/sagana-hq/workforce-backend-go/internal/pkg/database"
	"github.com/sagana-hq/workforce-backend-go/internal/pkg/geo"
)

// lunchThresholdMinutes is the gross span at which the fixed lunch
// deduction applies.
const (
	lunchThresholdMinutes = 300
	lunchDeductionMinutes = 60
)

type AttendanceServiceImpl struct {
	db *database.DB
	attendance.FactRepository
	employee.EmployeeRepository
	site.SiteRepository
	cfg config.PayrollConfig
}

func NewAttendanceService(
	db *database.DB,
	factRepo attendance.FactRepository,
	employeeRepo employee.EmployeeRepository,
	siteRepo site.SiteRepository,
	cfg config.PayrollConfig,
) attendance.Service {
	return &AttendanceServiceImpl{
		db:                 db,
		FactRepository:     factRepo,
		EmployeeRepository: employeeRepo,
		SiteRepository:     siteRepo,
		cfg:                cfg,
	}
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := civiltime.In(*t).Format("2006-01-02 15:04:05")
	return &format
}

// eventInstant pins the request instant to the business timezone, falling
// back to the current time when the caller did not supply one.
func eventInstant(at time.Time) time.Time {
	if at.IsZero() {
		return civiltime.Now()
	}
	return civiltime.In(at)
}

// ClockIn implements attendance.Service.
func (a *AttendanceServiceImpl) ClockIn(ctx context.Context, req attendance.ClockInRequest) (attendance.FactResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.FactResponse{}, err
	}
	now := eventInstant(req.At)

	emp, err := a.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return attendance.FactResponse{}, employee.ErrEmployeeNotFound
		}
		return attendance.FactResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	if _, err := a.FactRepository.GetOpenFact(ctx, req.EmployeeID); err == nil {
		return attendance.FactResponse{}, attendance.ErrDuplicateOpenFact
	} else if !errors.Is(err, attendance.ErrNotClockedIn) {
		return attendance.FactResponse{}, fmt.Errorf("failed to check open attendance: %w", err)
	}

	// An employee with zero active assignments always fails containment;
	// there is no "no geofence" fallback.
	sites, err := a.SiteRepository.GetActiveSitesByEmployee(ctx, req.EmployeeID)
	if err != nil {
		return attendance.FactResponse{}, fmt.Errorf("failed to get site assignments: %w", err)
	}
	if len(sites) == 0 {
		return attendance.FactResponse{}, attendance.ErrNoActiveAssignment
	}

	point := geo.Point{Latitude: req.Latitude, Longitude: req.Longitude}
	minDistance := math.Inf(1)
	within := false
	for _, s := range sites {
		d := geo.HaversineDistance(point, geo.Point{Latitude: s.Latitude, Longitude: s.Longitude})
		if d < minDistance {
			minDistance = d
		}
		if d <= s.RadiusMeters {
			within = true
			break
		}
	}
	if !within {
		return attendance.FactResponse{}, &attendance.GeofenceError{MinDistanceMeters: minDistance}
	}

	window, err := ParseWindow(emp.ShiftStart, emp.ShiftEnd)
	if err != nil {
		return attendance.FactResponse{}, err
	}

	shiftType := Classify(now, window)
	shiftDate := ScheduledShiftDate(now, window)

	lateMinutes := civiltime.MinutesBetween(ScheduledStart(shiftDate, window), now)
	if lateMinutes < 0 {
		lateMinutes = 0
	}
	lateDeductible := lateMinutes >= a.cfg.LateDeductibleThresholdMinutes

	// A clock-in after the day's shift already closed opens a follow-up
	// session flagged as overtime.
	isOvertimeSession := false
	prior, err := a.FactRepository.GetByEmployeeAndShiftDate(ctx, req.EmployeeID, shiftDate)
	if err != nil {
		return attendance.FactResponse{}, fmt.Errorf("failed to check prior attendance: %w", err)
	}
	if prior != nil && !prior.Open() {
		isOvertimeSession = true
		lateMinutes = 0
		lateDeductible = false
	}

	fact := attendance.Fact{
		EmployeeID:         req.EmployeeID,
		ShiftDate:          shiftDate,
		TimeIn:             now,
		ShiftType:          shiftType,
		VerificationStatus: attendance.VerificationVerified,
		LateMinutes:        lateMinutes,
		LateDeductible:     lateDeductible,
		OvertimeCategory:   attendance.OvertimeRegular,
		IsOvertimeSession:  isOvertimeSession,
		ClockInLatitude:    req.Latitude,
		ClockInLongitude:   req.Longitude,
	}

	created, err := a.FactRepository.Create(ctx, fact)
	if err != nil {
		// A concurrent clock-in loses the race on the partial unique index.
		if errors.Is(err, attendance.ErrDuplicateOpenFact) {
			return attendance.FactResponse{}, attendance.ErrDuplicateOpenFact
		}
		return attendance.FactResponse{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return mapFactToResponse(created), nil
}

// ClockOut implements attendance.Service.
func (a *AttendanceServiceImpl) ClockOut(ctx context.Context, req attendance.ClockOutRequest) (attendance.FactResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.FactResponse{}, err
	}
	now := eventInstant(req.At)

	fact, err := a.FactRepository.GetOpenFact(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, attendance.ErrNotClockedIn) {
			return attendance.FactResponse{}, attendance.ErrNotClockedIn
		}
		return attendance.FactResponse{}, fmt.Errorf("failed to get open attendance: %w", err)
	}

	emp, err := a.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return attendance.FactResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	window, err := ParseWindow(emp.ShiftStart, emp.ShiftEnd)
	if err != nil {
		return attendance.FactResponse{}, err
	}

	grossMinutes := civiltime.MinutesBetween(fact.TimeIn, now)
	if grossMinutes < 0 {
		return attendance.FactResponse{}, attendance.ErrFactAlreadyClosed
	}

	lunch := 0
	if grossMinutes >= lunchThresholdMinutes {
		lunch = lunchDeductionMinutes
	}

	// Overtime is measured against the raw clock span, before the lunch
	// deduction is subtracted. Confirmed contract; do not re-derive.
	// A follow-up session after the day's shift already closed is
	// overtime in its entirety, not just the span past one shift.
	overtime := grossMinutes - window.DurationMinutes()
	if fact.IsOvertimeSession {
		overtime = grossMinutes
	}
	if overtime < 0 {
		overtime = 0
	}

	worked := grossMinutes - lunch

	fact.TimeOut = &now
	fact.LunchDeductionMinutes = lunch
	fact.TotalWorkedMinutes = &worked
	fact.OvertimeMinutes = overtime
	if overtime > 0 {
		pending := attendance.OvertimePending
		fact.OvertimeStatus = &pending
		if !emp.WorksOn(fact.ShiftDate) {
			fact.OvertimeCategory = attendance.OvertimeRestDay
		}
	}

	if err := a.FactRepository.Update(ctx, fact); err != nil {
		return attendance.FactResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
	}

	return mapFactToResponse(fact), nil
}

// ReviewOvertime implements attendance.Service.
func (a *AttendanceServiceImpl) ReviewOvertime(ctx context.Context, req attendance.ReviewOvertimeRequest) (attendance.FactResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.FactResponse{}, err
	}

	fact, err := a.FactRepository.GetByID(ctx, req.FactID)
	if err != nil {
		if errors.Is(err, attendance.ErrFactNotFound) {
			return attendance.FactResponse{}, attendance.ErrFactNotFound
		}
		return attendance.FactResponse{}, fmt.Errorf("failed to get attendance record: %w", err)
	}

	if fact.OvertimeStatus == nil || *fact.OvertimeStatus != attendance.OvertimePending {
		return attendance.FactResponse{}, attendance.ErrNoOvertimeToReview
	}

	status := attendance.OvertimeRejected
	if req.Approve {
		status = attendance.OvertimeApproved
	}
	fact.OvertimeStatus = &status
	if req.Category != "" {
		fact.OvertimeCategory = attendance.OvertimeCategory(req.Category)
	}

	if err := a.FactRepository.Update(ctx, fact); err != nil {
		return attendance.FactResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
	}

	return mapFactToResponse(fact), nil
}

// CorrectFact implements attendance.Service.
// This is the single administrative path that may mutate a finalized fact.
func (a *AttendanceServiceImpl) CorrectFact(ctx context.Context, req attendance.CorrectFactRequest) (attendance.FactResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.FactResponse{}, err
	}

	fact, err := a.FactRepository.GetByID(ctx, req.FactID)
	if err != nil {
		if errors.Is(err, attendance.ErrFactNotFound) {
			return attendance.FactResponse{}, attendance.ErrFactNotFound
		}
		return attendance.FactResponse{}, fmt.Errorf("failed to get attendance record: %w", err)
	}

	if req.TimeIn != nil {
		t, _ := time.Parse(time.RFC3339, *req.TimeIn)
		fact.TimeIn = civiltime.In(t)
	}
	if req.TimeOut != nil {
		t, _ := time.Parse(time.RFC3339, *req.TimeOut)
		pinned := civiltime.In(t)
		fact.TimeOut = &pinned
	}
	if req.LateMinutes != nil {
		fact.LateMinutes = *req.LateMinutes
		fact.LateDeductible = fact.LateMinutes >= a.cfg.LateDeductibleThresholdMinutes
	}
	if req.OvertimeMinutes != nil {
		fact.OvertimeMinutes = *req.OvertimeMinutes
	}
	if req.VerificationStatus != nil {
		fact.VerificationStatus = attendance.VerificationStatus(*req.VerificationStatus)
	}

	// Re-derive the span fields whenever both clock times are present.
	if fact.TimeOut != nil {
		gross := civiltime.MinutesBetween(fact.TimeIn, *fact.TimeOut)
		lunch := 0
		if gross >= lunchThresholdMinutes {
			lunch = lunchDeductionMinutes
		}
		worked := gross - lunch
		fact.LunchDeductionMinutes = lunch
		fact.TotalWorkedMinutes = &worked
	}

	if err := a.FactRepository.Update(ctx, fact); err != nil {
		return attendance.FactResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
	}

	return mapFactToResponse(fact), nil
}

// GetFact implements attendance.Service.
func (a *AttendanceServiceImpl) GetFact(ctx context.Context, id string) (attendance.FactResponse, error) {
	fact, err := a.FactRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, attendance.ErrFactNotFound) {
			return attendance.FactResponse{}, attendance.ErrFactNotFound
		}
		return attendance.FactResponse{}, fmt.Errorf("failed to get attendance record: %w", err)
	}
	return mapFactToResponse(fact), nil
}

// ListFacts implements attendance.Service.
func (a *AttendanceServiceImpl) ListFacts(ctx context.Context, filter attendance.FactFilter) (attendance.ListFactsResponse, error) {
	facts, total, err := a.FactRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListFactsResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	responses := make([]attendance.FactResponse, 0, len(facts))
	for _, f := range facts {
		responses = append(responses, mapFactToResponse(f))
	}

	totalPages := 0
	if filter.Limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(filter.Limit)))
	}

	return attendance.ListFactsResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Facts:      responses,
	}, nil
}

// mapFactToResponse converts a Fact entity to FactResponse
func mapFactToResponse(f attendance.Fact) attendance.FactResponse {
	var otStatus *string
	if f.OvertimeStatus != nil {
		s := string(*f.OvertimeStatus)
		otStatus = &s
	}

	timeIn := civiltime.In(f.TimeIn).Format("2006-01-02 15:04:05")

	return attendance.FactResponse{
		ID:                    f.ID,
		EmployeeID:            f.EmployeeID,
		EmployeeName:          f.EmployeeName,
		ShiftDate:             f.ShiftDate.Format("2006-01-02"),
		TimeIn:                timeIn,
		TimeOut:               timePtrToString(f.TimeOut),
		ShiftType:             string(f.ShiftType),
		VerificationStatus:    string(f.VerificationStatus),
		LateMinutes:           f.LateMinutes,
		LateDeductible:        f.LateDeductible,
		OvertimeMinutes:       f.OvertimeMinutes,
		OvertimeStatus:        otStatus,
		OvertimeCategory:      string(f.OvertimeCategory),
		LunchDeductionMinutes: f.LunchDeductionMinutes,
		TotalWorkedMinutes:    f.TotalWorkedMinutes,
		IsOvertimeSession:     f.IsOvertimeSession,
	}
}
