package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID               string
	EmployeeCode     string
	FullName         string
	CompensationType CompensationType
	// DailyRate is set for daily-paid employees, MonthlyRate for
	// monthly-paid ones; the other is nil.
	DailyRate   *decimal.Decimal
	MonthlyRate *decimal.Decimal
	// Shift window as wall-clock strings ("HH:MM"). An overnight shift has
	// ShiftEnd numerically earlier than ShiftStart.
	ShiftStart string
	ShiftEnd   string
	// WorkDays holds time.Weekday values the employee is scheduled on.
	WorkDays         []time.Weekday
	EmploymentStatus EmploymentStatus
	HireDate         time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type CompensationType string

const (
	CompensationDaily   CompensationType = "daily"
	CompensationMonthly CompensationType = "monthly"
)

type EmploymentStatus string

const (
	StatusActive       EmploymentStatus = "active"
	StatusProbationary EmploymentStatus = "probationary"
	StatusTerminated   EmploymentStatus = "terminated"
	StatusSuspended    EmploymentStatus = "suspended"
)

// PayrollEligible reports whether the employee participates in payroll
// generation at all. Terminated and suspended employees are excluded from
// the batch, not computed with zeros.
func (e Employee) PayrollEligible() bool {
	return e.EmploymentStatus == StatusActive || e.EmploymentStatus == StatusProbationary
}

// EffectiveDailyRate normalizes compensation to a daily rate. Monthly-paid
// employees are divided by the configured working days per month.
func (e Employee) EffectiveDailyRate(workingDaysPerMonth int) decimal.Decimal {
	switch e.CompensationType {
	case CompensationMonthly:
		if e.MonthlyRate == nil {
			return decimal.Zero
		}
		return e.MonthlyRate.Div(decimal.NewFromInt(int64(workingDaysPerMonth)))
	default:
		if e.DailyRate == nil {
			return decimal.Zero
		}
		return *e.DailyRate
	}
}

// WorksOn reports whether day's weekday is part of the employee's work-day set.
func (e Employee) WorksOn(day time.Time) bool {
	for _, wd := range e.WorkDays {
		if wd == day.Weekday() {
			return true
		}
	}
	return false
}
