package attendance

import (
	"time"
)

type ShiftType string

const (
	ShiftDay   ShiftType = "day"
	ShiftNight ShiftType = "night"
)

type VerificationStatus string

const (
	VerificationVerified VerificationStatus = "verified"
	VerificationOffSite  VerificationStatus = "off_site"
	VerificationPending  VerificationStatus = "pending"
	VerificationFlagged  VerificationStatus = "flagged"
)

type OvertimeStatus string

const (
	OvertimePending  OvertimeStatus = "pending"
	OvertimeApproved OvertimeStatus = "approved"
	OvertimeRejected OvertimeStatus = "rejected"
)

type OvertimeCategory string

const (
	OvertimeRegular OvertimeCategory = "regular"
	OvertimeRestDay OvertimeCategory = "rest_day"
	OvertimeHoliday OvertimeCategory = "holiday"
)

// Fact is one verified attendance observation. A fact is open while
// TimeOut is nil; at most one open fact may exist per employee, enforced by
// a partial unique index. Once closed it is immutable except through the
// explicit correction path.
type Fact struct {
	ID         string
	EmployeeID string
	// ShiftDate is the scheduled shift date the event is attributed to. For
	// an overnight shift's early-morning clock-in this is the previous
	// calendar day.
	ShiftDate             time.Time
	TimeIn                time.Time
	TimeOut               *time.Time
	ShiftType             ShiftType
	VerificationStatus    VerificationStatus
	LateMinutes           int
	LateDeductible        bool
	OvertimeMinutes       int
	OvertimeStatus        *OvertimeStatus
	OvertimeCategory      OvertimeCategory
	LunchDeductionMinutes int
	TotalWorkedMinutes    *int
	IsOvertimeSession     bool
	ClockInLatitude       float64
	ClockInLongitude      float64
	CreatedAt             time.Time
	UpdatedAt             time.Time

	// DTO
	EmployeeName *string
}

// Open reports whether the fact still awaits a clock-out.
func (f Fact) Open() bool {
	return f.TimeOut == nil
}

// Qualifying reports whether the fact counts toward days worked: closed,
// verified, and a primary session rather than an overtime follow-up.
func (f Fact) Qualifying() bool {
	return !f.Open() && f.VerificationStatus == VerificationVerified && !f.IsOvertimeSession
}
