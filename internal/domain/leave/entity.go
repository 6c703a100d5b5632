package leave

import "time"

// LeaveType entity
type LeaveType struct {
	ID   string
	Name string
	Code *string
	// IsPaid decides payroll treatment: approved unpaid leave overlapping a
	// period is deducted from net; paid leave is part of gross.
	IsPaid        bool
	AccrualMethod AccrualMethod
	// AnnualDays is the full yearly grant. Monthly accrual pro-rates it.
	AnnualDays float64
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type AccrualMethod string

const (
	// AccrualAnnual grants the full allocation at the start of the year.
	AccrualAnnual AccrualMethod = "annual"
	// AccrualMonthly grants annualDays/12 per completed month of service in
	// the year.
	AccrualMonthly AccrualMethod = "monthly"
)

// Allocation tracks one employee's balance for one leave type and year.
// Invariant: UsedDays ≤ AllocatedDays, except where an administrative
// correction explicitly overrides it.
type Allocation struct {
	ID            string
	EmployeeID    string
	LeaveTypeID   string
	Year          int
	AllocatedDays float64
	UsedDays      float64
	// OverrideFlag records that an admin correction pushed UsedDays past
	// AllocatedDays on purpose.
	OverrideFlag bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Remaining returns the unconsumed balance, never negative.
func (a Allocation) Remaining() float64 {
	if a.UsedDays >= a.AllocatedDays {
		return 0
	}
	return a.AllocatedDays - a.UsedDays
}

type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestApproved  RequestStatus = "approved"
	RequestRejected  RequestStatus = "rejected"
	RequestCancelled RequestStatus = "cancelled"
)

// Request is a leave request against an allocation. Only approved requests
// of unpaid types affect payroll.
type Request struct {
	ID           string
	EmployeeID   string
	AllocationID string
	LeaveTypeID  string
	StartDate    time.Time
	EndDate      time.Time
	Days         float64
	Status       RequestStatus
	Reason       *string
	DecidedBy    *string
	DecidedAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Joined fields
	LeaveTypeName *string
	IsPaid        *bool
}

// OverlapDays counts the calendar days of the request inside [from, to],
// inclusive on both ends.
func (r Request) OverlapDays(from, to time.Time) int {
	start := r.StartDate
	if from.After(start) {
		start = from
	}
	end := r.EndDate
	if to.Before(end) {
		end = to
	}
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start)/(24*time.Hour)) + 1
}
