package attendance

import (
	"time"

	"github.com/sagana-hq/workforce-backend-go/internal/domain/attendance"
	"github.com/sagana-hq/workforce-backend-go/internal/domain/employee"
	"github.com/sagana-hq/workforce-backend-go/internal/pkg/civiltime"
)

// Window is an employee's configured shift as wall-clock minutes of day.
// An overnight window has End numerically below Start (22:00-06:00).
type Window struct {
	StartHour   int
	StartMinute int
	EndHour     int
	EndMinute   int
}

func ParseWindow(start, end string) (Window, error) {
	sh, sm, err := civiltime.ParseClock(start)
	if err != nil {
		return Window{}, employee.ErrInvalidShiftWindow
	}
	eh, em, err := civiltime.ParseClock(end)
	if err != nil {
		return Window{}, employee.ErrInvalidShiftWindow
	}
	return Window{StartHour: sh, StartMinute: sm, EndHour: eh, EndMinute: em}, nil
}

func (w Window) startMinutes() int { return w.StartHour*60 + w.StartMinute }
func (w Window) endMinutes() int   { return w.EndHour*60 + w.EndMinute }

// Overnight reports whether the window crosses midnight.
func (w Window) Overnight() bool {
	return w.endMinutes() < w.startMinutes()
}

// DurationMinutes is the scheduled shift length, wrapping past midnight for
// overnight windows.
func (w Window) DurationMinutes() int {
	d := w.endMinutes() - w.startMinutes()
	if d <= 0 {
		d += 24 * 60
	}
	return d
}

func minutesOfDay(t time.Time) int {
	t = civiltime.In(t)
	return t.Hour()*60 + t.Minute()
}

// Classify returns night when the clock-in falls inside an overnight
// window, day otherwise. Day-shift windows never classify night, no matter
// the hour.
func Classify(clockIn time.Time, w Window) attendance.ShiftType {
	if !w.Overnight() {
		return attendance.ShiftDay
	}
	m := minutesOfDay(clockIn)
	if m >= w.startMinutes() || m < w.endMinutes() {
		return attendance.ShiftNight
	}
	return attendance.ShiftDay
}

// ScheduledShiftDate attributes the clock event to a shift date. A night
// clock-in before the window's end-of-day boundary belongs to the previous
// calendar day's shift, so a 02:00 clock-in under a 22:00-06:00 window does
// not open a fresh day.
func ScheduledShiftDate(clockIn time.Time, w Window) time.Time {
	day := civiltime.DayOf(clockIn)
	if Classify(clockIn, w) == attendance.ShiftNight && minutesOfDay(clockIn) < w.endMinutes() {
		return day.AddDate(0, 0, -1)
	}
	return day
}

// ScheduledStart is the instant the shift nominally starts on its shift
// date.
func ScheduledStart(shiftDate time.Time, w Window) time.Time {
	return civiltime.At(shiftDate, w.StartHour, w.StartMinute)
}
