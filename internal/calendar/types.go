package calendar

import (
	"fmt"
	"time"
)

// CivilDate is a plain calendar date: no time of day, no timezone.
type CivilDate struct {
	Year  int
	Month int // 1-12
	Day   int
}

// FromTime truncates a time.Time to its calendar date.
func FromTime(t time.Time) CivilDate {
	return CivilDate{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

func (d CivilDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// DayRecord is one server-supplied training-calendar entry. The server's
// year is unreliable (it sometimes carries a sentinel or a stale cycle
// year), so matching against grid cells ignores it; see sameCalendarDay.
type DayRecord struct {
	Date         CivilDate
	Label        string
	WorkoutTitle string
	WorkoutID    string // empty means no workout attached
	Trained      bool
	Canceled     bool
}

// DayStatus classifies a single calendar day. StatusNone means the day
// renders as a bare number.
type DayStatus int

const (
	StatusNone DayStatus = iota
	StatusCompleted
	StatusPlanned
	StatusMissed
	StatusActiveToday
	StatusRestDay
)

func (s DayStatus) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusPlanned:
		return "planned"
	case StatusMissed:
		return "missed"
	case StatusActiveToday:
		return "active"
	case StatusRestDay:
		return "rest"
	default:
		return "none"
	}
}

// Cell is one day of the rendered month grid.
type Cell struct {
	Date         CivilDate
	InMonth      bool // false for the leading/trailing padding days
	Status       DayStatus
	WorkoutID    string
	WorkoutTitle string
	Label        string
}

// Week is a Monday-first run of seven cells.
type Week [7]Cell
