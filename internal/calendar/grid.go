package calendar

import "time"

// RestLabel is the server's sentinel label for a scheduled rest day. A
// record carrying it is always a rest day, whatever else the record says.
const RestLabel = "Rest today"

// MonthGrid expands the sparse server day records into a dense Monday-first
// grid covering the given month, padded on both sides to whole weeks. The
// caller supplies today; the function reads no clock and performs no I/O,
// so identical inputs always produce identical output.
//
// When several records match the same day, the last one in input order wins.
func MonthGrid(year, month int, records []DayRecord, today CivilDate) []Week {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	// Days of the previous month needed to reach back to Monday.
	lead := (int(first.Weekday()) + 6) % 7
	total := lead + daysInMonth
	if rem := total % 7; rem != 0 {
		total += 7 - rem
	}

	start := first.AddDate(0, 0, -lead)
	weeks := make([]Week, total/7)

	for i := 0; i < total; i++ {
		day := start.AddDate(0, 0, i)
		date := FromTime(day)

		cell := Cell{
			Date:    date,
			InMonth: int(day.Month()) == month && day.Year() == year,
		}

		if rec, ok := matchRecord(records, date); ok {
			cell.Status = resolveStatus(rec, date, today)
			cell.WorkoutID = rec.WorkoutID
			cell.WorkoutTitle = rec.WorkoutTitle
			cell.Label = rec.Label
		} else if sameCalendarDay(date, today) {
			cell.Status = StatusActiveToday
		}

		weeks[i/7][i%7] = cell
	}

	suppressBeyondMonth(weeks, month)
	return weeks
}

// WeekContaining returns the week of the grid that holds today, or the
// first week when today does not appear (anchor month far from the
// present). Used by the collapsed calendar presentation.
func WeekContaining(weeks []Week, today CivilDate) Week {
	for _, w := range weeks {
		for _, c := range w {
			if sameCalendarDay(c.Date, today) {
				return w
			}
		}
	}
	if len(weeks) == 0 {
		return Week{}
	}
	return weeks[0]
}

// sameCalendarDay reports whether two dates fall on the same month and
// day-of-month. The year is deliberately ignored: the legacy server
// contract does not guarantee a meaningful year on day records, so a
// record from the wrong year still matches the requested month's cell.
// If the server contract is ever fixed, switching this to full-date
// equality is the single place to do it.
func sameCalendarDay(a, b CivilDate) bool {
	return a.Month == b.Month && a.Day == b.Day
}

// matchRecord finds the record for a cell date, last match winning.
func matchRecord(records []DayRecord, date CivilDate) (DayRecord, bool) {
	var found DayRecord
	ok := false
	for _, rec := range records {
		if sameCalendarDay(rec.Date, date) {
			found = rec
			ok = true
		}
	}
	return found, ok
}

// resolveStatus applies the status precedence rules, first match winning.
func resolveStatus(rec DayRecord, cell, today CivilDate) DayStatus {
	if rec.Label == RestLabel {
		return StatusRestDay
	}
	if rec.Trained && !rec.Canceled {
		return StatusCompleted
	}
	if !rec.Trained && rec.Canceled {
		return StatusMissed
	}
	if sameCalendarDay(cell, today) && rec.WorkoutID != "" {
		return StatusActiveToday
	}

	// Planned/missed only apply to an untouched record with a workout.
	if rec.WorkoutID == "" || rec.Trained || rec.Canceled {
		return StatusNone
	}

	switch {
	case rec.Date.Month == today.Month:
		if rec.Date.Day > today.Day {
			return StatusPlanned
		}
		if rec.Date.Day < today.Day {
			return StatusMissed
		}
	case monthAfter(rec.Date.Month, today.Month):
		return StatusPlanned
	case monthBefore(rec.Date.Month, today.Month):
		return StatusMissed
	}
	return StatusNone
}

// monthAfter and monthBefore compare bare month numbers, keeping the
// legacy wraparound terms the original client carried.

func monthAfter(m, rel int) bool {
	return m > rel || m-12 > rel
}

func monthBefore(m, rel int) bool {
	return m < rel || m+12 < rel
}

// suppressBeyondMonth clears status and workout data from every cell whose
// month number is past the anchor month. The trailing padding cells stay
// in the grid for layout, but the view never leaks next month's plan.
func suppressBeyondMonth(weeks []Week, month int) {
	for i := range weeks {
		for j := range weeks[i] {
			if weeks[i][j].Date.Month > month {
				weeks[i][j].Status = StatusNone
				weeks[i][j].WorkoutID = ""
				weeks[i][j].WorkoutTitle = ""
				weeks[i][j].Label = ""
			}
		}
	}
}
