package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sadopc/fitgrid/internal/cache"
	"github.com/sadopc/fitgrid/internal/calendar"
)

// Profile is the signed-in user's account data.
type Profile struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Level      string `json:"level"`
	WeeklyGoal int    `json:"weekly_goal"`
}

// Program is one entry of the available-content listing.
type Program struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Level       string `json:"level"`
	Weeks       int    `json:"weeks"`
	Sessions    int    `json:"sessions_per_week"`
}

// Exercise is one movement of a workout, fetched per id.
type Exercise struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MuscleGroup string `json:"muscle_group"`
	Equipment   string `json:"equipment"`
}

// HistoryEntry is one completed workout session.
type HistoryEntry struct {
	Date         string `json:"date"` // YYYY-MM-DD
	WorkoutID    string `json:"workout_id"`
	WorkoutTitle string `json:"workout_title"`
	DurationMin  int    `json:"duration_min"`
}

// calendarDay is the wire form of a training-calendar day. The date's year
// is not trustworthy; see calendar.DayRecord.
type calendarDay struct {
	Date         string `json:"date"`
	Label        string `json:"label"`
	WorkoutTitle string `json:"workout_title"`
	WorkoutID    string `json:"workout_id"`
	Trained      bool   `json:"trained"`
	Canceled     bool   `json:"canceled"`
}

func (c *Client) userID() string {
	if c.session == nil {
		return ""
	}
	return c.session.UserID
}

// Profile fetches the user profile, cached under the user's profile key.
func (c *Client) Profile(ctx context.Context) (Profile, cache.Origin, error) {
	return cache.FetchDetail(ctx, c.cache, cache.ProfileKey(c.userID()), c.ttl, c.Reachable,
		func(ctx context.Context) (Profile, error) {
			var p Profile
			err := c.do(ctx, http.MethodGet, "/user/profile", nil, &p)
			return p, err
		})
}

// Programs fetches the available-content listing.
func (c *Client) Programs(ctx context.Context) ([]Program, cache.Origin, error) {
	return cache.FetchDetail(ctx, c.cache, cache.ContentKey(), c.ttl, c.Reachable,
		func(ctx context.Context) ([]Program, error) {
			var ps []Program
			err := c.do(ctx, http.MethodGet, "/content/programs", nil, &ps)
			return ps, err
		})
}

// Program fetches a single program's detail, cached per id.
func (c *Client) Program(ctx context.Context, id string) (Program, cache.Origin, error) {
	return cache.FetchDetail(ctx, c.cache, cache.ProgramKey(id), c.ttl, c.Reachable,
		func(ctx context.Context) (Program, error) {
			var p Program
			err := c.do(ctx, http.MethodGet, "/content/programs/"+id, nil, &p)
			return p, err
		})
}

// Exercise fetches a single exercise's detail, cached per id.
func (c *Client) Exercise(ctx context.Context, id string) (Exercise, cache.Origin, error) {
	return cache.FetchDetail(ctx, c.cache, cache.ExerciseKey(id), c.ttl, c.Reachable,
		func(ctx context.Context) (Exercise, error) {
			var e Exercise
			err := c.do(ctx, http.MethodGet, "/content/exercises/"+id, nil, &e)
			return e, err
		})
}

// History fetches the user's completed workout sessions.
func (c *Client) History(ctx context.Context) ([]HistoryEntry, cache.Origin, error) {
	return cache.FetchDetail(ctx, c.cache, cache.HistoryKey(c.userID()), c.ttl, c.Reachable,
		func(ctx context.Context) ([]HistoryEntry, error) {
			var hs []HistoryEntry
			err := c.do(ctx, http.MethodGet, "/user/history", nil, &hs)
			return hs, err
		})
}

// Calendar fetches the sparse day records for one month, cached per
// user and month. The reconciler turns them into the rendered grid.
func (c *Client) Calendar(ctx context.Context, year, month int) ([]calendar.DayRecord, cache.Origin, error) {
	key := cache.CalendarKey(c.userID(), year, month)
	return cache.FetchDetail(ctx, c.cache, key, c.ttl, c.Reachable,
		func(ctx context.Context) ([]calendar.DayRecord, error) {
			var days []calendarDay
			path := fmt.Sprintf("/user/calendar?year=%d&month=%d", year, month)
			if err := c.do(ctx, http.MethodGet, path, nil, &days); err != nil {
				return nil, err
			}
			records := make([]calendar.DayRecord, 0, len(days))
			for _, d := range days {
				date, ok := parseCivil(d.Date)
				if !ok {
					continue
				}
				records = append(records, calendar.DayRecord{
					Date:         date,
					Label:        d.Label,
					WorkoutTitle: d.WorkoutTitle,
					WorkoutID:    d.WorkoutID,
					Trained:      d.Trained,
					Canceled:     d.Canceled,
				})
			}
			return records, nil
		})
}

// parseCivil reads a YYYY-MM-DD wire date. Records with unparseable dates
// are dropped rather than failing the whole month.
func parseCivil(s string) (calendar.CivilDate, bool) {
	var d calendar.CivilDate
	if _, err := fmt.Sscanf(s, "%d-%d-%d", &d.Year, &d.Month, &d.Day); err != nil {
		return calendar.CivilDate{}, false
	}
	if d.Month < 1 || d.Month > 12 || d.Day < 1 || d.Day > 31 {
		return calendar.CivilDate{}, false
	}
	return d, true
}
