// Package stats derives dashboard and statistics views from a working set of
// job applications. Every function is pure: the same working set and Context
// always produce the same result, and nothing is cached between calls.
package stats

import (
	"math"
	"time"

	"github.com/spec-kit/job-tracker/internal/domain"
)

const day = 24 * time.Hour

// Context carries the clock and time zone the engine evaluates "this week" and
// "this month" against.
type Context struct {
	Now      time.Time
	Location *time.Location
}

// NewContext returns a Context for now in loc. A nil loc means time.Local.
func NewContext(now time.Time, loc *time.Location) Context {
	return Context{Now: now, Location: loc}
}

func (c Context) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

func (c Context) now() time.Time {
	if c.Now.IsZero() {
		return time.Now().In(c.location())
	}
	return c.Now.In(c.location())
}

// WeekNumber returns the ISO-8601 week of t's calendar date together with the
// year that week belongs to. The date is moved to the Thursday of its
// Monday-first week and the week is counted from January 1st of that
// Thursday's year, so 2024-12-30 falls in week 1 of 2025.
func WeekNumber(t time.Time) (year, week int) {
	d := domain.CalendarDate(t)
	thursday := d.AddDate(0, 0, 4-isoWeekday(d))
	jan1 := time.Date(thursday.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	days := float64(thursday.Sub(jan1) / day)
	return thursday.Year(), int(math.Ceil((days + 1) / 7))
}

// isoWeekday numbers Monday as 1 and Sunday as 7.
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// CurrentWeek returns the Monday 00:00:00.000 to Sunday 23:59:59.999 interval
// containing ctx.Now in the context's time zone.
func CurrentWeek(ctx Context) (start, end time.Time) {
	now := ctx.now()
	loc := ctx.location()
	y, m, d := now.Date()
	start = time.Date(y, m, d-(isoWeekday(now)-1), 0, 0, 0, 0, loc)
	sy, sm, sd := start.Date()
	end = time.Date(sy, sm, sd+6, 23, 59, 59, int(999*time.Millisecond), loc)
	return start, end
}

// InCurrentWeek reports whether the application's date falls in CurrentWeek.
func InCurrentWeek(ctx Context, app domain.Application) bool {
	if !Valid(app) {
		return false
	}
	start, end := CurrentWeek(ctx)
	local := localDate(ctx, app.Date)
	return !local.Before(start) && !local.After(end)
}

// CountThisWeek counts applications dated in the current week.
func CountThisWeek(ctx Context, apps []domain.Application) int {
	count := 0
	for _, app := range apps {
		if InCurrentWeek(ctx, app) {
			count++
		}
	}
	return count
}

// CountThisMonth counts applications whose calendar month and year match ctx.Now.
func CountThisMonth(ctx Context, apps []domain.Application) int {
	now := ctx.now()
	count := 0
	for _, app := range apps {
		if !Valid(app) {
			continue
		}
		if app.Date.Year() == now.Year() && app.Date.Month() == now.Month() {
			count++
		}
	}
	return count
}

// Valid reports whether the application carries a usable date. Applications
// without one are left out of every bucket.
func Valid(app domain.Application) bool {
	return !app.Date.IsZero()
}

// localDate interprets the calendar date of t as midnight in the context zone.
func localDate(ctx Context, t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, ctx.location())
}
