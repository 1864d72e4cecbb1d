// Package filter narrows a working set of applications by status, free text
// and month without touching the working set itself.
package filter

import (
	"strings"

	"github.com/spec-kit/job-tracker/internal/domain"
	"github.com/spec-kit/job-tracker/internal/stats"
)

// Criteria is the visible-subset selection chosen by the user.
type Criteria struct {
	Status string
	Query  string
}

// Apply returns the applications matching c in their original order. The
// status filter runs first and the text query narrows its result.
func Apply(apps []domain.Application, c Criteria) []domain.Application {
	return ByText(ByStatus(apps, c.Status), c.Query)
}

// ByStatus keeps applications whose status equals status exactly. "all" and
// the empty string keep everything.
func ByStatus(apps []domain.Application, status string) []domain.Application {
	if status == "" || status == domain.StatusAll {
		return clone(apps)
	}
	return keep(apps, func(app domain.Application) bool {
		return string(app.Status) == status
	})
}

// ByText keeps applications where query is a case-insensitive substring of
// the job title, company, location or status label. A blank query keeps
// everything.
func ByText(apps []domain.Application, query string) []domain.Application {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return clone(apps)
	}
	return keep(apps, func(app domain.Application) bool {
		return Matches(app, needle)
	})
}

// Matches reports whether the lowercased needle occurs in any searchable field.
func Matches(app domain.Application, needle string) bool {
	fields := []string{app.JobTitle, app.Company}
	if app.Location != "" {
		fields = append(fields, app.Location)
	}
	if app.Status.Valid() {
		fields = append(fields, app.Status.Label())
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// ByMonth keeps applications dated in the month identified by key ("2025-01").
// "all" and the empty key keep everything.
func ByMonth(apps []domain.Application, key string) ([]domain.Application, error) {
	if key == "" || key == domain.StatusAll {
		return clone(apps), nil
	}
	year, month, err := stats.ParseMonthKey(key)
	if err != nil {
		return nil, err
	}
	return keep(apps, func(app domain.Application) bool {
		return stats.Valid(app) && app.Date.Year() == year && int(app.Date.Month()) == month
	}), nil
}

func keep(apps []domain.Application, pred func(domain.Application) bool) []domain.Application {
	out := make([]domain.Application, 0, len(apps))
	for _, app := range apps {
		if pred(app) {
			out = append(out, app)
		}
	}
	return out
}

func clone(apps []domain.Application) []domain.Application {
	return append(make([]domain.Application, 0, len(apps)), apps...)
}
