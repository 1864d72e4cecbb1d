package stats

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spec-kit/job-tracker/internal/domain"
)

// RecentLimit is the number of applications shown in the dashboard's recent list.
const RecentLimit = 5

// Recent returns up to n applications ordered by date, newest first. Ties keep
// their working-set order.
func Recent(apps []domain.Application, n int) []domain.Application {
	sorted := make([]domain.Application, 0, len(apps))
	for _, app := range apps {
		if Valid(app) {
			sorted = append(sorted, app)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// FormatDate renders a calendar date as "Jan 2, 2006".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("Jan 2, 2006")
}

// MonthOption is one entry of the month picker.
type MonthOption struct {
	Key   string
	Label string
	Year  int
	Month int
}

// AvailableMonths lists the distinct months present in apps, newest first.
func AvailableMonths(apps []domain.Application) []MonthOption {
	months := SortMonthsDesc(MonthlyBuckets(apps))
	options := make([]MonthOption, 0, len(months))
	for _, month := range months {
		options = append(options, MonthOption{
			Key:   MonthKey(month.Year, month.Month),
			Label: month.MonthName,
			Year:  month.Year,
			Month: month.Month,
		})
	}
	return options
}

// MonthKey formats a month as "2025-01".
func MonthKey(year, month int) string {
	return fmt.Sprintf("%d-%02d", year, month)
}

// ParseMonthKey is the inverse of MonthKey.
func ParseMonthKey(key string) (year, month int, err error) {
	yearPart, monthPart, ok := strings.Cut(key, "-")
	if !ok {
		return 0, 0, fmt.Errorf("invalid month key %q", key)
	}
	year, err = strconv.Atoi(yearPart)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month key %q: %w", key, err)
	}
	month, err = strconv.Atoi(monthPart)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("invalid month key %q", key)
	}
	return year, month, nil
}
