package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/spec-kit/job-tracker/internal/domain"
)

// WeekBucket groups the applications of one ISO week.
type WeekBucket struct {
	Week         int
	Year         int
	Count        int
	Applications []domain.Application
}

// Label renders the bucket as "W{week} {year}".
func (b WeekBucket) Label() string {
	return fmt.Sprintf("W%d %d", b.Week, b.Year)
}

// MonthBucket groups the applications of one calendar month.
type MonthBucket struct {
	Month        int
	Year         int
	MonthName    string
	Count        int
	Applications []domain.Application
}

type weekKey struct{ year, week int }

type monthKey struct{ year, month int }

// WeeklyBuckets groups applications by ISO week, keyed on the year of the
// week's Thursday. Buckets are returned in first-encountered order.
func WeeklyBuckets(apps []domain.Application) []WeekBucket {
	index := make(map[weekKey]int)
	var buckets []WeekBucket
	for _, app := range apps {
		if !Valid(app) {
			continue
		}
		year, week := WeekNumber(app.Date)
		key := weekKey{year: year, week: week}
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, WeekBucket{Week: week, Year: year})
		}
		buckets[i].Count++
		buckets[i].Applications = append(buckets[i].Applications, app)
	}
	return buckets
}

// MonthlyBuckets groups applications by calendar year and month. Buckets are
// returned in first-encountered order.
func MonthlyBuckets(apps []domain.Application) []MonthBucket {
	index := make(map[monthKey]int)
	var buckets []MonthBucket
	for _, app := range apps {
		if !Valid(app) {
			continue
		}
		year, month := app.Date.Year(), int(app.Date.Month())
		key := monthKey{year: year, month: month}
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, MonthBucket{
				Month:     month,
				Year:      year,
				MonthName: MonthName(year, month),
			})
		}
		buckets[i].Count++
		buckets[i].Applications = append(buckets[i].Applications, app)
	}
	return buckets
}

// MonthName renders a month as "January 2025".
func MonthName(year, month int) string {
	return fmt.Sprintf("%s %d", time.Month(month), year)
}

// SortWeeksDesc returns a copy of buckets ordered newest first.
func SortWeeksDesc(buckets []WeekBucket) []WeekBucket {
	sorted := append([]WeekBucket(nil), buckets...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Year != sorted[j].Year {
			return sorted[i].Year > sorted[j].Year
		}
		return sorted[i].Week > sorted[j].Week
	})
	return sorted
}

// SortWeeksAsc returns a copy of buckets ordered oldest first.
func SortWeeksAsc(buckets []WeekBucket) []WeekBucket {
	sorted := append([]WeekBucket(nil), buckets...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Year != sorted[j].Year {
			return sorted[i].Year < sorted[j].Year
		}
		return sorted[i].Week < sorted[j].Week
	})
	return sorted
}

// SortMonthsDesc returns a copy of buckets ordered newest first.
func SortMonthsDesc(buckets []MonthBucket) []MonthBucket {
	sorted := append([]MonthBucket(nil), buckets...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Year != sorted[j].Year {
			return sorted[i].Year > sorted[j].Year
		}
		return sorted[i].Month > sorted[j].Month
	})
	return sorted
}

// RecentWeeks returns the last n weekly buckets in chronological order.
func RecentWeeks(buckets []WeekBucket, n int) []WeekBucket {
	sorted := SortWeeksAsc(buckets)
	if n >= 0 && len(sorted) > n {
		sorted = sorted[len(sorted)-n:]
	}
	return sorted
}
