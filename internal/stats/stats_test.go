package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/job-tracker/internal/domain"
)

func TestWeeklyBuckets_FullYearKeepsEveryRecord(t *testing.T) {
	var apps []domain.Application
	for d := date(2023, time.January, 1); d.Year() == 2023; d = d.AddDate(0, 0, 1) {
		apps = append(apps, app(d.Format(domain.DateLayout), d, domain.StatusApplied))
	}
	require.Len(t, apps, 365)

	buckets := WeeklyBuckets(apps)
	total := 0
	seen := make(map[string]bool)
	for _, bucket := range buckets {
		require.Equal(t, bucket.Count, len(bucket.Applications))
		total += bucket.Count
		for _, member := range bucket.Applications {
			require.False(t, seen[member.ID], "record %s counted twice", member.ID)
			seen[member.ID] = true
		}
	}
	require.Equal(t, 365, total)

	// 2023-01-01 is a Sunday and belongs to the last week of 2022.
	require.Equal(t, 2022, buckets[0].Year)
	require.Equal(t, 52, buckets[0].Week)
	require.Equal(t, 1, buckets[0].Count)
	require.Len(t, buckets, 53)
}

func TestWeeklyBuckets_UsesShiftedYear(t *testing.T) {
	apps := []domain.Application{
		app("1", date(2024, time.December, 30), domain.StatusApplied),
		app("2", date(2025, time.January, 2), domain.StatusApplied),
		app("3", date(2024, time.December, 28), domain.StatusApplied),
	}
	buckets := WeeklyBuckets(apps)
	require.Len(t, buckets, 2)
	require.Equal(t, WeekBucket{Week: 1, Year: 2025, Count: 2, Applications: apps[:2]}, buckets[0])
	require.Equal(t, 2024, buckets[1].Year)
	require.Equal(t, 52, buckets[1].Week)
}

func TestWeeklyBuckets_SkipsMissingDates(t *testing.T) {
	apps := []domain.Application{
		{ID: "broken", Status: domain.StatusApplied},
		app("ok", date(2025, time.May, 5), domain.StatusApplied),
	}
	require.Len(t, WeeklyBuckets(apps), 1)
	require.Len(t, MonthlyBuckets(apps), 1)
}

func TestSortWeeks(t *testing.T) {
	buckets := []WeekBucket{
		{Year: 2024, Week: 50},
		{Year: 2025, Week: 2},
		{Year: 2024, Week: 52},
		{Year: 2025, Week: 1},
	}
	desc := SortWeeksDesc(buckets)
	require.Equal(t, []string{"W2 2025", "W1 2025", "W52 2024", "W50 2024"}, labels(desc))
	asc := SortWeeksAsc(buckets)
	require.Equal(t, []string{"W50 2024", "W52 2024", "W1 2025", "W2 2025"}, labels(asc))
	require.Equal(t, 50, buckets[0].Week, "input must not be reordered")
}

func TestWeeklyTimeline_LastEightChronological(t *testing.T) {
	var apps []domain.Application
	start := date(2025, time.January, 6)
	for i := 0; i < 10; i++ {
		d := start.AddDate(0, 0, 7*(9-i))
		for j := 0; j <= i; j++ {
			apps = append(apps, app("x", d, domain.StatusApplied))
		}
	}
	points := WeeklyTimeline(apps)
	require.Len(t, points, TimelineWeeks)
	require.Equal(t, "W4 2025", points[0].Label)
	require.Equal(t, "W11 2025", points[7].Label)
	require.Equal(t, 8, points[0].Count)
	require.Equal(t, 1, points[7].Count)
}

func TestMonthlyBuckets(t *testing.T) {
	apps := []domain.Application{
		app("1", date(2025, time.January, 31), domain.StatusApplied),
		app("2", date(2024, time.December, 1), domain.StatusApplied),
		app("3", date(2025, time.January, 1), domain.StatusApplied),
		app("4", date(2025, time.March, 3), domain.StatusApplied),
	}
	buckets := MonthlyBuckets(apps)
	require.Len(t, buckets, 3)
	require.Equal(t, "January 2025", buckets[0].MonthName)
	require.Equal(t, 2, buckets[0].Count)
	require.Equal(t, 1, buckets[0].Month)

	sorted := SortMonthsDesc(buckets)
	require.Equal(t, "March 2025", sorted[0].MonthName)
	require.Equal(t, "January 2025", sorted[1].MonthName)
	require.Equal(t, "December 2024", sorted[2].MonthName)
}

func TestMostActiveMonth_TieGoesToFirstEncountered(t *testing.T) {
	apps := []domain.Application{
		app("1", date(2025, time.February, 3), domain.StatusApplied),
		app("2", date(2025, time.January, 3), domain.StatusApplied),
		app("3", date(2025, time.January, 4), domain.StatusApplied),
		app("4", date(2025, time.February, 4), domain.StatusApplied),
	}
	require.Equal(t, "February 2025", MostActiveMonth(MonthlyBuckets(apps)))
	require.Equal(t, "-", MostActiveMonth(nil))
}

func TestWeeklyAverage(t *testing.T) {
	require.Equal(t, "0", WeeklyAverage(nil))
	require.Equal(t, "3.0", WeeklyAverage([]WeekBucket{{Count: 2}, {Count: 3}, {Count: 4}}))
	require.Equal(t, "2.3", WeeklyAverage([]WeekBucket{{Count: 2}, {Count: 2}, {Count: 2}, {Count: 3}}))
	require.Equal(t, "1.7", WeeklyAverage([]WeekBucket{{Count: 1}, {Count: 1}, {Count: 3}}))
}

func TestRates(t *testing.T) {
	require.Equal(t, 0.0, Rate(nil, domain.StatusOffer))
	require.Equal(t, "0.0%", FormatRate(Rate(nil, domain.StatusOffer)))

	apps := []domain.Application{
		app("1", date(2025, time.January, 1), domain.StatusOffer),
		app("2", date(2025, time.January, 2), domain.StatusInterview),
		app("3", date(2025, time.January, 3), domain.StatusInterview),
		app("4", date(2025, time.January, 4), domain.StatusRejected),
		app("5", date(2025, time.January, 5), domain.StatusApplied),
		app("6", date(2025, time.January, 6), domain.StatusApplied),
		app("7", date(2025, time.January, 7), domain.StatusApplied),
		app("8", date(2025, time.January, 8), domain.StatusApplied),
	}
	require.Equal(t, "12.5%", FormatRate(Rate(apps, domain.StatusOffer)))
	require.Equal(t, "25.0%", FormatRate(Rate(apps, domain.StatusInterview)))
	for _, status := range domain.AllStatuses {
		rate := Rate(apps, status)
		require.GreaterOrEqual(t, rate, 0.0)
		require.LessOrEqual(t, rate, 100.0)
	}
}

func TestSummarize(t *testing.T) {
	ctx := NewContext(time.Date(2025, time.January, 8, 12, 0, 0, 0, time.UTC), time.UTC)
	apps := []domain.Application{
		app("1", date(2025, time.January, 6), domain.StatusOffer),
		app("2", date(2025, time.January, 7), domain.StatusInterview),
		app("3", date(2024, time.December, 30), domain.StatusApplied),
	}
	summary := Summarize(ctx, apps)
	require.Equal(t, Summary{
		Total:           3,
		ThisWeek:        2,
		ThisMonth:       2,
		Interviews:      1,
		Offers:          1,
		MostActiveMonth: "January 2025",
		WeeklyAverage:   "1.5",
		InterviewRate:   "33.3%",
		OfferRate:       "33.3%",
	}, summary)
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(NewContext(time.Now(), time.UTC), nil)
	require.Equal(t, 0, summary.Total)
	require.Equal(t, "-", summary.MostActiveMonth)
	require.Equal(t, "0", summary.WeeklyAverage)
	require.Equal(t, "0.0%", summary.InterviewRate)
	require.Equal(t, "0.0%", summary.OfferRate)
}

func TestStatusDistribution(t *testing.T) {
	apps := []domain.Application{
		app("1", date(2025, time.January, 1), domain.StatusCanceled),
		app("2", date(2025, time.January, 2), domain.StatusApplied),
		app("3", date(2025, time.January, 3), domain.StatusApplied),
	}
	dist := StatusDistribution(apps)
	require.Len(t, dist, len(domain.AllStatuses))
	require.Equal(t, StatusCount{Status: domain.StatusApplied, Label: "Applied", Count: 2}, dist[0])
	require.Equal(t, StatusCount{Status: domain.StatusCanceled, Label: "Canceled", Count: 1}, dist[5])
	require.Equal(t, 0, dist[3].Count)
}

func TestRecent(t *testing.T) {
	var apps []domain.Application
	for i := 1; i <= 7; i++ {
		apps = append(apps, app(string(rune('a'+i)), date(2025, time.January, i), domain.StatusApplied))
	}
	apps = append(apps, domain.Application{ID: "undated"})
	recent := Recent(apps, RecentLimit)
	require.Len(t, recent, RecentLimit)
	require.Equal(t, date(2025, time.January, 7), recent[0].Date)
	require.Equal(t, date(2025, time.January, 3), recent[4].Date)
	require.Equal(t, date(2025, time.January, 1), apps[0].Date, "input must not be reordered")
}

func TestAvailableMonthsAndKeys(t *testing.T) {
	apps := []domain.Application{
		app("1", date(2024, time.November, 5), domain.StatusApplied),
		app("2", date(2025, time.February, 5), domain.StatusApplied),
		app("3", date(2024, time.November, 20), domain.StatusApplied),
	}
	options := AvailableMonths(apps)
	require.Equal(t, []MonthOption{
		{Key: "2025-02", Label: "February 2025", Year: 2025, Month: 2},
		{Key: "2024-11", Label: "November 2024", Year: 2024, Month: 11},
	}, options)

	year, month, err := ParseMonthKey("2024-11")
	require.NoError(t, err)
	require.Equal(t, 2024, year)
	require.Equal(t, 11, month)

	for _, bad := range []string{"", "2024", "2024-13", "abcd-01", "2024-x"} {
		_, _, err := ParseMonthKey(bad)
		require.Error(t, err, bad)
	}
}

func TestFormatDate(t *testing.T) {
	require.Equal(t, "Dec 30, 2024", FormatDate(date(2024, time.December, 30)))
	require.Equal(t, "-", FormatDate(time.Time{}))
}

func TestBuildDashboard(t *testing.T) {
	ctx := NewContext(time.Date(2025, time.January, 8, 12, 0, 0, 0, time.UTC), time.UTC)
	apps := []domain.Application{
		app("1", date(2024, time.December, 30), domain.StatusApplied),
		app("2", date(2025, time.January, 7), domain.StatusInterview),
		app("3", date(2024, time.December, 2), domain.StatusRejected),
	}
	dash := BuildDashboard(ctx, apps)
	require.Equal(t, 3, dash.Summary.Total)
	require.Equal(t, []string{"W2 2025", "W1 2025", "W49 2024"}, labels(dash.Weeks))
	require.Equal(t, "January 2025", dash.Months[0].MonthName)
	require.Equal(t, "2", dash.Recent[0].ID)
	require.Len(t, dash.Timeline, 3)
	require.Equal(t, "W49 2024", dash.Timeline[0].Label)
	require.Len(t, dash.MonthOptions, 2)
}

func labels(buckets []WeekBucket) []string {
	out := make([]string, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, b.Label())
	}
	return out
}
