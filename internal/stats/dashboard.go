package stats

import "github.com/spec-kit/job-tracker/internal/domain"

// Dashboard bundles every value the dashboard and statistics pages render.
type Dashboard struct {
	Summary      Summary
	Weeks        []WeekBucket
	Months       []MonthBucket
	Recent       []domain.Application
	Distribution []StatusCount
	Timeline     []TimelinePoint
	MonthOptions []MonthOption
}

// BuildDashboard recomputes the whole dashboard from apps.
func BuildDashboard(ctx Context, apps []domain.Application) Dashboard {
	return Dashboard{
		Summary:      Summarize(ctx, apps),
		Weeks:        SortWeeksDesc(WeeklyBuckets(apps)),
		Months:       SortMonthsDesc(MonthlyBuckets(apps)),
		Recent:       Recent(apps, RecentLimit),
		Distribution: StatusDistribution(apps),
		Timeline:     WeeklyTimeline(apps),
		MonthOptions: AvailableMonths(apps),
	}
}
