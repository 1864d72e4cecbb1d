package stats

import "github.com/spec-kit/job-tracker/internal/domain"

// TimelineWeeks is the number of weeks shown on the weekly timeline chart.
const TimelineWeeks = 8

// StatusCount is one slice of the status distribution chart.
type StatusCount struct {
	Status domain.Status
	Label  string
	Count  int
}

// TimelinePoint is one bar of the weekly timeline chart.
type TimelinePoint struct {
	Label string
	Year  int
	Week  int
	Count int
}

// StatusDistribution counts applications per status in domain.AllStatuses order.
func StatusDistribution(apps []domain.Application) []StatusCount {
	counts := make(map[domain.Status]int, len(domain.AllStatuses))
	for _, app := range apps {
		counts[app.Status]++
	}
	out := make([]StatusCount, 0, len(domain.AllStatuses))
	for _, status := range domain.AllStatuses {
		out = append(out, StatusCount{Status: status, Label: status.Label(), Count: counts[status]})
	}
	return out
}

// WeeklyTimeline returns the last TimelineWeeks weekly buckets, oldest first.
func WeeklyTimeline(apps []domain.Application) []TimelinePoint {
	recent := RecentWeeks(WeeklyBuckets(apps), TimelineWeeks)
	points := make([]TimelinePoint, 0, len(recent))
	for _, bucket := range recent {
		points = append(points, TimelinePoint{
			Label: bucket.Label(),
			Year:  bucket.Year,
			Week:  bucket.Week,
			Count: bucket.Count,
		})
	}
	return points
}
