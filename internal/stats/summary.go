package stats

import (
	"math"
	"strconv"

	"github.com/spec-kit/job-tracker/internal/domain"
)

// Summary holds the headline numbers of the dashboard and statistics views.
type Summary struct {
	Total           int
	ThisWeek        int
	ThisMonth       int
	Interviews      int
	Offers          int
	MostActiveMonth string
	WeeklyAverage   string
	InterviewRate   string
	OfferRate       string
}

// Summarize computes the Summary of apps.
func Summarize(ctx Context, apps []domain.Application) Summary {
	weeks := WeeklyBuckets(apps)
	months := MonthlyBuckets(apps)
	return Summary{
		Total:           len(apps),
		ThisWeek:        CountThisWeek(ctx, apps),
		ThisMonth:       CountThisMonth(ctx, apps),
		Interviews:      CountStatus(apps, domain.StatusInterview),
		Offers:          CountStatus(apps, domain.StatusOffer),
		MostActiveMonth: MostActiveMonth(months),
		WeeklyAverage:   WeeklyAverage(weeks),
		InterviewRate:   FormatRate(Rate(apps, domain.StatusInterview)),
		OfferRate:       FormatRate(Rate(apps, domain.StatusOffer)),
	}
}

// CountStatus counts applications with the given status.
func CountStatus(apps []domain.Application, status domain.Status) int {
	count := 0
	for _, app := range apps {
		if app.Status == status {
			count++
		}
	}
	return count
}

// Rate returns the share of apps in status as a percentage in [0,100].
func Rate(apps []domain.Application, status domain.Status) float64 {
	if len(apps) == 0 {
		return 0
	}
	return float64(CountStatus(apps, status)) / float64(len(apps)) * 100
}

// FormatRate renders a percentage with one decimal and a trailing "%".
func FormatRate(rate float64) string {
	return oneDecimal(rate) + "%"
}

// MostActiveMonth returns the name of the month with the highest count. Ties
// go to the bucket encountered first; "-" means there are no months.
func MostActiveMonth(months []MonthBucket) string {
	if len(months) == 0 {
		return "-"
	}
	best := months[0]
	for _, month := range months[1:] {
		if month.Count > best.Count {
			best = month
		}
	}
	return best.MonthName
}

// WeeklyAverage returns the mean bucket size with one decimal, or "0" when
// there are no buckets.
func WeeklyAverage(weeks []WeekBucket) string {
	if len(weeks) == 0 {
		return "0"
	}
	total := 0
	for _, week := range weeks {
		total += week.Count
	}
	return oneDecimal(float64(total) / float64(len(weeks)))
}

// oneDecimal rounds half away from zero before formatting.
func oneDecimal(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', 1, 64)
}
