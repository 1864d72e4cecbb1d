package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spec-kit/job-tracker/internal/domain"
	"github.com/spec-kit/job-tracker/internal/stats"
)

func renderDashboard(out io.Writer, d stats.Dashboard) {
	s := d.Summary
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Total applications\t%d\n", s.Total)
	fmt.Fprintf(tw, "This week\t%d\n", s.ThisWeek)
	fmt.Fprintf(tw, "This month\t%d\n", s.ThisMonth)
	fmt.Fprintf(tw, "Interviews\t%d (%s)\n", s.Interviews, s.InterviewRate)
	fmt.Fprintf(tw, "Offers\t%d (%s)\n", s.Offers, s.OfferRate)
	fmt.Fprintf(tw, "Most active month\t%s\n", s.MostActiveMonth)
	fmt.Fprintf(tw, "Weekly average\t%s\n", s.WeeklyAverage)
	_ = tw.Flush()

	fmt.Fprintln(out, "\nStatus")
	tw = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, sc := range d.Distribution {
		fmt.Fprintf(tw, "  %s\t%d\n", sc.Label, sc.Count)
	}
	_ = tw.Flush()

	fmt.Fprintln(out, "\nLast weeks")
	tw = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, p := range d.Timeline {
		fmt.Fprintf(tw, "  %s\t%d\t%s\n", p.Label, p.Count, strings.Repeat("#", p.Count))
	}
	_ = tw.Flush()

	fmt.Fprintln(out, "\nBy month")
	tw = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, m := range d.Months {
		fmt.Fprintf(tw, "  %s\t%d\n", m.MonthName, m.Count)
	}
	_ = tw.Flush()

	fmt.Fprintln(out, "\nRecent")
	renderApplications(out, d.Recent)
}

func renderApplications(out io.Writer, apps []domain.Application) {
	if len(apps) == 0 {
		fmt.Fprintln(out, "No applications found.")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTITLE\tCOMPANY\tLOCATION\tSTATUS")
	for _, app := range apps {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			app.ID, stats.FormatDate(app.Date), app.JobTitle, app.Company, app.Location, app.Status.Label())
	}
	_ = tw.Flush()
}
