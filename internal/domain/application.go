package domain

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for application dates.
const DateLayout = "2006-01-02"

// Field limits enforced on application records.
const (
	MaxJobTitleLength = 100
	MaxCompanyLength  = 100
	MaxNotesLength    = 500
)

// Status enumerates the lifecycle of a job application.
type Status string

const (
	StatusApplied   Status = "applied"
	StatusInterview Status = "interview"
	StatusTest      Status = "test"
	StatusOffer     Status = "offer"
	StatusRejected  Status = "rejected"
	StatusCanceled  Status = "canceled"
)

// StatusAll is the filter value that matches every status.
const StatusAll = "all"

// AllStatuses lists every status in display order.
var AllStatuses = []Status{
	StatusApplied,
	StatusInterview,
	StatusTest,
	StatusOffer,
	StatusRejected,
	StatusCanceled,
}

// Label returns the human readable name of the status.
func (s Status) Label() string {
	switch s {
	case StatusApplied:
		return "Applied"
	case StatusInterview:
		return "Interview"
	case StatusTest:
		return "Test"
	case StatusOffer:
		return "Offer"
	case StatusRejected:
		return "Rejected"
	case StatusCanceled:
		return "Canceled"
	}
	panic(fmt.Sprintf("domain: unknown status %q", string(s)))
}

// Valid reports whether s is one of the enumerated statuses.
func (s Status) Valid() bool {
	for _, candidate := range AllStatuses {
		if s == candidate {
			return true
		}
	}
	return false
}

// ParseStatus converts raw input into a Status, defaulting empty input to applied.
func ParseStatus(raw string) (Status, error) {
	if raw == "" {
		return StatusApplied, nil
	}
	status := Status(raw)
	if !status.Valid() {
		return "", fmt.Errorf("invalid status %q", raw)
	}
	return status, nil
}

// Application is a single job application owned by one user.
type Application struct {
	ID        string
	UserID    string
	JobTitle  string
	Company   string
	Location  string
	Date      time.Time
	Status    Status
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ParseDate parses a YYYY-MM-DD calendar date into midnight UTC.
func ParseDate(raw string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, raw, time.UTC)
}

// CalendarDate truncates t to its calendar day at midnight UTC.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// UnmarshalText rejects statuses outside the enumeration.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
