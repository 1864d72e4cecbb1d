package dto

import (
	"time"

	"github.com/spec-kit/job-tracker/internal/domain"
)

// ApplicationRequest is the create and update payload. Ownership is never
// part of it; the server takes the owner from the bearer credential.
type ApplicationRequest struct {
	JobTitle string `json:"jobTitle" validate:"required,max=100"`
	Company  string `json:"company" validate:"required,max=100"`
	Location string `json:"location,omitempty" validate:"max=100"`
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Status   string `json:"status,omitempty" validate:"omitempty,oneof=applied interview test offer rejected canceled"`
	Notes    string `json:"notes,omitempty" validate:"max=500"`
}

// ApplicationResponse is the wire form of a record.
type ApplicationResponse struct {
	ID        string        `json:"id"`
	User      string        `json:"user"`
	JobTitle  string        `json:"jobTitle"`
	Company   string        `json:"company"`
	Location  string        `json:"location"`
	Date      string        `json:"date"`
	Status    domain.Status `json:"status"`
	Notes     string        `json:"notes"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// ToApplicationResponse maps a record to its wire form.
func ToApplicationResponse(a domain.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:        a.ID,
		User:      a.UserID,
		JobTitle:  a.JobTitle,
		Company:   a.Company,
		Location:  a.Location,
		Date:      a.Date.Format(domain.DateLayout),
		Status:    a.Status,
		Notes:     a.Notes,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// ToApplicationResponses maps a list, never returning nil.
func ToApplicationResponses(apps []domain.Application) []ApplicationResponse {
	out := make([]ApplicationResponse, 0, len(apps))
	for _, a := range apps {
		out = append(out, ToApplicationResponse(a))
	}
	return out
}

// ToDomain parses the wire form back into a record. The status is validated
// by its JSON decoder.
func (r ApplicationResponse) ToDomain() (domain.Application, error) {
	date, err := domain.ParseDate(r.Date)
	if err != nil {
		return domain.Application{}, err
	}
	return domain.Application{
		ID:        r.ID,
		UserID:    r.User,
		JobTitle:  r.JobTitle,
		Company:   r.Company,
		Location:  r.Location,
		Date:      date,
		Status:    r.Status,
		Notes:     r.Notes,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, nil
}

// ValidationErrorResponse is returned with 400 on rejected input.
type ValidationErrorResponse struct {
	Message string       `json:"message"`
	Code    string       `json:"code,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError names one rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
