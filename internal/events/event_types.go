package events

import (
	"time"

	"github.com/spec-kit/job-tracker/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventApplicationCreated     EventType = "application_created"
	EventApplicationUpdated     EventType = "application_updated"
	EventApplicationDeleted     EventType = "application_deleted"
	EventPasswordResetRequested EventType = "password_reset_requested"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ApplicationPayload describes the record an application event refers to.
type ApplicationPayload struct {
	ApplicationID string        `json:"application_id"`
	JobTitle      string        `json:"job_title,omitempty"`
	Company       string        `json:"company,omitempty"`
	Status        domain.Status `json:"status,omitempty"`
	PrevStatus    domain.Status `json:"prev_status,omitempty"`
}

// PasswordResetPayload carries what the reset email needs.
type PasswordResetPayload struct {
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	ResetLink string    `json:"reset_link"`
	ExpiresAt time.Time `json:"expires_at"`
}
