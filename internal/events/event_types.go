package events

import (
	"time"

	"github.com/baroform/lead-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLeadCreated            EventType = "lead_created"
	EventLeadStatusChanged      EventType = "lead_status_changed"
	EventLeadUpdated            EventType = "lead_updated"
	EventLeadsDeleted           EventType = "leads_deleted"
	EventPasswordResetRequested EventType = "password_reset_requested"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	LeadID    string      `json:"lead_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// LeadCreatedPayload payload.
type LeadCreatedPayload struct {
	Name        string  `json:"name"`
	Contact     string  `json:"contact"`
	ClickSource *string `json:"click_source,omitempty"`
	Manual      bool    `json:"manual"`
}

// LeadStatusChangedPayload payload.
type LeadStatusChangedPayload struct {
	OldStatus domain.LeadStatus `json:"old_status"`
	NewStatus domain.LeadStatus `json:"new_status"`
}

// LeadUpdatedPayload payload.
type LeadUpdatedPayload struct {
	Fields []string `json:"fields"`
}

// LeadsDeletedPayload payload.
type LeadsDeletedPayload struct {
	IDs     []string `json:"ids"`
	Removed int64    `json:"removed"`
}

// PasswordResetRequestedPayload payload. Carries the token so the
// notification channel can deliver the reset link.
type PasswordResetRequestedPayload struct {
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
