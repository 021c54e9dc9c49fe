package events

import (
	"time"

	"github.com/spec-kit/clinic-identity/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventDoctorApproved EventType = "doctor_approved"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload describes a completed registration.
type UserRegisteredPayload struct {
	UserGlobalID    string          `json:"user_global_id"`
	ProfileGlobalID string          `json:"profile_global_id"`
	Role            domain.Role     `json:"role"`
	Language        domain.Language `json:"language"`
	DisplayName     string          `json:"display_name"`
}

// DoctorApprovedPayload describes a doctor approval transition.
type DoctorApprovedPayload struct {
	ProfileGlobalID string `json:"profile_global_id"`
	Speciality      string `json:"speciality"`
}
