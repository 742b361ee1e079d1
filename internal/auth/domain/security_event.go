package domain

import (
	"time"

	"github.com/google/uuid"
)

// SecurityEvent records an authentication-relevant occurrence for security
// monitoring. Append-only; writes are best-effort and must never abort the
// operation that triggered them.
type SecurityEvent struct {
	ID             uuid.UUID
	EventType      string
	SubjectID      *uuid.UUID
	ClientIdentity string
	RequestID      string
	Metadata       map[string]any
	CreatedAt      time.Time
}

// NewSecurityEvent builds an event with a fresh id and timestamp.
func NewSecurityEvent(eventType, clientIdentity string, subjectID *uuid.UUID, metadata map[string]any) *SecurityEvent {
	return &SecurityEvent{
		ID:             uuid.Must(uuid.NewV7()),
		EventType:      eventType,
		SubjectID:      subjectID,
		ClientIdentity: clientIdentity,
		Metadata:       metadata,
		CreatedAt:      time.Now().UTC(),
	}
}
