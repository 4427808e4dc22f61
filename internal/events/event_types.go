package events

import (
	"time"

	"github.com/spec-kit/token-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLoginSucceeded EventType = "login_succeeded"
	EventLoginFailed    EventType = "login_failed"
	EventTokenRefreshed EventType = "token_refreshed"
	EventRefreshDenied  EventType = "refresh_denied"
	EventTokenMisuse    EventType = "token_misuse"
	EventLogout         EventType = "logout"
)

// Event represents an auth lifecycle event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// LoginPayload payload.
type LoginPayload struct {
	Identifier string      `json:"identifier"`
	Role       domain.Role `json:"role,omitempty"`
	Reason     string      `json:"reason,omitempty"`
}

// RefreshPayload payload.
type RefreshPayload struct {
	TokenID string `json:"token_id,omitempty"`
	Rotated bool   `json:"rotated"`
	Revoked bool   `json:"revoked"`
	Reason  string `json:"reason,omitempty"`
}

// MisusePayload payload.
type MisusePayload struct {
	Expected domain.TokenType `json:"expected"`
	Detail   string           `json:"detail"`
}
