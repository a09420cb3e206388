package domain

import (
	"context"
	"time"
)

// AuditEventType defines the type of audit event
type AuditEventType string

const (
	// Account lifecycle events
	AccountRegisteredEvent AuditEventType = "ACCOUNT_REGISTERED"
	AccountVerifiedEvent   AuditEventType = "ACCOUNT_VERIFIED"
	PasswordResetEvent     AuditEventType = "PASSWORD_RESET"

	// Session events
	LoginEvent        AuditEventType = "LOGIN"
	LoginFailureEvent AuditEventType = "LOGIN_FAILED"
	TokenRotatedEvent AuditEventType = "TOKEN_ROTATED"
	TokenRevokedEvent AuditEventType = "TOKEN_REVOKED"

	// Workflow events
	RequestCreatedEvent AuditEventType = "REQUEST_CREATED"
	StatusChangedEvent  AuditEventType = "REQUEST_STATUS_CHANGED"
	AccessDeniedEvent   AuditEventType = "ACCESS_DENIED"
)

// AuditEvent represents a business event that occurred in the system
type AuditEvent struct {
	EventType AuditEventType         `json:"event_type"`
	AccountID uint                   `json:"account_id"`
	Email     string                 `json:"email,omitempty"`
	IPAddress string                 `json:"ip_address,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	ErrorMsg  string                 `json:"error_msg,omitempty"`
	Success   bool                   `json:"success"`
}

// AuditLogger defines operations for audit logging
type AuditLogger interface {
	LogEvent(ctx context.Context, event *AuditEvent)
}

// NewAuditEvent creates a new audit event with common fields populated
func NewAuditEvent(eventType AuditEventType, accountID uint) *AuditEvent {
	return &AuditEvent{
		EventType: eventType,
		AccountID: accountID,
		Timestamp: time.Now().UTC(),
		Metadata:  make(map[string]interface{}),
		Success:   true,
	}
}

// WithError sets error information on the audit event
func (e *AuditEvent) WithError(err error) *AuditEvent {
	e.Success = false
	if err != nil {
		e.ErrorMsg = err.Error()
	}
	return e
}

// WithEmail sets the email field
func (e *AuditEvent) WithEmail(email string) *AuditEvent {
	e.Email = email
	return e
}

// WithIP sets the source IP field
func (e *AuditEvent) WithIP(ip string) *AuditEvent {
	e.IPAddress = ip
	return e
}

// WithMetadata adds metadata to the event
func (e *AuditEvent) WithMetadata(key string, value interface{}) *AuditEvent {
	e.Metadata[key] = value
	return e
}
