package obs

import (
	"context"
	"encoding/json"
	"log"

	"github.com/you/hrflowsvc/domain"
)

// LogAuditLogger implements domain.AuditLogger on the standard logger, one
// line per event: EVENT_TYPE followed by the JSON payload.
type LogAuditLogger struct{}

// NewAuditLogger creates a new log-backed audit logger
func NewAuditLogger() domain.AuditLogger {
	return &LogAuditLogger{}
}

// LogEvent implements domain.AuditLogger
func (l *LogAuditLogger) LogEvent(_ context.Context, event *domain.AuditEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("%s: marshal failed: %v", event.EventType, err)
		return
	}
	log.Printf("%s: %s", event.EventType, payload)
}
