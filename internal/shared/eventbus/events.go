package eventbus

import (
	"context"
	"time"

	"cah-online/internal/shared/logger"
)

// Session lifecycle event types
const (
	EventTypeSessionIssued   = "session.issued"
	EventTypeSessionRevoked  = "session.revoked"
	EventTypeSessionRejected = "session.rejected"
)

// SessionEvent is the payload of every session.* event. Tokens are never included.
type SessionEvent struct {
	SessionID string `json:"session_id,omitempty"`
	Username  string `json:"username,omitempty"`
	IPAddress string `json:"ip_address,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// BasicEvent implements the Event interface
type BasicEvent struct {
	eventType string
	data      interface{}
	timestamp time.Time
	source    string
}

// NewEvent creates an event stamped with at.
func NewEvent(eventType string, data interface{}, source string, at time.Time) *BasicEvent {
	return &BasicEvent{
		eventType: eventType,
		data:      data,
		timestamp: at,
		source:    source,
	}
}

func (e *BasicEvent) Type() string         { return e.eventType }
func (e *BasicEvent) Data() interface{}    { return e.data }
func (e *BasicEvent) Timestamp() time.Time { return e.timestamp }
func (e *BasicEvent) Source() string       { return e.source }

// AuditLogHandler writes each session event as a structured log line.
func AuditLogHandler(log logger.Logger) Handler {
	log = log.WithComponent("audit")
	return func(ctx context.Context, event Event) error {
		fields := map[string]interface{}{
			"event":  event.Type(),
			"source": event.Source(),
		}
		if se, ok := event.Data().(SessionEvent); ok {
			if se.SessionID != "" {
				fields["session_id"] = se.SessionID
			}
			if se.Username != "" {
				fields["username"] = se.Username
			}
			if se.IPAddress != "" {
				fields["ip_address"] = se.IPAddress
			}
			if se.Reason != "" {
				fields["reason"] = se.Reason
			}
		}
		log.WithContext(ctx).WithFields(fields).Info("session event")
		return nil
	}
}

// SubscribeAudit routes every session event type to AuditLogHandler.
func SubscribeAudit(bus EventBusInterface, log logger.Logger) {
	h := AuditLogHandler(log)
	for _, t := range []string{EventTypeSessionIssued, EventTypeSessionRevoked, EventTypeSessionRejected} {
		bus.Subscribe(t, h)
	}
}
