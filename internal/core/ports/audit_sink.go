package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
)

// AuditSink defines the contract for the durable audit trail. Events record
// normal operations; incidents record HIGH/CRITICAL exceptions and failure
// paths, and are expected to page someone.
//
// Plan creation treats a failed LogEvent as fatal: a plan whose audit event
// was not recorded is not considered created.
type AuditSink interface {
	// LogEvent records an operational event.
	LogEvent(ctx context.Context, eventName string, payload map[string]any,
		tenant kernel.Tenant, actor kernel.Actor) error

	// LogIncident records a security or operational incident.
	LogIncident(ctx context.Context, eventName string, payload map[string]any,
		tenant kernel.Tenant, actor kernel.Actor) error
}
