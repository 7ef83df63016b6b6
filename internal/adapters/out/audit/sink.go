// Package audit provides the persistent audit trail. Events and incidents
// are compliance records written to their own tables, not log lines: they
// survive process restarts and are queryable after the fact.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventDTO represents one operational audit event.
type EventDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name       string    `gorm:"type:varchar(64);not null;index"`
	Payload    string    `gorm:"type:jsonb;not null"`
	Tenant     string    `gorm:"type:varchar(64);not null;index"`
	Actor      string    `gorm:"type:varchar(255);not null"`
	OccurredAt time.Time `gorm:"not null;index"`
}

// TableName specifies the database table name for audit events.
func (EventDTO) TableName() string {
	return "audit_events"
}

// IncidentDTO represents one operational or security incident.
type IncidentDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name       string    `gorm:"type:varchar(64);not null;index"`
	Payload    string    `gorm:"type:jsonb;not null"`
	Tenant     string    `gorm:"type:varchar(64);not null;index"`
	Actor      string    `gorm:"type:varchar(255);not null"`
	OccurredAt time.Time `gorm:"not null;index"`
}

// TableName specifies the database table name for audit incidents.
func (IncidentDTO) TableName() string {
	return "audit_incidents"
}

// GormAuditSink implements AuditSink on top of the fulfillment database.
// It writes through its own connection rather than a unit of work: incident
// records must survive the rollback of the operation that raised them.
//
// The same holds for events emitted inside a transaction: the audit trail is
// at-least-once. A handler that logs an event and then fails to commit leaves
// the event behind, referencing state that never became visible. Consumers
// of the trail must tolerate such orphans.
type GormAuditSink struct {
	db *gorm.DB
}

// NewGormAuditSink creates an audit sink writing to the given database.
func NewGormAuditSink(db *gorm.DB) *GormAuditSink {
	return &GormAuditSink{db: db}
}

// LogEvent records an operational event.
func (s *GormAuditSink) LogEvent(
	ctx context.Context, eventName string, payload map[string]any,
	tenant kernel.Tenant, actor kernel.Actor,
) error {
	record, err := buildRecord(eventName, payload, tenant, actor)
	if err != nil {
		return err
	}

	dto := EventDTO(record)
	return s.db.WithContext(ctx).Create(&dto).Error
}

// LogIncident records a security or operational incident.
func (s *GormAuditSink) LogIncident(
	ctx context.Context, eventName string, payload map[string]any,
	tenant kernel.Tenant, actor kernel.Actor,
) error {
	record, err := buildRecord(eventName, payload, tenant, actor)
	if err != nil {
		return err
	}

	dto := IncidentDTO(record)
	return s.db.WithContext(ctx).Create(&dto).Error
}

// auditRecord is the shared shape of events and incidents.
type auditRecord struct {
	ID         uuid.UUID
	Name       string
	Payload    string
	Tenant     string
	Actor      string
	OccurredAt time.Time
}

func buildRecord(
	eventName string, payload map[string]any, tenant kernel.Tenant, actor kernel.Actor,
) (auditRecord, error) {
	if eventName == "" {
		return auditRecord{}, errs.NewValueIsRequiredError("eventName")
	}
	if err := tenant.Validate(); err != nil {
		return auditRecord{}, err
	}
	if err := actor.Validate(); err != nil {
		return auditRecord{}, err
	}

	if payload == nil {
		payload = map[string]any{}
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return auditRecord{}, errs.NewValueIsInvalidErrorWithCause("payload", err)
	}

	return auditRecord{
		ID:         uuid.New(),
		Name:       eventName,
		Payload:    string(encoded),
		Tenant:     tenant.String(),
		Actor:      actor.String(),
		OccurredAt: time.Now().UTC(),
	}, nil
}
