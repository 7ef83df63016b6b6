// Package statusrepo provides data transfer objects and mapping functions for
// delivery tracking persistence. The history table is append-only: update
// operations insert rows that are not yet persisted and never rewrite
// existing ones. The status row itself carries a version column for
// optimistic concurrency between overlapping refreshes.
package statusrepo

import (
	"sort"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/schedule"
	"fulfillment/internal/core/domain/model/tracking"

	"github.com/google/uuid"
)

// StatusDTO represents the database structure for a tracking record.
// There is deliberately no current-status column: the current status is
// always the newest history row.
type StatusDTO struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	ScheduleID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	TrackingNumber    string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	CurrentLat        *float64
	CurrentLon        *float64
	EstimatedDelivery time.Time `gorm:"not null"`
	ProofReceivedBy   string    `gorm:"type:varchar(255)"`
	ProofSignatureRef string    `gorm:"type:varchar(255)"`
	ProofPhotoRef     string    `gorm:"type:varchar(255)"`
	ProofCapturedAt   *time.Time
	Tenant            string `gorm:"type:varchar(64);not null;index"`
	Version           int    `gorm:"not null"`

	History       []StatusUpdateDTO `gorm:"foreignKey:StatusID;constraint:OnDelete:CASCADE"`
	Exceptions    []ExceptionDTO    `gorm:"foreignKey:StatusID;constraint:OnDelete:CASCADE"`
	Notifications []NotificationDTO `gorm:"foreignKey:StatusID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for tracking records.
func (StatusDTO) TableName() string {
	return "delivery_statuses"
}

// StatusUpdateDTO represents one append-only history entry. The composite
// unique index mirrors the aggregate's replay-suppression key, so re-inserting
// an already persisted entry is a no-op rather than a duplicate row.
type StatusUpdateDTO struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	StatusID   uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_status_updates_entry"`
	Status     string    `gorm:"type:varchar(32);not null;uniqueIndex:idx_status_updates_entry"`
	Lat        *float64
	Lon        *float64
	Note       string    `gorm:"type:varchar(512)"`
	Source     string    `gorm:"type:varchar(16);not null;uniqueIndex:idx_status_updates_entry"`
	OccurredAt time.Time `gorm:"not null;index;uniqueIndex:idx_status_updates_entry"`
}

// TableName specifies the database table name for history entries.
func (StatusUpdateDTO) TableName() string {
	return "status_updates"
}

// ExceptionDTO represents a reported delivery exception.
type ExceptionDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	StatusID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Type        string    `gorm:"type:varchar(32);not null"`
	Severity    string    `gorm:"type:varchar(16);not null"`
	Description string    `gorm:"type:varchar(512);not null"`
	ReportedBy  string    `gorm:"type:varchar(16);not null"`
	ReportedAt  time.Time `gorm:"not null"`
	Resolution  string    `gorm:"type:varchar(512)"`
	ResolvedAt  *time.Time
}

// TableName specifies the database table name for delivery exceptions.
func (ExceptionDTO) TableName() string {
	return "delivery_exceptions"
}

// NotificationDTO represents a customer notification attempt, sent or failed.
type NotificationDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	StatusID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Channel     string    `gorm:"type:varchar(16);not null"`
	Recipient   string    `gorm:"type:varchar(255);not null"`
	Message     string    `gorm:"type:varchar(512);not null"`
	AboutStatus string    `gorm:"type:varchar(32);not null"`
	Status      string    `gorm:"type:varchar(16);not null"`
	SentAt      time.Time `gorm:"not null"`
}

// TableName specifies the database table name for customer notifications.
func (NotificationDTO) TableName() string {
	return "customer_notifications"
}

// fromDomain converts a tracking aggregate to its database representation.
func fromDomain(aggregate *tracking.DeliveryStatus) StatusDTO {
	statusID := aggregate.ID().Bytes()

	var currentLat, currentLon *float64
	if location := aggregate.CurrentLocation(); location != nil {
		lat, lon := location.Latitude(), location.Longitude()
		currentLat, currentLon = &lat, &lon
	}

	history := make([]StatusUpdateDTO, 0, len(aggregate.History()))
	for _, entry := range aggregate.History() {
		var lat, lon *float64
		if location := entry.Location(); location != nil {
			l, o := location.Latitude(), location.Longitude()
			lat, lon = &l, &o
		}
		history = append(history, StatusUpdateDTO{
			StatusID:   statusID,
			Status:     entry.Status().String(),
			Lat:        lat,
			Lon:        lon,
			Note:       entry.Note(),
			Source:     entry.Source().String(),
			OccurredAt: entry.OccurredAt(),
		})
	}

	exceptions := make([]ExceptionDTO, 0, len(aggregate.Exceptions()))
	for _, exception := range aggregate.Exceptions() {
		exceptions = append(exceptions, ExceptionDTO{
			ID:          exception.ID().Bytes(),
			StatusID:    statusID,
			Type:        exception.Type().String(),
			Severity:    exception.Severity().String(),
			Description: exception.Description(),
			ReportedBy:  exception.ReportedBy().String(),
			ReportedAt:  exception.ReportedAt(),
			Resolution:  exception.Resolution(),
			ResolvedAt:  exception.ResolvedAt(),
		})
	}

	notifications := make([]NotificationDTO, 0, len(aggregate.Notifications()))
	for _, notification := range aggregate.Notifications() {
		notifications = append(notifications, NotificationDTO{
			ID:          notification.ID().Bytes(),
			StatusID:    statusID,
			Channel:     notification.Channel().String(),
			Recipient:   notification.Recipient(),
			Message:     notification.Message(),
			AboutStatus: notification.AboutStatus().String(),
			Status:      notification.Status().String(),
			SentAt:      notification.SentAt(),
		})
	}

	dto := StatusDTO{
		ID:                statusID,
		ScheduleID:        aggregate.ScheduleID().Bytes(),
		TrackingNumber:    aggregate.TrackingNumber().String(),
		CurrentLat:        currentLat,
		CurrentLon:        currentLon,
		EstimatedDelivery: aggregate.EstimatedDelivery(),
		Tenant:            aggregate.Tenant().String(),
		Version:           aggregate.Version(),
		History:           history,
		Exceptions:        exceptions,
		Notifications:     notifications,
	}

	if proof := aggregate.Proof(); proof != nil {
		capturedAt := proof.CapturedAt()
		dto.ProofReceivedBy = proof.ReceivedBy()
		dto.ProofSignatureRef = proof.SignatureRef()
		dto.ProofPhotoRef = proof.PhotoRef()
		dto.ProofCapturedAt = &capturedAt
	}

	return dto
}

// toDomain converts a database DTO to a tracking aggregate.
func toDomain(dto StatusDTO) (*tracking.DeliveryStatus, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	scheduleID, err := kernel.UUIDFromBytes(dto.ScheduleID[:])
	if err != nil {
		return nil, err
	}
	trackingNumber, err := schedule.TrackingNumberFromString(dto.TrackingNumber)
	if err != nil {
		return nil, err
	}

	currentLocation, err := geoFromColumns(dto.CurrentLat, dto.CurrentLon)
	if err != nil {
		return nil, err
	}

	sort.Slice(dto.History, func(i, j int) bool {
		if dto.History[i].OccurredAt.Equal(dto.History[j].OccurredAt) {
			return dto.History[i].ID < dto.History[j].ID
		}
		return dto.History[i].OccurredAt.Before(dto.History[j].OccurredAt)
	})
	history := make([]tracking.StatusUpdate, 0, len(dto.History))
	for _, entryDTO := range dto.History {
		entry, entryErr := historyEntryToDomain(entryDTO)
		if entryErr != nil {
			return nil, entryErr
		}
		history = append(history, entry)
	}

	exceptions := make([]tracking.DeliveryException, 0, len(dto.Exceptions))
	for _, exceptionDTO := range dto.Exceptions {
		exception, exceptionErr := exceptionToDomain(exceptionDTO)
		if exceptionErr != nil {
			return nil, exceptionErr
		}
		exceptions = append(exceptions, exception)
	}

	notifications := make([]tracking.CustomerNotification, 0, len(dto.Notifications))
	for _, notificationDTO := range dto.Notifications {
		notification, notificationErr := notificationToDomain(notificationDTO)
		if notificationErr != nil {
			return nil, notificationErr
		}
		notifications = append(notifications, notification)
	}

	var proof *tracking.ProofOfDelivery
	if dto.ProofCapturedAt != nil {
		p, proofErr := tracking.NewProofOfDelivery(
			dto.ProofReceivedBy, dto.ProofSignatureRef, dto.ProofPhotoRef, *dto.ProofCapturedAt)
		if proofErr != nil {
			return nil, proofErr
		}
		proof = &p
	}

	return tracking.RestoreDeliveryStatus(
		id, scheduleID, trackingNumber, currentLocation, dto.EstimatedDelivery,
		history, exceptions, notifications, proof, kernel.Tenant(dto.Tenant), dto.Version)
}

func historyEntryToDomain(dto StatusUpdateDTO) (tracking.StatusUpdate, error) {
	status, err := tracking.TrackingStatusFromString(dto.Status)
	if err != nil {
		return tracking.StatusUpdate{}, err
	}
	source, err := tracking.UpdateSourceFromString(dto.Source)
	if err != nil {
		return tracking.StatusUpdate{}, err
	}
	location, err := geoFromColumns(dto.Lat, dto.Lon)
	if err != nil {
		return tracking.StatusUpdate{}, err
	}

	return tracking.NewStatusUpdate(status, location, dto.Note, source, dto.OccurredAt)
}

func exceptionToDomain(dto ExceptionDTO) (tracking.DeliveryException, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return tracking.DeliveryException{}, err
	}
	exceptionType, err := tracking.ExceptionTypeFromString(dto.Type)
	if err != nil {
		return tracking.DeliveryException{}, err
	}
	severity, err := tracking.SeverityFromString(dto.Severity)
	if err != nil {
		return tracking.DeliveryException{}, err
	}
	reportedBy, err := tracking.UpdateSourceFromString(dto.ReportedBy)
	if err != nil {
		return tracking.DeliveryException{}, err
	}

	return tracking.RestoreDeliveryException(
		id, exceptionType, severity, dto.Description, reportedBy, dto.ReportedAt,
		dto.Resolution, dto.ResolvedAt)
}

func notificationToDomain(dto NotificationDTO) (tracking.CustomerNotification, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return tracking.CustomerNotification{}, err
	}
	channel, err := tracking.ChannelFromString(dto.Channel)
	if err != nil {
		return tracking.CustomerNotification{}, err
	}
	aboutStatus, err := tracking.TrackingStatusFromString(dto.AboutStatus)
	if err != nil {
		return tracking.CustomerNotification{}, err
	}
	status, err := tracking.NotificationStatusFromString(dto.Status)
	if err != nil {
		return tracking.CustomerNotification{}, err
	}

	return tracking.NewCustomerNotification(
		id, channel, dto.Recipient, dto.Message, aboutStatus, status, dto.SentAt)
}

func geoFromColumns(lat, lon *float64) (*kernel.GeoPoint, error) {
	if lat == nil || lon == nil {
		return nil, nil //nolint:nilnil //absent coordinates are not an error
	}
	point, err := kernel.NewGeoPoint(*lat, *lon)
	if err != nil {
		return nil, err
	}
	return &point, nil
}
