// Package confirmationrepo provides data transfer objects and mapping
// functions for delivery confirmation persistence. Confirmations are written
// once and never updated; the metrics columns store the values computed at
// confirmation time.
package confirmationrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/confirmation"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// ConfirmationDTO represents the database structure for delivery confirmations.
type ConfirmationDTO struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	ScheduleID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	DeliveryStatusID  uuid.UUID `gorm:"type:uuid;not null"`
	ConfirmedBy       string    `gorm:"type:varchar(255);not null"`
	ConfirmedAt       time.Time `gorm:"not null"`
	FinalStatus       string    `gorm:"type:varchar(16);not null"`
	CustomerFeedback  string    `gorm:"type:varchar(1024)"`
	DeliveryNoteRef   string    `gorm:"type:varchar(32)"`
	ScheduledTime     time.Time `gorm:"not null"`
	ActualTime        time.Time `gorm:"not null"`
	TotalDeliveryTime int64     `gorm:"not null"` // nanoseconds, negative means early
	OnTimeDelivery    bool      `gorm:"not null"`
	RouteDistance     float64   `gorm:"not null"`
	RouteEfficiency   float64   `gorm:"not null"`
	ExceptionCount    int       `gorm:"not null"`
	Tenant            string    `gorm:"type:varchar(64);not null;index"`

	Items []ConfirmationItemDTO `gorm:"foreignKey:ConfirmationID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for delivery confirmations.
func (ConfirmationDTO) TableName() string {
	return "delivery_confirmations"
}

// ConfirmationItemDTO represents one per-item delivery outcome.
type ConfirmationItemDTO struct {
	ID                int64     `gorm:"primaryKey;autoIncrement"`
	ConfirmationID    uuid.UUID `gorm:"type:uuid;not null;index"`
	SKU               string    `gorm:"type:varchar(64);not null"`
	ExpectedQuantity  int       `gorm:"not null"`
	DeliveredQuantity int       `gorm:"not null"`
	Condition         string    `gorm:"type:varchar(16);not null"`
}

// TableName specifies the database table name for confirmation items.
func (ConfirmationItemDTO) TableName() string {
	return "confirmation_items"
}

// fromDomain converts a confirmation aggregate to its database representation.
func fromDomain(aggregate *confirmation.DeliveryConfirmation) ConfirmationDTO {
	confirmationID := aggregate.ID().Bytes()

	items := make([]ConfirmationItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, ConfirmationItemDTO{
			ConfirmationID:    confirmationID,
			SKU:               item.SKU(),
			ExpectedQuantity:  item.ExpectedQuantity(),
			DeliveredQuantity: item.DeliveredQuantity(),
			Condition:         item.Condition().String(),
		})
	}

	metrics := aggregate.Metrics()
	return ConfirmationDTO{
		ID:                confirmationID,
		ScheduleID:        aggregate.ScheduleID().Bytes(),
		DeliveryStatusID:  aggregate.DeliveryStatusID().Bytes(),
		ConfirmedBy:       aggregate.ConfirmedBy().String(),
		ConfirmedAt:       aggregate.ConfirmedAt(),
		FinalStatus:       aggregate.FinalStatus().String(),
		CustomerFeedback:  aggregate.CustomerFeedback(),
		DeliveryNoteRef:   aggregate.DeliveryNoteRef(),
		ScheduledTime:     metrics.ScheduledTime(),
		ActualTime:        metrics.ActualTime(),
		TotalDeliveryTime: int64(metrics.TotalDeliveryTime()),
		OnTimeDelivery:    metrics.OnTimeDelivery(),
		RouteDistance:     metrics.RouteDistance(),
		RouteEfficiency:   metrics.RouteEfficiency(),
		ExceptionCount:    metrics.ExceptionCount(),
		Tenant:            aggregate.Tenant().String(),
		Items:             items,
	}
}

// toDomain converts a database DTO to a confirmation aggregate.
func toDomain(dto ConfirmationDTO) (*confirmation.DeliveryConfirmation, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	scheduleID, err := kernel.UUIDFromBytes(dto.ScheduleID[:])
	if err != nil {
		return nil, err
	}
	deliveryStatusID, err := kernel.UUIDFromBytes(dto.DeliveryStatusID[:])
	if err != nil {
		return nil, err
	}
	finalStatus, err := confirmation.FinalStatusFromString(dto.FinalStatus)
	if err != nil {
		return nil, err
	}

	items := make([]confirmation.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		condition, condErr := confirmation.ItemConditionFromString(itemDTO.Condition)
		if condErr != nil {
			return nil, condErr
		}
		item, itemErr := confirmation.NewItem(
			itemDTO.SKU, itemDTO.ExpectedQuantity, itemDTO.DeliveredQuantity, condition)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	metrics := confirmation.RestorePerformanceMetrics(
		dto.ScheduledTime, dto.ActualTime, time.Duration(dto.TotalDeliveryTime),
		dto.OnTimeDelivery, dto.RouteDistance, dto.RouteEfficiency, dto.ExceptionCount)

	return confirmation.RestoreDeliveryConfirmation(
		id, scheduleID, deliveryStatusID, kernel.Actor(dto.ConfirmedBy), dto.ConfirmedAt,
		finalStatus, items, dto.CustomerFeedback, metrics, dto.DeliveryNoteRef,
		kernel.Tenant(dto.Tenant))
}
