package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/schedule"
	"fulfillment/internal/core/domain/model/tracking"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetDeliveryStatusQueryHandler resolves a tracking number to the delivery's
// current tracking view. It reads the persistence model directly instead of
// rehydrating the aggregate: tracking lookups are the hottest read path and
// need none of the aggregate's behavior.
type GetDeliveryStatusQueryHandler struct {
	db *gorm.DB
}

// NewGetDeliveryStatusQueryHandler creates a handler for tracking lookups.
func NewGetDeliveryStatusQueryHandler(db *gorm.DB) GetDeliveryStatusQueryHandler {
	return GetDeliveryStatusQueryHandler{db: db}
}

// Handle executes the lookup. The current status is the newest history entry
// of the matching record; a tracking number nobody registered yields an
// object-not-found error.
func (h GetDeliveryStatusQueryHandler) Handle(
	ctx context.Context,
	query GetDeliveryStatusQuery,
) (GetDeliveryStatusQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetDeliveryStatusQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			s.schedule_id,
			s.tracking_number,
			h.status,
			s.estimated_delivery,
			h.occurred_at,
			h.note,
			(
				SELECT COUNT(*)
				FROM delivery_exceptions e
				WHERE e.status_id = s.id AND e.resolved_at IS NULL
			) AS open_exceptions
		FROM delivery_statuses s
		JOIN status_updates h ON h.status_id = s.id
		WHERE s.tracking_number = ? AND s.tenant = ?
		ORDER BY h.occurred_at DESC, h.id DESC
		LIMIT 1
	`, query.TrackingNumber().String(), query.Tenant().String()).Row()

	var (
		scheduleID        uuid.UUID
		trackingNumber    string
		status            string
		estimatedDelivery time.Time
		occurredAt        time.Time
		note              string
		openExceptions    int
	)
	if err := row.Scan(
		&scheduleID, &trackingNumber, &status,
		&estimatedDelivery, &occurredAt, &note, &openExceptions,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetDeliveryStatusQueryResponse{}, errs.NewObjectNotFoundError(
				"trackingNumber", query.TrackingNumber())
		}
		return GetDeliveryStatusQueryResponse{}, err
	}

	id, err := kernel.UUIDFromBytes(scheduleID[:])
	if err != nil {
		return GetDeliveryStatusQueryResponse{}, err
	}
	currentStatus, err := tracking.TrackingStatusFromString(status)
	if err != nil {
		return GetDeliveryStatusQueryResponse{}, err
	}
	number, err := schedule.TrackingNumberFromString(trackingNumber)
	if err != nil {
		return GetDeliveryStatusQueryResponse{}, err
	}

	return GetDeliveryStatusQueryResponse{
		ScheduleID:        id,
		TrackingNumber:    number,
		CurrentStatus:     currentStatus,
		EstimatedDelivery: estimatedDelivery,
		LastUpdateAt:      occurredAt,
		LastNote:          note,
		OpenExceptions:    openExceptions,
	}, nil
}
