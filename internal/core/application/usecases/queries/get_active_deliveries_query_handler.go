package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/schedule"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetActiveDeliveriesQueryHandler retrieves in-flight deliveries from the
// database, skipping the aggregate layer for the same reason the tracking
// lookup does.
type GetActiveDeliveriesQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveDeliveriesQueryHandler creates a handler for active-delivery queries.
func NewGetActiveDeliveriesQueryHandler(db *gorm.DB) GetActiveDeliveriesQueryHandler {
	return GetActiveDeliveriesQueryHandler{db: db}
}

// Handle executes the query. Deliveries already DELIVERED, FAILED, or
// CANCELLED are excluded; results come back soonest estimate first.
func (h GetActiveDeliveriesQueryHandler) Handle(
	ctx context.Context,
	query GetActiveDeliveriesQuery,
) ([]GetActiveDeliveriesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	deliveries := make([]GetActiveDeliveriesQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			plan_id,
			tracking_number,
			carrier,
			status,
			scheduled_date,
			estimated_delivery
		FROM delivery_schedules
		WHERE tenant = ? AND status NOT IN (?, ?, ?)
		ORDER BY estimated_delivery, id
	`, query.Tenant().String(),
		schedule.StatusDelivered.String(),
		schedule.StatusFailed.String(),
		schedule.StatusCancelled.String(),
	).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id                uuid.UUID
			planID            uuid.UUID
			trackingNumber    string
			carrierCode       string
			statusStr         string
			scheduledDate     time.Time
			estimatedDelivery time.Time
		)
		if err = rows.Scan(
			&id, &planID, &trackingNumber, &carrierCode,
			&statusStr, &scheduledDate, &estimatedDelivery,
		); err != nil {
			return nil, err
		}

		scheduleID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		plnID, idErr := kernel.UUIDFromBytes(planID[:])
		if idErr != nil {
			return nil, idErr
		}
		status, stErr := schedule.StatusFromString(statusStr)
		if stErr != nil {
			return nil, stErr
		}
		number, tnErr := schedule.TrackingNumberFromString(trackingNumber)
		if tnErr != nil {
			return nil, tnErr
		}

		deliveries = append(deliveries, GetActiveDeliveriesQueryResponse{
			ScheduleID:        scheduleID,
			PlanID:            plnID,
			TrackingNumber:    number,
			Carrier:           carrierCode,
			Status:            status,
			ScheduledDate:     scheduledDate,
			EstimatedDelivery: estimatedDelivery,
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return deliveries, nil
}
