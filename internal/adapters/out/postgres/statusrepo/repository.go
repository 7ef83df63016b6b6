package statusrepo

import (
	"context"
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/tracking"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStatusRepository implements StatusRepository using GORM.
type GormStatusRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormStatusRepository creates a new GORM tracking record repository.
func NewGormStatusRepository(db *gorm.DB, tracker aggregateTracker) *GormStatusRepository {
	return &GormStatusRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new tracking record, including its seed history entry.
func (r *GormStatusRepository) Add(ctx context.Context, aggregate *tracking.DeliveryStatus) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update persists the aggregate's new state. The status row is guarded by its
// version column: a concurrent refresh that committed first makes this call
// fail with a state conflict instead of silently interleaving. History rows
// are insert-only; re-inserting an entry that is already persisted is
// absorbed by the table's replay key.
func (r *GormStatusRepository) Update(ctx context.Context, aggregate *tracking.DeliveryStatus) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)

	result := db.Model(&StatusDTO{}).
		Where("id = ? AND version = ?", dto.ID, dto.Version).
		Updates(map[string]any{
			"current_lat":         dto.CurrentLat,
			"current_lon":         dto.CurrentLon,
			"estimated_delivery":  dto.EstimatedDelivery,
			"proof_received_by":   dto.ProofReceivedBy,
			"proof_signature_ref": dto.ProofSignatureRef,
			"proof_photo_ref":     dto.ProofPhotoRef,
			"proof_captured_at":   dto.ProofCapturedAt,
			"version":             dto.Version + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewStateConflictError(fmt.Sprintf(
			"tracking record %s changed since version %d was read", aggregate.ID(), dto.Version))
	}

	if len(dto.History) > 0 {
		if err := db.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "status_id"}, {Name: "status"}, {Name: "source"}, {Name: "occurred_at"},
			},
			DoNothing: true,
		}).Create(&dto.History).Error; err != nil {
			return err
		}
	}

	if len(dto.Exceptions) > 0 {
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&dto.Exceptions).Error; err != nil {
			return err
		}
	}

	if len(dto.Notifications) > 0 {
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).Create(&dto.Notifications).Error; err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a tracking record by ID within a tenant.
func (r *GormStatusRepository) Get(
	ctx context.Context, id kernel.UUID, tenant kernel.Tenant,
) (*tracking.DeliveryStatus, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto StatusDTO
	err := r.preloaded(ctx).
		First(&dto, "id = ? AND tenant = ?", id.Bytes(), tenant.String()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("tracking record", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByScheduleID retrieves the tracking record for a schedule.
func (r *GormStatusRepository) GetByScheduleID(
	ctx context.Context, scheduleID kernel.UUID, tenant kernel.Tenant,
) (*tracking.DeliveryStatus, error) {
	if err := scheduleID.Validate(); err != nil {
		return nil, err
	}

	var dto StatusDTO
	err := r.preloaded(ctx).
		First(&dto, "schedule_id = ? AND tenant = ?", scheduleID.Bytes(), tenant.String()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("tracking record for schedule", scheduleID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormStatusRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("History").
		Preload("Exceptions").
		Preload("Notifications")
}
