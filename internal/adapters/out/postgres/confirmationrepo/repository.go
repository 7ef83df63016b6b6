package confirmationrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/confirmation"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormConfirmationRepository implements ConfirmationRepository using GORM.
type GormConfirmationRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormConfirmationRepository creates a new GORM confirmation repository.
func NewGormConfirmationRepository(db *gorm.DB, tracker aggregateTracker) *GormConfirmationRepository {
	return &GormConfirmationRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new delivery confirmation and its items to the database.
// The unique index on schedule_id backs the one-confirmation-per-schedule rule.
func (r *GormConfirmationRepository) Add(
	ctx context.Context, aggregate *confirmation.DeliveryConfirmation,
) error {
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

// Get retrieves a confirmation by ID within a tenant.
func (r *GormConfirmationRepository) Get(
	ctx context.Context, id kernel.UUID, tenant kernel.Tenant,
) (*confirmation.DeliveryConfirmation, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ConfirmationDTO
	err := r.db.WithContext(ctx).Preload("Items").
		First(&dto, "id = ? AND tenant = ?", id.Bytes(), tenant.String()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("confirmation", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByScheduleID retrieves the confirmation recorded for a schedule.
func (r *GormConfirmationRepository) GetByScheduleID(
	ctx context.Context, scheduleID kernel.UUID, tenant kernel.Tenant,
) (*confirmation.DeliveryConfirmation, error) {
	if err := scheduleID.Validate(); err != nil {
		return nil, err
	}

	var dto ConfirmationDTO
	err := r.db.WithContext(ctx).Preload("Items").
		First(&dto, "schedule_id = ? AND tenant = ?", scheduleID.Bytes(), tenant.String()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("confirmation for schedule", scheduleID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
