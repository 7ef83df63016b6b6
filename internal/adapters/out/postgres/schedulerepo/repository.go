package schedulerepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/schedule"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormScheduleRepository implements ScheduleRepository using GORM.
type GormScheduleRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormScheduleRepository creates a new GORM schedule repository.
func NewGormScheduleRepository(db *gorm.DB, tracker aggregateTracker) *GormScheduleRepository {
	return &GormScheduleRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new delivery schedule and its route to the database.
func (r *GormScheduleRepository) Add(ctx context.Context, aggregate *schedule.DeliverySchedule) error {
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

// Update saves an existing delivery schedule to the database.
// The route's waypoint rows are replaced along with the schedule row.
func (r *GormScheduleRepository) Update(ctx context.Context, aggregate *schedule.DeliverySchedule) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).
		Where("schedule_id = ?", dto.ID).Delete(&WaypointDTO{}).Error; err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a schedule by ID within a tenant.
func (r *GormScheduleRepository) Get(
	ctx context.Context, id kernel.UUID, tenant kernel.Tenant,
) (*schedule.DeliverySchedule, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ScheduleDTO
	err := r.db.WithContext(ctx).Preload("Waypoints").
		First(&dto, "id = ? AND tenant = ?", id.Bytes(), tenant.String()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("schedule", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByPlanID retrieves the schedule committed for a plan.
func (r *GormScheduleRepository) GetByPlanID(
	ctx context.Context, planID kernel.UUID, tenant kernel.Tenant,
) (*schedule.DeliverySchedule, error) {
	if err := planID.Validate(); err != nil {
		return nil, err
	}

	var dto ScheduleDTO
	err := r.db.WithContext(ctx).Preload("Waypoints").
		First(&dto, "plan_id = ? AND tenant = ?", planID.Bytes(), tenant.String()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("schedule for plan", planID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllActive retrieves every schedule not yet in a terminal state, across
// all tenants. The polling job uses this to decide what to refresh.
func (r *GormScheduleRepository) GetAllActive(ctx context.Context) ([]*schedule.DeliverySchedule, error) {
	var dtos []ScheduleDTO
	err := r.db.WithContext(ctx).Preload("Waypoints").
		Where("status NOT IN (?, ?, ?)",
			schedule.StatusDelivered.String(),
			schedule.StatusFailed.String(),
			schedule.StatusCancelled.String()).
		Order("estimated_delivery").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	schedules := make([]*schedule.DeliverySchedule, 0, len(dtos))
	for _, dto := range dtos {
		s, dErr := toDomain(dto)
		if dErr != nil {
			return nil, dErr
		}
		schedules = append(schedules, s)
	}

	return schedules, nil
}
