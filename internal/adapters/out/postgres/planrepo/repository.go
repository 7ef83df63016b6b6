package planrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/plan"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormPlanRepository implements PlanRepository using GORM.
type GormPlanRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormPlanRepository creates a new GORM plan repository.
func NewGormPlanRepository(db *gorm.DB, tracker aggregateTracker) *GormPlanRepository {
	return &GormPlanRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new delivery plan and its items to the database.
func (r *GormPlanRepository) Add(ctx context.Context, aggregate *plan.DeliveryPlan) error {
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

// Get retrieves a plan by ID within a tenant.
func (r *GormPlanRepository) Get(
	ctx context.Context, id kernel.UUID, tenant kernel.Tenant,
) (*plan.DeliveryPlan, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto PlanDTO
	err := r.db.WithContext(ctx).Preload("Items").
		First(&dto, "id = ? AND tenant = ?", id.Bytes(), tenant.String()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("plan", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByOrderID retrieves the plan created for an order.
func (r *GormPlanRepository) GetByOrderID(
	ctx context.Context, orderID kernel.UUID, tenant kernel.Tenant,
) (*plan.DeliveryPlan, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto PlanDTO
	err := r.db.WithContext(ctx).Preload("Items").
		First(&dto, "order_id = ? AND tenant = ?", orderID.Bytes(), tenant.String()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("plan for order", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
