package schedule

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrScheduleIsNotConstructed is returned when a DeliverySchedule instance was not
// created through the NewDeliverySchedule or RestoreDeliverySchedule factory methods.
var ErrScheduleIsNotConstructed = errors.New(
	"DeliverySchedule must be created via NewDeliverySchedule constructor")

// DeliverySchedule is the committed shipment for a delivery plan: the carrier
// that will move it, the tracking number it moves under, the route it follows,
// and the lifecycle status of the shipment.
//
// DeliverySchedule follows these invariants:
//   - Exactly one tracking number, assigned at creation and never changed
//   - Status moves only along the transitions defined by Status.TransitionTo
//   - The estimated delivery time may be revised (recovery procedures do), but
//     the committed time window may not
type DeliverySchedule struct {
	id                kernel.UUID
	planID            kernel.UUID
	assignedCarrier   carrier.Carrier
	trackingNumber    TrackingNumber
	scheduledDate     time.Time
	window            TimeWindow
	estimatedDelivery time.Time
	route             Route
	driverName        string
	vehicleID         string
	status            Status
	tenant            kernel.Tenant
	createdAt         time.Time

	// isConstructed ensures the schedule was created via a factory method
	isConstructed bool
}

// NewDeliverySchedule creates a DeliverySchedule in the Scheduled status with a
// freshly generated tracking number for the assigned carrier.
func NewDeliverySchedule(
	id kernel.UUID,
	planID kernel.UUID,
	assignedCarrier carrier.Carrier,
	scheduledDate time.Time,
	window TimeWindow,
	route Route,
	tenant kernel.Tenant,
) (*DeliverySchedule, error) {
	s := &DeliverySchedule{
		status:        StatusScheduled,
		createdAt:     time.Now().UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		s.setID(id),
		s.setPlanID(planID),
		s.setCarrier(assignedCarrier),
		s.setScheduledDate(scheduledDate),
		s.setWindow(window),
		s.setRoute(route),
		s.setTenant(tenant),
	); err != nil {
		return nil, err
	}

	trackingNumber, err := GenerateTrackingNumber(assignedCarrier)
	if err != nil {
		return nil, err
	}
	s.trackingNumber = trackingNumber
	s.estimatedDelivery = window.End()

	return s, nil
}

// RestoreDeliverySchedule reconstructs a DeliverySchedule from persistence.
func RestoreDeliverySchedule(
	id kernel.UUID,
	planID kernel.UUID,
	assignedCarrier carrier.Carrier,
	trackingNumber TrackingNumber,
	scheduledDate time.Time,
	window TimeWindow,
	estimatedDelivery time.Time,
	route Route,
	driverName string,
	vehicleID string,
	status Status,
	tenant kernel.Tenant,
	createdAt time.Time,
) (*DeliverySchedule, error) {
	s := &DeliverySchedule{
		createdAt:     createdAt,
		driverName:    driverName,
		vehicleID:     vehicleID,
		isConstructed: true,
	}

	if err := errors.Join(
		s.setID(id),
		s.setPlanID(planID),
		s.setCarrier(assignedCarrier),
		s.setTrackingNumber(trackingNumber),
		s.setScheduledDate(scheduledDate),
		s.setWindow(window),
		s.setRoute(route),
		s.setStatus(status),
		s.setTenant(tenant),
	); err != nil {
		return nil, err
	}

	s.estimatedDelivery = estimatedDelivery
	return s, nil
}

// Validate ensures the DeliverySchedule instance was properly constructed.
func (s *DeliverySchedule) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrScheduleIsNotConstructed
	}
	return nil
}

// IsEqual compares two schedules by their unique identifiers.
func (s *DeliverySchedule) IsEqual(other *DeliverySchedule) bool {
	return other != nil && s.id.IsEqual(other.id)
}

// ID returns the schedule's unique identifier.
func (s *DeliverySchedule) ID() kernel.UUID {
	return s.id
}

// PlanID returns the identifier of the plan this schedule ships.
func (s *DeliverySchedule) PlanID() kernel.UUID {
	return s.planID
}

// Carrier returns the carrier committed to the shipment.
func (s *DeliverySchedule) Carrier() carrier.Carrier {
	return s.assignedCarrier
}

// TrackingNumber returns the shipment's tracking number.
func (s *DeliverySchedule) TrackingNumber() TrackingNumber {
	return s.trackingNumber
}

// ScheduledDate returns the date the shipment is planned for.
func (s *DeliverySchedule) ScheduledDate() time.Time {
	return s.scheduledDate
}

// Window returns the committed delivery time window.
func (s *DeliverySchedule) Window() TimeWindow {
	return s.window
}

// EstimatedDelivery returns the current delivery estimate. Unlike the window,
// the estimate moves as the shipment progresses or recovers from exceptions.
func (s *DeliverySchedule) EstimatedDelivery() time.Time {
	return s.estimatedDelivery
}

// Route returns the optimized route the shipment follows.
func (s *DeliverySchedule) Route() Route {
	return s.route
}

// DriverName returns the assigned driver, or empty if none assigned yet.
func (s *DeliverySchedule) DriverName() string {
	return s.driverName
}

// VehicleID returns the assigned vehicle, or empty if none assigned yet.
func (s *DeliverySchedule) VehicleID() string {
	return s.vehicleID
}

// Status returns the schedule's lifecycle status.
func (s *DeliverySchedule) Status() Status {
	return s.status
}

// Tenant returns the owning tenant.
func (s *DeliverySchedule) Tenant() kernel.Tenant {
	return s.tenant
}

// CreatedAt returns the schedule's creation timestamp (UTC).
func (s *DeliverySchedule) CreatedAt() time.Time {
	return s.createdAt
}

// AssignDriver records the driver and vehicle handling the shipment.
func (s *DeliverySchedule) AssignDriver(driverName, vehicleID string) error {
	if driverName == "" {
		return errs.NewValueIsRequiredError("driver name")
	}
	if s.status.IsTerminal() {
		return errs.NewStateConflictError("driver assignment on terminal schedule")
	}

	s.driverName = driverName
	s.vehicleID = vehicleID
	return nil
}

// AdvanceTo moves the schedule to the given status, enforcing the state
// machine's transition rules.
func (s *DeliverySchedule) AdvanceTo(next Status) error {
	status, err := s.status.TransitionTo(next)
	if err != nil {
		return err
	}
	s.status = status
	return nil
}

// Cancel moves the schedule to the terminal Cancelled status.
func (s *DeliverySchedule) Cancel() error {
	return s.AdvanceTo(StatusCancelled)
}

// ReviseEstimatedDelivery replaces the delivery estimate, typically after an
// exception pushed the shipment off its original plan.
func (s *DeliverySchedule) ReviseEstimatedDelivery(estimate time.Time) error {
	if estimate.IsZero() {
		return errs.NewValueIsRequiredError("estimated delivery")
	}
	if s.status.IsTerminal() {
		return errs.NewStateConflictError("estimate revision on terminal schedule")
	}

	s.estimatedDelivery = estimate
	return nil
}

func (s *DeliverySchedule) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.id = id
	return nil
}

func (s *DeliverySchedule) setPlanID(planID kernel.UUID) error {
	if err := planID.Validate(); err != nil {
		return err
	}
	s.planID = planID
	return nil
}

func (s *DeliverySchedule) setCarrier(c carrier.Carrier) error {
	if err := c.Validate(); err != nil {
		return err
	}
	s.assignedCarrier = c
	return nil
}

func (s *DeliverySchedule) setTrackingNumber(trackingNumber TrackingNumber) error {
	if err := trackingNumber.Validate(); err != nil {
		return err
	}
	s.trackingNumber = trackingNumber
	return nil
}

func (s *DeliverySchedule) setScheduledDate(scheduledDate time.Time) error {
	if scheduledDate.IsZero() {
		return errs.NewValueIsRequiredError("scheduled date")
	}
	s.scheduledDate = scheduledDate
	return nil
}

func (s *DeliverySchedule) setWindow(window TimeWindow) error {
	if err := window.Validate(); err != nil {
		return err
	}
	s.window = window
	return nil
}

func (s *DeliverySchedule) setRoute(route Route) error {
	if err := route.Validate(); err != nil {
		return err
	}
	s.route = route
	return nil
}

func (s *DeliverySchedule) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	s.status = status
	return nil
}

func (s *DeliverySchedule) setTenant(tenant kernel.Tenant) error {
	if err := tenant.Validate(); err != nil {
		return err
	}
	s.tenant = tenant
	return nil
}
