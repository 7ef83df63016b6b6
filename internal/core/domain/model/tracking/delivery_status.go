package tracking

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/schedule"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrStatusIsNotConstructed is returned when a DeliveryStatus instance was not
	// created through the NewDeliveryStatus or RestoreDeliveryStatus factory methods.
	ErrStatusIsNotConstructed = errors.New(
		"DeliveryStatus must be created via NewDeliveryStatus constructor")

	// ErrHistoryIsEmpty is returned when restoring a status without any history entries.
	ErrHistoryIsEmpty = errs.NewValueIsRequiredError("status history must contain at least one entry")
)

// DeliveryStatus is the live tracking record for one schedule: the canonical
// current status, the full append-only status history, open exceptions, sent
// notifications, and delivery proof.
//
// DeliveryStatus follows these invariants:
//   - statusHistory is append-only; entries are never mutated or removed
//   - currentStatus always equals the status of the most recent history entry
//   - history entries preserve temporal order
//   - at most one open exception per exception type
type DeliveryStatus struct {
	id                kernel.UUID
	scheduleID        kernel.UUID
	trackingNumber    schedule.TrackingNumber
	currentLocation   *kernel.GeoPoint
	estimatedDelivery time.Time
	history           []StatusUpdate
	exceptions        []DeliveryException
	notifications     []CustomerNotification
	proof             *ProofOfDelivery
	tenant            kernel.Tenant

	// version supports optimistic concurrency at the repository boundary;
	// concurrent refreshes of the same delivery must not interleave appends.
	version int

	// isConstructed ensures the status was created via a factory method
	isConstructed bool
}

// NewDeliveryStatus creates the tracking record for a freshly created
// schedule, seeding history with a single SCHEDULED entry from SYSTEM.
func NewDeliveryStatus(
	id kernel.UUID,
	scheduleID kernel.UUID,
	trackingNumber schedule.TrackingNumber,
	estimatedDelivery time.Time,
	tenant kernel.Tenant,
) (*DeliveryStatus, error) {
	s := &DeliveryStatus{isConstructed: true}

	if err := errors.Join(
		s.setID(id),
		s.setScheduleID(scheduleID),
		s.setTrackingNumber(trackingNumber),
		s.setTenant(tenant),
	); err != nil {
		return nil, err
	}

	seed, err := NewStatusUpdate(TrackingScheduled, nil, "delivery scheduled", SourceSystem, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	s.history = []StatusUpdate{seed}
	s.estimatedDelivery = estimatedDelivery
	return s, nil
}

// RestoreDeliveryStatus reconstructs a DeliveryStatus from persistence.
// The current status is always derived from the last history entry, never
// stored independently.
func RestoreDeliveryStatus(
	id kernel.UUID,
	scheduleID kernel.UUID,
	trackingNumber schedule.TrackingNumber,
	currentLocation *kernel.GeoPoint,
	estimatedDelivery time.Time,
	history []StatusUpdate,
	exceptions []DeliveryException,
	notifications []CustomerNotification,
	proof *ProofOfDelivery,
	tenant kernel.Tenant,
	version int,
) (*DeliveryStatus, error) {
	s := &DeliveryStatus{isConstructed: true}

	if err := errors.Join(
		s.setID(id),
		s.setScheduleID(scheduleID),
		s.setTrackingNumber(trackingNumber),
		s.setTenant(tenant),
	); err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, ErrHistoryIsEmpty
	}
	if version < 0 {
		return nil, errs.NewVersionIsInvalidErrorWithCause("version")
	}

	s.history = make([]StatusUpdate, len(history))
	copy(s.history, history)
	s.exceptions = make([]DeliveryException, len(exceptions))
	copy(s.exceptions, exceptions)
	s.notifications = make([]CustomerNotification, len(notifications))
	copy(s.notifications, notifications)

	if currentLocation != nil {
		location := *currentLocation
		s.currentLocation = &location
	}
	if proof != nil {
		p := *proof
		s.proof = &p
	}
	s.estimatedDelivery = estimatedDelivery
	s.version = version
	return s, nil
}

// Validate ensures the DeliveryStatus instance was properly constructed.
func (s *DeliveryStatus) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrStatusIsNotConstructed
	}
	return nil
}

// ID returns the tracking record's unique identifier.
func (s *DeliveryStatus) ID() kernel.UUID {
	return s.id
}

// ScheduleID returns the identifier of the tracked schedule.
func (s *DeliveryStatus) ScheduleID() kernel.UUID {
	return s.scheduleID
}

// TrackingNumber returns the tracked shipment's tracking number.
func (s *DeliveryStatus) TrackingNumber() schedule.TrackingNumber {
	return s.trackingNumber
}

// CurrentStatus returns the status of the most recent history entry.
func (s *DeliveryStatus) CurrentStatus() TrackingStatus {
	return s.history[len(s.history)-1].Status()
}

// CurrentLocation returns the last reported location, or nil if none.
func (s *DeliveryStatus) CurrentLocation() *kernel.GeoPoint {
	return s.currentLocation
}

// EstimatedDelivery returns the current delivery estimate.
func (s *DeliveryStatus) EstimatedDelivery() time.Time {
	return s.estimatedDelivery
}

// History returns a copy of the full status history, oldest first.
func (s *DeliveryStatus) History() []StatusUpdate {
	history := make([]StatusUpdate, len(s.history))
	copy(history, s.history)
	return history
}

// Exceptions returns a copy of all exceptions, open and resolved.
func (s *DeliveryStatus) Exceptions() []DeliveryException {
	exceptions := make([]DeliveryException, len(s.exceptions))
	copy(exceptions, s.exceptions)
	return exceptions
}

// OpenExceptions returns the exceptions that still need handling.
func (s *DeliveryStatus) OpenExceptions() []DeliveryException {
	var open []DeliveryException
	for _, e := range s.exceptions {
		if e.IsOpen() {
			open = append(open, e)
		}
	}
	return open
}

// ExceptionCount returns the total number of exceptions recorded during
// tracking, resolved or not.
func (s *DeliveryStatus) ExceptionCount() int {
	return len(s.exceptions)
}

// Notifications returns a copy of all recorded notification attempts.
func (s *DeliveryStatus) Notifications() []CustomerNotification {
	notifications := make([]CustomerNotification, len(s.notifications))
	copy(notifications, s.notifications)
	return notifications
}

// Proof returns the delivery proof, or nil if not captured.
func (s *DeliveryStatus) Proof() *ProofOfDelivery {
	return s.proof
}

// Tenant returns the owning tenant.
func (s *DeliveryStatus) Tenant() kernel.Tenant {
	return s.tenant
}

// Version returns the optimistic-concurrency version of the record.
func (s *DeliveryStatus) Version() int {
	return s.version
}

// ApplyUpdate appends a history entry and refreshes the current location.
// It reports whether the canonical status changed, which is what decides
// whether the customer is notified.
//
// An update identical to one already in history (same status, source, and
// timestamp) is suppressed without error, so replaying an unchanged carrier
// payload leaves the record as it was. Appends after a terminal status are
// rejected, and entries older than the newest recorded one are rejected to
// preserve temporal order.
func (s *DeliveryStatus) ApplyUpdate(update StatusUpdate) (bool, error) {
	if err := update.Status().Validate(); err != nil {
		return false, err
	}
	if s.containsUpdate(update) {
		return false, nil
	}

	last := s.history[len(s.history)-1]
	if last.Status().IsTerminal() {
		return false, errs.NewStateConflictErrorWithCause("status update",
			fmt.Errorf("delivery is already %s", last.Status()))
	}
	if update.OccurredAt().Before(last.OccurredAt()) {
		return false, errs.NewStateConflictErrorWithCause("status update",
			fmt.Errorf("update at %s is older than the newest history entry at %s",
				update.OccurredAt().Format(time.RFC3339), last.OccurredAt().Format(time.RFC3339)))
	}

	previous := s.CurrentStatus()
	s.history = append(s.history, update)
	if update.Location() != nil {
		location := *update.Location()
		s.currentLocation = &location
	}
	return s.CurrentStatus() != previous, nil
}

// ReviseEstimatedDelivery replaces the delivery estimate from a carrier
// payload or a recovery procedure.
func (s *DeliveryStatus) ReviseEstimatedDelivery(estimate time.Time) error {
	if estimate.IsZero() {
		return errs.NewValueIsRequiredError("estimated delivery")
	}
	s.estimatedDelivery = estimate
	return nil
}

// HasOpenExceptionOfType reports whether an unresolved exception of the given
// type is already recorded.
func (s *DeliveryStatus) HasOpenExceptionOfType(exceptionType ExceptionType) bool {
	for _, e := range s.exceptions {
		if e.IsOpen() && e.Type() == exceptionType {
			return true
		}
	}
	return false
}

// OpenException records a new exception. At most one open exception per type
// is allowed; a duplicate is rejected with a state conflict.
func (s *DeliveryStatus) OpenException(exception DeliveryException) error {
	if err := exception.Type().Validate(); err != nil {
		return err
	}
	if s.HasOpenExceptionOfType(exception.Type()) {
		return errs.NewStateConflictError(
			fmt.Sprintf("an open %s exception already exists", exception.Type()))
	}

	s.exceptions = append(s.exceptions, exception)
	return nil
}

// ResolveException closes the open exception with the given identifier.
func (s *DeliveryStatus) ResolveException(exceptionID kernel.UUID, resolution string, at time.Time) error {
	for i := range s.exceptions {
		if s.exceptions[i].ID().IsEqual(exceptionID) {
			return s.exceptions[i].resolve(resolution, at)
		}
	}
	return errs.NewObjectNotFoundError("exceptionID", exceptionID)
}

// WasNotifiedOf reports whether a successful notification about the given
// status has already been recorded. Used to suppress duplicate notifications
// for an unchanged status.
func (s *DeliveryStatus) WasNotifiedOf(status TrackingStatus) bool {
	for _, n := range s.notifications {
		if n.AboutStatus() == status && n.Status() == NotificationSent {
			return true
		}
	}
	return false
}

// RecordNotification appends a notification attempt. Failed attempts are
// recorded too; they are evidence, not noise.
func (s *DeliveryStatus) RecordNotification(notification CustomerNotification) error {
	if err := notification.Status().Validate(); err != nil {
		return err
	}
	s.notifications = append(s.notifications, notification)
	return nil
}

// AttachProof records delivery proof. Proof only makes sense on a delivered
// shipment and is captured at most once.
func (s *DeliveryStatus) AttachProof(proof ProofOfDelivery) error {
	if s.CurrentStatus() != TrackingDelivered {
		return errs.NewStateConflictError(
			fmt.Sprintf("proof of delivery requires DELIVERED status, current is %s", s.CurrentStatus()))
	}
	if s.proof != nil {
		return errs.NewStateConflictError("proof of delivery is already attached")
	}

	s.proof = &proof
	return nil
}

func (s *DeliveryStatus) containsUpdate(update StatusUpdate) bool {
	for _, u := range s.history {
		if u.Status() == update.Status() &&
			u.Source() == update.Source() &&
			u.OccurredAt().Equal(update.OccurredAt()) {
			return true
		}
	}
	return false
}

func (s *DeliveryStatus) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.id = id
	return nil
}

func (s *DeliveryStatus) setScheduleID(scheduleID kernel.UUID) error {
	if err := scheduleID.Validate(); err != nil {
		return err
	}
	s.scheduleID = scheduleID
	return nil
}

func (s *DeliveryStatus) setTrackingNumber(trackingNumber schedule.TrackingNumber) error {
	if err := trackingNumber.Validate(); err != nil {
		return err
	}
	s.trackingNumber = trackingNumber
	return nil
}

func (s *DeliveryStatus) setTenant(tenant kernel.Tenant) error {
	if err := tenant.Validate(); err != nil {
		return err
	}
	s.tenant = tenant
	return nil
}
