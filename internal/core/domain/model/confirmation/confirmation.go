package confirmation

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrConfirmationIsNotConstructed is returned when a DeliveryConfirmation instance was
// not created through the NewDeliveryConfirmation or RestoreDeliveryConfirmation factory methods.
var ErrConfirmationIsNotConstructed = errors.New(
	"DeliveryConfirmation must be created via NewDeliveryConfirmation constructor")

// DeliveryConfirmation is the terminal record of a delivery: who confirmed
// it, what actually arrived, and how the delivery performed against its
// schedule. Created at most once per schedule and immutable afterwards,
// except for the delivery note reference which is attached as a side effect
// of confirmation.
type DeliveryConfirmation struct {
	id               kernel.UUID
	scheduleID       kernel.UUID
	deliveryStatusID kernel.UUID
	confirmedBy      kernel.Actor
	confirmedAt      time.Time
	finalStatus      FinalStatus
	items            []Item
	customerFeedback string
	metrics          PerformanceMetrics
	deliveryNoteRef  string
	tenant           kernel.Tenant

	// isConstructed ensures the confirmation was created via a factory method
	isConstructed bool
}

// NewDeliveryConfirmation creates the one confirmation a schedule gets. The
// final status is derived from the per-item outcomes, never supplied.
func NewDeliveryConfirmation(
	id kernel.UUID,
	scheduleID kernel.UUID,
	deliveryStatusID kernel.UUID,
	confirmedBy kernel.Actor,
	items []Item,
	customerFeedback string,
	metrics PerformanceMetrics,
	tenant kernel.Tenant,
) (*DeliveryConfirmation, error) {
	c := &DeliveryConfirmation{
		confirmedAt:   time.Now().UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		c.setID(id),
		c.setScheduleID(scheduleID),
		c.setDeliveryStatusID(deliveryStatusID),
		c.setConfirmedBy(confirmedBy),
		c.setItems(items),
		c.setTenant(tenant),
	); err != nil {
		return nil, err
	}

	c.finalStatus = DeriveFinalStatus(c.items)
	c.customerFeedback = customerFeedback
	c.metrics = metrics
	return c, nil
}

// RestoreDeliveryConfirmation reconstructs a confirmation from persistence,
// trusting the persisted final status rather than re-deriving it from the
// item list.
func RestoreDeliveryConfirmation(
	id kernel.UUID,
	scheduleID kernel.UUID,
	deliveryStatusID kernel.UUID,
	confirmedBy kernel.Actor,
	confirmedAt time.Time,
	finalStatus FinalStatus,
	items []Item,
	customerFeedback string,
	metrics PerformanceMetrics,
	deliveryNoteRef string,
	tenant kernel.Tenant,
) (*DeliveryConfirmation, error) {
	c := &DeliveryConfirmation{isConstructed: true}

	if err := errors.Join(
		c.setID(id),
		c.setScheduleID(scheduleID),
		c.setDeliveryStatusID(deliveryStatusID),
		c.setConfirmedBy(confirmedBy),
		c.setItems(items),
		c.setTenant(tenant),
		finalStatus.Validate(),
	); err != nil {
		return nil, err
	}

	c.confirmedAt = confirmedAt
	c.finalStatus = finalStatus
	c.customerFeedback = customerFeedback
	c.metrics = metrics
	c.deliveryNoteRef = deliveryNoteRef
	return c, nil
}

// Validate ensures the DeliveryConfirmation instance was properly constructed.
func (c *DeliveryConfirmation) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrConfirmationIsNotConstructed
	}
	return nil
}

// ID returns the confirmation's unique identifier.
func (c *DeliveryConfirmation) ID() kernel.UUID {
	return c.id
}

// ScheduleID returns the identifier of the confirmed schedule.
func (c *DeliveryConfirmation) ScheduleID() kernel.UUID {
	return c.scheduleID
}

// DeliveryStatusID returns the identifier of the tracking record the
// confirmation drew its exception count from.
func (c *DeliveryConfirmation) DeliveryStatusID() kernel.UUID {
	return c.deliveryStatusID
}

// ConfirmedBy returns the actor that confirmed the delivery.
func (c *DeliveryConfirmation) ConfirmedBy() kernel.Actor {
	return c.confirmedBy
}

// ConfirmedAt returns when the confirmation was created (UTC).
func (c *DeliveryConfirmation) ConfirmedAt() time.Time {
	return c.confirmedAt
}

// FinalStatus returns the overall delivery outcome.
func (c *DeliveryConfirmation) FinalStatus() FinalStatus {
	return c.finalStatus
}

// Items returns a copy of the per-item outcomes.
func (c *DeliveryConfirmation) Items() []Item {
	items := make([]Item, len(c.items))
	copy(items, c.items)
	return items
}

// CustomerFeedback returns the captured feedback text, or empty.
func (c *DeliveryConfirmation) CustomerFeedback() string {
	return c.customerFeedback
}

// HasCustomerFeedback reports whether feedback was captured at confirmation.
func (c *DeliveryConfirmation) HasCustomerFeedback() bool {
	return c.customerFeedback != ""
}

// Metrics returns the computed delivery performance metrics.
func (c *DeliveryConfirmation) Metrics() PerformanceMetrics {
	return c.metrics
}

// DeliveryNoteRef returns the attached delivery note reference, or empty.
func (c *DeliveryConfirmation) DeliveryNoteRef() string {
	return c.deliveryNoteRef
}

// Tenant returns the owning tenant.
func (c *DeliveryConfirmation) Tenant() kernel.Tenant {
	return c.tenant
}

// AttachDeliveryNote records the generated delivery note reference. The note
// is attached once; the confirmation is otherwise immutable.
func (c *DeliveryConfirmation) AttachDeliveryNote(ref string) error {
	if ref == "" {
		return errs.NewValueIsRequiredError("delivery note reference")
	}
	if c.deliveryNoteRef != "" {
		return errs.NewStateConflictError("delivery note is already attached")
	}

	c.deliveryNoteRef = ref
	return nil
}

func (c *DeliveryConfirmation) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *DeliveryConfirmation) setScheduleID(scheduleID kernel.UUID) error {
	if err := scheduleID.Validate(); err != nil {
		return err
	}
	c.scheduleID = scheduleID
	return nil
}

func (c *DeliveryConfirmation) setDeliveryStatusID(deliveryStatusID kernel.UUID) error {
	if err := deliveryStatusID.Validate(); err != nil {
		return err
	}
	c.deliveryStatusID = deliveryStatusID
	return nil
}

func (c *DeliveryConfirmation) setConfirmedBy(confirmedBy kernel.Actor) error {
	if err := confirmedBy.Validate(); err != nil {
		return err
	}
	c.confirmedBy = confirmedBy
	return nil
}

func (c *DeliveryConfirmation) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("confirmation items")
	}
	c.items = make([]Item, len(items))
	copy(c.items, items)
	return nil
}

func (c *DeliveryConfirmation) setTenant(tenant kernel.Tenant) error {
	if err := tenant.Validate(); err != nil {
		return err
	}
	c.tenant = tenant
	return nil
}
