package plan

import (
	"errors"
	"sort"
	"time"

	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrPlanIsNotConstructed is returned when a DeliveryPlan instance was not created
	// through the NewDeliveryPlan or RestoreDeliveryPlan factory methods.
	ErrPlanIsNotConstructed = errors.New("DeliveryPlan must be created via NewDeliveryPlan constructor")

	// ErrPlanHasNoItems is returned when a plan is created without any shippable items.
	ErrPlanHasNoItems = errs.NewValueIsRequiredError("plan must contain at least one item")
)

// DeliveryPlan is the pre-shipment aggregation of an order's logistics
// requirements: what ships, where it goes, how urgently, and which carrier
// looks like the right fit.
//
// DeliveryPlan follows these invariants:
//   - Must reference an order, a customer, and a valid destination address
//   - Must contain at least one item
//   - Aggregate weight, volume, and special requirements are always computed
//     from the item list; they are never stored or mutated independently
//   - A plan is immutable once created; changed requirements mean a new plan
type DeliveryPlan struct {
	id               kernel.UUID
	orderID          kernel.UUID
	customerID       kernel.UUID
	destination      kernel.Address
	items            []Item
	priority         Priority
	suggestedCarrier carrier.Carrier
	total            kernel.Money
	tenant           kernel.Tenant
	createdBy        kernel.Actor
	createdAt        time.Time

	// isConstructed ensures the plan was created via a factory method
	isConstructed bool
}

// NewDeliveryPlan creates a DeliveryPlan with validation. The suggested
// carrier is produced by the carrier selector domain service and recorded
// here; all other plan-level figures are derived from the item list on read.
func NewDeliveryPlan(
	id kernel.UUID,
	orderID kernel.UUID,
	customerID kernel.UUID,
	destination kernel.Address,
	items []Item,
	priority Priority,
	suggestedCarrier carrier.Carrier,
	total kernel.Money,
	tenant kernel.Tenant,
	createdBy kernel.Actor,
) (*DeliveryPlan, error) {
	p := &DeliveryPlan{
		createdAt:     time.Now().UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		p.setID(id),
		p.setOrderID(orderID),
		p.setCustomerID(customerID),
		p.setDestination(destination),
		p.setItems(items),
		p.setPriority(priority),
		p.setSuggestedCarrier(suggestedCarrier),
		p.setTotal(total),
		p.setTenant(tenant),
		p.setCreatedBy(createdBy),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// RestoreDeliveryPlan reconstructs a DeliveryPlan from persistence, including
// its original creation timestamp.
func RestoreDeliveryPlan(
	id kernel.UUID,
	orderID kernel.UUID,
	customerID kernel.UUID,
	destination kernel.Address,
	items []Item,
	priority Priority,
	suggestedCarrier carrier.Carrier,
	total kernel.Money,
	tenant kernel.Tenant,
	createdBy kernel.Actor,
	createdAt time.Time,
) (*DeliveryPlan, error) {
	p, err := NewDeliveryPlan(
		id, orderID, customerID, destination, items, priority, suggestedCarrier, total, tenant, createdBy)
	if err != nil {
		return nil, err
	}

	p.createdAt = createdAt
	return p, nil
}

// Validate ensures the DeliveryPlan instance was properly constructed.
func (p *DeliveryPlan) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrPlanIsNotConstructed
	}
	return nil
}

// IsEqual compares two plans by their unique identifiers.
func (p *DeliveryPlan) IsEqual(other *DeliveryPlan) bool {
	return other != nil && p.id.IsEqual(other.id)
}

// ID returns the plan's unique identifier.
func (p *DeliveryPlan) ID() kernel.UUID {
	return p.id
}

// OrderID returns the identifier of the order this plan ships.
func (p *DeliveryPlan) OrderID() kernel.UUID {
	return p.orderID
}

// CustomerID returns the identifier of the receiving customer.
func (p *DeliveryPlan) CustomerID() kernel.UUID {
	return p.customerID
}

// Destination returns the delivery destination address.
func (p *DeliveryPlan) Destination() kernel.Address {
	return p.destination
}

// Items returns a copy of the plan's item list.
func (p *DeliveryPlan) Items() []Item {
	items := make([]Item, len(p.items))
	copy(items, p.items)
	return items
}

// Priority returns the plan's urgency class.
func (p *DeliveryPlan) Priority() Priority {
	return p.priority
}

// SuggestedCarrier returns the carrier suggested at planning time.
func (p *DeliveryPlan) SuggestedCarrier() carrier.Carrier {
	return p.suggestedCarrier
}

// Total returns the monetary total of the shipped goods.
func (p *DeliveryPlan) Total() kernel.Money {
	return p.total
}

// Tenant returns the owning tenant.
func (p *DeliveryPlan) Tenant() kernel.Tenant {
	return p.tenant
}

// CreatedBy returns the actor that created the plan.
func (p *DeliveryPlan) CreatedBy() kernel.Actor {
	return p.createdBy
}

// CreatedAt returns the plan's creation timestamp (UTC).
func (p *DeliveryPlan) CreatedAt() time.Time {
	return p.createdAt
}

// TotalWeight returns the aggregate weight, recomputed from the item list:
// Σ(item.unitWeight × item.quantity).
func (p *DeliveryPlan) TotalWeight() float64 {
	var weight float64
	for _, item := range p.items {
		weight += item.LineWeight()
	}
	return weight
}

// TotalVolume returns the aggregate volume, recomputed from the item list:
// Σ(length × width × height × quantity).
func (p *DeliveryPlan) TotalVolume() float64 {
	var volume float64
	for _, item := range p.items {
		volume += item.LineVolume()
	}
	return volume
}

// SpecialRequirements returns the union of the handling flags present on any
// item, sorted for deterministic output. Recomputing from the same items
// always yields the same set.
func (p *DeliveryPlan) SpecialRequirements() []SpecialRequirement {
	seen := make(map[SpecialRequirement]bool)
	for _, item := range p.items {
		for _, requirement := range item.Requirements() {
			seen[requirement] = true
		}
	}

	requirements := make([]SpecialRequirement, 0, len(seen))
	for requirement := range seen {
		requirements = append(requirements, requirement)
	}
	sort.Slice(requirements, func(i, j int) bool { return requirements[i] < requirements[j] })
	return requirements
}

// RequiresFragileHandling reports whether any item is flagged fragile.
func (p *DeliveryPlan) RequiresFragileHandling() bool {
	for _, item := range p.items {
		if item.IsFragile() {
			return true
		}
	}
	return false
}

func (p *DeliveryPlan) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *DeliveryPlan) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	p.orderID = orderID
	return nil
}

func (p *DeliveryPlan) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	p.customerID = customerID
	return nil
}

func (p *DeliveryPlan) setDestination(destination kernel.Address) error {
	if err := destination.Validate(); err != nil {
		return err
	}
	p.destination = destination
	return nil
}

func (p *DeliveryPlan) setItems(items []Item) error {
	if len(items) == 0 {
		return ErrPlanHasNoItems
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	p.items = make([]Item, len(items))
	copy(p.items, items)
	return nil
}

func (p *DeliveryPlan) setPriority(priority Priority) error {
	if err := priority.Validate(); err != nil {
		return err
	}
	p.priority = priority
	return nil
}

func (p *DeliveryPlan) setSuggestedCarrier(suggestedCarrier carrier.Carrier) error {
	if err := suggestedCarrier.Validate(); err != nil {
		return err
	}
	p.suggestedCarrier = suggestedCarrier
	return nil
}

func (p *DeliveryPlan) setTotal(total kernel.Money) error {
	if err := total.Validate(); err != nil {
		return err
	}
	p.total = total
	return nil
}

func (p *DeliveryPlan) setTenant(tenant kernel.Tenant) error {
	if err := tenant.Validate(); err != nil {
		return err
	}
	p.tenant = tenant
	return nil
}

func (p *DeliveryPlan) setCreatedBy(createdBy kernel.Actor) error {
	if err := createdBy.Validate(); err != nil {
		return err
	}
	p.createdBy = createdBy
	return nil
}
