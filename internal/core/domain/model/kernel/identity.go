package kernel

import (
	"fulfillment/internal/pkg/errs"
)

// ErrTenantIsRequired is returned when a tenant identifier is empty.
var ErrTenantIsRequired = errs.NewValueIsRequiredError("tenant")

// ErrActorIsRequired is returned when an acting-user identifier is empty.
var ErrActorIsRequired = errs.NewValueIsRequiredError("actor")

// Tenant identifies the organization a fulfillment record belongs to.
// Every operation and every audit event carries a Tenant; repositories scope
// all reads and writes by it.
type Tenant string

// NewTenant creates a Tenant, rejecting empty identifiers.
func NewTenant(id string) (Tenant, error) {
	tenant := Tenant(id)
	if err := tenant.Validate(); err != nil {
		return "", err
	}
	return tenant, nil
}

// Validate rejects empty tenant identifiers.
func (t Tenant) Validate() error {
	if t == "" {
		return ErrTenantIsRequired
	}
	return nil
}

// String returns the raw tenant identifier.
func (t Tenant) String() string {
	return string(t)
}

// Actor identifies the user or system principal performing an operation.
// It is recorded on created aggregates and on every audit event.
type Actor string

// NewActor creates an Actor, rejecting empty identifiers.
func NewActor(id string) (Actor, error) {
	actor := Actor(id)
	if err := actor.Validate(); err != nil {
		return "", err
	}
	return actor, nil
}

// Validate rejects empty actor identifiers.
func (a Actor) Validate() error {
	if a == "" {
		return ErrActorIsRequired
	}
	return nil
}

// String returns the raw actor identifier.
func (a Actor) String() string {
	return string(a)
}
