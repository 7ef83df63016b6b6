// Package services provides domain services that implement business rules
// spanning multiple aggregates of the fulfillment system.
//
// The package includes:
//   - CarrierSelector: deterministic carrier suggestion for delivery plans
//
// Domain services coordinate between aggregates, implementing business logic
// that doesn't naturally belong to a single aggregate root.
package services
