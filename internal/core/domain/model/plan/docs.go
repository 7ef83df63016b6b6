// Package plan provides the DeliveryPlan aggregate: the pre-shipment
// aggregation of an order's logistics requirements in the fulfillment system.
//
// The package includes:
//   - DeliveryPlan: The aggregate root holding destination, items, priority, and carrier suggestion
//   - Item: A value object describing one order line with dimensions and handling flags
//   - Priority: The urgency class (STANDARD/EXPEDITED/URGENT/SAME_DAY)
//   - SpecialRequirement: Handling constraints derived from item flags
//
// Key business rules:
//   - A plan must contain at least one item
//   - Aggregate weight, volume, and special requirements are pure functions of
//     the item list and are recomputed on read, never cached
//   - Plans are immutable; changed requirements produce a new plan
package plan
