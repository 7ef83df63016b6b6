// Package tracking contains the DeliveryStatus aggregate: the canonical,
// append-only tracking record for a shipment. It holds the status history,
// reported exceptions with their severities and resolutions, customer
// notification attempts, and proof of delivery.
//
// The current status is never stored on its own; it is always the status of
// the most recent history entry, so the record cannot drift from its history.
package tracking
