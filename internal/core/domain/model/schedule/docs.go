// Package schedule contains the DeliverySchedule aggregate and its supporting
// value objects: the shipment lifecycle Status state machine, the optimized
// Route with its waypoints, the carrier-prefixed TrackingNumber, and the
// committed delivery TimeWindow.
//
// A schedule is created exactly once per delivery plan when a carrier is
// committed, and from then on only its status, driver assignment, waypoint
// progress, and delivery estimate change.
package schedule
