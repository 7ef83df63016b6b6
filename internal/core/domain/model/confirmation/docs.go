// Package confirmation contains the DeliveryConfirmation aggregate: the
// terminal, once-per-schedule record of what actually arrived, in what
// condition, and how the delivery performed against its schedule.
package confirmation
