// Package schedulerepo provides data transfer objects and mapping functions
// for delivery schedule persistence, including the committed route and its
// waypoints.
package schedulerepo

import (
	"sort"
	"time"

	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/schedule"

	"github.com/google/uuid"
)

// ScheduleDTO represents the database structure for persisting delivery schedules.
// The status column holds the wire string so read queries can filter on it
// without decoding.
type ScheduleDTO struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	PlanID            uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Carrier           string    `gorm:"type:varchar(8);not null"`
	TrackingNumber    string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	ScheduledDate     time.Time `gorm:"not null"`
	WindowStart       time.Time `gorm:"not null"`
	WindowEnd         time.Time `gorm:"not null"`
	EstimatedDelivery time.Time `gorm:"not null"`
	RouteDistance     float64   `gorm:"not null"`
	RouteDuration     int64     `gorm:"not null"` // nanoseconds
	DriverName        string    `gorm:"type:varchar(255)"`
	VehicleID         string    `gorm:"type:varchar(64)"`
	Status            string    `gorm:"type:varchar(32);not null;index"`
	Tenant            string    `gorm:"type:varchar(64);not null;index"`
	CreatedAt         time.Time `gorm:"not null"`

	Waypoints []WaypointDTO `gorm:"foreignKey:ScheduleID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for delivery schedules.
func (ScheduleDTO) TableName() string {
	return "delivery_schedules"
}

// WaypointDTO represents one stop of a committed route.
type WaypointDTO struct {
	ID               int64     `gorm:"primaryKey;autoIncrement"`
	ScheduleID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Sequence         int       `gorm:"not null"`
	Lat              float64   `gorm:"not null"`
	Lon              float64   `gorm:"not null"`
	EstimatedArrival time.Time `gorm:"not null"`
	ActualArrival    *time.Time
	Status           int `gorm:"not null"`
}

// TableName specifies the database table name for route waypoints.
func (WaypointDTO) TableName() string {
	return "route_waypoints"
}

// fromDomain converts a schedule aggregate to its database representation.
func fromDomain(aggregate *schedule.DeliverySchedule) ScheduleDTO {
	scheduleID := aggregate.ID().Bytes()

	waypoints := make([]WaypointDTO, 0, len(aggregate.Route().Waypoints()))
	for _, w := range aggregate.Route().Waypoints() {
		waypoints = append(waypoints, WaypointDTO{
			ScheduleID:       scheduleID,
			Sequence:         w.Sequence(),
			Lat:              w.Location().Latitude(),
			Lon:              w.Location().Longitude(),
			EstimatedArrival: w.EstimatedArrival(),
			ActualArrival:    w.ActualArrival(),
			Status:           int(w.Status()),
		})
	}

	return ScheduleDTO{
		ID:                scheduleID,
		PlanID:            aggregate.PlanID().Bytes(),
		Carrier:           aggregate.Carrier().Code(),
		TrackingNumber:    aggregate.TrackingNumber().String(),
		ScheduledDate:     aggregate.ScheduledDate(),
		WindowStart:       aggregate.Window().Start(),
		WindowEnd:         aggregate.Window().End(),
		EstimatedDelivery: aggregate.EstimatedDelivery(),
		RouteDistance:     aggregate.Route().TotalDistance(),
		RouteDuration:     int64(aggregate.Route().EstimatedDuration()),
		DriverName:        aggregate.DriverName(),
		VehicleID:         aggregate.VehicleID(),
		Status:            aggregate.Status().String(),
		Tenant:            aggregate.Tenant().String(),
		CreatedAt:         aggregate.CreatedAt(),
		Waypoints:         waypoints,
	}
}

// toDomain converts a database DTO to a schedule aggregate.
func toDomain(dto ScheduleDTO) (*schedule.DeliverySchedule, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	planID, err := kernel.UUIDFromBytes(dto.PlanID[:])
	if err != nil {
		return nil, err
	}
	assignedCarrier, err := carrier.FromCode(dto.Carrier)
	if err != nil {
		return nil, err
	}
	trackingNumber, err := schedule.TrackingNumberFromString(dto.TrackingNumber)
	if err != nil {
		return nil, err
	}
	window, err := schedule.NewTimeWindow(dto.WindowStart, dto.WindowEnd)
	if err != nil {
		return nil, err
	}
	status, err := schedule.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	sort.Slice(dto.Waypoints, func(i, j int) bool {
		return dto.Waypoints[i].Sequence < dto.Waypoints[j].Sequence
	})
	waypoints := make([]schedule.Waypoint, 0, len(dto.Waypoints))
	for _, wDTO := range dto.Waypoints {
		location, geoErr := kernel.NewGeoPoint(wDTO.Lat, wDTO.Lon)
		if geoErr != nil {
			return nil, geoErr
		}
		waypoint, wErr := schedule.RestoreWaypoint(
			wDTO.Sequence, location, wDTO.EstimatedArrival, wDTO.ActualArrival,
			schedule.WaypointStatus(wDTO.Status))
		if wErr != nil {
			return nil, wErr
		}
		waypoints = append(waypoints, waypoint)
	}
	route, err := schedule.NewRoute(waypoints, dto.RouteDistance, time.Duration(dto.RouteDuration))
	if err != nil {
		return nil, err
	}

	return schedule.RestoreDeliverySchedule(
		id, planID, assignedCarrier, trackingNumber, dto.ScheduledDate, window,
		dto.EstimatedDelivery, route, dto.DriverName, dto.VehicleID, status,
		kernel.Tenant(dto.Tenant), dto.CreatedAt)
}
