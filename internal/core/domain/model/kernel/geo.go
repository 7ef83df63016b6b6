package kernel

import (
	"errors"
	"fmt"
	"math"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const (
	// GeoMinLatitude is the minimum valid latitude in degrees.
	GeoMinLatitude = -90.0
	// GeoMaxLatitude is the maximum valid latitude in degrees.
	GeoMaxLatitude = 90.0
	// GeoMinLongitude is the minimum valid longitude in degrees.
	GeoMinLongitude = -180.0
	// GeoMaxLongitude is the maximum valid longitude in degrees.
	GeoMaxLongitude = 180.0
)

// ErrGeoPointIsNotConstructed is returned when attempting to use an improperly initialized GeoPoint.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"geo point must be created via NewGeoPoint constructor")

// GeoPoint is an immutable value object representing a WGS84 coordinate pair.
// Waypoints, carrier location reports, and optional address coordinates are
// all expressed as GeoPoints. The zero value is invalid and fails validation.
//
// Example:
//
//	point, err := kernel.NewGeoPoint(52.5200, 13.4050)
//	if err != nil {
//	    // handle validation error
//	}
type GeoPoint struct { //nolint:recvcheck //using for validation
	latitude  float64
	longitude float64

	guard guard.ConstructorGuard
}

// NewGeoPoint creates a GeoPoint after validating that latitude and longitude
// fall within their WGS84 bounds.
func NewGeoPoint(latitude, longitude float64) (GeoPoint, error) {
	point := GeoPoint{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		point.setLatitude(latitude),
		point.setLongitude(longitude),
	); err != nil {
		return GeoPoint{}, err
	}

	return point, nil
}

// Validate ensures the GeoPoint was created through NewGeoPoint.
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

// Latitude returns the latitude in degrees.
func (p GeoPoint) Latitude() float64 {
	return p.latitude
}

// Longitude returns the longitude in degrees.
func (p GeoPoint) Longitude() float64 {
	return p.longitude
}

// IsEqual reports whether two points share the same coordinates.
// Comparison uses a small epsilon to absorb floating-point noise.
func (p GeoPoint) IsEqual(other GeoPoint) bool {
	const epsilon = 1e-9
	return math.Abs(p.latitude-other.latitude) < epsilon &&
		math.Abs(p.longitude-other.longitude) < epsilon
}

// String returns a human-readable "GeoPoint(lat,lng)" representation.
func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%.6f,%.6f)", p.latitude, p.longitude)
}

func (p *GeoPoint) setLatitude(latitude float64) error {
	if latitude < GeoMinLatitude || latitude > GeoMaxLatitude {
		return errs.NewValueIsOutOfRangeError("latitude", latitude, GeoMinLatitude, GeoMaxLatitude)
	}
	p.latitude = latitude
	return nil
}

func (p *GeoPoint) setLongitude(longitude float64) error {
	if longitude < GeoMinLongitude || longitude > GeoMaxLongitude {
		return errs.NewValueIsOutOfRangeError("longitude", longitude, GeoMinLongitude, GeoMaxLongitude)
	}
	p.longitude = longitude
	return nil
}
