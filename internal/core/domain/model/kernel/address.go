package kernel

import (
	"errors"
	"fmt"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrAddressIsNotConstructed is returned when attempting to use an improperly initialized Address.
var ErrAddressIsNotConstructed = errs.NewValueIsRequiredError(
	"address must be created via NewAddress constructor")

// Address is an immutable value object describing a delivery destination.
// Street, city, and postal code are required; geocoordinates are optional and
// only present when the destination has been geocoded.
//
// Example:
//
//	point, _ := kernel.NewGeoPoint(48.8566, 2.3522)
//	addr, err := kernel.NewAddress("12 Rue de Rivoli", "Paris", "75001", &point)
type Address struct { //nolint:recvcheck //using for validation
	street     string
	city       string
	postalCode string
	geo        *GeoPoint

	guard guard.ConstructorGuard
}

// NewAddress creates an Address with validated required fields.
// The geo parameter may be nil when coordinates are unknown.
func NewAddress(street, city, postalCode string, geo *GeoPoint) (Address, error) {
	address := Address{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		address.setStreet(street),
		address.setCity(city),
		address.setPostalCode(postalCode),
		address.setGeo(geo),
	); err != nil {
		return Address{}, err
	}

	return address, nil
}

// Validate ensures the Address was created through NewAddress.
func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

// Street returns the street line of the address.
func (a Address) Street() string {
	return a.street
}

// City returns the city of the address.
func (a Address) City() string {
	return a.city
}

// PostalCode returns the postal code of the address.
func (a Address) PostalCode() string {
	return a.postalCode
}

// Geo returns the geocoordinates of the address, or nil if not geocoded.
func (a Address) Geo() *GeoPoint {
	return a.geo
}

// String returns a single-line representation suitable for logs and messages.
func (a Address) String() string {
	return fmt.Sprintf("%s, %s %s", a.street, a.postalCode, a.city)
}

func (a *Address) setStreet(street string) error {
	if street == "" {
		return errs.NewValueIsRequiredError("street")
	}
	a.street = street
	return nil
}

func (a *Address) setCity(city string) error {
	if city == "" {
		return errs.NewValueIsRequiredError("city")
	}
	a.city = city
	return nil
}

func (a *Address) setPostalCode(postalCode string) error {
	if postalCode == "" {
		return errs.NewValueIsRequiredError("postal code")
	}
	a.postalCode = postalCode
	return nil
}

func (a *Address) setGeo(geo *GeoPoint) error {
	if geo == nil {
		return nil
	}
	if err := geo.Validate(); err != nil {
		return err
	}
	point := *geo
	a.geo = &point
	return nil
}
