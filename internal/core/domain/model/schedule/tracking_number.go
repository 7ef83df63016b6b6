package schedule

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/pkg/errs"
)

// ErrTrackingNumberIsRequired is returned when a tracking number is empty.
var ErrTrackingNumberIsRequired = errs.NewValueIsRequiredError("tracking number")

const trackingSuffixBits = 16

// TrackingNumber identifies a shipment within its carrier's namespace.
// It is assigned exactly once at scheduling time and never changes.
//
// Format: <carrier prefix>-<nanosecond timestamp>-<random hex suffix>.
// The timestamp component makes collisions within one carrier effectively
// impossible for sequential generation; the random suffix covers concurrent
// generation. Uniqueness is probabilistic, not cryptographic, and the
// schedule repository additionally enforces a unique index.
type TrackingNumber string

// GenerateTrackingNumber issues a new tracking number for the given carrier.
func GenerateTrackingNumber(c carrier.Carrier) (TrackingNumber, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}

	suffix := rand.N(uint32(1) << trackingSuffixBits)
	raw := fmt.Sprintf("%s-%d-%04X", c.TrackingPrefix(), time.Now().UnixNano(), suffix)
	return TrackingNumber(raw), nil
}

// TrackingNumberFromString validates a tracking number received from
// persistence or an external caller.
func TrackingNumberFromString(s string) (TrackingNumber, error) {
	tn := TrackingNumber(s)
	if err := tn.Validate(); err != nil {
		return "", err
	}
	return tn, nil
}

// Validate rejects empty tracking numbers.
func (t TrackingNumber) Validate() error {
	if t == "" {
		return ErrTrackingNumberIsRequired
	}
	return nil
}

// HasPrefix reports whether the tracking number belongs to the given carrier.
func (t TrackingNumber) HasPrefix(c carrier.Carrier) bool {
	return strings.HasPrefix(string(t), c.TrackingPrefix()+"-")
}

// String returns the raw tracking number.
func (t TrackingNumber) String() string {
	return string(t)
}
