package schedule

import (
	"errors"
	"time"

	"fulfillment/internal/pkg/errs"
)

// ErrTimeWindowIsNotConstructed is returned when attempting to use an improperly initialized TimeWindow.
var ErrTimeWindowIsNotConstructed = errs.NewValueIsRequiredError(
	"time window must be created via NewTimeWindow constructor")

// TimeWindow is the agreed delivery slot for a schedule.
type TimeWindow struct {
	start time.Time
	end   time.Time

	isConstructed bool
}

// NewTimeWindow creates a TimeWindow, requiring start to precede end.
func NewTimeWindow(start, end time.Time) (TimeWindow, error) {
	if start.IsZero() || end.IsZero() {
		return TimeWindow{}, errs.NewValueIsRequiredError("time window bounds")
	}
	if !start.Before(end) {
		return TimeWindow{}, errs.NewValueIsInvalidErrorWithCause("time window",
			errors.New("start must be before end"))
	}

	return TimeWindow{start: start, end: end, isConstructed: true}, nil
}

// Validate ensures the TimeWindow was created through NewTimeWindow.
func (w TimeWindow) Validate() error {
	if !w.isConstructed {
		return ErrTimeWindowIsNotConstructed
	}
	return nil
}

// Start returns the window's opening time.
func (w TimeWindow) Start() time.Time { return w.start }

// End returns the window's closing time.
func (w TimeWindow) End() time.Time { return w.end }

// Contains reports whether the given instant falls within the window (inclusive).
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.start) && !t.After(w.end)
}
