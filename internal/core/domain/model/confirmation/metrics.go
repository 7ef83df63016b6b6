package confirmation

import (
	"fmt"
	"time"

	"fulfillment/internal/pkg/errs"
)

// OnTimeTolerance is how far the actual delivery may deviate from the
// scheduled time, in either direction, and still count as on time. The bound
// is inclusive: a deviation of exactly the tolerance is on time.
const OnTimeTolerance = 2 * time.Hour

// PerformanceMetrics is the measured outcome of a delivery, computed once at
// confirmation from the schedule, the route, and the tracking record.
type PerformanceMetrics struct {
	scheduledTime     time.Time
	actualTime        time.Time
	totalDeliveryTime time.Duration
	onTimeDelivery    bool
	routeDistance     float64
	routeEfficiency   float64
	exceptionCount    int
}

// NewPerformanceMetrics computes delivery metrics. totalDeliveryTime is
// actual minus scheduled and is negative for early deliveries; on-time means
// its magnitude is within OnTimeTolerance. Route efficiency compares the
// optimizer's duration estimate against the time actually taken, capped at
// 1.0 for deliveries faster than estimated.
func NewPerformanceMetrics(
	scheduledTime time.Time,
	actualTime time.Time,
	routeDistance float64,
	estimatedDuration time.Duration,
	exceptionCount int,
) (PerformanceMetrics, error) {
	if scheduledTime.IsZero() {
		return PerformanceMetrics{}, errs.NewValueIsRequiredError("scheduled time")
	}
	if actualTime.IsZero() {
		return PerformanceMetrics{}, errs.NewValueIsRequiredError("actual time")
	}
	if routeDistance < 0 {
		return PerformanceMetrics{}, errs.NewValueIsInvalidErrorWithCause("route distance",
			fmt.Errorf("%g is negative", routeDistance))
	}
	if exceptionCount < 0 {
		return PerformanceMetrics{}, errs.NewValueIsInvalidErrorWithCause("exception count",
			fmt.Errorf("%d is negative", exceptionCount))
	}

	variance := actualTime.Sub(scheduledTime)

	m := PerformanceMetrics{
		scheduledTime:     scheduledTime,
		actualTime:        actualTime,
		totalDeliveryTime: variance,
		onTimeDelivery:    absDuration(variance) <= OnTimeTolerance,
		routeDistance:     routeDistance,
		routeEfficiency:   1.0,
		exceptionCount:    exceptionCount,
	}

	if variance > 0 && estimatedDuration > 0 {
		m.routeEfficiency = float64(estimatedDuration) / float64(estimatedDuration+variance)
	}

	return m, nil
}

// RestorePerformanceMetrics reconstructs metrics from persistence. The
// derived values were computed at confirmation time and are trusted as stored.
func RestorePerformanceMetrics(
	scheduledTime time.Time,
	actualTime time.Time,
	totalDeliveryTime time.Duration,
	onTimeDelivery bool,
	routeDistance float64,
	routeEfficiency float64,
	exceptionCount int,
) PerformanceMetrics {
	return PerformanceMetrics{
		scheduledTime:     scheduledTime,
		actualTime:        actualTime,
		totalDeliveryTime: totalDeliveryTime,
		onTimeDelivery:    onTimeDelivery,
		routeDistance:     routeDistance,
		routeEfficiency:   routeEfficiency,
		exceptionCount:    exceptionCount,
	}
}

// ScheduledTime returns the time the delivery was scheduled for.
func (m PerformanceMetrics) ScheduledTime() time.Time { return m.scheduledTime }

// ActualTime returns the time the delivery actually happened.
func (m PerformanceMetrics) ActualTime() time.Time { return m.actualTime }

// TotalDeliveryTime returns actual minus scheduled; negative means early.
func (m PerformanceMetrics) TotalDeliveryTime() time.Duration { return m.totalDeliveryTime }

// OnTimeDelivery reports whether the delivery landed within tolerance.
func (m PerformanceMetrics) OnTimeDelivery() bool { return m.onTimeDelivery }

// RouteDistance returns the optimizer's total route distance.
func (m PerformanceMetrics) RouteDistance() float64 { return m.routeDistance }

// RouteEfficiency returns the estimate-to-actual duration ratio in (0, 1].
func (m PerformanceMetrics) RouteEfficiency() float64 { return m.routeEfficiency }

// ExceptionCount returns how many exceptions tracking accumulated.
func (m PerformanceMetrics) ExceptionCount() int { return m.exceptionCount }

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
