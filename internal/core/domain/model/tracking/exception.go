package tracking

import (
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ExceptionType classifies what went wrong with a shipment.
type ExceptionType int

const (
	// ExceptionUnknown represents an invalid or undefined exception type.
	ExceptionUnknown ExceptionType = iota

	// ExceptionAddressIssue means the destination address is wrong or incomplete.
	ExceptionAddressIssue

	// ExceptionCustomerUnavailable means nobody accepted the delivery attempt.
	ExceptionCustomerUnavailable

	// ExceptionDamagedPackage means the package was damaged in transit.
	ExceptionDamagedPackage

	// ExceptionWeatherDelay means weather is holding the shipment up.
	ExceptionWeatherDelay

	// ExceptionVehicleBreakdown means the delivery vehicle broke down.
	ExceptionVehicleBreakdown

	// ExceptionOther covers everything the carrier could not classify.
	ExceptionOther
)

func getExceptionTypeStrings() map[ExceptionType]string {
	//nolint:exhaustive // ExceptionUnknown is intentionally excluded as it's invalid
	return map[ExceptionType]string{
		ExceptionAddressIssue:        "ADDRESS_ISSUE",
		ExceptionCustomerUnavailable: "CUSTOMER_UNAVAILABLE",
		ExceptionDamagedPackage:      "DAMAGED_PACKAGE",
		ExceptionWeatherDelay:        "WEATHER_DELAY",
		ExceptionVehicleBreakdown:    "VEHICLE_BREAKDOWN",
		ExceptionOther:               "OTHER",
	}
}

// Validate checks if the ExceptionType value is valid.
func (t ExceptionType) Validate() error {
	if _, ok := getExceptionTypeStrings()[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("exception type",
			fmt.Errorf("%d is not a valid exception type", t))
	}
	return nil
}

// String returns the wire representation of the exception type.
func (t ExceptionType) String() string {
	if str, ok := getExceptionTypeStrings()[t]; ok {
		return str
	}
	return "UNKNOWN"
}

// ExceptionTypeFromString parses an exception type from its wire representation.
func ExceptionTypeFromString(str string) (ExceptionType, error) {
	for exceptionType, s := range getExceptionTypeStrings() {
		if s == str {
			return exceptionType, nil
		}
	}
	return ExceptionUnknown, errs.NewValueIsInvalidErrorWithCause("exception type",
		fmt.Errorf("%q is not a valid exception type", str))
}

// Severity grades how serious a delivery exception is.
type Severity int

const (
	// SeverityUnknown represents an invalid or undefined severity.
	SeverityUnknown Severity = iota

	// SeverityLow marks minor issues with no customer impact.
	SeverityLow

	// SeverityMedium marks issues that delay the shipment.
	SeverityMedium

	// SeverityHigh marks issues that threaten the delivery.
	SeverityHigh

	// SeverityCritical marks issues requiring immediate operator attention.
	SeverityCritical
)

func getSeverityStrings() map[Severity]string {
	//nolint:exhaustive // SeverityUnknown is intentionally excluded as it's invalid
	return map[Severity]string{
		SeverityLow:      "LOW",
		SeverityMedium:   "MEDIUM",
		SeverityHigh:     "HIGH",
		SeverityCritical: "CRITICAL",
	}
}

// Validate checks if the Severity value is valid.
func (s Severity) Validate() error {
	if _, ok := getSeverityStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("severity",
			fmt.Errorf("%d is not a valid severity", s))
	}
	return nil
}

// String returns the wire representation of the severity.
func (s Severity) String() string {
	if str, ok := getSeverityStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// RequiresIncident reports whether exceptions of this severity must be raised
// to the audit sink as operational incidents rather than just recorded.
func (s Severity) RequiresIncident() bool {
	return s == SeverityHigh || s == SeverityCritical
}

// SeverityFromString parses a severity from its wire representation.
func SeverityFromString(str string) (Severity, error) {
	for severity, s := range getSeverityStrings() {
		if s == str {
			return severity, nil
		}
	}
	return SeverityUnknown, errs.NewValueIsInvalidErrorWithCause("severity",
		fmt.Errorf("%q is not a valid severity", str))
}

// DeliveryException is one reported problem on a shipment. It is opened by
// the tracker on a carrier signal and closed when a recovery procedure or a
// human records a resolution.
type DeliveryException struct {
	id            kernel.UUID
	exceptionType ExceptionType
	severity      Severity
	description   string
	reportedBy    UpdateSource
	reportedAt    time.Time
	resolution    string
	resolvedAt    *time.Time
}

// NewDeliveryException opens a new, unresolved exception.
func NewDeliveryException(
	id kernel.UUID,
	exceptionType ExceptionType,
	severity Severity,
	description string,
	reportedBy UpdateSource,
	reportedAt time.Time,
) (DeliveryException, error) {
	if err := id.Validate(); err != nil {
		return DeliveryException{}, err
	}
	if err := exceptionType.Validate(); err != nil {
		return DeliveryException{}, err
	}
	if err := severity.Validate(); err != nil {
		return DeliveryException{}, err
	}
	if err := reportedBy.Validate(); err != nil {
		return DeliveryException{}, err
	}
	if description == "" {
		return DeliveryException{}, errs.NewValueIsRequiredError("exception description")
	}
	if reportedAt.IsZero() {
		return DeliveryException{}, errs.NewValueIsRequiredError("reported at")
	}

	return DeliveryException{
		id:            id,
		exceptionType: exceptionType,
		severity:      severity,
		description:   description,
		reportedBy:    reportedBy,
		reportedAt:    reportedAt,
	}, nil
}

// RestoreDeliveryException reconstructs an exception from persistence.
func RestoreDeliveryException(
	id kernel.UUID,
	exceptionType ExceptionType,
	severity Severity,
	description string,
	reportedBy UpdateSource,
	reportedAt time.Time,
	resolution string,
	resolvedAt *time.Time,
) (DeliveryException, error) {
	e, err := NewDeliveryException(id, exceptionType, severity, description, reportedBy, reportedAt)
	if err != nil {
		return DeliveryException{}, err
	}

	e.resolution = resolution
	if resolvedAt != nil {
		at := *resolvedAt
		e.resolvedAt = &at
	}
	return e, nil
}

// ID returns the exception's unique identifier.
func (e DeliveryException) ID() kernel.UUID { return e.id }

// Type returns the exception's classification.
func (e DeliveryException) Type() ExceptionType { return e.exceptionType }

// Severity returns how serious the exception is.
func (e DeliveryException) Severity() Severity { return e.severity }

// Description returns the carrier's or reporter's description.
func (e DeliveryException) Description() string { return e.description }

// ReportedBy returns who reported the exception.
func (e DeliveryException) ReportedBy() UpdateSource { return e.reportedBy }

// ReportedAt returns when the exception was reported.
func (e DeliveryException) ReportedAt() time.Time { return e.reportedAt }

// Resolution returns how the exception was resolved, or empty while open.
func (e DeliveryException) Resolution() string { return e.resolution }

// ResolvedAt returns when the exception was resolved, or nil while open.
func (e DeliveryException) ResolvedAt() *time.Time { return e.resolvedAt }

// IsOpen reports whether the exception still needs handling.
func (e DeliveryException) IsOpen() bool { return e.resolvedAt == nil }

// resolve closes the exception. Called through the DeliveryStatus aggregate so
// the closure is recorded against the owning delivery.
func (e *DeliveryException) resolve(resolution string, at time.Time) error {
	if resolution == "" {
		return errs.NewValueIsRequiredError("resolution")
	}
	if !e.IsOpen() {
		return errs.NewStateConflictError(
			fmt.Sprintf("exception %s is already resolved", e.id))
	}

	e.resolution = resolution
	e.resolvedAt = &at
	return nil
}
