// Package carrier provides the HTTP adapter for external carrier APIs.
// Registration uses PUT keyed by tracking number, so a retried registration
// lands on the same carrier-side shipment instead of creating a duplicate.
package carrier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/schedule"
	"fulfillment/internal/core/domain/model/tracking"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// HTTPCarrierGateway implements CarrierGateway over the carrier's REST API.
// Every call runs under a bounded per-call timeout regardless of the caller's
// context deadline.
type HTTPCarrierGateway struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

// NewHTTPCarrierGateway creates a gateway for the carrier API at baseURL.
func NewHTTPCarrierGateway(baseURL string, timeout time.Duration) (*HTTPCarrierGateway, error) {
	if baseURL == "" {
		return nil, errs.NewValueIsRequiredError("baseURL")
	}
	if timeout <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("timeout",
			fmt.Errorf("%s is not a positive duration", timeout))
	}

	return &HTTPCarrierGateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}, nil
}

type registerShipmentRequest struct {
	Carrier           string    `json:"carrier"`
	PlanID            string    `json:"plan_id"`
	ScheduledDate     time.Time `json:"scheduled_date"`
	WindowStart       time.Time `json:"window_start"`
	WindowEnd         time.Time `json:"window_end"`
	EstimatedDelivery time.Time `json:"estimated_delivery"`
	Tenant            string    `json:"tenant"`
}

type statusResponse struct {
	Status            string             `json:"status"`
	Location          *locationPayload   `json:"location"`
	EstimatedDelivery time.Time          `json:"estimated_delivery"`
	Updates           []updatePayload    `json:"updates"`
	Exceptions        []exceptionPayload `json:"exceptions"`
}

type locationPayload struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type updatePayload struct {
	Status     string           `json:"status"`
	Location   *locationPayload `json:"location"`
	Note       string           `json:"note"`
	OccurredAt time.Time        `json:"occurred_at"`
}

type exceptionPayload struct {
	Type        string    `json:"type"`
	Severity    string    `json:"severity"`
	Description string    `json:"description"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// RegisterShipment registers the schedule with its carrier.
func (g *HTTPCarrierGateway) RegisterShipment(
	ctx context.Context, aggregate *schedule.DeliverySchedule,
) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	body := registerShipmentRequest{
		Carrier:           aggregate.Carrier().Code(),
		PlanID:            aggregate.PlanID().String(),
		ScheduledDate:     aggregate.ScheduledDate(),
		WindowStart:       aggregate.Window().Start(),
		WindowEnd:         aggregate.Window().End(),
		EstimatedDelivery: aggregate.EstimatedDelivery(),
		Tenant:            aggregate.Tenant().String(),
	}

	url := fmt.Sprintf("%s/shipments/%s", g.baseURL, aggregate.TrackingNumber())
	resp, err := g.do(ctx, http.MethodPut, url, body)
	if err != nil {
		return fmt.Errorf("register shipment %s: %w", aggregate.TrackingNumber(), err)
	}
	defer resp.Body.Close()

	return checkStatus(resp, string(aggregate.TrackingNumber()))
}

// FetchStatus pulls the carrier's current view of the shipment and maps it
// onto the canonical status enums.
func (g *HTTPCarrierGateway) FetchStatus(
	ctx context.Context, trackingNumber schedule.TrackingNumber,
) (ports.CarrierStatusReport, error) {
	if err := trackingNumber.Validate(); err != nil {
		return ports.CarrierStatusReport{}, err
	}

	url := fmt.Sprintf("%s/shipments/%s/status", g.baseURL, trackingNumber)
	resp, err := g.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ports.CarrierStatusReport{}, fmt.Errorf("fetch status %s: %w", trackingNumber, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, string(trackingNumber)); err != nil {
		return ports.CarrierStatusReport{}, err
	}

	var payload statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ports.CarrierStatusReport{}, fmt.Errorf("decode status %s: %w", trackingNumber, err)
	}

	return reportFromPayload(payload)
}

// CancelShipment cancels the shipment on the carrier side.
func (g *HTTPCarrierGateway) CancelShipment(
	ctx context.Context, trackingNumber schedule.TrackingNumber,
) error {
	if err := trackingNumber.Validate(); err != nil {
		return err
	}

	url := fmt.Sprintf("%s/shipments/%s/cancel", g.baseURL, trackingNumber)
	resp, err := g.do(ctx, http.MethodPost, url, nil)
	if err != nil {
		return fmt.Errorf("cancel shipment %s: %w", trackingNumber, err)
	}
	defer resp.Body.Close()

	return checkStatus(resp, string(trackingNumber))
}

func (g *HTTPCarrierGateway) do(ctx context.Context, method, url string, body any) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return g.client.Do(req)
}

func checkStatus(resp *http.Response, trackingNumber string) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return errs.NewObjectNotFoundError("shipment", trackingNumber)
	case resp.StatusCode == http.StatusConflict:
		return errs.NewStateConflictError(fmt.Sprintf(
			"carrier rejected the operation on shipment %s", trackingNumber))
	default:
		return fmt.Errorf("carrier returned %s for shipment %s", resp.Status, trackingNumber)
	}
}

func reportFromPayload(payload statusResponse) (ports.CarrierStatusReport, error) {
	status, err := tracking.TrackingStatusFromString(payload.Status)
	if err != nil {
		return ports.CarrierStatusReport{}, err
	}
	location, err := geoFromPayload(payload.Location)
	if err != nil {
		return ports.CarrierStatusReport{}, err
	}

	updates := make([]ports.CarrierUpdate, 0, len(payload.Updates))
	for _, update := range payload.Updates {
		mapped, updateErr := updateFromPayload(update)
		if updateErr != nil {
			return ports.CarrierStatusReport{}, updateErr
		}
		updates = append(updates, mapped)
	}

	exceptions := make([]ports.CarrierException, 0, len(payload.Exceptions))
	for _, exception := range payload.Exceptions {
		mapped, exceptionErr := exceptionFromPayload(exception)
		if exceptionErr != nil {
			return ports.CarrierStatusReport{}, exceptionErr
		}
		exceptions = append(exceptions, mapped)
	}

	return ports.CarrierStatusReport{
		Status:            status,
		Location:          location,
		EstimatedDelivery: payload.EstimatedDelivery,
		Updates:           updates,
		Exceptions:        exceptions,
	}, nil
}

func updateFromPayload(payload updatePayload) (ports.CarrierUpdate, error) {
	status, err := tracking.TrackingStatusFromString(payload.Status)
	if err != nil {
		return ports.CarrierUpdate{}, err
	}
	location, err := geoFromPayload(payload.Location)
	if err != nil {
		return ports.CarrierUpdate{}, err
	}

	return ports.CarrierUpdate{
		Status:     status,
		Location:   location,
		Note:       payload.Note,
		OccurredAt: payload.OccurredAt,
	}, nil
}

func exceptionFromPayload(payload exceptionPayload) (ports.CarrierException, error) {
	exceptionType, err := tracking.ExceptionTypeFromString(payload.Type)
	if err != nil {
		return ports.CarrierException{}, err
	}
	severity, err := tracking.SeverityFromString(payload.Severity)
	if err != nil {
		return ports.CarrierException{}, err
	}

	return ports.CarrierException{
		Type:        exceptionType,
		Severity:    severity,
		Description: payload.Description,
		OccurredAt:  payload.OccurredAt,
	}, nil
}

func geoFromPayload(payload *locationPayload) (*kernel.GeoPoint, error) {
	if payload == nil {
		return nil, nil //nolint:nilnil //absent coordinates are not an error
	}
	point, err := kernel.NewGeoPoint(payload.Lat, payload.Lon)
	if err != nil {
		return nil, err
	}
	return &point, nil
}
