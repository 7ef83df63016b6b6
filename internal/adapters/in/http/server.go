// Package http provides the inbound HTTP surface. It is a thin layer:
// request bodies are decoded into commands, domain errors are mapped onto
// status codes, and everything else belongs to the handlers behind it.
package http

import (
	"errors"
	"net/http"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/confirmation"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/plan"
	"fulfillment/internal/core/domain/model/schedule"
	"fulfillment/internal/core/domain/model/tracking"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server exposes the fulfillment operations over HTTP.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createPlanHandler       commands.CreatePlanCommandHandler
	scheduleDeliveryHandler commands.ScheduleDeliveryCommandHandler
	refreshTrackingHandler  commands.RefreshTrackingCommandHandler
	confirmDeliveryHandler  commands.ConfirmDeliveryCommandHandler
	cancelDeliveryHandler   commands.CancelDeliveryCommandHandler

	// Query handlers
	getDeliveryStatusHandler   queries.GetDeliveryStatusQueryHandler
	getActiveDeliveriesHandler queries.GetActiveDeliveriesQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createPlanHandler commands.CreatePlanCommandHandler,
	scheduleDeliveryHandler commands.ScheduleDeliveryCommandHandler,
	refreshTrackingHandler commands.RefreshTrackingCommandHandler,
	confirmDeliveryHandler commands.ConfirmDeliveryCommandHandler,
	cancelDeliveryHandler commands.CancelDeliveryCommandHandler,
	getDeliveryStatusHandler queries.GetDeliveryStatusQueryHandler,
	getActiveDeliveriesHandler queries.GetActiveDeliveriesQueryHandler,
) *Server {
	return &Server{
		createPlanHandler:          createPlanHandler,
		scheduleDeliveryHandler:    scheduleDeliveryHandler,
		refreshTrackingHandler:     refreshTrackingHandler,
		confirmDeliveryHandler:     confirmDeliveryHandler,
		cancelDeliveryHandler:      cancelDeliveryHandler,
		getDeliveryStatusHandler:   getDeliveryStatusHandler,
		getActiveDeliveriesHandler: getActiveDeliveriesHandler,
	}
}

// RegisterRoutes attaches all fulfillment endpoints to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	v1 := e.Group("/api/v1")
	v1.POST("/plans", s.CreatePlan)
	v1.POST("/deliveries", s.ScheduleDelivery)
	v1.GET("/deliveries/active", s.GetActiveDeliveries)
	v1.POST("/deliveries/:scheduleID/refresh", s.RefreshTracking)
	v1.POST("/deliveries/:scheduleID/confirm", s.ConfirmDelivery)
	v1.POST("/deliveries/:scheduleID/cancel", s.CancelDelivery)
	v1.GET("/tracking/:trackingNumber", s.GetDeliveryStatus)
}

// errorResponse is the uniform error body.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type geoPayload struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type planItemPayload struct {
	SKU                   string  `json:"sku"`
	Description           string  `json:"description"`
	Quantity              int     `json:"quantity"`
	UnitWeight            float64 `json:"unit_weight"`
	Length                float64 `json:"length"`
	Width                 float64 `json:"width"`
	Height                float64 `json:"height"`
	Fragile               bool    `json:"fragile"`
	Hazardous             bool    `json:"hazardous"`
	TemperatureControlled bool    `json:"temperature_controlled"`
	SignatureRequired     bool    `json:"signature_required"`
}

type createPlanRequest struct {
	OrderID    string `json:"order_id"`
	CustomerID string `json:"customer_id"`
	Destination struct {
		Street     string      `json:"street"`
		City       string      `json:"city"`
		PostalCode string      `json:"postal_code"`
		Geo        *geoPayload `json:"geo"`
	} `json:"destination"`
	Items    []planItemPayload `json:"items"`
	Priority string            `json:"priority"`
	Total    struct {
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
	} `json:"total"`
}

// CreatePlan handles POST /api/v1/plans.
func (s *Server) CreatePlan(ctx echo.Context) error {
	var request createPlanRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	tenant, actor, err := identity(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	orderID, err := kernel.UUIDFromString(request.OrderID)
	if err != nil {
		return badRequest(ctx, "invalid order_id: "+err.Error())
	}
	customerID, err := kernel.UUIDFromString(request.CustomerID)
	if err != nil {
		return badRequest(ctx, "invalid customer_id: "+err.Error())
	}

	var geo *kernel.GeoPoint
	if request.Destination.Geo != nil {
		point, geoErr := kernel.NewGeoPoint(request.Destination.Geo.Lat, request.Destination.Geo.Lon)
		if geoErr != nil {
			return badRequest(ctx, geoErr.Error())
		}
		geo = &point
	}
	destination, err := kernel.NewAddress(
		request.Destination.Street, request.Destination.City, request.Destination.PostalCode, geo)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	items := make([]plan.Item, 0, len(request.Items))
	for _, payload := range request.Items {
		item, itemErr := plan.NewItem(
			payload.SKU, payload.Description, payload.Quantity, payload.UnitWeight,
			payload.Length, payload.Width, payload.Height,
			plan.ItemFlags{
				Fragile:               payload.Fragile,
				Hazardous:             payload.Hazardous,
				TemperatureControlled: payload.TemperatureControlled,
				SignatureRequired:     payload.SignatureRequired,
			})
		if itemErr != nil {
			return badRequest(ctx, itemErr.Error())
		}
		items = append(items, item)
	}

	priority, err := plan.PriorityFromString(request.Priority)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	total, err := kernel.NewMoney(request.Total.Amount, request.Total.Currency)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	planID := kernel.NewUUID()
	cmd, err := commands.NewCreatePlanCommand(
		planID, orderID, customerID, destination, items, priority, total, tenant, actor)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err := s.createPlanHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, map[string]string{"plan_id": planID.String()})
}

type scheduleDeliveryRequest struct {
	PlanID        string    `json:"plan_id"`
	ScheduledDate time.Time `json:"scheduled_date"`
	WindowStart   time.Time `json:"window_start"`
	WindowEnd     time.Time `json:"window_end"`
	NotifyChannel string    `json:"notify_channel"`
}

// ScheduleDelivery handles POST /api/v1/deliveries.
func (s *Server) ScheduleDelivery(ctx echo.Context) error {
	var request scheduleDeliveryRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	tenant, actor, err := identity(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	planID, err := kernel.UUIDFromString(request.PlanID)
	if err != nil {
		return badRequest(ctx, "invalid plan_id: "+err.Error())
	}
	channel, err := tracking.ChannelFromString(request.NotifyChannel)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	scheduleID := kernel.NewUUID()
	cmd, err := commands.NewScheduleDeliveryCommand(
		scheduleID, planID, request.ScheduledDate, request.WindowStart, request.WindowEnd,
		channel, tenant, actor)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err := s.scheduleDeliveryHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, map[string]string{"schedule_id": scheduleID.String()})
}

type refreshTrackingRequest struct {
	NotifyChannel string `json:"notify_channel"`
}

// RefreshTracking handles POST /api/v1/deliveries/:scheduleID/refresh.
func (s *Server) RefreshTracking(ctx echo.Context) error {
	var request refreshTrackingRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	tenant, err := tenantOf(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	scheduleID, err := kernel.UUIDFromString(ctx.Param("scheduleID"))
	if err != nil {
		return badRequest(ctx, "invalid schedule ID: "+err.Error())
	}
	channel, err := tracking.ChannelFromString(request.NotifyChannel)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewRefreshTrackingCommand(scheduleID, channel, tenant)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	err = s.refreshTrackingHandler.Handle(ctx.Request().Context(), cmd)
	switch {
	case err == nil:
		return ctx.NoContent(http.StatusNoContent)
	case errors.Is(err, commands.ErrRefreshIncomplete):
		// The refresh itself committed; only secondary effects failed.
		return ctx.JSON(http.StatusOK, map[string]string{"warning": err.Error()})
	default:
		return domainError(ctx, err)
	}
}

type confirmDeliveryRequest struct {
	Items []struct {
		SKU               string `json:"sku"`
		ExpectedQuantity  int    `json:"expected_quantity"`
		DeliveredQuantity int    `json:"delivered_quantity"`
		Condition         string `json:"condition"`
	} `json:"items"`
	CustomerFeedback string `json:"customer_feedback"`
}

// ConfirmDelivery handles POST /api/v1/deliveries/:scheduleID/confirm.
func (s *Server) ConfirmDelivery(ctx echo.Context) error {
	var request confirmDeliveryRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	tenant, actor, err := identity(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	scheduleID, err := kernel.UUIDFromString(ctx.Param("scheduleID"))
	if err != nil {
		return badRequest(ctx, "invalid schedule ID: "+err.Error())
	}

	items := make([]confirmation.Item, 0, len(request.Items))
	for _, payload := range request.Items {
		condition, condErr := confirmation.ItemConditionFromString(payload.Condition)
		if condErr != nil {
			return badRequest(ctx, condErr.Error())
		}
		item, itemErr := confirmation.NewItem(
			payload.SKU, payload.ExpectedQuantity, payload.DeliveredQuantity, condition)
		if itemErr != nil {
			return badRequest(ctx, itemErr.Error())
		}
		items = append(items, item)
	}

	cmd, err := commands.NewConfirmDeliveryCommand(
		kernel.NewUUID(), scheduleID, items, request.CustomerFeedback, tenant, actor)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	// The handler reports which record stands for this schedule; on a retried
	// confirm that is the first call's record, not this request's fresh ID.
	confirmationID, err := s.confirmDeliveryHandler.Handle(ctx.Request().Context(), cmd)
	switch {
	case err == nil:
		return ctx.JSON(http.StatusCreated,
			map[string]string{"confirmation_id": confirmationID.String()})
	case errors.Is(err, commands.ErrConfirmationSideEffectsIncomplete):
		// The confirmation record committed; collaborator hand-offs failed.
		return ctx.JSON(http.StatusCreated, map[string]string{
			"confirmation_id": confirmationID.String(),
			"warning":         err.Error(),
		})
	default:
		return domainError(ctx, err)
	}
}

type cancelDeliveryRequest struct {
	Reason string `json:"reason"`
}

// CancelDelivery handles POST /api/v1/deliveries/:scheduleID/cancel.
func (s *Server) CancelDelivery(ctx echo.Context) error {
	var request cancelDeliveryRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	tenant, actor, err := identity(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	scheduleID, err := kernel.UUIDFromString(ctx.Param("scheduleID"))
	if err != nil {
		return badRequest(ctx, "invalid schedule ID: "+err.Error())
	}

	cmd, err := commands.NewCancelDeliveryCommand(scheduleID, request.Reason, tenant, actor)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err := s.cancelDeliveryHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return domainError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type deliveryStatusResponse struct {
	ScheduleID        string    `json:"schedule_id"`
	TrackingNumber    string    `json:"tracking_number"`
	CurrentStatus     string    `json:"current_status"`
	EstimatedDelivery time.Time `json:"estimated_delivery"`
	LastUpdateAt      time.Time `json:"last_update_at"`
	LastNote          string    `json:"last_note"`
	OpenExceptions    int       `json:"open_exceptions"`
}

// GetDeliveryStatus handles GET /api/v1/tracking/:trackingNumber.
func (s *Server) GetDeliveryStatus(ctx echo.Context) error {
	tenant, err := tenantOf(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	trackingNumber, err := schedule.TrackingNumberFromString(ctx.Param("trackingNumber"))
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	query, err := queries.NewGetDeliveryStatusQuery(trackingNumber, tenant)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.getDeliveryStatusHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, deliveryStatusResponse{
		ScheduleID:        result.ScheduleID.String(),
		TrackingNumber:    result.TrackingNumber.String(),
		CurrentStatus:     result.CurrentStatus.String(),
		EstimatedDelivery: result.EstimatedDelivery,
		LastUpdateAt:      result.LastUpdateAt,
		LastNote:          result.LastNote,
		OpenExceptions:    result.OpenExceptions,
	})
}

type activeDeliveryResponse struct {
	ScheduleID        string    `json:"schedule_id"`
	PlanID            string    `json:"plan_id"`
	TrackingNumber    string    `json:"tracking_number"`
	Carrier           string    `json:"carrier"`
	Status            string    `json:"status"`
	ScheduledDate     time.Time `json:"scheduled_date"`
	EstimatedDelivery time.Time `json:"estimated_delivery"`
}

// GetActiveDeliveries handles GET /api/v1/deliveries/active.
func (s *Server) GetActiveDeliveries(ctx echo.Context) error {
	tenant, err := tenantOf(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	query, err := queries.NewGetActiveDeliveriesQuery(tenant)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	deliveries, err := s.getActiveDeliveriesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return domainError(ctx, err)
	}

	response := make([]activeDeliveryResponse, len(deliveries))
	for i, delivery := range deliveries {
		response[i] = activeDeliveryResponse{
			ScheduleID:        delivery.ScheduleID.String(),
			PlanID:            delivery.PlanID.String(),
			TrackingNumber:    delivery.TrackingNumber.String(),
			Carrier:           delivery.Carrier,
			Status:            delivery.Status.String(),
			ScheduledDate:     delivery.ScheduledDate,
			EstimatedDelivery: delivery.EstimatedDelivery,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// tenantOf reads the tenant a read-only request is scoped to.
func tenantOf(ctx echo.Context) (kernel.Tenant, error) {
	return kernel.NewTenant(ctx.Request().Header.Get("X-Tenant"))
}

// identity reads the tenant and actor the request acts on behalf of.
func identity(ctx echo.Context) (kernel.Tenant, kernel.Actor, error) {
	tenant, err := kernel.NewTenant(ctx.Request().Header.Get("X-Tenant"))
	if err != nil {
		return "", "", err
	}

	actor, err := kernel.NewActor(ctx.Request().Header.Get("X-Actor"))
	if err != nil {
		return "", "", err
	}

	return tenant, actor, nil
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, errorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// domainError maps handler errors onto HTTP status codes using the shared
// error taxonomy.
func domainError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, errorResponse{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrStateConflict):
		return ctx.JSON(http.StatusConflict, errorResponse{
			Code:    http.StatusConflict,
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	default:
		return ctx.JSON(http.StatusInternalServerError, errorResponse{
			Code:    http.StatusInternalServerError,
			Message: "operation failed",
		})
	}
}
