package commands_test

import (
	"errors"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/schedule"
	"fulfillment/internal/core/domain/model/tracking"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testOrigin(t *testing.T) kernel.GeoPoint {
	t.Helper()

	origin, err := kernel.NewGeoPoint(52.5, 13.4)
	require.NoError(t, err)
	return origin
}

func validScheduleDeliveryCommand(t *testing.T, planID kernel.UUID) commands.ScheduleDeliveryCommand {
	t.Helper()

	cmd, err := commands.NewScheduleDeliveryCommand(
		kernel.NewUUID(), planID,
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 1, 17, 0, 0, 0, time.UTC),
		tracking.ChannelEmail,
		kernel.Tenant("acme"), kernel.Actor("ops@acme"))
	require.NoError(t, err)
	return cmd
}

func TestScheduleDeliveryCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	deliveryPlan := testPlan(t)
	cmd := validScheduleDeliveryCommand(t, deliveryPlan.ID())

	planRepo := new(MockPlanRepository)
	scheduleRepo := new(MockScheduleRepository)
	statusRepo := new(MockStatusRepository)
	uow := new(MockScheduleUoW)
	optimizer := new(MockRouteOptimizer)
	gateway := new(MockCarrierGateway)
	sender := new(MockNotificationSender)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("PlanRepository").Return(planRepo).Once()
	uow.On("ScheduleRepository").Return(scheduleRepo)
	uow.On("StatusRepository").Return(statusRepo).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	planRepo.On("Get", mock.Anything, deliveryPlan.ID(), cmd.Tenant()).Return(deliveryPlan, nil).Once()
	scheduleRepo.On("GetByPlanID", mock.Anything, deliveryPlan.ID(), cmd.Tenant()).
		Return(nil, errs.NewObjectNotFoundError("planID", deliveryPlan.ID())).Once()
	optimizer.On("Optimize", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(testRoute(t), nil).Once()
	gateway.On("RegisterShipment", mock.Anything, mock.AnythingOfType("*schedule.DeliverySchedule")).
		Return(nil).Once()
	sender.On("Send", mock.Anything, tracking.ChannelEmail, deliveryPlan.CustomerID().String(), mock.Anything).
		Return("receipt-1", nil).Once()
	scheduleRepo.On("Add", mock.Anything, mock.AnythingOfType("*schedule.DeliverySchedule")).Return(nil).Once()
	statusRepo.On("Add", mock.Anything, mock.AnythingOfType("*tracking.DeliveryStatus")).Return(nil).Once()

	factory := new(MockScheduleUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewScheduleDeliveryCommandHandler(
		factory, testOrigin(t), optimizer, gateway, sender, new(MockAuditSink))
	err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	uow.AssertExpectations(t)
	gateway.AssertExpectations(t)
	sender.AssertExpectations(t)

	var added *schedule.DeliverySchedule
	for _, call := range scheduleRepo.Calls {
		if call.Method == "Add" {
			added = call.Arguments.Get(1).(*schedule.DeliverySchedule)
		}
	}
	require.NotNil(t, added)
	assert.Equal(t, schedule.StatusScheduled, added.Status())
	assert.True(t, added.TrackingNumber().HasPrefix(deliveryPlan.SuggestedCarrier()))

	var status *tracking.DeliveryStatus
	for _, call := range statusRepo.Calls {
		if call.Method == "Add" {
			status = call.Arguments.Get(1).(*tracking.DeliveryStatus)
		}
	}
	require.NotNil(t, status)
	assert.Equal(t, tracking.TrackingScheduled, status.CurrentStatus())
	require.Len(t, status.Notifications(), 1)
	assert.Equal(t, tracking.NotificationSent, status.Notifications()[0].Status())
}

func TestScheduleDeliveryCommandHandler_Handle_AlreadyScheduled(t *testing.T) {
	ctx := t.Context()
	deliveryPlan := testPlan(t)
	cmd := validScheduleDeliveryCommand(t, deliveryPlan.ID())
	existing := testSchedule(t, deliveryPlan.ID())

	planRepo := new(MockPlanRepository)
	scheduleRepo := new(MockScheduleRepository)
	uow := new(MockScheduleUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("PlanRepository").Return(planRepo).Once()
	uow.On("ScheduleRepository").Return(scheduleRepo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	planRepo.On("Get", mock.Anything, deliveryPlan.ID(), cmd.Tenant()).Return(deliveryPlan, nil).Once()
	scheduleRepo.On("GetByPlanID", mock.Anything, deliveryPlan.ID(), cmd.Tenant()).Return(existing, nil).Once()

	factory := new(MockScheduleUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewScheduleDeliveryCommandHandler(
		factory, testOrigin(t), new(MockRouteOptimizer), new(MockCarrierGateway),
		new(MockNotificationSender), new(MockAuditSink))
	err := h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrStateConflict))
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestScheduleDeliveryCommandHandler_Handle_RegistrationFailureAbortsPersistence(t *testing.T) {
	ctx := t.Context()
	deliveryPlan := testPlan(t)
	cmd := validScheduleDeliveryCommand(t, deliveryPlan.ID())

	planRepo := new(MockPlanRepository)
	scheduleRepo := new(MockScheduleRepository)
	uow := new(MockScheduleUoW)
	optimizer := new(MockRouteOptimizer)
	gateway := new(MockCarrierGateway)
	audit := new(MockAuditSink)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("PlanRepository").Return(planRepo).Once()
	uow.On("ScheduleRepository").Return(scheduleRepo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	planRepo.On("Get", mock.Anything, deliveryPlan.ID(), cmd.Tenant()).Return(deliveryPlan, nil).Once()
	scheduleRepo.On("GetByPlanID", mock.Anything, deliveryPlan.ID(), cmd.Tenant()).
		Return(nil, errs.NewObjectNotFoundError("planID", deliveryPlan.ID())).Once()
	optimizer.On("Optimize", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(testRoute(t), nil).Once()
	gateway.On("RegisterShipment", mock.Anything, mock.Anything).
		Return(errors.New("carrier unavailable")).Once()
	audit.On("LogIncident", mock.Anything, "carrier.registration_failed", mock.Anything,
		cmd.Tenant(), cmd.Actor()).Return(nil).Once()

	factory := new(MockScheduleUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewScheduleDeliveryCommandHandler(
		factory, testOrigin(t), optimizer, gateway, new(MockNotificationSender), audit)
	err := h.Handle(ctx, cmd)

	require.Error(t, err)
	scheduleRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	audit.AssertExpectations(t)
}

func TestScheduleDeliveryCommandHandler_Handle_NotificationFailureDoesNotAbort(t *testing.T) {
	ctx := t.Context()
	deliveryPlan := testPlan(t)
	cmd := validScheduleDeliveryCommand(t, deliveryPlan.ID())

	planRepo := new(MockPlanRepository)
	scheduleRepo := new(MockScheduleRepository)
	statusRepo := new(MockStatusRepository)
	uow := new(MockScheduleUoW)
	optimizer := new(MockRouteOptimizer)
	gateway := new(MockCarrierGateway)
	sender := new(MockNotificationSender)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("PlanRepository").Return(planRepo).Once()
	uow.On("ScheduleRepository").Return(scheduleRepo)
	uow.On("StatusRepository").Return(statusRepo).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	planRepo.On("Get", mock.Anything, deliveryPlan.ID(), cmd.Tenant()).Return(deliveryPlan, nil).Once()
	scheduleRepo.On("GetByPlanID", mock.Anything, deliveryPlan.ID(), cmd.Tenant()).
		Return(nil, errs.NewObjectNotFoundError("planID", deliveryPlan.ID())).Once()
	optimizer.On("Optimize", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(testRoute(t), nil).Once()
	gateway.On("RegisterShipment", mock.Anything, mock.Anything).Return(nil).Once()
	sender.On("Send", mock.Anything, tracking.ChannelEmail, mock.Anything, mock.Anything).
		Return("", errors.New("smtp down")).Once()
	scheduleRepo.On("Add", mock.Anything, mock.Anything).Return(nil).Once()
	statusRepo.On("Add", mock.Anything, mock.AnythingOfType("*tracking.DeliveryStatus")).Return(nil).Once()

	factory := new(MockScheduleUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewScheduleDeliveryCommandHandler(
		factory, testOrigin(t), optimizer, gateway, sender, new(MockAuditSink))
	err := h.Handle(ctx, cmd)

	require.NoError(t, err)

	var status *tracking.DeliveryStatus
	for _, call := range statusRepo.Calls {
		if call.Method == "Add" {
			status = call.Arguments.Get(1).(*tracking.DeliveryStatus)
		}
	}
	require.NotNil(t, status)
	require.Len(t, status.Notifications(), 1)
	assert.Equal(t, tracking.NotificationFailed, status.Notifications()[0].Status())
}
