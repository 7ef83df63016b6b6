package commands_test

import (
	"errors"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/schedule"
	"fulfillment/internal/core/domain/model/tracking"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validCancelDeliveryCommand(t *testing.T, scheduleID kernel.UUID) commands.CancelDeliveryCommand {
	t.Helper()

	cmd, err := commands.NewCancelDeliveryCommand(
		scheduleID, "customer requested cancellation",
		kernel.Tenant("acme"), kernel.Actor("ops@acme"))
	require.NoError(t, err)
	return cmd
}

func TestCancelDeliveryCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	deliveryPlan := testPlan(t)
	deliverySchedule := testSchedule(t, deliveryPlan.ID())
	deliveryStatus := testStatus(t, deliverySchedule)
	cmd := validCancelDeliveryCommand(t, deliverySchedule.ID())

	scheduleRepo := new(MockScheduleRepository)
	statusRepo := new(MockStatusRepository)
	uow := new(MockTrackingUoW)
	gateway := new(MockCarrierGateway)
	audit := new(MockAuditSink)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("ScheduleRepository").Return(scheduleRepo)
	uow.On("StatusRepository").Return(statusRepo)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	scheduleRepo.On("Get", mock.Anything, deliverySchedule.ID(), cmd.Tenant()).
		Return(deliverySchedule, nil).Once()
	statusRepo.On("GetByScheduleID", mock.Anything, deliverySchedule.ID(), cmd.Tenant()).
		Return(deliveryStatus, nil).Once()
	gateway.On("CancelShipment", mock.Anything, deliverySchedule.TrackingNumber()).Return(nil).Once()
	scheduleRepo.On("Update", mock.Anything, deliverySchedule).Return(nil).Once()
	statusRepo.On("Update", mock.Anything, deliveryStatus).Return(nil).Once()
	audit.On("LogEvent", mock.Anything, "delivery.cancelled", mock.Anything,
		cmd.Tenant(), cmd.Actor()).Return(nil).Once()

	factory := new(MockTrackingUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCancelDeliveryCommandHandler(factory, gateway, audit)
	err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, schedule.StatusCancelled, deliverySchedule.Status())
	assert.Equal(t, tracking.TrackingCancelled, deliveryStatus.CurrentStatus())

	// the cancellation went through the append-only history with the reason
	history := deliveryStatus.History()
	require.Len(t, history, 2)
	assert.Equal(t, "customer requested cancellation", history[1].Note())
	assert.Equal(t, tracking.SourceSystem, history[1].Source())
	uow.AssertExpectations(t)
	audit.AssertExpectations(t)
}

func TestCancelDeliveryCommandHandler_Handle_TerminalScheduleIsStateConflict(t *testing.T) {
	ctx := t.Context()
	deliveryPlan := testPlan(t)
	deliverySchedule := testSchedule(t, deliveryPlan.ID())
	require.NoError(t, deliverySchedule.AdvanceTo(schedule.StatusDelivered))
	cmd := validCancelDeliveryCommand(t, deliverySchedule.ID())

	scheduleRepo := new(MockScheduleRepository)
	uow := new(MockTrackingUoW)
	gateway := new(MockCarrierGateway)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("ScheduleRepository").Return(scheduleRepo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	scheduleRepo.On("Get", mock.Anything, deliverySchedule.ID(), cmd.Tenant()).
		Return(deliverySchedule, nil).Once()

	factory := new(MockTrackingUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCancelDeliveryCommandHandler(factory, gateway, new(MockAuditSink))
	err := h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrStateConflict))
	gateway.AssertNotCalled(t, "CancelShipment", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestCancelDeliveryCommandHandler_Handle_GatewayFailureAbortsPersistence(t *testing.T) {
	ctx := t.Context()
	deliveryPlan := testPlan(t)
	deliverySchedule := testSchedule(t, deliveryPlan.ID())
	deliveryStatus := testStatus(t, deliverySchedule)
	cmd := validCancelDeliveryCommand(t, deliverySchedule.ID())

	scheduleRepo := new(MockScheduleRepository)
	statusRepo := new(MockStatusRepository)
	uow := new(MockTrackingUoW)
	gateway := new(MockCarrierGateway)
	audit := new(MockAuditSink)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("ScheduleRepository").Return(scheduleRepo).Once()
	uow.On("StatusRepository").Return(statusRepo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	scheduleRepo.On("Get", mock.Anything, deliverySchedule.ID(), cmd.Tenant()).
		Return(deliverySchedule, nil).Once()
	statusRepo.On("GetByScheduleID", mock.Anything, deliverySchedule.ID(), cmd.Tenant()).
		Return(deliveryStatus, nil).Once()
	gateway.On("CancelShipment", mock.Anything, deliverySchedule.TrackingNumber()).
		Return(errors.New("carrier unavailable")).Once()
	audit.On("LogIncident", mock.Anything, "carrier.cancellation_failed", mock.Anything,
		cmd.Tenant(), cmd.Actor()).Return(nil).Once()

	factory := new(MockTrackingUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCancelDeliveryCommandHandler(factory, gateway, audit)
	err := h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.Equal(t, schedule.StatusScheduled, deliverySchedule.Status())
	scheduleRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	audit.AssertExpectations(t)
}

func TestNewCancelDeliveryCommand_RequiresReason(t *testing.T) {
	_, err := commands.NewCancelDeliveryCommand(
		kernel.NewUUID(), "", kernel.Tenant("acme"), kernel.Actor("ops@acme"))
	require.Error(t, err)
}
