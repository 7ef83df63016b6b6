package commands_test

import (
	"errors"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/plan"
	"fulfillment/internal/core/domain/model/schedule"
	"fulfillment/internal/core/domain/model/tracking"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type refreshFixture struct {
	cmd      commands.RefreshTrackingCommand
	plan     *plan.DeliveryPlan
	schedule *schedule.DeliverySchedule
	status   *tracking.DeliveryStatus

	uow          *MockTrackingUoW
	factory      *MockTrackingUoWFactory
	planRepo     *MockPlanRepository
	scheduleRepo *MockScheduleRepository
	statusRepo   *MockStatusRepository
	gateway      *MockCarrierGateway
	sender       *MockNotificationSender
	audit        *MockAuditSink
}

// newRefreshFixture wires a plan, schedule and tracking record together and
// stubs the repositories to serve them on every pass, so tests can run the
// handler more than once against the same aggregates.
func newRefreshFixture(t *testing.T) *refreshFixture {
	t.Helper()

	f := &refreshFixture{
		uow:          new(MockTrackingUoW),
		factory:      new(MockTrackingUoWFactory),
		planRepo:     new(MockPlanRepository),
		scheduleRepo: new(MockScheduleRepository),
		statusRepo:   new(MockStatusRepository),
		gateway:      new(MockCarrierGateway),
		sender:       new(MockNotificationSender),
		audit:        new(MockAuditSink),
	}

	f.plan = testPlan(t)
	f.schedule = testSchedule(t, f.plan.ID())
	f.status = testStatus(t, f.schedule)

	cmd, err := commands.NewRefreshTrackingCommand(
		f.schedule.ID(), tracking.ChannelSMS, kernel.Tenant("acme"))
	require.NoError(t, err)
	f.cmd = cmd

	f.factory.On("Create").Return(f.uow)
	f.uow.On("Begin", mock.Anything).Return(nil)
	f.uow.On("Rollback", mock.Anything).Return(nil)
	f.uow.On("PlanRepository").Return(f.planRepo)
	f.uow.On("ScheduleRepository").Return(f.scheduleRepo)
	f.uow.On("StatusRepository").Return(f.statusRepo)

	f.scheduleRepo.On("Get", mock.Anything, f.schedule.ID(), cmd.Tenant()).Return(f.schedule, nil)
	f.statusRepo.On("GetByScheduleID", mock.Anything, f.schedule.ID(), cmd.Tenant()).Return(f.status, nil)
	f.planRepo.On("Get", mock.Anything, f.plan.ID(), cmd.Tenant()).Return(f.plan, nil)

	return f
}

func (f *refreshFixture) handler() commands.RefreshTrackingCommandHandler {
	return commands.NewRefreshTrackingCommandHandler(f.factory, f.gateway, f.sender, f.audit)
}

func TestRefreshTrackingCommandHandler_Handle_StatusChangeIsAppendedAndNotified(t *testing.T) {
	f := newRefreshFixture(t)
	occurredAt := time.Now().UTC()

	f.gateway.On("FetchStatus", mock.Anything, f.schedule.TrackingNumber()).
		Return(ports.CarrierStatusReport{
			Status: tracking.TrackingInTransit,
			Updates: []ports.CarrierUpdate{
				{Status: tracking.TrackingInTransit, Note: "departed hub", OccurredAt: occurredAt},
			},
		}, nil).Once()
	f.sender.On("Send", mock.Anything, tracking.ChannelSMS, f.plan.CustomerID().String(), mock.Anything).
		Return("receipt-1", nil).Once()
	f.statusRepo.On("Update", mock.Anything, f.status).Return(nil).Once()
	f.scheduleRepo.On("Update", mock.Anything, f.schedule).Return(nil).Once()
	f.uow.On("Commit", mock.Anything).Return(nil).Once()

	h := f.handler()
	err := h.Handle(t.Context(), f.cmd)

	require.NoError(t, err)
	assert.Equal(t, tracking.TrackingInTransit, f.status.CurrentStatus())
	assert.Len(t, f.status.History(), 2)
	assert.Equal(t, schedule.StatusInTransit, f.schedule.Status())
	require.Len(t, f.status.Notifications(), 1)
	assert.Equal(t, tracking.NotificationSent, f.status.Notifications()[0].Status())
	f.sender.AssertExpectations(t)
	f.uow.AssertExpectations(t)
}

func TestRefreshTrackingCommandHandler_Handle_ReplayedPayloadChangesNothing(t *testing.T) {
	f := newRefreshFixture(t)
	occurredAt := time.Now().UTC()
	report := ports.CarrierStatusReport{
		Status: tracking.TrackingInTransit,
		Updates: []ports.CarrierUpdate{
			{Status: tracking.TrackingInTransit, Note: "departed hub", OccurredAt: occurredAt},
		},
	}

	f.gateway.On("FetchStatus", mock.Anything, f.schedule.TrackingNumber()).Return(report, nil).Twice()
	f.sender.On("Send", mock.Anything, tracking.ChannelSMS, mock.Anything, mock.Anything).
		Return("receipt-1", nil).Once()
	f.statusRepo.On("Update", mock.Anything, f.status).Return(nil).Twice()
	f.scheduleRepo.On("Update", mock.Anything, f.schedule).Return(nil).Twice()
	f.uow.On("Commit", mock.Anything).Return(nil).Twice()

	h := f.handler()
	require.NoError(t, h.Handle(t.Context(), f.cmd))
	require.NoError(t, h.Handle(t.Context(), f.cmd))

	// the second, identical payload leaves history and notifications alone
	assert.Len(t, f.status.History(), 2)
	assert.Len(t, f.status.Notifications(), 1)
	f.sender.AssertExpectations(t)
}

func TestRefreshTrackingCommandHandler_Handle_CriticalExceptionRaisesIncident(t *testing.T) {
	f := newRefreshFixture(t)

	f.gateway.On("FetchStatus", mock.Anything, f.schedule.TrackingNumber()).
		Return(ports.CarrierStatusReport{
			Status: tracking.TrackingScheduled,
			Exceptions: []ports.CarrierException{{
				Type:        tracking.ExceptionDamagedPackage,
				Severity:    tracking.SeverityCritical,
				Description: "package crushed in transit",
				OccurredAt:  time.Now().UTC(),
			}},
		}, nil).Once()
	f.audit.On("LogIncident", mock.Anything, "delivery.exception", mock.Anything,
		f.cmd.Tenant(), kernel.Actor("system")).Return(nil).Once()
	f.statusRepo.On("Update", mock.Anything, f.status).Return(nil).Once()
	f.scheduleRepo.On("Update", mock.Anything, f.schedule).Return(nil).Once()
	f.uow.On("Commit", mock.Anything).Return(nil).Once()

	h := f.handler()
	err := h.Handle(t.Context(), f.cmd)

	require.NoError(t, err)
	require.Len(t, f.status.OpenExceptions(), 1)
	assert.Equal(t, tracking.ExceptionDamagedPackage, f.status.OpenExceptions()[0].Type())
	f.audit.AssertExpectations(t)
}

func TestRefreshTrackingCommandHandler_Handle_FetchFailureLeavesRecordUntouched(t *testing.T) {
	f := newRefreshFixture(t)

	f.gateway.On("FetchStatus", mock.Anything, f.schedule.TrackingNumber()).
		Return(ports.CarrierStatusReport{}, errors.New("carrier timeout")).Once()
	f.audit.On("LogIncident", mock.Anything, "carrier.fetch_failed", mock.Anything,
		f.cmd.Tenant(), kernel.Actor("system")).Return(nil).Once()

	h := f.handler()
	err := h.Handle(t.Context(), f.cmd)

	require.Error(t, err)
	assert.Len(t, f.status.History(), 1)
	f.statusRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.uow.AssertNotCalled(t, "Commit", mock.Anything)
	f.audit.AssertExpectations(t)
}

func TestRefreshTrackingCommandHandler_Handle_CustomerUnavailableSchedulesRedelivery(t *testing.T) {
	f := newRefreshFixture(t)
	originalEstimate := f.status.EstimatedDelivery()

	f.gateway.On("FetchStatus", mock.Anything, f.schedule.TrackingNumber()).
		Return(ports.CarrierStatusReport{
			Status: tracking.TrackingScheduled,
			Exceptions: []ports.CarrierException{{
				Type:        tracking.ExceptionCustomerUnavailable,
				Severity:    tracking.SeverityMedium,
				Description: "nobody answered the door",
				OccurredAt:  time.Now().UTC(),
			}},
		}, nil).Once()
	f.sender.On("Send", mock.Anything, tracking.ChannelSMS, f.plan.CustomerID().String(), mock.Anything).
		Return("receipt-1", nil).Once()
	f.statusRepo.On("Update", mock.Anything, f.status).Return(nil).Once()
	f.scheduleRepo.On("Update", mock.Anything, f.schedule).Return(nil).Once()
	f.uow.On("Commit", mock.Anything).Return(nil).Once()

	h := f.handler()
	err := h.Handle(t.Context(), f.cmd)

	require.NoError(t, err)
	assert.Equal(t, originalEstimate.Add(24*time.Hour), f.status.EstimatedDelivery())
	assert.Equal(t, originalEstimate.Add(24*time.Hour), f.schedule.EstimatedDelivery())
	// the exception is resolved so the next report can reopen it
	assert.Empty(t, f.status.OpenExceptions())
	assert.Len(t, f.status.Exceptions(), 1)
	f.sender.AssertExpectations(t)
}

func TestRefreshTrackingCommandHandler_Handle_RecoveryFailureStillCommits(t *testing.T) {
	f := newRefreshFixture(t)

	f.gateway.On("FetchStatus", mock.Anything, f.schedule.TrackingNumber()).
		Return(ports.CarrierStatusReport{
			Status: tracking.TrackingScheduled,
			Exceptions: []ports.CarrierException{{
				Type:        tracking.ExceptionAddressIssue,
				Severity:    tracking.SeverityLow,
				Description: "street number missing",
				OccurredAt:  time.Now().UTC(),
			}},
		}, nil).Once()
	f.sender.On("Send", mock.Anything, tracking.ChannelSMS, mock.Anything, mock.Anything).
		Return("", errors.New("sms gateway down")).Once()
	f.statusRepo.On("Update", mock.Anything, f.status).Return(nil).Once()
	f.scheduleRepo.On("Update", mock.Anything, f.schedule).Return(nil).Once()
	f.uow.On("Commit", mock.Anything).Return(nil).Once()

	h := f.handler()
	err := h.Handle(t.Context(), f.cmd)

	require.Error(t, err)
	assert.True(t, errors.Is(err, commands.ErrRefreshIncomplete))
	require.Len(t, f.status.OpenExceptions(), 1)
	f.uow.AssertExpectations(t)
}
