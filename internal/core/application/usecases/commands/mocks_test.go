package commands_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/confirmation"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/plan"
	"fulfillment/internal/core/domain/model/schedule"
	"fulfillment/internal/core/domain/model/tracking"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPlanRepository struct{ mock.Mock }

func (m *MockPlanRepository) Add(ctx context.Context, p *plan.DeliveryPlan) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPlanRepository) Get(
	ctx context.Context, id kernel.UUID, tenant kernel.Tenant,
) (*plan.DeliveryPlan, error) {
	args := m.Called(ctx, id, tenant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plan.DeliveryPlan), args.Error(1)
}

func (m *MockPlanRepository) GetByOrderID(
	ctx context.Context, orderID kernel.UUID, tenant kernel.Tenant,
) (*plan.DeliveryPlan, error) {
	args := m.Called(ctx, orderID, tenant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plan.DeliveryPlan), args.Error(1)
}

type MockScheduleRepository struct{ mock.Mock }

func (m *MockScheduleRepository) Add(ctx context.Context, s *schedule.DeliverySchedule) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockScheduleRepository) Update(ctx context.Context, s *schedule.DeliverySchedule) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockScheduleRepository) Get(
	ctx context.Context, id kernel.UUID, tenant kernel.Tenant,
) (*schedule.DeliverySchedule, error) {
	args := m.Called(ctx, id, tenant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schedule.DeliverySchedule), args.Error(1)
}

func (m *MockScheduleRepository) GetByPlanID(
	ctx context.Context, planID kernel.UUID, tenant kernel.Tenant,
) (*schedule.DeliverySchedule, error) {
	args := m.Called(ctx, planID, tenant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schedule.DeliverySchedule), args.Error(1)
}

func (m *MockScheduleRepository) GetAllActive(ctx context.Context) ([]*schedule.DeliverySchedule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*schedule.DeliverySchedule), args.Error(1)
}

type MockStatusRepository struct{ mock.Mock }

func (m *MockStatusRepository) Add(ctx context.Context, s *tracking.DeliveryStatus) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockStatusRepository) Update(ctx context.Context, s *tracking.DeliveryStatus) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockStatusRepository) Get(
	ctx context.Context, id kernel.UUID, tenant kernel.Tenant,
) (*tracking.DeliveryStatus, error) {
	args := m.Called(ctx, id, tenant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tracking.DeliveryStatus), args.Error(1)
}

func (m *MockStatusRepository) GetByScheduleID(
	ctx context.Context, scheduleID kernel.UUID, tenant kernel.Tenant,
) (*tracking.DeliveryStatus, error) {
	args := m.Called(ctx, scheduleID, tenant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tracking.DeliveryStatus), args.Error(1)
}

type MockConfirmationRepository struct{ mock.Mock }

func (m *MockConfirmationRepository) Add(ctx context.Context, c *confirmation.DeliveryConfirmation) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockConfirmationRepository) Get(
	ctx context.Context, id kernel.UUID, tenant kernel.Tenant,
) (*confirmation.DeliveryConfirmation, error) {
	args := m.Called(ctx, id, tenant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*confirmation.DeliveryConfirmation), args.Error(1)
}

func (m *MockConfirmationRepository) GetByScheduleID(
	ctx context.Context, scheduleID kernel.UUID, tenant kernel.Tenant,
) (*confirmation.DeliveryConfirmation, error) {
	args := m.Called(ctx, scheduleID, tenant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*confirmation.DeliveryConfirmation), args.Error(1)
}

type MockCarrierGateway struct{ mock.Mock }

func (m *MockCarrierGateway) RegisterShipment(ctx context.Context, s *schedule.DeliverySchedule) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockCarrierGateway) FetchStatus(
	ctx context.Context, trackingNumber schedule.TrackingNumber,
) (ports.CarrierStatusReport, error) {
	args := m.Called(ctx, trackingNumber)
	return args.Get(0).(ports.CarrierStatusReport), args.Error(1)
}

func (m *MockCarrierGateway) CancelShipment(ctx context.Context, trackingNumber schedule.TrackingNumber) error {
	args := m.Called(ctx, trackingNumber)
	return args.Error(0)
}

type MockRouteOptimizer struct{ mock.Mock }

func (m *MockRouteOptimizer) Optimize(
	ctx context.Context, origin, destination kernel.GeoPoint, constraints ports.RouteConstraints,
) (schedule.Route, error) {
	args := m.Called(ctx, origin, destination, constraints)
	return args.Get(0).(schedule.Route), args.Error(1)
}

type MockNotificationSender struct{ mock.Mock }

func (m *MockNotificationSender) Send(
	ctx context.Context, channel tracking.Channel, recipient, message string,
) (string, error) {
	args := m.Called(ctx, channel, recipient, message)
	return args.String(0), args.Error(1)
}

type MockAuditSink struct{ mock.Mock }

func (m *MockAuditSink) LogEvent(
	ctx context.Context, eventName string, payload map[string]any,
	tenant kernel.Tenant, actor kernel.Actor,
) error {
	args := m.Called(ctx, eventName, payload, tenant, actor)
	return args.Error(0)
}

func (m *MockAuditSink) LogIncident(
	ctx context.Context, eventName string, payload map[string]any,
	tenant kernel.Tenant, actor kernel.Actor,
) error {
	args := m.Called(ctx, eventName, payload, tenant, actor)
	return args.Error(0)
}

type MockInventoryService struct{ mock.Mock }

func (m *MockInventoryService) ApplyDeliveredQuantities(
	ctx context.Context, c *confirmation.DeliveryConfirmation,
) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

type MockFeedbackProcessor struct{ mock.Mock }

func (m *MockFeedbackProcessor) Process(
	ctx context.Context, confirmationID kernel.UUID, feedback string, tenant kernel.Tenant,
) error {
	args := m.Called(ctx, confirmationID, feedback, tenant)
	return args.Error(0)
}

type MockPlanUoW struct{ mock.Mock }

func (m *MockPlanUoW) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockPlanUoW) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockPlanUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }
func (m *MockPlanUoW) PlanRepository() ports.PlanRepository {
	return m.Called().Get(0).(ports.PlanRepository)
}

type MockPlanUoWFactory struct{ mock.Mock }

func (m *MockPlanUoWFactory) Create() commands.PlanUoW {
	return m.Called().Get(0).(commands.PlanUoW)
}

type MockScheduleUoW struct{ mock.Mock }

func (m *MockScheduleUoW) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockScheduleUoW) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockScheduleUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }
func (m *MockScheduleUoW) PlanRepository() ports.PlanRepository {
	return m.Called().Get(0).(ports.PlanRepository)
}
func (m *MockScheduleUoW) ScheduleRepository() ports.ScheduleRepository {
	return m.Called().Get(0).(ports.ScheduleRepository)
}
func (m *MockScheduleUoW) StatusRepository() ports.StatusRepository {
	return m.Called().Get(0).(ports.StatusRepository)
}

type MockScheduleUoWFactory struct{ mock.Mock }

func (m *MockScheduleUoWFactory) Create() commands.ScheduleUoW {
	return m.Called().Get(0).(commands.ScheduleUoW)
}

type MockTrackingUoW struct{ mock.Mock }

func (m *MockTrackingUoW) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockTrackingUoW) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockTrackingUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }
func (m *MockTrackingUoW) PlanRepository() ports.PlanRepository {
	return m.Called().Get(0).(ports.PlanRepository)
}
func (m *MockTrackingUoW) ScheduleRepository() ports.ScheduleRepository {
	return m.Called().Get(0).(ports.ScheduleRepository)
}
func (m *MockTrackingUoW) StatusRepository() ports.StatusRepository {
	return m.Called().Get(0).(ports.StatusRepository)
}

type MockTrackingUoWFactory struct{ mock.Mock }

func (m *MockTrackingUoWFactory) Create() commands.TrackingUoW {
	return m.Called().Get(0).(commands.TrackingUoW)
}

type MockConfirmationUoW struct{ mock.Mock }

func (m *MockConfirmationUoW) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockConfirmationUoW) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockConfirmationUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }
func (m *MockConfirmationUoW) ScheduleRepository() ports.ScheduleRepository {
	return m.Called().Get(0).(ports.ScheduleRepository)
}
func (m *MockConfirmationUoW) StatusRepository() ports.StatusRepository {
	return m.Called().Get(0).(ports.StatusRepository)
}
func (m *MockConfirmationUoW) ConfirmationRepository() ports.ConfirmationRepository {
	return m.Called().Get(0).(ports.ConfirmationRepository)
}

type MockConfirmationUoWFactory struct{ mock.Mock }

func (m *MockConfirmationUoWFactory) Create() commands.ConfirmationUoW {
	return m.Called().Get(0).(commands.ConfirmationUoW)
}

// Fixtures shared across the handler tests.

func testAddress(t *testing.T) kernel.Address {
	t.Helper()

	geo, err := kernel.NewGeoPoint(52.52, 13.405)
	require.NoError(t, err)
	address, err := kernel.NewAddress("Unter den Linden 1", "Berlin", "10117", &geo)
	require.NoError(t, err)
	return address
}

func testItems(t *testing.T) []plan.Item {
	t.Helper()

	item, err := plan.NewItem("SKU-1", "glass vase", 2, 10, 20, 20, 30, plan.ItemFlags{Fragile: true})
	require.NoError(t, err)
	return []plan.Item{item}
}

func testMoney(t *testing.T) kernel.Money {
	t.Helper()

	money, err := kernel.NewMoney(14900, "EUR")
	require.NoError(t, err)
	return money
}

func testPlan(t *testing.T) *plan.DeliveryPlan {
	t.Helper()

	p, err := plan.NewDeliveryPlan(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		testAddress(t), testItems(t), plan.PriorityStandard,
		carrier.GlassGuard, testMoney(t), kernel.Tenant("acme"), kernel.Actor("ops@acme"))
	require.NoError(t, err)
	return p
}

func testRoute(t *testing.T) schedule.Route {
	t.Helper()

	geo, err := kernel.NewGeoPoint(52.52, 13.405)
	require.NoError(t, err)
	w0, err := schedule.NewWaypoint(0, geo, time.Now().Add(time.Hour))
	require.NoError(t, err)
	w1, err := schedule.NewWaypoint(1, geo, time.Now().Add(2*time.Hour))
	require.NoError(t, err)
	route, err := schedule.NewRoute([]schedule.Waypoint{w0, w1}, 18.4, 2*time.Hour)
	require.NoError(t, err)
	return route
}

func testSchedule(t *testing.T, planID kernel.UUID) *schedule.DeliverySchedule {
	t.Helper()

	window, err := schedule.NewTimeWindow(
		time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 1, 17, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	s, err := schedule.NewDeliverySchedule(
		kernel.NewUUID(), planID, carrier.GlassGuard,
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), window, testRoute(t), kernel.Tenant("acme"))
	require.NoError(t, err)
	return s
}

func testStatus(t *testing.T, s *schedule.DeliverySchedule) *tracking.DeliveryStatus {
	t.Helper()

	status, err := tracking.NewDeliveryStatus(
		kernel.NewUUID(), s.ID(), s.TrackingNumber(), s.EstimatedDelivery(), kernel.Tenant("acme"))
	require.NoError(t, err)
	return status
}
