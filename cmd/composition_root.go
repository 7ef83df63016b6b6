package cmd

import (
	"fmt"
	"log/slog"
	"time"

	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/audit"
	"fulfillment/internal/adapters/out/carrier"
	"fulfillment/internal/adapters/out/collaborators"
	"fulfillment/internal/adapters/out/notification"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/tracking"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/jobs"

	amqp "github.com/rabbitmq/amqp091-go"
	"gorm.io/gorm"
)

// CompositionRoot wires adapters into the application's handlers.
// All dependencies are created once and shared.
type CompositionRoot struct {
	configs    Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory

	gateway   *carrier.HTTPCarrierGateway
	optimizer *collaborators.HTTPRouteOptimizer
	inventory *collaborators.HTTPInventoryService
	feedback  *collaborators.HTTPFeedbackProcessor
	sender    *notification.AMQPNotificationSender
	auditSink *audit.GormAuditSink
	origin    kernel.GeoPoint
}

// NewCompositionRoot builds the object graph from configuration and the
// already-opened infrastructure connections.
func NewCompositionRoot(
	configs Config, gormDB *gorm.DB, amqpConn *amqp.Connection,
) (*CompositionRoot, error) {
	timeout := time.Duration(configs.CollaboratorTimeoutSeconds) * time.Second

	gateway, err := carrier.NewHTTPCarrierGateway(configs.CarrierAPIURL, timeout)
	if err != nil {
		return nil, fmt.Errorf("carrier gateway: %w", err)
	}
	optimizer, err := collaborators.NewHTTPRouteOptimizer(configs.RoutingAPIURL, timeout)
	if err != nil {
		return nil, fmt.Errorf("route optimizer: %w", err)
	}
	inventory, err := collaborators.NewHTTPInventoryService(configs.InventoryAPIURL, timeout)
	if err != nil {
		return nil, fmt.Errorf("inventory service: %w", err)
	}
	feedback, err := collaborators.NewHTTPFeedbackProcessor(configs.FeedbackAPIURL, timeout)
	if err != nil {
		return nil, fmt.Errorf("feedback processor: %w", err)
	}
	sender, err := notification.NewAMQPNotificationSender(
		amqpConn, configs.NotificationExchange, timeout)
	if err != nil {
		return nil, fmt.Errorf("notification sender: %w", err)
	}
	origin, err := kernel.NewGeoPoint(configs.OriginLat, configs.OriginLon)
	if err != nil {
		return nil, fmt.Errorf("dispatch origin: %w", err)
	}

	return &CompositionRoot{
		configs:    configs,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		gateway:    gateway,
		optimizer:  optimizer,
		inventory:  inventory,
		feedback:   feedback,
		sender:     sender,
		auditSink:  audit.NewGormAuditSink(gormDB),
		origin:     origin,
	}, nil
}

func (c *CompositionRoot) CreateCreatePlanCommandHandler() commands.CreatePlanCommandHandler {
	var f commands.PlanUoWFactory = FuncPlanUoWFactory(func() commands.PlanUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreatePlanCommandHandler(f, services.NewCarrierSelector(), c.auditSink)
}

func (c *CompositionRoot) CreateScheduleDeliveryCommandHandler() commands.ScheduleDeliveryCommandHandler {
	var f commands.ScheduleUoWFactory = FuncScheduleUoWFactory(func() commands.ScheduleUoW {
		return c.uowFactory.Create()
	})
	return commands.NewScheduleDeliveryCommandHandler(
		f, c.origin, c.optimizer, c.gateway, c.sender, c.auditSink)
}

func (c *CompositionRoot) CreateRefreshTrackingCommandHandler() commands.RefreshTrackingCommandHandler {
	return commands.NewRefreshTrackingCommandHandler(
		c.trackingUoWFactory(), c.gateway, c.sender, c.auditSink)
}

func (c *CompositionRoot) CreateConfirmDeliveryCommandHandler() commands.ConfirmDeliveryCommandHandler {
	var f commands.ConfirmationUoWFactory = FuncConfirmationUoWFactory(func() commands.ConfirmationUoW {
		return c.uowFactory.Create()
	})
	return commands.NewConfirmDeliveryCommandHandler(f, c.inventory, c.feedback, c.auditSink)
}

func (c *CompositionRoot) CreateCancelDeliveryCommandHandler() commands.CancelDeliveryCommandHandler {
	return commands.NewCancelDeliveryCommandHandler(c.trackingUoWFactory(), c.gateway, c.auditSink)
}

func (c *CompositionRoot) CreateGetDeliveryStatusQueryHandler() queries.GetDeliveryStatusQueryHandler {
	return queries.NewGetDeliveryStatusQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetActiveDeliveriesQueryHandler() queries.GetActiveDeliveriesQueryHandler {
	return queries.NewGetActiveDeliveriesQueryHandler(c.gormDB)
}

// CreateHTTPServer builds the inbound HTTP surface over all handlers.
func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateCreatePlanCommandHandler(),
		c.CreateScheduleDeliveryCommandHandler(),
		c.CreateRefreshTrackingCommandHandler(),
		c.CreateConfirmDeliveryCommandHandler(),
		c.CreateCancelDeliveryCommandHandler(),
		c.CreateGetDeliveryStatusQueryHandler(),
		c.CreateGetActiveDeliveriesQueryHandler(),
	)
}

// CreateJobManager builds the background job manager.
func (c *CompositionRoot) CreateJobManager(logger *slog.Logger) (*jobs.JobManager, error) {
	channel, err := tracking.ChannelFromString(c.configs.PollNotifyChannel)
	if err != nil {
		return nil, fmt.Errorf("poll notify channel: %w", err)
	}

	return jobs.NewJobManager(
		c.CreateRefreshTrackingCommandHandler(),
		c.trackingUoWFactory(),
		channel,
		c.configs.PollSchedule,
		logger,
	), nil
}

// Close releases adapter-held resources. The database and AMQP connections
// are owned by main.
func (c *CompositionRoot) Close() error {
	return c.sender.Close()
}

func (c *CompositionRoot) trackingUoWFactory() commands.TrackingUoWFactory {
	return FuncTrackingUoWFactory(func() commands.TrackingUoW {
		return c.uowFactory.Create()
	})
}

type FuncPlanUoWFactory func() commands.PlanUoW

func (f FuncPlanUoWFactory) Create() commands.PlanUoW {
	return f()
}

type FuncScheduleUoWFactory func() commands.ScheduleUoW

func (f FuncScheduleUoWFactory) Create() commands.ScheduleUoW {
	return f()
}

type FuncTrackingUoWFactory func() commands.TrackingUoW

func (f FuncTrackingUoWFactory) Create() commands.TrackingUoW {
	return f()
}

type FuncConfirmationUoWFactory func() commands.ConfirmationUoW

func (f FuncConfirmationUoWFactory) Create() commands.ConfirmationUoW {
	return f()
}
