package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"fulfillment/cmd"
	"fulfillment/internal/adapters/out/audit"
	"fulfillment/internal/adapters/out/postgres/confirmationrepo"
	"fulfillment/internal/adapters/out/postgres/planrepo"
	"fulfillment/internal/adapters/out/postgres/schedulerepo"
	"fulfillment/internal/adapters/out/postgres/statusrepo"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()

	gormDB := mustConnectDB(configs)
	migrateSchema(gormDB)

	amqpConn, err := amqp.Dial(fmt.Sprintf("amqp://%s:%s@%s:%s/",
		configs.AMQPUser, configs.AMQPPassword, configs.AMQPHost, configs.AMQPPort))
	if err != nil {
		log.Fatalf("Error connecting to RabbitMQ: %v", err)
	}
	defer amqpConn.Close()

	app, err := cmd.NewCompositionRoot(configs, gormDB, amqpConn)
	if err != nil {
		log.Fatalf("Error building composition root: %v", err)
	}
	defer app.Close()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	jobManager, err := app.CreateJobManager(logger)
	if err != nil {
		log.Fatalf("Error creating job manager: %v", err)
	}
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:                   goDotEnvVariable("HTTP_PORT"),
		DBHost:                     goDotEnvVariable("DB_HOST"),
		DBPort:                     goDotEnvVariable("DB_PORT"),
		DBUser:                     goDotEnvVariable("DB_USER"),
		DBPassword:                 goDotEnvVariable("DB_PASSWORD"),
		DBName:                     goDotEnvVariable("DB_NAME"),
		DBSslMode:                  goDotEnvVariable("DB_SSLMODE"),
		CarrierAPIURL:              goDotEnvVariable("CARRIER_API_URL"),
		RoutingAPIURL:              goDotEnvVariable("ROUTING_API_URL"),
		InventoryAPIURL:            goDotEnvVariable("INVENTORY_API_URL"),
		FeedbackAPIURL:             goDotEnvVariable("FEEDBACK_API_URL"),
		CollaboratorTimeoutSeconds: envInt("COLLABORATOR_TIMEOUT_SECONDS"),
		AMQPHost:                   goDotEnvVariable("AMQP_HOST"),
		AMQPPort:                   goDotEnvVariable("AMQP_PORT"),
		AMQPUser:                   goDotEnvVariable("AMQP_USER"),
		AMQPPassword:               goDotEnvVariable("AMQP_PASSWORD"),
		NotificationExchange:       goDotEnvVariable("NOTIFICATION_EXCHANGE"),
		OriginLat:                  envFloat("ORIGIN_LAT"),
		OriginLon:                  envFloat("ORIGIN_LON"),
		PollSchedule:               goDotEnvVariable("POLL_SCHEDULE"),
		PollNotifyChannel:          goDotEnvVariable("POLL_NOTIFY_CHANNEL"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func envInt(key string) int {
	value, err := strconv.Atoi(goDotEnvVariable(key))
	if err != nil {
		log.Fatalf("Error parsing %s: %v", key, err)
	}
	return value
}

func envFloat(key string) float64 {
	value, err := strconv.ParseFloat(goDotEnvVariable(key), 64)
	if err != nil {
		log.Fatalf("Error parsing %s: %v", key, err)
	}
	return value
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword,
		configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	return gormDB
}

func migrateSchema(gormDB *gorm.DB) {
	err := gormDB.AutoMigrate(
		&planrepo.PlanDTO{},
		&planrepo.PlanItemDTO{},
		&schedulerepo.ScheduleDTO{},
		&schedulerepo.WaypointDTO{},
		&statusrepo.StatusDTO{},
		&statusrepo.StatusUpdateDTO{},
		&statusrepo.ExceptionDTO{},
		&statusrepo.NotificationDTO{},
		&confirmationrepo.ConfirmationDTO{},
		&confirmationrepo.ConfirmationItemDTO{},
		&audit.EventDTO{},
		&audit.IncidentDTO{},
	)
	if err != nil {
		log.Fatalf("Error migrating database schema: %v", err)
	}
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	app.CreateHTTPServer().RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
