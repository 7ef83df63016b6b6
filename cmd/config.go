package cmd

// Config carries all runtime settings, loaded from the environment in main.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	CarrierAPIURL              string
	RoutingAPIURL              string
	InventoryAPIURL            string
	FeedbackAPIURL             string
	CollaboratorTimeoutSeconds int

	AMQPHost             string
	AMQPPort             string
	AMQPUser             string
	AMQPPassword         string
	NotificationExchange string

	// OriginLat/OriginLon locate the dispatch warehouse routes start from.
	OriginLat float64
	OriginLon float64

	// PollSchedule is the six-field cron spec for the tracking refresh job;
	// PollNotifyChannel is the channel polled refreshes notify customers on.
	PollSchedule      string
	PollNotifyChannel string
}
