package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/sharebay/service-sharing/internal/pkg/database"
)

// KafkaConfig holds event-bus connection settings.
type KafkaConfig struct {
	Brokers []string
}

// BookingConfig holds booking-engine policy switches.
type BookingConfig struct {
	// RequireFutureDates rejects bookings whose start or end lies in the
	// past at creation time. Some deployments relax this, so it is a
	// policy switch rather than a hard rule.
	RequireFutureDates bool
}

// ServiceConfig holds all configuration for the sharing service.
type ServiceConfig struct {
	Port    string
	AppEnv  string
	DB      database.PostgresConfig
	Kafka   KafkaConfig
	Booking BookingConfig
}

// Load reads configuration from SHARING_-prefixed environment variables.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("SHARING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("service_port", "8080")
	v.SetDefault("app_env", "development")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "postgres")
	v.SetDefault("db_name", "sharing")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("kafka_brokers", "localhost:9092")
	v.SetDefault("booking_require_future_dates", true)

	return &ServiceConfig{
		Port:   ":" + v.GetString("service_port"),
		AppEnv: v.GetString("app_env"),
		DB: database.PostgresConfig{
			Host:     v.GetString("db_host"),
			Port:     v.GetString("db_port"),
			User:     v.GetString("db_user"),
			Password: v.GetString("db_password"),
			DBName:   v.GetString("db_name"),
			SSLMode:  v.GetString("db_sslmode"),
		},
		Kafka: KafkaConfig{
			Brokers: strings.Split(v.GetString("kafka_brokers"), ","),
		},
		Booking: BookingConfig{
			RequireFutureDates: v.GetBool("booking_require_future_dates"),
		},
	}, nil
}
