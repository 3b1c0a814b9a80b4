package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Log       LogConfig       `yaml:"log"`
	Notify    NotifyConfig    `yaml:"notify"`
	Policy    PolicyConfig    `yaml:"policy"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	User          string `yaml:"user"`
	Password      string `yaml:"password"`
	Database      string `yaml:"database"`
	SSLMode       string `yaml:"ssl_mode"`
	MigrationsDir string `yaml:"migrations_dir"`
}

// JWTConfig contains bearer token settings
type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// NotifyConfig contains notification delivery settings
type NotifyConfig struct {
	Driver         string `yaml:"driver"` // "log" or "sendgrid"
	SendGridAPIKey string `yaml:"sendgrid_api_key"`
	FromEmail      string `yaml:"from_email"`
	FromName       string `yaml:"from_name"`
}

// PolicyConfig contains the carpool marketplace policy constants. Every
// value here is tunable without a rebuild.
type PolicyConfig struct {
	MinPricePerSeatCents       int32 `yaml:"min_price_per_seat_cents"`
	MaxSeatsPerTrip            int32 `yaml:"max_seats_per_trip"`
	PublicationFee             int32 `yaml:"publication_fee"`  // credits debited when a trip is published
	BookingFee                 int32 `yaml:"booking_fee"`      // credits held per booking
	MinMessageLength           int   `yaml:"min_message_length"`
	CancelRefundThresholdHours int   `yaml:"cancel_refund_threshold_hours"`
	ForfeitWithinThreshold     bool  `yaml:"forfeit_within_threshold"` // settle instead of release when cancelling late
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	CompleteDepartedTrips  string `yaml:"complete_departed_trips"`
	ExpireStaleBookings    string `yaml:"expire_stale_bookings"`
	CompletionGraceHours   int    `yaml:"completion_grace_hours"`
}

// Load reads configuration from a YAML file, then applies environment
// variable overrides and validates the result. A .env file next to the
// binary is honored when present.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		c.Server.Port = cast.ToInt(val)
	}

	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		c.Database.Port = cast.ToInt(val)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Notify.SendGridAPIKey = val
	}

	if val := os.Getenv("PUBLICATION_FEE"); val != "" {
		c.Policy.PublicationFee = cast.ToInt32(val)
	}
	if val := os.Getenv("BOOKING_FEE"); val != "" {
		c.Policy.BookingFee = cast.ToInt32(val)
	}
	if val := os.Getenv("MIN_PRICE_PER_SEAT_CENTS"); val != "" {
		c.Policy.MinPricePerSeatCents = cast.ToInt32(val)
	}
	if val := os.Getenv("MAX_SEATS_PER_TRIP"); val != "" {
		c.Policy.MaxSeatsPerTrip = cast.ToInt32(val)
	}
	if val := os.Getenv("MIN_MESSAGE_LENGTH"); val != "" {
		c.Policy.MinMessageLength = cast.ToInt(val)
	}
	if val := os.Getenv("CANCEL_REFUND_THRESHOLD_HOURS"); val != "" {
		c.Policy.CancelRefundThresholdHours = cast.ToInt(val)
	}
	if val := os.Getenv("FORFEIT_WITHIN_THRESHOLD"); val != "" {
		c.Policy.ForfeitWithinThreshold = cast.ToBool(val)
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Database.MigrationsDir == "" {
		c.Database.MigrationsDir = "migrations/postgres"
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.Notify.Driver == "" {
		c.Notify.Driver = "log"
	}
	if c.Notify.Driver == "sendgrid" && c.Notify.SendGridAPIKey == "" {
		return fmt.Errorf("sendgrid notifier requires an API key")
	}

	// Marketplace policy defaults.
	if c.Policy.MinPricePerSeatCents == 0 {
		c.Policy.MinPricePerSeatCents = 200
	}
	if c.Policy.MaxSeatsPerTrip == 0 {
		c.Policy.MaxSeatsPerTrip = 8
	}
	if c.Policy.PublicationFee == 0 {
		c.Policy.PublicationFee = 2
	}
	if c.Policy.BookingFee == 0 {
		c.Policy.BookingFee = 2
	}
	if c.Policy.MinMessageLength == 0 {
		c.Policy.MinMessageLength = 20
	}
	if c.Policy.CancelRefundThresholdHours == 0 {
		c.Policy.CancelRefundThresholdHours = 24
	}

	// Scheduler defaults
	if c.Scheduler.CompleteDepartedTrips == "" {
		c.Scheduler.CompleteDepartedTrips = "0 */15 * * * *" // every 15 minutes
	}
	if c.Scheduler.ExpireStaleBookings == "" {
		c.Scheduler.ExpireStaleBookings = "0 5,20,35,50 * * * *"
	}
	if c.Scheduler.CompletionGraceHours == 0 {
		c.Scheduler.CompletionGraceHours = 6
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
