package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	HTTP     HTTPConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Log      LogConfig
	Storage  StorageConfig
	Mail     MailConfig
	Calendar CalendarConfig
	Maps     MapsConfig
	Payment  PaymentConfig
	Reviews  ReviewsConfig
	Pricing  PricingConfig
	Tracing  TracingConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxBodySize      int64
	CORSAllowOrigins []string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// DSN returns the postgres connection string
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns the host:port pair for the redis client
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// JWTConfig holds settings for validating identity-provider tokens
type JWTConfig struct {
	Secret   string
	Issuer   string
	Audience string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// StorageConfig holds object storage (S3-compatible) settings
type StorageConfig struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
	UsePathStyle    bool
}

// MailConfig holds transactional email settings
type MailConfig struct {
	APIKey      string
	FromAddress string
	FromName    string
	StaffList   []string // staff distribution list, copied on order notifications
}

// CalendarConfig holds Google Calendar service-account settings
type CalendarConfig struct {
	CalendarID  string
	ClientEmail string
	PrivateKey  string
}

// MapsConfig holds Google Maps settings
type MapsConfig struct {
	APIKey  string
	PlaceID string
	// Destination is the shop address used as the fixed distance endpoint
	Destination string
}

// PaymentConfig holds payment gateway settings
type PaymentConfig struct {
	AccessToken string
	FrontendURL string
	Descriptor  string
}

// ReviewsConfig holds the reviews cache settings
type ReviewsConfig struct {
	CacheTTL time.Duration
	UseRedis bool
}

// PricingConfig holds the business constants that were hardcoded upstream.
// Discount applies to PIX and CASH payments; the delivery fee tiers switch on
// driving distance to the customer.
type PricingConfig struct {
	DiscountPercent        float64
	DeliveryBaseFee        float64
	DeliveryExtendedFee    float64
	DistanceThresholdMeter int
}

// TracingConfig holds OpenTelemetry configuration
type TracingConfig struct {
	Enabled           bool
	CollectorEndpoint string
	ServiceName       string
	SamplingRatio     float64
	Insecure          bool
}

// Load loads configuration from a TOML file and environment variables.
// Environment variables use the ICEPOINT_ prefix and override file values,
// e.g. ICEPOINT_DATABASE_PASSWORD.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	v.SetEnvPrefix("ICEPOINT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks configuration consistency
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Pricing.DiscountPercent < 0 || c.Pricing.DiscountPercent > 100 {
		return fmt.Errorf("pricing discount percent must be between 0 and 100")
	}
	if c.Pricing.DeliveryBaseFee < 0 || c.Pricing.DeliveryExtendedFee < 0 {
		return fmt.Errorf("delivery fees cannot be negative")
	}
	if c.App.Env == "production" && c.JWT.Secret == "" {
		return fmt.Errorf("jwt secret is required in production")
	}
	return nil
}

// IsProduction reports whether the app runs in the production environment
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "icepoint-backend")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")

	v.SetDefault("http.readtimeout", 15*time.Second)
	v.SetDefault("http.writetimeout", 30*time.Second)
	v.SetDefault("http.idletimeout", 60*time.Second)
	v.SetDefault("http.maxbodysize", int64(8<<20))
	v.SetDefault("http.corsalloworigins", []string{})

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.dbname", "icepoint")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.maxopenconns", 25)
	v.SetDefault("database.maxidleconns", 5)
	v.SetDefault("database.connmaxlifetime", 30)
	v.SetDefault("database.connmaxidletime", 10)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.bucket", "images")
	v.SetDefault("storage.usepathstyle", true)

	v.SetDefault("mail.fromname", "Ice Point")
	v.SetDefault("mail.stafflist", []string{})

	v.SetDefault("reviews.cachettl", 7*24*time.Hour)
	v.SetDefault("reviews.useredis", false)

	v.SetDefault("pricing.discountpercent", 10.0)
	v.SetDefault("pricing.deliverybasefee", 20.0)
	v.SetDefault("pricing.deliveryextendedfee", 30.0)
	v.SetDefault("pricing.distancethresholdmeter", 9000)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.servicename", "icepoint-backend")
	v.SetDefault("tracing.samplingratio", 1.0)
	v.SetDefault("tracing.insecure", true)
}
