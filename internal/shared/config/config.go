package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultJWTSecret is the development secret used when JWT_SECRET is unset
const DefaultJWTSecret = "your-super-secret-jwt-key"

// Config holds all configuration for the booking service
type Config struct {
	// Server configuration
	Port           string
	GinMode        string
	APIVersion     string
	APIPrefix      string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig

	RateLimit RateLimitConfig

	LogLevel string

	Kafka   KafkaConfig
	Payment PaymentConfig
	Wizard  WizardConfig
	Pricing PricingDefaults
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	DSN      string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Addr     string

	HandoffTTL time.Duration
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled                bool          `json:"enabled"`
	WindowDuration         time.Duration `json:"window_duration"`
	DefaultRequests        int           `json:"default_requests"`
	PublicRequests         int           `json:"public_requests"`
	WizardRequests         int           `json:"wizard_requests"`
	WizardCriticalRequests int           `json:"wizard_critical_requests"`
	CouponRequests         int           `json:"coupon_requests"`
	AdminRequests          int           `json:"admin_requests"`
	HealthRequests         int           `json:"health_requests"`
	WhitelistedIPs         []string      `json:"whitelisted_ips"`
}

// KafkaConfig holds notification producer configuration
type KafkaConfig struct {
	Enabled           bool
	Brokers           []string
	NotificationTopic string
	RetryMax          int
	Timeout           time.Duration
}

// PaymentConfig holds online gateway configuration
type PaymentConfig struct {
	Provider      string // "stripe" or "sandbox"
	StripeKey     string
	SandboxSecret string
	Currency      string
}

// WizardConfig holds booking wizard session tuning
type WizardConfig struct {
	SessionTTL       time.Duration
	SweepInterval    time.Duration
	SlotPollInterval time.Duration
	ItemDebounce     time.Duration
}

// PricingDefaults are used when the catalog cannot be loaded at all
type PricingDefaults struct {
	FallbackTheaterPrice float64
	SlotBookingFee       float64
	ExtraGuestFee        float64
	ConvenienceFee       float64
	DecorationFees       float64
}

// Load loads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		APIVersion:     getEnv("API_VERSION", "v1"),
		APIPrefix:      getEnv("API_PREFIX", "/api"),
		ReadTimeout:    getDurationEnv("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:   getDurationEnv("WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:    getDurationEnv("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes: getIntEnv("MAX_HEADER_BYTES", 1<<20), // 1 MB

		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "feelmetown_db"),
			User:     getEnv("DB_USER", "feelmetown"),
			Password: getEnv("DB_PASSWORD", "feelmetown_password"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),

			HandoffTTL: getDurationEnv("REDIS_HANDOFF_TTL", 30*time.Minute),
		},

		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", DefaultJWTSecret),
		},

		RateLimit: RateLimitConfig{
			Enabled:                getBoolEnv("RATE_LIMIT_ENABLED", true),
			WindowDuration:         getDurationEnv("RATE_LIMIT_WINDOW_DURATION", 60*time.Second),
			DefaultRequests:        getIntEnv("RATE_LIMIT_DEFAULT_REQUESTS", 60),
			PublicRequests:         getIntEnv("RATE_LIMIT_PUBLIC_REQUESTS", 100),
			WizardRequests:         getIntEnv("RATE_LIMIT_WIZARD_REQUESTS", 300),
			WizardCriticalRequests: getIntEnv("RATE_LIMIT_WIZARD_CRITICAL_REQUESTS", 20),
			CouponRequests:         getIntEnv("RATE_LIMIT_COUPON_REQUESTS", 15),
			AdminRequests:          getIntEnv("RATE_LIMIT_ADMIN_REQUESTS", 200),
			HealthRequests:         getIntEnv("RATE_LIMIT_HEALTH_REQUESTS", 120),
			WhitelistedIPs:         getStringSliceEnv("RATE_LIMIT_WHITELISTED_IPS", []string{}),
		},

		LogLevel: getEnv("LOG_LEVEL", "debug"),

		Kafka: KafkaConfig{
			Enabled:           getBoolEnv("KAFKA_ENABLED", false),
			Brokers:           getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
			NotificationTopic: getEnv("KAFKA_NOTIFICATION_TOPIC", "booking-notifications"),
			RetryMax:          getIntEnv("KAFKA_RETRY_MAX", 3),
			Timeout:           getDurationEnv("KAFKA_TIMEOUT", 10*time.Second),
		},

		Payment: PaymentConfig{
			Provider:      getEnv("PAYMENT_PROVIDER", "sandbox"),
			StripeKey:     getEnv("STRIPE_SECRET_KEY", ""),
			SandboxSecret: getEnv("PAYMENT_SANDBOX_SECRET", "sandbox-secret"),
			Currency:      getEnv("PAYMENT_CURRENCY", "inr"),
		},

		Wizard: WizardConfig{
			SessionTTL:       getDurationEnv("WIZARD_SESSION_TTL", 2*time.Hour),
			SweepInterval:    getDurationEnv("WIZARD_SWEEP_INTERVAL", 5*time.Minute),
			SlotPollInterval: getDurationEnv("WIZARD_SLOT_POLL_INTERVAL", 5*time.Second),
			ItemDebounce:     getDurationEnv("WIZARD_ITEM_DEBOUNCE", 300*time.Millisecond),
		},

		Pricing: PricingDefaults{
			FallbackTheaterPrice: getFloatEnv("PRICING_FALLBACK_THEATER_PRICE", 1399),
			SlotBookingFee:       getFloatEnv("PRICING_SLOT_BOOKING_FEE", 600),
			ExtraGuestFee:        getFloatEnv("PRICING_EXTRA_GUEST_FEE", 400),
			ConvenienceFee:       getFloatEnv("PRICING_CONVENIENCE_FEE", 0),
			DecorationFees:       getFloatEnv("PRICING_DECORATION_FEES", 750),
		},
	}

	cfg.Database.DSN = buildDatabaseDSN(cfg.Database)
	cfg.Redis.Addr = cfg.Redis.Host + ":" + cfg.Redis.Port

	return cfg
}

// buildDatabaseDSN builds the database connection string
func buildDatabaseDSN(db DatabaseConfig) string {
	return "host=" + db.Host +
		" port=" + db.Port +
		" user=" + db.User +
		" password=" + db.Password +
		" dbname=" + db.Name +
		" sslmode=" + db.SSLMode
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getIntEnv gets an integer environment variable with a fallback value
func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return fallback
}

// getFloatEnv gets a float environment variable with a fallback value
func getFloatEnv(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil && floatValue >= 0 {
			return floatValue
		}
	}
	return fallback
}

// getDurationEnv gets a duration environment variable with a fallback value
func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return fallback
}

// getBoolEnv gets a boolean environment variable with a fallback value
func getBoolEnv(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

// getStringSliceEnv gets a comma-separated string environment variable as a slice
func getStringSliceEnv(key string, fallback []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		var result []string
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GinMode == "debug"
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return ":" + c.Port
}

// GetAPIBasePath returns the API base path
func (c *Config) GetAPIBasePath() string {
	return c.APIPrefix + "/" + c.APIVersion
}
