package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	LogLevel    string

	ConsoleAddr string
	BackendAddr string

	DataSource string

	Gateway    GatewayConfig
	Credential CredentialConfig

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// LoginRate is login attempts per second per email; zero disables the limiter.
	LoginRate  float64
	LoginBurst int

	SlackWebhookURL string
	SlackChannel    string

	AuthJWTSecret string
	AuthTokenTTL  time.Duration
	LoginPath     string

	UploadDir     string
	UploadURLTTL  time.Duration
	PublicBaseURL string

	SnowflakeNode      int64
	SchedulerEnabled   bool
	ContractExpiryCron string
	SeedDemoData       bool

	OTLPEndpoint string
	OTLPProtocol string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int
}

type GatewayConfig struct {
	BaseURL string
	Timeout time.Duration
	// RatePerSecond of zero disables client-side throttling.
	RatePerSecond float64
	Burst         int
}

type CredentialConfig struct {
	Store string
	Path  string
	Key   string
}

const (
	DataSourceFixtures = "fixtures"
	DataSourceGateway  = "gateway"

	CredentialStoreFile   = "file"
	CredentialStoreRedis  = "redis"
	CredentialStoreMemory = "memory"
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:     getenv("APP_SERVICE", "helpdesk"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		ConsoleAddr: getenv("CONSOLE_ADDR", ":8080"),
		BackendAddr: getenv("BACKEND_ADDR", ":8090"),
		DataSource:  normalizeDataSource(getenv("DATA_SOURCE", DataSourceFixtures)),
		Gateway: GatewayConfig{
			BaseURL:       strings.TrimRight(getenv("GATEWAY_BASE_URL", "http://localhost:8090"), "/"),
			Timeout:       getenvDuration("GATEWAY_TIMEOUT", 15*time.Second),
			RatePerSecond: getenvFloat("GATEWAY_RATE", 20),
			Burst:         getenvInt("GATEWAY_BURST", 10),
		},
		Credential: CredentialConfig{
			Store: strings.ToLower(getenv("CREDENTIAL_STORE", CredentialStoreFile)),
			Path:  getenv("CREDENTIAL_PATH", ".helpdesk/credential"),
			Key:   getenv("CREDENTIAL_KEY", "token"),
		},
		RedisAddr:          strings.TrimSpace(getenv("REDIS_ADDR", "")),
		RedisPassword:      strings.TrimSpace(getenv("REDIS_PASSWORD", "")),
		RedisDB:            getenvInt("REDIS_DB", 0),
		LoginRate:          getenvFloat("LOGIN_RATE", 0.2),
		LoginBurst:         getenvInt("LOGIN_BURST", 5),
		SlackWebhookURL:    strings.TrimSpace(getenv("SLACK_WEBHOOK_URL", "")),
		SlackChannel:       getenv("SLACK_CHANNEL", "#helpdesk"),
		AuthJWTSecret:      strings.TrimSpace(getenv("AUTH_JWT_SECRET", "")),
		AuthTokenTTL:       getenvDuration("AUTH_TOKEN_TTL", 12*time.Hour),
		LoginPath:          getenv("LOGIN_PATH", "/login"),
		UploadDir:          getenv("UPLOAD_DIR", "data/uploads"),
		UploadURLTTL:       getenvDuration("UPLOAD_URL_TTL", 15*time.Minute),
		PublicBaseURL:      strings.TrimRight(getenv("PUBLIC_BASE_URL", "http://localhost:8090"), "/"),
		SnowflakeNode:      getenvInt64("SNOWFLAKE_NODE", 1),
		SchedulerEnabled:   getenvBool("SCHEDULER_ENABLED", true),
		ContractExpiryCron: getenv("CONTRACT_EXPIRY_CRON", "0 7 * * *"),
		SeedDemoData:       getenvBool("SEED_DEMO_DATA", true),
		OTLPEndpoint:       strings.TrimSpace(getenv("OTLP_ENDPOINT", "")),
		OTLPProtocol:       strings.ToLower(getenv("OTLP_PROTOCOL", "grpc")),
		DBType:             getenv("DATABASE_TYPE", "sqlite"),
		DBHost:             getenv("DATABASE_HOST", "localhost"),
		DBPort:             getenv("DATABASE_PORT", "5432"),
		DBName:             getenv("DATABASE_NAME", "helpdesk.db"),
		DBUser:             getenv("DATABASE_USER", "postgres"),
		DBPassword:         getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:          getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:      getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:      getenvInt("DATABASE_MAX_OPEN_CONN", 20),
		DBConnMaxLifetime:  getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),
		DBConnMaxIdleTime:  getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 60),
	}

	return cfg
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) UsesGateway() bool {
	return c.DataSource == DataSourceGateway
}

func normalizeDataSource(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case DataSourceGateway:
		return DataSourceGateway
	default:
		return DataSourceFixtures
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvInt(key string, def int) int {
	return int(getenvInt64(key, int64(def)))
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}
