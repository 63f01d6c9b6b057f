package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Драйверы хранилища snapshot
const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
	StorageDynamoDB = "dynamodb"
)

type Config struct {
	Server     ServerConfig
	Simulation SimulationConfig
	Storage    StorageConfig
	Redis      RedisConfig
	NATS       NATSConfig
	CloudWatch CloudWatchConfig
	S3         S3Config
	Security   SecurityConfig
	RateLimit  RateLimitConfig
	Log        LogConfig
	// AWS общие учетные данные для DynamoDB и CloudWatch. Настройки S3 отдельные.
	AWS AWSConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type SimulationConfig struct {
	Interval        time.Duration
	Seed            uint64
	SeedFile        string
	CatalogSeedFile string
	TimeRange       string
	Environment     string
}

type StorageConfig struct {
	Driver      string
	FilePath    string
	CatalogPath string
	SQLite      string
	Database    DatabaseConfig
	DynamoDB    DynamoDBConfig
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
}

type DynamoDBConfig struct {
	TableName   string
	StrongReads bool
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

type NATSConfig struct {
	Enabled bool
	URL     string
}

type AWSConfig struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

type CloudWatchConfig struct {
	MetricsEnabled bool
	LogsEnabled    bool
	Namespace      string
	LogGroup       string
	LogStream      string
	FlushInterval  time.Duration
}

type S3Config struct {
	Enabled      bool
	Bucket       string
	Region       string
	Endpoint     string
	AccessKeyID  string
	SecretKey    string
	UsePathStyle bool
	KeyPrefix    string
	URLMode      string
	PresignedTTL time.Duration
	// ExportEvery экспорт каждые N циклов
	ExportEvery int
}

type SecurityConfig struct {
	AllowedOrigins []string
	AuthEnabled    bool
	AuthToken      string
	JWTSecret      string
}

type RateLimitConfig struct {
	Enabled bool
	RPS     float64
	Burst   int
	// TrustedProxies CIDR или адреса прокси, чьим X-Forwarded-For можно верить
	TrustedProxies []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	p := &parser{}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			ReadTimeout:     p.duration("SERVER_READ_TIMEOUT", "10s"),
			WriteTimeout:    p.duration("SERVER_WRITE_TIMEOUT", "10s"),
			IdleTimeout:     p.duration("SERVER_IDLE_TIMEOUT", "60s"),
			ShutdownTimeout: p.duration("SERVER_SHUTDOWN_TIMEOUT", "30s"),
		},
		Simulation: SimulationConfig{
			Interval:        p.duration("SIM_TICK_INTERVAL", "1s"),
			Seed:            p.uint64("SIM_RANDOM_SEED", "0"),
			SeedFile:        getEnv("SIM_SEED_FILE", "data/dashboard.json"),
			CatalogSeedFile: getEnv("CATALOG_SEED_FILE", "data/api_catalog.json"),
			TimeRange:       getEnv("SIM_TIME_RANGE", "last_24h"),
			Environment:     getEnv("SIM_ENVIRONMENT", "local"),
		},
		Storage: StorageConfig{
			Driver:      strings.ToLower(getEnv("STORAGE_DRIVER", StorageFile)),
			FilePath:    getEnv("STORAGE_FILE_PATH", "data/snapshot.json"),
			CatalogPath: getEnv("STORAGE_CATALOG_PATH", "data/catalog.json"),
			SQLite:      getEnv("STORAGE_SQLITE_PATH", "data/snapshot.db"),
			Database: DatabaseConfig{
				Host:         getEnv("DB_HOST", "localhost"),
				Port:         getEnv("DB_PORT", "5432"),
				User:         getEnv("DB_USER", "postgres"),
				Password:     getEnv("DB_PASSWORD", "postgres"),
				Database:     getEnv("DB_NAME", "ops_dashboard"),
				SSLMode:      getEnv("DB_SSLMODE", "disable"),
				MaxOpenConns: p.int("DB_MAX_OPEN_CONNS", "5"),
			},
			DynamoDB: DynamoDBConfig{
				TableName:   getEnv("DYNAMODB_TABLE", "ops-dashboard-snapshots"),
				StrongReads: getEnvBool("DYNAMODB_STRONG_READS", true),
			},
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       p.int("REDIS_DB", "0"),
			TTL:      p.duration("REDIS_TTL", "30s"),
		},
		NATS: NATSConfig{
			Enabled: getEnvBool("NATS_ENABLED", false),
			URL:     getEnv("NATS_URL", "nats://localhost:4222"),
		},
		CloudWatch: CloudWatchConfig{
			MetricsEnabled: getEnvBool("CLOUDWATCH_METRICS_ENABLED", false),
			LogsEnabled:    getEnvBool("CLOUDWATCH_LOGS_ENABLED", false),
			Namespace:      getEnv("CLOUDWATCH_NAMESPACE", "OpsDashboard/Simulator"),
			LogGroup:       getEnv("CLOUDWATCH_LOG_GROUP", "/ops-dashboard/simulator"),
			LogStream:      getEnv("CLOUDWATCH_LOG_STREAM", hostname()),
			FlushInterval:  p.duration("CLOUDWATCH_FLUSH_INTERVAL", "10s"),
		},
		S3: S3Config{
			Enabled:      getEnvBool("S3_ENABLED", false),
			Bucket:       getEnv("S3_BUCKET", ""),
			Region:       getEnv("S3_REGION", "ru-central1"),
			Endpoint:     getEnv("S3_ENDPOINT", "https://storage.yandexcloud.net"),
			AccessKeyID:  getEnv("S3_ACCESS_KEY_ID", os.Getenv("AWS_ACCESS_KEY_ID")),
			SecretKey:    getEnv("S3_SECRET_ACCESS_KEY", os.Getenv("AWS_SECRET_ACCESS_KEY")),
			UsePathStyle: getEnvBool("S3_USE_PATH_STYLE", true),
			KeyPrefix:    getEnv("S3_KEY_PREFIX", "dashboards"),
			URLMode:      getEnv("S3_URL_MODE", "presigned"),
			PresignedTTL: p.duration("S3_PRESIGNED_TTL", "5m"),
			ExportEvery:  p.int("S3_EXPORT_EVERY", "60"),
		},
		Security: SecurityConfig{
			AllowedOrigins: splitCSV(getEnv("ALLOWED_ORIGINS", "")),
			AuthEnabled:    getEnvBool("AUTH_ENABLED", false),
			AuthToken:      getEnv("AUTH_BEARER_TOKEN", ""),
			JWTSecret:      getEnv("AUTH_JWT_SECRET", ""),
		},
		RateLimit: RateLimitConfig{
			Enabled: getEnvBool("RATE_LIMIT_ENABLED", true),
			RPS:     p.float("RATE_LIMIT_RPS", "20"),
			Burst:   p.int("RATE_LIMIT_BURST", "40"),

			TrustedProxies: splitCSV(getEnv("RATE_LIMIT_TRUSTED_PROXIES", "")),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}

	cfg.AWS = AWSConfig{
		Region:          getEnv("AWS_REGION", "us-east-1"),
		Endpoint:        getEnv("AWS_ENDPOINT", ""),
		AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
	}

	if p.err != nil {
		return nil, p.err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	var errs []error

	if c.Simulation.Interval <= 0 {
		errs = append(errs, fmt.Errorf("SIM_TICK_INTERVAL must be positive"))
	}
	switch c.Storage.Driver {
	case StorageFile, StoragePostgres, StorageSQLite, StorageDynamoDB:
	default:
		errs = append(errs, fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver))
	}
	if c.Security.AuthEnabled && c.Security.AuthToken == "" {
		errs = append(errs, fmt.Errorf("AUTH_BEARER_TOKEN is required when AUTH_ENABLED=true"))
	}
	if c.S3.Enabled && c.S3.Bucket == "" {
		errs = append(errs, fmt.Errorf("S3_BUCKET is required when S3_ENABLED=true"))
	}
	if c.S3.Enabled && c.S3.ExportEvery <= 0 {
		errs = append(errs, fmt.Errorf("S3_EXPORT_EVERY must be positive"))
	}
	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0) {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive"))
	}
	for _, proxy := range c.RateLimit.TrustedProxies {
		if !validProxy(proxy) {
			errs = append(errs, fmt.Errorf("RATE_LIMIT_TRUSTED_PROXIES: invalid entry %q", proxy))
		}
	}

	return errors.Join(errs...)
}

func validProxy(raw string) bool {
	if _, err := netip.ParsePrefix(raw); err == nil {
		return true
	}
	_, err := netip.ParseAddr(raw)
	return err == nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// parser запоминает первую ошибку разбора переменной окружения
type parser struct {
	err error
}

func (p *parser) fail(key string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid %s: %w", key, err)
	}
}

func (p *parser) duration(key, def string) time.Duration {
	d, err := time.ParseDuration(getEnv(key, def))
	if err != nil {
		p.fail(key, err)
	}
	return d
}

func (p *parser) int(key, def string) int {
	v, err := strconv.Atoi(getEnv(key, def))
	if err != nil {
		p.fail(key, err)
	}
	return v
}

func (p *parser) uint64(key, def string) uint64 {
	v, err := strconv.ParseUint(getEnv(key, def), 10, 64)
	if err != nil {
		p.fail(key, err)
	}
	return v
}

func (p *parser) float(key, def string) float64 {
	v, err := strconv.ParseFloat(getEnv(key, def), 64)
	if err != nil {
		p.fail(key, err)
	}
	return v
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return parsed
}

func splitCSV(raw string) []string {
	items := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil || name == "" {
		return "ops-dashboard-simulator"
	}
	return name
}
