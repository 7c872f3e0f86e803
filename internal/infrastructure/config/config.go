package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type DatabaseConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	SSLMode  string
	Port     int
	MaxConns int
}

type KafkaConfig struct {
	ConsumerGroup  string
	EventsTopic    string
	ActivityTopic  string
	SASLMechanism  string
	SASLUsername   string
	SASLPassword   string
	Brokers        []string
	TLS            bool
	ConsumeEnabled bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	QuoteTTL time.Duration
}

type TLSConfig struct {
	CertFile     string
	KeyFile      string
	ClientCAFile string
}

type Config struct {
	ServiceName        string
	LogLevel           string
	LogFormat          string
	OTLPEndpoint       string
	MigrationsPath     string
	DB                 DatabaseConfig
	Kafka              KafkaConfig
	Redis              RedisConfig
	TLS                TLSConfig
	GRPCPort           int
	HTTPPort           int
	AverageWindowMonth int
	GRPCReflection     bool
}

// Load reads the configuration from the environment. Variables from the
// given dotenv files (".env" when none are given) are applied first without
// overriding what is already set; missing files are ignored.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	return Config{
		ServiceName:        getEnv("SERVICE_NAME", "fleet-finance"),
		GRPCPort:           getEnvInt("GRPC_PORT", 9090),
		HTTPPort:           getEnvInt("HTTP_PORT", 8080),
		GRPCReflection:     getEnvBool("GRPC_REFLECTION", false),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
		OTLPEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		MigrationsPath:     getEnv("MIGRATIONS_PATH", "file://internal/infrastructure/persistence/postgres/migrations"),
		AverageWindowMonth: getEnvInt("PROJECTION_AVERAGE_WINDOW_MONTHS", 6),
		DB: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "fleet"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "fleet_finance"),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 10),
		},
		Kafka: KafkaConfig{
			Brokers:        splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
			EventsTopic:    getEnv("KAFKA_EVENTS_TOPIC", "fleet.finance.events"),
			ActivityTopic:  getEnv("KAFKA_ACTIVITY_TOPIC", "fleet.vehicle.activity"),
			ConsumerGroup:  getEnv("KAFKA_CONSUMER_GROUP", "fleet-finance"),
			ConsumeEnabled: getEnvBool("KAFKA_CONSUME_ACTIVITY", true),
			TLS:            getEnvBool("KAFKA_TLS", false),
			SASLMechanism:  getEnv("KAFKA_SASL_MECHANISM", ""),
			SASLUsername:   getEnv("KAFKA_SASL_USERNAME", ""),
			SASLPassword:   getEnv("KAFKA_SASL_PASSWORD", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			QuoteTTL: getEnvDuration("PREPAYMENT_QUOTE_TTL", 15*time.Minute),
		},
		TLS: TLSConfig{
			CertFile:     getEnv("TLS_CERT_FILE", ""),
			KeyFile:      getEnv("TLS_KEY_FILE", ""),
			ClientCAFile: getEnv("TLS_CLIENT_CA_FILE", ""),
		},
	}, nil
}

// Validate reports missing or inconsistent settings.
func (c Config) Validate() error {
	var errs []error
	if c.DB.Password == "" {
		errs = append(errs, errors.New("DB_PASSWORD is required"))
	}
	if len(c.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("KAFKA_BROKERS is required"))
	}
	if c.Redis.Addr == "" {
		errs = append(errs, errors.New("REDIS_ADDR is required"))
	}
	if c.AverageWindowMonth < 1 {
		errs = append(errs, errors.New("PROJECTION_AVERAGE_WINDOW_MONTHS must be at least 1"))
	}
	if c.Redis.QuoteTTL <= 0 {
		errs = append(errs, errors.New("PREPAYMENT_QUOTE_TTL must be positive"))
	}
	if (c.TLS.CertFile == "") != (c.TLS.KeyFile == "") {
		errs = append(errs, errors.New("TLS_CERT_FILE and TLS_KEY_FILE must be set together"))
	}
	if c.TLS.ClientCAFile != "" && c.TLS.CertFile == "" {
		errs = append(errs, errors.New("TLS_CLIENT_CA_FILE requires TLS_CERT_FILE and TLS_KEY_FILE"))
	}
	return errors.Join(errs...)
}

// SASLEnabled reports whether Kafka SASL authentication is configured.
func (k KafkaConfig) SASLEnabled() bool { return k.SASLMechanism != "" }

func (c Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
