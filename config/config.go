package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Elastic  ElasticsearchConfig
	Yalidine YalidineConfig
	Shop     ShopConfig
}

type ServerConfig struct {
	AppEnv          string
	HTTPPort        string
	ShutdownTimeout time.Duration
	RateLimit       float64
	RateBurst       int
	AllowOrigins    []string
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

type DatabaseConfig struct {
	Driver      string // postgres | sqlite3
	AutoMigrate bool
	SQLitePath  string
	Postgres    PostgresConfig
}

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Enabled         bool
	Brokers         []string
	Topic           string
	ShipmentGroupID string
}

type ElasticsearchConfig struct {
	Enabled      bool
	Addresses    []string
	Username     string
	Password     string
	ProductIndex string
}

type YalidineConfig struct {
	BaseURL    string
	APIID      string
	APIToken   string
	FromWilaya string
	Timeout    time.Duration
	Workers    int
	QueueSize  int
}

type ShopConfig struct {
	Timezone          string
	LowStockThreshold int
	// memory: in-process dispatcher queue; kafka: shipment listener reacts to order events
	ShipmentQueue string
}

func LoadEnv() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:          getEnv("APP_ENV", "dev"),
			HTTPPort:        getEnv("HTTP_PORT", ":3001"),
			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
			RateLimit:       getEnvFloat("RATE_LIMIT_RPS", 20),
			RateBurst:       getEnvInt("RATE_LIMIT_BURST", 40),
			AllowOrigins:    getEnvSlice("CORS_ALLOW_ORIGINS", []string{"*"}),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "debug"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Database: DatabaseConfig{
			Driver:      getEnv("DB_DRIVER", "sqlite3"),
			AutoMigrate: getEnvBool("DB_AUTO_MIGRATE", true),
			SQLitePath:  getEnv("SQLITE_PATH", "shop.db"),
			Postgres: PostgresConfig{
				Host:            getEnv("POSTGRES_HOST", "localhost"),
				Port:            getEnv("POSTGRES_PORT", "5433"),
				User:            getEnv("POSTGRES_USER", "omnipos"),
				Password:        getEnv("POSTGRES_PASSWORD", "omnipos"),
				DBName:          getEnv("POSTGRES_DB", "omnipos_shop"),
				SSLMode:         getEnv("POSTGRES_SSLMODE", "disable"),
				MaxOpenConns:    getEnvInt("POSTGRES_MAX_OPEN_CONNS", 10),
				MaxIdleConns:    getEnvInt("POSTGRES_MAX_IDLE_CONNS", 5),
				ConnMaxLifetime: getEnvInt("POSTGRES_CONN_MAX_LIFETIME", 300),
				ConnMaxIdleTime: getEnvInt("POSTGRES_CONN_MAX_IDLE_TIME", 60),
			},
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Enabled:         getEnvBool("KAFKA_ENABLED", false),
			Brokers:         getEnvSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:           getEnv("KAFKA_TOPIC_ORDERS", "orders.events"),
			ShipmentGroupID: getEnv("KAFKA_GROUP_SHIPMENT", "shipment"),
		},
		Elastic: ElasticsearchConfig{
			Enabled:      getEnvBool("ELASTICSEARCH_ENABLED", false),
			Addresses:    getEnvSlice("ELASTICSEARCH_ADDRESSES", []string{"http://localhost:9200"}),
			Username:     getEnv("ELASTICSEARCH_USERNAME", ""),
			Password:     getEnv("ELASTICSEARCH_PASSWORD", ""),
			ProductIndex: getEnv("ELASTICSEARCH_PRODUCT_INDEX", "products"),
		},
		Yalidine: YalidineConfig{
			BaseURL:    getEnv("YALIDINE_BASE_URL", "https://api.yalidine.app/v1"),
			APIID:      getEnv("YALIDINE_API_ID", ""),
			APIToken:   getEnv("YALIDINE_API_TOKEN", ""),
			FromWilaya: getEnv("YALIDINE_FROM_WILAYA", "Alger"),
			Timeout:    getEnvDuration("YALIDINE_TIMEOUT", 15*time.Second),
			Workers:    getEnvInt("YALIDINE_WORKERS", 2),
			QueueSize:  getEnvInt("YALIDINE_QUEUE_SIZE", 100),
		},
		Shop: ShopConfig{
			Timezone:          getEnv("SHOP_TIMEZONE", "UTC"),
			LowStockThreshold: getEnvInt("LOW_STOCK_THRESHOLD", 5),
			ShipmentQueue:     getEnv("SHIPMENT_QUEUE", "memory"),
		},
	}
}

// Location resolves the shop timezone, falling back to UTC.
func (c ShopConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.Split(value, ",")
	}
	return fallback
}
