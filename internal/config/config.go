package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/cdegbert/pinecrest-robotics-fundraiser/internal/models"
)

const (
	SinkMail = "mail"
	SinkHTTP = "http"
)

type Config struct {
	Port     int
	LogLevel string

	// DatabaseURL selects Postgres; when empty the store falls back to an
	// embedded SQLite file, which is the normal single-booth deployment.
	DatabaseURL string
	SQLitePath  string

	OrderSink        string
	OrderEmail       string
	OrderEndpointURL string

	AdminPassword     string
	AdminPasswordHash string
	JWTSecret         string

	KafkaBrokers []string
	EventsTopic  string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	cfg := &Config{
		Port:     EnvIntDefault("SERVER_PORT", 8080),
		LogLevel: EnvDefault("LOG_LEVEL", "info"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  EnvDefault("SQLITE_PATH", "fundraiser.db"),

		OrderSink:        EnvDefault("ORDER_SINK", SinkMail),
		OrderEmail:       EnvDefault("ORDER_EMAIL", "anna.egbert@pinecrestnv.org"),
		OrderEndpointURL: os.Getenv("ORDER_ENDPOINT_URL"),

		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		JWTSecret:         os.Getenv("JWT_SECRET"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
		EventsTopic:  EnvDefault("EVENTS_TOPIC", "order_events"),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "product"),
	}

	switch cfg.OrderSink {
	case SinkMail:
		if cfg.OrderEmail == "" {
			return nil, fmt.Errorf("ORDER_SINK=mail requires ORDER_EMAIL")
		}
	case SinkHTTP:
		if cfg.OrderEndpointURL == "" {
			return nil, fmt.Errorf("ORDER_SINK=http requires ORDER_ENDPOINT_URL")
		}
	default:
		return nil, fmt.Errorf("unknown ORDER_SINK %q", cfg.OrderSink)
	}

	if cfg.AdminPassword == "" && cfg.AdminPasswordHash == "" {
		return nil, fmt.Errorf("one of ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required")
	}
	MustNonEmpty(cfg.JWTSecret, "JWT_SECRET")

	return cfg, nil
}

// InitDB opens the durable store and migrates the schema. Postgres when
// DATABASE_URL is set, an embedded SQLite file otherwise.
func InitDB(ctx context.Context, cfg *Config) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	gormCfg := &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	}

	if cfg.DatabaseURL != "" {
		db, err = gorm.Open(postgres.Open(cfg.DatabaseURL), gormCfg)
	} else {
		db, err = gorm.Open(sqlite.Open(cfg.SQLitePath), gormCfg)
	}
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	configurePool(sqlDB)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Product{},
		&models.CartLine{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return db, nil
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}
