package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every environment driven setting of the server.
type Config struct {
	Host   string
	Port   string
	AppEnv string

	DB DBConfig

	AccessTokenKey       string
	RefreshTokenKey      string
	AccessTokenExpiresIn time.Duration
	RefreshTokenExpires  time.Duration
	SaltRounds           int

	Mail    MailConfig
	Storage StorageConfig
	Kafka   KafkaConfig
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Enabled reports whether an SMTP relay was configured.
func (m MailConfig) Enabled() bool { return m.Host != "" }

type StorageConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
}

type KafkaConfig struct {
	Brokers      []string
	AuctionTopic string
}

// Enabled reports whether at least one broker was configured.
func (k KafkaConfig) Enabled() bool { return len(k.Brokers) > 0 }

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	accessTTL, err := durationEnv("ACCESS_TOKEN_EXPIRES_IN", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	refreshTTL, err := durationEnv("REFRESH_TOKEN_EXPIRES_IN", 7*24*time.Hour)
	if err != nil {
		return nil, err
	}
	saltRounds, err := intEnv("SALT_ROUNDS", 10)
	if err != nil {
		return nil, err
	}
	mailPort, err := intEnv("MAIL_PORT", 587)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Host:   os.Getenv("HOST"),
		Port:   stringEnv("PORT", "3000"),
		AppEnv: stringEnv("APP_ENV", "development"),
		DB: DBConfig{
			Host:     stringEnv("DB_HOST", "localhost"),
			Port:     stringEnv("DB_PORT", "5432"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			SSLMode:  stringEnv("DB_SSLMODE", "disable"),
		},
		AccessTokenKey:       os.Getenv("ACCESS_TOKEN_KEY"),
		RefreshTokenKey:      os.Getenv("REFRESH_TOKEN_KEY"),
		AccessTokenExpiresIn: accessTTL,
		RefreshTokenExpires:  refreshTTL,
		SaltRounds:           saltRounds,
		Mail: MailConfig{
			Host:     os.Getenv("MAIL_HOST"),
			Port:     mailPort,
			User:     os.Getenv("MAIL_USER"),
			Password: os.Getenv("MAIL_PASSWORD"),
			From:     stringEnv("MAIL_FROM", "no-reply@bidmarket.local"),
		},
		Storage: StorageConfig{
			Region:          os.Getenv("AWS_S3_REGION"),
			AccessKeyID:     os.Getenv("AWS_S3_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_S3_SECRET_ACCESS_KEY"),
			Bucket:          os.Getenv("AWS_S3_PUBLIC_BUCKET"),
		},
		Kafka: KafkaConfig{
			Brokers:      splitCSV(os.Getenv("KAFKA_BROKERS")),
			AuctionTopic: stringEnv("KAFKA_AUCTION_TOPIC", "bidmarket.auction-events"),
		},
	}

	if cfg.AccessTokenKey == "" || cfg.RefreshTokenKey == "" {
		return nil, fmt.Errorf("config: ACCESS_TOKEN_KEY and REFRESH_TOKEN_KEY are required")
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

// BuildPostgresDSN builds the connection url used both by pgxpool and golang-migrate.
func (c *Config) BuildPostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name, c.DB.SSLMode,
	)
}

func stringEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be an integer: %w", key, err)
	}
	return n, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be a duration like 15m or 168h: %w", key, err)
	}
	return d, nil
}

func splitCSV(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
