package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Booking   BookingConfig
	Kafka     KafkaConfig
	RateLimit RateLimitConfig
	Metrics   MetricsConfig
	CORS      CORSConfig
}

type AppConfig struct {
	Port     string
	Env      string
	LogLevel string
	Timezone string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Host        string
	Port        string
	Password    string
	DB          int
	PoolSize    int
	DialTimeout time.Duration
}

type JWTConfig struct {
	Secret        string
	Issuer        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// BookingConfig holds the hospital-wide booking rules.
type BookingConfig struct {
	OpenTime        string
	CloseTime       string
	SlotStepMinutes int
	MaxMonthsAhead  int
	NotesMaxLength  int
	SlotHoldTTL     time.Duration
}

type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

type RateLimitConfig struct {
	LoginAttempts int
	LoginWindow   time.Duration
}

type MetricsConfig struct {
	Enabled bool
	Path    string
}

// CORSConfig lists browser origins allowed to call the API. "*" allows any.
type CORSConfig struct {
	AllowedOrigins []string
	MaxAge         time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_LOG_LEVEL", "info")
	v.SetDefault("APP_TIMEZONE", "Europe/Istanbul")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("JWT_ISSUER", "hospital-appointment")
	v.SetDefault("BOOKING_OPEN_TIME", "08:00")
	v.SetDefault("BOOKING_CLOSE_TIME", "18:00")
	v.SetDefault("BOOKING_SLOT_STEP_MINUTES", 30)
	v.SetDefault("BOOKING_MAX_MONTHS_AHEAD", 3)
	v.SetDefault("BOOKING_NOTES_MAX_LENGTH", 500)
	v.SetDefault("BOOKING_SLOT_HOLD_TTL", "30s")
	v.SetDefault("KAFKA_ENABLED", false)
	v.SetDefault("KAFKA_TOPIC", "appointment-events")
	v.SetDefault("RATE_LIMIT_LOGIN_ATTEMPTS", 10)
	v.SetDefault("RATE_LIMIT_LOGIN_WINDOW", "1m")
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("METRICS_PATH", "/metrics")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
}

// LoadConfig reads .env when present, then environment variables.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	config := &Config{
		App: AppConfig{
			Port:     v.GetString("APP_PORT"),
			Env:      v.GetString("APP_ENV"),
			LogLevel: v.GetString("APP_LOG_LEVEL"),
			Timezone: v.GetString("APP_TIMEZONE"),
		},
		DB: DBConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Host:        v.GetString("REDIS_HOST"),
			Port:        v.GetString("REDIS_PORT"),
			Password:    v.GetString("REDIS_PASSWORD"),
			DB:          v.GetInt("REDIS_DB"),
			PoolSize:    v.GetInt("REDIS_POOL_SIZE"),
			DialTimeout: durationOr(v.GetString("REDIS_DIAL_TIMEOUT"), 5*time.Second),
		},
		JWT: JWTConfig{
			Secret:        v.GetString("JWT_SECRET"),
			Issuer:        v.GetString("JWT_ISSUER"),
			AccessExpiry:  durationOr(v.GetString("JWT_ACCESS_EXPIRY"), 15*time.Minute),
			RefreshExpiry: durationOr(v.GetString("JWT_REFRESH_EXPIRY"), 7*24*time.Hour),
		},
		Booking: BookingConfig{
			OpenTime:        v.GetString("BOOKING_OPEN_TIME"),
			CloseTime:       v.GetString("BOOKING_CLOSE_TIME"),
			SlotStepMinutes: v.GetInt("BOOKING_SLOT_STEP_MINUTES"),
			MaxMonthsAhead:  v.GetInt("BOOKING_MAX_MONTHS_AHEAD"),
			NotesMaxLength:  v.GetInt("BOOKING_NOTES_MAX_LENGTH"),
			SlotHoldTTL:     durationOr(v.GetString("BOOKING_SLOT_HOLD_TTL"), 30*time.Second),
		},
		Kafka: KafkaConfig{
			Enabled: v.GetBool("KAFKA_ENABLED"),
			Brokers: splitList(v.GetString("KAFKA_BROKERS")),
			Topic:   v.GetString("KAFKA_TOPIC"),
		},
		RateLimit: RateLimitConfig{
			LoginAttempts: v.GetInt("RATE_LIMIT_LOGIN_ATTEMPTS"),
			LoginWindow:   durationOr(v.GetString("RATE_LIMIT_LOGIN_WINDOW"), time.Minute),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("METRICS_ENABLED"),
			Path:    v.GetString("METRICS_PATH"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			MaxAge:         durationOr(v.GetString("CORS_MAX_AGE"), 10*time.Minute),
		},
	}

	return config, nil
}

func durationOr(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
