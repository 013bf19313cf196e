package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv  string `env:"APP_ENV" env-default:"development"`
	Port    string `env:"PORT" env-default:"8080"`
	BaseURL string `env:"BASE_URL" env-default:"http://localhost:3000"`

	CORSOrigins string `env:"CORS_ORIGINS" env-default:"*"`

	// Database
	DatabaseURL string `env:"DATABASE_URL"`
	DBHost      string `env:"DB_HOST" env-default:"localhost"`
	DBPort      string `env:"DB_PORT" env-default:"5432"`
	DBUser      string `env:"DB_USER" env-default:"postgres"`
	DBPassword  string `env:"DB_PASSWORD"`
	DBName      string `env:"DB_NAME" env-default:"shipos"`
	DBSSLMode   string `env:"DB_SSLMODE" env-default:"disable"`

	// JWT
	JWTSecret        string        `env:"JWT_SECRET"`
	JWTAccessExpiry  time.Duration `env:"JWT_ACCESS_EXPIRY" env-default:"15m"`
	JWTRefreshExpiry time.Duration `env:"JWT_REFRESH_EXPIRY" env-default:"168h"`

	// Payments
	StripeSecretKey     string `env:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`
	StripeAPIURL        string `env:"STRIPE_API_URL"`
	PlansConfigPath     string `env:"PLANS_CONFIG_PATH"`

	// Object storage
	S3Endpoint        string `env:"S3_ENDPOINT"`
	S3Region          string `env:"S3_REGION" env-default:"auto"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	AvatarsBucketName string `env:"AVATARS_BUCKET_NAME" env-default:"avatars"`

	// Mail
	ResendAPIKey  string `env:"RESEND_API_KEY"`
	MailFrom      string `env:"MAIL_FROM" env-default:"noreply@example.com"`
	ContactFormTo string `env:"CONTACT_FORM_TO" env-default:"contact@example.com"`

	// AI
	OpenAIAPIKey             string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL            string        `env:"OPENAI_BASE_URL" env-default:"https://api.openai.com/v1"`
	OpenAIModel              string        `env:"OPENAI_MODEL" env-default:"gpt-4o-mini"`
	OpenAIImageModel         string        `env:"OPENAI_IMAGE_MODEL" env-default:"dall-e-3"`
	OpenAITranscriptionModel string        `env:"OPENAI_TRANSCRIPTION_MODEL" env-default:"whisper-1"`
	AITimeout                time.Duration `env:"AI_TIMEOUT" env-default:"60s"`

	LogLevel      string `env:"LOG_LEVEL" env-default:"info"`
	RedisURL      string `env:"REDIS_URL"`
	SentryDSN     string `env:"SENTRY_DSN"`
	DefaultLocale string `env:"DEFAULT_LOCALE" env-default:"en"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read config from env: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.DatabaseURL == "" && c.DBPassword == "" {
		errs = append(errs, errors.New("DATABASE_URL or DB_PASSWORD is required"))
	}
	if c.StripeWebhookSecret == "" {
		errs = append(errs, errors.New("STRIPE_WEBHOOK_SECRET is required"))
	}
	return errors.Join(errs...)
}

func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// TracesSampleRate is the share of requests traced by Sentry.
func (c *Config) TracesSampleRate() float64 {
	if c.IsProduction() {
		return 0.2
	}
	return 1.0
}

// StorageBuckets lists the buckets signed URLs may be issued for.
func (c *Config) StorageBuckets() []string {
	return []string{c.AvatarsBucketName}
}
