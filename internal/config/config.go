package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every runtime setting. Values come from the environment, with
// optional .env files loaded first.
type Config struct {
	Env      string `envconfig:"APP_ENV" default:"local"`
	LogLevel string `envconfig:"APP_LOG_LEVEL" default:"info"`
	Port     string `envconfig:"PORT" default:"8080"`

	DBDriver    string `envconfig:"DB_DRIVER" default:"postgres"`
	DatabaseDSN string `envconfig:"DATABASE_DSN" required:"true"`

	RedisAddr     string `envconfig:"REDIS_ADDR" required:"true"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	JWTSecret      string        `envconfig:"JWT_SECRET" required:"true"`
	AccessTokenTTL time.Duration `envconfig:"ACCESS_TOKEN_TTL" default:"60m"`

	OTPTTL            time.Duration `envconfig:"OTP_TTL" default:"10m"`
	OTPResendInterval time.Duration `envconfig:"OTP_RESEND_INTERVAL" default:"60s"`

	SMTPHost  string `envconfig:"SMTP_HOST"`
	SMTPPort  int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser  string `envconfig:"SMTP_USER"`
	SMTPPass  string `envconfig:"SMTP_PASS"`
	FromEmail string `envconfig:"FROM_EMAIL" default:"admin@fieldbook.local"`

	RabbitURL       string `envconfig:"RABBIT_URL"`
	BookingExchange string `envconfig:"BOOKING_EXCHANGE" default:"booking.exchange"`

	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"fieldbook-api"`
}

// Load reads the given .env files (defaults to ".env") when they exist, then
// processes the environment.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("stat %s: %w", f, err)
		}
		if err := godotenv.Load(f); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, err
	}
	if err := c.normalize(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) normalize() error {
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	switch c.DBDriver {
	case "postgres":
	case "mysql":
		parsed, err := mysql.ParseDSN(c.DatabaseDSN)
		if err != nil {
			return fmt.Errorf("parse mysql dsn: %w", err)
		}
		parsed.ParseTime = true
		c.DatabaseDSN = parsed.FormatDSN()
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.AccessTokenTTL <= 0 {
		c.AccessTokenTTL = time.Hour
	}
	if c.OTPTTL <= 0 {
		c.OTPTTL = 10 * time.Minute
	}
	return nil
}

// Addr is the HTTP listen address.
func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// Local reports whether the service runs in a developer environment.
func (c Config) Local() bool {
	return c.Env == "local"
}
