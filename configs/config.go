package configs

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	MongoURI  string `validate:"required"`
	MongoName string `validate:"required"`
	Port      string `validate:"required,numeric"`

	RegistrationsPageSize int64 `validate:"min=1"`
	VolunteersPageSize    int64 `validate:"min=1"`
	MaxPageSize           int64 `validate:"min=1,gtefield=RegistrationsPageSize,gtefield=VolunteersPageSize"`
	ExportRetries         int   `validate:"min=1,max=10"`
	DateLocale            string

	LogLevel  string `validate:"omitempty,oneof=trace debug info warn error"`
	LogPretty bool
}

// LoadEnv reads .env when present; variables already set in the environment win.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file, using process environment")
	}
}

func Load() (*Config, error) {
	c := &Config{
		MongoURI:  os.Getenv("MONGODB_URI"),
		MongoName: os.Getenv("MONGODB_NAME"),
		Port:      getEnv("PORT", "8080"),

		DateLocale: getEnv("CSV_DATE_LOCALE", "en_US"),
		LogLevel:   os.Getenv("LOG_LEVEL"),
		LogPretty:  os.Getenv("LOG_PRETTY") == "true",
	}

	var err error
	if c.RegistrationsPageSize, err = getInt64("REGISTRATIONS_PAGE_SIZE", 10); err != nil {
		return nil, err
	}
	if c.VolunteersPageSize, err = getInt64("VOLUNTEERS_PAGE_SIZE", 50); err != nil {
		return nil, err
	}
	if c.MaxPageSize, err = getInt64("MAX_PAGE_SIZE", 200); err != nil {
		return nil, err
	}
	retries, err := getInt64("EXPORT_RETRIES", 3)
	if err != nil {
		return nil, err
	}
	c.ExportRetries = int(retries)

	if err := validator.New().Struct(c); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return c, nil
}

// SetupLogger configures the global zerolog logger.
func (c *Config) SetupLogger() {
	level := zerolog.InfoLevel
	if c.LogLevel != "" {
		if l, err := zerolog.ParseLevel(c.LogLevel); err == nil {
			level = l
		}
	}
	zerolog.SetGlobalLevel(level)

	if c.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return i, nil
}
