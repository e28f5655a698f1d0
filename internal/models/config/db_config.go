package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"trame-planner/internal/models"
)

// DatabaseConfig конфигурация БД
type DatabaseConfig struct {
	Host     string `validate:"required"`
	Port     int    `validate:"min=1,max=65535"`
	Username string `validate:"required"`
	Password string
	Name     string `validate:"required"`
	SSLMode  string `validate:"oneof=disable require verify-ca verify-full"`
}

// DSN returns the lib/pq connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.Username, c.Password, c.Name, c.SSLMode,
	)
}

// Load reads the configuration from the environment, after loading the
// optional .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	env := getEnv("APP_ENV", "development")

	weekStart, err := getEnvAsDate("MODEL_WEEK_START", models.DefaultModelWeekStart)
	if err != nil {
		return nil, err
	}
	port, err := getEnvAsInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}
	retention, err := getEnvAsDuration("JOB_RETENTION", time.Minute)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Environment: env,
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     port,
			Username: getEnv("DB_USER", ""),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "trames"),
			SSLMode:  getEnv("DB_SSLMODE", getSSLMode(env)),
		},
		Notifier: NotifierConfig{
			Token:    getEnv("BOT_TOKEN", ""),
			Debug:    getEnvAsBool("BOT_DEBUG", false),
			AdminIDs: parseAdminIDs(getEnv("ADMIN_IDS", "")),
		},
		Duplication: DuplicationConfig{
			ModelWeekStart: weekStart,
			JobRetention:   retention,
		},
	}

	return cfg, validate(cfg)
}

// validate проверяет обязательные параметры
func validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("config validation failed: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Database.Password == "" && cfg.IsProduction() {
		return errors.New("config validation failed: DB_PASSWORD is required in production")
	}
	if models.WeekdayIndex(cfg.Duplication.ModelWeekStart) != 0 {
		return fmt.Errorf("config validation failed: MODEL_WEEK_START %s is not a Monday",
			cfg.Duplication.ModelWeekStart.Format(time.DateOnly))
	}

	return nil
}

func getSSLMode(env string) string {
	if env == "production" {
		return "require"
	}
	return "disable"
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func getEnvAsBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func getEnvAsDate(key string, fallback time.Time) (time.Time, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	d, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

// parseAdminIDs парсит список ID администраторов
func parseAdminIDs(ids string) []int64 {
	if ids == "" {
		return []int64{}
	}

	var result []int64
	for _, idStr := range strings.Split(ids, ",") {
		if id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64); err == nil {
			result = append(result, id)
		}
	}
	return result
}
