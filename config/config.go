package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Способ вызова процедуры продвижения
const (
	AdvancementModeSQL = "sql"
	AdvancementModeRPC = "rpc"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL  string
	JWTSecretKey string
	ServerPort   int

	AdvancementMode      string
	AdvancementRPCURL    string
	AdvancementAPIKey    string
	AdvancementFunction  string
	AdvancementTimeout   time.Duration
	AdvancementRateLimit float64

	// RefreshDelay - задержка повторного обновления сетки после продвижения
	RefreshDelay       time.Duration
	CORSAllowedOrigins []string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds the config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		DatabaseURL:         getenv("DATABASE_URL"),
		JWTSecretKey:        getenv("JWT_SECRET_KEY"),
		AdvancementMode:     strings.ToLower(strings.TrimSpace(getenv("ADVANCEMENT_MODE"))),
		AdvancementRPCURL:   getenv("ADVANCEMENT_RPC_URL"),
		AdvancementAPIKey:   getenv("ADVANCEMENT_API_KEY"),
		AdvancementFunction: getenv("ADVANCEMENT_FUNCTION"),
		R2AccountID:         getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:       getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey:   getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:        getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:     getenv("R2_PUBLIC_BASE_URL"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}
	if cfg.JWTSecretKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	portStr := getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}
	cfg.ServerPort = port

	switch cfg.AdvancementMode {
	case "":
		cfg.AdvancementMode = AdvancementModeSQL
	case AdvancementModeSQL:
	case AdvancementModeRPC:
		if cfg.AdvancementRPCURL == "" {
			return nil, fmt.Errorf("ADVANCEMENT_RPC_URL is required when ADVANCEMENT_MODE=rpc")
		}
	default:
		return nil, fmt.Errorf("ADVANCEMENT_MODE must be %q or %q, got %q", AdvancementModeSQL, AdvancementModeRPC, cfg.AdvancementMode)
	}

	if cfg.AdvancementTimeout, err = durationVar(getenv, "ADVANCEMENT_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.RefreshDelay, err = durationVar(getenv, "REFRESH_DELAY", 2*time.Second); err != nil {
		return nil, err
	}

	if raw := getenv("ADVANCEMENT_RATE_LIMIT"); raw != "" {
		limit, err := strconv.ParseFloat(raw, 64)
		if err != nil || limit < 0 {
			return nil, fmt.Errorf("invalid ADVANCEMENT_RATE_LIMIT %q: must be a non-negative number", raw)
		}
		cfg.AdvancementRateLimit = limit
	}

	for _, origin := range strings.Split(getenv("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	return cfg, nil
}

func durationVar(getenv func(string) string, name string, def time.Duration) (time.Duration, error) {
	raw := getenv(name)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", name, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %s", name, d)
	}
	return d, nil
}
