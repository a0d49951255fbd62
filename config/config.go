package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	StorageDriver string
	DatabaseURL   string
	ServerPort    int
	LogLevel      slog.Level

	JWTSecretKey string
	JWTTTL       time.Duration
	AuthRequired bool

	CORSAllowedOrigins []string
	AuthRateLimit      int

	ReferralBonus      decimal.Decimal
	ReferralBonusCoins int
	LeaderboardLimit   int

	AutoStatusUpdates  bool
	AutoStatusInterval time.Duration

	NATSURL   string
	NATSToken string

	RedisURL            string
	LeaderboardCacheTTL time.Duration

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string

	SeedDemoData      bool
	SeedAdminUsername string
	SeedAdminEmail    string
	SeedAdminPassword string
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv собирает конфигурацию через произвольную функцию поиска,
// тестам не нужно трогать окружение процесса.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		DatabaseURL:       getenv("DATABASE_URL"),
		JWTSecretKey:      getenv("JWT_SECRET_KEY"),
		NATSURL:           getenv("NATS_URL"),
		NATSToken:         getenv("NATS_TOKEN"),
		RedisURL:          getenv("REDIS_URL"),
		R2AccountID:       getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   getenv("R2_PUBLIC_BASE_URL"),
	}

	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(getenv("STORAGE_DRIVER")))
	if cfg.StorageDriver == "" {
		if cfg.DatabaseURL != "" {
			cfg.StorageDriver = StoragePostgres
		} else {
			cfg.StorageDriver = StorageMemory
		}
	}
	switch cfg.StorageDriver {
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
		}
	case StorageMemory:
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	if cfg.JWTSecretKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	var err error
	if cfg.ServerPort, err = intVar(getenv, "SERVER_PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.ServerPort <= 0 || cfg.ServerPort > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", cfg.ServerPort)
	}

	if cfg.LogLevel, err = logLevel(getenv("LOG_LEVEL")); err != nil {
		return nil, err
	}
	if cfg.JWTTTL, err = durationVar(getenv, "JWT_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.AuthRequired, err = boolVar(getenv, "AUTH_REQUIRED", false); err != nil {
		return nil, err
	}

	cfg.CORSAllowedOrigins = splitList(getenv("CORS_ALLOWED_ORIGINS"))
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}

	if cfg.AuthRateLimit, err = intVar(getenv, "AUTH_RATE_LIMIT", 20); err != nil {
		return nil, err
	}
	if cfg.AuthRateLimit <= 0 {
		return nil, fmt.Errorf("AUTH_RATE_LIMIT must be positive, got %d", cfg.AuthRateLimit)
	}

	bonus := getenv("REFERRAL_BONUS")
	if bonus == "" {
		bonus = "10.00"
	}
	if cfg.ReferralBonus, err = decimal.NewFromString(bonus); err != nil {
		return nil, fmt.Errorf("invalid REFERRAL_BONUS: %w", err)
	}
	if cfg.ReferralBonus.IsNegative() {
		return nil, fmt.Errorf("REFERRAL_BONUS must not be negative")
	}
	if cfg.ReferralBonusCoins, err = intVar(getenv, "REFERRAL_BONUS_COINS", 50); err != nil {
		return nil, err
	}
	if cfg.ReferralBonusCoins < 0 {
		return nil, fmt.Errorf("REFERRAL_BONUS_COINS must not be negative")
	}

	if cfg.LeaderboardLimit, err = intVar(getenv, "LEADERBOARD_LIMIT", 50); err != nil {
		return nil, err
	}
	if cfg.LeaderboardLimit <= 0 {
		return nil, fmt.Errorf("LEADERBOARD_LIMIT must be positive, got %d", cfg.LeaderboardLimit)
	}

	if cfg.AutoStatusUpdates, err = boolVar(getenv, "AUTO_STATUS_UPDATES", false); err != nil {
		return nil, err
	}
	if cfg.AutoStatusInterval, err = durationVar(getenv, "AUTO_STATUS_INTERVAL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.LeaderboardCacheTTL, err = durationVar(getenv, "LEADERBOARD_CACHE_TTL", 30*time.Second); err != nil {
		return nil, err
	}

	if cfg.SeedDemoData, err = boolVar(getenv, "SEED_DEMO_DATA", cfg.StorageDriver == StorageMemory); err != nil {
		return nil, err
	}

	cfg.SeedAdminUsername = stringVar(getenv, "SEED_ADMIN_USERNAME", "admin")
	cfg.SeedAdminEmail = stringVar(getenv, "SEED_ADMIN_EMAIL", "admin@arena.local")
	cfg.SeedAdminPassword = stringVar(getenv, "SEED_ADMIN_PASSWORD", "admin123")

	if err := cfg.validateR2(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// R2Enabled сообщает, заданы ли параметры Cloudflare R2.
func (c *Config) R2Enabled() bool {
	return c.R2AccountID != ""
}

func (c *Config) validateR2() error {
	fields := []string{c.R2AccountID, c.R2AccessKeyID, c.R2SecretAccessKey, c.R2BucketName, c.R2PublicBaseURL}
	set := 0
	for _, f := range fields {
		if f != "" {
			set++
		}
	}
	if set != 0 && set != len(fields) {
		return fmt.Errorf("R2 configuration is partial: set all R2_* variables or none")
	}
	return nil
}

func stringVar(getenv func(string) string, key, def string) string {
	if v := strings.TrimSpace(getenv(key)); v != "" {
		return v
	}
	return def
}

func intVar(getenv func(string) string, key string, def int) (int, error) {
	raw := getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return v, nil
}

func boolVar(getenv func(string) string, key string, def bool) (bool, error) {
	raw := getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return v, nil
}

func durationVar(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	raw := getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, v)
	}
	return v, nil
}

func logLevel(raw string) (slog.Level, error) {
	switch strings.ToLower(raw) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid LOG_LEVEL %q", raw)
	}
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
