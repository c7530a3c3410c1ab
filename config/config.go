package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/BigDee2008/FAQForge/repository"
	"github.com/BigDee2008/FAQForge/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application's configuration.
type Config struct {
	Port     string
	AppEnv   string
	LogLevel string
	GinMode  string

	DailyLimit    int
	QuotaLocation *time.Location

	Store   repository.StoreConfig
	Storage storage.StorageConfig

	GeminiAPIKey string
	GeminiModel  string

	// AuthTokens maps bearer tokens to user ids; empty means tokens are user ids
	AuthTokens map[string]string

	MetricsNamespace string
}

// Load reads .env files, then environment variables (and CONFIG_FILE, if set)
// through viper, applying defaults for anything missing.
func Load() (*Config, error) {
	// Try current directory first, then project root (relative to cmd/<binary>/)
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../../.env"); err != nil {
			slog.Debug("no .env file found, using environment variables")
		}
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if file := os.Getenv("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("GIN_MODE", "")
	v.SetDefault("DAILY_LIMIT", 3)
	v.SetDefault("QUOTA_TIMEZONE", "")
	v.SetDefault("STORE_BACKEND", string(repository.BackendMemory))
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("SQLITE_PATH", "./data/faqforge.db")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_TLS", false)
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-2.0-flash")
	v.SetDefault("STORAGE_TYPE", string(storage.StorageTypeLocal))
	v.SetDefault("STORAGE_LOCAL_PATH", "./storage/files")
	v.SetDefault("AWS_S3_BUCKET", "")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("AWS_ACCESS_KEY_ID", "")
	v.SetDefault("AWS_SECRET_ACCESS_KEY", "")
	v.SetDefault("AUTH_TOKENS", "")
	v.SetDefault("METRICS_NAMESPACE", "faqforge")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:       v.GetString("PORT"),
		AppEnv:     v.GetString("APP_ENV"),
		LogLevel:   v.GetString("LOG_LEVEL"),
		GinMode:    v.GetString("GIN_MODE"),
		DailyLimit: v.GetInt("DAILY_LIMIT"),
		Store: repository.StoreConfig{
			Backend:       repository.Backend(strings.ToLower(v.GetString("STORE_BACKEND"))),
			DatabaseURL:   v.GetString("DATABASE_URL"),
			SQLitePath:    v.GetString("SQLITE_PATH"),
			RedisAddr:     v.GetString("REDIS_ADDR"),
			RedisPassword: v.GetString("REDIS_PASSWORD"),
			RedisDB:       v.GetInt("REDIS_DB"),
			RedisTLS:      v.GetBool("REDIS_TLS"),
		},
		Storage: storage.StorageConfig{
			Type:         storage.StorageType(strings.ToLower(v.GetString("STORAGE_TYPE"))),
			LocalPath:    v.GetString("STORAGE_LOCAL_PATH"),
			S3Bucket:     v.GetString("AWS_S3_BUCKET"),
			S3Region:     v.GetString("AWS_REGION"),
			AWSAccessKey: v.GetString("AWS_ACCESS_KEY_ID"),
			AWSSecretKey: v.GetString("AWS_SECRET_ACCESS_KEY"),
		},
		GeminiAPIKey:     v.GetString("GEMINI_API_KEY"),
		GeminiModel:      v.GetString("GEMINI_MODEL"),
		MetricsNamespace: v.GetString("METRICS_NAMESPACE"),
	}

	if cfg.DailyLimit <= 0 {
		return nil, fmt.Errorf("DAILY_LIMIT must be positive, got %d", cfg.DailyLimit)
	}

	switch cfg.Store.Backend {
	case repository.BackendMemory, repository.BackendPostgres, repository.BackendSQLite, repository.BackendRedis:
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND: %s", cfg.Store.Backend)
	}

	loc := time.Local
	if name := v.GetString("QUOTA_TIMEZONE"); name != "" {
		var err error
		loc, err = time.LoadLocation(name)
		if err != nil {
			return nil, fmt.Errorf("invalid QUOTA_TIMEZONE %q: %w", name, err)
		}
	}
	cfg.QuotaLocation = loc

	tokens, err := parseAuthTokens(v.GetString("AUTH_TOKENS"))
	if err != nil {
		return nil, err
	}
	cfg.AuthTokens = tokens

	return cfg, nil
}

// parseAuthTokens parses "token:user,token2:user2"
func parseAuthTokens(raw string) (map[string]string, error) {
	tokens := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		token, user, ok := strings.Cut(pair, ":")
		token, user = strings.TrimSpace(token), strings.TrimSpace(user)
		if !ok || token == "" || user == "" {
			return nil, fmt.Errorf("invalid AUTH_TOKENS entry %q, want token:user", pair)
		}
		tokens[token] = user
	}
	return tokens, nil
}
