package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/BigDee2008/FAQForge/models"
)

// QuotaWindow is the length of the window counted by CountByUserSince
const QuotaWindow = 24 * time.Hour

var (
	ErrNotFound      = errors.New("record not found")
	ErrUsernameTaken = errors.New("username already taken")
)

// FaqRepository persists generated FAQ records.
// Records are immutable once created; there is no update or delete.
type FaqRepository interface {
	// Create assigns ID and CreatedAt and stores the record
	Create(ctx context.Context, faq *models.FaqRecord) error

	// GetByID returns ErrNotFound for unknown ids
	GetByID(ctx context.Context, id int64) (*models.FaqRecord, error)

	// CountByUserSince counts records of userID created in [since, since+QuotaWindow)
	CountByUserSince(ctx context.Context, userID string, since time.Time) (int, error)
}

// UserRepository persists legacy user records
type UserRepository interface {
	Create(ctx context.Context, user *models.UserRecord) error
	GetByID(ctx context.Context, id int64) (*models.UserRecord, error)
	GetByUsername(ctx context.Context, username string) (*models.UserRecord, error)
}

// Store groups the repositories of one backend
type Store interface {
	Faqs() FaqRepository
	Users() UserRepository
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// Backend names a Store implementation
type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendPostgres Backend = "postgres"
	BackendSQLite   Backend = "sqlite"
	BackendRedis    Backend = "redis"
)

// StoreConfig holds configuration for the record store
type StoreConfig struct {
	Backend       Backend
	DatabaseURL   string // For postgres
	SQLitePath    string // For sqlite
	RedisAddr     string // For redis
	RedisPassword string
	RedisDB       int
	RedisTLS      bool
}

// NewStoreFromConfig opens the store selected by cfg.Backend
func NewStoreFromConfig(ctx context.Context, cfg StoreConfig, logger *slog.Logger) (Store, error) {
	switch cfg.Backend {
	case BackendMemory, "":
		return NewMemoryStore(), nil
	case BackendPostgres:
		return NewPostgresStore(ctx, cfg.DatabaseURL, logger)
	case BackendSQLite:
		return NewSQLiteStore(ctx, cfg.SQLitePath, logger)
	case BackendRedis:
		return NewRedisStore(RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			UseTLS:   cfg.RedisTLS,
		}, logger), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Backend)
	}
}
