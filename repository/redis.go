package repository

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/BigDee2008/FAQForge/models"

	"github.com/redis/go-redis/v9"
)

const (
	redisFaqSeqKey   = "faqforge:faq:seq"
	redisUserSeqKey  = "faqforge:user:seq"
	redisFaqKeyFmt   = "faqforge:faq:%d"
	redisUserFaqsFmt = "faqforge:user:%s:faqs"
	redisUserKeyFmt  = "faqforge:user:%d"
	redisUsernameKey = "faqforge:username:%s"
)

// RedisConfig defines connection parameters for Redis
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	UseTLS   bool
}

// RedisStore keeps records as JSON values. Each user has a sorted set of
// FAQ ids scored by creation time in unix milliseconds, which backs the
// quota window count.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
	logger *slog.Logger
}

// NewRedisStore returns a Redis-backed store based on provided configuration
func NewRedisStore(cfg RedisConfig, logger *slog.Logger) *RedisStore {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.UseTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return NewRedisStoreWithClient(redis.NewClient(opts), logger)
}

// NewRedisStoreWithClient wraps an existing go-redis client
func NewRedisStoreWithClient(client *redis.Client, logger *slog.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		now:    time.Now,
		logger: logger.With("component", "redis"),
	}
}

func (s *RedisStore) Faqs() FaqRepository   { return redisFaqs{s} }
func (s *RedisStore) Users() UserRepository { return redisUsers{s} }

func (s *RedisStore) Migrate(ctx context.Context) error { return nil }

// Ping verifies Redis connectivity
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) getJSON(ctx context.Context, key string, dest any) error {
	res, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		return fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(res), dest); err != nil {
		return fmt.Errorf("json unmarshal: %w", err)
	}
	return nil
}

type redisFaqs struct{ s *RedisStore }

func (r redisFaqs) Create(ctx context.Context, faq *models.FaqRecord) error {
	id, err := r.s.client.Incr(ctx, redisFaqSeqKey).Result()
	if err != nil {
		return fmt.Errorf("redis incr faq id: %w", err)
	}
	faq.ID = id
	faq.CreatedAt = r.s.now()
	if faq.Questions == nil {
		faq.Questions = make(models.FaqQuestions, 0)
	}

	data, err := json.Marshal(faq)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}

	_, err = r.s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, fmt.Sprintf(redisFaqKeyFmt, id), data, 0)
		pipe.ZAdd(ctx, fmt.Sprintf(redisUserFaqsFmt, faq.UserID), redis.Z{
			Score:  float64(faq.CreatedAt.UnixMilli()),
			Member: id,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis store faq %d: %w", id, err)
	}
	return nil
}

func (r redisFaqs) GetByID(ctx context.Context, id int64) (*models.FaqRecord, error) {
	faq := &models.FaqRecord{}
	if err := r.s.getJSON(ctx, fmt.Sprintf(redisFaqKeyFmt, id), faq); err != nil {
		return nil, err
	}
	return faq, nil
}

func (r redisFaqs) CountByUserSince(ctx context.Context, userID string, since time.Time) (int, error) {
	lower := strconv.FormatInt(since.UnixMilli(), 10)
	upper := "(" + strconv.FormatInt(since.Add(QuotaWindow).UnixMilli(), 10)

	count, err := r.s.client.ZCount(ctx, fmt.Sprintf(redisUserFaqsFmt, userID), lower, upper).Result()
	if err != nil {
		return 0, fmt.Errorf("redis zcount: %w", err)
	}
	return int(count), nil
}

type redisUsers struct{ s *RedisStore }

// models.UserRecord hides the password from JSON, so users get their own document
type redisUserDoc struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r redisUsers) Create(ctx context.Context, user *models.UserRecord) error {
	id, err := r.s.client.Incr(ctx, redisUserSeqKey).Result()
	if err != nil {
		return fmt.Errorf("redis incr user id: %w", err)
	}

	data, err := json.Marshal(redisUserDoc{ID: id, Username: user.Username, Password: user.Password})
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}

	nameKey := fmt.Sprintf(redisUsernameKey, user.Username)
	claimed, err := r.s.client.SetNX(ctx, nameKey, id, 0).Result()
	if err != nil {
		return fmt.Errorf("redis claim username: %w", err)
	}
	if !claimed {
		return ErrUsernameTaken
	}

	if err := r.s.client.Set(ctx, fmt.Sprintf(redisUserKeyFmt, id), data, 0).Err(); err != nil {
		// release the name so a retry can claim it
		if delErr := r.s.client.Del(context.WithoutCancel(ctx), nameKey).Err(); delErr != nil {
			return fmt.Errorf("redis set user: %w (release username: %v)", err, delErr)
		}
		return fmt.Errorf("redis set user: %w", err)
	}
	user.ID = id
	return nil
}

func (r redisUsers) GetByID(ctx context.Context, id int64) (*models.UserRecord, error) {
	var stored redisUserDoc
	if err := r.s.getJSON(ctx, fmt.Sprintf(redisUserKeyFmt, id), &stored); err != nil {
		return nil, err
	}
	return &models.UserRecord{ID: stored.ID, Username: stored.Username, Password: stored.Password}, nil
}

func (r redisUsers) GetByUsername(ctx context.Context, username string) (*models.UserRecord, error) {
	id, err := r.s.client.Get(ctx, fmt.Sprintf(redisUsernameKey, username)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis get username: %w", err)
	}
	return r.GetByID(ctx, id)
}
