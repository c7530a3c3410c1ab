package repository

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/BigDee2008/FAQForge/logging"
	"github.com/BigDee2008/FAQForge/models"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRedis answers commands in-process so no server is needed
type scriptedRedis struct {
	taken   bool
	failSet error
	calls   []string
}

func (h *scriptedRedis) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, errors.New("no network in tests")
	}
}

func (h *scriptedRedis) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		h.calls = append(h.calls, cmd.Name())
		switch c := cmd.(type) {
		case *redis.IntCmd:
			c.SetVal(1)
		case *redis.BoolCmd:
			c.SetVal(!h.taken)
		case *redis.StatusCmd:
			if h.failSet != nil {
				c.SetErr(h.failSet)
				return h.failSet
			}
			c.SetVal("OK")
		}
		return nil
	}
}

func (h *scriptedRedis) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func newScriptedRedisStore(t *testing.T, h *scriptedRedis) *RedisStore {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	client.AddHook(h)
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStoreWithClient(client, logging.Discard())
}

func TestRedisUserCreate(t *testing.T) {
	h := &scriptedRedis{}
	store := newScriptedRedisStore(t, h)

	user := &models.UserRecord{Username: "alice", Password: "hash"}
	require.NoError(t, store.Users().Create(context.Background(), user))
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, []string{"incr", "setnx", "set"}, h.calls)
}

func TestRedisUserCreateTakenName(t *testing.T) {
	h := &scriptedRedis{taken: true}
	store := newScriptedRedisStore(t, h)

	err := store.Users().Create(context.Background(), &models.UserRecord{Username: "alice", Password: "hash"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.NotContains(t, h.calls, "set")
}

func TestRedisUserCreateReleasesNameOnWriteFailure(t *testing.T) {
	h := &scriptedRedis{failSet: errors.New("OOM command not allowed")}
	store := newScriptedRedisStore(t, h)

	user := &models.UserRecord{Username: "alice", Password: "hash"}
	err := store.Users().Create(context.Background(), user)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OOM")
	assert.Zero(t, user.ID)
	assert.Equal(t, []string{"incr", "setnx", "set", "del"}, h.calls)
}
