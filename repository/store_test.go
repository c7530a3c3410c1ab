package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/BigDee2008/FAQForge/logging"
	"github.com/BigDee2008/FAQForge/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type storeFactory func(t *testing.T, clock *testClock) Store

var storeFactories = map[string]storeFactory{
	"memory": func(t *testing.T, clock *testClock) Store {
		return NewMemoryStore(MemoryWithClock(clock.Now))
	},
	"sqlite": func(t *testing.T, clock *testClock) Store {
		s, err := NewSQLiteStore(context.Background(), ":memory:", logging.Discard())
		require.NoError(t, err)
		s.SetClock(clock.Now)
		t.Cleanup(func() { s.Close() })
		return s
	},
}

func eachStore(t *testing.T, fn func(t *testing.T, store Store, clock *testClock)) {
	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			clock := &testClock{now: time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)}
			fn(t, factory(t, clock), clock)
		})
	}
}

func newRecord(userID string) *models.FaqRecord {
	return &models.FaqRecord{
		UserID:              userID,
		BusinessType:        "Bakery",
		BusinessDescription: "Fresh sourdough every morning",
		FaqStyle:            models.FaqStyleSimple,
		Questions: models.FaqQuestions{
			{Question: "Do you bake daily?", Answer: "Every morning at 5am."},
		},
		HTMLCode: "<div class=\"faq-section\"></div>",
		CSSCode:  ".faq-section {}",
	}
}

func TestStoreCreateAndGet(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store, clock *testClock) {
		ctx := context.Background()
		faqs := store.Faqs()

		website := "https://bakery.example.com"
		record := newRecord("u1")
		record.WebsiteURL = &website
		require.NoError(t, faqs.Create(ctx, record))
		assert.Equal(t, int64(1), record.ID)
		assert.True(t, record.CreatedAt.Equal(clock.Now()))

		got, err := faqs.GetByID(ctx, record.ID)
		require.NoError(t, err)
		assert.Equal(t, "u1", got.UserID)
		assert.Equal(t, "Bakery", got.BusinessType)
		assert.Equal(t, models.FaqStyleSimple, got.FaqStyle)
		assert.Equal(t, record.Questions, got.Questions)
		assert.Equal(t, record.HTMLCode, got.HTMLCode)
		assert.Equal(t, record.CSSCode, got.CSSCode)
		require.NotNil(t, got.WebsiteURL)
		assert.Equal(t, website, *got.WebsiteURL)
		assert.True(t, got.CreatedAt.Equal(record.CreatedAt))

		second := newRecord("u2")
		second.Questions = nil
		require.NoError(t, faqs.Create(ctx, second))
		assert.Equal(t, int64(2), second.ID)

		got, err = faqs.GetByID(ctx, second.ID)
		require.NoError(t, err)
		assert.Nil(t, got.WebsiteURL)
		assert.NotNil(t, got.Questions)
		assert.Empty(t, got.Questions)

		_, err = faqs.GetByID(ctx, 999999)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStoreCountWindow(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store, clock *testClock) {
		ctx := context.Background()
		faqs := store.Faqs()
		dayStart := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

		at := func(userID string, ts time.Time) {
			clock.Set(ts)
			require.NoError(t, faqs.Create(ctx, newRecord(userID)))
		}
		at("u1", dayStart.Add(-time.Nanosecond))             // previous day
		at("u1", dayStart)                                   // first instant counts
		at("u1", dayStart.Add(12*time.Hour))                 // midday
		at("u1", dayStart.Add(24*time.Hour-time.Nanosecond)) // last instant counts
		at("u1", dayStart.Add(24*time.Hour))                 // next day
		at("u2", dayStart.Add(time.Hour))                    // another user

		count, err := faqs.CountByUserSince(ctx, "u1", dayStart)
		require.NoError(t, err)
		assert.Equal(t, 3, count)

		count, err = faqs.CountByUserSince(ctx, "u2", dayStart)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		count, err = faqs.CountByUserSince(ctx, "nobody", dayStart)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}

func TestStoreConcurrentCreateAssignsUniqueIDs(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store, clock *testClock) {
		ctx := context.Background()
		const n = 25

		ids := make(chan int64, n)
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				record := newRecord("u1")
				if err := store.Faqs().Create(ctx, record); err == nil {
					ids <- record.ID
				}
			}()
		}
		wg.Wait()
		close(ids)

		seen := make(map[int64]bool)
		for id := range ids {
			assert.False(t, seen[id], "duplicate id %d", id)
			seen[id] = true
		}
		assert.Len(t, seen, n)
		for i := int64(1); i <= n; i++ {
			assert.True(t, seen[i], "missing id %d", i)
		}
	})
}

func TestStoreUsers(t *testing.T) {
	eachStore(t, func(t *testing.T, store Store, clock *testClock) {
		ctx := context.Background()
		users := store.Users()

		alice := &models.UserRecord{Username: "alice", Password: "hash"}
		require.NoError(t, users.Create(ctx, alice))
		assert.Equal(t, int64(1), alice.ID)

		err := users.Create(ctx, &models.UserRecord{Username: "alice", Password: "other"})
		assert.ErrorIs(t, err, ErrUsernameTaken)

		got, err := users.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, got.ID)
		assert.Equal(t, "hash", got.Password)

		got, err = users.GetByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Username)

		_, err = users.GetByUsername(ctx, "bob")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = users.GetByID(ctx, 42)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestNewStoreFromConfig(t *testing.T) {
	ctx := context.Background()

	store, err := NewStoreFromConfig(ctx, StoreConfig{}, logging.Discard())
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)
	assert.NoError(t, store.Ping(ctx))

	store, err = NewStoreFromConfig(ctx, StoreConfig{Backend: BackendSQLite, SQLitePath: ":memory:"}, logging.Discard())
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, store)
	require.NoError(t, store.Close())

	_, err = NewStoreFromConfig(ctx, StoreConfig{Backend: "cassandra"}, logging.Discard())
	assert.Error(t, err)
}
