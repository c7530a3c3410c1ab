package repository

import (
	"context"
	"sync"
	"time"

	"github.com/BigDee2008/FAQForge/models"
)

// MemoryStore keeps records in process memory. Nothing survives a restart.
type MemoryStore struct {
	mu         sync.RWMutex
	faqs       map[int64]*models.FaqRecord
	users      map[int64]*models.UserRecord
	nextFaqID  int64
	nextUserID int64
	now        func() time.Time
}

// MemoryStoreOption is a functional option for MemoryStore
type MemoryStoreOption func(*MemoryStore)

// MemoryWithClock overrides the clock used for CreatedAt
func MemoryWithClock(now func() time.Time) MemoryStoreOption {
	return func(s *MemoryStore) {
		s.now = now
	}
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		faqs:       make(map[int64]*models.FaqRecord),
		users:      make(map[int64]*models.UserRecord),
		nextFaqID:  1,
		nextUserID: 1,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Faqs() FaqRepository   { return memoryFaqs{s} }
func (s *MemoryStore) Users() UserRepository { return memoryUsers{s} }

func (s *MemoryStore) Migrate(ctx context.Context) error { return nil }
func (s *MemoryStore) Ping(ctx context.Context) error    { return nil }
func (s *MemoryStore) Close() error                      { return nil }

type memoryFaqs struct{ s *MemoryStore }

func (r memoryFaqs) Create(ctx context.Context, faq *models.FaqRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	faq.ID = r.s.nextFaqID
	r.s.nextFaqID++
	faq.CreatedAt = r.s.now()
	if faq.Questions == nil {
		faq.Questions = make(models.FaqQuestions, 0)
	}

	stored := *faq
	stored.Questions = append(models.FaqQuestions(nil), faq.Questions...)
	r.s.faqs[faq.ID] = &stored
	return nil
}

func (r memoryFaqs) GetByID(ctx context.Context, id int64) (*models.FaqRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	faq, ok := r.s.faqs[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *faq
	out.Questions = append(make(models.FaqQuestions, 0, len(faq.Questions)), faq.Questions...)
	return &out, nil
}

func (r memoryFaqs) CountByUserSince(ctx context.Context, userID string, since time.Time) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	until := since.Add(QuotaWindow)
	count := 0
	for _, faq := range r.s.faqs {
		if faq.UserID != userID {
			continue
		}
		if !faq.CreatedAt.Before(since) && faq.CreatedAt.Before(until) {
			count++
		}
	}
	return count, nil
}

type memoryUsers struct{ s *MemoryStore }

func (r memoryUsers) Create(ctx context.Context, user *models.UserRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Username == user.Username {
			return ErrUsernameTaken
		}
	}

	user.ID = r.s.nextUserID
	r.s.nextUserID++
	stored := *user
	r.s.users[user.ID] = &stored
	return nil
}

func (r memoryUsers) GetByID(ctx context.Context, id int64) (*models.UserRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *user
	return &out, nil
}

func (r memoryUsers) GetByUsername(ctx context.Context, username string) (*models.UserRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, user := range r.s.users {
		if user.Username == username {
			out := *user
			return &out, nil
		}
	}
	return nil, ErrNotFound
}
