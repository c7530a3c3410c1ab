package service

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockTextGenerator is a mock type for the TextGenerator interface
type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) GenerateJSON(ctx context.Context, prompt TextPrompt) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{now: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

const twoQuestionsJSON = `{"questions":[
	{"question":"What services do you offer?","answer":"Residential and commercial cleaning."},
	{"question":"Do you bring supplies?","answer":"Yes, all supplies are included."}
]}`
