package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/BigDee2008/FAQForge/metrics"
	"github.com/BigDee2008/FAQForge/models"
	"github.com/BigDee2008/FAQForge/repository"
)

// DefaultDailyLimit is the number of successful generations allowed per user per local day
const DefaultDailyLimit = 3

// FaqService enforces the daily quota and orchestrates generation and persistence
type FaqService struct {
	faqRepo    repository.FaqRepository
	generation *GenerationService
	dailyLimit int
	location   *time.Location
	now        func() time.Time
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// FaqServiceOption is a functional option for FaqService
type FaqServiceOption func(*FaqService)

// FaqWithRepository sets the FAQ repository
func FaqWithRepository(repo repository.FaqRepository) FaqServiceOption {
	return func(s *FaqService) {
		s.faqRepo = repo
	}
}

// FaqWithGenerationService sets the generation service
func FaqWithGenerationService(gen *GenerationService) FaqServiceOption {
	return func(s *FaqService) {
		s.generation = gen
	}
}

// FaqWithDailyLimit overrides DefaultDailyLimit
func FaqWithDailyLimit(limit int) FaqServiceOption {
	return func(s *FaqService) {
		s.dailyLimit = limit
	}
}

// FaqWithLocation sets the time zone whose midnight resets the quota
func FaqWithLocation(loc *time.Location) FaqServiceOption {
	return func(s *FaqService) {
		s.location = loc
	}
}

// FaqWithClock overrides the clock
func FaqWithClock(now func() time.Time) FaqServiceOption {
	return func(s *FaqService) {
		s.now = now
	}
}

// FaqWithLogger sets the logger
func FaqWithLogger(logger *slog.Logger) FaqServiceOption {
	return func(s *FaqService) {
		s.logger = logger
	}
}

// FaqWithMetrics sets the metrics registry
func FaqWithMetrics(m *metrics.Metrics) FaqServiceOption {
	return func(s *FaqService) {
		s.metrics = m
	}
}

// NewFaqService creates a new FAQ service
func NewFaqService(opts ...FaqServiceOption) *FaqService {
	s := &FaqService{
		dailyLimit: DefaultDailyLimit,
		location:   time.Local,
		now:        time.Now,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "faq")
	return s
}

// GenerateFaqResult is returned to the caller after a successful generation
type GenerateFaqResult struct {
	ID        int64               `json:"id"`
	Questions models.FaqQuestions `json:"questions"`
	HTMLCode  string              `json:"htmlCode"`
	CSSCode   string              `json:"cssCode"`
	Usage     models.Usage        `json:"usage"`
}

// GenerateFaq validates the input, checks the caller's daily quota, generates
// the FAQ and stores it. Nothing is stored unless every step succeeds.
//
// The quota is read once before generation and not re-checked afterwards, so
// concurrent requests from one user may briefly exceed the limit.
func (s *FaqService) GenerateFaq(ctx context.Context, userID string, input GenerateFaqInput) (*GenerateFaqResult, error) {
	if s.faqRepo == nil {
		return nil, errors.New("faq repository not set")
	}
	if s.generation == nil {
		return nil, errors.New("generation service not set")
	}

	userID = strings.TrimSpace(userID)
	if userID == "" {
		s.countOutcome("unauthenticated")
		return nil, ErrUnauthenticated
	}

	input = input.normalize()
	if err := validateInput(input); err != nil {
		s.countOutcome("invalid")
		return nil, err
	}

	now := s.now()
	dayStart := startOfDay(now, s.location)
	todayCount, err := s.faqRepo.CountByUserSince(ctx, userID, dayStart)
	if err != nil {
		s.countOutcome("error")
		return nil, fmt.Errorf("failed to count today's generations: %w", err)
	}

	if todayCount >= s.dailyLimit {
		s.countOutcome("quota")
		if s.metrics != nil {
			s.metrics.QuotaRejections.Inc()
		}
		s.logger.Info("daily limit reached", "user_id", userID, "count", todayCount, "limit", s.dailyLimit)
		return nil, &QuotaExceededError{
			Limit:     s.dailyLimit,
			ResetTime: nextMidnight(now, s.location),
		}
	}

	generated, err := s.generation.Generate(ctx, GenerationRequest{
		BusinessType:        input.BusinessType,
		BusinessDescription: input.BusinessDescription,
		WebsiteURL:          input.WebsiteURL,
		FaqStyle:            input.FaqStyle,
	})
	if err != nil {
		s.countOutcome("unavailable")
		return nil, err
	}

	record := &models.FaqRecord{
		UserID:              userID,
		BusinessType:        input.BusinessType,
		BusinessDescription: input.BusinessDescription,
		FaqStyle:            input.FaqStyle,
		Questions:           generated.Questions,
		HTMLCode:            generated.HTMLCode,
		CSSCode:             generated.CSSCode,
	}
	if input.WebsiteURL != "" {
		website := input.WebsiteURL
		record.WebsiteURL = &website
	}

	if err := s.faqRepo.Create(ctx, record); err != nil {
		s.countOutcome("error")
		return nil, fmt.Errorf("failed to store faq: %w", err)
	}

	s.countOutcome("success")
	if s.metrics != nil {
		s.metrics.FaqsCreated.WithLabelValues(string(record.FaqStyle)).Inc()
	}

	count := todayCount + 1
	s.logger.Info("faq generated",
		"faq_id", record.ID,
		"user_id", userID,
		"style", record.FaqStyle,
		"questions", len(record.Questions),
		"daily_count", count,
	)

	return &GenerateFaqResult{
		ID:        record.ID,
		Questions: record.Questions,
		HTMLCode:  record.HTMLCode,
		CSSCode:   record.CSSCode,
		Usage: models.Usage{
			Count:     count,
			Limit:     s.dailyLimit,
			Remaining: max(s.dailyLimit-count, 0),
		},
	}, nil
}

// GetFaq retrieves a stored FAQ by ID
func (s *FaqService) GetFaq(ctx context.Context, id int64) (*models.FaqRecord, error) {
	if s.faqRepo == nil {
		return nil, errors.New("faq repository not set")
	}

	faq, err := s.faqRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFaqNotFound
		}
		return nil, fmt.Errorf("failed to load faq %d: %w", id, err)
	}
	return faq, nil
}

func (s *FaqService) countOutcome(outcome string) {
	if s.metrics != nil {
		s.metrics.GenerationRequests.WithLabelValues(outcome).Inc()
	}
}

// startOfDay returns local midnight at the start of t's day in loc
func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// nextMidnight returns the local midnight that ends t's day in loc
func nextMidnight(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, loc)
}
