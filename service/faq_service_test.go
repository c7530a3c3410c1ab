package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/BigDee2008/FAQForge/logging"
	"github.com/BigDee2008/FAQForge/models"
	"github.com/BigDee2008/FAQForge/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var validInput = GenerateFaqInput{
	BusinessType:        "Cleaning Service",
	BusinessDescription: "Residential and commercial cleaning in Austin",
}

type faqFixture struct {
	svc   *FaqService
	gen   *MockTextGenerator
	store *repository.MemoryStore
	clock *fakeClock
}

func newFaqFixture(t *testing.T, opts ...FaqServiceOption) *faqFixture {
	t.Helper()
	clock := newFakeClock(time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC))
	store := repository.NewMemoryStore(repository.MemoryWithClock(clock.Now))
	gen := new(MockTextGenerator)

	base := []FaqServiceOption{
		FaqWithRepository(store.Faqs()),
		FaqWithGenerationService(NewGenerationService(gen, logging.Discard())),
		FaqWithLocation(time.UTC),
		FaqWithClock(clock.Now),
		FaqWithLogger(logging.Discard()),
	}
	return &faqFixture{
		svc:   NewFaqService(append(base, opts...)...),
		gen:   gen,
		store: store,
		clock: clock,
	}
}

func (f *faqFixture) storedCount(t *testing.T, userID string) int {
	t.Helper()
	n, err := f.store.Faqs().CountByUserSince(context.Background(), userID, startOfDay(f.clock.Now(), time.UTC))
	require.NoError(t, err)
	return n
}

func TestGenerateFaqFirstOfDay(t *testing.T) {
	f := newFaqFixture(t)
	f.gen.On("GenerateJSON", mock.Anything, mock.Anything).Return(twoQuestionsJSON, nil)

	result, err := f.svc.GenerateFaq(context.Background(), "u1", validInput)
	require.NoError(t, err)

	assert.Equal(t, int64(1), result.ID)
	assert.Len(t, result.Questions, 2)
	assert.Equal(t, models.Usage{Count: 1, Limit: 3, Remaining: 2}, result.Usage)
	assert.Contains(t, result.HTMLCode, "toggleFaq(0)")
	assert.Contains(t, result.CSSCode, ".faq-answer")

	stored, err := f.svc.GetFaq(context.Background(), result.ID)
	require.NoError(t, err)
	assert.Equal(t, "u1", stored.UserID)
	assert.Equal(t, models.FaqStyleAccordion, stored.FaqStyle)
	assert.Nil(t, stored.WebsiteURL)
	assert.Equal(t, result.HTMLCode, stored.HTMLCode)
	assert.Equal(t, result.CSSCode, stored.CSSCode)
}

func TestGenerateFaqStoresWebsiteAndStyle(t *testing.T) {
	f := newFaqFixture(t)
	f.gen.On("GenerateJSON", mock.Anything, mock.Anything).Return(twoQuestionsJSON, nil)

	input := validInput
	input.WebsiteURL = "https://clean.example.com"
	input.FaqStyle = models.FaqStyleSimple

	result, err := f.svc.GenerateFaq(context.Background(), "u1", input)
	require.NoError(t, err)
	assert.Contains(t, result.HTMLCode, "faq-list")
	assert.NotContains(t, result.HTMLCode, "toggleFaq")

	stored, err := f.svc.GetFaq(context.Background(), result.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.WebsiteURL)
	assert.Equal(t, "https://clean.example.com", *stored.WebsiteURL)
	assert.Equal(t, models.FaqStyleSimple, stored.FaqStyle)

	// the website is passed through to the prompt
	prompt := f.gen.Calls[0].Arguments.Get(1).(TextPrompt)
	assert.Contains(t, prompt.User, "Website: https://clean.example.com")
}

func TestGenerateFaqKeepsFieldsAsSent(t *testing.T) {
	f := newFaqFixture(t)
	f.gen.On("GenerateJSON", mock.Anything, mock.Anything).Return(twoQuestionsJSON, nil)

	// 13 characters including the padding
	input := GenerateFaqInput{
		BusinessType:        " Bakery ",
		BusinessDescription: "   Bread!!   ",
		WebsiteURL:          "   ",
	}
	result, err := f.svc.GenerateFaq(context.Background(), "u1", input)
	require.NoError(t, err)

	stored, err := f.svc.GetFaq(context.Background(), result.ID)
	require.NoError(t, err)
	assert.Equal(t, " Bakery ", stored.BusinessType)
	assert.Equal(t, "   Bread!!   ", stored.BusinessDescription)
	assert.Nil(t, stored.WebsiteURL)
}

func TestGenerateFaqDailyLimit(t *testing.T) {
	f := newFaqFixture(t)
	f.gen.On("GenerateJSON", mock.Anything, mock.Anything).Return(twoQuestionsJSON, nil)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		result, err := f.svc.GenerateFaq(ctx, "u1", validInput)
		require.NoError(t, err)
		assert.Equal(t, i, result.Usage.Count)
		assert.Equal(t, 3-i, result.Usage.Remaining)
		f.clock.Advance(time.Minute)
	}

	_, err := f.svc.GenerateFaq(ctx, "u1", validInput)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	var quotaErr *QuotaExceededError
	require.True(t, errors.As(err, &quotaErr))
	assert.Equal(t, 3, quotaErr.Limit)
	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), quotaErr.ResetTime)

	// the rejected request never reached the generator or the store
	f.gen.AssertNumberOfCalls(t, "GenerateJSON", 3)
	assert.Equal(t, 3, f.storedCount(t, "u1"))
}

func TestGenerateFaqLimitIsPerUser(t *testing.T) {
	f := newFaqFixture(t, FaqWithDailyLimit(1))
	f.gen.On("GenerateJSON", mock.Anything, mock.Anything).Return(twoQuestionsJSON, nil)
	ctx := context.Background()

	_, err := f.svc.GenerateFaq(ctx, "u1", validInput)
	require.NoError(t, err)

	_, err = f.svc.GenerateFaq(ctx, "u1", validInput)
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	result, err := f.svc.GenerateFaq(ctx, "u2", validInput)
	require.NoError(t, err)
	assert.Equal(t, models.Usage{Count: 1, Limit: 1, Remaining: 0}, result.Usage)
}

func TestGenerateFaqResetsAtMidnight(t *testing.T) {
	f := newFaqFixture(t, FaqWithDailyLimit(1))
	f.gen.On("GenerateJSON", mock.Anything, mock.Anything).Return(twoQuestionsJSON, nil)
	ctx := context.Background()

	_, err := f.svc.GenerateFaq(ctx, "u1", validInput)
	require.NoError(t, err)

	// 23:59:59 the same day is still limited
	f.clock.Advance(13*time.Hour + 59*time.Minute + 59*time.Second)
	_, err = f.svc.GenerateFaq(ctx, "u1", validInput)
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	// exactly midnight starts a new day
	f.clock.Advance(time.Second)
	result, err := f.svc.GenerateFaq(ctx, "u1", validInput)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Usage.Count)
}

func TestGenerateFaqUsesQuotaTimezone(t *testing.T) {
	// UTC+10: 15:00 UTC on March 14 is already 01:00 on March 15 locally
	loc := time.FixedZone("AEST", 10*60*60)
	f := newFaqFixture(t, FaqWithLocation(loc), FaqWithDailyLimit(1))
	f.gen.On("GenerateJSON", mock.Anything, mock.Anything).Return(twoQuestionsJSON, nil)
	ctx := context.Background()

	_, err := f.svc.GenerateFaq(ctx, "u1", validInput) // 20:00 local, March 14
	require.NoError(t, err)

	f.clock.Advance(5 * time.Hour) // 01:00 local, March 15
	_, err = f.svc.GenerateFaq(ctx, "u1", validInput)
	require.NoError(t, err)

	_, err = f.svc.GenerateFaq(ctx, "u1", validInput)
	var quotaErr *QuotaExceededError
	require.True(t, errors.As(err, &quotaErr))
	assert.True(t, quotaErr.ResetTime.Equal(time.Date(2025, 3, 16, 0, 0, 0, 0, loc)))
}

func TestGenerateFaqRejectsInvalidInput(t *testing.T) {
	f := newFaqFixture(t)

	tests := []struct {
		name  string
		input GenerateFaqInput
		want  []string
	}{
		{
			name:  "empty",
			input: GenerateFaqInput{},
			want:  []string{"businessType is required", "businessDescription must be at least 10 characters"},
		},
		{
			name:  "short description",
			input: GenerateFaqInput{BusinessType: "Bakery", BusinessDescription: "Bread"},
			want:  []string{"businessDescription must be at least 10 characters"},
		},
		{
			name: "bad url",
			input: GenerateFaqInput{
				BusinessType:        "Bakery",
				BusinessDescription: "Fresh sourdough every morning",
				WebsiteURL:          "not a url",
			},
			want: []string{"websiteUrl must be a valid URL"},
		},
		{
			name: "unknown style",
			input: GenerateFaqInput{
				BusinessType:        "Bakery",
				BusinessDescription: "Fresh sourdough every morning",
				FaqStyle:            "carousel",
			},
			want: []string{"faqStyle must be one of: accordion, simple"},
		},
		{
			name: "empty type and short description",
			input: GenerateFaqInput{
				BusinessType:        "",
				BusinessDescription: "short",
			},
			want: []string{"businessType is required", "businessDescription must be at least 10 characters"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.GenerateFaq(context.Background(), "u1", tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)

			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.ElementsMatch(t, tt.want, validationErr.Violations)
		})
	}

	f.gen.AssertNotCalled(t, "GenerateJSON", mock.Anything, mock.Anything)
	assert.Equal(t, 0, f.storedCount(t, "u1"))
}

func TestGenerateFaqCheckOrder(t *testing.T) {
	f := newFaqFixture(t, FaqWithDailyLimit(1))
	f.gen.On("GenerateJSON", mock.Anything, mock.Anything).Return(twoQuestionsJSON, nil)
	ctx := context.Background()

	// identity is checked before input
	_, err := f.svc.GenerateFaq(ctx, "", GenerateFaqInput{})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = f.svc.GenerateFaq(ctx, "u1", validInput)
	require.NoError(t, err)

	// input is checked before the quota
	_, err = f.svc.GenerateFaq(ctx, "u1", GenerateFaqInput{BusinessType: "Bakery"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.GenerateFaq(ctx, "u1", validInput)
	assert.ErrorIs(t, err, ErrQuotaExceeded)
}

func TestGenerateFaqGeneratorFailure(t *testing.T) {
	f := newFaqFixture(t)
	ctx := context.Background()

	f.gen.On("GenerateJSON", mock.Anything, mock.Anything).Return("", errors.New("upstream 500")).Once()
	_, err := f.svc.GenerateFaq(ctx, "u1", validInput)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGenerationUnavailable)
	assert.Equal(t, 0, f.storedCount(t, "u1"))

	// malformed output is treated the same way
	f.gen.On("GenerateJSON", mock.Anything, mock.Anything).Return("{not json", nil).Once()
	_, err = f.svc.GenerateFaq(ctx, "u1", validInput)
	assert.ErrorIs(t, err, ErrGenerationUnavailable)
	assert.Equal(t, 0, f.storedCount(t, "u1"))

	// failed attempts do not consume quota
	f.gen.On("GenerateJSON", mock.Anything, mock.Anything).Return(twoQuestionsJSON, nil)
	result, err := f.svc.GenerateFaq(ctx, "u1", validInput)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Usage.Count)
}

func TestGenerateFaqEmptyGeneratorOutput(t *testing.T) {
	f := newFaqFixture(t)
	f.gen.On("GenerateJSON", mock.Anything, mock.Anything).Return("", nil)

	result, err := f.svc.GenerateFaq(context.Background(), "u1", validInput)
	require.NoError(t, err)
	assert.NotNil(t, result.Questions)
	assert.Empty(t, result.Questions)
	assert.Equal(t, 1, result.Usage.Count)
}

type failingFaqRepo struct {
	repository.FaqRepository
	err error
}

func (r failingFaqRepo) CountByUserSince(ctx context.Context, userID string, since time.Time) (int, error) {
	return 0, r.err
}

func TestGenerateFaqStoreFailure(t *testing.T) {
	storeErr := errors.New("connection refused")
	f := newFaqFixture(t)
	svc := NewFaqService(
		FaqWithRepository(failingFaqRepo{err: storeErr}),
		FaqWithGenerationService(NewGenerationService(f.gen, logging.Discard())),
		FaqWithLogger(logging.Discard()),
	)

	_, err := svc.GenerateFaq(context.Background(), "u1", validInput)
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, ErrGenerationUnavailable)
	f.gen.AssertNotCalled(t, "GenerateJSON", mock.Anything, mock.Anything)
}

func TestGetFaqNotFound(t *testing.T) {
	f := newFaqFixture(t)

	_, err := f.svc.GetFaq(context.Background(), 999999)
	assert.ErrorIs(t, err, ErrFaqNotFound)
}

func TestDayBoundaries(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	now := time.Date(2025, 12, 31, 23, 30, 0, 0, loc)

	assert.Equal(t, time.Date(2025, 12, 31, 0, 0, 0, 0, loc), startOfDay(now, loc))
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, loc), nextMidnight(now, loc))

	// the same instant seen from UTC is already January 1st
	assert.True(t, startOfDay(now, time.UTC).Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
}
