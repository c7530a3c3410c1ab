package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/BigDee2008/FAQForge/models"
)

// TextPrompt is a system/user instruction pair sent to a text generator
type TextPrompt struct {
	System      string
	User        string
	Temperature float32
}

// TextGenerator produces a JSON document of the shape
// {"questions":[{"question":"...","answer":"..."}]} for a prompt.
type TextGenerator interface {
	GenerateJSON(ctx context.Context, prompt TextPrompt) (string, error)
}

// GenerationRequest holds the business fields used to build the prompt
type GenerationRequest struct {
	BusinessType        string
	BusinessDescription string
	WebsiteURL          string
	FaqStyle            models.FaqStyle
}

// GenerationResult is the parsed and rendered output of one generation
type GenerationResult struct {
	Questions models.FaqQuestions
	HTMLCode  string
	CSSCode   string
}

// GenerationService turns business details into rendered FAQ content
type GenerationService struct {
	generator TextGenerator
	logger    *slog.Logger
}

// NewGenerationService creates a new generation service
func NewGenerationService(generator TextGenerator, logger *slog.Logger) *GenerationService {
	return &GenerationService{
		generator: generator,
		logger:    logger.With("component", "generation"),
	}
}

// Generate calls the text generator once and renders the result.
// Any generator or parse failure is reported as ErrGenerationUnavailable.
func (s *GenerationService) Generate(ctx context.Context, req GenerationRequest) (*GenerationResult, error) {
	if s.generator == nil {
		return nil, fmt.Errorf("%w: text generator not set", ErrGenerationUnavailable)
	}

	raw, err := s.generator.GenerateJSON(ctx, buildFaqPrompt(req))
	if err != nil {
		s.logger.Error("text generation failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrGenerationUnavailable, err)
	}

	questions, err := parseQuestions(raw)
	if err != nil {
		s.logger.Error("unparseable generation response", "error", err, "bytes", len(raw))
		return nil, fmt.Errorf("%w: %v", ErrGenerationUnavailable, err)
	}
	if len(questions) == 0 {
		s.logger.Warn("generation returned no questions", "business_type", req.BusinessType)
	}

	htmlCode, cssCode := RenderFaq(questions, req.FaqStyle)
	return &GenerationResult{
		Questions: questions,
		HTMLCode:  htmlCode,
		CSSCode:   cssCode,
	}, nil
}

// parseQuestions decodes the generator's JSON. Blank output or a missing
// "questions" key yields an empty list.
func parseQuestions(raw string) (models.FaqQuestions, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return make(models.FaqQuestions, 0), nil
	}

	var payload struct {
		Questions models.FaqQuestions `json:"questions"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	if payload.Questions == nil {
		return make(models.FaqQuestions, 0), nil
	}
	return payload.Questions, nil
}
