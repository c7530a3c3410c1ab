package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/BigDee2008/FAQForge/metrics"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiConfig configures the Gemini text generator
type GeminiConfig struct {
	APIKey string
	Model  string
}

// GeminiGenerator implements TextGenerator on top of the Gemini API
type GeminiGenerator struct {
	client  *genai.Client
	model   string
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// faqResponseSchema constrains Gemini output to {"questions":[{question, answer}]}
var faqResponseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"questions": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"question": {Type: genai.TypeString},
					"answer":   {Type: genai.TypeString},
				},
				Required: []string{"question", "answer"},
			},
		},
	},
	Required: []string{"questions"},
}

// NewGeminiGenerator creates the Gemini client
func NewGeminiGenerator(ctx context.Context, cfg GeminiConfig, logger *slog.Logger, m *metrics.Metrics) (*GeminiGenerator, error) {
	if cfg.APIKey == "" {
		logger.Warn("GEMINI_API_KEY not set, generation requests will fail")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	logger.Info("gemini client initialized", "model", cfg.Model)
	return &GeminiGenerator{
		client:  client,
		model:   cfg.Model,
		logger:  logger.With("component", "gemini"),
		metrics: m,
	}, nil
}

// Close releases the underlying client
func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}

// GenerateJSON sends the prompt with a JSON response schema and returns the concatenated text parts
func (g *GeminiGenerator) GenerateJSON(ctx context.Context, prompt TextPrompt) (string, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(prompt.Temperature)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = faqResponseSchema
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(prompt.System)},
	}

	start := time.Now()
	resp, err := model.GenerateContent(ctx, genai.Text(prompt.User))
	text, err := g.extractText(resp, err)
	g.observe(start, err)
	if err != nil {
		return "", err
	}
	return text, nil
}

func (g *GeminiGenerator) extractText(resp *genai.GenerateContentResponse, err error) (string, error) {
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
		return "", fmt.Errorf("gemini blocked prompt: %s", resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", errors.New("gemini returned no candidates")
	}

	var out strings.Builder
	for i, candidate := range resp.Candidates {
		if candidate.FinishReason != genai.FinishReasonStop && candidate.FinishReason != genai.FinishReasonUnspecified {
			g.logger.Warn("candidate finished early", "candidate", i, "reason", candidate.FinishReason.String())
		}
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				out.WriteString(string(text))
			}
		}
		// only the first candidate with content is used
		if out.Len() > 0 {
			break
		}
	}
	return out.String(), nil
}

func (g *GeminiGenerator) observe(start time.Time, err error) {
	if g.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
		g.metrics.Errors.WithLabelValues("gemini").Inc()
	}
	g.metrics.GeminiRequests.WithLabelValues(status).Inc()
	g.metrics.GeminiLatency.WithLabelValues(status).Observe(time.Since(start).Seconds())
}
