package recovery

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/leadharvest/foreclosure-tracker/internal/common"
)

// Generator produces a raw text completion for a prompt. The engine
// only depends on this, so tests can script responses without touching
// the network.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Close() error
}

// ServiceError reports a failed generation call. It unwraps to
// common.ErrRecoveryService, so callers can treat it as retryable
// without inspecting the reason.
type ServiceError struct {
	Reason string
	Err    error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("recovery service: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("recovery service: %s", e.Reason)
}

func (e *ServiceError) Unwrap() error { return common.ErrRecoveryService }

// GeminiGenerator drives the Gemini API with fixed decoding parameters
// tuned for structured output.
type GeminiGenerator struct {
	client *genai.Client
	cfg    common.GeminiConfig
	logger *slog.Logger
}

func NewGeminiGenerator(ctx context.Context, cfg common.GeminiConfig, logger *slog.Logger) (*GeminiGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: missing API key", common.ErrRecoveryService)
	}
	if logger == nil {
		logger = slog.Default()
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiGenerator{client: client, cfg: cfg, logger: logger}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	reqID := uuid.NewString()
	start := time.Now()

	model := g.client.GenerativeModel(g.cfg.Model)
	model.SetTemperature(g.cfg.Temperature)
	model.SetTopP(g.cfg.TopP)
	model.SetMaxOutputTokens(g.cfg.MaxOutputTok)
	model.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockNone},
	}

	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	g.logger.Debug("llm.generate.start", "request_id", reqID, "model", g.cfg.Model, "prompt_chars", len(prompt))
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		g.logger.Error("llm.generate.failed", "request_id", reqID, "error", err, "duration_ms", time.Since(start).Milliseconds())
		return "", &ServiceError{Reason: "generate content", Err: err}
	}

	text, err := textFromResponse(resp)
	if err != nil {
		g.logger.Warn("llm.generate.empty", "request_id", reqID, "error", err)
		return "", &ServiceError{Reason: "unusable response", Err: err}
	}

	g.logger.Debug("llm.generate.ok", "request_id", reqID, "response_chars", len(text), "duration_ms", time.Since(start).Milliseconds())
	return text, nil
}

func (g *GeminiGenerator) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

func textFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
			return "", fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response (finish reason %v)", candidate.FinishReason)
	}
	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return strings.Join(parts, ""), nil
}
