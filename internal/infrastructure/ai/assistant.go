package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/shared"
	"github.com/pulosarok/desa/internal/infrastructure/cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	// ErrDisabled is returned when no model is configured
	ErrDisabled = shared.NewDomainError("AI_DISABLED", "AI assistant is not configured")
	// ErrQuotaExceeded is returned when the tenant used up today's requests
	ErrQuotaExceeded = shared.NewDomainError("AI_QUOTA_EXCEEDED", "Daily AI request quota exceeded")
	// ErrBadResponse is returned when the model reply cannot be parsed
	ErrBadResponse = errors.New("unparseable model response")
)

// Options configures an Assistant
type Options struct {
	// MaxRequestsPerDay is the per-tenant daily quota; 0 disables it
	MaxRequestsPerDay int
	// RequestsPerMinute throttles outbound calls across all tenants; 0 disables it
	RequestsPerMinute int
	Timeout           time.Duration
	Logger            *zap.Logger
	// Now overrides the clock used for quota windows
	Now func() time.Time
}

// Assistant applies quota and throttling around a Model
type Assistant struct {
	model   Model
	quota   cache.QuotaCounter
	limiter *rate.Limiter
	opts    Options
	logger  *zap.Logger
}

// NewAssistant creates an assistant. A nil model yields a disabled assistant.
func NewAssistant(model Model, quota cache.QuotaCounter, opts Options) *Assistant {
	a := &Assistant{model: model, quota: quota, opts: opts, logger: opts.Logger}
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	if a.opts.Now == nil {
		a.opts.Now = time.Now
	}
	if a.opts.Timeout <= 0 {
		a.opts.Timeout = 30 * time.Second
	}
	if opts.RequestsPerMinute > 0 {
		burst := max(opts.RequestsPerMinute/10, 1)
		a.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), burst)
	}
	return a
}

// Enabled reports whether a model is configured
func (a *Assistant) Enabled() bool {
	return a != nil && a.model != nil
}

// ModelName returns the configured model, or "" when disabled
func (a *Assistant) ModelName() string {
	if !a.Enabled() {
		return ""
	}
	return a.model.Name()
}

// Usage returns how many requests the tenant made today
func (a *Assistant) Usage(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	if a.quota == nil {
		return 0, nil
	}
	return a.quota.Used(ctx, a.quotaKey(tenantID))
}

func (a *Assistant) quotaKey(tenantID uuid.UUID) string {
	return fmt.Sprintf("ai:%s:%s", tenantID, a.opts.Now().UTC().Format("20060102"))
}

// call runs one model request under quota, throttling and timeout and decodes the JSON reply into out
func (a *Assistant) call(ctx context.Context, tenantID uuid.UUID, op, prompt string, out any) error {
	if !a.Enabled() {
		return ErrDisabled
	}
	if a.quota != nil && a.opts.MaxRequestsPerDay > 0 {
		used, ok, err := a.quota.Consume(ctx, a.quotaKey(tenantID), int64(a.opts.MaxRequestsPerDay), 24*time.Hour)
		if err != nil {
			// a broken counter must not block letter work
			a.logger.Warn("AI quota check failed", zap.Error(err))
		} else if !ok {
			a.logger.Info("AI quota exhausted",
				zap.String("tenant_id", tenantID.String()), zap.Int64("used", used))
			return ErrQuotaExceeded
		}
	}
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("ai rate limit: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, a.opts.Timeout)
	defer cancel()

	start := time.Now()
	text, err := a.model.Generate(ctx, prompt)
	if err != nil {
		a.logger.Warn("AI request failed", zap.String("operation", op), zap.Error(err))
		return err
	}
	if err := extractJSON(text, out); err != nil {
		a.logger.Warn("AI response not parseable", zap.String("operation", op), zap.Error(err))
		return err
	}
	a.logger.Debug("AI request completed",
		zap.String("operation", op), zap.Duration("duration", time.Since(start)))
	return nil
}

// ValidateInput is the letter content to validate
type ValidateInput struct {
	LetterType string
	Subject    string
	Content    string
}

// ValidateOutput is the model's assessment. Scores are in 0..1.
type ValidateOutput struct {
	IsValid           bool     `json:"is_valid"`
	Score             float64  `json:"score"`
	GrammarScore      float64  `json:"grammar_score"`
	FormalityScore    float64  `json:"formality_score"`
	CompletenessScore float64  `json:"completeness_score"`
	Errors            []string `json:"errors"`
	Warnings          []string `json:"warnings"`
	Suggestions       []string `json:"suggestions"`
}

// Validate asks the model to score a letter
func (a *Assistant) Validate(ctx context.Context, tenantID uuid.UUID, in ValidateInput) (*ValidateOutput, error) {
	var out ValidateOutput
	if err := a.call(ctx, tenantID, "validate", validatePrompt(in), &out); err != nil {
		return nil, err
	}
	out.Score = normalizeScore(out.Score)
	out.GrammarScore = normalizeScore(out.GrammarScore)
	out.FormalityScore = normalizeScore(out.FormalityScore)
	out.CompletenessScore = normalizeScore(out.CompletenessScore)
	out.Errors = nonEmpty(out.Errors)
	out.Warnings = nonEmpty(out.Warnings)
	out.Suggestions = nonEmpty(out.Suggestions)
	return &out, nil
}

// ImproveInput is the content to rewrite
type ImproveInput struct {
	LetterType string
	Content    string
}

// ImproveOutput is a rewritten letter body
type ImproveOutput struct {
	ImprovedContent string   `json:"improved_content"`
	Suggestions     []string `json:"suggestions"`
	ChangesMade     []string `json:"changes_made"`
}

// Improve asks the model for a corrected version of the content
func (a *Assistant) Improve(ctx context.Context, tenantID uuid.UUID, in ImproveInput) (*ImproveOutput, error) {
	var out ImproveOutput
	if err := a.call(ctx, tenantID, "improve", improvePrompt(in), &out); err != nil {
		return nil, err
	}
	out.ImprovedContent = strings.TrimSpace(out.ImprovedContent)
	if out.ImprovedContent == "" {
		return nil, fmt.Errorf("%w: improved_content is empty", ErrBadResponse)
	}
	out.Suggestions = nonEmpty(out.Suggestions)
	out.ChangesMade = nonEmpty(out.ChangesMade)
	return &out, nil
}

// GenerateInput describes a letter to draft
type GenerateInput struct {
	LetterType     string
	Purpose        string
	Recipient      string
	AdditionalInfo string
}

// GenerateOutput is a drafted letter
type GenerateOutput struct {
	Subject     string   `json:"subject"`
	Content     string   `json:"content"`
	Suggestions []string `json:"suggestions"`
}

// Generate drafts a letter body and subject
func (a *Assistant) Generate(ctx context.Context, tenantID uuid.UUID, in GenerateInput) (*GenerateOutput, error) {
	var out GenerateOutput
	if err := a.call(ctx, tenantID, "generate", generatePrompt(in), &out); err != nil {
		return nil, err
	}
	out.Content = strings.TrimSpace(out.Content)
	out.Subject = strings.TrimSpace(out.Subject)
	if out.Content == "" {
		return nil, fmt.Errorf("%w: content is empty", ErrBadResponse)
	}
	out.Suggestions = nonEmpty(out.Suggestions)
	return &out, nil
}

// SummarizeInput is the content to summarize
type SummarizeInput struct {
	Content string
}

// SummarizeOutput is a short summary with key points
type SummarizeOutput struct {
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"key_points"`
}

// Summarize asks the model for a summary
func (a *Assistant) Summarize(ctx context.Context, tenantID uuid.UUID, in SummarizeInput) (*SummarizeOutput, error) {
	var out SummarizeOutput
	if err := a.call(ctx, tenantID, "summarize", summarizePrompt(in), &out); err != nil {
		return nil, err
	}
	out.Summary = strings.TrimSpace(out.Summary)
	out.KeyPoints = nonEmpty(out.KeyPoints)
	return &out, nil
}
