package letter

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/letter"
	"github.com/pulosarok/desa/internal/domain/shared"
	"github.com/pulosarok/desa/internal/infrastructure/ai"
	"go.uber.org/zap"
)

// Assistant is the generative model front used by AIService. *ai.Assistant implements it.
type Assistant interface {
	Enabled() bool
	ModelName() string
	Validate(ctx context.Context, tenantID uuid.UUID, in ai.ValidateInput) (*ai.ValidateOutput, error)
	Improve(ctx context.Context, tenantID uuid.UUID, in ai.ImproveInput) (*ai.ImproveOutput, error)
	Generate(ctx context.Context, tenantID uuid.UUID, in ai.GenerateInput) (*ai.GenerateOutput, error)
	Summarize(ctx context.Context, tenantID uuid.UUID, in ai.SummarizeInput) (*ai.SummarizeOutput, error)
}

var errSuggestionsDisabled = shared.NewDomainError("AI_SUGGESTIONS_DISABLED", "AI suggestions are disabled in letter settings")

// AIService validates and drafts letter content with the generative model
type AIService struct {
	scope     TransactionScope
	letters   letter.LetterRepository
	types     letter.LetterTypeRepository
	settings  *SettingsService
	assistant Assistant
	events    shared.EventPublisher
	metrics   Metrics
	logger    *zap.Logger
}

// NewAIService creates a new AIService
func NewAIService(
	scope TransactionScope,
	letters letter.LetterRepository,
	types letter.LetterTypeRepository,
	settings *SettingsService,
	assistant Assistant,
	events shared.EventPublisher,
	metrics Metrics,
	logger *zap.Logger,
) *AIService {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AIService{
		scope:     scope,
		letters:   letters,
		types:     types,
		settings:  settings,
		assistant: assistant,
		events:    events,
		metrics:   metrics,
		logger:    logger,
	}
}

// Validate runs the rule checks and the model over the letter body and stores
// the outcome as the letter's validation row. A model failure is recorded as a
// failed run with score 0 rather than returned. An exhausted quota is returned
// and leaves the stored row as it was. The model is called before any
// transaction opens.
func (s *AIService) Validate(ctx context.Context, tenantID, id uuid.UUID, actor Actor) (*ValidationResponse, error) {
	l, typeName, err := s.load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	settings, err := s.settings.Active(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	fresh := letter.NewAIValidation(l, letter.BodyDigest(l))
	if err := s.evaluate(ctx, settings, l, typeName, fresh); err != nil {
		return nil, err
	}

	var run *letter.AIValidation
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		run, err = repos.AIValidationRepo().FindByLetter(ctx, tenantID, l.ID)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			run = fresh
		case err != nil:
			return err
		default:
			run.Adopt(fresh)
		}

		if err := repos.AIValidationRepo().Save(ctx, run); err != nil {
			return err
		}
		entry, err := letter.NewTracking(tenantID, l.ID, letter.ActionValidated, "", actor.ref(), actor.IP)
		if err != nil {
			return err
		}
		entry.Notes = string(run.Status)
		return repos.TrackingRepo().Append(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	passed := run.Passes(settings.AIValidationThreshold)
	if s.events != nil {
		if err := s.events.Publish(ctx, letter.NewLetterValidatedEvent(run, passed)); err != nil {
			s.logger.Warn("Failed to publish validation event", zap.Error(err))
		}
	}
	resp := ToValidationResponse(run, settings.AIValidationThreshold)
	return &resp, nil
}

// evaluate fills run. It returns an error only when the tenant's quota is used up.
func (s *AIService) evaluate(ctx context.Context, settings *letter.Settings, l *letter.Letter, typeName string, run *letter.AIValidation) error {
	if !settings.RequiresAIValidation(l) {
		run.Skip("AI validation is not required for this letter")
		s.metrics.AIRequest(ctx, "validate", "skipped", 0)
		return nil
	}

	rules := letter.CheckRules(l.Content)
	if rules.HasErrors() {
		run.Complete(letter.ValidationResult{}, rules, 0)
		s.metrics.AIRequest(ctx, "validate", "skipped", 0)
		return nil
	}
	if s.assistant == nil || !s.assistant.Enabled() {
		run.Fail(ai.ErrDisabled.Message, 0)
		s.metrics.AIRequest(ctx, "validate", "skipped", 0)
		return nil
	}

	run.Start()
	start := time.Now()
	out, err := s.assistant.Validate(ctx, l.TenantID, ai.ValidateInput{
		LetterType: typeName,
		Subject:    l.Subject,
		Content:    l.Content,
	})
	elapsed := time.Since(start)
	if err != nil {
		if errors.Is(err, ai.ErrQuotaExceeded) {
			s.metrics.AIRequest(ctx, "validate", "quota", elapsed)
			return err
		}
		s.logger.Warn("AI validation failed", zap.String("letter_id", l.ID.String()), zap.Error(err))
		run.Fail("AI service error: "+err.Error(), elapsed)
		s.metrics.AIRequest(ctx, "validate", "error", elapsed)
		return nil
	}

	run.Complete(letter.ValidationResult{
		ConfidenceScore:   out.Score,
		GrammarScore:      out.GrammarScore,
		FormalityScore:    out.FormalityScore,
		CompletenessScore: out.CompletenessScore,
		Errors:            out.Errors,
		Warnings:          out.Warnings,
		Suggestions:       out.Suggestions,
		Model:             s.assistant.ModelName(),
	}, rules, elapsed)
	s.metrics.AIRequest(ctx, "validate", "ok", elapsed)
	return nil
}

// LatestValidation returns the stored validation row of a letter
func (s *AIService) LatestValidation(ctx context.Context, tenantID, id uuid.UUID) (*ValidationResponse, error) {
	settings, err := s.settings.Active(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var run *letter.AIValidation
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		run, err = repos.AIValidationRepo().FindByLetter(ctx, tenantID, id)
		return err
	})
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Letter has not been validated yet")
		}
		return nil, err
	}
	resp := ToValidationResponse(run, settings.AIValidationThreshold)
	return &resp, nil
}

// Improve asks the model for a corrected body and optionally writes it to the letter
func (s *AIService) Improve(ctx context.Context, tenantID, id uuid.UUID, req ImproveRequest) (*ImproveResponse, error) {
	settings, err := s.settings.Active(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !settings.EnableAISuggestions {
		return nil, errSuggestionsDisabled
	}
	l, typeName, err := s.load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if req.Apply && !l.IsEditable() {
		return nil, errNotEditable
	}

	var out *ai.ImproveOutput
	err = s.call(ctx, "improve", func() error {
		out, err = s.assistant.Improve(ctx, tenantID, ai.ImproveInput{LetterType: typeName, Content: l.Content})
		return err
	})
	if err != nil {
		return nil, err
	}

	resp := &ImproveResponse{
		ImprovedContent: out.ImprovedContent,
		Suggestions:     orEmpty(out.Suggestions),
		ChangesMade:     orEmpty(out.ChangesMade),
	}
	if req.Apply {
		applied, err := s.apply(ctx, tenantID, id, l.Content, out.ImprovedContent)
		if err != nil {
			return nil, err
		}
		s.publish(ctx, applied)
		resp.Applied = true
	}
	return resp, nil
}

// apply writes an improved body onto the current row. The model saw basis, so
// the letter must still be editable and carry that body.
func (s *AIService) apply(ctx context.Context, tenantID, id uuid.UUID, basis, improved string) (*letter.Letter, error) {
	var l *letter.Letter
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		l, err = repos.LetterRepo().FindByIDForUpdate(ctx, tenantID, id)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return errLetterNotFound
			}
			return err
		}
		if !l.IsEditable() {
			return errNotEditable
		}
		if l.Content != basis {
			return shared.ErrConcurrencyConflict
		}
		if err := l.ApplyAISuggestion(improved); err != nil {
			return err
		}
		return repos.LetterRepo().Save(ctx, l)
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

// Generate drafts a subject and body for a letter type
func (s *AIService) Generate(ctx context.Context, tenantID uuid.UUID, req GenerateRequest) (*GenerateResponse, error) {
	settings, err := s.settings.Active(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !settings.EnableAISuggestions {
		return nil, errSuggestionsDisabled
	}
	lt, err := s.types.FindByIDForTenant(ctx, tenantID, req.LetterTypeID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_LETTER_TYPE", "Letter type not found")
		}
		return nil, err
	}

	var out *ai.GenerateOutput
	err = s.call(ctx, "generate", func() error {
		out, err = s.assistant.Generate(ctx, tenantID, ai.GenerateInput{
			LetterType:     lt.Name,
			Purpose:        req.Purpose,
			Recipient:      req.Recipient,
			AdditionalInfo: req.AdditionalInfo,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &GenerateResponse{Subject: out.Subject, Content: out.Content, Suggestions: orEmpty(out.Suggestions)}, nil
}

// Summarize returns a short summary of a letter
func (s *AIService) Summarize(ctx context.Context, tenantID, id uuid.UUID) (*SummarizeResponse, error) {
	l, _, err := s.load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	var out *ai.SummarizeOutput
	err = s.call(ctx, "summarize", func() error {
		out, err = s.assistant.Summarize(ctx, tenantID, ai.SummarizeInput{Content: l.Content})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &SummarizeResponse{Summary: out.Summary, KeyPoints: orEmpty(out.KeyPoints)}, nil
}

// call runs one model operation and records its outcome
func (s *AIService) call(ctx context.Context, op string, fn func() error) error {
	if s.assistant == nil || !s.assistant.Enabled() {
		s.metrics.AIRequest(ctx, op, "skipped", 0)
		return ai.ErrDisabled
	}
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	switch {
	case err == nil:
		s.metrics.AIRequest(ctx, op, "ok", elapsed)
		return nil
	case errors.Is(err, ai.ErrQuotaExceeded):
		s.metrics.AIRequest(ctx, op, "quota", elapsed)
		return err
	}
	s.metrics.AIRequest(ctx, op, "error", elapsed)
	s.logger.Warn("AI request failed", zap.String("operation", op), zap.Error(err))
	return shared.NewDomainError("AI_UNAVAILABLE", "AI service is unavailable, please try again later")
}

func (s *AIService) load(ctx context.Context, tenantID, id uuid.UUID) (*letter.Letter, string, error) {
	l, err := s.letters.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, "", errLetterNotFound
		}
		return nil, "", err
	}
	lt, err := s.types.FindByIDForTenant(ctx, tenantID, l.LetterTypeID)
	if err != nil {
		return nil, "", err
	}
	return l, lt.Name, nil
}

func (s *AIService) publish(ctx context.Context, l *letter.Letter) {
	events := l.PullDomainEvents()
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish letter events", zap.Error(err))
	}
}
