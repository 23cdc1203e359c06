package letter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/identity"
	"github.com/pulosarok/desa/internal/domain/letter"
	"github.com/pulosarok/desa/internal/domain/reference"
	"github.com/pulosarok/desa/internal/domain/shared"
	"go.uber.org/zap"
)

var (
	errLetterNotFound     = shared.NewDomainError("NOT_FOUND", "Letter not found")
	errApproverRole       = shared.NewDomainError("FORBIDDEN", "Only the head of village or an admin may decide on letters")
	errLetterTypeInactive = shared.NewDomainError("LETTER_TYPE_INACTIVE", "Letter type is not active")
	errNotEditable        = shared.NewDomainError("LETTER_NOT_EDITABLE", "Letter can no longer be edited")
)

// LetterServiceDeps groups the collaborators of LetterService
type LetterServiceDeps struct {
	Scope       TransactionScope
	Letters     letter.LetterRepository
	Types       letter.LetterTypeRepository
	Templates   letter.TemplateRepository
	Tracking    letter.TrackingRepository
	Sequences   letter.SequenceRepository
	Validations letter.AIValidationRepository
	Residents   reference.PendudukRepository
	Settings    *SettingsService
	Events      shared.EventPublisher
	Metrics     Metrics
	Logger      *zap.Logger
	// Now overrides the clock; defaults to time.Now
	Now func() time.Time
}

// LetterService runs the letter lifecycle: drafting, numbering and decisions
type LetterService struct {
	LetterServiceDeps
}

// NewLetterService creates a new LetterService
func NewLetterService(deps LetterServiceDeps) *LetterService {
	if deps.Metrics == nil {
		deps.Metrics = NopMetrics{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &LetterService{LetterServiceDeps: deps}
}

// Create stores a new draft and its "created" history entry
func (s *LetterService) Create(ctx context.Context, tenantID uuid.UUID, actor Actor, req CreateLetterRequest) (*LetterResponse, error) {
	lt, err := s.Types.FindByIDForTenant(ctx, tenantID, req.LetterTypeID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_LETTER_TYPE", "Letter type not found")
		}
		return nil, err
	}
	if !lt.IsActive {
		return nil, errLetterTypeInactive
	}
	if _, err := s.Residents.FindByIDForTenant(ctx, tenantID, req.ApplicantID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("APPLICANT_NOT_FOUND", "Applicant is not a registered resident")
		}
		return nil, err
	}

	content := req.Content
	var tmpl *letter.Template
	if req.TemplateID != nil {
		tmpl, err = s.activeTemplate(ctx, tenantID, *req.TemplateID)
		if err != nil {
			return nil, err
		}
		if content == "" {
			content = tmpl.Render(req.Variables)
		}
	}

	l, err := letter.NewLetter(tenantID, req.LetterTypeID, req.ApplicantID, req.Subject, content)
	if err != nil {
		return nil, err
	}
	if actor.ID != uuid.Nil {
		l.SetCreatedBy(actor.ID)
	}
	if err := l.SetDetails(req.Purpose, letter.Priority(req.Priority), req.Notes); err != nil {
		return nil, err
	}
	if req.RequiresAIValidation != nil || req.RequiresDigitalSignature != nil {
		if err := l.SetRequirements(boolOr(req.RequiresAIValidation, true), boolOr(req.RequiresDigitalSignature, true)); err != nil {
			return nil, err
		}
	}
	if tmpl != nil {
		l.TemplateID = &tmpl.ID
	}

	err = s.Scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.LetterRepo().Save(ctx, l); err != nil {
			return err
		}
		return repos.TrackingRepo().Append(ctx, letter.TrackingFromEvents(l, actor.IP)...)
	})
	if err != nil {
		return nil, err
	}
	if tmpl != nil {
		tmpl.RecordUsage()
		if err := s.Templates.Save(ctx, tmpl); err != nil {
			s.Logger.Warn("Failed to record template usage", zap.Error(err))
		}
	}
	s.publish(ctx, l)

	s.Logger.Info("Letter drafted",
		zap.String("letter_id", l.ID.String()),
		zap.String("letter_type", lt.Code))

	resp := ToLetterResponse(l)
	return &resp, nil
}

// Update edits subject, content and details of an editable letter
func (s *LetterService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateLetterRequest) (*LetterResponse, error) {
	var l *letter.Letter
	err := s.Scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		l, err = s.lockForUpdate(ctx, repos, tenantID, id)
		if err != nil {
			return err
		}
		if err := applyUpdate(l, req); err != nil {
			return err
		}
		return repos.LetterRepo().Save(ctx, l)
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, l)

	resp := ToLetterResponse(l)
	return &resp, nil
}

func applyUpdate(l *letter.Letter, req UpdateLetterRequest) error {
	if !l.IsEditable() {
		return errNotEditable
	}

	if req.Subject != nil || req.Content != nil {
		subject, content := l.Subject, l.Content
		if req.Subject != nil {
			subject = *req.Subject
		}
		if req.Content != nil {
			content = *req.Content
		}
		if subject != l.Subject || content != l.Content {
			if err := l.UpdateBody(subject, content); err != nil {
				return err
			}
		}
	}

	purpose, priority, notes := l.Purpose, l.Priority, l.Notes
	if req.Purpose != nil {
		purpose = *req.Purpose
	}
	if req.Priority != nil {
		priority = letter.Priority(*req.Priority)
	}
	if req.Notes != nil {
		notes = *req.Notes
	}
	if err := l.SetDetails(purpose, priority, notes); err != nil {
		return err
	}
	if req.RequiresAIValidation != nil || req.RequiresDigitalSignature != nil {
		return l.SetRequirements(
			boolOr(req.RequiresAIValidation, l.RequiresAIValidation),
			boolOr(req.RequiresDigitalSignature, l.RequiresDigitalSignature),
		)
	}
	return nil
}

// Delete removes a draft
func (s *LetterService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	l, err := s.find(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if !l.CanBeDeleted() {
		return shared.NewDomainError("LETTER_NOT_DELETABLE", "Only draft letters can be deleted")
	}
	return s.Letters.DeleteForTenant(ctx, tenantID, id)
}

// GetByID returns one letter
func (s *LetterService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*LetterResponse, error) {
	l, err := s.find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToLetterResponse(l)
	return &resp, nil
}

// List returns one page of letters
func (s *LetterService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]LetterResponse, int64, error) {
	rows, err := s.Letters.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Letters.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]LetterResponse, len(rows))
	for i := range rows {
		out[i] = ToLetterResponse(&rows[i])
	}
	return out, total, nil
}

// Stats counts letters per status and the numbers issued this year
func (s *LetterService) Stats(ctx context.Context, tenantID uuid.UUID) (*StatsResponse, error) {
	counts, err := s.Letters.CountByStatus(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	issued, err := s.Letters.CountIssuedSince(ctx, tenantID, yearStart)
	if err != nil {
		return nil, err
	}
	settings, err := s.Settings.Active(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	last, err := s.Sequences.Current(ctx, tenantID, letter.SequenceYear(now, settings.ResetCounterYearly))
	if err != nil {
		return nil, err
	}

	resp := &StatsResponse{ByStatus: make(map[string]int64, len(letter.AllStatuses)), IssuedThisYear: issued, LastNumber: last}
	for _, st := range letter.AllStatuses {
		resp.ByStatus[string(st)] = counts[st]
		resp.Total += counts[st]
	}
	return resp, nil
}

// Submit moves a draft into the queue. The counter increment and the number
// written on the letter commit together, so a failed submit consumes nothing.
func (s *LetterService) Submit(ctx context.Context, tenantID, id uuid.UUID, actor Actor) (*LetterResponse, error) {
	settings, err := s.Settings.Active(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	var (
		l        *letter.Letter
		typeCode string
	)
	err = s.Scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		l, err = s.lockForUpdate(ctx, repos, tenantID, id)
		if err != nil {
			return err
		}
		if l.Status != letter.StatusDraft {
			return shared.NewDomainError("INVALID_STATE", "Only draft letters can be submitted")
		}
		lt, err := s.Types.FindByIDForTenant(ctx, tenantID, l.LetterTypeID)
		if err != nil {
			return fmt.Errorf("load letter type: %w", err)
		}
		typeCode = lt.Code

		now := s.Now()
		number, err := nextNumber(ctx, repos.SequenceRepo(), settings, tenantID, typeCode, now)
		if err != nil {
			return err
		}
		if err := l.Submit(number, typeCode, now, actor.ref()); err != nil {
			return err
		}
		return s.save(ctx, repos, l, actor)
	})
	if err != nil {
		return nil, err
	}

	s.Metrics.LetterIssued(ctx, typeCode)
	s.afterTransition(ctx, l)
	s.Logger.Info("Letter submitted",
		zap.String("letter_id", l.ID.String()),
		zap.String("letter_number", l.Number()))

	resp := ToLetterResponse(l)
	return &resp, nil
}

// nextNumber increments the tenant's counter and renders the letter number
func nextNumber(ctx context.Context, seq letter.SequenceRepository, settings *letter.Settings, tenantID uuid.UUID, typeCode string, at time.Time) (string, error) {
	counter, err := seq.Next(ctx, tenantID, letter.SequenceYear(at, settings.ResetCounterYearly))
	if err != nil {
		return "", fmt.Errorf("increment letter counter: %w", err)
	}
	format := settings.LetterNumberFormat
	if format == "" {
		format = letter.DefaultNumberFormat
	}
	return letter.FormatNumber(format, typeCode, counter, at)
}

// StartReview marks a submitted letter as under review
func (s *LetterService) StartReview(ctx context.Context, tenantID, id uuid.UUID, actor Actor) (*LetterResponse, error) {
	return s.transition(ctx, tenantID, id, actor, func(_ TransactionalRepositories, l *letter.Letter) error {
		return l.StartReview(actor.ref())
	})
}

// Approve approves a letter. When validation is required, the latest
// validation must cover the current body and clear the threshold.
func (s *LetterService) Approve(ctx context.Context, tenantID, id uuid.UUID, actor Actor) (*LetterResponse, error) {
	if !identity.StaffRole(actor.Role).CanApproveLetters() {
		return nil, errApproverRole
	}
	settings, err := s.Settings.Active(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, tenantID, id, actor, func(repos TransactionalRepositories, l *letter.Letter) error {
		latest, err := repos.AIValidationRepo().FindByLetter(ctx, tenantID, l.ID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if err := letter.CheckApprovalGate(settings, l, latest, letter.BodyDigest(l)); err != nil {
			return err
		}
		return l.Approve(actor.ID, s.Now())
	})
}

// Reject rejects a letter with a reason
func (s *LetterService) Reject(ctx context.Context, tenantID, id uuid.UUID, actor Actor, reason string) (*LetterResponse, error) {
	if !identity.StaffRole(actor.Role).CanApproveLetters() {
		return nil, errApproverRole
	}
	return s.transition(ctx, tenantID, id, actor, func(_ TransactionalRepositories, l *letter.Letter) error {
		return l.Reject(reason, actor.ref())
	})
}

// Complete marks an approved letter as handed over
func (s *LetterService) Complete(ctx context.Context, tenantID, id uuid.UUID, actor Actor) (*LetterResponse, error) {
	return s.transition(ctx, tenantID, id, actor, func(_ TransactionalRepositories, l *letter.Letter) error {
		return l.Complete(s.Now(), actor.ref())
	})
}

// Cancel withdraws an undecided letter
func (s *LetterService) Cancel(ctx context.Context, tenantID, id uuid.UUID, actor Actor, reason string) (*LetterResponse, error) {
	return s.transition(ctx, tenantID, id, actor, func(_ TransactionalRepositories, l *letter.Letter) error {
		return l.Cancel(reason, actor.ref())
	})
}

// Timeline returns the history of a letter, oldest first
func (s *LetterService) Timeline(ctx context.Context, tenantID, id uuid.UUID) ([]TrackingResponse, error) {
	if _, err := s.find(ctx, tenantID, id); err != nil {
		return nil, err
	}
	rows, err := s.Tracking.ListByLetter(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	out := make([]TrackingResponse, len(rows))
	for i := range rows {
		out[i] = ToTrackingResponse(&rows[i])
	}
	return out, nil
}

// AddTracking records a manual history entry such as a delivery
func (s *LetterService) AddTracking(ctx context.Context, tenantID, id uuid.UUID, actor Actor, req TrackingRequest) (*TrackingResponse, error) {
	l, err := s.find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	entry, err := letter.NewTracking(tenantID, l.ID, letter.TrackingAction(req.Action), req.Description, actor.ref(), actor.IP)
	if err != nil {
		return nil, err
	}
	entry.Notes = req.Notes
	if err := s.Tracking.Append(ctx, entry); err != nil {
		return nil, err
	}
	resp := ToTrackingResponse(entry)
	return &resp, nil
}

func (s *LetterService) transition(
	ctx context.Context,
	tenantID, id uuid.UUID,
	actor Actor,
	step func(repos TransactionalRepositories, l *letter.Letter) error,
) (*LetterResponse, error) {
	var l *letter.Letter
	err := s.Scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		l, err = s.lockForUpdate(ctx, repos, tenantID, id)
		if err != nil {
			return err
		}
		if err := step(repos, l); err != nil {
			return err
		}
		return s.save(ctx, repos, l, actor)
	})
	if err != nil {
		return nil, err
	}
	s.afterTransition(ctx, l)
	resp := ToLetterResponse(l)
	return &resp, nil
}

func (s *LetterService) lockForUpdate(ctx context.Context, repos TransactionalRepositories, tenantID, id uuid.UUID) (*letter.Letter, error) {
	l, err := repos.LetterRepo().FindByIDForUpdate(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errLetterNotFound
		}
		return nil, err
	}
	return l, nil
}

// save persists the letter and the history entries of its pending events
func (s *LetterService) save(ctx context.Context, repos TransactionalRepositories, l *letter.Letter, actor Actor) error {
	if err := repos.LetterRepo().Save(ctx, l); err != nil {
		return err
	}
	entries := letter.TrackingFromEvents(l, actor.IP)
	if len(entries) == 0 {
		return nil
	}
	return repos.TrackingRepo().Append(ctx, entries...)
}

func (s *LetterService) afterTransition(ctx context.Context, l *letter.Letter) {
	s.Metrics.Transition(ctx, string(l.Status))
	s.publish(ctx, l)
}

func (s *LetterService) publish(ctx context.Context, l *letter.Letter) {
	events := l.PullDomainEvents()
	if s.Events == nil || len(events) == 0 {
		return
	}
	if err := s.Events.Publish(ctx, events...); err != nil {
		s.Logger.Warn("Failed to publish letter events", zap.Error(err))
	}
}

func (s *LetterService) find(ctx context.Context, tenantID, id uuid.UUID) (*letter.Letter, error) {
	l, err := s.Letters.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errLetterNotFound
		}
		return nil, err
	}
	return l, nil
}

func (s *LetterService) activeTemplate(ctx context.Context, tenantID, id uuid.UUID) (*letter.Template, error) {
	t, err := s.Templates.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Template not found")
		}
		return nil, err
	}
	if !t.IsActive {
		return nil, shared.NewDomainError("TEMPLATE_INACTIVE", "Template is not active")
	}
	return t, nil
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
