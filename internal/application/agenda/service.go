package agenda

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/application/registry"
	"github.com/pulosarok/desa/internal/domain/agenda"
	"github.com/pulosarok/desa/internal/domain/reference"
	"github.com/pulosarok/desa/internal/domain/shared"
	"go.uber.org/zap"
)

var (
	errEventNotFound       = shared.NewDomainError("NOT_FOUND", "Event not found")
	errParticipantNotFound = shared.NewDomainError("NOT_FOUND", "Registration not found")
)

// Repositories groups the agenda stores
type Repositories struct {
	Categories   agenda.CategoryRepository
	Events       agenda.EventRepository
	Participants agenda.ParticipantRepository
}

// CategoryRegistry is the event category register. Categories with events cannot be deleted.
type CategoryRegistry struct {
	*registry.Registry[agenda.Category, *agenda.Category, CategoryRequest, CategoryResponse]
	events agenda.EventRepository
}

// Delete removes a category that no event uses
func (r *CategoryRegistry) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := r.Find(ctx, tenantID, id); err != nil {
		return err
	}
	n, err := r.events.CountByCategory(ctx, tenantID, id)
	if err != nil {
		return fmt.Errorf("failed to count events: %w", err)
	}
	if n > 0 {
		return shared.NewDomainError("HAS_EVENTS", "Category is still used by events")
	}
	return r.Store.DeleteForTenant(ctx, tenantID, id)
}

// Service manages the village agenda: events, their categories and registrations
type Service struct {
	repos     Repositories
	scope     TransactionScope
	residents reference.PendudukRepository
	logger    *zap.Logger
	now       func() time.Time

	Categories *CategoryRegistry
}

// NewService creates a new agenda Service
func NewService(repos Repositories, scope TransactionScope, residents reference.PendudukRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{repos: repos, scope: scope, residents: residents, logger: logger, now: time.Now}
	s.Categories = &CategoryRegistry{
		Registry: &registry.Registry[agenda.Category, *agenda.Category, CategoryRequest, CategoryResponse]{
			Store:    repos.Categories,
			NotFound: shared.NewDomainError("NOT_FOUND", "Event category not found"),
			New: func(tenantID uuid.UUID) *agenda.Category {
				return &agenda.Category{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID), IsActive: true}
			},
			Apply:   func(c *agenda.Category, r CategoryRequest) { r.applyTo(c) },
			Respond: ToCategoryResponse,
			Unique: func(ctx context.Context, c *agenda.Category) (bool, error) {
				return repos.Categories.ExistsByName(ctx, c.TenantID, c.Name, c.ID)
			},
			Conflict: shared.NewDomainError("ALREADY_EXISTS", "Event category already exists"),
		},
		events: repos.Events,
	}
	return s
}

// =============================================================================
// Events
// =============================================================================

// CreateEvent adds a draft event with a slug derived from its title
func (s *Service) CreateEvent(ctx context.Context, tenantID uuid.UUID, req EventRequest) (*EventResponse, error) {
	e, err := agenda.NewEvent(tenantID, req.input())
	if err != nil {
		return nil, err
	}
	return s.saveEvent(ctx, e, true)
}

// UpdateEvent replaces an event. The slug follows the title when it changes.
func (s *Service) UpdateEvent(ctx context.Context, tenantID, id uuid.UUID, req EventRequest) (*EventResponse, error) {
	e, err := s.findEvent(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	retitled := e.Title != req.Title
	if err := e.Update(req.input()); err != nil {
		return nil, err
	}
	return s.saveEvent(ctx, e, retitled)
}

func (s *Service) saveEvent(ctx context.Context, e *agenda.Event, reslug bool) (*EventResponse, error) {
	if _, err := s.Categories.Find(ctx, e.TenantID, e.CategoryID); err != nil {
		if errors.Is(err, s.Categories.NotFound) {
			return nil, shared.NewDomainError("INVALID_CATEGORY", "Event category not found")
		}
		return nil, err
	}
	if reslug {
		slug, err := shared.UniqueSlug(agenda.Slugify(e.Title), func(candidate string) (bool, error) {
			return s.repos.Events.SlugExists(ctx, e.TenantID, candidate, e.ID)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to check slug: %w", err)
		}
		e.Slug = slug
	}
	if err := s.repos.Events.Save(ctx, e); err != nil {
		return nil, err
	}
	resp := ToEventResponse(e)
	return &resp, nil
}

// GetEvent returns one event
func (s *Service) GetEvent(ctx context.Context, tenantID, id uuid.UUID) (*EventResponse, error) {
	e, err := s.findEvent(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToEventResponse(e)
	return &resp, nil
}

// ListEvents returns one page of events
func (s *Service) ListEvents(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]EventResponse, int64, error) {
	rows, err := s.repos.Events.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repos.Events.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]EventResponse, len(rows))
	for i := range rows {
		out[i] = ToEventResponse(&rows[i])
	}
	return out, total, nil
}

// DeleteEvent removes an event nobody has registered for
func (s *Service) DeleteEvent(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.findEvent(ctx, tenantID, id); err != nil {
		return err
	}
	n, err := s.repos.Participants.CountForTenant(ctx, tenantID, shared.Filter{}.With("event_id", id))
	if err != nil {
		return fmt.Errorf("failed to count registrations: %w", err)
	}
	if n > 0 {
		return shared.NewDomainError("HAS_PARTICIPANTS", "Event has registrations and cannot be deleted")
	}
	return s.repos.Events.DeleteForTenant(ctx, tenantID, id)
}

// PublishEvent opens an event on the public agenda
func (s *Service) PublishEvent(ctx context.Context, tenantID, id uuid.UUID) (*EventResponse, error) {
	return s.transition(ctx, tenantID, id, func(e *agenda.Event) error { return e.Publish(s.now()) })
}

// StartEvent marks an event as running
func (s *Service) StartEvent(ctx context.Context, tenantID, id uuid.UUID) (*EventResponse, error) {
	return s.transition(ctx, tenantID, id, (*agenda.Event).Start)
}

// CompleteEvent closes an event
func (s *Service) CompleteEvent(ctx context.Context, tenantID, id uuid.UUID) (*EventResponse, error) {
	return s.transition(ctx, tenantID, id, (*agenda.Event).Complete)
}

// CancelEvent calls off an event
func (s *Service) CancelEvent(ctx context.Context, tenantID, id uuid.UUID) (*EventResponse, error) {
	return s.transition(ctx, tenantID, id, (*agenda.Event).Cancel)
}

func (s *Service) transition(ctx context.Context, tenantID, id uuid.UUID, apply func(*agenda.Event) error) (*EventResponse, error) {
	e, err := s.findEvent(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := apply(e); err != nil {
		return nil, err
	}
	if err := s.repos.Events.Save(ctx, e); err != nil {
		return nil, err
	}
	s.logger.Info("event status changed",
		zap.String("event_id", e.ID.String()),
		zap.String("status", string(e.Status)))
	resp := ToEventResponse(e)
	return &resp, nil
}

func (s *Service) findEvent(ctx context.Context, tenantID, id uuid.UUID) (*agenda.Event, error) {
	return findEvent(ctx, s.repos.Events, tenantID, id)
}

func findEvent(ctx context.Context, repo agenda.EventRepository, tenantID, id uuid.UUID) (*agenda.Event, error) {
	e, err := repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errEventNotFound
		}
		return nil, err
	}
	return e, nil
}

// =============================================================================
// Registrations
// =============================================================================

// Register signs a resident up for an event. The capacity check and the seat
// count run in one transaction with the event row locked, so concurrent
// registrations cannot overfill it. A cancelled registration is reopened.
func (s *Service) Register(ctx context.Context, tenantID, eventID uuid.UUID, req RegisterRequest) (*ParticipantResponse, error) {
	if _, err := s.residents.FindByIDForTenant(ctx, tenantID, req.PendudukID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_RESIDENT", "Resident not found")
		}
		return nil, err
	}
	source := agenda.Source(req.RegistrationSource)
	var p *agenda.Participant
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		e, err := repos.EventRepo().FindForUpdate(ctx, tenantID, eventID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return errEventNotFound
			}
			return err
		}
		p, err = repos.ParticipantRepo().FindByEventAndResident(ctx, tenantID, eventID, req.PendudukID)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			p, err = agenda.NewParticipant(tenantID, eventID, req.PendudukID, source, req.Phone, req.Email, req.Notes)
			if err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if err := p.Reopen(source); err != nil {
				return err
			}
		}
		if err := e.TakeSeat(s.now()); err != nil {
			return err
		}
		if err := repos.EventRepo().Save(ctx, e); err != nil {
			return err
		}
		return repos.ParticipantRepo().Save(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("event registration recorded",
		zap.String("tenant_id", tenantID.String()),
		zap.String("event_id", eventID.String()),
		zap.String("participant_id", p.ID.String()))
	resp := ToParticipantResponse(p)
	return &resp, nil
}

// CancelRegistration withdraws a registration and frees its seat
func (s *Service) CancelRegistration(ctx context.Context, tenantID, id uuid.UUID) (*ParticipantResponse, error) {
	var p *agenda.Participant
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		p, err = findParticipant(ctx, repos.ParticipantRepo(), tenantID, id)
		if err != nil {
			return err
		}
		e, err := repos.EventRepo().FindForUpdate(ctx, tenantID, p.EventID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return errEventNotFound
			}
			return err
		}
		if err := p.Cancel(); err != nil {
			return err
		}
		e.ReleaseSeat()
		if err := repos.EventRepo().Save(ctx, e); err != nil {
			return err
		}
		return repos.ParticipantRepo().Save(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	resp := ToParticipantResponse(p)
	return &resp, nil
}

// ConfirmParticipant accepts a pending registration
func (s *Service) ConfirmParticipant(ctx context.Context, tenantID, id uuid.UUID) (*ParticipantResponse, error) {
	return s.attend(ctx, tenantID, id, (*agenda.Participant).Confirm)
}

// CheckIn records that a participant showed up
func (s *Service) CheckIn(ctx context.Context, tenantID, id uuid.UUID) (*ParticipantResponse, error) {
	return s.attend(ctx, tenantID, id, func(p *agenda.Participant) error { return p.CheckIn(s.now()) })
}

// MarkAbsent records a no-show
func (s *Service) MarkAbsent(ctx context.Context, tenantID, id uuid.UUID) (*ParticipantResponse, error) {
	return s.attend(ctx, tenantID, id, (*agenda.Participant).MarkAbsent)
}

func (s *Service) attend(ctx context.Context, tenantID, id uuid.UUID, apply func(*agenda.Participant) error) (*ParticipantResponse, error) {
	p, err := findParticipant(ctx, s.repos.Participants, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := apply(p); err != nil {
		return nil, err
	}
	if err := s.repos.Participants.Save(ctx, p); err != nil {
		return nil, err
	}
	resp := ToParticipantResponse(p)
	return &resp, nil
}

// ListParticipants returns one page of registrations
func (s *Service) ListParticipants(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ParticipantResponse, int64, error) {
	rows, err := s.repos.Participants.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repos.Participants.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ParticipantResponse, len(rows))
	for i := range rows {
		out[i] = ToParticipantResponse(&rows[i])
	}
	return out, total, nil
}

func findParticipant(ctx context.Context, repo agenda.ParticipantRepository, tenantID, id uuid.UUID) (*agenda.Participant, error) {
	p, err := repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errParticipantNotFound
		}
		return nil, err
	}
	return p, nil
}

// Stats counts events by status and registrations by attendance
func (s *Service) Stats(ctx context.Context, tenantID uuid.UUID) (*StatsResponse, error) {
	byStatus, err := s.repos.Events.CountByStatus(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}
	participants, err := s.repos.Participants.CountByStatus(ctx, tenantID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count registrations: %w", err)
	}
	out := &StatsResponse{EventsByStatus: make(map[string]int64, len(byStatus))}
	for st, n := range byStatus {
		out.EventsByStatus[string(st)] = n
		out.TotalEvents += n
	}
	for _, n := range participants {
		out.TotalParticipants += n
	}
	out.ConfirmedAttendees = participants[agenda.ParticipantConfirmed]
	out.AttendedCount = participants[agenda.ParticipantAttended]
	return out, nil
}

// =============================================================================
// Public agenda
// =============================================================================

// ListPublished returns events open on the public agenda
func (s *Service) ListPublished(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]EventResponse, int64, error) {
	filters := make(map[string]interface{}, len(filter.Filters)+1)
	for k, v := range filter.Filters {
		filters[k] = v
	}
	filters["status"] = string(agenda.StatusPublished)
	filter.Filters = filters
	return s.ListEvents(ctx, tenantID, filter)
}

// GetPublishedBySlug returns a public event and counts the view
func (s *Service) GetPublishedBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*EventResponse, error) {
	e, err := s.repos.Events.FindBySlug(ctx, tenantID, slug)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errEventNotFound
		}
		return nil, err
	}
	if !e.IsPublic() {
		return nil, errEventNotFound
	}
	if err := s.repos.Events.IncrementViews(ctx, tenantID, e.ID); err != nil {
		s.logger.Warn("failed to count event view", zap.String("event_id", e.ID.String()), zap.Error(err))
	} else {
		e.ViewsCount++
	}
	resp := ToEventResponse(e)
	return &resp, nil
}
