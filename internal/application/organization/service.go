package organization

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/application/registry"
	"github.com/pulosarok/desa/internal/domain/organization"
	"github.com/pulosarok/desa/internal/domain/reference"
	"github.com/pulosarok/desa/internal/domain/shared"
	"go.uber.org/zap"
)

var (
	errOrganizationNotFound = shared.NewDomainError("NOT_FOUND", "Organization not found")
	errPeriodNotFound       = shared.NewDomainError("NOT_FOUND", "Period not found")
	errActivityNotFound     = shared.NewDomainError("NOT_FOUND", "Activity not found")
)

// Repositories groups the organization stores
type Repositories struct {
	Types         organization.TypeRepository
	Organizations organization.OrganizationRepository
	Periods       organization.PeriodRepository
	Members       organization.MemberRepository
	Activities    organization.ActivityRepository
}

// TypeRegistry is the type register. Types still used by an organization cannot be deleted.
type TypeRegistry struct {
	*registry.Registry[organization.Type, *organization.Type, TypeRequest, TypeResponse]
	organizations organization.OrganizationRepository
}

// Delete removes a type that no organization uses
func (r *TypeRegistry) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := r.Find(ctx, tenantID, id); err != nil {
		return err
	}
	n, err := r.organizations.CountByType(ctx, tenantID, id)
	if err != nil {
		return fmt.Errorf("failed to count organizations: %w", err)
	}
	if n > 0 {
		return shared.NewDomainError("HAS_ORGANIZATIONS", "Type is still used by organizations")
	}
	return r.Store.DeleteForTenant(ctx, tenantID, id)
}

// Service manages community organizations, their board periods, members and activities
type Service struct {
	repos     Repositories
	scope     TransactionScope
	residents reference.PendudukRepository
	logger    *zap.Logger
	now       func() time.Time

	Types         *TypeRegistry
	Organizations *registry.Registry[organization.Organization, *organization.Organization, OrganizationRequest, OrganizationResponse]
	Periods       *registry.Registry[organization.Period, *organization.Period, PeriodRequest, PeriodResponse]
	Members       *registry.Registry[organization.Member, *organization.Member, MemberRequest, MemberResponse]
	Activities    *registry.Registry[organization.Activity, *organization.Activity, ActivityRequest, ActivityResponse]
}

// NewService creates a new organization Service
func NewService(repos Repositories, scope TransactionScope, residents reference.PendudukRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{repos: repos, scope: scope, residents: residents, logger: logger, now: time.Now}

	s.Types = &TypeRegistry{
		Registry: &registry.Registry[organization.Type, *organization.Type, TypeRequest, TypeResponse]{
			Store:    repos.Types,
			NotFound: shared.NewDomainError("NOT_FOUND", "Organization type not found"),
			New: func(tenantID uuid.UUID) *organization.Type {
				return &organization.Type{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID), IsActive: true}
			},
			Apply:   func(t *organization.Type, r TypeRequest) { r.applyTo(t) },
			Respond: ToTypeResponse,
			Unique: func(ctx context.Context, t *organization.Type) (bool, error) {
				return repos.Types.ExistsByName(ctx, t.TenantID, t.Name, t.ID)
			},
			Conflict: shared.NewDomainError("ALREADY_EXISTS", "Organization type already exists"),
		},
		organizations: repos.Organizations,
	}
	s.Organizations = &registry.Registry[organization.Organization, *organization.Organization, OrganizationRequest, OrganizationResponse]{
		Store:    repos.Organizations,
		NotFound: errOrganizationNotFound,
		New: func(tenantID uuid.UUID) *organization.Organization {
			return &organization.Organization{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID), IsActive: true}
		},
		Apply:   func(o *organization.Organization, r OrganizationRequest) { r.applyTo(o) },
		Respond: ToOrganizationResponse,
		Check:   s.checkOrganization,
	}
	s.Periods = &registry.Registry[organization.Period, *organization.Period, PeriodRequest, PeriodResponse]{
		Store:    repos.Periods,
		NotFound: errPeriodNotFound,
		New: func(tenantID uuid.UUID) *organization.Period {
			return &organization.Period{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID)}
		},
		Apply:   func(p *organization.Period, r PeriodRequest) { r.applyTo(p) },
		Respond: ToPeriodResponse,
		Check: func(ctx context.Context, p *organization.Period) error {
			return s.requireOrganization(ctx, p.TenantID, p.OrganizationID)
		},
	}
	s.Members = &registry.Registry[organization.Member, *organization.Member, MemberRequest, MemberResponse]{
		Store:    repos.Members,
		NotFound: shared.NewDomainError("NOT_FOUND", "Member not found"),
		New: func(tenantID uuid.UUID) *organization.Member {
			return &organization.Member{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID)}
		},
		Apply:   func(m *organization.Member, r MemberRequest) { r.applyTo(m) },
		Respond: ToMemberResponse,
		Check:   s.checkMember,
		Unique: func(ctx context.Context, m *organization.Member) (bool, error) {
			return repos.Members.ExistsPosition(ctx, m.TenantID, m.OrganizationID, m.PendudukID, m.Position, m.ID)
		},
		Conflict: shared.NewDomainError("ALREADY_EXISTS", "Resident already holds this position"),
	}
	s.Activities = &registry.Registry[organization.Activity, *organization.Activity, ActivityRequest, ActivityResponse]{
		Store:    repos.Activities,
		NotFound: errActivityNotFound,
		New: func(tenantID uuid.UUID) *organization.Activity {
			return &organization.Activity{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID)}
		},
		Apply:   func(a *organization.Activity, r ActivityRequest) { r.applyTo(a) },
		Respond: ToActivityResponse,
		Check: func(ctx context.Context, a *organization.Activity) error {
			return s.requireOrganization(ctx, a.TenantID, a.OrganizationID)
		},
	}
	return s
}

func (s *Service) checkOrganization(ctx context.Context, o *organization.Organization) error {
	if _, err := s.Types.Find(ctx, o.TenantID, o.TypeID); err != nil {
		if errors.Is(err, s.Types.NotFound) {
			return shared.NewDomainError("INVALID_TYPE", "Organization type not found")
		}
		return err
	}
	if o.LeaderID != nil {
		if err := s.requireResident(ctx, o.TenantID, *o.LeaderID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) checkMember(ctx context.Context, m *organization.Member) error {
	if err := s.requireOrganization(ctx, m.TenantID, m.OrganizationID); err != nil {
		return err
	}
	if err := s.requireResident(ctx, m.TenantID, m.PendudukID); err != nil {
		return err
	}
	if m.PeriodID == nil {
		return nil
	}
	p, err := s.repos.Periods.FindByIDForTenant(ctx, m.TenantID, *m.PeriodID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_PERIOD", "Period not found")
		}
		return err
	}
	if p.OrganizationID != m.OrganizationID {
		return shared.NewDomainError("INVALID_PERIOD", "Period belongs to another organization")
	}
	return nil
}

func (s *Service) requireOrganization(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.repos.Organizations.FindByIDForTenant(ctx, tenantID, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_ORGANIZATION", "Organization not found")
		}
		return err
	}
	return nil
}

func (s *Service) requireResident(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.residents.FindByIDForTenant(ctx, tenantID, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_RESIDENT", "Resident not found")
		}
		return err
	}
	return nil
}

// ActivatePeriod makes a period the current board term of its organization
// and deactivates every other period in the same transaction.
func (s *Service) ActivatePeriod(ctx context.Context, tenantID, id uuid.UUID) (*PeriodResponse, error) {
	var p *organization.Period
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		p, err = repos.PeriodRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return errPeriodNotFound
			}
			return err
		}
		if err := repos.PeriodRepo().DeactivateOthers(ctx, tenantID, p.OrganizationID, p.ID); err != nil {
			return fmt.Errorf("failed to deactivate periods: %w", err)
		}
		if p.IsActive {
			return nil
		}
		p.IsActive = true
		p.Touch()
		p.IncrementVersion()
		return repos.PeriodRepo().Save(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("organization period activated",
		zap.String("tenant_id", tenantID.String()),
		zap.String("organization_id", p.OrganizationID.String()),
		zap.String("period_id", p.ID.String()))
	resp := ToPeriodResponse(p)
	return &resp, nil
}

// CompleteActivity closes an activity with its turnout
func (s *Service) CompleteActivity(ctx context.Context, tenantID, id uuid.UUID, req CompleteActivityRequest) (*ActivityResponse, error) {
	a, err := s.Activities.Find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := a.Complete(req.ParticipantsCount); err != nil {
		return nil, err
	}
	if err := s.repos.Activities.Save(ctx, a); err != nil {
		return nil, err
	}
	resp := ToActivityResponse(a)
	return &resp, nil
}

// Overview reports the active board, membership and activity counts of an organization
func (s *Service) Overview(ctx context.Context, tenantID, id uuid.UUID) (*OverviewResponse, error) {
	o, err := s.Organizations.Find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := &OverviewResponse{Organization: ToOrganizationResponse(o)}

	p, err := s.repos.Periods.FindActive(ctx, tenantID, id)
	switch {
	case errors.Is(err, shared.ErrNotFound):
	case err != nil:
		return nil, err
	default:
		pr := ToPeriodResponse(p)
		resp.ActivePeriod = &pr
	}

	if resp.ActiveMembers, err = s.repos.Members.CountForTenant(ctx, tenantID, byOrganization(id).With("status", string(organization.MemberActive))); err != nil {
		return nil, err
	}
	positions, err := s.repos.Members.CountByPosition(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp.MembersByPosition = make(map[string]int64, len(positions))
	for pos, n := range positions {
		resp.MembersByPosition[string(pos)] = n
	}
	if resp.CompletedActivities, err = s.repos.Activities.CountForTenant(ctx, tenantID, byOrganization(id).With("is_completed", true)); err != nil {
		return nil, err
	}
	upcoming := byOrganization(id).With("is_completed", false).With("event_date__gte", s.now())
	if resp.UpcomingActivities, err = s.repos.Activities.CountForTenant(ctx, tenantID, upcoming); err != nil {
		return nil, err
	}
	return resp, nil
}

// byOrganization starts a fresh filter; Filter.With shares its map between copies
func byOrganization(id uuid.UUID) shared.Filter {
	return shared.Filter{}.With("organization_id", id)
}
