package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/identity"
	"github.com/pulosarok/desa/internal/domain/shared"
	"go.uber.org/zap"
)

// StaffService manages the staff accounts of a village
type StaffService struct {
	repo   identity.StaffRepository
	events shared.EventPublisher
	logger *zap.Logger
}

// NewStaffService creates a new StaffService
func NewStaffService(repo identity.StaffRepository, events shared.EventPublisher, logger *zap.Logger) *StaffService {
	return &StaffService{repo: repo, events: events, logger: logger}
}

// Create adds a staff account
func (s *StaffService) Create(ctx context.Context, tenantID uuid.UUID, req CreateStaffRequest) (*StaffResponse, error) {
	exists, err := s.repo.ExistsByUsername(ctx, tenantID, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Username is already taken")
	}

	staff, err := identity.NewStaff(tenantID, req.Username, req.Password, identity.StaffRole(req.Role))
	if err != nil {
		return nil, err
	}
	if err := staff.SetProfile(req.DisplayName, req.Email); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, staff); err != nil {
		return nil, err
	}

	events := staff.PullDomainEvents()
	if s.events != nil && len(events) > 0 {
		if err := s.events.Publish(ctx, events...); err != nil {
			s.logger.Warn("Failed to publish staff events", zap.Error(err))
		}
	}

	resp := ToStaffResponse(staff)
	return &resp, nil
}

// GetByID returns one staff account
func (s *StaffService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*StaffResponse, error) {
	staff, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToStaffResponse(staff)
	return &resp, nil
}

// List returns one page of staff accounts
func (s *StaffService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StaffResponse, int64, error) {
	rows, err := s.repo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]StaffResponse, len(rows))
	for i := range rows {
		out[i] = ToStaffResponse(&rows[i])
	}
	return out, total, nil
}

// Update changes profile fields and the role
func (s *StaffService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateStaffRequest) (*StaffResponse, error) {
	staff, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	displayName, email := staff.DisplayName, staff.Email
	if req.DisplayName != nil {
		displayName = *req.DisplayName
	}
	if req.Email != nil {
		email = *req.Email
	}
	if err := staff.SetProfile(displayName, email); err != nil {
		return nil, err
	}
	if req.Role != nil {
		if err := staff.SetRole(identity.StaffRole(*req.Role)); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Save(ctx, staff); err != nil {
		return nil, err
	}
	resp := ToStaffResponse(staff)
	return &resp, nil
}

// Deactivate blocks an account from signing in. Staff cannot deactivate themselves.
func (s *StaffService) Deactivate(ctx context.Context, tenantID, id, actorID uuid.UUID) error {
	if id == actorID {
		return shared.NewDomainError("CANNOT_DEACTIVATE_SELF", "You cannot deactivate your own account")
	}
	staff, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := staff.Deactivate(); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, staff); err != nil {
		return err
	}
	s.logger.Info("Staff deactivated", zap.String("staff_id", id.String()), zap.String("by", actorID.String()))
	return nil
}

// Activate re-enables an account and clears any lock
func (s *StaffService) Activate(ctx context.Context, tenantID, id uuid.UUID) error {
	staff, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := staff.Activate(); err != nil {
		return err
	}
	return s.repo.Save(ctx, staff)
}
