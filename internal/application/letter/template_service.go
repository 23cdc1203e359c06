package letter

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/letter"
	"github.com/pulosarok/desa/internal/domain/shared"
	"go.uber.org/zap"
)

var errTemplateNotFound = shared.NewDomainError("NOT_FOUND", "Template not found")

// TemplateService manages reusable letter bodies
type TemplateService struct {
	templates letter.TemplateRepository
	letters   letter.LetterRepository
	types     letter.LetterTypeRepository
	logger    *zap.Logger
}

// NewTemplateService creates a new TemplateService
func NewTemplateService(templates letter.TemplateRepository, letters letter.LetterRepository, types letter.LetterTypeRepository, logger *zap.Logger) *TemplateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TemplateService{templates: templates, letters: letters, types: types, logger: logger}
}

// Create stores a new template
func (s *TemplateService) Create(ctx context.Context, tenantID uuid.UUID, actor Actor, req TemplateRequest) (*TemplateResponse, error) {
	t, err := letter.NewTemplate(tenantID, req.Name, letter.TemplateType(req.TemplateType), req.ContentTemplate)
	if err != nil {
		return nil, err
	}
	if actor.ID != uuid.Nil {
		t.SetCreatedBy(actor.ID)
	}
	if err := s.apply(ctx, tenantID, t, req); err != nil {
		return nil, err
	}
	if err := s.templates.Save(ctx, t); err != nil {
		return nil, err
	}
	resp := ToTemplateResponse(t)
	return &resp, nil
}

// Update replaces a template
func (s *TemplateService) Update(ctx context.Context, tenantID, id uuid.UUID, req TemplateRequest) (*TemplateResponse, error) {
	t, err := s.find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := t.Update(req.Name, letter.TemplateType(req.TemplateType), req.ContentTemplate); err != nil {
		return nil, err
	}
	if err := s.apply(ctx, tenantID, t, req); err != nil {
		return nil, err
	}
	if err := s.templates.Save(ctx, t); err != nil {
		return nil, err
	}
	resp := ToTemplateResponse(t)
	return &resp, nil
}

// GetByID returns one template
func (s *TemplateService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*TemplateResponse, error) {
	t, err := s.find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToTemplateResponse(t)
	return &resp, nil
}

// List returns one page of templates
func (s *TemplateService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]TemplateResponse, int64, error) {
	rows, err := s.templates.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.templates.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]TemplateResponse, len(rows))
	for i := range rows {
		out[i] = ToTemplateResponse(&rows[i])
	}
	return out, total, nil
}

// Delete removes a template; letters created from it keep their text
func (s *TemplateService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := s.templates.DeleteForTenant(ctx, tenantID, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return errTemplateNotFound
		}
		return err
	}
	return nil
}

// Apply renders a template into an editable letter and counts the usage
func (s *TemplateService) Apply(ctx context.Context, tenantID, letterID uuid.UUID, req ApplyTemplateRequest) (*LetterResponse, error) {
	t, err := s.find(ctx, tenantID, req.TemplateID)
	if err != nil {
		return nil, err
	}
	if !t.IsActive {
		return nil, shared.NewDomainError("TEMPLATE_INACTIVE", "Template is not active")
	}
	l, err := s.letters.FindByIDForTenant(ctx, tenantID, letterID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errLetterNotFound
		}
		return nil, err
	}
	if err := l.UpdateBody(l.Subject, t.Render(req.Variables)); err != nil {
		return nil, err
	}
	l.TemplateID = &t.ID
	if err := s.letters.Save(ctx, l); err != nil {
		return nil, err
	}

	t.RecordUsage()
	if err := s.templates.Save(ctx, t); err != nil {
		s.logger.Warn("Failed to record template usage", zap.String("template_id", t.ID.String()), zap.Error(err))
	}
	resp := ToLetterResponse(l)
	return &resp, nil
}

func (s *TemplateService) apply(ctx context.Context, tenantID uuid.UUID, t *letter.Template, req TemplateRequest) error {
	if req.LetterTypeID != nil {
		if _, err := s.types.FindByIDForTenant(ctx, tenantID, *req.LetterTypeID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("INVALID_LETTER_TYPE", "Letter type not found")
			}
			return err
		}
	}
	t.Description = req.Description
	t.LetterTypeID = req.LetterTypeID
	t.CSSStyles = req.CSSStyles
	t.HeaderTemplate = req.HeaderTemplate
	t.FooterTemplate = req.FooterTemplate
	t.IsDefault = req.IsDefault
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}
	return nil
}

func (s *TemplateService) find(ctx context.Context, tenantID, id uuid.UUID) (*letter.Template, error) {
	t, err := s.templates.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errTemplateNotFound
		}
		return nil, err
	}
	return t, nil
}
