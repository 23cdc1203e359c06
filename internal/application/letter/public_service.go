package letter

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/letter"
	"github.com/pulosarok/desa/internal/domain/reference"
	"github.com/pulosarok/desa/internal/domain/shared"
)

var errPublicNotFound = shared.NewDomainError("NOT_FOUND", "No letter matches this code")

// PublicService answers unauthenticated lookups by public code. Drafts are never exposed.
type PublicService struct {
	letters   letter.LetterRepository
	types     letter.LetterTypeRepository
	tracking  letter.TrackingRepository
	residents reference.PendudukRepository
	settings  *SettingsService
}

// NewPublicService creates a new PublicService
func NewPublicService(
	letters letter.LetterRepository,
	types letter.LetterTypeRepository,
	tracking letter.TrackingRepository,
	residents reference.PendudukRepository,
	settings *SettingsService,
) *PublicService {
	return &PublicService{
		letters:   letters,
		types:     types,
		tracking:  tracking,
		residents: residents,
		settings:  settings,
	}
}

// Verify returns the public facts of a letter and re-checks its signature.
// Anonymous lookups leave the signature rows untouched.
func (s *PublicService) Verify(ctx context.Context, tenantID uuid.UUID, code string) (*PublicVerifyResponse, error) {
	l, err := s.find(ctx, tenantID, code)
	if err != nil {
		return nil, err
	}
	settings, err := s.settings.Active(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	typeName, err := s.typeName(ctx, l)
	if err != nil {
		return nil, err
	}
	result, _, err := check(l)
	if err != nil {
		return nil, err
	}

	applicant := ""
	if p, err := s.residents.FindByIDForTenant(ctx, tenantID, l.ApplicantID); err == nil {
		applicant = p.MaskedName()
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	return &PublicVerifyResponse{
		LetterNumber:      l.Number(),
		Subject:           l.Subject,
		LetterType:        typeName,
		Status:            string(l.Status),
		IsDigitallySigned: l.IsDigitallySigned,
		ApplicantName:     applicant,
		ApprovalDate:      l.ApprovalDate,
		VillageName:       settings.VillageName,
		Verification:      result.Result,
	}, nil
}

// Track returns the status timeline of a letter
func (s *PublicService) Track(ctx context.Context, tenantID uuid.UUID, code string) (*PublicTrackResponse, error) {
	l, err := s.find(ctx, tenantID, code)
	if err != nil {
		return nil, err
	}
	typeName, err := s.typeName(ctx, l)
	if err != nil {
		return nil, err
	}
	rows, err := s.tracking.ListByLetter(ctx, tenantID, l.ID)
	if err != nil {
		return nil, err
	}
	steps := make([]PublicTrackStep, 0, len(rows))
	for _, row := range rows {
		steps = append(steps, PublicTrackStep{
			Action:      string(row.Action),
			Description: row.Description,
			PerformedAt: row.PerformedAt,
		})
	}
	return &PublicTrackResponse{
		PublicCode:   l.PublicCode,
		LetterNumber: l.Number(),
		LetterType:   typeName,
		Status:       string(l.Status),
		Timeline:     steps,
	}, nil
}

func (s *PublicService) find(ctx context.Context, tenantID uuid.UUID, code string) (*letter.Letter, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil, errPublicNotFound
	}
	l, err := s.letters.FindByPublicCode(ctx, tenantID, code)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errPublicNotFound
		}
		return nil, err
	}
	if l.Status == letter.StatusDraft {
		return nil, errPublicNotFound
	}
	return l, nil
}

func (s *PublicService) typeName(ctx context.Context, l *letter.Letter) (string, error) {
	lt, err := s.types.FindByIDForTenant(ctx, l.TenantID, l.LetterTypeID)
	if err != nil {
		return "", err
	}
	return lt.Name, nil
}
