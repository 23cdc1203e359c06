package letter

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/letter"
	"github.com/pulosarok/desa/internal/domain/shared"
	"go.uber.org/zap"
)

// SettingsDefaults seed the settings row created on first read
type SettingsDefaults struct {
	VillageName         string
	VerificationBaseURL string
}

// SettingsService reads and edits the per-tenant letter settings
type SettingsService struct {
	repo     letter.SettingsRepository
	defaults SettingsDefaults
	logger   *zap.Logger
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(repo letter.SettingsRepository, defaults SettingsDefaults, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{repo: repo, defaults: defaults, logger: logger}
}

// Active returns the active settings, creating defaults when the tenant has none
func (s *SettingsService) Active(ctx context.Context, tenantID uuid.UUID) (*letter.Settings, error) {
	settings, err := s.repo.FindActive(ctx, tenantID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	settings = letter.NewDefaultSettings(tenantID, s.defaults.VillageName, s.defaults.VerificationBaseURL)
	if err := s.repo.Save(ctx, settings); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			// created concurrently
			return s.repo.FindActive(ctx, tenantID)
		}
		return nil, err
	}
	s.logger.Info("Created default letter settings", zap.String("tenant_id", tenantID.String()))
	return settings, nil
}

// Get returns the active settings
func (s *SettingsService) Get(ctx context.Context, tenantID uuid.UUID) (*SettingsResponse, error) {
	settings, err := s.Active(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	resp := ToSettingsResponse(settings)
	return &resp, nil
}

// Update edits the active settings. The version bump invalidates cached PDFs.
func (s *SettingsService) Update(ctx context.Context, tenantID uuid.UUID, req UpdateSettingsRequest) (*SettingsResponse, error) {
	settings, err := s.Active(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	setString(&settings.VillageName, req.VillageName)
	setString(&settings.VillageAddress, req.VillageAddress)
	setString(&settings.VillagePhone, req.VillagePhone)
	setString(&settings.VillageEmail, req.VillageEmail)
	setString(&settings.VillageWebsite, req.VillageWebsite)
	setString(&settings.HeadName, req.HeadName)
	setString(&settings.HeadNIP, req.HeadNIP)
	setString(&settings.SecretaryName, req.SecretaryName)
	setString(&settings.SecretaryNIP, req.SecretaryNIP)
	setString(&settings.LetterNumberFormat, req.LetterNumberFormat)
	setString(&settings.VerificationBaseURL, req.VerificationBaseURL)
	if req.HeadSignatureType != nil {
		settings.HeadSignatureType = letter.SignatureType(*req.HeadSignatureType)
	}
	setBool(&settings.ResetCounterYearly, req.ResetCounterYearly)
	setBool(&settings.EnableAIValidation, req.EnableAIValidation)
	setBool(&settings.EnableAISuggestions, req.EnableAISuggestions)
	setBool(&settings.EnableDigitalSignature, req.EnableDigitalSignature)
	if req.AIValidationThreshold != nil {
		settings.AIValidationThreshold = *req.AIValidationThreshold
	}

	if err := settings.Commit(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, settings); err != nil {
		return nil, err
	}
	s.logger.Info("Letter settings updated",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("version", settings.Version))

	resp := ToSettingsResponse(settings)
	return &resp, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
