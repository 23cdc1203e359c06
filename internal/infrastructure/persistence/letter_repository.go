package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/letter"
	"github.com/pulosarok/desa/internal/domain/shared"
	"github.com/pulosarok/desa/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLetterRepository implements letter.LetterRepository using GORM
type GormLetterRepository struct {
	gormTenantStore[letter.Letter]
}

// NewGormLetterRepository creates a new GormLetterRepository
func NewGormLetterRepository(db *gorm.DB) *GormLetterRepository {
	return &GormLetterRepository{newTenantStore[letter.Letter](db, listSpec{
		searchColumns: []string{"subject", "letter_number", "content"},
		sortFields:    sortFields("submission_date", "letter_number", "status", "priority", "subject"),
		filterColumns: columns("status", "priority", "letter_type_id", "applicant_id", "created_by", "submission_date"),
	})}
}

// FindByIDForUpdate loads the letter with a row lock held until the transaction ends
func (r *GormLetterRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*letter.Letter, error) {
	var l letter.Letter
	if err := forUpdate(r.scoped(ctx, tenantID)).Where("id = ?", id).First(&l).Error; err != nil {
		return nil, translate(err)
	}
	return &l, nil
}

// FindByPublicCode finds a letter by the code printed on its QR
func (r *GormLetterRepository) FindByPublicCode(ctx context.Context, tenantID uuid.UUID, code string) (*letter.Letter, error) {
	var l letter.Letter
	if err := r.scoped(ctx, tenantID).Where("public_code = ?", code).First(&l).Error; err != nil {
		return nil, translate(err)
	}
	return &l, nil
}

// ExistsForType reports whether any letter references the letter type
func (r *GormLetterRepository) ExistsForType(ctx context.Context, tenantID, letterTypeID uuid.UUID) (bool, error) {
	return r.exists(ctx, tenantID, "letter_type_id = ?", letterTypeID)
}

// CountByStatus counts letters per workflow status. Every status is present in the result.
func (r *GormLetterRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID) (map[letter.Status]int64, error) {
	var rows []groupCount
	if err := r.scoped(ctx, tenantID).
		Select("status AS label, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[letter.Status]int64, len(letter.AllStatuses))
	for _, s := range letter.AllStatuses {
		out[s] = 0
	}
	for _, g := range rows {
		out[letter.Status(g.Label)] = g.Total
	}
	return out, nil
}

// CountIssuedSince counts letters that received a number on or after since
func (r *GormLetterRepository) CountIssuedSince(ctx context.Context, tenantID uuid.UUID, since time.Time) (int64, error) {
	var n int64
	err := r.scoped(ctx, tenantID).
		Where("letter_number IS NOT NULL AND submission_date >= ?", since).
		Count(&n).Error
	return n, err
}

// GormLetterTypeRepository implements letter.LetterTypeRepository using GORM
type GormLetterTypeRepository struct {
	gormTenantStore[letter.LetterType]
}

// NewGormLetterTypeRepository creates a new GormLetterTypeRepository
func NewGormLetterTypeRepository(db *gorm.DB) *GormLetterTypeRepository {
	return &GormLetterTypeRepository{newTenantStore[letter.LetterType](db, listSpec{
		searchColumns: []string{"code", "name"},
		sortFields:    sortFields("code", "name", "processing_time_days"),
		filterColumns: columns("is_active"),
		defaultOrder:  "name ASC",
	})}
}

// ExistsByCode checks whether another letter type uses code
func (r *GormLetterTypeRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string, excludeID uuid.UUID) (bool, error) {
	return r.exists(ctx, tenantID, "code = ? AND id <> ?", code, excludeID)
}

// GormSettingsRepository implements letter.SettingsRepository using GORM
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// FindActive returns the active settings row of the tenant
func (r *GormSettingsRepository) FindActive(ctx context.Context, tenantID uuid.UUID) (*letter.Settings, error) {
	var s letter.Settings
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("is_active = ?", true).
		Order("updated_at DESC").
		First(&s).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

// Save stores s and deactivates every other settings row of the tenant
func (r *GormSettingsRepository) Save(ctx context.Context, s *letter.Settings) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if s.IsActive {
			if err := tx.Model(&letter.Settings{}).
				Scopes(tenant.Scope(s.TenantID)).
				Where("id <> ? AND is_active = ?", s.ID, true).
				Update("is_active", false).Error; err != nil {
				return err
			}
		}
		return translate(tx.Save(s).Error)
	})
}

// GormTemplateRepository implements letter.TemplateRepository using GORM
type GormTemplateRepository struct {
	gormTenantStore[letter.Template]
}

// NewGormTemplateRepository creates a new GormTemplateRepository
func NewGormTemplateRepository(db *gorm.DB) *GormTemplateRepository {
	return &GormTemplateRepository{newTenantStore[letter.Template](db, listSpec{
		searchColumns: []string{"name", "description"},
		sortFields:    sortFields("name", "usage_count"),
		filterColumns: columns("template_type", "letter_type_id", "is_default", "is_active"),
		defaultOrder:  "name ASC",
	})}
}

// GormTrackingRepository implements letter.TrackingRepository using GORM
type GormTrackingRepository struct {
	db *gorm.DB
}

// NewGormTrackingRepository creates a new GormTrackingRepository
func NewGormTrackingRepository(db *gorm.DB) *GormTrackingRepository {
	return &GormTrackingRepository{db: db}
}

// Append inserts history entries. Existing rows are never updated.
func (r *GormTrackingRepository) Append(ctx context.Context, entries ...*letter.Tracking) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(entries).Error
}

// ListByLetter returns the history of a letter, oldest first
func (r *GormTrackingRepository) ListByLetter(ctx context.Context, tenantID, letterID uuid.UUID) ([]letter.Tracking, error) {
	var out []letter.Tracking
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("letter_id = ?", letterID).
		Order("performed_at ASC, created_at ASC").
		Find(&out).Error
	return out, err
}

// GormRecipientRepository implements letter.RecipientRepository using GORM
type GormRecipientRepository struct {
	gormTenantStore[letter.Recipient]
}

// NewGormRecipientRepository creates a new GormRecipientRepository
func NewGormRecipientRepository(db *gorm.DB) *GormRecipientRepository {
	return &GormRecipientRepository{newTenantStore[letter.Recipient](db, listSpec{
		searchColumns: []string{"name", "organization"},
		sortFields:    sortFields("name"),
		filterColumns: columns("letter_id", "recipient_type", "is_primary"),
	})}
}

// ListByLetter returns the recipients of a letter, primary first
func (r *GormRecipientRepository) ListByLetter(ctx context.Context, tenantID, letterID uuid.UUID) ([]letter.Recipient, error) {
	var out []letter.Recipient
	err := r.scoped(ctx, tenantID).
		Where("letter_id = ?", letterID).
		Order("is_primary DESC, created_at ASC").
		Find(&out).Error
	return out, err
}

// GormAttachmentRepository implements letter.AttachmentRepository using GORM
type GormAttachmentRepository struct {
	gormTenantStore[letter.Attachment]
}

// NewGormAttachmentRepository creates a new GormAttachmentRepository
func NewGormAttachmentRepository(db *gorm.DB) *GormAttachmentRepository {
	return &GormAttachmentRepository{newTenantStore[letter.Attachment](db, listSpec{
		searchColumns: []string{"title", "file_name"},
		sortFields:    sortFields("title"),
		filterColumns: columns("letter_id", "attachment_type"),
	})}
}

// ListByLetter returns the attachments of a letter
func (r *GormAttachmentRepository) ListByLetter(ctx context.Context, tenantID, letterID uuid.UUID) ([]letter.Attachment, error) {
	var out []letter.Attachment
	err := r.scoped(ctx, tenantID).
		Where("letter_id = ?", letterID).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

// GormAIValidationRepository implements letter.AIValidationRepository using GORM
type GormAIValidationRepository struct {
	db *gorm.DB
}

// NewGormAIValidationRepository creates a new GormAIValidationRepository
func NewGormAIValidationRepository(db *gorm.DB) *GormAIValidationRepository {
	return &GormAIValidationRepository{db: db}
}

// FindByLetter returns the validation row of a letter
func (r *GormAIValidationRepository) FindByLetter(ctx context.Context, tenantID, letterID uuid.UUID) (*letter.AIValidation, error) {
	var v letter.AIValidation
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("letter_id = ?", letterID).
		First(&v).Error; err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

// Save creates or replaces the validation row of a letter
func (r *GormAIValidationRepository) Save(ctx context.Context, v *letter.AIValidation) error {
	return translate(r.db.WithContext(ctx).Save(v).Error)
}

// GormSignatureRepository implements letter.SignatureRepository using GORM
type GormSignatureRepository struct {
	db *gorm.DB
}

// NewGormSignatureRepository creates a new GormSignatureRepository
func NewGormSignatureRepository(db *gorm.DB) *GormSignatureRepository {
	return &GormSignatureRepository{db: db}
}

// FindByLetterAndSigner returns the signature a signer placed on a letter
func (r *GormSignatureRepository) FindByLetterAndSigner(ctx context.Context, tenantID, letterID, signerID uuid.UUID) (*letter.Signature, error) {
	var s letter.Signature
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("letter_id = ? AND signer_id = ?", letterID, signerID).
		First(&s).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

// ListByLetter returns every signature on a letter, oldest first
func (r *GormSignatureRepository) ListByLetter(ctx context.Context, tenantID, letterID uuid.UUID) ([]letter.Signature, error) {
	var out []letter.Signature
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("letter_id = ?", letterID).
		Order("signed_at ASC").
		Find(&out).Error
	return out, err
}

// Save stores a signature. A second signature by the same signer maps to ErrAlreadyExists.
func (r *GormSignatureRepository) Save(ctx context.Context, s *letter.Signature) error {
	return translate(r.db.WithContext(ctx).Save(s).Error)
}

// GormArtifactRepository implements letter.ArtifactRepository using GORM
type GormArtifactRepository struct {
	db *gorm.DB
}

// NewGormArtifactRepository creates a new GormArtifactRepository
func NewGormArtifactRepository(db *gorm.DB) *GormArtifactRepository {
	return &GormArtifactRepository{db: db}
}

// Find returns the artifact with the given key
func (r *GormArtifactRepository) Find(ctx context.Context, tenantID, letterID uuid.UUID, kind letter.ArtifactKind, hash string) (*letter.Artifact, error) {
	var a letter.Artifact
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("letter_id = ? AND kind = ? AND content_hash = ?", letterID, kind, hash).
		First(&a).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

// Upsert inserts the artifact or refreshes the row with the same (letter, kind, hash)
func (r *GormArtifactRepository) Upsert(ctx context.Context, a *letter.Artifact) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "letter_id"}, {Name: "kind"}, {Name: "content_hash"}},
		DoUpdates: clause.AssignmentColumns([]string{"storage_key", "content_type", "size_bytes", "updated_at"}),
	}).Create(a).Error
}

// ListStale returns artifacts that a newer artifact of the same kind replaced,
// plus artifacts whose letter was deleted
func (r *GormArtifactRepository) ListStale(ctx context.Context, limit int) ([]letter.Artifact, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []letter.Artifact
	err := r.db.WithContext(ctx).
		Table("letter_artifacts a").
		Select("a.*").
		Where(`EXISTS (SELECT 1 FROM letter_artifacts n
			WHERE n.letter_id = a.letter_id AND n.kind = a.kind AND n.created_at > a.created_at)
			OR NOT EXISTS (SELECT 1 FROM letters l WHERE l.id = a.letter_id)`).
		Order("a.created_at ASC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// Delete removes an artifact row
func (r *GormArtifactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&letter.Artifact{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var (
	_ letter.LetterRepository       = (*GormLetterRepository)(nil)
	_ letter.LetterTypeRepository   = (*GormLetterTypeRepository)(nil)
	_ letter.SettingsRepository     = (*GormSettingsRepository)(nil)
	_ letter.TemplateRepository     = (*GormTemplateRepository)(nil)
	_ letter.TrackingRepository     = (*GormTrackingRepository)(nil)
	_ letter.RecipientRepository    = (*GormRecipientRepository)(nil)
	_ letter.AttachmentRepository   = (*GormAttachmentRepository)(nil)
	_ letter.AIValidationRepository = (*GormAIValidationRepository)(nil)
	_ letter.SignatureRepository    = (*GormSignatureRepository)(nil)
	_ letter.ArtifactRepository     = (*GormArtifactRepository)(nil)
)
