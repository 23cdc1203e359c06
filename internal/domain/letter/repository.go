package letter

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/shared"
)

// LetterRepository defines persistence for letters
type LetterRepository interface {
	shared.TenantStore[Letter]
	// FindByIDForUpdate loads the letter with a row lock held until the transaction ends
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Letter, error)
	FindByPublicCode(ctx context.Context, tenantID uuid.UUID, code string) (*Letter, error)
	ExistsForType(ctx context.Context, tenantID, letterTypeID uuid.UUID) (bool, error)
	CountByStatus(ctx context.Context, tenantID uuid.UUID) (map[Status]int64, error)
	CountIssuedSince(ctx context.Context, tenantID uuid.UUID, since time.Time) (int64, error)
}

// SequenceRepository hands out letter counters
type SequenceRepository interface {
	// Next atomically increments and returns the counter for (tenant, year).
	// The first call for a partition returns 1.
	Next(ctx context.Context, tenantID uuid.UUID, year int) (int64, error)
	// Current returns the last issued counter, 0 when none
	Current(ctx context.Context, tenantID uuid.UUID, year int) (int64, error)
}

// LetterTypeRepository defines persistence for letter types
type LetterTypeRepository interface {
	shared.TenantStore[LetterType]
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string, excludeID uuid.UUID) (bool, error)
}

// SettingsRepository defines persistence for letter settings
type SettingsRepository interface {
	FindActive(ctx context.Context, tenantID uuid.UUID) (*Settings, error)
	Save(ctx context.Context, s *Settings) error
}

// TemplateRepository defines persistence for letter templates
type TemplateRepository interface {
	shared.TenantStore[Template]
}

// TrackingRepository stores the append-only letter history
type TrackingRepository interface {
	Append(ctx context.Context, entries ...*Tracking) error
	ListByLetter(ctx context.Context, tenantID, letterID uuid.UUID) ([]Tracking, error)
}

// RecipientRepository defines persistence for letter recipients
type RecipientRepository interface {
	shared.TenantStore[Recipient]
	ListByLetter(ctx context.Context, tenantID, letterID uuid.UUID) ([]Recipient, error)
}

// AttachmentRepository defines persistence for letter attachments
type AttachmentRepository interface {
	shared.TenantStore[Attachment]
	ListByLetter(ctx context.Context, tenantID, letterID uuid.UUID) ([]Attachment, error)
}

// AIValidationRepository stores the validation row of each letter
type AIValidationRepository interface {
	FindByLetter(ctx context.Context, tenantID, letterID uuid.UUID) (*AIValidation, error)
	Save(ctx context.Context, v *AIValidation) error
}

// SignatureRepository defines persistence for signatures
type SignatureRepository interface {
	FindByLetterAndSigner(ctx context.Context, tenantID, letterID, signerID uuid.UUID) (*Signature, error)
	ListByLetter(ctx context.Context, tenantID, letterID uuid.UUID) ([]Signature, error)
	Save(ctx context.Context, s *Signature) error
}

// ArtifactRepository indexes rendered artifacts
type ArtifactRepository interface {
	Find(ctx context.Context, tenantID, letterID uuid.UUID, kind ArtifactKind, hash string) (*Artifact, error)
	// Upsert inserts the artifact or refreshes the row with the same (letter, kind, hash)
	Upsert(ctx context.Context, a *Artifact) error
	// ListStale returns artifacts superseded by a newer one of the same kind,
	// or whose letter no longer exists
	ListStale(ctx context.Context, limit int) ([]Artifact, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
