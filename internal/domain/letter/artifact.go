package letter

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/shared"
)

// ArtifactKind is the type of a rendered letter artifact
type ArtifactKind string

const (
	ArtifactPDF ArtifactKind = "pdf"
	ArtifactQR  ArtifactKind = "qr"
)

// ContentType returns the MIME type served for the kind
func (k ArtifactKind) ContentType() string {
	if k == ArtifactPDF {
		return "application/pdf"
	}
	return "image/png"
}

// Extension returns the file extension for the kind
func (k ArtifactKind) Extension() string {
	if k == ArtifactPDF {
		return ".pdf"
	}
	return ".png"
}

// IsValid reports whether k is a known kind
func (k ArtifactKind) IsValid() bool {
	return k == ArtifactPDF || k == ArtifactQR
}

// Artifact is a rendered file derived from a letter, keyed on the content hash
type Artifact struct {
	shared.BaseEntity
	TenantID    uuid.UUID    `gorm:"type:uuid;not null;index"`
	LetterID    uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_artifact_key"`
	Kind        ArtifactKind `gorm:"type:varchar(10);not null;uniqueIndex:idx_artifact_key"`
	ContentHash string       `gorm:"type:varchar(64);not null;uniqueIndex:idx_artifact_key"`
	StorageKey  string       `gorm:"type:varchar(500);not null"`
	ContentType string       `gorm:"type:varchar(100);not null"`
	SizeBytes   int64        `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Artifact) TableName() string {
	return "letter_artifacts"
}

// ArtifactHash derives the cache key for an artifact. PDFs also depend on the
// settings version because the letterhead is rendered from settings.
func ArtifactHash(kind ArtifactKind, digest string, settingsVersion int) string {
	if kind == ArtifactPDF {
		return fmt.Sprintf("%s-v%d", digest, settingsVersion)
	}
	return digest
}

// ArtifactStorageKey returns the object key for an artifact
func ArtifactStorageKey(tenantID, letterID uuid.UUID, kind ArtifactKind, hash string) string {
	return fmt.Sprintf("letters/%s/%s/%s/%s%s", tenantID, letterID, kind, hash, kind.Extension())
}

// NewArtifact describes a freshly rendered artifact
func NewArtifact(l *Letter, kind ArtifactKind, hash string, size int64) *Artifact {
	return &Artifact{
		BaseEntity:  shared.NewBaseEntity(),
		TenantID:    l.TenantID,
		LetterID:    l.ID,
		Kind:        kind,
		ContentHash: hash,
		StorageKey:  ArtifactStorageKey(l.TenantID, l.ID, kind, hash),
		ContentType: kind.ContentType(),
		SizeBytes:   size,
	}
}

// IsStale reports whether the artifact no longer matches the current hash
func (a *Artifact) IsStale(currentHash string) bool {
	return a.ContentHash != currentHash
}
