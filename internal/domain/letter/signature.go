package letter

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gowebpki/jcs"
	"github.com/pulosarok/desa/internal/domain/shared"
)

// SignatureStatus is the verification state of a signature
type SignatureStatus string

const (
	SignatureSigned   SignatureStatus = "signed"
	SignatureVerified SignatureStatus = "verified"
	SignatureInvalid  SignatureStatus = "invalid"
)

// Signature binds a signer to the digest of a letter at signing time
type Signature struct {
	shared.BaseEntity
	TenantID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	LetterID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_signature_letter_signer"`
	SignerID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_signature_letter_signer"`
	SignerName     string          `gorm:"type:varchar(200);not null"`
	SignerPosition string          `gorm:"type:varchar(200)"`
	SignatureHash  string          `gorm:"type:varchar(64);not null"`
	Status         SignatureStatus `gorm:"type:varchar(20);not null;default:'signed'"`
	SignedAt       time.Time       `gorm:"not null"`
	VerifiedAt     *time.Time
	IPAddress      string `gorm:"type:varchar(45)"`
	UserAgent      string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Signature) TableName() string {
	return "letter_signatures"
}

// NewSignature records a signer against a digest
func NewSignature(l *Letter, signerID uuid.UUID, signerName, digest string, at time.Time) *Signature {
	return &Signature{
		BaseEntity:    shared.NewBaseEntity(),
		TenantID:      l.TenantID,
		LetterID:      l.ID,
		SignerID:      signerID,
		SignerName:    signerName,
		SignatureHash: digest,
		Status:        SignatureSigned,
		SignedAt:      at,
	}
}

// Resign replaces the digest on an existing signature row
func (s *Signature) Resign(digest string, at time.Time) {
	s.SignatureHash = digest
	s.Status = SignatureSigned
	s.SignedAt = at
	s.VerifiedAt = nil
	s.Touch()
}

// RecordVerification stores the outcome of a verification check
func (s *Signature) RecordVerification(valid bool, at time.Time) {
	if valid {
		s.Status = SignatureVerified
	} else {
		s.Status = SignatureInvalid
	}
	s.VerifiedAt = &at
	s.Touch()
}

// canonicalLetter is the signed projection of a letter. Field names are the JSON keys.
type canonicalLetter struct {
	ApplicantID  string `json:"applicant_id"`
	Content      string `json:"content"`
	LetterNumber string `json:"letter_number"`
	LetterType   string `json:"letter_type"`
	Subject      string `json:"subject"`
}

// CanonicalContent returns the RFC 8785 canonical JSON of the signed fields.
// The type code is the one snapshotted at submission.
func CanonicalContent(l *Letter) ([]byte, error) {
	raw, err := json.Marshal(canonicalLetter{
		ApplicantID:  l.ApplicantID.String(),
		Content:      l.Content,
		LetterNumber: l.Number(),
		LetterType:   l.LetterTypeCode,
		Subject:      l.Subject,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal canonical letter: %w", err)
	}
	out, err := jcs.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("canonicalize letter: %w", err)
	}
	return out, nil
}

// ContentDigest returns the hex sha256 of the canonical letter
func ContentDigest(l *Letter) (string, error) {
	canon, err := CanonicalContent(l)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canon)
	return hex.EncodeToString(sum[:]), nil
}

// VerifyDigest compares two hex digests in constant time
func VerifyDigest(stored, computed string) bool {
	if stored == "" || computed == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(computed)) == 1
}
