package letter

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/shared"
)

// ValidationStatus is the lifecycle of an AI validation run
type ValidationStatus string

const (
	ValidationPending    ValidationStatus = "pending"
	ValidationProcessing ValidationStatus = "processing"
	ValidationCompleted  ValidationStatus = "completed"
	ValidationFailed     ValidationStatus = "failed"
	ValidationSkipped    ValidationStatus = "skipped"
)

const (
	minContentLength = 10
	maxContentLength = 10000
)

// AIValidation is one validation run over a letter's content
type AIValidation struct {
	shared.BaseEntity
	TenantID          uuid.UUID        `gorm:"type:uuid;not null;index"`
	LetterID          uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex"`
	ContentDigest     string           `gorm:"type:varchar(64)"`
	Status            ValidationStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	ConfidenceScore   float64          `gorm:"not null;default:0"`
	GrammarScore      float64          `gorm:"not null;default:0"`
	FormalityScore    float64          `gorm:"not null;default:0"`
	CompletenessScore float64          `gorm:"not null;default:0"`
	Errors            []string         `gorm:"type:text;serializer:json"`
	Warnings          []string         `gorm:"type:text;serializer:json"`
	Suggestions       []string         `gorm:"type:text;serializer:json"`
	Model             string           `gorm:"type:varchar(100)"`
	ProcessingTimeMS  int64            `gorm:"column:processing_time_ms;not null;default:0"`
	ErrorMessage      string           `gorm:"type:text"`
	ValidatedAt       *time.Time
}

// TableName returns the table name for GORM
func (AIValidation) TableName() string {
	return "letter_ai_validations"
}

// NewAIValidation starts a pending validation for the letter's current content
func NewAIValidation(l *Letter, digest string) *AIValidation {
	return &AIValidation{
		BaseEntity:    shared.NewBaseEntity(),
		TenantID:      l.TenantID,
		LetterID:      l.ID,
		ContentDigest: digest,
		Status:        ValidationPending,
	}
}

// Restart clears a previous run so the row can be reused for new content
func (v *AIValidation) Restart(digest string) {
	v.ContentDigest = digest
	v.Status = ValidationPending
	v.ConfidenceScore, v.GrammarScore, v.FormalityScore, v.CompletenessScore = 0, 0, 0, 0
	v.Errors, v.Warnings, v.Suggestions = nil, nil, nil
	v.ErrorMessage = ""
	v.ValidatedAt = nil
	v.Touch()
}

// Adopt takes over the outcome of a run that was evaluated before this row was
// loaded. The row keeps its identity.
func (v *AIValidation) Adopt(run *AIValidation) {
	base := v.BaseEntity
	*v = *run
	v.BaseEntity = base
	v.Touch()
}

// Start marks the run as processing
func (v *AIValidation) Start() {
	v.Status = ValidationProcessing
	v.Touch()
}

// ValidationResult carries model output into a validation run
type ValidationResult struct {
	ConfidenceScore   float64
	GrammarScore      float64
	FormalityScore    float64
	CompletenessScore float64
	Errors            []string
	Warnings          []string
	Suggestions       []string
	Model             string
}

// Complete records a finished run. Rule findings are merged with the model's.
func (v *AIValidation) Complete(res ValidationResult, rules RuleFindings, elapsed time.Duration) {
	now := time.Now()
	v.Status = ValidationCompleted
	v.ConfidenceScore = clampScore(res.ConfidenceScore)
	v.GrammarScore = clampScore(res.GrammarScore)
	v.FormalityScore = clampScore(res.FormalityScore)
	v.CompletenessScore = clampScore(res.CompletenessScore)
	v.Errors = append(append([]string{}, rules.Errors...), res.Errors...)
	v.Warnings = append(append([]string{}, rules.Warnings...), res.Warnings...)
	v.Suggestions = append([]string{}, res.Suggestions...)
	v.Model = res.Model
	v.ProcessingTimeMS = elapsed.Milliseconds()
	v.ValidatedAt = &now
	v.Touch()
}

// Fail records a run that could not reach the model
func (v *AIValidation) Fail(msg string, elapsed time.Duration) {
	v.Status = ValidationFailed
	v.ConfidenceScore = 0
	v.ErrorMessage = msg
	v.ProcessingTimeMS = elapsed.Milliseconds()
	v.Touch()
}

// Skip records a run that was not needed
func (v *AIValidation) Skip(reason string) {
	now := time.Now()
	v.Status = ValidationSkipped
	v.ConfidenceScore = 1
	v.ErrorMessage = reason
	v.ValidatedAt = &now
	v.Touch()
}

// Passes reports whether the run clears the approval threshold.
// Skipped runs always pass.
func (v *AIValidation) Passes(threshold float64) bool {
	switch v.Status {
	case ValidationSkipped:
		return true
	case ValidationCompleted:
		return len(v.Errors) == 0 && v.ConfidenceScore >= threshold
	}
	return false
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

// RuleFindings are deterministic checks run before any model call
type RuleFindings struct {
	Errors   []string
	Warnings []string
}

// HasErrors reports whether any blocking rule failed
func (r RuleFindings) HasErrors() bool {
	return len(r.Errors) > 0
}

// CheckRules runs the structural checks on letter content
func CheckRules(content string) RuleFindings {
	var f RuleFindings
	trimmed := strings.TrimSpace(content)
	if len([]rune(trimmed)) < minContentLength {
		f.Errors = append(f.Errors, "Isi surat terlalu pendek")
	}
	if len([]rune(trimmed)) > maxContentLength {
		f.Warnings = append(f.Warnings, "Isi surat sangat panjang")
	}
	lower := strings.ToLower(trimmed)
	if !strings.Contains(lower, "kepada") && !strings.Contains(lower, "yth.") {
		f.Warnings = append(f.Warnings, "Tidak ditemukan salam pembuka (Kepada / Yth.)")
	}
	if !strings.Contains(lower, "hormat kami") && !strings.Contains(lower, "wassalam") {
		f.Warnings = append(f.Warnings, "Tidak ditemukan salam penutup (Hormat kami / Wassalam)")
	}
	return f
}

// BodyDigest fingerprints the text a validation run looked at. Unlike
// ContentDigest it ignores the number, so a draft validated before submission
// still counts after the number is assigned.
func BodyDigest(l *Letter) string {
	sum := sha256.Sum256([]byte(l.Subject + "\x00" + l.Content))
	return hex.EncodeToString(sum[:])
}

// ErrAIValidationRequired is returned when approval needs a passing validation first
var ErrAIValidationRequired = shared.NewDomainError("AI_VALIDATION_REQUIRED", "Letter must pass AI validation before approval")

// CheckApprovalGate decides whether an approver may approve the letter given its
// latest validation for the current content digest (nil when none exists).
func CheckApprovalGate(s *Settings, l *Letter, latest *AIValidation, digest string) error {
	if s == nil || !s.RequiresAIValidation(l) {
		return nil
	}
	if latest == nil || latest.ContentDigest != digest {
		return ErrAIValidationRequired
	}
	if !latest.Passes(s.AIValidationThreshold) {
		return ErrAIValidationRequired
	}
	return nil
}
