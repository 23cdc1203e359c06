package letter

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/shared"
)

// Status is the workflow state of a letter
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusInReview  Status = "in_review"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// AllStatuses lists every status in workflow order
var AllStatuses = []Status{
	StatusDraft, StatusSubmitted, StatusInReview, StatusApproved,
	StatusRejected, StatusCompleted, StatusCancelled,
}

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	for _, v := range AllStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Priority is the handling priority of a letter
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// IsValid reports whether p is a known priority
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

const (
	maxSubjectLength = 300
	wordsPerMinute   = 200
)

// Letter is the aggregate root for an official letter
type Letter struct {
	shared.TenantAggregateRoot
	LetterNumber *string   `gorm:"type:varchar(100)"`
	LetterTypeID uuid.UUID `gorm:"type:uuid;not null;index"`
	// LetterTypeCode is the type code at submission; later renames of the type do not touch it
	LetterTypeCode           string     `gorm:"type:varchar(20)"`
	ApplicantID              uuid.UUID  `gorm:"type:uuid;not null;index"`
	Subject                  string     `gorm:"type:varchar(300);not null"`
	Content                  string     `gorm:"type:text;not null"`
	Purpose                  string     `gorm:"type:text"`
	Status                   Status     `gorm:"type:varchar(20);not null;default:'draft';index"`
	Priority                 Priority   `gorm:"type:varchar(20);not null;default:'normal'"`
	SubmissionDate           *time.Time `gorm:"index"`
	ApprovalDate             *time.Time
	CompletionDate           *time.Time
	ApprovedBy               *uuid.UUID `gorm:"type:uuid"`
	RejectionReason          string     `gorm:"type:text"`
	Notes                    string     `gorm:"type:text"`
	TemplateID               *uuid.UUID `gorm:"type:uuid"`
	AIGeneratedContent       string     `gorm:"column:ai_generated_content;type:text"`
	AISuggestionsApplied     bool       `gorm:"column:ai_suggestions_applied;not null;default:false"`
	RequiresAIValidation     bool       `gorm:"column:requires_ai_validation;not null;default:true"`
	RequiresDigitalSignature bool       `gorm:"not null;default:true"`
	IsDigitallySigned        bool       `gorm:"not null;default:false"`
	SignatureHash            string     `gorm:"type:varchar(64)"`
	PublicCode               string     `gorm:"type:varchar(16);not null;uniqueIndex"`
	WordCount                int        `gorm:"not null;default:0"`
	EstimatedReadingTime     int        `gorm:"not null;default:1"`
	Language                 string     `gorm:"type:varchar(10);not null;default:'id'"`
}

// TableName returns the table name for GORM
func (Letter) TableName() string {
	return "letters"
}

// NewLetter creates a draft letter for an applicant
func NewLetter(tenantID, letterTypeID, applicantID uuid.UUID, subject, content string) (*Letter, error) {
	if letterTypeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LETTER_TYPE", "Letter type is required")
	}
	if applicantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_APPLICANT", "Applicant is required")
	}
	l := &Letter{
		TenantAggregateRoot:      shared.NewTenantAggregateRoot(tenantID),
		LetterTypeID:             letterTypeID,
		ApplicantID:              applicantID,
		Status:                   StatusDraft,
		Priority:                 PriorityNormal,
		RequiresAIValidation:     true,
		RequiresDigitalSignature: true,
		PublicCode:               NewPublicCode(),
		Language:                 "id",
	}
	if err := l.setBody(subject, content); err != nil {
		return nil, err
	}
	l.AddDomainEvent(NewLetterCreatedEvent(l))
	return l, nil
}

// NewPublicCode returns the short code used in public verification links
func NewPublicCode() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}

// Number returns the assigned letter number, or "" for a draft
func (l *Letter) Number() string {
	if l.LetterNumber == nil {
		return ""
	}
	return *l.LetterNumber
}

// IsEditable reports whether subject and content may still change
func (l *Letter) IsEditable() bool {
	if l.IsDigitallySigned {
		return false
	}
	switch l.Status {
	case StatusDraft, StatusSubmitted, StatusInReview:
		return true
	}
	return false
}

// UpdateBody replaces subject and content
func (l *Letter) UpdateBody(subject, content string) error {
	if !l.IsEditable() {
		return shared.NewDomainError("LETTER_NOT_EDITABLE", "Letter can no longer be edited")
	}
	if err := l.setBody(subject, content); err != nil {
		return err
	}
	l.AddDomainEvent(NewLetterContentChangedEvent(l))
	return nil
}

// SetDetails updates the non-content attributes
func (l *Letter) SetDetails(purpose string, priority Priority, notes string) error {
	if priority == "" {
		priority = PriorityNormal
	}
	if !priority.IsValid() {
		return shared.NewDomainError("INVALID_PRIORITY", "Priority must be low, normal, high or urgent")
	}
	l.Purpose = purpose
	l.Priority = priority
	l.Notes = notes
	l.Touch()
	return nil
}

// SetRequirements toggles the validation and signature requirements of a draft
func (l *Letter) SetRequirements(aiValidation, digitalSignature bool) error {
	if l.Status != StatusDraft {
		return shared.NewDomainError("LETTER_NOT_DRAFT", "Requirements can only change while the letter is a draft")
	}
	l.RequiresAIValidation = aiValidation
	l.RequiresDigitalSignature = digitalSignature
	l.Touch()
	return nil
}

// ApplyAISuggestion replaces the content with AI-produced text and records it
func (l *Letter) ApplyAISuggestion(content string) error {
	if err := l.UpdateBody(l.Subject, content); err != nil {
		return err
	}
	l.AIGeneratedContent = content
	l.AISuggestionsApplied = true
	return nil
}

func (l *Letter) setBody(subject, content string) error {
	subject = strings.TrimSpace(subject)
	if subject == "" || len(subject) > maxSubjectLength {
		return shared.NewDomainError("INVALID_SUBJECT", "Subject must be 1 to 300 characters")
	}
	if strings.TrimSpace(content) == "" {
		return shared.NewDomainError("INVALID_CONTENT", "Content cannot be empty")
	}
	l.Subject = subject
	l.Content = content
	l.WordCount, l.EstimatedReadingTime = ReadingStats(content)
	l.Touch()
	l.IncrementVersion()
	return nil
}

// ReadingStats returns the word count and estimated reading time in seconds (at least 1)
func ReadingStats(content string) (words, seconds int) {
	words = len(strings.Fields(content))
	seconds = words * 60 / wordsPerMinute
	if seconds < 1 {
		seconds = 1
	}
	return words, seconds
}

// Submit moves a draft into the queue and stamps its number and type code
func (l *Letter) Submit(number, typeCode string, at time.Time, by *uuid.UUID) error {
	if l.Status != StatusDraft {
		return invalidTransition(l.Status, StatusSubmitted)
	}
	if strings.TrimSpace(number) == "" {
		return shared.NewDomainError("INVALID_LETTER_NUMBER", "Letter number is required")
	}
	if l.LetterNumber != nil {
		return shared.NewDomainError("LETTER_ALREADY_NUMBERED", "Letter already has a number")
	}
	l.LetterNumber = &number
	l.LetterTypeCode = typeCode
	l.SubmissionDate = &at
	l.transition(StatusSubmitted, ActionSubmitted, by, "")
	return nil
}

// StartReview marks a submitted letter as being reviewed
func (l *Letter) StartReview(by *uuid.UUID) error {
	if l.Status != StatusSubmitted {
		return invalidTransition(l.Status, StatusInReview)
	}
	l.transition(StatusInReview, ActionReviewed, by, "")
	return nil
}

// Approve approves a submitted or in-review letter. The AI gate is checked by the caller
// with CheckApprovalGate before this is called.
func (l *Letter) Approve(approver uuid.UUID, at time.Time) error {
	if l.Status != StatusSubmitted && l.Status != StatusInReview {
		return invalidTransition(l.Status, StatusApproved)
	}
	l.ApprovedBy = &approver
	l.ApprovalDate = &at
	l.RejectionReason = ""
	l.transition(StatusApproved, ActionApproved, &approver, "")
	return nil
}

// Reject rejects a submitted or in-review letter with a reason
func (l *Letter) Reject(reason string, by *uuid.UUID) error {
	if l.Status != StatusSubmitted && l.Status != StatusInReview {
		return invalidTransition(l.Status, StatusRejected)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("REJECTION_REASON_REQUIRED", "A rejection reason is required")
	}
	l.RejectionReason = reason
	l.transition(StatusRejected, ActionRejected, by, reason)
	return nil
}

// Complete marks an approved letter as handed over
func (l *Letter) Complete(at time.Time, by *uuid.UUID) error {
	if l.Status != StatusApproved {
		return invalidTransition(l.Status, StatusCompleted)
	}
	l.CompletionDate = &at
	l.transition(StatusCompleted, ActionCompleted, by, "")
	return nil
}

// Cancel withdraws a letter that has not been decided yet
func (l *Letter) Cancel(reason string, by *uuid.UUID) error {
	switch l.Status {
	case StatusDraft, StatusSubmitted, StatusInReview:
	default:
		return invalidTransition(l.Status, StatusCancelled)
	}
	l.transition(StatusCancelled, ActionCancelled, by, reason)
	return nil
}

// CanBeSigned reports whether the letter is in a signable state
func (l *Letter) CanBeSigned() bool {
	return (l.Status == StatusApproved || l.Status == StatusCompleted) && l.LetterNumber != nil
}

// MarkSigned records the digest produced by a signature
func (l *Letter) MarkSigned(hash string, by uuid.UUID) error {
	if !l.CanBeSigned() {
		return shared.NewDomainError("LETTER_NOT_SIGNABLE", "Only approved or completed letters with a number can be signed")
	}
	l.SignatureHash = hash
	l.IsDigitallySigned = true
	l.Touch()
	l.IncrementVersion()
	l.AddDomainEvent(NewLetterSignedEvent(l, by))
	return nil
}

// CanBeDeleted reports whether the letter may be removed
func (l *Letter) CanBeDeleted() bool {
	return l.Status == StatusDraft
}

func (l *Letter) transition(to Status, action TrackingAction, by *uuid.UUID, note string) {
	from := l.Status
	l.Status = to
	l.Touch()
	l.IncrementVersion()
	l.AddDomainEvent(NewLetterStatusChangedEvent(l, from, to, action, by, note))
}

func invalidTransition(from, to Status) error {
	return shared.NewDomainError("INVALID_STATE", "Cannot move letter from "+string(from)+" to "+string(to))
}
