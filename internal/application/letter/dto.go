package letter

import (
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/letter"
	"github.com/pulosarok/desa/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Actor identifies who performs an operation and from where
type Actor struct {
	ID        uuid.UUID
	Name      string
	Role      string
	IP        string
	UserAgent string
}

func (a Actor) ref() *uuid.UUID {
	if a.ID == uuid.Nil {
		return nil
	}
	id := a.ID
	return &id
}

// =============================================================================
// Letter types
// =============================================================================

// LetterTypeRequest creates or replaces a letter type
type LetterTypeRequest struct {
	Code               string          `json:"code" binding:"required,max=20"`
	Name               string          `json:"name" binding:"required,max=200"`
	Description        string          `json:"description"`
	RequiredDocuments  string          `json:"required_documents"`
	ProcessingTimeDays *int            `json:"processing_time_days" binding:"omitempty,min=0"`
	FeeAmount          decimal.Decimal `json:"fee_amount"`
	IsActive           *bool           `json:"is_active"`
}

// LetterTypeResponse represents a letter type in API responses
type LetterTypeResponse struct {
	ID                 uuid.UUID       `json:"id"`
	Code               string          `json:"code"`
	Name               string          `json:"name"`
	Description        string          `json:"description"`
	RequiredDocuments  string          `json:"required_documents"`
	ProcessingTimeDays int             `json:"processing_time_days"`
	FeeAmount          decimal.Decimal `json:"fee_amount"`
	IsActive           bool            `json:"is_active"`
	CreatedAt          time.Time       `json:"created_at"`
}

// ToLetterTypeResponse converts a letter type to its response
func ToLetterTypeResponse(lt *letter.LetterType) LetterTypeResponse {
	return LetterTypeResponse{
		ID:                 lt.ID,
		Code:               lt.Code,
		Name:               lt.Name,
		Description:        lt.Description,
		RequiredDocuments:  lt.RequiredDocuments,
		ProcessingTimeDays: lt.ProcessingTimeDays,
		FeeAmount:          lt.FeeAmount,
		IsActive:           lt.IsActive,
		CreatedAt:          lt.CreatedAt,
	}
}

// =============================================================================
// Settings
// =============================================================================

// UpdateSettingsRequest changes letter settings. Nil fields are left unchanged.
type UpdateSettingsRequest struct {
	VillageName            *string  `json:"village_name" binding:"omitempty,max=200"`
	VillageAddress         *string  `json:"village_address"`
	VillagePhone           *string  `json:"village_phone" binding:"omitempty,max=50"`
	VillageEmail           *string  `json:"village_email" binding:"omitempty,max=200"`
	VillageWebsite         *string  `json:"village_website" binding:"omitempty,max=200"`
	HeadName               *string  `json:"head_name" binding:"omitempty,max=200"`
	HeadNIP                *string  `json:"head_nip" binding:"omitempty,max=50"`
	HeadSignatureType      *string  `json:"head_signature_type" binding:"omitempty,oneof=digital image text"`
	SecretaryName          *string  `json:"secretary_name" binding:"omitempty,max=200"`
	SecretaryNIP           *string  `json:"secretary_nip" binding:"omitempty,max=50"`
	LetterNumberFormat     *string  `json:"letter_number_format" binding:"omitempty,max=200"`
	ResetCounterYearly     *bool    `json:"reset_counter_yearly"`
	EnableAIValidation     *bool    `json:"enable_ai_validation"`
	AIValidationThreshold  *float64 `json:"ai_validation_threshold" binding:"omitempty,min=0,max=1"`
	EnableAISuggestions    *bool    `json:"enable_ai_suggestions"`
	EnableDigitalSignature *bool    `json:"enable_digital_signature"`
	VerificationBaseURL    *string  `json:"verification_base_url" binding:"omitempty,max=300"`
}

// SettingsResponse represents the active letter settings
type SettingsResponse struct {
	ID                     uuid.UUID `json:"id"`
	VillageName            string    `json:"village_name"`
	VillageAddress         string    `json:"village_address"`
	VillagePhone           string    `json:"village_phone"`
	VillageEmail           string    `json:"village_email"`
	VillageWebsite         string    `json:"village_website"`
	HeadName               string    `json:"head_name"`
	HeadNIP                string    `json:"head_nip"`
	HeadSignatureType      string    `json:"head_signature_type"`
	SecretaryName          string    `json:"secretary_name"`
	SecretaryNIP           string    `json:"secretary_nip"`
	LetterNumberFormat     string    `json:"letter_number_format"`
	ResetCounterYearly     bool      `json:"reset_counter_yearly"`
	EnableAIValidation     bool      `json:"enable_ai_validation"`
	AIValidationThreshold  float64   `json:"ai_validation_threshold"`
	EnableAISuggestions    bool      `json:"enable_ai_suggestions"`
	EnableDigitalSignature bool      `json:"enable_digital_signature"`
	VerificationBaseURL    string    `json:"verification_base_url"`
	Version                int       `json:"version"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// ToSettingsResponse converts settings to their response
func ToSettingsResponse(s *letter.Settings) SettingsResponse {
	return SettingsResponse{
		ID:                     s.ID,
		VillageName:            s.VillageName,
		VillageAddress:         s.VillageAddress,
		VillagePhone:           s.VillagePhone,
		VillageEmail:           s.VillageEmail,
		VillageWebsite:         s.VillageWebsite,
		HeadName:               s.HeadName,
		HeadNIP:                s.HeadNIP,
		HeadSignatureType:      string(s.HeadSignatureType),
		SecretaryName:          s.SecretaryName,
		SecretaryNIP:           s.SecretaryNIP,
		LetterNumberFormat:     s.LetterNumberFormat,
		ResetCounterYearly:     s.ResetCounterYearly,
		EnableAIValidation:     s.EnableAIValidation,
		AIValidationThreshold:  s.AIValidationThreshold,
		EnableAISuggestions:    s.EnableAISuggestions,
		EnableDigitalSignature: s.EnableDigitalSignature,
		VerificationBaseURL:    s.VerificationBaseURL,
		Version:                s.Version,
		UpdatedAt:              s.UpdatedAt,
	}
}

// =============================================================================
// Letters
// =============================================================================

// CreateLetterRequest creates a draft letter. When TemplateID is set and Content is
// empty, the content is rendered from the template with Variables.
type CreateLetterRequest struct {
	LetterTypeID             uuid.UUID         `json:"letter_type_id" binding:"required"`
	ApplicantID              uuid.UUID         `json:"applicant_id" binding:"required"`
	Subject                  string            `json:"subject" binding:"required,max=300"`
	Content                  string            `json:"content"`
	Purpose                  string            `json:"purpose"`
	Priority                 string            `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
	Notes                    string            `json:"notes"`
	TemplateID               *uuid.UUID        `json:"template_id"`
	Variables                map[string]string `json:"variables"`
	RequiresAIValidation     *bool             `json:"requires_ai_validation"`
	RequiresDigitalSignature *bool             `json:"requires_digital_signature"`
}

// UpdateLetterRequest edits a letter that is still editable
type UpdateLetterRequest struct {
	Subject                  *string `json:"subject" binding:"omitempty,max=300"`
	Content                  *string `json:"content"`
	Purpose                  *string `json:"purpose"`
	Priority                 *string `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
	Notes                    *string `json:"notes"`
	RequiresAIValidation     *bool   `json:"requires_ai_validation"`
	RequiresDigitalSignature *bool   `json:"requires_digital_signature"`
}

// ListLettersRequest carries the letter list filters
type ListLettersRequest struct {
	Page         int        `form:"page"`
	PageSize     int        `form:"page_size"`
	Search       string     `form:"search"`
	OrderBy      string     `form:"order_by"`
	OrderDir     string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Status       string     `form:"status" binding:"omitempty,oneof=draft submitted in_review approved rejected completed cancelled"`
	Priority     string     `form:"priority" binding:"omitempty,oneof=low normal high urgent"`
	LetterTypeID *uuid.UUID `form:"letter_type_id"`
	ApplicantID  *uuid.UUID `form:"applicant_id"`
	From         *time.Time `form:"from" time_format:"2006-01-02"`
	To           *time.Time `form:"to" time_format:"2006-01-02"`
}

// Filter converts the request into a repository filter
func (r ListLettersRequest) Filter() shared.Filter {
	f := shared.NewFilter(r.Page, r.PageSize, r.Search, r.OrderBy, r.OrderDir).
		With("status", r.Status).
		With("priority", r.Priority).
		With("letter_type_id", r.LetterTypeID).
		With("applicant_id", r.ApplicantID)
	if r.From != nil {
		f = f.With("submission_date__gte", *r.From)
	}
	if r.To != nil {
		f = f.With("submission_date__lte", r.To.Add(24*time.Hour-time.Nanosecond))
	}
	return f
}

// TransitionRequest carries the optional reason of a workflow step
type TransitionRequest struct {
	Reason string `json:"reason" binding:"max=2000"`
}

// LetterResponse represents a letter in API responses
type LetterResponse struct {
	ID                       uuid.UUID  `json:"id"`
	LetterNumber             string     `json:"letter_number,omitempty"`
	LetterTypeID             uuid.UUID  `json:"letter_type_id"`
	ApplicantID              uuid.UUID  `json:"applicant_id"`
	Subject                  string     `json:"subject"`
	Content                  string     `json:"content"`
	Purpose                  string     `json:"purpose"`
	Status                   string     `json:"status"`
	Priority                 string     `json:"priority"`
	SubmissionDate           *time.Time `json:"submission_date,omitempty"`
	ApprovalDate             *time.Time `json:"approval_date,omitempty"`
	CompletionDate           *time.Time `json:"completion_date,omitempty"`
	ApprovedBy               *uuid.UUID `json:"approved_by,omitempty"`
	RejectionReason          string     `json:"rejection_reason,omitempty"`
	Notes                    string     `json:"notes"`
	TemplateID               *uuid.UUID `json:"template_id,omitempty"`
	AISuggestionsApplied     bool       `json:"ai_suggestions_applied"`
	RequiresAIValidation     bool       `json:"requires_ai_validation"`
	RequiresDigitalSignature bool       `json:"requires_digital_signature"`
	IsDigitallySigned        bool       `json:"is_digitally_signed"`
	SignatureHash            string     `json:"signature_hash,omitempty"`
	PublicCode               string     `json:"public_code"`
	WordCount                int        `json:"word_count"`
	EstimatedReadingTime     int        `json:"estimated_reading_time"`
	Language                 string     `json:"language"`
	CreatedBy                *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt                time.Time  `json:"created_at"`
	UpdatedAt                time.Time  `json:"updated_at"`
}

// ToLetterResponse converts a letter to its response
func ToLetterResponse(l *letter.Letter) LetterResponse {
	return LetterResponse{
		ID:                       l.ID,
		LetterNumber:             l.Number(),
		LetterTypeID:             l.LetterTypeID,
		ApplicantID:              l.ApplicantID,
		Subject:                  l.Subject,
		Content:                  l.Content,
		Purpose:                  l.Purpose,
		Status:                   string(l.Status),
		Priority:                 string(l.Priority),
		SubmissionDate:           l.SubmissionDate,
		ApprovalDate:             l.ApprovalDate,
		CompletionDate:           l.CompletionDate,
		ApprovedBy:               l.ApprovedBy,
		RejectionReason:          l.RejectionReason,
		Notes:                    l.Notes,
		TemplateID:               l.TemplateID,
		AISuggestionsApplied:     l.AISuggestionsApplied,
		RequiresAIValidation:     l.RequiresAIValidation,
		RequiresDigitalSignature: l.RequiresDigitalSignature,
		IsDigitallySigned:        l.IsDigitallySigned,
		SignatureHash:            l.SignatureHash,
		PublicCode:               l.PublicCode,
		WordCount:                l.WordCount,
		EstimatedReadingTime:     l.EstimatedReadingTime,
		Language:                 l.Language,
		CreatedBy:                l.CreatedBy,
		CreatedAt:                l.CreatedAt,
		UpdatedAt:                l.UpdatedAt,
	}
}

// StatsResponse summarizes letters of a tenant
type StatsResponse struct {
	Total          int64            `json:"total"`
	ByStatus       map[string]int64 `json:"by_status"`
	IssuedThisYear int64            `json:"issued_this_year"`
	LastNumber     int64            `json:"last_number"`
}

// =============================================================================
// AI
// =============================================================================

// ValidationResponse represents the validation row of a letter
type ValidationResponse struct {
	LetterID          uuid.UUID  `json:"letter_id"`
	Status            string     `json:"status"`
	Passed            bool       `json:"passed"`
	ConfidenceScore   float64    `json:"confidence_score"`
	GrammarScore      float64    `json:"grammar_score"`
	FormalityScore    float64    `json:"formality_score"`
	CompletenessScore float64    `json:"completeness_score"`
	Errors            []string   `json:"errors"`
	Warnings          []string   `json:"warnings"`
	Suggestions       []string   `json:"suggestions"`
	Model             string     `json:"model,omitempty"`
	ProcessingTimeMS  int64      `json:"processing_time_ms"`
	ErrorMessage      string     `json:"error_message,omitempty"`
	ValidatedAt       *time.Time `json:"validated_at,omitempty"`
}

// ToValidationResponse converts a validation run to its response
func ToValidationResponse(v *letter.AIValidation, threshold float64) ValidationResponse {
	return ValidationResponse{
		LetterID:          v.LetterID,
		Status:            string(v.Status),
		Passed:            v.Passes(threshold),
		ConfidenceScore:   v.ConfidenceScore,
		GrammarScore:      v.GrammarScore,
		FormalityScore:    v.FormalityScore,
		CompletenessScore: v.CompletenessScore,
		Errors:            orEmpty(v.Errors),
		Warnings:          orEmpty(v.Warnings),
		Suggestions:       orEmpty(v.Suggestions),
		Model:             v.Model,
		ProcessingTimeMS:  v.ProcessingTimeMS,
		ErrorMessage:      v.ErrorMessage,
		ValidatedAt:       v.ValidatedAt,
	}
}

// ImproveRequest asks for an improved letter body
type ImproveRequest struct {
	// Apply writes the improved content to the letter
	Apply bool `json:"apply"`
}

// ImproveResponse carries the improved content
type ImproveResponse struct {
	ImprovedContent string   `json:"improved_content"`
	Suggestions     []string `json:"suggestions"`
	ChangesMade     []string `json:"changes_made"`
	Applied         bool     `json:"applied"`
}

// GenerateRequest describes a letter to draft
type GenerateRequest struct {
	LetterTypeID   uuid.UUID `json:"letter_type_id" binding:"required"`
	Purpose        string    `json:"purpose" binding:"required,max=2000"`
	Recipient      string    `json:"recipient" binding:"max=500"`
	AdditionalInfo string    `json:"additional_info" binding:"max=4000"`
}

// GenerateResponse carries a drafted subject and body
type GenerateResponse struct {
	Subject     string   `json:"subject"`
	Content     string   `json:"content"`
	Suggestions []string `json:"suggestions"`
}

// SummarizeResponse carries a summary of a letter
type SummarizeResponse struct {
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"key_points"`
}

// =============================================================================
// Signatures
// =============================================================================

// SignatureResponse represents a signature in API responses
type SignatureResponse struct {
	ID             uuid.UUID  `json:"id"`
	LetterID       uuid.UUID  `json:"letter_id"`
	SignerID       uuid.UUID  `json:"signer_id"`
	SignerName     string     `json:"signer_name"`
	SignerPosition string     `json:"signer_position,omitempty"`
	SignatureHash  string     `json:"signature_hash"`
	Status         string     `json:"status"`
	SignedAt       time.Time  `json:"signed_at"`
	VerifiedAt     *time.Time `json:"verified_at,omitempty"`
}

// ToSignatureResponse converts a signature to its response
func ToSignatureResponse(s *letter.Signature) SignatureResponse {
	return SignatureResponse{
		ID:             s.ID,
		LetterID:       s.LetterID,
		SignerID:       s.SignerID,
		SignerName:     s.SignerName,
		SignerPosition: s.SignerPosition,
		SignatureHash:  s.SignatureHash,
		Status:         string(s.Status),
		SignedAt:       s.SignedAt,
		VerifiedAt:     s.VerifiedAt,
	}
}

// VerifyResponse is the outcome of a signature check
type VerifyResponse struct {
	Valid        bool                `json:"valid"`
	Result       string              `json:"result"`
	ComputedHash string              `json:"computed_hash"`
	StoredHash   string              `json:"stored_hash"`
	Signatures   []SignatureResponse `json:"signatures"`
}

// =============================================================================
// Templates
// =============================================================================

// TemplateRequest creates or replaces a template
type TemplateRequest struct {
	Name            string     `json:"name" binding:"required,max=100"`
	TemplateType    string     `json:"template_type" binding:"required,oneof=official certificate recommendation invitation notification custom"`
	Description     string     `json:"description"`
	LetterTypeID    *uuid.UUID `json:"letter_type_id"`
	ContentTemplate string     `json:"content_template" binding:"required"`
	CSSStyles       string     `json:"css_styles"`
	HeaderTemplate  string     `json:"header_template"`
	FooterTemplate  string     `json:"footer_template"`
	IsDefault       bool       `json:"is_default"`
	IsActive        *bool      `json:"is_active"`
}

// TemplateResponse represents a template in API responses
type TemplateResponse struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	TemplateType    string     `json:"template_type"`
	Description     string     `json:"description"`
	LetterTypeID    *uuid.UUID `json:"letter_type_id,omitempty"`
	ContentTemplate string     `json:"content_template"`
	Variables       []string   `json:"variables"`
	CSSStyles       string     `json:"css_styles"`
	HeaderTemplate  string     `json:"header_template"`
	FooterTemplate  string     `json:"footer_template"`
	IsDefault       bool       `json:"is_default"`
	IsActive        bool       `json:"is_active"`
	UsageCount      int        `json:"usage_count"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ToTemplateResponse converts a template to its response
func ToTemplateResponse(t *letter.Template) TemplateResponse {
	return TemplateResponse{
		ID:              t.ID,
		Name:            t.Name,
		TemplateType:    string(t.TemplateType),
		Description:     t.Description,
		LetterTypeID:    t.LetterTypeID,
		ContentTemplate: t.ContentTemplate,
		Variables:       orEmpty(t.Variables),
		CSSStyles:       t.CSSStyles,
		HeaderTemplate:  t.HeaderTemplate,
		FooterTemplate:  t.FooterTemplate,
		IsDefault:       t.IsDefault,
		IsActive:        t.IsActive,
		UsageCount:      t.UsageCount,
		CreatedAt:       t.CreatedAt,
	}
}

// ApplyTemplateRequest renders a template into a letter
type ApplyTemplateRequest struct {
	TemplateID uuid.UUID         `json:"template_id" binding:"required"`
	Variables  map[string]string `json:"variables"`
}

// =============================================================================
// Recipients, attachments and tracking
// =============================================================================

// RecipientRequest creates or replaces a recipient
type RecipientRequest struct {
	RecipientType  string     `json:"recipient_type" binding:"required,oneof=internal external government private individual"`
	Name           string     `json:"name" binding:"required,max=200"`
	Position       string     `json:"position" binding:"max=200"`
	Organization   string     `json:"organization" binding:"max=200"`
	Address        string     `json:"address"`
	Phone          string     `json:"phone" binding:"max=50"`
	Email          string     `json:"email" binding:"omitempty,email,max=200"`
	IsPrimary      bool       `json:"is_primary"`
	DeliveryMethod string     `json:"delivery_method" binding:"omitempty,oneof=hand_delivery post email fax"`
	DeliveryDate   *time.Time `json:"delivery_date"`
	ReceivedDate   *time.Time `json:"received_date"`
}

// RecipientResponse represents a recipient in API responses
type RecipientResponse struct {
	ID             uuid.UUID  `json:"id"`
	LetterID       uuid.UUID  `json:"letter_id"`
	RecipientType  string     `json:"recipient_type"`
	Name           string     `json:"name"`
	Position       string     `json:"position"`
	Organization   string     `json:"organization"`
	Address        string     `json:"address"`
	Phone          string     `json:"phone"`
	Email          string     `json:"email"`
	IsPrimary      bool       `json:"is_primary"`
	DeliveryMethod string     `json:"delivery_method"`
	DeliveryDate   *time.Time `json:"delivery_date,omitempty"`
	ReceivedDate   *time.Time `json:"received_date,omitempty"`
}

// ToRecipientResponse converts a recipient to its response
func ToRecipientResponse(r *letter.Recipient) RecipientResponse {
	return RecipientResponse{
		ID:             r.ID,
		LetterID:       r.LetterID,
		RecipientType:  string(r.RecipientType),
		Name:           r.Name,
		Position:       r.Position,
		Organization:   r.Organization,
		Address:        r.Address,
		Phone:          r.Phone,
		Email:          r.Email,
		IsPrimary:      r.IsPrimary,
		DeliveryMethod: string(r.DeliveryMethod),
		DeliveryDate:   r.DeliveryDate,
		ReceivedDate:   r.ReceivedDate,
	}
}

// CreateAttachmentRequest reserves an attachment and returns an upload URL
type CreateAttachmentRequest struct {
	Title          string `json:"title" binding:"required,max=200"`
	FileName       string `json:"file_name" binding:"required,max=255"`
	FileSize       int64  `json:"file_size" binding:"required,min=1"`
	AttachmentType string `json:"attachment_type" binding:"max=50"`
	IsRequired     bool   `json:"is_required"`
}

// AttachmentResponse represents an attachment in API responses
type AttachmentResponse struct {
	ID             uuid.UUID `json:"id"`
	LetterID       uuid.UUID `json:"letter_id"`
	AttachmentType string    `json:"attachment_type"`
	Title          string    `json:"title"`
	FileName       string    `json:"file_name"`
	ContentType    string    `json:"content_type"`
	FileSize       int64     `json:"file_size"`
	IsRequired     bool      `json:"is_required"`
	Uploaded       bool      `json:"uploaded"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToAttachmentResponse converts an attachment to its response
func ToAttachmentResponse(a *letter.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:             a.ID,
		LetterID:       a.LetterID,
		AttachmentType: a.AttachmentType,
		Title:          a.Title,
		FileName:       a.FileName,
		ContentType:    a.ContentType,
		FileSize:       a.FileSize,
		IsRequired:     a.IsRequired,
		Uploaded:       a.Uploaded,
		CreatedAt:      a.CreatedAt,
	}
}

// PresignedURLResponse is a time-limited object URL
type PresignedURLResponse struct {
	URL       string    `json:"url"`
	Method    string    `json:"method"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AttachmentUploadResponse pairs a new attachment with its upload URL
type AttachmentUploadResponse struct {
	Attachment AttachmentResponse   `json:"attachment"`
	Upload     PresignedURLResponse `json:"upload"`
}

// TrackingRequest records a manual history entry such as sent or received
type TrackingRequest struct {
	Action      string `json:"action" binding:"required,oneof=sent received returned reviewed"`
	Description string `json:"description" binding:"max=2000"`
	Notes       string `json:"notes" binding:"max=2000"`
}

// TrackingResponse represents a history entry
type TrackingResponse struct {
	ID          uuid.UUID  `json:"id"`
	Action      string     `json:"action"`
	Description string     `json:"description"`
	PerformedBy *uuid.UUID `json:"performed_by,omitempty"`
	IPAddress   string     `json:"ip_address,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	PerformedAt time.Time  `json:"performed_at"`
}

// ToTrackingResponse converts a tracking entry to its response
func ToTrackingResponse(t *letter.Tracking) TrackingResponse {
	return TrackingResponse{
		ID:          t.ID,
		Action:      string(t.Action),
		Description: t.Description,
		PerformedBy: t.PerformedBy,
		IPAddress:   t.IPAddress,
		Notes:       t.Notes,
		PerformedAt: t.PerformedAt,
	}
}

// =============================================================================
// Public views
// =============================================================================

// PublicVerifyResponse is what anyone holding a printed letter can check
type PublicVerifyResponse struct {
	LetterNumber      string     `json:"letter_number"`
	Subject           string     `json:"subject"`
	LetterType        string     `json:"letter_type"`
	Status            string     `json:"status"`
	IsDigitallySigned bool       `json:"is_digitally_signed"`
	ApplicantName     string     `json:"applicant_name"`
	ApprovalDate      *time.Time `json:"approval_date,omitempty"`
	VillageName       string     `json:"village_name"`
	Verification      string     `json:"verification"`
}

// PublicTrackStep is one step in the public timeline
type PublicTrackStep struct {
	Action      string    `json:"action"`
	Description string    `json:"description"`
	PerformedAt time.Time `json:"performed_at"`
}

// PublicTrackResponse is the public status timeline of a letter
type PublicTrackResponse struct {
	PublicCode   string            `json:"public_code"`
	LetterNumber string            `json:"letter_number,omitempty"`
	LetterType   string            `json:"letter_type"`
	Status       string            `json:"status"`
	Timeline     []PublicTrackStep `json:"timeline"`
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
