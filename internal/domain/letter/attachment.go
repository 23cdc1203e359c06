package letter

import (
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/shared"
)

// MaxAttachmentSize is the upper bound for a single attachment in bytes
const MaxAttachmentSize = 5 << 20

var allowedAttachmentTypes = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// AttachmentContentType returns the content type for an allowed file name
func AttachmentContentType(fileName string) (string, bool) {
	ct, ok := allowedAttachmentTypes[strings.ToLower(path.Ext(fileName))]
	return ct, ok
}

// Attachment is a supporting document stored in object storage
type Attachment struct {
	shared.BaseEntity
	TenantID       uuid.UUID `gorm:"type:uuid;not null;index"`
	LetterID       uuid.UUID `gorm:"type:uuid;not null;index"`
	AttachmentType string    `gorm:"type:varchar(50)"`
	Title          string    `gorm:"type:varchar(200);not null"`
	FileName       string    `gorm:"type:varchar(255);not null"`
	StorageKey     string    `gorm:"type:varchar(500);not null"`
	ContentType    string    `gorm:"type:varchar(100);not null"`
	FileSize       int64     `gorm:"not null"`
	IsRequired     bool      `gorm:"not null;default:false"`
	Uploaded       bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Attachment) TableName() string {
	return "letter_attachments"
}

// NewAttachment validates file metadata and reserves a storage key
func NewAttachment(tenantID, letterID uuid.UUID, title, fileName string, size int64) (*Attachment, error) {
	title = strings.TrimSpace(title)
	if title == "" || len(title) > 200 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Attachment title must be 1 to 200 characters")
	}
	ct, ok := AttachmentContentType(fileName)
	if !ok {
		return nil, shared.NewDomainError("INVALID_FILE_TYPE", "Allowed file types: pdf, jpg, jpeg, png, doc, docx")
	}
	if size <= 0 || size > MaxAttachmentSize {
		return nil, shared.NewDomainError("INVALID_FILE_SIZE", "Attachment must be between 1 byte and 5 MB")
	}
	a := &Attachment{
		BaseEntity:  shared.NewBaseEntity(),
		TenantID:    tenantID,
		LetterID:    letterID,
		Title:       title,
		FileName:    path.Base(fileName),
		ContentType: ct,
		FileSize:    size,
	}
	a.StorageKey = "letters/" + tenantID.String() + "/" + letterID.String() + "/attachments/" +
		a.ID.String() + strings.ToLower(path.Ext(fileName))
	return a, nil
}

// ConfirmUpload checks the stored object against the limits and marks it present.
// size and contentType come from storage, not from the client that declared them.
func (a *Attachment) ConfirmUpload(size int64, contentType string) error {
	if size <= 0 || size > MaxAttachmentSize {
		return shared.NewDomainError("INVALID_FILE_SIZE", "Attachment must be between 1 byte and 5 MB")
	}
	if !strings.EqualFold(contentType, a.ContentType) {
		return shared.NewDomainError("INVALID_FILE_TYPE", "Uploaded file does not match its "+strings.ToLower(path.Ext(a.FileName))+" extension")
	}
	a.FileSize = size
	a.Uploaded = true
	a.Touch()
	return nil
}
