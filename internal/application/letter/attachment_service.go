package letter

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/letter"
	"github.com/pulosarok/desa/internal/domain/shared"
	"github.com/pulosarok/desa/internal/infrastructure/storage"
	"go.uber.org/zap"
)

// DefaultPresignTTL bounds how long upload and download URLs stay valid
const DefaultPresignTTL = 15 * time.Minute

var (
	errAttachmentNotFound = shared.NewDomainError("NOT_FOUND", "Attachment not found")
	errUploadMissing      = shared.NewDomainError("UPLOAD_MISSING", "The file has not been uploaded yet")
)

// AttachmentService stores supporting documents in object storage. Clients
// upload and download directly with presigned URLs.
type AttachmentService struct {
	attachments letter.AttachmentRepository
	letters     letter.LetterRepository
	store       storage.Store
	ttl         time.Duration
	logger      *zap.Logger
}

// NewAttachmentService creates a new AttachmentService
func NewAttachmentService(attachments letter.AttachmentRepository, letters letter.LetterRepository, store storage.Store, ttl time.Duration, logger *zap.Logger) *AttachmentService {
	if ttl <= 0 {
		ttl = DefaultPresignTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttachmentService{attachments: attachments, letters: letters, store: store, ttl: ttl, logger: logger}
}

// Create reserves an attachment row and returns a URL the client uploads to
func (s *AttachmentService) Create(ctx context.Context, tenantID, letterID uuid.UUID, req CreateAttachmentRequest) (*AttachmentUploadResponse, error) {
	if _, err := s.letters.FindByIDForTenant(ctx, tenantID, letterID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errLetterNotFound
		}
		return nil, err
	}
	a, err := letter.NewAttachment(tenantID, letterID, req.Title, req.FileName, req.FileSize)
	if err != nil {
		return nil, err
	}
	a.AttachmentType = req.AttachmentType
	a.IsRequired = req.IsRequired

	url, expires, err := s.store.PresignUpload(ctx, a.StorageKey, a.ContentType, s.ttl)
	if err != nil {
		return nil, err
	}
	if err := s.attachments.Save(ctx, a); err != nil {
		return nil, err
	}
	return &AttachmentUploadResponse{
		Attachment: ToAttachmentResponse(a),
		Upload:     PresignedURLResponse{URL: url, Method: http.MethodPut, ExpiresAt: expires},
	}, nil
}

// ConfirmUpload marks an attachment uploaded once its object exists. An object
// that is too large or whose bytes do not match the file extension is deleted.
func (s *AttachmentService) ConfirmUpload(ctx context.Context, tenantID, letterID, id uuid.UUID) (*AttachmentResponse, error) {
	a, err := s.find(ctx, tenantID, letterID, id)
	if err != nil {
		return nil, err
	}
	info, err := s.store.Stat(ctx, a.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, errUploadMissing
		}
		return nil, err
	}
	if err := a.ConfirmUpload(info.Size, info.ContentType); err != nil {
		s.logger.Warn("Rejected uploaded attachment",
			zap.String("attachment_id", a.ID.String()),
			zap.Int64("size", info.Size),
			zap.String("content_type", info.ContentType),
			zap.Error(err))
		if derr := s.store.Delete(ctx, a.StorageKey); derr != nil {
			s.logger.Warn("Failed to delete rejected attachment object", zap.String("key", a.StorageKey), zap.Error(derr))
		}
		return nil, err
	}
	if err := s.attachments.Save(ctx, a); err != nil {
		return nil, err
	}
	resp := ToAttachmentResponse(a)
	return &resp, nil
}

// DownloadURL returns a presigned URL for an uploaded attachment
func (s *AttachmentService) DownloadURL(ctx context.Context, tenantID, letterID, id uuid.UUID) (*PresignedURLResponse, error) {
	a, err := s.find(ctx, tenantID, letterID, id)
	if err != nil {
		return nil, err
	}
	if !a.Uploaded {
		return nil, errUploadMissing
	}
	url, expires, err := s.store.PresignDownload(ctx, a.StorageKey, s.ttl)
	if err != nil {
		return nil, err
	}
	return &PresignedURLResponse{URL: url, Method: http.MethodGet, ExpiresAt: expires}, nil
}

// List returns the attachments of a letter
func (s *AttachmentService) List(ctx context.Context, tenantID, letterID uuid.UUID) ([]AttachmentResponse, error) {
	rows, err := s.attachments.ListByLetter(ctx, tenantID, letterID)
	if err != nil {
		return nil, err
	}
	out := make([]AttachmentResponse, len(rows))
	for i := range rows {
		out[i] = ToAttachmentResponse(&rows[i])
	}
	return out, nil
}

// Delete removes an attachment and its object
func (s *AttachmentService) Delete(ctx context.Context, tenantID, letterID, id uuid.UUID) error {
	a, err := s.find(ctx, tenantID, letterID, id)
	if err != nil {
		return err
	}
	if err := s.attachments.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, a.StorageKey); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		s.logger.Warn("Failed to delete attachment object", zap.String("key", a.StorageKey), zap.Error(err))
	}
	return nil
}

func (s *AttachmentService) find(ctx context.Context, tenantID, letterID, id uuid.UUID) (*letter.Attachment, error) {
	a, err := s.attachments.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errAttachmentNotFound
		}
		return nil, err
	}
	if a.LetterID != letterID {
		return nil, errAttachmentNotFound
	}
	return a, nil
}
