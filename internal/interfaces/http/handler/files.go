package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pulosarok/desa/internal/infrastructure/logger"
	"github.com/pulosarok/desa/internal/infrastructure/storage"
	"go.uber.org/zap"
)

// SignedFileStore is a store that checks its own presigned URLs
type SignedFileStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Verify(method, key, expires, signature string) error
}

// FileHandler serves presigned URLs of the filesystem storage backend. The
// S3 backend hands out bucket URLs instead and does not mount it.
type FileHandler struct {
	BaseHandler
	store         SignedFileStore
	maxUploadSize int64
}

// NewFileHandler creates a new FileHandler
func NewFileHandler(store SignedFileStore, maxUploadSize int64) *FileHandler {
	if maxUploadSize <= 0 {
		maxUploadSize = 10 << 20
	}
	return &FileHandler{store: store, maxUploadSize: maxUploadSize}
}

// Download godoc
// @ID           downloadFile
// @Summary      Download stored object
// @Description  Serve an object through a presigned URL issued by the API
// @Tags         files
// @Produce      application/octet-stream
// @Param        key path string true "Object key"
// @Param        method query string true "Signed method"
// @Param        expires query int true "Expiry (unix seconds)"
// @Param        signature query string true "HMAC signature"
// @Success      200 {file} binary
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /files/{key} [get]
func (h *FileHandler) Download(c *gin.Context) {
	key, ok := h.authorize(c, http.MethodGet)
	if !ok {
		return
	}
	data, err := h.store.Get(c.Request.Context(), key)
	if errors.Is(err, storage.ErrObjectNotFound) {
		h.NotFound(c, "File not found")
		return
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Data(http.StatusOK, http.DetectContentType(data), data)
}

// Upload godoc
// @ID           uploadFile
// @Summary      Upload object
// @Description  Store the request body under a presigned upload URL
// @Tags         files
// @Accept       application/octet-stream
// @Param        key path string true "Object key"
// @Param        method query string true "Signed method"
// @Param        expires query int true "Expiry (unix seconds)"
// @Param        signature query string true "HMAC signature"
// @Success      204
// @Failure      403 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Router       /files/{key} [put]
func (h *FileHandler) Upload(c *gin.Context) {
	key, ok := h.authorize(c, http.MethodPut)
	if !ok {
		return
	}
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, h.maxUploadSize+1))
	if err != nil {
		h.BadRequest(c, "Failed to read upload")
		return
	}
	if int64(len(data)) > h.maxUploadSize {
		h.Error(c, http.StatusRequestEntityTooLarge, "ERR_PAYLOAD_TOO_LARGE", "Upload exceeds the maximum size")
		return
	}
	contentType := c.ContentType()
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	if err := h.store.Put(c.Request.Context(), key, data, contentType); err != nil {
		h.HandleError(c, err)
		return
	}
	logger.FromGin(c).Debug("Stored upload", zap.String("key", key), zap.Int("size", len(data)))
	h.NoContent(c)
}

// authorize checks the signature of the request URL for method
func (h *FileHandler) authorize(c *gin.Context, method string) (string, bool) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		h.NotFound(c, "File not found")
		return "", false
	}
	q := c.Request.URL.Query()
	if q.Get("method") != method {
		h.Forbidden(c, "Invalid or expired link")
		return "", false
	}
	if err := h.store.Verify(method, key, q.Get("expires"), q.Get("signature")); err != nil {
		h.Forbidden(c, "Invalid or expired link")
		return "", false
	}
	return key, true
}
