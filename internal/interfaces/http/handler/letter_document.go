package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	letterapp "github.com/pulosarok/desa/internal/application/letter"
	"github.com/pulosarok/desa/internal/application/printing"
	"github.com/pulosarok/desa/internal/domain/letter"
)

// LetterDocumentServices groups the services behind the letter sub-resources
type LetterDocumentServices struct {
	Recipients  *letterapp.RecipientService
	Attachments *letterapp.AttachmentService
	Signatures  *letterapp.SignatureService
	AI          *letterapp.AIService
	Artifacts   *printing.ArtifactService
	// ArtifactURLTTL is the lifetime of presigned artifact URLs
	ArtifactURLTTL time.Duration
}

// LetterDocumentHandler handles recipients, attachments, signatures, AI
// assistance and the rendered PDF and QR artifacts of a letter
type LetterDocumentHandler struct {
	BaseHandler
	svc LetterDocumentServices
}

// NewLetterDocumentHandler creates a new LetterDocumentHandler
func NewLetterDocumentHandler(svc LetterDocumentServices) *LetterDocumentHandler {
	if svc.ArtifactURLTTL <= 0 {
		svc.ArtifactURLTTL = 15 * time.Minute
	}
	return &LetterDocumentHandler{svc: svc}
}

// AddRecipient godoc
// @ID           addLetterRecipient
// @Summary      Add recipient
// @Tags         letter-recipients
// @Accept       json
// @Produce      json
// @Param        id path string true "Letter ID" format(uuid)
// @Param        request body letterapp.RecipientRequest true "Recipient"
// @Success      201 {object} APIResponse[letterapp.RecipientResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /letters/{id}/recipients [post]
func (h *LetterDocumentHandler) AddRecipient(c *gin.Context) {
	tenantID, letterID, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req letterapp.RecipientRequest
	if !h.bindJSON(c, &req) {
		return
	}
	r, err := h.svc.Recipients.Add(c.Request.Context(), tenantID, letterID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, r)
}

// ListRecipients godoc
// @ID           listLetterRecipients
// @Summary      List recipients
// @Tags         letter-recipients
// @Produce      json
// @Param        id path string true "Letter ID" format(uuid)
// @Success      200 {object} APIResponse[[]letterapp.RecipientResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /letters/{id}/recipients [get]
func (h *LetterDocumentHandler) ListRecipients(c *gin.Context) {
	tenantID, letterID, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	items, err := h.svc.Recipients.List(c.Request.Context(), tenantID, letterID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// UpdateRecipient godoc
// @ID           updateLetterRecipient
// @Summary      Update recipient
// @Tags         letter-recipients
// @Accept       json
// @Produce      json
// @Param        id path string true "Letter ID" format(uuid)
// @Param        recipientId path string true "Recipient ID" format(uuid)
// @Param        request body letterapp.RecipientRequest true "Recipient"
// @Success      200 {object} APIResponse[letterapp.RecipientResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /letters/{id}/recipients/{recipientId} [put]
func (h *LetterDocumentHandler) UpdateRecipient(c *gin.Context) {
	tenantID, letterID, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	id, ok := h.paramUUID(c, "recipientId")
	if !ok {
		return
	}
	var req letterapp.RecipientRequest
	if !h.bindJSON(c, &req) {
		return
	}
	r, err := h.svc.Recipients.Update(c.Request.Context(), tenantID, letterID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, r)
}

// RemoveRecipient godoc
// @ID           removeLetterRecipient
// @Summary      Remove recipient
// @Tags         letter-recipients
// @Param        id path string true "Letter ID" format(uuid)
// @Param        recipientId path string true "Recipient ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /letters/{id}/recipients/{recipientId} [delete]
func (h *LetterDocumentHandler) RemoveRecipient(c *gin.Context) {
	tenantID, letterID, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	id, ok := h.paramUUID(c, "recipientId")
	if !ok {
		return
	}
	if err := h.svc.Recipients.Remove(c.Request.Context(), tenantID, letterID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateAttachment godoc
// @ID           createLetterAttachment
// @Summary      Reserve attachment upload
// @Description  Register an attachment and return a presigned PUT URL. Call the confirm endpoint once the upload finishes.
// @Tags         letter-attachments
// @Accept       json
// @Produce      json
// @Param        id path string true "Letter ID" format(uuid)
// @Param        request body letterapp.CreateAttachmentRequest true "Attachment"
// @Success      201 {object} APIResponse[letterapp.AttachmentUploadResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /letters/{id}/attachments [post]
func (h *LetterDocumentHandler) CreateAttachment(c *gin.Context) {
	tenantID, letterID, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req letterapp.CreateAttachmentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.svc.Attachments.Create(c.Request.Context(), tenantID, letterID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListAttachments godoc
// @ID           listLetterAttachments
// @Summary      List attachments
// @Tags         letter-attachments
// @Produce      json
// @Param        id path string true "Letter ID" format(uuid)
// @Success      200 {object} APIResponse[[]letterapp.AttachmentResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /letters/{id}/attachments [get]
func (h *LetterDocumentHandler) ListAttachments(c *gin.Context) {
	tenantID, letterID, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	items, err := h.svc.Attachments.List(c.Request.Context(), tenantID, letterID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// ConfirmAttachment godoc
// @ID           confirmLetterAttachment
// @Summary      Confirm attachment upload
// @Tags         letter-attachments
// @Produce      json
// @Param        id path string true "Letter ID" format(uuid)
// @Param        attachmentId path string true "Attachment ID" format(uuid)
// @Success      200 {object} APIResponse[letterapp.AttachmentResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /letters/{id}/attachments/{attachmentId}/confirm [post]
func (h *LetterDocumentHandler) ConfirmAttachment(c *gin.Context) {
	tenantID, letterID, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	id, ok := h.paramUUID(c, "attachmentId")
	if !ok {
		return
	}
	a, err := h.svc.Attachments.ConfirmUpload(c.Request.Context(), tenantID, letterID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, a)
}

// AttachmentURL godoc
// @ID           getLetterAttachmentURL
// @Summary      Attachment download URL
// @Tags         letter-attachments
// @Produce      json
// @Param        id path string true "Letter ID" format(uuid)
// @Param        attachmentId path string true "Attachment ID" format(uuid)
// @Success      200 {object} APIResponse[letterapp.PresignedURLResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /letters/{id}/attachments/{attachmentId}/download [get]
func (h *LetterDocumentHandler) AttachmentURL(c *gin.Context) {
	tenantID, letterID, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	id, ok := h.paramUUID(c, "attachmentId")
	if !ok {
		return
	}
	url, err := h.svc.Attachments.DownloadURL(c.Request.Context(), tenantID, letterID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, url)
}

// DeleteAttachment godoc
// @ID           deleteLetterAttachment
// @Summary      Delete attachment
// @Tags         letter-attachments
// @Param        id path string true "Letter ID" format(uuid)
// @Param        attachmentId path string true "Attachment ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /letters/{id}/attachments/{attachmentId} [delete]
func (h *LetterDocumentHandler) DeleteAttachment(c *gin.Context) {
	tenantID, letterID, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	id, ok := h.paramUUID(c, "attachmentId")
	if !ok {
		return
	}
	if err := h.svc.Attachments.Delete(c.Request.Context(), tenantID, letterID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Sign godoc
// @ID           signLetter
// @Summary      Sign letter
// @Description  Record a digital signature over the canonical letter. Requires the kepala_desa or admin role.
// @Tags         letter-signatures
// @Produce      json
// @Param        id path string true "Letter ID" format(uuid)
// @Success      201 {object} APIResponse[letterapp.SignatureResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /letters/{id}/sign [post]
func (h *LetterDocumentHandler) Sign(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	sig, err := h.svc.Signatures.Sign(c.Request.Context(), tenantID, id, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sig)
}

// VerifySignature godoc
// @ID           verifyLetterSignature
// @Summary      Verify signature
// @Description  Recompute the canonical digest and compare it with the stored one
// @Tags         letter-signatures
// @Produce      json
// @Param        id path string true "Letter ID" format(uuid)
// @Success      200 {object} APIResponse[letterapp.VerifyResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /letters/{id}/verify [get]
func (h *LetterDocumentHandler) VerifySignature(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	result, err := h.svc.Signatures.Verify(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ListSignatures godoc
// @ID           listLetterSignatures
// @Summary      List signatures
// @Tags         letter-signatures
// @Produce      json
// @Param        id path string true "Letter ID" format(uuid)
// @Success      200 {object} APIResponse[[]letterapp.SignatureResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /letters/{id}/signatures [get]
func (h *LetterDocumentHandler) ListSignatures(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	items, err := h.svc.Signatures.ListSignatures(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// Validate godoc
// @ID           validateLetter
// @Summary      AI validation
// @Description  Score the letter for grammar, formality and completeness. The result replaces the previous run.
// @Tags         letter-ai
// @Produce      json
// @Param        id path string true "Letter ID" format(uuid)
// @Success      200 {object} APIResponse[letterapp.ValidationResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /letters/{id}/ai/validate [post]
func (h *LetterDocumentHandler) Validate(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	result, err := h.svc.AI.Validate(c.Request.Context(), tenantID, id, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// LatestValidation godoc
// @ID           getLetterValidation
// @Summary      Latest AI validation
// @Tags         letter-ai
// @Produce      json
// @Param        id path string true "Letter ID" format(uuid)
// @Success      200 {object} APIResponse[letterapp.ValidationResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /letters/{id}/ai/validation [get]
func (h *LetterDocumentHandler) LatestValidation(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	result, err := h.svc.AI.LatestValidation(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Improve godoc
// @ID           improveLetter
// @Summary      AI improvement
// @Description  Propose an improved body. With apply=true the letter content is replaced.
// @Tags         letter-ai
// @Accept       json
// @Produce      json
// @Param        id path string true "Letter ID" format(uuid)
// @Param        request body letterapp.ImproveRequest false "Options"
// @Success      200 {object} APIResponse[letterapp.ImproveResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /letters/{id}/ai/improve [post]
func (h *LetterDocumentHandler) Improve(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req letterapp.ImproveRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}
	result, err := h.svc.AI.Improve(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Summarize godoc
// @ID           summarizeLetter
// @Summary      AI summary
// @Tags         letter-ai
// @Produce      json
// @Param        id path string true "Letter ID" format(uuid)
// @Success      200 {object} APIResponse[letterapp.SummarizeResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /letters/{id}/ai/summary [post]
func (h *LetterDocumentHandler) Summarize(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	result, err := h.svc.AI.Summarize(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Generate godoc
// @ID           generateLetter
// @Summary      AI draft
// @Description  Draft a subject and body for a letter type. Nothing is stored.
// @Tags         letter-ai
// @Accept       json
// @Produce      json
// @Param        request body letterapp.GenerateRequest true "Purpose"
// @Success      200 {object} APIResponse[letterapp.GenerateResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /letters/ai/generate [post]
func (h *LetterDocumentHandler) Generate(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	var req letterapp.GenerateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.svc.AI.Generate(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// PDF godoc
// @ID           getLetterPDF
// @Summary      Letter PDF
// @Description  Render or fetch the cached PDF of a numbered letter
// @Tags         letter-artifacts
// @Produce      application/pdf
// @Param        id path string true "Letter ID" format(uuid)
// @Success      200 {file} binary
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /letters/{id}/pdf [get]
func (h *LetterDocumentHandler) PDF(c *gin.Context) {
	h.serveArtifact(c, h.svc.Artifacts.GetPDF)
}

// QR godoc
// @ID           getLetterQR
// @Summary      Letter QR code
// @Description  PNG QR code pointing at the public verification page
// @Tags         letter-artifacts
// @Produce      image/png
// @Param        id path string true "Letter ID" format(uuid)
// @Success      200 {file} binary
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /letters/{id}/qr [get]
func (h *LetterDocumentHandler) QR(c *gin.Context) {
	h.serveArtifact(c, h.svc.Artifacts.GetQR)
}

// ArtifactURL godoc
// @ID           getLetterArtifactURL
// @Summary      Artifact download URL
// @Tags         letter-artifacts
// @Produce      json
// @Param        id path string true "Letter ID" format(uuid)
// @Param        kind path string true "Artifact kind" Enums(pdf, qr)
// @Success      200 {object} APIResponse[printing.ArtifactURLResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /letters/{id}/artifacts/{kind}/url [get]
func (h *LetterDocumentHandler) ArtifactURL(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	kind := letter.ArtifactKind(c.Param("kind"))
	if !kind.IsValid() {
		h.BadRequest(c, "Artifact kind must be pdf or qr")
		return
	}
	url, err := h.svc.Artifacts.DownloadURL(c.Request.Context(), tenantID, id, kind, h.svc.ArtifactURLTTL)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, url)
}

type artifactFunc func(ctx context.Context, tenantID, letterID uuid.UUID) (*printing.ArtifactFile, error)

func (h *LetterDocumentHandler) serveArtifact(c *gin.Context, get artifactFunc) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	file, err := get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	etag := fmt.Sprintf("%q", file.Hash)
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Header("ETag", etag)
	c.Header("Cache-Control", "private, max-age=300")
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", file.FileName))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
