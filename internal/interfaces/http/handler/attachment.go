package handler

import (
	billingapp "github.com/crediario/backend/internal/application/billing"
	"github.com/crediario/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AttachmentHandler handles invoice attachment API endpoints
type AttachmentHandler struct {
	BaseHandler
	attachmentService *billingapp.AttachmentService
}

// NewAttachmentHandler creates a new AttachmentHandler
func NewAttachmentHandler(attachmentService *billingapp.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{
		attachmentService: attachmentService,
	}
}

// InitiateUpload godoc
// @ID           initiateAttachmentUpload
// @Summary      Start an attachment upload
// @Description  Registers the attachment and returns a presigned URL the client PUTs the file bytes to
// @Tags         attachments
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body billingapp.UploadAttachmentRequest true "Attachment metadata"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /billing/invoices/{id}/attachments [post]
func (h *AttachmentHandler) InitiateUpload(c *gin.Context) {
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	var req billingapp.UploadAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.attachmentService.InitiateUpload(c.Request.Context(), invoiceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// ListByInvoice godoc
// @ID           listInvoiceAttachments
// @Summary      List the attachments of an invoice
// @Tags         attachments
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} dto.Response
// @Router       /billing/invoices/{id}/attachments [get]
func (h *AttachmentHandler) ListByInvoice(c *gin.Context) {
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	attachments, err := h.attachmentService.ListByInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, attachments)
}

// GetDownloadURL godoc
// @ID           getAttachmentDownloadUrl
// @Summary      Get a download URL for an attachment
// @Tags         attachments
// @Produce      json
// @Param        id path string true "Attachment ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /billing/attachments/{id}/download [get]
func (h *AttachmentHandler) GetDownloadURL(c *gin.Context) {
	attachmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid attachment ID format")
		return
	}

	result, err := h.attachmentService.GetDownloadURL(c.Request.Context(), attachmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete godoc
// @ID           deleteAttachment
// @Summary      Delete an attachment
// @Description  Removes the stored file and the attachment record
// @Tags         attachments
// @Param        id path string true "Attachment ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response
// @Router       /billing/attachments/{id} [delete]
func (h *AttachmentHandler) Delete(c *gin.Context) {
	attachmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid attachment ID format")
		return
	}

	if err := h.attachmentService.Delete(c.Request.Context(), attachmentID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
