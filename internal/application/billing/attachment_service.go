package billing

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/crediario/backend/internal/domain/billing"
	"github.com/crediario/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AllowedContentTypes whitelists the content types accepted for invoice
// attachments. SVG is excluded because it can carry scripts.
var AllowedContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
}

// ObjectStorage is the contract the infrastructure layer implements for the
// attachment file bytes (S3 or a local stub).
type ObjectStorage interface {
	// GenerateUploadURL returns a presigned URL the client PUTs the file to
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	// GenerateDownloadURL returns a presigned URL for fetching the file
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	DeleteObject(ctx context.Context, storageKey string) error
}

// InitiateUploadResponse carries the presigned upload URL for a new attachment
type InitiateUploadResponse struct {
	Attachment *AttachmentResponse `json:"attachment"`
	UploadURL  string              `json:"upload_url"`
	ExpiresAt  time.Time           `json:"expires_at"`
}

// DownloadURLResponse carries a presigned download URL
type DownloadURLResponse struct {
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// AttachmentService manages files linked to invoices
type AttachmentService struct {
	attachmentRepo billing.AttachmentRepository
	invoiceRepo    billing.InvoiceRepository
	storage        ObjectStorage

	uploadURLExpiry   time.Duration
	downloadURLExpiry time.Duration
}

// NewAttachmentService creates a new AttachmentService
func NewAttachmentService(attachmentRepo billing.AttachmentRepository, invoiceRepo billing.InvoiceRepository, storage ObjectStorage) *AttachmentService {
	return &AttachmentService{
		attachmentRepo:    attachmentRepo,
		invoiceRepo:       invoiceRepo,
		storage:           storage,
		uploadURLExpiry:   15 * time.Minute,
		downloadURLExpiry: time.Hour,
	}
}

// InitiateUpload records attachment metadata and returns a presigned URL the
// client uploads the file bytes to.
func (s *AttachmentService) InitiateUpload(ctx context.Context, invoiceID uuid.UUID, req UploadAttachmentRequest) (*InitiateUploadResponse, error) {
	if _, err := s.invoiceRepo.FindByID(ctx, invoiceID); err != nil {
		return nil, err
	}

	if !AllowedContentTypes[req.ContentType] {
		return nil, shared.NewDomainError("INVALID_CONTENT_TYPE",
			fmt.Sprintf("Content type %q is not allowed", req.ContentType))
	}

	storageKey := buildStorageKey(invoiceID, req.FileName)
	attachment, err := billing.NewAttachment(invoiceID, req.FileName, req.ContentType, req.SizeBytes, storageKey, req.Description)
	if err != nil {
		return nil, err
	}

	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, storageKey, req.ContentType, s.uploadURLExpiry)
	if err != nil {
		return nil, err
	}

	if err := s.attachmentRepo.Save(ctx, attachment); err != nil {
		return nil, err
	}

	return &InitiateUploadResponse{
		Attachment: ToAttachmentResponse(attachment),
		UploadURL:  uploadURL,
		ExpiresAt:  expiresAt,
	}, nil
}

// GetDownloadURL returns a presigned URL for an attachment's file
func (s *AttachmentService) GetDownloadURL(ctx context.Context, attachmentID uuid.UUID) (*DownloadURLResponse, error) {
	attachment, err := s.attachmentRepo.FindByID(ctx, attachmentID)
	if err != nil {
		return nil, err
	}

	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, attachment.StorageKey, s.downloadURLExpiry)
	if err != nil {
		return nil, err
	}

	return &DownloadURLResponse{DownloadURL: url, ExpiresAt: expiresAt}, nil
}

// ListByInvoice retrieves all attachments of an invoice
func (s *AttachmentService) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]AttachmentResponse, error) {
	attachments, err := s.attachmentRepo.FindByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	responses := make([]AttachmentResponse, 0, len(attachments))
	for _, a := range attachments {
		responses = append(responses, *ToAttachmentResponse(a))
	}
	return responses, nil
}

// Delete removes an attachment record and its stored object
func (s *AttachmentService) Delete(ctx context.Context, attachmentID uuid.UUID) error {
	attachment, err := s.attachmentRepo.FindByID(ctx, attachmentID)
	if err != nil {
		return err
	}

	if err := s.storage.DeleteObject(ctx, attachment.StorageKey); err != nil {
		return err
	}
	return s.attachmentRepo.Delete(ctx, attachmentID)
}

func buildStorageKey(invoiceID uuid.UUID, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return fmt.Sprintf("invoices/%s/%s%s", invoiceID, uuid.New(), ext)
}
