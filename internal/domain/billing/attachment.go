package billing

import (
	"time"

	"github.com/crediario/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Attachment is a file linked to an invoice, such as a receipt photo or a
// signed slip. The bytes live in object storage; only the key is kept here.
type Attachment struct {
	shared.BaseEntity
	InvoiceID   uuid.UUID
	FileName    string
	ContentType string
	SizeBytes   int64
	StorageKey  string
	Description string
	UploadedAt  time.Time
}

// MaxAttachmentSize is the largest accepted upload, in bytes
const MaxAttachmentSize int64 = 10 << 20

// NewAttachment creates attachment metadata for an uploaded file
func NewAttachment(invoiceID uuid.UUID, fileName, contentType string, sizeBytes int64, storageKey, description string) (*Attachment, error) {
	if invoiceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Attachment requires an invoice")
	}
	if fileName == "" {
		return nil, shared.NewDomainError("INVALID_FILE", "Attachment file name cannot be empty")
	}
	if sizeBytes <= 0 || sizeBytes > MaxAttachmentSize {
		return nil, shared.NewDomainError("INVALID_FILE", "Attachment size must be between 1 byte and 10 MiB")
	}
	if storageKey == "" {
		return nil, shared.NewDomainError("INVALID_FILE", "Attachment storage key cannot be empty")
	}

	return &Attachment{
		BaseEntity:  shared.NewBaseEntity(),
		InvoiceID:   invoiceID,
		FileName:    fileName,
		ContentType: contentType,
		SizeBytes:   sizeBytes,
		StorageKey:  storageKey,
		Description: description,
		UploadedAt:  time.Now(),
	}, nil
}
