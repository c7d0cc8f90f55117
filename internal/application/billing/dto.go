package billing

import (
	"time"

	"github.com/crediario/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Invoice DTOs
// =============================================================================

// LineItemRequest represents one line item in a create or update request
type LineItemRequest struct {
	Description string          `json:"description" binding:"required,min=1,max=300"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

// CreateInvoiceRequest represents a request to create an invoice
type CreateInvoiceRequest struct {
	CustomerID uuid.UUID         `json:"customer_id" binding:"required"`
	Number     string            `json:"number" binding:"max=50"`
	IssueDate  *time.Time        `json:"issue_date"`
	DueDate    *time.Time        `json:"due_date"`
	Items      []LineItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateInvoiceItemsRequest replaces the full line item set of an invoice
type UpdateInvoiceItemsRequest struct {
	Items []LineItemRequest `json:"items" binding:"required,min=1,dive"`
}

// LineItemResponse represents a line item in API responses
type LineItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID           uuid.UUID          `json:"id"`
	CustomerID   uuid.UUID          `json:"customer_id"`
	Number       string             `json:"number"`
	IssueDate    time.Time          `json:"issue_date"`
	DueDate      *time.Time         `json:"due_date"`
	Total        decimal.Decimal    `json:"total"`
	Paid         decimal.Decimal    `json:"paid"`
	RemainingDue decimal.Decimal    `json:"remaining_due"`
	Status       string             `json:"status"`
	Items        []LineItemResponse `json:"items"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
	Version      int                `json:"version"`
}

// InvoiceListFilter represents filter options for the invoice list
type InvoiceListFilter struct {
	CustomerID *uuid.UUID `form:"customer_id"`
	Status     string     `form:"status" binding:"omitempty,oneof=open partial paid cancelled"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToInvoiceResponse converts a domain invoice plus its paid sum to a response
func ToInvoiceResponse(inv *billing.Invoice, paid decimal.Decimal) *InvoiceResponse {
	items := make([]LineItemResponse, 0, len(inv.Items))
	for _, item := range inv.Items {
		items = append(items, LineItemResponse{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		})
	}

	return &InvoiceResponse{
		ID:           inv.ID,
		CustomerID:   inv.CustomerID,
		Number:       inv.Number,
		IssueDate:    inv.IssueDate,
		DueDate:      inv.DueDate,
		Total:        inv.Total,
		Paid:         paid,
		RemainingDue: inv.RemainingDue(paid),
		Status:       inv.Status.String(),
		Items:        items,
		CreatedAt:    inv.CreatedAt,
		UpdatedAt:    inv.UpdatedAt,
		Version:      inv.GetVersion(),
	}
}

// =============================================================================
// Payment DTOs
// =============================================================================

// ApplyPaymentRequest represents a request to record a payment
type ApplyPaymentRequest struct {
	CustomerID uuid.UUID       `json:"customer_id" binding:"required"`
	InvoiceID  *uuid.UUID      `json:"invoice_id"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Date       *time.Time      `json:"date"`
	Method     string          `json:"method" binding:"omitempty,oneof=cash pix card transfer other"`
	Notes      string          `json:"notes" binding:"max=500"`
}

// UpdatePaymentRequest corrects a recorded payment. The invoice link cannot
// be changed; delete and re-record instead.
type UpdatePaymentRequest struct {
	Amount *decimal.Decimal `json:"amount"`
	Date   *time.Time       `json:"date"`
	Method *string          `json:"method" binding:"omitempty,oneof=cash pix card transfer other"`
	Notes  *string          `json:"notes" binding:"omitempty,max=500"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID         uuid.UUID       `json:"id"`
	CustomerID uuid.UUID       `json:"customer_id"`
	InvoiceID  *uuid.UUID      `json:"invoice_id"`
	Amount     decimal.Decimal `json:"amount"`
	Date       time.Time       `json:"date"`
	Method     string          `json:"method"`
	Notes      string          `json:"notes"`
	CreatedAt  time.Time       `json:"created_at"`
}

// PaymentListFilter represents filter options for the payment list
type PaymentListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToPaymentResponse converts a domain payment to a response DTO
func ToPaymentResponse(p *billing.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:         p.ID,
		CustomerID: p.CustomerID,
		InvoiceID:  p.InvoiceID,
		Amount:     p.Amount,
		Date:       p.Date,
		Method:     p.Method.String(),
		Notes:      p.Notes,
		CreatedAt:  p.CreatedAt,
	}
}

// =============================================================================
// Notification DTOs
// =============================================================================

// NotificationResponse represents a notification in API responses
type NotificationResponse struct {
	ID           uuid.UUID  `json:"id"`
	CustomerID   *uuid.UUID `json:"customer_id"`
	InvoiceID    *uuid.UUID `json:"invoice_id"`
	Type         string     `json:"type"`
	Channel      string     `json:"channel"`
	Recipient    string     `json:"recipient"`
	Content      string     `json:"content"`
	Status       string     `json:"status"`
	ScheduledFor time.Time  `json:"scheduled_for"`
	SentAt       *time.Time `json:"sent_at"`
	Attempts     int        `json:"attempts"`
	LastError    string     `json:"last_error,omitempty"`
}

// ToNotificationResponse converts a domain notification to a response DTO
func ToNotificationResponse(n *billing.Notification) *NotificationResponse {
	return &NotificationResponse{
		ID:           n.ID,
		CustomerID:   n.CustomerID,
		InvoiceID:    n.InvoiceID,
		Type:         string(n.Type),
		Channel:      string(n.Channel),
		Recipient:    n.Recipient,
		Content:      n.Content,
		Status:       string(n.Status),
		ScheduledFor: n.ScheduledFor,
		SentAt:       n.SentAt,
		Attempts:     n.Attempts,
		LastError:    n.LastError,
	}
}

// =============================================================================
// Attachment DTOs
// =============================================================================

// UploadAttachmentRequest carries the metadata of an uploaded file; the
// bytes travel separately as a multipart part.
type UploadAttachmentRequest struct {
	FileName    string
	ContentType string
	SizeBytes   int64
	Description string
}

// AttachmentResponse represents an attachment in API responses
type AttachmentResponse struct {
	ID          uuid.UUID `json:"id"`
	InvoiceID   uuid.UUID `json:"invoice_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	Description string    `json:"description"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// ToAttachmentResponse converts a domain attachment to a response DTO
func ToAttachmentResponse(a *billing.Attachment) *AttachmentResponse {
	return &AttachmentResponse{
		ID:          a.ID,
		InvoiceID:   a.InvoiceID,
		FileName:    a.FileName,
		ContentType: a.ContentType,
		SizeBytes:   a.SizeBytes,
		Description: a.Description,
		UploadedAt:  a.UploadedAt,
	}
}
