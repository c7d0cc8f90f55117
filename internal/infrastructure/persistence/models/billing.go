package models

import (
	"time"

	"github.com/crediario/backend/internal/domain/billing"
	"github.com/crediario/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice aggregate root.
// Line items are saved through the association; replacing the item set
// deletes the old rows and inserts the new ones.
type InvoiceModel struct {
	AggregateModel
	CustomerID uuid.UUID             `gorm:"type:uuid;not null;index"`
	Number     string                `gorm:"type:varchar(50);index"`
	IssueDate  time.Time             `gorm:"not null"`
	DueDate    *time.Time            `gorm:"index;index:idx_invoices_status_due,priority:2"`
	Total      decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	Status     billing.InvoiceStatus `gorm:"type:varchar(20);not null;default:'open';index;index:idx_invoices_status_due,priority:1"`
	Items      []LineItemModel       `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// LineItemModel is the persistence model for an invoice line item
type LineItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description string          `gorm:"type:varchar(300);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (LineItemModel) TableName() string {
	return "line_items"
}

// ToDomain converts the persistence model to a domain Invoice entity.
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	items := make([]billing.LineItem, 0, len(m.Items))
	for _, item := range m.Items {
		items = append(items, billing.LineItem{
			ID:          item.ID,
			InvoiceID:   item.InvoiceID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
			CreatedAt:   item.CreatedAt,
		})
	}

	return &billing.Invoice{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		CustomerID: m.CustomerID,
		Number:     m.Number,
		IssueDate:  m.IssueDate,
		DueDate:    m.DueDate,
		Total:      m.Total,
		Status:     m.Status,
		Items:      items,
	}
}

// FromDomain populates the persistence model from a domain Invoice entity.
func (m *InvoiceModel) FromDomain(inv *billing.Invoice) {
	m.FromDomainAggregateRoot(inv.BaseAggregateRoot)
	m.CustomerID = inv.CustomerID
	m.Number = inv.Number
	m.IssueDate = inv.IssueDate
	m.DueDate = inv.DueDate
	m.Total = inv.Total
	m.Status = inv.Status

	m.Items = make([]LineItemModel, 0, len(inv.Items))
	for _, item := range inv.Items {
		m.Items = append(m.Items, LineItemModel{
			ID:          item.ID,
			InvoiceID:   inv.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
			CreatedAt:   item.CreatedAt,
		})
	}
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice entity.
func InvoiceModelFromDomain(inv *billing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// PaymentModel is the persistence model for the Payment aggregate
type PaymentModel struct {
	AggregateModel
	CustomerID uuid.UUID             `gorm:"type:uuid;not null;index"`
	InvoiceID  *uuid.UUID            `gorm:"type:uuid;index"`
	Amount     decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	Date       time.Time             `gorm:"not null;index"`
	Method     billing.PaymentMethod `gorm:"type:varchar(20);not null;default:'cash'"`
	Notes      string                `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment entity.
func (m *PaymentModel) ToDomain() *billing.Payment {
	return &billing.Payment{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		CustomerID: m.CustomerID,
		InvoiceID:  m.InvoiceID,
		Amount:     m.Amount,
		Date:       m.Date,
		Method:     m.Method,
		Notes:      m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Payment entity.
func (m *PaymentModel) FromDomain(p *billing.Payment) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.CustomerID = p.CustomerID
	m.InvoiceID = p.InvoiceID
	m.Amount = p.Amount
	m.Date = p.Date
	m.Method = p.Method
	m.Notes = p.Notes
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment entity.
func PaymentModelFromDomain(p *billing.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromDomain(p)
	return m
}

// NotificationModel is the persistence model for the Notification aggregate.
// Both subject links are nullable and set-null on subject deletion so the
// notification log survives. ScheduledDate holds just the date part of
// ScheduledFor and backs the unique (invoice, type, scheduled date)
// idempotency key.
type NotificationModel struct {
	AggregateModel
	CustomerID    *uuid.UUID                  `gorm:"type:uuid;index"`
	InvoiceID     *uuid.UUID                  `gorm:"type:uuid;uniqueIndex:idx_notification_key,priority:1"`
	Type          billing.NotificationType    `gorm:"type:varchar(30);not null;uniqueIndex:idx_notification_key,priority:2"`
	Channel       billing.NotificationChannel `gorm:"type:varchar(20);not null"`
	Recipient     string                      `gorm:"type:varchar(100)"`
	Content       string                      `gorm:"type:text;not null"`
	Status        billing.NotificationStatus  `gorm:"type:varchar(20);not null;default:'pending';index"`
	ScheduledFor  time.Time                   `gorm:"not null;index"`
	ScheduledDate string                      `gorm:"type:varchar(10);not null;uniqueIndex:idx_notification_key,priority:3"`
	SentAt        *time.Time
	Attempts      int    `gorm:"not null;default:0"`
	LastError     string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// ScheduledDateLayout is the format used for the idempotency key date part
const ScheduledDateLayout = "2006-01-02"

// ToDomain converts the persistence model to a domain Notification entity.
func (m *NotificationModel) ToDomain() *billing.Notification {
	return &billing.Notification{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		CustomerID:   m.CustomerID,
		InvoiceID:    m.InvoiceID,
		Type:         m.Type,
		Channel:      m.Channel,
		Recipient:    m.Recipient,
		Content:      m.Content,
		Status:       m.Status,
		ScheduledFor: m.ScheduledFor,
		SentAt:       m.SentAt,
		Attempts:     m.Attempts,
		LastError:    m.LastError,
	}
}

// FromDomain populates the persistence model from a domain Notification entity.
func (m *NotificationModel) FromDomain(n *billing.Notification) {
	m.FromDomainAggregateRoot(n.BaseAggregateRoot)
	m.CustomerID = n.CustomerID
	m.InvoiceID = n.InvoiceID
	m.Type = n.Type
	m.Channel = n.Channel
	m.Recipient = n.Recipient
	m.Content = n.Content
	m.Status = n.Status
	m.ScheduledFor = n.ScheduledFor
	m.ScheduledDate = n.ScheduledFor.Format(ScheduledDateLayout)
	m.SentAt = n.SentAt
	m.Attempts = n.Attempts
	m.LastError = n.LastError
}

// NotificationModelFromDomain creates a new persistence model from a domain Notification entity.
func NotificationModelFromDomain(n *billing.Notification) *NotificationModel {
	m := &NotificationModel{}
	m.FromDomain(n)
	return m
}

// AttachmentModel is the persistence model for invoice attachments
type AttachmentModel struct {
	BaseModel
	InvoiceID   uuid.UUID `gorm:"type:uuid;not null;index"`
	FileName    string    `gorm:"type:varchar(300);not null"`
	ContentType string    `gorm:"type:varchar(100)"`
	SizeBytes   int64     `gorm:"not null"`
	StorageKey  string    `gorm:"type:varchar(500);not null;uniqueIndex"`
	Description string    `gorm:"type:text"`
	UploadedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AttachmentModel) TableName() string {
	return "attachments"
}

// ToDomain converts the persistence model to a domain Attachment entity.
func (m *AttachmentModel) ToDomain() *billing.Attachment {
	return &billing.Attachment{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		InvoiceID:   m.InvoiceID,
		FileName:    m.FileName,
		ContentType: m.ContentType,
		SizeBytes:   m.SizeBytes,
		StorageKey:  m.StorageKey,
		Description: m.Description,
		UploadedAt:  m.UploadedAt,
	}
}

// FromDomain populates the persistence model from a domain Attachment entity.
func (m *AttachmentModel) FromDomain(a *billing.Attachment) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.InvoiceID = a.InvoiceID
	m.FileName = a.FileName
	m.ContentType = a.ContentType
	m.SizeBytes = a.SizeBytes
	m.StorageKey = a.StorageKey
	m.Description = a.Description
	m.UploadedAt = a.UploadedAt
}

// AttachmentModelFromDomain creates a new persistence model from a domain Attachment entity.
func AttachmentModelFromDomain(a *billing.Attachment) *AttachmentModel {
	m := &AttachmentModel{}
	m.FromDomain(a)
	return m
}
