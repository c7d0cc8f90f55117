package handler

import (
	billingapp "github.com/crediario/backend/internal/application/billing"
	"github.com/crediario/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InvoiceHandler handles invoice-related API endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService      *billingapp.InvoiceService
	paymentService      *billingapp.PaymentService
	notificationService *billingapp.NotificationService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(
	invoiceService *billingapp.InvoiceService,
	paymentService *billingapp.PaymentService,
	notificationService *billingapp.NotificationService,
) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService:      invoiceService,
		paymentService:      paymentService,
		notificationService: notificationService,
	}
}

// Create godoc
// @ID           createInvoice
// @Summary      Create a new invoice
// @Description  Creates an invoice with its line items and charges the total against the customer's credit
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body billingapp.CreateInvoiceRequest true "Invoice creation request"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      422 {object} dto.Response "Credit limit exceeded"
// @Router       /billing/invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req billingapp.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	invoice, err := h.invoiceService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, invoice)
}

// GetByID godoc
// @ID           getInvoiceById
// @Summary      Get invoice by ID
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /billing/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// List godoc
// @ID           listInvoices
// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Param        customer_id query string false "Filter by customer" format(uuid)
// @Param        status query string false "Invoice status" Enums(open, partial, paid, cancelled)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response
// @Router       /billing/invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	var filter billingapp.InvoiceListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.invoiceService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// UpdateItems godoc
// @ID           updateInvoiceItems
// @Summary      Replace the line items of an invoice
// @Description  Replaces the full item set, recomputes the total and re-checks the customer's credit for any increase
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body billingapp.UpdateInvoiceItemsRequest true "New line item set"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response "Credit limit exceeded or invoice cancelled"
// @Router       /billing/invoices/{id}/items [put]
func (h *InvoiceHandler) UpdateItems(c *gin.Context) {
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	var req billingapp.UpdateInvoiceItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	invoice, err := h.invoiceService.UpdateItems(c.Request.Context(), invoiceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// Cancel godoc
// @ID           cancelInvoice
// @Summary      Cancel an invoice
// @Description  Cancels the invoice and releases its unpaid remainder from the customer's balance
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response "Already cancelled"
// @Router       /billing/invoices/{id}/cancel [post]
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	invoice, err := h.invoiceService.Cancel(c.Request.Context(), invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// Delete godoc
// @ID           deleteInvoice
// @Summary      Delete an invoice
// @Description  Removes the invoice, releases its unpaid remainder from the customer's balance and detaches any payments already applied
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response
// @Router       /billing/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), invoiceID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ListPayments godoc
// @ID           listInvoicePayments
// @Summary      List the payments applied to an invoice
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} dto.Response
// @Router       /billing/invoices/{id}/payments [get]
func (h *InvoiceHandler) ListPayments(c *gin.Context) {
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	payments, err := h.paymentService.ListByInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payments)
}

// ListNotifications godoc
// @ID           listInvoiceNotifications
// @Summary      List the notifications scheduled for an invoice
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} dto.Response
// @Router       /billing/invoices/{id}/notifications [get]
func (h *InvoiceHandler) ListNotifications(c *gin.Context) {
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	notifications, err := h.notificationService.ListByInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, notifications)
}
