package handler

import (
	billingapp "github.com/crediario/backend/internal/application/billing"
	"github.com/crediario/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentHandler handles payment-related API endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *billingapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *billingapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// Apply godoc
// @ID           applyPayment
// @Summary      Record a payment
// @Description  Records a payment against a customer, optionally tied to an invoice. A payment tied to an invoice may not exceed its remaining due.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request body billingapp.ApplyPaymentRequest true "Payment request"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      422 {object} dto.Response "Overpayment or cancelled invoice"
// @Router       /billing/payments [post]
func (h *PaymentHandler) Apply(c *gin.Context) {
	var req billingapp.ApplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	payment, err := h.paymentService.Apply(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, payment)
}

// GetByID godoc
// @ID           getPaymentById
// @Summary      Get payment by ID
// @Tags         payments
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /billing/payments/{id} [get]
func (h *PaymentHandler) GetByID(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	payment, err := h.paymentService.GetByID(c.Request.Context(), paymentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payment)
}

// Update godoc
// @ID           updatePayment
// @Summary      Correct a recorded payment
// @Description  Updates the amount, date, method or notes. The invoice link cannot be changed; delete and re-record instead.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Param        request body billingapp.UpdatePaymentRequest true "Payment update request"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response "Overpayment"
// @Router       /billing/payments/{id} [put]
func (h *PaymentHandler) Update(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	var req billingapp.UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	payment, err := h.paymentService.Update(c.Request.Context(), paymentID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payment)
}

// Delete godoc
// @ID           deletePayment
// @Summary      Delete a payment
// @Description  Removes the payment, restoring its amount to the customer's balance and rederiving the invoice status
// @Tags         payments
// @Param        id path string true "Payment ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response
// @Router       /billing/payments/{id} [delete]
func (h *PaymentHandler) Delete(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	if err := h.paymentService.Delete(c.Request.Context(), paymentID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ListByCustomer godoc
// @ID           listCustomerPayments
// @Summary      List a customer's payments
// @Tags         payments
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response
// @Router       /partner/customers/{id}/payments [get]
func (h *PaymentHandler) ListByCustomer(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	var filter billingapp.PaymentListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.paymentService.ListByCustomer(c.Request.Context(), customerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}
