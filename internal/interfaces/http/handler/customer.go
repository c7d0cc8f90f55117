package handler

import (
	partnerapp "github.com/crediario/backend/internal/application/partner"
	"github.com/crediario/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CustomerHandler handles customer-related API endpoints
type CustomerHandler struct {
	BaseHandler
	customerService *partnerapp.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *partnerapp.CustomerService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
	}
}

// Create godoc
// @ID           createCustomer
// @Summary      Create a new customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.CreateCustomerRequest true "Customer creation request"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Router       /partner/customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	var req partnerapp.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	customer, err := h.customerService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, customer)
}

// GetByID godoc
// @ID           getCustomerById
// @Summary      Get customer by ID
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /partner/customers/{id} [get]
func (h *CustomerHandler) GetByID(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	customer, err := h.customerService.GetByID(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// List godoc
// @ID           listCustomers
// @Summary      List customers
// @Tags         customers
// @Produce      json
// @Param        search query string false "Search term (name or phone)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response
// @Router       /partner/customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	var filter partnerapp.CustomerListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.customerService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update godoc
// @ID           updateCustomer
// @Summary      Update customer details
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Param        request body partnerapp.UpdateCustomerRequest true "Customer update request"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /partner/customers/{id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	var req partnerapp.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	customer, err := h.customerService.Update(c.Request.Context(), customerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// SetCreditLimit godoc
// @ID           setCustomerCreditLimit
// @Summary      Set or remove a customer's credit limit
// @Description  A null credit_limit removes the limit, making credit unlimited
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Param        request body partnerapp.SetCreditLimitRequest true "Credit limit request"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /partner/customers/{id}/credit-limit [put]
func (h *CustomerHandler) SetCreditLimit(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	var req partnerapp.SetCreditLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	customer, err := h.customerService.SetCreditLimit(c.Request.Context(), customerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// Delete godoc
// @ID           deleteCustomer
// @Summary      Delete a customer
// @Tags         customers
// @Param        id path string true "Customer ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response
// @Router       /partner/customers/{id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	if err := h.customerService.Delete(c.Request.Context(), customerID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
