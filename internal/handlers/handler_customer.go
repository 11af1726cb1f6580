package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxborn/loan_management_app/internal/core/domain"
	portssvc "github.com/maxborn/loan_management_app/internal/core/ports/services"
	"github.com/maxborn/loan_management_app/internal/dto"
	"github.com/maxborn/loan_management_app/internal/middleware"
)

// customerHandler handles HTTP requests for the customer directory.
type customerHandler struct {
	customerService portssvc.CustomerSvcFacade
}

func newCustomerHandler(cs portssvc.CustomerSvcFacade) *customerHandler {
	return &customerHandler{customerService: cs}
}

// registerCustomerRoutes registers the customer directory routes.
func registerCustomerRoutes(rg *gin.RouterGroup, customerService portssvc.CustomerSvcFacade) {
	h := newCustomerHandler(customerService)

	customers := rg.Group("/customers", middleware.RequireRoles(
		domain.RoleAdmin, domain.RoleVerifier, domain.RoleCollections, domain.RoleShopkeeper))
	{
		customers.GET("", h.listCustomers)
		customers.GET("/:id", h.getCustomer)
		customers.POST("", h.createCustomer)
		customers.PUT("/:id", h.updateCustomer)
	}
}

// listCustomers godoc
// @Summary List customers
// @Tags customers
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.ListCustomersResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /customers [get]
func (h *customerHandler) listCustomers(c *gin.Context) {
	var params dto.ListCustomersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.customerService.ListCustomers(c.Request.Context(), params)
	if err != nil {
		respondWithError(c, err, "Failed to list customers")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getCustomer godoc
// @Summary Get a customer
// @Tags customers
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} dto.CustomerResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /customers/{id} [get]
func (h *customerHandler) getCustomer(c *gin.Context) {
	customer, err := h.customerService.GetCustomerByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve customer")
		return
	}
	c.JSON(http.StatusOK, dto.ToCustomerResponse(customer))
}

// createCustomer godoc
// @Summary Register a customer
// @Description Registers a new customer. Phone numbers are unique across the directory.
// @Tags customers
// @Accept json
// @Produce json
// @Param customer body dto.CreateCustomerRequest true "Customer details"
// @Success 201 {object} dto.CustomerResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /customers [post]
func (h *customerHandler) createCustomer(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req dto.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), req, actor)
	if err != nil {
		respondWithError(c, err, "Failed to create customer")
		return
	}
	c.JSON(http.StatusCreated, dto.ToCustomerResponse(customer))
}

// updateCustomer godoc
// @Summary Update a customer
// @Tags customers
// @Accept json
// @Produce json
// @Param id path string true "Customer ID"
// @Param customer body dto.UpdateCustomerRequest true "Fields to update"
// @Success 200 {object} dto.CustomerResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /customers/{id} [put]
func (h *customerHandler) updateCustomer(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req dto.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), c.Param("id"), req, actor)
	if err != nil {
		respondWithError(c, err, "Failed to update customer")
		return
	}
	c.JSON(http.StatusOK, dto.ToCustomerResponse(customer))
}
