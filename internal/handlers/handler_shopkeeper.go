package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxborn/loan_management_app/internal/core/domain"
	portssvc "github.com/maxborn/loan_management_app/internal/core/ports/services"
	"github.com/maxborn/loan_management_app/internal/dto"
	"github.com/maxborn/loan_management_app/internal/middleware"
)

// shopkeeperHandler handles HTTP requests for the shopkeeper directory.
type shopkeeperHandler struct {
	shopkeeperService portssvc.ShopkeeperSvcFacade
}

func newShopkeeperHandler(ss portssvc.ShopkeeperSvcFacade) *shopkeeperHandler {
	return &shopkeeperHandler{shopkeeperService: ss}
}

// registerShopkeeperRoutes registers the shopkeeper directory routes.
func registerShopkeeperRoutes(rg *gin.RouterGroup, shopkeeperService portssvc.ShopkeeperSvcFacade) {
	h := newShopkeeperHandler(shopkeeperService)

	shopkeepers := rg.Group("/shopkeepers")
	{
		shopkeepers.GET("", middleware.RequireRoles(domain.RoleAdmin, domain.RoleVerifier, domain.RoleCollections), h.listShopkeepers)
		shopkeepers.GET("/me", middleware.RequireRoles(domain.RoleShopkeeper), h.getOwnProfile)
		shopkeepers.GET("/:id", h.getShopkeeper)
		shopkeepers.POST("", middleware.RequireRoles(domain.RoleAdmin), h.createShopkeeper)
		shopkeepers.PUT("/:id", middleware.RequireRoles(domain.RoleAdmin, domain.RoleShopkeeper), h.updateShopkeeper)
		shopkeepers.POST("/:id/tokens", middleware.RequireRoles(domain.RoleAdmin), h.creditTokens)
	}
}

// listShopkeepers godoc
// @Summary List shopkeepers
// @Tags shopkeepers
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.ListShopkeepersResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /shopkeepers [get]
func (h *shopkeeperHandler) listShopkeepers(c *gin.Context) {
	var params dto.ListShopkeepersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.shopkeeperService.ListShopkeepers(c.Request.Context(), params)
	if err != nil {
		respondWithError(c, err, "Failed to list shopkeepers")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getOwnProfile godoc
// @Summary Own shopkeeper profile
// @Description Returns the shopkeeper record linked to the authenticated user, including the token balance.
// @Tags shopkeepers
// @Produce json
// @Success 200 {object} dto.ShopkeeperResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /shopkeepers/me [get]
func (h *shopkeeperHandler) getOwnProfile(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	sk, err := h.shopkeeperService.GetShopkeeperByUserID(c.Request.Context(), actor.UserID)
	if err != nil {
		respondWithError(c, err, "Failed to retrieve shopkeeper profile")
		return
	}
	c.JSON(http.StatusOK, dto.ToShopkeeperResponse(sk))
}

// getShopkeeper godoc
// @Summary Get a shopkeeper
// @Tags shopkeepers
// @Produce json
// @Param id path string true "Shopkeeper ID"
// @Success 200 {object} dto.ShopkeeperResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /shopkeepers/{id} [get]
func (h *shopkeeperHandler) getShopkeeper(c *gin.Context) {
	sk, err := h.shopkeeperService.GetShopkeeperByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve shopkeeper")
		return
	}
	c.JSON(http.StatusOK, dto.ToShopkeeperResponse(sk))
}

// createShopkeeper godoc
// @Summary Register a shopkeeper
// @Description Creates the shopkeeper's panel user account and directory record with a starting token balance. Admin only.
// @Tags shopkeepers
// @Accept json
// @Produce json
// @Param shopkeeper body dto.CreateShopkeeperRequest true "Shopkeeper details"
// @Success 201 {object} dto.ShopkeeperResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /shopkeepers [post]
func (h *shopkeeperHandler) createShopkeeper(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req dto.CreateShopkeeperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	sk, err := h.shopkeeperService.CreateShopkeeper(c.Request.Context(), req, actor)
	if err != nil {
		respondWithError(c, err, "Failed to create shopkeeper")
		return
	}
	c.JSON(http.StatusCreated, dto.ToShopkeeperResponse(sk))
}

// updateShopkeeper godoc
// @Summary Update a shopkeeper
// @Description Updates a shopkeeper's details. Shopkeepers may only update their own record.
// @Tags shopkeepers
// @Accept json
// @Produce json
// @Param id path string true "Shopkeeper ID"
// @Param shopkeeper body dto.UpdateShopkeeperRequest true "Fields to update"
// @Success 200 {object} dto.ShopkeeperResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /shopkeepers/{id} [put]
func (h *shopkeeperHandler) updateShopkeeper(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req dto.UpdateShopkeeperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	sk, err := h.shopkeeperService.UpdateShopkeeper(c.Request.Context(), c.Param("id"), req, actor)
	if err != nil {
		respondWithError(c, err, "Failed to update shopkeeper")
		return
	}
	c.JSON(http.StatusOK, dto.ToShopkeeperResponse(sk))
}

// creditTokens godoc
// @Summary Credit application tokens
// @Description Adds application tokens to a shopkeeper's balance. Admin only.
// @Tags shopkeepers
// @Accept json
// @Produce json
// @Param id path string true "Shopkeeper ID"
// @Param tokens body dto.CreditTokensRequest true "Token amount"
// @Success 200 {object} dto.ShopkeeperResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /shopkeepers/{id}/tokens [post]
func (h *shopkeeperHandler) creditTokens(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req dto.CreditTokensRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	sk, err := h.shopkeeperService.CreditTokens(c.Request.Context(), c.Param("id"), req.Amount, actor)
	if err != nil {
		respondWithError(c, err, "Failed to credit tokens")
		return
	}
	c.JSON(http.StatusOK, dto.ToShopkeeperResponse(sk))
}
