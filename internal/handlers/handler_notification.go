package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxborn/loan_management_app/internal/core/domain"
	portssvc "github.com/maxborn/loan_management_app/internal/core/ports/services"
	"github.com/maxborn/loan_management_app/internal/dto"
	"github.com/maxborn/loan_management_app/internal/middleware"
)

// notificationHandler handles HTTP requests for the notification feed.
type notificationHandler struct {
	notificationService portssvc.NotificationSvcFacade
}

func newNotificationHandler(ns portssvc.NotificationSvcFacade) *notificationHandler {
	return &notificationHandler{notificationService: ns}
}

// registerNotificationRoutes registers the notification feed routes.
func registerNotificationRoutes(rg *gin.RouterGroup, notificationService portssvc.NotificationSvcFacade) {
	h := newNotificationHandler(notificationService)

	notifications := rg.Group("/notifications")
	{
		notifications.GET("", h.listNotifications)
		notifications.POST("", middleware.RequireRoles(domain.RoleAdmin), h.createNotification)
		notifications.PATCH("/read-all", h.markAllRead)
		notifications.PATCH("/:id/read", h.markRead)
		notifications.DELETE("/:id", middleware.RequireRoles(domain.RoleAdmin), h.deleteNotification)
	}
}

// listNotifications godoc
// @Summary List notifications
// @Description Retrieves the feed visible to the caller's panel role, newest first, with the unread count.
// @Tags notifications
// @Produce json
// @Param unreadOnly query bool false "Only unread entries"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.ListNotificationsResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /notifications [get]
func (h *notificationHandler) listNotifications(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var params dto.ListNotificationsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.notificationService.ListNotifications(c.Request.Context(), params, actor)
	if err != nil {
		respondWithError(c, err, "Failed to list notifications")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// createNotification godoc
// @Summary Create a notification
// @Description Persists a notification directly, bypassing the lifecycle emitters. Admin only.
// @Tags notifications
// @Accept json
// @Produce json
// @Param notification body dto.CreateNotificationRequest true "Notification"
// @Success 201 {object} dto.NotificationResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /notifications [post]
func (h *notificationHandler) createNotification(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req dto.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	n, err := h.notificationService.CreateNotification(c.Request.Context(), req, actor)
	if err != nil {
		respondWithError(c, err, "Failed to create notification")
		return
	}
	c.JSON(http.StatusCreated, dto.ToNotificationResponse(n))
}

// markRead godoc
// @Summary Mark a notification read
// @Tags notifications
// @Produce json
// @Param id path string true "Notification ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /notifications/{id}/read [patch]
func (h *notificationHandler) markRead(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	if err := h.notificationService.MarkRead(c.Request.Context(), c.Param("id"), actor); err != nil {
		respondWithError(c, err, "Failed to mark notification read")
		return
	}
	c.Status(http.StatusNoContent)
}

// markAllRead godoc
// @Summary Mark all notifications read
// @Description Marks every unread notification visible to the caller's role as read.
// @Tags notifications
// @Produce json
// @Success 200 {object} map[string]int64
// @Security BearerAuth
// @Router /notifications/read-all [patch]
func (h *notificationHandler) markAllRead(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	marked, err := h.notificationService.MarkAllRead(c.Request.Context(), actor)
	if err != nil {
		respondWithError(c, err, "Failed to mark notifications read")
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked": marked})
}

// deleteNotification godoc
// @Summary Delete a notification
// @Tags notifications
// @Produce json
// @Param id path string true "Notification ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /notifications/{id} [delete]
func (h *notificationHandler) deleteNotification(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	if err := h.notificationService.DeleteNotification(c.Request.Context(), c.Param("id"), actor); err != nil {
		respondWithError(c, err, "Failed to delete notification")
		return
	}
	c.Status(http.StatusNoContent)
}
