package handlers

import (
	"net/http"
	"strconv"

	"garage_crm/internal/domain/entities"

	"github.com/gin-gonic/gin"
)

// RecentNotifications is implemented by notifiers that keep a history.
type RecentNotifications interface {
	Recent(limit int) []entities.Notification
}

type NotificationHandler struct {
	source RecentNotifications
}

func NewNotificationHandler(source RecentNotifications) *NotificationHandler {
	return &NotificationHandler{source: source}
}

// List returns the latest notifications, newest first. ?limit= caps the result.
func (h *NotificationHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	c.JSON(http.StatusOK, h.source.Recent(limit))
}
