package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
)

// Notifications are always scoped to the signed-in principal.
func (s *Server) ListNotifications(c *gin.Context) {
	principal, _ := principalFrom(c)
	c.JSON(http.StatusOK, gin.H{"data": s.store.ListNotifications(principal.ID)})
}

func (s *Server) UnreadNotificationCount(c *gin.Context) {
	principal, _ := principalFrom(c)
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"count": s.store.UnreadNotificationCount(principal.ID)}})
}

func (s *Server) CreateNotification(c *gin.Context) {
	var req domain.CreateNotificationInput
	if !bindJSON(c, &req) {
		return
	}
	notification, err := s.store.CreateNotification(c.Request.Context(), req)
	respondCreated(c, notification, err)
}

func (s *Server) MarkNotificationAsRead(c *gin.Context) {
	respondNoContent(c, s.store.MarkNotificationAsRead(c.Request.Context(), pathID(c, "id")))
}

func (s *Server) MarkAllNotificationsAsRead(c *gin.Context) {
	respondNoContent(c, s.store.MarkAllNotificationsAsRead(c.Request.Context()))
}

func (s *Server) DeleteNotification(c *gin.Context) {
	respondNoContent(c, s.store.DeleteNotification(c.Request.Context(), pathID(c, "id")))
}
