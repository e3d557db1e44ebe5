package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
)

func (s *Server) ListUsers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.store.ListUsers()})
}

func (s *Server) GetUser(c *gin.Context) {
	user, ok := s.store.GetUser(pathID(c, "id"))
	respondFound(c, user, ok)
}

func (s *Server) CreateUser(c *gin.Context) {
	var req domain.CreateUserInput
	if !bindJSON(c, &req) {
		return
	}
	user, err := s.store.CreateUser(c.Request.Context(), req)
	respondCreated(c, user, err)
}

func (s *Server) UpdateUser(c *gin.Context) {
	var req domain.UserPatch
	if !bindJSON(c, &req) {
		return
	}
	id := pathID(c, "id")
	err := s.store.UpdateUser(c.Request.Context(), id, req)
	respondUpdated(c, err, func() (domain.User, bool) { return s.store.GetUser(id) })
}

func (s *Server) DeleteUser(c *gin.Context) {
	respondNoContent(c, s.store.DeleteUser(c.Request.Context(), pathID(c, "id")))
}
