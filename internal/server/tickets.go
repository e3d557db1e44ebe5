package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
)

type addCommentRequest struct {
	Content string `json:"content"`
}

func (s *Server) ListTickets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.store.ListTickets()})
}

func (s *Server) GetTicket(c *gin.Context) {
	ticket, ok := s.store.GetTicket(pathID(c, "id"))
	respondFound(c, ticket, ok)
}

func (s *Server) CreateTicket(c *gin.Context) {
	var req domain.CreateTicketInput
	if !bindJSON(c, &req) {
		return
	}
	ticket, err := s.store.CreateTicket(c.Request.Context(), req)
	respondCreated(c, ticket, err)
}

func (s *Server) UpdateTicket(c *gin.Context) {
	var req domain.TicketPatch
	if !bindJSON(c, &req) {
		return
	}
	id := pathID(c, "id")
	err := s.store.UpdateTicket(c.Request.Context(), id, req)
	respondUpdated(c, err, func() (domain.Ticket, bool) { return s.store.GetTicket(id) })
}

func (s *Server) DeleteTicket(c *gin.Context) {
	respondNoContent(c, s.store.DeleteTicket(c.Request.Context(), pathID(c, "id")))
}

func (s *Server) AddComment(c *gin.Context) {
	var req addCommentRequest
	if !bindJSON(c, &req) {
		return
	}
	id := pathID(c, "id")
	err := s.store.AddComment(c.Request.Context(), id, req.Content)
	respondUpdated(c, err, func() (domain.Ticket, bool) { return s.store.GetTicket(id) })
}
