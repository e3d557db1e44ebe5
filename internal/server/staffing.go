package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
)

func (s *Server) ListSquads(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.store.ListSquads()})
}

func (s *Server) GetSquad(c *gin.Context) {
	squad, ok := s.store.GetSquad(pathID(c, "id"))
	respondFound(c, squad, ok)
}

func (s *Server) CreateSquad(c *gin.Context) {
	var req domain.CreateSquadInput
	if !bindJSON(c, &req) {
		return
	}
	squad, err := s.store.CreateSquad(c.Request.Context(), req)
	respondCreated(c, squad, err)
}

func (s *Server) UpdateSquad(c *gin.Context) {
	var req domain.SquadPatch
	if !bindJSON(c, &req) {
		return
	}
	id := pathID(c, "id")
	err := s.store.UpdateSquad(c.Request.Context(), id, req)
	respondUpdated(c, err, func() (domain.Squad, bool) { return s.store.GetSquad(id) })
}

func (s *Server) DeleteSquad(c *gin.Context) {
	respondNoContent(c, s.store.DeleteSquad(c.Request.Context(), pathID(c, "id")))
}

func (s *Server) ListProjects(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.store.ListProjects()})
}

func (s *Server) GetProject(c *gin.Context) {
	project, ok := s.store.GetProject(pathID(c, "id"))
	respondFound(c, project, ok)
}

func (s *Server) CreateProject(c *gin.Context) {
	var req domain.CreateProjectInput
	if !bindJSON(c, &req) {
		return
	}
	project, err := s.store.CreateProject(c.Request.Context(), req)
	respondCreated(c, project, err)
}

func (s *Server) UpdateProject(c *gin.Context) {
	var req domain.ProjectPatch
	if !bindJSON(c, &req) {
		return
	}
	id := pathID(c, "id")
	err := s.store.UpdateProject(c.Request.Context(), id, req)
	respondUpdated(c, err, func() (domain.Project, bool) { return s.store.GetProject(id) })
}

func (s *Server) DeleteProject(c *gin.Context) {
	respondNoContent(c, s.store.DeleteProject(c.Request.Context(), pathID(c, "id")))
}

func (s *Server) ListAssignments(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.store.ListAssignments()})
}

func (s *Server) GetAssignment(c *gin.Context) {
	assignment, ok := s.store.GetAssignment(pathID(c, "id"))
	respondFound(c, assignment, ok)
}

func (s *Server) CreateAssignment(c *gin.Context) {
	var req domain.CreateAssignmentInput
	if !bindJSON(c, &req) {
		return
	}
	assignment, err := s.store.CreateAssignment(c.Request.Context(), req)
	respondCreated(c, assignment, err)
}

func (s *Server) UpdateAssignment(c *gin.Context) {
	var req domain.AssignmentPatch
	if !bindJSON(c, &req) {
		return
	}
	id := pathID(c, "id")
	err := s.store.UpdateAssignment(c.Request.Context(), id, req)
	respondUpdated(c, err, func() (domain.Assignment, bool) { return s.store.GetAssignment(id) })
}

func (s *Server) DeleteAssignment(c *gin.Context) {
	respondNoContent(c, s.store.DeleteAssignment(c.Request.Context(), pathID(c, "id")))
}
