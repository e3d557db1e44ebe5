package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
)

func (s *Server) ListOvertimeRequests(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.store.ListOvertimeRequests()})
}

func (s *Server) GetOvertimeRequest(c *gin.Context) {
	req, ok := s.store.GetOvertimeRequest(pathID(c, "id"))
	respondFound(c, req, ok)
}

func (s *Server) CreateOvertimeRequest(c *gin.Context) {
	var req domain.CreateOvertimeInput
	if !bindJSON(c, &req) {
		return
	}
	created, err := s.store.CreateOvertimeRequest(c.Request.Context(), req)
	respondCreated(c, created, err)
}

func (s *Server) UpdateOvertimeRequest(c *gin.Context) {
	var req domain.OvertimePatch
	if !bindJSON(c, &req) {
		return
	}
	id := pathID(c, "id")
	err := s.store.UpdateOvertimeRequest(c.Request.Context(), id, req)
	respondUpdated(c, err, func() (domain.OvertimeRequest, bool) { return s.store.GetOvertimeRequest(id) })
}

func (s *Server) DeleteOvertimeRequest(c *gin.Context) {
	respondNoContent(c, s.store.DeleteOvertimeRequest(c.Request.Context(), pathID(c, "id")))
}

func (s *Server) ListWorkLogs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.store.ListWorkLogs()})
}

func (s *Server) GetWorkLog(c *gin.Context) {
	entry, ok := s.store.GetWorkLog(pathID(c, "id"))
	respondFound(c, entry, ok)
}

func (s *Server) CreateWorkLog(c *gin.Context) {
	var req domain.CreateWorkLogInput
	if !bindJSON(c, &req) {
		return
	}
	created, err := s.store.CreateWorkLog(c.Request.Context(), req)
	respondCreated(c, created, err)
}

func (s *Server) UpdateWorkLog(c *gin.Context) {
	var req domain.WorkLogPatch
	if !bindJSON(c, &req) {
		return
	}
	id := pathID(c, "id")
	err := s.store.UpdateWorkLog(c.Request.Context(), id, req)
	respondUpdated(c, err, func() (domain.WorkLogEntry, bool) { return s.store.GetWorkLog(id) })
}

func (s *Server) DeleteWorkLog(c *gin.Context) {
	respondNoContent(c, s.store.DeleteWorkLog(c.Request.Context(), pathID(c, "id")))
}

func (s *Server) ListLeaveRequests(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.store.ListLeaveRequests()})
}

func (s *Server) GetLeaveRequest(c *gin.Context) {
	req, ok := s.store.GetLeaveRequest(pathID(c, "id"))
	respondFound(c, req, ok)
}

func (s *Server) CreateLeaveRequest(c *gin.Context) {
	var req domain.CreateLeaveInput
	if !bindJSON(c, &req) {
		return
	}
	created, err := s.store.CreateLeaveRequest(c.Request.Context(), req)
	respondCreated(c, created, err)
}

func (s *Server) UpdateLeaveRequest(c *gin.Context) {
	var req domain.LeavePatch
	if !bindJSON(c, &req) {
		return
	}
	id := pathID(c, "id")
	err := s.store.UpdateLeaveRequest(c.Request.Context(), id, req)
	respondUpdated(c, err, func() (domain.LeaveRequest, bool) { return s.store.GetLeaveRequest(id) })
}

func (s *Server) DeleteLeaveRequest(c *gin.Context) {
	respondNoContent(c, s.store.DeleteLeaveRequest(c.Request.Context(), pathID(c, "id")))
}
