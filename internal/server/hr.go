package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
)

func (s *Server) ListReviews(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.store.ListReviews()})
}

func (s *Server) GetReview(c *gin.Context) {
	review, ok := s.store.GetReview(pathID(c, "id"))
	respondFound(c, review, ok)
}

func (s *Server) CreateReview(c *gin.Context) {
	var req domain.CreateReviewInput
	if !bindJSON(c, &req) {
		return
	}
	review, err := s.store.CreateReview(c.Request.Context(), req)
	respondCreated(c, review, err)
}

func (s *Server) UpdateReview(c *gin.Context) {
	var req domain.ReviewPatch
	if !bindJSON(c, &req) {
		return
	}
	id := pathID(c, "id")
	err := s.store.UpdateReview(c.Request.Context(), id, req)
	respondUpdated(c, err, func() (domain.OutsourceReview, bool) { return s.store.GetReview(id) })
}

func (s *Server) DeleteReview(c *gin.Context) {
	respondNoContent(c, s.store.DeleteReview(c.Request.Context(), pathID(c, "id")))
}

func (s *Server) ListEnvironmentSetups(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.store.ListEnvironmentSetups()})
}

func (s *Server) GetEnvironmentSetup(c *gin.Context) {
	setup, ok := s.store.GetEnvironmentSetup(pathID(c, "id"))
	respondFound(c, setup, ok)
}

func (s *Server) CreateEnvironmentSetup(c *gin.Context) {
	var req domain.CreateEnvironmentSetupInput
	if !bindJSON(c, &req) {
		return
	}
	setup, err := s.store.CreateEnvironmentSetup(c.Request.Context(), req)
	respondCreated(c, setup, err)
}

// ReplaceEnvironmentSetup takes the whole record; the path id wins over the body.
func (s *Server) ReplaceEnvironmentSetup(c *gin.Context) {
	var req domain.EnvironmentSetup
	if !bindJSON(c, &req) {
		return
	}
	req.ID = pathID(c, "id")
	err := s.store.UpdateEnvironmentSetup(c.Request.Context(), req)
	respondUpdated(c, err, func() (domain.EnvironmentSetup, bool) { return s.store.GetEnvironmentSetup(req.ID) })
}

func (s *Server) UpdateEnvironmentSetupItem(c *gin.Context) {
	var req domain.SetupItemPatch
	if !bindJSON(c, &req) {
		return
	}
	id := pathID(c, "id")
	err := s.store.UpdateEnvironmentSetupItem(c.Request.Context(), id, pathID(c, "itemId"), req)
	respondUpdated(c, err, func() (domain.EnvironmentSetup, bool) { return s.store.GetEnvironmentSetup(id) })
}

func (s *Server) DeleteEnvironmentSetup(c *gin.Context) {
	respondNoContent(c, s.store.DeleteEnvironmentSetup(c.Request.Context(), pathID(c, "id")))
}

func (s *Server) ListContracts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.store.ListContracts()})
}

func (s *Server) GetContract(c *gin.Context) {
	contract, ok := s.store.GetContract(pathID(c, "id"))
	respondFound(c, contract, ok)
}

func (s *Server) CreateContract(c *gin.Context) {
	var req domain.CreateContractInput
	if !bindJSON(c, &req) {
		return
	}
	contract, err := s.store.CreateContract(c.Request.Context(), req)
	respondCreated(c, contract, err)
}

func (s *Server) UpdateContract(c *gin.Context) {
	var req domain.ContractPatch
	if !bindJSON(c, &req) {
		return
	}
	id := pathID(c, "id")
	err := s.store.UpdateContract(c.Request.Context(), id, req)
	respondUpdated(c, err, func() (domain.Contract, bool) { return s.store.GetContract(id) })
}

func (s *Server) DeleteContract(c *gin.Context) {
	respondNoContent(c, s.store.DeleteContract(c.Request.Context(), pathID(c, "id")))
}
