package server

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
	"github.com/smallbiznis/helpdesk/internal/notify"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	IsAuthenticated  bool         `json:"is_authenticated"`
	CurrentPrincipal *domain.User `json:"current_principal"`
}

func (s *Server) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if s.limiter != nil {
		if res := s.limiter.Allow(c.Request.Context(), email); !res.Allowed {
			if res.RetryAfter > 0 {
				c.Header("Retry-After", strconv.Itoa(int(math.Ceil(res.RetryAfter.Seconds()))))
			}
			AbortWithError(c, ErrTooManyRequests)
			return
		}
	}

	// A fresh sign-in supersedes any redirect left by an earlier 401.
	if s.redirects != nil {
		s.redirects.Take()
	}

	user, err := s.store.Login(c.Request.Context(), email, req.Password)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": user})
}

func (s *Server) Logout(c *gin.Context) {
	if err := s.store.Logout(c.Request.Context()); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) GetSession(c *gin.Context) {
	resp := sessionResponse{IsAuthenticated: s.store.IsAuthenticated()}
	if principal, ok := s.store.CurrentPrincipal(); ok {
		resp.CurrentPrincipal = &principal
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.store.Snapshot()})
}

// DrainToasts hands pending toasts to the client exactly once.
func (s *Server) DrainToasts(c *gin.Context) {
	toasts := []notify.Toast{}
	if s.toasts != nil {
		toasts = append(toasts, s.toasts.Drain()...)
	}
	c.JSON(http.StatusOK, gin.H{"data": toasts})
}
