package server

import (
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
	obscontext "github.com/smallbiznis/helpdesk/internal/observability/context"
	"github.com/smallbiznis/helpdesk/internal/observability/logger"
	"go.uber.org/zap"
)

const contextPrincipalKey = "principal"

// AuthRequired admits requests only while the store has a principal. A
// redirect left behind by the gateway after a 401 ends the session first.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if s.redirects != nil {
			if path, ok := s.redirects.Take(); ok {
				if err := s.store.Logout(ctx); err != nil {
					logger.WithContext(ctx, s.log).Warn("logout after session expiry failed", zap.Error(err))
				}
				AbortWithError(c, &SessionExpiredError{Redirect: path})
				return
			}
		}

		principal, ok := s.store.CurrentPrincipal()
		if !ok || !s.store.IsAuthenticated() {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		c.Set(contextPrincipalKey, principal)
		c.Request = c.Request.WithContext(obscontext.WithActor(ctx, principal.ID, string(principal.Role)))
		c.Next()
	}
}

// RequirePermission checks the principal's role against the casbin policy.
func (s *Server) RequirePermission(object, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := principalFrom(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if s.authz == nil {
			c.Next()
			return
		}
		if err := s.authz.Authorize(c.Request.Context(), principal.Role, object, action); err != nil {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

func principalFrom(c *gin.Context) (domain.User, bool) {
	v, ok := c.Get(contextPrincipalKey)
	if !ok {
		return domain.User{}, false
	}
	principal, ok := v.(domain.User)
	return principal, ok
}
