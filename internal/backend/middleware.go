package backend

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/helpdesk/internal/authorization"
	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
	obscontext "github.com/smallbiznis/helpdesk/internal/observability/context"
)

const contextClaimsKey = "claims"

// AuthRequired accepts a bearer token issued by TokenIssuer.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			abortWithError(c, ErrUnauthorized)
			return
		}

		claims, err := s.tokens.Parse(strings.TrimSpace(token))
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set(contextClaimsKey, claims)
		c.Request = c.Request.WithContext(obscontext.WithActor(c.Request.Context(), claims.Subject, claims.Role))
		c.Next()
	}
}

func claimsFrom(c *gin.Context) *Claims {
	if v, ok := c.Get(contextClaimsKey); ok {
		if claims, ok := v.(*Claims); ok {
			return claims
		}
	}
	return nil
}

// authorizeResource checks the role on the collection named by :kind. PUT
// also passes for roles that may only comment on or approve a record, since
// the console replicates those changes as whole-record updates. Any
// signed-in caller may create notifications.
func (s *Server) authorizeResource() gin.HandlerFunc {
	return func(c *gin.Context) {
		kind, err := parseKind(c.Param("kind"))
		if err != nil {
			abortWithError(c, err)
			return
		}
		claims := claimsFrom(c)
		if claims == nil {
			abortWithError(c, ErrUnauthorized)
			return
		}

		if kind == domain.KindNotification && c.Request.Method == http.MethodPost {
			c.Next()
			return
		}

		role := domain.Role(claims.Role)
		object := authorization.ObjectForKind(kind)
		var actions []string
		switch c.Request.Method {
		case http.MethodGet:
			actions = []string{authorization.ActionView}
		case http.MethodPost:
			actions = []string{authorization.ActionCreate}
		case http.MethodPut:
			actions = []string{authorization.ActionUpdate, authorization.ActionComment, authorization.ActionApprove}
		case http.MethodDelete:
			actions = []string{authorization.ActionDelete}
		}

		for _, action := range actions {
			if err := s.authz.Authorize(c.Request.Context(), role, object, action); err == nil {
				c.Next()
				return
			}
		}
		abortWithError(c, ErrForbidden)
	}
}

func (s *Server) authorize(object, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFrom(c)
		if claims == nil {
			abortWithError(c, ErrUnauthorized)
			return
		}
		if err := s.authz.Authorize(c.Request.Context(), domain.Role(claims.Role), object, action); err != nil {
			abortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}
