package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
)

func parseOptionalDate(value string) (domain.Date, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	return domain.ParseDate(trimmed)
}

func pathID(c *gin.Context, name string) string {
	return strings.TrimSpace(c.Param(name))
}

// respondFound writes v, or 404 when the lookup missed.
func respondFound[T any](c *gin.Context, v T, ok bool) {
	if !ok {
		AbortWithError(c, ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": v})
}

func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		AbortWithError(c, invalidRequestError())
		return false
	}
	return true
}

func respondCreated[T any](c *gin.Context, v T, err error) {
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": v})
}

// respondUpdated re-reads the record after a write. Writes against unknown
// ids are silent no-ops in the store and answer 204.
func respondUpdated[T any](c *gin.Context, err error, get func() (T, bool)) {
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if v, ok := get(); ok {
		c.JSON(http.StatusOK, gin.H{"data": v})
		return
	}
	c.Status(http.StatusNoContent)
}

func respondNoContent(c *gin.Context, err error) {
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
