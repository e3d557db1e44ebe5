package backend

import (
	"encoding/json"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/helpdesk/internal/authorization"
	"github.com/smallbiznis/helpdesk/internal/observability"
	obslogger "github.com/smallbiznis/helpdesk/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/helpdesk/internal/observability/metrics"
	obstracing "github.com/smallbiznis/helpdesk/internal/observability/tracing"
	"github.com/smallbiznis/helpdesk/internal/ratelimit"
	"github.com/smallbiznis/helpdesk/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// maxRecordBody bounds a single JSON document.
const maxRecordBody = 4 << 20

type ServerParams struct {
	fx.In

	Log       *zap.Logger
	ObsCfg    observability.Config
	Accounts  *AccountService
	Resources *ResourceService
	Uploads   *UploadService
	Tokens    *TokenIssuer
	Authz     authorization.Service
	Limiter   *ratelimit.LoginLimiter
	Metrics   *obsmetrics.Metrics  `optional:"true"`
	Registry  *prometheus.Registry `optional:"true"`
}

// Server is the persistence API the console's gateway talks to.
type Server struct {
	engine    *gin.Engine
	log       *zap.Logger
	accounts  *AccountService
	resources *ResourceService
	uploads   *UploadService
	tokens    *TokenIssuer
	authz     authorization.Service
	limiter   *ratelimit.LoginLimiter
}

func NewServer(p ServerParams) *Server {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           p.ObsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware("backend"))
	r.Use(obsmetrics.GinMiddleware(p.Metrics))
	r.Use(ErrorHandlingMiddleware())

	s := &Server{
		engine:    r,
		log:       p.Log.Named("backend.http"),
		accounts:  p.Accounts,
		resources: p.Resources,
		uploads:   p.Uploads,
		tokens:    p.Tokens,
		authz:     p.Authz,
		limiter:   p.Limiter,
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	// The gorm plugin reports pool stats on the default registry.
	gatherers := prometheus.Gatherers{prometheus.DefaultGatherer}
	if p.Registry != nil {
		gatherers = append(gatherers, p.Registry)
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})))

	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerRoutes() {
	r := s.engine

	r.POST("/api/auth/login", s.Login)
	r.PUT("/uploads/:fileId", s.StoreUpload)

	api := r.Group("/api", s.AuthRequired())
	api.GET("/auth/me", s.Me)
	api.POST("/uploads/presign", s.authorize(authorization.ObjectUpload, authorization.ActionCreate), s.PresignUpload)

	resources := api.Group("/:kind", s.authorizeResource())
	resources.GET("", s.ListResources)
	resources.POST("", s.CreateResource)
	resources.GET("/:id", s.GetResource)
	resources.PUT("/:id", s.UpdateResource)
	resources.DELETE("/:id", s.DeleteResource)
}

func (s *Server) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, ErrInvalidCredentials)
		return
	}

	if res := s.limiter.Allow(c.Request.Context(), normalizeEmail(req.Email)); !res.Allowed {
		if res.RetryAfter > 0 {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(res.RetryAfter.Seconds()))))
		}
		abortWithError(c, ErrTooManyRequests)
		return
	}

	resp, err := s.accounts.Login(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) Me(c *gin.Context) {
	claims := claimsFrom(c)
	user, err := s.accounts.User(c.Request.Context(), claims.Subject)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if !user.Active {
		abortWithError(c, ErrUnauthorized)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": user})
}

func (s *Server) ListResources(c *gin.Context) {
	kind, err := parseKind(c.Param("kind"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		abortWithError(c, ErrInvalidRequest)
		return
	}

	result, err := s.resources.List(c.Request.Context(), kind, page)
	if err != nil {
		abortWithError(c, err)
		return
	}
	body := gin.H{"data": result.Items}
	if result.PageInfo != nil {
		body["page_info"] = result.PageInfo
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) GetResource(c *gin.Context) {
	kind, err := parseKind(c.Param("kind"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	doc, err := s.resources.Get(c.Request.Context(), kind, c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": doc})
}

func (s *Server) CreateResource(c *gin.Context) {
	kind, err := parseKind(c.Param("kind"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	payload, err := readDocument(c)
	if err != nil {
		abortWithError(c, err)
		return
	}
	doc, err := s.resources.Create(c.Request.Context(), kind, payload)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": doc})
}

func (s *Server) UpdateResource(c *gin.Context) {
	kind, err := parseKind(c.Param("kind"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	payload, err := readDocument(c)
	if err != nil {
		abortWithError(c, err)
		return
	}
	doc, err := s.resources.Update(c.Request.Context(), kind, c.Param("id"), payload)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": doc})
}

func (s *Server) DeleteResource(c *gin.Context) {
	kind, err := parseKind(c.Param("kind"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if err := s.resources.Delete(c.Request.Context(), kind, c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) PresignUpload(c *gin.Context) {
	var req PresignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, ErrInvalidRequest)
		return
	}
	resp, err := s.uploads.Presign(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// StoreUpload is authorised by the URL signature rather than a bearer token.
func (s *Server) StoreUpload(c *gin.Context) {
	upload, err := s.uploads.Store(
		c.Request.Context(),
		c.Param("fileId"),
		c.Query("expires"),
		c.Query("signature"),
		c.Request.Body,
	)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"fileId":     upload.ID,
		"name":       upload.Name,
		"size":       upload.Size,
		"parentKind": upload.ParentKind,
		"parentId":   upload.ParentID,
	}})
}

func readDocument(c *gin.Context) (json.RawMessage, error) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxRecordBody+1))
	if err != nil {
		return nil, err
	}
	if len(raw) > maxRecordBody {
		return nil, ErrInvalidRequest
	}
	raw = []byte(strings.TrimSpace(string(raw)))
	if len(raw) == 0 || raw[0] != '{' {
		return nil, ErrInvalidRequest
	}
	return json.RawMessage(raw), nil
}
