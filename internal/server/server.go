package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/helpdesk/internal/authorization"
	"github.com/smallbiznis/helpdesk/internal/config"
	"github.com/smallbiznis/helpdesk/internal/gateway"
	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
	"github.com/smallbiznis/helpdesk/internal/notify"
	"github.com/smallbiznis/helpdesk/internal/observability"
	obsmiddleware "github.com/smallbiznis/helpdesk/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/helpdesk/internal/observability/metrics"
	obstracing "github.com/smallbiznis/helpdesk/internal/observability/tracing"
	"github.com/smallbiznis/helpdesk/internal/providers/pdf"
	"github.com/smallbiznis/helpdesk/internal/ratelimit"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Provide(NewServer),
	fx.Invoke(run),
)

type engineParams struct {
	fx.In

	ObsCfg   observability.Config
	Metrics  *obsmetrics.Metrics  `optional:"true"`
	Registry *prometheus.Registry `optional:"true"`
}

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.Metrics, reg *prometheus.Registry) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware("console"))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	handler := promhttp.Handler()
	if reg != nil {
		handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	}
	r.GET("/metrics", gin.WrapH(handler))

	return r
}

func registerGin(p engineParams) *gin.Engine {
	return NewEngine(p.ObsCfg, p.Metrics, p.Registry)
}

func run(lc fx.Lifecycle, cfg config.Config, s *Server, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.ConsoleAddr,
		Handler:           s.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("console server stopped", zap.Error(err))
				}
			}()
			log.Info("console listening", zap.String("addr", cfg.ConsoleAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine    *gin.Engine
	cfg       config.Config
	log       *zap.Logger
	store     domain.Service
	authz     authorization.Service
	toasts    *notify.Recorder
	redirects *gateway.RedirectRecorder
	uploader  *gateway.Uploader
	pdf       pdf.Provider
	limiter   *ratelimit.LoginLimiter
}

type ServerParams struct {
	fx.In

	Gin       *gin.Engine
	Cfg       config.Config
	Log       *zap.Logger
	Store     domain.Service
	Authz     authorization.Service     `optional:"true"`
	Toasts    *notify.Recorder          `optional:"true"`
	Redirects *gateway.RedirectRecorder `optional:"true"`
	Uploader  *gateway.Uploader         `optional:"true"`
	PDF       pdf.Provider              `optional:"true"`
	Limiter   *ratelimit.LoginLimiter   `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:    p.Gin,
		cfg:       p.Cfg,
		log:       p.Log.Named("http.server"),
		store:     p.Store,
		authz:     p.Authz,
		toasts:    p.Toasts,
		redirects: p.Redirects,
		uploader:  p.Uploader,
		pdf:       p.PDF,
		limiter:   p.Limiter,
	}

	svc.registerSessionRoutes()
	svc.registerAPIRoutes()
	if !p.Cfg.IsProduction() {
		svc.engine.POST("/internal/test/reload", svc.ReloadState)
	}
	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerSessionRoutes() {
	session := s.engine.Group("/api/session")
	session.POST("/login", s.Login)
	session.POST("/logout", s.Logout)
	session.GET("", s.GetSession)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.AuthRequired())
	can := s.RequirePermission

	api.GET("/state", s.GetState)
	api.GET("/toasts", s.DrainToasts)

	users := api.Group("/users")
	users.GET("", can(authorization.ObjectUser, authorization.ActionView), s.ListUsers)
	users.POST("", can(authorization.ObjectUser, authorization.ActionCreate), s.CreateUser)
	users.GET("/:id", can(authorization.ObjectUser, authorization.ActionView), s.GetUser)
	users.PATCH("/:id", can(authorization.ObjectUser, authorization.ActionUpdate), s.UpdateUser)
	users.DELETE("/:id", can(authorization.ObjectUser, authorization.ActionDelete), s.DeleteUser)

	tickets := api.Group("/tickets")
	tickets.GET("", can(authorization.ObjectTicket, authorization.ActionView), s.ListTickets)
	tickets.POST("", can(authorization.ObjectTicket, authorization.ActionCreate), s.CreateTicket)
	tickets.GET("/:id", can(authorization.ObjectTicket, authorization.ActionView), s.GetTicket)
	tickets.PATCH("/:id", can(authorization.ObjectTicket, authorization.ActionUpdate), s.UpdateTicket)
	tickets.DELETE("/:id", can(authorization.ObjectTicket, authorization.ActionDelete), s.DeleteTicket)
	tickets.POST("/:id/comments", can(authorization.ObjectTicket, authorization.ActionComment), s.AddComment)
	tickets.POST("/:id/attachments", can(authorization.ObjectUpload, authorization.ActionCreate), s.AttachToTicket)

	overtime := api.Group("/overtime-requests")
	overtime.GET("", can(authorization.ObjectOvertime, authorization.ActionView), s.ListOvertimeRequests)
	overtime.POST("", can(authorization.ObjectOvertime, authorization.ActionCreate), s.CreateOvertimeRequest)
	overtime.GET("/:id", can(authorization.ObjectOvertime, authorization.ActionView), s.GetOvertimeRequest)
	overtime.PATCH("/:id", can(authorization.ObjectOvertime, authorization.ActionUpdate), s.UpdateOvertimeRequest)
	overtime.DELETE("/:id", can(authorization.ObjectOvertime, authorization.ActionDelete), s.DeleteOvertimeRequest)

	workLogs := api.Group("/work-logs")
	workLogs.GET("", can(authorization.ObjectWorkLog, authorization.ActionView), s.ListWorkLogs)
	workLogs.POST("", can(authorization.ObjectWorkLog, authorization.ActionCreate), s.CreateWorkLog)
	workLogs.GET("/:id", can(authorization.ObjectWorkLog, authorization.ActionView), s.GetWorkLog)
	workLogs.PATCH("/:id", can(authorization.ObjectWorkLog, authorization.ActionUpdate), s.UpdateWorkLog)
	workLogs.DELETE("/:id", can(authorization.ObjectWorkLog, authorization.ActionDelete), s.DeleteWorkLog)

	leaves := api.Group("/leave-requests")
	leaves.GET("", can(authorization.ObjectLeave, authorization.ActionView), s.ListLeaveRequests)
	leaves.POST("", can(authorization.ObjectLeave, authorization.ActionCreate), s.CreateLeaveRequest)
	leaves.GET("/:id", can(authorization.ObjectLeave, authorization.ActionView), s.GetLeaveRequest)
	leaves.PATCH("/:id", can(authorization.ObjectLeave, authorization.ActionUpdate), s.UpdateLeaveRequest)
	leaves.DELETE("/:id", can(authorization.ObjectLeave, authorization.ActionDelete), s.DeleteLeaveRequest)

	summary := api.Group("/timesheet-summary")
	summary.GET("", can(authorization.ObjectTimesheetSummary, authorization.ActionView), s.GetTimesheetSummary)
	summary.GET("/export", can(authorization.ObjectTimesheetSummary, authorization.ActionExport), s.ExportTimesheet)

	reviews := api.Group("/reviews")
	reviews.GET("", can(authorization.ObjectReview, authorization.ActionView), s.ListReviews)
	reviews.POST("", can(authorization.ObjectReview, authorization.ActionCreate), s.CreateReview)
	reviews.GET("/:id", can(authorization.ObjectReview, authorization.ActionView), s.GetReview)
	reviews.PATCH("/:id", can(authorization.ObjectReview, authorization.ActionUpdate), s.UpdateReview)
	reviews.DELETE("/:id", can(authorization.ObjectReview, authorization.ActionDelete), s.DeleteReview)

	setups := api.Group("/environment-setups")
	setups.GET("", can(authorization.ObjectEnvironmentSetup, authorization.ActionView), s.ListEnvironmentSetups)
	setups.POST("", can(authorization.ObjectEnvironmentSetup, authorization.ActionCreate), s.CreateEnvironmentSetup)
	setups.GET("/:id", can(authorization.ObjectEnvironmentSetup, authorization.ActionView), s.GetEnvironmentSetup)
	setups.PUT("/:id", can(authorization.ObjectEnvironmentSetup, authorization.ActionUpdate), s.ReplaceEnvironmentSetup)
	setups.PATCH("/:id/items/:itemId", can(authorization.ObjectEnvironmentSetup, authorization.ActionUpdate), s.UpdateEnvironmentSetupItem)
	setups.DELETE("/:id", can(authorization.ObjectEnvironmentSetup, authorization.ActionDelete), s.DeleteEnvironmentSetup)

	contracts := api.Group("/contracts")
	contracts.GET("", can(authorization.ObjectContract, authorization.ActionView), s.ListContracts)
	contracts.POST("", can(authorization.ObjectContract, authorization.ActionCreate), s.CreateContract)
	contracts.GET("/:id", can(authorization.ObjectContract, authorization.ActionView), s.GetContract)
	contracts.PATCH("/:id", can(authorization.ObjectContract, authorization.ActionUpdate), s.UpdateContract)
	contracts.DELETE("/:id", can(authorization.ObjectContract, authorization.ActionDelete), s.DeleteContract)
	contracts.POST("/:id/documents", can(authorization.ObjectContract, authorization.ActionUpdate), s.AttachToContract)

	squads := api.Group("/squads")
	squads.GET("", can(authorization.ObjectSquad, authorization.ActionView), s.ListSquads)
	squads.POST("", can(authorization.ObjectSquad, authorization.ActionCreate), s.CreateSquad)
	squads.GET("/:id", can(authorization.ObjectSquad, authorization.ActionView), s.GetSquad)
	squads.PATCH("/:id", can(authorization.ObjectSquad, authorization.ActionUpdate), s.UpdateSquad)
	squads.DELETE("/:id", can(authorization.ObjectSquad, authorization.ActionDelete), s.DeleteSquad)

	projects := api.Group("/projects")
	projects.GET("", can(authorization.ObjectProject, authorization.ActionView), s.ListProjects)
	projects.POST("", can(authorization.ObjectProject, authorization.ActionCreate), s.CreateProject)
	projects.GET("/:id", can(authorization.ObjectProject, authorization.ActionView), s.GetProject)
	projects.PATCH("/:id", can(authorization.ObjectProject, authorization.ActionUpdate), s.UpdateProject)
	projects.DELETE("/:id", can(authorization.ObjectProject, authorization.ActionDelete), s.DeleteProject)

	assignments := api.Group("/assignments")
	assignments.GET("", can(authorization.ObjectAssignment, authorization.ActionView), s.ListAssignments)
	assignments.POST("", can(authorization.ObjectAssignment, authorization.ActionCreate), s.CreateAssignment)
	assignments.GET("/:id", can(authorization.ObjectAssignment, authorization.ActionView), s.GetAssignment)
	assignments.PATCH("/:id", can(authorization.ObjectAssignment, authorization.ActionUpdate), s.UpdateAssignment)
	assignments.DELETE("/:id", can(authorization.ObjectAssignment, authorization.ActionDelete), s.DeleteAssignment)

	notifications := api.Group("/notifications")
	notifications.GET("", can(authorization.ObjectNotification, authorization.ActionView), s.ListNotifications)
	notifications.GET("/unread-count", can(authorization.ObjectNotification, authorization.ActionView), s.UnreadNotificationCount)
	notifications.POST("", can(authorization.ObjectNotification, authorization.ActionCreate), s.CreateNotification)
	notifications.POST("/read-all", can(authorization.ObjectNotification, authorization.ActionUpdate), s.MarkAllNotificationsAsRead)
	notifications.POST("/:id/read", can(authorization.ObjectNotification, authorization.ActionUpdate), s.MarkNotificationAsRead)
	notifications.DELETE("/:id", can(authorization.ObjectNotification, authorization.ActionDelete), s.DeleteNotification)
}
