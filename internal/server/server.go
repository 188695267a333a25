package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/qline-io/qline/internal/auth"
	authdomain "github.com/qline-io/qline/internal/auth/domain"
	"github.com/qline-io/qline/internal/config"
	"github.com/qline-io/qline/internal/entry"
	entrydomain "github.com/qline-io/qline/internal/entry/domain"
	"github.com/qline-io/qline/internal/integration"
	"github.com/qline-io/qline/internal/integration/converter"
	integrationdomain "github.com/qline-io/qline/internal/integration/domain"
	"github.com/qline-io/qline/internal/journal"
	journaldomain "github.com/qline-io/qline/internal/journal/domain"
	"github.com/qline-io/qline/internal/observability"
	obslogger "github.com/qline-io/qline/internal/observability/logger"
	obsmetrics "github.com/qline-io/qline/internal/observability/metrics"
	"github.com/qline-io/qline/internal/organization"
	organizationdomain "github.com/qline-io/qline/internal/organization/domain"
	"github.com/qline-io/qline/internal/providers/email"
	"github.com/qline-io/qline/internal/queue"
	queuedomain "github.com/qline-io/qline/internal/queue/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	auth.Module,
	email.Module,
	organization.Module,
	queue.Module,
	entry.Module,
	journal.Module,
	integration.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(log, obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "Accept"},
		AllowCredentials: false,
	}))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
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
	engine          *gin.Engine
	cfg             config.Config
	db              *gorm.DB
	log             *zap.Logger
	authsvc         authdomain.Service
	organizationSvc organizationdomain.Service
	queueSvc        queuedomain.Service
	entrySvc        entrydomain.Service
	journalSvc      journaldomain.Service
	integrationSvc  integrationdomain.Service
	registry        *converter.Registry
}

type ServerParams struct {
	fx.In

	Engine          *gin.Engine
	Cfg             config.Config
	DB              *gorm.DB
	Log             *zap.Logger
	AuthSvc         authdomain.Service
	OrganizationSvc organizationdomain.Service
	QueueSvc        queuedomain.Service
	EntrySvc        entrydomain.Service
	JournalSvc      journaldomain.Service
	IntegrationSvc  integrationdomain.Service
	Registry        *converter.Registry
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:          p.Engine,
		cfg:             p.Cfg,
		db:              p.DB,
		log:             p.Log.Named("http.server"),
		authsvc:         p.AuthSvc,
		organizationSvc: p.OrganizationSvc,
		queueSvc:        p.QueueSvc,
		entrySvc:        p.EntrySvc,
		journalSvc:      p.JournalSvc,
		integrationSvc:  p.IntegrationSvc,
		registry:        p.Registry,
	}
}

func registerRoutes(s *Server) {
	r := s.engine

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", s.Register)
		authGroup.POST("/login", s.Login)
		authGroup.POST("/password-reset", s.RequestPasswordReset)
		authGroup.POST("/password-reset/confirm", s.ConfirmPasswordReset)
	}

	entries := r.Group("/entries", s.AuthRequired())
	{
		entries.POST("", s.CreateEntry)
		entries.GET("", s.ListEntries)
		entries.GET("/:id", s.GetEntry)
		entries.PATCH("/:id", s.UpdateEntry)
		entries.PATCH("/:id/status", s.UpdateEntryStatus)
		entries.DELETE("/:id", s.DeleteEntry)
		entries.GET("/:id/journal", s.GetEntryJournal)
	}

	queues := r.Group("/queues", s.AuthRequired())
	{
		queues.POST("", s.CreateQueue)
		queues.GET("", s.ListQueues)
		queues.GET("/:id", s.GetQueue)
		queues.DELETE("/:id", s.DeleteQueue)
		queues.GET("/:id/entries", s.ListQueueEntries)
		queues.GET("/:id/next", s.GetNextEntry)
		queues.GET("/:id/position/:entryId", s.GetEntryPosition)
		queues.POST("/:id/admins", s.AddQueueAdmin)
		queues.GET("/:id/admins", s.ListQueueAdmins)
		queues.DELETE("/:id/admins/:userId", s.RemoveQueueAdmin)
	}

	organizations := r.Group("/organizations", s.AuthRequired())
	{
		organizations.POST("", s.CreateOrganization)
		organizations.GET("", s.ListOrganizations)
		organizations.GET("/:id", s.GetOrganization)
		organizations.DELETE("/:id", s.DeleteOrganization)
	}

	r.POST("/integrate/process", s.ProcessIntegration)
}
