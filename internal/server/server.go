package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/eltrackr/internal/config"
	"github.com/smallbiznis/eltrackr/internal/observability"
	obsmiddleware "github.com/smallbiznis/eltrackr/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/eltrackr/internal/observability/metrics"
	obstracing "github.com/smallbiznis/eltrackr/internal/observability/tracing"
	"github.com/smallbiznis/eltrackr/internal/report"
	submissiondomain "github.com/smallbiznis/eltrackr/internal/submission/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const healthTimeout = 2 * time.Second

var Module = fx.Module("http.server",
	report.Module,
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())
	r.SetHTMLTemplate(mustParseTemplates())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, shutdowner fx.Shutdowner, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	log = log.Named("http")
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("http server listening", zap.String("addr", ln.Addr().String()))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
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
	engine        *gin.Engine
	cfg           config.Config
	log           *zap.Logger
	submissionSvc submissiondomain.Service
	reports       report.Renderer
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	Log           *zap.Logger
	SubmissionSvc submissiondomain.Service
	Reports       report.Renderer `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	reports := p.Reports
	if reports == nil {
		reports = report.New()
	}

	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		log:           p.Log.Named("http.server"),
		submissionSvc: p.SubmissionSvc,
		reports:       reports,
	}

	svc.registerHealthRoutes()
	svc.registerUIRoutes()
	svc.registerAPIRoutes()
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerHealthRoutes() {
	s.engine.GET("/health", s.Health)
}

func (s *Server) registerUIRoutes() {
	s.engine.GET("/", s.IndexPage)
	s.engine.GET("/create", s.CreatePage)
	s.engine.POST("/create", s.CreateSubmit)
	s.engine.GET("/edit/:id", s.EditPage)
	s.engine.POST("/edit/:id", s.EditSubmit)
	s.engine.GET("/delete/:id", s.DeleteSubmission)
	s.engine.GET("/view/:id", s.ViewPage)
	s.engine.GET("/view/:id/report.pdf", s.DownloadReport)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	api.GET("/submissions", s.ListSubmissions)
	api.POST("/submissions", s.CreateSubmission)
	api.GET("/submissions/:id", s.GetSubmission)
	api.PUT("/submissions/:id", s.UpdateSubmission)
	api.DELETE("/submissions/:id", s.DeleteSubmissionAPI)
	api.GET("/summary", s.GetSummary)
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})
}

// Health reports liveness and whether the record store answers a ping.
func (s *Server) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := s.submissionSvc.Ping(ctx); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "store": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "store": "ok"})
}
