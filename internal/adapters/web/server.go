// Package web serves the marketing pages, the Tool page and the JSON analysis API.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mikey/legitim/internal/config"
	"github.com/mikey/legitim/internal/site"
	"github.com/mikey/legitim/internal/tool"
	"go.uber.org/zap"
)

// bodyLimit caps request bodies ahead of the analysis size check
const bodyLimit = "2M"

// Server is the HTTP front end
type Server struct {
	echo     *echo.Echo
	analyzer tool.Analyzer
	forms    *tool.Registry
	content  *site.Content
	logger   *zap.Logger
	cfg      config.ServerConfig
	refresh  time.Duration
	now      func() time.Time
}

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// NewServer wires routes and middleware onto a new echo instance
func NewServer(
	analyzer tool.Analyzer,
	forms *tool.Registry,
	content *site.Content,
	logger *zap.Logger,
	cfg config.ServerConfig,
	toolCfg config.ToolConfig,
) (*Server, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.Validator = &requestValidator{validate: validator.New()}
	e.Server.ReadTimeout = cfg.ReadTimeout
	e.Server.WriteTimeout = cfg.WriteTimeout

	s := &Server{
		echo:     e,
		analyzer: analyzer,
		forms:    forms,
		content:  content,
		logger:   logger,
		cfg:      cfg,
		refresh:  toolCfg.RefreshInterval,
		now:      time.Now,
	}
	e.HTTPErrorHandler = s.handleError

	// Middleware
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: newRequestID,
	}))
	e.Use(requestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(bodyLimit))

	// Routes
	e.GET("/", s.home)
	e.GET("/pricing", s.pricing)
	e.GET("/tool", s.toolPage)
	e.POST("/tool", s.submitTool)
	e.GET("/health", s.healthCheck)
	e.POST("/api/v1/analyze", s.analyze)
	e.StaticFS("/static", staticFiles())

	return s, nil
}

// Name identifies the intake in logs
func (s *Server) Name() string {
	return "web"
}

// ServeHTTP lets the server be driven directly, as tests do
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start begins listening in the background
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", zap.String("address", s.cfg.ListenAddress))

	go func() {
		if err := s.echo.Start(s.cfg.ListenAddress); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server stopped", zap.Error(err))
		}
	}()

	return nil
}

// Stop shuts the server down, letting in-flight requests finish
func (s *Server) Stop() error {
	s.logger.Info("Shutting down HTTP server")

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return s.echo.Shutdown(ctx)
}

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "legitim",
	})
}
