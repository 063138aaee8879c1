package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/janhq/searxng-tools/internal/infrastructure/auth"
	"github.com/janhq/searxng-tools/internal/infrastructure/config"
	"github.com/janhq/searxng-tools/internal/interfaces/httpserver/middlewares"
	"github.com/janhq/searxng-tools/internal/interfaces/httpserver/routes/api"
	"github.com/janhq/searxng-tools/internal/interfaces/httpserver/routes/mcp"
)

const serviceName = "searxng-tools"

type HTTPServer struct {
	router        *gin.Engine
	config        *config.Config
	authValidator *auth.Validator
	mcpRoute      *mcp.MCPRoute
	searchRoute   *api.SearchRoute
}

func NewHTTPServer(
	cfg *config.Config,
	authValidator *auth.Validator,
	mcpRoute *mcp.MCPRoute,
	searchRoute *api.SearchRoute,
) *HTTPServer {
	router := gin.New()
	router.Use(middlewares.RequestID())
	router.Use(middlewares.Recovery())
	router.Use(middlewares.RequestLogger())
	router.Use(middlewares.CORS())
	router.Use(middlewares.MetricsRecorder())

	server := &HTTPServer{
		router:        router,
		config:        cfg,
		authValidator: authValidator,
		mcpRoute:      mcpRoute,
		searchRoute:   searchRoute,
	}
	server.setupRoutes()
	return server
}

func (s *HTTPServer) setupRoutes() {
	// Health check endpoints
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": serviceName})
	})

	s.router.GET("/readyz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready", "service": serviceName})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.searchRoute.RegisterPublicRouter(s.router)

	// Tool endpoints require a bearer token when auth is enabled
	protected := s.router.Group("/", s.authValidator.Middleware())
	s.searchRoute.RegisterRouter(protected)

	// Register MCP routes
	v1 := s.router.Group("/v1", s.authValidator.Middleware())
	s.mcpRoute.RegisterRouter(v1)
}

// Handler exposes the router, mainly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", s.config.HTTPPort),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("address", srv.Addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
