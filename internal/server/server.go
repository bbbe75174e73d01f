package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/ejjsharpe/cook-club-sub004/config"
	"github.com/ejjsharpe/cook-club-sub004/internal/api"
	"github.com/ejjsharpe/cook-club-sub004/internal/middleware"
	"github.com/ejjsharpe/cook-club-sub004/internal/service"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	redis  *redis.Client
	db     *gorm.DB
}

// New creates a server for the parser service. db may be nil when the parse
// history store is not configured.
func New(cfg *config.Config, parser *service.ParserService, redisClient *redis.Client, db *gorm.DB) *Server {
	router := gin.Default()
	router.Use(middleware.CORS())

	s := &Server{
		router: router,
		redis:  redisClient,
		db:     db,
		http: &http.Server{
			Addr:    cfg.ServerHost + ":" + cfg.ServerPort,
			Handler: router,
		},
	}

	var rateLimit gin.HandlerFunc
	if redisClient != nil {
		rateLimit = middleware.NewParseRateLimiter(redisClient).Middleware()
	}

	handler := api.NewParseHandler(parser)
	handler.RegisterRoutes(router, rateLimit, !config.IsProduction())

	router.GET("/health", s.health)

	return s
}

// Start begins serving and blocks until the server stops.
func (s *Server) Start() error {
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := gin.H{"status": "ok"}

	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			checks["redis"] = "ok"
		}
	}

	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			checks["database"] = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			checks["database"] = "ok"
		}
	}

	if status != http.StatusOK {
		checks["status"] = "degraded"
	}
	c.JSON(status, checks)
}
