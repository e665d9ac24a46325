package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"petbroker/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// Server wraps the HTTP transport for the broker
type Server struct {
	httpServer *http.Server
}

// NewServer builds the router and wires the handler's routes
func NewServer(cfg *config.Config, handler *Handler) *Server {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	return &Server{
		httpServer: &http.Server{
			Addr:    cfg.ListenAddr,
			Handler: newRouter(cfg, handler),
		},
	}
}

func newRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "X-Requested-With", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api")
	{
		api.GET("/health", handler.Health)
		api.GET("/verify-user", handler.VerifyUser)
		api.GET("/user-balance/:username", handler.GetBalance)
		api.GET("/user-available-pets/:username", handler.GetAvailablePets)
		api.POST("/deposit", handler.Deposit)
		api.POST("/withdraw", handler.Withdraw)
		api.GET("/get-pending-requests", handler.GetPendingRequests)
		api.POST("/complete-deposit", handler.CompleteDeposit)
		api.POST("/complete-withdraw", handler.CompleteWithdraw)
		api.GET("/trade-history", handler.GetTradeHistory)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

// Start serves HTTP until Shutdown is called
func (s *Server) Start() error {
	log.WithField("addr", s.httpServer.Addr).Info("HTTP server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
