package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"duel_arena/internal/config"
	"duel_arena/internal/db"
	"duel_arena/internal/duel"
	httpServer "duel_arena/internal/http"
	"duel_arena/internal/http/middleware"
	"duel_arena/internal/logger"
	"duel_arena/internal/repository"
	"duel_arena/internal/service"
	"duel_arena/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var version = "dev"

func main() {
	logger.Init("info", os.Getenv("LOG_JSON") == "true")

	cfg := config.Load()
	service.InitJWT(cfg.JWTSecret)

	dbPool := db.Connect(cfg.DatabaseURL)
	defer dbPool.Close()

	r := gin.Default()

	// CORS for production (frontend on different domain)
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	middleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	hub := ws.NewHub()
	hub.StartCleanup(5*time.Minute, 30*time.Minute)

	engineCfg := duel.Config{
		BaseSwingCap: cfg.BaseSwingCap,
		StyleTimeout: cfg.StyleTimer,
		SwingTimeout: cfg.SwingTimer,
		PushCurve:    duel.DefaultPushCurve,
	}
	duelSvc := service.NewDuelService(
		engineCfg,
		repository.NewCombatStatsRepository(dbPool),
		hub,
		repository.NewDuelHistoryRepository(dbPool),
	)
	duelSvc.StartCleanup(5*time.Minute, time.Hour)

	httpServer.RegisterRoutes(r, dbPool, duelSvc, hub, version, cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
