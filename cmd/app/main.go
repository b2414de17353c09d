package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mathduel_backend/internal/bot"
	"mathduel_backend/internal/config"
	"mathduel_backend/internal/db"
	httpServer "mathduel_backend/internal/http"
	"mathduel_backend/internal/http/middleware"
	"mathduel_backend/internal/logger"
	"mathduel_backend/internal/repository"
	"mathduel_backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Version устанавливается при сборке
var Version = "dev"

func main() {
	logger.InitFromEnv()
	log := logger.Get()

	cfg := config.Load()
	service.InitJWT()

	dbPool := db.Connect(cfg.DatabaseURL)
	defer dbPool.Close()

	r := gin.Default()

	// CORS для прода и связи фронта с бэкендом (разные домены)
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && (cfg.AllowedOrigin == "" || origin == cfg.AllowedOrigin) {
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

	userRepo := repository.NewUserRepository(dbPool)
	matchRepo := repository.NewMatchRepository(dbPool)
	duels := service.NewMatchService(matchRepo, userRepo)

	httpServer.RegisterRoutes(r, dbPool, Version, cfg, duels)

	// Запуск бота статистики ПЕРЕД HTTP сервером
	var statsBot *bot.StatsBot
	if cfg.StatsBotEnabled && len(cfg.AdminTelegramIDs) > 0 {
		statsService := service.NewStatsService(userRepo, matchRepo, duels)

		var err error
		statsBot, err = bot.NewStatsBot(cfg.BotToken, statsService, userRepo, cfg.AdminTelegramIDs)
		if err != nil {
			log.Error("failed to start stats bot", "error", err)
		} else {
			go statsBot.Start()
			log.Info("stats bot started", "admin_ids", cfg.AdminTelegramIDs)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		log.Info("server started", "port", cfg.AppPort, "version", Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Плавная остановка бота
	if statsBot != nil {
		statsBot.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	log.Info("server exited")
}
