package http

import (
	"time"

	"mathduel_backend/internal/config"
	"mathduel_backend/internal/http/handlers"
	"mathduel_backend/internal/http/middleware"
	"mathduel_backend/internal/repository"
	"mathduel_backend/internal/service"
	"mathduel_backend/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegisterRoutes поднимает все HTTP и WebSocket маршруты
func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, version string, cfg *config.Config, duels *service.MatchService) {
	h := handlers.NewHandler(db, cfg.BotToken, duels)

	userRepo := repository.NewUserRepository(db)
	matchRepo := repository.NewMatchRepository(db)

	hub := ws.NewHub(userRepo, matchRepo)
	hub.StartCleanup()
	wsHandler := ws.NewWSHandler(hub, userRepo)

	r.Use(middleware.Metrics())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": version})
	})

	api := r.Group("/api")
	{
		api.POST("/auth", middleware.RateLimit(20, time.Minute), h.Auth)

		authed := api.Group("")
		authed.Use(handlers.AuthRequired())
		{
			authed.GET("/me", h.Me)
			authed.GET("/history", h.MyHistory)
			authed.GET("/leaderboard", h.GetLeaderboard)
			authed.GET("/rank", h.GetMyRank)

			duel := authed.Group("/duel/hotseat")
			duel.Use(middleware.RateLimit(120, time.Minute))
			{
				duel.POST("", h.StartHotSeat)
				duel.GET("", h.HotSeatState)
				duel.POST("/configure", h.ConfigureHotSeat)
				duel.POST("/coinflip", h.ResolveCoinFlip)
				duel.POST("/spin", h.SpinWheel)
				duel.POST("/settle", h.SettleWheel)
				duel.POST("/cell", h.SelectCell)
				duel.POST("/handoff", h.CommitHandoff)
				duel.POST("/restart", h.RestartDuel)
			}
		}
	}

	r.GET("/ws", wsHandler.HandleWS())
}
