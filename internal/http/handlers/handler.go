package handlers

import (
	"net/http"
	"strings"

	"mathduel_backend/internal/repository"
	"mathduel_backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Handler объединяет зависимости HTTP-эндпоинтов
type Handler struct {
	DB        *pgxpool.Pool
	UserRepo  *repository.UserRepository
	MatchRepo *repository.MatchRepository
	Duels     *service.MatchService
	BotToken  string
}

func NewHandler(db *pgxpool.Pool, botToken string, duels *service.MatchService) *Handler {
	return &Handler{
		DB:        db,
		UserRepo:  repository.NewUserRepository(db),
		MatchRepo: repository.NewMatchRepository(db),
		Duels:     duels,
		BotToken:  botToken,
	}
}

// достает id пользователя, положенный auth middleware
func getUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// AuthRequired проверяет Bearer-токен и кладет id пользователя в контекст
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "требуется авторизация"})
			return
		}

		userID, err := service.ParseJWT(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "неверный токен"})
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
