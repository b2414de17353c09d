package ws

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"mathduel_backend/internal/game"
	"mathduel_backend/internal/repository"
	"mathduel_backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// содержит зависимости для обработки WebSocket
type WSHandler struct {
	Hub      *Hub
	UserRepo *repository.UserRepository
}

func NewWSHandler(hub *Hub, userRepo *repository.UserRepository) *WSHandler {
	return &WSHandler{
		Hub:      hub,
		UserRepo: userRepo,
	}
}

func (h *WSHandler) HandleWS() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "токен обязателен"})
			return
		}

		userID, err := service.ParseJWT(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "неверный токен"})
			return
		}

		// параметры матчмейкинга из query
		operation := game.Operation(c.Query("operation"))
		if !operation.Valid() {
			operation = game.OpMultiply
		}
		winCondition := game.WinCondition(c.Query("win"))
		if !winCondition.Valid() {
			winCondition = game.WinFirstToFive
		}
		color := c.Query("color")

		// имя для табло берем из профиля
		firstName := ""
		if h.UserRepo != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			if u, err := h.UserRepo.GetByID(ctx, userID); err == nil && u != nil {
				firstName = u.FirstName
				if firstName == "" {
					firstName = u.Username
				}
			}
			cancel()
		}

		allowedOrigin := os.Getenv("ALLOWED_ORIGIN")
		upgrader := websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Println("ошибка обновления ws:", err)
			return
		}

		// создаем клиента и запускаем его обработчики и матчмейкинг
		client := NewClient(userID, firstName, conn, h.Hub, string(operation), string(winCondition), color)
		go client.Run()
	}
}
