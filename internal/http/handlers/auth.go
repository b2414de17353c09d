package handlers

import (
	"encoding/json"
	"net/http"

	"mathduel_backend/internal/service"

	"github.com/gin-gonic/gin"
)

// Auth принимает init_data из Telegram WebApp, проверяет подпись
// и выдает JWT для остальных эндпоинтов
func (h *Handler) Auth(c *gin.Context) {
	var req struct {
		InitData string `json:"init_data"`
	}
	if err := c.BindJSON(&req); err != nil || req.InitData == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "init_data обязателен"})
		return
	}

	values, ok := service.ValidateTelegramInitData(req.InitData, h.BotToken)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "невалидная init_data"})
		return
	}

	var tgUser struct {
		ID        int64  `json:"id"`
		Username  string `json:"username"`
		FirstName string `json:"first_name"`
	}
	if err := json.Unmarshal([]byte(values.Get("user")), &tgUser); err != nil || tgUser.ID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "поле user не разобрано"})
		return
	}

	user, err := h.UserRepo.UpsertFromTelegram(c.Request.Context(), tgUser.ID, tgUser.Username, tgUser.FirstName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	token, err := service.GenerateJWT(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось выдать токен"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}
