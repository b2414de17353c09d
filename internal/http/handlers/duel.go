package handlers

import (
	"errors"
	"net/http"

	"mathduel_backend/internal/game"
	"mathduel_backend/internal/service"

	"github.com/gin-gonic/gin"
)

// Hot-seat режим: оба игрока за одним устройством, партию
// держит сервер и двигают REST-события.

// StartHotSeat создает новую локальную партию
func (h *Handler) StartHotSeat(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	sess := h.Duels.StartSession(userID)
	c.JSON(http.StatusOK, gin.H{
		"session_id": sess.ID,
		"state":      sess.Match.Snapshot(),
	})
}

// HotSeatState возвращает снимок текущей партии
func (h *Handler) HotSeatState(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	sess, err := h.Duels.Session(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "нет активной партии"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": sess.ID,
		"state":      sess.Match.Snapshot(),
	})
}

// ConfigureHotSeat применяет настройки и запускает жеребьевку
func (h *Handler) ConfigureHotSeat(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var cfg game.Config
	if err := c.BindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	snap, err := h.Duels.Configure(userID, cfg)
	if err != nil {
		if errors.Is(err, service.ErrNoSession) {
			c.JSON(http.StatusNotFound, gin.H{"error": "нет активной партии"})
			return
		}
		if errors.Is(err, game.ErrInvalidConfiguration) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "state": snap})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "state": snap})
		return
	}

	c.JSON(http.StatusOK, gin.H{"state": snap})
}

// ResolveCoinFlip сообщает итог анимации жеребьевки
func (h *Handler) ResolveCoinFlip(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		Face game.Face `json:"face"`
	}
	if err := c.BindJSON(&req); err != nil || !req.Face.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	snap, err := h.Duels.CoinResolved(userID, req.Face)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "нет активной партии"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"state": snap})
}

// SpinWheel запрашивает вращение колеса
func (h *Handler) SpinWheel(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		Wheel int `json:"wheel"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	spin, snap, err := h.Duels.Spin(userID, req.Wheel)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "нет активной партии"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"spin": spin, "state": snap})
}

// SettleWheel сообщает об остановке колеса
func (h *Handler) SettleWheel(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		Wheel int `json:"wheel"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	snap, err := h.Duels.WheelSettled(userID, req.Wheel)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "нет активной партии"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"state": snap})
}

// SelectCell обрабатывает выбор ячейки доски
func (h *Handler) SelectCell(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		Row int `json:"row"`
		Col int `json:"col"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	res, snap, err := h.Duels.SelectCell(c.Request.Context(), userID, req.Row, req.Col)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "нет активной партии"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"claim": res, "state": snap})
}

// CommitHandoff подтверждает передачу хода после неверного ответа
func (h *Handler) CommitHandoff(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	snap, err := h.Duels.CommitHandoff(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "нет активной партии"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"state": snap})
}

// RestartDuel сбрасывает партию к экрану настроек
func (h *Handler) RestartDuel(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	snap, err := h.Duels.Restart(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "нет активной партии"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"state": snap})
}
