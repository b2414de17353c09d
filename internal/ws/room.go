package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"mathduel_backend/internal/domain"
	"mathduel_backend/internal/game"
	"mathduel_backend/internal/metrics"
)

type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type Room struct {
	ID           string
	Operation    string
	WinCondition string
	Clients      map[int64]*Client

	Register   chan *Client
	Disconnect chan *Client

	mu        sync.RWMutex
	createdAt time.Time
	started   bool
	finished  bool
	saved     bool

	match *game.Match
	seats map[int64]game.Player // userID -> место за доской
	hub   *Hub
}

func NewRoom(id, operation, winCondition string, hub *Hub) *Room {
	return &Room{
		ID:           id,
		Operation:    operation,
		WinCondition: winCondition,
		Clients:      make(map[int64]*Client),
		Register:     make(chan *Client, 2),
		Disconnect:   make(chan *Client, 2),
		createdAt:    time.Now(),
		match:        game.NewMatch(nil),
		seats:        make(map[int64]game.Player),
		hub:          hub,
	}
}

func (r *Room) Run() {
	log.Printf("Room.Run: запуск комнаты=%s операция=%s условие=%s", r.ID, r.Operation, r.WinCondition)

	for {
		r.mu.RLock()
		done := r.finished
		r.mu.RUnlock()
		if done {
			log.Printf("Room.Run: комната=%s завершена, выходим", r.ID)
			return
		}

		select {
		case c := <-r.Register:
			r.handleRegister(c)

		case c := <-r.Disconnect:
			if r.handleDisconnect(c) {
				log.Printf("Room.Run: комната=%s закрыта после отключения", r.ID)
				return
			}

		case <-time.After(100 * time.Millisecond):
			continue
		}
	}
}

func (r *Room) handleRegister(c *Client) {
	r.mu.Lock()
	r.Clients[c.UserID] = c

	// первый зарегистрированный садится за первого игрока
	if _, seated := r.seats[c.UserID]; !seated {
		if len(r.seats) == 0 {
			r.seats[c.UserID] = game.Player1
		} else {
			r.seats[c.UserID] = game.Player2
		}
	}

	log.Printf("Room.handleRegister: комната=%s пользователь=%d место=%s игроков=%d",
		r.ID, c.UserID, r.seats[c.UserID], len(r.Clients))

	bothSeated := len(r.Clients) == 2 && !r.started
	if bothSeated {
		r.started = true
	}
	clients := r.clientsLocked()
	r.mu.Unlock()

	r.send(c.UserID, Message{
		Type: "state",
		Payload: map[string]any{
			"room_id": r.ID,
			"seat":    r.seatOf(c.UserID),
			"players": len(clients),
		},
	})

	if !bothSeated {
		log.Printf("Room.handleRegister: комната=%s ждет второго игрока", r.ID)
		r.drainPending(c)
		return
	}

	// оба игрока на месте: ждем готовности writer'ов и запускаем партию
	for _, cl := range clients {
		select {
		case <-cl.Ready:
		case <-time.After(1 * time.Second):
			log.Printf("Room.handleRegister: таймаут ожидания готовности пользователя=%d", cl.UserID)
		}
	}

	r.startMatch(clients)
	r.drainPending(c)
}

// startMatch собирает конфигурацию из параметров клиентов и запускает партию
func (r *Room) startMatch(clients map[int64]*Client) {
	var c1, c2 *Client
	for uid, cl := range clients {
		if r.seatOf(uid) == game.Player1 {
			c1 = cl
		} else {
			c2 = cl
		}
	}
	if c1 == nil || c2 == nil {
		log.Printf("Room.startMatch: комната=%s не хватает игроков", r.ID)
		return
	}

	color1, color2 := c1.Color, c2.Color
	if color1 == "" {
		color1 = "red"
	}
	if color2 == "" || color2 == color1 {
		color2 = "blue"
		if color1 == "blue" {
			color2 = "red"
		}
	}

	cfg := game.Config{
		Operation:    game.Operation(r.Operation),
		WinCondition: game.WinCondition(r.WinCondition),
		Player1Color: color1,
		Player2Color: color2,
		Player1Name:  c1.FirstName,
		Player2Name:  c2.FirstName,
	}

	if err := r.match.SubmitConfiguration(cfg); err != nil {
		log.Printf("Room.startMatch: комната=%s конфигурация отклонена: %v", r.ID, err)
		r.broadcastToClients(clients, Message{
			Type:    "error",
			Payload: map[string]string{"message": "некорректные параметры партии"},
		})
		return
	}
	metrics.MatchesStarted.WithLabelValues(string(domain.ModePvP), r.Operation).Inc()

	for uid := range clients {
		opponent := r.opponentInfo(clients, uid)
		r.send(uid, Message{
			Type: "matched",
			Payload: map[string]any{
				"room_id":  r.ID,
				"seat":     r.seatOf(uid),
				"opponent": opponent,
			},
		})
	}

	r.broadcastState(clients)
	log.Printf("Room.startMatch: комната=%s партия началась", r.ID)
}

func (r *Room) opponentInfo(clients map[int64]*Client, uid int64) map[string]any {
	for oid, oc := range clients {
		if oid != uid {
			return map[string]any{
				"id":         oid,
				"first_name": oc.FirstName,
				"seat":       r.seatOf(oid),
			}
		}
	}
	return nil
}

func (r *Room) seatOf(userID int64) game.Player {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.seats[userID]
}

// clientsLocked возвращает копию map клиентов - вызывающий держит блокировку
func (r *Room) clientsLocked() map[int64]*Client {
	clients := make(map[int64]*Client, len(r.Clients))
	for k, v := range r.Clients {
		clients[k] = v
	}
	return clients
}

func (r *Room) drainPending(c *Client) {
	c.pendingMu.Lock()
	pending := c.pending
	c.pending = nil
	c.pendingMu.Unlock()

	for _, m := range pending {
		r.HandleMessage(c, m)
	}
}

func (r *Room) HandleMessage(c *Client, raw []byte) {
	var msg struct {
		Type  string `json:"type"`
		Face  string `json:"face,omitempty"`
		Wheel int    `json:"wheel,omitempty"`
		Row   int    `json:"row"`
		Col   int    `json:"col"`
	}
	if err := json.Unmarshal(raw, &msg); err != nil {
		log.Printf("Room.HandleMessage: комната=%s не удалось разобрать: %v", r.ID, err)
		return
	}

	seat := r.seatOf(c.UserID)
	if seat == "" {
		return
	}

	// событиями хода управляет только активный игрок;
	// подтверждение передачи хода дает принимающая сторона
	switch msg.Type {
	case "spin", "settled", "cell", "coin_resolved":
		if r.match.ActivePlayer() != "" && r.match.ActivePlayer() != seat {
			log.Printf("Room.HandleMessage: комната=%s пользователь=%d не активен, событие %s отброшено", r.ID, c.UserID, msg.Type)
			return
		}
	case "handoff":
		if r.match.ActivePlayer() == seat {
			return
		}
	}

	switch msg.Type {
	case "coin_resolved":
		// невозможные переходы молча игнорируем
		if err := r.match.CoinFlipResolved(game.Face(msg.Face)); err != nil {
			return
		}

	case "spin":
		spin, err := r.match.RequestSpin(msg.Wheel)
		if err != nil {
			return
		}
		r.broadcastAll(Message{Type: "spin", Payload: spin})

	case "settled":
		if err := r.match.WheelSettled(msg.Wheel); err != nil {
			return
		}

	case "cell":
		res, err := r.match.CellSelected(msg.Row, msg.Col)
		if err != nil {
			return
		}
		if res != nil {
			metrics.ClaimsTotal.WithLabelValues(boolLabel(res.Correct)).Inc()
			r.broadcastAll(Message{Type: "claim", Payload: res})
			if res.GameOver {
				r.finishMatch(res)
				return
			}
		}

	case "handoff":
		if err := r.match.CommitTurnHandoff(); err != nil {
			return
		}

	default:
		log.Printf("Room.HandleMessage: комната=%s неизвестный тип %q", r.ID, msg.Type)
		return
	}

	r.mu.RLock()
	clients := r.clientsLocked()
	r.mu.RUnlock()
	r.broadcastState(clients)
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// finishMatch рассылает итог и сохраняет партию
func (r *Room) finishMatch(res *game.ClaimResult) {
	r.mu.Lock()
	if r.finished {
		r.mu.Unlock()
		return
	}
	r.finished = true
	clients := r.clientsLocked()
	r.mu.Unlock()

	outcome := "draw"
	if !res.Draw {
		outcome = string(res.Winner)
	}
	metrics.MatchesFinished.WithLabelValues(string(domain.ModePvP), outcome).Inc()

	r.broadcastState(clients)

	for uid := range clients {
		result := domain.ResultDraw
		if !res.Draw {
			if r.seatOf(uid) == res.Winner {
				result = domain.ResultWin
			} else {
				result = domain.ResultLose
			}
		}
		r.send(uid, Message{
			Type: "result",
			Payload: map[string]any{
				"you":    string(result),
				"reason": "game_over",
			},
		})
	}

	r.saveResult(clients, res.Winner, res.Draw, "game_over")
	r.cleanup()
}

// handleDisconnect возвращает true, если комната должна завершиться
func (r *Room) handleDisconnect(c *Client) bool {
	r.mu.Lock()
	delete(r.Clients, c.UserID)

	log.Printf("Room.handleDisconnect: комната=%s пользователь=%d", r.ID, c.UserID)

	var remaining *Client
	for _, cl := range r.Clients {
		remaining = cl
	}
	clientsLeft := len(r.Clients)
	started := r.started
	alreadyFinished := r.finished
	if started && !alreadyFinished {
		r.finished = true
	}
	r.mu.Unlock()

	// партия шла: оставшийся побеждает техническим результатом
	if started && !alreadyFinished && remaining != nil {
		winnerSeat := r.seatOf(remaining.UserID)
		metrics.MatchesFinished.WithLabelValues(string(domain.ModePvP), "forfeit").Inc()

		r.send(remaining.UserID, Message{
			Type: "result",
			Payload: map[string]any{
				"you":    string(domain.ResultWin),
				"reason": "opponent_left",
			},
		})

		clients := map[int64]*Client{remaining.UserID: remaining, c.UserID: c}
		r.saveResult(clients, winnerSeat, false, "opponent_left")
		r.cleanup()
		return true
	}

	if clientsLeft == 0 {
		r.cleanup()
		return true
	}
	return false
}

// saveResult пишет историю для обоих игроков и обновляет их счетчики
func (r *Room) saveResult(clients map[int64]*Client, winner game.Player, draw bool, reason string) {
	r.mu.Lock()
	if r.saved {
		r.mu.Unlock()
		return
	}
	r.saved = true
	r.mu.Unlock()

	if r.hub == nil || r.hub.MatchRepo == nil {
		return
	}

	snap := r.match.Snapshot()

	for uid := range clients {
		seat := r.seatOf(uid)

		result := domain.ResultDraw
		if !draw {
			if seat == winner {
				result = domain.ResultWin
				if reason == "opponent_left" {
					result = domain.ResultOpponentLeft
				}
			} else {
				result = domain.ResultLose
			}
		}

		var opponentID *int64
		opponentName := ""
		for oid, oc := range clients {
			if oid != uid {
				id := oid
				opponentID = &id
				opponentName = oc.FirstName
			}
		}

		record := &domain.MatchRecord{
			UserID:       uid,
			OpponentID:   opponentID,
			OpponentName: opponentName,
			Mode:         domain.ModePvP,
			Operation:    r.Operation,
			WinCondition: r.WinCondition,
			Result:       result,
			Details: map[string]any{
				"room_id": r.ID,
				"reason":  reason,
				"score1":  snap.Score1,
				"score2":  snap.Score2,
			},
		}

		go func(rec *domain.MatchRecord, res domain.MatchResult, userID int64) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := r.hub.MatchRepo.Create(ctx, rec); err != nil {
				log.Printf("Room.saveResult: комната=%s не удалось сохранить историю: %v", r.ID, err)
			}
			if r.hub.UserRepo != nil {
				if err := r.hub.UserRepo.IncrementResult(ctx, userID, res); err != nil {
					log.Printf("Room.saveResult: комната=%s не удалось обновить счетчики: %v", r.ID, err)
				}
			}
		}(record, result, uid)
	}
}

func (r *Room) cleanup() {
	r.mu.Lock()
	r.finished = true
	clientIDs := make([]int64, 0, len(r.Clients))
	for uid := range r.Clients {
		clientIDs = append(clientIDs, uid)
	}
	seatIDs := make([]int64, 0, len(r.seats))
	for uid := range r.seats {
		seatIDs = append(seatIDs, uid)
	}
	hub := r.hub
	roomID := r.ID
	r.mu.Unlock()

	if hub != nil {
		hub.mu.Lock()
		delete(hub.Rooms, roomID)
		for _, uid := range seatIDs {
			delete(hub.UserRoom, uid)
		}
		for _, uid := range clientIDs {
			delete(hub.UserRoom, uid)
		}
		hub.mu.Unlock()
	}

	log.Printf("Room.cleanup: комната=%s очищена", roomID)
}

// broadcastState рассылает полный снимок партии обоим игрокам
func (r *Room) broadcastState(clients map[int64]*Client) {
	r.broadcastToClients(clients, Message{Type: "match_state", Payload: r.match.Snapshot()})
}

func (r *Room) broadcastAll(msg Message) {
	r.mu.RLock()
	clients := r.clientsLocked()
	r.mu.RUnlock()
	r.broadcastToClients(clients, msg)
}

// broadcastToClients отправляет сообщение всем клиентам без взятия блокировки комнаты
func (r *Room) broadcastToClients(clients map[int64]*Client, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Room.broadcastToClients: ошибка сериализации: %v", err)
		return
	}

	for userID, c := range clients {
		if c == nil {
			continue
		}
		select {
		case c.Send <- data:
		case <-time.After(2 * time.Second):
			log.Printf("Room.broadcastToClients: таймаут отправки пользователю=%d тип=%s", userID, msg.Type)
		}
	}
}

func (r *Room) send(userID int64, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Room.send: ошибка сериализации: %v", err)
		return
	}

	r.mu.RLock()
	c, ok := r.Clients[userID]
	r.mu.RUnlock()

	if !ok {
		log.Printf("Room.send: пользователь=%d не в комнате=%s", userID, r.ID)
		return
	}

	select {
	case c.Send <- data:
	case <-time.After(2 * time.Second):
		log.Printf("Room.send: таймаут отправки пользователю=%d тип=%s", userID, msg.Type)
	}
}
