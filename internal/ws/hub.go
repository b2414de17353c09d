package ws

import (
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"mathduel_backend/internal/repository"
)

// уникально идентифицирует очередь матчмейкинга:
// игроки сопоставляются по операции и условию победы
type WaitingKey struct {
	Operation    string
	WinCondition string
}

func (k WaitingKey) String() string {
	return fmt.Sprintf("%s_%s", k.Operation, k.WinCondition)
}

type Hub struct {
	Rooms    map[string]*Room
	UserRoom map[int64]string
	mu       sync.RWMutex
	roomSeq  int64
	// отдельные очереди ожидания для каждой комбинации операция + условие победы
	WaitingByKey map[WaitingKey]*Client

	UserRepo  *repository.UserRepository
	MatchRepo *repository.MatchRepository
}

func NewHub(userRepo *repository.UserRepository, matchRepo *repository.MatchRepository) *Hub {
	return &Hub{
		Rooms:        make(map[string]*Room),
		UserRoom:     make(map[int64]string),
		WaitingByKey: make(map[WaitingKey]*Client),
		UserRepo:     userRepo,
		MatchRepo:    matchRepo,
	}
}

func (h *Hub) AssignClient(c *Client) *Room {
	h.mu.Lock()

	waitingKey := WaitingKey{
		Operation:    c.Operation,
		WinCondition: c.WinCondition,
	}

	log.Printf("Hub.AssignClient: пользователь=%d операция=%s условие=%s (комнат=%d)",
		c.UserID, c.Operation, c.WinCondition, len(h.Rooms))

	// очищаем любое устаревшее состояние для этого пользователя (реконнект)
	if oldRoomID, exists := h.UserRoom[c.UserID]; exists {
		log.Printf("Hub.AssignClient: пользователь=%d имеет устаревшую комнату %s, очищаем", c.UserID, oldRoomID)
		delete(h.UserRoom, c.UserID)
		var keysToDelete []WaitingKey
		for key, waiting := range h.WaitingByKey {
			if waiting != nil && waiting.UserID == c.UserID {
				keysToDelete = append(keysToDelete, key)
			}
		}
		for _, key := range keysToDelete {
			delete(h.WaitingByKey, key)
		}
	}

	// если есть ожидающий клиент для этого ключа, пытаемся соединить
	waiting := h.WaitingByKey[waitingKey]
	if waiting != nil {
		// не соединяем с самим собой
		if waiting.UserID != c.UserID {
			// проверяем, живое ли еще соединение ожидающего,
			// неблокирующей отправкой в его Send канал
			waitingAlive := false
			select {
			case waiting.Send <- []byte(`{"type":"ping"}`):
				waitingAlive = true
			default:
				log.Printf("Hub.AssignClient: Send канал ожидающего клиента=%d заблокирован", waiting.UserID)
			}

			if !waitingAlive {
				delete(h.WaitingByKey, waitingKey)
			} else if roomID, ok := h.UserRoom[waiting.UserID]; ok {
				if foundRoom, ok2 := h.Rooms[roomID]; ok2 {
					foundRoom.mu.RLock()
					_, stillThere := foundRoom.Clients[waiting.UserID]
					foundRoom.mu.RUnlock()
					if stillThere {
						log.Printf("Hub.AssignClient: соединение пользователя=%d с ожидающим=%d в комнате=%s",
							c.UserID, waiting.UserID, foundRoom.ID)

						foundRoom.mu.Lock()
						foundRoom.Clients[c.UserID] = c
						foundRoom.mu.Unlock()

						h.UserRoom[c.UserID] = foundRoom.ID
						delete(h.WaitingByKey, waitingKey)
						h.mu.Unlock()

						// неблокирующая отправка для избежания deadlock'а
						select {
						case foundRoom.Register <- c:
						case <-time.After(5 * time.Second):
							log.Printf("Hub.AssignClient: ТАЙМАУТ регистрации пользователя=%d в комнату=%s", c.UserID, foundRoom.ID)
							return nil
						}

						return foundRoom
					}
					// ожидающий отсутствует в комнате, очищаем устаревший слот
					delete(h.WaitingByKey, waitingKey)
				} else {
					delete(h.WaitingByKey, waitingKey)
				}
			} else {
				delete(h.WaitingByKey, waitingKey)
			}
		} else {
			log.Printf("Hub.AssignClient: ожидающий тот же пользователь=%d, очищаем слот", c.UserID)
			delete(h.WaitingByKey, waitingKey)
		}
	}

	// создаем новую комнату и ждем второго игрока
	room := h.newRoom(c)
	log.Printf("Hub.AssignClient: пользователь=%d создал новую комнату=%s", c.UserID, room.ID)

	// резервируем слот сразу, чтобы избежать гонки с другим AssignClient
	room.mu.Lock()
	room.Clients[c.UserID] = c
	room.mu.Unlock()

	h.UserRoom[c.UserID] = room.ID
	h.WaitingByKey[waitingKey] = c

	h.mu.Unlock()

	select {
	case room.Register <- c:
	case <-time.After(5 * time.Second):
		log.Printf("Hub.AssignClient: ТАЙМАУТ регистрации пользователя=%d в комнату=%s", c.UserID, room.ID)
		return nil
	}

	return room
}

func (h *Hub) newRoom(creator *Client) *Room {
	h.roomSeq++
	id := strconv.FormatInt(h.roomSeq, 10)

	room := NewRoom(id, creator.Operation, creator.WinCondition, h)
	h.Rooms[id] = room

	go room.Run()
	return room
}

func (h *Hub) OnDisconnect(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	log.Printf("Hub.OnDisconnect: пользователь=%d операция=%s", c.UserID, c.Operation)

	// очищаем слот ожидания, если это был ожидающий клиент
	var keysToDelete []WaitingKey
	for key, waiting := range h.WaitingByKey {
		if waiting != nil && waiting.UserID == c.UserID {
			keysToDelete = append(keysToDelete, key)
		}
	}
	for _, key := range keysToDelete {
		delete(h.WaitingByKey, key)
	}

	if roomID, ok := h.UserRoom[c.UserID]; ok {
		if room, ok := h.Rooms[roomID]; ok {
			select {
			case room.Disconnect <- c:
			default:
				log.Printf("Hub.OnDisconnect: комната=%s канал Disconnect заполнен/закрыт", roomID)
			}
		}
	}
}

func (h *Hub) StartCleanup() {
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			h.cleanupStaleRooms()
		}
	}()

	// более частая очистка слотов ожидания
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		for range ticker.C {
			h.cleanupStaleWaiting()
		}
	}()
}

func (h *Hub) cleanupStaleWaiting() {
	h.mu.Lock()
	defer h.mu.Unlock()

	type staleEntry struct {
		key    WaitingKey
		userID int64
	}
	var stale []staleEntry

	for key, waiting := range h.WaitingByKey {
		if waiting == nil {
			continue
		}

		alive := false
		select {
		case waiting.Send <- []byte(`{"type":"ping"}`):
			alive = true
		default:
		}

		if !alive {
			stale = append(stale, staleEntry{key: key, userID: waiting.UserID})
		}
	}

	for _, entry := range stale {
		log.Printf("Hub.cleanupStaleWaiting: удаление мертвого ожидающего=%d ключ=%s", entry.userID, entry.key)
		delete(h.WaitingByKey, entry.key)

		if roomID, ok := h.UserRoom[entry.userID]; ok {
			if room, ok := h.Rooms[roomID]; ok {
				room.mu.Lock()
				delete(room.Clients, entry.userID)
				clientsLeft := len(room.Clients)
				room.mu.Unlock()

				if clientsLeft == 0 {
					delete(h.Rooms, roomID)
				}
			}
			delete(h.UserRoom, entry.userID)
		}
	}
}

func (h *Hub) cleanupStaleRooms() {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now()

	for roomID, room := range h.Rooms {
		room.mu.RLock()
		clientsCount := len(room.Clients)
		createdAt := room.createdAt
		room.mu.RUnlock()

		if clientsCount == 0 && now.Sub(createdAt) > time.Hour {
			delete(h.Rooms, roomID)

			for uid, rid := range h.UserRoom {
				if rid == roomID {
					delete(h.UserRoom, uid)
				}
			}

			log.Printf("очищена устаревшая комната: %s", roomID)
		}
	}
}
