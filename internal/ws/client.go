package ws

import (
	"log"
	"sync"
	"time"

	"mathduel_backend/internal/metrics"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second
)

type Client struct {
	UserID    int64
	FirstName string

	// параметры матчмейкинга из query
	Operation    string
	WinCondition string
	Color        string

	Conn *websocket.Conn
	Send chan []byte

	Hub   *Hub
	Ready chan struct{}
	Done  chan struct{}

	// pendingMu защищает room и буфер сообщений, пришедших до назначения комнаты
	pendingMu sync.Mutex
	room      *Room
	pending   [][]byte
}

func NewClient(userID int64, firstName string, conn *websocket.Conn, hub *Hub, operation, winCondition, color string) *Client {
	return &Client{
		UserID:       userID,
		FirstName:    firstName,
		Operation:    operation,
		WinCondition: winCondition,
		Color:        color,
		Conn:         conn,
		Send:         make(chan []byte, 256),
		Hub:          hub,
		Ready:        make(chan struct{}),
		Done:         make(chan struct{}),
	}
}

func (c *Client) Run() {
	metrics.WSConnections.Inc()
	defer metrics.WSConnections.Dec()

	// запускаем writer первым, чтобы регистрация комнаты могла наблюдать готовность
	go c.writePump()
	close(c.Ready)

	// явный хендшейк готовности для клиента
	select {
	case c.Send <- []byte(`{"type":"ready"}`):
	case <-time.After(500 * time.Millisecond):
		log.Printf("Client.Run: таймаут постановки ready для пользователя=%d", c.UserID)
	}

	// readPump запускаем рано, чтобы не пропустить сообщения во время матчмейкинга
	go c.readPump()

	room := c.Hub.AssignClient(c)
	if room == nil {
		log.Printf("Client.Run: не удалось назначить комнату для пользователя=%d", c.UserID)
		c.Conn.Close()
		return
	}
	c.setRoom(room)

	log.Printf("Client.Run: пользователь=%d назначен в комнату=%s", c.UserID, room.ID)

	<-c.Done
}

// setRoom публикует назначенную комнату для readPump и пропускает через нее
// сообщения, накопленные во время матчмейкинга
func (c *Client) setRoom(r *Room) {
	c.pendingMu.Lock()
	c.room = r
	buffered := c.pending
	c.pending = nil
	c.pendingMu.Unlock()

	for _, m := range buffered {
		r.HandleMessage(c, m)
	}
}

func (c *Client) currentRoom() *Room {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	return c.room
}

// read
func (c *Client) readPump() {
	defer func() {
		c.disconnect()
		close(c.Done)
	}()

	c.Conn.SetReadLimit(4096)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			log.Println("ошибка чтения:", err)
			break
		}
		c.pendingMu.Lock()
		room := c.room
		if room == nil {
			// буферизуем сообщение до назначения комнаты
			c.pending = append(c.pending, append([]byte(nil), msg...))
		}
		c.pendingMu.Unlock()
		if room != nil {
			room.HandleMessage(c, msg)
		}
	}
}

// write
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("Client.writePump: пользователь=%d ошибка записи: %v", c.UserID, err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// disconnect
func (c *Client) disconnect() {
	if c.currentRoom() != nil {
		c.Hub.OnDisconnect(c)
	}
	_ = c.Conn.Close()
}
