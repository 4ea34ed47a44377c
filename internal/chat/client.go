package chat

import (
	"errors"
	"io"
	"log"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 45 * time.Second // должно быть меньше pongWait
	writeWait  = 10 * time.Second
)

// Минимальные методы websocket.Conn, которые нужны клиенту
type WebSocketConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteJSON(v interface{}) error
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(string) error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// ClientConfig — параметры одного соединения
type ClientConfig struct {
	MaxFrameSize int64      // максимальный размер входящего кадра, байт
	SendBuffer   int        // размер очереди исходящих событий
	RateLimit    rate.Limit // входящих событий в секунду; 0 — без ограничения
	RateBurst    int
}

// Client представляет одно WebSocket-соединение
type Client struct {
	hub     *Hub
	conn    WebSocketConn
	session *Session
	send    chan outboundFrame
	limiter *rate.Limiter
	addr    string
}

// NewClient создаёт клиента для уже установленного соединения.
func NewClient(hub *Hub, conn WebSocketConn, session *Session, addr string, cfg ClientConfig) *Client {
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = 64
	}
	if cfg.MaxFrameSize > 0 {
		conn.SetReadLimit(cfg.MaxFrameSize)
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(cfg.RateLimit, burst)
	}

	return &Client{
		hub:     hub,
		conn:    conn,
		session: session,
		send:    make(chan outboundFrame, cfg.SendBuffer),
		limiter: limiter,
		addr:    addr,
	}
}

// ID — идентификатор соединения (он же connID в реестре)
func (c *Client) ID() string { return c.session.ConnID() }

// readPump читает входящие кадры и передаёт их в Session.
// При выходе из цикла соединение покидает комнату и удаляется из Hub.
func (c *Client) readPump() {
	defer func() {
		c.session.Disconnect()
		c.hub.Unregister(c)
		if err := c.conn.Close(); err != nil && !isExpectedCloseError(err) {
			log.Printf("error closing connection %s: %v", c.ID(), err)
		}
	}()

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("error setting read deadline for %s: %v", c.addr, err)
	}
	c.conn.SetPongHandler(func(string) error { // обновляем таймаут при получении PONG
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			c.logReadError(err)
			return
		}

		in, err := ParseInbound(raw)
		if err != nil {
			c.hub.Ack(c.ID(), Ack{ID: in.ID, Error: err.Error()})
			continue
		}

		if c.limiter != nil && !c.limiter.Allow() {
			log.Printf("rate limit exceeded for %s; dropping %s event", c.addr, in.Kind)
			c.hub.Ack(c.ID(), Ack{ID: in.ID, Error: "rate limit exceeded"})
			continue
		}

		if ack, ok := c.session.Dispatch(in); ok {
			c.hub.Ack(c.ID(), ack)
		} else {
			return // клиент сам попросил отключиться
		}
	}
}

func (c *Client) logReadError(err error) {
	switch {
	case errors.Is(err, websocket.ErrReadLimit):
		log.Printf("frame from %s exceeded read limit", c.addr)
	case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived):
		// обычное закрытие
	case errors.Is(err, io.EOF) || isExpectedCloseError(err):
	default:
		log.Printf("read error from %s: %v", c.addr, err)
	}
}

// isExpectedCloseError — ошибки, которые возникают при штатном закрытии соединения
func isExpectedCloseError(err error) bool {
	if err == nil {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "use of closed network connection") ||
		strings.Contains(msg, "websocket: close sent") ||
		strings.Contains(msg, "broken pipe")
}
