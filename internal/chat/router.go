package chat

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// RouterConfig — ограничения, которые проверяет Router
type RouterConfig struct {
	MaxMessageLength int // в рунах; 0 — без ограничения
}

// Router определяет, каким соединениям уходит сообщение, и проставляет ему время.
// Набор получателей — снимок Registry на момент вызова.
type Router struct {
	registry   *Registry
	transport  Transport
	profanity  ProfanityChecker
	maxMessage int
	now        func() time.Time
}

// NewRouter создаёт Router. profanity может быть nil — тогда фильтр не применяется.
func NewRouter(registry *Registry, transport Transport, profanity ProfanityChecker, cfg RouterConfig) *Router {
	return &Router{
		registry:   registry,
		transport:  transport,
		profanity:  profanity,
		maxMessage: cfg.MaxMessageLength,
		now:        time.Now,
	}
}

// SetClock подменяет источник времени (нужно тестам).
func (r *Router) SetClock(now func() time.Time) {
	r.now = now
}

// SendToRoom доставляет payload всем участникам комнаты на момент вызова.
// Возвращает число получателей.
func (r *Router) SendToRoom(room, kind string, payload any) int {
	return r.SendToRoomExcept(room, "", kind, payload)
}

// SendToRoomExcept — то же, что SendToRoom, но без соединения except.
func (r *Router) SendToRoomExcept(room, except, kind string, payload any) int {
	sent := 0
	for _, u := range r.registry.ListUsers(room) {
		if u.ConnID == except {
			continue
		}
		r.transport.Emit(u.ConnID, Event{Kind: kind, Data: payload})
		sent++
	}
	return sent
}

// Notify отправляет системное сообщение одному соединению.
func (r *Router) Notify(connID, text string) {
	r.transport.Emit(connID, Event{Kind: EventMessage, Data: r.newMessage(AdminName, text)})
}

// Announce рассылает системное сообщение в комнату (кроме except).
func (r *Router) Announce(room, except, text string) int {
	return r.SendToRoomExcept(room, except, EventMessage, r.newMessage(AdminName, text))
}

// SendRoomData рассылает ростер комнаты всем её участникам.
// Ростер и список получателей — один и тот же снимок реестра.
func (r *Router) SendRoomData(room string) int {
	users := r.registry.ListUsers(room)
	if len(users) == 0 {
		return 0
	}
	data := newRoomData(users)
	for _, u := range users {
		r.transport.Emit(u.ConnID, Event{Kind: EventRoomData, Data: data})
	}
	return len(users)
}

// SendMessage публикует текстовое сообщение от имени соединения в его комнату
// (включая самого отправителя).
func (r *Router) SendMessage(connID, text string) (Message, error) {
	user, ok := r.registry.Get(connID)
	if !ok {
		return Message{}, ErrNotJoined
	}

	// проверяем обрезанный текст, а отправляем исходный
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Message{}, ErrEmptyMessage
	}
	if r.maxMessage > 0 && utf8.RuneCountInString(trimmed) > r.maxMessage {
		return Message{}, fmt.Errorf("%w (max %d)", ErrMessageTooLong, r.maxMessage)
	}
	if r.profanity != nil && r.profanity.IsProfane(trimmed) {
		return Message{}, ErrProfane
	}

	msg := r.newMessage(user.Username, text)
	r.SendToRoom(user.Room, EventMessage, msg)
	return msg, nil
}

// SendLocation публикует ссылку на карту с координатами отправителя.
func (r *Router) SendLocation(connID string, latitude, longitude float64) (LocationMessage, error) {
	user, ok := r.registry.Get(connID)
	if !ok {
		return LocationMessage{}, ErrNotJoined
	}
	if !validCoordinate(latitude, 90) || !validCoordinate(longitude, 180) {
		return LocationMessage{}, ErrInvalidCoordinates
	}

	msg := LocationMessage{
		Username:  user.Username,
		URL:       MapURL(latitude, longitude),
		CreatedAt: r.now().UnixMilli(),
	}
	r.SendToRoom(user.Room, EventLocationMessage, msg)
	return msg, nil
}

func (r *Router) newMessage(username, text string) Message {
	return Message{
		Username:  username,
		Text:      text,
		CreatedAt: r.now().UnixMilli(),
	}
}

// MapURL строит ссылку на Google Maps. Одинаковые координаты всегда дают одинаковую ссылку.
func MapURL(latitude, longitude float64) string {
	return "https://google.com/maps?q=" +
		strconv.FormatFloat(latitude, 'f', -1, 64) + "," +
		strconv.FormatFloat(longitude, 'f', -1, 64)
}

func validCoordinate(v, limit float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return v >= -limit && v <= limit
}
