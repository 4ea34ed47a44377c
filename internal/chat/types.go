package chat

import (
	"context"
	"time"
)

// User — участник комнаты, привязанный к одному соединению.
// Username и Room хранятся в том виде, в каком их прислал клиент (без пробелов по краям),
// сравнение же всегда идёт по нормализованному ключу (см. normalize).
type User struct {
	ConnID   string `json:"-"`
	Username string `json:"username"`
	Room     string `json:"room"`
}

// Message — текстовое сообщение, уходящее клиентам.
// CreatedAt проставляет сервер в момент маршрутизации (Unix, миллисекунды).
type Message struct {
	Username  string `json:"username"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"createdAt"`
}

// LocationMessage — сообщение со ссылкой на карту вместо текста
type LocationMessage struct {
	Username  string `json:"username"`
	URL       string `json:"url"`
	CreatedAt int64  `json:"createdAt"`
}

// Входящие события от клиента
const (
	EventJoin         = "join"
	EventSendMessage  = "sendMessage"
	EventSendLocation = "sendLocation"
	EventDisconnect   = "disconnect"
)

// Исходящие события
const (
	EventMessage         = "message"
	EventLocationMessage = "locationMessage"
	EventRoomData        = "roomData"
	EventAck             = "ack"
)

// AdminName — отправитель системных сообщений
const AdminName = "Admin"

// Event — исходящее событие, адресованное одному соединению.
type Event struct {
	Kind string
	Data any
}

// Transport доставляет событие конкретному соединению.
// Неизвестное или уже закрытое соединение — не ошибка, событие просто теряется.
type Transport interface {
	Emit(connID string, event Event)
}

// ProfanityChecker — внешний фильтр нецензурной лексики
type ProfanityChecker interface {
	IsProfane(text string) bool
}

// ProfanityFunc позволяет использовать обычную функцию как ProfanityChecker.
type ProfanityFunc func(text string) bool

func (f ProfanityFunc) IsProfane(text string) bool { return f(text) }

// Типы событий присутствия
const (
	PresenceJoined = "joined"
	PresenceLeft   = "left"
)

// PresenceEvent описывает вход или выход пользователя из комнаты.
// Публикуется во внешнюю шину (если она настроена), в ядре не хранится.
type PresenceEvent struct {
	Type       string    `json:"type"`
	Room       string    `json:"room"`
	Username   string    `json:"username"`
	OccurredAt time.Time `json:"occurredAt"`
}

// EventPublisher принимает события присутствия.
type EventPublisher interface {
	Publish(ctx context.Context, event PresenceEvent) error
}
