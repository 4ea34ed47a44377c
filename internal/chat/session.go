package chat

import (
	"fmt"
	"strings"
)

// Session связывает события одного соединения с Presence и Router.
// Своего состояния, кроме идентичности соединения, не держит:
// всё остальное живёт в Registry.
type Session struct {
	connID   string
	account  string // имя из JWT, если соединение авторизовано
	presence *Presence
	router   *Router
}

// NewSession создаёт обработчик для соединения connID.
// account — имя вошедшего аккаунта или пустая строка для анонимного соединения.
func NewSession(connID, account string, presence *Presence, router *Router) *Session {
	return &Session{
		connID:   connID,
		account:  account,
		presence: presence,
		router:   router,
	}
}

// ConnID возвращает идентификатор соединения
func (s *Session) ConnID() string { return s.connID }

// Join — вход в комнату. Авторизованное соединение может войти только под своим именем.
func (s *Session) Join(username, room string) error {
	if s.account != "" && !strings.EqualFold(strings.TrimSpace(username), s.account) {
		return fmt.Errorf("%w: username must match the signed-in account", ErrInvalidInput)
	}
	_, err := s.presence.Join(s.connID, username, room)
	return err
}

// SendMessage — отправка текста в свою комнату
func (s *Session) SendMessage(text string) error {
	_, err := s.router.SendMessage(s.connID, text)
	return err
}

// SendLocation — отправка координат в свою комнату
func (s *Session) SendLocation(latitude, longitude float64) error {
	_, err := s.router.SendLocation(s.connID, latitude, longitude)
	return err
}

// Disconnect завершает участие соединения. Повторный вызов безопасен.
func (s *Session) Disconnect() {
	s.presence.Leave(s.connID)
}

// Dispatch выполняет входящее событие и возвращает ack.
// Для disconnect ack не предусмотрен — второй результат false.
func (s *Session) Dispatch(in Inbound) (Ack, bool) {
	var err error
	switch in.Kind {
	case EventJoin:
		err = s.Join(in.Username, in.Room)
	case EventSendMessage:
		err = s.SendMessage(in.Text)
	case EventSendLocation:
		err = s.SendLocation(in.Latitude, in.Longitude)
	case EventDisconnect:
		s.Disconnect()
		return Ack{}, false
	default:
		err = fmt.Errorf("%w: unknown event %q", ErrInvalidInput, in.Kind)
	}

	ack := Ack{ID: in.ID}
	if err != nil {
		ack.Error = err.Error()
	}
	return ack, true
}
