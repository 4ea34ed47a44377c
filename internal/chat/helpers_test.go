package chat_test

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-portfolio/room-chat/internal/chat"
)

// recordingTransport — фейковый транспорт: запоминает всё, что Router отправил каждому соединению.
type recordingTransport struct {
	mu     sync.Mutex
	events map[string][]chat.Event
}

func newRecordingTransport() *recordingTransport {
	return &recordingTransport{events: make(map[string][]chat.Event)}
}

func (t *recordingTransport) Emit(connID string, event chat.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events[connID] = append(t.events[connID], event)
}

// For возвращает копию событий, доставленных соединению
func (t *recordingTransport) For(connID string) []chat.Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]chat.Event(nil), t.events[connID]...)
}

func (t *recordingTransport) Total() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, evs := range t.events {
		n += len(evs)
	}
	return n
}

func (t *recordingTransport) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = make(map[string][]chat.Event)
}

// fakePublisher — фейковая шина событий присутствия
type fakePublisher struct {
	mu     sync.Mutex
	events []chat.PresenceEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, event chat.PresenceEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

var fixedNow = time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

type fixture struct {
	registry  *chat.Registry
	transport *recordingTransport
	router    *chat.Router
	presence  *chat.Presence
	events    *fakePublisher
}

// newFixture собирает ядро чата на фейковом транспорте с фиксированными часами.
// Профанным считается любое сообщение со словом "darn".
func newFixture() *fixture {
	registry := chat.NewRegistry()
	transport := newRecordingTransport()
	profanity := chat.ProfanityFunc(func(text string) bool {
		return strings.Contains(strings.ToLower(text), "darn")
	})
	router := chat.NewRouter(registry, transport, profanity, chat.RouterConfig{MaxMessageLength: 200})
	router.SetClock(func() time.Time { return fixedNow })
	events := &fakePublisher{}
	presence := chat.NewPresence(registry, router, chat.PresenceConfig{
		MaxUsernameLength: 24,
		MaxRoomLength:     64,
		Events:            events,
	})
	return &fixture{
		registry:  registry,
		transport: transport,
		router:    router,
		presence:  presence,
		events:    events,
	}
}

func (f *fixture) session(connID string) *chat.Session {
	return chat.NewSession(connID, "", f.presence, f.router)
}

// usernames достаёт имена из ростера
func usernames(data chat.RoomData) []string {
	names := make([]string, 0, len(data.Users))
	for _, m := range data.Users {
		names = append(names, m.Username)
	}
	return names
}

// lastRoomData возвращает последний ростер, полученный соединением
func lastRoomData(events []chat.Event) (chat.RoomData, bool) {
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Kind == chat.EventRoomData {
			return events[i].Data.(chat.RoomData), true
		}
	}
	return chat.RoomData{}, false
}

// messages отбирает текстовые сообщения
func messages(events []chat.Event) []chat.Message {
	var out []chat.Message
	for _, ev := range events {
		if ev.Kind == chat.EventMessage {
			out = append(out, ev.Data.(chat.Message))
		}
	}
	return out
}
