package chat

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// PresenceConfig — ограничения на имя и комнату плюс необязательная шина событий
type PresenceConfig struct {
	MaxUsernameLength int // в рунах; 0 — без ограничения
	MaxRoomLength     int
	Events            EventPublisher
}

// Presence реализует протокол входа/выхода поверх Registry.
// Состояния соединения: не в комнате -> в комнате -> вышел (конечное).
type Presence struct {
	// mu упорядочивает изменение реестра вместе с рассылкой ростера,
	// иначе участник может получить устаревший снимок последним
	mu sync.Mutex

	registry    *Registry
	router      *Router
	events      EventPublisher
	maxUsername int
	maxRoom     int
}

// NewPresence создаёт протокол присутствия.
func NewPresence(registry *Registry, router *Router, cfg PresenceConfig) *Presence {
	return &Presence{
		registry:    registry,
		router:      router,
		events:      cfg.Events,
		maxUsername: cfg.MaxUsernameLength,
		maxRoom:     cfg.MaxRoomLength,
	}
}

// Join добавляет соединение в комнату.
//
// Порядок важен:
//  1. запись в реестр (иначе вошедший не увидит себя в ростере);
//  2. приветствие только вошедшему;
//  3. объявление остальным участникам;
//  4. ростер всем, включая вошедшего.
func (p *Presence) Join(connID, username, room string) (User, error) {
	username = strings.TrimSpace(username)
	room = strings.TrimSpace(room)

	if username == "" || room == "" {
		return User{}, fmt.Errorf("%w: username and room are required", ErrInvalidInput)
	}
	if p.maxUsername > 0 && utf8.RuneCountInString(username) > p.maxUsername {
		return User{}, fmt.Errorf("%w: username too long (max %d)", ErrInvalidInput, p.maxUsername)
	}
	if p.maxRoom > 0 && utf8.RuneCountInString(room) > p.maxRoom {
		return User{}, fmt.Errorf("%w: room name too long (max %d)", ErrInvalidInput, p.maxRoom)
	}

	p.mu.Lock()
	user, err := p.registry.Insert(connID, username, room)
	if err != nil {
		p.mu.Unlock()
		return User{}, err
	}
	p.router.Notify(connID, "Welcome!")
	p.router.Announce(user.Room, connID, user.Username+" has joined")
	p.router.SendRoomData(user.Room)
	p.mu.Unlock()

	log.Printf("%s joined room %q", user.Username, user.Room)
	p.publish(PresenceJoined, user)
	return user, nil
}

// Leave удаляет соединение из реестра и сообщает об этом оставшимся.
// Для соединения, которое не входило в комнату (или уже вышло), ничего не происходит.
func (p *Presence) Leave(connID string) (User, bool) {
	p.mu.Lock()
	user, ok := p.registry.Remove(connID)
	if !ok {
		p.mu.Unlock()
		return User{}, false
	}
	// если комната опустела, получателей просто нет
	p.router.Announce(user.Room, "", user.Username+" has left!")
	p.router.SendRoomData(user.Room)
	p.mu.Unlock()

	log.Printf("%s left room %q", user.Username, user.Room)
	p.publish(PresenceLeft, user)
	return user, true
}

func (p *Presence) publish(kind string, user User) {
	if p.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	event := PresenceEvent{
		Type:       kind,
		Room:       user.Room,
		Username:   user.Username,
		OccurredAt: time.Now().UTC(),
	}
	if err := p.events.Publish(ctx, event); err != nil {
		log.Printf("presence event publish failed: %v", err)
	}
}
