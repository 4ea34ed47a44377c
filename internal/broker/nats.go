package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-portfolio/room-chat/internal/chat"
	"github.com/nats-io/nats.go"
)

// NatsPublisher рассылает события присутствия (вход/выход) в NATS,
// чтобы на них могли подписаться другие сервисы. Состояние чата в NATS не хранится.
type NatsPublisher struct {
	nc     *nats.Conn
	prefix string
}

var _ chat.EventPublisher = (*NatsPublisher)(nil)

// NewNatsPublisher подключается к NATS по url.
func NewNatsPublisher(url, prefix string) (*NatsPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("room-chat"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Printf("nats disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("nats reconnected to %s", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	if prefix == "" {
		prefix = "chat.presence"
	}
	return &NatsPublisher{nc: nc, prefix: prefix}, nil
}

// Publish отправляет событие в subject "<prefix>.<комната>".
func (p *NatsPublisher) Publish(ctx context.Context, event chat.PresenceEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal presence event: %w", err)
	}
	subject := Subject(p.prefix, event.Room)
	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish to subject '%s': %w", subject, err)
	}
	return nil
}

// Close дожидается отправки буфера и закрывает соединение
func (p *NatsPublisher) Close(ctx context.Context) error {
	if p.nc == nil || p.nc.IsClosed() {
		return nil
	}
	if err := p.nc.Drain(); err != nil {
		p.nc.Close()
		return fmt.Errorf("failed to drain NATS connection: %w", err)
	}
	for !p.nc.IsClosed() {
		select {
		case <-ctx.Done():
			p.nc.Close()
			return ctx.Err()
		case <-time.After(20 * time.Millisecond):
		}
	}
	return nil
}

// Subject строит subject для комнаты. Имя комнаты приводится к нижнему регистру,
// символы, недопустимые в токене NATS, заменяются на "_".
func Subject(prefix, room string) string {
	token := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, strings.ToLower(strings.TrimSpace(room)))
	if token == "" {
		token = "_"
	}
	return prefix + "." + token
}
