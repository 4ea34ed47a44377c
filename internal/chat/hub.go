package chat

import (
	"context"
	"log"
	"sync"
)

// Hub — транспорт поверх WebSocket: хранит живые соединения по connID
// и реализует Transport. О комнатах ничего не знает — получателей выбирает Router.
type Hub struct {
	clients    map[string]*Client // connID -> клиент
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
	wg         sync.WaitGroup
}

var _ Transport = (*Hub)(nil)

// NewHub создаёт Hub. Главный цикл запускается через Run.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Главный цикл Hub. Завершается при отмене ctx, закрывая все соединения.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID()] = client
			count := len(h.clients)
			h.mu.Unlock()
			log.Printf("client %s connected from %s. Total clients: %d", client.ID(), client.addr, count)

			// насосы стартуют только после регистрации, иначе ранние события потеряются
			h.wg.Add(2)
			go func() {
				defer h.wg.Done()
				client.writePump()
			}()
			go func() {
				defer h.wg.Done()
				client.readPump()
			}()

		case client := <-h.unregister:
			if h.remove(client) {
				log.Printf("client %s disconnected. Total clients: %d", client.ID(), h.ClientCount())
			}
		}
	}
}

// Register передаёт клиента в главный цикл. После остановки Hub соединение просто закрывается.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		_ = client.conn.Close()
	}
}

// Unregister удаляет клиента. Безопасно вызывать повторно и после остановки Hub.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Emit кладёт событие в очередь клиента, не блокируясь.
// Если буфер переполнен, событие отбрасывается.
func (h *Hub) Emit(connID string, event Event) {
	h.deliver(connID, outboundFrame{Event: event.Kind, Data: event.Data})
}

// Ack отправляет результат операции соединению.
func (h *Hub) Ack(connID string, ack Ack) {
	h.deliver(connID, outboundFrame{Event: EventAck, ID: ack.ID, Error: ack.Error})
}

func (h *Hub) deliver(connID string, frame outboundFrame) {
	// RLock держится на всё время отправки, чтобы канал не закрыли посреди неё
	h.mu.RLock()
	defer h.mu.RUnlock()

	client, ok := h.clients[connID]
	if !ok {
		return
	}
	select {
	case client.send <- frame:
	default:
		log.Printf("send buffer full for client %s; dropping %s event", connID, frame.Event)
	}
}

// remove удаляет клиента и закрывает его канал отправки.
func (h *Hub) remove(client *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if current, ok := h.clients[client.ID()]; !ok || current != client {
		return false
	}
	delete(h.clients, client.ID())
	close(client.send)
	return true
}

// ClientCount — число живых соединений
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for id, client := range h.clients {
		delete(h.clients, id)
		close(client.send)
		clients = append(clients, client)
	}
	h.mu.Unlock()

	for _, client := range clients {
		if err := client.conn.Close(); err != nil && !isExpectedCloseError(err) {
			log.Printf("error closing connection %s: %v", client.ID(), err)
		}
	}
	log.Printf("closed %d client connections", len(clients))
}

// Shutdown ждёт завершения главного цикла и всех насосов.
// Сам цикл останавливается отменой контекста, переданного в Run.
func (h *Hub) Shutdown(ctx context.Context) error {
	select {
	case <-h.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	finished := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		log.Println("hub shutdown completed")
		return nil
	case <-ctx.Done():
		log.Println("hub shutdown timeout reached, some connections may still be open")
		return ctx.Err()
	}
}
