package web

import (
	"log"
	"net/http"

	"github.com/go-portfolio/room-chat/internal/chat"
	"github.com/google/uuid"
)

// =========================
// ChatConnectionHandler
// GET /ws
// Комнату клиент выбирает сам событием join, поэтому здесь только upgrade и регистрация.
// =========================
func (s *Server) ChatConnectionHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	connID := uuid.New().String()
	session := chat.NewSession(connID, AccountFromContext(r.Context()), s.deps.Presence, s.deps.Router)
	client := chat.NewClient(s.deps.Hub, conn, session, r.RemoteAddr, s.opts.Client)

	// насосы запускает Hub после регистрации
	s.deps.Hub.Register(client)
}
