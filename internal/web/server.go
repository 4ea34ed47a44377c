package web

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"

	"github.com/go-portfolio/room-chat/internal/auth"
	"github.com/go-portfolio/room-chat/internal/chat"
	"github.com/go-portfolio/room-chat/internal/user"
	"github.com/gorilla/websocket"
)

// CookieName — имя cookie с JWT
const CookieName = "auth"

//go:embed static
var staticFiles embed.FS

// Deps — сервисы, которые нужны HTTP-слою
type Deps struct {
	Hub      *chat.Hub
	Registry *chat.Registry
	Presence *chat.Presence
	Router   *chat.Router
	Users    user.UserStore
	Tokens   *auth.Manager
}

// Options — настройки HTTP-слоя
type Options struct {
	AuthRequired   bool     // /ws только для вошедших пользователей
	AllowedOrigins []string // пусто — любые источники
	Client         chat.ClientConfig
}

// Server — HTTP-обработчики чата: API аккаунтов, WebSocket и статика.
type Server struct {
	deps     Deps
	opts     Options
	origins  map[string]struct{}
	upgrader websocket.Upgrader
}

// NewServer создаёт Server
func NewServer(deps Deps, opts Options) *Server {
	s := &Server{
		deps:    deps,
		opts:    opts,
		origins: make(map[string]struct{}, len(opts.AllowedOrigins)),
	}
	for _, o := range opts.AllowedOrigins {
		s.origins[strings.ToLower(strings.TrimRight(o, "/"))] = struct{}{}
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// Routes возвращает маршруты приложения
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	// API аккаунтов
	mux.HandleFunc("POST /api/register", s.RegisterHandler)
	mux.HandleFunc("POST /api/login", s.LoginHandler)
	mux.HandleFunc("POST /api/logout", s.LogoutHandler)

	// служебное
	mux.HandleFunc("GET /healthz", s.HealthHandler)

	// список комнат и WebSocket: при AUTH_REQUIRED нужен токен
	withAuth := s.AuthMiddleware(s.opts.AuthRequired)
	mux.Handle("GET /api/rooms", withAuth(http.HandlerFunc(s.RoomsHandler)))
	mux.Handle("GET /ws", withAuth(http.HandlerFunc(s.ChatConnectionHandler)))

	// фронт
	static, _ := fs.Sub(staticFiles, "static")
	mux.Handle("GET /", http.FileServer(http.FS(static)))

	return mux
}

// checkOrigin пропускает запросы без Origin (не браузер) и источники из списка
func (s *Server) checkOrigin(r *http.Request) bool {
	if len(s.origins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	_, ok := s.origins[strings.ToLower(strings.TrimRight(origin, "/"))]
	return ok
}
