package web

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-portfolio/room-chat/internal/user"
)

// =========================
// Регистрация пользователя
// POST /api/register
// тело JSON { "username": "...", "password": "..." }
// =========================
func (s *Server) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var cred user.Credentials
	if err := json.NewDecoder(r.Body).Decode(&cred); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := s.deps.Users.Register(cred.Username, cred.Password); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, user.ErrUserExists) {
			status = http.StatusConflict
		}
		writeError(w, status, err.Error())
		return
	}

	log.Printf("user %q registered", strings.TrimSpace(cred.Username))
	writeJSON(w, http.StatusOK, map[string]string{"status": "registered"})
}

// =========================
// Логин пользователя
// POST /api/login
// тело JSON { "username": "...", "password": "..." }
// Токен кладётся в cookie и дублируется в ответе для не-браузерных клиентов.
// =========================
func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var cred user.Credentials
	if err := json.NewDecoder(r.Body).Decode(&cred); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	username := strings.TrimSpace(cred.Username)

	if !s.deps.Users.Authenticate(username, cred.Password) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := s.deps.Tokens.Issue(username)
	if err != nil {
		log.Printf("failed to issue token for %q: %v", username, err)
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true, // недоступно JS
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.deps.Tokens.TTL().Seconds()),
	})

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "username": username, "token": token})
}

// POST /api/logout — стирает cookie
func (s *Server) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /api/rooms — активные комнаты и число участников
func (s *Server) RoomsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"rooms":   s.deps.Registry.Rooms(),
		"clients": s.deps.Hub.ClientCount(),
	})
}

// GET /healthz
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
