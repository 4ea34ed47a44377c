package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-portfolio/room-chat/config"
	"github.com/go-portfolio/room-chat/internal/auth"
	"github.com/go-portfolio/room-chat/internal/broker"
	"github.com/go-portfolio/room-chat/internal/chat"
	"github.com/go-portfolio/room-chat/internal/filter"
	"github.com/go-portfolio/room-chat/internal/user"
	"github.com/go-portfolio/room-chat/internal/web"
	"golang.org/x/time/rate"
)

// App собирает все части сервиса из конфигурации
type App struct {
	Server   *http.Server
	Hub      *chat.Hub
	Registry *chat.Registry

	users     user.UserStore
	events    *broker.NatsPublisher // nil, если NATS_URL не задан
	cancelHub context.CancelFunc
}

func New(cfg *config.Config) (*App, error) {
	// Хранилище аккаунтов: Postgres, если задан DATABASE_URL, иначе память
	var users user.UserStore
	if cfg.DatabaseURL != "" {
		store, err := user.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to init user store: %w", err)
		}
		users = store
		log.Println("using Postgres user store")
	} else {
		users = user.NewMemoryStore()
		log.Println("DATABASE_URL not set, using in-memory user store")
	}

	// Шина событий присутствия (необязательная)
	var (
		events    *broker.NatsPublisher
		publisher chat.EventPublisher
	)
	if cfg.NatsURL != "" {
		p, err := broker.NewNatsPublisher(cfg.NatsURL, cfg.NatsSubjectPrefix)
		if err != nil {
			_ = users.Close()
			return nil, err
		}
		events, publisher = p, p
		log.Printf("publishing presence events to %s.*", cfg.NatsSubjectPrefix)
	}

	// Ядро чата
	registry := chat.NewRegistry()
	hub := chat.NewHub()
	router := chat.NewRouter(registry, hub, filter.New(cfg.BannedWords), chat.RouterConfig{
		MaxMessageLength: cfg.MaxMessageLength,
	})
	presence := chat.NewPresence(registry, router, chat.PresenceConfig{
		MaxUsernameLength: cfg.MaxUsernameLength,
		MaxRoomLength:     cfg.MaxRoomLength,
		Events:            publisher,
	})

	// HTTP
	srv := web.NewServer(web.Deps{
		Hub:      hub,
		Registry: registry,
		Presence: presence,
		Router:   router,
		Users:    users,
		Tokens:   auth.NewManager([]byte(cfg.JWTSecret), auth.DefaultTTL),
	}, web.Options{
		AuthRequired:   cfg.AuthRequired,
		AllowedOrigins: cfg.AllowedOrigins,
		Client: chat.ClientConfig{
			MaxFrameSize: cfg.MaxFrameSize,
			RateLimit:    rate.Limit(cfg.RateLimitPerSecond),
			RateBurst:    cfg.RateLimitBurst,
		},
	})

	return &App{
		Server: &http.Server{
			Addr:              cfg.Addr,
			Handler:           srv.Routes(),
			ReadHeaderTimeout: 10 * time.Second,
		},
		Hub:      hub,
		Registry: registry,
		users:    users,
		events:   events,
	}, nil
}

// Start запускает Hub и HTTP-сервер. Ошибка запуска сервера приходит в возвращаемый канал.
func (a *App) Start() <-chan error {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancelHub = cancel
	go a.Hub.Run(ctx) // главный цикл Hub работает в отдельной горутине

	errs := make(chan error, 1)
	go func() {
		log.Printf("Server listening on %s", a.Server.Addr)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()
	return errs
}

// Stop останавливает сервис: сначала новые подключения, потом живые соединения,
// затем внешние зависимости.
func (a *App) Stop(ctx context.Context) error {
	var errs []error

	if err := a.Server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}

	// WebSocket-соединения захвачены у http.Server, их закрывает Hub
	if a.cancelHub != nil {
		a.cancelHub()
		if err := a.Hub.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("hub shutdown: %w", err))
		}
	}

	if a.events != nil {
		if err := a.events.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("nats close: %w", err))
		}
	}

	if err := a.users.Close(); err != nil {
		errs = append(errs, fmt.Errorf("user store close: %w", err))
	}
	return errors.Join(errs...)
}
