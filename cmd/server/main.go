package main

import (
	"context"
	"log"
	"os"

	"github.com/go-portfolio/room-chat/config"
	"github.com/go-portfolio/room-chat/internal/app"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/joho/godotenv"
)

func main() {
	// Локально читаем .env, в продакшене переменные берутся из окружения
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}
	cfg := config.Load()

	a, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to init app: %v", err)
	}

	errs := a.Start()
	go func() {
		if err := <-errs; err != nil {
			log.Fatalf("server error: %v", err) // Завершаем при ошибке запуска сервера
		}
	}()

	// Останавливаемся по SIGINT/SIGTERM
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"room-chat": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return a.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Server exited with code: %d", exitCode)
	os.Exit(exitCode)
}
