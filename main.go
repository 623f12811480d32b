package main

import (
	"errors"
	"log"
	"net/http"
	"os"

	"tradebit/src/api"
	"tradebit/src/config"
	"tradebit/src/scheduler"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("./settings", os.Getenv("ENV"))
	if err != nil {
		log.Println(err, "Error while loading config")
		return
	}
	errC, err := run(cfg)
	if err != nil {
		log.Println(err, "Couldn't run")
		return
	}

	if err := <-errC; err != nil {
		log.Println(err, "Error while running")
	}
}

func run(cfg *config.Config) (<-chan error, error) {
	errC := make(chan error, 1)

	server, err := api.NewServer(cfg)
	if err != nil {
		return nil, err
	}
	httpServer := api.NewHTTPServer(cfg, server)

	if cfg.Sync.Schedule != "" {
		// The task runs for the process lifetime.
		if _, err := scheduler.NewDailyHoldingsSync(cfg.Sync.Schedule,
			server.SettingsRepo, server.SyncService, server.Logger); err != nil {
			return nil, err
		}
	}

	go func() {
		log.Println("Starting server on port", httpServer.Addr)

		// "ListenAndServe always returns a non-nil error. After Shutdown or Close, the returned error is
		// ErrServerClosed."
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Println("An error raised while setting up server", err)
			errC <- err
		}
	}()
	return errC, nil
}
