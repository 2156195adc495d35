package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ignite/trello-agent/internal/api"
	"github.com/ignite/trello-agent/internal/app"
	"github.com/ignite/trello-agent/internal/config"
	"github.com/ignite/trello-agent/internal/pkg/logger"
)

// checkPortAvailable verifies that the target port is not already in use.
func checkPortAvailable(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("address %s is already in use: %w", addr, err)
	}
	ln.Close()
	return nil
}

func main() {
	configPath := "config/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		configPath = v
	}

	if err := run(configPath); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// run owns every resource opened at startup, so they are closed on all exit
// paths including a listener failure.
func run(configPath string) error {
	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		return fmt.Errorf("load config %s: %w", configPath, err)
	}

	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	defer a.Close()

	addr := cfg.Server.Addr()
	if err := checkPortAvailable(addr); err != nil {
		return fmt.Errorf("pre-flight check failed: %w", err)
	}

	handlers := api.NewHandlers(a.Service, a.Defaults(), a.Activity, cfg.Activity.Backend)
	server := api.NewServer(cfg.Server, handlers, cfg.CORS)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(done)

	logger.Info("starting server",
		"addr", server.Addr(),
		"trello_env", a.Service != nil,
		"activity_backend", cfg.Activity.Backend,
		"default_board", cfg.Defaults.Board,
		"default_list", cfg.Defaults.List)

	if err := serve(server, done); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

// serve blocks until a signal arrives on stop, then shuts the server down
// gracefully. A listener failure is returned as soon as it happens.
func serve(server *api.Server, stop <-chan os.Signal) error {
	errc := make(chan error, 1)
	go func() {
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
