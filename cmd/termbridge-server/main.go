// Command termbridge-server runs the terminal session multiplexer: a health
// endpoint for client probes and a websocket stream that binds each
// connection to its own pty-backed shell.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/outlinerhq/termbridge/internal/infrastructure/config"
	"github.com/outlinerhq/termbridge/internal/infrastructure/logging"
	"github.com/outlinerhq/termbridge/internal/server"
)

func main() {
	cfg := config.LoadOrDefault()

	host := flag.String("host", cfg.Server.Host, "Listen host")
	port := flag.String("port", cfg.Server.Port, "Listen port")
	shell := flag.String("shell", cfg.Shell.Command, "Shell to spawn per session (default: $SHELL)")
	flag.Parse()

	cfg.Server.Host = *host
	cfg.Server.Port = *port
	cfg.Shell.Command = *shell

	logger := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	defer logger.Sync()

	srv := server.New(cfg, logger.Named("server"))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Run(); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-sigChan:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	case err := <-errChan:
		log.Fatalf("server error: %v", err)
	}
}
