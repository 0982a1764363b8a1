// Command termbridge attaches the local console to a remote shell served by
// termbridge-server. It probes the backend, opens the stream, and keeps the
// session alive across drops until the user detaches with Ctrl-].
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/outlinerhq/termbridge/internal/client/connector"
	"github.com/outlinerhq/termbridge/internal/client/termui"
	"github.com/outlinerhq/termbridge/internal/infrastructure/config"
	"github.com/outlinerhq/termbridge/internal/infrastructure/logging"
)

func main() {
	cfg := config.LoadOrDefault()

	serverURL := flag.String("server", cfg.Client.ServerURL, "Backend base URL")
	retry := flag.Duration("retry", cfg.Client.RetryInterval, "Delay between reconnect attempts")
	verbose := flag.Bool("v", false, "Log state transitions to stderr")
	flag.Parse()

	logger := logging.NewNop()
	if *verbose {
		logger = logging.New(logging.Config{Level: "debug", Development: true})
	}
	defer logger.Sync()

	done := make(chan struct{})
	var doneOnce sync.Once
	finish := func() { doneOnce.Do(func() { close(done) }) }

	// The adapter and connector reference each other through closures, so the
	// connector variable is bound before the adapter handlers can fire.
	var conn *connector.Connector

	adapter := termui.NewConsole(termui.Handlers{
		OnInput:  func(data []byte) { conn.SendInput(data) },
		OnResize: func(cols, rows int) { conn.SetViewport(cols, rows) },
		OnClose:  finish,
	})

	cols, rows := adapter.Viewport()

	conn, err := connector.New(connector.Config{
		ServerURL:       *serverURL,
		HealthTimeout:   cfg.Client.HealthTimeout,
		RetryInterval:   *retry,
		InitialViewport: connector.Viewport{Cols: cols, Rows: rows},
		Logger:          logger,
		OnOutput: func(data []byte) {
			adapter.Write(data)
		},
		OnStateChange: func(from, to connector.State) {
			switch to {
			case connector.StateReconnecting:
				status(adapter, "connection lost, retrying every "+retry.String())
			case connector.StateConnected:
				if from == connector.StateReconnecting {
					status(adapter, "reconnected")
				}
			case connector.StateDisconnected:
				// Terminal state outside an explicit Close means the probe
				// failed; the diagnostic already said why.
				finish()
			}
		},
		OnDiagnostic: func(msg string) {
			status(adapter, msg)
		},
	})
	if err != nil {
		log.Fatalf("termbridge: %v", err)
	}

	if err := adapter.Start(); err != nil {
		log.Fatalf("termbridge: %v", err)
	}
	defer adapter.Stop()

	status(adapter, "connecting to "+*serverURL+" (Ctrl-] to detach)")
	conn.Open()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
	case <-sigChan:
	}

	conn.Close()
	adapter.Stop()
	fmt.Print("\r\n")
}

// status prints a one-line notice without disturbing the raw byte stream
// around it. In raw mode the cursor may sit mid-line, so lead with CR+LF.
func status(a *termui.Adapter, msg string) {
	a.Write([]byte("\r\n[termbridge] " + msg + "\r\n"))
}
