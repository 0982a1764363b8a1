package connector

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/outlinerhq/termbridge/internal/client/probe"
	"github.com/outlinerhq/termbridge/internal/infrastructure/logging"
	"github.com/outlinerhq/termbridge/internal/protocol"
)

// Config configures a Connector.
type Config struct {
	// ServerURL is the backend base URL, e.g. "http://127.0.0.1:3030".
	ServerURL string
	// HealthTimeout bounds the liveness probe. Defaults to 3s.
	HealthTimeout time.Duration
	// RetryInterval is the fixed delay between reconnect attempts.
	// Defaults to 5s.
	RetryInterval time.Duration
	// InitialViewport is the widget grid before the first recomputation.
	// Defaults to 80x24.
	InitialViewport Viewport

	Logger *logging.Logger

	// OnOutput receives remote output bytes, exactly as the process emitted
	// them.
	OnOutput func(data []byte)
	// OnStateChange is invoked on every transition, from the event loop.
	OnStateChange func(from, to State)
	// OnDiagnostic surfaces user-visible conditions (health failure, remote
	// errors) without affecting the state machine.
	OnDiagnostic func(msg string)
}

type eventKind int

const (
	evOpen eventKind = iota
	evClose
	evInput
	evViewport
	evProbeDone
	evDialDone
	evStreamFrame
	evStreamClosed
	evRetry
)

// event is one message on the connector's serialized loop. Exactly one
// payload field is meaningful per kind.
type event struct {
	kind     eventKind
	data     []byte
	viewport Viewport
	err      error
	conn     *websocket.Conn
	frame    protocol.Frame
	gen      uint64 // stream generation, guards against stale stream events
}

// Connector owns one terminal session's client-side connection.
type Connector struct {
	cfg    Config
	prober *probe.Prober
	dialer *websocket.Dialer
	wsURL  string
	log    *logging.Logger

	events  chan event
	stopped chan struct{}
	started atomic.Bool
	state   atomic.Int32

	// Loop-owned; touched only by the run goroutine.
	conn       *websocket.Conn
	gen        uint64
	viewport   Viewport
	retryTimer *time.Timer
}

// New creates a Connector. It does nothing until Open is called.
func New(cfg Config) (*Connector, error) {
	if cfg.HealthTimeout <= 0 {
		cfg.HealthTimeout = 3 * time.Second
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 5 * time.Second
	}
	if !cfg.InitialViewport.Valid() {
		cfg.InitialViewport = Viewport{Cols: 80, Rows: 24}
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}

	wsURL, err := streamURL(cfg.ServerURL)
	if err != nil {
		return nil, err
	}

	return &Connector{
		cfg:      cfg,
		prober:   probe.New(cfg.ServerURL, cfg.HealthTimeout),
		dialer:   &websocket.Dialer{HandshakeTimeout: cfg.HealthTimeout},
		wsURL:    wsURL,
		log:      cfg.Logger.Named("connector"),
		events:   make(chan event, 64),
		stopped:  make(chan struct{}),
		viewport: cfg.InitialViewport,
	}, nil
}

// streamURL derives the websocket endpoint from the HTTP base URL.
func streamURL(serverURL string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("invalid server url scheme %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/terminal"
	return u.String(), nil
}

// Open starts the session: the event loop begins and the connector moves
// from Disconnected to Probing.
func (c *Connector) Open() {
	if c.started.CompareAndSwap(false, true) {
		go c.run()
	}
	c.post(event{kind: evOpen})
}

// Close ends the session from any state: the live stream and any pending
// reconnect timer are torn down, and the connector settles in Disconnected.
// It blocks until the event loop has exited.
func (c *Connector) Close() {
	c.post(event{kind: evClose})
	if c.started.Load() {
		<-c.stopped
	}
}

// SendInput forwards raw input bytes. While not Connected the bytes are
// dropped silently — never buffered or replayed.
func (c *Connector) SendInput(data []byte) {
	buf := make([]byte, len(data))
	copy(buf, data)
	c.post(event{kind: evInput, data: buf})
}

// SetViewport records a recomputed viewport and, when Connected, dispatches
// a resize frame. A safe no-op in every other state.
func (c *Connector) SetViewport(cols, rows int) {
	c.post(event{kind: evViewport, viewport: Viewport{Cols: cols, Rows: rows}})
}

// State returns the current session state.
func (c *Connector) State() State {
	return State(c.state.Load())
}

// post delivers an event to the loop unless it has already stopped.
func (c *Connector) post(ev event) bool {
	select {
	case c.events <- ev:
		return true
	case <-c.stopped:
		return false
	}
}

// run is the single event loop. All state transitions happen here.
func (c *Connector) run() {
	defer close(c.stopped)

	for ev := range c.events {
		switch ev.kind {
		case evOpen:
			if c.State() == StateDisconnected {
				c.setState(StateProbing)
				c.startProbe()
			}

		case evClose:
			c.teardown()
			c.setState(StateDisconnected)
			return

		case evProbeDone:
			if c.State() != StateProbing {
				continue
			}
			if ev.err != nil {
				c.diagnostic("backend not ready: " + ev.err.Error())
				c.setState(StateDisconnected)
				continue
			}
			c.setState(StateConnecting)
			c.startDial()

		case evDialDone:
			if c.State() != StateConnecting {
				if ev.conn != nil {
					ev.conn.Close()
				}
				continue
			}
			if ev.err != nil {
				// The backend was healthy moments ago but the stream did not
				// open; treat it like a dropped stream and retry.
				c.diagnostic("stream open failed: " + ev.err.Error())
				c.enterReconnecting()
				continue
			}
			c.conn = ev.conn
			c.gen++
			c.setState(StateConnected)
			// Sync the remote pty with the local grid before any output is
			// drawn.
			if err := c.writeFrame(protocol.Resize(c.viewport.Cols, c.viewport.Rows)); err != nil {
				c.enterReconnecting()
				continue
			}
			go c.readStream(c.conn, c.gen)

		case evStreamFrame:
			if ev.gen != c.gen || c.State() != StateConnected {
				continue
			}
			c.handleFrame(ev.frame)

		case evStreamClosed:
			if ev.gen != c.gen || c.State() != StateConnected {
				continue
			}
			c.log.Debug("stream closed", zap.Error(ev.err))
			c.enterReconnecting()

		case evRetry:
			if c.State() != StateReconnecting {
				continue
			}
			c.retryTimer = nil
			c.setState(StateProbing)
			c.startProbe()

		case evInput:
			if c.State() != StateConnected {
				// Deliberate drop: stale keystrokes must not reach a fresh
				// shell after reconnect.
				continue
			}
			if err := c.writeFrame(protocol.Input(ev.data)); err != nil {
				c.enterReconnecting()
			}

		case evViewport:
			if !ev.viewport.Valid() {
				continue
			}
			c.viewport = ev.viewport
			if c.State() != StateConnected {
				continue
			}
			if err := c.writeFrame(protocol.Resize(ev.viewport.Cols, ev.viewport.Rows)); err != nil {
				c.enterReconnecting()
			}
		}
	}
}

// handleFrame processes one server frame while Connected.
func (c *Connector) handleFrame(frame protocol.Frame) {
	switch frame.Type {
	case protocol.TypeOutput:
		if c.cfg.OnOutput != nil {
			c.cfg.OnOutput(frame.Data)
		}
	case protocol.TypeError:
		// The server terminated the session (typically process exit).
		c.diagnostic("session ended: " + string(frame.Data))
		c.enterReconnecting()
	default:
		c.log.Warn("dropping unexpected frame type", zap.String("type", string(frame.Type)))
	}
}

// enterReconnecting tears down the stream and schedules the single retry
// timer.
func (c *Connector) enterReconnecting() {
	c.closeConn()
	c.setState(StateReconnecting)
	c.retryTimer = time.AfterFunc(c.cfg.RetryInterval, func() {
		c.post(event{kind: evRetry})
	})
}

// teardown cancels the pending retry timer and closes any live stream.
func (c *Connector) teardown() {
	if c.retryTimer != nil {
		c.retryTimer.Stop()
		c.retryTimer = nil
	}
	c.closeConn()
}

func (c *Connector) closeConn() {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

func (c *Connector) writeFrame(frame protocol.Frame) error {
	data, err := protocol.Encode(frame)
	if err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *Connector) setState(to State) {
	from := State(c.state.Swap(int32(to)))
	if from == to {
		return
	}
	c.log.Debug("state change",
		zap.String("from", from.String()),
		zap.String("to", to.String()),
	)
	if c.cfg.OnStateChange != nil {
		c.cfg.OnStateChange(from, to)
	}
}

func (c *Connector) diagnostic(msg string) {
	c.log.Info(msg)
	if c.cfg.OnDiagnostic != nil {
		c.cfg.OnDiagnostic(msg)
	}
}

// startProbe runs the health check off-loop and posts the result.
func (c *Connector) startProbe() {
	go func() {
		err := c.prober.Check(context.Background())
		c.post(event{kind: evProbeDone, err: err})
	}()
}

// startDial opens the stream off-loop and posts the result. If the loop has
// stopped meanwhile, the fresh connection is closed rather than leaked.
func (c *Connector) startDial() {
	go func() {
		conn, _, err := c.dialer.Dial(c.wsURL, nil)
		if !c.post(event{kind: evDialDone, conn: conn, err: err}) && conn != nil {
			conn.Close()
		}
	}()
}

// readStream pumps frames from one stream generation into the loop.
// Malformed frames are dropped here and logged; they never close the stream.
func (c *Connector) readStream(conn *websocket.Conn, gen uint64) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.post(event{kind: evStreamClosed, err: err, gen: gen})
			return
		}
		frame, err := protocol.Decode(data)
		if err != nil {
			c.log.Warn("dropping malformed frame", zap.Error(err))
			continue
		}
		c.post(event{kind: evStreamFrame, frame: frame, gen: gen})
	}
}
