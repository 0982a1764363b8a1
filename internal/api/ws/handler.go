package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/outlinerhq/termbridge/internal/infrastructure/logging"
	"github.com/outlinerhq/termbridge/internal/infrastructure/monitoring"
	"github.com/outlinerhq/termbridge/internal/protocol"
	"github.com/outlinerhq/termbridge/internal/terminal"
)

const (
	dirClientToServer = "client_to_server"
	dirServerToClient = "server_to_client"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Authentication/origin policy sits outside this protocol
	},
}

// Handler multiplexes terminal sessions over websocket connections.
type Handler struct {
	shell   terminal.Config
	tracker *terminal.Tracker
	metrics *monitoring.Metrics
	logger  *logging.Logger
}

// NewHandler creates a websocket terminal handler. The shell config's
// geometry fields are ignored; sessions start at 80x24 until the client's
// first resize frame arrives.
func NewHandler(shell terminal.Config, tracker *terminal.Tracker, metrics *monitoring.Metrics, logger *logging.Logger) *Handler {
	return &Handler{
		shell:   shell,
		tracker: tracker,
		metrics: metrics,
		logger:  logger.Named("ws"),
	}
}

// HandleTerminal upgrades the connection and services one terminal session
// until either side goes away.
func (h *Handler) HandleTerminal(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	sess, err := terminal.Start(h.shell)
	if err != nil {
		h.logger.Error("failed to start session", zap.Error(err))
		h.writeFrame(conn, protocol.Error("failed to start shell: "+err.Error()))
		return
	}
	defer sess.Close()

	h.tracker.Add(sess)
	h.metrics.SessionStarted()
	defer func() {
		h.tracker.Remove(sess)
		h.metrics.SessionEnded()
	}()

	log := h.logger.With(zap.String("session_id", sess.ID.String()))
	log.Info("session started", zap.String("shell", sess.Shell))
	defer log.Info("session closed")

	outputDone := make(chan struct{})
	go h.pumpOutput(conn, sess, outputDone)

	inputDone := make(chan struct{})
	go h.pumpInput(conn, sess, log, inputDone)

	select {
	case <-inputDone:
		// Client connection gone; deferred Close kills the process.
	case <-outputDone:
		// Output write failed; connection is dead.
	case <-sess.Done():
		// Process exited. Flush remaining output, then tell the client why
		// before closing so it deterministically enters reconnect.
		<-outputDone
		h.writeFrame(conn, protocol.Error("process exited: "+sess.ExitState()))
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
	}
}

// pumpOutput forwards pty output to the connection as output frames,
// preserving chunk order.
func (h *Handler) pumpOutput(conn *websocket.Conn, sess *terminal.Session, done chan<- struct{}) {
	defer close(done)

	buf := make([]byte, 4096)
	for {
		n, err := sess.ReadOutput(buf)
		if n > 0 {
			if werr := h.writeFrame(conn, protocol.Output(buf[:n])); werr != nil {
				return
			}
			h.metrics.RecordFrame(string(protocol.TypeOutput), dirServerToClient, n)
		}
		if err != nil {
			return
		}
	}
}

// pumpInput forwards decoded client frames to the pty in arrival order.
func (h *Handler) pumpInput(conn *websocket.Conn, sess *terminal.Session, log *logging.Logger, done chan<- struct{}) {
	defer close(done)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		frame, err := protocol.Decode(data)
		if err != nil {
			log.Warn("dropping malformed frame", zap.Error(err))
			h.metrics.FramesDropped.Inc()
			continue
		}

		switch frame.Type {
		case protocol.TypeInput:
			if _, err := sess.WriteInput(frame.Data); err != nil {
				log.Warn("pty write failed", zap.Error(err))
				return
			}
			h.metrics.RecordFrame(string(protocol.TypeInput), dirClientToServer, len(frame.Data))
		case protocol.TypeResize:
			if err := sess.Resize(frame.Cols, frame.Rows); err != nil {
				log.Warn("resize failed", zap.Error(err))
				continue
			}
			h.metrics.RecordFrame(string(protocol.TypeResize), dirClientToServer, 0)
			log.Debug("resized", zap.Int("cols", frame.Cols), zap.Int("rows", frame.Rows))
		default:
			// Output/error frames are server→client only.
			log.Warn("dropping unexpected frame type", zap.String("type", string(frame.Type)))
			h.metrics.FramesDropped.Inc()
		}
	}
}

func (h *Handler) writeFrame(conn *websocket.Conn, frame protocol.Frame) error {
	data, err := protocol.Encode(frame)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}
