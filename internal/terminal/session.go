package terminal

import (
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/creack/pty"

	"github.com/outlinerhq/termbridge/internal/shared/id"
)

// Config controls the process spawned for a session.
type Config struct {
	// Shell is the program to spawn. Empty means probe $SHELL, then
	// /bin/bash, then /bin/sh.
	Shell      string
	WorkingDir string
	Term       string // TERM value, defaults to xterm-256color
	Cols       int    // initial geometry, defaults to 80x24
	Rows       int
}

// Session is one pty-backed shell process.
type Session struct {
	ID        id.SessionID
	Shell     string
	StartedAt time.Time

	cmd  *exec.Cmd
	ptmx *os.File

	// geoMu serializes resize application against output forwarding.
	geoMu sync.RWMutex
	cols  int
	rows  int

	ptyOnce sync.Once
	done    chan struct{}
	exitErr error // valid after done is closed

	mu     sync.Mutex
	closed bool
}

// Start spawns a shell on a fresh pty with the given geometry.
func Start(cfg Config) (*Session, error) {
	shell, err := resolveShell(cfg.Shell)
	if err != nil {
		return nil, err
	}

	cols, rows := cfg.Cols, cfg.Rows
	if cols < 1 {
		cols = 80
	}
	if rows < 1 {
		rows = 24
	}
	term := cfg.Term
	if term == "" {
		term = "xterm-256color"
	}

	cmd := exec.Command(shell)
	if cfg.WorkingDir != "" {
		cmd.Dir = cfg.WorkingDir
	}
	cmd.Env = append(os.Environ(), "TERM="+term)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Cols: uint16(cols),
		Rows: uint16(rows),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start pty: %w", err)
	}

	s := &Session{
		ID:        id.NewSessionID(),
		Shell:     shell,
		StartedAt: time.Now(),
		cmd:       cmd,
		ptmx:      ptmx,
		cols:      cols,
		rows:      rows,
		done:      make(chan struct{}),
	}

	go s.monitor()

	return s, nil
}

// monitor waits for the process to exit, then releases the pty so readers
// unblock and Done fires.
func (s *Session) monitor() {
	s.exitErr = s.cmd.Wait()
	s.closePty()
	close(s.done)
}

// ReadOutput reads the next available chunk of process output. The returned
// chunk is only handed over once no resize is in flight, so a caller
// forwarding chunks observes resize-then-output causal ordering.
func (s *Session) ReadOutput(p []byte) (int, error) {
	n, err := s.ptmx.Read(p)

	s.geoMu.RLock()
	s.geoMu.RUnlock() //nolint:staticcheck // gate only; no state read under the lock

	return n, err
}

// WriteInput forwards raw input bytes to the process.
func (s *Session) WriteInput(p []byte) (int, error) {
	return s.ptmx.Write(p)
}

// Resize applies a new pty geometry. Output forwarding is held off until the
// new size is in effect.
func (s *Session) Resize(cols, rows int) error {
	if cols < 1 || rows < 1 {
		return fmt.Errorf("invalid geometry %dx%d", cols, rows)
	}

	s.geoMu.Lock()
	defer s.geoMu.Unlock()

	if err := pty.Setsize(s.ptmx, &pty.Winsize{
		Cols: uint16(cols),
		Rows: uint16(rows),
	}); err != nil {
		return fmt.Errorf("resize pty: %w", err)
	}

	s.cols = cols
	s.rows = rows
	return nil
}

// Size returns the current pty geometry.
func (s *Session) Size() (cols, rows int) {
	s.geoMu.RLock()
	defer s.geoMu.RUnlock()
	return s.cols, s.rows
}

// Done is closed once the process has exited and the pty is released.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// ExitState describes how the process ended. Only meaningful after Done.
func (s *Session) ExitState() string {
	select {
	case <-s.done:
	default:
		return "running"
	}
	if s.exitErr != nil {
		return s.exitErr.Error()
	}
	return "exit status 0"
}

// Close kills the process and releases the pty. Safe to call from any exit
// path, any number of times.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
	s.closePty()
	return nil
}

func (s *Session) closePty() {
	s.ptyOnce.Do(func() {
		s.ptmx.Close()
	})
}

// resolveShell picks the shell program to spawn.
func resolveShell(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	if env := os.Getenv("SHELL"); env != "" {
		return env, nil
	}
	for _, sh := range []string{"/bin/bash", "/bin/sh"} {
		if _, err := os.Stat(sh); err == nil {
			return sh, nil
		}
	}
	return "", fmt.Errorf("no shell found")
}
