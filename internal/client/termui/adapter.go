// Package termui adapts the local console to the terminal bridge: it renders
// remote output bytes verbatim, captures raw key and paste input, and tracks
// the viewport (cols x rows) that fits the current window.
package termui

import (
	"bytes"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/term"
)

// EscapeByte detaches the session, telnet-style (Ctrl-]). It is consumed
// locally and never forwarded.
const EscapeByte = 0x1d

// Handlers receive adapter events.
type Handlers struct {
	// OnInput receives raw input bytes exactly as typed or pasted.
	OnInput func(data []byte)
	// OnResize receives the recomputed viewport after a window change.
	OnResize func(cols, rows int)
	// OnClose fires once when the user detaches or input ends.
	OnClose func()
}

// Adapter bridges an input/output pair to the session connector. With a real
// tty it switches to raw mode and watches window size changes; with plain
// readers/writers (tests) it just pumps bytes.
type Adapter struct {
	in       io.Reader
	out      io.Writer
	fd       int
	isTTY    bool
	handlers Handlers

	oldState  *term.State
	winch     chan os.Signal
	stop      chan struct{}
	closeOnce sync.Once
	mu        sync.Mutex // guards out
}

// NewConsole creates an adapter over the process's stdin/stdout.
func NewConsole(handlers Handlers) *Adapter {
	fd := int(os.Stdin.Fd())
	return &Adapter{
		in:       os.Stdin,
		out:      os.Stdout,
		fd:       fd,
		isTTY:    term.IsTerminal(fd),
		handlers: handlers,
		stop:     make(chan struct{}),
	}
}

// NewWithIO creates an adapter over arbitrary streams. Used in tests.
func NewWithIO(in io.Reader, out io.Writer, handlers Handlers) *Adapter {
	return &Adapter{
		in:       in,
		out:      out,
		handlers: handlers,
		stop:     make(chan struct{}),
	}
}

// Start switches a tty to raw mode and begins pumping input and window-size
// events.
func (a *Adapter) Start() error {
	if a.isTTY {
		state, err := term.MakeRaw(a.fd)
		if err != nil {
			return err
		}
		a.oldState = state

		a.winch = make(chan os.Signal, 1)
		signal.Notify(a.winch, syscall.SIGWINCH)
		go a.watchResize()
	}

	go a.readInput()
	return nil
}

// Stop restores the terminal and stops event pumps. Safe to call more than
// once.
func (a *Adapter) Stop() {
	a.closeOnce.Do(func() {
		close(a.stop)
		if a.winch != nil {
			signal.Stop(a.winch)
		}
		if a.oldState != nil {
			term.Restore(a.fd, a.oldState)
		}
	})
}

// Viewport computes the character grid that fits the current window. Both
// dimensions are always at least one cell; a non-tty adapter reports 80x24.
func (a *Adapter) Viewport() (cols, rows int) {
	if a.isTTY {
		if c, r, err := term.GetSize(a.fd); err == nil {
			if c < 1 {
				c = 1
			}
			if r < 1 {
				r = 1
			}
			return c, r
		}
	}
	return 80, 24
}

// Write renders remote output bytes exactly as received. The stream may
// contain escape sequences essential to correct rendering, so nothing is
// transformed, truncated, or re-encoded.
func (a *Adapter) Write(p []byte) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.out.Write(p)
}

// readInput pumps raw input to the handler until EOF or the escape byte.
func (a *Adapter) readInput() {
	buf := make([]byte, 1024)
	for {
		n, err := a.in.Read(buf)
		if n > 0 {
			data := buf[:n]
			if i := bytes.IndexByte(data, EscapeByte); i >= 0 {
				if i > 0 && a.handlers.OnInput != nil {
					a.emitInput(data[:i])
				}
				a.close()
				return
			}
			a.emitInput(data)
		}
		if err != nil {
			a.close()
			return
		}

		select {
		case <-a.stop:
			return
		default:
		}
	}
}

func (a *Adapter) emitInput(data []byte) {
	if a.handlers.OnInput == nil {
		return
	}
	out := make([]byte, len(data))
	copy(out, data)
	a.handlers.OnInput(out)
}

// watchResize reports the recomputed viewport on every window change.
func (a *Adapter) watchResize() {
	for {
		select {
		case <-a.winch:
			if a.handlers.OnResize != nil {
				cols, rows := a.Viewport()
				a.handlers.OnResize(cols, rows)
			}
		case <-a.stop:
			return
		}
	}
}

func (a *Adapter) close() {
	if a.handlers.OnClose != nil {
		a.handlers.OnClose()
	}
}
