package terminal

import (
	"bytes"
	"io"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startTestSession(t *testing.T, cols, rows int) *Session {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("pty sessions require a unix-like OS")
	}

	s, err := Start(Config{Shell: "/bin/sh", Cols: cols, Rows: rows})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// readUntil collects output until the want substring appears or the deadline
// passes.
func readUntil(t *testing.T, s *Session, want string, timeout time.Duration) string {
	t.Helper()

	var collected bytes.Buffer
	found := make(chan string, 1)
	go func() {
		buf := make([]byte, 4096)
		for {
			n, err := s.ReadOutput(buf)
			if n > 0 {
				collected.Write(buf[:n])
				if bytes.Contains(collected.Bytes(), []byte(want)) {
					found <- collected.String()
					return
				}
			}
			if err != nil {
				found <- collected.String()
				return
			}
		}
	}()

	select {
	case out := <-found:
		return out
	case <-time.After(timeout):
		return collected.String()
	}
}

func TestSessionEcho(t *testing.T) {
	s := startTestSession(t, 80, 24)

	_, err := s.WriteInput([]byte("echo bridge-$((20+3))\n"))
	require.NoError(t, err)

	out := readUntil(t, s, "bridge-23", 10*time.Second)
	assert.Contains(t, out, "bridge-23")
}

func TestSessionResizeAppliesExactGeometry(t *testing.T) {
	s := startTestSession(t, 80, 24)

	cols, rows := s.Size()
	assert.Equal(t, 80, cols)
	assert.Equal(t, 24, rows)

	require.NoError(t, s.Resize(132, 43))

	cols, rows = s.Size()
	assert.Equal(t, 132, cols)
	assert.Equal(t, 43, rows)

	// The process sees the new geometry through the pty.
	_, err := s.WriteInput([]byte("stty size\n"))
	require.NoError(t, err)
	out := readUntil(t, s, "43 132", 10*time.Second)
	assert.Contains(t, out, "43 132")
}

func TestSessionResizeRejectsInvalidGeometry(t *testing.T) {
	s := startTestSession(t, 80, 24)

	assert.Error(t, s.Resize(0, 24))
	assert.Error(t, s.Resize(80, 0))
}

func TestSessionCloseKillsProcess(t *testing.T) {
	s := startTestSession(t, 80, 24)

	require.NoError(t, s.Close())

	select {
	case <-s.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("process did not exit after Close")
	}
	assert.NotEqual(t, "running", s.ExitState())

	// Closing again is a no-op.
	assert.NoError(t, s.Close())
}

func TestSessionExitClosesPty(t *testing.T) {
	s := startTestSession(t, 80, 24)

	_, err := s.WriteInput([]byte("exit\n"))
	require.NoError(t, err)

	select {
	case <-s.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("session did not report exit")
	}

	// The pty descriptor is released; reads now fail.
	buf := make([]byte, 16)
	for {
		_, err := s.ReadOutput(buf)
		if err != nil {
			if err != io.EOF {
				assert.Error(t, err)
			}
			break
		}
	}
}

func TestTracker(t *testing.T) {
	tracker := NewTracker()
	s := startTestSession(t, 100, 30)

	tracker.Add(s)
	assert.Equal(t, 1, tracker.Count())

	infos := tracker.List()
	require.Len(t, infos, 1)
	assert.Equal(t, s.ID.String(), infos[0].ID)
	assert.Equal(t, 100, infos[0].Cols)
	assert.Equal(t, 30, infos[0].Rows)

	tracker.Remove(s)
	assert.Equal(t, 0, tracker.Count())
}
