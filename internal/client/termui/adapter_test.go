package termui

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRendersBytesVerbatim(t *testing.T) {
	var out bytes.Buffer
	a := NewWithIO(bytes.NewReader(nil), &out, Handlers{})

	payload := []byte("\x1b[2J\x1b[1;1Hhello\x00\xff")
	n, err := a.Write(payload)
	require.NoError(t, err)
	assert.Equal(t, len(payload), n)
	assert.Equal(t, payload, out.Bytes())
}

func TestInputForwardedVerbatim(t *testing.T) {
	pr, pw := io.Pipe()

	inputs := make(chan []byte, 8)
	a := NewWithIO(pr, io.Discard, Handlers{
		OnInput: func(data []byte) { inputs <- data },
	})
	require.NoError(t, a.Start())
	defer a.Stop()

	typed := []byte("ls -la\r")
	go pw.Write(typed)

	select {
	case got := <-inputs:
		assert.Equal(t, typed, got)
	case <-time.After(5 * time.Second):
		t.Fatal("input was not forwarded")
	}
}

func TestEscapeByteDetaches(t *testing.T) {
	pr, pw := io.Pipe()

	inputs := make(chan []byte, 8)
	closed := make(chan struct{})
	a := NewWithIO(pr, io.Discard, Handlers{
		OnInput: func(data []byte) { inputs <- data },
		OnClose: func() { close(closed) },
	})
	require.NoError(t, a.Start())
	defer a.Stop()

	// Bytes before the escape are still delivered; the escape itself is not.
	go pw.Write(append([]byte("bye"), EscapeByte))

	select {
	case got := <-inputs:
		assert.Equal(t, []byte("bye"), got)
	case <-time.After(5 * time.Second):
		t.Fatal("preceding input was not forwarded")
	}

	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("escape byte did not detach")
	}
}

func TestEOFCloses(t *testing.T) {
	pr, pw := io.Pipe()

	closed := make(chan struct{})
	a := NewWithIO(pr, io.Discard, Handlers{
		OnClose: func() { close(closed) },
	})
	require.NoError(t, a.Start())
	defer a.Stop()

	pw.Close()

	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("EOF did not close the adapter")
	}
}

func TestViewportFallbackWithoutTTY(t *testing.T) {
	a := NewWithIO(bytes.NewReader(nil), io.Discard, Handlers{})
	cols, rows := a.Viewport()
	assert.Equal(t, 80, cols)
	assert.Equal(t, 24, rows)
}
