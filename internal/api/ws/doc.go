// Package ws bridges websocket connections to pty-backed shell sessions.
//
// Each accepted connection gets exactly one session. Input frames are written
// to the process in arrival order, process output is forwarded as output
// frames per available chunk, and resize frames are applied to the pty before
// subsequent output is forwarded. When the process exits the handler emits an
// error frame and closes the stream so the client deterministically begins
// reconnecting. A malformed frame is dropped and logged; it never tears down
// the stream.
package ws
