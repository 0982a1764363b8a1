// Package terminal manages pty-backed shell processes.
//
// Each websocket connection owns exactly one Session: a spawned shell wired
// to a pseudo-terminal. The session's lifetime is bound to its connection —
// when the connection closes the process is killed and the pty descriptor
// released, on every exit path. Sessions are never shared.
//
// Resize is serialized against output forwarding: Resize holds the geometry
// lock while applying the new size, and ReadOutput passes through the same
// lock before handing a chunk to the caller, so output produced after a
// resize is always delivered at the new dimensions.
package terminal
