// Package connector owns the client side of a terminal session: the
// connection state machine, reconnection, and frame dispatch.
//
// A Connector moves along fixed edges:
//
//	Disconnected → Probing          terminal opened
//	Probing      → Connecting       health probe succeeded
//	Probing      → Disconnected     health probe failed (diagnostic surfaced)
//	Connecting   → Connected        stream opened
//	Connected    → Reconnecting     stream error or close
//	Reconnecting → Probing          fixed delay elapsed, terminal still open
//	any state    → Disconnected     terminal closed by the user
//
// All transitions happen on a single event loop goroutine fed by a channel,
// so they are serialized and race-free. Stream reads, probing, and the
// reconnect timer each post events instead of mutating state directly, and
// at most one reconnect timer exists at any time.
//
// On entering Connected the current viewport is sent as a resize frame
// before anything else, so the remote pty matches the local grid before the
// first output is drawn. Input while not Connected is dropped, never
// buffered: queued keystrokes must not land in an unrelated freshly spawned
// shell.
package connector
