// Package protocol defines the frame schema exchanged between the terminal
// client and the session multiplexer.
//
// A frame is a small JSON document with a required "type" discriminant and a
// variant-specific payload:
//
//	{"type":"input","data":<bytes>}        client → server
//	{"type":"resize","cols":80,"rows":24}  client → server
//	{"type":"output","data":<bytes>}       server → client
//	{"type":"error","data":<text>}         server → client
//
// Input and output payloads are raw bytes (base64 on the wire), so control
// and escape sequences survive the round trip untouched. A frame that fails
// validation decodes to a MalformedMessageError; callers drop the frame and
// keep the stream open.
package protocol
