package protocol

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// FrameType discriminates the frame variants.
type FrameType string

const (
	TypeInput  FrameType = "input"
	TypeResize FrameType = "resize"
	TypeOutput FrameType = "output"
	TypeError  FrameType = "error"
)

// Frame is one protocol message. Exactly one variant per frame: Data carries
// the payload for input/output/error frames, Cols/Rows for resize frames.
type Frame struct {
	Type FrameType `json:"type"`
	Data []byte    `json:"data,omitempty"`
	Cols int       `json:"cols,omitempty"`
	Rows int       `json:"rows,omitempty"`
}

// MalformedMessageError reports a frame that failed decode validation.
// It is a local, recoverable error: the frame is dropped, the stream stays open.
type MalformedMessageError struct {
	Reason string
}

func (e *MalformedMessageError) Error() string {
	return "malformed message: " + e.Reason
}

// Input builds an input frame carrying raw keyboard/paste bytes.
func Input(data []byte) Frame {
	return Frame{Type: TypeInput, Data: data}
}

// Resize builds a resize frame for the given character grid.
func Resize(cols, rows int) Frame {
	return Frame{Type: TypeResize, Cols: cols, Rows: rows}
}

// Output builds an output frame carrying raw pty bytes.
func Output(data []byte) Frame {
	return Frame{Type: TypeOutput, Data: data}
}

// Error builds an error frame. Receipt signals session termination.
func Error(text string) Frame {
	return Frame{Type: TypeError, Data: []byte(text)}
}

// Encode serializes a frame after validating it.
func Encode(f Frame) ([]byte, error) {
	if err := validate(f); err != nil {
		return nil, err
	}
	data, err := sonic.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return data, nil
}

// Decode parses and validates one frame. Any validation failure returns a
// *MalformedMessageError.
func Decode(data []byte) (Frame, error) {
	var f Frame
	if err := sonic.Unmarshal(data, &f); err != nil {
		return Frame{}, &MalformedMessageError{Reason: err.Error()}
	}
	if err := validate(f); err != nil {
		return Frame{}, err
	}
	return f, nil
}

func validate(f Frame) error {
	switch f.Type {
	case TypeInput, TypeOutput, TypeError:
		// Payload is arbitrary binary; nothing to check beyond the variant.
		return nil
	case TypeResize:
		if f.Cols < 1 || f.Rows < 1 {
			return &MalformedMessageError{
				Reason: fmt.Sprintf("resize requires cols>=1 and rows>=1, got %dx%d", f.Cols, f.Rows),
			}
		}
		return nil
	case "":
		return &MalformedMessageError{Reason: "missing type discriminant"}
	default:
		return &MalformedMessageError{Reason: "unknown type " + string(f.Type)}
	}
}
