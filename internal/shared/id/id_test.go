package id

import (
	"strings"
	"testing"
)

func TestNewSessionID(t *testing.T) {
	a := NewSessionID()
	b := NewSessionID()

	if !strings.HasPrefix(a.String(), "sess_") {
		t.Errorf("expected sess_ prefix, got %q", a)
	}
	if a == b {
		t.Errorf("expected unique IDs, got %q twice", a)
	}
	// prefix + 26-char ULID
	if len(a) != len("sess_")+26 {
		t.Errorf("unexpected ID length %d for %q", len(a), a)
	}
}
