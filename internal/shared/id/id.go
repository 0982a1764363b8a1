// Package id provides session ID generation.
//
// IDs are prefixed ULIDs ("sess_01J..."): lexicographically sortable, unique
// without coordination, and readable in logs.
package id

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// SessionID identifies one terminal session.
type SessionID string

const sessionPrefix = "sess_"

// Generator generates prefixed ULIDs from an entropy source.
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// NewGenerator creates a generator with the given entropy source. A nil
// source uses crypto/rand.
func NewGenerator(entropy io.Reader) *Generator {
	if entropy == nil {
		entropy = rand.Reader
	}
	return &Generator{entropy: entropy}
}

// NewSessionID generates a new session ID from the default generator.
func NewSessionID() SessionID {
	once.Do(func() {
		defaultGenerator = NewGenerator(nil)
	})
	return defaultGenerator.SessionID()
}

// SessionID generates a new session ID.
func (g *Generator) SessionID() SessionID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()
	return SessionID(sessionPrefix + ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy).String())
}

func (s SessionID) String() string {
	return string(s)
}
