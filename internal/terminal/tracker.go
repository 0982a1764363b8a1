package terminal

import (
	"sync"
	"time"
)

// Info is the public representation of a live session.
type Info struct {
	ID        string    `json:"id"`
	Shell     string    `json:"shell"`
	Cols      int       `json:"cols"`
	Rows      int       `json:"rows"`
	StartedAt time.Time `json:"started_at"`
}

// Tracker keeps an inventory of live sessions for observability endpoints.
// It holds no session state beyond membership; sessions stay fully isolated.
type Tracker struct {
	sessions sync.Map // map[id.SessionID]*Session
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Add registers a session.
func (t *Tracker) Add(s *Session) {
	t.sessions.Store(s.ID, s)
}

// Remove unregisters a session.
func (t *Tracker) Remove(s *Session) {
	t.sessions.Delete(s.ID)
}

// List returns a snapshot of live sessions.
func (t *Tracker) List() []Info {
	infos := []Info{}
	t.sessions.Range(func(_, value any) bool {
		s := value.(*Session)
		cols, rows := s.Size()
		infos = append(infos, Info{
			ID:        s.ID.String(),
			Shell:     s.Shell,
			Cols:      cols,
			Rows:      rows,
			StartedAt: s.StartedAt,
		})
		return true
	})
	return infos
}

// Count returns the number of live sessions.
func (t *Tracker) Count() int {
	n := 0
	t.sessions.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
