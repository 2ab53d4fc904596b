package types

import "sync"

// RuntimeState is the little bit of process-wide mutable state the bot
// owns: which message is the current control panel. It is passed by
// reference into the handlers and the retention policy so nothing
// reaches for a package-level variable.
type RuntimeState struct {
	mu             sync.RWMutex
	panelMessageID string
}

func (s *RuntimeState) SetPanelMessage(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panelMessageID = id
}

// IsPanelMessage reports whether id is the currently published panel.
// The panel can be reassigned at any time (startup sweep), so callers
// re-check this at the moment they act, not when they schedule.
func (s *RuntimeState) IsPanelMessage(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return id != "" && id == s.panelMessageID
}
