package scoreboard

import "sync"

type Mode string

const (
	ModeSolo  Mode = "solo"
	ModeGroup Mode = "group"
)

type Presentation string

const (
	PresentationRank  Presentation = "rank"
	PresentationTable Presentation = "table"
)

// Settings holds the two session-wide toggles controlling aggregation shape
// and display. Both live for the process lifetime and only ever hold one of
// their two enumerated values.
type Settings struct {
	mode         Mode
	presentation Presentation
	mu           sync.RWMutex
}

func NewSettings() *Settings {
	return &Settings{
		mode:         ModeSolo,
		presentation: PresentationRank,
	}
}

// SetMode applies the given mode. Anything other than the two known modes is
// ignored and reported with a false return.
func (s *Settings) SetMode(mode Mode) bool {
	if mode != ModeSolo && mode != ModeGroup {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
	return true
}

func (s *Settings) SetPresentation(p Presentation) bool {
	if p != PresentationRank && p != PresentationTable {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presentation = p
	return true
}

func (s *Settings) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

func (s *Settings) Presentation() Presentation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.presentation
}
