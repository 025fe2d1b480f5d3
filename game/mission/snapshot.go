package mission

import (
	"fmt"

	"github.com/wricardo/mcp-training/marsrover/game/rover"
)

// RoverState is the serializable state of one deployed rover
type RoverState struct {
	ID      string          `json:"id"`
	X       int             `json:"x"`
	Y       int             `json:"y"`
	Heading rover.Direction `json:"heading"`
	Pending string          `json:"pending,omitempty"`
}

// Snapshot captures a plateau and its rovers
type Snapshot struct {
	Corner   rover.Position   `json:"corner"`
	Width    int              `json:"width"`
	Height   int              `json:"height"`
	Occupied []rover.Position `json:"occupied"`
	Rows     []string         `json:"rows"` // north row first
	Rovers   []RoverState     `json:"rovers"`
}

// State returns the serializable state of an entry
func (e *Entry) State() RoverState {
	return RoverState{
		ID:      e.ID,
		X:       e.Rover.X(),
		Y:       e.Rover.Y(),
		Heading: e.Rover.Heading(),
		Pending: e.Pending,
	}
}

// Snapshot captures the current plateau state
func (m *Mission) Snapshot() *Snapshot {
	s := &Snapshot{
		Corner:   m.corner,
		Width:    m.grid.Width(),
		Height:   m.grid.Height(),
		Occupied: []rover.Position{},
		Rovers:   make([]RoverState, 0, len(m.entries)),
	}

	glyphs := make(map[rover.Position]byte, len(m.entries))
	for _, entry := range m.entries {
		s.Rovers = append(s.Rovers, entry.State())
		glyphs[entry.Rover.Position()] = entry.Rover.Heading().Glyph()
	}

	for x := 0; x < s.Width; x++ {
		for y := 0; y < s.Height; y++ {
			if m.grid.Occupied(x, y) {
				s.Occupied = append(s.Occupied, rover.Position{X: x, Y: y})
			}
		}
	}

	s.Rows = make([]string, 0, s.Height)
	for y := s.Height - 1; y >= 0; y-- {
		row := make([]byte, s.Width)
		for x := 0; x < s.Width; x++ {
			pos := rover.Position{X: x, Y: y}
			switch glyph, ok := glyphs[pos]; {
			case ok:
				row[x] = glyph
			case m.grid.Occupied(x, y):
				row[x] = 'X'
			default:
				row[x] = '.'
			}
		}
		s.Rows = append(s.Rows, string(row))
	}

	return s
}

// Restore rebuilds a mission from a snapshot, keeping rover IDs and deployment order
func Restore(s *Snapshot) (*Mission, error) {
	if s == nil {
		return nil, fmt.Errorf("snapshot cannot be nil")
	}

	m, err := New(s.Corner.X, s.Corner.Y)
	if err != nil {
		return nil, err
	}

	for _, state := range s.Rovers {
		if _, err := m.DeployWithID(state.ID, state.X, state.Y, state.Heading, state.Pending); err != nil {
			m.Dispose()
			return nil, fmt.Errorf("failed to restore rover %s: %w", state.ID, err)
		}
	}

	return m, nil
}
