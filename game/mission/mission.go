package mission

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/wricardo/mcp-training/marsrover/game/rover"
)

// Entry is a rover deployed in a mission together with the instructions it has not run yet
type Entry struct {
	ID      string
	Rover   *rover.Rover
	Pending string
}

// Report is the final state of one rover
type Report struct {
	ID      string          `json:"id"`
	X       int             `json:"x"`
	Y       int             `json:"y"`
	Heading rover.Direction `json:"heading"`
}

// String formats the report as "x y heading"
func (r Report) String() string {
	return fmt.Sprintf("%d %d %s", r.X, r.Y, r.Heading)
}

// Mission owns one plateau grid and the rovers deployed on it, in deployment order
type Mission struct {
	corner  rover.Position
	grid    *rover.Grid
	entries []*Entry
}

// New creates an empty mission for a plateau whose north-east corner is (cornerX, cornerY)
func New(cornerX, cornerY int) (*Mission, error) {
	if cornerX < 0 || cornerY < 0 {
		return nil, fmt.Errorf("%w: (%d, %d) must not be negative", ErrInvalidCorner, cornerX, cornerY)
	}

	return &Mission{
		corner: rover.Position{X: cornerX, Y: cornerY},
		grid:   rover.NewGrid(cornerX+1, cornerY+1),
	}, nil
}

// Corner returns the north-east corner of the plateau
func (m *Mission) Corner() rover.Position {
	return m.corner
}

// Grid returns the shared occupancy grid
func (m *Mission) Grid() *rover.Grid {
	return m.grid
}

// Deploy places a new rover on the plateau and queues its instructions
func (m *Mission) Deploy(x, y int, heading rover.Direction, instructions string) (*Entry, error) {
	return m.DeployWithID(uuid.NewString(), x, y, heading, instructions)
}

// DeployWithID is Deploy with a caller chosen rover ID
func (m *Mission) DeployWithID(id string, x, y int, heading rover.Direction, instructions string) (*Entry, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if _, err := m.Find(id); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateRover, id)
	}

	r, err := rover.New(x, y, heading, m.grid)
	if err != nil {
		return nil, err
	}

	entry := &Entry{ID: id, Rover: r, Pending: instructions}
	m.entries = append(m.entries, entry)
	return entry, nil
}

// Queue appends instructions to a rover's pending queue
func (m *Mission) Queue(id, instructions string) error {
	entry, err := m.Find(id)
	if err != nil {
		return err
	}
	entry.Pending += instructions
	return nil
}

// Find returns the rover with the given ID
func (m *Mission) Find(id string) (*Entry, error) {
	for _, entry := range m.entries {
		if entry.ID == id {
			return entry, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrRoverNotFound, id)
}

// Remove releases a rover, freeing its cell, and drops it from the mission
func (m *Mission) Remove(id string) error {
	for i, entry := range m.entries {
		if entry.ID == id {
			entry.Rover.Release()
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrRoverNotFound, id)
}

// Entries returns the deployed rovers in deployment order
func (m *Mission) Entries() []*Entry {
	out := make([]*Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Run navigates every rover through its pending instructions, one rover at a time
// in deployment order, and reports where each one ended up
func (m *Mission) Run() []Report {
	for _, entry := range m.entries {
		entry.Rover.Navigate(entry.Pending)
		entry.Pending = ""
	}
	return m.Reports()
}

// Reports returns the current state of every rover
func (m *Mission) Reports() []Report {
	reports := make([]Report, 0, len(m.entries))
	for _, entry := range m.entries {
		reports = append(reports, Report{
			ID:      entry.ID,
			X:       entry.Rover.X(),
			Y:       entry.Rover.Y(),
			Heading: entry.Rover.Heading(),
		})
	}
	return reports
}

// Dispose releases every rover so the grid is left empty
func (m *Mission) Dispose() {
	for _, entry := range m.entries {
		entry.Rover.Release()
	}
	m.entries = nil
}
