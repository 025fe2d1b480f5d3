package rover

import "fmt"

// BlockReason explains why a move instruction left the rover in place
type BlockReason string

const (
	NotBlocked      BlockReason = ""
	BlockedBoundary BlockReason = "boundary"
	BlockedOccupied BlockReason = "occupied"
)

// Step records the effect of one instruction character
type Step struct {
	Index       int         `json:"index"`
	Token       string      `json:"token"`
	Recognized  bool        `json:"recognized"`
	Instruction Instruction `json:"instruction"`
	From        Position    `json:"from"`
	To          Position    `json:"to"`
	Heading     Direction   `json:"heading"`
	Blocked     BlockReason `json:"blocked,omitempty"`
}

// Moved reports whether the step changed the rover's position
func (s Step) Moved() bool {
	return s.From != s.To
}

// Rover is a vehicle on a plateau grid
type Rover struct {
	x       int
	y       int
	heading Direction
	grid    *Grid
}

// New deploys a rover at (x, y) facing heading and marks its cell on grid
func New(x, y int, heading Direction, grid *Grid) (*Rover, error) {
	if grid.Width() == 0 || grid.Height() == 0 {
		return nil, ErrInvalidPlateau
	}
	if x < 0 || x > grid.Width()-1 {
		return nil, fmt.Errorf("%w: x=%d", ErrInvalidStartPosition, x)
	}
	if y < 0 || y > grid.Height()-1 {
		return nil, fmt.Errorf("%w: y=%d", ErrInvalidStartPosition, y)
	}
	if grid.Occupied(x, y) {
		return nil, fmt.Errorf("%w: (%d, %d)", ErrPositionOccupied, x, y)
	}

	r := &Rover{
		x:       x,
		y:       y,
		heading: heading,
		grid:    grid,
	}
	grid.occupy(x, y)

	return r, nil
}

// X returns the current x coordinate
func (r *Rover) X() int {
	return r.x
}

// Y returns the current y coordinate
func (r *Rover) Y() int {
	return r.y
}

// Position returns the current coordinates
func (r *Rover) Position() Position {
	return Position{X: r.x, Y: r.y}
}

// Heading returns the direction the rover faces
func (r *Rover) Heading() Direction {
	return r.heading
}

// Grid returns the grid the rover is deployed on, or nil once released
func (r *Rover) Grid() *Grid {
	return r.grid
}

// Released reports whether the rover has been detached from its grid
func (r *Rover) Released() bool {
	return r.grid == nil
}

// String formats the rover as "x y heading"
func (r *Rover) String() string {
	return fmt.Sprintf("%d %d %s", r.x, r.y, r.heading)
}

// SetX moves the rover to column x on its current row
func (r *Rover) SetX(x int) error {
	if x == r.x {
		return nil
	}
	if r.grid == nil {
		return ErrReleased
	}
	if x < 0 || x > r.grid.Width()-1 {
		return fmt.Errorf("%w: x=%d", ErrInvalidCoordinate, x)
	}
	if r.grid.Occupied(x, r.y) {
		return fmt.Errorf("%w: (%d, %d)", ErrCoordinateOccupied, x, r.y)
	}

	r.relocate(x, r.y)
	return nil
}

// SetY moves the rover to row y on its current column
func (r *Rover) SetY(y int) error {
	if y == r.y {
		return nil
	}
	if r.grid == nil {
		return ErrReleased
	}
	if y < 0 || y > r.grid.Height()-1 {
		return fmt.Errorf("%w: y=%d", ErrInvalidCoordinate, y)
	}
	if r.grid.Occupied(r.x, y) {
		return fmt.Errorf("%w: (%d, %d)", ErrCoordinateOccupied, r.x, y)
	}

	r.relocate(r.x, y)
	return nil
}

// SetHeading points the rover in any direction
func (r *Rover) SetHeading(heading Direction) {
	r.heading = heading
}

// SetGrid moves the rover to the same coordinates on another grid.
// Its cell on the previous grid is cleared. Passing the current grid is a no-op.
func (r *Rover) SetGrid(grid *Grid) error {
	if grid != nil && grid == r.grid {
		return nil
	}
	if r.x+1 > grid.Width() || r.y+1 > grid.Height() {
		return fmt.Errorf("%w: need at least %dx%d, got %dx%d",
			ErrGridTooSmall, r.x+1, r.y+1, grid.Width(), grid.Height())
	}
	if grid.Occupied(r.x, r.y) {
		return fmt.Errorf("%w: (%d, %d)", ErrNewGridPositionOccupied, r.x, r.y)
	}

	if r.grid != nil {
		r.grid.vacate(r.x, r.y)
	}
	r.grid = grid
	r.grid.occupy(r.x, r.y)
	return nil
}

// Release clears the rover's cell and detaches it from its grid.
// Calling Release more than once has no effect.
func (r *Rover) Release() {
	if r.grid == nil {
		return
	}
	r.grid.vacate(r.x, r.y)
	r.grid = nil
}

// Navigate executes the instructions one character at a time.
// Unknown characters and blocked moves are skipped.
func (r *Rover) Navigate(instructions string) {
	index := 0
	for _, c := range instructions {
		r.step(index, c)
		index++
	}
}

// Trace executes the instructions like Navigate and returns one Step per character
func (r *Rover) Trace(instructions string) []Step {
	steps := make([]Step, 0, len(instructions))
	index := 0
	for _, c := range instructions {
		steps = append(steps, r.step(index, c))
		index++
	}
	return steps
}

// step applies a single instruction character and commits it immediately
func (r *Rover) step(index int, c rune) Step {
	s := Step{
		Index: index,
		Token: string(c),
		From:  r.Position(),
	}

	instruction, ok := ParseInstruction(c)
	if ok {
		s.Recognized = true
		s.Instruction = instruction
	}

	// a released rover has no plateau to act on
	if ok && r.grid != nil {
		switch instruction {
		case TurnLeft:
			r.heading = r.heading.Left()
		case TurnRight:
			r.heading = r.heading.Right()
		case Move:
			s.Blocked = r.advance()
		}
	}

	s.To = r.Position()
	s.Heading = r.heading
	return s
}

// advance moves one cell forward when the target is on the grid and free
func (r *Rover) advance() BlockReason {
	dx, dy := r.heading.Delta()
	nx, ny := r.x+dx, r.y+dy

	if !r.grid.Contains(nx, ny) {
		return BlockedBoundary
	}
	if r.grid.Occupied(nx, ny) {
		return BlockedOccupied
	}

	r.relocate(nx, ny)
	return NotBlocked
}

// relocate clears the current cell and marks (x, y)
func (r *Rover) relocate(x, y int) {
	r.grid.vacate(r.x, r.y)
	r.x, r.y = x, y
	r.grid.occupy(r.x, r.y)
}
