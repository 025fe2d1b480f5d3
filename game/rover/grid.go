package rover

// Position represents x,y coordinates with the origin at the south-west corner
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Grid is the occupancy matrix of one plateau, indexed cells[x][y].
// Only rovers mark or clear cells.
type Grid struct {
	width  int
	height int
	cells  [][]bool
}

// NewGrid creates an empty width x height grid. Negative sizes are treated as zero.
func NewGrid(width, height int) *Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	cells := make([][]bool, width)
	for x := range cells {
		cells[x] = make([]bool, height)
	}

	return &Grid{
		width:  width,
		height: height,
		cells:  cells,
	}
}

// Width returns the number of columns
func (g *Grid) Width() int {
	if g == nil {
		return 0
	}
	return g.width
}

// Height returns the number of rows
func (g *Grid) Height() int {
	if g == nil {
		return 0
	}
	return g.height
}

// Contains reports whether (x, y) lies on the grid
func (g *Grid) Contains(x, y int) bool {
	return x >= 0 && x < g.Width() && y >= 0 && y < g.Height()
}

// Occupied reports whether a rover sits at (x, y). Cells off the grid are never occupied.
func (g *Grid) Occupied(x, y int) bool {
	if !g.Contains(x, y) {
		return false
	}
	return g.cells[x][y]
}

// OccupiedCount returns the number of occupied cells
func (g *Grid) OccupiedCount() int {
	count := 0
	for x := 0; x < g.Width(); x++ {
		for y := 0; y < g.Height(); y++ {
			if g.cells[x][y] {
				count++
			}
		}
	}
	return count
}

// Cells returns a copy of the occupancy matrix, indexed [x][y]
func (g *Grid) Cells() [][]bool {
	out := make([][]bool, g.Width())
	for x := range out {
		out[x] = make([]bool, g.Height())
		copy(out[x], g.cells[x])
	}
	return out
}

func (g *Grid) occupy(x, y int) {
	g.cells[x][y] = true
}

func (g *Grid) vacate(x, y int) {
	g.cells[x][y] = false
}
