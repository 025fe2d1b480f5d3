package rover

import (
	"errors"
	"testing"
)

func createTestRover(t *testing.T) (*Rover, *Grid) {
	t.Helper()
	grid := NewGrid(2, 2)
	r, err := New(0, 0, North, grid)
	if err != nil {
		t.Fatalf("Failed to create rover: %v", err)
	}
	return r, grid
}

func TestNew_Valid(t *testing.T) {
	r, grid := createTestRover(t)

	if r.X() != 0 || r.Y() != 0 {
		t.Errorf("Expected position (0,0), got (%d,%d)", r.X(), r.Y())
	}
	if r.Heading() != North {
		t.Errorf("Expected heading N, got %s", r.Heading())
	}
	if r.Grid() != grid {
		t.Error("Expected rover to hold a reference to the shared grid")
	}
	if !grid.Occupied(0, 0) {
		t.Error("Expected starting cell to be marked occupied")
	}
}

func TestNew_ValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		x, y     int
		grid     *Grid
		expected error
	}{
		{"nil grid", 0, 0, nil, ErrInvalidPlateau},
		{"zero width", 0, 0, NewGrid(0, 3), ErrInvalidPlateau},
		{"zero height", 0, 0, NewGrid(3, 0), ErrInvalidPlateau},
		{"zero width beats bad x", -1, 0, NewGrid(0, 0), ErrInvalidPlateau},
		{"negative x", -1, 0, NewGrid(1, 1), ErrInvalidStartPosition},
		{"x past east edge", 2, 0, NewGrid(2, 2), ErrInvalidStartPosition},
		{"negative y", 0, -1, NewGrid(1, 1), ErrInvalidStartPosition},
		{"y past north edge", 0, 2, NewGrid(2, 2), ErrInvalidStartPosition},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r, err := New(test.x, test.y, North, test.grid)
			if !errors.Is(err, test.expected) {
				t.Fatalf("Expected %v, got %v", test.expected, err)
			}
			if r != nil {
				t.Error("Expected no rover on failure")
			}
			if test.grid != nil && test.grid.OccupiedCount() != 0 {
				t.Error("Failed construction must not mark the grid")
			}
		})
	}
}

func TestNew_PositionOccupied(t *testing.T) {
	_, grid := createTestRover(t)

	_, err := New(0, 0, East, grid)
	if !errors.Is(err, ErrPositionOccupied) {
		t.Fatalf("Expected ErrPositionOccupied, got %v", err)
	}
	if grid.OccupiedCount() != 1 {
		t.Errorf("Expected exactly one occupied cell, got %d", grid.OccupiedCount())
	}
}

func TestSetX(t *testing.T) {
	t.Run("valid move", func(t *testing.T) {
		r, grid := createTestRover(t)
		if err := r.SetX(1); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if r.X() != 1 {
			t.Errorf("Expected X=1, got %d", r.X())
		}
		if !grid.Occupied(1, 0) || grid.Occupied(0, 0) {
			t.Error("Grid did not follow the rover to (1,0)")
		}
	})

	t.Run("out of bounds", func(t *testing.T) {
		for _, x := range []int{-1, 2} {
			r, grid := createTestRover(t)
			if err := r.SetX(x); !errors.Is(err, ErrInvalidCoordinate) {
				t.Errorf("SetX(%d): expected ErrInvalidCoordinate, got %v", x, err)
			}
			if r.X() != 0 || !grid.Occupied(0, 0) || grid.OccupiedCount() != 1 {
				t.Errorf("SetX(%d) left partial state behind", x)
			}
		}
	})

	t.Run("occupied", func(t *testing.T) {
		r, grid := createTestRover(t)
		if _, err := New(1, 0, North, grid); err != nil {
			t.Fatalf("Failed to create blocking rover: %v", err)
		}
		if err := r.SetX(1); !errors.Is(err, ErrCoordinateOccupied) {
			t.Fatalf("Expected ErrCoordinateOccupied, got %v", err)
		}
		if r.X() != 0 || !grid.Occupied(0, 0) {
			t.Error("Rejected SetX changed state")
		}
	})

	t.Run("same value is a no-op", func(t *testing.T) {
		r, grid := createTestRover(t)
		if err := r.SetX(0); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !grid.Occupied(0, 0) || grid.OccupiedCount() != 1 {
			t.Error("No-op SetX altered the grid")
		}
	})
}

func TestSetY(t *testing.T) {
	t.Run("valid move", func(t *testing.T) {
		r, grid := createTestRover(t)
		if err := r.SetY(1); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if r.Y() != 1 {
			t.Errorf("Expected Y=1, got %d", r.Y())
		}
		if !grid.Occupied(0, 1) || grid.Occupied(0, 0) {
			t.Error("Grid did not follow the rover to (0,1)")
		}
	})

	t.Run("out of bounds", func(t *testing.T) {
		for _, y := range []int{-1, 2} {
			r, _ := createTestRover(t)
			if err := r.SetY(y); !errors.Is(err, ErrInvalidCoordinate) {
				t.Errorf("SetY(%d): expected ErrInvalidCoordinate, got %v", y, err)
			}
		}
	})

	t.Run("occupied", func(t *testing.T) {
		r, grid := createTestRover(t)
		if _, err := New(0, 1, North, grid); err != nil {
			t.Fatalf("Failed to create blocking rover: %v", err)
		}
		if err := r.SetY(1); !errors.Is(err, ErrCoordinateOccupied) {
			t.Fatalf("Expected ErrCoordinateOccupied, got %v", err)
		}
		if r.Y() != 0 {
			t.Error("Rejected SetY changed state")
		}
	})
}

func TestSetHeading(t *testing.T) {
	r, grid := createTestRover(t)
	for _, d := range AllDirections() {
		r.SetHeading(d)
		if r.Heading() != d {
			t.Errorf("Expected heading %s, got %s", d, r.Heading())
		}
	}
	if grid.OccupiedCount() != 1 || !grid.Occupied(0, 0) {
		t.Error("SetHeading touched the grid")
	}
}

func TestSetGrid(t *testing.T) {
	t.Run("valid grid clears the old cell", func(t *testing.T) {
		r, oldGrid := createTestRover(t)
		newGrid := NewGrid(3, 3)
		if err := r.SetGrid(newGrid); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if r.Grid() != newGrid {
			t.Error("Rover did not adopt the new grid")
		}
		if !newGrid.Occupied(0, 0) {
			t.Error("New grid does not show the rover")
		}
		if oldGrid.Occupied(0, 0) {
			t.Error("Old grid kept a stale occupied cell")
		}
	})

	t.Run("too small", func(t *testing.T) {
		r, grid := createTestRover(t)
		if err := r.SetX(1); err != nil {
			t.Fatal(err)
		}
		if err := r.SetGrid(NewGrid(1, 1)); !errors.Is(err, ErrGridTooSmall) {
			t.Fatalf("Expected ErrGridTooSmall, got %v", err)
		}
		if err := r.SetGrid(nil); !errors.Is(err, ErrGridTooSmall) {
			t.Fatalf("Expected ErrGridTooSmall for nil grid, got %v", err)
		}
		if r.Grid() != grid || !grid.Occupied(1, 0) {
			t.Error("Rejected SetGrid changed state")
		}
	})

	t.Run("position occupied on new grid", func(t *testing.T) {
		r, grid := createTestRover(t)
		other := NewGrid(2, 2)
		if _, err := New(0, 0, North, other); err != nil {
			t.Fatal(err)
		}
		if err := r.SetGrid(other); !errors.Is(err, ErrNewGridPositionOccupied) {
			t.Fatalf("Expected ErrNewGridPositionOccupied, got %v", err)
		}
		if r.Grid() != grid || !grid.Occupied(0, 0) {
			t.Error("Rejected SetGrid changed state")
		}
	})

	t.Run("same grid is a no-op", func(t *testing.T) {
		r, grid := createTestRover(t)
		if err := r.SetGrid(grid); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !grid.Occupied(0, 0) {
			t.Error("Rover cell was cleared")
		}
	})
}

func TestRelease(t *testing.T) {
	r, grid := createTestRover(t)
	r.Release()

	if !r.Released() {
		t.Error("Expected rover to report released")
	}
	if grid.Occupied(0, 0) {
		t.Error("Release left the cell occupied")
	}

	r.Navigate("RM")
	if r.Position() != (Position{0, 0}) || r.Heading() != North {
		t.Errorf("Released rover moved: %s", r)
	}
	if err := r.SetX(1); !errors.Is(err, ErrReleased) {
		t.Errorf("Expected ErrReleased, got %v", err)
	}

	// redeploy on a fresh grid
	fresh := NewGrid(2, 2)
	if err := r.SetGrid(fresh); err != nil {
		t.Fatalf("Redeploy failed: %v", err)
	}
	if !fresh.Occupied(0, 0) || r.Released() {
		t.Error("Redeployed rover not marked on the new grid")
	}

	r.Release()
	r.Release()
	if fresh.OccupiedCount() != 0 {
		t.Error("Second release should be harmless")
	}
}

func TestNavigate_Turns(t *testing.T) {
	tests := []struct {
		name     string
		start    Direction
		commands string
		expected Direction
	}{
		{"left from N", North, "L", West},
		{"left from E", East, "L", North},
		{"left from S", South, "L", East},
		{"left from W", West, "L", South},
		{"right from N", North, "R", East},
		{"right from E", East, "R", South},
		{"right from S", South, "R", West},
		{"right from W", West, "R", North},
		{"full left circle", North, "LLLL", North},
		{"full right circle", East, "RRRR", East},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r, _ := createTestRover(t)
			r.SetHeading(test.start)
			r.Navigate(test.commands)
			if r.Heading() != test.expected {
				t.Errorf("Expected %s, got %s", test.expected, r.Heading())
			}
			if r.Position() != (Position{0, 0}) {
				t.Errorf("Turning moved the rover to %v", r.Position())
			}
		})
	}
}

func TestNavigate_Move(t *testing.T) {
	tests := []struct {
		name     string
		x, y     int
		heading  Direction
		expected Position
	}{
		{"north", 0, 0, North, Position{0, 1}},
		{"east", 0, 0, East, Position{1, 0}},
		{"south", 1, 1, South, Position{1, 0}},
		{"west", 1, 1, West, Position{0, 1}},
		{"north edge", 1, 1, North, Position{1, 1}},
		{"east edge", 1, 1, East, Position{1, 1}},
		{"south edge", 0, 0, South, Position{0, 0}},
		{"west edge", 0, 0, West, Position{0, 0}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			grid := NewGrid(2, 2)
			r, err := New(test.x, test.y, test.heading, grid)
			if err != nil {
				t.Fatal(err)
			}
			r.Navigate("M")
			if r.Position() != test.expected {
				t.Errorf("Expected %v, got %v", test.expected, r.Position())
			}
			if r.Heading() != test.heading {
				t.Errorf("Move changed heading to %s", r.Heading())
			}
			if !grid.Occupied(test.expected.X, test.expected.Y) || grid.OccupiedCount() != 1 {
				t.Error("Grid does not match the rover position")
			}
		})
	}
}

func TestNavigate_BlockedByRover(t *testing.T) {
	r, grid := createTestRover(t)
	if _, err := New(0, 1, South, grid); err != nil {
		t.Fatal(err)
	}

	r.Navigate("M")

	if r.Position() != (Position{0, 0}) {
		t.Errorf("Expected rover to stay at (0,0), got %v", r.Position())
	}
	if !grid.Occupied(0, 0) || !grid.Occupied(0, 1) || grid.OccupiedCount() != 2 {
		t.Error("Blocked move altered the grid")
	}
}

func TestNavigate_EmptyAndUnknown(t *testing.T) {
	r, _ := createTestRover(t)

	r.Navigate("")
	if r.Position() != (Position{0, 0}) || r.Heading() != North {
		t.Errorf("Empty instructions changed the rover: %s", r)
	}

	r.Navigate("XYZ 12?")
	if r.Position() != (Position{0, 0}) || r.Heading() != North {
		t.Errorf("Unknown instructions changed the rover: %s", r)
	}

	r.Navigate("xRyMz")
	if r.Position() != (Position{1, 0}) || r.Heading() != East {
		t.Errorf("Expected 1 0 E, got %s", r)
	}
}

func TestNavigate_ClassicMission(t *testing.T) {
	grid := NewGrid(6, 6)
	first, err := New(1, 2, North, grid)
	if err != nil {
		t.Fatal(err)
	}
	second, err := New(3, 3, East, grid)
	if err != nil {
		t.Fatal(err)
	}

	first.Navigate("LMLMLMLMM")
	second.Navigate("MMRMMRMRRM")

	if first.String() != "1 3 N" {
		t.Errorf("Expected first rover at 1 3 N, got %s", first)
	}
	if second.String() != "5 1 E" {
		t.Errorf("Expected second rover at 5 1 E, got %s", second)
	}
	if grid.OccupiedCount() != 2 {
		t.Errorf("Expected 2 occupied cells, got %d", grid.OccupiedCount())
	}
}

func TestTrace(t *testing.T) {
	r, grid := createTestRover(t)
	if _, err := New(1, 1, North, grid); err != nil {
		t.Fatal(err)
	}

	steps := r.Trace("MRM?MM")
	if len(steps) != 6 {
		t.Fatalf("Expected 6 steps, got %d", len(steps))
	}

	expected := []struct {
		recognized bool
		to         Position
		blocked    BlockReason
	}{
		{true, Position{0, 1}, NotBlocked},
		{true, Position{0, 1}, NotBlocked},
		{true, Position{0, 1}, BlockedOccupied},
		{false, Position{0, 1}, NotBlocked},
		{true, Position{0, 1}, BlockedOccupied},
		{true, Position{0, 1}, BlockedOccupied},
	}

	for i, exp := range expected {
		s := steps[i]
		if s.Index != i {
			t.Errorf("step %d: index %d", i, s.Index)
		}
		if s.Recognized != exp.recognized {
			t.Errorf("step %d: recognized=%v", i, s.Recognized)
		}
		if s.To != exp.to {
			t.Errorf("step %d: expected to %v, got %v", i, exp.to, s.To)
		}
		if s.Blocked != exp.blocked {
			t.Errorf("step %d: expected blocked %q, got %q", i, exp.blocked, s.Blocked)
		}
	}

	if !steps[0].Moved() || steps[2].Moved() {
		t.Error("Moved() does not reflect position changes")
	}
	if steps[1].Heading != East {
		t.Errorf("Expected heading E after R, got %s", steps[1].Heading)
	}
}

func TestTrace_BoundaryBlock(t *testing.T) {
	r, _ := createTestRover(t)
	steps := r.Trace("LM")
	if steps[1].Blocked != BlockedBoundary {
		t.Errorf("Expected boundary block, got %q", steps[1].Blocked)
	}
}
