// Package rover provides the core navigation logic for the Mars Rover mission.
//
// The rover package implements:
//   - Cardinal headings with cyclic left/right turns
//   - The L/R/M instruction alphabet
//   - A shared occupancy grid for one plateau
//   - Rover construction, guarded mutators and instruction execution
//
// Core Types:
//
// Grid is the occupancy matrix of a plateau. It is shared by pointer between
// every rover deployed on the same plateau, and only rovers write to it, so at
// most one rover occupies any cell at a time.
//
// Rover owns a position, a heading and a reference to its grid. Every mutation
// keeps the rover inside the grid and its cell marked as occupied.
//
// Usage:
//
//	grid := rover.NewGrid(6, 6)
//
//	r, err := rover.New(1, 2, rover.North, grid)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	r.Navigate("LMLMLMLMM")
//	fmt.Println(r.X(), r.Y(), r.Heading()) // 1 3 N
//
// Move Policy:
//
// SetX and SetY reject invalid targets with an error. Navigate never fails:
// a move that would leave the plateau or hit another rover is skipped and the
// rover stays where it is. Unknown instruction characters are skipped too.
//
// Concurrency:
//
// Nothing in this package is synchronized. Callers that drive several rovers
// on one grid from different goroutines must serialize access themselves.
package rover
