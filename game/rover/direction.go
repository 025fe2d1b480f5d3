package rover

import "fmt"

// Direction represents a cardinal heading
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

const directionCount = 4

// AllDirections returns the headings in clockwise order starting at North
func AllDirections() []Direction {
	return []Direction{North, East, South, West}
}

// rotate turns the heading by the given number of quarter turns (negative is counter-clockwise)
func (d Direction) rotate(quarters int) Direction {
	return Direction(((int(d)+quarters)%directionCount + directionCount) % directionCount)
}

// Right returns the heading after a 90 degree clockwise turn
func (d Direction) Right() Direction {
	return d.rotate(1)
}

// Left returns the heading after a 90 degree counter-clockwise turn
func (d Direction) Left() Direction {
	return d.rotate(-1)
}

// Delta returns the x and y offsets of one step forward
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case North:
		return 0, 1
	case East:
		return 1, 0
	case South:
		return 0, -1
	case West:
		return -1, 0
	default:
		return 0, 0
	}
}

// String returns the single letter form used on the wire: N, E, S or W
func (d Direction) String() string {
	switch d {
	case North:
		return "N"
	case East:
		return "E"
	case South:
		return "S"
	case West:
		return "W"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Glyph returns the arrow used when rendering a rover on a plateau
func (d Direction) Glyph() byte {
	switch d {
	case North:
		return '^'
	case East:
		return '>'
	case South:
		return 'v'
	case West:
		return '<'
	default:
		return '?'
	}
}

// ParseDirection parses one of the letters N, E, S, W
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "N":
		return North, nil
	case "E":
		return East, nil
	case "S":
		return South, nil
	case "W":
		return West, nil
	}
	return North, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// MarshalText implements encoding.TextMarshaler
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
