package rover

import "fmt"

// Instruction is a single rover command
type Instruction int

const (
	TurnLeft Instruction = iota
	TurnRight
	Move
)

// ParseInstruction maps 'L', 'R' and 'M' to their instruction.
// ok is false for every other rune.
func ParseInstruction(c rune) (instruction Instruction, ok bool) {
	switch c {
	case 'L':
		return TurnLeft, true
	case 'R':
		return TurnRight, true
	case 'M':
		return Move, true
	}
	return 0, false
}

// String returns the instruction letter
func (i Instruction) String() string {
	switch i {
	case TurnLeft:
		return "L"
	case TurnRight:
		return "R"
	case Move:
		return "M"
	default:
		return "?"
	}
}

// MarshalText implements encoding.TextMarshaler
func (i Instruction) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (i *Instruction) UnmarshalText(text []byte) error {
	s := string(text)
	if len(s) == 1 {
		if parsed, ok := ParseInstruction(rune(s[0])); ok {
			*i = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid instruction %q", s)
}
