package mission

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/wricardo/mcp-training/marsrover/game/rover"
)

const (
	// MaxPlateauCorner bounds both corner coordinates of a stored or API-created plateau
	MaxPlateauCorner = 999
	// MaxRovers bounds the number of rovers in a mission config
	MaxRovers = 100
	// MaxInstructionLength bounds a single instruction string outside the console
	MaxInstructionLength = 1000
)

var lineLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[-+]?\d+`},
	{Name: "Ident", Pattern: `[A-Za-z]+`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

type plateauLine struct {
	X string `parser:"@Int"`
	Y string `parser:"@Int"`
}

type startLine struct {
	X       string `parser:"@Int"`
	Y       string `parser:"@Int"`
	Heading string `parser:"@Ident"`
}

var (
	plateauParser = participle.MustBuild[plateauLine](
		participle.Lexer(lineLexer),
		participle.Elide("Whitespace"),
	)
	startParser = participle.MustBuild[startLine](
		participle.Lexer(lineLexer),
		participle.Elide("Whitespace"),
	)
)

// StartState is a parsed rover start line
type StartState struct {
	X       int
	Y       int
	Heading rover.Direction
}

var (
	plateauFields = []string{"X dimension of the plateau", "Y dimension of the plateau"}
	startFields   = []string{"X position of a rover", "Y position of a rover", "heading of a rover"}
)

// ParsePlateau parses "<x> <y>", the north-east corner of the plateau
func ParsePlateau(line string) (rover.Position, error) {
	line = strings.TrimSpace(line)
	if len(strings.Fields(line)) != 2 {
		return rover.Position{}, &InputError{Line: line, Reason: "Please enter 2 and only 2 dimensions"}
	}

	parsed, err := plateauParser.ParseString("", line)
	if err != nil {
		field := failedField(line, err)
		return rover.Position{}, &InputError{Line: line,
			Reason: fmt.Sprintf("Please enter a non-negative integer for the %s", plateauFields[field])}
	}

	values := []string{parsed.X, parsed.Y}
	corner := make([]int, 2)
	for i, v := range values {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return rover.Position{}, &InputError{Line: line,
				Reason: fmt.Sprintf("Please enter a non-negative integer for the %s", plateauFields[i])}
		}
		corner[i] = n
	}

	return rover.Position{X: corner[0], Y: corner[1]}, nil
}

// ParseStart parses "<x> <y> <heading>"
func ParseStart(line string) (StartState, error) {
	line = strings.TrimSpace(line)
	if len(strings.Fields(line)) != 3 {
		return StartState{}, &InputError{Line: line, Reason: "Please enter 3 and only 3 inputs for the starting state of a rover"}
	}

	parsed, err := startParser.ParseString("", line)
	if err != nil {
		field := failedField(line, err)
		if field == 2 {
			return StartState{}, headingError(line)
		}
		return StartState{}, &InputError{Line: line,
			Reason: fmt.Sprintf("Please enter an integer for the %s", startFields[field])}
	}

	x, err := strconv.Atoi(parsed.X)
	if err != nil {
		return StartState{}, &InputError{Line: line, Reason: fmt.Sprintf("Please enter an integer for the %s", startFields[0])}
	}
	y, err := strconv.Atoi(parsed.Y)
	if err != nil {
		return StartState{}, &InputError{Line: line, Reason: fmt.Sprintf("Please enter an integer for the %s", startFields[1])}
	}
	heading, err := rover.ParseDirection(parsed.Heading)
	if err != nil {
		return StartState{}, headingError(line)
	}

	return StartState{X: x, Y: y, Heading: heading}, nil
}

// ParseInstructions checks that every character of the line is L, R or M.
// Surrounding whitespace is ignored; an empty line is valid.
func ParseInstructions(line string) (string, error) {
	line = strings.TrimSpace(line)
	for _, c := range line {
		if _, ok := rover.ParseInstruction(c); !ok {
			return "", &InputError{Line: line,
				Reason: fmt.Sprintf("%c is not a valid instruction, please only use L, R, or M", c)}
		}
	}
	return line, nil
}

// ValidateInstructions is ParseInstructions capped at MaxInstructionLength,
// for instruction strings arriving through configs and the API.
func ValidateInstructions(line string) (string, error) {
	parsed, err := ParseInstructions(line)
	if err != nil {
		return "", err
	}
	if len(parsed) > MaxInstructionLength {
		return "", &InputError{Line: parsed,
			Reason: fmt.Sprintf("Please enter at most %d instructions", MaxInstructionLength)}
	}
	return parsed, nil
}

func headingError(line string) error {
	return &InputError{Line: line, Reason: "Please enter a valid direction for the starting heading of a rover (N E S W)"}
}

// failedField maps a parse error back to the index of the whitespace separated field it occurred in
func failedField(line string, err error) int {
	var perr participle.Error
	if !errors.As(err, &perr) {
		return 0
	}
	return fieldAt(line, perr.Position().Column)
}

// fieldAt returns the index of the field that contains the 1-based column
func fieldAt(line string, column int) int {
	field := -1
	inField := false
	col := 0
	for _, c := range line {
		col++
		if c == ' ' || c == '\t' {
			inField = false
		} else if !inField {
			inField = true
			field++
		}
		if col >= column {
			break
		}
	}
	if field < 0 {
		return 0
	}
	return field
}
