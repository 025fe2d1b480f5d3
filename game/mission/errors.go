package mission

import "errors"

var (
	ErrMalformedInput = errors.New("malformed input")
	ErrInvalidCorner  = errors.New("invalid plateau corner")
	ErrRoverNotFound  = errors.New("rover not found")
	ErrDuplicateRover = errors.New("rover already deployed")
	ErrNoPlateau      = errors.New("no plateau dimensions provided")
	ErrInvalidConfig  = errors.New("invalid mission configuration")
)

// InputError describes a line that could not be parsed. Reason is meant for the user.
type InputError struct {
	Line   string
	Reason string
}

func (e *InputError) Error() string {
	return e.Reason
}

// Unwrap lets callers match any InputError with errors.Is(err, ErrMalformedInput)
func (e *InputError) Unwrap() error {
	return ErrMalformedInput
}
