package rover

import "errors"

var (
	ErrInvalidPlateau          = errors.New("the plateau is not large enough to hold a rover")
	ErrInvalidStartPosition    = errors.New("the start position is not valid on the plateau")
	ErrPositionOccupied        = errors.New("there is already a rover on the plateau at that location")
	ErrInvalidCoordinate       = errors.New("the new coordinate is not a valid coordinate on the plateau")
	ErrCoordinateOccupied      = errors.New("there is already a rover on the plateau at the new coordinate")
	ErrGridTooSmall            = errors.New("the new grid is too small to hold the rover at its current position")
	ErrNewGridPositionOccupied = errors.New("there is already a rover on the new grid at the rover's current location")
	ErrInvalidDirection        = errors.New("invalid direction")
	ErrReleased                = errors.New("the rover has been released from its plateau")
)
