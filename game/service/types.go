package service

import (
	"time"

	"github.com/wricardo/mcp-training/marsrover/game/mission"
	"github.com/wricardo/mcp-training/marsrover/game/rover"
)

// SessionInfo provides information about a mission session
type SessionInfo struct {
	ID             string            `json:"id"`
	ConfigName     string            `json:"config_name"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	Plateau        *mission.Snapshot `json:"plateau"`
	Config         *mission.Config   `json:"config"`
}

// NavigateResult contains the outcome of sending instructions to one rover
type NavigateResult struct {
	SessionID    string             `json:"session_id"`
	Rover        mission.RoverState `json:"rover"`
	Instructions string             `json:"instructions"`
	Applied      int                `json:"applied"` // turns and successful moves
	Blocked      int                `json:"blocked"` // moves refused by a boundary or another rover
	Start        rover.Position     `json:"start"`
	End          rover.Position     `json:"end"`
	Steps        []rover.Step       `json:"steps"`
	Message      string             `json:"message"`
	Plateau      *mission.Snapshot  `json:"plateau"`
}

// RunResult contains the reports of a full mission run
type RunResult struct {
	SessionID string            `json:"session_id"`
	Reports   []mission.Report  `json:"reports"`
	Output    string            `json:"output"` // one "x y heading" line per rover
	Plateau   *mission.Snapshot `json:"plateau"`
}

// ConfigInfo provides information about a mission configuration
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	PlateauX    int    `json:"plateau_x"`
	PlateauY    int    `json:"plateau_y"`
	RoverCount  int    `json:"rover_count"`
}

// NewConfigInfo summarizes a config stored under filename
func NewConfigInfo(filename, configID string, config *mission.Config) *ConfigInfo {
	return &ConfigInfo{
		Filename:    filename,
		ConfigID:    configID,
		Name:        config.Name,
		Description: config.Description,
		PlateauX:    config.Plateau.X,
		PlateauY:    config.Plateau.Y,
		RoverCount:  len(config.Rovers),
	}
}
