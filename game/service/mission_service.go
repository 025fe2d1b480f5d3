package service

import (
	"context"
	"time"

	"github.com/wricardo/mcp-training/marsrover/game/mission"
)

// MissionService defines all mission-related operations
type MissionService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	CreatePlateauSession(ctx context.Context, cornerX, cornerY int) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Rover Operations
	DeployRover(ctx context.Context, sessionID string, x, y int, heading, instructions string) (*mission.RoverState, error)
	GetRover(ctx context.Context, sessionID, roverID string) (*mission.RoverState, error)
	NavigateRover(ctx context.Context, sessionID, roverID, instructions string) (*NavigateResult, error)
	QueueInstructions(ctx context.Context, sessionID, roverID, instructions string) (*mission.RoverState, error)
	SetRoverPosition(ctx context.Context, sessionID, roverID string, x, y *int) (*mission.RoverState, error)
	SetRoverHeading(ctx context.Context, sessionID, roverID, heading string) (*mission.RoverState, error)
	RemoveRover(ctx context.Context, sessionID, roverID string) error

	// Mission
	RunMission(ctx context.Context, sessionID string) (*RunResult, error)
	GetPlateau(ctx context.Context, sessionID string) (*mission.Snapshot, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*mission.Config, error)
	SaveConfig(ctx context.Context, configName string, config *mission.Config) error

	// Maintenance
	ExpireSessions(ctx context.Context, maxAge time.Duration) int
	PruneSessions(ctx context.Context, keep func(sessionID string) bool) int
	SaveSessions(ctx context.Context) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id, configName string, config *mission.Config) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id, configName string, config *mission.Config) (*Session, error)
	List() []*Session
	Delete(id string) error
	DeleteFromMemory(id string) error
	UpdateLastAccessed(id string) error
	CleanupExpiredSessions(maxAge time.Duration) int
	Save(id string) error
	SaveAllSessions() error
}

// ConfigManager handles mission configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*mission.Config, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *mission.Config
	SaveConfig(name string, config *mission.Config) error
}

// Session is one plateau with its rovers, alive until the session is deleted.
// Its mission and LastAccessedAt are only touched under the service lock.
type Session struct {
	ID             string
	ConfigName     string
	Mission        *mission.Mission
	Config         *mission.Config
	CreatedAt      time.Time
	LastAccessedAt time.Time
}

// Info converts the session into its API representation
func (s *Session) Info() *SessionInfo {
	return &SessionInfo{
		ID:             s.ID,
		ConfigName:     s.ConfigName,
		CreatedAt:      s.CreatedAt,
		LastAccessedAt: s.LastAccessedAt,
		Plateau:        s.Mission.Snapshot(),
		Config:         s.Config,
	}
}
