package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/marsrover/game/mission"
	"github.com/wricardo/mcp-training/marsrover/game/rover"
)

// CustomConfigName is the config name recorded for sessions created from bare plateau dimensions
const CustomConfigName = "custom"

// missionServiceImpl implements the MissionService interface
type missionServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex // serializes every grid mutation and access-time update across sessions
}

// NewMissionService creates a new mission service instance
func NewMissionService(sessions SessionManager, configs ConfigManager) MissionService {
	return &missionServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getConfigID returns the config_id for a given config display name
func (s *missionServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// CreateSession creates a new session from a named mission config
func (s *missionServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *mission.Config
	var err error
	configID := configName
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' %w. Available configs: %v", configName, ErrNotFound, configIDs)
				}
				return nil, fmt.Errorf("config '%s' %w. Use /api/configs to list available configurations", configName, ErrNotFound)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
		configID = s.getConfigID(config.Name)
	}

	// Let session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", configID, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session.Info(), nil
}

// CreatePlateauSession creates a session holding an empty plateau
func (s *missionServiceImpl) CreatePlateauSession(ctx context.Context, cornerX, cornerY int) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	config := &mission.Config{
		Name:        fmt.Sprintf("plateau %dx%d", cornerX, cornerY),
		Description: fmt.Sprintf("Empty plateau with north-east corner (%d, %d)", cornerX, cornerY),
		Plateau:     rover.Position{X: cornerX, Y: cornerY},
	}
	if err := mission.ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	session, err := s.sessions.Create("", CustomConfigName, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session.Info(), nil
}

// GetSession retrieves session information
func (s *missionServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	return session.Info(), nil
}

// ListSessions returns all active sessions
func (s *missionServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, sess.Info())
	}

	return result, nil
}

// DeleteSession removes a session and frees its plateau
func (s *missionServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// DeployRover places a new rover on a session's plateau
func (s *missionServiceImpl) DeployRover(ctx context.Context, sessionID string, x, y int, heading, instructions string) (*mission.RoverState, error) {
	dir, err := parseHeading(heading)
	if err != nil {
		return nil, err
	}
	queued, err := parseInstructions(instructions)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	entry, err := session.Mission.Deploy(x, y, dir, queued)
	if err != nil {
		return nil, fmt.Errorf("failed to deploy rover: %w", err)
	}
	s.persist(session)

	state := entry.State()
	return &state, nil
}

// GetRover returns the state of one rover
func (s *missionServiceImpl) GetRover(ctx context.Context, sessionID, roverID string) (*mission.RoverState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, entry, err := s.getRover(sessionID, roverID)
	if err != nil {
		return nil, err
	}

	state := entry.State()
	return &state, nil
}

// NavigateRover executes instructions immediately on one rover and traces every step
func (s *missionServiceImpl) NavigateRover(ctx context.Context, sessionID, roverID, instructions string) (*NavigateResult, error) {
	parsed, err := parseInstructions(instructions)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, entry, err := s.getRover(sessionID, roverID)
	if err != nil {
		return nil, err
	}

	start := entry.Rover.Position()
	steps := entry.Rover.Trace(parsed)

	result := &NavigateResult{
		SessionID:    session.ID,
		Instructions: parsed,
		Start:        start,
		End:          entry.Rover.Position(),
		Steps:        steps,
	}
	for _, step := range steps {
		if step.Blocked != rover.NotBlocked {
			result.Blocked++
		} else if step.Recognized {
			result.Applied++
		}
	}
	result.Rover = entry.State()
	result.Message = navigateMessage(result)
	result.Plateau = session.Mission.Snapshot()

	s.persist(session)
	return result, nil
}

// QueueInstructions appends instructions to a rover's pending queue for the next mission run
func (s *missionServiceImpl) QueueInstructions(ctx context.Context, sessionID, roverID, instructions string) (*mission.RoverState, error) {
	parsed, err := parseInstructions(instructions)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, entry, err := s.getRover(sessionID, roverID)
	if err != nil {
		return nil, err
	}
	if len(entry.Pending)+len(parsed) > mission.MaxInstructionLength {
		return nil, fmt.Errorf("%w: at most %d instructions may be queued", ErrInvalidInput, mission.MaxInstructionLength)
	}

	if err := session.Mission.Queue(roverID, parsed); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	s.persist(session)

	state := entry.State()
	return &state, nil
}

// SetRoverPosition moves a rover to a new coordinate. X is applied before Y and a
// rejected Y puts X back, so the rover either reaches the target or stays put.
func (s *missionServiceImpl) SetRoverPosition(ctx context.Context, sessionID, roverID string, x, y *int) (*mission.RoverState, error) {
	if x == nil && y == nil {
		return nil, fmt.Errorf("%w: x or y is required", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, entry, err := s.getRover(sessionID, roverID)
	if err != nil {
		return nil, err
	}

	r := entry.Rover
	origX := r.X()
	if x != nil {
		if err := r.SetX(*x); err != nil {
			return nil, fmt.Errorf("failed to set x: %w", err)
		}
	}
	if y != nil {
		if err := r.SetY(*y); err != nil {
			if x != nil {
				if restoreErr := r.SetX(origX); restoreErr != nil {
					log.Printf("Warning: failed to restore rover %s to x=%d: %v", roverID, origX, restoreErr)
				}
			}
			return nil, fmt.Errorf("failed to set y: %w", err)
		}
	}
	s.persist(session)

	state := entry.State()
	return &state, nil
}

// SetRoverHeading points a rover in a new direction
func (s *missionServiceImpl) SetRoverHeading(ctx context.Context, sessionID, roverID, heading string) (*mission.RoverState, error) {
	dir, err := parseHeading(heading)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, entry, err := s.getRover(sessionID, roverID)
	if err != nil {
		return nil, err
	}

	entry.Rover.SetHeading(dir)
	s.persist(session)

	state := entry.State()
	return &state, nil
}

// RemoveRover takes a rover off the plateau and frees its cell
func (s *missionServiceImpl) RemoveRover(ctx context.Context, sessionID, roverID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.getSession(sessionID)
	if err != nil {
		return err
	}

	if err := session.Mission.Remove(roverID); err != nil {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	s.persist(session)
	return nil
}

// RunMission navigates every rover through its queued instructions in deployment order
func (s *missionServiceImpl) RunMission(ctx context.Context, sessionID string) (*RunResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	reports := session.Mission.Run()
	lines := make([]string, 0, len(reports))
	for _, r := range reports {
		lines = append(lines, r.String())
	}
	s.persist(session)

	return &RunResult{
		SessionID: session.ID,
		Reports:   reports,
		Output:    strings.Join(lines, "\n"),
		Plateau:   session.Mission.Snapshot(),
	}, nil
}

// GetPlateau returns the current plateau snapshot
func (s *missionServiceImpl) GetPlateau(ctx context.Context, sessionID string) (*mission.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return session.Mission.Snapshot(), nil
}

// ListConfigs returns all available configurations
func (s *missionServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific configuration
func (s *missionServiceImpl) LoadConfig(ctx context.Context, configName string) (*mission.Config, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig validates and stores a configuration under configName
func (s *missionServiceImpl) SaveConfig(ctx context.Context, configName string, config *mission.Config) error {
	if configName == "" || strings.ContainsAny(configName, `/\`) || strings.HasPrefix(configName, ".") {
		return fmt.Errorf("%w: invalid config name %q", ErrInvalidInput, configName)
	}
	if err := mission.ValidateConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.configs.SaveConfig(configName, config)
}

// ExpireSessions drops sessions idle for longer than maxAge from memory
func (s *missionServiceImpl) ExpireSessions(ctx context.Context, maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.CleanupExpiredSessions(maxAge)
}

// PruneSessions drops every in-memory session for which keep returns false
func (s *missionServiceImpl) PruneSessions(ctx context.Context, keep func(sessionID string) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	pruned := 0
	for _, session := range s.sessions.List() {
		if keep(session.ID) {
			continue
		}
		if err := s.sessions.DeleteFromMemory(session.ID); err == nil {
			pruned++
			log.Printf("Pruned session %s from memory", session.ID)
		}
	}
	return pruned
}

// SaveSessions writes every in-memory session to persistence
func (s *missionServiceImpl) SaveSessions(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.SaveAllSessions()
}

// getSession looks up a session and records the access. Callers hold s.mu exclusively.
func (s *missionServiceImpl) getSession(sessionID string) (*Session, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return session, nil
}

func (s *missionServiceImpl) getRover(sessionID, roverID string) (*Session, *mission.Entry, error) {
	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, nil, err
	}
	entry, err := session.Mission.Find(roverID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return session, entry, nil
}

// persist saves the session after a mutation; failures are logged, never returned
func (s *missionServiceImpl) persist(session *Session) {
	if err := s.sessions.Save(session.ID); err != nil {
		log.Printf("Warning: Failed to persist session %s: %v", session.ID, err)
	}
}

func parseHeading(heading string) (rover.Direction, error) {
	dir, err := rover.ParseDirection(heading)
	if err != nil {
		return 0, fmt.Errorf("%w: heading must be one of N, E, S, W, got %q", ErrInvalidInput, heading)
	}
	return dir, nil
}

func parseInstructions(instructions string) (string, error) {
	parsed, err := mission.ValidateInstructions(instructions)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return parsed, nil
}

func navigateMessage(result *NavigateResult) string {
	heading := result.Rover.Heading
	if result.Start == result.End {
		if result.Blocked > 0 {
			return fmt.Sprintf("Rover stayed at (%d, %d) facing %s, %d move(s) blocked",
				result.End.X, result.End.Y, heading, result.Blocked)
		}
		return fmt.Sprintf("Rover stayed at (%d, %d) facing %s", result.End.X, result.End.Y, heading)
	}
	msg := fmt.Sprintf("Rover moved from (%d, %d) to (%d, %d) facing %s",
		result.Start.X, result.Start.Y, result.End.X, result.End.Y, heading)
	if result.Blocked > 0 {
		msg += fmt.Sprintf(", %d move(s) blocked", result.Blocked)
	}
	return msg
}
