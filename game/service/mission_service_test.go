package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/marsrover/game/mission"
	"github.com/wricardo/mcp-training/marsrover/game/rover"
	"github.com/wricardo/mcp-training/marsrover/game/service"
)

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
	saves    int
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id, configName string, config *mission.Config) (*service.Session, error) {
	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}

	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	plateau, err := config.Build()
	if err != nil {
		return nil, err
	}

	session := &service.Session{
		ID:             id,
		ConfigName:     configName,
		Mission:        plateau,
		Config:         config,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}

	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	session, exists := m.sessions[id]
	if !exists {
		return nil, fmt.Errorf("session %w", service.ErrNotFound)
	}
	return session, nil
}

func (m *MockSessionManager) GetOrCreate(id, configName string, config *mission.Config) (*service.Session, error) {
	if session, exists := m.sessions[id]; exists {
		return session, nil
	}
	return m.Create(id, configName, config)
}

func (m *MockSessionManager) List() []*service.Session {
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	session, exists := m.sessions[id]
	if !exists {
		return fmt.Errorf("session %w", service.ErrNotFound)
	}
	session.Mission.Dispose()
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) DeleteFromMemory(id string) error {
	session, exists := m.sessions[id]
	if !exists {
		return fmt.Errorf("session %w", service.ErrNotFound)
	}
	session.Mission.Dispose()
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) CleanupExpiredSessions(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for id, session := range m.sessions {
		if session.LastAccessedAt.Before(cutoff) {
			session.Mission.Dispose()
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

func (m *MockSessionManager) SaveAllSessions() error {
	m.saves += len(m.sessions)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	if session, exists := m.sessions[id]; exists {
		session.LastAccessedAt = time.Now()
		return nil
	}
	return fmt.Errorf("session %w", service.ErrNotFound)
}

func (m *MockSessionManager) Save(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return fmt.Errorf("session %w", service.ErrNotFound)
	}
	m.saves++
	return nil
}

// MockConfigManager implements service.ConfigManager for testing
type MockConfigManager struct {
	configs map[string]*mission.Config
}

func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{
		configs: map[string]*mission.Config{
			"classic": {
				Name:        "classic",
				Description: "Two rovers on a 5x5 plateau",
				Plateau:     rover.Position{X: 5, Y: 5},
				Rovers: []mission.RoverConfig{
					{X: 1, Y: 2, Heading: "N", Instructions: "LMLMLMLMM"},
					{X: 3, Y: 3, Heading: "E", Instructions: "MMRMMRMRRM"},
				},
			},
		},
	}
}

func (m *MockConfigManager) LoadConfig(name string) (*mission.Config, error) {
	config, exists := m.configs[name]
	if !exists {
		return nil, fmt.Errorf("configuration %w", service.ErrNotFound)
	}
	return config, nil
}

func (m *MockConfigManager) ListConfigs() ([]*service.ConfigInfo, error) {
	var result []*service.ConfigInfo
	for id, config := range m.configs {
		result = append(result, service.NewConfigInfo(id+".json", id, config))
	}
	return result, nil
}

func (m *MockConfigManager) GetDefault() *mission.Config {
	return m.configs["classic"]
}

func (m *MockConfigManager) SaveConfig(name string, config *mission.Config) error {
	m.configs[name] = config
	return nil
}

func newTestService() (service.MissionService, *MockSessionManager) {
	sessions := NewMockSessionManager()
	return service.NewMissionService(sessions, NewMockConfigManager()), sessions
}

func intPtr(v int) *int {
	return &v
}

func TestCreateSession(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	t.Run("named config", func(t *testing.T) {
		info, err := svc.CreateSession(ctx, "classic")
		if err != nil {
			t.Fatalf("CreateSession: %v", err)
		}
		if info.ConfigName != "classic" {
			t.Errorf("ConfigName = %q", info.ConfigName)
		}
		if len(info.Plateau.Rovers) != 2 {
			t.Errorf("Expected 2 rovers, got %d", len(info.Plateau.Rovers))
		}
		if info.Plateau.Width != 6 || info.Plateau.Height != 6 {
			t.Errorf("Plateau = %dx%d", info.Plateau.Width, info.Plateau.Height)
		}
	})

	t.Run("default config", func(t *testing.T) {
		info, err := svc.CreateSession(ctx, "")
		if err != nil {
			t.Fatalf("CreateSession: %v", err)
		}
		if info.ConfigName != "classic" {
			t.Errorf("Expected default config id 'classic', got %q", info.ConfigName)
		}
	})

	t.Run("unknown config", func(t *testing.T) {
		_, err := svc.CreateSession(ctx, "nope")
		if !errors.Is(err, service.ErrNotFound) {
			t.Fatalf("Expected ErrNotFound, got %v", err)
		}
		if !strings.Contains(err.Error(), "classic") {
			t.Errorf("Expected available configs in error, got %q", err.Error())
		}
	})
}

func TestCreatePlateauSession(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	info, err := svc.CreatePlateauSession(ctx, 3, 2)
	if err != nil {
		t.Fatalf("CreatePlateauSession: %v", err)
	}
	if info.ConfigName != service.CustomConfigName {
		t.Errorf("ConfigName = %q", info.ConfigName)
	}
	if len(info.Plateau.Rows) != 3 || info.Plateau.Rows[0] != "...." {
		t.Errorf("Rows = %v", info.Plateau.Rows)
	}

	if _, err := svc.CreatePlateauSession(ctx, -1, 2); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestDeployAndRunMission(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	info, err := svc.CreatePlateauSession(ctx, 5, 5)
	if err != nil {
		t.Fatal(err)
	}

	first, err := svc.DeployRover(ctx, info.ID, 1, 2, "N", "LMLMLMLMM")
	if err != nil {
		t.Fatalf("DeployRover: %v", err)
	}
	if first.Pending != "LMLMLMLMM" || first.Heading != rover.North {
		t.Errorf("Deployed rover = %+v", first)
	}
	if _, err := svc.DeployRover(ctx, info.ID, 3, 3, "E", " MMRMMRMRRM "); err != nil {
		t.Fatalf("DeployRover: %v", err)
	}

	result, err := svc.RunMission(ctx, info.ID)
	if err != nil {
		t.Fatalf("RunMission: %v", err)
	}
	if result.Output != "1 3 N\n5 1 E" {
		t.Errorf("Output = %q", result.Output)
	}
	if len(result.Plateau.Rovers) != 2 || result.Plateau.Rovers[0].Pending != "" {
		t.Errorf("Plateau rovers = %+v", result.Plateau.Rovers)
	}
}

func TestDeployRoverErrors(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	info, _ := svc.CreateSession(ctx, "classic")

	tests := []struct {
		name    string
		session string
		x, y    int
		heading string
		instr   string
		target  error
	}{
		{"unknown session", "none", 0, 0, "N", "", service.ErrNotFound},
		{"lower case heading", info.ID, 0, 0, "n", "", service.ErrInvalidInput},
		{"bad instruction", info.ID, 0, 0, "N", "MQ", service.ErrInvalidInput},
		{"too many instructions", info.ID, 0, 0, "N", strings.Repeat("M", mission.MaxInstructionLength+1), service.ErrInvalidInput},
		{"off plateau", info.ID, 6, 0, "N", "", rover.ErrInvalidStartPosition},
		{"occupied", info.ID, 1, 2, "S", "", rover.ErrPositionOccupied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.DeployRover(ctx, tt.session, tt.x, tt.y, tt.heading, tt.instr)
			if !errors.Is(err, tt.target) {
				t.Errorf("Expected %v, got %v", tt.target, err)
			}
		})
	}
}

func TestNavigateRover(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	info, _ := svc.CreatePlateauSession(ctx, 2, 2)
	blocker, _ := svc.DeployRover(ctx, info.ID, 1, 2, "S", "")
	r, _ := svc.DeployRover(ctx, info.ID, 1, 0, "N", "MMM")

	result, err := svc.NavigateRover(ctx, info.ID, r.ID, "MMRM")
	if err != nil {
		t.Fatalf("NavigateRover: %v", err)
	}
	// (1,0) N -> (1,1); (1,2) is taken by the blocker; turn east and move to (2,1)
	if result.End != (rover.Position{X: 2, Y: 1}) {
		t.Errorf("End = %v", result.End)
	}
	if result.Applied != 3 || result.Blocked != 1 {
		t.Errorf("Applied = %d, Blocked = %d", result.Applied, result.Blocked)
	}
	if len(result.Steps) != 4 || result.Steps[1].Blocked != rover.BlockedOccupied {
		t.Errorf("Steps = %+v", result.Steps)
	}
	if result.Rover.Pending != "MMM" {
		t.Errorf("Navigate should not touch the queue, got %q", result.Rover.Pending)
	}
	if !strings.Contains(result.Message, "1 move(s) blocked") {
		t.Errorf("Message = %q", result.Message)
	}

	if _, err := svc.NavigateRover(ctx, info.ID, r.ID, "MX"); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.NavigateRover(ctx, info.ID, "ghost", "M"); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	state, err := svc.GetRover(ctx, info.ID, blocker.ID)
	if err != nil || state.X != 1 || state.Y != 2 {
		t.Errorf("Blocker = %+v, %v", state, err)
	}
}

func TestQueueInstructions(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	info, _ := svc.CreatePlateauSession(ctx, 5, 5)
	state, _ := svc.DeployRover(ctx, info.ID, 1, 2, "N", "LML")

	queued, err := svc.QueueInstructions(ctx, info.ID, state.ID, "MLMLMM")
	if err != nil {
		t.Fatalf("QueueInstructions: %v", err)
	}
	if queued.Pending != "LMLMLMLMM" {
		t.Errorf("Pending = %q", queued.Pending)
	}
	if queued.X != 1 || queued.Y != 2 {
		t.Errorf("Queueing moved the rover to (%d, %d)", queued.X, queued.Y)
	}

	result, err := svc.RunMission(ctx, info.ID)
	if err != nil {
		t.Fatal(err)
	}
	if result.Output != "1 3 N" {
		t.Errorf("Output = %q", result.Output)
	}

	if _, err := svc.QueueInstructions(ctx, info.ID, state.ID, "MX"); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for bad letter, got %v", err)
	}
	if _, err := svc.QueueInstructions(ctx, info.ID, "missing", "M"); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown rover, got %v", err)
	}
	if _, err := svc.QueueInstructions(ctx, info.ID, state.ID, strings.Repeat("L", mission.MaxInstructionLength)); err != nil {
		t.Fatalf("Expected a full queue to be accepted: %v", err)
	}
	if _, err := svc.QueueInstructions(ctx, info.ID, state.ID, "M"); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput past the queue limit, got %v", err)
	}
}

func TestSetRoverPosition(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	info, _ := svc.CreatePlateauSession(ctx, 4, 4)
	svc.DeployRover(ctx, info.ID, 2, 3, "N", "")
	r, _ := svc.DeployRover(ctx, info.ID, 0, 0, "N", "")

	t.Run("both coordinates", func(t *testing.T) {
		state, err := svc.SetRoverPosition(ctx, info.ID, r.ID, intPtr(1), intPtr(1))
		if err != nil {
			t.Fatalf("SetRoverPosition: %v", err)
		}
		if state.X != 1 || state.Y != 1 {
			t.Errorf("State = %+v", state)
		}
	})

	t.Run("failed y restores x", func(t *testing.T) {
		// x=2 is free at y=1, but (2,3) is occupied
		_, err := svc.SetRoverPosition(ctx, info.ID, r.ID, intPtr(2), intPtr(3))
		if !errors.Is(err, rover.ErrCoordinateOccupied) {
			t.Fatalf("Expected ErrCoordinateOccupied, got %v", err)
		}
		state, _ := svc.GetRover(ctx, info.ID, r.ID)
		if state.X != 1 || state.Y != 1 {
			t.Errorf("Expected rover back at (1, 1), got (%d, %d)", state.X, state.Y)
		}
		plateau, _ := svc.GetPlateau(ctx, info.ID)
		if len(plateau.Occupied) != 2 {
			t.Errorf("Expected 2 occupied cells, got %v", plateau.Occupied)
		}
	})

	t.Run("out of range", func(t *testing.T) {
		_, err := svc.SetRoverPosition(ctx, info.ID, r.ID, nil, intPtr(5))
		if !errors.Is(err, rover.ErrInvalidCoordinate) {
			t.Errorf("Expected ErrInvalidCoordinate, got %v", err)
		}
	})

	t.Run("nothing to set", func(t *testing.T) {
		_, err := svc.SetRoverPosition(ctx, info.ID, r.ID, nil, nil)
		if !errors.Is(err, service.ErrInvalidInput) {
			t.Errorf("Expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestSetRoverHeadingAndRemove(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	info, _ := svc.CreateSession(ctx, "classic")
	first := info.Plateau.Rovers[0]

	state, err := svc.SetRoverHeading(ctx, info.ID, first.ID, "W")
	if err != nil {
		t.Fatalf("SetRoverHeading: %v", err)
	}
	if state.Heading != rover.West {
		t.Errorf("Heading = %v", state.Heading)
	}
	if _, err := svc.SetRoverHeading(ctx, info.ID, first.ID, "west"); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}

	if err := svc.RemoveRover(ctx, info.ID, first.ID); err != nil {
		t.Fatalf("RemoveRover: %v", err)
	}
	if err := svc.RemoveRover(ctx, info.ID, first.ID); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	// The freed cell can be reused
	if _, err := svc.DeployRover(ctx, info.ID, first.X, first.Y, "N", ""); err != nil {
		t.Errorf("Expected freed cell to accept a new rover: %v", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	svc, sessions := newTestService()
	ctx := context.Background()

	info, _ := svc.CreateSession(ctx, "classic")

	got, err := svc.GetSession(ctx, info.ID)
	if err != nil || got.ID != info.ID {
		t.Fatalf("GetSession = %v, %v", got, err)
	}

	list, _ := svc.ListSessions(ctx)
	if len(list) != 1 {
		t.Errorf("Expected 1 session, got %d", len(list))
	}

	if _, err := svc.RunMission(ctx, info.ID); err != nil {
		t.Fatal(err)
	}
	if sessions.saves == 0 {
		t.Error("Expected mutation to persist the session")
	}

	if err := svc.DeleteSession(ctx, info.ID); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if _, err := svc.GetSession(ctx, info.ID); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestConfigs(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	configs, err := svc.ListConfigs(ctx)
	if err != nil || len(configs) != 1 {
		t.Fatalf("ListConfigs = %v, %v", configs, err)
	}
	if configs[0].RoverCount != 2 || configs[0].PlateauX != 5 {
		t.Errorf("ConfigInfo = %+v", configs[0])
	}

	config := &mission.Config{
		Name:        "solo",
		Description: "One rover",
		Plateau:     rover.Position{X: 1, Y: 1},
		Rovers:      []mission.RoverConfig{{X: 0, Y: 0, Heading: "E", Instructions: "M"}},
	}
	if err := svc.SaveConfig(ctx, "solo", config); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	loaded, err := svc.LoadConfig(ctx, "solo")
	if err != nil || loaded.Name != "solo" {
		t.Errorf("LoadConfig = %v, %v", loaded, err)
	}

	if err := svc.SaveConfig(ctx, "../escape", config); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for bad name, got %v", err)
	}
	config.Rovers[0].Heading = "up"
	if err := svc.SaveConfig(ctx, "solo", config); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for bad config, got %v", err)
	}
}

func TestConcurrentNavigationKeepsGridConsistent(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	info, _ := svc.CreatePlateauSession(ctx, 3, 3)
	a, _ := svc.DeployRover(ctx, info.ID, 0, 0, "N", "")
	b, _ := svc.DeployRover(ctx, info.ID, 3, 3, "S", "")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			svc.NavigateRover(ctx, info.ID, a.ID, "MRMLM")
		}()
		go func() {
			defer wg.Done()
			svc.NavigateRover(ctx, info.ID, b.ID, "MLMRM")
		}()
	}
	wg.Wait()

	plateau, err := svc.GetPlateau(ctx, info.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(plateau.Occupied) != 2 {
		t.Errorf("Expected exactly 2 occupied cells, got %v", plateau.Occupied)
	}
}

func TestSessionMaintenance(t *testing.T) {
	svc, sessions := newTestService()
	ctx := context.Background()

	kept, _ := svc.CreatePlateauSession(ctx, 5, 5)
	dropped, _ := svc.CreatePlateauSession(ctx, 5, 5)

	if pruned := svc.PruneSessions(ctx, func(id string) bool { return id == kept.ID }); pruned != 1 {
		t.Errorf("Expected 1 pruned session, got %d", pruned)
	}
	if _, err := svc.GetSession(ctx, dropped.ID); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected pruned session to be gone, got %v", err)
	}

	saves := sessions.saves
	if err := svc.SaveSessions(ctx); err != nil {
		t.Fatalf("SaveSessions: %v", err)
	}
	if sessions.saves != saves+1 {
		t.Errorf("Expected one session saved, got %d", sessions.saves-saves)
	}

	if removed := svc.ExpireSessions(ctx, time.Hour); removed != 0 {
		t.Errorf("Expected fresh session to survive, removed %d", removed)
	}
	if removed := svc.ExpireSessions(ctx, -time.Second); removed != 1 {
		t.Errorf("Expected 1 expired session, got %d", removed)
	}
}
