package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/wricardo/mcp-training/marsrover/game/mission"
	"github.com/wricardo/mcp-training/marsrover/game/rover"
	"github.com/wricardo/mcp-training/marsrover/game/service"
)

var (
	ErrConfigNotFound = fmt.Errorf("configuration %w", service.ErrNotFound)
	ErrInvalidConfig  = mission.ErrInvalidConfig
)

// Extensions lists the config file extensions in lookup order
var Extensions = []string{".json", ".yaml", ".yml"}

// Manager handles mission configuration loading and caching
type Manager struct {
	configDir     string
	defaultConfig *mission.Config
	configs       map[string]*mission.Config
	mu            sync.RWMutex
}

// NewManager creates a new configuration manager
func NewManager(configDir string) (*Manager, error) {
	// Ensure config directory exists
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*mission.Config),
	}

	m.defaultConfig = m.findDefaultConfig()

	return m, nil
}

// LoadConfig loads a configuration by name. The name may carry an extension;
// otherwise .json, .yaml and .yml are tried in that order.
func (m *Manager) LoadConfig(name string) (*mission.Config, error) {
	id := ConfigID(name)

	m.mu.RLock()
	// Check cache first
	if config, exists := m.configs[id]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if config, exists := m.configs[id]; exists {
		return config, nil
	}

	configPath, err := m.resolve(name)
	if err != nil {
		return nil, err
	}

	config, err := mission.LoadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", filepath.Base(configPath), err)
	}

	m.configs[id] = config
	return config, nil
}

// ListConfigs returns information about all valid configurations in the directory
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var configs []*service.ConfigInfo
	seen := make(map[string]bool)

	for _, entry := range entries {
		if entry.IsDir() || !IsConfigFile(entry.Name()) {
			continue
		}

		id := ConfigID(entry.Name())
		if seen[id] {
			continue
		}

		config, err := m.LoadConfig(entry.Name())
		if err != nil {
			// Skip invalid configs
			continue
		}
		seen[id] = true

		configs = append(configs, service.NewConfigInfo(entry.Name(), id, config))
	}

	return configs, nil
}

// GetDefault returns the default configuration
func (m *Manager) GetDefault() *mission.Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault sets the default configuration by name
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = config
	return nil
}

// RefreshCache drops every cached configuration and reselects the default
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.configs = make(map[string]*mission.Config)
	m.mu.Unlock()

	config := m.findDefaultConfig()

	m.mu.Lock()
	m.defaultConfig = config
	m.mu.Unlock()
	return nil
}

// SaveConfig validates a configuration and writes it to disk. A .yaml or .yml
// suffix on name selects YAML; anything else is stored as JSON.
func (m *Manager) SaveConfig(name string, config *mission.Config) error {
	if err := mission.ValidateConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	filename := name
	if !IsConfigFile(filename) {
		filename = name + ".json"
	}
	format := mission.FormatFromPath(filename)

	data, err := mission.EncodeConfig(config, format)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	configPath := filepath.Join(m.configDir, filename)
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	// Update cache
	m.mu.Lock()
	m.configs[ConfigID(name)] = config
	m.mu.Unlock()

	return nil
}

// IsConfigFile reports whether filename has a config extension
func IsConfigFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ConfigID strips a config extension from a file name
func ConfigID(filename string) string {
	if IsConfigFile(filename) {
		return strings.TrimSuffix(filename, filepath.Ext(filename))
	}
	return filename
}

// resolve finds the file backing a config name
func (m *Manager) resolve(name string) (string, error) {
	if IsConfigFile(name) {
		path := filepath.Join(m.configDir, name)
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return "", ErrConfigNotFound
			}
			return "", fmt.Errorf("failed to read config file: %w", err)
		}
		return path, nil
	}

	for _, ext := range Extensions {
		path := filepath.Join(m.configDir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", ErrConfigNotFound
}

// findDefaultConfig prefers classic, then the first valid config, then a built-in mission
func (m *Manager) findDefaultConfig() *mission.Config {
	if config, err := m.LoadConfig("classic"); err == nil {
		return config
	}

	configs, err := m.ListConfigs()
	if err == nil && len(configs) > 0 {
		if config, err := m.LoadConfig(configs[0].Filename); err == nil {
			return config
		}
	}

	return createMinimalConfig()
}

// createMinimalConfig returns the two rover mission on a 5x5 plateau
func createMinimalConfig() *mission.Config {
	return &mission.Config{
		Name:        "default",
		Description: "Two rovers on a 5x5 plateau",
		Plateau:     rover.Position{X: 5, Y: 5},
		Rovers: []mission.RoverConfig{
			{X: 1, Y: 2, Heading: "N", Instructions: "LMLMLMLMM"},
			{X: 3, Y: 3, Heading: "E", Instructions: "MMRMMRMRRM"},
		},
	}
}
