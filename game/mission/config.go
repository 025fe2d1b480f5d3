package mission

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/mcp-training/marsrover/game/rover"
	"gopkg.in/yaml.v3"
)

// Config is a mission definition stored on disk
type Config struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description" yaml:"description"`
	Plateau     rover.Position `json:"plateau" yaml:"plateau"` // north-east corner
	Rovers      []RoverConfig  `json:"rovers" yaml:"rovers"`
}

// RoverConfig describes one rover of a mission definition
type RoverConfig struct {
	X            int    `json:"x" yaml:"x"`
	Y            int    `json:"y" yaml:"y"`
	Heading      string `json:"heading" yaml:"heading"`
	Instructions string `json:"instructions" yaml:"instructions"`
}

// Format is an on-disk encoding for mission configs
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the encoding from a file extension, defaulting to JSON
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ValidateConfig validates a mission configuration for correctness
func ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	if config.Plateau.X < 0 || config.Plateau.X > MaxPlateauCorner ||
		config.Plateau.Y < 0 || config.Plateau.Y > MaxPlateauCorner {
		return fmt.Errorf("config validation: plateau corner must be between 0 and %d, got (%d, %d)",
			MaxPlateauCorner, config.Plateau.X, config.Plateau.Y)
	}

	if len(config.Rovers) > MaxRovers {
		return fmt.Errorf("config validation: at most %d rovers are allowed, got %d", MaxRovers, len(config.Rovers))
	}

	for i, rc := range config.Rovers {
		if _, err := rover.ParseDirection(rc.Heading); err != nil {
			return fmt.Errorf("config validation: rover %d heading must be one of N, E, S, W, got %q", i+1, rc.Heading)
		}
		if _, err := ValidateInstructions(rc.Instructions); err != nil {
			return fmt.Errorf("config validation: rover %d instructions: %v", i+1, err)
		}
	}

	// Deploy every rover on a scratch plateau to catch bad or colliding starts
	m, err := config.build()
	if err != nil {
		return fmt.Errorf("config validation: %v", err)
	}
	m.Dispose()

	return nil
}

// Build validates the config and returns a mission with every rover deployed and its instructions queued
func (config *Config) Build() (*Mission, error) {
	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return config.build()
}

func (config *Config) build() (*Mission, error) {
	m, err := New(config.Plateau.X, config.Plateau.Y)
	if err != nil {
		return nil, err
	}

	for i, rc := range config.Rovers {
		heading, err := rover.ParseDirection(rc.Heading)
		if err != nil {
			return nil, fmt.Errorf("rover %d: %w", i+1, err)
		}
		instructions, err := ParseInstructions(rc.Instructions)
		if err != nil {
			return nil, fmt.Errorf("rover %d: %w", i+1, err)
		}
		if _, err := m.Deploy(rc.X, rc.Y, heading, instructions); err != nil {
			m.Dispose()
			return nil, fmt.Errorf("rover %d at (%d, %d): %w", i+1, rc.X, rc.Y, err)
		}
	}

	return m, nil
}

// DecodeConfig parses a mission config in the given format without validating it
func DecodeConfig(data []byte, format Format) (*Config, error) {
	var config Config
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse yaml config: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse json config: %w", err)
		}
	}
	return &config, nil
}

// EncodeConfig serializes a mission config in the given format
func EncodeConfig(config *Config, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(config)
	default:
		return json.MarshalIndent(config, "", "  ")
	}
}

// LoadConfigFile reads, decodes and validates a JSON or YAML mission config
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config, err := DecodeConfig(data, FormatFromPath(path))
	if err != nil {
		return nil, err
	}

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return config, nil
}
