// Command validate provides a small CLI that validates mission configuration
// files (JSON or YAML) in a configs directory. It checks:
//   - File structure and required fields
//   - Plateau corner bounds
//   - Rover headings and instruction alphabets
//   - Every rover lands on the plateau on a cell no other rover holds
//
// Unlike the server, which stops at the first problem, every problem in a file
// is reported.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/mcp-training/marsrover/game/config"
	"github.com/wricardo/mcp-training/marsrover/game/mission"
	"github.com/wricardo/mcp-training/marsrover/game/rover"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single configuration file.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	cfg, err := mission.DecodeConfig(data, mission.FormatFromPath(filePath))
	if err != nil {
		result.fail("Invalid %s: %v", mission.FormatFromPath(filePath), err)
		return result
	}

	validateFields(cfg, &result)
	if !result.Valid {
		return result
	}

	// Field checks passed; the mission builder has the final word
	if err := mission.ValidateConfig(cfg); err != nil {
		result.fail("%v", err)
		return result
	}

	instructions := 0
	for _, rc := range cfg.Rovers {
		instructions += len(strings.TrimSpace(rc.Instructions))
	}
	result.Errors = append(result.Errors,
		fmt.Sprintf("✓ Name: %s", cfg.Name),
		fmt.Sprintf("✓ Plateau: corner (%d, %d), %dx%d cells", cfg.Plateau.X, cfg.Plateau.Y, cfg.Plateau.X+1, cfg.Plateau.Y+1),
		fmt.Sprintf("✓ Rovers: %d", len(cfg.Rovers)),
		fmt.Sprintf("✓ Instructions: %d", instructions),
	)

	return result
}

// validateFields records every field level problem of cfg in result
func validateFields(cfg *mission.Config, result *ValidationResult) {
	if cfg.Name == "" {
		result.fail("name is required")
	}
	if cfg.Description == "" {
		result.fail("description is required")
	}

	cornerOK := true
	if cfg.Plateau.X < 0 || cfg.Plateau.X > mission.MaxPlateauCorner ||
		cfg.Plateau.Y < 0 || cfg.Plateau.Y > mission.MaxPlateauCorner {
		cornerOK = false
		result.fail("plateau corner must be between 0 and %d, got (%d, %d)",
			mission.MaxPlateauCorner, cfg.Plateau.X, cfg.Plateau.Y)
	}

	if len(cfg.Rovers) > mission.MaxRovers {
		result.fail("at most %d rovers are allowed, got %d", mission.MaxRovers, len(cfg.Rovers))
	}

	starts := make(map[rover.Position]int)
	for i, rc := range cfg.Rovers {
		n := i + 1
		if _, err := rover.ParseDirection(rc.Heading); err != nil {
			result.fail("Rover %d: heading must be one of N, E, S, W, got %q", n, rc.Heading)
		}
		if _, err := mission.ValidateInstructions(rc.Instructions); err != nil {
			result.fail("Rover %d: %v", n, err)
		}

		pos := rover.Position{X: rc.X, Y: rc.Y}
		if cornerOK && (rc.X < 0 || rc.Y < 0 || rc.X > cfg.Plateau.X || rc.Y > cfg.Plateau.Y) {
			result.fail("Rover %d: start (%d, %d) is off the plateau", n, rc.X, rc.Y)
			continue
		}
		if first, taken := starts[pos]; taken {
			result.fail("Rover %d: start (%d, %d) is already held by rover %d", n, rc.X, rc.Y, first)
			continue
		}
		starts[pos] = n
	}
}

// configFiles lists the JSON and YAML configs in dir in name order
func configFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && config.IsConfigFile(entry.Name()) {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// main validates each config file, printing a concise report and exiting
// with non-zero status if any are invalid.
func main() {
	configDir := flag.String("config-dir", "../configs", "Directory containing mission configurations")
	flag.Parse()

	files, err := configFiles(*configDir)
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
