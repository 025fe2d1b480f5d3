// Command analyze runs every mission config in a directory headless and prints
// quick, human-readable heuristics: plateau size, rover count, final reports,
// and every move refused by the plateau edge or by another rover.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/wricardo/mcp-training/marsrover/game/config"
	"github.com/wricardo/mcp-training/marsrover/game/mission"
	"github.com/wricardo/mcp-training/marsrover/game/rover"
)

// maxListedBlocks limits how many blocked moves are printed per config
const maxListedBlocks = 5

// RoverAnalysis summarizes one rover's run
type RoverAnalysis struct {
	Start   rover.Position
	Report  mission.Report
	Moves   int
	Blocked []rover.Step
	Visited int // distinct cells, start included
}

// Analysis summarizes one mission config
type Analysis struct {
	Name     string
	Plateau  rover.Position
	Cells    int
	Rovers   []RoverAnalysis
	Blocked  int
	Boundary int
	Occupied int
}

func main() {
	configDir := flag.String("config-dir", "configs", "Directory containing mission configurations")
	flag.Parse()

	files, err := configFiles(*configDir)
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}

	for _, file := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(file))
		analyzeConfig(os.Stdout, file)
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

func analyzeConfig(w io.Writer, path string) {
	cfg, err := mission.LoadConfigFile(path)
	if err != nil {
		fmt.Fprintf(w, "Error loading config: %v\n", err)
		return
	}

	analysis, err := analyze(cfg)
	if err != nil {
		fmt.Fprintf(w, "Error building mission: %v\n", err)
		return
	}

	printAnalysis(w, analysis)
}

// analyze runs the mission rover by rover in deployment order and traces every step
func analyze(cfg *mission.Config) (*Analysis, error) {
	m, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	defer m.Dispose()

	grid := m.Grid()
	analysis := &Analysis{
		Name:    cfg.Name,
		Plateau: m.Corner(),
		Cells:   grid.Width() * grid.Height(),
	}

	for _, entry := range m.Entries() {
		ra := RoverAnalysis{Start: entry.Rover.Position()}
		visited := map[rover.Position]bool{ra.Start: true}

		for _, step := range entry.Rover.Trace(entry.Pending) {
			switch {
			case step.Blocked != rover.NotBlocked:
				ra.Blocked = append(ra.Blocked, step)
				analysis.Blocked++
				if step.Blocked == rover.BlockedBoundary {
					analysis.Boundary++
				} else {
					analysis.Occupied++
				}
			case step.Moved():
				ra.Moves++
				visited[step.To] = true
			}
		}
		entry.Pending = ""

		ra.Visited = len(visited)
		ra.Report = mission.Report{
			ID:      entry.ID,
			X:       entry.Rover.X(),
			Y:       entry.Rover.Y(),
			Heading: entry.Rover.Heading(),
		}
		analysis.Rovers = append(analysis.Rovers, ra)
	}

	return analysis, nil
}

func printAnalysis(w io.Writer, a *Analysis) {
	fmt.Fprintf(w, "Name: %s\n", a.Name)
	fmt.Fprintf(w, "Plateau: corner (%d, %d), %d cells\n", a.Plateau.X, a.Plateau.Y, a.Cells)
	fmt.Fprintf(w, "Rovers: %d\n", len(a.Rovers))

	for i, r := range a.Rovers {
		fmt.Fprintf(w, "  %d. (%d, %d) -> %s  moves=%d visited=%d blocked=%d\n",
			i+1, r.Start.X, r.Start.Y, r.Report, r.Moves, r.Visited, len(r.Blocked))
	}

	if a.Blocked == 0 {
		fmt.Fprintf(w, "✅ No move was blocked\n")
		return
	}

	fmt.Fprintf(w, "⚠️  WARNING: %d moves blocked (%d at the plateau edge, %d by another rover)\n",
		a.Blocked, a.Boundary, a.Occupied)
	listed := 0
	for i, r := range a.Rovers {
		for _, step := range r.Blocked {
			if listed == maxListedBlocks {
				fmt.Fprintf(w, "   ... and %d more\n", a.Blocked-listed)
				return
			}
			fmt.Fprintf(w, "   Rover %d instruction %d at (%d, %d) facing %s: %s\n",
				i+1, step.Index+1, step.From.X, step.From.Y, step.Heading, step.Blocked)
			listed++
		}
	}
}
