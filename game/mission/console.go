package mission

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// maxConsoleLine caps one input line; instruction lines have no length limit below it
const maxConsoleLine = 16 * 1024 * 1024

// Console reads a mission from line oriented input and prints the rover reports
type Console struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewConsole creates a console reading from in and writing prompts and reports to out
func NewConsole(in io.Reader, out io.Writer) *Console {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxConsoleLine)
	return &Console{
		scanner: scanner,
		out:     out,
	}
}

// Run reads the plateau and every rover, runs the mission and prints one report line per rover
func (c *Console) Run() ([]Report, error) {
	m, err := c.ReadPlateau()
	if err != nil {
		return nil, err
	}

	if err := c.ReadRovers(m); err != nil {
		return nil, err
	}

	reports := m.Run()
	if err := PrintReports(c.out, reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// ReadPlateau reads plateau lines until one is valid
func (c *Console) ReadPlateau() (*Mission, error) {
	for {
		line, ok := c.readLine()
		if !ok {
			if err := c.scanner.Err(); err != nil {
				return nil, fmt.Errorf("failed to read plateau: %w", err)
			}
			return nil, ErrNoPlateau
		}

		corner, err := ParsePlateau(line)
		if err != nil {
			c.report(err)
			continue
		}

		m, err := New(corner.X, corner.Y)
		if err != nil {
			c.report(err)
			continue
		}
		return m, nil
	}
}

// ReadRovers reads start and instruction line pairs until a blank line or end of input
func (c *Console) ReadRovers(m *Mission) error {
	for {
		line, ok := c.readLine()
		if !ok || strings.TrimSpace(line) == "" {
			return c.scanner.Err()
		}

		start, err := ParseStart(line)
		if err != nil {
			c.report(err)
			continue
		}

		entry, err := m.Deploy(start.X, start.Y, start.Heading, "")
		if err != nil {
			c.report(err)
			continue
		}

		for {
			line, ok := c.readLine()
			if !ok {
				break
			}
			instructions, err := ParseInstructions(line)
			if err != nil {
				c.report(err)
				continue
			}
			entry.Pending = instructions
			break
		}
	}
}

// PrintReports writes one "x y heading" line per report
func PrintReports(w io.Writer, reports []Report) error {
	for _, r := range reports {
		if _, err := fmt.Fprintln(w, r.String()); err != nil {
			return err
		}
	}
	return nil
}

func (c *Console) readLine() (string, bool) {
	if !c.scanner.Scan() {
		return "", false
	}
	return strings.TrimRight(c.scanner.Text(), "\r"), true
}

func (c *Console) report(err error) {
	fmt.Fprintln(c.out, err.Error())
}
