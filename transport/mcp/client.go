package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/mcp-training/marsrover/game/mission"
	"github.com/wricardo/mcp-training/marsrover/game/rover"
	"github.com/wricardo/mcp-training/marsrover/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Mars Rover Mission Control",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Mars Rover Mission Control - MCP Interface

This is a thin client that proxies all requests to the REST API server.

Rovers sit on a rectangular plateau with (0,0) at the south-west corner. Each rover
has a position and a heading (N, E, S, W) and obeys L (turn left), R (turn right)
and M (move one cell forward). A move off the plateau or onto another rover is
refused and the rover stays put.

AVAILABLE TOOLS:
- create_session: Start a mission from a config or an empty plateau
- get_session / list_sessions: Inspect sessions
- plateau_state: Render the plateau and list rovers
- deploy_rover: Land a rover at x y heading, optionally with queued instructions
- navigate_rover: Execute instructions now and trace every step - requires intent explanation
- queue_instructions: Add instructions to a rover's queue for the next run_mission
- set_rover_position / set_rover_heading: Teleport or rotate a rover
- remove_rover: Take a rover off the plateau
- run_mission: Run every queued instruction in deployment order
- describe_cell: Check whether a cell is free, occupied or off the plateau
- list_configs: List mission configurations
- mission_instructions: Full rules

NOTE: The 'intent' parameter on navigate_rover serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func roverProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Rover ID as returned by deploy_rover or plateau_state",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new mission session. Give config_id to load a mission config, or plateau_x and plateau_y for an empty plateau with that north-east corner. With neither, the default config is used.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the config to use (see list_configs)",
				},
				"plateau_x": map[string]interface{}{
					"type":        "integer",
					"description": "X of the north-east corner for an empty plateau",
				},
				"plateau_y": map[string]interface{}{
					"type":        "integer",
					"description": "Y of the north-east corner for an empty plateau",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active mission sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Plateau and mission
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "plateau_state",
		Description: "Render the plateau (north row first) and list every rover",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handlePlateauState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "run_mission",
		Description: "Run every rover through its queued instructions in deployment order and report final positions",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleRunMission)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Describe one plateau cell: free, occupied by a rover, or off the plateau",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "X coordinate (0 is the west edge)",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Y coordinate (0 is the south edge)",
				},
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleDescribeCell)

	// Rovers
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "deploy_rover",
		Description: "Land a new rover on the plateau. The cell must be on the plateau and free.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "Landing X coordinate",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Landing Y coordinate",
				},
				"heading": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"N", "E", "S", "W"},
					"description": "Initial heading",
				},
				"instructions": map[string]interface{}{
					"type":        "string",
					"description": "Instructions (L, R, M) queued for run_mission",
				},
			},
			Required: []string{"session_id", "x", "y", "heading"},
		},
	}, c.handleDeployRover)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "navigate_rover",
		Description: "Execute instructions on one rover immediately. Blocked moves are skipped and reported.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"rover_id":   roverProperty(),
				"instructions": map[string]interface{}{
					"type":        "string",
					"description": "Instruction string made of L, R and M",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind these instructions (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "rover_id", "instructions"},
		},
	}, c.handleNavigateRover)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "set_rover_position",
		Description: "Move a rover directly to a new cell. Either coordinate may be omitted to keep it.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"rover_id":   roverProperty(),
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "New X coordinate",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "New Y coordinate",
				},
			},
			Required: []string{"session_id", "rover_id"},
		},
	}, c.handleSetRoverPosition)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "queue_instructions",
		Description: "Append L, R and M instructions to a rover's queue. Nothing moves until run_mission.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"rover_id":   roverProperty(),
				"instructions": map[string]interface{}{
					"type":        "string",
					"description": "Instructions to append, e.g. LMLMM",
				},
			},
			Required: []string{"session_id", "rover_id", "instructions"},
		},
	}, c.handleQueueInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "set_rover_heading",
		Description: "Point a rover in a new direction",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"rover_id":   roverProperty(),
				"heading": map[string]interface{}{
					"type": "string",
					"enum": []string{"N", "E", "S", "W"},
				},
			},
			Required: []string{"session_id", "rover_id", "heading"},
		},
	}, c.handleSetRoverHeading)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "remove_rover",
		Description: "Take a rover off the plateau and free its cell",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"rover_id":   roverProperty(),
			},
			Required: []string{"session_id", "rover_id"},
		},
	}, c.handleRemoveRover)

	// Configuration
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available mission configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "mission_instructions",
		Description: "Get the complete rover rules and a worked example",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleMissionInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

// intArg reads a JSON number argument; MCP clients send integers as float64
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

func sessionPath(sessionID string, parts ...string) string {
	path := "/api/sessions/" + url.PathEscape(sessionID)
	for _, p := range parts {
		path += "/" + url.PathEscape(p)
	}
	return path
}

func roverPath(sessionID, roverID string, parts ...string) string {
	return sessionPath(sessionID, append([]string{"rovers", roverID}, parts...)...)
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	configID, _ := args["config_id"].(string)

	body := map[string]interface{}{}
	if configID != "" {
		body["config_id"] = configID
	}
	px, okX := intArg(args, "plateau_x")
	py, okY := intArg(args, "plateau_y")
	if okX != okY {
		return mcp.NewToolResultError("plateau_x and plateau_y must be given together"), nil
	}
	if okX {
		if configID != "" {
			return mcp.NewToolResultError("give either config_id or plateau_x/plateau_y, not both"), nil
		}
		body["plateau"] = rover.Position{X: px, Y: py}
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n\n%s", session.ID, session.ConfigName, formatPlateau(session.Plateau))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		rovers := 0
		if s.Plateau != nil {
			rovers = len(s.Plateau.Rovers)
		}
		fmt.Fprintf(&b, "- %s (Config: %s, Rovers: %d, Created: %s)\n",
			s.ID, s.ConfigName, rovers, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handlePlateauState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var snapshot mission.Snapshot
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "plateau"), nil, &snapshot); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatPlateau(&snapshot)), nil
}

func (c *Client) handleRunMission(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var result service.RunResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "run"), nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRunResult(&result)), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	x, okX := intArg(args, "x")
	y, okY := intArg(args, "y")
	if !okX || !okY {
		return mcp.NewToolResultError("x and y are required"), nil
	}

	var snapshot mission.Snapshot
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "plateau"), nil, &snapshot); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(describeCell(&snapshot, x, y)), nil
}

func (c *Client) handleDeployRover(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	heading, _ := args["heading"].(string)
	instructions, _ := args["instructions"].(string)
	x, okX := intArg(args, "x")
	y, okY := intArg(args, "y")
	if !okX || !okY {
		return mcp.NewToolResultError("x and y are required"), nil
	}

	body := map[string]interface{}{
		"x":            x,
		"y":            y,
		"heading":      heading,
		"instructions": instructions,
	}

	var state mission.RoverState
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "rovers"), body, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Deployed rover %s at %s", state.ID, formatRover(state))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleNavigateRover(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	roverID, _ := args["rover_id"].(string)
	instructions, _ := args["instructions"].(string)
	intent, _ := args["intent"].(string)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	body := map[string]string{"instructions": instructions}

	var result service.NavigateResult
	if err := c.apiCall(ctx, "POST", roverPath(sessionID, roverID, "navigate"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatNavigateResult(&result)), nil
}

func (c *Client) handleSetRoverPosition(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	roverID, _ := args["rover_id"].(string)

	body := map[string]int{}
	if x, ok := intArg(args, "x"); ok {
		body["x"] = x
	}
	if y, ok := intArg(args, "y"); ok {
		body["y"] = y
	}
	if len(body) == 0 {
		return mcp.NewToolResultError("x or y is required"), nil
	}

	var state mission.RoverState
	if err := c.apiCall(ctx, "PUT", roverPath(sessionID, roverID, "position"), body, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Rover now at " + formatRover(state)), nil
}

func (c *Client) handleQueueInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	roverID, _ := args["rover_id"].(string)
	instructions, _ := args["instructions"].(string)

	var state mission.RoverState
	if err := c.apiCall(ctx, "POST", roverPath(sessionID, roverID, "instructions"), map[string]string{"instructions": instructions}, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Rover at %s, queued: %s", formatRover(state), state.Pending)), nil
}

func (c *Client) handleSetRoverHeading(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	roverID, _ := args["rover_id"].(string)
	heading, _ := args["heading"].(string)

	var state mission.RoverState
	if err := c.apiCall(ctx, "PUT", roverPath(sessionID, roverID, "heading"), map[string]string{"heading": heading}, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Rover now at " + formatRover(state)), nil
}

func (c *Client) handleRemoveRover(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	roverID, _ := args["rover_id"].(string)

	var response struct {
		Message string `json:"message"`
	}
	if err := c.apiCall(ctx, "DELETE", roverPath(sessionID, roverID), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(response.Message), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, config := range configs {
		fmt.Fprintf(&b, "• %s (config_id: %s)\n  %s\n  Plateau: %dx%d, Rovers: %d\n\n",
			config.Name, config.ConfigID, config.Description,
			config.PlateauX+1, config.PlateauY+1, config.RoverCount)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleMissionInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Mars Rover Mission - Complete Instructions

THE PLATEAU:
• A rectangle of cells. The south-west corner is (0,0); the north-east corner is given
  when the plateau is created, so a plateau with corner (5,5) is 6x6 cells.
• X grows to the east, Y grows to the north.
• A cell holds at most one rover.

ROVERS:
• A rover has a position (x, y) and a heading: N, E, S or W.
• Rovers are deployed onto a free cell that lies on the plateau.

INSTRUCTIONS:
• L - spin 90 degrees left, position unchanged
• R - spin 90 degrees right, position unchanged
• M - move one cell forward along the heading

BLOCKED MOVES:
• A move that would leave the plateau is refused; the rover stays put (boundary).
• A move onto a cell held by another rover is refused; the rover stays put (occupied).
• A refused move never ends the instruction string; the next instruction still runs.

RUNNING A MISSION:
• Each rover may carry queued instructions given at deployment.
• run_mission processes rovers one at a time in deployment order: the first rover
  finishes all of its instructions before the second starts.
• The final report has one line per rover: "x y heading".

WORKED EXAMPLE (config classic):
  Plateau corner 5 5
  Rover 1 at 1 2 N with LMLMLMLMM  ->  1 3 N
  Rover 2 at 3 3 E with MMRMMRMRRM ->  5 1 E

PLATEAU RENDERING (plateau_state):
• The north row is printed first.
• ^ > v < mark a rover and its heading; . is a free cell.

TIPS:
• Use describe_cell before deploying or teleporting a rover.
• navigate_rover returns every step with from/to and whether it was blocked.
• Sessions have a 4-character ID; rover IDs come from deploy_rover and plateau_state.`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatPlateau(session.Plateau))
}

func formatRover(state mission.RoverState) string {
	s := fmt.Sprintf("%d %d %s", state.X, state.Y, state.Heading)
	if state.Pending != "" {
		s += fmt.Sprintf(" (queued: %s)", state.Pending)
	}
	return s
}

func formatPlateau(snapshot *mission.Snapshot) string {
	if snapshot == nil {
		return "No plateau available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Plateau: corner (%d,%d), %dx%d cells, %d rover(s)\n\n",
		snapshot.Corner.X, snapshot.Corner.Y, snapshot.Width, snapshot.Height, len(snapshot.Rovers))

	for i, row := range snapshot.Rows {
		fmt.Fprintf(&b, "%3d %s\n", snapshot.Height-1-i, row)
	}

	if len(snapshot.Rovers) > 0 {
		b.WriteString("\nRovers:\n")
		for i, r := range snapshot.Rovers {
			fmt.Fprintf(&b, "%d. %s  %s\n", i+1, r.ID, formatRover(r))
		}
	}

	return b.String()
}

func formatRunResult(result *service.RunResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Mission complete for session %s\n\nFinal positions:\n", result.SessionID)
	if result.Output == "" {
		b.WriteString("(no rovers)\n")
	} else {
		b.WriteString(result.Output)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(formatPlateau(result.Plateau))
	return b.String()
}

func formatNavigateResult(result *service.NavigateResult) string {
	var b strings.Builder
	b.WriteString(result.Message)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Executed %d instruction(s): %d applied, %d blocked\n",
		len(result.Steps), result.Applied, result.Blocked)

	if len(result.Steps) > 0 {
		b.WriteString("\nSteps:\n")
		for _, s := range result.Steps {
			b.WriteString(formatStepLine(s))
		}
	}

	b.WriteString("\n")
	b.WriteString(formatPlateau(result.Plateau))
	return b.String()
}

func formatStepLine(s rover.Step) string {
	status := "✓"
	switch s.Blocked {
	case rover.BlockedBoundary:
		status = "✗ plateau edge"
	case rover.BlockedOccupied:
		status = "✗ occupied"
	}
	return fmt.Sprintf("%d. %s (%d,%d)→(%d,%d) facing %s %s\n",
		s.Index+1, s.Token, s.From.X, s.From.Y, s.To.X, s.To.Y, s.Heading, status)
}

func describeCell(snapshot *mission.Snapshot, x, y int) string {
	if x < 0 || x >= snapshot.Width || y < 0 || y >= snapshot.Height {
		return fmt.Sprintf("Cell (%d, %d) is off the plateau. Valid cells are (0-%d, 0-%d).",
			x, y, snapshot.Width-1, snapshot.Height-1)
	}

	for _, r := range snapshot.Rovers {
		if r.X == x && r.Y == y {
			return fmt.Sprintf("Cell (%d, %d) is occupied by rover %s facing %s.", x, y, r.ID, r.Heading)
		}
	}
	for _, p := range snapshot.Occupied {
		if p.X == x && p.Y == y {
			return fmt.Sprintf("Cell (%d, %d) is occupied.", x, y)
		}
	}

	return fmt.Sprintf("Cell (%d, %d) is free. A rover can be deployed or moved here.", x, y)
}
