// Package mcp exposes the Mars Rover REST API as Model Context Protocol tools.
//
// The Client is a thin proxy: every tool call becomes one or two REST requests
// against a running server, and the JSON responses are rendered as text for
// AI agents.
//
// MCP Tools:
//   - create_session, list_sessions, get_session: session management
//   - plateau_state: render the plateau with north row first
//   - deploy_rover, remove_rover: land and remove rovers
//   - navigate_rover: execute instructions now and list every step
//   - set_rover_position, set_rover_heading: direct rover edits
//   - run_mission: run queued instructions in deployment order
//   - describe_cell: free, occupied, or off the plateau
//   - list_configs, mission_instructions
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
