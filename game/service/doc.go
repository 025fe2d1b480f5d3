// Package service provides the business logic layer for Mars rover missions.
//
// The service package implements:
//   - Multi-session plateau management
//   - Rover deployment, navigation and repositioning
//   - Whole-mission runs over queued instructions
//   - Mission configuration access
//
// Core Interfaces:
//
// MissionService is the main service interface used by the REST, WebSocket and
// MCP transports. SessionManager stores sessions; ConfigManager loads named
// mission configurations.
//
// Every session owns one plateau grid. All grid mutations go through a single
// service lock, so rovers on a shared grid are never moved concurrently.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	missionService := service.NewMissionService(sessionMgr, configMgr)
//
//	info, err := missionService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := missionService.RunMission(ctx, info.ID)
//	fmt.Println(result.Output)
//
// Errors:
//
// Lookups that miss wrap ErrNotFound. Malformed headings, instruction strings
// and configs wrap ErrInvalidInput. Errors raised by the rover itself (for
// example an occupied target cell) are wrapped and passed through unchanged.
package service
