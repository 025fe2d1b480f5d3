package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/wricardo/mcp-training/marsrover/game/config"
	"github.com/wricardo/mcp-training/marsrover/game/mission"
	"github.com/wricardo/mcp-training/marsrover/game/rover"
	"github.com/wricardo/mcp-training/marsrover/game/service"
	"github.com/wricardo/mcp-training/marsrover/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.MissionService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server. hub may be nil.
func NewServer(missionService service.MissionService, hub *websocket.Hub) *Server {
	s := &Server{
		service: missionService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Plateau and mission
	api.HandleFunc("/sessions/{id}/plateau", s.handleGetPlateau).Methods("GET")
	api.HandleFunc("/sessions/{id}/run", s.handleRunMission).Methods("POST")

	// Rovers
	api.HandleFunc("/sessions/{id}/rovers", s.handleDeployRover).Methods("POST")
	api.HandleFunc("/sessions/{id}/rovers/{rid}", s.handleGetRover).Methods("GET")
	api.HandleFunc("/sessions/{id}/rovers/{rid}", s.handleRemoveRover).Methods("DELETE")
	api.HandleFunc("/sessions/{id}/rovers/{rid}/navigate", s.handleNavigateRover).Methods("POST")
	api.HandleFunc("/sessions/{id}/rovers/{rid}/instructions", s.handleQueueInstructions).Methods("POST")
	api.HandleFunc("/sessions/{id}/rovers/{rid}/position", s.handleSetRoverPosition).Methods("PUT")
	api.HandleFunc("/sessions/{id}/rovers/{rid}/heading", s.handleSetRoverHeading).Methods("PUT")

	// Configuration
	api.HandleFunc("/configs", s.handleListConfigs).Methods("GET")
	api.HandleFunc("/configs", s.handleCreateConfig).Methods("POST")
	api.HandleFunc("/configs/{name}", s.handleGetConfig).Methods("GET")

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps a service error to its HTTP status
func respondServiceError(w http.ResponseWriter, err error) {
	respondError(w, statusFor(err), err.Error())
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, rover.ErrPositionOccupied),
		errors.Is(err, rover.ErrCoordinateOccupied),
		errors.Is(err, rover.ErrNewGridPositionOccupied),
		errors.Is(err, mission.ErrDuplicateRover):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, mission.ErrMalformedInput),
		errors.Is(err, mission.ErrInvalidCorner),
		errors.Is(err, mission.ErrInvalidConfig),
		errors.Is(err, rover.ErrInvalidStartPosition),
		errors.Is(err, rover.ErrInvalidCoordinate),
		errors.Is(err, rover.ErrInvalidPlateau),
		errors.Is(err, rover.ErrGridTooSmall),
		errors.Is(err, rover.ErrReleased):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// broadcast pushes the latest plateau of a session to websocket watchers
func (s *Server) broadcast(sessionID string, snapshot *mission.Snapshot) {
	if s.hub != nil && snapshot != nil {
		s.hub.BroadcastSnapshot(sessionID, snapshot)
	}
}

func decodeBody(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	return json.NewDecoder(r.Body).Decode(v)
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConfigID   string          `json:"config_id,omitempty"`
		ConfigName string          `json:"config_name,omitempty"` // Deprecated, use config_id
		Plateau    *rover.Position `json:"plateau,omitempty"`     // empty plateau with this north-east corner
	}

	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	var info *service.SessionInfo
	var err error
	if req.Plateau != nil {
		info, err = s.service.CreatePlateauSession(r.Context(), req.Plateau.X, req.Plateau.Y)
	} else {
		configID := req.ConfigID
		if configID == "" {
			configID = req.ConfigName
		}
		info, err = s.service.CreateSession(r.Context(), configID)
	}
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Printf("[SESSION] created id=%s config=%s rovers=%d", info.ID, info.ConfigName, len(info.Plateau.Rovers))
	respondJSON(w, http.StatusCreated, info)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created", "accessed" (default)
	order := query.Get("order")    // "asc", "desc" (default: "desc")
	limitStr := query.Get("limit") // number of sessions to return

	if sortBy == "" {
		sortBy = "accessed"
	}
	if order == "" {
		order = "desc"
	}

	sort.Slice(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else {
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		}

		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	total := len(sessions)
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < len(sessions) {
			sessions = sessions[:l]
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	info, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		respondServiceError(w, err)
		return
	}

	if s.hub != nil {
		s.hub.BroadcastEvent(sessionID, websocket.EventSessionDeleted, nil)
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

// Plateau and Mission Handlers

func (s *Server) handleGetPlateau(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	snapshot, err := s.service.GetPlateau(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleRunMission(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	result, err := s.service.RunMission(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(sessionID, result.Plateau)
	log.Printf("[RUN] session=%s rovers=%d", sessionID, len(result.Reports))

	respondJSON(w, http.StatusOK, result)
}

// Rover Handlers

func (s *Server) handleDeployRover(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		X            *int   `json:"x"`
		Y            *int   `json:"y"`
		Heading      string `json:"heading"`
		Instructions string `json:"instructions,omitempty"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.X == nil || req.Y == nil {
		respondError(w, http.StatusBadRequest, "x and y are required")
		return
	}

	state, err := s.service.DeployRover(r.Context(), sessionID, *req.X, *req.Y, req.Heading, req.Instructions)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcastCurrent(r, sessionID)
	log.Printf("[DEPLOY] session=%s rover=%s at (%d,%d) %s", sessionID, state.ID, state.X, state.Y, state.Heading)

	respondJSON(w, http.StatusCreated, state)
}

func (s *Server) handleGetRover(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	state, err := s.service.GetRover(r.Context(), vars["id"], vars["rid"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleRemoveRover(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID, roverID := vars["id"], vars["rid"]

	if err := s.service.RemoveRover(r.Context(), sessionID, roverID); err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcastCurrent(r, sessionID)

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Rover %s removed", roverID),
	})
}

func (s *Server) handleNavigateRover(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID, roverID := vars["id"], vars["rid"]

	var req struct {
		Instructions string `json:"instructions"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.NavigateRover(r.Context(), sessionID, roverID, req.Instructions)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(sessionID, result.Plateau)

	// Compact server log for observability
	log.Printf("[NAVIGATE] session=%s rover=%s (%d,%d)->(%d,%d) heading=%s applied=%d blocked=%d",
		sessionID, roverID, result.Start.X, result.Start.Y, result.End.X, result.End.Y,
		result.Rover.Heading, result.Applied, result.Blocked)

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleSetRoverPosition(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID, roverID := vars["id"], vars["rid"]

	var req struct {
		X *int `json:"x,omitempty"`
		Y *int `json:"y,omitempty"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	state, err := s.service.SetRoverPosition(r.Context(), sessionID, roverID, req.X, req.Y)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcastCurrent(r, sessionID)
	respondJSON(w, http.StatusOK, state)
}

// handleQueueInstructions appends to the rover's queue without moving it
func (s *Server) handleQueueInstructions(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID, roverID := vars["id"], vars["rid"]

	var req struct {
		Instructions string `json:"instructions"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	state, err := s.service.QueueInstructions(r.Context(), sessionID, roverID, req.Instructions)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcastCurrent(r, sessionID)
	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleSetRoverHeading(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID, roverID := vars["id"], vars["rid"]

	var req struct {
		Heading string `json:"heading"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	state, err := s.service.SetRoverHeading(r.Context(), sessionID, roverID, req.Heading)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcastCurrent(r, sessionID)
	respondJSON(w, http.StatusOK, state)
}

// broadcastCurrent fetches and broadcasts the plateau after a mutation that does not return it
func (s *Server) broadcastCurrent(r *http.Request, sessionID string) {
	if s.hub == nil {
		return
	}
	snapshot, err := s.service.GetPlateau(r.Context(), sessionID)
	if err != nil {
		log.Printf("Warning: failed to read plateau for broadcast: %v", err)
		return
	}
	s.broadcast(sessionID, snapshot)
}

// Configuration Handlers

func (s *Server) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.service.ListConfigs(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if configs == nil {
		configs = []*service.ConfigInfo{}
	}

	respondJSON(w, http.StatusOK, configs)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	configName := config.ConfigID(mux.Vars(r)["name"])

	cfg, err := s.service.LoadConfig(r.Context(), configName)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleCreateConfig(w http.ResponseWriter, r *http.Request) {
	var cfg mission.Config
	if err := decodeBody(r, &cfg); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if cfg.Name == "" {
		respondError(w, http.StatusBadRequest, "Config name is required")
		return
	}

	if err := s.service.SaveConfig(r.Context(), cfg.Name, &cfg); err != nil {
		respondError(w, statusFor(err), fmt.Sprintf("Failed to save config: %v", err))
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "Configuration saved successfully",
		"config_id": cfg.Name,
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}
	if s.hub == nil {
		http.Error(w, "WebSocket not available", http.StatusServiceUnavailable)
		return
	}

	snapshot, err := s.service.GetPlateau(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, sessionID, snapshot)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
