// Package api provides the HTTP REST API for Mars Rover mission sessions.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session from a config or an empty plateau
//   - GET /api/sessions - List sessions (sort=created|accessed, order=asc|desc, limit=N)
//   - GET /api/sessions/{id} - Get a session with its plateau
//   - DELETE /api/sessions/{id} - Delete a session
//
// Plateau and Mission:
//   - GET /api/sessions/{id}/plateau - Current plateau snapshot
//   - POST /api/sessions/{id}/run - Run every queued instruction in deployment order
//
// Rovers:
//   - POST /api/sessions/{id}/rovers - Deploy a rover
//   - GET /api/sessions/{id}/rovers/{rid} - Rover state
//   - DELETE /api/sessions/{id}/rovers/{rid} - Remove a rover and free its cell
//   - POST /api/sessions/{id}/rovers/{rid}/navigate - Execute instructions now
//   - POST /api/sessions/{id}/rovers/{rid}/instructions - Queue instructions for the next run
//   - PUT /api/sessions/{id}/rovers/{rid}/position - Move to {x, y}
//   - PUT /api/sessions/{id}/rovers/{rid}/heading - Point to {heading}
//
// Configuration:
//   - GET /api/configs - List mission configs
//   - GET /api/configs/{name} - Get one config
//   - POST /api/configs - Save a config
//
// A session is created with one of:
//
//	{"config_id": "classic"}
//	{"plateau": {"x": 5, "y": 5}}
//
// An empty body uses the default config.
//
// Navigate responses carry one step per instruction:
//
//	{
//	  "rover": {"id": "...", "x": 1, "y": 3, "heading": "N"},
//	  "applied": 9, "blocked": 0,
//	  "start": {"x": 1, "y": 2}, "end": {"x": 1, "y": 3},
//	  "steps": [{"index": 0, "token": "L", "recognized": true, "instruction": "L",
//	             "from": {"x": 1, "y": 2}, "to": {"x": 1, "y": 2}, "heading": "W"}],
//	  "plateau": {...}
//	}
//
// A step refused by the plateau edge or another rover has "blocked" set to
// "boundary" or "occupied".
//
// Error Handling:
//
// Errors are returned as JSON:
//
//	{"error": "error message"}
//
// Unknown sessions and rovers are 404, occupied cells 409, and invalid
// coordinates, headings or instructions 400.
package api
