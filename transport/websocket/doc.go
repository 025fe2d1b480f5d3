// Package websocket pushes plateau snapshots to browsers and other watchers.
//
// A central Hub tracks clients per session. Clients connect with
// /ws?session=<id>, receive the current plateau immediately, and then one
// Message per change:
//
//	{"session_id": "a1b2", "event": "plateau_update", "plateau": {...}}
//
// Client input is ignored apart from control frames. Broadcasts never block
// the caller: they are queued for the hub loop, and a client that cannot keep
// up is disconnected.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	defer hub.Stop()
//
//	hub.BroadcastSnapshot(sessionID, snapshot)
package websocket
