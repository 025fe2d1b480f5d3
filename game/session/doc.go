// Package session provides session management for Mars rover missions.
//
// A session owns exactly one plateau: the mission built from a config when the
// session is created, together with every rover deployed on it afterwards. The
// plateau lives as long as the session. Deleting a session releases its rovers.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs generated with crypto/rand. Lookups are
// case-insensitive.
//
// Persistence:
//
// FilePersistence stores each session as <dir>/<id>.json holding the config,
// timestamps and a plateau snapshot. Sessions evicted from memory are reloaded
// from disk on the next Get.
//
// Usage:
//
//	persistence, err := session.NewFilePersistence("sessions")
//	if err != nil {
//		log.Fatal(err)
//	}
//	manager := session.NewManagerWithPersistence(persistence)
//
//	sess, err := manager.Create("", "classic", missionConfig)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
package session
