package session

import (
	"testing"
	"time"
)

func TestManagerWithPersistence(t *testing.T) {
	tempDir := t.TempDir()

	persistence, err := NewFilePersistence(tempDir)
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}

	manager := NewManagerWithPersistence(persistence)

	t.Run("Create Session Auto-Saves", func(t *testing.T) {
		session, err := manager.Create("auto1", "classic", createTestConfig())
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if !persistence.Exists(session.ID) {
			t.Error("Session should be auto-saved on creation")
		}
	})

	t.Run("Save After Mutation", func(t *testing.T) {
		session, _ := manager.Get("auto1")
		session.Mission.Run()
		if err := manager.Save("auto1"); err != nil {
			t.Fatalf("Save: %v", err)
		}

		loaded, err := persistence.Load("auto1")
		if err != nil {
			t.Fatalf("Failed to load session: %v", err)
		}
		reports := loaded.Mission.Reports()
		if reports[0].String() != "1 3 N" || reports[1].String() != "5 1 E" {
			t.Errorf("Persisted reports = %v", reports)
		}
		for _, entry := range loaded.Mission.Entries() {
			if entry.Pending != "" {
				t.Errorf("Expected run to clear pending instructions, got %q", entry.Pending)
			}
		}
	})

	t.Run("Get Reloads Evicted Session", func(t *testing.T) {
		if err := manager.DeleteFromMemory("auto1"); err != nil {
			t.Fatalf("DeleteFromMemory: %v", err)
		}
		if manager.Count() != 0 {
			t.Errorf("Expected no sessions in memory, got %d", manager.Count())
		}

		session, err := manager.Get("AUTO1")
		if err != nil {
			t.Fatalf("Expected session to reload from disk: %v", err)
		}
		if session.Mission.Grid().OccupiedCount() != 2 {
			t.Errorf("Expected 2 occupied cells, got %d", session.Mission.Grid().OccupiedCount())
		}
	})

	t.Run("Cleanup Keeps Persisted Copy", func(t *testing.T) {
		session, _ := manager.Get("auto1")
		session.LastAccessedAt = time.Now().Add(-time.Hour)

		if removed := manager.CleanupExpiredSessions(time.Minute); removed != 1 {
			t.Errorf("Expected 1 removed, got %d", removed)
		}
		if !persistence.Exists("auto1") {
			t.Error("Persisted copy should survive cleanup")
		}
	})

	t.Run("Load Persisted Sessions", func(t *testing.T) {
		fresh := NewManagerWithPersistence(persistence)
		if err := fresh.LoadPersistedSessions(); err != nil {
			t.Fatalf("LoadPersistedSessions: %v", err)
		}
		if fresh.Count() != 1 {
			t.Errorf("Expected 1 loaded session, got %d", fresh.Count())
		}
		if err := fresh.SaveAllSessions(); err != nil {
			t.Errorf("SaveAllSessions: %v", err)
		}
	})

	t.Run("Delete Removes File", func(t *testing.T) {
		if err := manager.Delete("auto1"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if persistence.Exists("auto1") {
			t.Error("Session file should be removed on delete")
		}
	})
}
