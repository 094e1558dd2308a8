package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreRecordAndRecent(t *testing.T) {
	store := openTemp(t)

	entries := []Conversation{
		{SceneID: "village", NPCID: "elder", Lines: 3},
		{SceneID: "village", NPCID: "fisher", Lines: 2, Skips: 1},
		{Session: "alice", SceneID: "cellar", NPCID: "rat", Lines: 1},
	}
	for _, c := range entries {
		if _, err := store.RecordConversation(c); err != nil {
			t.Fatalf("RecordConversation() failed: %v", err)
		}
	}

	recent, err := store.RecentConversations(10)
	if err != nil {
		t.Fatalf("RecentConversations() failed: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("Expected 3 conversations, got %d", len(recent))
	}

	// Newest first
	if recent[0].NPCID != "rat" || recent[2].NPCID != "elder" {
		t.Errorf("Unexpected order: %+v", recent)
	}
	if recent[2].Session != "local" {
		t.Errorf("Expected default session 'local', got %q", recent[2].Session)
	}
	if recent[1].Skips != 1 || recent[1].Lines != 2 {
		t.Errorf("Fisher entry = %+v", recent[1])
	}
	if recent[0].CreatedAt.IsZero() {
		t.Error("CreatedAt was not parsed")
	}
}

func TestStoreRecentLimit(t *testing.T) {
	store := openTemp(t)

	for i := 0; i < 5; i++ {
		store.RecordConversation(Conversation{SceneID: "village", NPCID: "elder", Lines: i + 1})
	}

	recent, err := store.RecentConversations(3)
	if err != nil {
		t.Fatalf("RecentConversations() failed: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("Expected 3 conversations with limit, got %d", len(recent))
	}
	if recent[0].Lines != 5 || recent[2].Lines != 3 {
		t.Errorf("Conversations not in expected order: %+v", recent)
	}
}

func TestStoreConversationsWithAndVisits(t *testing.T) {
	store := openTemp(t)

	store.RecordConversation(Conversation{SceneID: "village", NPCID: "elder", Lines: 3})
	store.RecordConversation(Conversation{SceneID: "village", NPCID: "elder", Lines: 1})
	store.RecordConversation(Conversation{SceneID: "village", NPCID: "fisher", Lines: 2})
	store.RecordConversation(Conversation{Session: "bob", SceneID: "village", NPCID: "elder", Lines: 3})

	with, err := store.ConversationsWith("village", "elder", 0)
	if err != nil {
		t.Fatalf("ConversationsWith() failed: %v", err)
	}
	if len(with) != 3 {
		t.Errorf("Expected 3 elder conversations, got %d", len(with))
	}

	visits, err := store.VisitCount("local", "village", "elder")
	if err != nil {
		t.Fatalf("VisitCount() failed: %v", err)
	}
	if visits != 2 {
		t.Errorf("Expected 2 local visits, got %d", visits)
	}

	none, err := store.VisitCount("local", "cellar", "elder")
	if err != nil {
		t.Fatalf("VisitCount() failed: %v", err)
	}
	if none != 0 {
		t.Errorf("Expected 0 visits, got %d", none)
	}
}

func TestStoreStats(t *testing.T) {
	store := openTemp(t)

	store.RecordConversation(Conversation{SceneID: "village", NPCID: "elder", Lines: 3})
	store.RecordConversation(Conversation{SceneID: "village", NPCID: "elder", Lines: 1})
	store.RecordConversation(Conversation{SceneID: "village", NPCID: "fisher", Lines: 2})

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("Expected 2 stats rows, got %d", len(stats))
	}
	if stats[0].NPCID != "elder" || stats[0].Visits != 2 || stats[0].Lines != 4 {
		t.Errorf("Elder stats = %+v", stats[0])
	}
}

func TestStoreClearJournal(t *testing.T) {
	store := openTemp(t)

	store.RecordConversation(Conversation{SceneID: "village", NPCID: "elder", Lines: 3})
	if err := store.ClearJournal(); err != nil {
		t.Fatalf("ClearJournal() failed: %v", err)
	}

	recent, _ := store.RecentConversations(10)
	if len(recent) != 0 {
		t.Errorf("Expected empty journal, got %d entries", len(recent))
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
