package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "dir", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Parent directories and the file itself must exist
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestSaveIdentityAndReload(t *testing.T) {
	store := openTestStore(t)

	if err := store.SaveIdentity("Ana", 1); err != nil {
		t.Fatalf("SaveIdentity() failed: %v", err)
	}
	if err := store.SaveIdentity("Bob", 2); err != nil {
		t.Fatalf("SaveIdentity() failed: %v", err)
	}
	// Overwrite: Ana reconnects under a new id
	if err := store.SaveIdentity("Ana", 7); err != nil {
		t.Fatalf("SaveIdentity() failed: %v", err)
	}

	ids, err := store.Identities()
	if err != nil {
		t.Fatalf("Identities() failed: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("Identities() returned %d rows, want 2", len(ids))
	}
	byName := map[string]int{}
	for _, id := range ids {
		byName[id.Name] = id.PlayerID
	}
	if byName["Ana"] != 7 {
		t.Errorf("Ana's id = %d, want 7", byName["Ana"])
	}
	if byName["Bob"] != 2 {
		t.Errorf("Bob's id = %d, want 2", byName["Bob"])
	}
}

func TestRecordScoreKeepsBest(t *testing.T) {
	store := openTestStore(t)

	if err := store.SaveIdentity("Ana", 1); err != nil {
		t.Fatalf("SaveIdentity() failed: %v", err)
	}
	if err := store.RecordScore("Ana", 50); err != nil {
		t.Fatalf("RecordScore() failed: %v", err)
	}
	// A lower score must not regress the best
	if err := store.RecordScore("Ana", 20); err != nil {
		t.Fatalf("RecordScore() failed: %v", err)
	}
	// Re-saving the identity must not wipe the best score
	if err := store.SaveIdentity("Ana", 3); err != nil {
		t.Fatalf("SaveIdentity() failed: %v", err)
	}

	ids, err := store.Identities()
	if err != nil {
		t.Fatalf("Identities() failed: %v", err)
	}
	if len(ids) != 1 {
		t.Fatalf("Identities() returned %d rows, want 1", len(ids))
	}
	if ids[0].BestScore != 50 {
		t.Errorf("best score = %d, want 50", ids[0].BestScore)
	}
}

func TestTopScoresOrderAndLimit(t *testing.T) {
	store := openTestStore(t)

	players := map[string]int{"Ana": 120, "Bob": 45, "Cid": 300, "Dee": 0}
	id := 1
	for name, score := range players {
		if err := store.SaveIdentity(name, id); err != nil {
			t.Fatalf("SaveIdentity() failed: %v", err)
		}
		if score > 0 {
			if err := store.RecordScore(name, score); err != nil {
				t.Fatalf("RecordScore() failed: %v", err)
			}
		}
		id++
	}

	top, err := store.TopScores(2)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("TopScores(2) returned %d rows, want 2", len(top))
	}
	if top[0].Name != "Cid" || top[0].BestScore != 300 {
		t.Errorf("top entry = %s/%d, want Cid/300", top[0].Name, top[0].BestScore)
	}
	if top[1].Name != "Ana" || top[1].BestScore != 120 {
		t.Errorf("second entry = %s/%d, want Ana/120", top[1].Name, top[1].BestScore)
	}

	// Zero-score players never show up on the board
	all, err := store.TopScores(10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	for _, row := range all {
		if row.Name == "Dee" {
			t.Error("player with zero score listed on the leaderboard")
		}
	}
}
