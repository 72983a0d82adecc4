package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
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
	dbPath := filepath.Join(tmpDir, "nested", "dir", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Parent directories and the file itself should exist.
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

// TestBestScoreRoundTrip verifies the set-then-get contract per
// difficulty.
func TestBestScoreRoundTrip(t *testing.T) {
	store := openTestStore(t)

	// Empty store reports zero without an error.
	best, err := store.BestScore("easy")
	if err != nil {
		t.Fatalf("BestScore() failed: %v", err)
	}
	if best != 0 {
		t.Errorf("expected 0 for an unplayed difficulty, got %d", best)
	}

	if err := store.SetBestScore("easy", 1200); err != nil {
		t.Fatalf("SetBestScore() failed: %v", err)
	}
	best, err = store.BestScore("easy")
	if err != nil {
		t.Fatalf("BestScore() failed: %v", err)
	}
	if best != 1200 {
		t.Errorf("expected 1200 after store, got %d", best)
	}

	// Other difficulties are independent.
	other, _ := store.BestScore("expert")
	if other != 0 {
		t.Errorf("expert best should still be 0, got %d", other)
	}
}

// TestBestScoreMonotonic verifies that a lower score never replaces the
// best and a higher one always does.
func TestBestScoreMonotonic(t *testing.T) {
	store := openTestStore(t)

	store.SetBestScore("medium", 900)
	if err := store.SetBestScore("medium", 450); err != nil {
		t.Fatalf("SetBestScore() with a lower score failed: %v", err)
	}
	best, _ := store.BestScore("medium")
	if best != 900 {
		t.Errorf("lower score overwrote the best: got %d, want 900", best)
	}

	store.SetBestScore("medium", 1500)
	best, _ = store.BestScore("medium")
	if best != 1500 {
		t.Errorf("higher score did not replace the best: got %d, want 1500", best)
	}
}

func TestBestScoresListing(t *testing.T) {
	store := openTestStore(t)

	store.SetBestScore("easy", 300)
	store.SetBestScore("expert", 2100)
	store.SetBestScore("hard", 1400)

	entries, err := store.BestScores()
	if err != nil {
		t.Fatalf("BestScores() failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	// Highest first.
	if entries[0].Difficulty != "expert" || entries[0].Score != 2100 {
		t.Errorf("first entry should be expert/2100, got %s/%d", entries[0].Difficulty, entries[0].Score)
	}
	if entries[2].Difficulty != "easy" {
		t.Errorf("last entry should be easy, got %s", entries[2].Difficulty)
	}
	if entries[0].UpdatedAt.IsZero() {
		t.Error("entries should carry their update timestamp")
	}
}

func TestClear(t *testing.T) {
	store := openTestStore(t)

	store.SetBestScore("easy", 100)
	store.SetSetting("muted", "true")

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}

	entries, _ := store.BestScores()
	if len(entries) != 0 {
		t.Errorf("expected no best scores after clear, got %d", len(entries))
	}

	// Settings survive a score wipe.
	value, ok, _ := store.Setting("muted")
	if !ok || value != "true" {
		t.Errorf("settings should survive Clear, got %q (present=%v)", value, ok)
	}
}

// TestSettings verifies the flat key-value round trip and replacement.
func TestSettings(t *testing.T) {
	store := openTestStore(t)

	_, ok, err := store.Setting("difficulty")
	if err != nil {
		t.Fatalf("Setting() failed: %v", err)
	}
	if ok {
		t.Error("unset key reported as present")
	}

	if err := store.SetSetting("difficulty", "hard"); err != nil {
		t.Fatalf("SetSetting() failed: %v", err)
	}
	value, ok, _ := store.Setting("difficulty")
	if !ok || value != "hard" {
		t.Errorf("expected difficulty=hard, got %q (present=%v)", value, ok)
	}

	store.SetSetting("difficulty", "expert")
	value, _, _ = store.Setting("difficulty")
	if value != "expert" {
		t.Errorf("expected replacement value expert, got %q", value)
	}
}
