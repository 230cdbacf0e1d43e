package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRunScoresReturnsOpenError(t *testing.T) {
	// A regular file where a directory is needed makes Open fail
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	oldDB := flagDBPath
	flagDBPath = filepath.Join(blocker, "nested", "scores.db")
	defer func() { flagDBPath = oldDB }()

	if err := runScores(nil, nil); err == nil {
		t.Error("runScores() succeeded with an unopenable database path, want error")
	}
}
