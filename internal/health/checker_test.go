package health

import (
	"context"
	"testing"

	"github.com/purpleschool/purpleschool/internal/infra/store"
)

func newTestDB(t *testing.T) (*store.SQLite, string) {
	t.Helper()
	dir := t.TempDir()
	db, err := store.OpenSQLite(dir)
	if err != nil {
		t.Fatalf("OpenSQLite() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, dir
}

// ─── Checker Tests ──────────────────────────────────────────────────────────

func TestNewChecker(t *testing.T) {
	db, dir := newTestDB(t)

	c := NewChecker(db, dir)
	if c == nil {
		t.Fatal("NewChecker() returned nil")
	}
	if len(c.checks) != 3 {
		t.Errorf("checks = %d, want 3", len(c.checks))
	}
}

func TestChecker_RunAllHealthy(t *testing.T) {
	db, dir := newTestDB(t)

	c := NewChecker(db, dir)
	c.runAll(context.Background())

	statuses := c.Statuses()
	if len(statuses) != 3 {
		t.Fatalf("Statuses() = %d, want 3", len(statuses))
	}
	for _, s := range statuses {
		if !s.Healthy {
			t.Errorf("check %q should be healthy, got error: %s", s.Name, s.Error)
		}
	}
	if !c.IsHealthy() {
		t.Error("IsHealthy() = false, want true")
	}
}

func TestChecker_CorruptDocumentDetected(t *testing.T) {
	db, dir := newTestDB(t)
	if err := db.Save(store.KeyProgressState, []byte("{broken")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	c := NewChecker(db, dir)
	c.runAll(context.Background())

	if c.IsHealthy() {
		t.Error("IsHealthy() = true with corrupt progress document")
	}
	var found bool
	for _, s := range c.Statuses() {
		if s.Name == "progress_document" && !s.Healthy {
			found = true
		}
	}
	if !found {
		t.Error("progress_document check should report unhealthy")
	}
}

func TestChecker_FreshInstallHealthy(t *testing.T) {
	db, dir := newTestDB(t)

	// No documents written at all.
	c := NewChecker(db, dir)
	c.runAll(context.Background())

	if !c.IsHealthy() {
		t.Error("fresh install should be healthy")
	}
}
