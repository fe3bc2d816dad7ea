package indexdb

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"colonycraft.ai/internal/sim/catalogs"
	"colonycraft.ai/internal/sim/tuning"
	"colonycraft.ai/internal/sim/world"
)

func openTemp(t *testing.T) (*SQLiteIndex, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index", "world.sqlite")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	return s, path
}

func reopen(t *testing.T, path string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func countRows(t *testing.T, db *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	if err := db.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("%s: %v", query, err)
	}
	return n
}

func TestSQLiteIndexStoresTicksAndAudits(t *testing.T) {
	s, path := openTemp(t)

	for tick := uint64(0); tick < 3; tick++ {
		_ = s.WriteTick(world.TickLogEntry{
			Tick:     tick,
			Digest:   "abc",
			Entities: 2,
			Citizens: []world.CitizenTick{
				{ID: "g1", Job: "GUARD_KNIGHT", State: "GUARD_SEARCH_TARGET", Status: "WORKING", Error: "NONE", Pos: [3]int{1, 64, 2}},
				{ID: "r1", Job: "GUARD_RANGER", State: "GUARD_PATROL", Status: "WORKING", Error: "NONE", Delay: 5},
			},
		})
	}
	_ = s.WriteTick(world.TickLogEntry{Tick: 3, Digest: "def", Chat: []world.ChatLine{{Tick: 3, From: "r1", Text: "I need Arrow"}}})
	_ = s.WriteAudit(world.AuditEntry{Tick: 3, Actor: "g1", Action: "ATTACK", Target: "m1"})
	_ = s.WriteAudit(world.AuditEntry{Tick: 3, Actor: "g1", Action: "KILL", Target: "m1"})
	_ = s.WriteAudit(world.AuditEntry{Tick: 4, Actor: "g1", Action: "PICKUP", Reason: "loot"})
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	_ = s.WriteTick(world.TickLogEntry{Tick: 9})

	db := reopen(t, path)
	if n := countRows(t, db, `SELECT COUNT(*) FROM ticks`); n != 4 {
		t.Fatalf("expected 4 ticks, got %d", n)
	}
	if n := countRows(t, db, `SELECT COUNT(*) FROM citizen_states WHERE citizen_id = ?`, "g1"); n != 3 {
		t.Fatalf("expected 3 g1 rows, got %d", n)
	}
	var delay int
	if err := db.QueryRow(`SELECT delay FROM citizen_states WHERE tick = 1 AND citizen_id = 'r1'`).Scan(&delay); err != nil || delay != 5 {
		t.Fatalf("expected r1 delay 5, got %d (%v)", delay, err)
	}
	var text string
	if err := db.QueryRow(`SELECT text FROM chat WHERE tick = 3`).Scan(&text); err != nil || text != "I need Arrow" {
		t.Fatalf("unexpected chat %q (%v)", text, err)
	}

	var seq int
	if err := db.QueryRow(`SELECT seq FROM audits WHERE action = 'KILL'`).Scan(&seq); err != nil || seq != 1 {
		t.Fatalf("expected KILL at seq 1, got %d (%v)", seq, err)
	}
	if err := db.QueryRow(`SELECT seq FROM audits WHERE action = 'PICKUP'`).Scan(&seq); err != nil || seq != 0 {
		t.Fatalf("expected seq reset on a new tick, got %d (%v)", seq, err)
	}
}

func TestSQLiteIndexQueueDropStats(t *testing.T) {
	s := &SQLiteIndex{ch: make(chan req, 1)}
	s.ch <- req{kind: reqTick, tick: world.TickLogEntry{Tick: 1}}

	_ = s.WriteTick(world.TickLogEntry{Tick: 2})
	_ = s.WriteAudit(world.AuditEntry{Tick: 2})
	_ = s.WriteAudit(world.AuditEntry{Tick: 2})

	st := s.Stats()
	if st.DropTickTotal != 1 {
		t.Fatalf("expected 1 dropped tick, got %d", st.DropTickTotal)
	}
	if st.DropAuditTotal != 2 {
		t.Fatalf("expected 2 dropped audits, got %d", st.DropAuditTotal)
	}
	if st.QueueDepth != 1 || st.QueueCapacity != 1 {
		t.Fatalf("expected depth=1 cap=1, got depth=%d cap=%d", st.QueueDepth, st.QueueCapacity)
	}

	var nilIndex *SQLiteIndex
	if err := nilIndex.WriteTick(world.TickLogEntry{}); err != nil {
		t.Fatalf("expected nil index to ignore writes, got %v", err)
	}
}

func TestUpsertCatalogs(t *testing.T) {
	dir := t.TempDir()
	raw := `[{"id": "BOW", "kind": "BOW", "damage": 3}, {"id": "ARROW", "kind": "AMMO"}]`
	if err := os.WriteFile(filepath.Join(dir, "items.json"), []byte(raw), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cats, err := catalogs.Load(dir)
	if err != nil {
		t.Fatalf("catalogs.Load: %v", err)
	}

	s, path := openTemp(t)
	if err := s.UpsertCatalogs(dir, cats, tuning.Defaults()); err != nil {
		t.Fatalf("UpsertCatalogs: %v", err)
	}
	if err := s.UpsertCatalogs(dir, cats, tuning.Defaults()); err != nil {
		t.Fatalf("second UpsertCatalogs: %v", err)
	}
	if err := s.SetMeta("world_id", "riverside"); err != nil {
		t.Fatalf("SetMeta: %v", err)
	}
	if err := s.SetMeta("", "x"); err == nil {
		t.Fatalf("expected an error for an empty meta key")
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db := reopen(t, path)
	if n := countRows(t, db, `SELECT COUNT(*) FROM catalogs`); n != 3 {
		t.Fatalf("expected items_defs, items and tuning rows, got %d", n)
	}
	var digest string
	if err := db.QueryRow(`SELECT digest FROM catalogs WHERE name = 'items_defs'`).Scan(&digest); err != nil || digest != cats.Items.DefsDigest {
		t.Fatalf("expected the defs digest stored, got %q (%v)", digest, err)
	}
	var version string
	if err := db.QueryRow(`SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&version); err != nil || version != "1" {
		t.Fatalf("expected schema_version 1, got %q (%v)", version, err)
	}
	var worldID string
	if err := db.QueryRow(`SELECT value FROM meta WHERE key = 'world_id'`).Scan(&worldID); err != nil || worldID != "riverside" {
		t.Fatalf("expected world_id riverside, got %q (%v)", worldID, err)
	}
}

func TestOpenSQLiteRejectsEmptyPath(t *testing.T) {
	if _, err := OpenSQLite(""); err == nil {
		t.Fatalf("expected an error for an empty path")
	}
}
