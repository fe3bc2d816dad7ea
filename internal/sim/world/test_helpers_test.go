package world

import (
	"testing"

	"colonycraft.ai/internal/sim/catalogs"
	"colonycraft.ai/internal/sim/tuning"
	"colonycraft.ai/internal/sim/world/kernel/model"
)

const testItems = `[
  {"id": "IRON_SWORD", "name": "Iron Sword", "kind": "WEAPON", "max_stack": 1, "damage": 5},
  {"id": "BOW", "name": "Bow", "kind": "BOW", "max_stack": 1, "damage": 3},
  {"id": "ARROW", "name": "Arrow", "kind": "AMMO"},
  {"id": "IRON_HELMET", "name": "Iron Helmet", "kind": "ARMOR", "armor_type": 0},
  {"id": "BONE", "name": "Bone", "kind": "MATERIAL"}
]`

type recordingLogger struct {
	ticks  []TickLogEntry
	audits []AuditEntry
}

func (r *recordingLogger) WriteTick(e TickLogEntry) error {
	r.ticks = append(r.ticks, e)
	return nil
}

func (r *recordingLogger) WriteAudit(e AuditEntry) error {
	r.audits = append(r.audits, e)
	return nil
}

func (r *recordingLogger) countAudits(action string) int {
	n := 0
	for _, a := range r.audits {
		if a.Action == action {
			n++
		}
	}
	return n
}

func testCatalogs(t *testing.T) *catalogs.Catalogs {
	t.Helper()
	var c catalogs.Catalogs
	if err := catalogs.ParseItems([]byte(testItems), &c.Items); err != nil {
		t.Fatalf("ParseItems: %v", err)
	}
	return &c
}

func newTestWorld(t *testing.T) (*World, *recordingLogger) {
	t.Helper()
	tune := tuning.Defaults()
	w, err := New(ConfigFromTuning("test", tune), tune, testCatalogs(t), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rec := &recordingLogger{}
	w.SetTickLogger(rec)
	w.SetAuditLogger(rec)
	return w, rec
}

// addOutpost adds colony c1 with a level 0 guard tower b1 at the origin.
func addOutpost(t *testing.T, w *World) (*model.Colony, *model.Building) {
	t.Helper()
	col := model.NewColony("c1", "Outpost")
	tower := &model.Building{ID: "b1", Kind: model.BuildingGuardTower, Storage: model.NewInventory(9)}
	col.AddBuilding(tower)
	if err := w.AddColony(col); err != nil {
		t.Fatalf("AddColony: %v", err)
	}
	return col, tower
}

func addGuard(t *testing.T, w *World, id string, job model.JobKind, pos model.Vec3i) *model.Citizen {
	t.Helper()
	c := &model.Citizen{
		ID:              id,
		ColonyID:        "c1",
		BuildingID:      "b1",
		Pos:             pos,
		DesiredActivity: model.ActivityWork,
		Job:             model.NewJob(job, id),
	}
	if err := w.AddCitizen(c); err != nil {
		t.Fatalf("AddCitizen: %v", err)
	}
	return c
}

func mustStack(t *testing.T, w *World, id string, n int) model.ItemStack {
	t.Helper()
	s, err := w.catalogs.Items.Stack(id, n)
	if err != nil {
		t.Fatalf("Stack: %v", err)
	}
	return s
}

func stepN(w *World, n int) {
	for i := 0; i < n; i++ {
		w.StepOnce()
	}
}
