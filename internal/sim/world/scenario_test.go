package world

import (
	"strings"
	"testing"

	"colonycraft.ai/internal/sim/catalogs"
	"colonycraft.ai/internal/sim/tasks"
	"colonycraft.ai/internal/sim/tuning"
	"colonycraft.ai/internal/sim/world/feature/governance/permissions"
	"colonycraft.ai/internal/sim/world/kernel/model"
)

const testScenario = `
world_id: riverside
colonies:
  - id: c1
    name: Riverside
    ranks:
      mallory: hostile
      alice: friend
    buildings:
      - id: b1
        kind: guard_tower
        pos: [0, 64, 0]
        level: 2
        storage:
          - {item: ARROW, count: 40}
          - {item: IRON_HELMET, count: 1}
      - id: b2
        kind: HOUSE
        pos: [10, 64, 4]
citizens:
  - id: r1
    name: Wren
    colony: c1
    building: b1
    job: guard_ranger
    pos: [2, 64, 0]
    inventory:
      - {item: BOW, count: 1}
  - id: g1
    colony: c1
    building: b1
    job: GUARD_KNIGHT
    pos: [0, 64, 2]
    activity: sleep
entities:
  - id: m1
    kind: mob
    name: zombie
    pos: [8, 64, 0]
    hp: 20
    drops:
      - {item: BONE, count: 2}
  - id: p1
    kind: PLAYER
    name: mallory
    pos: [-6, 64, 0]
    hp: 20
blocked:
  - [4, 64, 1]
`

func TestApplyScenario(t *testing.T) {
	w, _ := newTestWorld(t)
	s, err := ParseScenario([]byte(testScenario))
	if err != nil {
		t.Fatalf("ParseScenario: %v", err)
	}
	if s.WorldID != "riverside" {
		t.Fatalf("expected world id riverside, got %q", s.WorldID)
	}
	if err := w.Apply(s); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	col := w.ColonyByID("c1")
	if col == nil || len(col.Buildings()) != 2 {
		t.Fatalf("expected colony with two buildings")
	}
	if col.Permissions.RankOf("mallory") != permissions.RankHostile {
		t.Fatalf("expected mallory hostile, got %s", col.Permissions.RankOf("mallory"))
	}
	tower := col.Building("b1")
	if tower.Kind != model.BuildingGuardTower || tower.Level != 2 || tower.Storage.Count("ARROW") != 40 {
		t.Fatalf("unexpected tower %+v", tower)
	}

	r := w.Citizen("r1")
	if r == nil || r.Job.Kind != tasks.JobGuardRanger || r.Inventory.Count("BOW") != 1 {
		t.Fatalf("unexpected ranger %+v", r)
	}
	if r.DesiredActivity != model.ActivityWork {
		t.Fatalf("expected work by default, got %v", r.DesiredActivity)
	}
	if g := w.Citizen("g1"); g.DesiredActivity != model.ActivitySleep {
		t.Fatalf("expected g1 asleep, got %v", g.DesiredActivity)
	}

	m, ok := w.Entity("m1")
	if !ok || m.Kind != model.EntityMob || len(m.Drops) != 1 || m.Drops[0].Count != 2 {
		t.Fatalf("unexpected mob %+v", m)
	}
	if !w.blocked[model.Vec3i{X: 4, Y: 64, Z: 1}] {
		t.Fatalf("expected blocked cell registered")
	}
}

func TestApplyScenarioErrors(t *testing.T) {
	cases := map[string]string{
		"unknown item": `
colonies:
  - id: c1
    buildings:
      - {id: b1, kind: GUARD_TOWER, storage: [{item: DIAMOND, count: 1}]}`,
		"unknown rank": `
colonies:
  - id: c1
    ranks: {bob: emperor}`,
		"unknown job": `
colonies: [{id: c1}]
citizens:
  - {id: x1, colony: c1, job: BAKER}`,
		"bad activity": `
citizens:
  - {id: x1, job: GUARD_KNIGHT, activity: dance}`,
		"item entity without stack": `
entities:
  - {id: i1, kind: ITEM}`,
	}
	for name, raw := range cases {
		w, _ := newTestWorld(t)
		s, err := ParseScenario([]byte(raw))
		if err != nil {
			t.Fatalf("%s: ParseScenario: %v", name, err)
		}
		if err := w.Apply(s); err == nil {
			t.Fatalf("%s: expected an error", name)
		}
	}
}

func TestParseScenarioRejectsBadYAML(t *testing.T) {
	_, err := ParseScenario([]byte("colonies: [unterminated"))
	if err == nil || !strings.HasPrefix(err.Error(), "scenario: ") {
		t.Fatalf("expected a scenario error, got %v", err)
	}
}

func TestBundledScenarioApplies(t *testing.T) {
	cats, err := catalogs.Load("../../../configs")
	if err != nil {
		t.Fatalf("catalogs.Load: %v", err)
	}
	tune, err := tuning.Load("../../../configs/tuning.yaml")
	if err != nil {
		t.Fatalf("tuning.Load: %v", err)
	}
	s, err := LoadScenario("../../../configs/scenario.yaml")
	if err != nil {
		t.Fatalf("LoadScenario: %v", err)
	}
	w, err := New(ConfigFromTuning(s.WorldID, tune), tune, cats, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Apply(s); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	stepN(w, 100)
	if w.CurrentTick() != 100 {
		t.Fatalf("expected tick 100, got %d", w.CurrentTick())
	}
}
