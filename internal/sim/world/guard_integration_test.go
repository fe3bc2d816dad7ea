package world

import (
	"context"
	"testing"
	"time"

	"colonycraft.ai/internal/sim/tasks"
	"colonycraft.ai/internal/sim/world/kernel/model"
)

func spawnZombie(t *testing.T, w *World, id string, pos model.Vec3i, hp int) {
	t.Helper()
	e := &model.Entity{ID: id, Kind: model.EntityMob, Name: "zombie", Pos: pos, HP: hp, Drops: []model.ItemStack{mustStack(t, w, "BONE", 2)}}
	if _, err := w.SpawnEntity(e); err != nil {
		t.Fatalf("SpawnEntity: %v", err)
	}
}

func TestKnightKillsMobAndCollectsDrop(t *testing.T) {
	w, rec := newTestWorld(t)
	col, _ := addOutpost(t, w)
	g := addGuard(t, w, "g1", tasks.JobGuardKnight, model.Vec3i{X: 2})
	g.Inventory.Add(mustStack(t, w, "IRON_SWORD", 1))
	spawnZombie(t, w, "m1", model.Vec3i{X: 6}, 4)

	stepN(w, 40)

	if col.MobsKilled != 1 {
		t.Fatalf("expected one kill, got %d", col.MobsKilled)
	}
	if _, ok := w.Entity("m1"); ok {
		t.Fatalf("expected dead mob removed")
	}
	if n := g.Inventory.Count("BONE"); n != 2 {
		t.Fatalf("expected 2 bones picked up, got %d", n)
	}
	if g.ActionsDone != 1 {
		t.Fatalf("expected one action done, got %d", g.ActionsDone)
	}
	if rec.countAudits("KILL") != 1 || rec.countAudits("PICKUP") != 1 {
		t.Fatalf("expected KILL and PICKUP audits, got %+v", rec.audits)
	}
	if len(rec.ticks) != 40 {
		t.Fatalf("expected 40 tick entries, got %d", len(rec.ticks))
	}
	if got := rec.ticks[0].Citizens[0]; got.ID != "g1" || got.Status != "WORKING" || got.State != string(tasks.StateStartWorking) {
		t.Fatalf("unexpected first tick state: %+v", got)
	}
}

func TestRangerRestocksArrowsFromTower(t *testing.T) {
	w, rec := newTestWorld(t)
	_, tower := addOutpost(t, w)
	tower.Storage.Add(mustStack(t, w, "ARROW", 32))
	g := addGuard(t, w, "r1", tasks.JobGuardRanger, model.Vec3i{X: 2})
	g.Inventory.Add(mustStack(t, w, "BOW", 1))
	spawnZombie(t, w, "m1", model.Vec3i{X: 6}, 20)

	stepN(w, 40)

	if n := tower.Storage.Count("ARROW"); n != 0 {
		t.Fatalf("expected arrows taken from storage, %d left", n)
	}
	if n := g.Inventory.Count("ARROW"); n <= 0 || n >= 32 {
		t.Fatalf("expected some arrows shot, holding %d", n)
	}
	e, ok := w.Entity("m1")
	if !ok || e.HP >= 20 {
		t.Fatalf("expected the zombie hurt, got %+v", e)
	}
	for _, tk := range rec.ticks {
		if len(tk.Chat) > 0 {
			t.Fatalf("expected no chat request when storage has arrows, got %+v", tk.Chat)
		}
	}
}

func TestRangerRequestsArrowsOnce(t *testing.T) {
	w, rec := newTestWorld(t)
	addOutpost(t, w)
	g := addGuard(t, w, "r1", tasks.JobGuardRanger, model.Vec3i{X: 2})
	g.Inventory.Add(mustStack(t, w, "BOW", 1))
	spawnZombie(t, w, "m1", model.Vec3i{X: 6}, 20)

	stepN(w, 200)

	var lines []ChatLine
	for _, tk := range rec.ticks {
		lines = append(lines, tk.Chat...)
	}
	if len(lines) != 1 || lines[0].Text != "I need Arrow" || lines[0].From != "r1" {
		t.Fatalf("expected a single arrow request, got %+v", lines)
	}
	if rec.countAudits("REQUEST") != 1 {
		t.Fatalf("expected one REQUEST audit, got %d", rec.countAudits("REQUEST"))
	}
	if w.Task("r1").ErrorState().String() != "WAITING" {
		t.Fatalf("expected the ranger parked on the cooldown, got %s", w.Task("r1").ErrorState())
	}
}

func TestInactiveGuardKeepsState(t *testing.T) {
	w, _ := newTestWorld(t)
	addOutpost(t, w)
	g := addGuard(t, w, "g1", tasks.JobGuardKnight, model.Vec3i{X: 2})
	stepN(w, 3)
	if g.Status != model.StatusWorking {
		t.Fatalf("expected WORKING, got %s", g.Status)
	}
	w.SetActivity("g1", model.ActivitySleep)
	w.StepOnce()
	if g.Status != model.StatusIdle {
		t.Fatalf("expected IDLE while asleep, got %s", g.Status)
	}
	if w.Task("g1").Running() {
		t.Fatalf("expected task stopped")
	}
}

func TestGuardWithoutBuildingIdles(t *testing.T) {
	w, _ := newTestWorld(t)
	col, _ := addOutpost(t, w)
	g := addGuard(t, w, "g1", tasks.JobGuardKnight, model.Vec3i{X: 2})
	col.RemoveBuilding("b1")
	spawnZombie(t, w, "m1", model.Vec3i{X: 3}, 4)
	stepN(w, 20)
	if col.MobsKilled != 0 {
		t.Fatalf("expected no fighting without a building")
	}
	if g.Status != model.StatusWorking {
		t.Fatalf("expected the task to stay active, got %s", g.Status)
	}
}

func TestStepIsDeterministic(t *testing.T) {
	run := func() []string {
		w, rec := newTestWorld(t)
		col, _ := addOutpost(t, w)
		col.AddBuilding(&model.Building{ID: "b2", Kind: model.BuildingHouse, Location: model.Vec3i{X: 12, Z: -7}})
		col.AddBuilding(&model.Building{ID: "b3", Kind: model.BuildingWarehouse, Location: model.Vec3i{X: -9, Z: 4}})
		addGuard(t, w, "g1", tasks.JobGuardKnight, model.Vec3i{X: 2})
		addGuard(t, w, "g2", tasks.JobGuardKnight, model.Vec3i{Z: 2})
		spawnZombie(t, w, "m1", model.Vec3i{X: 30, Z: 30}, 4)
		stepN(w, 150)
		out := make([]string, 0, len(rec.ticks))
		for _, tk := range rec.ticks {
			out = append(out, tk.Digest)
		}
		return out
	}
	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("expected equal runs, got %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("digest mismatch at tick %d", i)
		}
	}
}

func TestAddCitizenRejectsUnknownJob(t *testing.T) {
	w, _ := newTestWorld(t)
	addOutpost(t, w)
	err := w.AddCitizen(&model.Citizen{ID: "x1", ColonyID: "c1", Job: model.NewJob("BAKER", "x1")})
	if err == nil {
		t.Fatalf("expected an error for an unknown job kind")
	}
	if w.Citizen("x1") != nil {
		t.Fatalf("expected the citizen not registered")
	}
}

func TestKnightHoldsPositionOnceInReach(t *testing.T) {
	w, rec := newTestWorld(t)
	addOutpost(t, w)
	g := addGuard(t, w, "g1", tasks.JobGuardKnight, model.Vec3i{X: 2})
	g.Inventory.Add(mustStack(t, w, "IRON_SWORD", 1))
	spawnZombie(t, w, "m1", model.Vec3i{X: 6}, 1000)

	for i := 0; i < 60 && rec.countAudits("ATTACK") == 0; i++ {
		w.StepOnce()
	}
	if rec.countAudits("ATTACK") == 0 {
		t.Fatalf("expected the knight to reach the zombie")
	}
	at := g.Pos
	stepN(w, 3)
	if g.Pos != at {
		t.Fatalf("expected the knight to hold at %v during the cooldown, got %v", at, g.Pos)
	}
	if _, ok := w.PathIndex(g); ok {
		t.Fatalf("expected no path while fighting in reach")
	}
}

func TestRestartTaskForgetsNeeds(t *testing.T) {
	w, _ := newTestWorld(t)
	addOutpost(t, w)
	addGuard(t, w, "g1", tasks.JobGuardKnight, model.Vec3i{X: 2})
	task := w.Task("g1")
	task.NeedItems(mustStack(t, w, "ARROW", 8))
	task.SetDelay(4)

	if !w.RestartTask("g1") {
		t.Fatalf("expected restart of a known citizen")
	}
	if task.Delay() != 0 || len(task.ItemsNeeded()) != 0 {
		t.Fatalf("expected a clean task, got delay=%d needs=%v", task.Delay(), task.ItemsNeeded())
	}
	if w.RestartTask("nobody") {
		t.Fatalf("expected unknown citizens to be rejected")
	}
}

func TestStopEndsRun(t *testing.T) {
	w, _ := newTestWorld(t)
	done := make(chan error, 1)
	go func() { done <- w.Run(context.Background()) }()
	w.Stop()
	w.Stop()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected a clean stop, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("expected Run to return after Stop")
	}
}
