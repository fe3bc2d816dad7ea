package world

import (
	"colonycraft.ai/internal/sim/world/kernel/model"
	"colonycraft.ai/internal/sim/world/logic/mathx"
	"colonycraft.ai/internal/sim/world/logic/movement"
)

const detourDepth = 8

// straightStep moves one block along the axis with the larger remaining
// distance, X first on ties. Height is corrected last.
func straightStep(cur, to model.Vec3i) model.Vec3i {
	dx, dz := to.X-cur.X, to.Z-cur.Z
	switch {
	case dx != 0 && mathx.AbsInt(dx) >= mathx.AbsInt(dz):
		cur.X += mathx.SignInt(dx)
	case dz != 0:
		cur.Z += mathx.SignInt(dz)
	default:
		cur.Y += mathx.SignInt(to.Y - cur.Y)
	}
	return cur
}

// planPath is the straight line of nodes from one block to another, ignoring
// obstacles. It doubles as the line of sight.
func planPath(from, to model.Vec3i) []model.Vec3i {
	var out []model.Vec3i
	for cur := from; cur != to; {
		cur = straightStep(cur, to)
		out = append(out, cur)
	}
	return out
}

// planRoute follows the straight line and steps around blocked cells. When no
// detour exists, or the route starts to loop, the remaining straight line is
// kept and movement stalls at the obstacle.
func (w *World) planRoute(from, to model.Vec3i) []model.Vec3i {
	solid := func(p model.Vec3i) bool { return w.blocked[p] }
	limit := 4*(mathx.AbsInt(to.X-from.X)+mathx.AbsInt(to.Y-from.Y)+mathx.AbsInt(to.Z-from.Z)) + 2*detourDepth
	seen := map[model.Vec3i]bool{from: true}

	var out []model.Vec3i
	cur := from
	for cur != to {
		next := straightStep(cur, to)
		if w.blocked[next] && next.Y == cur.Y {
			if step, ok := movement.DetourStep(cur, to, detourDepth, solid); ok && !seen[step] {
				next = step
			}
		}
		if seen[next] || len(out) >= limit {
			return append(out, planPath(cur, to)...)
		}
		seen[next] = true
		out = append(out, next)
		cur = next
	}
	return out
}

// systemMovement advances every citizen one node. A blocked node stalls the
// path without advancing its index.
func (w *World) systemMovement() {
	for _, id := range w.citizenIDs {
		cs := w.citizens[id]
		if !cs.hasPath() {
			continue
		}
		if cs.pathIdx >= len(cs.path) {
			cs.clearPath()
			continue
		}
		next := cs.path[cs.pathIdx]
		if w.blocked[next] {
			continue
		}
		cs.c.Pos = next
		cs.pathIdx++
		if cs.pathIdx >= len(cs.path) {
			cs.clearPath()
		}
	}
}

// systemLoot lets citizens that may pick up loot collect item entities near
// them. What does not fit stays on the ground.
func (w *World) systemLoot(nowTick uint64) {
	r := w.cfg.LootPickupRadius
	for _, id := range w.citizenIDs {
		c := w.citizens[id].c
		if !c.CanPickUpLoot {
			continue
		}
		for _, eid := range w.sortedEntityIDs() {
			e := w.entities[eid].e
			if e.Kind != model.EntityItem || !e.Alive() || !c.Pos.Within(e.Pos, r) {
				continue
			}
			before := e.Stack.Count
			e.Stack.Count = c.Inventory.Add(*e.Stack)
			if taken := before - e.Stack.Count; taken > 0 {
				w.auditEvent(nowTick, c.ID, "PICKUP", e.Pos, eid, e.Stack.Item.ID, map[string]any{"count": taken})
			}
		}
	}
}

// systemCleanup removes dead mobs, picked-up stacks and expired drops.
func (w *World) systemCleanup(nowTick uint64) {
	for _, id := range w.sortedEntityIDs() {
		es := w.entities[id]
		expired := es.e.Kind == model.EntityItem && nowTick-es.spawnedAt >= uint64(w.cfg.ItemDespawnTicks)
		if es.e.Alive() && !expired {
			continue
		}
		delete(w.entities, id)
	}
}
