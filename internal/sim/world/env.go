package world

import (
	"colonycraft.ai/internal/sim/ai/guard"
	"colonycraft.ai/internal/sim/world/kernel/model"
)

var _ guard.Env = (*World)(nil)

func (w *World) NowTick() uint64 { return w.tick.Load() }

func (w *World) WorkBuilding(c *model.Citizen) *model.Building {
	col := w.colonies[c.ColonyID]
	if col == nil || c.BuildingID == "" {
		return nil
	}
	return col.Building(c.BuildingID)
}

func (w *World) Colony(c *model.Citizen) *model.Colony {
	return w.colonies[c.ColonyID]
}

func (w *World) MoveTo(c *model.Citizen, pos model.Vec3i, tolerance int) bool {
	cs := w.citizens[c.ID]
	if cs == nil {
		return false
	}
	if c.Pos.Within(pos, tolerance) {
		cs.clearPath()
		return true
	}
	if !cs.hasPath() || cs.dest != pos {
		cs.path = w.planRoute(c.Pos, pos)
		cs.pathIdx = 0
		cs.dest = pos
	}
	return false
}

func (w *World) HitBlock(c *model.Citizen, _ *model.Vec3i) {
	if cs := w.citizens[c.ID]; cs != nil {
		cs.swung = true
	}
}

func (w *World) Notify(c *model.Citizen, msg string) {
	now := w.tick.Load()
	w.chatThisTick = append(w.chatThisTick, ChatLine{Tick: now, From: c.ID, Text: msg})
	w.logger.Printf("[chat] %s: %s", c.ID, msg)
	w.auditEvent(now, c.ID, "REQUEST", c.Pos, "", msg, nil)
}

func (w *World) EntitiesWithin(box model.Box, kind model.EntityKind) []string {
	var out []string
	for _, id := range w.sortedEntityIDs() {
		e := w.entities[id].e
		if e.Kind == kind && box.Contains(e.Pos) {
			out = append(out, id)
		}
	}
	return out
}

func (w *World) Entity(id string) (*model.Entity, bool) {
	es := w.entities[id]
	if es == nil {
		return nil, false
	}
	return es.e, true
}

// CanSee reports whether the entity is alive, within sight range and not
// hidden behind a blocked cell.
func (w *World) CanSee(c *model.Citizen, id string) bool {
	es := w.entities[id]
	if es == nil || !es.e.Alive() {
		return false
	}
	r := w.cfg.SightRange
	if c.Pos.DistSq(es.e.Pos) > r*r {
		return false
	}
	line := planPath(c.Pos, es.e.Pos)
	for i := 0; i+1 < len(line); i++ {
		if w.blocked[line[i]] {
			return false
		}
	}
	return true
}

func (w *World) PathIndex(c *model.Citizen) (int, bool) {
	cs := w.citizens[c.ID]
	if cs == nil || !cs.hasPath() {
		return 0, false
	}
	return cs.pathIdx, true
}

func (w *World) ClearPath(c *model.Citizen) {
	if cs := w.citizens[c.ID]; cs != nil {
		cs.clearPath()
	}
}

// Attack applies damage and, on death, drops the entity's loot as item
// entities at its position.
func (w *World) Attack(c *model.Citizen, id string, damage int) bool {
	es := w.entities[id]
	if es == nil || !es.e.Alive() || es.e.Kind == model.EntityItem || damage <= 0 {
		return false
	}
	now := w.tick.Load()
	e := es.e
	e.HP -= damage
	w.auditEvent(now, c.ID, "ATTACK", e.Pos, id, "", map[string]any{"damage": damage, "hp": e.HP})
	if e.HP > 0 {
		return false
	}
	e.HP = 0
	e.Dead = true
	w.auditEvent(now, c.ID, "KILL", e.Pos, id, string(e.Kind), nil)
	for _, d := range e.Drops {
		if d.Count <= 0 {
			continue
		}
		stack := d
		if _, err := w.SpawnEntity(&model.Entity{Kind: model.EntityItem, Name: d.Item.ID, Pos: e.Pos, Stack: &stack}); err != nil {
			w.logger.Printf("drop %s from %s: %v", d.Item.ID, id, err)
		}
	}
	return true
}
