package work

import "colonycraft.ai/internal/sim/world/kernel/model"

func (t *Task) dumpInventory(env Env, building *model.Building, d Dumper) {
	if !env.MoveTo(t.Worker, building.Location, t.cfg.RangeForDelay) {
		return
	}
	inv := t.Worker.Inventory
	moved := 0
	for i := 0; i < inv.Size() && building.Storage != nil; i++ {
		s := inv.Get(i)
		if s.Empty() || d.NeededForWorker(*s) {
			continue
		}
		left := building.Storage.Add(*s)
		if got := inv.Decr(i, s.Count-left); got != nil {
			moved += got.Count
		}
	}
	t.logger.Printf("citizen=%s dumped %d items into %s", t.Worker.ID, moved, building.ID)
	t.Worker.ClearActionsDone()
}
