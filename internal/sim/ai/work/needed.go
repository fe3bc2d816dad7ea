package work

import (
	"colonycraft.ai/internal/sim/world/feature/session/chat"
	"colonycraft.ai/internal/sim/world/kernel/model"
)

func (t *Task) lookForNeededItems(env Env, building *model.Building) {
	t.syncNeededItemsWithInventory()
	if len(t.itemsCurrentlyNeeded) == 0 {
		t.itemsNeeded = nil
		t.Worker.Job.ClearItemsNeeded()
		return
	}
	if !env.MoveTo(t.Worker, building.Location, t.cfg.RangeForDelay) {
		return
	}
	first := t.itemsCurrentlyNeeded[0]
	if t.takeFromStorage(building, first) {
		return
	}
	t.RequestWithoutSpam(env, chat.RequestMessage(first.Item.DisplayName()))
}

// syncNeededItemsWithInventory rebuilds the deficit from the declared list
// minus everything the citizen carries.
func (t *Task) syncNeededItemsWithInventory() {
	job := t.Worker.Job
	job.ClearItemsNeeded()
	for _, s := range t.itemsNeeded {
		job.AddItemNeeded(s)
	}
	for _, s := range t.Worker.Inventory.Stacks() {
		job.RemoveItemNeeded(s)
	}
	t.itemsCurrentlyNeeded = job.ItemsNeeded()
}

// takeFromStorage moves the first storage stack of want's kind into the
// citizen's inventory. What does not fit stays in storage.
func (t *Task) takeFromStorage(building *model.Building, want model.ItemStack) bool {
	storage := building.Storage
	if storage == nil {
		return false
	}
	for i := 0; i < storage.Size(); i++ {
		s := storage.Get(i)
		if s.Empty() || s.Item.ID != want.Item.ID {
			continue
		}
		left := t.Worker.Inventory.Add(*s)
		storage.Decr(i, s.Count-left)
		return true
	}
	return false
}
