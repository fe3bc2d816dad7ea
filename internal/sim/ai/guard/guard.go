package guard

import (
	"math/rand"

	"colonycraft.ai/internal/sim/ai/work"
	"colonycraft.ai/internal/sim/tasks"
	"colonycraft.ai/internal/sim/tuning"
	"colonycraft.ai/internal/sim/world/feature/governance/permissions"
	"colonycraft.ai/internal/sim/world/kernel/model"
)

type Style int

const (
	StyleMelee Style = iota
	StyleRanged
)

func (s Style) String() string {
	if s == StyleRanged {
		return "ranged"
	}
	return "melee"
}

var jobStyles = map[model.JobKind]Style{
	tasks.JobGuardKnight: StyleMelee,
	tasks.JobGuardRanger: StyleRanged,
}

// StyleForJob maps a guard job kind to its fighting style.
func StyleForJob(k model.JobKind) (Style, bool) {
	s, ok := jobStyles[k]
	return s, ok
}

type handler func(a *AI, t *work.Task, env Env) tasks.State

var handlers = map[tasks.State]handler{
	tasks.StateIdle:                (*AI).idle,
	tasks.StateStartWorking:        (*AI).startWorking,
	tasks.StateGuardRestock:        (*AI).goToBuilding,
	tasks.StateGuardSearchTarget:   (*AI).searchTarget,
	tasks.StateGuardGetTarget:      (*AI).getTarget,
	tasks.StateGuardHuntDownTarget: (*AI).huntDownTarget,
	tasks.StateGuardPatrol:         (*AI).patrol,
	tasks.StateGuardGathering:      (*AI).gathering,
}

// armorSlots maps an armour type to its equipment slot.
var armorSlots = [...]int{
	model.ArmorHelmet:     model.EquipHelmet,
	model.ArmorChestplate: model.EquipChestplate,
	model.ArmorLeggings:   model.EquipLeggings,
	model.ArmorBoots:      model.EquipBoots,
}

func equipSlot(t model.ArmorType) (int, bool) {
	if t < 0 || int(t) >= len(armorSlots) {
		return 0, false
	}
	return armorSlots[t], true
}

// AI is the guard behaviour. It is a work.Step and also refreshes the
// equipment view and dumps loot through the work.Task hooks.
type AI struct {
	style Style
	cfg   tuning.Guard
	rng   *rand.Rand
	arrow model.Item

	state tasks.State

	targetEntity          string
	currentPatrolTarget   *model.Vec3i
	currentSearchDistance int
	attacksExecuted       int
	entityList            []string

	items        []model.Vec3i
	itemsScanned bool

	stillTicks    int
	previousIndex int

	warnedEnv bool
}

func New(style Style, cfg tuning.Guard, rng *rand.Rand) *AI {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &AI{
		style:                 style,
		cfg:                   cfg,
		rng:                   rng,
		arrow:                 model.Item{ID: cfg.ArrowItem, Kind: model.ItemAmmo},
		state:                 tasks.StateIdle,
		currentSearchDistance: cfg.StartSearchDistance,
		previousIndex:         -1,
	}
}

// SetArrowItem replaces the placeholder arrow definition with a catalog one.
func (a *AI) SetArrowItem(it model.Item) { a.arrow = it }

func (a *AI) Style() Style         { return a.style }
func (a *AI) State() tasks.State   { return a.state }
func (a *AI) Target() string       { return a.targetEntity }
func (a *AI) AttacksExecuted() int { return a.attacksExecuted }
func (a *AI) SearchDistance() int  { return a.currentSearchDistance }

func (a *AI) WorkOnTask(t *work.Task, env work.Env) {
	genv, ok := env.(Env)
	if !ok {
		if !a.warnedEnv {
			a.warnedEnv = true
			t.Logger().Printf("citizen=%s guard host lacks entity capabilities", t.Worker.ID)
		}
		return
	}
	h, ok := handlers[a.state]
	if !ok {
		a.state = tasks.StateIdle
		return
	}
	a.state = h(a, t, genv)
}

func (a *AI) UpdateRenderMetaData(t *work.Task, _ work.Env) {
	a.updateArmor(t.Worker)
}

func (a *AI) ActionsDoneUntilDumping() int { return a.cfg.DumpAfterActions }

func (a *AI) NeededForWorker(s model.ItemStack) bool {
	switch s.Item.Kind {
	case model.ItemArmor, model.ItemWeapon, model.ItemBow, model.ItemTool, model.ItemAmmo:
		return true
	}
	return false
}

// updateArmor rebuilds the equipment view from the inventory. The first
// piece found for a slot wins; empty stacks are cleared on the way.
func (a *AI) updateArmor(c *model.Citizen) {
	c.Equipment.Clear()
	inv := c.Inventory
	for i := 0; i < inv.Size(); i++ {
		s := inv.Get(i)
		if s == nil {
			continue
		}
		if s.Empty() {
			inv.Set(i, nil)
			continue
		}
		if !s.Item.IsArmor() {
			continue
		}
		slot, ok := equipSlot(s.Item.ArmorType)
		if ok && c.Equipment[slot] == nil {
			c.Equipment[slot] = s
		}
	}
}

func (a *AI) idle(_ *work.Task, _ Env) tasks.State { return tasks.StateStartWorking }

func (a *AI) startWorking(_ *work.Task, _ Env) tasks.State { return tasks.StateGuardRestock }

// goToBuilding walks home, takes armour for every unequipped slot and resets
// the attack budget.
func (a *AI) goToBuilding(t *work.Task, env Env) tasks.State {
	if t.WalkToBuilding(env) {
		return tasks.StateGuardRestock
	}
	c := t.Worker
	if b := t.OwnBuilding(env); b != nil && b.Storage != nil {
		var filled [model.EquipSlots]bool
		for i, s := range c.Equipment {
			filled[i] = !s.Empty()
		}
		storage := b.Storage
		for i := 0; i < storage.Size(); i++ {
			s := storage.Get(i)
			if s.Empty() || !s.Item.IsArmor() {
				continue
			}
			slot, ok := equipSlot(s.Item.ArmorType)
			if !ok || filled[slot] {
				continue
			}
			free := c.Inventory.FirstEmpty()
			if free < 0 {
				break
			}
			c.Inventory.Set(free, s)
			storage.Set(i, nil)
			filled[slot] = true
		}
	}
	a.attacksExecuted = 0
	return tasks.StateGuardSearchTarget
}

func (a *AI) maxVision(t *work.Task, env Env) int {
	b := t.OwnBuilding(env)
	if b == nil {
		return 0
	}
	bonus := 0
	if b.Kind == model.BuildingGuardTower {
		bonus = b.Level * a.cfg.VisionBonusPerLevel
	}
	return a.cfg.MaxAttackDistance + bonus
}

func (a *AI) maxAttacksUntilRestock(t *work.Task, env Env) int {
	level := 0
	if b := t.OwnBuilding(env); b != nil {
		level = b.Level
	}
	return a.cfg.MaxAttacks + level
}

func (a *AI) searchTarget(t *work.Task, env Env) tasks.State {
	c := t.Worker
	box := model.BoxAround(c.Pos, a.currentSearchDistance, a.cfg.HeightDetectionRange)
	var list []string
	for _, kind := range []model.EntityKind{model.EntityMob, model.EntitySlime, model.EntityPlayer} {
		list = append(list, env.EntitiesWithin(box, kind)...)
	}
	a.entityList = list
	t.SetDelay(a.cfg.BaseDelay)

	if len(list) > 0 {
		return tasks.StateGuardGetTarget
	}
	if a.currentSearchDistance < a.maxVision(t, env) {
		a.currentSearchDistance += a.cfg.StartSearchDistance
		return tasks.StateGuardSearchTarget
	}
	a.currentSearchDistance = a.cfg.StartSearchDistance
	return tasks.StateGuardPatrol
}

// getTarget inspects the head of the candidate list. Rejected candidates are
// dropped one per tick.
func (a *AI) getTarget(t *work.Task, env Env) tasks.State {
	if len(a.entityList) == 0 {
		return tasks.StateGuardPatrol
	}
	c := t.Worker
	id := a.entityList[0]
	e, ok := env.Entity(id)
	if ok && e.Kind == model.EntityPlayer {
		if col := env.Colony(c); col != nil && col.Permissions.HasPermission(e.Name, permissions.ActionGuardsAttack) {
			return a.acquire(c, env, id)
		}
	} else if ok && e.Alive() && env.CanSee(c, id) {
		return a.acquire(c, env, id)
	}
	a.entityList = a.entityList[1:]
	t.SetDelay(a.cfg.BaseDelay)
	return tasks.StateGuardGetTarget
}

func (a *AI) acquire(c *model.Citizen, env Env, id string) tasks.State {
	env.ClearPath(c)
	a.targetEntity = id
	return tasks.StateGuardHuntDownTarget
}

func (a *AI) huntDownTarget(t *work.Task, env Env) tasks.State {
	c := t.Worker
	e, ok := env.Entity(a.targetEntity)
	if !ok || !e.Alive() {
		a.targetEntity = ""
		return tasks.StateGuardSearchTarget
	}
	if a.attacksExecuted >= a.maxAttacksUntilRestock(t, env) {
		a.targetEntity = ""
		return tasks.StateGuardRestock
	}
	if !env.CanSee(c, a.targetEntity) {
		a.targetEntity = ""
		return tasks.StateGuardSearchTarget
	}

	ranged := a.style == StyleRanged && a.bestOf(c, model.ItemBow) != nil
	if ranged && c.Inventory.Count(a.arrow.ID) == 0 {
		t.NeedItems(model.ItemStack{Item: a.arrow, Count: a.cfg.ArrowRestockCount})
		a.targetEntity = ""
		return tasks.StateGuardRestock
	}

	reach, cooldown, kind := a.cfg.MeleeRange, a.cfg.MeleeCooldownTicks, model.ItemWeapon
	if ranged {
		reach, cooldown, kind = a.cfg.RangedRange, a.cfg.RangedCooldownTicks, model.ItemBow
	}
	if !c.Pos.Within(e.Pos, reach) {
		env.MoveTo(c, e.Pos, reach)
		return tasks.StateGuardHuntDownTarget
	}
	env.ClearPath(c)

	damage := a.cfg.FistDamage
	if w := a.bestOf(c, kind); !w.Empty() && w.Item.Damage > damage {
		damage = w.Item.Damage
	}
	if ranged {
		c.Inventory.Remove(a.arrow.ID, 1)
	}
	killed := env.Attack(c, a.targetEntity, damage)
	a.attacksExecuted++
	t.SetDelay(cooldown)
	if !killed {
		return tasks.StateGuardHuntDownTarget
	}
	if col := env.Colony(c); col != nil {
		col.IncrementMobsKilled()
	}
	c.IncrementActionsDone()
	a.targetEntity = ""
	return tasks.StateGuardGathering
}

// bestOf returns the highest-damage stack of kind, nil when none is carried.
func (a *AI) bestOf(c *model.Citizen, kind model.ItemKind) *model.ItemStack {
	var best *model.ItemStack
	for i := 0; i < c.Inventory.Size(); i++ {
		s := c.Inventory.Get(i)
		if s.Empty() || s.Item.Kind != kind {
			continue
		}
		if best == nil || s.Item.Damage > best.Item.Damage {
			best = s
		}
	}
	return best
}

func (a *AI) patrol(t *work.Task, env Env) tasks.State {
	c := t.Worker
	if a.currentPatrolTarget == nil {
		p := a.getRandomBuilding(t, env)
		a.currentPatrolTarget = &p
	}
	if env.MoveTo(c, *a.currentPatrolTarget, a.cfg.PathClose) {
		a.currentPatrolTarget = nil
	}
	return tasks.StateGuardSearchTarget
}

// getRandomBuilding picks a patrol destination. Guard towers stand in for
// the guard's own tower.
func (a *AI) getRandomBuilding(t *work.Task, env Env) model.Vec3i {
	c := t.Worker
	col := env.Colony(c)
	own := t.OwnBuilding(env)
	if col == nil || own == nil {
		return c.Pos
	}
	buildings := col.Buildings()
	if len(buildings) == 0 {
		return c.Pos
	}
	b := buildings[a.rng.Intn(len(buildings))]
	if b.Kind == model.BuildingGuardTower {
		return own.Location
	}
	return b.Location
}

func (a *AI) gathering(t *work.Task, env Env) tasks.State {
	if !a.itemsScanned {
		a.searchForItems(t.Worker, env)
	}
	if len(a.items) > 0 {
		a.gatherItems(t.Worker, env)
		return tasks.StateGuardGathering
	}
	a.items = nil
	a.itemsScanned = false
	return tasks.StateGuardPatrol
}

func (a *AI) searchForItems(c *model.Citizen, env Env) {
	box := model.BoxAround(c.Pos, a.cfg.RangeHorizontalPickup, a.cfg.RangeVerticalPickup)
	a.items = a.items[:0]
	for _, id := range env.EntitiesWithin(box, model.EntityItem) {
		if e, ok := env.Entity(id); ok && e.Alive() {
			a.items = append(a.items, e.Pos)
		}
	}
	a.itemsScanned = true
}

func (a *AI) gatherItems(c *model.Citizen, env Env) {
	c.CanPickUpLoot = true
	idx, ok := env.PathIndex(c)
	if !ok {
		next := a.getAndRemoveClosestItem(c.Pos)
		a.stillTicks = 0
		a.previousIndex = -1
		env.MoveTo(c, next, a.cfg.ItemPickupRange)
		return
	}
	if idx != a.previousIndex {
		a.previousIndex = idx
		a.stillTicks = 0
		return
	}
	a.stillTicks++
	if a.stillTicks >= a.cfg.StuckWaitTicks {
		env.ClearPath(c)
		a.stillTicks = 0
	}
}

// getAndRemoveClosestItem pops the item nearest to from; ties keep the
// earlier one. The caller guarantees a non-empty list.
func (a *AI) getAndRemoveClosestItem(from model.Vec3i) model.Vec3i {
	index := 0
	best := -1
	for i, p := range a.items {
		if d := p.DistSq(from); best < 0 || d < best {
			index, best = i, d
		}
	}
	pos := a.items[index]
	a.items = append(a.items[:index], a.items[index+1:]...)
	return pos
}
