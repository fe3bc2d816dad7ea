package work

import "colonycraft.ai/internal/sim/world/kernel/model"

// Env is the host capability a task consumes during a tick. All calls happen
// on the host's tick goroutine.
type Env interface {
	NowTick() uint64

	// WorkBuilding resolves the citizen's assigned building, nil when it was
	// destroyed or never assigned.
	WorkBuilding(c *model.Citizen) *model.Building

	// MoveTo reports whether c is already within tolerance of pos. If not, it
	// issues a pathing command towards pos.
	MoveTo(c *model.Citizen, pos model.Vec3i, tolerance int) bool

	// HitBlock plays one work swing against pos; nil swings at air.
	HitBlock(c *model.Citizen, pos *model.Vec3i)

	// Notify delivers a chat line from c to the colony.
	Notify(c *model.Citizen, msg string)
}

// Step is the job-specific logic run once the generic checks pass.
type Step interface {
	WorkOnTask(t *Task, env Env)
}

// RenderRefresher is run every active tick before the delay check.
type RenderRefresher interface {
	UpdateRenderMetaData(t *Task, env Env)
}

// BuildingResolver replaces Env.WorkBuilding for steps that need a specific
// building type.
type BuildingResolver interface {
	OwnBuilding(t *Task, env Env) *model.Building
}

// Dumper enables the periodic inventory dump. Stacks for which
// NeededForWorker is false are moved to the building once ActionsDone
// reaches ActionsDoneUntilDumping.
type Dumper interface {
	ActionsDoneUntilDumping() int
	NeededForWorker(s model.ItemStack) bool
}
