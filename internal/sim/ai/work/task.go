package work

import (
	"io"
	"log"

	"colonycraft.ai/internal/sim/tuning"
	"colonycraft.ai/internal/sim/world/feature/session/chat"
	"colonycraft.ai/internal/sim/world/kernel/model"
)

type ErrorState int

const (
	ErrorNone ErrorState = iota
	ErrorNeedsItem
	ErrorWaiting
)

func (e ErrorState) String() string {
	switch e {
	case ErrorNeedsItem:
		return "NEEDS_ITEM"
	case ErrorWaiting:
		return "WAITING"
	default:
		return "NONE"
	}
}

type Config struct {
	RangeForDelay            int
	NeededItemsCooldownTicks int
	RequestWindowTicks       uint64
	RequestMaxWindowTicks    uint64
}

func ConfigFromTuning(t tuning.Tuning) Config {
	return Config{
		RangeForDelay:            t.Work.RangeForDelay,
		NeededItemsCooldownTicks: t.Work.NeededItemsCooldownTicks,
		RequestWindowTicks:       t.Chat.RequestWindowTicks,
		RequestMaxWindowTicks:    t.Chat.RequestMaxWindowTicks,
	}
}

// Task drives one citizen's job. The host calls Tick at most once per tick.
type Task struct {
	Worker *model.Citizen

	step   Step
	cfg    Config
	logger *log.Logger
	spam   *chat.SpamFilter

	running         bool
	buildingMissing bool
	warnedNeedsItem bool

	delay            int
	workingLocation  *model.Vec3i
	standingLocation *model.Vec3i
	errorState       ErrorState

	// itemsCurrentlyNeeded is the deficit between itemsNeeded and the
	// inventory, recomputed on every resolution pass.
	itemsCurrentlyNeeded []model.ItemStack
	// itemsNeeded is the declared requirement; it only changes via NeedItems
	// or when it is satisfied.
	itemsNeeded []model.ItemStack
}

func New(worker *model.Citizen, step Step, cfg Config, logger *log.Logger) *Task {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if worker.Job == nil {
		worker.Job = model.NewJob("", worker.ID)
	}
	return &Task{
		Worker: worker,
		step:   step,
		cfg:    cfg,
		logger: logger,
		spam:   chat.NewSpamFilter(cfg.RequestWindowTicks, cfg.RequestMaxWindowTicks),
	}
}

// Tick runs one update. It returns false while the citizen does not want to
// work; the task state is kept so the next activation resumes where it left
// off.
func (t *Task) Tick(env Env) bool {
	if t.Worker.DesiredActivity != model.ActivityWork {
		if t.running {
			t.running = false
			t.Worker.Status = model.StatusIdle
		}
		return false
	}
	if !t.running {
		t.running = true
		t.Worker.Status = model.StatusWorking
		t.logger.Printf("starting AI job %s citizen=%s", t.Worker.Job.Name(), t.Worker.ID)
	}
	t.updateTask(env)
	return true
}

func (t *Task) updateTask(env Env) {
	building := t.OwnBuilding(env)
	if building == nil {
		if !t.buildingMissing {
			t.buildingMissing = true
			t.logger.Printf("citizen=%s has no work building; idling", t.Worker.ID)
		}
		return
	}
	t.buildingMissing = false

	if r, ok := t.step.(RenderRefresher); ok {
		r.UpdateRenderMetaData(t, env)
	}

	if t.waitingForSomething(env) {
		return
	}

	if len(t.itemsCurrentlyNeeded) > 0 {
		t.lookForNeededItems(env, building)
		t.SetDelay(t.cfg.NeededItemsCooldownTicks)
		return
	}

	if t.errorState == ErrorNeedsItem {
		// Escalation to a colony-wide request queue is not defined yet.
		if !t.warnedNeedsItem {
			t.warnedNeedsItem = true
			t.logger.Printf("citizen=%s blocked on missing items", t.Worker.ID)
		}
		return
	}
	t.warnedNeedsItem = false

	if d, ok := t.step.(Dumper); ok {
		if limit := d.ActionsDoneUntilDumping(); limit > 0 && t.Worker.ActionsDone >= limit {
			t.dumpInventory(env, building, d)
			return
		}
	}

	t.step.WorkOnTask(t, env)
}

func (t *Task) waitingForSomething(env Env) bool {
	if t.delay > 0 {
		if t.standingLocation != nil && !env.MoveTo(t.Worker, *t.standingLocation, t.cfg.RangeForDelay) {
			// Still walking; the countdown starts on arrival.
			return true
		}
		env.HitBlock(t.Worker, t.workingLocation)
		t.delay--
		return true
	}
	t.ClearWorkTarget()
	return false
}

// ClearWorkTarget drops the working block and its delay.
func (t *Task) ClearWorkTarget() {
	t.standingLocation = nil
	t.workingLocation = nil
	t.delay = 0
	t.errorState = ErrorNone
}

// WorkOnBlock hits target for timeout ticks once the citizen stands at stand.
func (t *Task) WorkOnBlock(target, stand *model.Vec3i, timeout int) {
	t.workingLocation = target
	t.standingLocation = stand
	t.delay = timeout
	t.errorState = ErrorWaiting
}

// WalkToBlock reports whether the citizen still has to walk to stand, and
// if so parks the task until it arrives.
func (t *Task) WalkToBlock(env Env, stand model.Vec3i) bool {
	if env.MoveTo(t.Worker, stand, t.cfg.RangeForDelay) {
		return false
	}
	t.WorkOnBlock(nil, &stand, 1)
	return true
}

// WalkToBuilding is WalkToBlock for the citizen's own building. A missing
// building counts as arrived.
func (t *Task) WalkToBuilding(env Env) bool {
	b := t.OwnBuilding(env)
	if b == nil {
		return false
	}
	return t.WalkToBlock(env, b.Location)
}

func (t *Task) SetDelay(ticks int) {
	if ticks <= 0 {
		t.delay = 0
		return
	}
	t.delay = ticks
	t.errorState = ErrorWaiting
}

// NeedItems declares items the job requires. The next ticks fetch them from
// the building or request them until the inventory covers the list.
func (t *Task) NeedItems(stacks ...model.ItemStack) {
	for _, s := range stacks {
		if s.Count > 0 {
			t.itemsNeeded = append(t.itemsNeeded, s)
		}
	}
	t.itemsCurrentlyNeeded = append([]model.ItemStack(nil), t.itemsNeeded...)
}

// BlockOnMissingItems drops any pending work target and marks the task as
// short of items. The mark is visible until the next delay check resets it.
func (t *Task) BlockOnMissingItems() {
	t.ClearWorkTarget()
	t.errorState = ErrorNeedsItem
}

// Restart forgets item requirements and any pending delay.
func (t *Task) Restart() {
	t.itemsNeeded = nil
	t.itemsCurrentlyNeeded = nil
	t.Worker.Job.ClearItemsNeeded()
	t.ClearWorkTarget()
}

func (t *Task) OwnBuilding(env Env) *model.Building {
	if r, ok := t.step.(BuildingResolver); ok {
		return r.OwnBuilding(t, env)
	}
	return env.WorkBuilding(t.Worker)
}

// RequestWithoutSpam sends msg unless the same request went out recently.
func (t *Task) RequestWithoutSpam(env Env, msg string) {
	if t.spam.Allow(env.NowTick(), msg) {
		env.Notify(t.Worker, msg)
	}
}

func (t *Task) Config() Config                 { return t.cfg }
func (t *Task) Logger() *log.Logger            { return t.logger }
func (t *Task) Step() Step                     { return t.step }
func (t *Task) Running() bool                  { return t.running }
func (t *Task) Delay() int                     { return t.delay }
func (t *Task) ErrorState() ErrorState         { return t.errorState }
func (t *Task) WorkingLocation() *model.Vec3i  { return t.workingLocation }
func (t *Task) StandingLocation() *model.Vec3i { return t.standingLocation }

func (t *Task) ItemsNeeded() []model.ItemStack {
	return append([]model.ItemStack(nil), t.itemsNeeded...)
}

func (t *Task) ItemsCurrentlyNeeded() []model.ItemStack {
	return append([]model.ItemStack(nil), t.itemsCurrentlyNeeded...)
}
