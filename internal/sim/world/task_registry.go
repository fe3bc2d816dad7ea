package world

import (
	"fmt"
	"hash/fnv"
	"math/rand"

	"colonycraft.ai/internal/sim/ai/guard"
	"colonycraft.ai/internal/sim/ai/work"
	"colonycraft.ai/internal/sim/tasks"
	"colonycraft.ai/internal/sim/world/kernel/model"
)

type stepFactory func(w *World, c *model.Citizen) (work.Step, error)

var stepFactories = map[model.JobKind]stepFactory{
	tasks.JobGuardKnight: newGuardStep,
	tasks.JobGuardRanger: newGuardStep,
}

func (w *World) newStep(c *model.Citizen) (work.Step, error) {
	f, ok := stepFactories[c.Job.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown job kind %q", c.Job.Kind)
	}
	return f(w, c)
}

func newGuardStep(w *World, c *model.Citizen) (work.Step, error) {
	style, ok := guard.StyleForJob(c.Job.Kind)
	if !ok {
		return nil, fmt.Errorf("job %q is not a guard job", c.Job.Kind)
	}
	ai := guard.New(style, w.tune.Guard, rand.New(rand.NewSource(w.seedFor(c.ID))))
	if it, ok := w.catalogs.Items.Item(w.tune.Guard.ArrowItem); ok {
		ai.SetArrowItem(it)
	}
	return ai, nil
}

// seedFor derives a per-citizen seed so adding a citizen does not shift the
// random stream of the others.
func (w *World) seedFor(id string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	return w.cfg.Seed ^ int64(h.Sum64())
}
