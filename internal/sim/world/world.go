package world

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sort"
	"sync"
	"sync/atomic"

	"colonycraft.ai/internal/sim/ai/work"
	"colonycraft.ai/internal/sim/catalogs"
	"colonycraft.ai/internal/sim/tasks"
	"colonycraft.ai/internal/sim/tuning"
	"colonycraft.ai/internal/sim/world/kernel/model"
)

// World is a single-threaded reference host for citizen tasks.
// All state must be accessed only from the world loop goroutine.
type World struct {
	cfg      WorldConfig
	tune     tuning.Tuning
	catalogs *catalogs.Catalogs
	logger   *log.Logger

	tick atomic.Uint64

	colonies   map[string]*model.Colony
	citizens   map[string]*citizenState
	citizenIDs []string
	entities   map[string]*entityState
	blocked    map[model.Vec3i]bool

	nextEntityNum atomic.Uint64

	chatThisTick []ChatLine

	// Optional loggers (may be nil). Implemented in internal/persistence/*.
	tickLogger  TickLogger
	auditLogger AuditLogger

	stop     chan struct{}
	stopOnce sync.Once
}

type citizenState struct {
	c    *model.Citizen
	task *work.Task

	path    []model.Vec3i
	pathIdx int
	dest    model.Vec3i
	swung   bool
}

func (cs *citizenState) hasPath() bool { return cs.path != nil }

func (cs *citizenState) clearPath() {
	cs.path = nil
	cs.pathIdx = 0
}

type entityState struct {
	e         *model.Entity
	spawnedAt uint64
}

// New builds an empty world. A nil logger discards output.
func New(cfg WorldConfig, tune tuning.Tuning, cats *catalogs.Catalogs, logger *log.Logger) (*World, error) {
	if cats == nil {
		return nil, fmt.Errorf("world: nil catalogs")
	}
	if err := tune.Validate(); err != nil {
		return nil, fmt.Errorf("world: %w", err)
	}
	cfg.applyDefaults()
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &World{
		cfg:      cfg,
		tune:     tune,
		catalogs: cats,
		logger:   logger,
		colonies: map[string]*model.Colony{},
		citizens: map[string]*citizenState{},
		entities: map[string]*entityState{},
		blocked:  map[model.Vec3i]bool{},
		stop:     make(chan struct{}),
	}, nil
}

func (w *World) SetTickLogger(l TickLogger)   { w.tickLogger = l }
func (w *World) SetAuditLogger(l AuditLogger) { w.auditLogger = l }

func (w *World) ID() string {
	if w == nil {
		return ""
	}
	return w.cfg.ID
}

func (w *World) TickRateHz() int {
	if w == nil {
		return 0
	}
	return w.cfg.TickRateHz
}

func (w *World) CurrentTick() uint64 { return w.tick.Load() }

func (w *World) AddColony(col *model.Colony) error {
	if col == nil || col.ID == "" {
		return fmt.Errorf("colony: empty id")
	}
	if _, dup := w.colonies[col.ID]; dup {
		return fmt.Errorf("colony %s: already exists", col.ID)
	}
	w.colonies[col.ID] = col
	return nil
}

func (w *World) ColonyByID(id string) *model.Colony { return w.colonies[id] }

// AddCitizen registers c and builds the task for its job kind.
func (w *World) AddCitizen(c *model.Citizen) error {
	if c == nil || c.ID == "" {
		return fmt.Errorf("citizen: empty id")
	}
	if _, dup := w.citizens[c.ID]; dup {
		return fmt.Errorf("citizen %s: already exists", c.ID)
	}
	if c.Inventory == nil {
		c.Inventory = model.NewInventory(w.cfg.CitizenInventory)
	}
	c.InitDefaults()
	if c.Job == nil {
		return fmt.Errorf("citizen %s: no job", c.ID)
	}
	step, err := w.newStep(c)
	if err != nil {
		return fmt.Errorf("citizen %s: %w", c.ID, err)
	}
	w.citizens[c.ID] = &citizenState{
		c:    c,
		task: work.New(c, step, work.ConfigFromTuning(w.tune), w.logger),
	}
	w.citizenIDs = append(w.citizenIDs, c.ID)
	sort.Strings(w.citizenIDs)
	return nil
}

func (w *World) Citizen(id string) *model.Citizen {
	if cs := w.citizens[id]; cs != nil {
		return cs.c
	}
	return nil
}

// Task exposes a citizen's task for inspection.
func (w *World) Task(id string) *work.Task {
	if cs := w.citizens[id]; cs != nil {
		return cs.task
	}
	return nil
}

// SetActivity changes what a citizen wants to do from the next tick on.
func (w *World) SetActivity(id string, a model.Activity) bool {
	cs := w.citizens[id]
	if cs == nil {
		return false
	}
	cs.c.DesiredActivity = a
	return true
}

// RestartTask resets a citizen's task as if its job had just been assigned:
// declared item needs are forgotten and any pending work target dropped.
// The AI state is kept.
func (w *World) RestartTask(id string) bool {
	cs := w.citizens[id]
	if cs == nil {
		return false
	}
	cs.task.Restart()
	w.logger.Printf("citizen=%s task restarted", id)
	return true
}

// SpawnEntity adds e to the world. An empty ID is assigned.
func (w *World) SpawnEntity(e *model.Entity) (string, error) {
	if e == nil {
		return "", fmt.Errorf("entity: nil")
	}
	if e.ID == "" {
		e.ID = w.newEntityID()
	}
	if _, dup := w.entities[e.ID]; dup {
		return "", fmt.Errorf("entity %s: already exists", e.ID)
	}
	w.entities[e.ID] = &entityState{e: e, spawnedAt: w.tick.Load()}
	return e.ID, nil
}

func (w *World) newEntityID() string {
	for {
		id := fmt.Sprintf("E%06d", w.nextEntityNum.Add(1))
		if _, taken := w.entities[id]; !taken {
			return id
		}
	}
}

// Block marks pos as impassable for pathing and sight.
func (w *World) Block(pos model.Vec3i) { w.blocked[pos] = true }

func (w *World) stateOf(cs *citizenState) string {
	if s, ok := cs.task.Step().(interface{ State() tasks.State }); ok {
		return string(s.State())
	}
	return ""
}

func (w *World) sortedEntityIDs() []string {
	ids := make([]string, 0, len(w.entities))
	for id := range w.entities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (w *World) citizenTicks() []CitizenTick {
	out := make([]CitizenTick, 0, len(w.citizenIDs))
	for _, id := range w.citizenIDs {
		cs := w.citizens[id]
		out = append(out, CitizenTick{
			ID:      id,
			Job:     cs.c.Job.Name(),
			State:   w.stateOf(cs),
			Status:  cs.c.Status.String(),
			Error:   cs.task.ErrorState().String(),
			Pos:     posArray(cs.c.Pos),
			Delay:   cs.task.Delay(),
			Swung:   cs.swung,
			HasPath: cs.hasPath(),
		})
	}
	return out
}

type digestEntity struct {
	ID    string `json:"id"`
	Kind  string `json:"kind"`
	Pos   [3]int `json:"pos"`
	HP    int    `json:"hp"`
	Count int    `json:"count,omitempty"`
}

// stateDigest hashes citizen and entity state so replays can be compared
// tick by tick.
func (w *World) stateDigest(citizens []CitizenTick) string {
	ents := make([]digestEntity, 0, len(w.entities))
	for _, id := range w.sortedEntityIDs() {
		e := w.entities[id].e
		d := digestEntity{ID: id, Kind: string(e.Kind), Pos: posArray(e.Pos), HP: e.HP}
		if e.Stack != nil {
			d.Count = e.Stack.Count
		}
		ents = append(ents, d)
	}
	b, _ := json.Marshal(struct {
		Citizens []CitizenTick  `json:"citizens"`
		Entities []digestEntity `json:"entities"`
	}{citizens, ents})
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
