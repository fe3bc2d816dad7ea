package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	persistlog "colonycraft.ai/internal/persistence/log"
	"colonycraft.ai/internal/sim/catalogs"
	"colonycraft.ai/internal/sim/tuning"
	"colonycraft.ai/internal/sim/world"
)

var errStop = errors.New("stop")

func main() {
	var (
		worldDir     = flag.String("world_dir", "", "world data dir containing ticks/ and audit/")
		scenarioPath = flag.String("scenario", "", "scenario yaml to re-run and verify digests against (optional)")
		configDir    = flag.String("configs", "./configs", "config directory (used with -scenario)")
		tuningPath   = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		toTick       = flag.Uint64("to_tick", 0, "stop at tick (inclusive, optional)")
	)
	flag.Parse()

	if *worldDir == "" {
		fmt.Fprintln(os.Stderr, "missing -world_dir")
		os.Exit(2)
	}

	sum, err := summarise(*worldDir, *toTick)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read logs:", err)
		os.Exit(1)
	}
	sum.print()

	if *scenarioPath == "" {
		return
	}
	checked, err := verify(*worldDir, *scenarioPath, *configDir, *tuningPath, *toTick)
	if err != nil {
		fmt.Fprintln(os.Stderr, "replay:", err)
		os.Exit(1)
	}
	fmt.Printf("replay ok: checked=%d ticks\n", checked)
}

type summary struct {
	ticks     uint64
	lastTick  uint64
	states    map[string]int
	actions   map[string]int
	chat      []world.ChatLine
	kills     map[string]int
	maxEntity int
}

func summarise(worldDir string, toTick uint64) (*summary, error) {
	s := &summary{states: map[string]int{}, actions: map[string]int{}, kills: map[string]int{}}
	err := persistlog.ReadTicks(worldDir, func(e world.TickLogEntry) error {
		if toTick != 0 && e.Tick > toTick {
			return errStop
		}
		s.ticks++
		s.lastTick = e.Tick
		for _, c := range e.Citizens {
			if c.State != "" {
				s.states[c.State]++
			}
		}
		s.chat = append(s.chat, e.Chat...)
		if e.Entities > s.maxEntity {
			s.maxEntity = e.Entities
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStop) {
		return nil, err
	}
	err = persistlog.ReadAudits(worldDir, func(a world.AuditEntry) error {
		if toTick != 0 && a.Tick > toTick {
			return errStop
		}
		s.actions[a.Action]++
		if a.Action == "KILL" {
			s.kills[a.Actor]++
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStop) && !os.IsNotExist(err) {
		return nil, err
	}
	return s, nil
}

func (s *summary) print() {
	fmt.Printf("ticks=%d last_tick=%d max_entities=%d chat=%d\n", s.ticks, s.lastTick, s.maxEntity, len(s.chat))
	printCounts("state", s.states)
	printCounts("audit", s.actions)
	printCounts("kills", s.kills)
	for _, line := range s.chat {
		fmt.Printf("chat tick=%d %s: %s\n", line.Tick, line.From, line.Text)
	}
}

func printCounts(label string, m map[string]int) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%s %-28s %d\n", label, k, m[k])
	}
}

// verify rebuilds the world from the scenario and checks every logged digest.
func verify(worldDir, scenarioPath, configDir, tuningPath string, toTick uint64) (uint64, error) {
	cats, err := catalogs.Load(configDir)
	if err != nil {
		return 0, fmt.Errorf("load catalogs: %w", err)
	}
	tp := strings.TrimSpace(tuningPath)
	if tp == "" {
		tp = filepath.Join(configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil && !os.IsNotExist(err) {
		return 0, fmt.Errorf("load tuning: %w", err)
	}
	scn, err := world.LoadScenario(scenarioPath)
	if err != nil {
		return 0, err
	}
	w, err := world.New(world.ConfigFromTuning(scn.WorldID, tune), tune, cats, nil)
	if err != nil {
		return 0, err
	}
	if err := w.Apply(scn); err != nil {
		return 0, err
	}

	var checked uint64
	err = persistlog.ReadTicks(worldDir, func(e world.TickLogEntry) error {
		if toTick != 0 && e.Tick > toTick {
			return errStop
		}
		if e.Tick != w.CurrentTick() {
			return fmt.Errorf("tick mismatch: want=%d got=%d", w.CurrentTick(), e.Tick)
		}
		tick, digest := w.StepOnce()
		if digest != e.Digest {
			return fmt.Errorf("digest mismatch at tick %d: got=%s want=%s", tick, digest, e.Digest)
		}
		checked++
		return nil
	})
	if err != nil && !errors.Is(err, errStop) {
		return checked, err
	}
	return checked, nil
}
