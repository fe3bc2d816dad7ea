package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	persistlog "colonycraft.ai/internal/persistence/log"
	"colonycraft.ai/internal/sim/catalogs"
	"colonycraft.ai/internal/sim/tuning"
	"colonycraft.ai/internal/sim/world"
)

func main() {
	var (
		worldID      = flag.String("world", "", "world id (default: scenario world_id, then world_1)")
		configDir    = flag.String("configs", "./configs", "config directory")
		scenarioPath = flag.String("scenario", "", "path to scenario yaml (default: <configs>/scenario.yaml)")
		dataDir      = flag.String("data", "./data", "runtime data directory")
		tuningPath   = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		disableDB    = flag.Bool("disable_db", false, "disable the sqlite index (tick/audit + catalogs)")
		ticks        = flag.Uint64("ticks", 0, "step this many ticks as fast as possible and exit (0 runs in real time until signalled)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	cats, err := catalogs.Load(*configDir)
	if err != nil {
		logger.Fatalf("load catalogs: %v", err)
	}

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatalf("load tuning: %v", err)
		}
		logger.Printf("tuning not found (%s); using defaults", tp)
		tune = tuning.Defaults()
	}

	sp := strings.TrimSpace(*scenarioPath)
	if sp == "" {
		sp = filepath.Join(*configDir, "scenario.yaml")
	}
	scn, err := world.LoadScenario(sp)
	if err != nil {
		logger.Fatalf("load scenario: %v", err)
	}

	id := strings.TrimSpace(*worldID)
	if id == "" {
		id = scn.WorldID
	}
	if id == "" {
		id = "world_1"
	}

	worldLogger := log.New(os.Stdout, "[world] ", log.LstdFlags|log.Lmicroseconds)
	w, err := world.New(world.ConfigFromTuning(id, tune), tune, cats, worldLogger)
	if err != nil {
		logger.Fatalf("world: %v", err)
	}
	if err := w.Apply(scn); err != nil {
		logger.Fatalf("apply scenario: %v", err)
	}

	worldDir := filepath.Join(*dataDir, "worlds", id)
	_ = os.MkdirAll(worldDir, 0o755)

	// Optional read-model index (does not affect sim determinism).
	idx, err := openRuntimeIndex(worldDir, *disableDB)
	if err != nil {
		logger.Fatalf("open index backend: %v", err)
	}
	if idx != nil {
		defer idx.Close()
		if err := idx.UpsertCatalogs(*configDir, cats, tune); err != nil {
			logger.Printf("index catalogs: %v", err)
		}
	}
	runID := uuid.NewString()
	if idx != nil {
		for k, v := range map[string]string{"run_id": runID, "world_id": id, "seed": strconv.FormatInt(tune.Seed, 10)} {
			if err := idx.SetMeta(k, v); err != nil {
				logger.Printf("index meta %s: %v", k, err)
			}
		}
	}

	tickLog := persistlog.NewTickLogger(worldDir)
	auditLog := persistlog.NewAuditLogger(worldDir)
	defer tickLog.Close()
	defer auditLog.Close()
	if idx != nil {
		w.SetTickLogger(multiTickLogger{a: tickLog, b: idx})
		w.SetAuditLogger(multiAuditLogger{a: auditLog, b: idx})
	} else {
		w.SetTickLogger(tickLog)
		w.SetAuditLogger(auditLog)
	}

	ctx, cancel := signalContext()
	defer cancel()

	logger.Printf("world %s run %s: tick_rate=%dHz seed=%d data=%s", id, runID, w.TickRateHz(), tune.Seed, worldDir)
	start := time.Now()

	if *ticks > 0 {
		var digest string
		for i := uint64(0); i < *ticks; i++ {
			if ctx.Err() != nil {
				break
			}
			_, digest = w.StepOnce()
		}
		logger.Printf("stepped %d ticks in %s digest=%s", w.CurrentTick(), time.Since(start).Round(time.Millisecond), digest)
	} else {
		if err := w.Run(ctx); err != nil && err != context.Canceled {
			logger.Printf("world stopped: %v", err)
		}
		logger.Printf("stopped at tick %d after %s", w.CurrentTick(), time.Since(start).Round(time.Millisecond))
	}

	ts, as := tickLog.Stats(), auditLog.Stats()
	logger.Printf("logged ticks=%d audits=%d files=%d", ts.Lines, as.Lines, ts.Files+as.Files)
	if ts.LastErr != nil || as.LastErr != nil {
		logger.Printf("log write errors: ticks=%v audits=%v", ts.LastErr, as.LastErr)
	}
	if idx != nil {
		st := idx.Stats()
		if st.DropTickTotal > 0 || st.DropAuditTotal > 0 {
			logger.Printf("index dropped ticks=%d audits=%d", st.DropTickTotal, st.DropAuditTotal)
		}
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
