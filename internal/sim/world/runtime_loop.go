package world

import (
	"context"
	"time"

	"colonycraft.ai/internal/sim/world/kernel/model"
)

func (w *World) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(w.cfg.TickRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stop:
			return nil
		case <-ticker.C:
			w.stepInternal()
		}
	}
}

func (w *World) Stop() { w.stopOnce.Do(func() { close(w.stop) }) }

// StepOnce advances the world by a single tick using the same ordering
// semantics as Run. It is primarily intended for replays and tests.
func (w *World) StepOnce() (tick uint64, digest string) {
	tick = w.tick.Load()
	return tick, w.stepInternal()
}

// stepInternal runs one tick: citizen tasks in id order, then movement,
// loot pickup and entity cleanup.
func (w *World) stepInternal() string {
	nowTick := w.tick.Load()
	w.chatThisTick = w.chatThisTick[:0]

	for _, id := range w.citizenIDs {
		cs := w.citizens[id]
		cs.swung = false
		cs.task.Tick(w)
	}

	w.systemMovement()
	w.systemLoot(nowTick)
	w.systemCleanup(nowTick)

	citizens := w.citizenTicks()
	digest := w.stateDigest(citizens)
	if w.tickLogger != nil {
		entry := TickLogEntry{Tick: nowTick, Citizens: citizens, Entities: len(w.entities), Digest: digest}
		if len(w.chatThisTick) > 0 {
			entry.Chat = append([]ChatLine(nil), w.chatThisTick...)
		}
		_ = w.tickLogger.WriteTick(entry)
	}
	if every := uint64(w.cfg.SummaryEveryTicks); every > 0 && nowTick != 0 && nowTick%every == 0 {
		w.logSummary(nowTick)
	}

	w.tick.Add(1)
	return digest
}

func (w *World) logSummary(nowTick uint64) {
	working, kills := 0, 0
	for _, id := range w.citizenIDs {
		if w.citizens[id].c.Status == model.StatusWorking {
			working++
		}
	}
	for _, col := range w.colonies {
		kills += col.MobsKilled
	}
	w.logger.Printf("tick=%d citizens=%d working=%d entities=%d mobs_killed=%d", nowTick, len(w.citizenIDs), working, len(w.entities), kills)
}
