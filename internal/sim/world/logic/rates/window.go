package rates

func Allow(nowTick uint64, startTick uint64, count int, window uint64, max int) (newStart uint64, newCount int, ok bool, cooldownTicks uint64) {
	newStart = startTick
	newCount = count
	if window == 0 || max <= 0 {
		return newStart, newCount, true, 0
	}

	if nowTick-newStart >= window {
		newStart = nowTick
		newCount = 0
	}
	newCount++
	if newCount <= max {
		return newStart, newCount, true, 0
	}
	return newStart, newCount, false, (newStart + window) - nowTick
}

// Window is a stateful fixed window over Allow.
type Window struct {
	Start  uint64
	Count  int
	Length uint64
	Max    int
}

// Reset starts a fresh window at nowTick without counting an event.
func (w *Window) Reset(nowTick uint64) {
	w.Start = nowTick
	w.Count = 0
}

func (w *Window) Allow(nowTick uint64) (ok bool, cooldownTicks uint64) {
	w.Start, w.Count, ok, cooldownTicks = Allow(nowTick, w.Start, w.Count, w.Length, w.Max)
	return ok, cooldownTicks
}
