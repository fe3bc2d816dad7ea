package chat

import (
	"fmt"
	"strings"

	"colonycraft.ai/internal/sim/world/logic/mathx"
	"colonycraft.ai/internal/sim/world/logic/rates"
)

// SpamFilter suppresses repeats of the last delivered message. Every repeat
// that gets through doubles the suppression window, up to MaxWindow. A new
// message starts over at BaseWindow.
type SpamFilter struct {
	BaseWindow uint64
	MaxWindow  uint64

	last string
	win  rates.Window
}

func NewSpamFilter(baseWindow, maxWindow uint64) *SpamFilter {
	if maxWindow < baseWindow {
		maxWindow = baseWindow
	}
	return &SpamFilter{BaseWindow: baseWindow, MaxWindow: maxWindow}
}

func (f *SpamFilter) Allow(nowTick uint64, msg string) bool {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return false
	}
	if msg != f.last {
		f.last = msg
		f.win = rates.Window{Length: f.BaseWindow, Max: 1}
		f.win.Reset(nowTick)
		f.win.Count = 1
		return true
	}
	if ok, _ := f.win.Allow(nowTick); !ok {
		return false
	}
	f.win.Length = mathx.MinU64(f.win.Length*2, f.MaxWindow)
	return true
}

// CurrentWindow is the suppression window applied to the next repeat.
func (f *SpamFilter) CurrentWindow() uint64 { return f.win.Length }

func RequestMessage(itemName string) string {
	return fmt.Sprintf("I need %s", strings.TrimSpace(itemName))
}
