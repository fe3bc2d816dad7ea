package tasks

import "colonycraft.ai/internal/sim/world/kernel/model"

// State names a node of a citizen's behaviour state machine.
type State string

const (
	StateIdle         State = "IDLE"
	StateStartWorking State = "START_WORKING"

	StateGuardRestock        State = "GUARD_RESTOCK"
	StateGuardSearchTarget   State = "GUARD_SEARCH_TARGET"
	StateGuardGetTarget      State = "GUARD_GET_TARGET"
	StateGuardHuntDownTarget State = "GUARD_HUNT_DOWN_TARGET"
	StateGuardPatrol         State = "GUARD_PATROL"
	StateGuardGathering      State = "GUARD_GATHERING"
)

const (
	JobGuardKnight model.JobKind = "GUARD_KNIGHT"
	JobGuardRanger model.JobKind = "GUARD_RANGER"
)

func IsGuardJob(k model.JobKind) bool {
	return k == JobGuardKnight || k == JobGuardRanger
}
