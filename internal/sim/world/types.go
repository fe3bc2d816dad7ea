package world

import "colonycraft.ai/internal/sim/world/kernel/model"

type TickLogger interface {
	WriteTick(entry TickLogEntry) error
}

type AuditLogger interface {
	WriteAudit(entry AuditEntry) error
}

type TickLogEntry struct {
	Tick     uint64        `json:"tick"`
	Citizens []CitizenTick `json:"citizens"`
	Chat     []ChatLine    `json:"chat,omitempty"`
	Entities int           `json:"entities"`
	Digest   string        `json:"digest"`
}

// CitizenTick is one citizen's state after the tick ran.
type CitizenTick struct {
	ID      string `json:"id"`
	Job     string `json:"job"`
	State   string `json:"state,omitempty"`
	Status  string `json:"status"`
	Error   string `json:"error"`
	Pos     [3]int `json:"pos"`
	Delay   int    `json:"delay"`
	Swung   bool   `json:"swung,omitempty"`
	HasPath bool   `json:"has_path,omitempty"`
}

type ChatLine struct {
	Tick uint64 `json:"tick"`
	From string `json:"from"`
	Text string `json:"text"`
}

type AuditEntry struct {
	Tick    uint64         `json:"tick"`
	Actor   string         `json:"actor"`
	Action  string         `json:"action"` // e.g. "ATTACK", "PICKUP", "REQUEST"
	Pos     [3]int         `json:"pos"`
	Target  string         `json:"target,omitempty"`
	Reason  string         `json:"reason,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

func posArray(v model.Vec3i) [3]int { return [3]int{v.X, v.Y, v.Z} }
