package world

import "colonycraft.ai/internal/sim/world/kernel/model"

func (w *World) auditEvent(tick uint64, actor, action string, pos model.Vec3i, target, reason string, details map[string]any) {
	if w.auditLogger == nil {
		return
	}
	_ = w.auditLogger.WriteAudit(AuditEntry{
		Tick:    tick,
		Actor:   actor,
		Action:  action,
		Pos:     posArray(pos),
		Target:  target,
		Reason:  reason,
		Details: details,
	})
}
