package guard

import (
	"colonycraft.ai/internal/sim/ai/work"
	"colonycraft.ai/internal/sim/world/kernel/model"
)

// Env is what a guard needs on top of the generic work capabilities.
// Entities are referenced by id; a lookup reports false once the entity is
// gone.
type Env interface {
	work.Env

	// EntitiesWithin lists entities of kind inside box, in id order.
	EntitiesWithin(box model.Box, kind model.EntityKind) []string
	Entity(id string) (*model.Entity, bool)
	CanSee(c *model.Citizen, id string) bool
	Colony(c *model.Citizen) *model.Colony

	// PathIndex is the index of the next node on c's active path. ok is
	// false when c has no path.
	PathIndex(c *model.Citizen) (idx int, ok bool)
	ClearPath(c *model.Citizen)

	// Attack deals damage to id and reports whether it died from it.
	Attack(c *model.Citizen, id string, damage int) (killed bool)
}
