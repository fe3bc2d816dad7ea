package model

type EntityKind string

const (
	EntityMob    EntityKind = "MOB"
	EntitySlime  EntityKind = "SLIME"
	EntityPlayer EntityKind = "PLAYER"
	EntityItem   EntityKind = "ITEM"
)

// Entity is a non-citizen world entity. Tasks never hold *Entity across
// ticks; they keep the ID and resolve it again through the host.
type Entity struct {
	ID   string
	Kind EntityKind
	Name string
	Pos  Vec3i
	HP   int
	Dead bool

	// Drops spawn as ITEM entities when a mob dies.
	Drops []ItemStack
	// Stack is the carried stack of an ITEM entity.
	Stack *ItemStack
}

func (e *Entity) Alive() bool {
	if e == nil || e.Dead {
		return false
	}
	if e.Kind == EntityItem {
		return !e.Stack.Empty()
	}
	return e.HP > 0
}
