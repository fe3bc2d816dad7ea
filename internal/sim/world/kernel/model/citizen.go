package model

type Status int

const (
	StatusIdle Status = iota
	StatusWorking
)

func (s Status) String() string {
	if s == StatusWorking {
		return "WORKING"
	}
	return "IDLE"
}

type Activity int

const (
	ActivityIdle Activity = iota
	ActivityWork
	ActivitySleep
)

// Equipment slots, feet first.
const (
	EquipBoots = iota
	EquipLeggings
	EquipChestplate
	EquipHelmet
	EquipSlots
)

type Equipment [EquipSlots]*ItemStack

func (e *Equipment) Clear() {
	for i := range e {
		e[i] = nil
	}
}

// IDs lists the equipped item ids, "NONE" for empty slots.
func (e *Equipment) IDs() [EquipSlots]string {
	var out [EquipSlots]string
	for i, s := range e {
		if s.Empty() {
			out[i] = "NONE"
			continue
		}
		out[i] = s.Item.ID
	}
	return out
}

const DefaultCitizenInventorySize = 27

// Citizen is the worker entity. The host owns it; behaviour tasks read and
// mutate it each tick.
type Citizen struct {
	ID         string
	Name       string
	ColonyID   string
	BuildingID string

	Pos Vec3i
	HP  int

	Status          Status
	DesiredActivity Activity

	Inventory *Inventory
	Equipment Equipment
	Job       *Job

	// ActionsDone counts completed work actions since the last inventory dump.
	ActionsDone   int
	CanPickUpLoot bool
}

func (c *Citizen) InitDefaults() {
	if c.Inventory == nil {
		c.Inventory = NewInventory(DefaultCitizenInventorySize)
	}
	if c.HP == 0 {
		c.HP = 20
	}
	if c.Job != nil && c.Job.CitizenID == "" {
		c.Job.CitizenID = c.ID
	}
}

func (c *Citizen) IncrementActionsDone() { c.ActionsDone++ }
func (c *Citizen) ClearActionsDone()     { c.ActionsDone = 0 }
