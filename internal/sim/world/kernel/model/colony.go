package model

import (
	"sort"

	"colonycraft.ai/internal/sim/world/feature/governance/permissions"
)

type BuildingKind string

const (
	BuildingTownHall   BuildingKind = "TOWN_HALL"
	BuildingGuardTower BuildingKind = "GUARD_TOWER"
	BuildingWarehouse  BuildingKind = "WAREHOUSE"
	BuildingHouse      BuildingKind = "HOUSE"
)

const DefaultStorageSize = 27

type Building struct {
	ID       string
	Kind     BuildingKind
	ColonyID string
	Location Vec3i
	Level    int

	// Storage is the building's chest; nil until the hut block is placed.
	Storage *Inventory
}

type Colony struct {
	ID   string
	Name string

	Permissions *permissions.Table
	MobsKilled  int

	buildings []*Building
}

func NewColony(id, name string) *Colony {
	return &Colony{ID: id, Name: name, Permissions: permissions.NewTable()}
}

// AddBuilding keeps buildings ordered by id so iteration is deterministic.
func (c *Colony) AddBuilding(b *Building) {
	b.ColonyID = c.ID
	c.buildings = append(c.buildings, b)
	sort.Slice(c.buildings, func(i, j int) bool { return c.buildings[i].ID < c.buildings[j].ID })
}

func (c *Colony) RemoveBuilding(id string) {
	for i, b := range c.buildings {
		if b.ID == id {
			c.buildings = append(c.buildings[:i], c.buildings[i+1:]...)
			return
		}
	}
}

func (c *Colony) Building(id string) *Building {
	for _, b := range c.buildings {
		if b.ID == id {
			return b
		}
	}
	return nil
}

func (c *Colony) Buildings() []*Building {
	out := make([]*Building, len(c.buildings))
	copy(out, c.buildings)
	return out
}

func (c *Colony) IncrementMobsKilled() { c.MobsKilled++ }
