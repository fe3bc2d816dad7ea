package world

import "colonycraft.ai/internal/sim/tuning"

type WorldConfig struct {
	ID         string
	TickRateHz int
	Seed       int64

	SightRange       int
	LootPickupRadius int
	CitizenInventory int
	BuildingStorage  int

	// ItemDespawnTicks removes dropped items that nobody collected.
	ItemDespawnTicks int
	// SummaryEveryTicks logs a one-line world summary; 0 disables it.
	SummaryEveryTicks int
}

func ConfigFromTuning(id string, t tuning.Tuning) WorldConfig {
	return WorldConfig{
		ID:                id,
		TickRateHz:        t.TickRateHz,
		Seed:              t.Seed,
		SightRange:        t.World.SightRange,
		LootPickupRadius:  t.World.LootPickupRadius,
		CitizenInventory:  t.World.CitizenInventory,
		BuildingStorage:   t.World.BuildingStorage,
		ItemDespawnTicks:  t.World.ItemDespawnTicks,
		SummaryEveryTicks: t.World.SummaryEveryTicks,
	}
}

func (c *WorldConfig) applyDefaults() {
	if c.ID == "" {
		c.ID = "colony_world"
	}
	if c.TickRateHz <= 0 {
		c.TickRateHz = 20
	}
	if c.SightRange <= 0 {
		c.SightRange = 32
	}
	if c.LootPickupRadius <= 0 {
		c.LootPickupRadius = 1
	}
	if c.CitizenInventory <= 0 {
		c.CitizenInventory = 27
	}
	if c.BuildingStorage <= 0 {
		c.BuildingStorage = 27
	}
	if c.ItemDespawnTicks <= 0 {
		c.ItemDespawnTicks = 6000
	}
	if c.SummaryEveryTicks < 0 {
		c.SummaryEveryTicks = 0
	}
}
