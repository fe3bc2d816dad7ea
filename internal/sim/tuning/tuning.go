package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	TickRateHz int   `yaml:"tick_rate_hz"`
	Seed       int64 `yaml:"seed"`

	Work  Work  `yaml:"work"`
	Chat  Chat  `yaml:"chat"`
	Guard Guard `yaml:"guard"`
	World World `yaml:"world"`
}

type Work struct {
	RangeForDelay            int `yaml:"range_for_delay"`
	NeededItemsCooldownTicks int `yaml:"needed_items_cooldown_ticks"`
}

type Chat struct {
	RequestWindowTicks    uint64 `yaml:"request_window_ticks"`
	RequestMaxWindowTicks uint64 `yaml:"request_max_window_ticks"`
}

type Guard struct {
	MaxAttackDistance     int `yaml:"max_attack_distance"`
	VisionBonusPerLevel   int `yaml:"vision_bonus_per_level"`
	StartSearchDistance   int `yaml:"start_search_distance"`
	BaseDelay             int `yaml:"base_delay"`
	MaxAttacks            int `yaml:"max_attacks"`
	HeightDetectionRange  int `yaml:"height_detection_range"`
	PathClose             int `yaml:"path_close"`
	RangeHorizontalPickup int `yaml:"range_horizontal_pickup"`
	RangeVerticalPickup   int `yaml:"range_vertical_pickup"`
	StuckWaitTicks        int `yaml:"stuck_wait_ticks"`
	ItemPickupRange       int `yaml:"item_pickup_range"`
	DumpAfterActions      int `yaml:"dump_after_actions"`

	MeleeRange          int    `yaml:"melee_range"`
	RangedRange         int    `yaml:"ranged_range"`
	MeleeCooldownTicks  int    `yaml:"melee_cooldown_ticks"`
	RangedCooldownTicks int    `yaml:"ranged_cooldown_ticks"`
	FistDamage          int    `yaml:"fist_damage"`
	ArrowItem           string `yaml:"arrow_item"`
	ArrowRestockCount   int    `yaml:"arrow_restock_count"`
}

type World struct {
	SightRange        int `yaml:"sight_range"`
	LootPickupRadius  int `yaml:"loot_pickup_radius"`
	CitizenInventory  int `yaml:"citizen_inventory"`
	BuildingStorage   int `yaml:"building_storage"`
	ItemDespawnTicks  int `yaml:"item_despawn_ticks"`
	SummaryEveryTicks int `yaml:"summary_every_ticks"`
}

func Defaults() Tuning {
	return Tuning{
		TickRateHz: 20,
		Seed:       1337,
		Work: Work{
			RangeForDelay:            3,
			NeededItemsCooldownTicks: 10,
		},
		Chat: Chat{
			RequestWindowTicks:    600,
			RequestMaxWindowTicks: 72000,
		},
		Guard: Guard{
			MaxAttackDistance:     20,
			VisionBonusPerLevel:   3,
			StartSearchDistance:   5,
			BaseDelay:             1,
			MaxAttacks:            50,
			HeightDetectionRange:  10,
			PathClose:             3,
			RangeHorizontalPickup: 20,
			RangeVerticalPickup:   2,
			StuckWaitTicks:        20,
			ItemPickupRange:       3,
			DumpAfterActions:      10,
			MeleeRange:            2,
			RangedRange:           12,
			MeleeCooldownTicks:    10,
			RangedCooldownTicks:   20,
			FistDamage:            1,
			ArrowItem:             "ARROW",
			ArrowRestockCount:     16,
		},
		World: World{
			SightRange:        32,
			LootPickupRadius:  3,
			CitizenInventory:  27,
			BuildingStorage:   27,
			ItemDespawnTicks:  6000,
			SummaryEveryTicks: 200,
		},
	}
}

// Load reads a tuning file on top of Defaults, so a file only needs the keys
// it changes.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	if t.TickRateHz <= 0 {
		return fmt.Errorf("tick_rate_hz must be positive, got %d", t.TickRateHz)
	}
	if t.Work.RangeForDelay < 0 || t.Work.NeededItemsCooldownTicks < 0 {
		return fmt.Errorf("work: negative range or cooldown")
	}
	g := t.Guard
	if g.StartSearchDistance <= 0 {
		return fmt.Errorf("guard.start_search_distance must be positive, got %d", g.StartSearchDistance)
	}
	if g.StuckWaitTicks <= 0 {
		return fmt.Errorf("guard.stuck_wait_ticks must be positive, got %d", g.StuckWaitTicks)
	}
	if g.MeleeRange <= 0 || g.RangedRange <= 0 {
		return fmt.Errorf("guard: attack ranges must be positive")
	}
	if g.ArrowItem == "" {
		return fmt.Errorf("guard.arrow_item is empty")
	}
	return nil
}
