package world

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"colonycraft.ai/internal/sim/world/feature/governance/permissions"
	"colonycraft.ai/internal/sim/world/kernel/model"
)

// Scenario is a YAML description of a starting world. Lists keep their file
// order so inventories and spawn order are reproducible.
type Scenario struct {
	WorldID  string        `yaml:"world_id"`
	Colonies []ColonySpec  `yaml:"colonies"`
	Citizens []CitizenSpec `yaml:"citizens"`
	Entities []EntitySpec  `yaml:"entities"`
	Blocked  [][3]int      `yaml:"blocked"`
}

type ColonySpec struct {
	ID        string            `yaml:"id"`
	Name      string            `yaml:"name"`
	Ranks     map[string]string `yaml:"ranks"`
	Buildings []BuildingSpec    `yaml:"buildings"`
}

type BuildingSpec struct {
	ID      string      `yaml:"id"`
	Kind    string      `yaml:"kind"`
	Pos     [3]int      `yaml:"pos"`
	Level   int         `yaml:"level"`
	Storage []StackSpec `yaml:"storage"`
}

type CitizenSpec struct {
	ID        string      `yaml:"id"`
	Name      string      `yaml:"name"`
	Colony    string      `yaml:"colony"`
	Building  string      `yaml:"building"`
	Job       string      `yaml:"job"`
	Pos       [3]int      `yaml:"pos"`
	Activity  string      `yaml:"activity"`
	Inventory []StackSpec `yaml:"inventory"`
}

type EntitySpec struct {
	ID    string      `yaml:"id"`
	Kind  string      `yaml:"kind"`
	Name  string      `yaml:"name"`
	Pos   [3]int      `yaml:"pos"`
	HP    int         `yaml:"hp"`
	Drops []StackSpec `yaml:"drops"`
}

type StackSpec struct {
	Item  string `yaml:"item"`
	Count int    `yaml:"count"`
}

func LoadScenario(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(raw)
}

func ParseScenario(raw []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	return &s, nil
}

func vec(p [3]int) model.Vec3i { return model.Vec3i{X: p[0], Y: p[1], Z: p[2]} }

func parseActivity(raw string) (model.Activity, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "", "WORK":
		return model.ActivityWork, nil
	case "IDLE":
		return model.ActivityIdle, nil
	case "SLEEP":
		return model.ActivitySleep, nil
	default:
		return 0, fmt.Errorf("unknown activity %q", raw)
	}
}

func parseEntityKind(raw string) (model.EntityKind, error) {
	k := model.EntityKind(strings.ToUpper(strings.TrimSpace(raw)))
	switch k {
	case model.EntityMob, model.EntitySlime, model.EntityPlayer, model.EntityItem:
		return k, nil
	}
	return "", fmt.Errorf("unknown entity kind %q", raw)
}

func parseBuildingKind(raw string) (model.BuildingKind, error) {
	k := model.BuildingKind(strings.ToUpper(strings.TrimSpace(raw)))
	switch k {
	case model.BuildingTownHall, model.BuildingGuardTower, model.BuildingWarehouse, model.BuildingHouse:
		return k, nil
	}
	return "", fmt.Errorf("unknown building kind %q", raw)
}

func (w *World) fillInventory(inv *model.Inventory, specs []StackSpec) error {
	for _, sp := range specs {
		st, err := w.catalogs.Items.Stack(sp.Item, sp.Count)
		if err != nil {
			return err
		}
		if left := inv.Add(st); left > 0 {
			return fmt.Errorf("%d %s do not fit", left, sp.Item)
		}
	}
	return nil
}

func (w *World) stacks(specs []StackSpec) ([]model.ItemStack, error) {
	out := make([]model.ItemStack, 0, len(specs))
	for _, sp := range specs {
		st, err := w.catalogs.Items.Stack(sp.Item, sp.Count)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

// Apply populates w from the scenario. It fails on the first invalid entry.
func (w *World) Apply(s *Scenario) error {
	for _, cs := range s.Colonies {
		col := model.NewColony(cs.ID, cs.Name)
		for player, raw := range cs.Ranks {
			r, ok := permissions.NormalizeRank(raw)
			if !ok {
				return fmt.Errorf("colony %s: player %s: unknown rank %q", cs.ID, player, raw)
			}
			col.Permissions.SetRank(player, r)
		}
		for _, bs := range cs.Buildings {
			kind, err := parseBuildingKind(bs.Kind)
			if err != nil {
				return fmt.Errorf("building %s: %w", bs.ID, err)
			}
			b := &model.Building{ID: bs.ID, Kind: kind, Location: vec(bs.Pos), Level: bs.Level, Storage: model.NewInventory(w.cfg.BuildingStorage)}
			if err := w.fillInventory(b.Storage, bs.Storage); err != nil {
				return fmt.Errorf("building %s: %w", bs.ID, err)
			}
			col.AddBuilding(b)
		}
		if err := w.AddColony(col); err != nil {
			return err
		}
	}

	for _, cs := range s.Citizens {
		act, err := parseActivity(cs.Activity)
		if err != nil {
			return fmt.Errorf("citizen %s: %w", cs.ID, err)
		}
		c := &model.Citizen{
			ID:              cs.ID,
			Name:            cs.Name,
			ColonyID:        cs.Colony,
			BuildingID:      cs.Building,
			Pos:             vec(cs.Pos),
			DesiredActivity: act,
			Inventory:       model.NewInventory(w.cfg.CitizenInventory),
			Job:             model.NewJob(model.JobKind(strings.ToUpper(cs.Job)), cs.ID),
		}
		if err := w.fillInventory(c.Inventory, cs.Inventory); err != nil {
			return fmt.Errorf("citizen %s: %w", cs.ID, err)
		}
		if err := w.AddCitizen(c); err != nil {
			return err
		}
	}

	for _, es := range s.Entities {
		kind, err := parseEntityKind(es.Kind)
		if err != nil {
			return fmt.Errorf("entity %s: %w", es.ID, err)
		}
		drops, err := w.stacks(es.Drops)
		if err != nil {
			return fmt.Errorf("entity %s: %w", es.ID, err)
		}
		e := &model.Entity{ID: es.ID, Kind: kind, Name: es.Name, Pos: vec(es.Pos), HP: es.HP, Drops: drops}
		if kind == model.EntityItem {
			if len(drops) != 1 {
				return fmt.Errorf("entity %s: an item entity carries exactly one stack", es.ID)
			}
			e.Stack = &drops[0]
			e.Drops = nil
		}
		if _, err := w.SpawnEntity(e); err != nil {
			return err
		}
	}

	for _, p := range s.Blocked {
		w.Block(vec(p))
	}
	return nil
}
