package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"colonycraft.ai/internal/sim/world/kernel/model"
)

type Catalogs struct {
	Items ItemCatalog
}

type ItemCatalog struct {
	Palette    []string
	Defs       map[string]ItemDef
	DefsDigest string
}

type ItemDef struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	Kind      string `json:"kind"` // "ARMOR","WEAPON","BOW","TOOL","AMMO","MATERIAL","FOOD"
	ArmorType int    `json:"armor_type,omitempty"`
	MaxStack  int    `json:"max_stack,omitempty"`
	Damage    int    `json:"damage,omitempty"`
}

func (d ItemDef) Item() model.Item {
	return model.Item{
		ID:        d.ID,
		Name:      d.Name,
		Kind:      model.ItemKind(d.Kind),
		ArmorType: model.ArmorType(d.ArmorType),
		MaxStack:  d.MaxStack,
		Damage:    d.Damage,
	}
}

const itemsSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "kind"],
    "additionalProperties": false,
    "properties": {
      "id": {"type": "string", "pattern": "^[A-Z0-9_]+$"},
      "name": {"type": "string"},
      "kind": {"enum": ["ARMOR", "WEAPON", "BOW", "TOOL", "AMMO", "MATERIAL", "FOOD"]},
      "armor_type": {"type": "integer", "minimum": 0, "maximum": 3},
      "max_stack": {"type": "integer", "minimum": 1, "maximum": 64},
      "damage": {"type": "integer", "minimum": 0}
    }
  }
}`

var compiledItemsSchema = jsonschema.MustCompileString("items.schema.json", itemsSchema)

func Load(configDir string) (*Catalogs, error) {
	var c Catalogs
	if err := loadItems(filepath.Join(configDir, "items.json"), &c.Items); err != nil {
		return nil, err
	}
	return &c, nil
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func loadItems(path string, out *ItemCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return ParseItems(raw, out)
}

// ParseItems validates raw against the items schema and fills out.
func ParseItems(raw []byte, out *ItemCatalog) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("items.json: %w", err)
	}
	if err := compiledItemsSchema.Validate(doc); err != nil {
		return fmt.Errorf("items.json: %w", err)
	}
	out.DefsDigest = sha256Hex(raw)

	var defs []ItemDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("items.json: %w", err)
	}
	out.Defs = map[string]ItemDef{}
	for _, d := range defs {
		if _, dup := out.Defs[d.ID]; dup {
			return fmt.Errorf("items.json: duplicate id %s", d.ID)
		}
		if d.Kind == string(model.ItemArmor) && d.MaxStack == 0 {
			d.MaxStack = 1
		}
		out.Defs[d.ID] = d
	}

	ids := make([]string, 0, len(out.Defs))
	for id := range out.Defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out.Palette = ids
	return nil
}

func (c *ItemCatalog) Item(id string) (model.Item, bool) {
	d, ok := c.Defs[id]
	if !ok {
		return model.Item{}, false
	}
	return d.Item(), true
}

func (c *ItemCatalog) Stack(id string, count int) (model.ItemStack, error) {
	it, ok := c.Item(id)
	if !ok {
		return model.ItemStack{}, fmt.Errorf("unknown item %s", id)
	}
	if count <= 0 {
		return model.ItemStack{}, fmt.Errorf("item %s: count must be positive, got %d", id, count)
	}
	return model.ItemStack{Item: it, Count: count}, nil
}
