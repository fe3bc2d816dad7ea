package model

type ItemKind string

const (
	ItemArmor    ItemKind = "ARMOR"
	ItemWeapon   ItemKind = "WEAPON"
	ItemBow      ItemKind = "BOW"
	ItemTool     ItemKind = "TOOL"
	ItemAmmo     ItemKind = "AMMO"
	ItemMaterial ItemKind = "MATERIAL"
	ItemFood     ItemKind = "FOOD"
)

// ArmorType follows the helmet-first ordering used by item definitions.
type ArmorType int

const (
	ArmorHelmet ArmorType = iota
	ArmorChestplate
	ArmorLeggings
	ArmorBoots
)

const DefaultMaxStack = 64

type Item struct {
	ID        string
	Name      string
	Kind      ItemKind
	ArmorType ArmorType
	MaxStack  int
	Damage    int
}

func (i Item) IsArmor() bool { return i.Kind == ItemArmor }

func (i Item) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	return i.ID
}

func (i Item) StackLimit() int {
	if i.MaxStack <= 0 {
		return DefaultMaxStack
	}
	return i.MaxStack
}

type ItemStack struct {
	Item  Item
	Count int
}

func (s *ItemStack) Empty() bool { return s == nil || s.Count <= 0 }

func (s *ItemStack) SameItem(o *ItemStack) bool {
	if s == nil || o == nil {
		return false
	}
	return s.Item.ID == o.Item.ID
}

// WithCount builds a stack of n of i.
func (i Item) WithCount(n int) ItemStack { return ItemStack{Item: i, Count: n} }

func (s ItemStack) WithCount(n int) ItemStack {
	s.Count = n
	return s
}
