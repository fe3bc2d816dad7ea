package model

// Inventory is an ordered, fixed-size slot container. Citizens carry one and
// every building's storage is one.
type Inventory struct {
	slots []*ItemStack
}

func NewInventory(size int) *Inventory {
	if size < 0 {
		size = 0
	}
	return &Inventory{slots: make([]*ItemStack, size)}
}

func (inv *Inventory) Size() int {
	if inv == nil {
		return 0
	}
	return len(inv.slots)
}

// Get returns the stack in slot i, or nil when the slot is empty or out of range.
func (inv *Inventory) Get(i int) *ItemStack {
	if inv == nil || i < 0 || i >= len(inv.slots) {
		return nil
	}
	return inv.slots[i]
}

func (inv *Inventory) Set(i int, s *ItemStack) {
	if inv == nil || i < 0 || i >= len(inv.slots) {
		return
	}
	if s.Empty() {
		inv.slots[i] = nil
		return
	}
	inv.slots[i] = s
}

// Decr removes up to n items from slot i and returns what was removed.
func (inv *Inventory) Decr(i, n int) *ItemStack {
	s := inv.Get(i)
	if s.Empty() || n <= 0 {
		return nil
	}
	if n > s.Count {
		n = s.Count
	}
	s.Count -= n
	if s.Count == 0 {
		inv.slots[i] = nil
	}
	return &ItemStack{Item: s.Item, Count: n}
}

func (inv *Inventory) FirstEmpty() int {
	for i := 0; i < inv.Size(); i++ {
		if inv.slots[i].Empty() {
			return i
		}
	}
	return -1
}

// Add merges s into matching stacks first, then into empty slots.
// It returns the count that did not fit.
func (inv *Inventory) Add(s ItemStack) int {
	left := s.Count
	if inv == nil || left <= 0 {
		return left
	}
	limit := s.Item.StackLimit()
	for _, cur := range inv.slots {
		if left == 0 {
			return 0
		}
		if cur.Empty() || !cur.SameItem(&s) || cur.Count >= limit {
			continue
		}
		n := limit - cur.Count
		if n > left {
			n = left
		}
		cur.Count += n
		left -= n
	}
	for i := range inv.slots {
		if left == 0 {
			return 0
		}
		if !inv.slots[i].Empty() {
			continue
		}
		n := left
		if n > limit {
			n = limit
		}
		inv.slots[i] = &ItemStack{Item: s.Item, Count: n}
		left -= n
	}
	return left
}

func (inv *Inventory) Count(itemID string) int {
	n := 0
	for i := 0; i < inv.Size(); i++ {
		if s := inv.slots[i]; !s.Empty() && s.Item.ID == itemID {
			n += s.Count
		}
	}
	return n
}

// Remove takes up to n items of itemID, scanning slots in order.
// It returns how many were removed.
func (inv *Inventory) Remove(itemID string, n int) int {
	removed := 0
	for i := 0; i < inv.Size() && removed < n; i++ {
		s := inv.slots[i]
		if s.Empty() || s.Item.ID != itemID {
			continue
		}
		if got := inv.Decr(i, n-removed); got != nil {
			removed += got.Count
		}
	}
	return removed
}

// Stacks returns copies of the non-empty stacks in slot order.
func (inv *Inventory) Stacks() []ItemStack {
	out := make([]ItemStack, 0, inv.Size())
	for i := 0; i < inv.Size(); i++ {
		if s := inv.slots[i]; !s.Empty() {
			out = append(out, *s)
		}
	}
	return out
}
