package player

import "github.com/OCharnyshevich/voxelworld/internal/server/world/block"

// HotbarSize is the number of inventory slots.
const HotbarSize = 9

// Inventory is a fixed row of slots, each holding a block type or nothing
// (block.Air), and the index of the selected slot.
type Inventory struct {
	slots    [HotbarSize]block.Type
	selected int
}

// NewInventory creates an empty inventory with slot 0 selected.
func NewInventory() *Inventory {
	return &Inventory{}
}

// DefaultLoadout fills the first slots with every placeable block type.
func (inv *Inventory) DefaultLoadout() {
	loadout := []block.Type{
		block.Grass, block.Dirt, block.Stone, block.Sand,
		block.Wood, block.Leaves, block.Water,
	}
	for i := range inv.slots {
		inv.slots[i] = block.Air
	}
	copy(inv.slots[:], loadout)
}

// Slot returns the contents of slot i, or Air for an invalid index.
func (inv *Inventory) Slot(i int) block.Type {
	if i < 0 || i >= HotbarSize {
		return block.Air
	}
	return inv.slots[i]
}

// SetSlot sets the contents of slot i. Invalid indexes are ignored.
func (inv *Inventory) SetSlot(i int, t block.Type) {
	if i < 0 || i >= HotbarSize {
		return
	}
	inv.slots[i] = t
}

// Slots returns a copy of all slots.
func (inv *Inventory) Slots() [HotbarSize]block.Type {
	return inv.slots
}

// Selected returns the selected slot index.
func (inv *Inventory) Selected() int {
	return inv.selected
}

// Select selects slot i. It reports false and keeps the selection for an
// invalid index.
func (inv *Inventory) Select(i int) bool {
	if i < 0 || i >= HotbarSize {
		return false
	}
	inv.selected = i
	return true
}

// Scroll moves the selection one slot per scroll step, wrapping around.
// Positive delta moves right.
func (inv *Inventory) Scroll(delta int) {
	inv.selected = ((inv.selected+delta)%HotbarSize + HotbarSize) % HotbarSize
}

// Held returns the selected block type. ok is false when the slot is empty.
func (inv *Inventory) Held() (t block.Type, ok bool) {
	t = inv.slots[inv.selected]
	return t, t != block.Air
}
