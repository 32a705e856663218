package domain

import (
	"fmt"
	"strings"
)

// SearchInput is the form state a find-route request is made from.
// Waypoints live in the coordinator's slots. When Waypoints is non-nil it
// replaces every slot, but only once Start and Stop have been accepted.
type SearchInput struct {
	Start     string
	Stop      string
	Waypoints *[]string
}

// SearchState is the coordinator's position in one find-route cycle.
type SearchState string

const (
	StateIdle               SearchState = "idle"
	StateResolvingAddresses SearchState = "resolving_addresses"
	StatePlanningRoutes     SearchState = "planning_routes"
	StateDone               SearchState = "done"
)

// WaypointSlots is the ordered list of intermediate stop addresses.
// Slots are appended and edited in place; they are never reordered and
// only a full reset removes them.
type WaypointSlots struct {
	addresses []string
}

// Add appends an empty slot and returns its index.
func (w *WaypointSlots) Add() int {
	w.addresses = append(w.addresses, "")
	return len(w.addresses) - 1
}

func (w *WaypointSlots) Set(index int, address string) error {
	if index < 0 || index >= len(w.addresses) {
		return fmt.Errorf("set waypoint %d (slots=%d): %w", index, len(w.addresses), ErrSlotOutOfRange)
	}
	w.addresses[index] = address
	return nil
}

func (w *WaypointSlots) Len() int { return len(w.addresses) }

// Addresses returns a copy of every slot, blanks included.
func (w *WaypointSlots) Addresses() []string {
	out := make([]string, len(w.addresses))
	copy(out, w.addresses)
	return out
}

// WaypointEntry is a filled slot together with its slot index.
type WaypointEntry struct {
	Slot    int
	Address string
}

// Filled returns the trimmed, non-empty slots in entry order, keeping the
// index each one occupies.
func (w *WaypointSlots) Filled() []WaypointEntry {
	out := make([]WaypointEntry, 0, len(w.addresses))
	for i, a := range w.addresses {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		out = append(out, WaypointEntry{Slot: i, Address: a})
	}
	return out
}

func (w *WaypointSlots) Reset() {
	w.addresses = nil
}
