// SPDX-License-Identifier: Unlicense OR MIT

package wm

import (
	"corewm.dev/corewm/geometry"
	"corewm.dev/corewm/output"
)

// outputAdapter satisfies placement.Outputs over an *output.Registry.
// "Active output" isn't a Registry concern (the registry only knows
// configuration, not focus or pointer position), so the engine tracks
// it here and updates it as focus moves.
type outputAdapter struct {
	registry     *output.Registry
	activeZoneID string
	hasActive    bool
}

func newOutputAdapter(registry *output.Registry) *outputAdapter {
	return &outputAdapter{registry: registry}
}

// setActiveZone records the zone new unplaced windows and centered
// placements should land on.
func (a *outputAdapter) setActiveZone(id string) {
	a.activeZoneID = id
	a.hasActive = true
}

func (a *outputAdapter) ActiveOutput() geometry.Rectangle {
	if a.hasActive {
		for _, z := range a.registry.Zones() {
			if z.ID == a.activeZoneID {
				return z.Extent
			}
		}
	}
	if zones := a.registry.Zones(); len(zones) > 0 {
		return zones[0].Extent
	}
	return a.registry.GlobalDisplayArea()
}

func (a *outputAdapter) OutputByID(id string) (geometry.Rectangle, bool) {
	o, ok := a.registry.Output(id)
	if !ok {
		return geometry.Rectangle{}, false
	}
	return o.Rect, true
}

// OutputContaining returns the extent of the logical-group zone a rect
// overlaps, not a single physical output — scenario S6 maximises into
// the bounding rect of a whole logical group, and popup/edge placement
// target the same zone-wide area.
func (a *outputAdapter) OutputContaining(r geometry.Rectangle) (geometry.Rectangle, bool) {
	for _, z := range a.registry.Zones() {
		if z.Extent.Overlaps(r) {
			return z.Extent, true
		}
	}
	return geometry.Rectangle{}, false
}

func (a *outputAdapter) GlobalDisplayArea() geometry.Rectangle {
	return a.registry.GlobalDisplayArea()
}

// zoneIDContaining returns the id of the zone overlapping r, used by
// the engine to resolve a surface's attached-state zone.
func (a *outputAdapter) zoneIDContaining(r geometry.Rectangle) (string, bool) {
	for _, z := range a.registry.Zones() {
		if z.Extent.Overlaps(r) {
			return z.ID, true
		}
	}
	return "", false
}
