// SPDX-License-Identifier: Unlicense OR MIT

// Package output tracks physical outputs, groups them into logical
// Zones, and notifies observers of the create/update/delete lifecycle
// described in spec.md §4.2.
package output

import (
	"sort"

	"corewm.dev/corewm/geometry"
)

// Descriptor is a host-supplied output configuration.
type Descriptor struct {
	ID            string
	Rect          geometry.Rectangle
	LogicalGroup  int
	HasGroup      bool
}

// Output is one physical display, as tracked by the Registry.
type Output struct {
	ID           string
	Rect         geometry.Rectangle
	LogicalGroup int
	ZoneID       string
}

// Zone is a logical output group: its extent is the bounding rectangle
// of its member outputs.
type Zone struct {
	ID      string
	Outputs []string
	Extent  geometry.Rectangle
}

// Observer receives the output and zone lifecycle notifications
// spec.md §4.2 requires, in create-before-update-before-delete order.
type Observer interface {
	OutputCreated(o Output)
	OutputUpdated(o Output)
	OutputDeleted(id string)
	ZoneCreated(z Zone)
	ZoneUpdated(z Zone)
	ZoneDeleted(id string)
}

// Registry is the single source of truth for outputs and zones.
type Registry struct {
	outputs   map[string]Output
	zones     map[string]Zone
	observers []Observer
}

// NewRegistry returns an empty Registry with no configuration applied.
func NewRegistry() *Registry {
	return &Registry{
		outputs: make(map[string]Output),
		zones:   make(map[string]Zone),
	}
}

// Subscribe registers an observer for future lifecycle notifications.
// It does not replay the current configuration.
func (r *Registry) Subscribe(o Observer) {
	r.observers = append(r.observers, o)
}

// GlobalDisplayArea is the union of every zone's extent.
func (r *Registry) GlobalDisplayArea() geometry.Rectangle {
	rects := make([]geometry.Rectangle, 0, len(r.zones))
	for _, z := range r.zones {
		rects = append(rects, z.Extent)
	}
	return geometry.BoundingRectangle(rects)
}

// Zones returns the current zones sorted by ID for deterministic
// iteration by callers such as the Zone Engine.
func (r *Registry) Zones() []Zone {
	out := make([]Zone, 0, len(r.zones))
	for _, z := range r.zones {
		out = append(out, z)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ZoneFor returns the zone containing the given output, if known.
func (r *Registry) ZoneFor(outputID string) (Zone, bool) {
	o, ok := r.outputs[outputID]
	if !ok {
		return Zone{}, false
	}
	z, ok := r.zones[o.ZoneID]
	return z, ok
}

// Output returns the output record for id, if known.
func (r *Registry) Output(id string) (Output, bool) {
	o, ok := r.outputs[id]
	return o, ok
}

// OutputContaining returns the single physical output whose rect
// overlaps rect, if any; ties break on the lowest output id so the
// result is deterministic.
func (r *Registry) OutputContaining(rect geometry.Rectangle) (Output, bool) {
	ids := make([]string, 0, len(r.outputs))
	for id := range r.outputs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		o := r.outputs[id]
		if o.Rect.Overlaps(rect) {
			return o, true
		}
	}
	return Output{}, false
}

// ApplyConfiguration replaces the known outputs with descs, grouping
// outputs that share a non-zero logical group id into one Zone; an
// output with no group (or group 0) forms its own Zone. An empty descs
// is accepted per spec.md §4.2's failure note — the previous
// configuration (and its zones) is simply retained.
func (r *Registry) ApplyConfiguration(descs []Descriptor) {
	if len(descs) == 0 {
		return
	}

	newOutputs := make(map[string]Output, len(descs))
	groups := make(map[int][]Descriptor)
	var ungrouped []Descriptor
	for _, d := range descs {
		if d.HasGroup && d.LogicalGroup != 0 {
			groups[d.LogicalGroup] = append(groups[d.LogicalGroup], d)
		} else {
			ungrouped = append(ungrouped, d)
		}
	}

	newZones := make(map[string]Zone)
	zoneOf := make(map[string]string, len(descs))

	for group, ds := range groups {
		zoneID := zoneIDForGroup(group)
		ids := make([]string, 0, len(ds))
		rects := make([]geometry.Rectangle, 0, len(ds))
		for _, d := range ds {
			ids = append(ids, d.ID)
			rects = append(rects, d.Rect)
			zoneOf[d.ID] = zoneID
		}
		sort.Strings(ids)
		newZones[zoneID] = Zone{ID: zoneID, Outputs: ids, Extent: geometry.BoundingRectangle(rects)}
	}
	for _, d := range ungrouped {
		zoneID := "solo:" + d.ID
		zoneOf[d.ID] = zoneID
		newZones[zoneID] = Zone{ID: zoneID, Outputs: []string{d.ID}, Extent: d.Rect}
	}

	for _, d := range descs {
		newOutputs[d.ID] = Output{
			ID:           d.ID,
			Rect:         d.Rect,
			LogicalGroup: d.LogicalGroup,
			ZoneID:       zoneOf[d.ID],
		}
	}

	r.diffAndNotify(newOutputs, newZones)
}

func zoneIDForGroup(group int) string {
	const base = "group:"
	digits := []byte(base)
	if group == 0 {
		return string(append(digits, '0'))
	}
	n := group
	neg := n < 0
	if neg {
		n = -n
	}
	var rev []byte
	for n > 0 {
		rev = append(rev, byte('0'+n%10))
		n /= 10
	}
	if neg {
		digits = append(digits, '-')
	}
	for i := len(rev) - 1; i >= 0; i-- {
		digits = append(digits, rev[i])
	}
	return string(digits)
}

// diffAndNotify computes created/updated/deleted sets for both
// outputs and zones, then fires observer callbacks in
// create-before-update-before-delete order; within each of those
// steps, output callbacks come before zone callbacks (outputs are the
// finer-grained notification, zones the coarser one derived from
// them).
func (r *Registry) diffAndNotify(newOutputs map[string]Output, newZones map[string]Zone) {
	var createdOutputs, updatedOutputs []Output
	var deletedOutputs []string
	for id, o := range newOutputs {
		if old, ok := r.outputs[id]; !ok {
			createdOutputs = append(createdOutputs, o)
		} else if old != o {
			updatedOutputs = append(updatedOutputs, o)
		}
	}
	for id := range r.outputs {
		if _, ok := newOutputs[id]; !ok {
			deletedOutputs = append(deletedOutputs, id)
		}
	}

	var createdZones, updatedZones []Zone
	var deletedZones []string
	for id, z := range newZones {
		if old, ok := r.zones[id]; !ok {
			createdZones = append(createdZones, z)
		} else if !zoneEqual(old, z) {
			updatedZones = append(updatedZones, z)
		}
	}
	for id := range r.zones {
		if _, ok := newZones[id]; !ok {
			deletedZones = append(deletedZones, id)
		}
	}

	sortOutputs(createdOutputs)
	sortOutputs(updatedOutputs)
	sort.Strings(deletedOutputs)
	sortZones(createdZones)
	sortZones(updatedZones)
	sort.Strings(deletedZones)

	r.outputs = newOutputs
	r.zones = newZones

	for _, obs := range r.observers {
		for _, o := range createdOutputs {
			obs.OutputCreated(o)
		}
		for _, z := range createdZones {
			obs.ZoneCreated(z)
		}
		for _, o := range updatedOutputs {
			obs.OutputUpdated(o)
		}
		for _, z := range updatedZones {
			obs.ZoneUpdated(z)
		}
		for _, id := range deletedOutputs {
			obs.OutputDeleted(id)
		}
		for _, id := range deletedZones {
			obs.ZoneDeleted(id)
		}
	}
}

func zoneEqual(a, b Zone) bool {
	if a.ID != b.ID || a.Extent != b.Extent || len(a.Outputs) != len(b.Outputs) {
		return false
	}
	for i := range a.Outputs {
		if a.Outputs[i] != b.Outputs[i] {
			return false
		}
	}
	return true
}

func sortOutputs(os []Output) {
	sort.Slice(os, func(i, j int) bool { return os[i].ID < os[j].ID })
}

func sortZones(zs []Zone) {
	sort.Slice(zs, func(i, j int) bool { return zs[i].ID < zs[j].ID })
}
