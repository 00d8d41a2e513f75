// SPDX-License-Identifier: Unlicense OR MIT

// Package zone computes the per-Zone application rectangle: a zone's
// extent minus the exclusive-edge subtractions contributed by its
// attached surfaces (spec.md §4.3).
package zone

import (
	"corewm.dev/corewm/geometry"
	"corewm.dev/corewm/output"
	"corewm.dev/corewm/surfaceinfo"
)

// Attachment is one attached-edge surface's contribution to a zone's
// exclusion, expressed entirely in the zone's global coordinate space
// (the surface-local exclusive_rect of spec.md §3, already translated
// by the surface's top-left).
type Attachment struct {
	Surface     surfaceinfo.Surface
	ZoneID      string
	Edges       surfaceinfo.Edges
	GlobalRect  geometry.Rectangle
}

// Event is one zone lifecycle notification, mirroring the
// create/update/delete vocabulary of spec.md §4.3.
type Event struct {
	Kind EventKind
	Zone output.Zone
	App  geometry.Rectangle
}

type EventKind uint8

const (
	EventCreated EventKind = iota
	EventUpdated
	EventDeleted
)

// Observer is notified whenever a zone's application rectangle is
// established, recomputed, or the zone is dropped — the change a
// surface's placement and constrained states (attached, maximised)
// need to react to.
type Observer interface {
	ApplicationRectChanged(e Event)
}

// Engine maintains the application rectangle for every known Zone.
type Engine struct {
	zones       map[string]output.Zone
	order       map[string][]surfaceinfo.Surface
	attachments map[surfaceinfo.Surface]Attachment
	app         map[string]geometry.Rectangle
	observers   []Observer
}

// NewEngine returns an Engine with no zones registered yet.
func NewEngine() *Engine {
	return &Engine{
		zones:       make(map[string]output.Zone),
		order:       make(map[string][]surfaceinfo.Surface),
		attachments: make(map[surfaceinfo.Surface]Attachment),
		app:         make(map[string]geometry.Rectangle),
	}
}

// Subscribe registers an observer for future application-rect changes.
func (e *Engine) Subscribe(o Observer) {
	e.observers = append(e.observers, o)
}

// ApplicationRect returns the current application rectangle for a zone.
func (e *Engine) ApplicationRect(zoneID string) (geometry.Rectangle, bool) {
	r, ok := e.app[zoneID]
	return r, ok
}

// AttachedSurfaces returns the surfaces currently attached to zoneID,
// in subtraction order, used by the fullscreen-occlusion handling of
// spec.md §4.6 ("Occlusion of attached surfaces") to find the panels
// sharing an output with a newly fullscreened window.
func (e *Engine) AttachedSurfaces(zoneID string) []surfaceinfo.Surface {
	return append([]surfaceinfo.Surface(nil), e.order[zoneID]...)
}

// OutputCreated, OutputUpdated and OutputDeleted satisfy
// output.Observer trivially (the Zone Engine only reacts to zone
// changes, not individual outputs within an unchanged zone).
func (e *Engine) OutputCreated(output.Output) {}
func (e *Engine) OutputUpdated(output.Output) {}
func (e *Engine) OutputDeleted(string)        {}

// ZoneCreated and ZoneUpdated recompute the application rectangle for
// the affected zone and recurse through attached-surface subtraction.
func (e *Engine) ZoneCreated(z output.Zone) {
	e.zones[z.ID] = z
	e.recompute(z.ID)
	e.notify(Event{Kind: EventCreated, Zone: z, App: e.app[z.ID]})
}

func (e *Engine) ZoneUpdated(z output.Zone) {
	e.zones[z.ID] = z
	e.recompute(z.ID)
	e.notify(Event{Kind: EventUpdated, Zone: z, App: e.app[z.ID]})
}

// ZoneDeleted drops the zone and every attachment registered to it.
func (e *Engine) ZoneDeleted(id string) {
	z, had := e.zones[id]
	delete(e.zones, id)
	delete(e.app, id)
	for _, surface := range e.order[id] {
		delete(e.attachments, surface)
	}
	delete(e.order, id)
	if had {
		e.notify(Event{Kind: EventDeleted, Zone: z})
	}
}

// Attach registers surface as contributing an exclusive-rectangle
// subtraction to the zone it is attached to, appending it to that
// zone's subtraction order (spec.md §4.3: "applied in the order
// surfaces were created").
func (e *Engine) Attach(a Attachment) {
	if _, exists := e.attachments[a.Surface]; !exists {
		e.order[a.ZoneID] = append(e.order[a.ZoneID], a.Surface)
	}
	e.attachments[a.Surface] = a
	e.recompute(a.ZoneID)
	if z, ok := e.zones[a.ZoneID]; ok {
		e.notify(Event{Kind: EventUpdated, Zone: z, App: e.app[a.ZoneID]})
	}
}

// Detach removes surface's exclusion from its zone, e.g. when it
// transitions out of the attached state or is destroyed.
func (e *Engine) Detach(surface surfaceinfo.Surface) {
	a, ok := e.attachments[surface]
	if !ok {
		return
	}
	delete(e.attachments, surface)
	e.order[a.ZoneID] = removeAttachedSurface(e.order[a.ZoneID], surface)
	e.recompute(a.ZoneID)
	if z, ok := e.zones[a.ZoneID]; ok {
		e.notify(Event{Kind: EventUpdated, Zone: z, App: e.app[a.ZoneID]})
	}
}

func (e *Engine) notify(ev Event) {
	for _, obs := range e.observers {
		obs.ApplicationRectChanged(ev)
	}
}

func (e *Engine) recompute(zoneID string) {
	z, ok := e.zones[zoneID]
	if !ok {
		return
	}
	app := z.Extent
	for _, surface := range e.order[zoneID] {
		a, ok := e.attachments[surface]
		if !ok {
			continue
		}
		app = subtract(app, a.Edges, a.GlobalRect)
	}
	e.app[zoneID] = app
}

// subtract applies one attachment's exclusion to app per the rules of
// spec.md §4.3. An attachment on both horizontal (or both vertical)
// edges contributes nothing along that axis.
func subtract(app geometry.Rectangle, edges surfaceinfo.Edges, excl geometry.Rectangle) geometry.Rectangle {
	left, top := app.Left(), app.Top()
	right, bottom := app.Right(), app.Bottom()

	horizBoth := edges.Has(surfaceinfo.EdgeWest) && edges.Has(surfaceinfo.EdgeEast)
	vertBoth := edges.Has(surfaceinfo.EdgeNorth) && edges.Has(surfaceinfo.EdgeSouth)

	if !horizBoth {
		if edges.Has(surfaceinfo.EdgeWest) && excl.Right() > left {
			left = excl.Right()
		}
		if edges.Has(surfaceinfo.EdgeEast) && excl.Left() < right {
			right = excl.Left()
		}
	}
	if !vertBoth {
		if edges.Has(surfaceinfo.EdgeNorth) && excl.Bottom() > top {
			top = excl.Bottom()
		}
		if edges.Has(surfaceinfo.EdgeSouth) && excl.Top() < bottom {
			bottom = excl.Top()
		}
	}

	if right < left {
		right = left
	}
	if bottom < top {
		bottom = top
	}
	return geometry.RectWH(left, top, right-left, bottom-top)
}

func removeAttachedSurface(list []surfaceinfo.Surface, target surfaceinfo.Surface) []surfaceinfo.Surface {
	for i, s := range list {
		if s == target {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
