// SPDX-License-Identifier: Unlicense OR MIT

// Package stacking implements the raise-tree invariant of spec.md
// §4.8: raising a surface raises its whole parent/child tree as one
// set, and an external re-order of a tracked surface is re-issued as
// the equivalent stack command to the XWayland bridge.
package stacking

import (
	"golang.org/x/exp/slices"

	"corewm.dev/corewm/surfaceinfo"
)

// Raiser is the scene-graph primitive spec.md §6 provides: raise a set
// of surfaces as one atomic restack, preserving relative order within
// the set.
type Raiser interface {
	Raise(set []surfaceinfo.Surface)
}

// XWaylandBridge receives the re-issued stack command when an external
// party reorders a tracked tree (spec.md §4.8, "re-issues the implied
// stack commands to the XWayland bridge").
type XWaylandBridge interface {
	RestackHint(set []surfaceinfo.Surface)
}

// Controller tracks which surfaces participate in raise-tree sets and
// forwards raises to the scene graph's Raiser.
type Controller struct {
	store   *surfaceinfo.Store
	raiser  Raiser
	bridge  XWaylandBridge
	tracked map[surfaceinfo.Surface]bool
}

// New constructs a Controller bound to store and raiser. bridge may be
// nil if no XWayland bridge is present.
func New(store *surfaceinfo.Store, raiser Raiser, bridge XWaylandBridge) *Controller {
	return &Controller{
		store:   store,
		raiser:  raiser,
		bridge:  bridge,
		tracked: make(map[surfaceinfo.Surface]bool),
	}
}

// Track registers surface as participating in raise-tree bookkeeping,
// so a later ExternalReorder naming it re-issues a stack hint.
func (c *Controller) Track(surface surfaceinfo.Surface) {
	c.tracked[surface] = true
}

// Untrack drops surface from bookkeeping, typically on destroy.
func (c *Controller) Untrack(surface surfaceinfo.Surface) {
	delete(c.tracked, surface)
}

// treeRoot walks up to the topmost ancestor of surface.
func (c *Controller) treeRoot(surface surfaceinfo.Surface) surfaceinfo.Surface {
	root := surface
	for {
		info, err := c.store.InfoFor(root)
		if err != nil || info.Parent == nil {
			return root
		}
		root = info.Parent
	}
}

// flatten collects root and every descendant, in a stable pre-order:
// a node always precedes its children, and siblings keep the order
// their parent's Children slice records them in.
func (c *Controller) flatten(root surfaceinfo.Surface) []surfaceinfo.Surface {
	out := []surfaceinfo.Surface{root}
	info, err := c.store.InfoFor(root)
	if err != nil {
		return out
	}
	// Clone so a child's own flatten pass can't alias and reorder the
	// parent's live Children backing array.
	for _, child := range slices.Clone(info.Children) {
		out = append(out, c.flatten(child)...)
	}
	return out
}

// Raise brings surface's whole tree to the front as one set: the
// surface's topmost ancestor and every descendant reachable from it,
// in stable pre-order (spec.md §4.8).
func (c *Controller) Raise(surface surfaceinfo.Surface) {
	root := c.treeRoot(surface)
	set := c.flatten(root)
	if c.raiser != nil {
		c.raiser.Raise(set)
	}
}

// ExternalReorder is called when the compositor (or another party
// outside the engine) changes the relative order of tracked surfaces
// without going through Raise. The controller re-derives the affected
// tree's flattened order and re-issues it to the XWayland bridge so
// X11 clients observe a consistent stack.
func (c *Controller) ExternalReorder(reordered surfaceinfo.Surface) {
	if !c.tracked[reordered] {
		return
	}
	if c.bridge == nil {
		return
	}
	root := c.treeRoot(reordered)
	set := c.flatten(root)
	c.bridge.RestackHint(set)
}
