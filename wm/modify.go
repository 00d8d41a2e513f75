// SPDX-License-Identifier: Unlicense OR MIT

package wm

import (
	"corewm.dev/corewm/geometry"
	"corewm.dev/corewm/surfaceinfo"
	"corewm.dev/corewm/zone"
)

// ModifyRequest mirrors spec.md §6's "modify (any subset of the
// above)": each field is applied only when its Has* flag is set.
type ModifyRequest struct {
	Size    geometry.Size
	HasSize bool

	Position    geometry.Point
	HasPosition bool

	Constraints    surfaceinfo.Constraints
	HasConstraints bool

	DepthLayer    surfaceinfo.DepthLayer
	HasDepthLayer bool

	AttachedEdges    surfaceinfo.Edges
	HasAttachedEdges bool

	ExclusiveRect    geometry.Rectangle
	HasExclusiveRect bool

	FocusMode    surfaceinfo.FocusMode
	HasFocusMode bool
}

// ModifySurface applies the requested subset of fields to surface's
// record. An unknown surface is a silent no-op (spec.md §7).
func (e *Engine) ModifySurface(surface surfaceinfo.Surface, req ModifyRequest) error {
	info, err := e.store.InfoFor(surface)
	if err != nil {
		return nil
	}

	if req.HasSize || req.HasPosition {
		topLeft := info.TopLeft
		size := info.Size
		if req.HasPosition {
			topLeft = req.Position
		}
		if req.HasSize {
			size = req.Size
		}
		if err := e.machine.Resize(surface, topLeft, size); err != nil {
			return nil
		}
	}

	if req.HasConstraints {
		info.Constraints = req.Constraints
	}

	if req.HasDepthLayer {
		if err := e.store.SetDepthLayer(surface, req.DepthLayer, false); err != nil {
			return err
		}
	}

	if req.HasExclusiveRect {
		info.ExclusiveRect = req.ExclusiveRect
		info.HasExclusiveRect = true
	}

	if req.HasAttachedEdges {
		info.AttachedEdges = req.AttachedEdges
	}

	// Re-register with the Zone Engine whenever either half of an
	// attachment changed: the edges it's pinned to, or the exclusive
	// rectangle it reserves (spec.md §4.3, "When zones change or
	// exclusive rectangles change, the engine recomputes..."). This
	// runs whether or not the surface has transitioned to the attached
	// state yet: a client typically sets attached_edges/exclusive_rect
	// via modify before the state transition that makes them active.
	if req.HasAttachedEdges || req.HasExclusiveRect {
		if zoneID, ok := e.outputs.zoneIDContaining(info.Rect()); ok {
			e.zones.Attach(zone.Attachment{
				Surface:    surface,
				ZoneID:     zoneID,
				Edges:      info.AttachedEdges,
				GlobalRect: exclusiveGlobalRect(info),
			})
		}
	}

	if req.HasFocusMode {
		info.FocusMode = req.FocusMode
	}

	return nil
}
