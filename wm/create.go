// SPDX-License-Identifier: Unlicense OR MIT

package wm

import (
	"corewm.dev/corewm/geometry"
	"corewm.dev/corewm/placement"
	"corewm.dev/corewm/surfaceinfo"
	"corewm.dev/corewm/zone"
)

// CreateRequest mirrors spec.md §6's create request: type, position,
// size, parent, output-id, aux-rect, edge-attachment, placement
// gravities and hints, min/max/inc/aspect, state, depth layer,
// attached edges, exclusive rect, focus mode.
type CreateRequest struct {
	Session surfaceinfo.Session
	Type    surfaceinfo.Type

	Parent    surfaceinfo.Surface
	HasParent bool

	Size    geometry.Size
	HasSize bool

	Position    geometry.Point
	HasPosition bool

	OutputID    string
	HasOutputID bool

	State    surfaceinfo.State
	HasState bool

	AuxRect    geometry.Rectangle
	HasAuxRect bool

	EdgeAttachment    placement.EdgeAttachment
	HasEdgeAttachment bool

	AuxGravity, WindowGravity placement.Gravity
	HasGravity                bool
	AuxOffset                 geometry.Displacement
	Hints                     placement.Hints

	Constraints surfaceinfo.Constraints

	DepthLayer     surfaceinfo.DepthLayer
	LayerIsDefault bool

	AttachedEdges    surfaceinfo.Edges
	ExclusiveRect    geometry.Rectangle
	HasExclusiveRect bool

	// ZoneID names the zone State==Attached attaches to; required only
	// when HasState && State==StateAttached.
	ZoneID    string
	HasZoneID bool

	FocusMode surfaceinfo.FocusMode
}

// CreateSurface runs the Placement Engine's algorithm against req,
// asks scene to materialise the surface at the resulting frame, and
// inserts its record into the Surface Info Store. A placement-invariant
// violation (self-parenting, a satellite/gloss/tip with no parent, a
// normal/utility with one) is rejected with surfaceinfo.ErrInconsistentSpec
// and the scene surface that was already created is torn back down.
func (e *Engine) CreateSurface(req CreateRequest) (surfaceinfo.Surface, error) {
	placeReq := placement.Request{
		Size:              req.Size,
		HasSize:           req.HasSize,
		Position:          req.Position,
		HasPosition:       req.HasPosition,
		Parent:            req.Parent,
		HasParent:         req.HasParent,
		OutputID:          req.OutputID,
		HasOutputID:       req.HasOutputID,
		State:             req.State,
		HasState:          req.HasState,
		AuxRect:           req.AuxRect,
		HasAuxRect:        req.HasAuxRect,
		EdgeAttachment:    req.EdgeAttachment,
		HasEdgeAttachment: req.HasEdgeAttachment,
		AuxGravity:        req.AuxGravity,
		WindowGravity:     req.WindowGravity,
		HasGravity:        req.HasGravity,
		AuxOffset:         req.AuxOffset,
		Hints:             req.Hints,
		Type:              req.Type,
		Constraints:       req.Constraints,
	}
	if req.HasParent {
		if parentInfo, err := e.store.InfoFor(req.Parent); err == nil {
			placeReq.ParentRect = parentInfo.Rect()
		}
	}

	var def *placement.DefaultSurface
	if d, ok := e.sessionDefault[req.Session]; ok {
		if dInfo, err := e.store.InfoFor(d); err == nil {
			def = &placement.DefaultSurface{Rect: dInfo.Rect()}
		}
	}

	result := e.place.Place(placeReq, def)

	surface, err := e.scene.CreateSurface(req.Session, result.Rect)
	if err != nil {
		return nil, err
	}

	state := surfaceinfo.StateRestored
	if req.HasState {
		state = req.State
	}
	if result.HasForcedState {
		state = result.ForcedState
	}

	template := surfaceinfo.Info{
		Type:              req.Type,
		State:             state,
		ClientFacingState: state,
		RestoreRect:       result.Rect,
		TopLeft:           result.Rect.TopLeft,
		Size:              result.Rect.Size,
		Constraints:       req.Constraints,
		Parent:            req.Parent,
		DepthLayer:        req.DepthLayer,
		LayerIsDefault:    req.LayerIsDefault,
		AttachedEdges:     req.AttachedEdges,
		ExclusiveRect:     req.ExclusiveRect,
		HasExclusiveRect:  req.HasExclusiveRect,
		FocusMode:         req.FocusMode,
	}
	if req.HasOutputID {
		template.OutputID = req.OutputID
		template.HasOutputID = true
	}

	info, err := e.store.Emplace(surface, req.Session, template)
	if err != nil {
		e.scene.DestroySurface(surface)
		return nil, err
	}

	if !req.HasParent && req.Type.NeedsTitlebar() {
		e.sessionDefault[req.Session] = surface
	}

	e.stacking.Track(surface)

	if state == surfaceinfo.StateAttached && req.HasZoneID {
		e.zones.Attach(zone.Attachment{
			Surface:    surface,
			ZoneID:     req.ZoneID,
			Edges:      req.AttachedEdges,
			GlobalRect: exclusiveGlobalRect(info),
		})
	}

	if err := e.focus.OnSurfaceCreated(surface); err != nil {
		e.logger.Printf("wm: focus on create: %v", err)
	}

	return surface, nil
}

// exclusiveGlobalRect translates info's surface-local exclusive_rect
// (spec.md §3) into the global coordinates zone.Attachment.GlobalRect
// expects. A surface with no exclusive_rect set excludes its whole
// footprint, matching the original's default of exclusive_rect equal
// to the window's own bounds.
func exclusiveGlobalRect(info *surfaceinfo.Info) geometry.Rectangle {
	if !info.HasExclusiveRect {
		return info.Rect()
	}
	return info.ExclusiveRect.Translate(geometry.Displacement{DX: info.TopLeft.X, DY: info.TopLeft.Y})
}
