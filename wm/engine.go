// SPDX-License-Identifier: Unlicense OR MIT

package wm

import (
	"fmt"
	"io"
	"log"

	"corewm.dev/corewm/dispatch"
	"corewm.dev/corewm/focus"
	"corewm.dev/corewm/geometry"
	"corewm.dev/corewm/gesture"
	"corewm.dev/corewm/input"
	"corewm.dev/corewm/output"
	"corewm.dev/corewm/placement"
	"corewm.dev/corewm/stacking"
	"corewm.dev/corewm/statemachine"
	"corewm.dev/corewm/surfaceinfo"
	"corewm.dev/corewm/zone"
)

// Engine is the single window-management object a host embeds: it
// owns every collaborator package and is the sole entry point for
// client requests and host-delivered events (spec.md §2, §9 "the
// engine is a single object parameterised by its collaborators").
// Every exported method runs on the caller's goroutine and assumes
// single-threaded access, matching spec.md §5's "one logical thread
// owns all engine state" — callers on other threads must route
// through Post.
type Engine struct {
	logger *log.Logger
	config Config

	store    *surfaceinfo.Store
	registry *output.Registry
	outputs  *outputAdapter
	zones    *zone.Engine
	place    *placement.Engine
	machine  *statemachine.Machine
	focus    *focus.Controller
	stacking *stacking.Controller
	gesture  *gesture.Engine
	dispatch *dispatch.Dispatcher
	executor *dispatch.Executor

	scene     Scene
	sink      InputSink
	clipboard ClipboardBridge

	sessionDefault map[surfaceinfo.Session]surfaceinfo.Surface
}

// New wires a complete Engine. bridge may be nil when no XWayland
// compatibility layer is present; logger may be nil to discard
// diagnostics.
func New(scene Scene, sink InputSink, clipboard ClipboardBridge, bridge stacking.XWaylandBridge, cfg Config, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	e := &Engine{
		logger:         logger,
		config:         cfg,
		store:          surfaceinfo.NewStore(),
		registry:       output.NewRegistry(),
		zones:          zone.NewEngine(),
		scene:          scene,
		sink:           sink,
		clipboard:      clipboard,
		sessionDefault: make(map[surfaceinfo.Session]surfaceinfo.Surface),
	}

	e.outputs = newOutputAdapter(e.registry)
	e.registry.Subscribe(e.zones)

	e.place = placement.New(e.outputs, cfg.TitleBarHeight)
	e.machine = statemachine.New(e.store)

	e.focus = focus.New(e.store)
	e.focus.Subscribe(e)

	e.stacking = stacking.New(e.store, scene, bridge)

	e.gesture = gesture.New(e.store, e.machine)
	e.gesture.SetDragModifier(cfg.PointerDragModifier)

	e.dispatch = dispatch.New(e.gesture, e.focus, e)

	executor, err := dispatch.NewExecutor()
	if err != nil {
		logger.Printf("wm: executor unavailable, posted work runs synchronously: %v", err)
	}
	e.executor = executor

	return e
}

// Post enqueues fn to run on the window-manager thread, the single
// entry point external producers (input device thread, XWayland
// worker, Wayland protocol thread) use per spec.md §5. If the
// eventfd-backed executor failed to construct, fn runs inline.
func (e *Engine) Post(fn func()) {
	if e.executor != nil {
		e.executor.Post(fn)
		return
	}
	fn()
}

// Drain runs every closure posted since the last Drain. The host calls
// this from the window-manager thread after its event loop wakes on
// the executor's file descriptor (Executor.FD).
func (e *Engine) Drain() {
	if e.executor != nil {
		e.executor.Drain()
	}
}

// Executor exposes the underlying executor for a host integrating it
// into an existing poll/epoll loop, or nil if construction failed.
func (e *Engine) Executor() *dispatch.Executor { return e.executor }

// Close releases the executor's eventfd.
func (e *Engine) Close() error {
	if e.executor != nil {
		return e.executor.Close()
	}
	return nil
}

// focus.Observer

func (e *Engine) TitlebarRepaint(old, active surfaceinfo.Surface, hasOld, hasActive bool) {
	if hasOld {
		e.scene.RepaintTitlebar(old)
	}
	if hasActive {
		e.scene.RepaintTitlebar(active)
	}
}

func (e *Engine) SceneFocus(active surfaceinfo.Surface) {
	e.scene.SetKeyboardFocus(active)
	if info, err := e.store.InfoFor(active); err == nil {
		if zoneID, ok := e.outputs.zoneIDContaining(info.Rect()); ok {
			e.outputs.setActiveZone(zoneID)
		}
	}
}

// Raise brings surface's whole raise-tree to the front. It serves both
// as the Focus Controller's post-focus raise and the client protocol's
// standalone "raise" request (spec.md §6), since the two share the
// same raise-tree semantics (spec.md §4.8).
func (e *Engine) Raise(surface surfaceinfo.Surface) {
	e.stacking.Raise(surface)
}

// dispatch.KeyActionHandler

// HandleAction carries out the built-in key bindings spec.md §4.10
// lists (alt+F11, alt+F4, ...) that need window-state knowledge the
// dispatcher itself doesn't have.
func (e *Engine) HandleAction(window surfaceinfo.Surface, hasWindow bool, action dispatch.Action) {
	if !hasWindow {
		return
	}
	switch action {
	case dispatch.ActionToggleMaximised:
		e.toggleState(window, surfaceinfo.StateMaximised)
	case dispatch.ActionToggleVertMaximised:
		e.toggleState(window, surfaceinfo.StateVertMaximised)
	case dispatch.ActionToggleHorizMaximised:
		e.toggleState(window, surfaceinfo.StateHorizMaximised)
	case dispatch.ActionCloseRequest:
		e.scene.RequestClose(window)
	case dispatch.ActionForceClose:
		e.DestroySurface(window)
	}
}

func (e *Engine) toggleState(surface surfaceinfo.Surface, state surfaceinfo.State) {
	info, err := e.store.InfoFor(surface)
	if err != nil {
		return
	}
	target := state
	if info.State == state {
		target = surfaceinfo.StateRestored
	}
	if err := e.SetState(surface, target); err != nil {
		e.logger.Printf("wm: toggle state: %v", err)
	}
}

// Input routing

// HandlePointer hit-tests ev against the scene and routes it through
// the Event Dispatcher, delivering it to sink when neither a gesture
// nor click-to-focus consumed it.
func (e *Engine) HandlePointer(ev input.PointerEvent) {
	window, hasWindow := e.scene.SurfaceAt(ev.Position)
	consumed := e.dispatch.HandlePointer(window, hasWindow, ev)
	if !consumed && hasWindow && e.sink != nil {
		e.sink.DeliverPointer(window, ev)
	}
}

// HandleTouch routes a touch event for window, as chosen by the caller,
// through the Event Dispatcher. Unlike HandlePointer it does no
// hit-testing and does not forward unconsumed events to sink.
func (e *Engine) HandleTouch(window surfaceinfo.Surface, hasWindow bool, ev input.TouchEvent) {
	e.dispatch.HandleTouch(window, hasWindow, ev)
}

// HandleKey routes a key event to the Event Dispatcher's built-in
// bindings, delivering it to sink when unbound.
func (e *Engine) HandleKey(window surfaceinfo.Surface, hasWindow bool, ev input.KeyEvent) {
	handled := e.dispatch.HandleKey(window, hasWindow, ev)
	if !handled && hasWindow && e.sink != nil {
		e.sink.DeliverKey(window, ev)
	}
}

// ApplyOutputConfiguration folds source's current configuration list
// into the Output Registry, fanning out create/update/delete to the
// Zone Engine and every other output.Observer.
func (e *Engine) ApplyOutputConfiguration(source OutputSource) {
	e.dispatch.HandleOutputConfigured(e.registry, source.Configurations())
}

// PostClipboardSelection forwards a clipboard offer to the bridge
// (spec.md §5: the clipboard bridge "synchronises on its own mutex;
// the engine only posts messages to it").
func (e *Engine) PostClipboardSelection(mimeTypes []string) {
	if e.clipboard != nil {
		e.clipboard.PostSelection(mimeTypes)
	}
}

// ExternalReorder forwards a compositor-driven restack (one that
// didn't go through Raise) to the Stacking Controller, which re-issues
// the equivalent stack command to the XWayland bridge for any tracked
// surface in the affected tree.
func (e *Engine) ExternalReorder(reordered surfaceinfo.Surface) {
	e.dispatch.HandleSceneOrder(e.stacking, reordered)
}

// transitionInputFor resolves the output/zone extents a state
// transition for surface needs, from whichever output or logical-group
// zone its current rectangle falls on.
func (e *Engine) transitionInputFor(surface surfaceinfo.Surface) statemachine.TransitionInput {
	info, err := e.store.InfoFor(surface)
	if err != nil {
		return statemachine.TransitionInput{}
	}
	var in statemachine.TransitionInput
	if extent, ok := e.outputs.OutputContaining(info.Rect()); ok {
		in.OutputExtent = extent
		in.HasOutputExtent = true
		in.ZoneExtent = extent
		in.HasZoneExtent = true
	}
	if out, ok := e.registry.OutputContaining(info.Rect()); ok {
		in.OutputID = out.ID
		in.HasOutputID = true
	}
	return in
}

// SetState transitions surface to newState (spec.md §6's "set-attribute
// (state, ...)"), additionally driving the fullscreen/attached
// occlusion supplement of spec.md §4.6: a window entering fullscreen
// hides attached panels sharing its output, and leaving it restores
// them.
func (e *Engine) SetState(surface surfaceinfo.Surface, newState surfaceinfo.State) error {
	before, err := e.store.InfoFor(surface)
	if err != nil {
		return nil
	}
	wasFullscreen := before.State == surfaceinfo.StateFullscreen
	prevOutputID := before.OutputID

	in := e.transitionInputFor(surface)
	if _, _, err := e.machine.SetState(surface, newState, in); err != nil {
		return err
	}

	after, err := e.store.InfoFor(surface)
	if err != nil {
		return nil
	}

	switch {
	case newState == surfaceinfo.StateFullscreen && !wasFullscreen && after.HasOutputID:
		e.hideAttachedOn(after.OutputID)
	case wasFullscreen && newState != surfaceinfo.StateFullscreen:
		e.restoreAttachedOn(prevOutputID)
	}

	if newState == surfaceinfo.StateMinimised || newState == surfaceinfo.StateHidden {
		// spec.md §4.7: "Hiding/minimising the active surface triggers
		// the same fallback" as destroying it.
		if err := e.focus.HandleHiddenOrMinimised(surface); err != nil {
			e.logger.Printf("wm: focus fallback on hide/minimise: %v", err)
		}
	}
	return nil
}

// SetType morphs surface to newType, rejected with
// ErrUnsupportedTransition when the change would violate the
// parent-presence invariants spec.md §3 attaches to type (e.g.
// morphing a dialog to a gloss with no parent).
func (e *Engine) SetType(surface surfaceinfo.Surface, newType surfaceinfo.Type) error {
	info, err := e.store.InfoFor(surface)
	if err != nil {
		return nil
	}
	if newType.RequiresParent() && info.Parent == nil {
		return e.unsupportedTransition(surface, fmt.Sprintf("type %v requires a parent", newType))
	}
	if newType.ForbidsParent() && info.Parent != nil {
		return e.unsupportedTransition(surface, fmt.Sprintf("type %v forbids a parent", newType))
	}
	info.Type = newType
	return nil
}

func (e *Engine) zoneIDForOutput(outputID string) (string, bool) {
	z, ok := e.registry.ZoneFor(outputID)
	if !ok {
		return "", false
	}
	return z.ID, true
}

func (e *Engine) hideAttachedOn(outputID string) {
	zoneID, ok := e.zoneIDForOutput(outputID)
	if !ok {
		return
	}
	if err := e.machine.HideForFullscreen(e.zones.AttachedSurfaces(zoneID)); err != nil {
		e.logger.Printf("wm: hide attached surfaces: %v", err)
	}
}

func (e *Engine) restoreAttachedOn(outputID string) {
	zoneID, ok := e.zoneIDForOutput(outputID)
	if !ok {
		return
	}
	if err := e.machine.RestoreFromFullscreen(e.zones.AttachedSurfaces(zoneID)); err != nil {
		e.logger.Printf("wm: restore attached surfaces: %v", err)
	}
}

// RequestMove begins a client-initiated move gesture (spec.md §6's
// "request-move"); a stale surface handle is a silent no-op.
func (e *Engine) RequestMove(surface surfaceinfo.Surface, pointer geometry.Point, mods input.Modifiers) error {
	if _, err := e.store.InfoFor(surface); err != nil {
		return nil
	}
	return e.gesture.RequestMove(surface, pointer, mods)
}

// RequestResize begins a client-initiated resize gesture naming the
// edge/corner to drag from (spec.md §6's "request-resize(edge)").
func (e *Engine) RequestResize(surface surfaceinfo.Surface, edge surfaceinfo.Edges, pointer geometry.Point, mods input.Modifiers) error {
	if _, err := e.store.InfoFor(surface); err != nil {
		return nil
	}
	return e.gesture.RequestResize(surface, edge, pointer, mods)
}

// DestroySurface tears surface down across every collaborator that
// tracks it, then forgets its record. Destroying an unknown surface is
// a silent no-op (spec.md §7).
func (e *Engine) DestroySurface(surface surfaceinfo.Surface) {
	if _, err := e.store.InfoFor(surface); err != nil {
		return
	}
	if err := e.focus.HandleDestroy(surface); err != nil {
		e.logger.Printf("wm: focus fallback on destroy: %v", err)
	}
	e.gesture.EndIfSurfaceGone(surface)
	e.stacking.Untrack(surface)
	e.zones.Detach(surface)
	for session, def := range e.sessionDefault {
		if def == surface {
			delete(e.sessionDefault, session)
		}
	}
	e.scene.DestroySurface(surface)
	if err := e.store.Forget(surface); err != nil {
		e.logger.Printf("wm: forget surface: %v", err)
	}
}

// DestroySession destroys every surface session owns (spec.md §3,
// "Session end destroys all its surfaces") and drops it from focus
// rotation.
func (e *Engine) DestroySession(session surfaceinfo.Session) {
	if si, ok := e.store.Session(session); ok {
		for _, surface := range append([]surfaceinfo.Surface(nil), si.FocusOrder...) {
			e.DestroySurface(surface)
		}
	}
	e.focus.OnSessionDestroyed(session)
	delete(e.sessionDefault, session)
}
