// SPDX-License-Identifier: Unlicense OR MIT

// Package focus implements the active-surface selection policy of
// spec.md §4.7: type-based focusability, grab/disable modes, and the
// fallback chain run on destroy or hide, plus the alt+Tab /
// alt+` rotation supplemented from original_source/ (application
// selector).
package focus

import (
	"golang.org/x/exp/slices"

	"corewm.dev/corewm/surfaceinfo"
)

// Observer receives focus-change notifications in the fixed order
// spec.md §4.7 requires: titlebar repaint, then scene-focus update,
// then raise.
type Observer interface {
	TitlebarRepaint(old, active surfaceinfo.Surface, hasOld, hasActive bool)
	SceneFocus(active surfaceinfo.Surface)
	Raise(active surfaceinfo.Surface)
}

// Controller owns the active surface and focus history.
type Controller struct {
	store     *surfaceinfo.Store
	observers []Observer

	active    surfaceinfo.Surface
	hasActive bool

	sessionOrder []surfaceinfo.Session
}

// New constructs a Controller bound to store.
func New(store *surfaceinfo.Store) *Controller {
	return &Controller{store: store}
}

// Subscribe registers an observer for future focus changes.
func (c *Controller) Subscribe(o Observer) {
	c.observers = append(c.observers, o)
}

// Active returns the current active surface, if any.
func (c *Controller) Active() (surfaceinfo.Surface, bool) {
	return c.active, c.hasActive
}

// resolveFocusTarget walks spec.md §4.7's type rule: gloss, tip and
// decoration surfaces delegate focus to their parent; other types are
// focusable unless disabled.
func (c *Controller) resolveFocusTarget(surface surfaceinfo.Surface) (surfaceinfo.Surface, bool) {
	info, err := c.store.InfoFor(surface)
	if err != nil {
		return nil, false
	}
	switch info.Type {
	case surfaceinfo.TypeGloss, surfaceinfo.TypeTip, surfaceinfo.TypeDecoration:
		if info.Parent == nil {
			return nil, false
		}
		return c.resolveFocusTarget(info.Parent)
	}
	if info.FocusMode == surfaceinfo.FocusDisabled {
		return nil, false
	}
	return surface, true
}

// activeGrabber returns the current active surface if it is in
// grabbing mode.
func (c *Controller) activeGrabber() (surfaceinfo.Surface, bool) {
	if !c.hasActive {
		return nil, false
	}
	info, err := c.store.InfoFor(c.active)
	if err != nil || info.FocusMode != surfaceinfo.FocusGrabbing {
		return nil, false
	}
	return c.active, true
}

// isDescendantOf reports whether surface is grabber or one of its
// descendants.
func (c *Controller) isDescendantOf(surface, grabber surfaceinfo.Surface) bool {
	for s := surface; s != nil; {
		if s == grabber {
			return true
		}
		info, err := c.store.InfoFor(s)
		if err != nil {
			return false
		}
		s = info.Parent
	}
	return false
}

// Focus attempts to make target the active surface. A grabbing
// surface cannot lose focus to anything but another grabbing surface
// or its own children (spec.md §4.7); attempts to focus elsewhere
// select the grabbing surface instead.
func (c *Controller) Focus(target surfaceinfo.Surface) error {
	resolved, ok := c.resolveFocusTarget(target)
	if !ok {
		return nil
	}
	if grabber, grabbing := c.activeGrabber(); grabbing && resolved != grabber {
		targetInfo, err := c.store.InfoFor(resolved)
		isGrabber := err == nil && targetInfo.FocusMode == surfaceinfo.FocusGrabbing
		if !isGrabber && !c.isDescendantOf(resolved, grabber) {
			resolved = grabber
		}
	}
	c.setActive(resolved)
	return nil
}

func (c *Controller) setActive(surface surfaceinfo.Surface) {
	old, hasOld := c.active, c.hasActive
	if hasOld && old == surface {
		return
	}
	c.active = surface
	c.hasActive = true

	if info, err := c.store.InfoFor(surface); err == nil {
		c.store.PromoteFocus(info.Session, surface)
		c.noteSession(info.Session)
	}

	for _, obs := range c.observers {
		obs.TitlebarRepaint(old, surface, hasOld, true)
	}
	for _, obs := range c.observers {
		obs.SceneFocus(surface)
	}
	for _, obs := range c.observers {
		obs.Raise(surface)
	}
}

func (c *Controller) clearActive() {
	c.active = nil
	c.hasActive = false
}

// OnSurfaceCreated makes a newly created focusable surface active,
// unless a grabbing surface currently holds focus.
func (c *Controller) OnSurfaceCreated(surface surfaceinfo.Surface) error {
	if info, err := c.store.InfoFor(surface); err == nil {
		c.noteSession(info.Session)
	}
	if _, grabbing := c.activeGrabber(); grabbing {
		return nil
	}
	return c.Focus(surface)
}

// HandleDestroy runs the fallback chain of spec.md §4.7 when the
// active surface is destroyed. It must be called before the Surface
// Info Store forgets surface, since it needs its parent and session.
func (c *Controller) HandleDestroy(surface surfaceinfo.Surface) error {
	if !c.hasActive || c.active != surface {
		return nil
	}
	return c.fallbackFrom(surface)
}

// HandleHiddenOrMinimised runs the same fallback chain when the active
// surface is hidden or minimised (spec.md §4.7).
func (c *Controller) HandleHiddenOrMinimised(surface surfaceinfo.Surface) error {
	if !c.hasActive || c.active != surface {
		return nil
	}
	return c.fallbackFrom(surface)
}

func (c *Controller) fallbackFrom(surface surfaceinfo.Surface) error {
	info, err := c.store.InfoFor(surface)
	if err != nil {
		c.clearActive()
		return nil
	}

	if info.Parent != nil {
		if resolved, ok := c.resolveFocusTarget(info.Parent); ok {
			c.setActive(resolved)
			return nil
		}
	}

	if si, ok := c.store.Session(info.Session); ok {
		for _, candidate := range si.FocusOrder {
			if candidate == surface {
				continue
			}
			if resolved, ok := c.resolveFocusTarget(candidate); ok {
				c.setActive(resolved)
				return nil
			}
		}
	}

	for _, sess := range c.sessionOrder {
		if sess == info.Session {
			continue
		}
		si, ok := c.store.Session(sess)
		if !ok || len(si.FocusOrder) == 0 {
			continue
		}
		if resolved, ok := c.resolveFocusTarget(si.FocusOrder[0]); ok {
			c.setActive(resolved)
			return nil
		}
	}

	c.clearActive()
	return nil
}

func (c *Controller) noteSession(session surfaceinfo.Session) {
	if slices.Contains(c.sessionOrder, session) {
		return
	}
	c.sessionOrder = append(c.sessionOrder, session)
}

// OnSessionDestroyed drops session from the rotation order.
func (c *Controller) OnSessionDestroyed(session surfaceinfo.Session) {
	if i := slices.Index(c.sessionOrder, session); i >= 0 {
		c.sessionOrder = slices.Delete(c.sessionOrder, i, i+1)
	}
}

// RotateSessions implements alt+Tab / alt+shift+Tab: rotate session
// focus forward or backward, selecting each session's most recently
// focused surface (the application-selector behaviour supplemented
// from original_source/'s application_selector.cpp).
func (c *Controller) RotateSessions(forward bool) error {
	if len(c.sessionOrder) == 0 {
		return nil
	}
	start := 0
	if c.hasActive {
		if info, err := c.store.InfoFor(c.active); err == nil {
			if i := slices.Index(c.sessionOrder, info.Session); i >= 0 {
				start = i
			}
		}
	}
	n := len(c.sessionOrder)
	for step := 1; step <= n; step++ {
		var idx int
		if forward {
			idx = (start + step) % n
		} else {
			idx = ((start-step)%n + n) % n
		}
		sess := c.sessionOrder[idx]
		si, ok := c.store.Session(sess)
		if !ok || len(si.FocusOrder) == 0 {
			continue
		}
		for _, candidate := range si.FocusOrder {
			if resolved, ok := c.resolveFocusTarget(candidate); ok {
				c.setActive(resolved)
				return nil
			}
		}
	}
	return nil
}

// RotateWithinSession implements alt+` / alt+shift+`: rotate among the
// current session's own surfaces.
func (c *Controller) RotateWithinSession(forward bool) error {
	if !c.hasActive {
		return nil
	}
	info, err := c.store.InfoFor(c.active)
	if err != nil {
		return nil
	}
	si, ok := c.store.Session(info.Session)
	if !ok || len(si.FocusOrder) < 2 {
		return nil
	}
	n := len(si.FocusOrder)
	start := 0
	if i := slices.Index(si.FocusOrder, c.active); i >= 0 {
		start = i
	}
	for step := 1; step <= n; step++ {
		var idx int
		if forward {
			idx = (start + step) % n
		} else {
			idx = ((start-step)%n + n) % n
		}
		if resolved, ok := c.resolveFocusTarget(si.FocusOrder[idx]); ok {
			c.setActive(resolved)
			return nil
		}
	}
	return nil
}
