// SPDX-License-Identifier: Unlicense OR MIT

package wm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"corewm.dev/corewm/dispatch"
	"corewm.dev/corewm/geometry"
	"corewm.dev/corewm/output"
	"corewm.dev/corewm/surfaceinfo"
)

type fakeSurface uint64

func (f fakeSurface) SurfaceID() uint64 { return uint64(f) }

type fakeSession uint64

func (f fakeSession) SessionID() uint64 { return uint64(f) }

type fakeScene struct {
	nextID        uint64
	live          map[surfaceinfo.Surface]bool
	raised        [][]surfaceinfo.Surface
	keyboardFocus surfaceinfo.Surface
	hasFocus      bool
	repaints      []surfaceinfo.Surface
	closeRequests []surfaceinfo.Surface
	destroyed     []surfaceinfo.Surface
}

func newFakeScene() *fakeScene {
	return &fakeScene{live: make(map[surfaceinfo.Surface]bool)}
}

func (s *fakeScene) CreateSurface(surfaceinfo.Session, geometry.Rectangle) (surfaceinfo.Surface, error) {
	s.nextID++
	surf := fakeSurface(s.nextID)
	s.live[surf] = true
	return surf, nil
}

func (s *fakeScene) DestroySurface(surface surfaceinfo.Surface) {
	delete(s.live, surface)
	s.destroyed = append(s.destroyed, surface)
}

func (s *fakeScene) SurfaceAt(geometry.Point) (surfaceinfo.Surface, bool) { return nil, false }

func (s *fakeScene) Raise(set []surfaceinfo.Surface) {
	s.raised = append(s.raised, set)
}

func (s *fakeScene) SetKeyboardFocus(surface surfaceinfo.Surface) {
	s.keyboardFocus = surface
	s.hasFocus = true
}

func (s *fakeScene) RepaintTitlebar(surface surfaceinfo.Surface) {
	s.repaints = append(s.repaints, surface)
}

func (s *fakeScene) RequestClose(surface surfaceinfo.Surface) {
	s.closeRequests = append(s.closeRequests, surface)
}

type fakeOutputSource struct{ descs []output.Descriptor }

func (f fakeOutputSource) Configurations() []output.Descriptor { return f.descs }

func newFixture(t *testing.T) (*Engine, *fakeScene) {
	t.Helper()
	scene := newFakeScene()
	e := New(scene, nil, nil, nil, DefaultConfig(), nil)
	t.Cleanup(func() { _ = e.Close() })
	e.ApplyOutputConfiguration(fakeOutputSource{descs: []output.Descriptor{
		{ID: "O1", Rect: geometry.RectWH(0, 0, 1280, 720)},
		{ID: "O2", Rect: geometry.RectWH(1280, 0, 960, 720)},
	}})
	return e, scene
}

func TestCreateSurfaceFocusesAndRaisesIt(t *testing.T) {
	e, scene := newFixture(t)
	session := fakeSession(1)

	surface, err := e.CreateSurface(CreateRequest{
		Session: session,
		Type:    surfaceinfo.TypeNormal,
		Size:    geometry.Size{Width: 200, Height: 150},
		HasSize: true,
	})
	require.NoError(t, err)

	active, ok := e.focus.Active()
	require.True(t, ok)
	require.Equal(t, surface, active)
	require.True(t, scene.hasFocus)
	require.Equal(t, surface, scene.keyboardFocus)
	require.NotEmpty(t, scene.raised)
	require.Equal(t, []surfaceinfo.Surface{surface}, scene.raised[len(scene.raised)-1])
}

func TestCreateSurfaceRejectsInconsistentSpec(t *testing.T) {
	e, _ := newFixture(t)
	session := fakeSession(1)

	_, err := e.CreateSurface(CreateRequest{
		Session: session,
		Type:    surfaceinfo.TypeSatellite,
		HasSize: false,
	})
	require.ErrorIs(t, err, surfaceinfo.ErrInconsistentSpec)
}

func TestSetStateMaximiseFillsLogicalGroupZone(t *testing.T) {
	scene := newFakeScene()
	e := New(scene, nil, nil, nil, DefaultConfig(), nil)
	t.Cleanup(func() { _ = e.Close() })

	grouped := 1
	e.ApplyOutputConfiguration(fakeOutputSource{descs: []output.Descriptor{
		{ID: "O1", Rect: geometry.RectWH(30, 40, 1280, 720), LogicalGroup: grouped, HasGroup: true},
		{ID: "O2", Rect: geometry.RectWH(1400, 70, 640, 480), LogicalGroup: grouped, HasGroup: true},
	}})

	session := fakeSession(1)
	surface, err := e.CreateSurface(CreateRequest{
		Session: session,
		Type:    surfaceinfo.TypeNormal,
		Size:    geometry.Size{Width: 300, Height: 200},
		HasSize: true,
	})
	require.NoError(t, err)

	require.NoError(t, e.SetState(surface, surfaceinfo.StateMaximised))

	info, err := e.store.InfoFor(surface)
	require.NoError(t, err)
	require.Equal(t, geometry.RectWH(30, 40, 2010, 720), info.Rect())
}

func TestFullscreenHidesAttachedPanelAndRestoreUndoesIt(t *testing.T) {
	e, _ := newFixture(t)
	session := fakeSession(1)

	panel, err := e.CreateSurface(CreateRequest{
		Session: session,
		Type:    surfaceinfo.TypeNormal,
		Size:    geometry.Size{Width: 1280, Height: 32},
		HasSize: true,
	})
	require.NoError(t, err)
	require.NoError(t, e.ModifySurface(panel, ModifyRequest{
		Position:         geometry.Point{X: 0, Y: 0},
		HasPosition:      true,
		AttachedEdges:    surfaceinfo.EdgeNorth,
		HasAttachedEdges: true,
	}))
	require.NoError(t, e.SetState(panel, surfaceinfo.StateAttached))

	app, err := e.CreateSurface(CreateRequest{
		Session: session,
		Type:    surfaceinfo.TypeNormal,
		Size:    geometry.Size{Width: 640, Height: 480},
		HasSize: true,
	})
	require.NoError(t, err)
	require.NoError(t, e.ModifySurface(app, ModifyRequest{
		Position:    geometry.Point{X: 100, Y: 100},
		HasPosition: true,
	}))

	require.NoError(t, e.SetState(app, surfaceinfo.StateFullscreen))

	panelInfo, err := e.store.InfoFor(panel)
	require.NoError(t, err)
	require.Equal(t, surfaceinfo.StateHidden, panelInfo.State)
	require.True(t, panelInfo.HiddenByFullscreen)

	require.NoError(t, e.SetState(app, surfaceinfo.StateRestored))

	panelInfo, err = e.store.InfoFor(panel)
	require.NoError(t, err)
	require.Equal(t, surfaceinfo.StateAttached, panelInfo.State)
	require.False(t, panelInfo.HiddenByFullscreen)
}

func TestDestroySurfaceTearsDownAcrossCollaborators(t *testing.T) {
	e, scene := newFixture(t)
	session := fakeSession(1)

	surface, err := e.CreateSurface(CreateRequest{
		Session: session,
		Type:    surfaceinfo.TypeNormal,
		Size:    geometry.Size{Width: 200, Height: 150},
		HasSize: true,
	})
	require.NoError(t, err)

	e.DestroySurface(surface)

	_, err = e.store.InfoFor(surface)
	require.ErrorIs(t, err, surfaceinfo.ErrUnknownSurface)
	require.Contains(t, scene.destroyed, surface)
	_, ok := e.focus.Active()
	require.False(t, ok)
}

func TestDestroySurfaceUnknownHandleIsNoop(t *testing.T) {
	e, _ := newFixture(t)
	require.NotPanics(t, func() { e.DestroySurface(fakeSurface(999)) })
}

func TestHandleActionTogglesMaximisedState(t *testing.T) {
	e, scene := newFixture(t)
	session := fakeSession(1)
	surface, err := e.CreateSurface(CreateRequest{
		Session: session,
		Type:    surfaceinfo.TypeNormal,
		Size:    geometry.Size{Width: 200, Height: 150},
		HasSize: true,
	})
	require.NoError(t, err)

	e.HandleAction(surface, true, dispatch.ActionToggleMaximised)
	info, err := e.store.InfoFor(surface)
	require.NoError(t, err)
	require.Equal(t, surfaceinfo.StateMaximised, info.State)

	e.HandleAction(surface, true, dispatch.ActionToggleMaximised)
	info, err = e.store.InfoFor(surface)
	require.NoError(t, err)
	require.Equal(t, surfaceinfo.StateRestored, info.State)

	require.Empty(t, scene.closeRequests)
}

func TestSetTypeRejectsUnsupportedTransition(t *testing.T) {
	e, _ := newFixture(t)
	session := fakeSession(1)
	surface, err := e.CreateSurface(CreateRequest{
		Session: session,
		Type:    surfaceinfo.TypeDialog,
		Size:    geometry.Size{Width: 200, Height: 150},
		HasSize: true,
	})
	require.NoError(t, err)

	err = e.SetType(surface, surfaceinfo.TypeGloss)
	require.ErrorIs(t, err, ErrUnsupportedTransition)
}
