// SPDX-License-Identifier: Unlicense OR MIT

package statemachine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"corewm.dev/corewm/geometry"
	"corewm.dev/corewm/surfaceinfo"
)

type testSurface uint64

func (t testSurface) SurfaceID() uint64 { return uint64(t) }

type testSession uint64

func (t testSession) SessionID() uint64 { return uint64(t) }

func newStoreWithWindow(t *testing.T, rect geometry.Rectangle) (*surfaceinfo.Store, testSurface) {
	t.Helper()
	store := surfaceinfo.NewStore()
	win := testSurface(1)
	_, err := store.Emplace(win, testSession(1), surfaceinfo.Info{
		Type:        surfaceinfo.TypeNormal,
		State:       surfaceinfo.StateRestored,
		TopLeft:     rect.TopLeft,
		Size:        rect.Size,
		RestoreRect: rect,
	})
	require.NoError(t, err)
	return store, win
}

func TestMaximiseThenRestoreYieldsOriginalRect(t *testing.T) {
	original := geometry.RectWH(100, 150, 400, 300)
	store, win := newStoreWithWindow(t, original)
	m := New(store)

	output := geometry.RectWH(0, 0, 1920, 1080)
	_, _, err := m.SetState(win, surfaceinfo.StateMaximised, TransitionInput{OutputExtent: output, HasOutputExtent: true})
	require.NoError(t, err)

	rect, _, err := m.SetState(win, surfaceinfo.StateRestored, TransitionInput{})
	require.NoError(t, err)
	require.Equal(t, original, rect)

	info, _ := store.InfoFor(win)
	require.Equal(t, original, info.Rect())
}

func TestSetStateIdempotent(t *testing.T) {
	store, win := newStoreWithWindow(t, geometry.RectWH(0, 0, 100, 100))
	m := New(store)
	output := geometry.RectWH(0, 0, 1920, 1080)

	r1, _, err := m.SetState(win, surfaceinfo.StateMaximised, TransitionInput{OutputExtent: output, HasOutputExtent: true})
	require.NoError(t, err)
	r2, _, err := m.SetState(win, surfaceinfo.StateMaximised, TransitionInput{OutputExtent: output, HasOutputExtent: true})
	require.NoError(t, err)
	require.Equal(t, r1, r2)
}

func TestVertMaximisedKeepsXFullHeight(t *testing.T) {
	store, win := newStoreWithWindow(t, geometry.RectWH(100, 100, 300, 200))
	m := New(store)
	output := geometry.RectWH(0, 0, 1920, 1080)

	rect, showTitlebar, err := m.SetState(win, surfaceinfo.StateVertMaximised, TransitionInput{OutputExtent: output, HasOutputExtent: true})
	require.NoError(t, err)
	require.Equal(t, 100, rect.TopLeft.X)
	require.Equal(t, 1080, rect.Size.Height)
	require.True(t, showTitlebar)
}

func TestFullscreenSetsOutputIDMaximisedClearsIt(t *testing.T) {
	store, win := newStoreWithWindow(t, geometry.RectWH(0, 0, 100, 100))
	m := New(store)
	output := geometry.RectWH(0, 0, 1280, 720)

	_, _, err := m.SetState(win, surfaceinfo.StateFullscreen, TransitionInput{OutputExtent: output, HasOutputExtent: true, OutputID: "O1", HasOutputID: true})
	require.NoError(t, err)
	info, _ := store.InfoFor(win)
	require.True(t, info.HasOutputID)
	require.Equal(t, "O1", info.OutputID)

	_, _, err = m.SetState(win, surfaceinfo.StateMaximised, TransitionInput{OutputExtent: output, HasOutputExtent: true})
	require.NoError(t, err)
	info, _ = store.InfoFor(win)
	require.False(t, info.HasOutputID)
}

func TestAttachedRectSticksToNorthEdge(t *testing.T) {
	store, win := newStoreWithWindow(t, geometry.RectWH(0, 0, 1280, 32))
	info, _ := store.InfoFor(win)
	info.AttachedEdges = surfaceinfo.EdgeNorth
	m := New(store)

	zone := geometry.RectWH(0, 0, 1280, 720)
	rect, _, err := m.SetState(win, surfaceinfo.StateAttached, TransitionInput{ZoneExtent: zone, HasZoneExtent: true})
	require.NoError(t, err)
	require.Equal(t, geometry.RectWH(0, 0, 1280, 32), rect)
}

func TestHideAndRestoreForFullscreen(t *testing.T) {
	store := surfaceinfo.NewStore()
	panel := testSurface(1)
	_, err := store.Emplace(panel, testSession(1), surfaceinfo.Info{
		Type:          surfaceinfo.TypeUtility,
		State:         surfaceinfo.StateAttached,
		AttachedEdges: surfaceinfo.EdgeNorth,
		TopLeft:       geometry.Point{X: 0, Y: 0},
		Size:          geometry.Size{Width: 1280, Height: 32},
	})
	require.NoError(t, err)

	m := New(store)
	require.NoError(t, m.HideForFullscreen([]surfaceinfo.Surface{panel}))

	info, _ := store.InfoFor(panel)
	require.Equal(t, surfaceinfo.StateHidden, info.State)
	require.False(t, info.Visible())

	require.NoError(t, m.RestoreFromFullscreen([]surfaceinfo.Surface{panel}))
	info, _ = store.InfoFor(panel)
	require.Equal(t, surfaceinfo.StateAttached, info.State)
	require.True(t, info.Visible())
}

func TestMoveSubtreeMovesDescendants(t *testing.T) {
	store := surfaceinfo.NewStore()
	sess := testSession(1)
	parent := testSurface(1)
	child := testSurface(2)
	grandchild := testSurface(3)

	_, _ = store.Emplace(parent, sess, surfaceinfo.Info{Type: surfaceinfo.TypeNormal, TopLeft: geometry.Point{X: 0, Y: 0}})
	_, _ = store.Emplace(child, sess, surfaceinfo.Info{Type: surfaceinfo.TypeTip, Parent: parent, TopLeft: geometry.Point{X: 10, Y: 10}})
	_, _ = store.Emplace(grandchild, sess, surfaceinfo.Info{Type: surfaceinfo.TypeTip, Parent: child, TopLeft: geometry.Point{X: 20, Y: 20}})

	m := New(store)
	require.NoError(t, m.MoveSubtree(parent, geometry.Displacement{DX: 5, DY: 7}))

	pInfo, _ := store.InfoFor(parent)
	cInfo, _ := store.InfoFor(child)
	gInfo, _ := store.InfoFor(grandchild)
	require.Equal(t, geometry.Point{X: 5, Y: 7}, pInfo.TopLeft)
	require.Equal(t, geometry.Point{X: 15, Y: 17}, cInfo.TopLeft)
	require.Equal(t, geometry.Point{X: 25, Y: 27}, gInfo.TopLeft)
}
