// SPDX-License-Identifier: Unlicense OR MIT

package surfaceinfo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type testSurface uint64

func (t testSurface) SurfaceID() uint64 { return uint64(t) }

type testSession uint64

func (t testSession) SessionID() uint64 { return uint64(t) }

func TestEmplaceAndInfoFor(t *testing.T) {
	s := NewStore()
	win := testSurface(1)
	sess := testSession(1)

	info, err := s.Emplace(win, sess, Info{Type: TypeNormal})
	require.NoError(t, err)
	require.Equal(t, TypeNormal, info.Type)

	got, err := s.InfoFor(win)
	require.NoError(t, err)
	require.Same(t, info, got)

	si, ok := s.Session(sess)
	require.True(t, ok)
	require.Equal(t, 1, si.SurfaceCount)
}

func TestEmplaceRejectsSelfParent(t *testing.T) {
	s := NewStore()
	win := testSurface(1)
	_, err := s.Emplace(win, testSession(1), Info{Type: TypeNormal, Parent: win})
	require.ErrorIs(t, err, ErrInconsistentSpec)
}

func TestEmplaceRejectsMissingParentForSatellite(t *testing.T) {
	s := NewStore()
	win := testSurface(1)
	_, err := s.Emplace(win, testSession(1), Info{Type: TypeSatellite})
	require.ErrorIs(t, err, ErrInconsistentSpec)
}

func TestEmplaceRejectsParentOnNormal(t *testing.T) {
	s := NewStore()
	parent := testSurface(1)
	child := testSurface(2)
	sess := testSession(1)
	_, err := s.Emplace(parent, sess, Info{Type: TypeNormal})
	require.NoError(t, err)
	_, err = s.Emplace(child, sess, Info{Type: TypeNormal, Parent: parent})
	require.ErrorIs(t, err, ErrInconsistentSpec)
}

func TestEmplaceLinksChildToParent(t *testing.T) {
	s := NewStore()
	sess := testSession(1)
	parent := testSurface(1)
	child := testSurface(2)

	_, err := s.Emplace(parent, sess, Info{Type: TypeNormal})
	require.NoError(t, err)
	_, err = s.Emplace(child, sess, Info{Type: TypeTip, Parent: parent})
	require.NoError(t, err)

	parentInfo, _ := s.InfoFor(parent)
	require.Equal(t, []Surface{child}, parentInfo.Children)
}

func TestChildInheritsDefaultDepthLayer(t *testing.T) {
	s := NewStore()
	sess := testSession(1)
	parent := testSurface(1)
	child := testSurface(2)

	_, err := s.Emplace(parent, sess, Info{Type: TypeNormal, DepthLayer: LayerAlwaysOnTop, LayerIsDefault: false})
	require.NoError(t, err)
	_, err = s.Emplace(child, sess, Info{Type: TypeTip, Parent: parent, LayerIsDefault: true})
	require.NoError(t, err)

	childInfo, _ := s.InfoFor(child)
	require.Equal(t, LayerAlwaysOnTop, childInfo.DepthLayer)
}

func TestSetDepthLayerCascadesToDefaultChildren(t *testing.T) {
	s := NewStore()
	sess := testSession(1)
	parent := testSurface(1)
	child := testSurface(2)
	explicitChild := testSurface(3)

	_, _ = s.Emplace(parent, sess, Info{Type: TypeNormal})
	_, _ = s.Emplace(child, sess, Info{Type: TypeTip, Parent: parent, LayerIsDefault: true})
	_, _ = s.Emplace(explicitChild, sess, Info{Type: TypeTip, Parent: parent, DepthLayer: LayerOverlay, LayerIsDefault: false})

	require.NoError(t, s.SetDepthLayer(parent, LayerAbove, false))

	childInfo, _ := s.InfoFor(child)
	require.Equal(t, LayerAbove, childInfo.DepthLayer)

	explicitInfo, _ := s.InfoFor(explicitChild)
	require.Equal(t, LayerOverlay, explicitInfo.DepthLayer)
}

func TestForgetUnlinksChildrenAndSession(t *testing.T) {
	s := NewStore()
	sess := testSession(1)
	parent := testSurface(1)
	child := testSurface(2)

	_, _ = s.Emplace(parent, sess, Info{Type: TypeNormal})
	_, _ = s.Emplace(child, sess, Info{Type: TypeTip, Parent: parent})

	require.NoError(t, s.Forget(parent))

	_, err := s.InfoFor(parent)
	require.ErrorIs(t, err, ErrUnknownSurface)

	childInfo, err := s.InfoFor(child)
	require.NoError(t, err)
	require.Nil(t, childInfo.Parent)
}

func TestDestroySessionRemovesAllSurfaces(t *testing.T) {
	s := NewStore()
	sess := testSession(1)
	a := testSurface(1)
	b := testSurface(2)
	_, _ = s.Emplace(a, sess, Info{Type: TypeNormal})
	_, _ = s.Emplace(b, sess, Info{Type: TypeNormal})

	s.DestroySession(sess)

	_, err := s.InfoFor(a)
	require.ErrorIs(t, err, ErrUnknownSurface)
	_, err = s.InfoFor(b)
	require.ErrorIs(t, err, ErrUnknownSurface)
	_, ok := s.Session(sess)
	require.False(t, ok)
}

func TestSnapshotIsDetachedCopy(t *testing.T) {
	s := NewStore()
	sess := testSession(1)
	parent := testSurface(1)
	child := testSurface(2)
	_, _ = s.Emplace(parent, sess, Info{Type: TypeNormal})
	_, _ = s.Emplace(child, sess, Info{Type: TypeTip, Parent: parent})

	snap, err := s.Snapshot(parent)
	require.NoError(t, err)
	require.Equal(t, []Surface{child}, snap.Children)

	// Mutating the snapshot's slice must not affect the live record.
	snap.Children[0] = nil
	live, _ := s.InfoFor(parent)
	require.Equal(t, []Surface{child}, live.Children)
}
