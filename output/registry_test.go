// SPDX-License-Identifier: Unlicense OR MIT

package output

import (
	"testing"

	"github.com/stretchr/testify/require"

	"corewm.dev/corewm/geometry"
)

type recordingObserver struct {
	events []string
}

func (r *recordingObserver) OutputCreated(o Output)  { r.events = append(r.events, "oc:"+o.ID) }
func (r *recordingObserver) OutputUpdated(o Output)  { r.events = append(r.events, "ou:"+o.ID) }
func (r *recordingObserver) OutputDeleted(id string) { r.events = append(r.events, "od:"+id) }
func (r *recordingObserver) ZoneCreated(z Zone)       { r.events = append(r.events, "zc:"+z.ID) }
func (r *recordingObserver) ZoneUpdated(z Zone)       { r.events = append(r.events, "zu:"+z.ID) }
func (r *recordingObserver) ZoneDeleted(id string)    { r.events = append(r.events, "zd:"+id) }

func TestApplyConfigurationSolo(t *testing.T) {
	reg := NewRegistry()
	obs := &recordingObserver{}
	reg.Subscribe(obs)

	reg.ApplyConfiguration([]Descriptor{
		{ID: "A", Rect: geometry.RectWH(0, 0, 1280, 720)},
	})

	require.Equal(t, []string{"oc:A", "zc:solo:A"}, obs.events)

	o, ok := reg.Output("A")
	require.True(t, ok)
	require.Equal(t, geometry.RectWH(0, 0, 1280, 720), o.Rect)
}

func TestApplyConfigurationGroupsByLogicalGroup(t *testing.T) {
	reg := NewRegistry()
	reg.ApplyConfiguration([]Descriptor{
		{ID: "O1", Rect: geometry.RectWH(30, 40, 1280, 720), LogicalGroup: 1, HasGroup: true},
		{ID: "O2", Rect: geometry.RectWH(1400, 70, 640, 480), LogicalGroup: 1, HasGroup: true},
	})

	z, ok := reg.ZoneFor("O1")
	require.True(t, ok)
	require.Equal(t, geometry.RectWH(30, 40, 2010, 720), z.Extent)

	z2, ok := reg.ZoneFor("O2")
	require.True(t, ok)
	require.Equal(t, z.ID, z2.ID)
}

func TestApplyConfigurationIdempotentNoEvents(t *testing.T) {
	reg := NewRegistry()
	descs := []Descriptor{
		{ID: "A", Rect: geometry.RectWH(0, 0, 1920, 1080)},
		{ID: "B", Rect: geometry.RectWH(1920, 0, 1920, 1080)},
	}
	reg.ApplyConfiguration(descs)

	obs := &recordingObserver{}
	reg.Subscribe(obs)
	reg.ApplyConfiguration(descs)

	require.Empty(t, obs.events)
}

func TestApplyConfigurationEmptyRetainsPrevious(t *testing.T) {
	reg := NewRegistry()
	reg.ApplyConfiguration([]Descriptor{{ID: "A", Rect: geometry.RectWH(0, 0, 640, 480)}})
	reg.ApplyConfiguration(nil)

	o, ok := reg.Output("A")
	require.True(t, ok)
	require.Equal(t, geometry.RectWH(0, 0, 640, 480), o.Rect)
}

func TestGlobalDisplayArea(t *testing.T) {
	reg := NewRegistry()
	reg.ApplyConfiguration([]Descriptor{
		{ID: "A", Rect: geometry.RectWH(0, 0, 640, 480)},
		{ID: "B", Rect: geometry.RectWH(640, 0, 640, 480)},
	})
	require.Equal(t, geometry.RectWH(0, 0, 1280, 480), reg.GlobalDisplayArea())
}

func TestApplyConfigurationUpdateFiresUpdateNotCreate(t *testing.T) {
	reg := NewRegistry()
	reg.ApplyConfiguration([]Descriptor{{ID: "A", Rect: geometry.RectWH(0, 0, 640, 480)}})

	obs := &recordingObserver{}
	reg.Subscribe(obs)
	reg.ApplyConfiguration([]Descriptor{{ID: "A", Rect: geometry.RectWH(0, 0, 800, 600)}})

	require.Equal(t, []string{"ou:A", "zu:solo:A"}, obs.events)
}
