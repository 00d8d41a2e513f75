// SPDX-License-Identifier: Unlicense OR MIT

package zone

import (
	"testing"

	"github.com/stretchr/testify/require"

	"corewm.dev/corewm/geometry"
	"corewm.dev/corewm/output"
	"corewm.dev/corewm/surfaceinfo"
)

type testSurface uint64

func (t testSurface) SurfaceID() uint64 { return uint64(t) }

type recordingObserver struct {
	events []Event
}

func (r *recordingObserver) ApplicationRectChanged(e Event) {
	r.events = append(r.events, e)
}

func TestNorthAttachmentShrinksApplicationTop(t *testing.T) {
	e := NewEngine()
	z := output.Zone{ID: "O1", Extent: geometry.RectWH(0, 0, 1280, 720)}
	e.ZoneCreated(z)

	panel := testSurface(1)
	e.Attach(Attachment{
		Surface:    panel,
		ZoneID:     "O1",
		Edges:      surfaceinfo.EdgeNorth,
		GlobalRect: geometry.RectWH(0, 0, 1280, 32),
	})

	app, ok := e.ApplicationRect("O1")
	require.True(t, ok)
	require.Equal(t, geometry.RectWH(0, 32, 1280, 688), app)
}

func TestEastAndWestBothContributeNothing(t *testing.T) {
	e := NewEngine()
	e.ZoneCreated(output.Zone{ID: "Z", Extent: geometry.RectWH(0, 0, 1000, 1000)})

	s := testSurface(1)
	e.Attach(Attachment{
		Surface:    s,
		ZoneID:     "Z",
		Edges:      surfaceinfo.EdgeWest | surfaceinfo.EdgeEast,
		GlobalRect: geometry.RectWH(100, 0, 50, 1000),
	})

	app, _ := e.ApplicationRect("Z")
	require.Equal(t, geometry.RectWH(0, 0, 1000, 1000), app)
}

func TestMultipleAttachmentsAppliedInOrder(t *testing.T) {
	e := NewEngine()
	e.ZoneCreated(output.Zone{ID: "Z", Extent: geometry.RectWH(0, 0, 640, 480)})

	top := testSurface(1)
	bottom := testSurface(2)
	e.Attach(Attachment{Surface: top, ZoneID: "Z", Edges: surfaceinfo.EdgeNorth, GlobalRect: geometry.RectWH(0, 0, 640, 20)})
	e.Attach(Attachment{Surface: bottom, ZoneID: "Z", Edges: surfaceinfo.EdgeSouth, GlobalRect: geometry.RectWH(0, 460, 640, 20)})

	app, _ := e.ApplicationRect("Z")
	require.Equal(t, geometry.RectWH(0, 20, 640, 440), app)
}

func TestDetachRestoresExtent(t *testing.T) {
	e := NewEngine()
	e.ZoneCreated(output.Zone{ID: "Z", Extent: geometry.RectWH(0, 0, 640, 480)})
	s := testSurface(1)
	e.Attach(Attachment{Surface: s, ZoneID: "Z", Edges: surfaceinfo.EdgeNorth, GlobalRect: geometry.RectWH(0, 0, 640, 20)})
	e.Detach(s)

	app, _ := e.ApplicationRect("Z")
	require.Equal(t, geometry.RectWH(0, 0, 640, 480), app)
}

func TestZoneDeletedDropsAttachments(t *testing.T) {
	e := NewEngine()
	e.ZoneCreated(output.Zone{ID: "Z", Extent: geometry.RectWH(0, 0, 640, 480)})
	s := testSurface(1)
	e.Attach(Attachment{Surface: s, ZoneID: "Z", Edges: surfaceinfo.EdgeNorth, GlobalRect: geometry.RectWH(0, 0, 640, 20)})

	e.ZoneDeleted("Z")

	_, ok := e.ApplicationRect("Z")
	require.False(t, ok)

	// Re-creating the zone should start with a clean application rect.
	e.ZoneCreated(output.Zone{ID: "Z", Extent: geometry.RectWH(0, 0, 640, 480)})
	app, _ := e.ApplicationRect("Z")
	require.Equal(t, geometry.RectWH(0, 0, 640, 480), app)
}

func TestObserverSeesCreateAttachAndDeleteEvents(t *testing.T) {
	e := NewEngine()
	obs := &recordingObserver{}
	e.Subscribe(obs)

	e.ZoneCreated(output.Zone{ID: "Z", Extent: geometry.RectWH(0, 0, 640, 480)})
	require.Len(t, obs.events, 1)
	require.Equal(t, EventCreated, obs.events[0].Kind)
	require.Equal(t, geometry.RectWH(0, 0, 640, 480), obs.events[0].App)

	s := testSurface(1)
	e.Attach(Attachment{Surface: s, ZoneID: "Z", Edges: surfaceinfo.EdgeNorth, GlobalRect: geometry.RectWH(0, 0, 640, 20)})
	require.Len(t, obs.events, 2)
	require.Equal(t, EventUpdated, obs.events[1].Kind)
	require.Equal(t, geometry.RectWH(0, 20, 640, 460), obs.events[1].App)

	e.ZoneDeleted("Z")
	require.Len(t, obs.events, 3)
	require.Equal(t, EventDeleted, obs.events[2].Kind)
}
