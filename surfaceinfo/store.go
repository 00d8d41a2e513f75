// SPDX-License-Identifier: Unlicense OR MIT

package surfaceinfo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	pool "github.com/jolestar/go-commons-pool"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ErrUnknownSurface is returned by lookups for a handle the Store has
// never seen, or has already forgotten. Per spec.md §7 ("Unknown
// surface/session") callers of the engine turn this into a silent
// no-op rather than a surfaced protocol error.
var ErrUnknownSurface = errors.New("surfaceinfo: unknown surface")

// ErrInconsistentSpec is returned by Emplace when the requested record
// violates one of the invariants in spec.md §3 (self-parenting, a
// satellite/gloss/tip with no parent, a normal/utility with one).
var ErrInconsistentSpec = errors.New("surfaceinfo: inconsistent surface spec")

const maxParentDepth = 64

// SessionInfo tracks per-client bookkeeping: how many surfaces it owns
// and the order in which its surfaces last held focus (most recent
// first), used by the Focus Controller's within-session rotation.
type SessionInfo struct {
	SurfaceCount int
	FocusOrder   []Surface
}

// Store is the single owner of Info records, keyed by surface handle.
// It satisfies spec.md §4.4 and §5: iterators remain valid across
// insert-only mutation, and Snapshot is the only way observers may see
// a record, always as a detached copy.
type Store struct {
	surfaces map[Surface]*Info
	sessions map[Session]*SessionInfo
	recycler *pool.ObjectPool
}

// NewStore constructs an empty Store with its own object pool, used
// to recycle *Info allocations between Forget and Emplace instead of
// letting the garbage collector reclaim them.
func NewStore() *Store {
	ctx := context.Background()
	factory := pool.NewPooledObjectFactorySimple(
		func(context.Context) (interface{}, error) {
			return &Info{}, nil
		},
	)
	return &Store{
		surfaces: make(map[Surface]*Info),
		sessions: make(map[Session]*SessionInfo),
		recycler: pool.NewObjectPoolWithDefaultConfig(ctx, factory),
	}
}

// InfoFor returns the record for surface, or ErrUnknownSurface.
func (s *Store) InfoFor(surface Surface) (*Info, error) {
	info, ok := s.surfaces[surface]
	if !ok {
		return nil, ErrUnknownSurface
	}
	return info, nil
}

// Snapshot returns a detached copy of surface's record, safe for an
// observer to retain past the current dispatch. Implements spec.md
// §5's "Surface Info Store: ... read by observers only via copy".
func (s *Store) Snapshot(surface Surface) (Info, error) {
	info, err := s.InfoFor(surface)
	if err != nil {
		return Info{}, err
	}
	var out Info
	if err := copier.Copy(&out, info); err != nil {
		return Info{}, fmt.Errorf("surfaceinfo: snapshot copy: %w", err)
	}
	// copier.Copy shallow-copies slice headers; Children must not
	// alias the live record's backing array.
	if len(info.Children) > 0 {
		out.Children = append([]Surface(nil), info.Children...)
	}
	return out, nil
}

// checkInvariants validates invariants 1-3 of spec.md §3 for a record
// about to be inserted for surface.
func (s *Store) checkInvariants(surface Surface, info *Info) error {
	if info.Parent == surface {
		return fmt.Errorf("%w: surface is its own parent", ErrInconsistentSpec)
	}
	if info.Type.RequiresParent() && info.Parent == nil {
		return fmt.Errorf("%w: type %v requires a parent", ErrInconsistentSpec, info.Type)
	}
	if info.Type.ForbidsParent() && info.Parent != nil {
		return fmt.Errorf("%w: type %v forbids a parent", ErrInconsistentSpec, info.Type)
	}
	depth := 0
	seen := map[Surface]bool{surface: true}
	for p := info.Parent; p != nil; {
		if seen[p] {
			return fmt.Errorf("%w: parent chain has a cycle", ErrInconsistentSpec)
		}
		seen[p] = true
		depth++
		if depth > maxParentDepth {
			return fmt.Errorf("%w: parent chain exceeds depth %d", ErrInconsistentSpec, maxParentDepth)
		}
		parentInfo, ok := s.surfaces[p]
		if !ok {
			break
		}
		p = parentInfo.Parent
	}
	return nil
}

// Emplace inserts a new record for surface, borrowing a recycled *Info
// from the pool when one is available. The caller supplies a fully
// populated template; Emplace validates it and wires parent/child
// back-references.
func (s *Store) Emplace(surface Surface, session Session, template Info) (*Info, error) {
	if err := s.checkInvariants(surface, &template); err != nil {
		return nil, err
	}
	ctx := context.Background()
	obj, err := s.recycler.BorrowObject(ctx)
	if err != nil {
		return nil, fmt.Errorf("surfaceinfo: borrow record: %w", err)
	}
	info := obj.(*Info)
	*info = template
	info.Session = session
	if info.LayerIsDefault && info.Parent != nil {
		if parentInfo, ok := s.surfaces[info.Parent]; ok {
			info.DepthLayer = parentInfo.DepthLayer
		}
	}
	s.surfaces[surface] = info

	if info.Parent != nil {
		if parentInfo, ok := s.surfaces[info.Parent]; ok {
			parentInfo.Children = append(parentInfo.Children, surface)
		}
	}

	si, ok := s.sessions[session]
	if !ok {
		si = &SessionInfo{}
		s.sessions[session] = si
	}
	si.SurfaceCount++
	si.FocusOrder = append(si.FocusOrder, surface)

	return info, nil
}

// SetDepthLayer sets surface's depth layer and, per the supplemented
// inheritance rule in SPEC_FULL.md §4, cascades to any descendant
// still sitting on the default layer.
func (s *Store) SetDepthLayer(surface Surface, layer DepthLayer, isDefault bool) error {
	info, err := s.InfoFor(surface)
	if err != nil {
		return err
	}
	info.DepthLayer = layer
	info.LayerIsDefault = isDefault
	for _, child := range info.Children {
		childInfo, ok := s.surfaces[child]
		if !ok || !childInfo.LayerIsDefault {
			continue
		}
		if err := s.SetDepthLayer(child, layer, true); err != nil {
			return err
		}
	}
	return nil
}

// Forget removes surface's record, unlinking it from its parent's
// child list and pruning it from focus history. Per spec.md §7 ("Lost
// child on unlink"), a parent whose child list doesn't contain surface
// (already unlinked, or the parent is itself unknown) is not an error:
// Forget reports nothing for it and simply continues.
func (s *Store) Forget(surface Surface) error {
	info, ok := s.surfaces[surface]
	if !ok {
		return ErrUnknownSurface
	}
	delete(s.surfaces, surface)

	if info.Parent != nil {
		if parentInfo, ok := s.surfaces[info.Parent]; ok {
			parentInfo.Children = removeSurface(parentInfo.Children, surface)
		}
	}
	for _, child := range info.Children {
		if childInfo, ok := s.surfaces[child]; ok {
			childInfo.Parent = nil
		}
	}

	if si, ok := s.sessions[info.Session]; ok {
		si.SurfaceCount--
		si.FocusOrder = removeSurface(si.FocusOrder, surface)
		if si.SurfaceCount <= 0 {
			delete(s.sessions, info.Session)
		}
	}

	*info = Info{}
	_ = s.recycler.ReturnObject(context.Background(), info)
	return nil
}

// DestroySession forgets every surface owned by session, as spec.md
// §3's "Session end destroys all its surfaces" requires.
func (s *Store) DestroySession(session Session) {
	si, ok := s.sessions[session]
	if !ok {
		return
	}
	victims := append([]Surface(nil), si.FocusOrder...)
	for _, surface := range victims {
		_ = s.Forget(surface)
	}
	delete(s.sessions, session)
}

// SessionInfo returns the bookkeeping record for session, if known.
func (s *Store) Session(session Session) (*SessionInfo, bool) {
	si, ok := s.sessions[session]
	return si, ok
}

// Sessions returns every session currently holding at least one
// surface. The order is stable across calls (sorted by session id) so
// callers building a rotation order from it don't observe Go's
// randomised map iteration.
func (s *Store) Sessions() []Session {
	out := maps.Keys(s.sessions)
	slices.SortFunc(out, func(a, b Session) int {
		switch {
		case a.SessionID() < b.SessionID():
			return -1
		case a.SessionID() > b.SessionID():
			return 1
		default:
			return 0
		}
	})
	return out
}

// PromoteFocus moves surface to the front of session's focus history,
// the most-recently-focused-first order the Focus Controller's
// destroy/hide fallback and alt+` rotation consult.
func (s *Store) PromoteFocus(session Session, surface Surface) {
	si, ok := s.sessions[session]
	if !ok {
		return
	}
	si.FocusOrder = removeSurface(si.FocusOrder, surface)
	si.FocusOrder = append([]Surface{surface}, si.FocusOrder...)
}

// Surfaces returns every known surface handle in map iteration order,
// which is not stable across calls; callers that need a stable order
// should consult a session's FocusOrder or the Stacking Controller
// instead.
func (s *Store) Surfaces() []Surface {
	out := make([]Surface, 0, len(s.surfaces))
	for surface := range s.surfaces {
		out = append(out, surface)
	}
	return out
}

func removeSurface(list []Surface, target Surface) []Surface {
	for i, s := range list {
		if s == target {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
