package portal

import (
	"testing"

	"portal-engine/level"
	"portal-engine/math"
)

func TestQueue(t *testing.T) {
	var q Queue
	a := newFakePortal("a", 1, nil)
	b := newFakePortal("b", 1, nil)
	c := newFakePortal("c", 1, nil)

	q.Push(nil)
	if q.Len() != 0 {
		t.Errorf("Push(nil): expected empty queue, got %d", q.Len())
	}

	q.Push(a)
	q.PushBoundary()
	q.Push(b)
	q.Push(c)

	if e := q.Delete(2); e.Portal != b {
		t.Errorf("Delete(2): expected b, got %v", e.Portal)
	}
	if !q.At(1).Boundary || q.At(2).Portal != c {
		t.Error("Delete: expected order to be kept")
	}

	e, ok := q.Pop()
	if !ok || e.Portal != c {
		t.Errorf("Pop: expected c, got %v", e.Portal)
	}
	q.DestroyAll()
	if q.Len() != 0 || a.destroyed != 1 || c.destroyed != 0 {
		t.Errorf("DestroyAll: expected a destroyed and queue empty, got len %d, a %d, c %d", q.Len(), a.destroyed, c.destroyed)
	}
	if _, ok := q.Pop(); ok {
		t.Error("Pop on empty queue: expected false")
	}
}

func TestSectionSet(t *testing.T) {
	s := NewSectionSet(70)
	s.Set(0)
	s.Set(65)
	s.Set(128)
	s.Set(-1)

	if !s.Test(0) || !s.Test(65) || s.Test(1) {
		t.Error("SectionSet: unexpected membership")
	}
	if s.Test(128) || s.Test(-1) {
		t.Error("SectionSet: out of range indices must be ignored")
	}
	if got := s.Count(); got != 2 {
		t.Errorf("Count: expected 2, got %d", got)
	}
	s.Clear()
	if s.Count() != 0 {
		t.Errorf("Clear: expected 0, got %d", s.Count())
	}
}

func TestNestedDrawInfo(t *testing.T) {
	lvl := quadLevel()
	s, outer := newTestContext(lvl, newFakeBackend(), Viewpoint{Pos: math.NewVec3(1, 2, 3)})
	outer.AddPortal(newFakePortal("queued", 1, nil))
	outer.CurrentMapSections.Set(3)
	outer.SetClipLine(&level.Line{})

	di := outer.nested()
	if di.Outer != outer || di.State != s || di.Level != lvl {
		t.Error("nested: expected links to outer context")
	}
	if di.Viewpoint != outer.Viewpoint {
		t.Error("nested: expected a copy of the viewpoint")
	}
	if di.Portals.Len() != 0 || di.CurrentMapSections.Test(3) || di.ClipLine != nil {
		t.Error("nested: expected fresh queue, sections and clip line")
	}
	if len(di.SSRenderFlags) != 4 || len(di.NoRenderFlags) != 3 {
		t.Errorf("nested: expected flags sized to the level, got %d and %d", len(di.SSRenderFlags), len(di.NoRenderFlags))
	}
	if di.Clipper == nil || di.Clipper == outer.Clipper {
		t.Error("nested: expected a clipper of its own")
	}
	if di.Depth() != 1 || outer.Depth() != 0 {
		t.Errorf("Depth: expected 1 and 0, got %d and %d", di.Depth(), outer.Depth())
	}
}

func TestUpdateCurrentMapSection(t *testing.T) {
	lvl := quadLevel()
	_, di := newTestContext(lvl, newFakeBackend(), Viewpoint{Pos: math.NewVec3(10, 10, 0)})

	di.UpdateCurrentMapSection()
	if di.CurrentMapSection != 3 || !di.CurrentMapSections.Test(3) {
		t.Errorf("UpdateCurrentMapSection: expected section 3, got %d", di.CurrentMapSection)
	}
}

func TestSetViewArea(t *testing.T) {
	lvl, room := roomLevel()
	water := lvl.AddSector(32, 96)
	room.HeightSec = water

	tests := []struct {
		z    float64
		want level.Area
	}{
		{16, level.AreaBelow},
		{64, level.AreaDefault},
		{100, level.AreaAbove},
	}
	for _, tt := range tests {
		_, di := newTestContext(lvl, newFakeBackend(), Viewpoint{Pos: math.NewVec3(0, 0, tt.z)})
		di.SetViewArea()
		if di.InArea != tt.want {
			t.Errorf("SetViewArea at z=%v: expected %v, got %v", tt.z, tt.want, di.InArea)
		}
		if di.Viewpoint.Sector != room {
			t.Errorf("SetViewArea at z=%v: expected the room sector", tt.z)
		}
	}
}

func TestNewViewpoint(t *testing.T) {
	cam := &level.Actor{
		PrevPos:    math.Vec3{X: 0, Y: 0, Z: 0},
		Pos:        math.Vec3{X: 16, Y: 8, Z: 0},
		PrevAngles: level.Rotator{Yaw: 350},
		Angles:     level.Rotator{Yaw: 10, Pitch: 5},
	}
	vp := NewViewpoint(cam, 0.5, 41)

	if !nearVec3(vp.Pos, math.Vec3{X: 8, Y: 4, Z: 41}) {
		t.Errorf("Pos: expected (8, 4, 41), got %v", vp.Pos)
	}
	if vp.ActorPos != cam.Pos {
		t.Errorf("ActorPos: expected %v, got %v", cam.Pos, vp.ActorPos)
	}
	if !nearly(float64(vp.Angles.Yaw.Normalized360()), 0) && !nearly(float64(vp.Angles.Yaw.Normalized360()), 360) {
		t.Errorf("Yaw: expected 0, got %v", vp.Angles.Yaw)
	}
	if vp.Angles.Pitch != 5 {
		t.Errorf("Pitch: expected 5, got %v", vp.Angles.Pitch)
	}
	if vp.Path != [2]math.Vec3{cam.PrevPos, cam.Pos} {
		t.Errorf("Path: expected previous and current position, got %v", vp.Path)
	}
	if vp.Camera != cam || vp.ViewActor != cam || vp.ShowViewer {
		t.Error("NewViewpoint: expected the camera to be the hidden view actor")
	}
}
