package scene

import (
	"testing"

	"portal-engine/level"
	"portal-engine/math"
	"portal-engine/portal"
)

func checkStats(t *testing.T, name string, got, want Stats) {
	t.Helper()
	if got != want {
		t.Errorf("%s: expected %+v, got %+v", name, want, got)
	}
}

func checkState(t *testing.T, s *portal.SceneState) {
	t.Helper()
	if s.RenderDepth != 0 || s.MirrorFlag != 0 || s.PlaneMirrorFlag != 0 || s.SkyboxRecursion != 0 {
		t.Errorf("scene state: expected all counters back at zero, got %+v", *s)
	}
	if s.PlaneMirrorMode != portal.PlaneMirrorNone {
		t.Errorf("PlaneMirrorMode: expected none, got %v", s.PlaneMirrorMode)
	}
}

func TestDrawSceneRoom(t *testing.T) {
	lvl, _, _, cam := oneRoom()
	f, state := render(lvl, cam)

	checkStats(t, "room", f.Stats(), Stats{Contexts: 1, Subsectors: 1, Walls: 4, Flats: 2})
	if len(f.draws) != 1 || f.draws[0] != 36 {
		t.Errorf("draws: expected [36], got %v", f.draws)
	}
	if f.skies != 1 || len(f.begins) != 0 {
		t.Errorf("expected one sky pass and no portals, got %d skies, %d portals", f.skies, len(f.begins))
	}
	checkState(t, state)
}

func TestDrawSceneMirror(t *testing.T) {
	lvl, _, lines, cam := oneRoom()
	lines[2].Flags |= level.LineMirror
	f, state := render(lvl, cam)

	// the camera only shows up in the reflection
	checkStats(t, "mirror", f.Stats(), Stats{
		Contexts: 2, Subsectors: 2, Walls: 6, Flats: 4, Sprites: 1, Portals: 1, MaxDepth: 1,
	})
	if len(f.draws) != 2 || f.draws[0] != 30 || f.draws[1] != 36 {
		t.Errorf("draws: expected [30 36], got %v", f.draws)
	}
	if len(f.begins) != 1 || !f.begins[0] || f.ends != 1 {
		t.Errorf("expected one stencilled portal, got begins %v, ends %d", f.begins, f.ends)
	}
	checkState(t, state)
}

func TestDrawSceneFacingMirrors(t *testing.T) {
	lvl, _, lines, cam := oneRoom()
	lines[0].Flags |= level.LineMirror
	lines[2].Flags |= level.LineMirror
	f, state := render(lvl, cam)

	limit := portal.DefaultConfig().MirrorRecursions
	st := f.Stats()
	if st.MaxDepth != limit {
		t.Errorf("MaxDepth: expected %d, got %d", limit, st.MaxDepth)
	}
	if st.Contexts != 1+2*limit {
		t.Errorf("Contexts: expected %d, got %d", 1+2*limit, st.Contexts)
	}
	// each chain ends in a rejected setup
	if f.clears != 2 {
		t.Errorf("ClearScreen: expected 2, got %d", f.clears)
	}
	if len(f.begins) != f.ends {
		t.Errorf("Begin/End: expected pairs, got %d begins, %d ends", len(f.begins), f.ends)
	}
	checkState(t, state)
}

func TestDrawSceneSkybox(t *testing.T) {
	lvl, secs, _, cam := twoRooms()
	anchor := lvl.AddActor(math.Vec3{X: 640, Y: 128, Z: 64}, 90, 0, 0)
	sky := &level.SectorPortal{Skybox: anchor}
	secs[0].Portals[level.Ceiling] = sky
	f, state := render(lvl, cam)

	checkStats(t, "skybox", f.Stats(), Stats{
		Contexts: 2, Subsectors: 2, Walls: 8, Flats: 3, Portals: 1, MaxDepth: 1,
	})
	// the sky portal is drawn first, straight onto the screen
	if len(f.draws) != 2 || f.draws[0] != 36 || f.draws[1] != 30 {
		t.Errorf("draws: expected [36 30], got %v", f.draws)
	}
	if len(f.begins) != 1 || f.begins[0] {
		t.Errorf("expected one unstencilled portal, got %v", f.begins)
	}
	if sky.Flags&level.InSkybox != 0 {
		t.Error("InSkybox: expected flag cleared after the frame")
	}
	if state.InSkybox {
		t.Error("SceneState.InSkybox: expected false after the frame")
	}
	checkState(t, state)
}

func TestDrawScenePlaneMirror(t *testing.T) {
	lvl, sec, _, cam := oneRoom()
	sec.Reflect[level.Floor] = true
	f, state := render(lvl, cam)

	// below the floor only the ceiling is in view, and the camera stands
	// right under the reflected eye
	checkStats(t, "plane mirror", f.Stats(), Stats{
		Contexts: 2, Subsectors: 2, Walls: 8, Flats: 2, Portals: 1, MaxDepth: 1,
	})
	if len(f.begins) != 1 || !f.begins[0] {
		t.Errorf("expected one stencilled portal, got %v", f.begins)
	}
	checkState(t, state)
}

func TestDrawSceneLineToLine(t *testing.T) {
	lvl, _, lines, cam := twoRooms()
	group := &level.LinePortalGroup{}
	group.Add(level.NewLinePortal(lines[0][2], lines[1][0], level.PortalLinked, level.AlignNone))
	lvl.AddActor(math.Vec3{X: 250, Y: 128}, 0, 16, 56)
	f, state := render(lvl, cam)

	// the actor in the portal is drawn in room A and again behind it
	checkStats(t, "line portal", f.Stats(), Stats{
		Contexts: 2, Subsectors: 2, Walls: 6, Flats: 4, Sprites: 2, Portals: 1, MaxDepth: 1,
	})
	checkState(t, state)
}

func TestProcessActorsInPortal(t *testing.T) {
	lvl, _, lines, cam := twoRooms()
	group := &level.LinePortalGroup{}
	group.Add(level.NewLinePortal(lines[0][2], lines[1][0], level.PortalLinked, level.AlignNone))
	lvl.AddActor(math.Vec3{X: 250, Y: 128, Z: 8}, 0, 16, 56)
	lvl.AddActor(math.Vec3{X: 200, Y: 128}, 0, 16, 56)

	f := newFakeBackend()
	state := portal.NewSceneState(portal.DefaultConfig())
	di := portal.NewDrawInfo(lvl, state, f, portal.NewViewpoint(cam, 1, 41))
	f.ProcessActorsInPortal(group, level.AreaDefault, di)

	got := f.pending[di]
	if len(got) != 1 {
		t.Fatalf("pending: expected 1 actor near the portal line, got %d", len(got))
	}
	want := math.Vec3{X: 506, Y: 128, Z: 8}
	if got[0].pos.Sub(want).Length() > 1e-6 {
		t.Errorf("pending position: expected %v, got %v", want, got[0].pos)
	}
}

func TestClosed(t *testing.T) {
	tests := []struct {
		name                             string
		floor, ceiling, oFloor, oCeiling [2]float64
		want                             bool
	}{
		{"open", [2]float64{0, 0}, [2]float64{128, 128}, [2]float64{16, 16}, [2]float64{96, 96}, false},
		{"door shut", [2]float64{0, 0}, [2]float64{128, 128}, [2]float64{0, 0}, [2]float64{0, 0}, true},
		{"step above ceiling", [2]float64{0, 0}, [2]float64{128, 128}, [2]float64{128, 128}, [2]float64{256, 256}, true},
		{"open at one end", [2]float64{0, 0}, [2]float64{128, 128}, [2]float64{0, 0}, [2]float64{0, 64}, false},
	}
	for _, tt := range tests {
		if got := closed(tt.floor, tt.ceiling, tt.oFloor, tt.oCeiling); got != tt.want {
			t.Errorf("closed(%s): expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestSegmentDistance(t *testing.T) {
	v1, v2 := math.Vec2{X: 0, Y: 0}, math.Vec2{X: 10, Y: 0}
	tests := []struct {
		p    math.Vec2
		want float64
	}{
		{math.Vec2{X: 5, Y: 3}, 3},
		{math.Vec2{X: -4, Y: 3}, 5},
		{math.Vec2{X: 13, Y: -4}, 5},
	}
	for _, tt := range tests {
		if got := segmentDistance(tt.p, v1, v2); got != tt.want {
			t.Errorf("segmentDistance(%v): expected %v, got %v", tt.p, tt.want, got)
		}
	}
}

func TestFlatPolygonWinding(t *testing.T) {
	lvl, sec, _, _ := oneRoom()
	sub := lvl.Subsectors[0]

	floor := flatPolygon(sub, sec.Floor, level.Floor)
	ceiling := flatPolygon(sub, sec.Ceiling, level.Ceiling)

	// counter-clockwise from above has positive area
	if a := signedArea(floor); a <= 0 {
		t.Errorf("floor: expected counter-clockwise winding, got area %v", a)
	}
	if a := signedArea(ceiling); a >= 0 {
		t.Errorf("ceiling: expected clockwise winding seen from above, got area %v", a)
	}
	if ceiling[0].Z != 128 || floor[0].Z != 0 {
		t.Errorf("heights: expected floor 0 and ceiling 128, got %v and %v", floor[0].Z, ceiling[0].Z)
	}
}

func signedArea(poly []math.Vec3) float64 {
	a := 0.0
	for i := range poly {
		p, q := poly[i], poly[(i+1)%len(poly)]
		a += p.X*q.Y - q.X*p.Y
	}
	return a / 2
}
