package portal

import (
	gomath "math"
	"testing"

	"portal-engine/clipper"
	"portal-engine/level"
	"portal-engine/math"
)

func TestReflectPointInvolution(t *testing.T) {
	tests := []struct {
		v1, v2, p math.Vec2
	}{
		{math.NewVec2(0, 0), math.NewVec2(64, 64), math.NewVec2(64, 0)},
		{math.NewVec2(-10, 5), math.NewVec2(30, -7), math.NewVec2(3, 99)},
		{math.NewVec2(100, 100), math.NewVec2(101, 180), math.NewVec2(-400, 12)},
	}
	for _, tt := range tests {
		once := ReflectPoint(tt.v1, tt.v2, tt.p)
		twice := ReflectPoint(tt.v1, tt.v2, once)
		if !nearly(twice.X, tt.p.X) || !nearly(twice.Y, tt.p.Y) {
			t.Errorf("ReflectPoint twice %v: expected %v, got %v", tt.p, tt.p, twice)
		}
		// the line is the perpendicular bisector of p and its reflection
		d1 := once.Sub(tt.v1).Length()
		d2 := tt.p.Sub(tt.v1).Length()
		if !nearly(d1, d2) {
			t.Errorf("ReflectPoint %v: distance to v1 expected %v, got %v", tt.p, d2, d1)
		}
	}

	got := ReflectPoint(math.NewVec2(0, 0), math.NewVec2(64, 64), math.NewVec2(64, 0))
	if !nearly(got.X, 0) || !nearly(got.Y, 64) {
		t.Errorf("ReflectPoint diagonal: expected (0, 64), got %v", got)
	}
}

func mirrorSetup(t *testing.T, line *level.Line, vp Viewpoint, depth int) (*SceneState, *DrawInfo, *clipper.Clipper, *fakeBackend, *MirrorPortal, bool) {
	t.Helper()
	lvl, _ := roomLevel()
	be := newFakeBackend()
	s, outer := newTestContext(lvl, be, vp)
	s.RenderDepth = depth
	p := NewMirrorPortal(s, line)
	di := nestedContext(outer)
	c := di.Clipper.(*clipper.Clipper)
	ok := p.Setup(di, c)
	return s, di, c, be, p, ok
}

func TestMirrorSetupVertical(t *testing.T) {
	line := &level.Line{V1: math.NewVec2(0, 0), V2: math.NewVec2(0, 128)}
	vp := Viewpoint{Pos: math.NewVec3(64, 32, 41), Angles: level.Rotator{Yaw: 180}, ViewActor: &level.Actor{}}

	s, di, c, be, p, ok := mirrorSetup(t, line, vp, 1)
	if !ok {
		t.Fatal("Setup: expected true")
	}

	got := di.Viewpoint
	if !nearVec3(got.Pos, math.NewVec3(-63.9, 32, 41)) {
		t.Errorf("Pos: expected (-63.9, 32, 41), got %v", got.Pos)
	}
	if !nearly(float64(got.Angles.Yaw.Normalized180()), 0) {
		t.Errorf("Yaw: expected 0, got %v", got.Angles.Yaw)
	}
	if !got.ShowViewer || got.ViewActor != nil {
		t.Errorf("viewer: expected ShowViewer and no ViewActor, got %v, %v", got.ShowViewer, got.ViewActor)
	}
	if s.MirrorFlag != 1 {
		t.Errorf("MirrorFlag: expected 1, got %d", s.MirrorFlag)
	}
	if di.ClipLine != line || di.ClipPortal != p {
		t.Error("Setup: expected clip line and clip portal to be the mirror")
	}
	if len(be.views) != 1 || !be.views[0].mirror || be.views[0].planeMirror {
		t.Errorf("SetupView: expected one mirrored view, got %+v", be.views)
	}

	if !c.IsAngleVisible(0) {
		t.Error("clipper: direction through the mirror should be open")
	}
	if c.IsAngleVisible(math.BAM90) || c.IsAngleVisible(math.BAM180) {
		t.Error("clipper: directions beside the mirror should be closed")
	}

	p.Shutdown(di)
	if s.MirrorFlag != 0 {
		t.Errorf("Shutdown: expected MirrorFlag 0, got %d", s.MirrorFlag)
	}
}

func TestMirrorSetupHorizontal(t *testing.T) {
	line := &level.Line{V1: math.NewVec2(0, 0), V2: math.NewVec2(128, 0)}
	vp := Viewpoint{Pos: math.NewVec3(32, -64, 0), Angles: level.Rotator{Yaw: 60}}

	_, di, _, _, _, ok := mirrorSetup(t, line, vp, 1)
	if !ok {
		t.Fatal("Setup: expected true")
	}
	if !nearVec3(di.Viewpoint.Pos, math.NewVec3(32, 63.9, 0)) {
		t.Errorf("Pos: expected (32, 63.9, 0), got %v", di.Viewpoint.Pos)
	}
	if !nearly(float64(di.Viewpoint.Angles.Yaw.Normalized180()), -60) {
		t.Errorf("Yaw: expected -60, got %v", di.Viewpoint.Angles.Yaw)
	}
}

func TestMirrorSetupDiagonalDepthOffset(t *testing.T) {
	line := &level.Line{V1: math.NewVec2(0, 0), V2: math.NewVec2(64, 64)}
	vp := Viewpoint{Pos: math.NewVec3(64, 0, 0), Angles: level.Rotator{Yaw: 90}}

	_, di, _, _, _, _ := mirrorSetup(t, line, vp, 0)
	if !nearVec3(di.Viewpoint.Pos, math.NewVec3(0, 64, 0)) {
		t.Errorf("depth 0: expected (0, 64, 0), got %v", di.Viewpoint.Pos)
	}
	if !nearly(float64(di.Viewpoint.Angles.Yaw.Normalized180()), 0) {
		t.Errorf("Yaw: expected 0, got %v", di.Viewpoint.Angles.Yaw)
	}

	_, di, _, _, _, _ = mirrorSetup(t, line, vp, 2)
	h := 1 / gomath.Sqrt2
	if !nearVec3(di.Viewpoint.Pos, math.NewVec3(h, 64-h, 0)) {
		t.Errorf("depth 2: expected (%v, %v, 0), got %v", h, 64-h, di.Viewpoint.Pos)
	}
}

func TestMirrorRecursionLimit(t *testing.T) {
	line := &level.Line{V1: math.NewVec2(0, 0), V2: math.NewVec2(0, 128)}
	vp := Viewpoint{Pos: math.NewVec3(64, 32, 41), Angles: level.Rotator{Yaw: 180}}

	s, di, _, be, _, ok := mirrorSetup(t, line, vp, DefaultConfig().MirrorRecursions+1)
	if ok {
		t.Fatal("Setup beyond the recursion limit: expected false")
	}
	if di.Viewpoint.Pos != vp.Pos || s.MirrorFlag != 0 || len(be.views) != 0 {
		t.Error("rejected Setup must not change anything")
	}

	_, _, _, _, _, ok = mirrorSetup(t, line, vp, DefaultConfig().MirrorRecursions)
	if !ok {
		t.Error("Setup at the recursion limit: expected true")
	}
}

func TestMirrorParity(t *testing.T) {
	line := &level.Line{V1: math.NewVec2(0, 0), V2: math.NewVec2(0, 128)}
	lvl, _ := roomLevel()
	be := newFakeBackend()
	s, outer := newTestContext(lvl, be, Viewpoint{Pos: math.NewVec3(64, 32, 0)})
	s.RenderDepth = 1
	s.MirrorFlag = 1

	p := NewMirrorPortal(s, line)
	di := nestedContext(outer)
	p.Setup(di, di.Clipper)
	if be.views[0].mirror {
		t.Error("mirror inside a mirror: expected even parity to draw unmirrored")
	}
	p.Shutdown(di)
	if s.MirrorFlag != 1 {
		t.Errorf("Shutdown: expected MirrorFlag 1, got %d", s.MirrorFlag)
	}
}

func TestLinePortalClipping(t *testing.T) {
	s := NewSceneState(DefaultConfig())
	mirror := &level.Line{V1: math.NewVec2(0, 0), V2: math.NewVec2(0, 128)}
	p := NewMirrorPortal(s, mirror)

	if got := p.ClipPoint(math.NewVec2(-10, 0)); got != ClipInFront {
		t.Errorf("ClipPoint behind: expected ClipInFront, got %v", got)
	}
	if got := p.ClipPoint(math.NewVec2(10, 0)); got != ClipInside {
		t.Errorf("ClipPoint in front: expected ClipInside, got %v", got)
	}

	var lvl level.Level
	sec := lvl.AddSector(0, 128)
	behind := lvl.AddSubsector(sec, 0, []math.Vec2{{X: -64, Y: 0}, {X: -64, Y: 64}, {X: -1, Y: 64}, {X: -1, Y: 0}})
	across := lvl.AddSubsector(sec, 0, []math.Vec2{{X: -64, Y: 0}, {X: -64, Y: 64}, {X: 64, Y: 64}, {X: 64, Y: 0}})
	if got := p.ClipSubsector(behind); got != ClipInFront {
		t.Errorf("ClipSubsector behind: expected ClipInFront, got %v", got)
	}
	if got := p.ClipSubsector(across); got != ClipInside {
		t.Errorf("ClipSubsector across: expected ClipInside, got %v", got)
	}

	view := math.NewVec3(-64, 64, 0)
	mini := &level.Seg{V1: math.NewVec2(-10, 0), V2: math.NewVec2(-10, 64)}
	if got := p.ClipSeg(mini, view); got != ClipInside {
		t.Errorf("ClipSeg miniseg: expected ClipInside, got %v", got)
	}
	wall := &level.Line{V1: math.NewVec2(-10, 0), V2: math.NewVec2(-10, 64)}
	if got := p.ClipSeg(&level.Seg{Linedef: wall}, view); got != ClipInFront {
		t.Errorf("ClipSeg behind: expected ClipInFront, got %v", got)
	}
	far := &level.Line{V1: math.NewVec2(10, 0), V2: math.NewVec2(10, 64)}
	if got := p.ClipSeg(&level.Seg{Linedef: far}, view); got != ClipInside {
		t.Errorf("ClipSeg in front: expected ClipInside, got %v", got)
	}
}

func TestPortalNames(t *testing.T) {
	s := NewSceneState(DefaultConfig())
	line := &level.Line{V1: math.NewVec2(0, 0), V2: math.NewVec2(0, 64)}
	dest := &level.Line{V1: math.NewVec2(100, 0), V2: math.NewVec2(100, 64)}
	group := &level.LinePortalGroup{}
	group.Add(level.NewLinePortal(line, dest, level.PortalLinked, level.AlignNone))

	tests := []struct {
		p    Portal
		name string
		sky  bool
	}{
		{NewMirrorPortal(s, line), "Mirror", false},
		{NewLineToLinePortal(s, group), "LineToLine", false},
		{NewSkyboxPortal(s, &level.SectorPortal{}), "Skybox", true},
		{NewSectorStackPortal(s, &level.SectorPortalGroup{Plane: level.Floor}), "Sectorstack", true},
		{NewPlaneMirrorPortal(s, level.FlatFloor(0)), "Planemirror floor", false},
		{NewPlaneMirrorPortal(s, level.FlatCeiling(128)), "Planemirror ceiling", false},
	}
	for _, tt := range tests {
		if got := tt.p.Name(); got != tt.name {
			t.Errorf("Name: expected %q, got %q", tt.name, got)
		}
		if got := tt.p.IsSky(); got != tt.sky {
			t.Errorf("%s IsSky: expected %v, got %v", tt.name, tt.sky, got)
		}
		if !tt.p.NeedDepthBuffer() {
			t.Errorf("%s NeedDepthBuffer: expected true", tt.name)
		}
	}
}

func TestMirrorEyeSides(t *testing.T) {
	vertical := &level.Line{V1: math.NewVec2(0, 0), V2: math.NewVec2(0, 128)}
	horizontal := &level.Line{V1: math.NewVec2(0, 0), V2: math.NewVec2(128, 0)}

	tests := []struct {
		name string
		line *level.Line
		pos  math.Vec3
		want math.Vec3
	}{
		{"vertical front", vertical, math.NewVec3(64, 32, 41), math.NewVec3(-63.9, 32, 41)},
		{"vertical back", vertical, math.NewVec3(-64, 32, 41), math.NewVec3(63.9, 32, 41)},
		{"horizontal front", horizontal, math.NewVec3(32, -64, 41), math.NewVec3(32, 63.9, 41)},
		{"horizontal back", horizontal, math.NewVec3(32, 64, 41), math.NewVec3(32, -63.9, 41)},
	}
	for _, tt := range tests {
		if got := mirrorEye(tt.line, tt.pos, 1); !nearVec3(got, tt.want) {
			t.Errorf("mirrorEye %s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}
