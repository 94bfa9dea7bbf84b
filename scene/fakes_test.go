package scene

import (
	"portal-engine/level"
	"portal-engine/math"
	"portal-engine/portal"
)

// fakeBackend completes the walker into a portal.Backend and records what
// reaches the screen.
type fakeBackend struct {
	*Walker

	clamp  bool
	draws  []int
	skies  int
	begins []bool
	ends   int
	clears int
	setups int
}

func newFakeBackend() *fakeBackend {
	f := &fakeBackend{clamp: true}
	f.Walker = NewWalker(f)
	return f
}

func (f *fakeBackend) SetupView(di *portal.DrawInfo, x, y, z float64, mirror, planeMirror bool) {
	f.setups++
}

func (f *fakeBackend) SetDepthClamp(on bool) bool {
	old := f.clamp
	f.clamp = on
	return old
}

func (f *fakeBackend) FrustumAngle(di *portal.DrawInfo) math.BAM { return math.BAMMax }

func (f *fakeBackend) Begin(p portal.Portal, outer *portal.DrawInfo, useStencil, useQuery bool) bool {
	f.begins = append(f.begins, useStencil)
	return true
}

func (f *fakeBackend) End(p portal.Portal, outer *portal.DrawInfo, useStencil bool) { f.ends++ }
func (f *fakeBackend) ClearScreen(di *portal.DrawInfo)                              { f.clears++ }

func (f *fakeBackend) Draw(di *portal.DrawInfo, list *DrawList) {
	f.draws = append(f.draws, list.Len())
}

func (f *fakeBackend) DrawSky(di *portal.DrawInfo) { f.skies++ }

// addRoom adds a 256x256 room at x0, floor 0 and ceiling 128. Its walls
// are returned west, north, east, south.
func addRoom(lvl *level.Level, x0 float64, section int) (*level.Sector, []*level.Line) {
	sec := lvl.AddSector(0, 128)
	v := []math.Vec2{{X: x0, Y: 0}, {X: x0, Y: 256}, {X: x0 + 256, Y: 256}, {X: x0 + 256, Y: 0}}
	lines := make([]*level.Line, len(v))
	for i := range v {
		lines[i] = lvl.AddLine(v[i], v[(i+1)%len(v)], sec, nil)
	}
	lvl.AddSubsector(sec, section, v, lines...)
	return sec, lines
}

func oneRoom() (*level.Level, *level.Sector, []*level.Line, *level.Actor) {
	lvl := &level.Level{}
	sec, lines := addRoom(lvl, 0, 0)
	cam := lvl.AddActor(math.Vec3{X: 128, Y: 128}, 0, 16, 56)
	return lvl, sec, lines, cam
}

// twoRooms places room A at x 0..256 in section 0 and room B at x 512..768
// in section 1, split by a node at x = 384.
func twoRooms() (*level.Level, [2]*level.Sector, [2][]*level.Line, *level.Actor) {
	lvl := &level.Level{}
	a, la := addRoom(lvl, 0, 0)
	b, lb := addRoom(lvl, 512, 1)
	lvl.AddNode(math.Vec2{X: 384, Y: 0}, math.Vec2{X: 0, Y: 1}, level.SubsectorChild(1), level.SubsectorChild(0))
	cam := lvl.AddActor(math.Vec3{X: 128, Y: 128}, 0, 16, 56)
	return lvl, [2]*level.Sector{a, b}, [2][]*level.Line{la, lb}, cam
}

// render draws a frame from the camera's eye the way the engine does.
func render(lvl *level.Level, cam *level.Actor) (*fakeBackend, *portal.SceneState) {
	f := newFakeBackend()
	state := portal.NewSceneState(portal.DefaultConfig())
	vp := portal.NewViewpoint(cam, 1, 41)

	di := portal.NewDrawInfo(lvl, state, f, vp)
	di.SetViewArea()
	di.UpdateCurrentMapSection()
	di.SetupView(vp.Pos.X, vp.Pos.Y, vp.Pos.Z, false, false)
	f.DrawScene(di)
	return f, state
}
