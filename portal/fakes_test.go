package portal

import (
	gomath "math"

	"portal-engine/clipper"
	"portal-engine/level"
	"portal-engine/math"
)

const tolerance = 1e-6

func nearly(a, b float64) bool { return gomath.Abs(a-b) < tolerance }

func nearVec3(a, b math.Vec3) bool {
	return nearly(a.X, b.X) && nearly(a.Y, b.Y) && nearly(a.Z, b.Z)
}

type viewCall struct {
	pos         math.Vec3
	yaw         math.Angle
	mirror      bool
	planeMirror bool
}

type fakeBackend struct {
	frustum math.BAM
	clamp   bool

	views      []viewCall
	beginOK    bool
	beginCalls int
	endCalls   int
	scenes     int
	actorCalls int
	clears     int

	drawScene func(di *DrawInfo)
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{frustum: math.BAM180, clamp: true, beginOK: true}
}

func (b *fakeBackend) SetupView(di *DrawInfo, x, y, z float64, mirror, planeMirror bool) {
	b.views = append(b.views, viewCall{
		pos:         math.NewVec3(x, y, z),
		yaw:         di.Viewpoint.Angles.Yaw,
		mirror:      mirror,
		planeMirror: planeMirror,
	})
}

func (b *fakeBackend) SetDepthClamp(on bool) bool {
	old := b.clamp
	b.clamp = on
	return old
}

func (b *fakeBackend) FrustumAngle(di *DrawInfo) math.BAM { return b.frustum }

func (b *fakeBackend) NewClipper() Clipper { return clipper.New() }

func (b *fakeBackend) DrawScene(di *DrawInfo) {
	b.scenes++
	if b.drawScene != nil {
		b.drawScene(di)
	}
}

func (b *fakeBackend) ProcessActorsInPortal(group *level.LinePortalGroup, area level.Area, di *DrawInfo) {
	b.actorCalls++
}

func (b *fakeBackend) ClearScreen(di *DrawInfo) { b.clears++ }

func (b *fakeBackend) Begin(p Portal, outer *DrawInfo, useStencil, useQuery bool) bool {
	b.beginCalls++
	return b.beginOK
}

func (b *fakeBackend) End(p Portal, outer *DrawInfo, useStencil bool) {
	b.endCalls++
}

type renderCall struct {
	attached bool
	useQuery bool
}

// fakePortal records how the frame driver treats it. With state set it
// renders through the real nested-context path.
type fakePortal struct {
	name      string
	lines     []Boundary
	sky       bool
	needDepth bool
	setupOK   bool
	state     *SceneState

	renders   []renderCall
	setups    int
	shutdowns int
	destroyed int
	order     *[]string
}

func newFakePortal(name string, lines int, order *[]string) *fakePortal {
	return &fakePortal{name: name, lines: make([]Boundary, lines), needDepth: true, setupOK: true, order: order}
}

func (p *fakePortal) Setup(di *DrawInfo, c Clipper) bool {
	p.setups++
	return p.setupOK
}

func (p *fakePortal) Shutdown(di *DrawInfo) { p.shutdowns++ }

func (p *fakePortal) RenderPortal(attached, useQuery bool, outer *DrawInfo) {
	p.renders = append(p.renders, renderCall{attached, useQuery})
	if p.order != nil {
		*p.order = append(*p.order, p.name)
	}
	if p.state != nil {
		p.state.renderPortal(p, attached, useQuery, outer)
	}
}

func (p *fakePortal) ClipSeg(seg *level.Seg, viewPos math.Vec3) ClipResult { return ClipInside }
func (p *fakePortal) ClipSubsector(sub *level.Subsector) ClipResult        { return ClipInside }
func (p *fakePortal) ClipPoint(pos math.Vec2) ClipResult                   { return ClipInside }
func (p *fakePortal) Name() string                                         { return p.name }
func (p *fakePortal) IsSky() bool                                          { return p.sky }
func (p *fakePortal) NeedDepthBuffer() bool                                { return p.needDepth }
func (p *fakePortal) Lines() []Boundary                                    { return p.lines }
func (p *fakePortal) AddLine(b Boundary)                                   { p.lines = append(p.lines, b) }
func (p *fakePortal) Destroy()                                             { p.destroyed++ }

// roomLevel is a single 256x256 room with floor 0 and ceiling 128.
func roomLevel() (*level.Level, *level.Sector) {
	lvl := &level.Level{}
	s := lvl.AddSector(0, 128)
	lvl.AddSubsector(s, 0, []math.Vec2{{X: -128, Y: -128}, {X: -128, Y: 128}, {X: 128, Y: 128}, {X: 128, Y: -128}})
	return lvl, s
}

func newTestContext(lvl *level.Level, be *fakeBackend, vp Viewpoint) (*SceneState, *DrawInfo) {
	s := NewSceneState(DefaultConfig())
	return s, NewDrawInfo(lvl, s, be, vp)
}

// nestedContext mimics what renderPortal creates for a portal of outer.
func nestedContext(outer *DrawInfo) *DrawInfo {
	return outer.nested()
}
