package portal

import (
	"math/bits"

	"portal-engine/level"
	"portal-engine/math"
)

// SSRFSeen marks a subsector as visible in DrawInfo.SSRenderFlags.
const SSRFSeen uint8 = 1

// Viewpoint is where a render context looks from.
type Viewpoint struct {
	Pos      math.Vec3
	ActorPos math.Vec3
	Angles   level.Rotator
	// Path is the camera's motion over the current tic, start and end.
	Path       [2]math.Vec3
	ShowViewer bool
	Camera     *level.Actor
	// ViewActor is not drawn in this view. Nil draws everything.
	ViewActor  *level.Actor
	Sector     *level.Sector
	TicFrac    float64
	ExtraLight int
}

// NewViewpoint places the eye viewHeight above camera, interpolated
// ticFrac of the way through the current tic.
func NewViewpoint(camera *level.Actor, ticFrac, viewHeight float64) Viewpoint {
	pos := camera.InterpolatedPosition(ticFrac)
	return Viewpoint{
		Pos:      math.Vec3{X: pos.X, Y: pos.Y, Z: pos.Z + viewHeight},
		ActorPos: camera.Pos,
		Angles: level.Rotator{
			Yaw:   camera.InterpolatedYaw(ticFrac),
			Pitch: camera.Angles.Pitch,
			Roll:  camera.Angles.Roll,
		},
		Path:      [2]math.Vec3{camera.PrevPos, camera.Pos},
		Camera:    camera,
		ViewActor: camera,
		Sector:    camera.Sector,
		TicFrac:   ticFrac,
	}
}

// SectionSet is a bitset over map section indices.
type SectionSet []uint64

func NewSectionSet(n int) SectionSet {
	return make(SectionSet, (n+63)/64)
}

func (s SectionSet) Set(i int) {
	if i < 0 || i/64 >= len(s) {
		return
	}
	s[i/64] |= 1 << (uint(i) % 64)
}

func (s SectionSet) Test(i int) bool {
	if i < 0 || i/64 >= len(s) {
		return false
	}
	return s[i/64]&(1<<(uint(i)%64)) != 0
}

func (s SectionSet) Count() int {
	n := 0
	for _, w := range s {
		n += bits.OnesCount64(w)
	}
	return n
}

func (s SectionSet) Clear() {
	for i := range s {
		s[i] = 0
	}
}

// DrawInfo is the render context of one recursion level.
type DrawInfo struct {
	Viewpoint Viewpoint
	Portals   Queue

	CurrentMapSections SectionSet
	CurrentMapSection  int
	SSRenderFlags      []uint8
	// NoRenderFlags holds per-node coverage of the sector stack currently
	// set up in this context.
	NoRenderFlags []uint8

	// ClipPortal is the portal this view is seen through, if any. Geometry
	// it reports as ClipInFront is skipped.
	ClipPortal Portal
	ClipLine   *level.Line
	// ClipHeight and ClipHeightDirection cut away the half space on one
	// side of a plane mirror. A zero direction disables the cut.
	ClipHeight          float64
	ClipHeightDirection float64

	InArea        level.Area
	CurrentPortal Portal

	Clipper Clipper
	Outer   *DrawInfo
	Level   *level.Level
	State   *SceneState

	backend Backend
}

// NewDrawInfo creates the top-level render context for vp.
func NewDrawInfo(lvl *level.Level, state *SceneState, backend Backend, vp Viewpoint) *DrawInfo {
	di := &DrawInfo{
		Viewpoint: vp,
		Level:     lvl,
		State:     state,
		backend:   backend,
	}
	di.allocate()
	return di
}

func (di *DrawInfo) allocate() {
	di.Clipper = di.backend.NewClipper()
	if di.Level == nil {
		return
	}
	di.CurrentMapSections = NewSectionSet(di.Level.NumMapSections)
	di.SSRenderFlags = make([]uint8, len(di.Level.Subsectors))
	di.NoRenderFlags = make([]uint8, len(di.Level.Nodes))
}

// nested creates the context for a sub-view of di. The viewpoint starts as
// a copy of di's and is transformed by the portal's Setup.
func (di *DrawInfo) nested() *DrawInfo {
	n := &DrawInfo{
		Viewpoint:         di.Viewpoint,
		CurrentMapSection: di.CurrentMapSection,
		InArea:            di.InArea,
		Outer:             di,
		Level:             di.Level,
		State:             di.State,
		backend:           di.backend,
	}
	n.allocate()
	return n
}

// release tears the context down. Portals still queued here were never
// reached by a drain and are destroyed.
func (di *DrawInfo) release() {
	di.Portals.DestroyAll()
}

func (di *DrawInfo) Backend() Backend { return di.backend }

// AddPortal queues p for this context's EndFrame.
func (di *DrawInfo) AddPortal(p Portal) {
	di.Portals.Push(p)
}

func (di *DrawInfo) SetupView(x, y, z float64, mirror, planeMirror bool) {
	di.backend.SetupView(di, x, y, z, mirror, planeMirror)
}

func (di *DrawInfo) SetDepthClamp(on bool) bool {
	return di.backend.SetDepthClamp(on)
}

func (di *DrawInfo) FrustumAngle() math.BAM {
	return di.backend.FrustumAngle(di)
}

// SetClipLine restricts drawing to the front of line.
func (di *DrawInfo) SetClipLine(line *level.Line) {
	di.ClipLine = line
}

// SetClipHeight cuts away everything on the -direction side of z.
func (di *DrawInfo) SetClipHeight(z, direction float64) {
	di.ClipHeight = z
	di.ClipHeightDirection = direction
}

// UpdateCurrentMapSection marks the map section of the viewpoint as visible.
func (di *DrawInfo) UpdateCurrentMapSection() {
	if di.Level == nil {
		return
	}
	sub := di.Level.PointInSubsector(di.Viewpoint.Pos.XY())
	if sub == nil {
		return
	}
	di.CurrentMapSection = sub.MapSection
	di.CurrentMapSections.Set(sub.MapSection)
}

// SetViewArea finds the viewpoint's sector and which part of its height
// transfer the viewpoint is in.
func (di *DrawInfo) SetViewArea() {
	if di.Level == nil {
		return
	}
	sub := di.Level.PointInSubsector(di.Viewpoint.Pos.XY())
	if sub == nil || sub.Sector == nil {
		di.InArea = level.AreaDefault
		return
	}
	di.Viewpoint.Sector = sub.Sector
	di.InArea = sub.Sector.AreaAt(di.Viewpoint.Pos)
}

// Depth returns how many contexts enclose di.
func (di *DrawInfo) Depth() int {
	d := 0
	for o := di.Outer; o != nil; o = o.Outer {
		d++
	}
	return d
}
