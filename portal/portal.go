package portal

import (
	"portal-engine/level"
	"portal-engine/math"
)

// ClipResult classifies geometry against a portal's clip line.
type ClipResult int

const (
	// ClipInside geometry is drawn normally.
	ClipInside ClipResult = iota
	// ClipInFront geometry lies between the viewer and the portal and must
	// not be drawn inside it.
	ClipInFront
)

// Boundary is one wall segment through which a portal is seen. Seg is nil
// for boundaries that do not come from map geometry.
type Boundary struct {
	V1, V2  math.Vec2
	ZTop    [2]float64
	ZBottom [2]float64
	Seg     *level.Seg
	// Flat is the polygon of a floor or ceiling portal surface. Only one
	// boundary per subsector carries it; the rest just bound the clipper.
	Flat []math.Vec3
}

// Portal is a surface through which a sub-view of the scene is rendered.
type Portal interface {
	// Setup transforms di's viewpoint and prepares c for the sub-view. It
	// returns false when the portal must not be rendered; nothing has been
	// changed in that case.
	Setup(di *DrawInfo, c Clipper) bool
	// Shutdown reverts the scene state changes of a successful Setup.
	Shutdown(di *DrawInfo)
	// RenderPortal draws the portal contents into outer.
	RenderPortal(attached, useQuery bool, outer *DrawInfo)

	ClipSeg(seg *level.Seg, viewPos math.Vec3) ClipResult
	ClipSubsector(sub *level.Subsector) ClipResult
	ClipPoint(pos math.Vec2) ClipResult

	Name() string
	IsSky() bool
	NeedDepthBuffer() bool

	Lines() []Boundary
	AddLine(b Boundary)
	// Destroy releases the portal. The frame driver calls it exactly once
	// for every queued portal.
	Destroy()
}

// attachedRenderer is implemented by portals that inject content into the
// sub-view before the scene is drawn.
type attachedRenderer interface {
	RenderAttached(di *DrawInfo)
}

// scenePortal carries what every portal variant shares.
type scenePortal struct {
	state     *SceneState
	lines     []Boundary
	destroyed bool
}

func (p *scenePortal) Lines() []Boundary { return p.lines }

func (p *scenePortal) AddLine(b Boundary) { p.lines = append(p.lines, b) }

func (p *scenePortal) Destroy() {
	p.destroyed = true
	p.lines = nil
}

func (p *scenePortal) Shutdown(di *DrawInfo) {}

func (p *scenePortal) ClipSeg(seg *level.Seg, viewPos math.Vec3) ClipResult { return ClipInside }
func (p *scenePortal) ClipSubsector(sub *level.Subsector) ClipResult        { return ClipInside }
func (p *scenePortal) ClipPoint(pos math.Vec2) ClipResult                   { return ClipInside }

func (p *scenePortal) IsSky() bool           { return false }
func (p *scenePortal) NeedDepthBuffer() bool { return true }

// clearClipper opens exactly the screen area covered by the boundaries, as
// seen from the enclosing view, and closes everything outside the frustum.
func (p *scenePortal) clearClipper(di *DrawInfo, c Clipper) {
	var offset math.Angle
	origin := di.Viewpoint.Pos.XY()
	if outer := di.Outer; outer != nil {
		offset = math.DeltaAngle(outer.Viewpoint.Angles.Yaw, di.Viewpoint.Angles.Yaw)
		origin = outer.Viewpoint.Pos.XY()
	}

	c.Clear()
	c.RejectRange(0, math.BAMMax)

	for _, b := range p.lines {
		start := b.V2.Sub(origin).Angle() + offset
		end := b.V1.Sub(origin).Angle() + offset
		if math.DeltaAngle(end, start) < 0 {
			c.AcceptRange(start.BAMs(), end.BAMs())
		}
	}

	rejectOutsideFrustum(di, c)
	c.SetSilhouette()
}

func rejectOutsideFrustum(di *DrawInfo, c Clipper) {
	a1 := di.FrustumAngle()
	if a1 < math.BAM180 {
		yaw := di.Viewpoint.Angles.Yaw.BAMs()
		c.RejectRange(yaw+a1, yaw-a1)
	}
}

// linePortal is the base of portals whose surface is a single map line.
type linePortal struct {
	scenePortal
	line *level.Line
}

// ClipSeg hides segs between the viewer and the portal line.
func (p *linePortal) ClipSeg(seg *level.Seg, viewPos math.Vec3) ClipResult {
	if seg.Linedef == nil {
		return ClipInside
	}
	if level.ClipLineToPortal(seg.Linedef, p.line, viewPos.XY()) {
		return ClipInFront
	}
	return ClipInside
}

// ClipSubsector hides subsectors entirely behind the portal line.
func (p *linePortal) ClipSubsector(sub *level.Subsector) ClipResult {
	for _, seg := range sub.Segs {
		if p.line.PointOnSide(seg.V1) == 0 {
			return ClipInside
		}
	}
	return ClipInFront
}

func (p *linePortal) ClipPoint(pos math.Vec2) ClipResult {
	if p.line.PointOnSide(pos) != 0 {
		return ClipInFront
	}
	return ClipInside
}
