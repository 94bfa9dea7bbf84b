package portal

import (
	"portal-engine/level"
	"portal-engine/math"
)

// mirrorNudge moves the reflected eye off an axis-aligned mirror so it is
// never exactly on the line.
const mirrorNudge = 0.1

// MirrorPortal reflects the view across a wall.
type MirrorPortal struct {
	linePortal
}

func NewMirrorPortal(state *SceneState, line *level.Line) *MirrorPortal {
	p := &MirrorPortal{}
	p.state = state
	p.line = line
	return p
}

// ReflectPoint mirrors p across the infinite line through v1 and v2.
func ReflectPoint(v1, v2, p math.Vec2) math.Vec2 {
	d := v2.Sub(v1)
	r := p.Sub(v1).Dot(d) / d.Dot(d)
	foot := v1.Add(d.Mul(r))
	return foot.Mul(2).Sub(p)
}

// mirrorEye reflects the eye position across line. Deeper recursion levels
// push the eye further in front of the mirror so that successive
// reflections do not coincide.
func mirrorEye(line *level.Line, pos math.Vec3, depth int) math.Vec3 {
	v1, v2 := line.V1, line.V2
	d := line.Delta()

	// axis-aligned mirrors nudge the reflection back toward the line, on
	// whichever side the viewer stands
	switch {
	case d.X == 0:
		start := pos.X
		pos.X = 2*v1.X - start
		if start < v1.X {
			pos.X -= mirrorNudge
		} else {
			pos.X += mirrorNudge
		}
	case d.Y == 0:
		start := pos.Y
		pos.Y = 2*v1.Y - start
		if start < v1.Y {
			pos.Y -= mirrorNudge
		} else {
			pos.Y += mirrorNudge
		}
	default:
		r := ReflectPoint(v1, v2, pos.XY())
		pos.X, pos.Y = r.X, r.Y
		v := math.NewVec2(-d.X, d.Y).Normalize()
		pos.X += v.Y * float64(depth) / 2
		pos.Y += v.X * float64(depth) / 2
	}
	return pos
}

func (p *MirrorPortal) Setup(di *DrawInfo, c Clipper) bool {
	s := p.state
	if s.RenderDepth > s.cfg.MirrorRecursions {
		return false
	}
	vp := &di.Viewpoint

	di.UpdateCurrentMapSection()
	di.ClipPortal = p

	startYaw := vp.Angles.Yaw
	vp.ShowViewer = true
	vp.Pos = mirrorEye(p.line, vp.Pos, s.RenderDepth)
	vp.Angles.Yaw = p.line.Delta().Angle()*2 - startYaw
	vp.ViewActor = nil

	s.MirrorFlag++
	di.SetClipLine(p.line)
	di.SetupView(vp.Pos.X, vp.Pos.Y, vp.Pos.Z, s.MirrorFlag&1 != 0, s.PlaneMirrorFlag&1 != 0)

	c.Clear()
	rejectOutsideFrustum(di, c)

	// the reflected eye sees the mirror from behind, so this range wraps
	// around and leaves only the mirror itself open. This is the same as
	// accepting the range v1..v2 as seen from the reflected eye.
	origin := vp.Pos.XY()
	c.RejectRange(p.line.V2.Sub(origin).Angle().BAMs(), p.line.V1.Sub(origin).Angle().BAMs())
	return true
}

func (p *MirrorPortal) Shutdown(di *DrawInfo) {
	p.state.MirrorFlag--
}

func (p *MirrorPortal) RenderPortal(attached, useQuery bool, outer *DrawInfo) {
	p.state.renderPortal(p, attached, useQuery, outer)
}

func (p *MirrorPortal) Name() string { return "Mirror" }
