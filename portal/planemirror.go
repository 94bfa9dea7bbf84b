package portal

import (
	"portal-engine/level"
	"portal-engine/math"
)

// PlaneMirrorPortal reflects the view in a floor or ceiling.
type PlaneMirrorPortal struct {
	scenePortal
	origin level.Plane

	oldPlaneMirror PlaneMirrorMode
}

func NewPlaneMirrorPortal(state *SceneState, origin level.Plane) *PlaneMirrorPortal {
	p := &PlaneMirrorPortal{origin: origin}
	p.state = state
	return p
}

func (p *PlaneMirrorPortal) Plane() level.Plane { return p.origin }

// ReflectHeight mirrors pos vertically in plane at pos's horizontal
// position.
func ReflectHeight(plane level.Plane, pos math.Vec3) float64 {
	return 2*plane.ZatPoint(pos.XY()) - pos.Z
}

func (p *PlaneMirrorPortal) Setup(di *DrawInfo, c Clipper) bool {
	s := p.state
	if s.RenderDepth > s.cfg.MirrorRecursions {
		return false
	}
	// up and down trade places in the reflection
	s.InStack[level.Floor], s.InStack[level.Ceiling] = s.InStack[level.Ceiling], s.InStack[level.Floor]

	vp := &di.Viewpoint
	p.oldPlaneMirror = s.PlaneMirrorMode

	vp.ShowViewer = true
	planeZ := p.origin.ZatPoint(vp.Pos.XY())
	vp.Pos.Z = ReflectHeight(p.origin, vp.Pos)
	vp.ViewActor = nil
	if p.origin.C < 0 {
		s.PlaneMirrorMode = PlaneMirrorCeiling
	} else {
		s.PlaneMirrorMode = PlaneMirrorFloor
	}

	s.PlaneMirrorFlag++
	di.SetClipHeight(planeZ, float64(s.PlaneMirrorMode))
	di.SetupView(vp.Pos.X, vp.Pos.Y, vp.Pos.Z, s.MirrorFlag&1 != 0, s.PlaneMirrorFlag&1 != 0)
	p.clearClipper(di, c)

	di.UpdateCurrentMapSection()
	return true
}

func (p *PlaneMirrorPortal) Shutdown(di *DrawInfo) {
	s := p.state
	s.PlaneMirrorFlag--
	s.PlaneMirrorMode = p.oldPlaneMirror
	s.InStack[level.Floor], s.InStack[level.Ceiling] = s.InStack[level.Ceiling], s.InStack[level.Floor]
}

func (p *PlaneMirrorPortal) RenderPortal(attached, useQuery bool, outer *DrawInfo) {
	p.state.renderPortal(p, attached, useQuery, outer)
}

func (p *PlaneMirrorPortal) Name() string {
	if p.origin.C < 0 {
		return "Planemirror ceiling"
	}
	return "Planemirror floor"
}
