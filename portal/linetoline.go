package portal

import (
	"portal-engine/level"
)

// LineToLinePortal shows the view through a linked line portal group.
type LineToLinePortal struct {
	linePortal
	group *level.LinePortalGroup
}

// NewLineToLinePortal creates the portal for group. The clip line is the
// destination of the group's first portal.
func NewLineToLinePortal(state *SceneState, group *level.LinePortalGroup) *LineToLinePortal {
	p := &LineToLinePortal{group: group}
	p.state = state
	p.line = group.Lines[0].Destination
	return p
}

func (p *LineToLinePortal) Group() *level.LinePortalGroup { return p.group }

func (p *LineToLinePortal) Setup(di *DrawInfo, c Clipper) bool {
	s := p.state
	if s.RenderDepth > s.cfg.MirrorRecursions {
		return false
	}
	vp := &di.Viewpoint
	di.ClipPortal = p

	origin := p.group.Lines[0]
	vp.Pos = origin.TranslateVec3(vp.Pos)
	vp.ActorPos = origin.TranslateVec3(vp.ActorPos)
	vp.Angles.Yaw = origin.TranslateAngle(vp.Angles.Yaw)
	vp.Pos.Z = origin.TranslateZ(vp.Pos.Z)
	vp.Path[0] = origin.TranslateVec3(vp.Path[0])
	vp.Path[1] = origin.TranslateVec3(vp.Path[1])

	dest := p.line
	if !vp.ShowViewer && vp.Camera != nil &&
		dest.PointOnSide(vp.Path[0].XY()) != dest.PointOnSide(vp.Path[1].XY()) {
		distp := vp.Path[0].Distance(vp.Path[1])
		if distp > level.EqualEpsilon {
			dist1 := vp.Pos.Distance(vp.Path[0])
			dist2 := vp.Pos.Distance(vp.Path[1])
			// the camera is on its path right at the crossing and would
			// otherwise be seen from inside
			if dist1+dist2 < distp+1 {
				vp.Camera.RenderFlags |= level.MaybeInvisible
			}
		}
	}

	for _, b := range p.lines {
		if b.Seg == nil || b.Seg.Linedef == nil {
			continue
		}
		line := b.Seg.Linedef.PortalDestination()
		if line == nil {
			continue
		}
		var sub *level.Subsector
		if line.Sides[0] != nil && line.Sides[0].Flags&level.WallPolyobj != 0 {
			sub = di.Level.PointInSubsector(line.V1)
		} else if line.FrontSector != nil && len(line.FrontSector.Subsectors) > 0 {
			sub = line.FrontSector.Subsectors[0]
		}
		if sub != nil {
			di.CurrentMapSections.Set(sub.MapSection)
		}
	}

	vp.ViewActor = nil
	di.SetClipLine(dest)
	di.SetupView(vp.Pos.X, vp.Pos.Y, vp.Pos.Z, s.MirrorFlag&1 != 0, s.PlaneMirrorFlag&1 != 0)

	p.clearClipper(di, c)
	return true
}

// RenderAttached lets actors standing in the portal's source area show up
// on the far side.
func (p *LineToLinePortal) RenderAttached(di *DrawInfo) {
	di.backend.ProcessActorsInPortal(p.group, di.InArea, di)
}

func (p *LineToLinePortal) RenderPortal(attached, useQuery bool, outer *DrawInfo) {
	p.state.renderPortal(p, attached, useQuery, outer)
}

func (p *LineToLinePortal) Name() string { return "LineToLine" }
