package portal

import (
	"portal-engine/level"
	"portal-engine/math"
)

// SectorStackPortal shows another part of the map stacked above or below
// a sector plane.
type SectorStackPortal struct {
	scenePortal
	origin     *level.SectorPortalGroup
	subsectors []*level.Subsector
}

func NewSectorStackPortal(state *SceneState, origin *level.SectorPortalGroup) *SectorStackPortal {
	p := &SectorStackPortal{origin: origin}
	p.state = state
	return p
}

func (p *SectorStackPortal) Group() *level.SectorPortalGroup { return p.origin }

// AddSubsector records a subsector whose plane shows this portal.
func (p *SectorStackPortal) AddSubsector(sub *level.Subsector) {
	p.subsectors = append(p.subsectors, sub)
}

func (p *SectorStackPortal) Subsectors() []*level.Subsector { return p.subsectors }

func (p *SectorStackPortal) Setup(di *DrawInfo, c Clipper) bool {
	s := p.state
	vp := &di.Viewpoint

	vp.Pos = vp.Pos.AddXY(p.origin.Displacement)
	vp.ActorPos = vp.ActorPos.AddXY(p.origin.Displacement)
	vp.ViewActor = nil

	// a stack must not open itself again inside its own view
	if p.origin.Plane != -1 {
		s.InStack[p.origin.Plane]++
	}

	di.SetupView(vp.Pos.X, vp.Pos.Y, vp.Pos.Z, s.MirrorFlag&1 != 0, s.PlaneMirrorFlag&1 != 0)
	p.setupCoverage(di)
	p.clearClipper(di, c)

	// outside the covered area everything is closed until the covered
	// subsectors reopen their parts during traversal
	sub := di.Level.PointInSubsector(vp.Pos.XY())
	if sub == nil || di.SSRenderFlags[sub.Index]&SSRFSeen == 0 {
		c.RejectRange(0, math.BAMMax)
		c.SetBlocked(true)
	}
	return true
}

func (p *SectorStackPortal) setupCoverage(di *DrawInfo) {
	plane := p.origin.Plane
	if plane >= 0 {
		for _, sub := range p.subsectors {
			for _, idx := range sub.PortalCoverage[plane] {
				dsub := di.Level.Subsectors[idx]
				di.CurrentMapSections.Set(dsub.MapSection)
				di.SSRenderFlags[dsub.Index] |= SSRFSeen
			}
		}
	}
	propagateCoverage(di.Level, di.SSRenderFlags, di.NoRenderFlags)
}

// propagateCoverage sets every node's flag to the union of the seen flags
// of the subsectors below it and returns the root's flag.
func propagateCoverage(lvl *level.Level, ssFlags, nodeFlags []uint8) uint8 {
	if len(lvl.Nodes) == 0 {
		return 0
	}
	type frame struct {
		node     int
		expanded bool
	}
	root := lvl.HeadNode().Index()
	stack := []frame{{node: root}}

	for len(stack) > 0 {
		top := len(stack) - 1
		f := stack[top]
		n := &lvl.Nodes[f.node]

		if !f.expanded {
			stack[top].expanded = true
			for _, c := range n.Children {
				if !c.IsSubsector() {
					stack = append(stack, frame{node: c.Index()})
				}
			}
			continue
		}

		stack = stack[:top]
		var coverage uint8
		for _, c := range n.Children {
			if c.IsSubsector() {
				coverage |= ssFlags[c.Index()] & SSRFSeen
			} else {
				coverage |= nodeFlags[c.Index()]
			}
		}
		nodeFlags[f.node] = coverage
	}
	return nodeFlags[root]
}

func (p *SectorStackPortal) Shutdown(di *DrawInfo) {
	if p.origin.Plane != -1 {
		p.state.InStack[p.origin.Plane]--
	}
}

func (p *SectorStackPortal) RenderPortal(attached, useQuery bool, outer *DrawInfo) {
	p.state.renderPortal(p, attached, useQuery, outer)
}

func (p *SectorStackPortal) Name() string { return "Sectorstack" }
func (p *SectorStackPortal) IsSky() bool  { return true }
