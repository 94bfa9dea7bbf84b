package portal

import (
	"portal-engine/level"
)

// skyboxPlaneMargin keeps the skybox eye this far from the anchor sector's
// floor and ceiling.
const skyboxPlaneMargin = 4

// SkyboxPortal renders the view from a sky viewpoint actor, rotated with
// the player's view.
type SkyboxPortal struct {
	scenePortal
	portal *level.SectorPortal

	oldPlaneMirror PlaneMirrorMode
	oldClamp       bool
}

func NewSkyboxPortal(state *SceneState, portal *level.SectorPortal) *SkyboxPortal {
	p := &SkyboxPortal{portal: portal}
	p.state = state
	return p
}

func (p *SkyboxPortal) SectorPortal() *level.SectorPortal { return p.portal }

func (p *SkyboxPortal) Setup(di *DrawInfo, c Clipper) bool {
	s := p.state
	p.oldPlaneMirror = s.PlaneMirrorMode

	if s.SkyboxRecursion >= MaxSkyboxRecursion {
		return false
	}
	vp := &di.Viewpoint

	s.SkyboxRecursion++
	s.PlaneMirrorMode = PlaneMirrorNone
	s.InSkybox = true

	origin := p.portal.Skybox
	p.portal.Flags |= level.InSkybox
	vp.ExtraLight = 0

	p.oldClamp = di.SetDepthClamp(false)
	vp.Pos = origin.InterpolatedPosition(vp.TicFrac)
	vp.ActorPos = origin.Pos
	vp.Angles.Yaw += origin.InterpolatedYaw(vp.TicFrac)

	if origin.Sector != nil {
		xy := origin.Pos.XY()
		floorZ := origin.Sector.Floor.ZatPoint(xy)
		ceilZ := origin.Sector.Ceiling.ZatPoint(xy)
		if vp.Pos.Z < floorZ+skyboxPlaneMargin {
			vp.Pos.Z = floorZ + skyboxPlaneMargin
		}
		if vp.Pos.Z > ceilZ-skyboxPlaneMargin {
			vp.Pos.Z = ceilZ - skyboxPlaneMargin
		}
	}

	vp.ViewActor = origin

	di.SetupView(vp.Pos.X, vp.Pos.Y, vp.Pos.Z, s.MirrorFlag&1 != 0, s.PlaneMirrorFlag&1 != 0)
	di.SetViewArea()
	p.clearClipper(di, c)
	di.UpdateCurrentMapSection()
	return true
}

func (p *SkyboxPortal) Shutdown(di *DrawInfo) {
	s := p.state
	p.portal.Flags &^= level.InSkybox
	di.SetDepthClamp(p.oldClamp)
	s.InSkybox = false
	s.SkyboxRecursion--
	s.PlaneMirrorMode = p.oldPlaneMirror
}

func (p *SkyboxPortal) RenderPortal(attached, useQuery bool, outer *DrawInfo) {
	p.state.renderPortal(p, attached, useQuery, outer)
}

func (p *SkyboxPortal) Name() string { return "Skybox" }
func (p *SkyboxPortal) IsSky() bool  { return true }

