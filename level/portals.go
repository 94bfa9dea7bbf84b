package level

import (
	"portal-engine/math"
)

type LinePortalType int

const (
	PortalVisual LinePortalType = iota
	PortalTeleport
	PortalInteractive
	PortalLinked
)

// Alignment selects which plane heights a line portal keeps aligned.
type Alignment int

const (
	AlignNone Alignment = iota
	AlignFloor
	AlignCeiling
)

// LinePortal links the back side of Origin to the front of Destination.
type LinePortal struct {
	Origin      *Line
	Destination *Line
	Type        LinePortalType
	Align       Alignment
	AngleDiff   math.Angle
	Group       *LinePortalGroup

	sinRot, cosRot float64
}

// NewLinePortal links origin to destination and registers the portal on
// origin. The destination is entered facing out of its front side.
func NewLinePortal(origin, destination *Line, typ LinePortalType, align Alignment) *LinePortal {
	p := &LinePortal{
		Origin:      origin,
		Destination: destination,
		Type:        typ,
		Align:       align,
	}
	p.AngleDiff = (destination.Delta().Angle() - origin.Delta().Angle() + 180).Normalized180()
	p.sinRot = p.AngleDiff.Sin()
	p.cosRot = p.AngleDiff.Cos()
	origin.Portal = p
	return p
}

// TranslateXY maps a point near the origin line to the same spot relative to
// the destination line.
func (p *LinePortal) TranslateXY(pos math.Vec2) math.Vec2 {
	if p == nil {
		return pos
	}
	n := pos.Sub(p.Origin.V1)
	t := math.Vec2{
		X: n.X*p.cosRot - n.Y*p.sinRot,
		Y: n.Y*p.cosRot + n.X*p.sinRot,
	}
	return t.Add(p.Destination.V2)
}

// TranslateVec3 translates the horizontal part of pos.
func (p *LinePortal) TranslateVec3(pos math.Vec3) math.Vec3 {
	return p.TranslateXY(pos.XY()).XYZ(pos.Z)
}

func (p *LinePortal) TranslateAngle(a math.Angle) math.Angle {
	if p == nil {
		return a
	}
	return a + p.AngleDiff
}

// TranslateZ keeps a height relative to the aligned plane.
func (p *LinePortal) TranslateZ(z float64) float64 {
	if p == nil {
		return z
	}
	src, dst := p.Origin, p.Destination
	switch p.Align {
	case AlignFloor:
		return z - src.FrontSector.Floor.ZatPoint(src.V1) + dst.FrontSector.Floor.ZatPoint(dst.V2)
	case AlignCeiling:
		return z - src.FrontSector.Ceiling.ZatPoint(src.V1) + dst.FrontSector.Ceiling.ZatPoint(dst.V2)
	}
	return z
}

// LinePortalGroup is a set of collinear line portals sharing one transform,
// rendered as a single portal.
type LinePortalGroup struct {
	Index int
	Lines []*LinePortal
}

// Add appends a portal and points it back at the group.
func (g *LinePortalGroup) Add(p *LinePortal) {
	p.Group = g
	g.Lines = append(g.Lines, p)
}

// SectorPortalGroup is a set of stacked-sector portals sharing one
// displacement.
type SectorPortalGroup struct {
	Index        int
	Displacement math.Vec2
	// Plane is Floor, Ceiling or -1 when the group is not tied to a plane.
	Plane int
}

type SectorPortalFlags uint32

const (
	// InSkybox is set while the skybox's own interior is being rendered so
	// the scene walker does not open the same skybox again inside it.
	InSkybox SectorPortalFlags = 1 << iota
)

// SectorPortal is a sky viewpoint attached to a sector plane.
type SectorPortal struct {
	Skybox *Actor
	Flags  SectorPortalFlags
}
