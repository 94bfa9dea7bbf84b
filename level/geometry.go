// Package level holds the map-space model the portal renderer reads: lines,
// segs, subsectors, sectors with sloped planes, a BSP tree stored as an arena,
// and the portal links between them.
package level

import (
	"portal-engine/math"
)

// EqualEpsilon is the tolerance of the precise side tests (1/65536, one unit
// of the fixed-point coordinates maps are authored in).
const EqualEpsilon = 1.0 / 65536

// Plane indices into per-plane arrays.
const (
	Floor   = 0
	Ceiling = 1
)

// SideFlags are per-sidedef wall flags.
type SideFlags uint32

const (
	// WallPolyobj marks a sidedef belonging to a polyobject. Such walls move,
	// so their front sector says nothing about where they currently are.
	WallPolyobj SideFlags = 1 << iota
)

type Side struct {
	Flags  SideFlags
	Sector *Sector
}

// LineFlags are per-linedef render flags.
type LineFlags uint32

const (
	// LineMirror reflects the view across the line.
	LineMirror LineFlags = 1 << iota
)

// Line is a linedef.
type Line struct {
	Index       int
	V1, V2      math.Vec2
	Flags       LineFlags
	Sides       [2]*Side
	FrontSector *Sector
	BackSector  *Sector
	Portal      *LinePortal
}

func (l *Line) Delta() math.Vec2 {
	return l.V2.Sub(l.V1)
}

// PortalDestination returns the line on the other end of l's portal, or nil.
func (l *Line) PortalDestination() *Line {
	if l.Portal == nil {
		return nil
	}
	return l.Portal.Destination
}

// Seg is a piece of a subsector boundary. Linedef is nil for minisegs.
type Seg struct {
	V1, V2    math.Vec2
	Linedef   *Line
	Subsector *Subsector
}

type Subsector struct {
	Index      int
	Sector     *Sector
	Segs       []*Seg
	MapSection int
	// PortalCoverage lists, per plane, the subsectors a sector stack portal
	// starting in this subsector can see on the other side.
	PortalCoverage [2][]int
}

// Plane is a sector floor or ceiling: A*x + B*y + C*z + D = 0. C is positive
// for floors (normal pointing up) and negative for ceilings.
type Plane struct {
	A, B, C, D float64
}

// FlatFloor returns a horizontal floor plane at height z.
func FlatFloor(z float64) Plane {
	return Plane{C: 1, D: -z}
}

// FlatCeiling returns a horizontal ceiling plane at height z.
func FlatCeiling(z float64) Plane {
	return Plane{C: -1, D: z}
}

// ZatPoint returns the plane height above p.
func (p Plane) ZatPoint(pos math.Vec2) float64 {
	return -(p.D + p.A*pos.X + p.B*pos.Y) / p.C
}

// Area classifies a viewpoint against a sector's height-transfer sector.
type Area int

const (
	AreaDefault Area = iota
	AreaBelow
	AreaAbove
)

type Sector struct {
	Index      int
	Floor      Plane
	Ceiling    Plane
	Subsectors []*Subsector
	// HeightSec is the control sector of a Boom-style deep water effect.
	HeightSec *Sector
	// Portals holds the sky viewpoint of each plane, if any.
	Portals [2]*SectorPortal
	// Stacks holds the stacked-sector group each plane shows, if any.
	Stacks [2]*SectorPortalGroup
	// Reflect marks planes that mirror the view.
	Reflect [2]bool
	// Light scales the sector's colors, 1 is fullbright.
	Light float32
}

// AreaAt returns which part of a height-transfer sector pos is in.
func (s *Sector) AreaAt(pos math.Vec3) Area {
	if s.HeightSec == nil {
		return AreaDefault
	}
	xy := pos.XY()
	if pos.Z <= s.HeightSec.Floor.ZatPoint(xy) {
		return AreaBelow
	}
	if pos.Z > s.HeightSec.Ceiling.ZatPoint(xy) {
		return AreaAbove
	}
	return AreaDefault
}

// PointOnLineSide returns 0 when p is on the front (right) side of the line
// from v1 to v2 or within EqualEpsilon of it, 1 when it is behind.
func PointOnLineSide(p, v1, delta math.Vec2) int {
	if (p.Y-v1.Y)*delta.X+(v1.X-p.X)*delta.Y > EqualEpsilon {
		return 1
	}
	return 0
}

// PointOnSide runs the precise side test against a linedef.
func (l *Line) PointOnSide(p math.Vec2) int {
	return PointOnLineSide(p, l.V1, l.Delta())
}

// ClipLineToPortal reports whether line lies entirely between the viewer and
// portal, which makes it invisible through the portal.
func ClipLineToPortal(line, portal *Line, view math.Vec2) bool {
	behind1 := portal.PointOnSide(line.V1)
	behind2 := portal.PointOnSide(line.V2)

	if behind1 == 1 && behind2 == 1 {
		return true
	}
	if behind1 == 0 && behind2 == 0 {
		return false
	}

	// line straddles the portal's straight: it can only be hidden if both
	// portal ends are on the far side of it from the viewer
	viewSide := line.PointOnSide(view)
	p1Side := line.PointOnSide(portal.V1)
	p2Side := line.PointOnSide(portal.V2)
	return p1Side == p2Side && viewSide != p1Side
}
