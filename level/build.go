package level

import (
	"portal-engine/math"
)

// The Add* helpers assemble a Level in code. Maps normally come from a node
// builder; these keep tests and the sample maps readable.

// AddSector appends a sector with flat planes.
func (l *Level) AddSector(floorZ, ceilingZ float64) *Sector {
	s := &Sector{
		Index:   len(l.Sectors),
		Floor:   FlatFloor(floorZ),
		Ceiling: FlatCeiling(ceilingZ),
		Light:   1,
	}
	l.Sectors = append(l.Sectors, s)
	return s
}

// AddLine appends a linedef. back may be nil for one-sided walls.
func (l *Level) AddLine(v1, v2 math.Vec2, front, back *Sector) *Line {
	line := &Line{
		Index:       len(l.Lines),
		V1:          v1,
		V2:          v2,
		FrontSector: front,
		BackSector:  back,
	}
	line.Sides[0] = &Side{Sector: front}
	if back != nil {
		line.Sides[1] = &Side{Sector: back}
	}
	l.Lines = append(l.Lines, line)
	return line
}

// AddSubsector appends a convex subsector bounded by the polygon verts in
// clockwise order. Each edge takes its linedef from lines by position; a nil
// entry (or a short slice) produces a miniseg.
func (l *Level) AddSubsector(sector *Sector, mapSection int, verts []math.Vec2, lines ...*Line) *Subsector {
	sub := &Subsector{
		Index:      len(l.Subsectors),
		Sector:     sector,
		MapSection: mapSection,
	}
	for i := range verts {
		seg := &Seg{
			V1:        verts[i],
			V2:        verts[(i+1)%len(verts)],
			Subsector: sub,
		}
		if i < len(lines) {
			seg.Linedef = lines[i]
		}
		sub.Segs = append(sub.Segs, seg)
	}
	if sector != nil {
		sector.Subsectors = append(sector.Subsectors, sub)
	}
	if mapSection >= l.NumMapSections {
		l.NumMapSections = mapSection + 1
	}
	l.Subsectors = append(l.Subsectors, sub)
	return sub
}

// AddNode appends a BSP node and returns a reference to it. Nodes must be
// added children first; the last one added is the root.
func (l *Level) AddNode(start, delta math.Vec2, front, back Child) Child {
	l.Nodes = append(l.Nodes, Node{
		Start:    start,
		Delta:    delta,
		Children: [2]Child{front, back},
	})
	return NodeChild(len(l.Nodes) - 1)
}

// AddActor places an actor, standing still, in the sector at pos.
func (l *Level) AddActor(pos math.Vec3, yaw math.Angle, radius, height float64) *Actor {
	a := &Actor{
		Pos:        pos,
		PrevPos:    pos,
		Angles:     Rotator{Yaw: yaw},
		PrevAngles: Rotator{Yaw: yaw},
		Radius:     radius,
		Height:     height,
	}
	if sub := l.PointInSubsector(pos.XY()); sub != nil {
		a.Sector = sub.Sector
	}
	l.Actors = append(l.Actors, a)
	return a
}
