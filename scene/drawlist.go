package scene

import (
	"portal-engine/math"
	"portal-engine/portal"
)

// Vertex is a map-space vertex of flat shaded geometry.
type Vertex struct {
	Position math.Vec3
	Color    Color
}

// DrawList holds the triangles of one render context until the backend
// draws them with that context's view.
type DrawList struct {
	Vertices []Vertex
}

// AddQuad appends the quad a, b, c, d given counter-clockwise as seen from
// its front.
func (l *DrawList) AddQuad(a, b, c, d math.Vec3, col Color) {
	l.Vertices = append(l.Vertices,
		Vertex{a, col}, Vertex{b, col}, Vertex{c, col},
		Vertex{c, col}, Vertex{d, col}, Vertex{a, col},
	)
}

// AddFan triangulates the convex polygon poly around its first vertex.
func (l *DrawList) AddFan(poly []math.Vec3, col Color) {
	for i := 2; i < len(poly); i++ {
		l.Vertices = append(l.Vertices, Vertex{poly[0], col}, Vertex{poly[i-1], col}, Vertex{poly[i], col})
	}
}

// AddWall appends the wall between bottom and top heights over v1..v2.
// Index 0 of the height pairs is the v1 end. Zero height walls are dropped.
func (l *DrawList) AddWall(v1, v2 math.Vec2, bottom, top [2]float64, col Color) {
	if top[0] <= bottom[0] && top[1] <= bottom[1] {
		return
	}
	l.AddQuad(v1.XYZ(bottom[0]), v2.XYZ(bottom[1]), v2.XYZ(top[1]), v1.XYZ(top[0]), col)
}

func (l *DrawList) Len() int { return len(l.Vertices) }

func (l *DrawList) Reset() { l.Vertices = l.Vertices[:0] }

// BoundaryList builds the surface of a portal from its boundary lines, for
// stencil and depth passes.
func BoundaryList(p portal.Portal) *DrawList {
	list := &DrawList{}
	for _, b := range p.Lines() {
		if b.Flat != nil {
			list.AddFan(b.Flat, ColorWhite)
			continue
		}
		list.AddWall(b.V1, b.V2, b.ZBottom, b.ZTop, ColorWhite)
	}
	return list
}
