package level

import (
	"portal-engine/math"
)

// Child references a BSP child: a node index, or a subsector index when
// SubsectorFlag is set (the deep-nodes encoding).
type Child uint32

const SubsectorFlag Child = 1 << 31

func NodeChild(i int) Child       { return Child(i) }
func SubsectorChild(i int) Child  { return Child(i) | SubsectorFlag }
func (c Child) IsSubsector() bool { return c&SubsectorFlag != 0 }
func (c Child) Index() int        { return int(c &^ SubsectorFlag) }

// Node is a BSP partition. Children[0] is the front (right) side.
type Node struct {
	Start    math.Vec2
	Delta    math.Vec2
	Children [2]Child
}

// Side returns which child of n contains p.
func (n *Node) Side(p math.Vec2) int {
	return PointOnLineSide(p, n.Start, n.Delta)
}

// Level is one loaded map.
type Level struct {
	Lines          []*Line
	Sectors        []*Sector
	Subsectors     []*Subsector
	Nodes          []Node
	NumMapSections int
	Actors         []*Actor
}

// HeadNode returns the root of the BSP. Maps with a single subsector have
// no nodes at all.
func (l *Level) HeadNode() Child {
	if len(l.Nodes) == 0 {
		return SubsectorChild(0)
	}
	return NodeChild(len(l.Nodes) - 1)
}

// PointInSubsector walks the BSP down to the subsector containing p.
func (l *Level) PointInSubsector(p math.Vec2) *Subsector {
	if len(l.Subsectors) == 0 {
		return nil
	}
	c := l.HeadNode()
	for !c.IsSubsector() {
		n := &l.Nodes[c.Index()]
		c = n.Children[n.Side(p)]
	}
	return l.Subsectors[c.Index()]
}
