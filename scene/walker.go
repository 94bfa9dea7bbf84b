// Package scene walks the BSP of a level for one render context. It draws
// the walls, flats and actors it can see and turns portal surfaces into
// queued portals, which the portal package then renders as sub-views.
package scene

import (
	"portal-engine/clipper"
	"portal-engine/level"
	"portal-engine/math"
	"portal-engine/portal"
)

// Drawer puts a render context's geometry on screen.
type Drawer interface {
	// Draw renders list with the view set up for di.
	Draw(di *portal.DrawInfo, list *DrawList)
	// DrawSky fills whatever di left undrawn with the sky backdrop.
	DrawSky(di *portal.DrawInfo)
}

// Stats counts what the walker produced since the last ResetStats.
type Stats struct {
	Contexts   int
	Subsectors int
	Walls      int
	Flats      int
	Sprites    int
	Portals    int
	// MaxDepth is the deepest portal recursion drawn.
	MaxDepth   int
}

// sceneClipper is what the walker needs from the clipper it creates.
type sceneClipper interface {
	portal.Clipper
	IsRangeVisible(start, end math.BAM) bool
	IsBlocked() bool
}

type sprite struct {
	pos            math.Vec3
	radius, height float64
}

// Walker implements the scene half of portal.Backend.
type Walker struct {
	drawer Drawer
	// pending holds actors injected by line portals before the context's
	// own scene is drawn.
	pending map[*portal.DrawInfo][]sprite
	stats   Stats
}

func NewWalker(drawer Drawer) *Walker {
	return &Walker{
		drawer:  drawer,
		pending: make(map[*portal.DrawInfo][]sprite),
	}
}

func (w *Walker) Stats() Stats { return w.stats }

func (w *Walker) ResetStats() { w.stats = Stats{} }

func (w *Walker) NewClipper() portal.Clipper {
	return clipper.New()
}

// DrawScene renders di and every portal found in it.
func (w *Walker) DrawScene(di *portal.DrawInfo) {
	w.stats.Contexts++
	w.stats.MaxDepth = max(w.stats.MaxDepth, di.Depth())
	wk := w.newWalk(di)

	di.State.Frame(di, func() {
		// already moved through the portal, so not subject to its clipping
		for _, s := range w.pending[di] {
			wk.addSprite(s.pos, s.radius, s.height, false)
		}
		delete(w.pending, di)

		if len(di.Level.Subsectors) > 0 {
			wk.renderNode(di.Level.HeadNode())
		}
		di.State.RenderFirstSkyPortal(di.Depth(), di)
		w.drawer.Draw(di, wk.list)
		w.drawer.DrawSky(di)
	})
}

// ProcessActorsInPortal injects the actors overlapping the origin lines of
// group into di, moved to the other side of the portal.
func (w *Walker) ProcessActorsInPortal(group *level.LinePortalGroup, area level.Area, di *portal.DrawInfo) {
	vp := &di.Viewpoint
	for _, lp := range group.Lines {
		for _, a := range di.Level.Actors {
			if a == vp.ViewActor {
				continue
			}
			pos := a.InterpolatedPosition(vp.TicFrac)
			if a.Sector != nil && a.Sector.HeightSec != nil && a.Sector.AreaAt(pos) != area {
				continue
			}
			if segmentDistance(pos.XY(), lp.Origin.V1, lp.Origin.V2) > a.Radius {
				continue
			}
			moved := lp.TranslateVec3(pos)
			moved.Z = lp.TranslateZ(pos.Z)
			w.pending[di] = append(w.pending[di], sprite{pos: moved, radius: a.Radius, height: a.Height})
		}
	}
}

// walk is the state of one DrawScene.
type walk struct {
	w    *Walker
	di   *portal.DrawInfo
	clip sceneClipper
	list *DrawList
	view math.Vec3

	sectors      map[*level.Sector]bool
	mirrors      map[*level.Line]*portal.MirrorPortal
	lineGroups   map[*level.LinePortalGroup]*portal.LineToLinePortal
	skyboxes     map[*level.SectorPortal]*portal.SkyboxPortal
	stacks       map[*level.SectorPortalGroup]*portal.SectorStackPortal
	planeMirrors map[level.Plane]*portal.PlaneMirrorPortal
}

func (w *Walker) newWalk(di *portal.DrawInfo) *walk {
	return &walk{
		w:            w,
		di:           di,
		clip:         di.Clipper.(sceneClipper),
		list:         &DrawList{},
		view:         di.Viewpoint.Pos,
		sectors:      make(map[*level.Sector]bool),
		mirrors:      make(map[*level.Line]*portal.MirrorPortal),
		lineGroups:   make(map[*level.LinePortalGroup]*portal.LineToLinePortal),
		skyboxes:     make(map[*level.SectorPortal]*portal.SkyboxPortal),
		stacks:       make(map[*level.SectorPortalGroup]*portal.SectorStackPortal),
		planeMirrors: make(map[level.Plane]*portal.PlaneMirrorPortal),
	}
}

// renderNode visits the subsectors below c front to back.
func (wk *walk) renderNode(c level.Child) {
	lvl := wk.di.Level
	for !c.IsSubsector() {
		n := &lvl.Nodes[c.Index()]
		side := n.Side(wk.view.XY())
		wk.renderNode(n.Children[side])

		back := n.Children[side^1]
		if wk.clip.IsBlocked() && !wk.covered(back) {
			return
		}
		c = back
	}
	wk.doSubsector(lvl.Subsectors[c.Index()])
}

// covered reports whether a sector stack marked anything below c as seen.
func (wk *walk) covered(c level.Child) bool {
	if c.IsSubsector() {
		return wk.di.SSRenderFlags[c.Index()]&portal.SSRFSeen != 0
	}
	return wk.di.NoRenderFlags[c.Index()]&portal.SSRFSeen != 0
}

func (wk *walk) doSubsector(sub *level.Subsector) {
	di := wk.di
	if !di.CurrentMapSections.Test(sub.MapSection) {
		return
	}
	if di.ClipPortal != nil && di.ClipPortal.ClipSubsector(sub) == portal.ClipInFront {
		return
	}
	if di.SSRenderFlags[sub.Index]&portal.SSRFSeen != 0 {
		wk.unclipSubsector(sub)
	}
	if wk.clip.IsBlocked() || !wk.subsectorVisible(sub) {
		return
	}
	wk.w.stats.Subsectors++

	if sec := sub.Sector; sec != nil {
		wk.addPlane(sub, sec, level.Floor)
		wk.addPlane(sub, sec, level.Ceiling)
		wk.addSprites(sec)
	}
	for _, seg := range sub.Segs {
		wk.addSeg(seg)
	}
}

// unclipSubsector opens the directions of a subsector seen through a
// sector stack so the walk can continue into it.
func (wk *walk) unclipSubsector(sub *level.Subsector) {
	for _, seg := range sub.Segs {
		if !wk.facing(seg) {
			continue
		}
		start, end := wk.segAngles(seg)
		wk.clip.AcceptRange(start, end)
		wk.clip.SetBlocked(false)
	}
}

func (wk *walk) subsectorVisible(sub *level.Subsector) bool {
	for _, seg := range sub.Segs {
		if !wk.facing(seg) {
			continue
		}
		if wk.clip.IsRangeVisible(wk.segAngles(seg)) {
			return true
		}
	}
	return false
}

func (wk *walk) facing(seg *level.Seg) bool {
	return level.PointOnLineSide(wk.view.XY(), seg.V1, seg.V2.Sub(seg.V1)) == 0
}

// segAngles returns the clip range of seg, counter-clockwise from its end
// vertex to its start vertex.
func (wk *walk) segAngles(seg *level.Seg) (start, end math.BAM) {
	o := wk.view.XY()
	return seg.V2.Sub(o).Angle().BAMs(), seg.V1.Sub(o).Angle().BAMs()
}

func planeHeights(p level.Plane, v1, v2 math.Vec2) [2]float64 {
	return [2]float64{p.ZatPoint(v1), p.ZatPoint(v2)}
}

func (wk *walk) addSeg(seg *level.Seg) {
	line := seg.Linedef
	if line == nil || !wk.facing(seg) {
		return
	}
	start, end := wk.segAngles(seg)
	if !wk.clip.IsRangeVisible(start, end) {
		return
	}
	di := wk.di
	if di.ClipPortal != nil && di.ClipPortal.ClipSeg(seg, wk.view) == portal.ClipInFront {
		return
	}

	front := seg.Subsector.Sector
	if front == nil {
		return
	}
	floor := planeHeights(front.Floor, seg.V1, seg.V2)
	ceiling := planeHeights(front.Ceiling, seg.V1, seg.V2)

	switch {
	case line.Flags&level.LineMirror != 0 && line != di.ClipLine:
		wk.mirror(line).AddLine(wallBoundary(seg, floor, ceiling))
		wk.clip.RejectRange(start, end)

	case line.Portal != nil && line.Portal.Group != nil && line.Portal.Type != level.PortalTeleport:
		wk.lineGroup(line.Portal.Group).AddLine(wallBoundary(seg, floor, ceiling))
		wk.clip.RejectRange(start, end)

	case line.BackSector == nil:
		wk.list.AddWall(seg.V1, seg.V2, floor, ceiling, wallColor(line.Index).Scale(front.Light))
		wk.w.stats.Walls++
		wk.clip.RejectRange(start, end)

	default:
		other := line.BackSector
		if other == front {
			other = line.FrontSector
		}
		oFloor := planeHeights(other.Floor, seg.V1, seg.V2)
		oCeiling := planeHeights(other.Ceiling, seg.V1, seg.V2)
		col := wallColor(line.Index).Scale(front.Light)

		if oFloor[0] > floor[0] || oFloor[1] > floor[1] {
			wk.list.AddWall(seg.V1, seg.V2, floor, oFloor, col)
			wk.w.stats.Walls++
		}
		if oCeiling[0] < ceiling[0] || oCeiling[1] < ceiling[1] {
			wk.list.AddWall(seg.V1, seg.V2, oCeiling, ceiling, col)
			wk.w.stats.Walls++
		}
		if closed(floor, ceiling, oFloor, oCeiling) {
			wk.clip.RejectRange(start, end)
		}
	}
}

// closed reports whether nothing can be seen through a two-sided line.
func closed(floor, ceiling, oFloor, oCeiling [2]float64) bool {
	for i := 0; i < 2; i++ {
		top := min(ceiling[i], oCeiling[i])
		bottom := max(floor[i], oFloor[i])
		if top > bottom {
			return false
		}
	}
	return true
}

func wallBoundary(seg *level.Seg, floor, ceiling [2]float64) portal.Boundary {
	return portal.Boundary{
		V1:      seg.V1,
		V2:      seg.V2,
		ZBottom: floor,
		ZTop:    ceiling,
		Seg:     seg,
	}
}

func (wk *walk) addPlane(sub *level.Subsector, sec *level.Sector, plane int) {
	p := sec.Floor
	if plane == level.Ceiling {
		p = sec.Ceiling
	}
	z := p.ZatPoint(wk.view.XY())
	if plane == level.Floor && wk.view.Z <= z || plane == level.Ceiling && wk.view.Z >= z {
		return
	}
	poly := flatPolygon(sub, p, plane)
	state := wk.di.State

	switch {
	case sec.Portals[plane] != nil && sec.Portals[plane].Skybox != nil && sec.Portals[plane].Flags&level.InSkybox == 0:
		addFlatBoundary(wk.skybox(sec.Portals[plane]), sub, poly)

	case sec.Stacks[plane] != nil && state.InStack[1-plane] == 0:
		sp := wk.stack(sec.Stacks[plane])
		sp.AddSubsector(sub)
		addFlatBoundary(sp, sub, poly)

	case sec.Reflect[plane] && int(state.PlaneMirrorMode)*planeSign(p) <= 0:
		addFlatBoundary(wk.planeMirror(p), sub, poly)

	default:
		col := floorColor
		if plane == level.Ceiling {
			col = ceilingColor
		}
		wk.list.AddFan(poly, col.Scale(sec.Light))
		wk.w.stats.Flats++
	}
}

func planeSign(p level.Plane) int {
	if p.C > 0 {
		return 1
	}
	return -1
}

// flatPolygon lifts the outline of sub onto p, wound counter-clockwise as
// seen from the side the plane faces.
func flatPolygon(sub *level.Subsector, p level.Plane, plane int) []math.Vec3 {
	n := len(sub.Segs)
	poly := make([]math.Vec3, n)
	for i, seg := range sub.Segs {
		j := i
		if plane == level.Floor {
			// outlines run clockwise seen from above
			j = n - 1 - i
		}
		poly[j] = seg.V1.XYZ(p.ZatPoint(seg.V1))
	}
	return poly
}

func addFlatBoundary(p portal.Portal, sub *level.Subsector, poly []math.Vec3) {
	for i, seg := range sub.Segs {
		b := portal.Boundary{V1: seg.V1, V2: seg.V2, Seg: seg}
		if i == 0 {
			b.Flat = poly
		}
		p.AddLine(b)
	}
}

func (wk *walk) addSprites(sec *level.Sector) {
	if wk.sectors[sec] {
		return
	}
	wk.sectors[sec] = true

	vp := &wk.di.Viewpoint
	for _, a := range wk.di.Level.Actors {
		if a.Sector != sec || a == vp.ViewActor {
			continue
		}
		pos := a.InterpolatedPosition(vp.TicFrac)
		// the camera is hidden where it stands, but shows up once a
		// portal has moved the view away from it
		if a == vp.Camera && !vp.ShowViewer &&
			(a.RenderFlags&level.MaybeInvisible != 0 || pos.XY().Sub(vp.ActorPos.XY()).Length() < 2) {
			continue
		}
		wk.addSprite(pos, a.Radius, a.Height, true)
	}
}

// addSprite draws an actor as an upright quad facing the viewer.
func (wk *walk) addSprite(pos math.Vec3, radius, height float64, clip bool) {
	if cp := wk.di.ClipPortal; clip && cp != nil && cp.ClipPoint(pos.XY()) == portal.ClipInFront {
		return
	}
	d := pos.XY().Sub(wk.view.XY())
	if d.LengthSqr() == 0 {
		return
	}
	d = d.Normalize()
	right := math.Vec2{X: d.Y, Y: -d.X}.Mul(radius)
	l := pos.XY().Sub(right)
	r := pos.XY().Add(right)
	wk.list.AddQuad(l.XYZ(pos.Z), r.XYZ(pos.Z), r.XYZ(pos.Z+height), l.XYZ(pos.Z+height), actorColor)
	wk.w.stats.Sprites++
}

func (wk *walk) queue(p portal.Portal) {
	wk.di.AddPortal(p)
	wk.w.stats.Portals++
}

func (wk *walk) mirror(line *level.Line) *portal.MirrorPortal {
	p, ok := wk.mirrors[line]
	if !ok {
		p = portal.NewMirrorPortal(wk.di.State, line)
		wk.mirrors[line] = p
		wk.queue(p)
	}
	return p
}

func (wk *walk) lineGroup(group *level.LinePortalGroup) *portal.LineToLinePortal {
	p, ok := wk.lineGroups[group]
	if !ok {
		p = portal.NewLineToLinePortal(wk.di.State, group)
		wk.lineGroups[group] = p
		wk.queue(p)
	}
	return p
}

func (wk *walk) skybox(sp *level.SectorPortal) *portal.SkyboxPortal {
	p, ok := wk.skyboxes[sp]
	if !ok {
		p = portal.NewSkyboxPortal(wk.di.State, sp)
		wk.skyboxes[sp] = p
		wk.queue(p)
	}
	return p
}

func (wk *walk) stack(group *level.SectorPortalGroup) *portal.SectorStackPortal {
	p, ok := wk.stacks[group]
	if !ok {
		p = portal.NewSectorStackPortal(wk.di.State, group)
		wk.stacks[group] = p
		wk.queue(p)
	}
	return p
}

func (wk *walk) planeMirror(plane level.Plane) *portal.PlaneMirrorPortal {
	p, ok := wk.planeMirrors[plane]
	if !ok {
		p = portal.NewPlaneMirrorPortal(wk.di.State, plane)
		wk.planeMirrors[plane] = p
		wk.queue(p)
	}
	return p
}

// segmentDistance is the distance from p to the segment v1..v2.
func segmentDistance(p, v1, v2 math.Vec2) float64 {
	d := v2.Sub(v1)
	lenSqr := d.LengthSqr()
	if lenSqr == 0 {
		return p.Sub(v1).Length()
	}
	t := p.Sub(v1).Dot(d) / lenSqr
	t = max(0, min(1, t))
	return p.Sub(v1.Add(d.Mul(t))).Length()
}
