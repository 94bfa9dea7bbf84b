package main

import (
	"portal-engine/level"
	"portal-engine/math"
)

// Map sections of the sample level.
const (
	sectionHub = iota
	sectionStep
	sectionLinked
	sectionSkybox
	sectionUpper
)

// room is a rectangular sector with its four walls, listed west, north,
// east, south.
type room struct {
	sector *level.Sector
	walls  [4]*level.Line
	sub    *level.Subsector
}

// corners returns the outline of the rectangle x0,y0..x1,y1 clockwise from
// the south-west corner.
func corners(x0, y0, x1, y1 float64) []math.Vec2 {
	return []math.Vec2{{X: x0, Y: y0}, {X: x0, Y: y1}, {X: x1, Y: y1}, {X: x1, Y: y0}}
}

// addRoom builds a room. A non-nil entry in shared is used for that wall
// instead of a new one-sided line.
func addRoom(lvl *level.Level, sec *level.Sector, section int, v []math.Vec2, shared [4]*level.Line) room {
	r := room{sector: sec}
	for i := range v {
		if shared[i] != nil {
			r.walls[i] = shared[i]
			continue
		}
		r.walls[i] = lvl.AddLine(v[i], v[(i+1)%len(v)], sec, nil)
	}
	r.sub = lvl.AddSubsector(sec, section, v, r.walls[:]...)
	return r
}

// buildSampleLevel creates a small map that shows every kind of portal:
//
//   - the hub (0,0)-(512,512) has a mirror on its west wall, a linked line
//     portal in its north wall and a skybox ceiling
//   - a raised room east of the hub whose ceiling is stacked onto an upper
//     room far to the north
//   - the linked room the hub's north wall leads to, with a reflective floor
//   - the skybox room off to the east, seen through the hub's ceiling
//
// It returns the level and the player start.
func buildSampleLevel() (*level.Level, *level.Actor) {
	lvl := &level.Level{}

	hubSec := lvl.AddSector(0, 192)
	stepSec := lvl.AddSector(32, 160)
	linkedSec := lvl.AddSector(0, 192)
	skySec := lvl.AddSector(0, 256)
	upperSec := lvl.AddSector(160, 320)

	hubSec.Light = 0.9
	skySec.Light = 1.2
	upperSec.Light = 0.7

	// two-sided line between the hub and the step room, shared by both
	step := lvl.AddLine(math.Vec2{X: 512, Y: 512}, math.Vec2{X: 512, Y: 0}, hubSec, stepSec)

	hub := addRoom(lvl, hubSec, sectionHub, corners(0, 0, 512, 512), [4]*level.Line{2: step})
	stepRoom := addRoom(lvl, stepSec, sectionStep, corners(512, 0, 1024, 512), [4]*level.Line{0: step})
	linked := addRoom(lvl, linkedSec, sectionLinked, corners(0, 1024, 512, 1536), [4]*level.Line{})
	sky := addRoom(lvl, skySec, sectionSkybox, corners(2048, 0, 2304, 256), [4]*level.Line{})
	upper := addRoom(lvl, upperSec, sectionUpper, corners(512, 2048, 1024, 2560), [4]*level.Line{})

	hub.walls[0].Flags |= level.LineMirror

	// hub north <-> linked south, both ways
	there := &level.LinePortalGroup{Index: 0}
	there.Add(level.NewLinePortal(hub.walls[1], linked.walls[3], level.PortalLinked, level.AlignFloor))
	back := &level.LinePortalGroup{Index: 1}
	back.Add(level.NewLinePortal(linked.walls[3], hub.walls[1], level.PortalLinked, level.AlignFloor))

	linkedSec.Reflect[level.Floor] = true

	up := &level.SectorPortalGroup{Index: 0, Displacement: math.Vec2{Y: 2048}, Plane: level.Ceiling}
	down := &level.SectorPortalGroup{Index: 1, Displacement: math.Vec2{Y: -2048}, Plane: level.Floor}
	stepSec.Stacks[level.Ceiling] = up
	upperSec.Stacks[level.Floor] = down
	stepRoom.sub.PortalCoverage[level.Ceiling] = []int{upper.sub.Index}
	upper.sub.PortalCoverage[level.Floor] = []int{stepRoom.sub.Index}

	// actors find their sector through the BSP
	buildNodes(lvl, hub, stepRoom, linked, sky, upper)

	anchor := lvl.AddActor(math.Vec3{X: 2176, Y: 128, Z: 96}, 0, 0, 0)
	hubSec.Portals[level.Ceiling] = &level.SectorPortal{Skybox: anchor}

	// a few things to look at
	lvl.AddActor(math.Vec3{X: 256, Y: 496}, 0, 20, 56)
	lvl.AddActor(math.Vec3{X: 96, Y: 160}, 0, 16, 56)
	lvl.AddActor(math.Vec3{X: 800, Y: 256, Z: 32}, 0, 20, 64)
	lvl.AddActor(math.Vec3{X: 256, Y: 1280}, 0, 24, 72)
	lvl.AddActor(math.Vec3{X: 768, Y: 2304, Z: 160}, 0, 32, 96)
	lvl.AddActor(math.Vec3{X: 2240, Y: 64}, 0, 24, 160)

	player := lvl.AddActor(math.Vec3{X: 256, Y: 128}, 90, 16, 56)
	return lvl, player
}

// buildNodes partitions the sample level:
//
//	x = 1536      east: skybox room
//	y = 768       south: hub and step room, north: linked and upper rooms
//	x = 512       east: step room, west: hub
//	y = 1792      south: linked room, north: upper room
//
// Partition lines point north or east, so their front (right) side is east
// or south.
func buildNodes(lvl *level.Level, hub, stepRoom, linked, sky, upper room) {
	ss := func(r room) level.Child { return level.SubsectorChild(r.sub.Index) }

	south := lvl.AddNode(math.Vec2{X: 512, Y: 0}, math.Vec2{Y: 1}, ss(stepRoom), ss(hub))
	north := lvl.AddNode(math.Vec2{X: 0, Y: 1792}, math.Vec2{X: 1}, ss(linked), ss(upper))
	rest := lvl.AddNode(math.Vec2{X: 0, Y: 768}, math.Vec2{X: 1}, south, north)
	lvl.AddNode(math.Vec2{X: 1536, Y: 0}, math.Vec2{Y: 1}, ss(sky), rest)
}
