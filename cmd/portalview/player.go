package main

import (
	"portal-engine/core"
	"portal-engine/level"
	"portal-engine/math"
)

const (
	ticRate    = 35 // game tics per second
	viewHeight = 41

	moveSpeed = 8  // map units per tic
	turnSpeed = 4  // degrees per tic
	lookSpeed = 2  // degrees per tic
	maxPitch  = 60 // degrees
)

// PlayerController moves the player actor once per tic and keeps it out of
// solid walls. Crossing a linked line portal teleports it to the other side.
type PlayerController struct {
	player *level.Actor
	lvl    *level.Level
}

func NewPlayerController(lvl *level.Level, player *level.Actor) *PlayerController {
	return &PlayerController{player: player, lvl: lvl}
}

// Tic advances the player by one tic using the keys currently held.
func (pc *PlayerController) Tic(window *core.Window) {
	p := pc.player
	p.PrevPos = p.Pos
	p.PrevAngles = p.Angles

	if window.IsKeyPressed(core.KeyLeft) || window.IsKeyPressed(core.KeyQ) {
		p.Angles.Yaw += turnSpeed
	}
	if window.IsKeyPressed(core.KeyRight) || window.IsKeyPressed(core.KeyE) {
		p.Angles.Yaw -= turnSpeed
	}
	if window.IsKeyPressed(core.KeyPageUp) {
		p.Angles.Pitch = min(p.Angles.Pitch+lookSpeed, maxPitch)
	}
	if window.IsKeyPressed(core.KeyPageDown) {
		p.Angles.Pitch = max(p.Angles.Pitch-lookSpeed, -maxPitch)
	}

	yaw := p.Angles.Yaw
	forward := math.Vec2{X: yaw.Cos(), Y: yaw.Sin()}
	right := math.Vec2{X: forward.Y, Y: -forward.X}

	var move math.Vec2
	if window.IsKeyPressed(core.KeyW) || window.IsKeyPressed(core.KeyUp) {
		move = move.Add(forward)
	}
	if window.IsKeyPressed(core.KeyS) || window.IsKeyPressed(core.KeyDown) {
		move = move.Sub(forward)
	}
	if window.IsKeyPressed(core.KeyD) {
		move = move.Add(right)
	}
	if window.IsKeyPressed(core.KeyA) {
		move = move.Sub(right)
	}
	if move.LengthSqr() > 0 {
		pc.tryMove(move.Normalize().Mul(moveSpeed))
	}
}

// tryMove moves the player by delta unless a solid line is in the way.
func (pc *PlayerController) tryMove(delta math.Vec2) {
	p := pc.player
	from := p.Pos.XY()
	to := from.Add(delta)

	for _, line := range pc.lvl.Lines {
		if !crosses(line, from, to) {
			continue
		}
		if line.Portal != nil && line.Portal.Type == level.PortalLinked && line.PointOnSide(from) == 0 {
			pc.teleport(line.Portal, to)
			return
		}
		if line.BackSector == nil || line.Flags&level.LineMirror != 0 {
			return
		}
		other := line.BackSector
		if line.PointOnSide(from) == 1 {
			other = line.FrontSector
		}
		// steps up to 24 units can be climbed
		if other.Floor.ZatPoint(to)-p.Pos.Z > 24 {
			return
		}
	}
	pc.place(to.XYZ(p.Pos.Z))
}

// teleport moves the player through a linked portal. The previous position
// moves along so the view does not interpolate across the map.
func (pc *PlayerController) teleport(lp *level.LinePortal, to math.Vec2) {
	p := pc.player
	p.PrevPos = lp.TranslateVec3(p.PrevPos)
	p.PrevPos.Z = lp.TranslateZ(p.PrevPos.Z)
	p.Angles.Yaw = lp.TranslateAngle(p.Angles.Yaw)
	p.PrevAngles.Yaw = lp.TranslateAngle(p.PrevAngles.Yaw)

	pos := lp.TranslateVec3(to.XYZ(p.Pos.Z))
	pos.Z = lp.TranslateZ(pos.Z)
	pc.place(pos)
}

// place puts the player at pos, standing on the floor of its new sector.
func (pc *PlayerController) place(pos math.Vec3) {
	p := pc.player
	if sub := pc.lvl.PointInSubsector(pos.XY()); sub != nil && sub.Sector != nil {
		p.Sector = sub.Sector
		pos.Z = sub.Sector.Floor.ZatPoint(pos.XY())
	}
	p.Pos = pos
}

// crosses reports whether the move from a to b passes through line.
func crosses(line *level.Line, a, b math.Vec2) bool {
	if line.PointOnSide(a) == line.PointOnSide(b) {
		return false
	}
	d := b.Sub(a)
	return level.PointOnLineSide(line.V1, a, d) != level.PointOnLineSide(line.V2, a, d)
}
