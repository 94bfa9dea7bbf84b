package level

import (
	"portal-engine/math"
)

type RenderFlags uint32

const (
	// MaybeInvisible hints that the actor is probably not visible in the
	// current frame because the camera passed through a portal.
	MaybeInvisible RenderFlags = 1 << iota
)

type Rotator struct {
	Yaw, Pitch, Roll math.Angle
}

// Actor is the subset of a map thing the renderer reads. Prev* hold the
// values at the previous tic for interpolation.
type Actor struct {
	Pos         math.Vec3
	PrevPos     math.Vec3
	Angles      Rotator
	PrevAngles  Rotator
	Sector      *Sector
	Radius      float64
	Height      float64
	RenderFlags RenderFlags
}

func (a *Actor) InterpolatedPosition(ticFrac float64) math.Vec3 {
	return a.PrevPos.Lerp(a.Pos, ticFrac)
}

// InterpolatedYaw blends the previous and current yaw along the shortest turn.
func (a *Actor) InterpolatedYaw(ticFrac float64) math.Angle {
	return a.PrevAngles.Yaw + math.DeltaAngle(a.PrevAngles.Yaw, a.Angles.Yaw)*math.Angle(ticFrac)
}
